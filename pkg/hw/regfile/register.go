package regfile

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Manu343726/isasim/pkg/utils"
)

// A register reference as written in assembly: a class, an index and an access size
type Register struct {
	Class RegisterClass
	Index int

	// Access size in bits, zero means the full class width
	Size int

	Name string
}

func (r Register) String() string {
	return r.Name
}

var registerNamePattern = regexp.MustCompile(`^([a-z]+)(\d+)$`)

// Parses a register name (x0, w3, xzr, v7, d7, z31, p15, ...)
func ParseRegister(name string) (Register, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	match := registerNamePattern.FindStringSubmatch(name)

	for _, rc := range RegisterClasses() {
		descriptor := Descriptor(rc)

		for _, view := range descriptor.Views {
			if view.ZeroRegisterName != "" && name == view.ZeroRegisterName {
				return Register{Class: rc, Index: ZeroRegister, Size: view.Size, Name: name}, nil
			}

			if match == nil || match[1] != view.Prefix {
				continue
			}

			index, err := strconv.Atoi(match[2])
			if err != nil || index >= descriptor.TotalRegisters {
				return Register{}, utils.MakeError(ErrUnknownRegister, "'%v': %v has only %v registers", name, rc, descriptor.TotalRegisters)
			}

			return Register{Class: rc, Index: index, Size: view.Size, Name: name}, nil
		}
	}

	return Register{}, utils.MakeError(ErrUnknownRegister, "'%v'", name)
}

// Returns the canonical names of all registers with their own storage, in class order
func StorageRegisters() []Register {
	var registers []Register

	for _, rc := range []RegisterClass{RegisterClass_GeneralPurpose, RegisterClass_ScalableVector, RegisterClass_Predicate} {
		descriptor := Descriptor(rc)

		for index := range descriptor.TotalRegisters {
			if rc == RegisterClass_GeneralPurpose && index == ZeroRegister {
				continue
			}

			registers = append(registers, Register{Class: rc, Index: index, Name: descriptor.RegisterName(index)})
		}
	}

	return registers
}
