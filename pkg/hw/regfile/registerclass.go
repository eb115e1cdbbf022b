package regfile

import (
	"fmt"
)

type RegisterClass uint

const (
	// 64 bit general purpose registers, X0-X30 plus the zero register
	RegisterClass_GeneralPurpose RegisterClass = iota

	// 128 bit SIMD&FP registers, aliasing the low bits of the scalable vector registers
	RegisterClass_SIMD

	// Scalable vector registers, VL bits wide
	RegisterClass_ScalableVector

	// Scalable predicate registers, one bit per vector byte
	RegisterClass_Predicate

	// Number of register classes
	TOTAL_REGISTER_CLASSES
)

func (rc RegisterClass) String() string {
	switch rc {
	case RegisterClass_GeneralPurpose:
		return "general purpose registers"
	case RegisterClass_SIMD:
		return "SIMD&FP registers"
	case RegisterClass_ScalableVector:
		return "scalable vector registers"
	case RegisterClass_Predicate:
		return "scalable predicate registers"
	}

	panic("unreachable")
}

// Returns all register classes
func RegisterClasses() []RegisterClass {
	return []RegisterClass{
		RegisterClass_GeneralPurpose,
		RegisterClass_SIMD,
		RegisterClass_ScalableVector,
		RegisterClass_Predicate,
	}
}

// Index of the general purpose register hardwired to zero
const ZeroRegister = 31

// A named way of accessing the registers of a class with a fixed access size
type RegisterView struct {
	// Register name prefix, followed by the register index
	Prefix string

	// Access size in bits, zero means the full class width
	Size int

	// Name of the view of the zero register, if any
	ZeroRegisterName string

	Description string
}

type RegisterClassDescriptor struct {
	Class       RegisterClass
	Description string

	// Number of addressable registers
	TotalRegisters int

	// Ways of naming registers of the class, the first one is the canonical name
	Views []RegisterView
}

// Returns the width in bits of the registers of the class given a vector length
func (d *RegisterClassDescriptor) Width(vl int) int {
	switch d.Class {
	case RegisterClass_GeneralPurpose:
		return 64
	case RegisterClass_SIMD:
		return 128
	case RegisterClass_ScalableVector:
		return vl
	case RegisterClass_Predicate:
		return vl / 8
	}

	panic("unreachable")
}

// Returns the canonical name of a register of the class
func (d *RegisterClassDescriptor) RegisterName(index int) string {
	view := d.Views[0]

	if index == ZeroRegister && view.ZeroRegisterName != "" {
		return view.ZeroRegisterName
	}

	return view.Prefix + fmt.Sprint(index)
}

var registerClassDescriptors = map[RegisterClass]*RegisterClassDescriptor{
	RegisterClass_GeneralPurpose: {
		Class:          RegisterClass_GeneralPurpose,
		Description:    "64 bit integer registers. Index 31 is the zero register: reads return zero and writes are ignored",
		TotalRegisters: 32,
		Views: []RegisterView{
			{Prefix: "x", Size: 64, ZeroRegisterName: "xzr", Description: "64 bit access"},
			{Prefix: "w", Size: 32, ZeroRegisterName: "wzr", Description: "32 bit access to the low half"},
		},
	},
	RegisterClass_SIMD: {
		Class:          RegisterClass_SIMD,
		Description:    "128 bit SIMD&FP registers, sharing storage with the low 128 bits of the Z registers",
		TotalRegisters: 32,
		Views: []RegisterView{
			{Prefix: "v", Size: 128, Description: "128 bit vector access"},
			{Prefix: "q", Size: 128, Description: "128 bit scalar access"},
			{Prefix: "d", Size: 64, Description: "64 bit scalar access"},
			{Prefix: "s", Size: 32, Description: "32 bit scalar access"},
			{Prefix: "h", Size: 16, Description: "16 bit scalar access"},
			{Prefix: "b", Size: 8, Description: "8 bit scalar access"},
		},
	},
	RegisterClass_ScalableVector: {
		Class:          RegisterClass_ScalableVector,
		Description:    "scalable vector registers, VL bits wide",
		TotalRegisters: 32,
		Views: []RegisterView{
			{Prefix: "z", Description: "full vector access"},
		},
	},
	RegisterClass_Predicate: {
		Class:          RegisterClass_Predicate,
		Description:    "scalable predicate registers, VL/8 bits wide (one bit per vector byte)",
		TotalRegisters: 16,
		Views: []RegisterView{
			{Prefix: "p", Description: "full predicate access"},
		},
	},
}

// Returns the descriptor of a register class
func Descriptor(rc RegisterClass) *RegisterClassDescriptor {
	if d, ok := registerClassDescriptors[rc]; ok {
		return d
	}

	panic("unreachable")
}
