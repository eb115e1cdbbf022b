package regfile

import (
	"math/big"
	"math/rand"

	"github.com/Manu343726/isasim/pkg/hw/value"
	"github.com/Manu343726/isasim/pkg/utils"
)

const (
	MinVectorLength = 128
	MaxVectorLength = 2048
)

type Settings struct {
	// Scalable vector length in bits, a multiple of 128 in [128, 2048]
	VectorLength int

	PredicateStrategy PredicateStrategy

	// Seed of the random predicate strategy, zero picks a time based seed
	Seed int64

	// Registers start as zero instead of X. Predicates follow PredicateStrategy.
	ResetZero bool
}

func DefaultSettings() Settings {
	return Settings{
		VectorLength:      256,
		PredicateStrategy: PredicateStrategy_AllTrue,
	}
}

func (s Settings) Validate() error {
	if s.VectorLength < MinVectorLength || s.VectorLength > MaxVectorLength || s.VectorLength%128 != 0 {
		return utils.MakeError(ErrInvalidSize, "vector length must be a multiple of 128 in range [%v, %v], got %v", MinVectorLength, MaxVectorLength, s.VectorLength)
	}

	if s.PredicateStrategy > PredicateStrategy_None {
		return utils.MakeError(ErrInvalidStrategy, "%d", uint(s.PredicateStrategy))
	}

	return nil
}

// AArch64 register file with general purpose, SIMD&FP, scalable vector and predicate registers.
// Registers hold unsigned values and are read and written through their low bits.
type RegisterFile struct {
	settings Settings
	rng      *rand.Rand

	r []*value.Value
	z []*value.Value
	p []*value.Value
}

// Creates a register file and resets it
func New(settings Settings) (*RegisterFile, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	rf := &RegisterFile{
		settings: settings,
		rng:      newRand(settings.Seed),
	}

	rf.r = rf.makeRegisters(RegisterClass_GeneralPurpose, ZeroRegister)
	rf.z = rf.makeRegisters(RegisterClass_ScalableVector, Descriptor(RegisterClass_ScalableVector).TotalRegisters)
	rf.p = rf.makeRegisters(RegisterClass_Predicate, Descriptor(RegisterClass_Predicate).TotalRegisters)
	rf.Reset()

	return rf, nil
}

func (rf *RegisterFile) makeRegisters(rc RegisterClass, count int) []*value.Value {
	width := rf.Width(rc)

	return utils.Iota(count, func(int) *value.Value {
		return value.New(value.Unsigned(width))
	})
}

// Sets all registers to their reset contents and initializes predicates
func (rf *RegisterFile) Reset() {
	for _, registers := range [][]*value.Value{rf.r, rf.z, rf.p} {
		for _, register := range registers {
			if rf.settings.ResetZero {
				register.SetUint64(0)
			} else {
				register.SetUnknown()
			}
		}
	}

	rf.InitPredicates(rf.settings.PredicateStrategy)
}

func (rf *RegisterFile) Settings() Settings {
	return rf.settings
}

func (rf *RegisterFile) VectorLength() int {
	return rf.settings.VectorLength
}

// Width in bits of the registers of a class
func (rf *RegisterFile) Width(rc RegisterClass) int {
	return Descriptor(rc).Width(rf.settings.VectorLength)
}

// Returns the storage backing a register, nil for the zero register
func (rf *RegisterFile) storage(rc RegisterClass, n int) (*value.Value, error) {
	if rc >= TOTAL_REGISTER_CLASSES {
		return nil, utils.MakeError(ErrUnknownRegister, "invalid register class %d", uint(rc))
	}

	descriptor := Descriptor(rc)

	if n < 0 || n >= descriptor.TotalRegisters {
		return nil, utils.MakeError(ErrUnknownRegister, "register with index '%v' not found, %v has only %v registers", n, rc, descriptor.TotalRegisters)
	}

	switch rc {
	case RegisterClass_GeneralPurpose:
		if n == ZeroRegister {
			return nil, nil
		}
		return rf.r[n], nil
	case RegisterClass_SIMD, RegisterClass_ScalableVector:
		return rf.z[n], nil
	case RegisterClass_Predicate:
		return rf.p[n], nil
	}

	panic("unreachable")
}

func (rf *RegisterFile) checkSize(rc RegisterClass, size int) error {
	if width := rf.Width(rc); size < 1 || size > width {
		return utils.MakeError(ErrInvalidSize, "cannot access %v bits of %v, registers are %v bits wide", size, rc, width)
	}

	return nil
}

// Reads the low size bits of register n of a class as an unsigned value.
// The zero register reads as zero.
func (rf *RegisterFile) Read(rc RegisterClass, n int, size int) (*value.Value, error) {
	register, err := rf.storage(rc, n)
	if err != nil {
		return nil, err
	}

	if err := rf.checkSize(rc, size); err != nil {
		return nil, err
	}

	if register == nil {
		return value.UInt(size, 0), nil
	}

	return register.Field(size-1, 0), nil
}

// Writes the low size bits of register n of a class. v can be a native integer or a value,
// whose raw pattern is written. Writes to the zero register and writes of X values are ignored.
func (rf *RegisterFile) Write(rc RegisterClass, n int, size int, v any) error {
	register, err := rf.storage(rc, n)
	if err != nil {
		return err
	}

	if err := rf.checkSize(rc, size); err != nil {
		return err
	}

	if register == nil {
		return nil
	}

	return register.SetField(size-1, 0, v)
}

func (rf *RegisterFile) ReadR(n int, size int) (*value.Value, error) {
	return rf.Read(RegisterClass_GeneralPurpose, n, size)
}

func (rf *RegisterFile) WriteR(n int, size int, v any) error {
	return rf.Write(RegisterClass_GeneralPurpose, n, size, v)
}

func (rf *RegisterFile) ReadV(n int, size int) (*value.Value, error) {
	return rf.Read(RegisterClass_SIMD, n, size)
}

func (rf *RegisterFile) WriteV(n int, size int, v any) error {
	return rf.Write(RegisterClass_SIMD, n, size, v)
}

func (rf *RegisterFile) ReadZ(n int, size int) (*value.Value, error) {
	return rf.Read(RegisterClass_ScalableVector, n, size)
}

func (rf *RegisterFile) WriteZ(n int, size int, v any) error {
	return rf.Write(RegisterClass_ScalableVector, n, size, v)
}

func (rf *RegisterFile) ReadP(n int, size int) (*value.Value, error) {
	return rf.Read(RegisterClass_Predicate, n, size)
}

func (rf *RegisterFile) WriteP(n int, size int, v any) error {
	return rf.Write(RegisterClass_Predicate, n, size, v)
}

// Access size of a register reference, resolving full width references
func (rf *RegisterFile) Size(r Register) int {
	if r.Size == 0 {
		return rf.Width(r.Class)
	}

	return r.Size
}

// Reads a named register, see Read()
func (rf *RegisterFile) ReadRegister(r Register) (*value.Value, error) {
	return rf.Read(r.Class, r.Index, rf.Size(r))
}

// Writes a named register, see Write()
func (rf *RegisterFile) WriteRegister(r Register, v any) error {
	return rf.Write(r.Class, r.Index, rf.Size(r), v)
}

// Turns the whole storage of a register into X. The zero register is left untouched.
func (rf *RegisterFile) Invalidate(r Register) error {
	register, err := rf.storage(r.Class, r.Index)
	if err != nil || register == nil {
		return err
	}

	register.SetUnknown()
	return nil
}

// Overwrites the whole storage of a register with a raw pattern
func (rf *RegisterFile) setStorage(r Register, pattern *big.Int) error {
	register, err := rf.storage(r.Class, r.Index)
	if err != nil || register == nil {
		return err
	}

	register.SetPattern(pattern)
	return nil
}
