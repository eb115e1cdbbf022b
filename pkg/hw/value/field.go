package value

import (
	"fmt"
	"math/big"

	"github.com/Manu343726/isasim/pkg/utils"
)

// Orders the endpoints of a bit range so that the larger one is the msb
func normalizeRange(msb, lsb int) (int, int) {
	if msb < 0 || lsb < 0 {
		panic(fmt.Sprintf("negative bit index in range [%v:%v]", msb, lsb))
	}

	if msb < lsb {
		return lsb, msb
	}

	return msb, lsb
}

// Format of a field extracted from this value: integer fields keep the signedness of
// the value, floating fields are raw unsigned bit strings
func (v *Value) fieldFormat(width int) Format {
	if v.format.Kind == Kind_Signed {
		return Signed(width)
	}

	return Unsigned(width)
}

// Reads the inclusive bit range [msb:lsb] as a new value. Endpoints can be given in any order.
// Fields of X values are X.
func (v *Value) Field(msb, lsb int) *Value {
	msb, lsb = normalizeRange(msb, lsb)
	result := New(v.fieldFormat(msb - lsb + 1))

	if !v.IsUnknown() {
		result.bits.SetPattern(utils.CreateBitView(v.bits.raw()).Read(lsb, result.Width()))
	}

	return result
}

// Reads a single bit as a one bit unsigned value
func (v *Value) Bit(i int) *Value {
	msb, lsb := normalizeRange(i, i)
	result := New(Unsigned(1))

	if !v.IsUnknown() {
		result.bits.SetPattern(utils.CreateBitView(v.bits.raw()).Read(lsb, msb-lsb+1))
	}

	return result
}

// Writes the low bits of field into the inclusive bit range [msb:lsb]. field can be a native
// integer or a value, whose raw pattern is written. Writing nil or an X value leaves the
// destination untouched. An X destination becomes an all zeros pattern before the write.
func (v *Value) SetField(msb, lsb int, field any) error {
	msb, lsb = normalizeRange(msb, lsb)

	if field == nil {
		return nil
	}

	pattern, err := fieldPattern(field)
	if err != nil {
		return err
	}

	if pattern == nil {
		return nil
	}

	v.bits.materialize()
	updated := new(big.Int).Set(v.bits.raw())
	utils.CreateBitView(updated).Write(pattern, lsb, msb-lsb+1)
	v.bits.SetPattern(updated)
	return nil
}

// Writes a single bit, see SetField()
func (v *Value) SetBit(i int, bit any) error {
	return v.SetField(i, i, bit)
}

// Raw pattern written by a field store, nil if nothing must be written
func fieldPattern(field any) (*big.Int, error) {
	operand, err := OperandOf(field)
	if err != nil {
		return nil, unaryTypeMismatch("field write", field)
	}

	switch operand.Kind() {
	case Operand_Value:
		if operand.IsUnknown() {
			return nil, nil
		}

		return operand.Value().bits.raw(), nil
	case Operand_Native:
		native := operand.native.normalized()
		if !native.IsIntegral() {
			return nil, unaryTypeMismatch("field write", field)
		}

		return native.i, nil
	}

	return nil, unaryTypeMismatch("field write", field)
}

// Most significant bit. Fails with ErrUnknownOperand if the value is X.
func (v *Value) MSB() (uint, error) {
	if v.IsUnknown() {
		return 0, utils.MakeError(ErrUnknownOperand, "cannot read the msb of X %v", v.format)
	}

	return v.bits.raw().Bit(v.Width() - 1), nil
}

// Sets or clears the most significant bit, see SetField()
func (v *Value) SetMSB(bit uint) {
	v.bits.materialize()

	updated := new(big.Int).Set(v.bits.raw())
	updated.SetBit(updated, v.Width()-1, bit&1)
	v.bits.SetPattern(updated)
}
