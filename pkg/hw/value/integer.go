package value

import (
	"math/big"

	"github.com/Manu343726/isasim/pkg/utils"
)

// Two's complement decode of a pattern according to the signedness of the format
func decodeInteger(f Format, pattern *big.Int) *big.Int {
	result := new(big.Int).Set(pattern)

	if f.Kind == Kind_Signed && pattern.Bit(f.Width-1) == 1 {
		result.Sub(result, utils.BigPow2(f.Width))
	}

	return result
}

// Stores v mod 2^width: the magnitude is masked first, then negated in two's complement if v is negative
func encodeInteger(b *Bits, v *big.Int) {
	pattern := new(big.Int).Abs(v)
	pattern.And(pattern, utils.BigAllOnes(b.Width()))

	if v.Sign() < 0 {
		pattern.Sub(utils.BigPow2(b.Width()), pattern)
	}

	b.SetPattern(pattern)
}

// Full precision product of two integer values. The result is as wide as both operands together
// and keeps the signedness of a. X operands produce an X result.
func MulExtend(a *Value, b *Value) (*Value, error) {
	if !a.format.IsInteger() || !b.format.IsInteger() {
		return nil, utils.MakeError(ErrTypeMismatch, "cannot widen %v * %v", a.format, b.format)
	}

	format := Unsigned(a.Width() + b.Width())
	if a.format.Kind == Kind_Signed {
		format = Signed(format.Width)
	}

	result := New(format)

	if a.IsUnknown() || b.IsUnknown() {
		return result, nil
	}

	product := new(big.Int).Mul(decodeInteger(a.format, a.bits.raw()), decodeInteger(b.format, b.bits.raw()))
	encodeInteger(&result.bits, product)
	return result, nil
}

// Widening multiplication, see MulExtend()
func (v *Value) MulExtend(other *Value) (*Value, error) {
	return MulExtend(v, other)
}
