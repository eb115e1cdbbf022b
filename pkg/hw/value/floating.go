package value

import (
	"math"
	"math/big"

	"github.com/Manu343726/isasim/pkg/utils"
)

// Splits a floating pattern into an integer significand (with the implicit one), a power of two exponent
// and the sign, so that the encoded number is significand * 2^exponent
func floatingComponents(f Format, pattern *big.Int) (significand *big.Int, exponent int, negative bool) {
	view := utils.CreateBitView(pattern)
	storedExponent := view.Read(f.MantissaWidth, f.ExponentWidth)

	significand = view.Read(0, f.MantissaWidth)
	significand.Or(significand, utils.BigPow2(f.MantissaWidth))
	exponent = int(storedExponent.Int64()) - f.Bias() - f.MantissaWidth
	negative = pattern.Bit(f.Width-1) == 1

	return significand, exponent, negative
}

// sign * 2^(exponent - bias) * (1 + mantissa / 2^m), rounded to the nearest float64.
// There are no subnormals: a zero exponent field still carries the implicit one.
func decodeFloating(f Format, pattern *big.Int) float64 {
	significand, exponent, negative := floatingComponents(f, pattern)

	result := new(big.Float).SetInt(significand)
	result.SetMantExp(result, exponent)

	if negative {
		result.Neg(result)
	}

	x, _ := result.Float64()
	return x
}

// Encodes x truncating the mantissa toward zero. Out of range exponents saturate to the
// exponent field bounds, zero encodes as an all zeros pattern, infinities saturate to
// the largest pattern of their sign and NaN leaves the bits unknown.
func encodeFloating(b *Bits, f Format, x float64) {
	if math.IsNaN(x) {
		b.SetUnknown()
		return
	}

	pattern := new(big.Int)
	view := utils.CreateBitView(pattern)
	maxExponent := utils.BigAllOnes(f.ExponentWidth)

	var exponent, mantissa *big.Int

	switch {
	case x == 0:
		exponent, mantissa = new(big.Int), new(big.Int)
	case math.IsInf(x, 0):
		exponent, mantissa = maxExponent, utils.BigAllOnes(f.MantissaWidth)
	default:
		fraction, exp := math.Frexp(x)

		// fraction is in [0.5, 1), 2|fraction| - 1 is exact
		scaled := new(big.Float).SetFloat64(2*math.Abs(fraction) - 1)
		mantissa, _ = scaled.SetMantExp(scaled, f.MantissaWidth).Int(nil)

		exponent = big.NewInt(int64(exp - 1 + f.Bias()))
		if exponent.Sign() < 0 {
			exponent.SetInt64(0)
		}
		if exponent.Cmp(maxExponent) > 0 {
			exponent.Set(maxExponent)
		}
	}

	if x < 0 {
		view.SetBit(f.Width - 1)
	}

	view.Write(exponent, f.MantissaWidth, f.ExponentWidth)
	view.Write(mantissa, 0, f.MantissaWidth)
	b.SetPattern(pattern)
}

func (v *Value) mustBeFloating(what string) error {
	if !v.format.IsFloating() {
		return utils.MakeError(ErrTypeMismatch, "%v has no %v", v.format, what)
	}

	if v.IsUnknown() {
		return utils.MakeError(ErrUnknownOperand, "cannot read the %v of X %v", what, v.format)
	}

	return nil
}

// Exponent bias of a floating value
func (v *Value) Bias() (int, error) {
	if !v.format.IsFloating() {
		return 0, utils.MakeError(ErrTypeMismatch, "%v has no exponent bias", v.format)
	}

	return v.format.Bias(), nil
}

// Unbiased exponent of a floating value
func (v *Value) Exponent() (int, error) {
	if err := v.mustBeFloating("exponent"); err != nil {
		return 0, err
	}

	stored := utils.CreateBitView(v.bits.raw()).Read(v.format.MantissaWidth, v.format.ExponentWidth)
	return int(stored.Int64()) - v.format.Bias(), nil
}

// Mantissa of a floating value as a fraction in [0, 1), without the implicit one
func (v *Value) Mantissa() (float64, error) {
	if err := v.mustBeFloating("mantissa"); err != nil {
		return 0, err
	}

	stored := new(big.Float).SetInt(utils.CreateBitView(v.bits.raw()).Read(0, v.format.MantissaWidth))
	fraction, _ := stored.SetMantExp(stored, -v.format.MantissaWidth).Float64()
	return fraction, nil
}

// Sign bit of a floating value, 1 for negative numbers
func (v *Value) Sign() (uint, error) {
	if err := v.mustBeFloating("sign"); err != nil {
		return 0, err
	}

	return v.bits.raw().Bit(v.Width() - 1), nil
}
