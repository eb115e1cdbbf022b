package value

import (
	"math/big"
	"strings"

	"github.com/Manu343726/isasim/pkg/utils"
)

// Comparison template with don't care bits: a value matches if its pattern masked with Mask equals Expected
type MaskedPattern struct {
	Width    int
	Expected *big.Int
	Mask     *big.Int
}

func NewMaskedPattern(width int, expected *big.Int, mask *big.Int) MaskedPattern {
	return MaskedPattern{
		Width:    width,
		Expected: new(big.Int).Set(expected),
		Mask:     new(big.Int).Set(mask),
	}
}

// Parses a pattern written as binary digits, most significant first. x digits are don't care bits,
// underscores are ignored and an optional 0b prefix is allowed. "10xx" matches 0b1000 to 0b1011.
func ParseMaskedPattern(s string) (MaskedPattern, error) {
	digits := strings.ReplaceAll(strings.TrimPrefix(strings.ToLower(s), "0b"), "_", "")

	if len(digits) == 0 {
		return MaskedPattern{}, utils.MakeError(ErrTypeMismatch, "empty masked pattern %q", s)
	}

	expected, mask := new(big.Int), new(big.Int)

	for i, digit := range digits {
		bit := len(digits) - 1 - i

		switch digit {
		case '1':
			expected.SetBit(expected, bit, 1)
			mask.SetBit(mask, bit, 1)
		case '0':
			mask.SetBit(mask, bit, 1)
		case 'x':
		default:
			return MaskedPattern{}, utils.MakeError(ErrTypeMismatch, "invalid digit %q in masked pattern %q", digit, s)
		}
	}

	return MaskedPattern{Width: len(digits), Expected: expected, Mask: mask}, nil
}

// Returns true if the pattern of v masked with Mask equals Expected. Fails with ErrUnknownOperand if v is X.
func (m MaskedPattern) Matches(v *Value) (bool, error) {
	if v.IsUnknown() {
		return false, utils.MakeError(ErrUnknownOperand, "cannot match X %v against %v", v.format, m)
	}

	masked := new(big.Int).And(v.bits.raw(), m.Mask)
	return masked.Cmp(m.Expected) == 0, nil
}

// Binary digits of the pattern, x for don't care bits
func (m MaskedPattern) String() string {
	var b strings.Builder

	for bit := m.Width - 1; bit >= 0; bit-- {
		switch {
		case m.Mask.Bit(bit) == 0:
			b.WriteByte('x')
		case m.Expected.Bit(bit) == 1:
			b.WriteByte('1')
		default:
			b.WriteByte('0')
		}
	}

	return b.String()
}
