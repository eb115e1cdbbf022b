package value

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_UInt8Scenario(t *testing.T) {
	a, b := UInt8(8), UInt8(10)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(18), mustInt(t, sum))

	difference, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, int64(254), mustInt(t, difference))

	product, err := a.Mul(b)
	require.NoError(t, err)
	assert.Equal(t, int64(80), mustInt(t, product))

	assert.Equal(t, "0x8", a.Hex())
	assert.Equal(t, int64(8), mustInt(t, a), "operands must not be mutated")
	assert.Equal(t, int64(10), mustInt(t, b), "operands must not be mutated")
}

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		lhs      *Value
		op       BinaryOp
		rhs      any
		expected int64
	}{
		{name: "add native", lhs: UInt8(250), op: Op_Add, rhs: 10, expected: 4},
		{name: "add real truncates", lhs: SInt8(1), op: Op_Add, rhs: 1.9, expected: 2},
		{name: "add big", lhs: SInt64(1), op: Op_Add, rhs: big.NewInt(-2), expected: -1},
		{name: "sub signed", lhs: SInt8(-100), op: Op_Sub, rhs: 100, expected: 56},
		{name: "mul by value", lhs: SInt16(-3), op: Op_Mul, rhs: UInt8(7), expected: -21},
		{name: "true division truncates", lhs: UInt8(10), op: Op_TrueDiv, rhs: 4, expected: 2},
		{name: "true division toward zero", lhs: SInt8(-7), op: Op_TrueDiv, rhs: 2, expected: -3},
		{name: "floor division", lhs: SInt8(-7), op: Op_FloorDiv, rhs: 2, expected: -4},
		{name: "floor division by real", lhs: SInt8(7), op: Op_FloorDiv, rhs: 0.5, expected: 14},
		{name: "mod sign of divisor", lhs: SInt8(-7), op: Op_Mod, rhs: 2, expected: 1},
		{name: "mod negative divisor", lhs: SInt8(7), op: Op_Mod, rhs: -2, expected: -1},
		{name: "mod by value", lhs: UInt8(200), op: Op_Mod, rhs: UInt8(7), expected: 4},
		{name: "pow", lhs: UInt8(3), op: Op_Pow, rhs: 4, expected: 81},
		{name: "pow wraps", lhs: UInt8(2), op: Op_Pow, rhs: 10, expected: 0},
		{name: "pow signed base", lhs: SInt8(-2), op: Op_Pow, rhs: 3, expected: -8},
		{name: "pow negative exponent", lhs: SInt8(2), op: Op_Pow, rhs: -1, expected: 0},
		{name: "pow unit base negative exponent", lhs: SInt8(-1), op: Op_Pow, rhs: -3, expected: -1},
		{name: "shr signed is arithmetic", lhs: SInt8(-8), op: Op_Shr, rhs: 1, expected: -4},
		{name: "shr unsigned", lhs: UInt8(0x80), op: Op_Shr, rhs: 7, expected: 1},
		{name: "shl drops high bits", lhs: UInt8(0x81), op: Op_Shl, rhs: 1, expected: 2},
		{name: "shl past width", lhs: UInt8(1), op: Op_Shl, rhs: 100, expected: 0},
		{name: "shr past width keeps sign", lhs: SInt8(-1), op: Op_Shr, rhs: 100, expected: -1},
		{name: "shift by value", lhs: UInt16(1), op: Op_Shl, rhs: UInt8(4), expected: 16},
		{name: "shl huge count", lhs: UInt8(1), op: Op_Shl, rhs: int64(1) << 40, expected: 0},
		{name: "shr huge count keeps sign", lhs: SInt8(-8), op: Op_Shr, rhs: int64(1) << 40, expected: -1},
		{name: "shift by signed value uses pattern", lhs: UInt8(1), op: Op_Shl, rhs: SInt8(-1), expected: 0},
		{name: "shr by signed value uses pattern", lhs: SInt8(-8), op: Op_Shr, rhs: SInt8(-1), expected: -1},
		{name: "shift by floating value uses pattern", lhs: UInt16(1), op: Op_Shl, rhs: Half(2), expected: 0},
		{name: "shift by floating value small pattern", lhs: UInt32(1), op: Op_Shl, rhs: FP8E5M2(0), expected: 1},
		{name: "add zero native", lhs: UInt8(1), op: Op_Add, rhs: Native{}, expected: 1},
		{name: "shift by zero native", lhs: UInt8(3), op: Op_Shl, rhs: Native{}, expected: 3},
		{name: "or zero native", lhs: UInt8(3), op: Op_Or, rhs: Native{}, expected: 3},
		{name: "and", lhs: UInt8(0xf0), op: Op_And, rhs: 0x3c, expected: 0x30},
		{name: "or", lhs: UInt8(0xf0), op: Op_Or, rhs: 0x0f, expected: 0xff},
		{name: "xor", lhs: UInt8(0xff), op: Op_Xor, rhs: UInt8(0x0f), expected: 0xf0},
		{name: "and negative native is two's complement", lhs: UInt16(0x1234), op: Op_And, rhs: -16, expected: 0x1230},
		{name: "and on signed pattern", lhs: SInt8(-1), op: Op_And, rhs: 0x0f, expected: 15},
		{name: "or into sign bit", lhs: SInt8(0), op: Op_Or, rhs: 0x80, expected: -128},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, err := test.lhs.Apply(test.op, test.rhs)
			require.NoError(t, err)
			assert.Equal(t, test.lhs.Format(), result.Format())
			assert.Equal(t, test.expected, mustInt(t, result))
		})
	}
}

func TestApply_Floating(t *testing.T) {
	tests := []struct {
		name     string
		lhs      *Value
		op       BinaryOp
		rhs      any
		expected float64
	}{
		{name: "add", lhs: Single(1.5), op: Op_Add, rhs: 0.25, expected: 1.75},
		{name: "add integer value", lhs: Single(1.5), op: Op_Add, rhs: UInt8(2), expected: 3.5},
		{name: "true division", lhs: Single(1), op: Op_TrueDiv, rhs: 4, expected: 0.25},
		{name: "floor division", lhs: Single(-7), op: Op_FloorDiv, rhs: 2, expected: -4},
		{name: "mod", lhs: Single(7.5), op: Op_Mod, rhs: 2, expected: 1.5},
		{name: "mod by floating value", lhs: Single(7.5), op: Op_Mod, rhs: Single(-2), expected: -0.5},
		{name: "pow truncates", lhs: Single(1.5), op: Op_Pow, rhs: 2, expected: 2},
		{name: "shr shifts the pattern", lhs: Single(2), op: Op_Shr, rhs: 1, expected: 1.0 / (1 << 63)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, err := test.lhs.Apply(test.op, test.rhs)
			require.NoError(t, err)
			assert.Equal(t, test.expected, mustFloat(t, result))
		})
	}
}

func TestApply_FloatingBitwiseUsesPattern(t *testing.T) {
	// Clearing the sign bit of a half
	result, err := Half(-1.5).And(0x7fff)
	require.NoError(t, err)
	assert.Equal(t, 1.5, mustFloat(t, result))

	result, err = Half(1.5).Xor(Half(-1.5))
	require.NoError(t, err)
	assert.Equal(t, uint64(0x8000), mustPattern(t, result))
}

func TestApply_UnknownPropagates(t *testing.T) {
	x := UInt8()

	for _, op := range BinaryOps() {
		t.Run(op.String(), func(t *testing.T) {
			result, err := x.Apply(op, 1)
			require.NoError(t, err)
			assert.True(t, result.IsUnknown())
			assert.Equal(t, x.Format(), result.Format())

			result, err = UInt8(3).Apply(op, SInt16())
			require.NoError(t, err)
			assert.True(t, result.IsUnknown())
			assert.Equal(t, UInt8Format, result.Format())
		})
	}

	assert.True(t, x.Neg().IsUnknown())
	assert.True(t, x.Invert().IsUnknown())
	assert.True(t, x.Pos().IsUnknown())

	_, err := x.Equal(1)
	assert.ErrorIs(t, err, ErrUnknownOperand)

	_, err = UInt8(1).Less(x)
	assert.ErrorIs(t, err, ErrUnknownOperand)

	_, err = x.Bool()
	assert.ErrorIs(t, err, ErrUnknownOperand)

	_, err = x.MSB()
	assert.ErrorIs(t, err, ErrUnknownOperand)
}

func TestApply_UnknownDivisionByZero(t *testing.T) {
	result, err := UInt8().TrueDiv(0)
	require.NoError(t, err)
	assert.True(t, result.IsUnknown())
}

func TestApply_Errors(t *testing.T) {
	masked, err := ParseMaskedPattern("1x")
	require.NoError(t, err)

	tests := []struct {
		name string
		lhs  *Value
		op   BinaryOp
		rhs  any
		err  error
	}{
		{name: "string operand", lhs: UInt8(1), op: Op_Add, rhs: "1", err: ErrTypeMismatch},
		{name: "nil operand", lhs: UInt8(1), op: Op_Add, rhs: nil, err: ErrTypeMismatch},
		{name: "masked operand", lhs: UInt8(1), op: Op_Add, rhs: masked, err: ErrTypeMismatch},
		{name: "mod by real", lhs: UInt8(1), op: Op_Mod, rhs: 1.5, err: ErrTypeMismatch},
		{name: "pow by real", lhs: Single(2), op: Op_Pow, rhs: 2.0, err: ErrTypeMismatch},
		{name: "and real", lhs: UInt8(1), op: Op_And, rhs: 1.0, err: ErrTypeMismatch},
		{name: "shift by real", lhs: UInt8(1), op: Op_Shl, rhs: 1.0, err: ErrTypeMismatch},
		{name: "type is checked before state", lhs: UInt8(), op: Op_Mod, rhs: 1.5, err: ErrTypeMismatch},
		{name: "division by zero", lhs: UInt8(1), op: Op_TrueDiv, rhs: 0, err: ErrDivisionByZero},
		{name: "floor division by zero value", lhs: SInt8(1), op: Op_FloorDiv, rhs: SInt8(0), err: ErrDivisionByZero},
		{name: "mod by zero", lhs: UInt8(1), op: Op_Mod, rhs: 0, err: ErrDivisionByZero},
		{name: "floating division by zero", lhs: Single(1), op: Op_TrueDiv, rhs: 0.0, err: ErrDivisionByZero},
		{name: "zero to a negative power", lhs: SInt8(0), op: Op_Pow, rhs: -1, err: ErrDivisionByZero},
		{name: "negative shift", lhs: UInt8(1), op: Op_Shl, rhs: -1, err: ErrInvalidShift},
		{name: "negative big shift", lhs: SInt8(1), op: Op_Shr, rhs: big.NewInt(-1), err: ErrInvalidShift},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := test.lhs.Apply(test.op, test.rhs)
			assert.ErrorIs(t, err, test.err)
		})
	}
}

func TestApplyInPlace(t *testing.T) {
	v := UInt8(250)
	require.NoError(t, v.ApplyInPlace(Op_Add, 10))
	assert.Equal(t, int64(4), mustInt(t, v))

	err := v.ApplyInPlace(Op_Mod, 1.5)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.Equal(t, int64(4), mustInt(t, v), "failed operations must not touch the value")

	err = v.ApplyInPlace(Op_FloorDiv, 0)
	assert.ErrorIs(t, err, ErrDivisionByZero)
	assert.Equal(t, int64(4), mustInt(t, v))

	other := UInt8(1)
	require.NoError(t, v.ApplyInPlace(Op_Add, other))
	require.NoError(t, other.ApplyInPlace(Op_Add, 1))
	assert.Equal(t, int64(5), mustInt(t, v))
	assert.Equal(t, int64(2), mustInt(t, other))

	require.NoError(t, v.ApplyInPlace(Op_Xor, UInt8()))
	assert.True(t, v.IsUnknown())
}

func TestUnary(t *testing.T) {
	assert.Equal(t, int64(255), mustInt(t, UInt8(1).Neg()))
	assert.Equal(t, int64(-128), mustInt(t, SInt8(-128).Neg()))
	assert.Equal(t, -1.5, mustFloat(t, Half(1.5).Neg()))
	assert.Equal(t, int64(0xf0), mustInt(t, UInt8(0x0f).Invert()))
	assert.Equal(t, int64(-1), mustInt(t, SInt8(0).Invert()))
	assert.Equal(t, uint64(0x41ff), mustPattern(t, Half(-1.5).Invert()))

	v := SInt8(5)
	p := v.Pos()
	require.NoError(t, p.ApplyInPlace(Op_Add, 1))
	assert.Equal(t, int64(5), mustInt(t, v))
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		lhs      *Value
		op       CompareOp
		rhs      any
		expected bool
	}{
		{name: "less", lhs: UInt8(8), op: Op_Lt, rhs: 10, expected: true},
		{name: "signed less", lhs: SInt8(-1), op: Op_Lt, rhs: 0, expected: true},
		{name: "decoded values differ", lhs: UInt8(255), op: Op_Eq, rhs: SInt8(-1), expected: false},
		{name: "greater than real", lhs: UInt8(8), op: Op_Gt, rhs: 7.5, expected: true},
		{name: "equal to real", lhs: UInt8(8), op: Op_Eq, rhs: 8.0, expected: true},
		{name: "less equal", lhs: Half(1.5), op: Op_Le, rhs: Single(1.5), expected: true},
		{name: "greater equal", lhs: SInt16(-3), op: Op_Ge, rhs: -2, expected: false},
		{name: "not equal", lhs: UInt(100, 1), op: Op_Ne, rhs: big.NewInt(1), expected: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, err := test.lhs.Compare(test.op, test.rhs)
			require.NoError(t, err)
			assert.Equal(t, test.expected, result)
		})
	}
}

func TestCompare_Errors(t *testing.T) {
	masked, err := ParseMaskedPattern("1x")
	require.NoError(t, err)

	_, err = UInt8(1).Less(masked)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = UInt8(1).Equal("1")
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = UInt8().Equal(masked)
	assert.ErrorIs(t, err, ErrUnknownOperand)
}

func TestBool(t *testing.T) {
	truth, err := UInt8(0).Bool()
	require.NoError(t, err)
	assert.False(t, truth)

	truth, err = SInt8(-3).Bool()
	require.NoError(t, err)
	assert.True(t, truth)
}

func TestMaskedPattern(t *testing.T) {
	m, err := ParseMaskedPattern("0b10xx")
	require.NoError(t, err)
	assert.Equal(t, 4, m.Width)
	assert.Equal(t, "10xx", m.String())

	for pattern := int64(0); pattern < 16; pattern++ {
		equal, err := UInt(4, pattern).Equal(m)
		require.NoError(t, err)
		assert.Equal(t, pattern>>2 == 0b10, equal, "pattern %04b", pattern)

		notEqual, err := UInt(4, pattern).NotEqual(&m)
		require.NoError(t, err)
		assert.Equal(t, !equal, notEqual)
	}

	m = NewMaskedPattern(8, big.NewInt(0x80), big.NewInt(0x80))
	equal, err := SInt8(-3).Equal(m)
	require.NoError(t, err)
	assert.True(t, equal)
	assert.Equal(t, "1xxxxxxx", m.String())

	_, err = ParseMaskedPattern("10z1")
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = ParseMaskedPattern("")
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestParseOps(t *testing.T) {
	for _, op := range BinaryOps() {
		parsed, ok := ParseBinaryOp(op.String())
		assert.True(t, ok)
		assert.Equal(t, op, parsed)
	}

	for _, op := range CompareOps() {
		parsed, ok := ParseCompareOp(op.String())
		assert.True(t, ok)
		assert.Equal(t, op, parsed)
	}

	_, ok := ParseBinaryOp("<>")
	assert.False(t, ok)
}

func TestApplyNative(t *testing.T) {
	result, err := ApplyNative(Op_TrueDiv, NativeInt(7), NativeInt(2))
	require.NoError(t, err)
	assert.Equal(t, NativeFloat(3.5), result)

	result, err = ApplyNative(Op_Pow, NativeInt(2), NativeInt(100))
	require.NoError(t, err)
	assert.Equal(t, "1267650600228229401496703205376", result.String())

	result, err = ApplyNative(Op_Shl, NativeInt(-1), NativeInt(4))
	require.NoError(t, err)
	assert.Equal(t, "-16", result.String())

	_, err = ApplyNative(Op_Shl, NativeInt(1), NativeInt(1<<40))
	assert.ErrorIs(t, err, ErrInvalidShift)

	_, err = ApplyNative(Op_Shr, NativeInt(1), NativeInt(-1))
	assert.ErrorIs(t, err, ErrInvalidShift)

	result, err = ApplyNative(Op_Add, Native{}, NativeInt(5))
	require.NoError(t, err)
	assert.Equal(t, "5", result.String())

	_, err = ApplyNative(Op_Xor, NativeFloat(1), NativeInt(1))
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = ApplyNative(Op_Mod, NativeInt(1), NativeFloat(1))
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestNative_ZeroValue(t *testing.T) {
	native, err := NativeOf(Native{})
	require.NoError(t, err)
	assert.Equal(t, NativeKind_Int, native.Kind())
	assert.True(t, native.IsZero())
	assert.Equal(t, 0.0, Native{}.Float())

	integer, err := Native{}.Int()
	require.NoError(t, err)
	assert.Equal(t, int64(0), integer.Int64())

	v := UInt8(7)
	v.EncodeNative(Native{})
	assert.Equal(t, int64(0), mustInt(t, v))

	equal, err := UInt8(0).Equal(Native{})
	require.NoError(t, err)
	assert.True(t, equal)
	assert.True(t, CompareNative(Op_Lt, Native{}, NativeInt(1)))

	require.NoError(t, v.SetField(3, 0, Native{}))
	assert.Equal(t, int64(0), mustInt(t, v))
}

func TestCompareNative(t *testing.T) {
	assert.True(t, CompareNative(Op_Lt, NativeInt(-1), NativeFloat(0.5)))
	assert.True(t, CompareNative(Op_Eq, NativeInt(2), NativeFloat(2)))
	assert.False(t, CompareNative(Op_Eq, NativeFloat(math.NaN()), NativeFloat(math.NaN())))
	assert.True(t, CompareNative(Op_Ne, NativeFloat(math.NaN()), NativeInt(1)))
}
