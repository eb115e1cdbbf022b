package value

import (
	"math"
	"math/big"
	"strconv"

	"github.com/Manu343726/isasim/pkg/utils"
	"golang.org/x/exp/constraints"
)

// Kind of native number values are decoded to and encoded from
type NativeKind uint

const (
	// Arbitrary precision integer
	NativeKind_Int NativeKind = iota

	// Double precision real
	NativeKind_Float
)

func (k NativeKind) String() string {
	switch k {
	case NativeKind_Int:
		return "int"
	case NativeKind_Float:
		return "float"
	}

	panic("unreachable")
}

// A native number: either an arbitrary precision integer or a float64.
// The zero Native is the integer 0.
type Native struct {
	kind NativeKind
	i    *big.Int
	f    float64
}

func (n Native) normalized() Native {
	if n.kind == NativeKind_Int && n.i == nil {
		n.i = new(big.Int)
	}

	return n
}

func NativeInt(v int64) Native {
	return Native{kind: NativeKind_Int, i: big.NewInt(v)}
}

func NativeUint(v uint64) Native {
	return Native{kind: NativeKind_Int, i: new(big.Int).SetUint64(v)}
}

func NativeBig(v *big.Int) Native {
	return Native{kind: NativeKind_Int, i: new(big.Int).Set(v)}
}

func NativeFloat(v float64) Native {
	return Native{kind: NativeKind_Float, f: v}
}

// Native integer from any Go integer type
func NativeFromInt[T constraints.Integer](v T) Native {
	if v < 0 {
		return NativeInt(int64(v))
	}

	return NativeUint(uint64(v))
}

// Native real from any Go float type
func NativeFromFloat[T constraints.Float](v T) Native {
	return NativeFloat(float64(v))
}

// Resolves a Go number into a native. Fails with ErrTypeMismatch for anything that is not a number.
func NativeOf(x any) (Native, error) {
	switch x := x.(type) {
	case Native:
		return x.normalized(), nil
	case int:
		return NativeFromInt(x), nil
	case int8:
		return NativeFromInt(x), nil
	case int16:
		return NativeFromInt(x), nil
	case int32:
		return NativeFromInt(x), nil
	case int64:
		return NativeFromInt(x), nil
	case uint:
		return NativeFromInt(x), nil
	case uint8:
		return NativeFromInt(x), nil
	case uint16:
		return NativeFromInt(x), nil
	case uint32:
		return NativeFromInt(x), nil
	case uint64:
		return NativeFromInt(x), nil
	case uintptr:
		return NativeFromInt(x), nil
	case float32:
		return NativeFromFloat(x), nil
	case float64:
		return NativeFromFloat(x), nil
	case *big.Int:
		if x != nil {
			return NativeBig(x), nil
		}
	}

	return Native{}, utils.MakeError(ErrTypeMismatch, "%v is not a native number", typeName(x))
}

func (n Native) Kind() NativeKind {
	return n.kind
}

func (n Native) IsIntegral() bool {
	return n.kind == NativeKind_Int
}

// Returns the native as an integer, truncating reals toward zero. Fails for NaN and infinities.
func (n Native) Int() (*big.Int, error) {
	n = n.normalized()
	if n.IsIntegral() {
		return new(big.Int).Set(n.i), nil
	}

	if math.IsNaN(n.f) || math.IsInf(n.f, 0) {
		return nil, utils.MakeError(ErrTypeMismatch, "cannot convert %v to int", n.f)
	}

	result, _ := big.NewFloat(n.f).Int(nil)
	return result, nil
}

// Returns the native as a float64, rounding integers to the nearest representable real
func (n Native) Float() float64 {
	n = n.normalized()
	if n.IsIntegral() {
		result, _ := new(big.Float).SetInt(n.i).Float64()
		return result
	}

	return n.f
}

func (n Native) IsZero() bool {
	n = n.normalized()
	if n.IsIntegral() {
		return n.i.Sign() == 0
	}

	return n.f == 0
}

func (n Native) isNaN() bool {
	return !n.IsIntegral() && math.IsNaN(n.f)
}

// Exact arbitrary precision representation, only valid for non NaN natives
func (n Native) bigFloat() *big.Float {
	n = n.normalized()
	if n.IsIntegral() {
		return new(big.Float).SetInt(n.i)
	}

	return new(big.Float).SetFloat64(n.f)
}

func (n Native) String() string {
	if n.IsIntegral() {
		if n.i == nil {
			return "0"
		}
		return n.i.String()
	}

	return strconv.FormatFloat(n.f, 'g', -1, 64)
}

// Compares two natives. Returns false if the natives are unordered (NaN).
func compareNatives(a, b Native) (int, bool) {
	a, b = a.normalized(), b.normalized()
	if a.IsIntegral() && b.IsIntegral() {
		return a.i.Cmp(b.i), true
	}

	if a.isNaN() || b.isNaN() {
		return 0, false
	}

	return a.bigFloat().Cmp(b.bigFloat()), true
}

const maxShift = 1 << 32

func shiftCount(n Native) (uint, error) {
	count, err := n.Int()
	if err != nil {
		return 0, err
	}

	return checkShiftCount(count, maxShift)
}

// Validates a shift count, counts above limit fail with ErrInvalidShift
func checkShiftCount(count *big.Int, limit uint64) (uint, error) {
	if count.Sign() < 0 {
		return 0, utils.MakeError(ErrInvalidShift, "negative shift count %v", count)
	}

	if !count.IsUint64() || count.Uint64() > limit {
		return 0, utils.MakeError(ErrInvalidShift, "shift count %v too large", count)
	}

	return uint(count.Uint64()), nil
}

// Applies a binary operator to two native numbers. Integers use exact arithmetic,
// any real operand switches to float64 arithmetic. True division always yields a real,
// power always yields an integer (truncating real results).
func ApplyNative(op BinaryOp, a Native, b Native) (Native, error) {
	a, b = a.normalized(), b.normalized()
	switch op.category() {
	case opCategory_Bitwise, opCategory_Shift:
		if !a.IsIntegral() || !b.IsIntegral() {
			return Native{}, typeMismatch(op, a, b)
		}

		return applyIntegral(op, a.i, b)
	case opCategory_IntegralArithmetic:
		if !b.IsIntegral() {
			return Native{}, typeMismatch(op, a, b)
		}
	}

	return applyArithmetic(op, a, b)
}

func applyArithmetic(op BinaryOp, a Native, b Native) (Native, error) {
	if op == Op_Pow {
		return pow(a, b)
	}

	if a.IsIntegral() && b.IsIntegral() {
		return applyIntegerArithmetic(op, a.i, b.i)
	}

	return applyFloatArithmetic(op, a.Float(), b.Float())
}

func applyIntegral(op BinaryOp, a *big.Int, b Native) (Native, error) {
	result := new(big.Int)

	switch op {
	case Op_And:
		result.And(a, b.i)
	case Op_Or:
		result.Or(a, b.i)
	case Op_Xor:
		result.Xor(a, b.i)
	case Op_Shl, Op_Shr:
		count, err := shiftCount(b)
		if err != nil {
			return Native{}, err
		}

		if op == Op_Shl {
			result.Lsh(a, count)
		} else {
			result.Rsh(a, count)
		}
	default:
		panic("unreachable")
	}

	return Native{kind: NativeKind_Int, i: result}, nil
}

func applyIntegerArithmetic(op BinaryOp, a *big.Int, b *big.Int) (Native, error) {
	result := new(big.Int)

	switch op {
	case Op_Add:
		result.Add(a, b)
	case Op_Sub:
		result.Sub(a, b)
	case Op_Mul:
		result.Mul(a, b)
	case Op_TrueDiv:
		if b.Sign() == 0 {
			return Native{}, divisionByZero(op)
		}

		quotient, _ := new(big.Float).SetPrec(53).Quo(new(big.Float).SetInt(a), new(big.Float).SetInt(b)).Float64()
		return NativeFloat(quotient), nil
	case Op_FloorDiv, Op_Mod:
		if b.Sign() == 0 {
			return Native{}, divisionByZero(op)
		}

		quotient, remainder := new(big.Int).QuoRem(a, b, new(big.Int))

		// Round toward negative infinity, remainder takes the sign of the divisor
		if remainder.Sign() != 0 && remainder.Sign() != b.Sign() {
			quotient.Sub(quotient, big.NewInt(1))
			remainder.Add(remainder, b)
		}

		if op == Op_FloorDiv {
			result = quotient
		} else {
			result = remainder
		}
	default:
		panic("unreachable")
	}

	return Native{kind: NativeKind_Int, i: result}, nil
}

func applyFloatArithmetic(op BinaryOp, a float64, b float64) (Native, error) {
	switch op {
	case Op_Add:
		return NativeFloat(a + b), nil
	case Op_Sub:
		return NativeFloat(a - b), nil
	case Op_Mul:
		return NativeFloat(a * b), nil
	}

	if b == 0 {
		return Native{}, divisionByZero(op)
	}

	switch op {
	case Op_TrueDiv:
		return NativeFloat(a / b), nil
	case Op_FloorDiv:
		return NativeFloat(math.Floor(a / b)), nil
	case Op_Mod:
		remainder := math.Mod(a, b)
		if remainder != 0 && (remainder < 0) != (b < 0) {
			remainder += b
		}
		return NativeFloat(remainder), nil
	}

	panic("unreachable")
}

func pow(base Native, exponent Native) (Native, error) {
	if base.IsIntegral() && exponent.IsIntegral() {
		return powInteger(base.i, exponent.i, nil)
	}

	result := math.Pow(base.Float(), exponent.Float())

	if base.IsZero() && exponent.Float() < 0 {
		return Native{}, divisionByZero(Op_Pow)
	}

	if math.IsNaN(result) || math.IsInf(result, 0) {
		return NativeFloat(result), nil
	}

	return NativeFloat(math.Trunc(result)), nil
}

// Integer power, reduced modulo m when m is not nil
func powInteger(base *big.Int, exponent *big.Int, m *big.Int) (Native, error) {
	if exponent.Sign() >= 0 {
		return Native{kind: NativeKind_Int, i: new(big.Int).Exp(base, exponent, m)}, nil
	}

	// Negative exponents produce a fraction in (-1, 1) unless the base is 1 or -1
	switch {
	case base.Sign() == 0:
		return Native{}, divisionByZero(Op_Pow)
	case base.CmpAbs(big.NewInt(1)) == 0:
		if base.Sign() < 0 && exponent.Bit(0) == 1 {
			return NativeInt(-1), nil
		}
		return NativeInt(1), nil
	}

	return NativeInt(0), nil
}

func divisionByZero(op BinaryOp) error {
	return utils.MakeError(ErrDivisionByZero, "right operand of %v is zero", op)
}
