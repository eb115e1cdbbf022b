package value

import (
	"math/big"

	"github.com/Manu343726/isasim/pkg/utils"
)

// Binary operators supported by values
type BinaryOp uint

const (
	Op_Add BinaryOp = iota
	Op_Sub
	Op_Mul
	Op_TrueDiv
	Op_FloorDiv
	Op_Mod
	Op_Pow
	Op_Shr
	Op_Shl
	Op_And
	Op_Or
	Op_Xor
)

func (op BinaryOp) String() string {
	switch op {
	case Op_Add:
		return "+"
	case Op_Sub:
		return "-"
	case Op_Mul:
		return "*"
	case Op_TrueDiv:
		return "/"
	case Op_FloorDiv:
		return "//"
	case Op_Mod:
		return "%"
	case Op_Pow:
		return "**"
	case Op_Shr:
		return ">>"
	case Op_Shl:
		return "<<"
	case Op_And:
		return "&"
	case Op_Or:
		return "|"
	case Op_Xor:
		return "^"
	}

	panic("unreachable")
}

// Returns all binary operators
func BinaryOps() []BinaryOp {
	return utils.Iota(int(Op_Xor)+1, func(i int) BinaryOp { return BinaryOp(i) })
}

// Returns the binary operator written with the given symbol
func ParseBinaryOp(symbol string) (BinaryOp, bool) {
	for _, op := range BinaryOps() {
		if op.String() == symbol {
			return op, true
		}
	}

	return 0, false
}

type opCategory uint

const (
	// Operates on decoded values
	opCategory_Arithmetic opCategory = iota

	// Operates on decoded values, right operand must be of an integral kind
	opCategory_IntegralArithmetic

	// Shifts the left operand by the integral value of the right operand
	opCategory_Shift

	// Operates on raw patterns
	opCategory_Bitwise
)

func (op BinaryOp) category() opCategory {
	switch op {
	case Op_Add, Op_Sub, Op_Mul, Op_TrueDiv, Op_FloorDiv:
		return opCategory_Arithmetic
	case Op_Mod, Op_Pow:
		return opCategory_IntegralArithmetic
	case Op_Shr, Op_Shl:
		return opCategory_Shift
	case Op_And, Op_Or, Op_Xor:
		return opCategory_Bitwise
	}

	panic("unreachable")
}

// Checks that other is an operand op accepts, regardless of its state
func resolveOperand(op BinaryOp, v *Value, other any) (Operand, error) {
	operand, err := OperandOf(other)
	if err != nil || operand.Kind() == Operand_Masked {
		return Operand{}, typeMismatch(op, v, other)
	}

	switch op.category() {
	case opCategory_IntegralArithmetic:
		if !operand.IsIntegralKind() {
			return Operand{}, typeMismatch(op, v, other)
		}
	case opCategory_Bitwise, opCategory_Shift:
		if operand.Kind() == Operand_Native && !operand.native.IsIntegral() {
			return Operand{}, typeMismatch(op, v, other)
		}
	}

	return operand, nil
}

// Computes v op other into a new value with the format of v. other can be a Go number, a *big.Int,
// a Native or a *Value. If any operand is X the result is X.
func (v *Value) Apply(op BinaryOp, other any) (*Value, error) {
	operand, err := resolveOperand(op, v, other)
	if err != nil {
		return nil, err
	}

	if v.IsUnknown() || operand.IsUnknown() {
		return v.unknownCopy(), nil
	}

	switch op.category() {
	case opCategory_Bitwise:
		return v.applyBitwise(op, operand), nil
	case opCategory_Shift:
		return v.applyShift(op, operand)
	}

	return v.applyArithmetic(op, operand)
}

// Computes v op other and stores the result into v. v is left untouched if the operation fails.
func (v *Value) ApplyInPlace(op BinaryOp, other any) error {
	result, err := v.Apply(op, other)
	if err != nil {
		return err
	}

	v.bits = result.bits.clone()
	return nil
}

func (v *Value) applyArithmetic(op BinaryOp, operand Operand) (*Value, error) {
	lhs := v.decode()
	rhs, err := operand.Native()
	if err != nil {
		return nil, err
	}

	result := v.unknownCopy()

	if op == Op_Pow && v.format.IsInteger() && rhs.IsIntegral() {
		// Reduce while exponentiating, only the low width bits survive the encode
		power, err := powInteger(lhs.i, rhs.i, utils.BigPow2(v.Width()))
		if err != nil {
			return nil, err
		}

		result.EncodeNative(power)
		return result, nil
	}

	native, err := applyArithmetic(op, lhs, rhs)
	if err != nil {
		return nil, err
	}

	result.EncodeNative(native)
	return result, nil
}

// Raw pattern of an operand, native integers are taken in two's complement
func operandPattern(operand Operand) *big.Int {
	if operand.Kind() == Operand_Value {
		return operand.Value().bits.raw()
	}

	return operand.native.normalized().i
}

func (v *Value) applyBitwise(op BinaryOp, operand Operand) *Value {
	pattern := new(big.Int)
	rhs := operandPattern(operand)

	switch op {
	case Op_And:
		pattern.And(v.bits.raw(), rhs)
	case Op_Or:
		pattern.Or(v.bits.raw(), rhs)
	case Op_Xor:
		pattern.Xor(v.bits.raw(), rhs)
	default:
		panic("unreachable")
	}

	return FromPattern(v.format, pattern)
}

// Shift count of an operand: the raw pattern of values, the integer of natives.
// Counts past the width give the same result as the width.
func (v *Value) shiftCount(operand Operand) (uint, error) {
	count := operandPattern(operand)
	if count.Sign() >= 0 && count.Cmp(big.NewInt(int64(v.Width()))) > 0 {
		return uint(v.Width()), nil
	}

	return checkShiftCount(count, uint64(v.Width()))
}

// Integer formats shift the decoded value (arithmetic right shift for signed formats),
// floating formats shift the raw pattern
func (v *Value) applyShift(op BinaryOp, operand Operand) (*Value, error) {
	count, err := v.shiftCount(operand)
	if err != nil {
		return nil, err
	}

	var shifted *big.Int
	if v.format.IsFloating() {
		shifted = new(big.Int).Set(v.bits.raw())
	} else {
		shifted = decodeInteger(v.format, v.bits.raw())
	}

	if op == Op_Shl {
		shifted.Lsh(shifted, count)
	} else {
		shifted.Rsh(shifted, count)
	}

	result := v.unknownCopy()
	if v.format.IsFloating() {
		result.bits.SetPattern(shifted)
	} else {
		encodeInteger(&result.bits, shifted)
	}

	return result, nil
}

func (v *Value) Add(other any) (*Value, error)      { return v.Apply(Op_Add, other) }
func (v *Value) Sub(other any) (*Value, error)      { return v.Apply(Op_Sub, other) }
func (v *Value) Mul(other any) (*Value, error)      { return v.Apply(Op_Mul, other) }
func (v *Value) TrueDiv(other any) (*Value, error)  { return v.Apply(Op_TrueDiv, other) }
func (v *Value) FloorDiv(other any) (*Value, error) { return v.Apply(Op_FloorDiv, other) }
func (v *Value) Mod(other any) (*Value, error)      { return v.Apply(Op_Mod, other) }
func (v *Value) Pow(other any) (*Value, error)      { return v.Apply(Op_Pow, other) }
func (v *Value) Shr(other any) (*Value, error)      { return v.Apply(Op_Shr, other) }
func (v *Value) Shl(other any) (*Value, error)      { return v.Apply(Op_Shl, other) }
func (v *Value) And(other any) (*Value, error)      { return v.Apply(Op_And, other) }
func (v *Value) Or(other any) (*Value, error)       { return v.Apply(Op_Or, other) }
func (v *Value) Xor(other any) (*Value, error)      { return v.Apply(Op_Xor, other) }

// Unary operators supported by values
type UnaryOp uint

const (
	Op_Neg UnaryOp = iota
	Op_Pos
	Op_Invert
)

func (op UnaryOp) String() string {
	switch op {
	case Op_Neg:
		return "-"
	case Op_Pos:
		return "+"
	case Op_Invert:
		return "~"
	}

	panic("unreachable")
}

// Computes op v into a new value. X values give X results.
func (v *Value) Unary(op UnaryOp) *Value {
	if v.IsUnknown() {
		return v.unknownCopy()
	}

	switch op {
	case Op_Neg:
		result := v.unknownCopy()
		decoded := v.decode()

		if decoded.IsIntegral() {
			result.EncodeNative(Native{kind: NativeKind_Int, i: new(big.Int).Neg(decoded.i)})
		} else {
			result.EncodeNative(NativeFloat(-decoded.f))
		}

		return result
	case Op_Pos:
		return v.Copy()
	case Op_Invert:
		return FromPattern(v.format, new(big.Int).Not(v.bits.raw()))
	}

	panic("unreachable")
}

func (v *Value) Neg() *Value    { return v.Unary(Op_Neg) }
func (v *Value) Pos() *Value    { return v.Unary(Op_Pos) }
func (v *Value) Invert() *Value { return v.Unary(Op_Invert) }
