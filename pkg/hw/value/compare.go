package value

import (
	"github.com/Manu343726/isasim/pkg/utils"
)

// Ordering and equality operators
type CompareOp uint

const (
	Op_Lt CompareOp = iota
	Op_Gt
	Op_Le
	Op_Ge
	Op_Eq
	Op_Ne
)

func (op CompareOp) String() string {
	switch op {
	case Op_Lt:
		return "<"
	case Op_Gt:
		return ">"
	case Op_Le:
		return "<="
	case Op_Ge:
		return ">="
	case Op_Eq:
		return "=="
	case Op_Ne:
		return "!="
	}

	panic("unreachable")
}

// Returns all comparison operators
func CompareOps() []CompareOp {
	return utils.Iota(int(Op_Ne)+1, func(i int) CompareOp { return CompareOp(i) })
}

// Returns the comparison operator written with the given symbol
func ParseCompareOp(symbol string) (CompareOp, bool) {
	for _, op := range CompareOps() {
		if op.String() == symbol {
			return op, true
		}
	}

	return 0, false
}

func (op CompareOp) isEquality() bool {
	return op == Op_Eq || op == Op_Ne
}

func (op CompareOp) holds(cmp int) bool {
	switch op {
	case Op_Lt:
		return cmp < 0
	case Op_Gt:
		return cmp > 0
	case Op_Le:
		return cmp <= 0
	case Op_Ge:
		return cmp >= 0
	case Op_Eq:
		return cmp == 0
	case Op_Ne:
		return cmp != 0
	}

	panic("unreachable")
}

// Evaluates v op other on decoded values. Equality operators also accept a MaskedPattern,
// compared against the raw pattern of v. Fails with ErrUnknownOperand if any operand is X.
func (v *Value) Compare(op CompareOp, other any) (bool, error) {
	operand, err := OperandOf(other)
	if err != nil || (operand.Kind() == Operand_Masked && !op.isEquality()) {
		return false, typeMismatch(op, v, other)
	}

	if v.IsUnknown() || operand.IsUnknown() {
		return false, unknownOperand(op)
	}

	if operand.Kind() == Operand_Masked {
		masked := operand.Masked()
		matches, err := masked.Matches(v)
		if err != nil {
			return false, err
		}

		return matches == (op == Op_Eq), nil
	}

	rhs, err := operand.Native()
	if err != nil {
		return false, err
	}

	return CompareNative(op, v.decode(), rhs), nil
}

// Evaluates a op b on native numbers. NaN is unordered: only Op_Ne holds.
func CompareNative(op CompareOp, a Native, b Native) bool {
	cmp, ordered := compareNatives(a, b)
	if !ordered {
		return op == Op_Ne
	}

	return op.holds(cmp)
}

func (v *Value) Equal(other any) (bool, error)        { return v.Compare(Op_Eq, other) }
func (v *Value) NotEqual(other any) (bool, error)     { return v.Compare(Op_Ne, other) }
func (v *Value) Less(other any) (bool, error)         { return v.Compare(Op_Lt, other) }
func (v *Value) Greater(other any) (bool, error)      { return v.Compare(Op_Gt, other) }
func (v *Value) LessEqual(other any) (bool, error)    { return v.Compare(Op_Le, other) }
func (v *Value) GreaterEqual(other any) (bool, error) { return v.Compare(Op_Ge, other) }

// Truth value of v: true if the decoded value is not zero. Fails with ErrUnknownOperand if v is X.
func (v *Value) Bool() (bool, error) {
	if v.IsUnknown() {
		return false, utils.MakeError(ErrUnknownOperand, "truth value of X %v", v.format)
	}

	return !v.decode().IsZero(), nil
}
