package value

import (
	"github.com/Manu343726/isasim/pkg/utils"
)

// Kinds of values accepted as the secondary operand of an operator
type OperandKind uint

const (
	Operand_Native OperandKind = iota
	Operand_Value
	Operand_Masked
)

func (k OperandKind) String() string {
	switch k {
	case Operand_Native:
		return "native"
	case Operand_Value:
		return "value"
	case Operand_Masked:
		return "masked pattern"
	}

	panic("unreachable")
}

// Secondary operand of an operator, resolved once from an arbitrary Go value
type Operand struct {
	kind   OperandKind
	native Native
	value  *Value
	masked MaskedPattern
}

// Resolves x into an operand. Accepts Go numbers, *big.Int, Native, *Value and MaskedPattern.
func OperandOf(x any) (Operand, error) {
	switch x := x.(type) {
	case Operand:
		return x, nil
	case *Value:
		if x != nil {
			return Operand{kind: Operand_Value, value: x}, nil
		}
	case MaskedPattern:
		return Operand{kind: Operand_Masked, masked: x}, nil
	case *MaskedPattern:
		if x != nil {
			return Operand{kind: Operand_Masked, masked: *x}, nil
		}
	default:
		if native, err := NativeOf(x); err == nil {
			return Operand{kind: Operand_Native, native: native}, nil
		}
	}

	return Operand{}, utils.MakeError(ErrTypeMismatch, "%v is not a supported operand", typeName(x))
}

func (o Operand) Kind() OperandKind {
	return o.kind
}

// Returns true if the operand is a value in X state
func (o Operand) IsUnknown() bool {
	return o.kind == Operand_Value && o.value.IsUnknown()
}

// Returns true if the operand is a native integer or a value
func (o Operand) IsIntegralKind() bool {
	switch o.kind {
	case Operand_Native:
		return o.native.IsIntegral()
	case Operand_Value:
		return true
	}

	return false
}

// Returns the native number of the operand, decoding values
func (o Operand) Native() (Native, error) {
	switch o.kind {
	case Operand_Native:
		return o.native.normalized(), nil
	case Operand_Value:
		return o.value.Decode()
	}

	return Native{}, utils.MakeError(ErrTypeMismatch, "%v has no native value", o.typeName())
}

func (o Operand) Value() *Value {
	return o.value
}

func (o Operand) Masked() MaskedPattern {
	return o.masked
}

func (o Operand) typeName() string {
	switch o.kind {
	case Operand_Native:
		return typeName(o.native)
	case Operand_Value:
		return typeName(o.value)
	case Operand_Masked:
		return typeName(o.masked)
	}

	panic("unreachable")
}
