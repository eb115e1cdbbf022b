package value

import (
	"errors"
	"fmt"

	"github.com/Manu343726/isasim/pkg/utils"
)

var (
	ErrTypeMismatch   = errors.New("type mismatch")
	ErrUnknownOperand = errors.New("unknown operand")
	ErrDivisionByZero = errors.New("division by zero")
	ErrInvalidShift   = errors.New("invalid shift count")
	ErrInvalidFormat  = errors.New("invalid format")
)

func typeMismatch(op fmt.Stringer, lhs any, rhs any) error {
	return utils.MakeError(ErrTypeMismatch, "type not supported: %v %v %v", typeName(lhs), op, typeName(rhs))
}

func unaryTypeMismatch(op string, operand any) error {
	return utils.MakeError(ErrTypeMismatch, "type not supported: %v %v", op, typeName(operand))
}

func unknownOperand(op fmt.Stringer) error {
	return utils.MakeError(ErrUnknownOperand, "%v cannot operate on X value", op)
}

func typeName(x any) string {
	switch x := x.(type) {
	case *Value:
		if x == nil {
			return "nil"
		}
		return x.format.String()
	case Native:
		return x.kind.String()
	case Operand:
		return x.typeName()
	case MaskedPattern, *MaskedPattern:
		return "MaskedPattern"
	case nil:
		return "nil"
	}

	return fmt.Sprintf("%T", x)
}
