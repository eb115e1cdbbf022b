package value

import (
	"math/big"
)

// Converts a Go number, Native or *Value into a new value of the target format.
// Values are decoded first and their native value encoded into the target. X sources
// and nil give X values.
func Convert(target Format, src any) (*Value, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}

	return NewWith(target, src)
}

// Converts a Go number, Native or *Value into a native of the given kind.
// Fails with ErrUnknownOperand for X values.
func ToNative(kind NativeKind, src any) (Native, error) {
	operand, err := OperandOf(src)
	if err != nil || operand.Kind() == Operand_Masked {
		return Native{}, unaryTypeMismatch("convert to "+kind.String(), src)
	}

	native, err := operand.Native()
	if err != nil {
		return Native{}, err
	}

	switch kind {
	case NativeKind_Int:
		integer, err := native.Int()
		if err != nil {
			return Native{}, err
		}

		return Native{kind: NativeKind_Int, i: integer}, nil
	case NativeKind_Float:
		return NativeFloat(native.Float()), nil
	}

	panic("unreachable")
}

// Converts src to an integer, truncating reals toward zero
func ToInt(src any) (*big.Int, error) {
	native, err := ToNative(NativeKind_Int, src)
	if err != nil {
		return nil, err
	}

	return native.i, nil
}

func ToFloat(src any) (float64, error) {
	native, err := ToNative(NativeKind_Float, src)
	if err != nil {
		return 0, err
	}

	return native.f, nil
}
