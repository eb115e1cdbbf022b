package eval

import (
	"fmt"

	"github.com/Manu343726/isasim/pkg/hw/value"
	"github.com/Manu343726/isasim/pkg/utils"
)

// Result of evaluating an expression: an untyped native number or a typed value
type Result struct {
	native  value.Native
	value   *value.Value
	unknown bool
}

func nativeResult(n value.Native) Result {
	return Result{native: n}
}

func valueResult(v *value.Value) Result {
	return Result{value: v}
}

// Returns true if the result is a typed value
func (r Result) IsValue() bool {
	return r.value != nil
}

// Typed value of the result, nil for untyped numbers
func (r Result) Value() *value.Value {
	return r.value
}

// Native number of the result. Typed values are decoded.
func (r Result) Native() (value.Native, error) {
	if r.unknown {
		return value.Native{}, utils.MakeError(value.ErrUnknownOperand, "untyped X")
	}

	if r.IsValue() {
		return r.value.Decode()
	}

	return r.native, nil
}

// Returns the result as a value, encoding untyped numbers into the given format
func (r Result) As(format value.Format) (*value.Value, error) {
	if r.unknown {
		return value.New(format), nil
	}

	if r.IsValue() {
		return value.Convert(format, r.value)
	}

	return value.Convert(format, r.native)
}

// operand passed to the value package operators
func (r Result) operand() any {
	if r.IsValue() {
		return r.value
	}

	return r.native
}

func (r Result) String() string {
	switch {
	case r.unknown:
		return "X"
	case r.IsValue():
		if r.value.IsUnknown() {
			return r.value.GoString()
		}
		return fmt.Sprintf("%#v %v", r.value, r.value.Hex())
	}

	return r.native.String()
}
