package value

import (
	"fmt"
	"io"
	"strconv"

	"github.com/Manu343726/isasim/pkg/hw/value"
	"github.com/Manu343726/isasim/pkg/utils"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ValueCmd groups the commands to inspect values and formats
var ValueCmd = &cobra.Command{
	Use:   "value",
	Short: "Inspect value formats and encodings",
}

var (
	labelColor   = color.New(color.FgCyan)
	unknownColor = color.New(color.FgRed, color.Bold)
)

// A named line of a value description
type property struct {
	name  string
	value string
}

// Lists the encoding details of a value: its raw pattern in hex and binary, the decoded value
// and, for floating formats, the sign, exponent and mantissa fields
func describe(v *value.Value) []property {
	properties := []property{
		{"format", v.Format().String()},
		{"hex", v.Hex()},
		{"binary", "0b" + utils.GroupDigits(v.Binary(), 4, "_")},
	}

	if v.IsUnknown() {
		return append(properties, property{"value", "X"})
	}

	decoded, _ := v.Decode()
	properties = append(properties, property{"value", decoded.String()})

	if exact, err := v.Decimal(); err == nil {
		properties = append(properties, property{"decimal", exact.String()})
	}

	if v.Format().IsFloating() {
		sign, _ := v.Sign()
		exponent, _ := v.Exponent()
		mantissa, _ := v.Mantissa()
		bias, _ := v.Bias()

		properties = append(properties,
			property{"sign", fmt.Sprint(sign)},
			property{"exponent", fmt.Sprintf("%v (bias %v)", exponent, bias)},
			property{"mantissa", strconv.FormatFloat(mantissa, 'g', -1, 64)},
		)
	}

	return properties
}

func printDescription(w io.Writer, v *value.Value) {
	for _, p := range describe(v) {
		text := p.value
		if text == "X" {
			text = unknownColor.Sprint(text)
		}

		fmt.Fprintf(w, "%v %v\n", labelColor.Sprintf("%-9v", p.name+":"), text)
	}
}
