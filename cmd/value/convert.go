package value

import (
	"strings"

	"github.com/Manu343726/isasim/pkg/config"
	"github.com/Manu343726/isasim/pkg/hw/eval"
	"github.com/Manu343726/isasim/pkg/hw/value"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <format> <expression>",
	Short: "Encode a number into a format",
	Long: `Evaluates an expression and encodes the result into the given format, printing
the raw pattern, the decoded value and its exact decimal expansion.

Example:
  isasim value convert hpfloat 1.5
  isasim value convert e4m3 "uint8(200) // 3"
  isasim value convert s12 -- -1`,
	Args: cobra.MinimumNArgs(2),
	RunE: runConvert,
}

func init() {
	ValueCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	_, logger, closer, err := config.Init(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closer.Close()

	format, err := value.ParseFormat(args[0])
	if err != nil {
		return err
	}

	expression := strings.Join(args[1:], " ")
	result, err := eval.NewExpressionEvaluator(nil).Eval(expression)
	if err != nil {
		return err
	}

	v, err := result.As(format)
	if err != nil {
		return err
	}

	logger.Debug("convert", "expression", expression, "format", format, "result", v)
	printDescription(cmd.OutOrStdout(), v)
	return nil
}
