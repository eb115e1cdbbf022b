package value

import (
	"fmt"
	"strings"

	"github.com/Manu343726/isasim/pkg/config"
	"github.com/Manu343726/isasim/pkg/hw/eval"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Evaluate an expression over typed values",
	Long: `Evaluates an expression. Numbers without a format combine with natural precision,
format constructors such as uint8(200) or hpfloat(1.5) produce typed values.

Example:
  isasim value eval "uint8(200) + 100"
  isasim value eval "sint16(-2) ** 15"
  isasim value eval "u16(0x1234)[11:4]"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, closer, err := config.Init(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer closer.Close()

		expression := strings.Join(args, " ")
		result, err := eval.NewExpressionEvaluator(nil).Eval(expression)
		if err != nil {
			return err
		}

		logger.Debug("eval", "expression", expression, "result", result)

		if result.IsValue() && !result.Value().IsUnknown() {
			printDescription(cmd.OutOrStdout(), result.Value())
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), result)
		}

		return nil
	},
}

func init() {
	ValueCmd.AddCommand(evalCmd)
}
