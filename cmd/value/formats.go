package value

import (
	"fmt"
	"text/tabwriter"

	"github.com/Manu343726/isasim/pkg/hw/value"
	"github.com/Manu343726/isasim/pkg/utils"
	"github.com/spf13/cobra"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the named formats",
	Long: `Lists the formats that can be referred by name. Besides these, any width can be used
with uN/uintN (unsigned), sN/sintN (signed) and eXmY (floating point, X exponent bits and Y mantissa bits).`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		formats := value.NamedFormats()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, labelColor.Sprint("NAME")+"\t"+labelColor.Sprint("FORMAT")+"\t"+labelColor.Sprint("WIDTH"))

		for _, name := range utils.SortedKeys(formats) {
			fmt.Fprintf(w, "%v\t%v\t%v\n", name, formats[name], formats[name].Width)
		}

		w.Flush()
	},
}

func init() {
	ValueCmd.AddCommand(formatsCmd)
}
