package tools

import (
	"fmt"
	"os"
	"strings"

	"github.com/Manu343726/isasim/pkg/hw/cpu"
	"github.com/Manu343726/isasim/pkg/hw/regfile"
	"github.com/Manu343726/isasim/pkg/hw/value"
	"github.com/Manu343726/isasim/pkg/utils"
	"github.com/spf13/cobra"
)

var supportedModules = map[string]func() (string, error){
	"value.formats":    formatsDocs,
	"regfile":          regfileDocs,
	"cpu.instructions": instructionsDocs,
}

// Bit layout of every named format
func formatsDocs() (string, error) {
	var builder strings.Builder
	formats := value.NamedFormats()

	for _, name := range utils.SortedKeys(formats) {
		format := formats[name]

		frame, err := utils.AsciiFrame(format.Fields(), format.Width, "bits", utils.AsciiFrameUnitLayout_RightToLeft, 2)
		if err != nil {
			return "", err
		}

		fmt.Fprintf(&builder, "%v: %v", name, format)
		if format.IsFloating() {
			fmt.Fprintf(&builder, ", exponent bias %v", format.Bias())
		}
		fmt.Fprintf(&builder, "\n\n%v\n", frame)
	}

	return builder.String(), nil
}

// Register classes and the names of their views
func regfileDocs() (string, error) {
	var builder strings.Builder
	vl := regfile.DefaultSettings().VectorLength

	fmt.Fprintf(&builder, "AArch64 register file (widths given for VL=%v)\n\n", vl)

	for _, rc := range regfile.RegisterClasses() {
		descriptor := regfile.Descriptor(rc)

		fmt.Fprintf(&builder, "%v: %v x %v bits\n  %v\n", rc, descriptor.TotalRegisters, descriptor.Width(vl), descriptor.Description)

		for _, view := range descriptor.Views {
			size := view.Size
			if size == 0 {
				size = descriptor.Width(vl)
			}

			names := fmt.Sprintf("%v0..%v%v", view.Prefix, view.Prefix, descriptor.TotalRegisters-1)
			if view.ZeroRegisterName != "" {
				names = fmt.Sprintf("%v0..%v%v, %v", view.Prefix, view.Prefix, regfile.ZeroRegister-1, view.ZeroRegisterName)
			}

			fmt.Fprintf(&builder, "  %-16v %4v bits  %v\n", names, size, view.Description)
		}

		builder.WriteByte('\n')
	}

	return builder.String(), nil
}

func instructionsDocs() (string, error) {
	return strings.Join(cpu.Instructions(), "\n") + "\n", nil
}

var docsCmd = &cobra.Command{
	Use:   "docs module",
	Short: "Show isasim documentation",
	Long: `Dumps the documentation of the specified isasim module.
By default the tool dumps the documentation to stdout, but it can be redirected to a file using the --output flag.

Supported modules:
` + strings.Join(utils.Map(utils.SortedKeys(supportedModules), func(module string) string { return "  " + module }), "\n"),
	Args:      cobra.MatchAll(cobra.OnlyValidArgs, cobra.ExactArgs(1)),
	ValidArgs: utils.SortedKeys(supportedModules),
	RunE: func(cmd *cobra.Command, args []string) error {
		docs, err := supportedModules[args[0]]()
		if err != nil {
			return err
		}

		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile == "" {
			fmt.Fprint(cmd.OutOrStdout(), docs)
			return nil
		}

		return os.WriteFile(outputFile, []byte(docs), 0o644)
	},
}

func init() {
	ToolsCmd.AddCommand(docsCmd)
	docsCmd.Flags().StringP("output", "o", "", "Output file. If not specified, the documentation is dumped to stdout.")
}
