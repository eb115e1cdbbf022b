package regfile

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/Manu343726/isasim/pkg/hw/cpu"
	"github.com/spf13/cobra"
)

var (
	dumpFile string
	echo     bool
)

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Run a register file program",
	Long: `Runs a register file program and prints the result of the last command that produced one.
The script is read from stdin if its path is "-".

Example:
  isasim regfile run program.isa
  isasim regfile run --image before.yaml --dump after.yaml program.isa
  echo "EVAL u8(200) + u8(100)" | isasim regfile run -`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	RegfileCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVarP(&echo, "echo", "e", false, "print each command before running it")
	runCmd.Flags().StringVarP(&dumpFile, "dump", "d", "", `save the register file contents as a YAML image when the program ends ("-" for stdout)`)
}

// Prints each command, highlighted, before running it
type echoInterpreter struct {
	cpu.CommandInterpreter
	out io.Writer
}

func (i *echoInterpreter) Run(command string) (*string, error) {
	fmt.Fprintln(i.out, cpu.Highlight(command))
	return i.CommandInterpreter.Run(command)
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	return lines, scanner.Err()
}

func runRun(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	var input io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		file, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer file.Close()
		input = file
	}

	program, err := readLines(input)
	if err != nil {
		return err
	}

	var interpreter cpu.CommandInterpreter = cpu.MakeCommandInterpreter(cpu.MakeRegisterFileInterpreter(s.rf, s.logger))
	if echo {
		interpreter = &echoInterpreter{CommandInterpreter: interpreter, out: cmd.OutOrStdout()}
	}

	result, err := cpu.MakeProgramInterpreter(cpu.MakeSanitizedCommandInterpreter(interpreter)).Run(program)
	if err != nil {
		s.logger.Error("program stopped with errors", "script", args[0], "error", err)
		return err
	}

	if result != nil {
		fmt.Fprintln(cmd.OutOrStdout(), *result)
	}

	if dumpFile != "" {
		return s.saveImage(dumpFile, cmd.OutOrStdout())
	}

	return nil
}
