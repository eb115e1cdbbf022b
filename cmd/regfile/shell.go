package regfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Manu343726/isasim/pkg/hw/cpu"
	"github.com/Manu343726/isasim/pkg/hw/regfile"
	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	colorPrompt  = color.New(color.FgBlue, color.Bold)
	colorResult  = color.New(color.FgWhite, color.Bold)
	colorError   = color.New(color.FgRed, color.Bold)
	colorSuccess = color.New(color.FgGreen)
	colorWarning = color.New(color.FgYellow)
	colorHeader  = color.New(color.FgWhite, color.Bold, color.Underline)
)

const shellHelp = `Starts an interactive shell where register file commands run one at a time.

Besides the program commands, the shell understands:
  .regs [class]    show the registers of a class (gp, simd, sve, pred), all by default
  .load <file>     load a YAML register image
  .dump <file>     save a YAML register image ("-" for stdout)
  .help            show this help
  .quit            leave the shell`

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive register file shell",
	Long:  shellHelp,
	Args:  cobra.NoArgs,
}

func init() {
	shellCmd.RunE = runShell
	RegfileCmd.AddCommand(shellCmd)
}

func getHistoryFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".isasim_history"
	}

	return filepath.Join(home, ".isasim_history")
}

// Width of the terminal attached to stdout, 80 if stdout is not a terminal
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 80
	}

	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return 80
	}

	return width
}

var shellClasses = map[string]regfile.RegisterClass{
	"gp":   regfile.RegisterClass_GeneralPurpose,
	"simd": regfile.RegisterClass_SIMD,
	"sve":  regfile.RegisterClass_ScalableVector,
	"pred": regfile.RegisterClass_Predicate,
}

func completions(input string) []string {
	words := append(cpu.Instructions(), ".regs", ".load", ".dump", ".help", ".quit")

	var result []string
	for _, word := range words {
		if strings.HasPrefix(strings.ToLower(word), strings.ToLower(input)) {
			result = append(result, word)
		}
	}

	return result
}

type shell struct {
	*session
	interpreter cpu.CommandInterpreter
	out         io.Writer
}

var errQuit = errors.New("quit")

func (sh *shell) showRegisters(args []string) error {
	classes := regfile.RegisterClasses()

	if len(args) > 0 {
		rc, ok := shellClasses[strings.ToLower(args[0])]
		if !ok {
			return fmt.Errorf("unknown register class '%v', expected gp, simd, sve or pred", args[0])
		}

		classes = []regfile.RegisterClass{rc}
	}

	for _, rc := range classes {
		text, err := formatRegisters(sh.rf, rc, terminalWidth())
		if err != nil {
			return err
		}

		colorHeader.Fprintln(sh.out, rc)
		fmt.Fprint(sh.out, text)
	}

	return nil
}

// Runs a shell directive (a line starting with '.')
func (sh *shell) directive(line string) error {
	fields := strings.Fields(line)

	switch fields[0] {
	case ".quit", ".exit":
		return errQuit
	case ".help":
		fmt.Fprintln(sh.out, RegfileCmd.Long)
		fmt.Fprintln(sh.out)
		fmt.Fprintln(sh.out, shellHelp)
		return nil
	case ".regs":
		return sh.showRegisters(fields[1:])
	case ".load", ".dump":
		if len(fields) != 2 {
			return fmt.Errorf("%v expects a file path", fields[0])
		}

		if fields[0] == ".load" {
			return sh.loadImage(fields[1])
		}

		return sh.saveImage(fields[1], sh.out)
	}

	return fmt.Errorf("unknown shell command '%v', try .help", fields[0])
}

func (sh *shell) execute(line string) error {
	if strings.HasPrefix(line, ".") {
		return sh.directive(line)
	}

	result, err := sh.interpreter.Run(line)
	if err != nil {
		return err
	}

	if result != nil {
		colorResult.Fprintln(sh.out, *result)
	}

	return nil
}

func runShell(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	sh := &shell{
		session:     s,
		interpreter: cpu.MakeSanitizedCommandInterpreter(cpu.MakeCommandInterpreter(cpu.MakeRegisterFileInterpreter(s.rf, s.logger))),
		out:         cmd.OutOrStdout(),
	}

	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(completions)

	historyFile := getHistoryFilePath()
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	colorSuccess.Fprintf(sh.out, "Register file ready (VL=%v). Type '.help' for available commands.\n", s.rf.VectorLength())

	for {
		input, err := line.Prompt("(isasim) ")
		if err == io.EOF {
			fmt.Fprintln(sh.out)
			break
		} else if err == liner.ErrPromptAborted {
			colorWarning.Fprintln(sh.out, "Use '.quit' to leave the shell.")
			continue
		} else if err != nil {
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		line.AppendHistory(input)
		s.logger.Debug("shell", "input", input)

		if err := sh.execute(input); errors.Is(err, errQuit) {
			break
		} else if err != nil {
			colorError.Fprintf(sh.out, "error: %v\n", err)
		}
	}

	if f, err := os.Create(historyFile); err == nil {
		line.WriteHistory(f)
		f.Close()
	}

	return nil
}
