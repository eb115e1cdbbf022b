package cpu

import (
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/Manu343726/isasim/pkg/hw/eval"
	"github.com/Manu343726/isasim/pkg/hw/regfile"
)

type Interpreter interface {
	Run(instruction string, args ...string) (*string, error)
}

type CommandInterpreter interface {
	Run(command string) (*string, error)
}

type ProgramInterpreter interface {
	Run(commands []string) (*string, error)
}

// Strips the comment of a command line, if any. Lines starting with "//" are comments
// as a whole, otherwise comments start with ';'.
func StripComment(command string) string {
	if strings.HasPrefix(strings.TrimSpace(command), "//") {
		return ""
	}

	if comment := strings.IndexByte(command, ';'); comment >= 0 {
		return command[:comment]
	}

	return command
}

type commandInterpreter struct {
	impl Interpreter
}

func MakeCommandInterpreter(i Interpreter) CommandInterpreter {
	return &commandInterpreter{
		impl: i,
	}
}

func (i *commandInterpreter) Run(command string) (*string, error) {
	// operands can be separated by commas, assembly style:
	args := strings.Fields(strings.ReplaceAll(StripComment(command), ",", " "))

	if len(args) <= 0 {
		return nil, MakeInterpreterError(ErrBadParameters, "invalid command, cannot be empty")
	} else {
		return i.impl.Run(args[0], args[1:]...)
	}
}

type sanitizedCommandInterpreter struct {
	CommandInterpreter
}

func (i *sanitizedCommandInterpreter) Run(command string) (*string, error) {
	command = strings.TrimSpace(StripComment(command))

	// ignore empty lines:
	if len(command) <= 0 {
		return nil, nil
	}

	return i.CommandInterpreter.Run(command)
}

func MakeSanitizedCommandInterpreter(i CommandInterpreter) CommandInterpreter {
	return &sanitizedCommandInterpreter{
		CommandInterpreter: i,
	}
}

type programInterpreter struct {
	impl CommandInterpreter
}

func MakeProgramInterpreter(i CommandInterpreter) ProgramInterpreter {
	return &programInterpreter{
		impl: i,
	}
}

// Runs all commands in order, stopping at the first error. Returns the result of the last
// command that produced one.
func (i *programInterpreter) Run(commands []string) (*string, error) {
	var lastResult *string

	for line, command := range commands {
		if result, err := i.impl.Run(command); err != nil {
			return nil, MakeProgramError(line+1, strings.TrimSpace(command), err)
		} else if result != nil {
			lastResult = result
		}
	}

	return lastResult, nil
}

const (
	Instruction_Read  string = "RD"
	Instruction_Write string = "WR"
	Instruction_Set   string = "SET"
	Instruction_Eval  string = "EVAL"
	Instruction_Reset string = "RESET"

	Instruction_Add   string = "ADD"
	Instruction_Sub   string = "SUB"
	Instruction_Mul   string = "MUL"
	Instruction_UDiv  string = "UDIV"
	Instruction_SDiv  string = "SDIV"
	Instruction_And   string = "AND"
	Instruction_Orr   string = "ORR"
	Instruction_Eor   string = "EOR"
	Instruction_Lsl   string = "LSL"
	Instruction_Lsr   string = "LSR"
	Instruction_Asr   string = "ASR"
	Instruction_Mvn   string = "MVN"
	Instruction_Neg   string = "NEG"
	Instruction_UMull string = "UMULL"
	Instruction_SMull string = "SMULL"
)

type registerFileInterpreter struct {
	rf        *regfile.RegisterFile
	alu       Alu
	evaluator *eval.ExpressionEvaluator
	logger    *slog.Logger

	binaryOps map[string]func(dest, lhs, rhs regfile.Register) error
	unaryOps  map[string]func(dest, src regfile.Register) error
}

// Creates an interpreter of register file commands. logger can be nil.
func MakeRegisterFileInterpreter(rf *regfile.RegisterFile, logger *slog.Logger) Interpreter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	alu := MakeAlu(rf, logger)

	return &registerFileInterpreter{
		rf:        rf,
		alu:       alu,
		evaluator: eval.NewExpressionEvaluator(rf),
		logger:    logger,
		binaryOps: map[string]func(dest, lhs, rhs regfile.Register) error{
			Instruction_Add:   alu.Add,
			Instruction_Sub:   alu.Sub,
			Instruction_Mul:   alu.Mul,
			Instruction_UDiv:  alu.UDiv,
			Instruction_SDiv:  alu.SDiv,
			Instruction_And:   alu.And,
			Instruction_Orr:   alu.Orr,
			Instruction_Eor:   alu.Eor,
			Instruction_Lsl:   alu.Lsl,
			Instruction_Lsr:   alu.Lsr,
			Instruction_Asr:   alu.Asr,
			Instruction_UMull: alu.UMull,
			Instruction_SMull: alu.SMull,
		},
		unaryOps: map[string]func(dest, src regfile.Register) error{
			Instruction_Mvn: alu.Mvn,
			Instruction_Neg: alu.Neg,
		},
	}
}

// Names of all the instructions understood by register file interpreters
func Instructions() []string {
	return []string{
		Instruction_Read, Instruction_Write, Instruction_Set, Instruction_Eval, Instruction_Reset,
		Instruction_Add, Instruction_Sub, Instruction_Mul, Instruction_UDiv, Instruction_SDiv,
		Instruction_And, Instruction_Orr, Instruction_Eor, Instruction_Lsl, Instruction_Lsr, Instruction_Asr,
		Instruction_Mvn, Instruction_Neg, Instruction_UMull, Instruction_SMull,
	}
}

func parseRegisters(args []string) ([]regfile.Register, error) {
	registers := make([]regfile.Register, 0, len(args))

	for _, arg := range args {
		if r, err := regfile.ParseRegister(arg); err != nil {
			return nil, MakeInterpreterError(ErrBadParameters, "could not parse register argument '%v': %w", arg, err)
		} else {
			registers = append(registers, r)
		}
	}

	return registers, nil
}

func expectArgs(instruction string, args []string, count int) error {
	if len(args) != count {
		return MakeInterpreterError(ErrBadParameters, "%v expects %v arguments, got %v", instruction, count, len(args))
	}

	return nil
}

func (i *registerFileInterpreter) read(args ...string) (*string, error) {
	if err := expectArgs(Instruction_Read, args, 1); err != nil {
		return nil, err
	}

	registers, err := parseRegisters(args)
	if err != nil {
		return nil, err
	}

	v, err := i.rf.ReadRegister(registers[0])
	if err != nil {
		return nil, MakeInterpreterError(err)
	}

	result := fmt.Sprintf("%v = %v", registers[0], v.Hex())
	if v.IsUnknown() {
		result = fmt.Sprintf("%v = X", registers[0])
	}

	return &result, nil
}

// WR register value, value being an integer literal (any Go base prefix) or X
func (i *registerFileInterpreter) write(args ...string) error {
	if err := expectArgs(Instruction_Write, args, 2); err != nil {
		return err
	}

	registers, err := parseRegisters(args[:1])
	if err != nil {
		return err
	}

	if strings.EqualFold(args[1], "X") {
		return i.rf.Invalidate(registers[0])
	}

	literal, ok := new(big.Int).SetString(args[1], 0)
	if !ok {
		return MakeInterpreterError(ErrBadParameters, "invalid integer literal '%v'", args[1])
	}

	if err := i.rf.WriteRegister(registers[0], literal); err != nil {
		return MakeInterpreterError(err)
	}

	return nil
}

// SET register expression
func (i *registerFileInterpreter) set(args ...string) error {
	if len(args) < 2 {
		return MakeInterpreterError(ErrBadParameters, "%v expects a register and an expression", Instruction_Set)
	}

	registers, err := parseRegisters(args[:1])
	if err != nil {
		return err
	}

	result, err := i.evaluator.Eval(strings.Join(args[1:], " "))
	if err != nil {
		return MakeInterpreterError(err)
	}

	var operand any
	if result.IsValue() {
		if result.Value().IsUnknown() {
			return i.rf.Invalidate(registers[0])
		}

		operand = result.Value()
	} else if operand, err = result.Native(); err != nil {
		return MakeInterpreterError(err)
	}

	if err := i.rf.WriteRegister(registers[0], operand); err != nil {
		return MakeInterpreterError(err)
	}

	return nil
}

func (i *registerFileInterpreter) eval(args ...string) (*string, error) {
	if len(args) <= 0 {
		return nil, MakeInterpreterError(ErrBadParameters, "%v expects an expression", Instruction_Eval)
	}

	result, err := i.evaluator.Eval(strings.Join(args, " "))
	if err != nil {
		return nil, MakeInterpreterError(err)
	}

	str := result.String()
	return &str, nil
}

func (i *registerFileInterpreter) Run(instruction string, args ...string) (*string, error) {
	instruction = strings.ToUpper(instruction)
	i.logger.Debug("run", "instruction", instruction, "args", args)

	switch instruction {
	case Instruction_Read:
		return i.read(args...)
	case Instruction_Write:
		return nil, i.write(args...)
	case Instruction_Set:
		return nil, i.set(args...)
	case Instruction_Eval:
		return i.eval(args...)
	case Instruction_Reset:
		if err := expectArgs(Instruction_Reset, args, 0); err != nil {
			return nil, err
		}

		i.rf.Reset()
		return nil, nil
	}

	if op, ok := i.binaryOps[instruction]; ok {
		if err := expectArgs(instruction, args, 3); err != nil {
			return nil, err
		}

		registers, err := parseRegisters(args)
		if err != nil {
			return nil, err
		}

		if err := op(registers[0], registers[1], registers[2]); err != nil {
			return nil, MakeInterpreterError(err, "%v", instruction)
		}

		return nil, nil
	}

	if op, ok := i.unaryOps[instruction]; ok {
		if err := expectArgs(instruction, args, 2); err != nil {
			return nil, err
		}

		registers, err := parseRegisters(args)
		if err != nil {
			return nil, err
		}

		if err := op(registers[0], registers[1]); err != nil {
			return nil, MakeInterpreterError(err, "%v", instruction)
		}

		return nil, nil
	}

	return nil, MakeInterpreterError(ErrBadInstruction, "unsupported instruction '%v'", instruction)
}

// Builds the full interpreter stack for register file programs
func MakeRegisterFileProgramInterpreter(rf *regfile.RegisterFile, logger *slog.Logger) ProgramInterpreter {
	return MakeProgramInterpreter(MakeSanitizedCommandInterpreter(MakeCommandInterpreter(MakeRegisterFileInterpreter(rf, logger))))
}
