package cpu

import (
	"errors"
	"fmt"
)

var (
	ErrInterpreter    = errors.New("interpreter error")
	ErrBadParameters  = errors.New("bad parameters")
	ErrBadInstruction = errors.New("bad instruction")
)

// Wraps err as an interpreter error. args[0], if any, is a format string for the details message.
func MakeInterpreterError(err error, args ...any) error {
	if len(args) <= 0 {
		return fmt.Errorf("%w: %w", ErrInterpreter, err)
	}

	switch message := args[0].(type) {
	case string:
		return fmt.Errorf("%w: %w: "+message, append([]any{ErrInterpreter, err}, args[1:]...)...)
	default:
		return fmt.Errorf("%w: %w: "+fmt.Sprint(message), append([]any{ErrInterpreter, err}, args[1:]...)...)
	}
}

// Annotates err with the (1-based) line of a program it comes from
func MakeProgramError(line int, command string, err error) error {
	return fmt.Errorf("error at line %v (%v): %w", line, command, err)
}
