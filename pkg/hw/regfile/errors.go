package regfile

import "errors"

var (
	ErrUnknownRegister = errors.New("unknown register")
	ErrInvalidSize     = errors.New("invalid size")
	ErrInvalidStrategy = errors.New("invalid predicate strategy")
	ErrInvalidImage    = errors.New("invalid register file image")
)
