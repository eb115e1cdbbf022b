package cpu

import (
	"errors"
	"log/slog"
	"math/big"

	"github.com/Manu343726/isasim/pkg/hw/regfile"
	"github.com/Manu343726/isasim/pkg/hw/value"
	"github.com/Manu343726/isasim/pkg/utils"
)

// Integer data processing over the registers of a register file.
//
// Operands are read with the access size of their register reference and extended to the size
// of the destination. Unsigned operations zero extend, signed ones sign extend. If any operand
// is X the destination register becomes X.
type Alu interface {
	Add(dest, lhs, rhs regfile.Register) error
	Sub(dest, lhs, rhs regfile.Register) error
	Mul(dest, lhs, rhs regfile.Register) error
	UDiv(dest, lhs, rhs regfile.Register) error
	SDiv(dest, lhs, rhs regfile.Register) error

	And(dest, lhs, rhs regfile.Register) error
	Orr(dest, lhs, rhs regfile.Register) error
	Eor(dest, lhs, rhs regfile.Register) error
	Lsl(dest, lhs, rhs regfile.Register) error
	Lsr(dest, lhs, rhs regfile.Register) error
	Asr(dest, lhs, rhs regfile.Register) error

	Mvn(dest, src regfile.Register) error
	Neg(dest, src regfile.Register) error

	// Widening multiplications, dest must be as wide as both operands together
	UMull(dest, lhs, rhs regfile.Register) error
	SMull(dest, lhs, rhs regfile.Register) error
}

type alu struct {
	rf     *regfile.RegisterFile
	logger *slog.Logger
}

// Creates an ALU working on the given register file. logger can be nil.
func MakeAlu(rf *regfile.RegisterFile, logger *slog.Logger) Alu {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &alu{rf: rf, logger: logger}
}

type signedness bool

const (
	unsigned signedness = false
	signed   signedness = true
)

// Reads r and extends it to size bits
func (u *alu) operand(r regfile.Register, size int, s signedness) (*value.Value, error) {
	v, err := u.rf.ReadRegister(r)
	if err != nil {
		return nil, err
	}

	if s == unsigned {
		return value.Convert(value.Unsigned(size), v)
	}

	v, err = v.Reinterpret(value.Signed(v.Width()))
	if err != nil {
		return nil, err
	}

	return value.Convert(value.Signed(size), v)
}

func (u *alu) write(op string, dest regfile.Register, result *value.Value) error {
	u.logger.Debug("alu", "op", op, "dest", dest, "result", result)

	if result.IsUnknown() {
		return u.rf.Invalidate(dest)
	}

	return u.rf.WriteRegister(dest, result)
}

func (u *alu) BinaryOp(op string, dest, lhs, rhs regfile.Register, s signedness, body func(lhs, rhs *value.Value) (*value.Value, error)) error {
	size := u.rf.Size(dest)

	lhsValue, lhsErr := u.operand(lhs, size, s)
	rhsValue, rhsErr := u.operand(rhs, size, s)
	if err := errors.Join(lhsErr, rhsErr); err != nil {
		return err
	}

	result, err := body(lhsValue, rhsValue)
	if err != nil {
		u.logger.Warn("alu operation failed", "op", op, "lhs", lhsValue, "rhs", rhsValue, "error", err)
		return err
	}

	return u.write(op, dest, result)
}

func (u *alu) UnaryOp(op string, dest, src regfile.Register, body func(src *value.Value) *value.Value) error {
	srcValue, err := u.operand(src, u.rf.Size(dest), unsigned)
	if err != nil {
		return err
	}

	return u.write(op, dest, body(srcValue))
}

func (u *alu) Add(dest, lhs, rhs regfile.Register) error {
	return u.BinaryOp("add", dest, lhs, rhs, unsigned, func(lhs, rhs *value.Value) (*value.Value, error) {
		return lhs.Add(rhs)
	})
}

func (u *alu) Sub(dest, lhs, rhs regfile.Register) error {
	return u.BinaryOp("sub", dest, lhs, rhs, unsigned, func(lhs, rhs *value.Value) (*value.Value, error) {
		return lhs.Sub(rhs)
	})
}

func (u *alu) Mul(dest, lhs, rhs regfile.Register) error {
	return u.BinaryOp("mul", dest, lhs, rhs, unsigned, func(lhs, rhs *value.Value) (*value.Value, error) {
		return lhs.Mul(rhs)
	})
}

// Division truncating towards zero. Division by zero yields zero.
func divide(lhs, rhs *value.Value) (*value.Value, error) {
	if lhs.IsUnknown() || rhs.IsUnknown() {
		return value.New(lhs.Format()), nil
	}

	dividend, err := lhs.Int()
	if err != nil {
		return nil, err
	}

	divisor, err := rhs.Int()
	if err != nil {
		return nil, err
	}

	if divisor.Sign() == 0 {
		return value.FromInt(lhs.Format(), 0), nil
	}

	return value.FromBig(lhs.Format(), new(big.Int).Quo(dividend, divisor)), nil
}

func (u *alu) UDiv(dest, lhs, rhs regfile.Register) error {
	return u.BinaryOp("udiv", dest, lhs, rhs, unsigned, func(lhs, rhs *value.Value) (*value.Value, error) {
		return divide(lhs, rhs)
	})
}

func (u *alu) SDiv(dest, lhs, rhs regfile.Register) error {
	return u.BinaryOp("sdiv", dest, lhs, rhs, signed, func(lhs, rhs *value.Value) (*value.Value, error) {
		return divide(lhs, rhs)
	})
}

func (u *alu) And(dest, lhs, rhs regfile.Register) error {
	return u.BinaryOp("and", dest, lhs, rhs, unsigned, func(lhs, rhs *value.Value) (*value.Value, error) {
		return lhs.And(rhs)
	})
}

func (u *alu) Orr(dest, lhs, rhs regfile.Register) error {
	return u.BinaryOp("orr", dest, lhs, rhs, unsigned, func(lhs, rhs *value.Value) (*value.Value, error) {
		return lhs.Or(rhs)
	})
}

func (u *alu) Eor(dest, lhs, rhs regfile.Register) error {
	return u.BinaryOp("eor", dest, lhs, rhs, unsigned, func(lhs, rhs *value.Value) (*value.Value, error) {
		return lhs.Xor(rhs)
	})
}

// Shift amounts are taken modulo the size of the destination
func shift(op value.BinaryOp, lhs, rhs *value.Value) (*value.Value, error) {
	amount, err := rhs.Mod(lhs.Width())
	if err != nil {
		return nil, err
	}

	return lhs.Apply(op, amount)
}

func (u *alu) Lsl(dest, lhs, rhs regfile.Register) error {
	return u.BinaryOp("lsl", dest, lhs, rhs, unsigned, func(lhs, rhs *value.Value) (*value.Value, error) {
		return shift(value.Op_Shl, lhs, rhs)
	})
}

func (u *alu) Lsr(dest, lhs, rhs regfile.Register) error {
	return u.BinaryOp("lsr", dest, lhs, rhs, unsigned, func(lhs, rhs *value.Value) (*value.Value, error) {
		return shift(value.Op_Shr, lhs, rhs)
	})
}

func (u *alu) Asr(dest, lhs, rhs regfile.Register) error {
	return u.BinaryOp("asr", dest, lhs, rhs, signed, func(lhs, rhs *value.Value) (*value.Value, error) {
		return shift(value.Op_Shr, lhs, rhs)
	})
}

func (u *alu) Mvn(dest, src regfile.Register) error {
	return u.UnaryOp("mvn", dest, src, func(src *value.Value) *value.Value {
		return src.Invert()
	})
}

func (u *alu) Neg(dest, src regfile.Register) error {
	return u.UnaryOp("neg", dest, src, func(src *value.Value) *value.Value {
		return src.Neg()
	})
}

func (u *alu) mulExtend(op string, dest, lhs, rhs regfile.Register, s signedness) error {
	lhsSize, rhsSize, destSize := u.rf.Size(lhs), u.rf.Size(rhs), u.rf.Size(dest)
	if lhsSize+rhsSize != destSize {
		return utils.MakeError(regfile.ErrInvalidSize, "%v: %v is %v bits wide, expected %v + %v bits", op, dest, destSize, lhsSize, rhsSize)
	}

	lhsValue, lhsErr := u.operand(lhs, lhsSize, s)
	rhsValue, rhsErr := u.operand(rhs, rhsSize, s)
	if err := errors.Join(lhsErr, rhsErr); err != nil {
		return err
	}

	result, err := value.MulExtend(lhsValue, rhsValue)
	if err != nil {
		return err
	}

	return u.write(op, dest, result)
}

func (u *alu) UMull(dest, lhs, rhs regfile.Register) error {
	return u.mulExtend("umull", dest, lhs, rhs, unsigned)
}

func (u *alu) SMull(dest, lhs, rhs regfile.Register) error {
	return u.mulExtend("smull", dest, lhs, rhs, signed)
}
