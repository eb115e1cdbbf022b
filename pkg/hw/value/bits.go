package value

import (
	"math/big"

	"github.com/Manu343726/isasim/pkg/utils"
)

// Whether the bits of a value hold a known pattern or are unknown (X)
type State uint

const (
	// Uninitialized or don't care bits
	State_Unknown State = iota

	// Bits hold a pattern
	State_Known
)

func (s State) String() string {
	switch s {
	case State_Unknown:
		return "X"
	case State_Known:
		return "known"
	}

	panic("unreachable")
}

// Fixed width bit storage. The stored pattern is always masked to the storage width.
// The zero value is an unknown pattern of zero width.
type Bits struct {
	width   int
	state   State
	pattern big.Int
}

// Returns an unknown pattern of the given width
func NewBits(width int) Bits {
	return Bits{width: width, state: State_Unknown}
}

func (b *Bits) Width() int {
	return b.width
}

func (b *Bits) State() State {
	return b.state
}

func (b *Bits) IsUnknown() bool {
	return b.state == State_Unknown
}

// Returns a copy of the stored pattern. Fails with ErrUnknownOperand if the bits are unknown.
func (b *Bits) Pattern() (*big.Int, error) {
	if b.IsUnknown() {
		return nil, utils.MakeError(ErrUnknownOperand, "cannot read the pattern of X bits")
	}

	return new(big.Int).Set(&b.pattern), nil
}

// Stores p truncated to the storage width. Negative patterns are taken in two's complement.
func (b *Bits) SetPattern(p *big.Int) {
	b.pattern.And(p, utils.BigAllOnes(b.width))
	b.state = State_Known
}

func (b *Bits) SetUint64(p uint64) {
	b.SetPattern(new(big.Int).SetUint64(p))
}

func (b *Bits) SetUnknown() {
	b.state = State_Unknown
	b.pattern.SetInt64(0)
}

// Turns unknown bits into an all zeros pattern, leaves known bits untouched
func (b *Bits) materialize() {
	if b.IsUnknown() {
		b.SetPattern(new(big.Int))
	}
}

// Direct access to the stored pattern, callers must check the state first
func (b *Bits) raw() *big.Int {
	return &b.pattern
}

func (b *Bits) clone() Bits {
	c := Bits{width: b.width, state: b.state}
	c.pattern.Set(&b.pattern)
	return c
}

// Copy of the bits resized to a new width
func (b *Bits) resized(width int) Bits {
	c := NewBits(width)

	if !b.IsUnknown() {
		c.SetPattern(&b.pattern)
	}

	return c
}
