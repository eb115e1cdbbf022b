package utils

import (
	"math/big"

	"golang.org/x/exp/constraints"
)

const BitsPerByte = 8

// Returns the size in bits of n bytes
func Bits(bytes int) int {
	return bytes * BitsPerByte
}

// Returns an all ones bitmask of n bits of the given unsigned integer type
func AllOnes[T constraints.Unsigned](bits int) T {
	return (T(1) << bits) - T(1)
}

// Returns an all ones bitmask of n bits of arbitrary width
func BigAllOnes(bits int) *big.Int {
	if bits <= 0 {
		return new(big.Int)
	}

	mask := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	return mask.Sub(mask, big.NewInt(1))
}

// Returns 2^bits
func BigPow2(bits int) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(bits))
}

// Implements a read/write view over an arbitrary width unsigned integer, allowing manipullating individual bits easily
type BitView struct {
	Bits *big.Int
}

// Returns the viewed value
func (v BitView) Value() *big.Int {
	return v.Bits
}

// Extracts a range of bits given a first bit and a width
func (v BitView) Read(bit int, width int) *big.Int {
	result := new(big.Int).Rsh(v.Bits, uint(bit))
	return result.And(result, BigAllOnes(width))
}

// Copies a value into a range of bits, given the start and width of the range.
// All most significant bits of the value not fitting into the destination range are ignored.
// Bits previously set in the range are cleared first.
func (v BitView) Write(value *big.Int, bit int, width int) {
	v.ClearBits(bit, width)

	field := new(big.Int).And(value, BigAllOnes(width))
	v.Bits.Or(v.Bits, field.Lsh(field, uint(bit)))
}

// Sets all bits in a range to 1
func (v BitView) SetBits(bit int, width int) {
	v.Write(BigAllOnes(width), bit, width)
}

// Sets all bits in a range to 0
func (v BitView) ClearBits(bit int, width int) {
	mask := BigAllOnes(width)
	mask.Lsh(mask, uint(bit))
	v.Bits.AndNot(v.Bits, mask)
}

// Sets bit to 1
func (v BitView) SetBit(bit int) {
	v.SetBits(bit, 1)
}

// Sets bit to 0
func (v BitView) ClearBit(bit int) {
	v.ClearBits(bit, 1)
}

// Creates a bit view out of an arbitrary width unsigned int
func CreateBitView(value *big.Int) BitView {
	return BitView{
		Bits: value,
	}
}
