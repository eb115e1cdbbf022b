// Package value implements bit accurate fixed width values for instruction set simulation.
//
// A Value has a Format (unsigned or signed two's complement integers of any width, or
// floating point numbers with configurable exponent and mantissa widths) and a pattern of
// bits that can be unknown (X). X values propagate through arithmetic, bitwise, shift
// and unary operators, and make comparisons and truth tests fail with ErrUnknownOperand.
//
// Operators accept Go numbers, *big.Int, Native numbers and other values as their right
// operand. Arithmetic combines decoded values and re-encodes the result into the format
// of the left operand, bitwise operators combine raw patterns.
package value
