package utils

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Formats an uint value into a fixed width binary string of n bits
func FormatUintBinary(value uint64, bits int) string {
	leadingZerosFormat := "%0" + fmt.Sprint(bits) + "s"
	return fmt.Sprintf(leadingZerosFormat, strconv.FormatUint(value, 2))
}

// Formats an uint value into an fixed width hex string of n characters
func FormatUintHex(value uint64, bits int) string {
	leadingZerosFormat := "0x%0" + fmt.Sprint(bits) + "s"
	return fmt.Sprintf(leadingZerosFormat, strconv.FormatUint(value, 16))
}

// Formats an arbitrary width unsigned value into a fixed width binary string of n bits
func FormatBigBinary(value *big.Int, bits int) string {
	leadingZerosFormat := "%0" + fmt.Sprint(bits) + "s"
	return fmt.Sprintf(leadingZerosFormat, value.Text(2))
}

// Formats an arbitrary width unsigned value into a hex string with enough digits to represent n bits
func FormatBigHex(value *big.Int, bits int) string {
	digits := (bits + 3) / 4
	leadingZerosFormat := "0x%0" + fmt.Sprint(digits) + "s"
	return fmt.Sprintf(leadingZerosFormat, value.Text(16))
}

// Groups the characters of a string in chunks of n characters (counting from the right) separated by a separator
func GroupDigits(digits string, n int, separator string) string {
	if n <= 0 || len(digits) <= n {
		return digits
	}

	var builder strings.Builder
	head := len(digits) % n

	if head > 0 {
		builder.WriteString(digits[:head])
	}

	for i := head; i < len(digits); i += n {
		if builder.Len() > 0 {
			builder.WriteString(separator)
		}
		builder.WriteString(digits[i : i+n])
	}

	return builder.String()
}

// Returns an string containing all formatted sequence items separated by a given separator
func FormatSlice[T any](input []T, separator string) string {
	var builder strings.Builder

	for i, value := range input {
		builder.WriteString(fmt.Sprint(value))

		if i < len(input)-1 {
			builder.WriteString(separator)
		}
	}

	return builder.String()
}
