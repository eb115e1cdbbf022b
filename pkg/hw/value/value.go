package value

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/Manu343726/isasim/pkg/utils"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/constraints"
)

// A fixed width value behaving like a hardware register: a format describing how
// its bits are interpreted plus the bits themselves, which may be unknown (X).
//
// Values are mutable and must be passed by pointer. Use Copy() to get an independent value.
type Value struct {
	format Format
	bits   Bits
}

// Returns an unknown (X) value of the given format
func New(format Format) *Value {
	mustBeValid(format)

	return &Value{
		format: format,
		bits:   NewBits(format.Width),
	}
}

// Returns a value of the given format holding the encoded seed. A nil seed leaves the value unknown.
func NewWith(format Format, seed any) (*Value, error) {
	v := New(format)

	if err := v.Encode(seed); err != nil {
		return nil, err
	}

	return v, nil
}

// Encodes a Go integer into a new value of the given format
func FromInt[T constraints.Integer](format Format, seed T) *Value {
	v := New(format)
	v.EncodeNative(NativeFromInt(seed))
	return v
}

// Encodes a Go float into a new value of the given format
func FromFloat[T constraints.Float](format Format, seed T) *Value {
	v := New(format)
	v.EncodeNative(NativeFromFloat(seed))
	return v
}

// Encodes an arbitrary precision integer into a new value of the given format
func FromBig(format Format, seed *big.Int) *Value {
	v := New(format)
	v.EncodeNative(NativeBig(seed))
	return v
}

// Creates a value holding a raw bit pattern
func FromPattern(format Format, pattern *big.Int) *Value {
	v := New(format)
	v.bits.SetPattern(pattern)
	return v
}

func seeded(format Format, seed []int64) *Value {
	if len(seed) > 0 {
		return FromInt(format, seed[0])
	}

	return New(format)
}

func seededFloat(format Format, seed []float64) *Value {
	if len(seed) > 0 {
		return FromFloat(format, seed[0])
	}

	return New(format)
}

// Unsigned integer of the given width, unknown if no seed is given
func UInt(width int, seed ...int64) *Value {
	return seeded(Unsigned(width), seed)
}

// Signed integer of the given width, unknown if no seed is given
func SInt(width int, seed ...int64) *Value {
	return seeded(Signed(width), seed)
}

// Floating point number with the given exponent and mantissa widths, unknown if no seed is given
func Float(exponentWidth, mantissaWidth int, seed ...float64) *Value {
	return seededFloat(FloatFormat(exponentWidth, mantissaWidth), seed)
}

func UInt8(seed ...int64) *Value  { return seeded(UInt8Format, seed) }
func UInt16(seed ...int64) *Value { return seeded(UInt16Format, seed) }
func UInt32(seed ...int64) *Value { return seeded(UInt32Format, seed) }
func UInt64(seed ...int64) *Value { return seeded(UInt64Format, seed) }
func SInt8(seed ...int64) *Value  { return seeded(SInt8Format, seed) }
func SInt16(seed ...int64) *Value { return seeded(SInt16Format, seed) }
func SInt32(seed ...int64) *Value { return seeded(SInt32Format, seed) }
func SInt64(seed ...int64) *Value { return seeded(SInt64Format, seed) }

func FP8E4M3(seed ...float64) *Value  { return seededFloat(FP8E4M3Format, seed) }
func FP8E5M2(seed ...float64) *Value  { return seededFloat(FP8E5M2Format, seed) }
func BFloat16(seed ...float64) *Value { return seededFloat(BFloat16Format, seed) }
func Half(seed ...float64) *Value     { return seededFloat(HalfFormat, seed) }
func Single(seed ...float64) *Value   { return seededFloat(SingleFormat, seed) }
func Double(seed ...float64) *Value   { return seededFloat(DoubleFormat, seed) }

func (v *Value) Format() Format {
	return v.format
}

func (v *Value) Kind() Kind {
	return v.format.Kind
}

func (v *Value) Width() int {
	return v.format.Width
}

// Number of bits of the value
func (v *Value) Len() int {
	return v.format.Width
}

func (v *Value) IsUnknown() bool {
	return v.bits.IsUnknown()
}

func (v *Value) State() State {
	return v.bits.State()
}

// Returns a copy of the raw bit pattern. Fails with ErrUnknownOperand if the value is X.
func (v *Value) Pattern() (*big.Int, error) {
	return v.bits.Pattern()
}

// Overwrites the raw bit pattern, truncating it to the value width
func (v *Value) SetPattern(pattern *big.Int) {
	v.bits.SetPattern(pattern)
}

func (v *Value) SetUint64(pattern uint64) {
	v.bits.SetUint64(pattern)
}

// Turns the value into X
func (v *Value) SetUnknown() {
	v.bits.SetUnknown()
}

// Returns an independent copy of the value
func (v *Value) Copy() *Value {
	return &Value{
		format: v.format,
		bits:   v.bits.clone(),
	}
}

// Returns an independent copy of the value with a different width. Integer values keep
// their signedness, floating values become unsigned bit patterns.
func (v *Value) Resize(width int) *Value {
	format := Unsigned(width)
	if v.format.Kind == Kind_Signed {
		format = Signed(width)
	}

	return &Value{
		format: format,
		bits:   v.bits.resized(width),
	}
}

// Returns a copy of the value with its bits interpreted in another format of the same width
func (v *Value) Reinterpret(format Format) (*Value, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}

	if format.Width != v.Width() {
		return nil, utils.MakeError(ErrInvalidFormat, "cannot reinterpret %v as %v", v.format, format)
	}

	return &Value{format: format, bits: v.bits.clone()}, nil
}

func (v *Value) unknownCopy() *Value {
	return New(v.format)
}

// Encodes a native number (Go number, *big.Int, Native) or the decoded native of another value.
// Encoding nil or an unknown value turns this value into X.
func (v *Value) Encode(src any) error {
	if src == nil {
		v.SetUnknown()
		return nil
	}

	operand, err := OperandOf(src)
	if err != nil || operand.Kind() == Operand_Masked {
		return unaryTypeMismatch("encode", src)
	}

	if operand.IsUnknown() {
		v.SetUnknown()
		return nil
	}

	native, err := operand.Native()
	if err != nil {
		return err
	}

	v.EncodeNative(native)
	return nil
}

// Encodes a native number into the value. Integer formats truncate reals toward zero
// and wrap around, floating formats saturate. NaN, and infinities on integer formats, produce X.
func (v *Value) EncodeNative(n Native) {
	if v.format.IsFloating() {
		encodeFloating(&v.bits, v.format, n.Float())
		return
	}

	integer, err := n.Int()
	if err != nil {
		v.SetUnknown()
		return
	}

	encodeInteger(&v.bits, integer)
}

// Decodes the value into a native number: an integer for integer formats, a float64 for floating formats.
// Fails with ErrUnknownOperand if the value is X.
func (v *Value) Decode() (Native, error) {
	if v.IsUnknown() {
		return Native{}, utils.MakeError(ErrUnknownOperand, "cannot decode X %v", v.format)
	}

	return v.decode(), nil
}

func (v *Value) decode() Native {
	if v.format.IsFloating() {
		return NativeFloat(decodeFloating(v.format, v.bits.raw()))
	}

	return Native{kind: NativeKind_Int, i: decodeInteger(v.format, v.bits.raw())}
}

// Decoded value as an integer (floating values are truncated toward zero)
func (v *Value) Int() (*big.Int, error) {
	return ToInt(v)
}

// Decoded value as a float64
func (v *Value) Float() (float64, error) {
	return ToFloat(v)
}

// Exact decimal representation of the decoded value
func (v *Value) Decimal() (decimal.Decimal, error) {
	if v.IsUnknown() {
		return decimal.Decimal{}, utils.MakeError(ErrUnknownOperand, "cannot decode X %v", v.format)
	}

	if !v.format.IsFloating() {
		return decimal.NewFromBigInt(decodeInteger(v.format, v.bits.raw()), 0), nil
	}

	significand, exponent, negative := floatingComponents(v.format, v.bits.raw())

	var result decimal.Decimal
	if exponent >= 0 {
		result = decimal.NewFromBigInt(significand.Lsh(significand, uint(exponent)), 0)
	} else {
		// m * 2^-k == m * 5^k * 10^-k
		scale := new(big.Int).Exp(big.NewInt(5), big.NewInt(int64(-exponent)), nil)
		result = decimal.NewFromBigInt(significand.Mul(significand, scale), int32(exponent))
	}

	if negative {
		result = result.Neg()
	}

	return result, nil
}

// The raw pattern as used by index conversions: zero if the value is X
func (v *Value) Index() *big.Int {
	if v.IsUnknown() {
		return new(big.Int)
	}

	return new(big.Int).Set(v.bits.raw())
}

// Hex representation of the raw pattern without leading zeros, "0x0" if the value is X
func (v *Value) Hex() string {
	return "0x" + v.Index().Text(16)
}

// Binary representation of the raw pattern using all the bits of the value, "x" digits if the value is X
func (v *Value) Binary() string {
	if v.IsUnknown() {
		return strings.Repeat("x", v.Width())
	}

	return utils.FormatBigBinary(v.bits.raw(), v.Width())
}

// Raw pattern as hex, or X
func (v *Value) String() string {
	if v.IsUnknown() {
		return "X"
	}

	return v.Hex()
}

// Format and decoded value, e.g. UInt(8)(8) or SInt(16)(X)
func (v *Value) GoString() string {
	if v.IsUnknown() {
		return fmt.Sprintf("%v(X)", v.format)
	}

	return fmt.Sprintf("%v(%v)", v.format, v.decode())
}
