package value

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Manu343726/isasim/pkg/utils"
)

// Encoding used to interpret the bits of a value
type Kind uint

const (
	// Unsigned binary integer
	Kind_Unsigned Kind = iota

	// Two's complement signed integer
	Kind_Signed

	// Sign, biased exponent and fractional mantissa with an implicit leading one
	Kind_Floating
)

func (k Kind) String() string {
	switch k {
	case Kind_Unsigned:
		return "UInt"
	case Kind_Signed:
		return "SInt"
	case Kind_Floating:
		return "Floating"
	}

	panic("unreachable")
}

// Maximum exponent field width supported by floating formats
const MaxExponentWidth = 30

// Describes the encoding and layout of a fixed width value
type Format struct {
	Kind Kind

	// Total number of storage bits
	Width int

	// Floating formats only: width of the biased exponent field
	ExponentWidth int

	// Floating formats only: width of the fractional mantissa field, not counting the implicit integer bit
	MantissaWidth int
}

// Unsigned integer format of the given width
func Unsigned(width int) Format {
	return mustBeValid(Format{Kind: Kind_Unsigned, Width: width})
}

// Two's complement signed integer format of the given width
func Signed(width int) Format {
	return mustBeValid(Format{Kind: Kind_Signed, Width: width})
}

// Floating point format with the given exponent and mantissa field widths
func FloatFormat(exponentWidth, mantissaWidth int) Format {
	return mustBeValid(Format{
		Kind:          Kind_Floating,
		Width:         1 + exponentWidth + mantissaWidth,
		ExponentWidth: exponentWidth,
		MantissaWidth: mantissaWidth,
	})
}

func mustBeValid(f Format) Format {
	if err := f.Validate(); err != nil {
		panic(err)
	}

	return f
}

// Checks the format describes a representable layout
func (f Format) Validate() error {
	switch f.Kind {
	case Kind_Unsigned, Kind_Signed:
		if f.Width <= 0 {
			return utils.MakeError(ErrInvalidFormat, "%v width must be positive, got %v", f.Kind, f.Width)
		}
	case Kind_Floating:
		if f.ExponentWidth < 1 || f.ExponentWidth > MaxExponentWidth {
			return utils.MakeError(ErrInvalidFormat, "exponent width must be in range [1, %v], got %v", MaxExponentWidth, f.ExponentWidth)
		}
		if f.MantissaWidth < 1 {
			return utils.MakeError(ErrInvalidFormat, "mantissa width must be positive, got %v", f.MantissaWidth)
		}
		if f.Width != 1+f.ExponentWidth+f.MantissaWidth {
			return utils.MakeError(ErrInvalidFormat, "floating width must be 1 + %v + %v, got %v", f.ExponentWidth, f.MantissaWidth, f.Width)
		}
	default:
		return utils.MakeError(ErrInvalidFormat, "unknown kind %d", uint(f.Kind))
	}

	return nil
}

func (f Format) IsInteger() bool {
	return f.Kind == Kind_Unsigned || f.Kind == Kind_Signed
}

func (f Format) IsSigned() bool {
	return f.Kind == Kind_Signed || f.Kind == Kind_Floating
}

func (f Format) IsFloating() bool {
	return f.Kind == Kind_Floating
}

// Returns the exponent bias of a floating format
func (f Format) Bias() int {
	return (1 << (f.ExponentWidth - 1)) - 1
}

// Bit range (msb, lsb) of the exponent field
func (f Format) ExponentField() (int, int) {
	return f.MantissaWidth + f.ExponentWidth - 1, f.MantissaWidth
}

// Bit range (msb, lsb) of the mantissa field
func (f Format) MantissaField() (int, int) {
	return f.MantissaWidth - 1, 0
}

// Returns the layout of the format as a list of named bit fields, least significant first
func (f Format) Fields() []utils.AsciiFrameField {
	if !f.IsFloating() {
		return []utils.AsciiFrameField{{Name: strings.ToLower(f.Kind.String()), Begin: 0, Width: f.Width}}
	}

	return []utils.AsciiFrameField{
		{Name: "mantissa", Begin: 0, Width: f.MantissaWidth},
		{Name: "exponent", Begin: f.MantissaWidth, Width: f.ExponentWidth},
		{Name: "sign", Begin: f.Width - 1, Width: 1},
	}
}

func (f Format) String() string {
	if f.IsFloating() {
		return fmt.Sprintf("Floating(%v,%v)", f.ExponentWidth, f.MantissaWidth)
	}

	return fmt.Sprintf("%v(%v)", f.Kind, f.Width)
}

var (
	UInt8Format  = Unsigned(8)
	UInt16Format = Unsigned(16)
	UInt32Format = Unsigned(32)
	UInt64Format = Unsigned(64)

	SInt8Format  = Signed(8)
	SInt16Format = Signed(16)
	SInt32Format = Signed(32)
	SInt64Format = Signed(64)

	// FP8 with 4 exponent bits and 3 mantissa bits
	FP8E4M3Format = FloatFormat(4, 3)
	// FP8 with 5 exponent bits and 2 mantissa bits
	FP8E5M2Format = FloatFormat(5, 2)
	// 16 bit brain float: single precision exponent with a 7 bit mantissa
	BFloat16Format = FloatFormat(8, 7)
	// IEEE 754 half precision layout
	HalfFormat = FloatFormat(5, 10)
	// IEEE 754 single precision layout
	SingleFormat = FloatFormat(8, 23)
	// IEEE 754 double precision layout
	DoubleFormat = FloatFormat(11, 52)
)

var namedFormats = map[string]Format{
	"uint8":    UInt8Format,
	"uint16":   UInt16Format,
	"uint32":   UInt32Format,
	"uint64":   UInt64Format,
	"sint8":    SInt8Format,
	"sint16":   SInt16Format,
	"sint32":   SInt32Format,
	"sint64":   SInt64Format,
	"fp8_e4m3": FP8E4M3Format,
	"fp8_e5m2": FP8E5M2Format,
	"bfloat16": BFloat16Format,
	"float16":  BFloat16Format,
	"hpfloat":  HalfFormat,
	"spfloat":  SingleFormat,
	"dpfloat":  DoubleFormat,
}

// Returns all the formats that can be referred by name
func NamedFormats() map[string]Format {
	formats := make(map[string]Format, len(namedFormats))

	for name, format := range namedFormats {
		formats[name] = format
	}

	return formats
}

var (
	unsignedFormatPattern = regexp.MustCompile(`^u(?:int)?(\d+)$`)
	signedFormatPattern   = regexp.MustCompile(`^s(?:int)?(\d+)$`)
	floatingFormatPattern = regexp.MustCompile(`^(?:e(\d+)m(\d+)|float\((\d+),(\d+)\))$`)
)

// Parses a format name. Accepts the named formats (uint8, hpfloat, ...) plus
// uN/uintN, sN/sintN and eXmY/float(X,Y) for arbitrary widths
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", ""))

	if format, isNamed := namedFormats[name]; isNamed {
		return format, nil
	}

	var format Format

	if match := unsignedFormatPattern.FindStringSubmatch(name); match != nil {
		width, _ := strconv.Atoi(match[1])
		format = Format{Kind: Kind_Unsigned, Width: width}
	} else if match := signedFormatPattern.FindStringSubmatch(name); match != nil {
		width, _ := strconv.Atoi(match[1])
		format = Format{Kind: Kind_Signed, Width: width}
	} else if match := floatingFormatPattern.FindStringSubmatch(name); match != nil {
		exponent, mantissa := match[1], match[2]
		if exponent == "" {
			exponent, mantissa = match[3], match[4]
		}

		exponentWidth, _ := strconv.Atoi(exponent)
		mantissaWidth, _ := strconv.Atoi(mantissa)
		format = Format{
			Kind:          Kind_Floating,
			Width:         1 + exponentWidth + mantissaWidth,
			ExponentWidth: exponentWidth,
			MantissaWidth: mantissaWidth,
		}
	} else {
		return Format{}, utils.MakeError(ErrInvalidFormat, "unknown format '%v'", name)
	}

	if err := format.Validate(); err != nil {
		return Format{}, err
	}

	return format, nil
}
