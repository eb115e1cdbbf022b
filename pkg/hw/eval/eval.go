package eval

import (
	"errors"
	"math/big"
	"slices"
	"strings"

	"github.com/Manu343726/isasim/pkg/hw/regfile"
	"github.com/Manu343726/isasim/pkg/hw/value"
	"github.com/Manu343726/isasim/pkg/utils"
)

var ErrSyntax = errors.New("syntax error")

// Source of register values for expressions referencing registers
type RegisterReader interface {
	ReadRegister(r regfile.Register) (*value.Value, error)
}

// ExpressionEvaluator evaluates expressions over typed values, untyped numbers and registers.
//
// Untyped numbers combine with natural precision. When a typed value meets an untyped number
// the result takes the format of the typed value, and when two typed values meet the result
// takes the format of the left one.
type ExpressionEvaluator struct {
	registers RegisterReader
}

// NewExpressionEvaluator creates a new expression evaluator. registers can be nil,
// in which case expressions cannot reference registers.
func NewExpressionEvaluator(registers RegisterReader) *ExpressionEvaluator {
	return &ExpressionEvaluator{registers: registers}
}

// Eval evaluates an expression string and returns the result
func (e *ExpressionEvaluator) Eval(expr string) (Result, error) {
	tokens, err := Tokenize(expr)
	if err != nil {
		return Result{}, err
	}

	if len(tokens) == 0 {
		return Result{}, utils.MakeError(ErrSyntax, "empty expression")
	}

	result, remaining, err := e.parseBinary(tokens, 0)
	if err != nil {
		return Result{}, err
	}

	if len(remaining) > 0 {
		return Result{}, utils.MakeError(ErrSyntax, "unexpected token: %s", remaining[0].Value)
	}

	if result.unknown {
		return Result{}, utils.MakeError(ErrSyntax, "X needs a format, e.g. uint8(X)")
	}

	return result, nil
}

// Binary operator precedence levels (lowest to highest):
// 0. < > <= >= == !=
// 1. | (OR)
// 2. ^ (XOR)
// 3. & (AND)
// 4. << >> (shifts)
// 5. + - (add/sub)
// 6. * / // % (mul/div/mod)
// followed by unary - + ~, power ** (right associative) and postfix [] slices
var precedenceLevels = [][]string{
	{"<", ">", "<=", ">=", "==", "!="},
	{"|"},
	{"^"},
	{"&"},
	{"<<", ">>"},
	{"+", "-"},
	{"*", "/", "//", "%"},
}

func isOperator(tokens []Token, symbols ...string) bool {
	return len(tokens) > 0 && tokens[0].Type == TokenOperator && slices.Contains(symbols, tokens[0].Value)
}

func (e *ExpressionEvaluator) parseBinary(tokens []Token, level int) (Result, []Token, error) {
	if level >= len(precedenceLevels) {
		return e.parseUnary(tokens)
	}

	left, tokens, err := e.parseBinary(tokens, level+1)
	if err != nil {
		return Result{}, nil, err
	}

	for isOperator(tokens, precedenceLevels[level]...) {
		symbol := tokens[0].Value

		right, remaining, err := e.parseBinary(tokens[1:], level+1)
		if err != nil {
			return Result{}, nil, err
		}

		if left, err = apply(symbol, left, right); err != nil {
			return Result{}, nil, err
		}

		tokens = remaining
	}

	return left, tokens, nil
}

func (e *ExpressionEvaluator) parseUnary(tokens []Token) (Result, []Token, error) {
	if len(tokens) == 0 {
		return Result{}, nil, utils.MakeError(ErrSyntax, "unexpected end of expression")
	}

	if isOperator(tokens, "-", "+", "~") {
		symbol := tokens[0].Value

		operand, remaining, err := e.parseUnary(tokens[1:])
		if err != nil {
			return Result{}, nil, err
		}

		result, err := applyUnary(symbol, operand)
		return result, remaining, err
	}

	return e.parsePower(tokens)
}

// ** binds tighter than a unary operator on its left and is right associative: -2**2 == -4, 2**3**2 == 512
func (e *ExpressionEvaluator) parsePower(tokens []Token) (Result, []Token, error) {
	base, tokens, err := e.parsePostfix(tokens)
	if err != nil {
		return Result{}, nil, err
	}

	if !isOperator(tokens, "**") {
		return base, tokens, nil
	}

	exponent, remaining, err := e.parseUnary(tokens[1:])
	if err != nil {
		return Result{}, nil, err
	}

	result, err := apply("**", base, exponent)
	return result, remaining, err
}

// Bit slices: expr[msb:lsb] and expr[bit]
func (e *ExpressionEvaluator) parsePostfix(tokens []Token) (Result, []Token, error) {
	result, tokens, err := e.parsePrimary(tokens)
	if err != nil {
		return Result{}, nil, err
	}

	for len(tokens) > 0 && tokens[0].Type == TokenLBracket {
		msb, remaining, err := e.parseIndex(tokens[1:])
		if err != nil {
			return Result{}, nil, err
		}

		lsb := msb
		if len(remaining) > 0 && remaining[0].Type == TokenColon {
			if lsb, remaining, err = e.parseIndex(remaining[1:]); err != nil {
				return Result{}, nil, err
			}
		}

		if len(remaining) == 0 || remaining[0].Type != TokenRBracket {
			return Result{}, nil, utils.MakeError(ErrSyntax, "expected ']' after bit slice")
		}

		if result, err = slice(result, msb, lsb); err != nil {
			return Result{}, nil, err
		}

		tokens = remaining[1:]
	}

	return result, tokens, nil
}

func (e *ExpressionEvaluator) parseIndex(tokens []Token) (int, []Token, error) {
	index, remaining, err := e.parseBinary(tokens, 0)
	if err != nil {
		return 0, nil, err
	}

	native, err := index.Native()
	if err != nil {
		return 0, nil, err
	}

	i, err := native.Int()
	if err != nil {
		return 0, nil, err
	}

	if i.Sign() < 0 || !i.IsInt64() || i.Int64() > maxBitIndex {
		return 0, nil, utils.MakeError(ErrSyntax, "invalid bit index %v", i)
	}

	return int(i.Int64()), remaining, nil
}

const maxBitIndex = 1 << 16

func (e *ExpressionEvaluator) parsePrimary(tokens []Token) (Result, []Token, error) {
	if len(tokens) == 0 {
		return Result{}, nil, utils.MakeError(ErrSyntax, "unexpected end of expression")
	}

	tok := tokens[0]
	tokens = tokens[1:]

	switch tok.Type {
	case TokenNumber:
		return nativeResult(tok.Num), tokens, nil

	case TokenIdentifier:
		if len(tokens) > 0 && tokens[0].Type == TokenLParen {
			return e.parseConstructor(tok.Value, tokens)
		}

		if strings.EqualFold(tok.Value, "x") {
			return Result{unknown: true}, tokens, nil
		}

		result, err := e.readRegister(tok.Value)
		return result, tokens, err

	case TokenLParen:
		result, remaining, err := e.parseBinary(tokens, 0)
		if err != nil {
			return Result{}, nil, err
		}
		if len(remaining) == 0 || remaining[0].Type != TokenRParen {
			return Result{}, nil, utils.MakeError(ErrSyntax, "expected ')' after expression")
		}
		return result, remaining[1:], nil

	default:
		return Result{}, nil, utils.MakeError(ErrSyntax, "unexpected token: %s", tok.Value)
	}
}

// Format constructors: uint8(expr), s12(expr), e4m3(expr), hpfloat(X), ...
func (e *ExpressionEvaluator) parseConstructor(name string, tokens []Token) (Result, []Token, error) {
	format, err := value.ParseFormat(name)
	if err != nil {
		return Result{}, nil, err
	}

	argument, remaining, err := e.parseBinary(tokens[1:], 0)
	if err != nil {
		return Result{}, nil, err
	}

	if len(remaining) == 0 || remaining[0].Type != TokenRParen {
		return Result{}, nil, utils.MakeError(ErrSyntax, "expected ')' after %v argument", name)
	}

	v, err := argument.As(format)
	if err != nil {
		return Result{}, nil, err
	}

	return valueResult(v), remaining[1:], nil
}

func (e *ExpressionEvaluator) readRegister(name string) (Result, error) {
	r, err := regfile.ParseRegister(name)
	if err != nil {
		return Result{}, utils.MakeError(ErrSyntax, "unknown identifier '%v'", name)
	}

	if e.registers == nil {
		return Result{}, utils.MakeError(regfile.ErrUnknownRegister, "no register file to read '%v' from", name)
	}

	v, err := e.registers.ReadRegister(r)
	if err != nil {
		return Result{}, err
	}

	return valueResult(v), nil
}

func slice(r Result, msb, lsb int) (Result, error) {
	if r.unknown {
		return Result{}, utils.MakeError(ErrSyntax, "X needs a format before it can be sliced")
	}

	if r.IsValue() {
		return valueResult(r.value.Field(msb, lsb)), nil
	}

	// Untyped integers are sliced in two's complement
	integer, err := r.native.Int()
	if err != nil || !r.native.IsIntegral() {
		return Result{}, utils.MakeError(value.ErrTypeMismatch, "cannot slice %v", r.native)
	}

	return valueResult(value.FromBig(value.Unsigned(max(msb, lsb)+1), integer).Field(msb, lsb)), nil
}

// Mirrored comparison, so that a op b == b mirror(op) a
func mirror(op value.CompareOp) value.CompareOp {
	switch op {
	case value.Op_Lt:
		return value.Op_Gt
	case value.Op_Gt:
		return value.Op_Lt
	case value.Op_Le:
		return value.Op_Ge
	case value.Op_Ge:
		return value.Op_Le
	}

	return op
}

func boolResult(b bool) Result {
	if b {
		return valueResult(value.UInt(1, 1))
	}

	return valueResult(value.UInt(1, 0))
}

func apply(symbol string, left, right Result) (Result, error) {
	if left.unknown || right.unknown {
		return Result{}, utils.MakeError(ErrSyntax, "X needs a format, e.g. uint8(X)")
	}

	if op, isComparison := value.ParseCompareOp(symbol); isComparison {
		return compare(op, left, right)
	}

	op, isBinary := value.ParseBinaryOp(symbol)
	if !isBinary {
		return Result{}, utils.MakeError(ErrSyntax, "unknown operator %v", symbol)
	}

	switch {
	case left.IsValue():
		result, err := left.value.Apply(op, right.operand())
		return valueResult(result), err
	case right.IsValue():
		// The untyped left operand takes the format of the right one
		lhs, err := left.As(right.value.Format())
		if err != nil {
			return Result{}, err
		}

		result, err := lhs.Apply(op, right.value)
		return valueResult(result), err
	}

	result, err := value.ApplyNative(op, left.native, right.native)
	return nativeResult(result), err
}

func compare(op value.CompareOp, left, right Result) (Result, error) {
	switch {
	case left.IsValue():
		result, err := left.value.Compare(op, right.operand())
		return boolResult(result), err
	case right.IsValue():
		result, err := right.value.Compare(mirror(op), left.operand())
		return boolResult(result), err
	}

	return boolResult(value.CompareNative(op, left.native, right.native)), nil
}

func applyUnary(symbol string, operand Result) (Result, error) {
	if operand.unknown {
		return Result{}, utils.MakeError(ErrSyntax, "X needs a format, e.g. uint8(X)")
	}

	if operand.IsValue() {
		switch symbol {
		case "-":
			return valueResult(operand.value.Neg()), nil
		case "+":
			return valueResult(operand.value.Pos()), nil
		case "~":
			return valueResult(operand.value.Invert()), nil
		}
	}

	switch symbol {
	case "-":
		result, err := value.ApplyNative(value.Op_Mul, operand.native, value.NativeInt(-1))
		return nativeResult(result), err
	case "+":
		return operand, nil
	case "~":
		result, err := value.ApplyNative(value.Op_Xor, operand.native, value.NativeBig(big.NewInt(-1)))
		return nativeResult(result), err
	}

	return Result{}, utils.MakeError(ErrSyntax, "unknown unary operator %v", symbol)
}
