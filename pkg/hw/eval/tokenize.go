package eval

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/Manu343726/isasim/pkg/hw/value"
	"github.com/Manu343726/isasim/pkg/utils"
)

// Token types for expression parsing
type TokenType int

const (
	TokenNumber TokenType = iota
	TokenIdentifier
	TokenOperator
	TokenLBracket
	TokenRBracket
	TokenLParen
	TokenRParen
	TokenColon
)

// Token represents a lexical token in an expression
type Token struct {
	Type  TokenType
	Value string

	// Number tokens only
	Num value.Native
}

// Operators sorted so that longer symbols are matched first
var operatorSymbols = []string{
	"**", "//", "<<", ">>", "<=", ">=", "==", "!=",
	"+", "-", "*", "/", "%", "&", "|", "^", "~", "<", ">",
}

// Tokenize breaks an expression into tokens
func Tokenize(expr string) ([]Token, error) {
	var tokens []Token
	expr = strings.TrimSpace(expr)

	for len(expr) > 0 {
		expr = strings.TrimSpace(expr)
		if len(expr) == 0 {
			break
		}

		switch expr[0] {
		case '[':
			tokens = append(tokens, Token{Type: TokenLBracket, Value: "["})
			expr = expr[1:]
			continue
		case ']':
			tokens = append(tokens, Token{Type: TokenRBracket, Value: "]"})
			expr = expr[1:]
			continue
		case '(':
			tokens = append(tokens, Token{Type: TokenLParen, Value: "("})
			expr = expr[1:]
			continue
		case ')':
			tokens = append(tokens, Token{Type: TokenRParen, Value: ")"})
			expr = expr[1:]
			continue
		case ':':
			tokens = append(tokens, Token{Type: TokenColon, Value: ":"})
			expr = expr[1:]
			continue
		}

		if symbol, isOperator := matchOperator(expr); isOperator {
			tokens = append(tokens, Token{Type: TokenOperator, Value: symbol})
			expr = expr[len(symbol):]
			continue
		}

		if IsDigit(expr[0]) || (expr[0] == '.' && len(expr) > 1 && IsDigit(expr[1])) {
			token, err := scanNumber(expr)
			if err != nil {
				return nil, err
			}

			tokens = append(tokens, token)
			expr = expr[len(token.Value):]
			continue
		}

		if IsAlpha(expr[0]) || expr[0] == '_' {
			end := 0
			for end < len(expr) && (IsAlphaNum(expr[end]) || expr[end] == '_') {
				end++
			}

			tokens = append(tokens, Token{Type: TokenIdentifier, Value: expr[:end]})
			expr = expr[end:]
			continue
		}

		return nil, utils.MakeError(ErrSyntax, "unexpected character: %c", expr[0])
	}

	return tokens, nil
}

func matchOperator(expr string) (string, bool) {
	for _, symbol := range operatorSymbols {
		if strings.HasPrefix(expr, symbol) {
			return symbol, true
		}
	}

	return "", false
}

// Scans an integer literal (decimal, 0x hex, 0b binary, 0o octal, with optional _ separators)
// or a decimal real literal
func scanNumber(expr string) (Token, error) {
	if len(expr) >= 2 && expr[0] == '0' && strings.ContainsRune("xXbBoO", rune(expr[1])) {
		end := 2
		for end < len(expr) && (IsHexDigit(expr[end]) || expr[end] == '_') {
			end++
		}

		return integerToken(expr[:end])
	}

	end := 0
	for end < len(expr) && (IsDigit(expr[end]) || expr[end] == '_') {
		end++
	}

	isReal := false

	if end < len(expr) && expr[end] == '.' {
		isReal = true
		end++
		for end < len(expr) && IsDigit(expr[end]) {
			end++
		}
	}

	if end < len(expr) && (expr[end] == 'e' || expr[end] == 'E') {
		exponentEnd := end + 1
		if exponentEnd < len(expr) && (expr[exponentEnd] == '+' || expr[exponentEnd] == '-') {
			exponentEnd++
		}

		if exponentEnd < len(expr) && IsDigit(expr[exponentEnd]) {
			isReal = true
			end = exponentEnd
			for end < len(expr) && IsDigit(expr[end]) {
				end++
			}
		}
	}

	if !isReal {
		return integerToken(expr[:end])
	}

	num, err := strconv.ParseFloat(expr[:end], 64)
	if err != nil {
		return Token{}, utils.MakeError(ErrSyntax, "invalid real number: %s", expr[:end])
	}

	return Token{Type: TokenNumber, Value: expr[:end], Num: value.NativeFloat(num)}, nil
}

func integerToken(literal string) (Token, error) {
	num, ok := new(big.Int).SetString(literal, 0)
	if !ok {
		return Token{}, utils.MakeError(ErrSyntax, "invalid number: %s", literal)
	}

	return Token{Type: TokenNumber, Value: literal, Num: value.NativeBig(num)}, nil
}

// Character classification helpers
func IsDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func IsHexDigit(c byte) bool {
	return IsDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func IsAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func IsAlphaNum(c byte) bool {
	return IsAlpha(c) || IsDigit(c)
}
