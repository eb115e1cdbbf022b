package cpu

import (
	"regexp"
	"sort"
	"strings"

	"github.com/Manu343726/isasim/pkg/hw/regfile"
	"github.com/Manu343726/isasim/pkg/hw/value"
	"github.com/fatih/color"
)

// Script syntax highlighting colors
var (
	instructionColor = color.New(color.FgMagenta, color.Bold)
	formatColor      = color.New(color.FgCyan)
	registerColor    = color.New(color.FgGreen)
	numberColor      = color.New(color.FgYellow)
	unknownColor     = color.New(color.FgRed, color.Bold)
	commentColor     = color.New(color.FgHiBlack)
	operatorColor    = color.New(color.FgRed)
)

var (
	lineCommentPattern = regexp.MustCompile(`^\s*//.*$|;.*$`)
	numberPattern      = regexp.MustCompile(`\b(?:0[xX][0-9a-fA-F_]+|0[bB][01_]+|0[oO][0-7_]+|[0-9]+(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?)\b`)
	identifierPattern  = regexp.MustCompile(`\b[a-zA-Z_][a-zA-Z0-9_]*\b`)
	operatorPattern    = regexp.MustCompile(`\*\*|//|<<|>>|<=|>=|==|!=|[+\-*/%&|^~<>\[\]:]`)
)

// A highlighted fragment of a line
type token struct {
	text  string
	color *color.Color
	start int
	end   int
}

func overlapsAny(start, end int, tokens []token) bool {
	for _, t := range tokens {
		if start < t.end && end > t.start {
			return true
		}
	}
	return false
}

func isInstruction(word string) bool {
	for _, instruction := range Instructions() {
		if strings.EqualFold(word, instruction) {
			return true
		}
	}

	return false
}

func isFormat(word string) bool {
	_, err := value.ParseFormat(word)
	return err == nil
}

func isRegister(word string) bool {
	_, err := regfile.ParseRegister(word)
	return err == nil
}

// Returns the color of an identifier, nil if it is not highlighted
func identifierColor(word string, first bool) *color.Color {
	switch {
	case first && isInstruction(word):
		return instructionColor
	case word == "X":
		return unknownColor
	case isRegister(word):
		return registerColor
	case isFormat(word):
		return formatColor
	}

	return nil
}

// Highlight applies syntax highlighting to a line of a register file program
func Highlight(line string) string {
	if line == "" {
		return ""
	}

	var tokens []token
	add := func(matches [][]int, c *color.Color) {
		for _, match := range matches {
			if !overlapsAny(match[0], match[1], tokens) {
				tokens = append(tokens, token{text: line[match[0]:match[1]], color: c, start: match[0], end: match[1]})
			}
		}
	}

	add(lineCommentPattern.FindAllStringIndex(line, -1), commentColor)
	add(numberPattern.FindAllStringIndex(line, -1), numberColor)

	for i, match := range identifierPattern.FindAllStringIndex(line, -1) {
		if c := identifierColor(line[match[0]:match[1]], i == 0); c != nil {
			add([][]int{match}, c)
		}
	}

	add(operatorPattern.FindAllStringIndex(line, -1), operatorColor)

	return buildHighlightedString(line, tokens)
}

func buildHighlightedString(line string, tokens []token) string {
	if len(tokens) == 0 {
		return line
	}

	sort.Slice(tokens, func(i, j int) bool { return tokens[i].start < tokens[j].start })

	var result strings.Builder
	pos := 0

	for _, t := range tokens {
		if t.start > pos {
			result.WriteString(line[pos:t.start])
		}
		result.WriteString(t.color.Sprint(t.text))
		pos = t.end
	}

	if pos < len(line) {
		result.WriteString(line[pos:])
	}

	return result.String()
}
