// Package debugger evaluates expressions over the state of a simulator, as
// used to inspect a machine after running code:
//
//	R0 + 1
//	[ARRAY + 2]        the word at ARRAY+2
//	[[PTR]] & xFF
//	PC - #3
package debugger

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Manu343726/lc3unit/pkg/hw/cpu"
	"github.com/Manu343726/lc3unit/pkg/utils"
	"golang.org/x/exp/slices"
)

var (
	ErrEmptyExpression = errors.New("empty expression")
	ErrSyntax          = errors.New("syntax error")
	ErrUnknownSymbol   = errors.New("unknown symbol")
	ErrDivisionByZero  = errors.New("division by zero")
)

// TokenType is the lexical class of a token
type TokenType int

const (
	TokenNumber TokenType = iota
	TokenRegister
	TokenSymbol
	TokenOperator
	TokenLBracket
	TokenRBracket
	TokenLParen
	TokenRParen
)

// Token is a lexical token of an expression
type Token struct {
	Type  TokenType
	Value string
	// Value of number tokens
	Num uint16
}

var punctuation = map[byte]TokenType{
	'[': TokenLBracket,
	']': TokenRBracket,
	'(': TokenLParen,
	')': TokenRParen,
}

// Binary operators by precedence, lowest first
var precedence = [][]string{
	{"|"},
	{"^"},
	{"&"},
	{"<<", ">>"},
	{"+", "-"},
	{"*", "/", "%"},
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentifier(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

// parseNumber parses the LC-3 assembler literals x3000 and #12 besides
// 0x3000, 0b1010 and plain decimals. The second result is false if word is
// not a number.
func parseNumber(word string) (uint16, bool, error) {
	base, digits := 10, word

	switch {
	case len(word) > 1 && (word[0] == 'x' || word[0] == 'X'):
		for i := 1; i < len(word); i++ {
			if !isHexDigit(word[i]) {
				return 0, false, nil
			}
		}
		base, digits = 16, word[1:]
	case strings.HasPrefix(word, "0x") || strings.HasPrefix(word, "0X"):
		base, digits = 16, word[2:]
	case strings.HasPrefix(word, "0b") || strings.HasPrefix(word, "0B"):
		base, digits = 2, strings.ReplaceAll(word[2:], "_", "")
	case word[0] == '#':
		digits = word[1:]
	case !isDigit(word[0]):
		return 0, false, nil
	}

	value, err := strconv.ParseUint(digits, base, 16)
	if err != nil {
		return 0, true, utils.MakeError(ErrSyntax, "invalid number '%s'", word)
	}

	return uint16(value), true, nil
}

func isRegister(name string) bool {
	name = strings.ToLower(name)
	return name == "pc" || (len(name) == 2 && name[0] == 'r' && name[1] >= '0' && name[1] <= '7')
}

// Tokenize splits an expression into tokens
func Tokenize(expr string) ([]Token, error) {
	var tokens []Token

	for i := 0; i < len(expr); {
		c := expr[i]

		if c == ' ' || c == '\t' {
			i++
			continue
		}

		if t, ok := punctuation[c]; ok {
			tokens = append(tokens, Token{Type: t, Value: string(c)})
			i++
			continue
		}

		if strings.HasPrefix(expr[i:], "<<") || strings.HasPrefix(expr[i:], ">>") {
			tokens = append(tokens, Token{Type: TokenOperator, Value: expr[i : i+2]})
			i += 2
			continue
		}

		if strings.IndexByte("+-*/%&|^~", c) >= 0 {
			tokens = append(tokens, Token{Type: TokenOperator, Value: string(c)})
			i++
			continue
		}

		if !isIdentifier(c) && c != '#' {
			return nil, utils.MakeError(ErrSyntax, "unexpected character '%c'", c)
		}

		end := i + 1
		for end < len(expr) && isIdentifier(expr[end]) {
			end++
		}
		word := expr[i:end]
		i = end

		num, isNumber, err := parseNumber(word)
		switch {
		case err != nil:
			return nil, err
		case isNumber:
			tokens = append(tokens, Token{Type: TokenNumber, Value: word, Num: num})
		case isRegister(word):
			tokens = append(tokens, Token{Type: TokenRegister, Value: strings.ToUpper(word)})
		default:
			tokens = append(tokens, Token{Type: TokenSymbol, Value: word})
		}
	}

	return tokens, nil
}

// Evaluator evaluates expressions against a simulator. Arithmetic wraps
// around at 16 bits, symbols evaluate to their address.
type Evaluator struct {
	sim cpu.Simulator
}

// NewEvaluator returns an evaluator reading the state of sim
func NewEvaluator(sim cpu.Simulator) *Evaluator {
	return &Evaluator{sim: sim}
}

// Eval evaluates an expression
func (e *Evaluator) Eval(expr string) (uint16, error) {
	tokens, err := Tokenize(expr)
	if err != nil {
		return 0, err
	}

	if len(tokens) == 0 {
		return 0, ErrEmptyExpression
	}

	value, rest, err := e.parseBinary(tokens, 0)
	if err != nil {
		return 0, err
	}

	if len(rest) > 0 {
		return 0, utils.MakeError(ErrSyntax, "unexpected '%s'", rest[0].Value)
	}

	return value, nil
}

func apply(op string, left uint16, right uint16) (uint16, error) {
	switch op {
	case "|":
		return left | right, nil
	case "^":
		return left ^ right, nil
	case "&":
		return left & right, nil
	case "<<":
		return left << right, nil
	case ">>":
		return left >> right, nil
	case "+":
		return left + right, nil
	case "-":
		return left - right, nil
	case "*":
		return left * right, nil
	}

	if right == 0 {
		return 0, ErrDivisionByZero
	}

	if op == "/" {
		return left / right, nil
	}
	return left % right, nil
}

func (e *Evaluator) parseBinary(tokens []Token, level int) (uint16, []Token, error) {
	if level == len(precedence) {
		return e.parseUnary(tokens)
	}

	left, tokens, err := e.parseBinary(tokens, level+1)
	if err != nil {
		return 0, nil, err
	}

	for len(tokens) > 0 && tokens[0].Type == TokenOperator && slices.Contains(precedence[level], tokens[0].Value) {
		op := tokens[0].Value

		var right uint16
		right, tokens, err = e.parseBinary(tokens[1:], level+1)
		if err != nil {
			return 0, nil, err
		}

		if left, err = apply(op, left, right); err != nil {
			return 0, nil, err
		}
	}

	return left, tokens, nil
}

func (e *Evaluator) parseUnary(tokens []Token) (uint16, []Token, error) {
	if len(tokens) > 0 && tokens[0].Type == TokenOperator && (tokens[0].Value == "-" || tokens[0].Value == "~") {
		value, rest, err := e.parseUnary(tokens[1:])
		if err != nil {
			return 0, nil, err
		}

		if tokens[0].Value == "-" {
			return -value, rest, nil
		}
		return ^value, rest, nil
	}

	return e.parsePrimary(tokens)
}

// closing evaluates a bracketed expression, returning the tokens after the
// closing token
func (e *Evaluator) closing(tokens []Token, closer TokenType, text string) (uint16, []Token, error) {
	value, rest, err := e.parseBinary(tokens, 0)
	if err != nil {
		return 0, nil, err
	}

	if len(rest) == 0 || rest[0].Type != closer {
		return 0, nil, utils.MakeError(ErrSyntax, "expected '%s'", text)
	}

	return value, rest[1:], nil
}

func (e *Evaluator) parsePrimary(tokens []Token) (uint16, []Token, error) {
	if len(tokens) == 0 {
		return 0, nil, utils.MakeError(ErrSyntax, "unexpected end of expression")
	}

	token, rest := tokens[0], tokens[1:]

	switch token.Type {
	case TokenNumber:
		return token.Num, rest, nil
	case TokenRegister:
		if token.Value == "PC" {
			return e.sim.PC(), rest, nil
		}
		return e.sim.Register(cpu.Register(token.Value[1] - '0')), rest, nil
	case TokenSymbol:
		address, ok := e.sim.Lookup(token.Value)
		if !ok {
			return 0, nil, utils.MakeError(ErrUnknownSymbol, "'%s'", token.Value)
		}
		return address, rest, nil
	case TokenLParen:
		return e.closing(rest, TokenRParen, ")")
	case TokenLBracket:
		address, rest, err := e.closing(rest, TokenRBracket, "]")
		if err != nil {
			return 0, nil, err
		}
		return e.sim.Memory(address), rest, nil
	default:
		return 0, nil, utils.MakeError(ErrSyntax, "unexpected '%s'", token.Value)
	}
}

// Describe evaluates an expression and formats it as "expr = (dec xhex)"
func (e *Evaluator) Describe(expr string) (string, error) {
	value, err := e.Eval(expr)
	if err != nil {
		return "", fmt.Errorf("%s: %w", expr, err)
	}

	return fmt.Sprintf("%s = %s", expr, utils.FormatShort(utils.ToSigned(value))), nil
}
