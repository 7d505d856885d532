package debugger

import (
	"testing"

	"github.com/Manu343726/lc3unit/pkg/hw/cpu"
	"github.com/Manu343726/lc3unit/pkg/hw/cpu/interpreter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEvaluator() *Evaluator {
	m := interpreter.NewMachine()
	m.Init(false, 0)
	m.SetRegister(cpu.R1, 5)
	m.SetRegister(cpu.R2, 7)
	m.SetPC(0x3000)
	m.AddSymbol("DATA", 0x4000)
	m.AddSymbol("PTR", 0x4001)
	m.SetMemory(0x4000, 42)
	m.SetMemory(0x4001, 0x4000)

	return NewEvaluator(m)
}

func TestTokenize(t *testing.T) {
	tokens, err := Tokenize("[r0 + x10] << 2")
	require.NoError(t, err)

	types := make([]TokenType, len(tokens))
	for i, token := range tokens {
		types[i] = token.Type
	}

	assert.Equal(t, []TokenType{TokenLBracket, TokenRegister, TokenOperator, TokenNumber, TokenRBracket, TokenOperator, TokenNumber}, types)
	assert.Equal(t, "R0", tokens[1].Value)
	assert.Equal(t, uint16(0x10), tokens[3].Num)
	assert.Equal(t, "<<", tokens[5].Value)
}

func TestEvaluator_Eval(t *testing.T) {
	e := newEvaluator()

	tests := []struct {
		expr     string
		expected uint16
	}{
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"x3000", 0x3000},
		{"0x10", 16},
		{"#10", 10},
		{"0b101", 5},
		{"R1", 5},
		{"r1 + R2", 12},
		{"PC", 0x3000},
		{"pc - #1", 0x2FFF},
		{"DATA", 0x4000},
		{"[DATA]", 42},
		{"[DATA + 1]", 0x4000},
		{"[[PTR]]", 42},
		{"-1", 0xFFFF},
		{"~0", 0xFFFF},
		{"0 - 1", 0xFFFF},
		{"xFFFF + 1", 0},
		{"1 << 4 | 1", 17},
		{"6 & 3 ^ 1", 3},
		{"7 / 2", 3},
		{"7 % 4", 3},
		{"x8000 >> 15", 1},
	}

	for _, test := range tests {
		t.Run(test.expr, func(t *testing.T) {
			value, err := e.Eval(test.expr)
			require.NoError(t, err)
			assert.Equal(t, test.expected, value)
		})
	}
}

func TestEvaluator_Errors(t *testing.T) {
	e := newEvaluator()

	tests := []struct {
		expr string
		err  error
	}{
		{"", ErrEmptyExpression},
		{"   ", ErrEmptyExpression},
		{"1 +", ErrSyntax},
		{"(1", ErrSyntax},
		{"[DATA", ErrSyntax},
		{"1 2", ErrSyntax},
		{"$", ErrSyntax},
		{"x10000", ErrSyntax},
		{"#abc", ErrSyntax},
		{"1 / 0", ErrDivisionByZero},
		{"1 % (R1 - 5)", ErrDivisionByZero},
		{"FOO", ErrUnknownSymbol},
		{"xyz", ErrUnknownSymbol},
		{"R8", ErrUnknownSymbol},
	}

	for _, test := range tests {
		t.Run(test.expr, func(t *testing.T) {
			_, err := e.Eval(test.expr)
			assert.ErrorIs(t, err, test.err)
		})
	}
}

func TestEvaluator_Describe(t *testing.T) {
	e := newEvaluator()

	description, err := e.Describe("R1")
	require.NoError(t, err)
	assert.Equal(t, "R1 = (5 x0005)", description)

	description, err = e.Describe("-1")
	require.NoError(t, err)
	assert.Equal(t, "-1 = (-1 xffff)", description)

	_, err = e.Describe("FOO")
	assert.ErrorContains(t, err, "FOO: unknown symbol: 'FOO'")
}
