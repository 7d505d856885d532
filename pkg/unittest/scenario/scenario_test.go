package scenario

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/Manu343726/lc3unit/pkg/hw/cpu/interpreter"
	"github.com/Manu343726/lc3unit/pkg/logging"
	"github.com/Manu343726/lc3unit/pkg/unittest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// add5 returns its stack parameter plus five, see the unittest package tests
var add5 = []uint16{
	0x1DBD, 0x7F81, 0x7B80, 0x1BBF, 0x6144, 0x1025,
	0x7143, 0x1D61, 0x6B80, 0x6F81, 0x1DA2, 0xC1C0,
}

// writeScenario writes the ADD5 program and a scenario using it to a
// temporary directory, returning the scenario path
func writeScenario(t *testing.T, scenario string) string {
	t.Helper()

	object := binary.BigEndian.AppendUint16(nil, 0x3010)
	for _, word := range add5 {
		object = binary.BigEndian.AppendUint16(object, word)
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "add5.obj"), object, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "add5.sym"), []byte("//\tADD5              3010\n"), 0o644))

	path := filepath.Join(dir, "add5.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenario), 0o644))
	return path
}

const passing = `
object: add5.obj
symbols: add5.sym
init: {strategy: fill, value: 0}
call: {label: ADD5, params: [3]}
assert:
  - {kind: returned}
  - {kind: return_value, value: 8}
  - {kind: stack_managed, stack: 0xEFFE, return_address: 0x8000, frame_pointer: 0xCAFE}
  - {kind: registers_unchanged, registers: [5, 7]}
  - {kind: no_warnings}
  - {kind: subroutine_calls}
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(passing))
	require.NoError(t, err)

	assert.Equal(t, "add5.obj", s.Object)
	assert.Equal(t, &Init{Strategy: "fill"}, s.Init)
	assert.Equal(t, &Call{Label: "ADD5", Params: []int{3}}, s.Call)
	require.Len(t, s.Assert, 6)
	assert.Equal(t, 0xEFFE, s.Assert[2].Stack)
	assert.Equal(t, []int{5, 7}, s.Assert[3].Registers)

	t.Run("errors", func(t *testing.T) {
		for name, test := range map[string]struct {
			scenario string
			err      error
		}{
			"unknown field":       {"asserts: []", ErrInvalidScenario},
			"unknown assertion":   {"assert: [{kind: returnd}]", ErrUnknownStep},
			"assertion in setup":  {"setup: [{kind: halted}]", ErrUnknownStep},
			"setup in assertions": {"assert: [{kind: input, text: a}]", ErrUnknownStep},
			"unknown strategy":    {"init: {strategy: zero}", ErrUnknownStrategy},
			"symbols only":        {"symbols: add5.sym", ErrInvalidScenario},
			"object only":         {"object: add5.obj", ErrInvalidScenario},
		} {
			t.Run(name, func(t *testing.T) {
				_, err := Parse([]byte(test.scenario))
				assert.ErrorIs(t, err, test.err)
			})
		}
	})
}

func TestLoad(t *testing.T) {
	path := writeScenario(t, passing)

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "add5.yaml", s.Name)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "add5.obj"), s.Object)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "add5.sym"), s.Symbols)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStep_String(t *testing.T) {
	for expected, step := range map[string]Step{
		"R0 = 8":                      {Kind: "register", Value: 8},
		"PC = x3000":                  {Kind: "pc", Value: 0x3000},
		"MEM[x4000] = -1":             {Kind: "address", Address: 0x4000, Value: -1},
		"MEM[MEM[PTR]] = 2":           {Kind: "pointer", Label: "PTR", Value: 2},
		`string at MEM[STR] = "hi"`:   {Kind: "string", Label: "STR", Text: "hi"},
		"array at MEM[ARR] = [1 2]":   {Kind: "array", Label: "ARR", Values: []int{1, 2}},
		"R5 R7 unchanged":             {Kind: "registers_unchanged", Registers: []int{5, 7}},
		"returned from subroutine":    {Kind: "returned"},
		`console output "OK"`:         {Kind: "console_output", Text: "OK"},
		"stack managed (R6 xeffe, return address x8000, frame pointer xcafe)": {
			Kind: "stack_managed", Stack: 0xEFFE, ReturnAddress: 0x8000, FramePointer: 0xCAFE,
		},
		"bogus": {Kind: "bogus"},
	} {
		assert.Equal(t, expected, step.String())
	}
}

func TestScenario_Run(t *testing.T) {
	s, err := Load(writeScenario(t, passing))
	require.NoError(t, err)

	results := s.Run(unittest.New(t, interpreter.NewMachine()))

	require.Len(t, results, 6)
	for _, result := range results {
		assert.True(t, result.Passed, result.Assertion)
	}
}

func TestScenario_Check(t *testing.T) {
	check := func(t *testing.T, scenario string) *Outcome {
		s, err := Load(writeScenario(t, scenario))
		require.NoError(t, err)

		return s.Check(interpreter.NewMachine(), unittest.DefaultOptions(), logging.Discard())
	}

	t.Run("passing", func(t *testing.T) {
		outcome := check(t, passing)

		assert.True(t, outcome.Passed())
		assert.Empty(t, outcome.Failures)
		assert.NotEmpty(t, outcome.Replay)
		require.NotNil(t, outcome.Subroutines)
		assert.True(t, outcome.Subroutines.Passed())
		require.NotNil(t, outcome.Traps)
		assert.True(t, outcome.Traps.Expected.Empty())
	})

	t.Run("failing", func(t *testing.T) {
		outcome := check(t, `
object: add5.obj
symbols: add5.sym
init: {strategy: fill, value: 0}
call: {label: ADD5, params: [3], r7: 0x7000}
assert:
  - {kind: returned}
  - {kind: return_value, value: 9}
`)

		assert.False(t, outcome.Passed())
		assert.False(t, outcome.Aborted)
		assert.Equal(t, []Result{
			{Assertion: "returned from subroutine", Passed: true},
			{Assertion: "return value = 9", Passed: false},
		}, outcome.Results)
		require.Len(t, outcome.Failures, 1)
		assert.Contains(t, outcome.Failures[0], "Return value was expected to be (9 x0009) but code produced (8 x0008)")
	})

	t.Run("aborted", func(t *testing.T) {
		outcome := check(t, `
object: add5.obj
symbols: add5.sym
call: {label: ADD6}
assert:
  - {kind: returned}
`)

		assert.True(t, outcome.Aborted)
		assert.False(t, outcome.Passed())
		assert.Empty(t, outcome.Results)
		assert.Nil(t, outcome.Subroutines)
		require.NotEmpty(t, outcome.Failures)
		assert.Contains(t, outcome.Failures[0], unittest.ErrUnknownLabel.Error())
	})
}

func TestScenario_Replay(t *testing.T) {
	s, err := Load(writeScenario(t, passing))
	require.NoError(t, err)

	recorder, err := s.Replay(interpreter.NewMachine(), logging.Discard())
	require.NoError(t, err)

	assert.Equal(t, 3, recorder.EnvironmentLen())
	assert.Equal(t, 1, recorder.PreconditionsLen())

	outcome := s.Check(interpreter.NewMachine(), unittest.DefaultOptions(), logging.Discard())
	assert.Equal(t, outcome.Replay, recorder.Encode())

	t.Run("unknown label", func(t *testing.T) {
		s, err := Load(writeScenario(t, "object: add5.obj\nsymbols: add5.sym\nsetup: [{kind: value, label: NOPE}]\n"))
		require.NoError(t, err)

		_, err = s.Replay(interpreter.NewMachine(), logging.Discard())
		assert.ErrorIs(t, err, ErrInvalidScenario)
		assert.ErrorContains(t, err, "NOPE")
	})
}
