package scenario

import (
	"fmt"
	"strings"

	"github.com/Manu343726/lc3unit/pkg/hw/cpu"
	"github.com/Manu343726/lc3unit/pkg/unittest"
	"github.com/Manu343726/lc3unit/pkg/utils"
)

// Step is a setup step or an assertion. Kind selects which of the other fields
// are used.
type Step struct {
	Kind      string `yaml:"kind"`
	Register  int    `yaml:"register"`
	Registers []int  `yaml:"registers"`
	Label     string `yaml:"label"`
	Address   uint16 `yaml:"address"`
	Value     int    `yaml:"value"`
	Values    []int  `yaml:"values"`
	Text      string `yaml:"text"`

	// stack_managed
	Stack         int `yaml:"stack"`
	ReturnAddress int `yaml:"return_address"`
	FramePointer  int `yaml:"frame_pointer"`
}

type stepKind struct {
	describe func(Step) string
	setup    func(*unittest.TestCase, Step)
	assert   func(*unittest.TestCase, Step) bool
}

func constant(text string) func(Step) string {
	return func(Step) string { return text }
}

var kinds = map[string]stepKind{
	"register": {
		describe: func(s Step) string { return fmt.Sprintf("R%d = %d", s.Register, s.Value) },
		setup:    func(tc *unittest.TestCase, s Step) { tc.SetRegister(s.Register, s.Value) },
		assert:   func(tc *unittest.TestCase, s Step) bool { return tc.AssertRegister(s.Register, s.Value) },
	},
	"pc": {
		describe: func(s Step) string { return "PC = " + utils.FormatWord(utils.ToShort(s.Value)) },
		setup:    func(tc *unittest.TestCase, s Step) { tc.SetPC(s.Value) },
		assert:   func(tc *unittest.TestCase, s Step) bool { return tc.AssertPC(s.Value) },
	},
	"value": {
		describe: func(s Step) string { return fmt.Sprintf("MEM[%s] = %d", s.Label, s.Value) },
		setup:    func(tc *unittest.TestCase, s Step) { tc.SetValue(s.Label, s.Value) },
		assert:   func(tc *unittest.TestCase, s Step) bool { return tc.AssertValue(s.Label, s.Value) },
	},
	"address": {
		describe: func(s Step) string { return fmt.Sprintf("MEM[%s] = %d", utils.FormatWord(s.Address), s.Value) },
		setup:    func(tc *unittest.TestCase, s Step) { tc.SetAddress(s.Address, s.Value) },
		assert:   func(tc *unittest.TestCase, s Step) bool { return tc.AssertAddress(s.Address, s.Value) },
	},
	"pointer": {
		describe: func(s Step) string { return fmt.Sprintf("MEM[MEM[%s]] = %d", s.Label, s.Value) },
		setup:    func(tc *unittest.TestCase, s Step) { tc.SetPointer(s.Label, s.Value) },
		assert:   func(tc *unittest.TestCase, s Step) bool { return tc.AssertPointer(s.Label, s.Value) },
	},
	"array": {
		describe: func(s Step) string { return fmt.Sprintf("array at MEM[%s] = %v", s.Label, s.Values) },
		setup:    func(tc *unittest.TestCase, s Step) { tc.SetArray(s.Label, s.Values) },
		assert:   func(tc *unittest.TestCase, s Step) bool { return tc.AssertArray(s.Label, s.Values) },
	},
	"string": {
		describe: func(s Step) string { return fmt.Sprintf("string at MEM[%s] = %q", s.Label, s.Text) },
		setup:    func(tc *unittest.TestCase, s Step) { tc.SetString(s.Label, s.Text) },
		assert:   func(tc *unittest.TestCase, s Step) bool { return tc.AssertString(s.Label, s.Text) },
	},
	"input": {
		describe: func(s Step) string { return fmt.Sprintf("console input %q", s.Text) },
		setup:    func(tc *unittest.TestCase, s Step) { tc.SetConsoleInput(s.Text) },
	},
	"console_output": {
		describe: func(s Step) string { return fmt.Sprintf("console output %q", s.Text) },
		assert:   func(tc *unittest.TestCase, s Step) bool { return tc.AssertConsoleOutput(s.Text) },
	},
	"return_value": {
		describe: func(s Step) string { return fmt.Sprintf("return value = %d", s.Value) },
		assert:   func(tc *unittest.TestCase, s Step) bool { return tc.AssertReturnValue(s.Value) },
	},
	"registers_unchanged": {
		describe: func(s Step) string {
			names := utils.Map(s.Registers, func(r int) string { return cpu.Register(r).String() })
			return strings.Join(names, " ") + " unchanged"
		},
		assert: func(tc *unittest.TestCase, s Step) bool { return tc.AssertRegistersUnchanged(s.Registers...) },
	},
	"stack_managed": {
		describe: func(s Step) string {
			return fmt.Sprintf("stack managed (R6 %s, return address %s, frame pointer %s)",
				utils.FormatWord(utils.ToShort(s.Stack)),
				utils.FormatWord(utils.ToShort(s.ReturnAddress)),
				utils.FormatWord(utils.ToShort(s.FramePointer)))
		},
		assert: func(tc *unittest.TestCase, s Step) bool {
			return tc.AssertStackManaged(s.Stack, s.ReturnAddress, s.FramePointer)
		},
	},
	"returned": {
		describe: constant("returned from subroutine"),
		assert:   func(tc *unittest.TestCase, _ Step) bool { return tc.AssertReturned() },
	},
	"halted": {
		describe: constant("halted"),
		assert:   func(tc *unittest.TestCase, _ Step) bool { return tc.AssertHalted() },
	},
	"no_warnings": {
		describe: constant("no warnings"),
		assert:   func(tc *unittest.TestCase, _ Step) bool { return tc.AssertNoWarnings() },
	},
	"subroutine_calls": {
		describe: constant("subroutine calls made"),
		assert:   func(tc *unittest.TestCase, _ Step) bool { return tc.AssertSubroutineCallsMade() },
	},
	"trap_calls": {
		describe: constant("trap calls made"),
		assert:   func(tc *unittest.TestCase, _ Step) bool { return tc.AssertTrapCallsMade() },
	},
}

func (s Step) String() string {
	kind, ok := kinds[s.Kind]
	if !ok {
		return s.Kind
	}
	return kind.describe(s)
}
