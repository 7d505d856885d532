package unittest

import (
	"fmt"

	"github.com/Manu343726/lc3unit/pkg/hw/cpu"
)

// fakeSimulator is an in-memory cpu.Simulator. Running it calls run, which
// plays the role of the code under test.
type fakeSimulator struct {
	registers [cpu.TotalRegisters]uint16
	pc        uint16
	memory    map[uint16]uint16
	symbols   map[string]uint16

	input    string
	output   string
	warnings []string

	trueTraps  bool
	interrupts bool
	strict     bool
	delay      uint32

	seed       int64
	randomized bool
	fill       uint16

	breakpoints     []uint16
	subroutineInfo  map[uint16]int
	subroutineCalls []cpu.SubroutineCall
	trapCalls       []cpu.TrapCall
	disassembly     map[uint16]string

	run      func(f *fakeSimulator)
	maxSteps int
}

var _ cpu.Simulator = (*fakeSimulator)(nil)

func newFakeSimulator() *fakeSimulator {
	return &fakeSimulator{
		memory:         make(map[uint16]uint16),
		symbols:        make(map[string]uint16),
		subroutineInfo: make(map[uint16]int),
		disassembly:    make(map[uint16]string),
	}
}

func (f *fakeSimulator) Init(randomize bool, fill uint16) {
	f.randomized = randomize
	f.fill = fill
}

func (f *fakeSimulator) Seed(seed int64)                       { f.seed = seed }
func (f *fakeSimulator) Random() uint16                        { return uint16(f.seed*3 + 1) }
func (f *fakeSimulator) SetTrueTraps(enabled bool)             { f.trueTraps = enabled }
func (f *fakeSimulator) SetInterrupts(enabled bool)            { f.interrupts = enabled }
func (f *fakeSimulator) SetStrictExecution(enabled bool)       { f.strict = enabled }
func (f *fakeSimulator) SetKeyboardInterruptDelay(n uint32)    { f.delay = n }
func (f *fakeSimulator) Register(r cpu.Register) uint16        { return f.registers[r] }
func (f *fakeSimulator) SetRegister(r cpu.Register, v uint16)  { f.registers[r] = v }
func (f *fakeSimulator) PC() uint16                            { return f.pc }
func (f *fakeSimulator) SetPC(pc uint16)                       { f.pc = pc }
func (f *fakeSimulator) Memory(address uint16) uint16          { return f.memory[address] }
func (f *fakeSimulator) SetMemory(address uint16, v uint16)    { f.memory[address] = v }
func (f *fakeSimulator) AddSymbol(label string, a uint16)      { f.symbols[label] = a }
func (f *fakeSimulator) SetInput(input string)                 { f.input = input }
func (f *fakeSimulator) Output() string                        { return f.output }
func (f *fakeSimulator) Warnings() []string                    { return f.warnings }
func (f *fakeSimulator) AddBreakpoint(address uint16)          { f.breakpoints = append(f.breakpoints, address) }
func (f *fakeSimulator) AddSubroutineInfo(a uint16, n int)     { f.subroutineInfo[a] = n }
func (f *fakeSimulator) SubroutineCalls() []cpu.SubroutineCall { return f.subroutineCalls }
func (f *fakeSimulator) TrapCalls() []cpu.TrapCall             { return f.trapCalls }
func (f *fakeSimulator) Disassemble(address uint16) string     { return f.DisassembleWord(f.memory[address]) }

func (f *fakeSimulator) Lookup(label string) (uint16, bool) {
	address, ok := f.symbols[label]
	return address, ok
}

func (f *fakeSimulator) ReverseLookup(address uint16) (string, bool) {
	for label, a := range f.symbols {
		if a == address {
			return label, true
		}
	}
	return "", false
}

func (f *fakeSimulator) DisassembleWord(word uint16) string {
	if text, ok := f.disassembly[word]; ok {
		return text
	}
	return fmt.Sprintf(".FILL x%04x", word)
}

func (f *fakeSimulator) Run(maxSteps int) {
	f.maxSteps = maxSteps
	if f.run != nil {
		f.run(f)
	}
}

// recordingT captures the failures reported through it
type recordingT struct {
	errors  []string
	aborted bool
}

func (r *recordingT) Errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *recordingT) FailNow() {
	r.aborted = true
}

func (r *recordingT) Helper() {}

func (r *recordingT) failed() bool {
	return len(r.errors) > 0
}

// lastError returns the last reported failure, or an empty string
func (r *recordingT) lastError() string {
	if len(r.errors) == 0 {
		return ""
	}
	return r.errors[len(r.errors)-1]
}
