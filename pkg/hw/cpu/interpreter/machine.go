package interpreter

import (
	"log/slog"
	"math/rand/v2"

	"github.com/Manu343726/lc3unit/pkg/hw/cpu"
	"github.com/Manu343726/lc3unit/pkg/logging"
	"golang.org/x/exp/slices"
)

// DefaultSeed is the random seed used until Seed is called
const DefaultSeed int64 = 0x1c3

// Entry points of the OS routines installed by Init
const (
	getcRoutine uint16 = 0x0400
	outRoutine  uint16 = 0x0420
	putsRoutine uint16 = 0x0450
	inRoutine   uint16 = 0x04A0
	haltRoutine uint16 = 0x0520
)

// Minimal OS served through the trap vector table when true traps are
// enabled. Routines return with RET and preserve every register except the
// R0 result of GETC and IN. HALT stops the clock through R7, which already
// holds the TRAP linkage.
var osRoutines = map[uint16][]uint16{
	getcRoutine: {
		0xA003, // LDI R0, KBSR
		0x07FE, // BRzp #-2
		0xA002, // LDI R0, KBDR
		0xC1C0, // RET
		cpu.KBSR,
		cpu.KBDR,
	},
	outRoutine: {
		0xB001, // STI R0, DDR
		0xC1C0, // RET
		cpu.DDR,
	},
	putsRoutine: {
		0x300A, // ST R0, #10
		0x320A, // ST R1, #10
		0x6200, // LDR R1, R0, #0
		0x0403, // BRz #3
		0xB205, // STI R1, DDR
		0x1021, // ADD R0, R0, #1
		0x0FFB, // BR #-5
		0x2003, // LD R0, #3
		0x2203, // LD R1, #3
		0xC1C0, // RET
		cpu.DDR,
		0, // saved R0
		0, // saved R1
	},
	inRoutine: {
		0xA004, // LDI R0, KBSR
		0x07FE, // BRzp #-2
		0xA003, // LDI R0, KBDR
		0xB003, // STI R0, DDR
		0xC1C0, // RET
		cpu.KBSR,
		cpu.KBDR,
		cpu.DDR,
	},
	haltRoutine: {
		0x2E01, // LD R7, #1
		0xBE01, // STI R7, MCR
		0x7FFF, // clock enable bit cleared
		cpu.MCR,
	},
}

// Trap vectors served by the installed OS. Every other vector halts.
var osVectors = map[uint8]uint16{
	cpu.TrapGetc: getcRoutine,
	cpu.TrapOut:  outRoutine,
	cpu.TrapPuts: putsRoutine,
	cpu.TrapIn:   inRoutine,
	cpu.TrapHalt: haltRoutine,
}

// Machine is a complete LC-3 machine implementing cpu.Simulator on top of an
// Interpreter and a Debugger
type Machine struct {
	interp *Interpreter
	dbg    *Debugger
	logger *slog.Logger

	seed int64
	rng  *rand.Rand

	symbols   map[string]uint16
	addresses map[uint16]string

	trueTraps              bool
	interrupts             bool
	strictExecution        bool
	keyboardInterruptDelay uint32
}

var _ cpu.Simulator = (*Machine)(nil)

// NewMachine creates a machine with zeroed memory and strict execution enabled
func NewMachine() *Machine {
	interp := NewInterpreter()

	m := &Machine{
		interp:          interp,
		dbg:             NewDebugger(interp),
		logger:          logging.Discard(),
		symbols:         make(map[string]uint16),
		addresses:       make(map[uint16]string),
		strictExecution: true,
	}

	m.Seed(DefaultSeed)
	m.Init(false, 0)
	return m
}

// SetLogger sets the logger used by the machine and its interpreter
func (m *Machine) SetLogger(logger *slog.Logger) {
	m.logger = logger
	m.interp.SetLogger(logger)
}

// Debugger returns the debugger driving the machine
func (m *Machine) Debugger() *Debugger {
	return m.dbg
}

// State returns the current CPU state
func (m *Machine) State() *CPUState {
	return m.interp.State()
}

// Init resets the machine state. Symbols and environment toggles survive the
// reset, breakpoints, subroutine info, traces and console I/O do not.
func (m *Machine) Init(randomize bool, fill uint16) {
	m.rng = newRand(m.seed)

	state := NewCPUState(fill)
	if randomize {
		for i := range state.Registers {
			state.Registers[i] = m.Random()
		}
		for i := range state.Memory {
			state.Memory[i] = m.Random()
		}
		state.SetCC(state.Registers[cpu.R0])
	}

	state.TrueTraps = m.trueTraps
	state.Interrupts = m.interrupts
	state.StrictExecution = m.strictExecution
	state.KeyboardInterruptDelay = m.keyboardInterruptDelay

	installOS(state)

	m.interp.Reset(state)
	m.dbg.ClearBreakpoints()

	m.logger.Debug("machine initialized", "randomize", randomize, "fill", fill, "seed", m.seed)
}

func installOS(state *CPUState) {
	for vector := range 256 {
		state.Memory[cpu.TrapVectorTable+uint16(vector)] = haltRoutine
	}
	for vector, routine := range osVectors {
		state.Memory[cpu.TrapVectorTable+uint16(vector)] = routine
	}
	for origin, words := range osRoutines {
		copy(state.Memory[origin:], words)
	}

	state.Memory[cpu.MCR] = 0x8000
	state.Memory[cpu.DSR] = 0x8000
	state.Memory[cpu.KBSR] = 0
	state.Memory[cpu.KBDR] = 0
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// Seed sets the random seed and restarts the random sequence
func (m *Machine) Seed(seed int64) {
	m.seed = seed
	m.rng = newRand(seed)
}

// Random returns the next random word
func (m *Machine) Random() uint16 {
	return uint16(m.rng.Uint32())
}

func (m *Machine) SetTrueTraps(enabled bool) {
	m.trueTraps = enabled
	m.State().TrueTraps = enabled
}

func (m *Machine) SetInterrupts(enabled bool) {
	m.interrupts = enabled
	m.State().Interrupts = enabled
}

func (m *Machine) SetStrictExecution(enabled bool) {
	m.strictExecution = enabled
	m.State().StrictExecution = enabled
}

// SetKeyboardInterruptDelay is kept for completeness. The machine raises no
// interrupts.
func (m *Machine) SetKeyboardInterruptDelay(instructions uint32) {
	m.keyboardInterruptDelay = instructions
	m.State().KeyboardInterruptDelay = instructions
}

func (m *Machine) Register(r cpu.Register) uint16 {
	return m.State().Registers[r]
}

func (m *Machine) SetRegister(r cpu.Register, value uint16) {
	m.State().Registers[r] = value
}

func (m *Machine) PC() uint16 {
	return m.State().PC
}

func (m *Machine) SetPC(pc uint16) {
	m.State().PC = pc
}

// Memory reads a word without device side effects
func (m *Machine) Memory(address uint16) uint16 {
	return m.State().Memory[address]
}

// SetMemory writes a word without device side effects
func (m *Machine) SetMemory(address uint16, value uint16) {
	m.State().Memory[address] = value
}

// AddSymbol adds a label to the symbol table, replacing any previous
// definition of the label
func (m *Machine) AddSymbol(label string, address uint16) {
	if old, exists := m.symbols[label]; exists && m.addresses[old] == label {
		delete(m.addresses, old)
	}
	m.symbols[label] = address
	m.addresses[address] = label
}

func (m *Machine) Lookup(label string) (uint16, bool) {
	address, ok := m.symbols[label]
	return address, ok
}

func (m *Machine) ReverseLookup(address uint16) (string, bool) {
	label, ok := m.addresses[address]
	return label, ok
}

// ClearSymbols empties the symbol table
func (m *Machine) ClearSymbols() {
	m.symbols = make(map[string]uint16)
	m.addresses = make(map[uint16]string)
}

func (m *Machine) SetInput(input string) {
	m.State().Input = []rune(input)
}

func (m *Machine) Output() string {
	return m.State().Output.String()
}

func (m *Machine) Warnings() []string {
	return slices.Clone(m.State().Warnings)
}

func (m *Machine) AddBreakpoint(address uint16) {
	m.dbg.AddBreakpoint(address)
}

func (m *Machine) AddSubroutineInfo(address uint16, params int) {
	m.State().Subroutines[address] = params
}

// Run executes at most maxSteps instructions (0 = unlimited), stopping at
// breakpoints and when the machine halts
func (m *Machine) Run(maxSteps int) {
	result := m.dbg.Run(maxSteps)

	m.logger.Debug("run finished",
		"reason", result.StopReason,
		"steps", result.StepsExecuted,
		"pc", m.PC(),
		"warnings", len(m.State().Warnings))
}

func (m *Machine) SubroutineCalls() []cpu.SubroutineCall {
	return slices.Clone(m.State().SubroutineCalls)
}

func (m *Machine) TrapCalls() []cpu.TrapCall {
	return slices.Clone(m.State().TrapCalls)
}

func (m *Machine) Disassemble(address uint16) string {
	return m.dbg.DisassembleAt(address)
}

func (m *Machine) DisassembleWord(word uint16) string {
	return Disassemble(word, m.State().StrictExecution)
}
