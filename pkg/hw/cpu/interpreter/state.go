package interpreter

import (
	"fmt"
	"strings"

	"github.com/Manu343726/lc3unit/pkg/hw/cpu"
	"github.com/Manu343726/lc3unit/pkg/utils"
)

const (
	// MemorySize is the number of addressable words
	MemorySize = 1 << utils.BitsPerWord

	// Initial supervisor and user stack pointers
	DefaultSupervisorStack uint16 = 0x3000
	DefaultUserStack       uint16 = 0xF000

	// Reserved memory warnings stop being reported after this many
	warningLimit = 100
)

// Warning identifies a kind of non fatal execution warning
type Warning int

const (
	WarnEndOfInput             Warning = 0
	WarnReservedWrite          Warning = 1
	WarnReservedRead           Warning = 2
	WarnUnsupportedTrap        Warning = 3
	WarnUnsupportedInstruction Warning = 4
	WarnMalformedInstruction   Warning = 5
	WarnUserRTI                Warning = 6
	WarnPutsInvalidMemory      Warning = 8
	WarnKeyboardNotReady       Warning = 10
	WarnTurnOffViaMCR          Warning = 11
	WarnPutspInvalidMemory     Warning = 12
	WarnPutspUnexpectedNUL     Warning = 13
	WarnInvalidPSR             Warning = 14
)

var warningMessages = map[Warning]string{
	WarnEndOfInput:             "Reading beyond end of input. Halting.",
	WarnReservedWrite:          "Writing x%04x to reserved memory at x%04x.",
	WarnReservedRead:           "Reading from reserved memory at x%04x.",
	WarnUnsupportedTrap:        "Unsupported Trap x%02x. Assuming Halt.",
	WarnUnsupportedInstruction: "Unsupported Instruction x%04x. Halting.",
	WarnMalformedInstruction:   "Malformed Instruction x%04x. Halting.",
	WarnUserRTI:                "RTI executed in user mode. Halting.",
	WarnPutsInvalidMemory:      "PUTS called with invalid address x%04x.",
	WarnKeyboardNotReady:       "Trying to read from the keyboard when its not ready.",
	WarnTurnOffViaMCR:          "Turning off machine via the MCR register.",
	WarnPutspInvalidMemory:     "PUTSP called with invalid address x%04x",
	WarnPutspUnexpectedNUL:     "PUTSP found an unexpected NUL byte at address x%04x.",
	WarnInvalidPSR:             "Invalid value x%04x loaded into the PSR.",
}

var limitedWarnings = map[Warning]bool{
	WarnReservedWrite:      true,
	WarnReservedRead:       true,
	WarnPutspUnexpectedNUL: true,
}

// frame is an entry of the call stack, pushed by subroutine calls and true traps
type frame struct {
	Address uint16
	Return  uint16
	R6      uint16
	IsTrap  bool
}

// CPUState represents the complete state of an LC-3 machine
type CPUState struct {
	// General purpose registers R0-R7
	Registers [cpu.TotalRegisters]uint16
	// Program counter (word address)
	PC uint16
	// User mode when set (PSR[15])
	UserMode bool
	// Priority level (PSR[10:8])
	Priority uint8
	// Condition codes
	N, Z, P bool
	// Halted flag
	Halted bool
	// Memory, 64K words
	Memory []uint16

	// Stack pointers of the inactive privilege level
	SavedUSP uint16
	SavedSSP uint16

	TrueTraps              bool
	Interrupts             bool
	StrictExecution        bool
	KeyboardInterruptDelay uint32

	// Console input still to be read and output produced so far
	Input  []rune
	Output strings.Builder

	Warnings     []string
	warningStats map[Warning]int

	// Stack parameter counts by subroutine address
	Subroutines map[uint16]int
	// Calls and traps made from the top level code
	SubroutineCalls []cpu.SubroutineCall
	TrapCalls       []cpu.TrapCall

	callStack []frame
	// Address of the instruction being executed, for warnings
	instructionAddress uint16
}

// NewCPUState creates a new CPU state with memory filled with the given value
func NewCPUState(fill uint16) *CPUState {
	state := &CPUState{
		Memory:          make([]uint16, MemorySize),
		PC:              cpu.UserSpaceStart,
		UserMode:        true,
		StrictExecution: true,
		SavedSSP:        DefaultSupervisorStack,
		SavedUSP:        DefaultUserStack,
		warningStats:    make(map[Warning]int),
		Subroutines:     make(map[uint16]int),
	}

	for i := range state.Registers {
		state.Registers[i] = fill
	}

	for i := range state.Memory {
		state.Memory[i] = fill
	}

	state.SetCC(fill)
	return state
}

// SetCC sets the condition codes from a result
func (s *CPUState) SetCC(value uint16) {
	s.N = utils.ToSigned(value) < 0
	s.Z = value == 0
	s.P = utils.ToSigned(value) > 0
}

// PSR returns the processor status register
func (s *CPUState) PSR() uint16 {
	var psr uint16

	if s.UserMode {
		psr |= 0x8000
	}

	psr |= uint16(s.Priority&7) << 8

	if s.N {
		psr |= 4
	}
	if s.Z {
		psr |= 2
	}
	if s.P {
		psr |= 1
	}

	return psr
}

// SetPSR loads the privilege, priority and condition codes from a PSR value
func (s *CPUState) SetPSR(psr uint16) {
	s.UserMode = psr&0x8000 != 0
	s.Priority = uint8(psr>>8) & 7
	s.N = psr&4 != 0
	s.Z = psr&2 != 0
	s.P = psr&1 != 0
}

// KernelMode returns true when executing OS code or in supervisor mode
func (s *CPUState) KernelMode() bool {
	return !s.UserMode || (s.instructionAddress >= 0x200 && s.instructionAddress < cpu.UserSpaceStart)
}

func reserved(address uint16) bool {
	return address < cpu.UserSpaceStart || address >= cpu.DeviceSpaceStart
}

// ReadMemory reads a word as the running program would, with device side
// effects and access checks
func (s *CPUState) ReadMemory(address uint16) uint16 {
	switch address {
	case cpu.KBSR:
		if len(s.Input) > 0 {
			s.Memory[cpu.KBSR] |= 0x8000
		} else {
			s.Memory[cpu.KBSR] &^= 0x8000
		}
	case cpu.KBDR:
		if len(s.Input) > 0 {
			s.Memory[cpu.KBDR] = uint16(s.Input[0])
			s.Input = s.Input[1:]
		} else {
			s.Warn(WarnKeyboardNotReady)
			s.Memory[cpu.KBDR] = 0
		}
		s.Memory[cpu.KBSR] &= 0x4000
	case cpu.DSR:
		s.Memory[cpu.DSR] = 0x8000
	case cpu.MCR:
		s.Memory[cpu.MCR] = 0x8000
	default:
		if reserved(address) && !s.KernelMode() {
			s.Warn(WarnReservedRead, address)
		}
	}

	return s.Memory[address]
}

// WriteMemory writes a word as the running program would, with device side
// effects and access checks
func (s *CPUState) WriteMemory(address uint16, value uint16) {
	switch address {
	case cpu.KBSR:
		// Only the interrupt enable bit is writable
		s.Memory[cpu.KBSR] = (s.Memory[cpu.KBSR] &^ 0x4000) | (value & 0x4000)
		return
	case cpu.KBDR, cpu.DSR:
		if !s.KernelMode() {
			s.Warn(WarnReservedWrite, value, address)
		}
		return
	case cpu.DDR:
		s.Output.WriteByte(byte(value))
	case cpu.MCR:
		if value&0x8000 == 0 {
			if !s.KernelMode() {
				s.Warn(WarnTurnOffViaMCR)
			}
			s.Halt()
		}
	default:
		if reserved(address) && !s.KernelMode() {
			s.Warn(WarnReservedWrite, value, address)
		}
	}

	s.Memory[address] = value
}

// Halt stops the machine leaving the PC on the instruction being executed
func (s *CPUState) Halt() {
	s.Halted = true
	s.PC--
}

// ReadChar consumes a character of console input
func (s *CPUState) ReadChar() (uint16, bool) {
	if len(s.Input) == 0 {
		s.Warn(WarnEndOfInput)
		s.Halt()
		return 0, false
	}

	char := s.Input[0]
	s.Input = s.Input[1:]
	return uint16(char), true
}

// Warn records a warning, tagged with the address and disassembly of the
// instruction being executed
func (s *CPUState) Warn(warning Warning, args ...any) {
	s.warningStats[warning]++
	if limitedWarnings[warning] && s.warningStats[warning] > warningLimit {
		return
	}

	message := fmt.Sprintf("W%03d: "+warningMessages[warning], append([]any{int(warning)}, args...)...)
	s.Warnings = append(s.Warnings, fmt.Sprintf("Warning at x%04x (instruction - %s): %s",
		s.instructionAddress,
		Disassemble(s.Memory[s.instructionAddress], s.StrictExecution),
		message))
}

// WarningCount returns how many times a warning was raised, including the
// ones not reported because of the warning limit
func (s *CPUState) WarningCount(warning Warning) int {
	return s.warningStats[warning]
}

// topLevel returns true if no subroutine or trap call is in progress
func (s *CPUState) topLevel() bool {
	return len(s.callStack) == 0
}

func (s *CPUState) pushFrame(f frame) {
	s.callStack = append(s.callStack, f)
}

// returning reports whether jumping to target leaves the innermost call
func (s *CPUState) returning(target uint16) bool {
	return len(s.callStack) > 0 && s.callStack[len(s.callStack)-1].Return == target
}

func (s *CPUState) popFrame() {
	if len(s.callStack) > 0 {
		s.callStack = s.callStack[:len(s.callStack)-1]
	}
}

// CallDepth returns the number of subroutine and trap calls in progress
func (s *CPUState) CallDepth() int {
	return len(s.callStack)
}
