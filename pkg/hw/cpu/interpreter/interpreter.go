// Package interpreter provides a reference LC-3 machine: an interpreter for
// LC-3 machine code, a debugger driving it, and a cpu.Simulator built on top
// of both.
//
// The machine implements the LC-3 as described in the second edition of Patt
// and Patel's "Introduction to Computing Systems", the ISA targeted by their
// lc3tools assembler: TRAP stores the return address in R7 and the OS
// returns from traps with RET.
package interpreter

import (
	"errors"
	"log/slog"

	"github.com/Manu343726/lc3unit/pkg/hw/cpu"
	"github.com/Manu343726/lc3unit/pkg/logging"
)

var (
	ErrHalted = errors.New("CPU is halted")
)

// Interpreter executes LC-3 machine code
type Interpreter struct {
	state  *CPUState
	logger *slog.Logger
}

// NewInterpreter creates a new interpreter with memory filled with zeros
func NewInterpreter() *Interpreter {
	return &Interpreter{
		state:  NewCPUState(0),
		logger: logging.Discard(),
	}
}

// SetLogger sets the logger warnings are reported to
func (i *Interpreter) SetLogger(logger *slog.Logger) {
	i.logger = logger
}

// State returns the current CPU state
func (i *Interpreter) State() *CPUState {
	return i.state
}

// Reset replaces the CPU state
func (i *Interpreter) Reset(state *CPUState) {
	i.state = state
}

// DecodeInstruction returns the instruction at the current PC
func (i *Interpreter) DecodeInstruction() Instruction {
	return Instruction(i.state.Memory[i.state.PC])
}

// StepResult contains the result of executing a single instruction
type StepResult struct {
	// Address of the executed instruction
	Address uint16
	// Instruction is the executed instruction
	Instruction Instruction
}

// Step executes a single instruction
func (i *Interpreter) Step() (*StepResult, error) {
	s := i.state
	if s.Halted {
		return nil, ErrHalted
	}

	result := &StepResult{
		Address:     s.PC,
		Instruction: i.DecodeInstruction(),
	}

	s.instructionAddress = s.PC
	s.PC++

	warnings := len(s.Warnings)
	i.execute(result.Instruction)

	for _, warning := range s.Warnings[warnings:] {
		i.logger.Warn(warning, "pc", result.Address)
	}

	return result, nil
}

// Run executes instructions until halted
func (i *Interpreter) Run() error {
	for !i.state.Halted {
		if _, err := i.Step(); err != nil {
			return err
		}
	}
	return nil
}

// RunN executes at most n instructions
func (i *Interpreter) RunN(n int) error {
	for count := 0; count < n && !i.state.Halted; count++ {
		if _, err := i.Step(); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) setRegister(r cpu.Register, value uint16) {
	i.state.Registers[r] = value
	i.state.SetCC(value)
}

func (i *Interpreter) execute(instr Instruction) {
	s := i.state

	if s.StrictExecution && instr.Malformed() {
		s.Halt()
		s.Warn(WarnMalformedInstruction, uint16(instr))
		return
	}

	switch instr.OpCode() {
	case OpBR:
		if (instr.N() && s.N) || (instr.Z() && s.Z) || (instr.P() && s.P) {
			s.PC += instr.PCOffset9()
		}
	case OpADD:
		i.setRegister(instr.DR(), s.Registers[instr.SR1()]+i.operand(instr))
	case OpAND:
		i.setRegister(instr.DR(), s.Registers[instr.SR1()]&i.operand(instr))
	case OpNOT:
		i.setRegister(instr.DR(), ^s.Registers[instr.SR1()])
	case OpLD:
		i.setRegister(instr.DR(), s.ReadMemory(s.PC+instr.PCOffset9()))
	case OpLDI:
		i.setRegister(instr.DR(), s.ReadMemory(s.ReadMemory(s.PC+instr.PCOffset9())))
	case OpLDR:
		i.setRegister(instr.DR(), s.ReadMemory(s.Registers[instr.BaseR()]+instr.Offset6()))
	case OpLEA:
		i.setRegister(instr.DR(), s.PC+instr.PCOffset9())
	case OpST:
		s.WriteMemory(s.PC+instr.PCOffset9(), s.Registers[instr.DR()])
	case OpSTI:
		s.WriteMemory(s.ReadMemory(s.PC+instr.PCOffset9()), s.Registers[instr.DR()])
	case OpSTR:
		s.WriteMemory(s.Registers[instr.BaseR()]+instr.Offset6(), s.Registers[instr.DR()])
	case OpJSR:
		i.jsr(instr)
	case OpJMP:
		s.PC = s.Registers[instr.BaseR()]
		if s.UserMode && (instr.BaseR() == cpu.ReturnAddress || s.returning(s.PC)) {
			s.popFrame()
		}
	case OpRTI:
		i.rti()
	case OpTRAP:
		i.trap(instr.Vector())
	default:
		s.Warn(WarnUnsupportedInstruction, uint16(instr))
		s.Halt()
	}
}

func (i *Interpreter) operand(instr Instruction) uint16 {
	if instr.IsImmediate() {
		return instr.Imm5()
	}
	return i.state.Registers[instr.SR2()]
}

func (i *Interpreter) jsr(instr Instruction) {
	s := i.state
	r7 := s.Registers[cpu.ReturnAddress]
	s.Registers[cpu.ReturnAddress] = s.PC

	switch {
	case instr.IsJSR():
		s.PC += instr.PCOffset11()
	case instr.BaseR() == cpu.ReturnAddress:
		s.PC = r7
	default:
		s.PC = s.Registers[instr.BaseR()]
	}

	if !s.UserMode {
		return
	}

	r6 := s.Registers[cpu.StackPointer]

	if s.topLevel() {
		call := cpu.SubroutineCall{
			Address:   s.PC,
			R6:        r6,
			Registers: s.Registers,
		}

		for p := 0; p < s.Subroutines[s.PC]; p++ {
			call.Params = append(call.Params, s.Memory[r6+uint16(p)])
		}

		s.SubroutineCalls = append(s.SubroutineCalls, call)
	}

	s.pushFrame(frame{Address: s.PC, Return: s.Registers[cpu.ReturnAddress], R6: r6})
}

// Valid condition code combinations, exactly one of n, z and p set
var validCC = [8]bool{false, true, true, false, true, false, false, false}

func (i *Interpreter) rti() {
	s := i.state

	if s.UserMode {
		s.Warn(WarnUserRTI)
		s.Halt()
		return
	}

	r6 := s.Registers[cpu.StackPointer]
	s.PC = s.Memory[r6]
	psr := s.Memory[r6+1]

	if psr&0x78F8 != 0 || !validCC[psr&7] {
		s.Warn(WarnInvalidPSR, psr)
	}

	s.Registers[cpu.StackPointer] += 2
	s.SetPSR(psr)

	if s.UserMode {
		s.SavedSSP = s.Registers[cpu.StackPointer]
		s.Registers[cpu.StackPointer] = s.SavedUSP
	}

	s.popFrame()
}

func (i *Interpreter) trap(vector uint8) {
	s := i.state

	if s.UserMode && s.topLevel() && vector != cpu.TrapHalt {
		s.TrapCalls = append(s.TrapCalls, cpu.TrapCall{
			Vector:    vector,
			Registers: s.Registers,
		})
	}

	s.Registers[cpu.ReturnAddress] = s.PC

	if s.TrueTraps {
		s.PC = s.Memory[cpu.TrapVectorTable+uint16(vector)]

		if s.UserMode {
			s.pushFrame(frame{
				Address: s.PC,
				Return:  s.Registers[cpu.ReturnAddress],
				R6:      s.Registers[cpu.StackPointer],
				IsTrap:  true,
			})
		}
		return
	}

	r0 := s.Registers[cpu.R0]

	switch vector {
	case cpu.TrapGetc:
		if char, ok := s.ReadChar(); ok {
			s.Registers[cpu.R0] = char
		}
	case cpu.TrapOut:
		s.Output.WriteByte(byte(r0))
	case cpu.TrapPuts:
		if reserved(r0) && !s.KernelMode() {
			s.Warn(WarnPutsInvalidMemory, r0)
			return
		}

		for address := r0; s.Memory[address] != 0; address++ {
			s.Output.WriteByte(byte(s.Memory[address]))
		}
	case cpu.TrapIn:
		s.Output.WriteString("Input character: ")
		if char, ok := s.ReadChar(); ok {
			s.Registers[cpu.R0] = char
			s.Output.WriteByte(byte(char))
		}
	case cpu.TrapPutsp:
		i.putsp(r0)
	case cpu.TrapHalt:
		s.Halt()
		s.UserMode = true
		s.Priority = 0
	default:
		s.Warn(WarnUnsupportedTrap, vector)
		s.Halt()
	}
}

// putsp writes a string packed two characters per word, low byte first
func (i *Interpreter) putsp(address uint16) {
	s := i.state

	if reserved(address) && !s.KernelMode() {
		s.Warn(WarnPutspInvalidMemory, address)
		return
	}

	stop := false
	for ; s.Memory[address] != 0; address++ {
		if stop {
			s.Warn(WarnPutspUnexpectedNUL, address)
		}

		chunk := s.Memory[address]

		if low := byte(chunk); low != 0 {
			s.Output.WriteByte(low)
		} else {
			s.Warn(WarnPutspUnexpectedNUL, address)
		}

		if high := byte(chunk >> 8); high != 0 {
			s.Output.WriteByte(high)
		} else {
			stop = true
		}
	}
}
