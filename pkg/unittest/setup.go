package unittest

import (
	"github.com/Manu343726/lc3unit/pkg/hw/cpu"
	"github.com/Manu343726/lc3unit/pkg/hw/cpu/loader"
	"github.com/Manu343726/lc3unit/pkg/unittest/calls"
	"github.com/Manu343726/lc3unit/pkg/unittest/replay"
	"github.com/Manu343726/lc3unit/pkg/utils"
)

// Init initializes the machine memory. value is the fill value or the random
// seed, depending on the strategy.
func (tc *TestCase) Init(strategy cpu.MemoryFillStrategy, value int) {
	tc.t.Helper()
	if !tc.inSetup("Init") {
		return
	}

	switch strategy {
	case cpu.FillWithValue:
		tc.sim.Init(false, utils.ToShort(value))
	case cpu.RandomFillWithSeed:
		tc.sim.Seed(int64(value))
		tc.sim.Init(false, tc.sim.Random())
	case cpu.CompletelyRandomWithSeed:
		tc.sim.Seed(int64(value))
		tc.sim.Init(true, 0)
	default:
		tc.check(utils.MakeError(ErrUnknownFillStrategy, "%v", strategy))
		return
	}

	tc.logger.Debug("init", "strategy", strategy, "value", value)
	if tc.environment(replay.MemoryStrategy(strategy)) {
		tc.environment(replay.MemoryStrategyValue(value))
	}
}

// LoadObjectFiles loads an object file and its symbol table, as produced by
// the Patt/Patel lc3tools assembler
func (tc *TestCase) LoadObjectFiles(objectPath string, symbolsPath string) {
	tc.t.Helper()
	if !tc.inSetup("LoadObjectFiles") {
		return
	}

	if err := loader.LoadFiles(tc.sim, objectPath, symbolsPath); err != nil {
		tc.check(utils.MakeError(ErrLoadFailed, "%v", err))
		return
	}

	tc.logger.Debug("code loaded", "object", objectPath, "symbols", symbolsPath)
}

// SetTrueTraps enables or disables running traps through the OS. Call it
// before loading code.
func (tc *TestCase) SetTrueTraps(enabled bool) {
	tc.t.Helper()
	if !tc.inSetup("SetTrueTraps") {
		return
	}

	tc.trueTraps = enabled
	tc.sim.SetTrueTraps(enabled)
	tc.environment(replay.TrueTraps(enabled))
}

func (tc *TestCase) SetInterrupts(enabled bool) {
	tc.t.Helper()
	if !tc.inSetup("SetInterrupts") {
		return
	}

	tc.sim.SetInterrupts(enabled)
	tc.environment(replay.Interrupts(enabled))
}

// SetKeyboardInterruptDelay sets how often keyboard interrupts are raised.
// It is not part of the replay string.
func (tc *TestCase) SetKeyboardInterruptDelay(instructions uint32) {
	tc.t.Helper()
	if !tc.inSetup("SetKeyboardInterruptDelay") {
		return
	}

	tc.sim.SetKeyboardInterruptDelay(instructions)
}

// SetPluginsEnabled records whether simulator plugins are enabled
func (tc *TestCase) SetPluginsEnabled(enabled bool) {
	tc.t.Helper()
	if !tc.inSetup("SetPluginsEnabled") {
		return
	}

	tc.plugins = enabled
	tc.environment(replay.Plugins(enabled))
}

// SetStrictExecution enables or disables halting on malformed instructions
func (tc *TestCase) SetStrictExecution(enabled bool) {
	tc.t.Helper()
	if !tc.inSetup("SetStrictExecution") {
		return
	}

	tc.sim.SetStrictExecution(enabled)
	tc.environment(replay.StrictExecution(enabled))
}

// SetRegister sets R0-R7, masking value to 16 bits
func (tc *TestCase) SetRegister(register int, value int) {
	tc.t.Helper()
	if !tc.inSetup("SetRegister") {
		return
	}

	r, ok := tc.register(register)
	if !ok {
		return
	}

	tc.sim.SetRegister(r, utils.ToShort(value))
	tc.logger.Debug("set register", "register", r, "value", value)
	tc.precondition(replay.SetRegister{Register: r, Value: value})
}

// SetPC sets where execution starts
func (tc *TestCase) SetPC(value int) {
	tc.t.Helper()
	if !tc.inSetup("SetPC") {
		return
	}

	tc.sim.SetPC(utils.ToShort(value))
	tc.precondition(replay.SetPC{Value: value})
}

// SetValue sets the word at a label
func (tc *TestCase) SetValue(label string, value int) {
	tc.t.Helper()
	if !tc.inSetup("SetValue") {
		return
	}

	address, ok := tc.lookup(label)
	if !ok {
		return
	}

	tc.sim.SetMemory(address, utils.ToShort(value))
	tc.precondition(replay.SetValue{Label: label, Value: value})
}

// SetAddress sets the word at an address, no label needed
func (tc *TestCase) SetAddress(address uint16, value int) {
	tc.t.Helper()
	if !tc.inSetup("SetAddress") {
		return
	}

	tc.sim.SetMemory(address, utils.ToShort(value))
	tc.precondition(replay.SetAddress{Address: address, Value: value})
}

// SetPointer sets the word at the address stored at a label
func (tc *TestCase) SetPointer(label string, value int) {
	tc.t.Helper()
	if !tc.inSetup("SetPointer") {
		return
	}

	address, ok := tc.lookup(label)
	if !ok {
		return
	}

	tc.sim.SetMemory(tc.sim.Memory(address), utils.ToShort(value))
	tc.precondition(replay.SetPointer{Label: label, Value: value})
}

// SetArray writes values to consecutive words starting at the address stored
// at a label
func (tc *TestCase) SetArray(label string, values []int) {
	tc.t.Helper()
	if !tc.inSetup("SetArray") {
		return
	}

	address, ok := tc.lookup(label)
	if !ok {
		return
	}

	start := tc.sim.Memory(address)
	for i, value := range values {
		tc.sim.SetMemory(start+uint16(i), utils.ToShort(value))
	}

	tc.precondition(replay.SetArray{Label: label, Values: values})
}

// SetString writes a NUL terminated string starting at the address stored at
// a label
func (tc *TestCase) SetString(label string, text string) {
	tc.t.Helper()
	if !tc.inSetup("SetString") {
		return
	}

	address, ok := tc.lookup(label)
	if !ok {
		return
	}

	start := tc.sim.Memory(address)
	chars := []rune(text)
	for i, char := range chars {
		tc.sim.SetMemory(start+uint16(i), utils.ToShort(char))
	}
	tc.sim.SetMemory(start+uint16(len(chars)), 0)

	tc.precondition(replay.SetString{Label: label, Text: text})
}

// SetConsoleInput queues the characters read by GETC and IN
func (tc *TestCase) SetConsoleInput(input string) {
	tc.t.Helper()
	if !tc.inSetup("SetConsoleInput") {
		return
	}

	tc.sim.SetInput(input)
	tc.precondition(replay.SetConsoleInput{Text: input})
}

// CallSubroutine sets the machine up to run a subroutine following the LC-3
// calling convention: parameters are pushed on the stack and execution stops
// when the subroutine returns to R7.
func (tc *TestCase) CallSubroutine(label string, params []int, options ...CallOption) {
	tc.t.Helper()
	if !tc.inSetup("CallSubroutine") {
		return
	}

	address, ok := tc.lookup(label)
	if !ok {
		return
	}

	call := tc.options.Call
	for _, option := range options {
		option(&call)
	}

	stack := utils.ToShort(call.R6 - len(params))
	tc.breakAddress = utils.ToShort(call.R7)
	tc.subroutineCall = true

	tc.sim.SetPC(address)
	tc.sim.SetRegister(cpu.FramePointer, utils.ToShort(call.R5))
	tc.sim.SetRegister(cpu.StackPointer, stack)
	tc.sim.SetRegister(cpu.ReturnAddress, tc.breakAddress)
	tc.sim.AddBreakpoint(tc.breakAddress)

	for i, param := range params {
		tc.sim.SetMemory(stack+uint16(i), utils.ToShort(param))
	}

	tc.sim.AddSubroutineInfo(address, len(params))
	tc.logger.Debug("call subroutine", "label", label, "address", utils.FormatWord(address), "params", params)

	if tc.environment(replay.BreakAddress(tc.breakAddress)) {
		tc.precondition(replay.CallSubroutine{
			Label:  label,
			R5:     call.R5,
			R6:     call.R6,
			R7:     call.R7,
			Params: params,
		})
	}
}

// ExpectSubroutineCall declares a call the code must make, or may make if
// optional is set
func (tc *TestCase) ExpectSubroutineCall(label string, params []int, optional bool) {
	tc.t.Helper()
	if !tc.inSetup("ExpectSubroutineCall") {
		return
	}

	address, ok := tc.lookup(label)
	if !ok {
		return
	}

	tc.sim.AddSubroutineInfo(address, len(params))
	tc.check(tc.tracker.ExpectSubroutine(calls.NewSubroutineCall(label, params...), optional))
}

// ExpectTrapCall declares a trap the code must invoke, or may invoke if
// optional is set, with the given register values. The registers of the first
// expectation for a vector are the only ones compared for that vector.
func (tc *TestCase) ExpectTrapCall(vector uint8, registers map[int]int, optional bool) {
	tc.t.Helper()
	if !tc.inSetup("ExpectTrapCall") {
		return
	}

	values := make(map[cpu.Register]int, len(registers))
	for index, value := range registers {
		r, ok := tc.register(index)
		if !ok {
			return
		}
		values[r] = value
	}

	tc.check(tc.tracker.ExpectTrap(calls.NewTrapCall(vector, values), optional))
}

// RunCode runs the code until it halts, returns from the called subroutine or
// the instruction budget runs out
func (tc *TestCase) RunCode() {
	tc.t.Helper()
	tc.RunCodeFor(tc.options.MaxExecutions)
}

// RunCodeFor is RunCode with an explicit instruction budget
func (tc *TestCase) RunCodeFor(maxExecutions int) {
	tc.t.Helper()
	if !tc.inSetup("RunCode") {
		return
	}

	tc.phase = PhaseRunning

	for _, r := range cpu.AllRegisters() {
		tc.registers[r] = tc.sim.Register(r)
	}

	tc.logger.Debug("running code", "pc", utils.FormatWord(tc.sim.PC()), "max_executions", maxExecutions)
	tc.sim.Run(maxExecutions)

	tc.replayMsg = tc.recorder.ReplayMessage()
	tc.phase = PhaseEvaluated

	tc.logger.Debug("code finished",
		"pc", utils.FormatWord(tc.sim.PC()),
		"warnings", len(tc.sim.Warnings()),
		"replay", tc.recorder.Encode())
}
