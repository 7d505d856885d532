// Package cpu defines the contract between the LC-3 unit test harness and the
// simulator executing the code under test.
//
// The harness never talks to a concrete machine. Everything it needs (state
// access, symbol lookup, execution and post-execution introspection) goes
// through Simulator, so harness code can be tested against an in-memory fake
// and run against any engine implementing the interface.
package cpu

// Simulator is the narrow view of an LC-3 machine used by the harness.
type Simulator interface {
	// Init resets the machine. If randomize is set memory and registers get
	// random contents, otherwise memory is filled with fill.
	Init(randomize bool, fill uint16)
	// Seed seeds the random number generator used by Init and Random.
	Seed(seed int64)
	// Random returns the next random word.
	Random() uint16

	SetTrueTraps(enabled bool)
	SetInterrupts(enabled bool)
	SetStrictExecution(enabled bool)
	SetKeyboardInterruptDelay(instructions uint32)

	Register(r Register) uint16
	SetRegister(r Register, value uint16)
	PC() uint16
	SetPC(pc uint16)
	Memory(address uint16) uint16
	SetMemory(address uint16, value uint16)

	AddSymbol(label string, address uint16)
	// Lookup returns the address of a label from the loaded symbol table.
	Lookup(label string) (uint16, bool)
	// ReverseLookup returns the label placed at an address.
	ReverseLookup(address uint16) (string, bool)

	SetInput(input string)
	Output() string
	// Warnings returns the non fatal warnings accumulated while running.
	Warnings() []string

	AddBreakpoint(address uint16)
	// AddSubroutineInfo registers how many stack parameters the subroutine
	// starting at address takes, so first level calls to it can be traced with
	// their arguments.
	AddSubroutineInfo(address uint16, params int)

	// Run executes until the machine halts, a breakpoint is hit or maxSteps
	// instructions have been executed.
	Run(maxSteps int)

	// SubroutineCalls returns the calls made from the top level code.
	SubroutineCalls() []SubroutineCall
	// TrapCalls returns the traps (HALT excluded) invoked from the top level code.
	TrapCalls() []TrapCall

	// Disassemble disassembles the instruction stored at address. With strict
	// execution enabled malformed encodings are suffixed with MalformedMarker.
	Disassemble(address uint16) string
	// DisassembleWord disassembles a raw instruction word.
	DisassembleWord(word uint16) string
}
