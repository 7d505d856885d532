package interpreter

import (
	"fmt"

	"github.com/Manu343726/lc3unit/pkg/utils"
)

// ExecutionEvent is reported to the EventCallback while the debugger runs code
type ExecutionEvent int

const (
	EventStep ExecutionEvent = iota
	EventBreakpoint
	EventHalt
	EventError
)

var eventNames = [...]string{"step", "breakpoint", "halt", "error"}

func (e ExecutionEvent) String() string {
	if e >= 0 && int(e) < len(eventNames) {
		return eventNames[e]
	}
	return fmt.Sprintf("unknown(%d)", int(e))
}

// StopReason tells why Step or Run returned
type StopReason int

const (
	StopNone StopReason = iota
	// Single step done, or the event callback asked to stop
	StopStep
	StopBreakpoint
	StopHalt
	StopError
	StopMaxSteps
)

var stopReasonNames = [...]string{"none", "step", "breakpoint", "halt", "error", "max_steps"}

func (r StopReason) String() string {
	if r >= 0 && int(r) < len(stopReasonNames) {
		return stopReasonNames[r]
	}
	return fmt.Sprintf("unknown(%d)", int(r))
}

// Breakpoint stops Run before the instruction at Address executes
type Breakpoint struct {
	Address uint16
	Hits    int
}

// ExecutionResult summarizes a Step or Run call
type ExecutionResult struct {
	StopReason    StopReason
	StepsExecuted int
	Error         error
	// Address of the breakpoint execution stopped at, if any
	Breakpoint      uint16
	LastPC          uint16
	LastInstruction Instruction
}

// EventCallback observes execution. Returning false stops Run after the
// current instruction.
type EventCallback func(event ExecutionEvent, result *ExecutionResult) bool

// Debugger drives an interpreter with breakpoints and a step budget. It is
// what the harness uses to run code until the return address of a called
// subroutine is reached.
type Debugger struct {
	interp      *Interpreter
	breakpoints map[uint16]*Breakpoint
	onEvent     EventCallback
}

func NewDebugger(interp *Interpreter) *Debugger {
	return &Debugger{
		interp:      interp,
		breakpoints: make(map[uint16]*Breakpoint),
	}
}

func (d *Debugger) SetEventCallback(callback EventCallback) {
	d.onEvent = callback
}

func (d *Debugger) Halted() bool {
	return d.interp.state.Halted
}

// AddBreakpoint sets a breakpoint at address. An existing breakpoint at the
// same address is returned untouched.
func (d *Debugger) AddBreakpoint(address uint16) *Breakpoint {
	bp, ok := d.breakpoints[address]
	if !ok {
		bp = &Breakpoint{Address: address}
		d.breakpoints[address] = bp
	}
	return bp
}

func (d *Debugger) RemoveBreakpoint(address uint16) bool {
	_, ok := d.breakpoints[address]
	delete(d.breakpoints, address)
	return ok
}

// BreakpointAt returns the breakpoint set at address, or nil
func (d *Debugger) BreakpointAt(address uint16) *Breakpoint {
	return d.breakpoints[address]
}

// ListBreakpoints returns the breakpoints in address order
func (d *Debugger) ListBreakpoints() []*Breakpoint {
	return utils.Map(utils.SortedKeys(d.breakpoints), func(address uint16) *Breakpoint {
		return d.breakpoints[address]
	})
}

func (d *Debugger) ClearBreakpoints() {
	clear(d.breakpoints)
}

func (d *Debugger) notify(event ExecutionEvent, result *ExecutionResult) bool {
	return d.onEvent == nil || d.onEvent(event, result)
}

// execute runs one instruction, accounting it in result. It returns false
// with result.StopReason set when execution cannot go on.
func (d *Debugger) execute(result *ExecutionResult) bool {
	if d.interp.state.Halted {
		result.StopReason = StopHalt
		d.notify(EventHalt, result)
		return false
	}

	step, err := d.interp.Step()
	if err != nil {
		result.StopReason = StopError
		result.Error = err
		d.notify(EventError, result)
		return false
	}

	result.LastPC = step.Address
	result.LastInstruction = step.Instruction
	result.StepsExecuted++

	if !d.notify(EventStep, result) {
		result.StopReason = StopStep
		return false
	}

	return true
}

// hit reports whether a breakpoint is set at the PC
func (d *Debugger) hit(result *ExecutionResult) bool {
	bp := d.breakpoints[d.interp.state.PC]
	if bp == nil {
		return false
	}

	bp.Hits++
	result.StopReason = StopBreakpoint
	result.Breakpoint = bp.Address
	d.notify(EventBreakpoint, result)
	return true
}

// Step executes a single instruction, ignoring breakpoints
func (d *Debugger) Step() *ExecutionResult {
	result := &ExecutionResult{LastPC: d.interp.state.PC}

	if d.execute(result) {
		result.StopReason = StopStep
	}

	return result
}

// Run executes until the machine halts, a breakpoint is reached or maxSteps
// instructions ran (no limit if maxSteps is 0). The breakpoint at the PC Run
// starts from does not count, so a stopped run can be resumed.
func (d *Debugger) Run(maxSteps int) *ExecutionResult {
	result := &ExecutionResult{LastPC: d.interp.state.PC}

	for {
		if maxSteps > 0 && result.StepsExecuted >= maxSteps {
			result.StopReason = StopMaxSteps
			break
		}

		if result.StepsExecuted > 0 && d.hit(result) {
			break
		}

		if !d.execute(result) {
			break
		}
	}

	return result
}

// RunUntil runs with a temporary breakpoint at address, keeping any
// breakpoint already set there
func (d *Debugger) RunUntil(address uint16, maxSteps int) *ExecutionResult {
	if d.BreakpointAt(address) == nil {
		d.AddBreakpoint(address)
		defer d.RemoveBreakpoint(address)
	}

	return d.Run(maxSteps)
}

func (d *Debugger) DisassembleAt(address uint16) string {
	return Disassemble(d.interp.state.Memory[address], d.interp.state.StrictExecution)
}

// DisassembleRange disassembles [begin, end) as "x3000: ADD R0, R0, #1" lines
func (d *Debugger) DisassembleRange(begin, end uint16) []string {
	var lines []string
	for address := begin; address < end; address++ {
		lines = append(lines, utils.FormatWord(address)+": "+d.DisassembleAt(address))
	}
	return lines
}
