package interpreter

import (
	"testing"

	"github.com/Manu343726/lc3unit/pkg/hw/cpu"
	"github.com/stretchr/testify/assert"
)

func countingProgram(t *testing.T) *Machine {
	return newMachine(t,
		0x1021, // ADD R0, R0, #1
		0x1021,
		0x1021,
		0xF025, // HALT
	)
}

func TestDebugger_Breakpoints(t *testing.T) {
	m := countingProgram(t)
	dbg := m.Debugger()

	bp := dbg.AddBreakpoint(0x3002)
	assert.Same(t, bp, dbg.AddBreakpoint(0x3002))
	assert.Same(t, bp, dbg.BreakpointAt(0x3002))

	result := dbg.Run(0)
	assert.Equal(t, StopBreakpoint, result.StopReason)
	assert.Equal(t, 2, result.StepsExecuted)
	assert.Equal(t, uint16(0x3002), result.Breakpoint)
	assert.Equal(t, 1, bp.Hits)
	assert.Equal(t, uint16(0x3002), m.PC())

	t.Run("resuming from a breakpoint does not hit it again", func(t *testing.T) {
		result := dbg.Run(0)

		assert.Equal(t, StopHalt, result.StopReason)
		assert.Equal(t, 2, result.StepsExecuted)
		assert.Equal(t, uint16(3), m.Register(cpu.R0))
	})

	t.Run("remove", func(t *testing.T) {
		assert.True(t, dbg.RemoveBreakpoint(0x3002))
		assert.False(t, dbg.RemoveBreakpoint(0x3002))
		assert.Nil(t, dbg.BreakpointAt(0x3002))
	})
}

func TestDebugger_ListBreakpoints(t *testing.T) {
	dbg := countingProgram(t).Debugger()

	dbg.AddBreakpoint(0x4000)
	dbg.AddBreakpoint(0x3000)
	dbg.AddBreakpoint(0x3800)

	var addresses []uint16
	for _, bp := range dbg.ListBreakpoints() {
		addresses = append(addresses, bp.Address)
	}
	assert.Equal(t, []uint16{0x3000, 0x3800, 0x4000}, addresses)

	dbg.ClearBreakpoints()
	assert.Empty(t, dbg.ListBreakpoints())
}

func TestDebugger_MaxSteps(t *testing.T) {
	m := newMachine(t, 0x0FFF) // BR #-1

	result := m.Debugger().Run(100)

	assert.Equal(t, StopMaxSteps, result.StopReason)
	assert.Equal(t, 100, result.StepsExecuted)
	assert.Equal(t, uint16(0x3000), m.PC())
	assert.False(t, m.State().Halted)
}

func TestDebugger_Step(t *testing.T) {
	m := countingProgram(t)
	dbg := m.Debugger()

	result := dbg.Step()
	assert.Equal(t, StopStep, result.StopReason)
	assert.Equal(t, uint16(0x3000), result.LastPC)
	assert.Equal(t, Instruction(0x1021), result.LastInstruction)
	assert.Equal(t, uint16(0x3001), m.PC())

	dbg.Run(0)
	assert.True(t, dbg.Halted())
	assert.Equal(t, StopHalt, dbg.Step().StopReason)
}

func TestDebugger_EventCallback(t *testing.T) {
	m := countingProgram(t)
	dbg := m.Debugger()

	var events []ExecutionEvent
	dbg.SetEventCallback(func(event ExecutionEvent, result *ExecutionResult) bool {
		events = append(events, event)
		return result.StepsExecuted < 2
	})

	result := dbg.Run(0)

	assert.Equal(t, StopStep, result.StopReason)
	assert.Equal(t, 2, result.StepsExecuted)
	assert.Equal(t, []ExecutionEvent{EventStep, EventStep}, events)
}

func TestDebugger_RunUntil(t *testing.T) {
	m := countingProgram(t)
	dbg := m.Debugger()

	result := dbg.RunUntil(0x3002, 0)

	assert.Equal(t, StopBreakpoint, result.StopReason)
	assert.Equal(t, uint16(0x3002), m.PC())
	assert.Nil(t, dbg.BreakpointAt(0x3002))
}

func TestDebugger_RunUntilKeepsBreakpoint(t *testing.T) {
	m := countingProgram(t)
	dbg := m.Debugger()
	bp := dbg.AddBreakpoint(0x3001)

	result := dbg.RunUntil(0x3001, 0)

	assert.Equal(t, StopBreakpoint, result.StopReason)
	assert.Same(t, bp, dbg.BreakpointAt(0x3001))
	assert.Equal(t, 1, bp.Hits)
}

func TestDebugger_DisassembleRange(t *testing.T) {
	dbg := countingProgram(t).Debugger()

	assert.Equal(t, []string{
		"x3002: ADD R0, R0, #1",
		"x3003: HALT",
	}, dbg.DisassembleRange(0x3002, 0x3004))
}

func TestStopReason_String(t *testing.T) {
	assert.Equal(t, "breakpoint", StopBreakpoint.String())
	assert.Equal(t, "max_steps", StopMaxSteps.String())
	assert.Equal(t, "halt", EventHalt.String())
	assert.Equal(t, "unknown(9)", StopReason(9).String())
}
