package replay

import (
	"github.com/Manu343726/lc3unit/pkg/hw/cpu"
)

// Setting is a global test configuration flag. The set of settings is closed:
// only the types declared in this file implement it.
type Setting interface {
	environmentFlag() flag
	environmentValue() int32
}

// TrueTraps runs traps through the OS trap vector table instead of emulating them. Default off.
type TrueTraps bool

// Interrupts enables interrupt delivery. Default off.
type Interrupts bool

// Plugins enables simulator plugins. Default on.
type Plugins bool

// StrictExecution halts the machine when a malformed instruction is executed. Default on.
type StrictExecution bool

// MemoryStrategy is the strategy used to initialize memory.
type MemoryStrategy cpu.MemoryFillStrategy

// MemoryStrategyValue is the parameter of the memory strategy: fill value or random seed.
type MemoryStrategyValue int32

// BreakAddress is the breakpoint placed at the return address of a simulated subroutine call.
type BreakAddress uint16

func boolValue(b bool) int32 {
	if b {
		return 1
	}

	return 0
}

func (s TrueTraps) environmentFlag() flag             { return flagTrueTraps }
func (s TrueTraps) environmentValue() int32           { return boolValue(bool(s)) }
func (s Interrupts) environmentFlag() flag            { return flagInterrupts }
func (s Interrupts) environmentValue() int32          { return boolValue(bool(s)) }
func (s Plugins) environmentFlag() flag               { return flagPlugins }
func (s Plugins) environmentValue() int32             { return boolValue(bool(s)) }
func (s StrictExecution) environmentFlag() flag       { return flagStrictExecution }
func (s StrictExecution) environmentValue() int32     { return boolValue(bool(s)) }
func (s MemoryStrategy) environmentFlag() flag        { return flagMemoryStrategy }
func (s MemoryStrategy) environmentValue() int32      { return int32(s) }
func (s MemoryStrategyValue) environmentFlag() flag   { return flagMemoryStrategyValue }
func (s MemoryStrategyValue) environmentValue() int32 { return int32(s) }
func (s BreakAddress) environmentFlag() flag          { return flagBreakAddress }
func (s BreakAddress) environmentValue() int32        { return int32(s) }
