package interpreter

import (
	"testing"

	"github.com/Manu343726/lc3unit/pkg/hw/cpu"
	"github.com/stretchr/testify/assert"
)

func TestMachine_Init(t *testing.T) {
	m := NewMachine()

	t.Run("fill", func(t *testing.T) {
		m.Init(false, 0x1234)

		assert.Equal(t, uint16(0x1234), m.Memory(0x4000))
		assert.Equal(t, uint16(0x1234), m.Register(cpu.R3))
		assert.Equal(t, cpu.UserSpaceStart, m.PC())
	})

	t.Run("OS is installed", func(t *testing.T) {
		m.Init(false, 0x1234)

		assert.Equal(t, haltRoutine, m.Memory(uint16(cpu.TrapHalt)))
		assert.Equal(t, outRoutine, m.Memory(uint16(cpu.TrapOut)))
		assert.Equal(t, haltRoutine, m.Memory(0x00FF))
		assert.Equal(t, uint16(0x8000), m.Memory(cpu.MCR))
		assert.Equal(t, "LD R7, #1", m.Disassemble(haltRoutine))
	})

	t.Run("randomization is deterministic", func(t *testing.T) {
		other := NewMachine()

		m.Seed(5)
		m.Init(true, 0)
		other.Seed(5)
		other.Init(true, 0)

		assert.Equal(t, m.State().Memory[0x3000:0x3100], other.State().Memory[0x3000:0x3100])
		assert.Equal(t, m.State().Registers, other.State().Registers)
		assert.Equal(t, uint16(0x8000), m.Memory(cpu.MCR))
	})

	t.Run("random words follow the seed", func(t *testing.T) {
		m.Seed(3)
		first := []uint16{m.Random(), m.Random()}
		m.Seed(3)
		assert.Equal(t, first, []uint16{m.Random(), m.Random()})
	})

	t.Run("toggles and symbols survive", func(t *testing.T) {
		m.SetTrueTraps(true)
		m.SetStrictExecution(false)
		m.AddSymbol("MAIN", 0x3000)
		m.SetInput("abc")
		m.AddBreakpoint(0x3005)
		m.AddSubroutineInfo(0x3100, 2)

		m.Init(false, 0)

		assert.True(t, m.State().TrueTraps)
		assert.False(t, m.State().StrictExecution)
		address, ok := m.Lookup("MAIN")
		assert.True(t, ok)
		assert.Equal(t, uint16(0x3000), address)
		assert.Empty(t, m.State().Input)
		assert.Empty(t, m.Debugger().ListBreakpoints())
		assert.Empty(t, m.State().Subroutines)
	})
}

func TestMachine_Symbols(t *testing.T) {
	m := NewMachine()

	m.AddSymbol("ADD5", 0x3100)
	label, ok := m.ReverseLookup(0x3100)
	assert.True(t, ok)
	assert.Equal(t, "ADD5", label)

	m.AddSymbol("ADD5", 0x3200)
	_, ok = m.ReverseLookup(0x3100)
	assert.False(t, ok)
	address, _ := m.Lookup("ADD5")
	assert.Equal(t, uint16(0x3200), address)

	_, ok = m.Lookup("MISSING")
	assert.False(t, ok)

	m.ClearSymbols()
	_, ok = m.Lookup("ADD5")
	assert.False(t, ok)
}

func TestMachine_Disassemble(t *testing.T) {
	m := NewMachine()
	m.SetMemory(0x3000, 0x1008)

	assert.Equal(t, "ADD R0, R0, R0 *", m.Disassemble(0x3000))
	assert.Equal(t, "HALT", m.DisassembleWord(0xF025))

	m.SetStrictExecution(false)
	assert.Equal(t, "ADD R0, R0, R0", m.Disassemble(0x3000))
}

func TestMachine_RunStopsAtBreakpoints(t *testing.T) {
	m := newMachine(t, 0x1021, 0x1021, 0xF025)
	m.AddBreakpoint(0x3001)

	m.Run(0)

	assert.Equal(t, uint16(0x3001), m.PC())
	assert.False(t, m.State().Halted)
}
