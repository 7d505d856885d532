package calls

import (
	"testing"

	"github.com/Manu343726/lc3unit/pkg/hw/cpu"
	"github.com/stretchr/testify/assert"
)

func TestSubroutineCall(t *testing.T) {
	t.Run("values are masked", func(t *testing.T) {
		call := NewSubroutineCall("F", -1, 70000)

		assert.Equal(t, []uint16{0xFFFF, 0x1170}, call.Params)
		assert.Equal(t, NewSubroutineCall("F", 0xFFFF, 0x1170).Key(), call.Key())
	})

	t.Run("string", func(t *testing.T) {
		assert.Equal(t, "ADD5(3)", NewSubroutineCall("ADD5", 3).String())
		assert.Equal(t, "F(-1,2)", NewSubroutineCall("F", -1, 2).String())
		assert.Equal(t, "F()", NewSubroutineCall("F").String())
	})

	t.Run("params are part of the identity", func(t *testing.T) {
		assert.NotEqual(t, NewSubroutineCall("F", 1).Key(), NewSubroutineCall("F", 1, 0).Key())
		assert.NotEqual(t, NewSubroutineCall("F", 1, 2).Key(), NewSubroutineCall("F", 2, 1).Key())
	})
}

func TestTrapCall(t *testing.T) {
	t.Run("string", func(t *testing.T) {
		call := NewTrapCall(cpu.TrapOut, map[cpu.Register]int{cpu.R1: -1, cpu.R0: 5})
		assert.Equal(t, "OUT(R0=(5 x0005), R1=(-1 xffff))", call.String())
	})

	t.Run("no registers", func(t *testing.T) {
		assert.Equal(t, "GETC", NewTrapCall(cpu.TrapGetc, nil).String())
		assert.Equal(t, "TRAP x30", NewTrapCall(0x30, nil).String())
	})

	t.Run("key ignores insertion order", func(t *testing.T) {
		a := NewTrapCall(cpu.TrapOut, map[cpu.Register]int{cpu.R0: 1, cpu.R1: 2})
		b := NewTrapCall(cpu.TrapOut, map[cpu.Register]int{cpu.R1: 2, cpu.R0: 1})
		assert.Equal(t, a.Key(), b.Key())
	})

	t.Run("filter", func(t *testing.T) {
		call := NewTrapCall(cpu.TrapOut, map[cpu.Register]int{cpu.R0: 1, cpu.R1: 2, cpu.R2: 3})

		filtered, ok := call.filter([]cpu.Register{cpu.R0, cpu.R1})
		assert.True(t, ok)
		assert.Equal(t, map[cpu.Register]uint16{cpu.R0: 1, cpu.R1: 2}, filtered.Registers)

		_, ok = call.filter([]cpu.Register{cpu.R3})
		assert.False(t, ok)
	})
}

func TestSet(t *testing.T) {
	a := NewSubroutineCall("A", 1)
	b := NewSubroutineCall("B", 2)
	c := NewSubroutineCall("C", 3)

	t.Run("add", func(t *testing.T) {
		set := NewSet[SubroutineCall]()

		assert.True(t, set.Add(a))
		assert.False(t, set.Add(NewSubroutineCall("A", 1)))
		assert.Equal(t, 1, set.Len())
	})

	t.Run("zero value", func(t *testing.T) {
		var set Set[SubroutineCall]

		assert.True(t, set.Empty())
		assert.False(t, set.Contains(a))
		assert.True(t, set.Add(a))
		assert.True(t, set.Contains(a))
	})

	t.Run("algebra", func(t *testing.T) {
		x := NewSet(a, b)
		y := NewSet(b, c)

		assert.Equal(t, []SubroutineCall{b}, x.Intersect(y).Items())
		assert.Equal(t, []SubroutineCall{a}, x.Difference(y).Items())
		assert.Equal(t, []SubroutineCall{a, b, c}, x.Union(y).Items())
	})

	t.Run("items are sorted", func(t *testing.T) {
		assert.Equal(t, []SubroutineCall{a, b, c}, NewSet(c, a, b).Items())
		assert.Equal(t, "A(1) B(2) C(3)", NewSet(c, b, a).String())
	})
}
