// Package calls verifies the subroutine and trap calls made by code under test
// against the calls a test expects, using set algebra on call records.
package calls

import (
	"fmt"
	"strings"

	"github.com/Manu343726/lc3unit/pkg/hw/cpu"
	"github.com/Manu343726/lc3unit/pkg/utils"
)

// Call is a value record compared structurally through its canonical key.
type Call interface {
	// Key returns the canonical form of the call. Two calls are equal iff
	// their keys are equal.
	Key() string
	String() string
}

// SubroutineCall is a call to a labelled subroutine with its stack parameters.
type SubroutineCall struct {
	Name   string
	Params []uint16
}

// NewSubroutineCall builds a call to the subroutine at label name with the
// given stack parameters, masked to 16 bits
func NewSubroutineCall(name string, params ...int) SubroutineCall {
	return SubroutineCall{
		Name:   name,
		Params: utils.ToShorts(params),
	}
}

// Key identifies the call for set membership
func (c SubroutineCall) Key() string {
	return c.Name + "(" + utils.FormatSlice(utils.Map(c.Params, utils.FormatWord), ",") + ")"
}

// String renders the call as name(p1,p2), parameters in signed decimal.
func (c SubroutineCall) String() string {
	return c.Name + "(" + utils.FormatSlice(utils.Map(c.Params, utils.ToSigned), ",") + ")"
}

// TrapCall is a trap invocation with the values of its registers of interest.
type TrapCall struct {
	Vector    uint8
	Registers map[cpu.Register]uint16
}

// NewTrapCall builds a trap call keeping only the given registers, masked to
// 16 bits
func NewTrapCall(vector uint8, registers map[cpu.Register]int) TrapCall {
	call := TrapCall{
		Vector:    vector,
		Registers: make(map[cpu.Register]uint16, len(registers)),
	}

	for r, value := range registers {
		call.Registers[r] = utils.ToShort(value)
	}

	return call
}

// filter returns a copy of the call restricted to the given registers. The
// second result is false if one of them is missing.
func (c TrapCall) filter(interest []cpu.Register) (TrapCall, bool) {
	filtered := TrapCall{
		Vector:    c.Vector,
		Registers: make(map[cpu.Register]uint16, len(interest)),
	}

	for _, r := range interest {
		value, ok := c.Registers[r]
		if !ok {
			return filtered, false
		}

		filtered.Registers[r] = value
	}

	return filtered, true
}

// Key identifies the call by vector and registers of interest
func (c TrapCall) Key() string {
	var key strings.Builder
	fmt.Fprintf(&key, "%02x", c.Vector)

	for _, r := range utils.SortedKeys(c.Registers) {
		fmt.Fprintf(&key, ":%v=%04x", r, c.Registers[r])
	}

	return key.String()
}

// String renders the trap as NAME(R0=(5 x0005), ...), or just NAME when no
// register is of interest.
func (c TrapCall) String() string {
	name := cpu.TrapName(c.Vector)

	if len(c.Registers) == 0 {
		return name
	}

	params := utils.Map(utils.SortedKeys(c.Registers), func(r cpu.Register) string {
		return fmt.Sprintf("%v=%s", r, utils.FormatShort(utils.ToSigned(c.Registers[r])))
	})

	return name + "(" + strings.Join(params, ", ") + ")"
}
