package cpu

import (
	"errors"
	"fmt"

	"github.com/Manu343726/lc3unit/pkg/utils"
)

var (
	ErrUnknownRegister = errors.New("unknown register")
)

// Register is the index of one of the eight general purpose registers.
type Register int

const (
	R0 Register = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7

	TotalRegisters = 8
)

// Calling convention aliases.
const (
	FramePointer  = R5
	StackPointer  = R6
	ReturnAddress = R7
)

func (r Register) Valid() bool {
	return r >= R0 && r <= R7
}

func (r Register) String() string {
	return fmt.Sprintf("R%d", int(r))
}

// ParseRegister validates a register index.
func ParseRegister(index int) (Register, error) {
	r := Register(index)
	if !r.Valid() {
		return 0, utils.MakeError(ErrUnknownRegister, "'%d' (valid registers are R0-R7)", index)
	}

	return r, nil
}

// AllRegisters returns R0-R7 in order.
func AllRegisters() []Register {
	rs := make([]Register, TotalRegisters)

	for i := range rs {
		rs[i] = Register(i)
	}

	return rs
}
