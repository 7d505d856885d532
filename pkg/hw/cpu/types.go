package cpu

import "fmt"

// MemoryFillStrategy selects how memory is initialized before a test.
type MemoryFillStrategy int32

const (
	// FillWithValue fills memory with a given value.
	FillWithValue MemoryFillStrategy = iota
	// RandomFillWithSeed fills memory with a single random value picked with the given seed.
	RandomFillWithSeed
	// CompletelyRandomWithSeed randomizes every memory word with the given seed.
	CompletelyRandomWithSeed
)

func (s MemoryFillStrategy) String() string {
	switch s {
	case FillWithValue:
		return "fill_with_value"
	case RandomFillWithSeed:
		return "random_fill_with_seed"
	case CompletelyRandomWithSeed:
		return "completely_random_with_seed"
	default:
		return fmt.Sprintf("unknown(%d)", int32(s))
	}
}

// ParseMemoryFillStrategy parses the names returned by MemoryFillStrategy.String.
func ParseMemoryFillStrategy(name string) (MemoryFillStrategy, error) {
	for _, s := range []MemoryFillStrategy{FillWithValue, RandomFillWithSeed, CompletelyRandomWithSeed} {
		if s.String() == name {
			return s, nil
		}
	}

	return 0, fmt.Errorf("unknown memory fill strategy %q", name)
}

// SubroutineCall is a first level subroutine call observed by the simulator.
type SubroutineCall struct {
	// Address is the first instruction of the called subroutine
	Address uint16
	// R6 is the stack pointer at the time of the call
	R6 uint16
	// Params are the stack parameters, as many as registered with AddSubroutineInfo
	Params []uint16
	// Registers is a snapshot of R0-R7 at the time of the call
	Registers [TotalRegisters]uint16
}

// TrapCall is a first level trap invocation observed by the simulator.
type TrapCall struct {
	Vector    uint8
	Registers [TotalRegisters]uint16
}
