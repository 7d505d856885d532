// Package replay records the environment and the explicit state mutations a
// test performs on the simulated machine, and serializes them into the replay
// string printed with every failed assertion.
//
// The replay string is consumed by the interactive simulator to rebuild the
// exact scenario a test ran, so the layout produced here is a wire format:
//
//	EnvironmentSection:
//	  repeated { id: uint8 (0-15), value: int32 }
//	  terminator: uint8 = 16
//	PreconditionSection:
//	  repeated { id: uint8 (17-254), label_length: uint32, label: bytes,
//	             param_count: uint32, params: param_count x uint16 }
//	  terminator: uint8 = 0xFF
//
// All integers are little-endian and the blob is rendered with standard base64.
package replay

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEnvironmentFlagRange is returned for an environment id outside the environment section
	ErrEnvironmentFlagRange  = errors.New("environment flags must be in range 0-15")
	// ErrPreconditionFlagRange is returned for a precondition id outside 17-254
	ErrPreconditionFlagRange = errors.New("precondition flags must be in range 17-254")
)

// flag is the numeric identifier of a setting or precondition in the blob. It
// only exists at the serialization boundary, everything else works with the
// Setting and Precondition variants.
type flag uint8

const (
	flagInvalid flag = iota
	flagTrueTraps
	flagInterrupts
	flagPlugins
	flagStrictExecution
	flagMemoryStrategy
	flagMemoryStrategyValue
	flagBreakAddress
	// 8-15 reserved.

	flagEndOfEnvironment flag = 16

	flagRegister   flag = 17
	flagPC         flag = 18
	flagValue      flag = 19
	flagPointer    flag = 20
	flagArray      flag = 21
	flagString     flag = 22
	flagInput      flag = 23
	flagSubroutine flag = 24
	flagDirectSet  flag = 25

	flagEndOfPreconditions flag = 0xFF
)

// Environment flags live in the reserved low range
const maxEnvironmentFlag = 15

func (f flag) isEnvironment() bool {
	return f <= maxEnvironmentFlag
}

func (f flag) isPrecondition() bool {
	return f > flagEndOfEnvironment && f < flagEndOfPreconditions
}

func (f flag) String() string {
	switch f {
	case flagInvalid:
		return "invalid"
	case flagTrueTraps:
		return "true_traps"
	case flagInterrupts:
		return "interrupts"
	case flagPlugins:
		return "plugins"
	case flagStrictExecution:
		return "strict_execution"
	case flagMemoryStrategy:
		return "memory_strategy"
	case flagMemoryStrategyValue:
		return "memory_strategy_value"
	case flagBreakAddress:
		return "break_address"
	case flagEndOfEnvironment:
		return "end_of_environment"
	case flagRegister:
		return "register"
	case flagPC:
		return "pc"
	case flagValue:
		return "value"
	case flagPointer:
		return "pointer"
	case flagArray:
		return "array"
	case flagString:
		return "string"
	case flagInput:
		return "input"
	case flagSubroutine:
		return "subroutine"
	case flagDirectSet:
		return "direct_set"
	case flagEndOfPreconditions:
		return "end_of_preconditions"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(f))
	}
}

// Doc lists the flag identifiers of the replay blob
func Doc() string {
	var doc strings.Builder

	doc.WriteString("Environment settings (id, int32 value):\n")
	for f := flagTrueTraps; f <= flagBreakAddress; f++ {
		fmt.Fprintf(&doc, "  %3d  %s\n", uint8(f), f)
	}
	fmt.Fprintf(&doc, "  %3d  %s\n", uint8(flagEndOfEnvironment), flagEndOfEnvironment)

	doc.WriteString("\nPreconditions (id, label, uint16 values):\n")
	for f := flagRegister; f <= flagDirectSet; f++ {
		fmt.Fprintf(&doc, "  %3d  %s\n", uint8(f), f)
	}
	fmt.Fprintf(&doc, "  %3d  %s\n", uint8(flagEndOfPreconditions), flagEndOfPreconditions)

	return doc.String()
}
