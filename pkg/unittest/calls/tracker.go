package calls

import (
	"errors"

	"github.com/Manu343726/lc3unit/pkg/hw/cpu"
	"github.com/Manu343726/lc3unit/pkg/utils"
)

var (
	// ErrDuplicateExpectation is returned when a call is expected twice with the same optional flag
	ErrDuplicateExpectation   = errors.New("duplicate call expectation")
	// ErrConflictingExpectation is returned when a call is both required and optional
	ErrConflictingExpectation = errors.New("call expected as both required and optional")
	ErrHaltExpectation        = errors.New("HALT cannot be expected as a trap call, assert the machine halted instead")
	// ErrTrapRegistersMismatch is returned when a trap expectation lacks one of
	// the registers of interest set by the first expectation on its vector
	ErrTrapRegistersMismatch  = errors.New("trap expectation does not set the registers of interest of its vector")
)

// Tracker holds the call expectations of a test.
//
// The first expectation for a trap vector fixes the registers of interest for
// that vector. Observed traps are compared on those registers only.
type Tracker struct {
	expectedSubroutines Set[SubroutineCall]
	optionalSubroutines Set[SubroutineCall]
	expectedTraps       Set[TrapCall]
	optionalTraps       Set[TrapCall]
	interest            map[uint8][]cpu.Register
}

// NewTracker returns a tracker without expectations
func NewTracker() *Tracker {
	return &Tracker{
		expectedSubroutines: NewSet[SubroutineCall](),
		optionalSubroutines: NewSet[SubroutineCall](),
		expectedTraps:       NewSet[TrapCall](),
		optionalTraps:       NewSet[TrapCall](),
		interest:            make(map[uint8][]cpu.Register),
	}
}

func expect[T Call](call T, optional bool, expected, optionals *Set[T]) error {
	target, other := expected, optionals
	if optional {
		target, other = optionals, expected
	}

	if target.Contains(call) {
		return utils.MakeError(ErrDuplicateExpectation, "%v", call)
	}

	if other.Contains(call) {
		return utils.MakeError(ErrConflictingExpectation, "%v", call)
	}

	target.Add(call)
	return nil
}

// ExpectSubroutine adds a required or optional subroutine call expectation.
func (t *Tracker) ExpectSubroutine(call SubroutineCall, optional bool) error {
	return expect(call, optional, &t.expectedSubroutines, &t.optionalSubroutines)
}

// ExpectTrap adds a required or optional trap call expectation. Registers
// outside the registers of interest of the vector are dropped.
func (t *Tracker) ExpectTrap(call TrapCall, optional bool) error {
	if call.Vector == cpu.TrapHalt {
		return ErrHaltExpectation
	}

	interest, known := t.interest[call.Vector]
	if !known {
		interest = utils.SortedKeys(call.Registers)
	}

	filtered, ok := call.filter(interest)
	if !ok {
		return utils.MakeError(ErrTrapRegistersMismatch, "%v expects registers %v", cpu.TrapName(call.Vector), interest)
	}

	if err := expect(filtered, optional, &t.expectedTraps, &t.optionalTraps); err != nil {
		return err
	}

	t.interest[call.Vector] = interest
	return nil
}

// TrapInterest returns the registers of interest of a vector.
func (t *Tracker) TrapInterest(vector uint8) ([]cpu.Register, bool) {
	interest, ok := t.interest[vector]
	return interest, ok
}

// Classification is the outcome of comparing actual calls against expectations.
type Classification[T Call] struct {
	Expected         Set[T]
	Matched          Set[T]
	Missing          Set[T]
	AcceptedOptional Set[T]
	Unexpected       Set[T]
}

// Passed returns true if every required call was made and no unknown call was.
func (c Classification[T]) Passed() bool {
	return c.Missing.Empty() && c.Unexpected.Empty()
}

func classify[T Call](expected, optional, actual Set[T]) Classification[T] {
	return Classification[T]{
		Expected:         expected,
		Matched:          expected.Intersect(actual),
		Missing:          expected.Difference(actual),
		AcceptedOptional: optional.Intersect(actual),
		Unexpected:       actual.Difference(expected.Union(optional)),
	}
}

// ClassifySubroutines classifies the subroutine calls made by the code.
func (t *Tracker) ClassifySubroutines(actual []SubroutineCall) Classification[SubroutineCall] {
	return classify(t.expectedSubroutines, t.optionalSubroutines, NewSet(actual...))
}

// ClassifyTraps classifies the traps observed by the simulator, after
// restricting each of them to the registers of interest of its vector.
func (t *Tracker) ClassifyTraps(observed []cpu.TrapCall) Classification[TrapCall] {
	actual := NewSet[TrapCall]()

	for _, trap := range observed {
		call := TrapCall{Vector: trap.Vector, Registers: make(map[cpu.Register]uint16)}

		for _, r := range t.interest[trap.Vector] {
			call.Registers[r] = trap.Registers[r]
		}

		actual.Add(call)
	}

	return classify(t.expectedTraps, t.optionalTraps, actual)
}
