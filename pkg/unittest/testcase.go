// Package unittest runs LC-3 code under test on a simulator and checks its
// behavior.
//
// A TestCase goes through three phases. During setup the test configures the
// machine (memory, registers, input, simulated subroutine calls) and declares
// the subroutine and trap calls it expects. Every setup step is applied to the
// simulator and recorded at the same time, so that any failed assertion can
// print a replay string reproducing the exact scenario in an interactive
// simulator. RunCode executes the code once, and then assertions check the
// final state:
//
//	tc := unittest.New(t, interpreter.NewMachine())
//	tc.Init(cpu.FillWithValue, 0)
//	tc.LoadObjectFiles("add5.obj", "add5.sym")
//	tc.CallSubroutine("ADD5", []int{3})
//	tc.RunCode()
//	tc.AssertReturned()
//	tc.AssertReturnValue(8)
//
// Misusing the harness (unknown labels, asserting before running, duplicated
// expectations...) aborts the test through FailNow.
package unittest

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Manu343726/lc3unit/pkg/hw/cpu"
	"github.com/Manu343726/lc3unit/pkg/logging"
	"github.com/Manu343726/lc3unit/pkg/unittest/calls"
	"github.com/Manu343726/lc3unit/pkg/unittest/replay"
	"github.com/Manu343726/lc3unit/pkg/utils"
	"github.com/stretchr/testify/require"
)

var (
	// Harness usage errors. They abort the test instead of failing an assertion.
	ErrNotInSetup          = errors.New("setup is only allowed before running the code")
	ErrNotRun              = errors.New("assertions are only allowed after running the code")
	ErrUnknownLabel        = errors.New("label not found in the assembly code")
	ErrUnlabeledAddress    = errors.New("address is not associated with a label")
	ErrUnknownFillStrategy = errors.New("unknown memory fill strategy")
	ErrNoSubroutineCall    = errors.New("AssertReturned requires a previous call to CallSubroutine")
	ErrSubroutineCalled    = errors.New("CallSubroutine was used in this test, use AssertReturned instead of AssertHalted")
	ErrLoadFailed          = errors.New("unable to load code")
)

// TestingT is the subset of *testing.T used by TestCase
type TestingT interface {
	Errorf(format string, args ...any)
	FailNow()
	Helper()
}

// Phase is the lifecycle stage of a TestCase
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseRunning
	PhaseEvaluated
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseRunning:
		return "running"
	case PhaseEvaluated:
		return "evaluated"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// TestCase drives one test of LC-3 code
type TestCase struct {
	t       TestingT
	sim     cpu.Simulator
	options Options
	logger  *slog.Logger

	phase    Phase
	recorder *replay.Recorder
	tracker  *calls.Tracker

	trueTraps      bool
	plugins        bool
	subroutineCall bool
	breakAddress   uint16

	// Registers at the start of the run
	registers [cpu.TotalRegisters]uint16
	replayMsg string
}

// New creates a test case running code on sim with the default options
func New(t TestingT, sim cpu.Simulator) *TestCase {
	return &TestCase{
		t:        t,
		sim:      sim,
		options:  DefaultOptions(),
		logger:   logging.Discard(),
		recorder: replay.NewRecorder(),
		tracker:  calls.NewTracker(),
	}
}

// WithOptions replaces the options of the test case
func (tc *TestCase) WithOptions(options Options) *TestCase {
	tc.options = options
	return tc
}

// WithLogger sets the logger setup, run and assertion events are reported to
func (tc *TestCase) WithLogger(logger *slog.Logger) *TestCase {
	tc.logger = logger
	return tc
}

func (tc *TestCase) Phase() Phase {
	return tc.phase
}

// Simulator returns the simulator running the code
func (tc *TestCase) Simulator() cpu.Simulator {
	return tc.sim
}

// Recorder returns the recorded environment and preconditions
func (tc *TestCase) Recorder() *replay.Recorder {
	return tc.recorder
}

// ReplayString returns the base64 replay string of the recorded setup
func (tc *TestCase) ReplayString() string {
	return tc.recorder.Encode()
}

// check aborts the test if err is a harness usage error
func (tc *TestCase) check(err error) bool {
	tc.t.Helper()

	if err == nil {
		return true
	}

	tc.logger.Error("harness usage error", "error", err, "phase", tc.phase)
	require.NoError(tc.t, err)
	return false
}

func (tc *TestCase) inSetup(operation string) bool {
	tc.t.Helper()

	if tc.phase != PhaseSetup {
		return tc.check(utils.MakeError(ErrNotInSetup, "%s called in phase %s", operation, tc.phase))
	}

	return true
}

func (tc *TestCase) evaluated(operation string) bool {
	tc.t.Helper()

	if tc.phase != PhaseEvaluated {
		return tc.check(utils.MakeError(ErrNotRun, "%s called in phase %s", operation, tc.phase))
	}

	return true
}

func (tc *TestCase) lookup(label string) (uint16, bool) {
	tc.t.Helper()

	address, ok := tc.sim.Lookup(label)
	if !ok {
		return 0, tc.check(utils.MakeError(ErrUnknownLabel, "'%s'", label))
	}

	return address, true
}

func (tc *TestCase) reverseLookup(address uint16) (string, bool) {
	tc.t.Helper()

	label, ok := tc.sim.ReverseLookup(address)
	if !ok {
		return "", tc.check(utils.MakeError(ErrUnlabeledAddress, "%s", utils.FormatWord(address)))
	}

	return label, true
}

func (tc *TestCase) register(index int) (cpu.Register, bool) {
	tc.t.Helper()

	r, err := cpu.ParseRegister(index)
	return r, tc.check(err)
}

func (tc *TestCase) environment(setting replay.Setting) bool {
	tc.t.Helper()
	return tc.check(tc.recorder.Environment(setting))
}

func (tc *TestCase) precondition(p replay.Precondition) bool {
	tc.t.Helper()
	return tc.check(tc.recorder.Precondition(p))
}

// failure appends the replay message to an assertion failure message
func (tc *TestCase) failure(format string, args ...any) string {
	return fmt.Sprintf(format, args...) + "\n" + tc.replayMsg
}
