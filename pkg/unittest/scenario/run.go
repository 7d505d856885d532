package scenario

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Manu343726/lc3unit/pkg/hw/cpu"
	"github.com/Manu343726/lc3unit/pkg/unittest"
	"github.com/Manu343726/lc3unit/pkg/unittest/calls"
	"github.com/Manu343726/lc3unit/pkg/unittest/replay"
	"github.com/Manu343726/lc3unit/pkg/utils"
)

// Prepare applies the environment, memory initialization, code, setup steps,
// subroutine call and call expectations of the scenario, in that order
func (s *Scenario) Prepare(tc *unittest.TestCase) {
	env := s.Environment
	if env.TrueTraps != nil {
		tc.SetTrueTraps(*env.TrueTraps)
	}
	if env.Interrupts != nil {
		tc.SetInterrupts(*env.Interrupts)
	}
	if env.Plugins != nil {
		tc.SetPluginsEnabled(*env.Plugins)
	}
	if env.StrictExecution != nil {
		tc.SetStrictExecution(*env.StrictExecution)
	}
	if env.KeyboardInterruptDelay != nil {
		tc.SetKeyboardInterruptDelay(*env.KeyboardInterruptDelay)
	}

	if s.Init != nil {
		tc.Init(strategies[s.Init.Strategy], s.Init.Value)
	}

	if s.Object != "" {
		tc.LoadObjectFiles(s.Object, s.Symbols)
	}

	for _, step := range s.Setup {
		kinds[step.Kind].setup(tc, step)
	}

	if s.Call != nil {
		var options []unittest.CallOption
		if s.Call.R5 != nil {
			options = append(options, unittest.WithR5(*s.Call.R5))
		}
		if s.Call.R6 != nil {
			options = append(options, unittest.WithR6(*s.Call.R6))
		}
		if s.Call.R7 != nil {
			options = append(options, unittest.WithR7(*s.Call.R7))
		}

		tc.CallSubroutine(s.Call.Label, s.Call.Params, options...)
	}

	for _, call := range s.Expect.Subroutines {
		tc.ExpectSubroutineCall(call.Label, call.Params, call.Optional)
	}

	for _, trap := range s.Expect.Traps {
		tc.ExpectTrapCall(trap.Vector, trap.Registers, trap.Optional)
	}
}

// Result is the outcome of one assertion
type Result struct {
	Assertion string
	Passed    bool
}

// Run prepares tc, runs the code and evaluates the assertions in order
func (s *Scenario) Run(tc *unittest.TestCase) []Result {
	s.Prepare(tc)

	if s.MaxExecutions > 0 {
		tc.RunCodeFor(s.MaxExecutions)
	} else {
		tc.RunCode()
	}

	results := make([]Result, 0, len(s.Assert))
	for _, step := range s.Assert {
		results = append(results, Result{
			Assertion: step.String(),
			Passed:    kinds[step.Kind].assert(tc, step),
		})
	}

	return results
}

var errAborted = errors.New("test aborted")

// collector is the TestingT of scenarios checked outside of go test. Like
// testing.T, FailNow stops the test, here by unwinding up to Check.
type collector struct {
	failures []string
}

func (c *collector) Errorf(format string, args ...any) {
	c.failures = append(c.failures, fmt.Sprintf(format, args...))
}

func (c *collector) FailNow() {
	panic(errAborted)
}

func (c *collector) Helper() {}

// guard runs f, returning true if it was stopped by FailNow
func (c *collector) guard(f func()) (aborted bool) {
	defer func() {
		if r := recover(); r != nil {
			if r != errAborted {
				panic(r)
			}
			aborted = true
		}
	}()

	f()
	return false
}

// Outcome is the result of checking a scenario
type Outcome struct {
	Name     string
	Results  []Result
	Failures []string
	// Aborted is set when the scenario misused the harness
	Aborted bool
	Replay  string
	Output  string

	// Call classifications, only when the code ran
	Subroutines *calls.Classification[calls.SubroutineCall]
	Traps       *calls.Classification[calls.TrapCall]
}

// Passed reports whether every assertion passed and the scenario was not aborted
func (o *Outcome) Passed() bool {
	return !o.Aborted && len(o.Failures) == 0
}

// Check runs the scenario on sim and collects its failures
func (s *Scenario) Check(sim cpu.Simulator, options unittest.Options, logger *slog.Logger) *Outcome {
	c := &collector{}
	tc := unittest.New(c, sim).WithOptions(options).WithLogger(logger)
	outcome := &Outcome{Name: s.Name}

	outcome.Aborted = c.guard(func() {
		outcome.Results = s.Run(tc)

		if subroutines, ok := tc.ClassifySubroutineCalls(); ok {
			outcome.Subroutines = &subroutines
		}
		if traps, ok := tc.ClassifyTrapCalls(); ok {
			outcome.Traps = &traps
		}
	})

	outcome.Failures = c.failures
	outcome.Replay = tc.ReplayString()
	if tc.Phase() == unittest.PhaseEvaluated {
		outcome.Output = sim.Output()
	}

	logger.Debug("scenario checked", "name", s.Name, "passed", outcome.Passed(), "aborted", outcome.Aborted)
	return outcome
}

// Replay prepares the scenario on sim without running the code and returns
// the recorded setup
func (s *Scenario) Replay(sim cpu.Simulator, logger *slog.Logger) (*replay.Recorder, error) {
	c := &collector{}
	tc := unittest.New(c, sim).WithLogger(logger)

	if c.guard(func() { s.Prepare(tc) }) {
		return nil, utils.MakeError(ErrInvalidScenario, "%s", strings.Join(c.failures, "\n"))
	}

	return tc.Recorder(), nil
}
