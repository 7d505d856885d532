package unittest

import (
	"strings"

	"github.com/Manu343726/lc3unit/pkg/unittest/calls"
)

// ClassifySubroutineCalls compares the first level subroutine calls made by
// the code against the expected ones. Called addresses are named through the
// symbol table.
func (tc *TestCase) ClassifySubroutineCalls() (calls.Classification[calls.SubroutineCall], bool) {
	tc.t.Helper()
	if !tc.evaluated("ClassifySubroutineCalls") {
		return calls.Classification[calls.SubroutineCall]{}, false
	}

	var actual []calls.SubroutineCall
	for _, call := range tc.sim.SubroutineCalls() {
		name, ok := tc.reverseLookup(call.Address)
		if !ok {
			return calls.Classification[calls.SubroutineCall]{}, false
		}

		actual = append(actual, calls.SubroutineCall{Name: name, Params: call.Params})
	}

	return tc.tracker.ClassifySubroutines(actual), true
}

// ClassifyTrapCalls compares the first level traps invoked by the code against
// the expected ones
func (tc *TestCase) ClassifyTrapCalls() (calls.Classification[calls.TrapCall], bool) {
	tc.t.Helper()
	if !tc.evaluated("ClassifyTrapCalls") {
		return calls.Classification[calls.TrapCall]{}, false
	}

	return tc.tracker.ClassifyTraps(tc.sim.TrapCalls()), true
}

// reportLabels names the groups of a call report
type reportLabels struct {
	expected         string
	expectedNone     string
	matched          string
	missing          string
	acceptedOptional string
	unexpected       string
}

var (
	subroutineLabels = reportLabels{
		expected:         "Expected the following subroutine calls to be made",
		expectedNone:     "Expected no subroutines to have been called.",
		matched:          "Calls made correctly",
		missing:          "Required calls missing",
		acceptedOptional: "Accepted optional calls made",
		unexpected:       "Unknown subroutine calls made",
	}

	trapLabels = reportLabels{
		expected:         "Expected the following traps to have been made",
		expectedNone:     "Expected no traps to have been called.",
		matched:          "Traps made correctly",
		missing:          "Required traps missing",
		acceptedOptional: "Accepted optional traps made",
		unexpected:       "Unknown traps made",
	}
)

func group[T calls.Call](report *strings.Builder, label string, set calls.Set[T], always bool) {
	switch {
	case !set.Empty():
		report.WriteString(label + ": " + set.String() + "\n")
	case always:
		report.WriteString(label + ": none\n")
	}
}

func callReport[T calls.Call](c calls.Classification[T], labels reportLabels) string {
	var report strings.Builder

	if c.Expected.Empty() {
		report.WriteString(labels.expectedNone + "\n")
	} else {
		group(&report, labels.expected, c.Expected, true)
	}

	group(&report, labels.matched, c.Matched, true)
	group(&report, labels.missing, c.Missing, true)
	group(&report, labels.acceptedOptional, c.AcceptedOptional, false)
	group(&report, labels.unexpected, c.Unexpected, false)

	return strings.TrimSuffix(report.String(), "\n")
}

// SubroutineReport renders a subroutine call classification as the four
// labelled groups shown when AssertSubroutineCallsMade fails
func SubroutineReport(c calls.Classification[calls.SubroutineCall]) string {
	return callReport(c, subroutineLabels)
}

// TrapReport renders a trap classification as the four labelled groups shown
// when AssertTrapCallsMade fails
func TrapReport(c calls.Classification[calls.TrapCall]) string {
	return callReport(c, trapLabels)
}
