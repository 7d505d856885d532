package lc3

import (
	"fmt"

	"github.com/Manu343726/lc3unit/cmd/cli"
	"github.com/Manu343726/lc3unit/pkg/hw/cpu/interpreter"
	"github.com/Manu343726/lc3unit/pkg/unittest/calls"
	"github.com/Manu343726/lc3unit/pkg/unittest/scenario"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xlab/treeprint"
)

var checkFailures bool

var checkCmd = &cobra.Command{
	Use:   "check <scenario.yaml>...",
	Short: "Check LC-3 code against test scenarios",
	Long: `Runs harness tests described as YAML scenarios on the reference machine and
prints a report per scenario: the outcome of every assertion and the
classification of the subroutine and trap calls the code made.

Object and symbol paths in a scenario are relative to the scenario file.

Example:
  lc3unit lc3 check tests/add5.yaml tests/mult.yaml --failures`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	Lc3Cmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVarP(&checkFailures, "failures", "f", false, "Print the full message of every failure")
	checkCmd.Flags().Int("max-executions", 0, "Instruction budget of every run (default: max_executions setting)")
	cobra.CheckErr(viper.BindPFlag(cli.KeyMaxExecutions, checkCmd.Flags().Lookup("max-executions")))
}

func runCheck(cmd *cobra.Command, args []string) error {
	options, err := cli.Options()
	if err != nil {
		return err
	}

	failed := 0

	for _, path := range args {
		s, err := scenario.Load(path)
		if err != nil {
			return err
		}

		m := interpreter.NewMachine()
		m.SetLogger(cli.Logger())

		outcome := s.Check(m, options, cli.Logger())
		fmt.Fprintln(cmd.OutOrStdout(), renderOutcome(outcome))

		if !outcome.Passed() {
			failed++

			if checkFailures {
				for _, failure := range outcome.Failures {
					fmt.Fprintln(cmd.OutOrStdout(), failure)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "String to set up this test in complx:", outcome.Replay)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(args))
	}

	return nil
}

var (
	passColor = color.New(color.FgGreen)
	failColor = color.New(color.FgRed, color.Bold)
)

func mark(passed bool) string {
	if passed {
		return passColor.Sprint("PASS")
	}
	return failColor.Sprint("FAIL")
}

// renderOutcome renders a scenario outcome as a tree
func renderOutcome(o *scenario.Outcome) string {
	tree := treeprint.NewWithRoot(mark(o.Passed()) + " " + o.Name)

	if len(o.Results) > 0 {
		assertions := tree.AddBranch("assertions")
		for _, result := range o.Results {
			assertions.AddNode(mark(result.Passed) + " " + result.Assertion)
		}
	}

	if o.Aborted {
		tree.AddNode(failColor.Sprint("aborted") + ": the scenario misuses the harness")
	}

	if o.Subroutines != nil {
		addClassification(tree, "subroutine calls", *o.Subroutines)
	}

	if o.Traps != nil {
		addClassification(tree, "trap calls", *o.Traps)
	}

	if o.Output != "" {
		tree.AddBranch("console output").AddNode(fmt.Sprintf("%q", o.Output))
	}

	return tree.String()
}

func addClassification[T calls.Call](tree treeprint.Tree, name string, c calls.Classification[T]) {
	groups := []struct {
		label string
		set   calls.Set[T]
	}{
		{"matched", c.Matched},
		{"missing", c.Missing},
		{"accepted optional", c.AcceptedOptional},
		{"unexpected", c.Unexpected},
	}

	branch := tree.AddBranch(name)
	for _, group := range groups {
		if group.set.Empty() {
			continue
		}

		node := branch.AddBranch(group.label)
		for _, call := range group.set.Items() {
			node.AddNode(call.String())
		}
	}
}
