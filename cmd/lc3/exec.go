package lc3

import (
	"fmt"

	"github.com/Manu343726/lc3unit/cmd/cli"
	"github.com/Manu343726/lc3unit/pkg/hw/cpu/debugger"
	"github.com/Manu343726/lc3unit/pkg/hw/cpu/interpreter"
	"github.com/Manu343726/lc3unit/pkg/hw/cpu/loader"
	"github.com/Manu343726/lc3unit/pkg/utils"
	"github.com/spf13/cobra"
)

var (
	execSymbols   string
	execMaxSteps  int
	execTrueTraps bool
	execStrict    bool
	execTrace     bool
	execInput     string
	execSeed      int64
	execFill      int
	execRandomize bool
	execVerbose   bool
	execEval      []string
	execBreak     []string
	execUntil     string
	execListing   int
)

var execCmd = &cobra.Command{
	Use:   "exec <file.obj>",
	Short: "Execute an LC-3 object file",
	Long: `Loads an object file produced by the Patt/Patel lc3tools assembler and runs it
on the reference machine until it halts or the step budget runs out.

The console output of the program goes to stdout, warnings and the final state
to stderr.

Example:
  lc3unit lc3 exec program.obj --sym program.sym --input "abc" --trace
  lc3unit lc3 exec program.obj --sym program.sym --eval R0 --eval "[RESULT + 1]"
  lc3unit lc3 exec program.obj --sym program.sym --until LOOP --disassemble 4

Stopping on a breakpoint set with --break or --until is not an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runExec,
}

func init() {
	Lc3Cmd.AddCommand(execCmd)
	execCmd.Flags().StringVarP(&execSymbols, "sym", "s", "", "Symbol table file")
	execCmd.Flags().IntVarP(&execMaxSteps, "max-steps", "n", 0, "Maximum number of instructions to execute (default: max_executions setting)")
	execCmd.Flags().BoolVar(&execTrueTraps, "true-traps", false, "Run traps through the operating system code")
	execCmd.Flags().BoolVar(&execStrict, "strict", true, "Halt on malformed instructions")
	execCmd.Flags().BoolVarP(&execTrace, "trace", "t", false, "Trace each instruction execution")
	execCmd.Flags().StringVarP(&execInput, "input", "i", "", "Console input")
	execCmd.Flags().Int64Var(&execSeed, "seed", interpreter.DefaultSeed, "Random seed")
	execCmd.Flags().IntVar(&execFill, "fill", 0, "Value memory and registers are filled with")
	execCmd.Flags().BoolVar(&execRandomize, "randomize", false, "Fill memory and registers with random values")
	execCmd.Flags().BoolVarP(&execVerbose, "verbose", "v", false, "Print the final machine state")
	execCmd.Flags().StringArrayVarP(&execBreak, "break", "b", nil, "Stop before executing the instruction at this address expression")
	execCmd.Flags().StringVar(&execUntil, "until", "", "Run until the PC reaches this address expression")
	execCmd.Flags().IntVarP(&execListing, "disassemble", "d", 0, "Disassemble this many words from the PC execution stopped at")
	execCmd.Flags().StringArrayVarP(&execEval, "eval", "e", nil, "Expression to evaluate once the program stops (registers, labels, [address] and arithmetic)")
}

func runExec(cmd *cobra.Command, args []string) error {
	options, err := cli.Options()
	if err != nil {
		return err
	}

	m := interpreter.NewMachine()
	m.SetLogger(cli.Logger())
	m.SetTrueTraps(execTrueTraps)
	m.SetStrictExecution(execStrict)
	m.Seed(execSeed)
	m.Init(execRandomize, utils.ToShort(execFill))

	if err := loader.LoadFile(m, args[0]); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	if execSymbols != "" {
		if err := loader.LoadFile(m, execSymbols); err != nil {
			return fmt.Errorf("loading symbols: %w", err)
		}
	}

	m.SetInput(execInput)

	formatter := cli.Formatter()
	dbg := m.Debugger()

	if execTrace {
		dbg.SetEventCallback(func(event interpreter.ExecutionEvent, result *interpreter.ExecutionResult) bool {
			if event == interpreter.EventStep {
				fmt.Fprintln(cmd.ErrOrStderr(), formatter.FormatStep(result.StepsExecuted, result.LastPC, m.DisassembleWord(uint16(result.LastInstruction)), m.State()))
			}
			return true
		})
	}

	maxSteps := execMaxSteps
	if maxSteps == 0 {
		maxSteps = options.MaxExecutions
	}

	evaluator := debugger.NewEvaluator(m)
	for _, expr := range execBreak {
		address, err := evaluator.Eval(expr)
		if err != nil {
			return fmt.Errorf("breakpoint %s: %w", expr, err)
		}
		dbg.AddBreakpoint(address)
	}

	var result *interpreter.ExecutionResult
	if execUntil != "" {
		address, err := evaluator.Eval(execUntil)
		if err != nil {
			return fmt.Errorf("until %s: %w", execUntil, err)
		}
		result = dbg.RunUntil(address, maxSteps)
	} else {
		result = dbg.Run(maxSteps)
	}

	summary := &interpreter.ExecutionSummary{
		StepsExecuted: result.StepsExecuted,
		FinalPC:       m.PC(),
		Instruction:   m.Disassemble(m.PC()),
		StopReason:    result.StopReason,
		Warnings:      m.Warnings(),
	}

	fmt.Fprint(cmd.OutOrStdout(), m.Output())
	fmt.Fprint(cmd.ErrOrStderr(), formatter.FormatSummary(summary, execVerbose))
	if execVerbose {
		fmt.Fprint(cmd.ErrOrStderr(), formatter.FormatState(m.State()))
	}

	if execListing > 0 {
		for _, line := range dbg.DisassembleRange(m.PC(), m.PC()+uint16(execListing)) {
			fmt.Fprintln(cmd.ErrOrStderr(), line)
		}
	}

	for _, expr := range execEval {
		description, err := evaluator.Describe(expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), description)
	}

	switch result.StopReason {
	case interpreter.StopHalt, interpreter.StopBreakpoint:
		return nil
	case interpreter.StopError:
		return result.Error
	default:
		return fmt.Errorf("program did not halt: %s after %d instructions", result.StopReason, result.StepsExecuted)
	}
}
