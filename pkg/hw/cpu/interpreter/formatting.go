package interpreter

import (
	"fmt"
	"strings"

	"github.com/Manu343726/lc3unit/pkg/hw/cpu"
	"github.com/Manu343726/lc3unit/pkg/utils"
	"github.com/fatih/color"
)

// FormatStyle selects plain or colored output
type FormatStyle int

const (
	StylePlain FormatStyle = iota
	// StyleColored produces colorized output
	StyleColored
)

type OutputConfig struct {
	Style FormatStyle
}

var (
	stepColor     = color.New(color.FgHiBlack)
	addressColor  = color.New(color.FgCyan)
	registerColor = color.New(color.FgGreen)
	valueColor    = color.New(color.Bold, color.FgWhite)
	warningColor  = color.New(color.FgYellow)
)

// TraceFormatter renders machine state for the exec command
type TraceFormatter struct {
	config OutputConfig
}

func NewTraceFormatter(config OutputConfig) *TraceFormatter {
	return &TraceFormatter{config: config}
}

func (t *TraceFormatter) paint(c *color.Color, format string, args ...any) string {
	if t.config.Style == StylePlain {
		return fmt.Sprintf(format, args...)
	}
	return c.Sprintf(format, args...)
}

// FormatInstruction formats a disassembled instruction
func (t *TraceFormatter) FormatInstruction(instr string) string {
	if t.config.Style == StylePlain {
		return instr
	}
	return utils.HighlightAssembly(instr)
}

// FormatStep renders one traced instruction with R0, R6 and R7 after it ran
func (t *TraceFormatter) FormatStep(step int, pc uint16, instrText string, state *CPUState) string {
	var sb strings.Builder

	sb.WriteString(t.paint(stepColor, "[%4d]", step))
	sb.WriteString(" ")
	sb.WriteString(t.paint(addressColor, "x%04x", pc))

	for _, r := range []cpu.Register{cpu.R0, cpu.R6, cpu.R7} {
		sb.WriteString(" ")
		sb.WriteString(t.paint(registerColor, "%s", r))
		sb.WriteString("=")
		sb.WriteString(t.paint(valueColor, "x%04x", state.Registers[r]))
	}

	sb.WriteString(" | ")
	sb.WriteString(t.FormatInstruction(instrText))
	return sb.String()
}

// FormatState formats the registers, PC and condition codes of a CPU state
func (t *TraceFormatter) FormatState(state *CPUState) string {
	var sb strings.Builder

	for i, value := range state.Registers {
		sb.WriteString(t.paint(registerColor, "%s", cpu.Register(i)))
		sb.WriteString(fmt.Sprintf(": %s %6d", t.paint(valueColor, "x%04x", value), utils.ToSigned(value)))
		if i%4 == 3 {
			sb.WriteString("\n")
		} else {
			sb.WriteString("   ")
		}
	}

	cc := "Z"
	switch {
	case state.N:
		cc = "N"
	case state.P:
		cc = "P"
	}

	sb.WriteString(fmt.Sprintf("%s: %s   %s: %s   CC: %s\n",
		t.paint(registerColor, "PC"), t.paint(addressColor, "x%04x", state.PC),
		t.paint(registerColor, "PSR"), t.paint(valueColor, "x%04x", state.PSR()),
		cc))

	return sb.String()
}

// ExecutionSummary is what FormatSummary prints once a run stops
type ExecutionSummary struct {
	StepsExecuted int
	FinalPC uint16
	// Instruction is the disassembly of the instruction at FinalPC
	Instruction string
	StopReason StopReason
	// Output is the console output produced
	Output string
	// Warnings raised during execution
	Warnings []string
}

// FormatSummary renders why and where execution stopped, plus warnings
func (t *TraceFormatter) FormatSummary(summary *ExecutionSummary, verbose bool) string {
	var sb strings.Builder

	if verbose {
		sb.WriteString(fmt.Sprintf("\n=== Execution stopped (%s) ===\n", summary.StopReason))
		fmt.Fprintf(&sb, "Steps executed: %d\n", summary.StepsExecuted)
		sb.WriteString(fmt.Sprintf("Final PC: %s  %s\n",
			t.paint(addressColor, "x%04x", summary.FinalPC),
			t.FormatInstruction(summary.Instruction)))
	}

	if summary.Output != "" {
		if verbose {
			sb.WriteString("\nConsole output:\n")
		}
		sb.WriteString(summary.Output)
		if !strings.HasSuffix(summary.Output, "\n") {
			sb.WriteString("\n")
		}
	}

	for _, warning := range summary.Warnings {
		sb.WriteString(t.paint(warningColor, "%s", warning))
		sb.WriteString("\n")
	}

	return sb.String()
}
