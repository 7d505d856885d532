package unittest

import (
	"fmt"
	"strings"

	"github.com/Manu343726/lc3unit/pkg/hw/cpu"
	"github.com/Manu343726/lc3unit/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func (tc *TestCase) assertWord(expected int, actual uint16, format string, args ...any) bool {
	tc.t.Helper()

	message := tc.failure(format+" was expected to be %s but code produced %s",
		append(args, utils.FormatShort(expected), utils.FormatShort(utils.ToSigned(actual)))...)

	return assert.Equal(tc.t, utils.ToShort(expected), actual, message)
}

// stoppedOn describes where execution stopped, for halt and return failures
func (tc *TestCase) stoppedOn(summary string) string {
	pc := tc.sim.PC()
	instruction := tc.sim.Disassemble(pc)

	var message strings.Builder
	message.WriteString(summary + "\n")

	if strings.Contains(instruction, cpu.MalformedMarker) {
		message.WriteString("This was due to executing data which was interpreted to a malformed instruction.\n")
	} else {
		message.WriteString("This was probably due to an infinite loop in the code.\n")
	}

	if tc.subroutineCall {
		message.WriteString("This may indicate that your handling of the stack is incorrect or that R7 was clobbered.\n")
	}

	fmt.Fprintf(&message, "PC: %s\nInstruction last on: %s", utils.FormatWord(pc), instruction)
	return message.String()
}

// AssertReturned checks the code returned from the subroutine set up with
// CallSubroutine
func (tc *TestCase) AssertReturned() bool {
	tc.t.Helper()
	if !tc.evaluated("AssertReturned") {
		return false
	}

	if !tc.subroutineCall {
		tc.check(ErrNoSubroutineCall)
		return false
	}

	message := tc.failure("%s", tc.stoppedOn("Code did not return from subroutine correctly."))
	return assert.Equal(tc.t, tc.breakAddress, tc.sim.PC(), message)
}

// AssertHalted checks the code halted normally. With true traps the MCR
// clock enable bit must be cleared, otherwise the PC must be on a HALT.
func (tc *TestCase) AssertHalted() bool {
	tc.t.Helper()
	if !tc.evaluated("AssertHalted") {
		return false
	}

	if tc.subroutineCall {
		tc.check(ErrSubroutineCalled)
		return false
	}

	message := tc.failure("%s", tc.stoppedOn("Code did not halt normally."))

	if tc.trueTraps {
		return assert.Zero(tc.t, tc.sim.Memory(cpu.MCR)>>15&1, message)
	}

	return assert.Equal(tc.t, cpu.HaltInstruction, tc.sim.Memory(tc.sim.PC()), message)
}

// AssertNoWarnings checks the simulator reported no warnings while running
func (tc *TestCase) AssertNoWarnings() bool {
	tc.t.Helper()
	if !tc.evaluated("AssertNoWarnings") {
		return false
	}

	warnings := tc.sim.Warnings()
	return assert.Empty(tc.t, warnings,
		tc.failure("Code generated warnings shown below:\n----\n%s", strings.Join(warnings, "\n")))
}

// AssertRegister checks the value of R0-R7
func (tc *TestCase) AssertRegister(register int, value int) bool {
	tc.t.Helper()
	if !tc.evaluated("AssertRegister") {
		return false
	}

	r, ok := tc.register(register)
	if !ok {
		return false
	}

	return tc.assertWord(value, tc.sim.Register(r), "%s", r)
}

// AssertPC checks where execution stopped
func (tc *TestCase) AssertPC(value int) bool {
	tc.t.Helper()
	if !tc.evaluated("AssertPC") {
		return false
	}

	return tc.assertWord(value, tc.sim.PC(), "PC")
}

// AssertValue checks the word at a label
func (tc *TestCase) AssertValue(label string, value int) bool {
	tc.t.Helper()
	if !tc.evaluated("AssertValue") {
		return false
	}

	address, ok := tc.lookup(label)
	if !ok {
		return false
	}

	return tc.assertWord(value, tc.sim.Memory(address), "MEM[%s]", label)
}

// AssertAddress checks the word at an address
func (tc *TestCase) AssertAddress(address uint16, value int) bool {
	tc.t.Helper()
	if !tc.evaluated("AssertAddress") {
		return false
	}

	return tc.assertWord(value, tc.sim.Memory(address), "MEM[%s]", utils.FormatWord(address))
}

// AssertPointer checks the word at the address stored at a label
func (tc *TestCase) AssertPointer(label string, value int) bool {
	tc.t.Helper()
	if !tc.evaluated("AssertPointer") {
		return false
	}

	address, ok := tc.lookup(label)
	if !ok {
		return false
	}

	return tc.assertWord(value, tc.sim.Memory(tc.sim.Memory(address)), "MEM[MEM[%s]]", label)
}

// AssertArray checks consecutive words starting at the address stored at a label
func (tc *TestCase) AssertArray(label string, values []int) bool {
	tc.t.Helper()
	if !tc.evaluated("AssertArray") {
		return false
	}

	address, ok := tc.lookup(label)
	if !ok {
		return false
	}

	start := tc.sim.Memory(address)
	actual := make([]uint16, len(values))
	for i := range actual {
		actual[i] = tc.sim.Memory(start + uint16(i))
	}

	return assert.Equal(tc.t, utils.ToShorts(values), actual,
		tc.failure("Sequence of values starting at MEM[%s] was expected to be %v but code produced %v",
			label, values, utils.Map(actual, utils.ToSigned)))
}

// AssertString checks a NUL terminated string starting at the address stored
// at a label
func (tc *TestCase) AssertString(label string, text string) bool {
	tc.t.Helper()
	if !tc.evaluated("AssertString") {
		return false
	}

	address, ok := tc.lookup(label)
	if !ok {
		return false
	}

	expected := text + "\x00"
	start := tc.sim.Memory(address)

	var actual strings.Builder
	for i := range []rune(expected) {
		actual.WriteRune(rune(tc.sim.Memory(start + uint16(i))))
	}

	return assert.Equal(tc.t, expected, actual.String(),
		tc.failure("String of characters starting at MEM[%s] was expected to be %q but code produced %q",
			label, expected, actual.String()))
}

// AssertConsoleOutput checks everything the code wrote to the console
func (tc *TestCase) AssertConsoleOutput(output string) bool {
	tc.t.Helper()
	if !tc.evaluated("AssertConsoleOutput") {
		return false
	}

	actual := tc.sim.Output()
	return assert.Equal(tc.t, output, actual,
		tc.failure("Console output was expected to be %q but code produced %q", output, actual))
}

// AssertReturnValue checks the value on top of the stack, where the calling
// convention places the return value
func (tc *TestCase) AssertReturnValue(value int) bool {
	tc.t.Helper()
	if !tc.evaluated("AssertReturnValue") {
		return false
	}

	return tc.assertWord(value, tc.sim.Memory(tc.sim.Register(cpu.StackPointer)), "Return value")
}

// AssertRegistersUnchanged checks the registers hold the values they had
// before running the code
func (tc *TestCase) AssertRegistersUnchanged(registers ...int) bool {
	tc.t.Helper()
	if !tc.evaluated("AssertRegistersUnchanged") {
		return false
	}

	var all, changed []string
	for _, index := range registers {
		r, ok := tc.register(index)
		if !ok {
			return false
		}

		all = append(all, r.String())
		if tc.sim.Register(r) != tc.registers[r] {
			changed = append(changed, r.String())
		}
	}

	return assert.Empty(tc.t, changed,
		tc.failure("Expected %v to be unchanged after program/subroutine execution.\nThese registers have changed %v", all, changed))
}

// ChangedRegisters returns the registers whose value differs from the one
// they had before running the code
func (tc *TestCase) ChangedRegisters() []cpu.Register {
	return utils.Filter(cpu.AllRegisters(), func(r cpu.Register) bool {
		return tc.sim.Register(r) != tc.registers[r]
	})
}

// AssertStackManaged checks a subroutine left R6 at stack with the return
// address and the old frame pointer right below it
func (tc *TestCase) AssertStackManaged(stack int, returnAddress int, oldFramePointer int) bool {
	tc.t.Helper()
	if !tc.evaluated("AssertStackManaged") {
		return false
	}

	r6 := tc.sim.Register(cpu.StackPointer)
	actualReturnAddress := tc.sim.Memory(r6 - 1)
	actualFramePointer := tc.sim.Memory(r6 - 2)

	ok := assert.Equal(tc.t, utils.ToShort(stack), r6,
		tc.failure("Calling convention not followed.\nExpected R6 to be decremented by exactly 1 after returning from subroutine it was decremented by: %d",
			int(r6)-(stack+1)))

	ok = assert.Equal(tc.t, utils.ToShort(returnAddress), actualReturnAddress,
		tc.failure("Expected return address %s not found on stack in correct location code produced %s",
			utils.FormatWord(utils.ToShort(returnAddress)), utils.FormatWord(actualReturnAddress))) && ok

	return assert.Equal(tc.t, utils.ToShort(oldFramePointer), actualFramePointer,
		tc.failure("Expected old frame pointer %s not found on stack in correct location code produced %s",
			utils.FormatWord(utils.ToShort(oldFramePointer)), utils.FormatWord(actualFramePointer))) && ok
}

// AssertSubroutineCallsMade checks the code made every required subroutine
// call and no call that was not expected
func (tc *TestCase) AssertSubroutineCallsMade() bool {
	tc.t.Helper()
	if !tc.evaluated("AssertSubroutineCallsMade") {
		return false
	}

	classification, ok := tc.ClassifySubroutineCalls()
	if !ok {
		return false
	}

	return assert.True(tc.t, classification.Passed(), tc.failure("%s", SubroutineReport(classification)))
}

// AssertTrapCallsMade checks the code invoked every required trap and no trap
// that was not expected
func (tc *TestCase) AssertTrapCallsMade() bool {
	tc.t.Helper()
	if !tc.evaluated("AssertTrapCallsMade") {
		return false
	}

	classification, ok := tc.ClassifyTrapCalls()
	if !ok {
		return false
	}

	return assert.True(tc.t, classification.Passed(), tc.failure("%s", TrapReport(classification)))
}
