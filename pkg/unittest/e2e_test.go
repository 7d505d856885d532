package unittest

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Manu343726/lc3unit/pkg/hw/cpu"
	"github.com/Manu343726/lc3unit/pkg/hw/cpu/interpreter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeProgram writes an object file and its symbol table to a temporary
// directory
func writeProgram(t *testing.T, origin uint16, words []uint16, symbols string) (string, string) {
	t.Helper()

	object := binary.BigEndian.AppendUint16(nil, origin)
	for _, word := range words {
		object = binary.BigEndian.AppendUint16(object, word)
	}

	dir := t.TempDir()
	objectPath := filepath.Join(dir, "program.obj")
	symbolsPath := filepath.Join(dir, "program.sym")

	require.NoError(t, os.WriteFile(objectPath, object, 0o644))
	require.NoError(t, os.WriteFile(symbolsPath, []byte(symbols), 0o644))
	return objectPath, symbolsPath
}

// add5 adds 5 to its only stack parameter, following the calling convention:
//
//	ADD5 ADD R6, R6, #-3
//	     STR R7, R6, #1
//	     STR R5, R6, #0
//	     ADD R5, R6, #-1
//	     LDR R0, R5, #4
//	     ADD R0, R0, #5
//	     STR R0, R5, #3
//	     ADD R6, R5, #1
//	     LDR R5, R6, #0
//	     LDR R7, R6, #1
//	     ADD R6, R6, #2
//	     RET
var add5 = []uint16{
	0x1DBD, 0x7F81, 0x7B80, 0x1BBF, 0x6144, 0x1025,
	0x7143, 0x1D61, 0x6B80, 0x6F81, 0x1DA2, 0xC1C0,
}

// printOK prints "OK" and halts:
//
//	     LEA R0, MSG
//	     PUTS
//	     HALT
//	MSG  .STRINGZ "OK"
var printOK = []uint16{0xE002, 0xF022, 0xF025, 'O', 'K', 0}

func TestMachine_Subroutine(t *testing.T) {
	objectPath, symbolsPath := writeProgram(t, 0x3010, add5, "//\tADD5              3010\n")

	tc := New(t, interpreter.NewMachine())
	tc.Init(cpu.FillWithValue, 0)
	tc.LoadObjectFiles(objectPath, symbolsPath)
	tc.CallSubroutine("ADD5", []int{3})
	tc.RunCode()

	tc.AssertReturned()
	tc.AssertReturnValue(8)
	tc.AssertStackManaged(0xEFFE, 0x8000, 0xCAFE)
	tc.AssertRegistersUnchanged(5, 7)
	tc.AssertNoWarnings()
	tc.AssertSubroutineCallsMade()
	tc.AssertTrapCallsMade()
}

func TestMachine_SubroutineFailureReplay(t *testing.T) {
	objectPath, symbolsPath := writeProgram(t, 0x3010, add5, "//\tADD5              3010\n")

	rec := &recordingT{}
	tc := New(rec, interpreter.NewMachine())
	tc.Init(cpu.FillWithValue, 0)
	tc.LoadObjectFiles(objectPath, symbolsPath)
	tc.CallSubroutine("ADD5", []int{3})
	tc.RunCode()

	assert.False(t, tc.AssertReturnValue(9))
	assert.Contains(t, rec.lastError(), "Return value was expected to be (9 x0009) but code produced (8 x0008)")
	assert.Contains(t, rec.lastError(), "String to set up this test in complx: "+tc.ReplayString())
	assert.NotEmpty(t, tc.ReplayString())
}

func TestMachine_Halt(t *testing.T) {
	for _, trueTraps := range []bool{false, true} {
		t.Run(fmt.Sprintf("true traps %v", trueTraps), func(t *testing.T) {
			objectPath, symbolsPath := writeProgram(t, 0x3000, printOK, "//\tMSG               3003\n")

			tc := New(t, interpreter.NewMachine())
			tc.SetTrueTraps(trueTraps)
			tc.Init(cpu.FillWithValue, 0)
			tc.LoadObjectFiles(objectPath, symbolsPath)
			tc.SetRegister(1, 0x1234)
			tc.SetRegister(2, -2)
			tc.ExpectTrapCall(cpu.TrapPuts, map[int]int{0: 0x3003}, false)
			tc.RunCode()

			tc.AssertHalted()
			tc.AssertConsoleOutput("OK")
			tc.AssertValue("MSG", 'O')
			tc.AssertNoWarnings()
			tc.AssertTrapCallsMade()
			tc.AssertRegister(0, 0x3003)
			tc.AssertRegister(1, 0x1234)
			tc.AssertRegistersUnchanged(1, 2, 3, 4, 5, 6)
		})
	}
}

func TestMachine_HaltKeepsRegisters(t *testing.T) {
	program := []uint16{
		0x5020, // AND R0, R0, #0
		0x1025, // ADD R0, R0, #5
		0xF025, // HALT
	}

	for _, trueTraps := range []bool{false, true} {
		t.Run(fmt.Sprintf("true traps %v", trueTraps), func(t *testing.T) {
			objectPath, symbolsPath := writeProgram(t, 0x3000, program, "")

			tc := New(t, interpreter.NewMachine())
			tc.SetTrueTraps(trueTraps)
			tc.Init(cpu.FillWithValue, 7)
			tc.LoadObjectFiles(objectPath, symbolsPath)
			tc.RunCode()

			tc.AssertHalted()
			tc.AssertRegister(0, 5)
			tc.AssertRegistersUnchanged(1, 2, 3, 4, 5, 6)
			tc.AssertNoWarnings()
		})
	}
}
