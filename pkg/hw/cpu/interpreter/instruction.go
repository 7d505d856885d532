package interpreter

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/Manu343726/lc3unit/pkg/hw/cpu"
	"github.com/Manu343726/lc3unit/pkg/utils"
)

// OpCode is the 4 bit operation code of an LC-3 instruction
type OpCode uint8

const (
	OpBR OpCode = iota
	OpADD
	OpLD
	OpST
	OpJSR
	OpAND
	OpLDR
	OpSTR
	OpRTI
	OpNOT
	OpLDI
	OpSTI
	OpJMP
	OpReserved
	OpLEA
	OpTRAP
)

// String returns the mnemonic of an OpCode
func (op OpCode) String() string {
	switch op {
	case OpBR:
		return "BR"
	case OpADD:
		return "ADD"
	case OpLD:
		return "LD"
	case OpST:
		return "ST"
	case OpJSR:
		return "JSR"
	case OpAND:
		return "AND"
	case OpLDR:
		return "LDR"
	case OpSTR:
		return "STR"
	case OpRTI:
		return "RTI"
	case OpNOT:
		return "NOT"
	case OpLDI:
		return "LDI"
	case OpSTI:
		return "STI"
	case OpJMP:
		return "JMP"
	case OpReserved:
		return "ERROR"
	case OpLEA:
		return "LEA"
	case OpTRAP:
		return "TRAP"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(op))
	}
}

// Instruction is a raw LC-3 instruction word with accessors for its fields
type Instruction uint16

func (i Instruction) OpCode() OpCode {
	return OpCode(i >> 12)
}

func (i Instruction) DR() cpu.Register {
	return cpu.Register(utils.ReadBits(uint16(i), 9, 3))
}

func (i Instruction) SR1() cpu.Register {
	return cpu.Register(utils.ReadBits(uint16(i), 6, 3))
}

func (i Instruction) SR2() cpu.Register {
	return cpu.Register(utils.ReadBits(uint16(i), 0, 3))
}

func (i Instruction) BaseR() cpu.Register {
	return i.SR1()
}

func (i Instruction) IsImmediate() bool {
	return utils.ReadBits(uint16(i), 5, 1) != 0
}

// IsJSR distinguishes JSR (PC relative) from JSRR (register)
func (i Instruction) IsJSR() bool {
	return utils.ReadBits(uint16(i), 11, 1) != 0
}

func (i Instruction) N() bool {
	return utils.ReadBits(uint16(i), 11, 1) != 0
}

func (i Instruction) Z() bool {
	return utils.ReadBits(uint16(i), 10, 1) != 0
}

func (i Instruction) P() bool {
	return utils.ReadBits(uint16(i), 9, 1) != 0
}

func (i Instruction) Imm5() uint16 {
	return utils.SignExtend(uint16(i), 5)
}

func (i Instruction) Offset6() uint16 {
	return utils.SignExtend(uint16(i), 6)
}

func (i Instruction) PCOffset9() uint16 {
	return utils.SignExtend(uint16(i), 9)
}

func (i Instruction) PCOffset11() uint16 {
	return utils.SignExtend(uint16(i), 11)
}

func (i Instruction) Vector() uint8 {
	return uint8(i)
}

// Malformed returns true if the encoding sets bits the ISA requires to be
// zero, or clears bits it requires to be set
func (i Instruction) Malformed() bool {
	data := uint16(i)

	switch i.OpCode() {
	case OpADD, OpAND:
		return data&0x20 == 0 && data&0x18 != 0
	case OpBR:
		return data&0xE00 == 0
	case OpJMP:
		return data&0xE3F != 0
	case OpJSR:
		return data&0x800 == 0 && data&0x63F != 0
	case OpNOT:
		return data&0x3F != 0x3F
	case OpRTI:
		return data&0xFFF != 0
	case OpTRAP:
		return data&0xF00 != 0
	default:
		return false
	}
}

func signed(value uint16) int {
	return int(utils.ToSigned(value))
}

// Disassemble returns the LC-3 assembly of an instruction word. Offsets are
// printed relative to the incremented PC and OS traps by name. When
// markMalformed is set, malformed encodings are suffixed with cpu.MalformedMarker.
func Disassemble(word uint16, markMalformed bool) string {
	i := Instruction(word)
	text := disassemble(i)

	if markMalformed && i.Malformed() {
		text += " " + cpu.MalformedMarker
	}

	return text
}

func disassemble(i Instruction) string {
	switch op := i.OpCode(); op {
	case OpBR:
		offset := signed(i.PCOffset9())

		if !i.N() && !i.Z() && !i.P() {
			if offset < 0x80 && unicode.IsPrint(rune(offset)) {
				return "NOP (" + strconv.QuoteRune(rune(offset)) + ")"
			}
			return "NOP"
		}

		if offset == 0 {
			return "NOP"
		}

		if i.N() && i.Z() && i.P() {
			return fmt.Sprintf("BR #%d", offset)
		}

		return fmt.Sprintf("BR%s%s%s #%d", flag(i.N(), "N"), flag(i.Z(), "Z"), flag(i.P(), "P"), offset)
	case OpADD, OpAND:
		if i.IsImmediate() {
			return fmt.Sprintf("%v %v, %v, #%d", op, i.DR(), i.SR1(), signed(i.Imm5()))
		}
		return fmt.Sprintf("%v %v, %v, %v", op, i.DR(), i.SR1(), i.SR2())
	case OpNOT:
		return fmt.Sprintf("NOT %v, %v", i.DR(), i.SR1())
	case OpLD, OpST, OpLEA, OpLDI, OpSTI:
		return fmt.Sprintf("%v %v, #%d", op, i.DR(), signed(i.PCOffset9()))
	case OpLDR, OpSTR:
		return fmt.Sprintf("%v %v, %v, #%d", op, i.DR(), i.BaseR(), signed(i.Offset6()))
	case OpJSR:
		if i.IsJSR() {
			return fmt.Sprintf("JSR #%d", signed(i.PCOffset11()))
		}
		return fmt.Sprintf("JSRR %v", i.BaseR())
	case OpJMP:
		if i.BaseR() == cpu.ReturnAddress {
			return "RET"
		}
		return fmt.Sprintf("JMP %v", i.BaseR())
	case OpTRAP:
		return cpu.TrapName(i.Vector())
	default:
		return op.String()
	}
}

func flag(set bool, name string) string {
	if set {
		return name
	}
	return ""
}
