package cpu

import "fmt"

// LC-3 memory map.
const (
	TrapVectorTable      uint16 = 0x0000
	InterruptVectorTable uint16 = 0x0100
	UserSpaceStart       uint16 = 0x3000
	DeviceSpaceStart     uint16 = 0xFE00

	// Keyboard status/data, display status/data and machine control registers.
	KBSR uint16 = 0xFE00
	KBDR uint16 = 0xFE02
	DSR  uint16 = 0xFE04
	DDR  uint16 = 0xFE06
	MCR  uint16 = 0xFFFE
)

// Trap vectors served by the LC-3 OS.
const (
	TrapGetc  uint8 = 0x20
	TrapOut   uint8 = 0x21
	TrapPuts  uint8 = 0x22
	TrapIn    uint8 = 0x23
	TrapPutsp uint8 = 0x24
	TrapHalt  uint8 = 0x25
)

// HaltInstruction is the encoding of TRAP x25.
const HaltInstruction uint16 = 0xF025

// MalformedMarker is appended by disassemblers to instructions whose encoding
// sets bits the ISA requires to be zero (or clears required ones).
const MalformedMarker = "*"

// TrapInstruction returns the encoding of TRAP vector.
func TrapInstruction(vector uint8) uint16 {
	return 0xF000 | uint16(vector)
}

// TrapName returns the OS name of a trap vector, or "TRAP xNN" for vectors
// the OS does not serve.
func TrapName(vector uint8) string {
	switch vector {
	case TrapGetc:
		return "GETC"
	case TrapOut:
		return "OUT"
	case TrapPuts:
		return "PUTS"
	case TrapIn:
		return "IN"
	case TrapPutsp:
		return "PUTSP"
	case TrapHalt:
		return "HALT"
	default:
		return fmt.Sprintf("TRAP x%02x", vector)
	}
}
