package utils

import (
	"golang.org/x/exp/constraints"
)

const BitsPerWord = 16

// Reduces an integer modulo 2^16, the way LC-3 words wrap
func ToShort[T constraints.Integer](value T) uint16 {
	return uint16(int64(value) & 0xFFFF)
}

// Reinterprets a 16 bit word as a two's complement signed value
func ToSigned(value uint16) int16 {
	return int16(value)
}

// Converts a sequence of integers into words
func ToShorts[T constraints.Integer](values []T) []uint16 {
	return Map(values, ToShort[T])
}

// Sign extends the lowest bits of a value to a 16 bit word
func SignExtend(value uint16, bits int) uint16 {
	mask := uint16(1) << (bits - 1)
	value &= (uint16(1) << bits) - 1
	return (value ^ mask) - mask
}

// Extracts a range of bits given a first bit and a width
func ReadBits(value uint16, bit int, width int) uint16 {
	return (value >> bit) & ((uint16(1) << width) - 1)
}
