package utils

import (
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"
)

// Formats a word the way LC-3 tools print addresses and data: x3000
func FormatWord(value uint16) string {
	return fmt.Sprintf("x%04x", value)
}

// Formats an integer as "(decimal xHEX)", the hex part being its 16 bit reduction
func FormatShort[T constraints.Integer](value T) string {
	return fmt.Sprintf("(%d x%04x)", value, ToShort(value))
}

// Returns an string containing all formatted sequence items separated by a given separator
func FormatSlice[T any](input []T, separator string) string {
	var builder strings.Builder

	for i, value := range input {
		builder.WriteString(fmt.Sprint(value))

		if i < len(input)-1 {
			builder.WriteString(separator)
		}
	}

	return builder.String()
}
