package utils

import (
	"regexp"
	"strings"

	"github.com/fatih/color"
)

// LC-3 assembly syntax highlighting colors
var (
	asmOpcodeColor    = color.New(color.FgYellow, color.Bold)
	asmRegisterColor  = color.New(color.FgGreen)
	asmNumberColor    = color.New(color.FgCyan)
	asmStringColor    = color.New(color.FgMagenta)
	asmCommentColor   = color.New(color.FgHiBlack)
	asmDirectiveColor = color.New(color.FgBlue)
	asmMalformedColor = color.New(color.FgRed, color.Bold)
)

// LC-3 mnemonics, including the trap aliases and the branch variants
var asmOpcodes = map[string]bool{
	"ADD": true, "AND": true, "NOT": true, "LD": true, "LDI": true, "LDR": true,
	"LEA": true, "ST": true, "STI": true, "STR": true, "JMP": true, "JSR": true,
	"JSRR": true, "RET": true, "RTI": true, "TRAP": true, "NOP": true, "ERROR": true,
	"BR": true, "BRN": true, "BRZ": true, "BRP": true, "BRNZ": true, "BRNP": true,
	"BRZP": true, "BRNZP": true,
	"GETC": true, "OUT": true, "PUTS": true, "IN": true, "PUTSP": true, "HALT": true,
}

// Alternatives are tried in order at each position, so strings and comments
// swallow whatever registers or numbers they contain
var asmSyntax = regexp.MustCompile(strings.Join([]string{
	`(?P<string>"(?:[^"\\]|\\.)*"|\('.'\))`,
	`(?P<comment>;.*$)`,
	`(?P<malformed>\s\*$)`,
	`(?P<directive>\.[A-Za-z]+\b)`,
	`(?P<register>\b[Rr][0-7]\b)`,
	`(?P<number>#-?[0-9]+\b|\b[xX][0-9a-fA-F]+\b)`,
	`(?P<word>\b[A-Za-z_][A-Za-z0-9_]*\b)`,
}, "|"))

var asmColors = map[string]*color.Color{
	"string":    asmStringColor,
	"comment":   asmCommentColor,
	"malformed": asmMalformedColor,
	"directive": asmDirectiveColor,
	"register":  asmRegisterColor,
	"number":    asmNumberColor,
}

// matchedGroup returns the name of the alternative that produced a match
func matchedGroup(match []int) string {
	names := asmSyntax.SubexpNames()
	for i := 1; i < len(names); i++ {
		if match[2*i] >= 0 {
			return names[i]
		}
	}
	return ""
}

// HighlightAssembly applies syntax highlighting to a line of LC-3 assembly,
// as written by programmers or produced by the disassembler. Labels and
// other plain words are left as is.
func HighlightAssembly(code string) string {
	var result strings.Builder
	pos := 0

	for _, match := range asmSyntax.FindAllStringSubmatchIndex(code, -1) {
		text := code[match[0]:match[1]]
		kind := matchedGroup(match)

		c, ok := asmColors[kind]
		if kind == "word" && asmOpcodes[strings.ToUpper(text)] {
			c, ok = asmOpcodeColor, true
		}
		if !ok {
			continue
		}

		result.WriteString(code[pos:match[0]])
		result.WriteString(c.Sprint(text))
		pos = match[1]
	}

	result.WriteString(code[pos:])
	return result.String()
}
