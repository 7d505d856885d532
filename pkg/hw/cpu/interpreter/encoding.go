package interpreter

import (
	"fmt"
	"strings"

	"github.com/Manu343726/lc3unit/pkg/utils"
	"golang.org/x/exp/slices"
)

// Encoding is the bit layout of an instruction form
type Encoding struct {
	OpCode OpCode
	Syntax string
	// Fields below the opcode, lowest bit first
	Fields []utils.DiagramField
}

func field(name string, begin int, width int) utils.DiagramField {
	return utils.DiagramField{Name: name, Begin: begin, Width: width}
}

var (
	pcOffset9  = field("PCoffset9", 0, 9)
	offset6    = field("offset6", 0, 6)
	baseR      = field("BaseR", 6, 3)
	dr         = field("DR", 9, 3)
	sr         = field("SR", 9, 3)
	sr1        = field("SR1", 6, 3)
	zeroes6    = field("000000", 0, 6)
	jumpPrefix = field("000", 9, 3)
)

// Encodings lists every LC-3 instruction form
var Encodings = []Encoding{
	{OpADD, "ADD DR, SR1, SR2", []utils.DiagramField{field("SR2", 0, 3), field("000", 3, 3), sr1, dr}},
	{OpADD, "ADD DR, SR1, imm5", []utils.DiagramField{field("imm5", 0, 5), field("1", 5, 1), sr1, dr}},
	{OpAND, "AND DR, SR1, SR2", []utils.DiagramField{field("SR2", 0, 3), field("000", 3, 3), sr1, dr}},
	{OpAND, "AND DR, SR1, imm5", []utils.DiagramField{field("imm5", 0, 5), field("1", 5, 1), sr1, dr}},
	{OpBR, "BR[n][z][p] PCoffset9", []utils.DiagramField{pcOffset9, field("p", 9, 1), field("z", 10, 1), field("n", 11, 1)}},
	{OpJMP, "JMP BaseR", []utils.DiagramField{zeroes6, baseR, jumpPrefix}},
	{OpJSR, "JSR PCoffset11", []utils.DiagramField{field("PCoffset11", 0, 11), field("1", 11, 1)}},
	{OpJSR, "JSRR BaseR", []utils.DiagramField{zeroes6, baseR, jumpPrefix}},
	{OpLD, "LD DR, PCoffset9", []utils.DiagramField{pcOffset9, dr}},
	{OpLDI, "LDI DR, PCoffset9", []utils.DiagramField{pcOffset9, dr}},
	{OpLDR, "LDR DR, BaseR, offset6", []utils.DiagramField{offset6, baseR, dr}},
	{OpLEA, "LEA DR, PCoffset9", []utils.DiagramField{pcOffset9, dr}},
	{OpNOT, "NOT DR, SR", []utils.DiagramField{field("111111", 0, 6), field("SR", 6, 3), dr}},
	{OpRTI, "RTI", []utils.DiagramField{field("000000000000", 0, 12)}},
	{OpST, "ST SR, PCoffset9", []utils.DiagramField{pcOffset9, sr}},
	{OpSTI, "STI SR, PCoffset9", []utils.DiagramField{pcOffset9, sr}},
	{OpSTR, "STR SR, BaseR, offset6", []utils.DiagramField{offset6, baseR, sr}},
	{OpTRAP, "TRAP trapvect8", []utils.DiagramField{field("trapvect8", 0, 8), field("0000", 8, 4)}},
}

// Diagram draws the encoding, opcode included
func (e Encoding) Diagram(indent int) (string, error) {
	fields := append(slices.Clone(e.Fields), field(fmt.Sprintf("%04b", uint8(e.OpCode)), 12, 4))
	return utils.FieldDiagram(fields, utils.BitsPerWord, "bits", indent)
}

// EncodingsDoc documents the encoding of every instruction form
func EncodingsDoc() (string, error) {
	var doc strings.Builder

	for _, encoding := range Encodings {
		diagram, err := encoding.Diagram(2)
		if err != nil {
			return "", fmt.Errorf("%s: %w", encoding.Syntax, err)
		}

		doc.WriteString(encoding.Syntax + "\n\n" + diagram + "\n")
	}

	return doc.String(), nil
}
