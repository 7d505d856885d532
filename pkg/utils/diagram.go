package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrDiagramFields = errors.New("diagram fields must be sorted, not overlapping and fit the word")

// DiagramField is a run of contiguous bits within a word
type DiagramField struct {
	Name string
	// Lowest bit of the field
	Begin int
	Width int
}

// Highest bit of the field
func (f DiagramField) Top() int {
	return f.Begin + f.Width - 1
}

// Fields sorted by Begin, with the gaps between them filled by "(unused)" fields
func fillGaps(fields []DiagramField, width int) ([]DiagramField, error) {
	result := make([]DiagramField, 0, len(fields)+1)
	next := 0

	for _, field := range fields {
		if field.Begin < next || field.Width <= 0 {
			return nil, MakeError(ErrDiagramFields, "field '%s' at bit %d", field.Name, field.Begin)
		}

		if field.Begin > next {
			result = append(result, DiagramField{Name: "(unused)", Begin: next, Width: field.Begin - next})
		}

		result = append(result, field)
		next = field.Begin + field.Width
	}

	if next > width {
		return nil, MakeError(ErrDiagramFields, "fields take %d bits of a %d bit word", next, width)
	}

	if next < width {
		result = append(result, DiagramField{Name: "(unused)", Begin: next, Width: width - next})
	}

	return result, nil
}

func center(text string, width int, filler string) string {
	left := (width - len(text)) / 2
	return strings.Repeat(filler, left) + text + strings.Repeat(filler, width-len(text)-left)
}

// FieldDiagram draws a word made of bit fields, most significant bit on the
// left:
//
//	15           11           8            0
//	+------------+------------+------------+
//	|   opcode   |     DR     |   offset   |
//	+------------+------------+------------+
//	 <- 4 bits -> <- 3 bits -> <- 9 bits ->
func FieldDiagram(fields []DiagramField, width int, unit string, indent int) (string, error) {
	cells, err := fillGaps(fields, width)
	if err != nil {
		return "", err
	}

	var indices, border, body, widths strings.Builder

	for i := len(cells) - 1; i >= 0; i-- {
		cell := cells[i]

		index := strconv.Itoa(cell.Top())
		name := " " + cell.Name + " "
		size := fmt.Sprintf(" %d %s ", cell.Width, unit)
		length := max(len(index), len(name), len(size)+4)

		indices.WriteString(index + strings.Repeat(" ", length+1-len(index)))
		border.WriteString("+" + strings.Repeat("-", length))
		body.WriteString("|" + center(name, length, " "))
		widths.WriteString(" <-" + center(size, length-4, "-") + "->")
	}

	indices.WriteString("0")
	border.WriteString("+")
	body.WriteString("|")

	pad := strings.Repeat(" ", indent)
	var diagram strings.Builder
	for _, row := range []string{indices.String(), border.String(), body.String(), border.String(), widths.String()} {
		diagram.WriteString(pad + row + "\n")
	}

	return diagram.String(), nil
}
