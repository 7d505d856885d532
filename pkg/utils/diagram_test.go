package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldDiagram_SingleField(t *testing.T) {
	actual, err := FieldDiagram([]DiagramField{{Name: "imm", Begin: 0, Width: 4}}, 4, "bits", 0)
	require.NoError(t, err)

	assert.Equal(t, ""+
		"3            0\n"+
		"+------------+\n"+
		"|    imm     |\n"+
		"+------------+\n"+
		" <- 4 bits ->\n",
		actual)
}

func TestFieldDiagram_Fields(t *testing.T) {
	fields := []DiagramField{
		{Name: "offset", Begin: 0, Width: 9},
		{Name: "DR", Begin: 9, Width: 3},
		{Name: "opcode", Begin: 12, Width: 4},
	}

	actual, err := FieldDiagram(fields, 16, "bits", 0)
	require.NoError(t, err)

	assert.Equal(t, ""+
		"15           11           8            0\n"+
		"+------------+------------+------------+\n"+
		"|   opcode   |     DR     |   offset   |\n"+
		"+------------+------------+------------+\n"+
		" <- 4 bits -> <- 3 bits -> <- 9 bits ->\n",
		actual)
}

func TestFieldDiagram_GapAndIndent(t *testing.T) {
	actual, err := FieldDiagram([]DiagramField{{Name: "x", Begin: 2, Width: 2}}, 4, "bits", 2)
	require.NoError(t, err)

	assert.Equal(t, ""+
		"  3            1            0\n"+
		"  +------------+------------+\n"+
		"  |     x      |  (unused)  |\n"+
		"  +------------+------------+\n"+
		"   <- 2 bits -> <- 2 bits ->\n",
		actual)
}

func TestFieldDiagram_InvalidFields(t *testing.T) {
	_, err := FieldDiagram([]DiagramField{{Name: "a", Begin: 0, Width: 3}, {Name: "b", Begin: 2, Width: 2}}, 16, "bits", 0)
	assert.ErrorIs(t, err, ErrDiagramFields)

	_, err = FieldDiagram([]DiagramField{{Name: "a", Begin: 8, Width: 9}}, 16, "bits", 0)
	assert.ErrorIs(t, err, ErrDiagramFields)

	_, err = FieldDiagram([]DiagramField{{Name: "a", Begin: 0, Width: 0}}, 16, "bits", 0)
	assert.ErrorIs(t, err, ErrDiagramFields)
}
