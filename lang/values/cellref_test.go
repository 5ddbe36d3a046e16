package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellRefString(t *testing.T) {
	cases := []struct {
		ref  CellRef
		want string
	}{
		{CellRef{Col: 1, Row: 1}, "A1"},
		{CellRef{Col: 1, Row: 1, AbsCol: true}, "$A1"},
		{CellRef{Col: 1, Row: 1, AbsRow: true}, "A$1"},
		{CellRef{Col: 1, Row: 1, AbsCol: true, AbsRow: true}, "$A$1"},
		{CellRef{Col: 27, Row: 2}, "AA2"},
		{CellRef{Col: 1, Row: 1, HasSheet: true, Sheet: "A"}, "A1!A"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.ref.String())
	}
}

func TestCellRefOffsetRespectsAbsoluteAxes(t *testing.T) {
	rel := CellRef{Col: 1, Row: 1}
	assert.Equal(t, CellRef{Col: 2, Row: 2}, rel.Offset(1, 1))

	absCol := CellRef{Col: 1, Row: 1, AbsCol: true}
	assert.Equal(t, CellRef{Col: 1, Row: 2, AbsCol: true}, absCol.Offset(1, 1))

	absBoth := CellRef{Col: 1, Row: 1, AbsCol: true, AbsRow: true}
	assert.Equal(t, absBoth, absBoth.Offset(5, 5))
}

func TestCellRefMoveSheet(t *testing.T) {
	ref := CellRef{Col: 1, Row: 1}
	moved := ref.MoveSheet("A")
	assert.True(t, moved.HasSheet)
	assert.Equal(t, "A", moved.Sheet)
	assert.Equal(t, "A1!A", moved.String())
}
