package values

import (
	"fmt"
	"strings"
)

// CellRef is an addressable cell location, with each axis independently
// absolute or relative, and an optional sheet qualifier (bare uppercase names are function calls
// "!sheet" syntax).
type CellRef struct {
	Col      int
	Row      int
	AbsCol   bool
	AbsRow   bool
	Sheet    string // empty means "current sheet"
	HasSheet bool
}

var _ Value = CellRef{}

func (c CellRef) TypeName() string { return "cellref" }

func (c CellRef) String() string {
	var sb strings.Builder
	if c.AbsCol {
		sb.WriteByte('$')
	}
	sb.WriteString(columnLetters(c.Col))
	if c.AbsRow {
		sb.WriteByte('$')
	}
	fmt.Fprintf(&sb, "%d", c.Row)
	if c.HasSheet {
		sb.WriteByte('!')
		sb.WriteString(c.Sheet)
	}
	return sb.String()
}

// columnLetters converts a 1-based column index to its A, B, ..., Z, AA,
// ... spelling.
func columnLetters(col int) string {
	if col <= 0 {
		return "A"
	}
	var letters []byte
	for col > 0 {
		col--
		letters = append([]byte{byte('A' + col%26)}, letters...)
		col /= 26
	}
	return string(letters)
}

// Offset returns a new CellRef with dCol/dRow applied to the relative axes
// only, used when rendering a cell's formula at a different position
// (copy/paste, this language "toString ... with column/row offsets applied").
func (c CellRef) Offset(dCol, dRow int) CellRef {
	out := c
	if !c.AbsCol {
		out.Col += dCol
	}
	if !c.AbsRow {
		out.Row += dRow
	}
	return out
}

// MoveSheet returns a copy of c reattached to a different sheet (this language
// MoveReference).
func (c CellRef) MoveSheet(sheet string) CellRef {
	out := c
	out.Sheet = sheet
	out.HasSheet = sheet != ""
	return out
}

// CellRange is a rectangular pair of CellRefs.
type CellRange struct {
	From, To CellRef
}

var (
	_ Value     = CellRange{}
	_ Iterable  = CellRange{}
	_ Indexable = CellRange{}
)

func (r CellRange) TypeName() string { return "cellrange" }

func (r CellRange) String() string {
	return r.From.String() + ":" + r.To.String()
}

// Cells returns every CellRef in the rectangle in row-major order.
func (r CellRange) Cells() []CellRef {
	c1, c2 := r.From.Col, r.To.Col
	if c1 > c2 {
		c1, c2 = c2, c1
	}
	r1, r2 := r.From.Row, r.To.Row
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	out := make([]CellRef, 0, (c2-c1+1)*(r2-r1+1))
	for row := r1; row <= r2; row++ {
		for col := c1; col <= c2; col++ {
			out = append(out, CellRef{Col: col, Row: row, Sheet: r.From.Sheet, HasSheet: r.From.HasSheet})
		}
	}
	return out
}

// Elements returns the cell references themselves as Values; the Cell
// evaluator (lang/cell) is what turns each one into an evaluated Value via
// its CellEval callback, keeping this package free of any
// dependency on sheet storage.
func (r CellRange) Elements() ([]Value, error) {
	cells := r.Cells()
	out := make([]Value, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out, nil
}

func (r CellRange) Index(i Value) (Value, error) {
	f, ok := i.(Float)
	if !ok {
		return nil, errorf("cellrange index must be a float, got %s", i.TypeName())
	}
	idx, ok := floatToInt(f)
	if !ok {
		return nil, errorf("cellrange index must be an integer value, got %s", f.String())
	}
	cells := r.Cells()
	if idx < 0 || idx >= len(cells) {
		return nil, errorf("cellrange index %d out of range [0,%d)", idx, len(cells))
	}
	return cells[idx], nil
}
