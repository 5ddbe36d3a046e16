package cell_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellscript/cellscript/lang/cell"
	cellparser "github.com/cellscript/cellscript/lang/cell/parser"
	"github.com/cellscript/cellscript/lang/numeric"
	"github.com/cellscript/cellscript/lang/scope"
	"github.com/cellscript/cellscript/lang/stdlib"
	"github.com/cellscript/cellscript/lang/values"
)

func newTestContext() *scope.Context {
	return scope.NewContext(numeric.NewDecimalBackend())
}

func TestArithmeticExpressionEvaluatesToExpectedValue(t *testing.T) {
	p := cellparser.New("<test>", "(1 + 8) * (5 + 1)", nil, 1, 1)
	expr, err := p.ParseExpression()
	require.NoError(t, err)

	ctx := newTestContext()
	v, err := expr.Evaluate(ctx, 1, 1)
	require.NoError(t, err)

	f, ok := v.(values.Float)
	require.True(t, ok)
	assert.Equal(t, "54", f.N.HumanString())
}

func TestCellReferenceRenderingShiftsByOrigin(t *testing.T) {
	src := "A1+B2+$A1+A$1+$A$1+A1!A"
	p := cellparser.New("<test>", src, nil, 1, 1)
	expr, err := p.ParseExpression()
	require.NoError(t, err)

	assert.Equal(t, src, cell.ToSource(expr, 1, 1))
	assert.Equal(t, "B2+C3+$A2+B$1+$A$1+B2!A", cell.ToSource(expr, 2, 2))
}

func TestUnoccupiedCellDefaultsToZero(t *testing.T) {
	sheet := cell.NewSheet()
	reg := cell.NewRegistry()
	eval := cell.NewEvaluator(sheet, reg)

	ctx := newTestContext()
	ctx.CellEval = eval

	v, err := eval.Eval(ctx, values.CellRef{Col: 1, Row: 1})
	require.NoError(t, err)
	f, ok := v.(values.Float)
	require.True(t, ok)
	assert.True(t, f.N.IsZero())
}

func TestReferenceResolvesPlacedFormula(t *testing.T) {
	sheet := cell.NewSheet()
	reg := cell.NewRegistry()
	eval := cell.NewEvaluator(sheet, reg)

	ctx := newTestContext()
	ctx.CellEval = eval

	p := cellparser.New("<test>", "2+3", reg, 1, 1)
	expr, err := p.ParseExpression()
	require.NoError(t, err)
	sheet.Put(values.CellRef{Col: 1, Row: 1}, expr)

	p2 := cellparser.New("<test>", "A1*10", reg, 2, 1)
	expr2, err := p2.ParseExpression()
	require.NoError(t, err)

	v, err := expr2.Evaluate(ctx, 2, 1)
	require.NoError(t, err)
	f, ok := v.(values.Float)
	require.True(t, ok)
	assert.Equal(t, "50", f.N.HumanString())
}

func TestAggregateFunctionsRecurseIntoCellRangeAndSkipStrings(t *testing.T) {
	sheet := cell.NewSheet()
	reg := cell.NewRegistry()
	eval := cell.NewEvaluator(sheet, reg)

	ctx := newTestContext()
	ctx.CellEval = eval
	stdlib.Install(ctx)

	put := func(col, row int, src string) {
		p := cellparser.New("<test>", src, reg, col, row)
		expr, err := p.ParseExpression()
		require.NoError(t, err)
		sheet.Put(values.CellRef{Col: col, Row: row}, expr)
	}
	put(1, 1, "2")
	put(1, 2, `"skip me"`)
	put(1, 3, "4")
	put(1, 4, "6")

	cases := []struct {
		src  string
		want string
	}{
		{"@SUM(A1:A4)", "12"},
		{"@COUNT(A1:A4)", "3"},
		{"@MAX(A1:A4)", "6"},
		{"@MIN(A1:A4)", "2"},
		{"@AVERAGE(A1:A4)", "4"},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			p := cellparser.New("<test>", c.src, reg, 2, 1)
			expr, err := p.ParseExpression()
			require.NoError(t, err)
			v, err := expr.Evaluate(ctx, 2, 1)
			require.NoError(t, err)
			f, ok := v.(values.Float)
			require.True(t, ok)
			assert.Equal(t, c.want, f.N.HumanString())
		})
	}
}

func TestMoveReferenceAttachesSheetWithoutDereferencing(t *testing.T) {
	p := cellparser.New("<test>", "A1!Other", nil, 1, 1)
	expr, err := p.ParseExpression()
	require.NoError(t, err)

	// No CellEvaluator attached: if MoveReference tried to dereference
	// the underlying reference before moving it, this would fail.
	ctx := newTestContext()
	v, err := expr.Evaluate(ctx, 1, 1)
	require.NoError(t, err)

	ref, ok := v.(values.CellRef)
	require.True(t, ok)
	assert.Equal(t, "A1!Other", ref.String())
}
