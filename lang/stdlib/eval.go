package stdlib

import (
	"fmt"

	"github.com/cellscript/cellscript/lang/numeric"
	parse "github.com/cellscript/cellscript/lang/script/parser"
	"github.com/cellscript/cellscript/lang/scope"
	"github.com/cellscript/cellscript/lang/token"
	"github.com/cellscript/cellscript/lang/values"
)

// evalFn implements Eval: parse the string as a single Script
// expression against the current scope/globals and evaluate it immediately.
// A string that is not exactly one expression (e.g. it contains a
// statement terminator Script can't parse as an expression tail) is a
// TypedOperationException, not a panic .
func evalFn(ctx *scope.Context, tok token.Token, v values.Value) (values.Value, error) {
	s, err := wantString(v, "Eval")
	if err != nil {
		return nil, err
	}
	p := parse.New("<eval>", string(s), ctx.Global, ctx.Local)
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, fmt.Errorf("Eval parse error: %w", err)
	}
	return expr.Evaluate(ctx)
}

// evalCellFn resolves a CellRef via the context-supplied cell
// evaluator (lang/cell), unwrapping it to its current Float/String result;
// this language "unwrapping CellRef via EvalCell" (used by the Aggregates).
func evalCellFn(ctx *scope.Context, tok token.Token, v values.Value) (values.Value, error) {
	ref, ok := v.(values.CellRef)
	if !ok {
		return nil, fmt.Errorf("EvalCell expects a cellref")
	}
	eval := ctx.CellEvaluator()
	if eval == nil {
		return nil, fmt.Errorf("no cell evaluator is attached to this context")
	}
	return eval.Eval(ctx, ref)
}

func numericRoundingMode(f values.Float) numeric.RoundingMode {
	n := int(f.N.ToFloat64())
	if n < 0 {
		n = 0
	}
	return numeric.RoundingMode(n)
}
