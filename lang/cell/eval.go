package cell

import (
	"fmt"
	"strings"

	"github.com/cellscript/cellscript/lang/script"
	"github.com/cellscript/cellscript/lang/scope"
	"github.com/cellscript/cellscript/lang/token"
	"github.com/cellscript/cellscript/lang/values"
)

// Registry is the process-wide name->CellRef map Name expressions
// resolve through; Let registers a binding.
type Registry struct {
	byName map[string]values.CellRef
}

func NewRegistry() *Registry { return &Registry{byName: map[string]values.CellRef{}} }

func (r *Registry) Let(name string, ref values.CellRef) { r.byName[name] = ref }

func (r *Registry) Lookup(name string) (values.CellRef, bool) {
	ref, ok := r.byName[name]
	return ref, ok
}

type cacheEntry struct {
	gen   uint64
	value values.Value
	err   error
}

// Sheet is the backing store of cell formulas: one parsed Expression
// per occupied CellRef, keyed without the sheet-relative offsets (a
// formula is stored exactly as typed at its home cell).
type Sheet struct {
	cells map[values.CellRef]Expression
}

func NewSheet() *Sheet {
	return &Sheet{cells: map[values.CellRef]Expression{}}
}

// Put places expr into ref's cell. Each RefExpr inside expr already
// carries its own (RefCol, RefRow) anchor from parse time, so no
// separate home position needs to be recorded here.
func (s *Sheet) Put(ref values.CellRef, expr Expression) {
	key := ref
	key.AbsCol, key.AbsRow = false, false
	s.cells[key] = expr
}

func lookupKey(ref values.CellRef) values.CellRef {
	ref.AbsCol, ref.AbsRow = false, false
	return ref
}

// Evaluator implements scope.CellEvaluator: given a CellRef, it
// re-evaluates the cell's stored formula with that ref's coordinates
// substituted for the formula's home coordinates, caching the result
// per the context's current Generation so repeated reads within one
// recomputation pass are free.
type Evaluator struct {
	Sheet *Sheet
	Reg   *Registry
	cache map[values.CellRef]cacheEntry
}

func NewEvaluator(sheet *Sheet, reg *Registry) *Evaluator {
	return &Evaluator{Sheet: sheet, Reg: reg, cache: map[values.CellRef]cacheEntry{}}
}

var _ scope.CellEvaluator = (*Evaluator)(nil)

// Eval is the scope.CellEvaluator method: it caches by (ref, generation)
// so repeated references to the same cell within one recomputation pass
// reuse the result instead of re-walking the formula tree.
func (e *Evaluator) Eval(ctx *scope.Context, ref values.CellRef) (values.Value, error) {
	key := lookupKey(ref)
	if entry, ok := e.cache[key]; ok && entry.gen == ctx.Generation {
		return entry.value, entry.err
	}
	expr, ok := e.Sheet.cells[key]
	if !ok {
		v := values.NewFloat(ctx.Backend.Zero())
		e.cache[key] = cacheEntry{gen: ctx.Generation, value: v}
		return v, nil
	}
	v, err := expr.Evaluate(ctx, ref.Col, ref.Row)
	e.cache[key] = cacheEntry{gen: ctx.Generation, value: v, err: err}
	return v, err
}

// lookupFunction resolves a Cell function-call identifier (uppercased
// by the lexer) against the context's local scope (where the bundled
// aggregates live) and then its global scope: first an exact match
// (so a Script function the embedder happened to declare in all caps
// is reachable directly), then a case-insensitive scan, matching the
// original engine's practice of registering every standard-library
// entry under its Cell-visible uppercase spelling.
func lookupFunction(ctx *scope.Context, name string) (*values.Function, error) {
	var scopes []*scope.Scope
	for _, sc := range []*scope.Scope{ctx.Local, ctx.Global} {
		if sc != nil {
			scopes = append(scopes, sc)
		}
	}
	for _, sc := range scopes {
		if idx, ok := sc.Lookup(name); ok {
			if v, err := sc.Get(token.Token{}, idx); err == nil {
				if f, isFn := v.(*values.Function); isFn {
					return f, nil
				}
			}
		}
	}
	for _, sc := range scopes {
		for _, n := range sc.Names() {
			if strings.EqualFold(n, name) {
				idx, _ := sc.Lookup(n)
				v, err := sc.Get(token.Token{}, idx)
				if err != nil {
					continue
				}
				if f, isFn := v.(*values.Function); isFn {
					return f, nil
				}
			}
		}
	}
	return nil, fmt.Errorf("name %q is not a function", name)
}

func callFunction(ctx *scope.Context, tok token.Token, fn *values.Function, args []values.Value) (values.Value, error) {
	return script.Call(ctx, fn, tok, args)
}
