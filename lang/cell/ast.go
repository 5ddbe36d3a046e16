// Package cell implements the Cell expression evaluator: the expression
// tree (Constant, Name, FunctionCall, the arithmetic/comparison
// operators, MakeRange and MoveReference), the cell reference
// evaluator with its generation-keyed cache, and the Name registry.
// Grounded on Forwards/Engine/Expression.h and Expression.cpp.
package cell

import (
	"strings"

	"github.com/cellscript/cellscript/lang/errors"
	"github.com/cellscript/cellscript/lang/scope"
	"github.com/cellscript/cellscript/lang/token"
	"github.com/cellscript/cellscript/lang/values"
)

// Expression is the interface every Cell expression tree node
// implements. Evaluate takes the coordinates of the cell the
// expression is being evaluated *as if placed at*, so that relative
// CellRefs resolve against the right origin; toSource renders the node
// back to Cell syntax with that same origin's offsets applied.
type Expression interface {
	Token() token.Token
	Evaluate(ctx *scope.Context, col, row int) (values.Value, error)
	toSource(sb *strings.Builder, col, row int)
}

// ToSource renders e back to Cell syntax as if the cell containing it
// were at (col, row): relative references are shifted by the
// difference from the position the reference was originally written
// at, absolute references and sheet tags are left untouched.
func ToSource(e Expression, col, row int) string {
	var sb strings.Builder
	e.toSource(&sb, col, row)
	return sb.String()
}

func wrap(tok token.Token, err error) error {
	if err == nil {
		return nil
	}
	if errors.IsFatal(err) {
		return errors.WrapFatal(tok, err)
	}
	return errors.Wrap(tok, err)
}

// Constant is a parsed string literal, or a number literal whose Float
// construction is deferred to evaluation time so it mints through
// whichever NumberBackend the embedder selected (NumberText set, Value
// nil), matching Script's own numberLiteral handling.
type Constant struct {
	Tok        token.Token
	Value      values.Value
	NumberText string
}

// NewNumberConstant builds a Constant that parses text via the active
// context's numeric backend each time it is evaluated.
func NewNumberConstant(tok token.Token, text string) *Constant {
	return &Constant{Tok: tok, NumberText: text}
}

func (c *Constant) Token() token.Token { return c.Tok }
func (c *Constant) Evaluate(ctx *scope.Context, col, row int) (values.Value, error) {
	if c.NumberText != "" {
		n, err := ctx.Backend.Parse(c.NumberText)
		if err != nil {
			return nil, wrap(c.Tok, errors.NewTypedOperationError(c.Tok, "%s", err))
		}
		return values.NewFloat(n), nil
	}
	return c.Value, nil
}
func (c *Constant) toSource(sb *strings.Builder, col, row int) { sb.WriteString(c.Tok.Value) }

// RefExpr wraps a literal CellRef as written in source, anchored at the
// column/row it was parsed at (refCol/refRow); Evaluate shifts it by
// the (col,row) the containing expression is rendered/evaluated at,
// then asks the context's CellEvaluator for its value.
type RefExpr struct {
	Tok           token.Token
	Ref           values.CellRef
	RefCol, RefRow int
}

func (r *RefExpr) Token() token.Token { return r.Tok }

func (r *RefExpr) resolved(col, row int) values.CellRef {
	return r.Ref.Offset(col-r.RefCol, row-r.RefRow)
}

func (r *RefExpr) Evaluate(ctx *scope.Context, col, row int) (values.Value, error) {
	eval := ctx.CellEvaluator()
	if eval == nil {
		return nil, wrap(r.Tok, errors.NewTypedOperationError(r.Tok, "no cell evaluator attached to this context"))
	}
	v, err := eval.Eval(ctx, r.resolved(col, row))
	if err != nil {
		return nil, wrap(r.Tok, err)
	}
	return v, nil
}

func (r *RefExpr) toSource(sb *strings.Builder, col, row int) {
	sb.WriteString(r.resolved(col, row).String())
}

// MakeRange is `ref : ref`, a rectangular CellRange.
type MakeRange struct {
	Tok        token.Token
	From, To   *RefExpr
}

func (m *MakeRange) Token() token.Token { return m.Tok }
func (m *MakeRange) Evaluate(ctx *scope.Context, col, row int) (values.Value, error) {
	return values.CellRange{From: m.From.resolved(col, row), To: m.To.resolved(col, row)}, nil
}
func (m *MakeRange) toSource(sb *strings.Builder, col, row int) {
	m.From.toSource(sb, col, row)
	sb.WriteByte(':')
	m.To.toSource(sb, col, row)
}

// MoveReference reattaches a cellref or range to a different sheet,
// written postfix as `ref!sheet`.
type MoveReference struct {
	Tok   token.Token
	Ref   Expression // *RefExpr or *MakeRange
	Sheet string
}

func (m *MoveReference) Token() token.Token { return m.Tok }

// Evaluate reattaches the sheet tag to the bare reference underneath,
// without dereferencing it: m.Ref is always the *RefExpr or *MakeRange
// the reference syntax built (never a dereferenced value), matching
// how a cellref!sheet expression never looks at the referenced cell's
// own content, only its address.
func (m *MoveReference) Evaluate(ctx *scope.Context, col, row int) (values.Value, error) {
	switch ref := m.Ref.(type) {
	case *RefExpr:
		return ref.resolved(col, row).MoveSheet(m.Sheet), nil
	case *MakeRange:
		return values.CellRange{
			From: ref.From.resolved(col, row).MoveSheet(m.Sheet),
			To:   ref.To.resolved(col, row).MoveSheet(m.Sheet),
		}, nil
	default:
		return nil, wrap(m.Tok, errors.NewTypedOperationError(m.Tok, "cannot attach a sheet tag to this expression"))
	}
}
func (m *MoveReference) toSource(sb *strings.Builder, col, row int) {
	m.Ref.toSource(sb, col, row)
	sb.WriteByte('!')
	sb.WriteString(m.Sheet)
}

// Name resolves through the process-wide name->CellRef registry, then
// evaluates the resulting CellRef.
type Name struct {
	Tok  token.Token
	Name string
	Reg  *Registry
}

func (n *Name) Token() token.Token { return n.Tok }
func (n *Name) Evaluate(ctx *scope.Context, col, row int) (values.Value, error) {
	ref, ok := n.Reg.Lookup(n.Name)
	if !ok {
		return nil, wrap(n.Tok, errors.NewTypedOperationError(n.Tok, "name %q is not bound to a cell", n.Name))
	}
	eval := ctx.CellEvaluator()
	if eval == nil {
		return nil, wrap(n.Tok, errors.NewTypedOperationError(n.Tok, "no cell evaluator attached to this context"))
	}
	v, err := eval.Eval(ctx, ref)
	if err != nil {
		return nil, wrap(n.Tok, err)
	}
	return v, nil
}
func (n *Name) toSource(sb *strings.Builder, col, row int) { sb.WriteByte('_'); sb.WriteString(n.Name) }

// FunctionCall invokes a standard-library or user-defined Script
// function by name, looked up in the context's local scope and then its
// global scope.
type FunctionCall struct {
	Tok  token.Token
	Name string
	Args []Expression
}

func (f *FunctionCall) Token() token.Token { return f.Tok }
func (f *FunctionCall) Evaluate(ctx *scope.Context, col, row int) (values.Value, error) {
	fn, err := lookupFunction(ctx, f.Name)
	if err != nil {
		return nil, wrap(f.Tok, err)
	}
	args := make([]values.Value, len(f.Args))
	for i, a := range f.Args {
		v, err := a.Evaluate(ctx, col, row)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	// Functions that take exactly one argument (the bundled MAX/MIN/SUM/
	// COUNT/AVERAGE aggregates chief among them) accept any number of
	// call-site arguments by packing them into a single Array, so a call
	// like `@SUM(1;2;3)` reaches SUM as one collection.
	if fn.Def.NArgs == 1 && len(args) != 1 {
		args = []values.Value{values.NewArray(args)}
	}
	v, err := callFunction(ctx, f.Tok, fn, args)
	if err != nil {
		return nil, wrap(f.Tok, err)
	}
	return v, nil
}
func (f *FunctionCall) toSource(sb *strings.Builder, col, row int) {
	sb.WriteByte('@')
	sb.WriteString(f.Name)
	sb.WriteByte('(')
	for i, a := range f.Args {
		if i > 0 {
			sb.WriteByte(';')
		}
		a.toSource(sb, col, row)
	}
	sb.WriteByte(')')
}

// binOp is a binary operator node shared by Plus/Minus/Multiply/Divide/
// Cat/Equals/NotEqual/Greater/Less/GEQ/LEQ; each just plugs in a
// different values.* dispatch function and its own source spelling.
type binOp struct {
	Tok      token.Token
	Lhs, Rhs Expression
	Symbol   string
	Apply    func(ctx *scope.Context, a, b values.Value) (values.Value, error)
}

func (b *binOp) Token() token.Token { return b.Tok }
func (b *binOp) Evaluate(ctx *scope.Context, col, row int) (values.Value, error) {
	lv, err := b.Lhs.Evaluate(ctx, col, row)
	if err != nil {
		return nil, err
	}
	rv, err := b.Rhs.Evaluate(ctx, col, row)
	if err != nil {
		return nil, err
	}
	v, err := b.Apply(ctx, lv, rv)
	if err != nil {
		return nil, wrap(b.Tok, err)
	}
	return v, nil
}
func (b *binOp) toSource(sb *strings.Builder, col, row int) {
	b.Lhs.toSource(sb, col, row)
	sb.WriteString(b.Symbol)
	b.Rhs.toSource(sb, col, row)
}

func newBinOp(tok token.Token, sym string, lhs, rhs Expression, apply func(ctx *scope.Context, a, b values.Value) (values.Value, error)) Expression {
	return &binOp{Tok: tok, Lhs: lhs, Rhs: rhs, Symbol: sym, Apply: apply}
}

func arith(apply func(a, b values.Value) (values.Value, error)) func(ctx *scope.Context, a, b values.Value) (values.Value, error) {
	return func(ctx *scope.Context, a, b values.Value) (values.Value, error) { return apply(a, b) }
}

func boolExpr(pred func(a, b values.Value) (bool, error)) func(ctx *scope.Context, a, b values.Value) (values.Value, error) {
	return func(ctx *scope.Context, a, b values.Value) (values.Value, error) {
		ok, err := pred(a, b)
		if err != nil {
			return nil, err
		}
		if ok {
			return values.NewFloat(ctx.Backend.FromFloat64(1)), nil
		}
		return values.NewFloat(ctx.Backend.FromFloat64(0)), nil
	}
}

func NewPlus(tok token.Token, lhs, rhs Expression) Expression {
	return newBinOp(tok, "+", lhs, rhs, arith(values.Add))
}
func NewMinus(tok token.Token, lhs, rhs Expression) Expression {
	return newBinOp(tok, "-", lhs, rhs, arith(values.Sub))
}
func NewMultiply(tok token.Token, lhs, rhs Expression) Expression {
	return newBinOp(tok, "*", lhs, rhs, arith(values.Mul))
}
func NewDivide(tok token.Token, lhs, rhs Expression) Expression {
	return newBinOp(tok, "/", lhs, rhs, arith(values.Div))
}
func NewCat(tok token.Token, lhs, rhs Expression) Expression {
	return newBinOp(tok, "&", lhs, rhs, arith(values.Cat))
}
func NewEquals(tok token.Token, lhs, rhs Expression) Expression {
	return newBinOp(tok, "=", lhs, rhs, boolExpr(func(a, b values.Value) (bool, error) { return values.Equal(a, b), nil }))
}
func NewNotEqual(tok token.Token, lhs, rhs Expression) Expression {
	return newBinOp(tok, "<>", lhs, rhs, boolExpr(func(a, b values.Value) (bool, error) { return values.NotEqual(a, b), nil }))
}
func NewGreater(tok token.Token, lhs, rhs Expression) Expression {
	return newBinOp(tok, ">", lhs, rhs, boolExpr(values.Greater))
}
func NewLess(tok token.Token, lhs, rhs Expression) Expression {
	return newBinOp(tok, "<", lhs, rhs, boolExpr(values.Less))
}
func NewGEQ(tok token.Token, lhs, rhs Expression) Expression {
	return newBinOp(tok, ">=", lhs, rhs, boolExpr(values.Geq))
}
func NewLEQ(tok token.Token, lhs, rhs Expression) Expression {
	return newBinOp(tok, "<=", lhs, rhs, boolExpr(values.Leq))
}

// Negate is the unary `-` operator.
type Negate struct {
	Tok token.Token
	Arg Expression
}

func (n *Negate) Token() token.Token { return n.Tok }
func (n *Negate) Evaluate(ctx *scope.Context, col, row int) (values.Value, error) {
	v, err := n.Arg.Evaluate(ctx, col, row)
	if err != nil {
		return nil, err
	}
	out, err := values.Neg(v)
	if err != nil {
		return nil, wrap(n.Tok, err)
	}
	return out, nil
}
func (n *Negate) toSource(sb *strings.Builder, col, row int) {
	sb.WriteByte('-')
	n.Arg.toSource(sb, col, row)
}
