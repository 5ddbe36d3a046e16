package script

import (
	"github.com/cellscript/cellscript/lang/scope"
	"github.com/cellscript/cellscript/lang/token"
	"github.com/cellscript/cellscript/lang/values"
)

// Constant evaluates to a fixed, parse-time value (this language, Expression.h
// "Constant").
type Constant struct {
	Tok   token.Token
	Value values.Value
}

func (e *Constant) Token() token.Token { return e.Tok }
func (e *Constant) Evaluate(ctx *scope.Context) (values.Value, error) {
	return e.Value, nil
}

// Variable reads a name through its resolved Getter handle.
type Variable struct {
	Tok    token.Token
	Getter scope.Getter
}

func (e *Variable) Token() token.Token { return e.Tok }
func (e *Variable) Evaluate(ctx *scope.Context) (values.Value, error) {
	v, err := e.Getter.Get(ctx, e.Tok)
	if err != nil {
		return nil, wrapTyped(ctx, e.Tok, err)
	}
	return v, nil
}

// binaryOp is the common shape of the non-short-circuiting binary
// operators that yield a value directly (this language: Plus, Minus,
// Multiply, Divide, DerefVar); the comparisons use boolOp below.
type binaryOp struct {
	Tok      token.Token
	Lhs, Rhs Expression
	apply    func(a, b values.Value) (values.Value, error)
}

func (e *binaryOp) Token() token.Token { return e.Tok }
func (e *binaryOp) Evaluate(ctx *scope.Context) (values.Value, error) {
	a, err := e.Lhs.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	b, err := e.Rhs.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	v, err := e.apply(a, b)
	if err != nil {
		return nil, wrapTyped(ctx, e.Tok, err)
	}
	return v, nil
}

func newBinary(tok token.Token, lhs, rhs Expression, apply func(a, b values.Value) (values.Value, error)) Expression {
	return &binaryOp{Tok: tok, Lhs: lhs, Rhs: rhs, apply: apply}
}

func NewPlus(tok token.Token, lhs, rhs Expression) Expression {
	return newBinary(tok, lhs, rhs, values.Add)
}
func NewMinus(tok token.Token, lhs, rhs Expression) Expression {
	return newBinary(tok, lhs, rhs, values.Sub)
}
func NewMultiply(tok token.Token, lhs, rhs Expression) Expression {
	return newBinary(tok, lhs, rhs, values.Mul)
}
func NewDivide(tok token.Token, lhs, rhs Expression) Expression {
	return newBinary(tok, lhs, rhs, values.Div)
}
// boolBinary builds a boolOp, which evaluates a predicate that needs no
// Context and renders its result with the Context, since rendering a
// bool back to a Float needs the active backend to mint a 0/1 (this language:
// Float is the only numeric type, and Logical coerces to/from it).
func boolBinary(tok token.Token, lhs, rhs Expression, pred func(a, b values.Value) (bool, error)) Expression {
	return &boolOp{Tok: tok, Lhs: lhs, Rhs: rhs, pred: pred}
}

type boolOp struct {
	Tok      token.Token
	Lhs, Rhs Expression
	pred     func(a, b values.Value) (bool, error)
}

func (e *boolOp) Token() token.Token { return e.Tok }
func (e *boolOp) Evaluate(ctx *scope.Context) (values.Value, error) {
	a, err := e.Lhs.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	b, err := e.Rhs.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	r, err := e.pred(a, b)
	if err != nil {
		return nil, wrapTyped(ctx, e.Tok, err)
	}
	return boolFloat(ctx, r), nil
}

func NewEquals(tok token.Token, lhs, rhs Expression) Expression {
	return boolBinary(tok, lhs, rhs, func(a, b values.Value) (bool, error) {
		return values.Equal(a, b), nil
	})
}
func NewNotEqual(tok token.Token, lhs, rhs Expression) Expression {
	return boolBinary(tok, lhs, rhs, func(a, b values.Value) (bool, error) {
		return values.NotEqual(a, b), nil
	})
}
func NewGreater(tok token.Token, lhs, rhs Expression) Expression {
	return boolBinary(tok, lhs, rhs, values.Greater)
}
func NewLess(tok token.Token, lhs, rhs Expression) Expression {
	return boolBinary(tok, lhs, rhs, values.Less)
}
func NewGEQ(tok token.Token, lhs, rhs Expression) Expression {
	return boolBinary(tok, lhs, rhs, values.Geq)
}
func NewLEQ(tok token.Token, lhs, rhs Expression) Expression {
	return boolBinary(tok, lhs, rhs, values.Leq)
}
func NewDerefVar(tok token.Token, lhs, rhs Expression) Expression {
	return newBinary(tok, lhs, rhs, values.DerefVar)
}

// boolFloat renders a boolean predicate as the Script/Cell numeric 0/1,
// minted at the active context's numeric backend (this language: Float is the
// only numeric type, and Logical coerces to/from it).
func boolFloat(ctx *scope.Context, b bool) values.Value {
	if b {
		return values.NewFloat(ctx.Backend.FromFloat64(1))
	}
	return values.NewFloat(ctx.Backend.FromFloat64(0))
}

// ShortAnd/ShortOr are short-circuiting: the right operand is only
// evaluated when the left does not already decide the result (this language
// "Short-circuit operators evaluate right only when the left does not
// decide the result"; this language "false & expr-that-throws yields 0 and does
// not throw").
type ShortAnd struct {
	Tok      token.Token
	Lhs, Rhs Expression
}

func (e *ShortAnd) Token() token.Token { return e.Tok }
func (e *ShortAnd) Evaluate(ctx *scope.Context) (values.Value, error) {
	a, err := e.Lhs.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	if !values.Logical(a) {
		return boolFloat(ctx, false), nil
	}
	b, err := e.Rhs.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	return boolFloat(ctx, values.Logical(b)), nil
}

type ShortOr struct {
	Tok      token.Token
	Lhs, Rhs Expression
}

func (e *ShortOr) Token() token.Token { return e.Tok }
func (e *ShortOr) Evaluate(ctx *scope.Context) (values.Value, error) {
	a, err := e.Lhs.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	if values.Logical(a) {
		return boolFloat(ctx, true), nil
	}
	b, err := e.Rhs.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	return boolFloat(ctx, values.Logical(b)), nil
}

// Not and Negate are the two unary operators.
type Not struct {
	Tok token.Token
	Arg Expression
}

func (e *Not) Token() token.Token { return e.Tok }
func (e *Not) Evaluate(ctx *scope.Context) (values.Value, error) {
	v, err := e.Arg.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	return boolFloat(ctx, !values.Logical(v)), nil
}

type Negate struct {
	Tok token.Token
	Arg Expression
}

func (e *Negate) Token() token.Token { return e.Tok }
func (e *Negate) Evaluate(ctx *scope.Context) (values.Value, error) {
	v, err := e.Arg.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	r, err := values.Neg(v)
	if err != nil {
		return nil, wrapTyped(ctx, e.Tok, err)
	}
	return r, nil
}

// FunctionCall evaluates `location(args...)`: arg values are
// computed left-to-right, then Call performs the arity check, frame
// construction and body execution.
type FunctionCall struct {
	Tok      token.Token
	Location Expression
	Args     []Expression
}

func (e *FunctionCall) Token() token.Token { return e.Tok }
func (e *FunctionCall) Evaluate(ctx *scope.Context) (values.Value, error) {
	loc, err := e.Location.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	fn, ok := loc.(*values.Function)
	if !ok {
		return nil, wrapTyped(ctx, e.Tok, errFatalNotCallable(loc))
	}
	args := make([]values.Value, len(e.Args))
	for i, a := range e.Args {
		v, err := a.Evaluate(ctx)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	v, err := Call(ctx, fn, e.Tok, args)
	if err != nil {
		return nil, wrapTyped(ctx, e.Tok, err)
	}
	return v, nil
}

// BuildFunction constructs a Function value by copying the captures from
// the current frame/scope (this language "captures copied from the
// FunctionValue" -- here, built at closure-construction time from the
// enclosing environment). A recursive self-reference (the function naming
// itself in its own body) is modeled as a weak reference the definition
// resolves lazily via SelfRef, avoiding a retain cycle through the
// capture list .
type BuildFunction struct {
	Tok      token.Token
	Def      *scope.FunctionDef
	Captures []Expression
	SelfRef  *SelfFunctionRef // non-nil when this closure is self-recursive
}

// SelfFunctionRef is a weak back-reference to the in-progress Function
// value being built for a recursive definition: it is populated once
// BuildFunction finishes constructing the value, so that a capture
// expression referencing the function's own name (recursion) can resolve
// to it without the definition holding a strong reference to the value
//.
type SelfFunctionRef struct {
	fn *values.Function
}

func (r *SelfFunctionRef) Resolve() (*values.Function, error) {
	if r.fn == nil {
		return nil, errFatalExpiredSelfRef()
	}
	return r.fn, nil
}

func (e *BuildFunction) Token() token.Token { return e.Tok }
func (e *BuildFunction) Evaluate(ctx *scope.Context) (values.Value, error) {
	caps := make([]values.Value, len(e.Captures))
	for i, c := range e.Captures {
		v, err := c.Evaluate(ctx)
		if err != nil {
			return nil, err
		}
		caps[i] = v
	}
	fn := &values.Function{Def: &values.FunctionDefinition{
		Name: e.Def.Name, NArgs: e.Def.NArgs, NLocals: e.Def.NLocals,
		NCaptures: e.Def.NCaptures, Body: e.Def.Body,
	}, Captures: caps}
	if e.SelfRef != nil {
		e.SelfRef.fn = fn
	}
	return fn, nil
}

// SelfReference evaluates to the function currently being constructed,
// used inside a function body to call itself by name even though the
// BuildFunction expression that produced it has not finished running yet
// (this language "identifier resolves to that function even inside its own
// body, enabling recursion").
type SelfReference struct {
	Tok token.Token
	Ref *SelfFunctionRef
}

func (e *SelfReference) Token() token.Token { return e.Tok }
func (e *SelfReference) Evaluate(ctx *scope.Context) (values.Value, error) {
	fn, err := e.Ref.Resolve()
	if err != nil {
		return nil, wrapTyped(ctx, e.Tok, err)
	}
	return fn, nil
}

// TernaryOperation is `condition ? thenCase : elseCase`.
type TernaryOperation struct {
	Tok                          token.Token
	Condition, ThenCase, ElseCase Expression
}

func (e *TernaryOperation) Token() token.Token { return e.Tok }
func (e *TernaryOperation) Evaluate(ctx *scope.Context) (values.Value, error) {
	c, err := e.Condition.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	if values.Logical(c) {
		return e.ThenCase.Evaluate(ctx)
	}
	return e.ElseCase.Evaluate(ctx)
}
