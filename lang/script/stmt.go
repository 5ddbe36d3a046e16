package script

import (
	"github.com/cellscript/cellscript/lang/errors"
	"github.com/cellscript/cellscript/lang/scope"
	"github.com/cellscript/cellscript/lang/token"
	"github.com/cellscript/cellscript/lang/values"
)

// NOP does nothing; the parser emits it for empty statement positions.
type NOP struct {
	Tok token.Token
}

func (s *NOP) Token() token.Token { return s.Tok }
func (s *NOP) Execute(ctx *scope.Context) (*FlowControl, error) {
	return nil, nil
}

// Expr evaluates an expression purely for its side effects (a bare
// function call as a statement), discarding the result.
type Expr struct {
	Tok  token.Token
	Expr Expression
}

func (s *Expr) Token() token.Token { return s.Tok }
func (s *Expr) Execute(ctx *scope.Context) (*FlowControl, error) {
	_, err := s.Expr.Evaluate(ctx)
	return nil, err
}

// Sequence runs a list of statements in order, stopping early and
// propagating the first FlowControl signal or error raised by any of
// them.
type Sequence struct {
	Tok   token.Token
	Stmts []Statement
}

func (s *Sequence) Token() token.Token { return s.Tok }
func (s *Sequence) Execute(ctx *scope.Context) (*FlowControl, error) {
	for _, st := range s.Stmts {
		fc, err := st.Execute(ctx)
		if err != nil {
			return nil, err
		}
		if fc != nil {
			return fc, nil
		}
	}
	return nil, nil
}

// Assignment writes the value of Rhs through Setter.
type Assignment struct {
	Tok    token.Token
	Setter scope.Setter
	Rhs    Expression
}

func (s *Assignment) Token() token.Token { return s.Tok }
func (s *Assignment) Execute(ctx *scope.Context) (*FlowControl, error) {
	v, err := s.Rhs.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Setter.Set(ctx, s.Tok, v); err != nil {
		return nil, wrapTyped(ctx, s.Tok, err)
	}
	return nil, nil
}

// RecAssignState is a nested assignment through an index chain: `x[i].b[c]
// to v` becomes a base Setter plus a slice of index Expressions
//. Evaluating it reads the base value, recurses down the
// index chain evaluating each index expression and recursing into the
// child container, then rebuilds each container functionally on the way
// back up via values.SetIndexed, and finally writes the new root value
// back through the base Setter. This never mutates a container shared
// with another reference, matching the value model's functional-update
// contract (this language "Array.SetIndex and Dictionary.Insert return new
// values").
type RecAssignState struct {
	Tok     token.Token
	Getter  scope.Getter
	Setter  scope.Setter
	Indices []Expression
	Rhs     Expression
}

func (s *RecAssignState) Token() token.Token { return s.Tok }
func (s *RecAssignState) Execute(ctx *scope.Context) (*FlowControl, error) {
	rhs, err := s.Rhs.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	root, err := s.Getter.Get(ctx, s.Tok)
	if err != nil {
		return nil, wrapTyped(ctx, s.Tok, err)
	}
	idxVals := make([]values.Value, len(s.Indices))
	for i, ix := range s.Indices {
		v, err := ix.Evaluate(ctx)
		if err != nil {
			return nil, err
		}
		idxVals[i] = v
	}
	newRoot, err := recAssign(root, idxVals, rhs)
	if err != nil {
		return nil, wrapTyped(ctx, s.Tok, err)
	}
	if err := s.Setter.Set(ctx, s.Tok, newRoot); err != nil {
		return nil, wrapTyped(ctx, s.Tok, err)
	}
	return nil, nil
}

// recAssign rebuilds container from the outside in: at the last index it
// writes value directly; otherwise it reads the child container, recurses,
// and writes the rebuilt child back into a fresh copy of container.
func recAssign(container values.Value, indices []values.Value, value values.Value) (values.Value, error) {
	if len(indices) == 0 {
		return value, nil
	}
	if len(indices) == 1 {
		return values.SetIndexed(container, indices[0], value)
	}
	child, err := values.DerefVar(container, indices[0])
	if err != nil {
		return nil, err
	}
	newChild, err := recAssign(child, indices[1:], value)
	if err != nil {
		return nil, err
	}
	return values.SetIndexed(container, indices[0], newChild)
}

// IfStatement is `if cond then thenBranch [else elseBranch] end`.
type IfStatement struct {
	Tok                     token.Token
	Condition               Expression
	ThenBranch, ElseBranch Statement
}

func (s *IfStatement) Token() token.Token { return s.Tok }
func (s *IfStatement) Execute(ctx *scope.Context) (*FlowControl, error) {
	c, err := s.Condition.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	if values.Logical(c) {
		return s.ThenBranch.Execute(ctx)
	}
	if s.ElseBranch != nil {
		return s.ElseBranch.Execute(ctx)
	}
	return nil, nil
}

// WhileStatement is `while cond do body end`, optionally named for
// labeled break/continue targeting.
type WhileStatement struct {
	Tok       token.Token
	LoopID    uint64
	Condition Expression
	Body      Statement
}

func (s *WhileStatement) Token() token.Token { return s.Tok }
func (s *WhileStatement) Execute(ctx *scope.Context) (*FlowControl, error) {
	for {
		c, err := s.Condition.Evaluate(ctx)
		if err != nil {
			return nil, err
		}
		if !values.Logical(c) {
			return nil, nil
		}
		fc, err := s.Body.Execute(ctx)
		if err != nil {
			return nil, err
		}
		if fc == nil {
			continue
		}
		switch fc.Kind {
		case Return:
			return fc, nil
		case Break:
			if fc.Target == NoTarget || fc.Target == s.LoopID {
				return nil, nil
			}
			return fc, nil
		case Continue:
			if fc.Target == NoTarget || fc.Target == s.LoopID {
				continue
			}
			return fc, nil
		}
	}
}

// ForStatement covers both for-loop shapes of this language: a counted
// `for i from a to b [step s] do ... end` (loopIter, driven by LoopIter)
// and a `for v in expr do ... end` over an Iterable (collIter, driven by
// Source). Exactly one of the two iteration descriptors is non-nil.
type ForStatement struct {
	Tok    token.Token
	LoopID uint64
	Body   Statement

	// loopIter shape
	LoopIter *LoopIter

	// collIter shape
	ElementSetter scope.Setter
	Source        Expression
}

// LoopIter describes the counted for-loop's induction variable, bounds
// and step. DownTo reverses the comparison and step sign.
type LoopIter struct {
	VarSetter scope.Setter
	From, To  Expression
	Step      Expression // nil means step 1
	DownTo    bool
}

func (s *ForStatement) Token() token.Token { return s.Tok }
func (s *ForStatement) Execute(ctx *scope.Context) (*FlowControl, error) {
	if s.LoopIter != nil {
		return s.execLoopIter(ctx)
	}
	return s.execCollIter(ctx)
}

func (s *ForStatement) execLoopIter(ctx *scope.Context) (*FlowControl, error) {
	li := s.LoopIter
	from, err := li.From.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	to, err := li.To.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	var step values.Value
	if li.Step != nil {
		step, err = li.Step.Evaluate(ctx)
		if err != nil {
			return nil, err
		}
	} else {
		step = values.NewFloat(ctx.Backend.FromFloat64(1))
	}

	cur := from
	for {
		var done bool
		if li.DownTo {
			done, err = values.Less(cur, to)
		} else {
			done, err = values.Greater(cur, to)
		}
		if err != nil {
			return nil, wrapTyped(ctx, s.Tok, err)
		}
		if done {
			return nil, nil
		}
		if err := li.VarSetter.Set(ctx, s.Tok, cur); err != nil {
			return nil, wrapTyped(ctx, s.Tok, err)
		}
		fc, err := s.Body.Execute(ctx)
		if err != nil {
			return nil, err
		}
		if fc != nil {
			switch fc.Kind {
			case Return:
				return fc, nil
			case Break:
				if fc.Target == NoTarget || fc.Target == s.LoopID {
					return nil, nil
				}
				return fc, nil
			case Continue:
				if fc.Target != NoTarget && fc.Target != s.LoopID {
					return fc, nil
				}
			}
		}
		var next values.Value
		if li.DownTo {
			next, err = values.Sub(cur, step)
		} else {
			next, err = values.Add(cur, step)
		}
		if err != nil {
			return nil, wrapTyped(ctx, s.Tok, err)
		}
		cur = next
	}
}

func (s *ForStatement) execCollIter(ctx *scope.Context) (*FlowControl, error) {
	src, err := s.Source.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	elems, err := values.ElementsOf(src)
	if err != nil {
		return nil, wrapTyped(ctx, s.Tok, err)
	}
	for _, el := range elems {
		if err := s.ElementSetter.Set(ctx, s.Tok, el); err != nil {
			return nil, wrapTyped(ctx, s.Tok, err)
		}
		fc, err := s.Body.Execute(ctx)
		if err != nil {
			return nil, err
		}
		if fc == nil {
			continue
		}
		switch fc.Kind {
		case Return:
			return fc, nil
		case Break:
			if fc.Target == NoTarget || fc.Target == s.LoopID {
				return nil, nil
			}
			return fc, nil
		case Continue:
			if fc.Target == NoTarget || fc.Target == s.LoopID {
				continue
			}
			return fc, nil
		}
	}
	return nil, nil
}

// CaseContainer is one `[also] case cond is body` arm of a Select
// statement. Condition is the single discriminant this arm matches
// against the selector (nil for the `else` arm, meaning always match);
// Lower, when non-nil, makes this a `from Lower to Condition` range case.
// Breaking is false only when the arm was introduced with `also`: such
// an arm is tested against the selector like any other arm, and it also
// runs untested when execution falls through from the arm before it;
// fallthrough continues past it into the next arm in turn.
type CaseContainer struct {
	Tok       token.Token
	Condition Expression
	Lower     Expression // non-nil only for a `from Lower to Condition` range case
	Below     bool       // this arm matches "below" Condition
	Above     bool       // this arm matches "above" Condition
	Breaking  bool       // false if this arm was introduced with `also`
	Body      Statement
}

// SelectStatement is `select val from [also] case cond is ... [also] case
// else is ... end`: the selector is evaluated once, then the first
// matching arm's body runs; execution then falls through into each
// subsequent arm, without re-testing its condition, for as long as that
// next arm was declared with `also` (Breaking == false), mirroring the
// original engine's do-while fallthrough loop.
type SelectStatement struct {
	Tok      token.Token
	Selector Expression
	Cases    []*CaseContainer
}

func (s *SelectStatement) Token() token.Token { return s.Tok }
func (s *SelectStatement) Execute(ctx *scope.Context) (*FlowControl, error) {
	sel, err := s.Selector.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	for i := 0; i < len(s.Cases); i++ {
		matched, err := caseMatches(ctx, sel, s.Cases[i])
		if err != nil {
			return nil, err
		}
		if !matched {
			continue
		}
		for {
			fc, err := s.Cases[i].Body.Execute(ctx)
			if err != nil {
				return nil, err
			}
			if fc != nil {
				return fc, nil
			}
			i++
			if i >= len(s.Cases) || s.Cases[i].Breaking {
				break
			}
		}
		break
	}
	return nil, nil
}

func caseMatches(ctx *scope.Context, sel values.Value, c *CaseContainer) (bool, error) {
	if c.Condition == nil {
		return true, nil // case else
	}
	if c.Lower != nil {
		lo, err := c.Lower.Evaluate(ctx)
		if err != nil {
			return false, err
		}
		hi, err := c.Condition.Evaluate(ctx)
		if err != nil {
			return false, err
		}
		withinLow, err := values.Leq(lo, sel)
		if err != nil {
			return false, wrapTyped(ctx, c.Body.Token(), err)
		}
		withinHigh, err := values.Geq(hi, sel)
		if err != nil {
			return false, wrapTyped(ctx, c.Body.Token(), err)
		}
		return withinLow && withinHigh, nil
	}
	v, err := c.Condition.Evaluate(ctx)
	if err != nil {
		return false, err
	}
	switch {
	case c.Below:
		ok, err := values.Less(sel, v)
		if err != nil {
			return false, wrapTyped(ctx, c.Body.Token(), err)
		}
		return ok, nil
	case c.Above:
		ok, err := values.Greater(sel, v)
		if err != nil {
			return false, wrapTyped(ctx, c.Body.Token(), err)
		}
		return ok, nil
	default:
		return values.Equal(sel, v), nil
	}
}

// FlowControlStatement emits a Return/Break/Continue signal.
type FlowControlStatement struct {
	Tok    token.Token
	Kind   FlowControlKind
	Target uint64
	Value  Expression // non-nil only for Return
}

func (s *FlowControlStatement) Token() token.Token { return s.Tok }
func (s *FlowControlStatement) Execute(ctx *scope.Context) (*FlowControl, error) {
	var v values.Value
	if s.Value != nil {
		val, err := s.Value.Evaluate(ctx)
		if err != nil {
			return nil, err
		}
		v = val
	}
	return &FlowControl{Kind: s.Kind, Target: s.Target, Value: v, Source: s.Tok}, nil
}

// The following five statement types are the "standard function body"
// leaf shapes of this language, used to wrap native standard-library
// functions (lang/stdlib) as callable Function values without a parsed
// Script body backing them: each reads its operands straight out of the
// calling frame's Args and returns a Return FlowControl.

// ConstantBody always returns the same value, regardless of arguments
// (used for stdlib constants like NaN()).
type ConstantBody struct {
	Tok   token.Token
	Value values.Value
}

func (s *ConstantBody) Token() token.Token { return s.Tok }
func (s *ConstantBody) Execute(ctx *scope.Context) (*FlowControl, error) {
	return &FlowControl{Kind: Return, Value: s.Value, Source: s.Tok}, nil
}

// UnaryBody calls a native single-argument function over frame Arg 0.
type UnaryBody struct {
	Tok token.Token
	Fn  func(values.Value) (values.Value, error)
}

func (s *UnaryBody) Token() token.Token { return s.Tok }
func (s *UnaryBody) Execute(ctx *scope.Context) (*FlowControl, error) {
	fr := ctx.Frame()
	if fr == nil || len(fr.Args) < 1 {
		return nil, errors.NewFatalError(s.Tok, "native function called without its argument")
	}
	v, err := s.Fn(fr.Args[0])
	if err != nil {
		return nil, wrapTyped(ctx, s.Tok, err)
	}
	return &FlowControl{Kind: Return, Value: v, Source: s.Tok}, nil
}

// UnaryWithContextBody is UnaryBody's variant for native functions that
// need access to the Context itself (e.g. Eval, EvalCell and the logging
// functions -- anything that re-enters the evaluator or writes to the
// context's output).
type UnaryWithContextBody struct {
	Tok token.Token
	Fn  func(ctx *scope.Context, tok token.Token, arg values.Value) (values.Value, error)
}

func (s *UnaryWithContextBody) Token() token.Token { return s.Tok }
func (s *UnaryWithContextBody) Execute(ctx *scope.Context) (*FlowControl, error) {
	fr := ctx.Frame()
	if fr == nil || len(fr.Args) < 1 {
		return nil, errors.NewFatalError(s.Tok, "native function called without its argument")
	}
	v, err := s.Fn(ctx, s.Tok, fr.Args[0])
	if err != nil {
		return nil, wrapTyped(ctx, s.Tok, err)
	}
	return &FlowControl{Kind: Return, Value: v, Source: s.Tok}, nil
}

// BinaryBody calls a native two-argument function over frame Args 0, 1.
type BinaryBody struct {
	Tok token.Token
	Fn  func(ctx *scope.Context, tok token.Token, a, b values.Value) (values.Value, error)
}

func (s *BinaryBody) Token() token.Token { return s.Tok }
func (s *BinaryBody) Execute(ctx *scope.Context) (*FlowControl, error) {
	fr := ctx.Frame()
	if fr == nil || len(fr.Args) < 2 {
		return nil, errors.NewFatalError(s.Tok, "native function called without both arguments")
	}
	v, err := s.Fn(ctx, s.Tok, fr.Args[0], fr.Args[1])
	if err != nil {
		return nil, wrapTyped(ctx, s.Tok, err)
	}
	return &FlowControl{Kind: Return, Value: v, Source: s.Tok}, nil
}

// TernaryBody calls a native three-argument function over frame Args 0-2
// (used by stdlib functions like SetIndex/Insert).
type TernaryBody struct {
	Tok token.Token
	Fn  func(ctx *scope.Context, tok token.Token, a, b, c values.Value) (values.Value, error)
}

func (s *TernaryBody) Token() token.Token { return s.Tok }
func (s *TernaryBody) Execute(ctx *scope.Context) (*FlowControl, error) {
	fr := ctx.Frame()
	if fr == nil || len(fr.Args) < 3 {
		return nil, errors.NewFatalError(s.Tok, "native function called without all three arguments")
	}
	v, err := s.Fn(ctx, s.Tok, fr.Args[0], fr.Args[1], fr.Args[2])
	if err != nil {
		return nil, wrapTyped(ctx, s.Tok, err)
	}
	return &FlowControl{Kind: Return, Value: v, Source: s.Tok}, nil
}
