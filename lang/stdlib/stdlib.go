// Package stdlib implements the standard library table: every
// entry is a native Go function wrapped in one of the five Script
// "standard function body" leaf statements (lang/script's ConstantBody/
// UnaryBody/UnaryWithContextBody/BinaryBody/TernaryBody) or, for the
// zero-argument context readers, in this package's nullaryCtxBody, so
// each is a plain Function value that calls like any user-defined one. Grounded on
// Backwards/Parser/ContextBuilder.cpp's addFunction table and
// Backwards/Engine/StandardFunctions.cpp's implementations.
package stdlib

import (
	"fmt"
	"strings"

	"github.com/cellscript/cellscript/lang/errors"
	"github.com/cellscript/cellscript/lang/scope"
	"github.com/cellscript/cellscript/lang/script"
	"github.com/cellscript/cellscript/lang/token"
	"github.com/cellscript/cellscript/lang/values"
)

var builtinTok = token.MakeToken("<builtin>", 0, 0, "")

func constFn(name string, nargs int, v values.Value) *values.Function {
	return &values.Function{Def: &values.FunctionDefinition{
		Name: name, NArgs: nargs, Body: &script.ConstantBody{Tok: builtinTok, Value: v},
	}}
}

func unaryFn(name string, fn func(values.Value) (values.Value, error)) *values.Function {
	return &values.Function{Def: &values.FunctionDefinition{
		Name: name, NArgs: 1, Body: &script.UnaryBody{Tok: builtinTok, Fn: fn},
	}}
}

func unaryCtxFn(name string, fn func(ctx *scope.Context, tok token.Token, a values.Value) (values.Value, error)) *values.Function {
	return &values.Function{Def: &values.FunctionDefinition{
		Name: name, NArgs: 1, Body: &script.UnaryWithContextBody{Tok: builtinTok, Fn: fn},
	}}
}

func binaryFn(name string, fn func(ctx *scope.Context, tok token.Token, a, b values.Value) (values.Value, error)) *values.Function {
	return &values.Function{Def: &values.FunctionDefinition{
		Name: name, NArgs: 2, Body: &script.BinaryBody{Tok: builtinTok, Fn: fn},
	}}
}

func ternaryFn(name string, fn func(ctx *scope.Context, tok token.Token, a, b, c values.Value) (values.Value, error)) *values.Function {
	return &values.Function{Def: &values.FunctionDefinition{
		Name: name, NArgs: 3, Body: &script.TernaryBody{Tok: builtinTok, Fn: fn},
	}}
}

func wantFloat(v values.Value, who string) (values.Float, error) {
	f, ok := v.(values.Float)
	if !ok {
		return values.Float{}, fmt.Errorf("%s expects a float, got a %s", who, v.TypeName())
	}
	return f, nil
}

func wantString(v values.Value, who string) (values.String, error) {
	s, ok := v.(values.String)
	if !ok {
		return "", fmt.Errorf("%s expects a string, got a %s", who, v.TypeName())
	}
	return s, nil
}

// Install populates the global scope with every native standard-library
// entry, then runs the bundled Aggregates source (see aggregates.go) so
// MAX/MIN/SUM/COUNT/AVERAGE — deliberately Script source, not native Go,
// per OddsAndEnds/StdLib.cpp's STDLIB constant — are declared before any
// caller-supplied program is parsed against the same Context.
func Install(ctx *scope.Context) {
	for name, fn := range nullary(ctx) {
		declare(ctx, name, fn)
	}
	for name, fn := range unary(ctx) {
		declare(ctx, name, fn)
	}
	for name, fn := range unaryCtx() {
		declare(ctx, name, fn)
	}
	for name, fn := range binary() {
		declare(ctx, name, fn)
	}
	for name, fn := range ternary() {
		declare(ctx, name, fn)
	}
	installAggregates(ctx)
}

func declare(ctx *scope.Context, name string, fn *values.Function) {
	idx := ctx.Global.Declare(name)
	ctx.Global.Set(idx, fn)
}

func nullary(ctx *scope.Context) map[string]*values.Function {
	return map[string]*values.Function{
		"NaN":                 constFn("NaN", 0, values.NewFloat(ctx.Backend.NaN())),
		"NewArray":             constFn("NewArray", 0, values.NewArray(nil)),
		"NewDictionary":        constFn("NewDictionary", 0, values.NewDictionary(0)),
		"GetRoundMode":         unaryCtxNoArgWrap("GetRoundMode", func(ctx *scope.Context) (values.Value, error) {
			return values.NewFloat(ctx.Backend.FromFloat64(float64(ctx.Backend.RoundingMode()))), nil
		}),
		"GetDefaultPrecision": unaryCtxNoArgWrap("GetDefaultPrecision", func(ctx *scope.Context) (values.Value, error) {
			return values.NewFloat(ctx.Backend.FromFloat64(float64(ctx.Backend.DefaultPrecision()))), nil
		}),
		"EnterDebugger": unaryCtxNoArgWrap("EnterDebugger", func(ctx *scope.Context) (values.Value, error) {
			if ctx.Debugger != nil {
				_ = ctx.Debugger(ctx, "EnterDebugger() called", builtinTok)
			}
			return values.NewFloat(ctx.Backend.Zero()), nil
		}),
	}
}

// unaryCtxNoArgWrap adapts a zero-arg, context-only native function to the
// nullary constant-function slot by ignoring Args (UnaryWithContextBody
// still requires one Arg slot at the call site per its arity, so these are
// registered with NArgs: 0 bodies directly instead -- see ConstantBody's
// sibling shape below).
func unaryCtxNoArgWrap(name string, fn func(ctx *scope.Context) (values.Value, error)) *values.Function {
	return &values.Function{Def: &values.FunctionDefinition{
		Name: name, NArgs: 0, Body: &nullaryCtxBody{Tok: builtinTok, Fn: fn},
	}}
}

// nullaryCtxBody is a zero-argument, context-aware native function body
// (GetRoundMode, GetDefaultPrecision, EnterDebugger): these are declared
// at arity 0, so they read no frame Args at all.
type nullaryCtxBody struct {
	Tok token.Token
	Fn  func(ctx *scope.Context) (values.Value, error)
}

func (b *nullaryCtxBody) Token() token.Token { return b.Tok }
func (b *nullaryCtxBody) Execute(ctx *scope.Context) (*script.FlowControl, error) {
	v, err := b.Fn(ctx)
	if err != nil {
		return nil, errors.Wrap(b.Tok, err)
	}
	return &script.FlowControl{Kind: script.Return, Value: v, Source: b.Tok}, nil
}

func unary(ctx *scope.Context) map[string]*values.Function {
	return map[string]*values.Function{
		"Sqr": unaryFn("Sqr", func(v values.Value) (values.Value, error) {
			f, err := wantFloat(v, "Sqr")
			if err != nil {
				return nil, err
			}
			return values.NewFloat(f.N.Mul(f.N)), nil
		}),
		"Abs": unaryFn("Abs", func(v values.Value) (values.Value, error) {
			f, err := wantFloat(v, "Abs")
			if err != nil {
				return nil, err
			}
			if f.N.IsSigned() {
				return values.NewFloat(f.N.Neg()), nil
			}
			return f, nil
		}),
		"Round": unaryFn("Round", func(v values.Value) (values.Value, error) {
			f, err := wantFloat(v, "Round")
			if err != nil {
				return nil, err
			}
			return values.NewFloat(f.N.Round()), nil
		}),
		"Floor": unaryFn("Floor", func(v values.Value) (values.Value, error) {
			f, err := wantFloat(v, "Floor")
			if err != nil {
				return nil, err
			}
			return values.NewFloat(f.N.Floor()), nil
		}),
		"Ceil": unaryFn("Ceil", func(v values.Value) (values.Value, error) {
			f, err := wantFloat(v, "Ceil")
			if err != nil {
				return nil, err
			}
			return values.NewFloat(f.N.Ceil()), nil
		}),
		"ToString": unaryFn("ToString", func(v values.Value) (values.Value, error) {
			return values.String(v.String()), nil
		}),
		"Length": unaryFn("Length", func(v values.Value) (values.Value, error) {
			return sizeOf(v)
		}),
		"Size": unaryFn("Size", func(v values.Value) (values.Value, error) {
			return sizeOf(v)
		}),
		"ToCharacter": unaryFn("ToCharacter", func(v values.Value) (values.Value, error) {
			f, err := wantFloat(v, "ToCharacter")
			if err != nil {
				return nil, err
			}
			return values.String(string(rune(int(f.N.ToFloat64())))), nil
		}),
		"FromCharacter": unaryFn("FromCharacter", func(v values.Value) (values.Value, error) {
			s, err := wantString(v, "FromCharacter")
			if err != nil {
				return nil, err
			}
			r := []rune(string(s))
			if len(r) == 0 {
				return nil, fmt.Errorf("FromCharacter expects a non-empty string")
			}
			return values.NewFloat(ctx.Backend.FromFloat64(float64(r[0]))), nil
		}),
		"IsNaN": unaryFn("IsNaN", func(v values.Value) (values.Value, error) {
			f, ok := v.(values.Float)
			return boolOf(ctx, ok && f.N.IsNaN()), nil
		}),
		"IsInfinity": unaryFn("IsInfinity", func(v values.Value) (values.Value, error) {
			f, ok := v.(values.Float)
			return boolOf(ctx, ok && f.N.IsInf()), nil
		}),
		"IsFloat":      typeCheck(ctx, func(v values.Value) bool { _, ok := v.(values.Float); return ok }),
		"IsString":     typeCheck(ctx, func(v values.Value) bool { _, ok := v.(values.String); return ok }),
		"IsArray":      typeCheck(ctx, func(v values.Value) bool { _, ok := v.(values.Array); return ok }),
		"IsDictionary": typeCheck(ctx, func(v values.Value) bool { _, ok := v.(values.Dictionary); return ok }),
		"IsFunction":   typeCheck(ctx, func(v values.Value) bool { _, ok := v.(*values.Function); return ok }),
		"IsNil":        typeCheck(ctx, func(v values.Value) bool { return v == nil }),
		"IsCellRef":    typeCheck(ctx, func(v values.Value) bool { _, ok := v.(values.CellRef); return ok }),
		"IsCellRange":  typeCheck(ctx, func(v values.Value) bool { _, ok := v.(values.CellRange); return ok }),
		"ValueOf": unaryFn("ValueOf", func(v values.Value) (values.Value, error) {
			s, err := wantString(v, "ValueOf")
			if err != nil {
				return nil, err
			}
			n, err := ctx.Backend.Parse(string(s))
			if err != nil {
				return nil, err
			}
			return values.NewFloat(n), nil
		}),
		"PopFront": unaryFn("PopFront", func(v values.Value) (values.Value, error) {
			a, ok := v.(values.Array)
			if !ok {
				return nil, fmt.Errorf("PopFront expects an array")
			}
			out, _, err := a.PopFront()
			return out, err
		}),
		"PopBack": unaryFn("PopBack", func(v values.Value) (values.Value, error) {
			a, ok := v.(values.Array)
			if !ok {
				return nil, fmt.Errorf("PopBack expects an array")
			}
			out, _, err := a.PopBack()
			return out, err
		}),
		"GetKeys": unaryFn("GetKeys", func(v values.Value) (values.Value, error) {
			d, ok := v.(values.Dictionary)
			if !ok {
				return nil, fmt.Errorf("GetKeys expects a dictionary")
			}
			return d.GetKeys(), nil
		}),
		"SetRoundMode": unaryFn("SetRoundMode", func(v values.Value) (values.Value, error) {
			f, err := wantFloat(v, "SetRoundMode")
			if err != nil {
				return nil, err
			}
			ok := ctx.Backend.SetRoundingMode(numericRoundingMode(f))
			return boolOf(ctx, ok), nil
		}),
		"SetDefaultPrecision": unaryFn("SetDefaultPrecision", func(v values.Value) (values.Value, error) {
			f, err := wantFloat(v, "SetDefaultPrecision")
			if err != nil {
				return nil, err
			}
			ctx.Backend.SetDefaultPrecision(int(f.N.ToFloat64()))
			return values.NewFloat(ctx.Backend.Zero()), nil
		}),
		"GetPrecision": unaryFn("GetPrecision", func(v values.Value) (values.Value, error) {
			f, err := wantFloat(v, "GetPrecision")
			if err != nil {
				return nil, err
			}
			return values.NewFloat(ctx.Backend.FromFloat64(float64(f.N.Precision()))), nil
		}),
	}
}

func sizeOf(v values.Value) (values.Value, error) {
	switch vv := v.(type) {
	case values.String:
		return values.NewFloat(numericLen(len([]rune(string(vv))))), nil
	case values.Array:
		return values.NewFloat(numericLen(vv.Len())), nil
	case values.Dictionary:
		return values.NewFloat(numericLen(vv.Len())), nil
	default:
		return nil, fmt.Errorf("Length/Size expects a string or collection, got a %s", v.TypeName())
	}
}

func unaryCtx() map[string]*values.Function {
	return map[string]*values.Function{
		"Error":      logFn("Error"),
		"Warn":       logFn("Warn"),
		"Info":       logFn("Info"),
		"Fatal":      logFn("Fatal"),
		"DebugPrint": logFn("DebugPrint"),
		"Eval":       unaryCtxFn("Eval", evalFn),
		"EvalCell":   unaryCtxFn("EvalCell", evalCellFn),
		"ExpandRange": unaryCtxFn("ExpandRange", func(ctx *scope.Context, tok token.Token, v values.Value) (values.Value, error) {
			rng, ok := v.(values.CellRange)
			if !ok {
				return nil, fmt.Errorf("ExpandRange expects a cellrange")
			}
			elems, err := rng.Elements()
			if err != nil {
				return nil, err
			}
			return values.NewArray(elems), nil
		}),
	}
}

// logFn builds the four logging-level native functions plus DebugPrint;
// each renders its argument via String() and writes a leveled line to
// ctx.Stdout.
func logFn(level string) *values.Function {
	return unaryCtxFn(level, func(ctx *scope.Context, tok token.Token, v values.Value) (values.Value, error) {
		if ctx.Stdout != nil {
			_, _ = fmt.Fprintf(ctx.Stdout, "%s: %s\n", strings.ToUpper(level), v.String())
		}
		if level == "Fatal" {
			return nil, errors.NewFatalError(tok, "%s", v.String())
		}
		return v, nil
	})
}

func typeCheck(ctx *scope.Context, pred func(values.Value) bool) *values.Function {
	return unaryFn("typecheck", func(v values.Value) (values.Value, error) {
		return boolOf(ctx, pred(v)), nil
	})
}

func boolOf(ctx *scope.Context, b bool) values.Value {
	if b {
		return values.NewFloat(ctx.Backend.FromFloat64(1))
	}
	return values.NewFloat(ctx.Backend.FromFloat64(0))
}

func numericLen(n int) float64 { return float64(n) }
