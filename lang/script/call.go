package script

import (
	"github.com/cellscript/cellscript/lang/errors"
	"github.com/cellscript/cellscript/lang/scope"
	"github.com/cellscript/cellscript/lang/token"
	"github.com/cellscript/cellscript/lang/values"
)

func errFatalNotCallable(v values.Value) error {
	return errors.NewFatalError(token.Token{}, "value of type %s is not callable", v.TypeName())
}

func errFatalExpiredSelfRef() error {
	return errors.NewFatalError(token.Token{}, "self-reference used outside its defining function body")
}

// Call implements this language: arity is checked up front (a mismatch is
// fatal, never recoverable), arguments were already evaluated
// left-to-right by the caller, a new StackFrame is pushed with the
// function's captures copied in, the body executes, and the frame is
// unlinked on every exit path including a panic-free error return. The
// body must yield a Return FlowControl; falling off the end of a function
// body without one is fatal (this language "a function body that completes
// without a Return is a fatal error").
func Call(ctx *scope.Context, fn *values.Function, callTok token.Token, args []values.Value) (values.Value, error) {
	if len(args) != fn.Def.NArgs {
		return nil, errors.NewFatalError(callTok, "function %s expects %d argument(s), got %d", fn.Def.Name, fn.Def.NArgs, len(args))
	}
	body, ok := fn.Def.Body.(Statement)
	if !ok {
		return nil, errors.NewFatalError(callTok, "function %s has no executable body", fn.Def.Name)
	}

	def := &scope.FunctionDef{
		Name:      fn.Def.Name,
		NArgs:     fn.Def.NArgs,
		NLocals:   fn.Def.NLocals,
		NCaptures: fn.Def.NCaptures,
	}
	frame := scope.NewStackFrame(def, callTok, ctx.Frame())
	for i, a := range args {
		frame.SetArg(i, a)
	}
	for i, c := range fn.Captures {
		frame.SetCapture(i, c)
	}

	ctx.PushFrame(frame)
	defer ctx.PopFrame()

	fc, err := body.Execute(ctx)
	if err != nil {
		return nil, err
	}
	if fc == nil || fc.Kind != Return {
		return nil, errors.NewFatalError(callTok, "function %s completed without returning a value", fn.Def.Name)
	}
	if fc.Value == nil {
		return values.NewFloat(ctx.Backend.Zero()), nil
	}
	return fc.Value, nil
}
