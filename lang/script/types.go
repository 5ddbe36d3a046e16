// Package script implements the Script tree-walking executor of this language:
// statements, flow-control tokens, recursive nested assignment, and the
// two for-loop shapes, plus the Expression tree shared with function
// calls and the standard library's native-function wrapper statements
//.
package script

import (
	"github.com/cellscript/cellscript/lang/errors"
	"github.com/cellscript/cellscript/lang/scope"
	"github.com/cellscript/cellscript/lang/token"
	"github.com/cellscript/cellscript/lang/values"
)

// Expression is the interface every Script expression tree node
// implements (this language "Expression/statement trees... immutable,
// shareable, hold tokens for diagnostics").
type Expression interface {
	Token() token.Token
	Evaluate(ctx *scope.Context) (values.Value, error)
}

// Statement is the interface every Script statement tree node implements.
// Execute returns an optional FlowControl signal .
type Statement interface {
	Token() token.Token
	Execute(ctx *scope.Context) (*FlowControl, error)
}

// FlowControlKind distinguishes Return/Break/Continue.
type FlowControlKind uint8

const (
	Return FlowControlKind = iota
	Break
	Continue
)

// NoTarget is the sentinel meaning "nearest enclosing loop" for
// Break/Continue targets (this language: "Target 0 means nearest enclosing
// loop").
const NoTarget uint64 = 0

// FlowControl is the token returned by a statement to signal return or
// loop control.
type FlowControl struct {
	Kind   FlowControlKind
	Target uint64
	Value  values.Value
	Source token.Token
}

// wrapTyped promotes any error raised by the values/numeric layer (which
// carry no position) into a lang/errors.TypedOperationError annotated with
// tok, and invokes the debugger hook if one is attached, before returning
// it up the call chain (this language "every operator/statement that catches a
// TypedOperationException wraps it with its own token position... and,
// when a debugger is attached, invokes EnterDebugger... before
// rethrowing").
func wrapTyped(ctx *scope.Context, tok token.Token, err error) error {
	if err == nil {
		return nil
	}
	if errors.IsFatal(err) {
		wrapped := errors.WrapFatal(tok, err)
		enterDebugger(ctx, wrapped.Error(), tok)
		return wrapped
	}
	wrapped := errors.Wrap(tok, err)
	enterDebugger(ctx, wrapped.Error(), tok)
	return wrapped
}

func enterDebugger(ctx *scope.Context, message string, tok token.Token) {
	if ctx.Debugger == nil {
		return
	}
	// The debugger hook itself may return an error (e.g. reading the
	// user's input failed); that is reported to Stderr but never
	// propagated, since EnterDebugger's job is diagnostic, not control flow.
	if err := ctx.Debugger(ctx, message, tok); err != nil {
		if ctx.Stderr != nil {
			_, _ = ctx.Stderr.Write([]byte("debugger: " + err.Error() + "\n"))
		}
	}
}
