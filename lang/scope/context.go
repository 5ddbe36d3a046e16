package scope

import (
	"io"
	"os"

	"github.com/cellscript/cellscript/lang/numeric"
	"github.com/cellscript/cellscript/lang/token"
	"github.com/cellscript/cellscript/lang/values"
)

// CellEvaluator is the narrow interface the evaluator needs from the Cell
// layer (lang/cell) without importing it: given a cell reference, produce
// its current value, consulting/populating the generation-keyed cache
//. A Context with no CellEval attached rejects CellRef
// evaluation, which is fine for pure-Script embeddings.
type CellEvaluator interface {
	Eval(ctx *Context, ref values.CellRef) (values.Value, error)
}

// DebugHook is invoked at the point of a runtime error (this language
// "EnterDebugger(message, ctx)"). A nil hook disables the debugger.
type DebugHook func(ctx *Context, message string, tok token.Token) error

// Context is the CallingContext of this language: it carries the global scope,
// the single optional local scope, the live call-stack, the process-wide
// numeric configuration, the monotonic generation counter used to
// invalidate per-cell caches, and the debugger hook. Embedders must
// externally serialize all access to a Context: nothing here is safe for
// concurrent use without an external lock.
type Context struct {
	Global *Scope
	Local  *Scope

	callStack *StackFrame

	Backend numeric.Backend

	// Generation is incremented by the embedder between recomputations; the
	// Cell evaluator's per-cell cache (lang/cell) is keyed by this value
	//.
	Generation uint64

	Debugger DebugHook

	CellEval CellEvaluator

	Stdout io.Writer
	Stderr io.Writer
}

// CellEvaluator returns the attached cell evaluator, or nil if none is
// configured.
func (c *Context) CellEvaluator() CellEvaluator { return c.CellEval }

// NewContext builds a Context with fresh global/local scopes over the
// given number backend.
func NewContext(backend numeric.Backend) *Context {
	return &Context{
		Global:  NewScope(),
		Local:   NewScope(),
		Backend: backend,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Frame returns the currently executing call frame, or nil at toplevel.
func (c *Context) Frame() *StackFrame { return c.callStack }

// PushFrame links a new frame onto the call stack as the active frame.
func (c *Context) PushFrame(fr *StackFrame) {
	fr.Prev = c.callStack
	if c.callStack != nil {
		c.callStack.Next = fr
	}
	c.callStack = fr
}

// PopFrame unlinks the active frame, restoring its predecessor:
// "The frame is unlinked on any exit path."
func (c *Context) PopFrame() {
	if c.callStack == nil {
		return
	}
	prev := c.callStack.Prev
	if prev != nil {
		prev.Next = nil
	}
	c.callStack = prev
}

// Duplicate returns a shallow copy of the context sharing the same scopes
// and call stack but with an independent Debugger field, so the copy's
// hook can be changed or cleared without affecting c.
func (c *Context) Duplicate() *Context {
	cp := *c
	return &cp
}
