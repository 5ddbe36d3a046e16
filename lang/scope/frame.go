package scope

import (
	"github.com/cellscript/cellscript/lang/token"
	"github.com/cellscript/cellscript/lang/values"
)

// FunctionDef is the static, parse-time shape of a user-defined function
//: name, arg/local/capture counts, the
// statement body and the arg/local/capture name lists (slot order) built
// by the parser's SymbolTable (lang/script/parser). Body is typed as any to
// avoid an import cycle with lang/script, which defines the Statement type; the
// executor type-asserts it back when it calls the function.
type FunctionDef struct {
	Name      string
	Body      any
	NArgs     int
	NLocals   int
	NCaptures int

	ArgNames     []string
	LocalNames   []string
	CaptureNames []string
}

// StackFrame is a runtime activation record for a function call (this language,
// "calling with k args produces exactly one new frame whose depth is
// prev.depth+1"). Frames are stack-allocated at the call site and linked
// into the live call stack via Prev/Next; ownership is never transferred.
type StackFrame struct {
	Def   *FunctionDef
	Args  []values.Value
	Local []values.Value
	Cap   []values.Value

	argSet   []bool
	localSet []bool

	CallToken token.Token
	Depth     int

	Prev, Next *StackFrame
}

func NewStackFrame(def *FunctionDef, callToken token.Token, prev *StackFrame) *StackFrame {
	depth := 0
	if prev != nil {
		depth = prev.Depth + 1
	}
	return &StackFrame{
		Def:       def,
		Args:      make([]values.Value, def.NArgs),
		Local:     make([]values.Value, def.NLocals),
		Cap:       make([]values.Value, def.NCaptures),
		argSet:    make([]bool, def.NArgs),
		localSet:  make([]bool, def.NLocals),
		CallToken: callToken,
		Depth:     depth,
		Prev:      prev,
	}
}

func (f *StackFrame) SetArg(i int, v values.Value) {
	f.Args[i] = v
	f.argSet[i] = true
}

func (f *StackFrame) SetLocal(i int, v values.Value) {
	f.Local[i] = v
	f.localSet[i] = true
}

// SetCapture stores into this frame's own copy of a captured slot. Per
// this language open question, this is deliberately local-to-frame: writing
// through a CaptureSetter never propagates back to the defining closure's
// capture vector, it only affects this activation.
func (f *StackFrame) SetCapture(i int, v values.Value) { f.Cap[i] = v }

func (f *StackFrame) ArgIsSet(i int) bool   { return i >= 0 && i < len(f.argSet) && f.argSet[i] }
func (f *StackFrame) LocalIsSet(i int) bool { return i >= 0 && i < len(f.localSet) && f.localSet[i] }
