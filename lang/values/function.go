package values

import "fmt"

// FunctionDefinition is the static, shareable part of a user-defined
// Script function: its name (for diagnostics), arities and body. The
// arg/local/capture name lists live in the scope layer
// (lang/scope.FunctionDef); here we only need the
// shape the value model requires to call it. Body is an opaque statement
// executed by the Script executor (lang/script); it is typed as any here
// to avoid a values→script import cycle, and type-asserted back by the
// executor when it calls a Function.
type FunctionDefinition struct {
	Name      string
	NArgs     int
	NLocals   int
	NCaptures int
	Body      any // a script.Statement, executed by the script package's Call
}

// Function pairs a FunctionDefinition with a concrete vector of captured
// values. Function values compare by identity (this language
// equality rule for Function is "identity-based").
type Function struct {
	Def      *FunctionDefinition
	Captures []Value
}

var _ Value = (*Function)(nil)

func (f *Function) TypeName() string { return "function" }

func (f *Function) String() string {
	if f.Def.Name != "" {
		return fmt.Sprintf("function %s", f.Def.Name)
	}
	return fmt.Sprintf("function(%p)", f)
}

func (f *Function) id() string { return fmt.Sprintf("%p", f) }

// SameIdentity reports whether f and o are the exact same function value,
// the equality relation this language assigns to Function.
func (f *Function) SameIdentity(o *Function) bool { return f == o }
