// Package parser builds the Script expression/statement trees directly
// during a single recursive-descent pass, resolving every identifier to a
// Getter/Setter handle as it goes -- grounded on
// Backwards/Parser/SymbolTable.cpp's pushScope/pushContext/addVariable/
// getVariableGetter family, adapted to the enum-dispatch handle shape of
// lang/scope.
package parser

import (
	"fmt"

	"github.com/cellscript/cellscript/lang/scope"
	"github.com/cellscript/cellscript/lang/script"
)

// funcCtx tracks the args/locals/captures of the function currently being
// parsed; nested function literals push a new funcCtx whose captures
// resolve through the enclosing one.
type funcCtx struct {
	parent *funcCtx

	argIndex map[string]int
	argNames []string

	localIndex map[string]int
	localNames []string

	capIndex map[string]int
	capNames []string

	// selfName/selfRef let the function body reference itself by name for
	// recursion.
	selfName string
	selfRef  *script.SelfFunctionRef
}

// SymbolTable resolves names to Getter/Setter handles during parsing:
// lookup order is frame args -> frame locals -> frame captures (by
// walking enclosing funcCtx chain and adding a capture slot on demand) ->
// the active self-recursive function name -> the single local scope ->
// globals.
type SymbolTable struct {
	global *scope.Scope
	local  *scope.Scope

	fn *funcCtx

	loopStack  []uint64
	loopNames  map[uint64]string
	nextLoopID uint64

	// funcNames tracks names bound (at scope/global level) to a Function
	// value, function-typed bindings cannot be reassigned.
	funcNames map[string]bool
}

func NewSymbolTable(global, local *scope.Scope) *SymbolTable {
	return &SymbolTable{
		global:    global,
		local:     local,
		loopNames: map[uint64]string{},
		funcNames: map[string]bool{},
	}
}

func (st *SymbolTable) PushFunction(selfName string, selfRef *script.SelfFunctionRef) {
	st.fn = &funcCtx{
		parent:     st.fn,
		argIndex:   map[string]int{},
		localIndex: map[string]int{},
		capIndex:   map[string]int{},
		selfName:   selfName,
		selfRef:    selfRef,
	}
}

func (st *SymbolTable) PopFunction() *funcCtx {
	f := st.fn
	st.fn = f.parent
	return f
}

func (st *SymbolTable) AddArgument(name string) scope.Setter {
	f := st.fn
	idx := len(f.argNames)
	f.argIndex[name] = idx
	f.argNames = append(f.argNames, name)
	return scope.Setter{Class: scope.ArgClass, Index: idx}
}

// NewLoop allocates a fresh loop id and pushes it as the innermost loop.
func (st *SymbolTable) NewLoop() uint64 {
	st.nextLoopID++
	id := st.nextLoopID
	st.loopStack = append(st.loopStack, id)
	return id
}

func (st *SymbolTable) NameLoop(id uint64, label string) {
	if label != "" {
		st.loopNames[id] = label
	}
}

func (st *SymbolTable) PopLoop() {
	st.loopStack = st.loopStack[:len(st.loopStack)-1]
}

// GetLoop resolves a break/continue label to its loop id; an empty label
// means the nearest enclosing loop (script.NoTarget).
func (st *SymbolTable) GetLoop(label string) (uint64, error) {
	if label == "" {
		return script.NoTarget, nil
	}
	for i := len(st.loopStack) - 1; i >= 0; i-- {
		id := st.loopStack[i]
		if st.loopNames[id] == label {
			return id, nil
		}
	}
	return 0, fmt.Errorf("no enclosing loop named %q", label)
}

// Getter resolves name per the lookup order, adding a capture slot to
// the current function context on demand when the name is found in an
// enclosing function or the self-recursive name.
func (st *SymbolTable) Getter(name string) (scope.Getter, *script.SelfFunctionRef, error) {
	if st.fn != nil {
		if idx, ok := st.fn.argIndex[name]; ok {
			return scope.Getter{Class: scope.ArgClass, Index: idx}, nil, nil
		}
		if idx, ok := st.fn.localIndex[name]; ok {
			return scope.Getter{Class: scope.LocalClass, Index: idx}, nil, nil
		}
		if idx, ok := st.fn.capIndex[name]; ok {
			return scope.Getter{Class: scope.CaptureClass, Index: idx}, nil, nil
		}
		if st.fn.selfName == name {
			return scope.Getter{}, st.fn.selfRef, nil
		}
		// search enclosing functions: if found, capture it into every
		// function context between here and there.
		if g, selfRef, ok := st.resolveOuter(st.fn.parent, name); ok {
			if selfRef != nil {
				return scope.Getter{}, selfRef, nil
			}
			idx := len(st.fn.capNames)
			st.fn.capIndex[name] = idx
			st.fn.capNames = append(st.fn.capNames, name)
			_ = g
			return scope.Getter{Class: scope.CaptureClass, Index: idx}, nil, nil
		}
	}
	if idx, ok := st.local.Lookup(name); ok {
		return scope.Getter{Class: scope.ScopeClass, Index: idx}, nil, nil
	}
	if idx, ok := st.global.Lookup(name); ok {
		return scope.Getter{Class: scope.GlobalClass, Index: idx}, nil, nil
	}
	return scope.Getter{}, nil, fmt.Errorf("undefined name %q", name)
}

// resolveOuter walks enclosing function contexts looking for name as an
// arg/local/self, reporting whether capture-chaining should occur.
func (st *SymbolTable) resolveOuter(f *funcCtx, name string) (scope.Getter, *script.SelfFunctionRef, bool) {
	if f == nil {
		return scope.Getter{}, nil, false
	}
	if idx, ok := f.argIndex[name]; ok {
		return scope.Getter{Class: scope.ArgClass, Index: idx}, nil, true
	}
	if idx, ok := f.localIndex[name]; ok {
		return scope.Getter{Class: scope.LocalClass, Index: idx}, nil, true
	}
	if f.selfName == name {
		return scope.Getter{}, f.selfRef, true
	}
	if idx, ok := f.capIndex[name]; ok {
		return scope.Getter{Class: scope.CaptureClass, Index: idx}, nil, true
	}
	return st.resolveOuter(f.parent, name)
}

// Setter resolves name for a SET statement: an existing
// binding is reused; otherwise, inside a function a new local is created
// (first-write-creates), outside a function a new scope variable is
// created. Reassigning a function-typed binding is rejected.
func (st *SymbolTable) Setter(name string) (scope.Setter, error) {
	if st.funcNames[name] {
		return scope.Setter{}, fmt.Errorf("cannot reassign function binding %q", name)
	}
	if st.fn != nil {
		if idx, ok := st.fn.argIndex[name]; ok {
			return scope.Setter{Class: scope.ArgClass, Index: idx}, nil
		}
		if idx, ok := st.fn.localIndex[name]; ok {
			return scope.Setter{Class: scope.LocalClass, Index: idx}, nil
		}
		if idx, ok := st.fn.capIndex[name]; ok {
			return scope.Setter{Class: scope.CaptureClass, Index: idx}, nil
		}
		if g, _, ok := st.resolveOuter(st.fn.parent, name); ok {
			idx := len(st.fn.capNames)
			st.fn.capIndex[name] = idx
			st.fn.capNames = append(st.fn.capNames, name)
			_ = g
			return scope.Setter{Class: scope.CaptureClass, Index: idx}, nil
		}
		idx := len(st.fn.localNames)
		st.fn.localIndex[name] = idx
		st.fn.localNames = append(st.fn.localNames, name)
		return scope.Setter{Class: scope.LocalClass, Index: idx}, nil
	}
	if idx, ok := st.local.Lookup(name); ok {
		return scope.Setter{Class: scope.ScopeClass, Index: idx}, nil
	}
	idx := st.local.Declare(name)
	return scope.Setter{Class: scope.ScopeClass, Index: idx}, nil
}

// DeclareFunctionName marks name as bound to a Function value at the
// current (scope or global) level, so a later SET is rejected, and
// declares it into the appropriate scope.
func (st *SymbolTable) DeclareFunctionName(name string) (scope.Setter, error) {
	st.funcNames[name] = true
	idx := st.local.Declare(name)
	return scope.Setter{Class: scope.ScopeClass, Index: idx}, nil
}
