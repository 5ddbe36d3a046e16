// Package values implements the tagged value model of this language: Float,
// String, Array, Dictionary, Function, CellRef and CellRange, plus the
// uniform operation contract of this language (neg, add, sub, mul, div,
// logical, equal, compare, hash, index).
//
// Values are immutable and freely shared: every
// mutating-looking operation (SetIndex, Insert) returns a new value
// instead of mutating the receiver.
package values

import "fmt"

// Value is the interface implemented by every variant of this language tagged
// union.
type Value interface {
	// TypeName is the short, lowercase name used in type-mismatch
	// diagnostics ("float", "string", "array", "dictionary", "function",
	// "cellref", "cellrange").
	TypeName() string

	// String renders the value for display (ToString builtin, Info/Error
	// logging, debugger "print").
	String() string
}

// Indexable is implemented by values that can appear as the container
// operand of DerefVar (x[i]), this language
type Indexable interface {
	Value
	Index(i Value) (Value, error)
}

// SettableIndex is implemented by values whose indexed-write produces a new
// container with one slot replaced (this language: Array.SetIndex,
// Dictionary.Insert).
type SettableIndex interface {
	Indexable
	SetIndex(i, v Value) (Value, error)
}

// Iterable is implemented by values that can be the target of a Script
// `for v in expr` statement : Array, Dictionary,
// CellRange.
type Iterable interface {
	Value
	// Elements returns the sequence of values to iterate. For a Dictionary
	// each element is a two-element Array [key, value].
	Elements() ([]Value, error)
}

// ErrorValuef is a small helper used throughout this package to build a
// fmt-style string without importing lang/errors here (lang/errors itself
// does not depend on values, so this package stays leaf-level and callers
// wrap the returned plain error with lang/errors.Wrap/NewTypedOperationError
// at the point where they have a token).
func errorf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
