// Package errors defines the two error kinds produced by the evaluation
// core: a recoverable TypedOperationError and an unrecoverable
// FatalError. Both carry the source token of the operation that raised
// them and support wrapping, so that every layer that catches one on its
// way up can annotate it with its own token without losing the original
// message, mirroring the original engine's catch-annotate-rethrow chain.
package errors

import (
	"errors"
	"fmt"

	"github.com/cellscript/cellscript/lang/token"
)

// TypedOperationError is raised by type mismatches in arithmetic or
// comparison, out-of-range indices, absent dictionary keys, bad arguments
// to standard library functions, and iteration over non-collections. It is
// recoverable at the expression boundary: a Cell evaluation that fails with
// one displays the error in place of a value, and other cells keep
// evaluating.
type TypedOperationError struct {
	Tok     token.Token
	Message string
	cause   error
}

func NewTypedOperationError(tok token.Token, format string, args ...any) *TypedOperationError {
	return &TypedOperationError{Tok: tok, Message: fmt.Sprintf(format, args...)}
}

func (e *TypedOperationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Tok, e.Message)
}

func (e *TypedOperationError) Unwrap() error { return e.cause }

// Wrap re-annotates err with a new enclosing token, the way every statement
// and operator that catches a TypedOperationError prefixes it with its own
// position before it continues to propagate. If err is already a
// TypedOperationError its message is preserved and chained as the cause;
// any other error is wrapped as-is.
func Wrap(tok token.Token, err error) *TypedOperationError {
	if err == nil {
		return nil
	}
	var top *TypedOperationError
	if errors.As(err, &top) {
		return &TypedOperationError{Tok: tok, Message: top.Message, cause: err}
	}
	return &TypedOperationError{Tok: tok, Message: err.Error(), cause: err}
}

// FatalError is an unrecoverable control-flow violation: a missing return,
// an unmatched break/continue, a call to a non-function, an arity
// mismatch, or a read before a slot has ever been assigned. The evaluator
// does not catch it; only the embedder, at the top of an entry point, does.
type FatalError struct {
	Tok     token.Token
	Message string
	cause   error
}

func NewFatalError(tok token.Token, format string, args ...any) *FatalError {
	return &FatalError{Tok: tok, Message: fmt.Sprintf(format, args...)}
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal: %s: %s", e.Tok, e.Message)
}

func (e *FatalError) Unwrap() error { return e.cause }

func WrapFatal(tok token.Token, err error) *FatalError {
	if err == nil {
		return nil
	}
	var fe *FatalError
	if errors.As(err, &fe) {
		return &FatalError{Tok: tok, Message: fe.Message, cause: err}
	}
	return &FatalError{Tok: tok, Message: err.Error(), cause: err}
}

// IsFatal reports whether err is (or wraps) a FatalError, as opposed to a
// recoverable TypedOperationError.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}
