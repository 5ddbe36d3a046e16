package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellscript/cellscript/lang/token"
)

func tok() token.Token {
	return token.MakeToken("<test>", token.MakePos(3, 7), 0, "")
}

func TestWrapPreservesTheOriginalMessageAndChainsTheCause(t *testing.T) {
	inner := NewTypedOperationError(tok(), "bad index %d", 5)
	outer := Wrap(token.MakeToken("<test>", token.MakePos(9, 1), 0, ""), inner)

	assert.Equal(t, inner.Message, outer.Message)

	var got *TypedOperationError
	require.True(t, errors.As(outer, &got))
	assert.Same(t, outer, got)
	assert.ErrorIs(t, outer, inner)
}

func TestWrapOfANonTypedErrorStillProducesATypedOperationError(t *testing.T) {
	plain := errors.New("boom")
	wrapped := Wrap(tok(), plain)
	assert.Equal(t, "boom", wrapped.Message)
	assert.ErrorIs(t, wrapped, plain)
}

func TestWrapOfNilIsNil(t *testing.T) {
	assert.Nil(t, Wrap(tok(), nil))
	assert.Nil(t, WrapFatal(tok(), nil))
}

func TestFatalErrorIsDistinctFromTypedOperationError(t *testing.T) {
	fe := NewFatalError(tok(), "missing return")
	var typed *TypedOperationError
	assert.False(t, errors.As(error(fe), &typed))
}
