package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellscript/cellscript/lang/numeric"
)

func mustFloat(t *testing.T, b numeric.Backend, s string) Float {
	t.Helper()
	n, err := b.Parse(s)
	require.NoError(t, err)
	return Float{N: n}
}

func TestAddFloat(t *testing.T) {
	b := numeric.NewDecimalBackend()
	a, c := mustFloat(t, b, "1"), mustFloat(t, b, "2")
	sum, err := Add(a, c)
	require.NoError(t, err)
	assert.Equal(t, "3", sum.(Float).N.HumanString())
}

func TestAddArrayConcatenates(t *testing.T) {
	a := NewArray([]Value{String("a")})
	c := NewArray([]Value{String("b")})
	sum, err := Add(a, c)
	require.NoError(t, err)
	elems, err := sum.(Array).Elements()
	require.NoError(t, err)
	assert.Equal(t, []Value{String("a"), String("b")}, elems)
}

func TestAddTypeMismatch(t *testing.T) {
	_, err := Add(String("a"), NewArray(nil))
	assert.Error(t, err)
}

func TestAddStringIsUndefined(t *testing.T) {
	_, err := Add(String("a"), String("b"))
	assert.Error(t, err)
}
