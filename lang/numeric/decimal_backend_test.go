package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalBackendParseAndArithmetic(t *testing.T) {
	b := NewDecimalBackend()

	n1, err := b.Parse("1.5")
	require.NoError(t, err)
	n2, err := b.Parse("2.25")
	require.NoError(t, err)

	sum := n1.Add(n2)
	assert.Equal(t, "3.75", sum.HumanString())

	prod := n1.Mul(n2)
	assert.Equal(t, "3.375", prod.HumanString())
}

func TestDecimalBackendZeroAndSign(t *testing.T) {
	b := NewDecimalBackend()
	assert.True(t, b.Zero().IsZero())
	assert.False(t, b.NegativeZero().IsSigned() == b.Zero().IsSigned())
}

func TestDecimalBackendRoundingMode(t *testing.T) {
	b := NewDecimalBackend()
	ok := b.SetRoundingMode(TowardZero)
	assert.True(t, ok)
	assert.Equal(t, TowardZero, b.RoundingMode())
}

func TestBigFloatBackendParseAndArithmetic(t *testing.T) {
	b := NewBigFloatBackend()

	n1, err := b.Parse("1.5")
	require.NoError(t, err)
	n2, err := b.Parse("2.25")
	require.NoError(t, err)

	sum := n1.Add(n2)
	assert.Equal(t, "3.75", sum.HumanString())
}
