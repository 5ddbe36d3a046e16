package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellscript/cellscript/lang/numeric"
)

func TestBackendDefaultsToDecimalWithDefaultRounding(t *testing.T) {
	c := &Config{BackendName: "decimal", Precision: 16, RoundingMode: "nearest-even"}
	b, err := c.Backend()
	require.NoError(t, err)
	assert.Equal(t, numeric.ToNearestEven, b.RoundingMode())
}

func TestBackendSelectsBigFloatByName(t *testing.T) {
	c := &Config{BackendName: "BigFloat", RoundingMode: "nearest-even"}
	b, err := c.Backend()
	require.NoError(t, err)
	n, err := b.Parse("1.5")
	require.NoError(t, err)
	assert.Equal(t, "1.5", n.HumanString())
}

func TestBackendRejectsUnknownName(t *testing.T) {
	c := &Config{BackendName: "quantum", RoundingMode: "nearest-even"}
	_, err := c.Backend()
	assert.Error(t, err)
}

func TestBackendRejectsUnknownRoundingMode(t *testing.T) {
	c := &Config{BackendName: "decimal", RoundingMode: "sideways"}
	_, err := c.Backend()
	assert.Error(t, err)
}

func TestLoadAppliesDefaults(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "decimal", c.BackendName)
	assert.Equal(t, 16, c.Precision)
	assert.Equal(t, "nearest-even", c.RoundingMode)
}
