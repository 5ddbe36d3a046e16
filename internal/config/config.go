// Package config reads the process-wide numeric configuration from the
// environment: which Number backend to mint values through, its default
// precision, and its rounding mode, the way the rest of the evaluator
// expects to find a fully-built numeric.Backend before any source runs.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v6"

	"github.com/cellscript/cellscript/lang/numeric"
)

// Config is the environment-driven process configuration. Every field
// has a default so a bare invocation with no environment needs none of
// this.
type Config struct {
	BackendName  string `env:"CELLSCRIPT_BACKEND" envDefault:"decimal"`
	Precision    int    `env:"CELLSCRIPT_PRECISION" envDefault:"16"`
	RoundingMode string `env:"CELLSCRIPT_ROUNDING" envDefault:"nearest-even"`
}

// Load reads Config from the environment, applying defaults for unset
// variables.
func Load() (*Config, error) {
	c := &Config{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

var roundingModes = map[string]numeric.RoundingMode{
	"nearest-even": numeric.ToNearestEven,
	"nearest-away": numeric.ToNearestAway,
	"toward-pos":   numeric.TowardPositive,
	"toward-neg":   numeric.TowardNegative,
	"toward-zero":  numeric.TowardZero,
	"nearest-odd":  numeric.ToNearestOdd,
	"zero-ties":    numeric.TowardZeroTies,
	"away-zero":    numeric.AwayFromZero,
	"five-up":      numeric.FiveUpSticky,
}

// Backend builds the numeric.Backend this Config names, with its
// default precision and rounding mode already applied.
func (c *Config) Backend() (numeric.Backend, error) {
	var b numeric.Backend
	switch strings.ToLower(c.BackendName) {
	case "decimal", "":
		b = numeric.NewDecimalBackend()
	case "bigfloat":
		b = numeric.NewBigFloatBackend()
	default:
		return nil, fmt.Errorf("config: unknown backend %q (want \"decimal\" or \"bigfloat\")", c.BackendName)
	}

	mode, ok := roundingModes[strings.ToLower(c.RoundingMode)]
	if !ok {
		return nil, fmt.Errorf("config: unknown rounding mode %q", c.RoundingMode)
	}
	if c.Precision > 0 {
		b.SetDefaultPrecision(c.Precision)
	}
	b.SetRoundingMode(mode)
	return b, nil
}
