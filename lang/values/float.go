package values

import "github.com/cellscript/cellscript/lang/numeric"

// Float is the numeric value variant of this language It wraps a
// numeric.Number so that the active backend (decimal or bigfloat,
// selected at process start) is transparent to the rest of the value
// model.
type Float struct {
	N numeric.Number
}

var _ Value = Float{}

func NewFloat(n numeric.Number) Float { return Float{N: n} }

func (f Float) TypeName() string { return "float" }
func (f Float) String() string   { return f.N.HumanString() }

// SourceString renders the float using the 1/0, -1/0, 0/0, -0/0 spellings
// required by this language for ±Inf/±NaN, used by the Dictionary key
// encoding.
func (f Float) SourceString() string { return f.N.SourceString() }
