// Package numeric implements the arbitrary-precision decimal number layer
// of this language: a backend-agnostic Number interface with pluggable
// rounding modes and per-value precision, plus two interchangeable
// backends (decimal, backed by shopspring/decimal, and bigfloat, backed by
// math/big.Float) selected at process start by a discriminator string.
package numeric

// RoundingMode is the closed set of rounding modes a backend may support.
// Not every backend honors every mode; SetRoundingMode on a backend that
// cannot express the requested mode silently keeps its previous mode.
type RoundingMode uint8

const (
	ToNearestEven RoundingMode = iota
	ToNearestAway
	TowardPositive
	TowardNegative
	TowardZero
	ToNearestOdd
	TowardZeroTies
	AwayFromZero
	FiveUpSticky // "double": round half up, treating ties as away-from-zero with sticky bit semantics
)

// Number is the backend-agnostic arbitrary-precision decimal value
// contract of this language Every backend's concrete numeric type implements
// this interface, and the value model's Float variant (lang/values)
// stores a Number rather than a float64 so that backends are swappable
// without touching the rest of the evaluator.
type Number interface {
	// Duplicate returns an independent copy carrying the same precision.
	Duplicate() Number

	// ToFloat64 converts to the nearest representable double.
	ToFloat64() float64

	// HumanString renders the value for display (e.g. "3.14", "NaN", "Infinity").
	HumanString() string

	// SourceString renders the value so it can be parsed back, using the
	// 1/0, -1/0, 0/0, -0/0 spellings for ±Inf and ±NaN required by this language
	SourceString() string

	IsSigned() bool
	IsZero() bool
	IsNaN() bool
	IsInf() bool

	// ShortMinMax reports whether this value should short-circuit an
	// aggregate MIN/MAX: the decimal backend returns true for NaN and for
	// ±Inf, floating backends only for NaN.
	ShortMinMax() bool

	Neg() Number

	Precision() int
	// SetPrecision returns a new Number rounded to the given number of
	// decimal digits of significand, using the backend's current rounding
	// mode.
	SetPrecision(digits int) Number

	// Comparisons: NaN-involving comparisons return false for every
	// predicate except NotEqual.
	Eq(Number) bool
	Neq(Number) bool
	Lt(Number) bool
	Gt(Number) bool
	Leq(Number) bool
	Geq(Number) bool

	Add(Number) Number
	Sub(Number) Number
	Mul(Number) Number
	Div(Number) Number

	Round() Number
	Floor() Number
	Ceil() Number
}

// Backend is a factory for a family of interchangeable Number
// implementations sharing one process-wide rounding mode and default
// precision, selected at process start by a discriminator (selected
// "NumberBackend" process-wide state).
type Backend interface {
	Name() string

	// FromFloat64 constructs a Number from a double, at the backend's
	// default precision.
	FromFloat64(f float64) Number
	// Parse parses a decimal literal (optionally with e/E exponent) into a
	// Number at the default precision; it also accepts the ±Inf / ±NaN
	// source spellings from this language
	Parse(s string) (Number, error)

	NaN() Number
	PositiveInf() Number
	NegativeInf() Number
	Zero() Number
	NegativeZero() Number

	DefaultPrecision() int
	SetDefaultPrecision(digits int)

	RoundingMode() RoundingMode
	// SetRoundingMode requests a rounding mode change; backends that cannot
	// honor every mode silently keep the previous mode.
	SetRoundingMode(RoundingMode) bool
}

// AddPrecision implements the propagation rule for Add/Subtract: result
// precision is the max of the two operand precisions.
func AddPrecision(lhs, rhs int) int {
	if lhs > rhs {
		return lhs
	}
	return rhs
}

// MulPrecision implements the propagation rule for Multiply: result
// precision = min(lhs+rhs, max(max(lhs,rhs), defaultPrecision)).
func MulPrecision(lhs, rhs, defaultPrecision int) int {
	sum := lhs + rhs
	maxOperand := lhs
	if rhs > maxOperand {
		maxOperand = rhs
	}
	cap := maxOperand
	if defaultPrecision > cap {
		cap = defaultPrecision
	}
	if sum < cap {
		return sum
	}
	return cap
}
