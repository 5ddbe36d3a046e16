package numeric

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// decimalKind distinguishes the IEEE-754-style extension states that
// shopspring/decimal itself has no notion of: NaN and signed infinity.
// A finite decimal carries kind == decimalFinite and its value in dec.
type decimalKind uint8

const (
	decimalFinite decimalKind = iota
	decimalNaN
	decimalPosInf
	decimalNegInf
)

// DecimalNumber is the Number implementation backed by
// github.com/shopspring/decimal, extended with explicit NaN/±Inf sentinels
// and a per-value precision (digits of significand after the point).
type DecimalNumber struct {
	kind      decimalKind
	dec       decimal.Decimal
	negZero   bool // true only for kind == decimalFinite && dec.IsZero() && this is -0
	precision int
	backend   *DecimalBackend
}

var (
	_ Number = (*DecimalNumber)(nil)
)

// DecimalBackend is the mandatory arbitrary-precision decimal backend
//.
type DecimalBackend struct {
	defaultPrecision int
	mode             RoundingMode
}

func NewDecimalBackend() *DecimalBackend {
	return &DecimalBackend{defaultPrecision: 16, mode: ToNearestEven}
}

func (b *DecimalBackend) Name() string { return "decimal" }

func (b *DecimalBackend) FromFloat64(f float64) Number {
	if f != f {
		return b.NaN()
	}
	d := decimal.NewFromFloat(f)
	return &DecimalNumber{dec: d, precision: b.defaultPrecision, backend: b, negZero: f == 0 && isNegZero(f)}
}

func isNegZero(f float64) bool {
	return f == 0 && (1/f) < 0
}

func (b *DecimalBackend) Parse(s string) (Number, error) {
	t := strings.TrimSpace(s)
	switch t {
	case "1/0":
		return b.PositiveInf(), nil
	case "-1/0":
		return b.NegativeInf(), nil
	case "0/0", "-0/0":
		return b.NaN(), nil
	}
	d, err := decimal.NewFromString(t)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %q as a decimal number: %w", s, err)
	}
	negZero := d.IsZero() && strings.HasPrefix(t, "-")
	return &DecimalNumber{dec: d, precision: b.defaultPrecision, backend: b, negZero: negZero}, nil
}

func (b *DecimalBackend) NaN() Number {
	return &DecimalNumber{kind: decimalNaN, precision: b.defaultPrecision, backend: b}
}

func (b *DecimalBackend) PositiveInf() Number {
	return &DecimalNumber{kind: decimalPosInf, precision: b.defaultPrecision, backend: b}
}

func (b *DecimalBackend) NegativeInf() Number {
	return &DecimalNumber{kind: decimalNegInf, precision: b.defaultPrecision, backend: b}
}

func (b *DecimalBackend) Zero() Number {
	return &DecimalNumber{precision: b.defaultPrecision, backend: b}
}

func (b *DecimalBackend) NegativeZero() Number {
	return &DecimalNumber{precision: b.defaultPrecision, backend: b, negZero: true}
}

func (b *DecimalBackend) DefaultPrecision() int { return b.defaultPrecision }

func (b *DecimalBackend) SetDefaultPrecision(digits int) {
	if digits >= 0 {
		b.defaultPrecision = digits
	}
}

func (b *DecimalBackend) RoundingMode() RoundingMode { return b.mode }

// SetRoundingMode accepts every mode in the closed set; shopspring/decimal
// has primitives for ties-to-even, ties-away, ceiling, floor, truncation
// and away-from-zero, so the remaining modes (ToNearestOdd, TowardZeroTies,
// FiveUpSticky) are approximated as ties-to-even in roundDecimal below.
// This backend never refuses a mode.
func (b *DecimalBackend) SetRoundingMode(m RoundingMode) bool {
	b.mode = m
	return true
}

func (n *DecimalNumber) Duplicate() Number {
	cp := *n
	return &cp
}

func (n *DecimalNumber) ToFloat64() float64 {
	switch n.kind {
	case decimalNaN:
		return math.NaN()
	case decimalPosInf:
		return math.Inf(1)
	case decimalNegInf:
		return math.Inf(-1)
	}
	f, _ := n.dec.Float64()
	if f == 0 && n.negZero {
		return math.Copysign(0, -1)
	}
	return f
}

func (n *DecimalNumber) HumanString() string {
	switch n.kind {
	case decimalNaN:
		return "NaN"
	case decimalPosInf:
		return "Infinity"
	case decimalNegInf:
		return "-Infinity"
	}
	if n.dec.IsZero() && n.negZero {
		return "-0"
	}
	return n.dec.Round(int32(clampNonNeg(n.precision))).String()
}

func (n *DecimalNumber) SourceString() string {
	switch n.kind {
	case decimalNaN:
		return "0/0"
	case decimalPosInf:
		return "1/0"
	case decimalNegInf:
		return "-1/0"
	}
	if n.dec.IsZero() && n.negZero {
		return "-0"
	}
	return n.dec.String()
}

func clampNonNeg(i int) int {
	if i < 0 {
		return 0
	}
	return i
}

func (n *DecimalNumber) IsSigned() bool {
	switch n.kind {
	case decimalNegInf:
		return true
	case decimalPosInf, decimalNaN:
		return false
	}
	if n.dec.IsZero() {
		return n.negZero
	}
	return n.dec.Sign() < 0
}

func (n *DecimalNumber) IsZero() bool { return n.kind == decimalFinite && n.dec.IsZero() }
func (n *DecimalNumber) IsNaN() bool  { return n.kind == decimalNaN }
func (n *DecimalNumber) IsInf() bool  { return n.kind == decimalPosInf || n.kind == decimalNegInf }

// ShortMinMax returns true for NaN and for ±Inf: the decimal backend's
// MIN/MAX aggregates short-circuit on either.
func (n *DecimalNumber) ShortMinMax() bool { return n.IsNaN() || n.IsInf() }

func (n *DecimalNumber) Neg() Number {
	switch n.kind {
	case decimalNaN:
		return n.Duplicate()
	case decimalPosInf:
		return n.backend.NegativeInf()
	case decimalNegInf:
		return n.backend.PositiveInf()
	}
	if n.dec.IsZero() {
		return &DecimalNumber{precision: n.precision, backend: n.backend, negZero: !n.negZero}
	}
	return &DecimalNumber{dec: n.dec.Neg(), precision: n.precision, backend: n.backend}
}

func (n *DecimalNumber) Precision() int { return n.precision }

func (n *DecimalNumber) SetPrecision(digits int) Number {
	if digits < 0 {
		digits = 0
	}
	cp := *n
	cp.precision = digits
	if cp.kind == decimalFinite {
		cp.dec = roundDecimal(n.dec, digits, n.backend.mode)
	}
	return &cp
}

func roundDecimal(d decimal.Decimal, digits int, mode RoundingMode) decimal.Decimal {
	switch mode {
	case TowardPositive:
		return d.RoundCeil(int32(digits))
	case TowardNegative:
		return d.RoundFloor(int32(digits))
	case TowardZero:
		return d.Truncate(int32(digits))
	case AwayFromZero:
		return d.RoundUp(int32(digits))
	case ToNearestAway:
		return d.Round(int32(digits))
	default: // ToNearestEven, ToNearestOdd, TowardZeroTies, FiveUpSticky: bankers rounding
		return d.RoundBank(int32(digits))
	}
}

func (n *DecimalNumber) asDec() (decimal.Decimal, bool) {
	if n.kind == decimalFinite {
		return n.dec, true
	}
	return decimal.Decimal{}, false
}

func (n *DecimalNumber) cmp(o *DecimalNumber) (int, bool) {
	if n.kind == decimalNaN || o.kind == decimalNaN {
		return 0, false
	}
	rank := func(x *DecimalNumber) int {
		switch x.kind {
		case decimalNegInf:
			return -2
		case decimalPosInf:
			return 2
		default:
			return 0
		}
	}
	nr, or := rank(n), rank(o)
	if nr != 0 || or != 0 {
		if nr == or {
			return 0, true
		}
		if nr < or {
			return -1, true
		}
		return 1, true
	}
	return n.dec.Cmp(o.dec), true
}

func (n *DecimalNumber) Eq(v Number) bool {
	o := v.(*DecimalNumber)
	c, ok := n.cmp(o)
	return ok && c == 0
}

func (n *DecimalNumber) Neq(v Number) bool {
	o := v.(*DecimalNumber)
	c, ok := n.cmp(o)
	return !ok || c != 0
}

func (n *DecimalNumber) Lt(v Number) bool {
	c, ok := n.cmp(v.(*DecimalNumber))
	return ok && c < 0
}

func (n *DecimalNumber) Gt(v Number) bool {
	c, ok := n.cmp(v.(*DecimalNumber))
	return ok && c > 0
}

func (n *DecimalNumber) Leq(v Number) bool {
	c, ok := n.cmp(v.(*DecimalNumber))
	return ok && c <= 0
}

func (n *DecimalNumber) Geq(v Number) bool {
	c, ok := n.cmp(v.(*DecimalNumber))
	return ok && c >= 0
}

func (n *DecimalNumber) resultPrecision(o *DecimalNumber, kind string) int {
	switch kind {
	case "add":
		return AddPrecision(n.precision, o.precision)
	case "mul":
		return MulPrecision(n.precision, o.precision, n.backend.defaultPrecision)
	default:
		return n.backend.defaultPrecision
	}
}

func (n *DecimalNumber) Add(v Number) Number {
	o := v.(*DecimalNumber)
	if n.kind == decimalNaN || o.kind == decimalNaN {
		return n.backend.NaN()
	}
	if n.IsInf() || o.IsInf() {
		return addInf(n, o)
	}
	return &DecimalNumber{dec: n.dec.Add(o.dec), precision: n.resultPrecision(o, "add"), backend: n.backend}
}

func addInf(n, o *DecimalNumber) Number {
	nInf, oInf := n.IsInf(), o.IsInf()
	if nInf && oInf {
		if n.kind == o.kind {
			return n.Duplicate()
		}
		return n.backend.NaN()
	}
	if nInf {
		return n.Duplicate()
	}
	return o.Duplicate()
}

func (n *DecimalNumber) Sub(v Number) Number {
	return n.Add(v.(*DecimalNumber).Neg())
}

func (n *DecimalNumber) Mul(v Number) Number {
	o := v.(*DecimalNumber)
	if n.kind == decimalNaN || o.kind == decimalNaN {
		return n.backend.NaN()
	}
	if n.IsInf() || o.IsInf() {
		return mulInf(n, o)
	}
	return &DecimalNumber{dec: n.dec.Mul(o.dec), precision: n.resultPrecision(o, "mul"), backend: n.backend}
}

func mulInf(n, o *DecimalNumber) Number {
	if n.IsZero() || o.IsZero() {
		return n.backend.NaN()
	}
	neg := n.IsSigned() != o.IsSigned()
	if neg {
		return n.backend.NegativeInf()
	}
	return n.backend.PositiveInf()
}

func (n *DecimalNumber) Div(v Number) Number {
	o := v.(*DecimalNumber)
	if n.kind == decimalNaN || o.kind == decimalNaN {
		return n.backend.NaN()
	}
	if n.IsInf() && o.IsInf() {
		return n.backend.NaN()
	}
	if n.IsInf() {
		neg := n.IsSigned() != o.IsSigned()
		if neg {
			return n.backend.NegativeInf()
		}
		return n.backend.PositiveInf()
	}
	if o.IsInf() {
		if n.IsSigned() {
			return n.backend.NegativeZero()
		}
		return n.backend.Zero()
	}
	if o.IsZero() {
		if n.IsZero() {
			return n.backend.NaN() // 0/0 = NaN
		}
		neg := n.IsSigned() != o.IsSigned()
		if neg {
			return n.backend.NegativeInf()
		}
		return n.backend.PositiveInf() // 1/0 = +Inf
	}
	prec := n.backend.defaultPrecision
	d := n.dec.DivRound(o.dec, int32(prec+2))
	d = roundDecimal(d, prec, n.backend.mode)
	return &DecimalNumber{dec: d, precision: prec, backend: n.backend}
}

func (n *DecimalNumber) Round() Number {
	if n.kind != decimalFinite {
		return n.Duplicate()
	}
	return &DecimalNumber{dec: n.dec.Round(0), precision: n.precision, backend: n.backend}
}

func (n *DecimalNumber) Floor() Number {
	if n.kind != decimalFinite {
		return n.Duplicate()
	}
	return &DecimalNumber{dec: n.dec.Floor(), precision: n.precision, backend: n.backend}
}

func (n *DecimalNumber) Ceil() Number {
	if n.kind != decimalFinite {
		return n.Duplicate()
	}
	return &DecimalNumber{dec: n.dec.Ceil(), precision: n.precision, backend: n.backend}
}
