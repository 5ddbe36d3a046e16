package numeric

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// bigKind mirrors decimalKind: math/big.Float has no NaN/Inf of its own
// (big.Float "Inf" is representable but the std library panics on certain
// Inf operations), so this backend carries the same explicit sentinel
// states as the decimal backend, demonstrating the "multiple
// interchangeable backends" requirement of this language with binary floating
// point instead of decimal semantics.
type bigKind uint8

const (
	bigFinite bigKind = iota
	bigNaN
	bigPosInf
	bigNegInf
)

// BigFloatNumber is the Number implementation backed by math/big.Float.
// Its ShortMinMax differs from the decimal backend: only NaN short
// circuits MIN/MAX aggregates, not ±Inf.
type BigFloatNumber struct {
	kind      bigKind
	f         *big.Float
	negZero   bool
	precision int
	backend   *BigFloatBackend
}

var _ Number = (*BigFloatNumber)(nil)

// BigFloatBackend is the second, interchangeable number backend: an
// arbitrary-precision alternative to the decimal backend, selected at
// process start by the embedder.
type BigFloatBackend struct {
	defaultPrecision int
	mode             RoundingMode
}

func NewBigFloatBackend() *BigFloatBackend {
	return &BigFloatBackend{defaultPrecision: 16, mode: ToNearestEven}
}

func (b *BigFloatBackend) Name() string { return "bigfloat" }

func (b *BigFloatBackend) prec(digits int) uint {
	// decimal digits to roughly equivalent binary mantissa bits
	return uint(float64(digits)*3.322 + 8)
}

func (b *BigFloatBackend) FromFloat64(v float64) Number {
	if math.IsNaN(v) {
		return b.NaN()
	}
	if math.IsInf(v, 1) {
		return b.PositiveInf()
	}
	if math.IsInf(v, -1) {
		return b.NegativeInf()
	}
	f := new(big.Float).SetPrec(b.prec(b.defaultPrecision)).SetFloat64(v)
	return &BigFloatNumber{f: f, precision: b.defaultPrecision, backend: b, negZero: math.Signbit(v) && v == 0}
}

func (b *BigFloatBackend) Parse(s string) (Number, error) {
	t := strings.TrimSpace(s)
	switch t {
	case "1/0":
		return b.PositiveInf(), nil
	case "-1/0":
		return b.NegativeInf(), nil
	case "0/0", "-0/0":
		return b.NaN(), nil
	}
	f, _, err := big.ParseFloat(t, 10, b.prec(b.defaultPrecision), big.ToNearestEven)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %q as a number: %w", s, err)
	}
	negZero := f.Sign() == 0 && strings.HasPrefix(t, "-")
	return &BigFloatNumber{f: f, precision: b.defaultPrecision, backend: b, negZero: negZero}, nil
}

func (b *BigFloatBackend) NaN() Number {
	return &BigFloatNumber{kind: bigNaN, precision: b.defaultPrecision, backend: b}
}

func (b *BigFloatBackend) PositiveInf() Number {
	return &BigFloatNumber{kind: bigPosInf, precision: b.defaultPrecision, backend: b}
}

func (b *BigFloatBackend) NegativeInf() Number {
	return &BigFloatNumber{kind: bigNegInf, precision: b.defaultPrecision, backend: b}
}

func (b *BigFloatBackend) Zero() Number {
	return &BigFloatNumber{f: new(big.Float).SetPrec(b.prec(b.defaultPrecision)), precision: b.defaultPrecision, backend: b}
}

func (b *BigFloatBackend) NegativeZero() Number {
	z := b.Zero().(*BigFloatNumber)
	z.negZero = true
	return z
}

func (b *BigFloatBackend) DefaultPrecision() int { return b.defaultPrecision }

func (b *BigFloatBackend) SetDefaultPrecision(digits int) {
	if digits >= 0 {
		b.defaultPrecision = digits
	}
}

func (b *BigFloatBackend) RoundingMode() RoundingMode { return b.mode }

// SetRoundingMode only honors the modes big.Float's own rounding modes can
// express (ToNearestEven, TowardPositive, TowardNegative, TowardZero,
// AwayFromZero); any other requested mode is silently ignored, keeping
// the previous mode.
func (b *BigFloatBackend) SetRoundingMode(m RoundingMode) bool {
	switch m {
	case ToNearestEven, TowardPositive, TowardNegative, TowardZero, AwayFromZero:
		b.mode = m
		return true
	default:
		return false
	}
}

func (b *BigFloatBackend) bigRoundingMode() big.RoundingMode {
	switch b.mode {
	case TowardPositive:
		return big.ToPositiveInf
	case TowardNegative:
		return big.ToNegativeInf
	case TowardZero:
		return big.ToZero
	case AwayFromZero:
		return big.AwayFromZero
	default:
		return big.ToNearestEven
	}
}

func (n *BigFloatNumber) Duplicate() Number {
	cp := *n
	if n.f != nil {
		cp.f = new(big.Float).Copy(n.f)
	}
	return &cp
}

func (n *BigFloatNumber) ToFloat64() float64 {
	switch n.kind {
	case bigNaN:
		return math.NaN()
	case bigPosInf:
		return math.Inf(1)
	case bigNegInf:
		return math.Inf(-1)
	}
	f, _ := n.f.Float64()
	if f == 0 && n.negZero {
		return math.Copysign(0, -1)
	}
	return f
}

func (n *BigFloatNumber) HumanString() string {
	switch n.kind {
	case bigNaN:
		return "NaN"
	case bigPosInf:
		return "Infinity"
	case bigNegInf:
		return "-Infinity"
	}
	if n.f.Sign() == 0 && n.negZero {
		return "-0"
	}
	s := n.f.Text('f', clampNonNeg(n.precision))
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s
}

func (n *BigFloatNumber) SourceString() string {
	switch n.kind {
	case bigNaN:
		return "0/0"
	case bigPosInf:
		return "1/0"
	case bigNegInf:
		return "-1/0"
	}
	if n.f.Sign() == 0 && n.negZero {
		return "-0"
	}
	return n.f.Text('g', -1)
}

func (n *BigFloatNumber) IsSigned() bool {
	switch n.kind {
	case bigNegInf:
		return true
	case bigPosInf, bigNaN:
		return false
	}
	if n.f.Sign() == 0 {
		return n.negZero
	}
	return n.f.Sign() < 0
}

func (n *BigFloatNumber) IsZero() bool { return n.kind == bigFinite && n.f.Sign() == 0 }
func (n *BigFloatNumber) IsNaN() bool  { return n.kind == bigNaN }
func (n *BigFloatNumber) IsInf() bool  { return n.kind == bigPosInf || n.kind == bigNegInf }

// ShortMinMax: true only for NaN, per this language ("floating backends true
// only for NaN").
func (n *BigFloatNumber) ShortMinMax() bool { return n.IsNaN() }

func (n *BigFloatNumber) Neg() Number {
	switch n.kind {
	case bigNaN:
		return n.Duplicate()
	case bigPosInf:
		return n.backend.NegativeInf()
	case bigNegInf:
		return n.backend.PositiveInf()
	}
	if n.f.Sign() == 0 {
		return &BigFloatNumber{f: new(big.Float).Copy(n.f), precision: n.precision, backend: n.backend, negZero: !n.negZero}
	}
	return &BigFloatNumber{f: new(big.Float).Neg(n.f), precision: n.precision, backend: n.backend}
}

func (n *BigFloatNumber) Precision() int { return n.precision }

func (n *BigFloatNumber) SetPrecision(digits int) Number {
	if digits < 0 {
		digits = 0
	}
	cp := n.Duplicate().(*BigFloatNumber)
	cp.precision = digits
	if cp.kind == bigFinite {
		s := cp.f.Text('f', digits)
		f, _, _ := big.ParseFloat(s, 10, n.backend.prec(digits), n.backend.bigRoundingMode())
		cp.f = f
	}
	return cp
}

func (n *BigFloatNumber) cmp(o *BigFloatNumber) (int, bool) {
	if n.kind == bigNaN || o.kind == bigNaN {
		return 0, false
	}
	rank := func(x *BigFloatNumber) int {
		switch x.kind {
		case bigNegInf:
			return -2
		case bigPosInf:
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
	return n.f.Cmp(o.f), true
}

func (n *BigFloatNumber) Eq(v Number) bool {
	c, ok := n.cmp(v.(*BigFloatNumber))
	return ok && c == 0
}
func (n *BigFloatNumber) Neq(v Number) bool {
	c, ok := n.cmp(v.(*BigFloatNumber))
	return !ok || c != 0
}
func (n *BigFloatNumber) Lt(v Number) bool {
	c, ok := n.cmp(v.(*BigFloatNumber))
	return ok && c < 0
}
func (n *BigFloatNumber) Gt(v Number) bool {
	c, ok := n.cmp(v.(*BigFloatNumber))
	return ok && c > 0
}
func (n *BigFloatNumber) Leq(v Number) bool {
	c, ok := n.cmp(v.(*BigFloatNumber))
	return ok && c <= 0
}
func (n *BigFloatNumber) Geq(v Number) bool {
	c, ok := n.cmp(v.(*BigFloatNumber))
	return ok && c >= 0
}

func (n *BigFloatNumber) Add(v Number) Number {
	o := v.(*BigFloatNumber)
	if n.kind == bigNaN || o.kind == bigNaN {
		return n.backend.NaN()
	}
	if n.IsInf() || o.IsInf() {
		return addInfBig(n, o)
	}
	prec := AddPrecision(n.precision, o.precision)
	f := new(big.Float).SetPrec(n.backend.prec(prec)).Add(n.f, o.f)
	return &BigFloatNumber{f: f, precision: prec, backend: n.backend}
}

func addInfBig(n, o *BigFloatNumber) Number {
	if n.IsInf() && o.IsInf() {
		if n.kind == o.kind {
			return n.Duplicate()
		}
		return n.backend.NaN()
	}
	if n.IsInf() {
		return n.Duplicate()
	}
	return o.Duplicate()
}

func (n *BigFloatNumber) Sub(v Number) Number { return n.Add(v.(*BigFloatNumber).Neg()) }

func (n *BigFloatNumber) Mul(v Number) Number {
	o := v.(*BigFloatNumber)
	if n.kind == bigNaN || o.kind == bigNaN {
		return n.backend.NaN()
	}
	if n.IsInf() || o.IsInf() {
		if n.IsZero() || o.IsZero() {
			return n.backend.NaN()
		}
		if n.IsSigned() != o.IsSigned() {
			return n.backend.NegativeInf()
		}
		return n.backend.PositiveInf()
	}
	prec := MulPrecision(n.precision, o.precision, n.backend.defaultPrecision)
	f := new(big.Float).SetPrec(n.backend.prec(prec)).Mul(n.f, o.f)
	return &BigFloatNumber{f: f, precision: prec, backend: n.backend}
}

func (n *BigFloatNumber) Div(v Number) Number {
	o := v.(*BigFloatNumber)
	if n.kind == bigNaN || o.kind == bigNaN {
		return n.backend.NaN()
	}
	if n.IsInf() && o.IsInf() {
		return n.backend.NaN()
	}
	if n.IsInf() {
		if n.IsSigned() != o.IsSigned() {
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
			return n.backend.NaN()
		}
		if n.IsSigned() != o.IsSigned() {
			return n.backend.NegativeInf()
		}
		return n.backend.PositiveInf()
	}
	prec := n.backend.defaultPrecision
	f := new(big.Float).SetPrec(n.backend.prec(prec)).Quo(n.f, o.f)
	return &BigFloatNumber{f: f, precision: prec, backend: n.backend}
}

func (n *BigFloatNumber) Round() Number { return n.roundTo(0, "round") }
func (n *BigFloatNumber) Floor() Number { return n.roundTo(0, "floor") }
func (n *BigFloatNumber) Ceil() Number  { return n.roundTo(0, "ceil") }

func (n *BigFloatNumber) roundTo(digits int, mode string) Number {
	if n.kind != bigFinite {
		return n.Duplicate()
	}
	cur, _ := n.f.Float64()
	var val float64
	switch mode {
	case "floor":
		val = math.Floor(cur)
	case "ceil":
		val = math.Ceil(cur)
	default:
		val = math.Round(cur)
	}
	f := new(big.Float).SetPrec(n.backend.prec(n.precision)).SetFloat64(val)
	return &BigFloatNumber{f: f, precision: n.precision, backend: n.backend}
}
