package values

// This file implements the uniform operation contract of this language: neg,
// add, sub, mul, div, logical, equal, notEqual, less, greater, leq, geq,
// and the DerefVar indexing dispatch. Cross-type operations return a plain
// error (wrapped with a source token and promoted to a
// lang/errors.TypedOperationError by the caller, which is the first layer
// that has a token to attach).

func typeMismatch(op string, a, b Value) error {
	return errorf("cannot %s a %s and a %s", op, a.TypeName(), b.TypeName())
}

func Neg(v Value) (Value, error) {
	switch vv := v.(type) {
	case Float:
		return Float{N: vv.N.Neg()}, nil
	default:
		return nil, errorf("cannot negate a %s", v.TypeName())
	}
}

func Add(a, b Value) (Value, error) {
	switch av := a.(type) {
	case Float:
		if bv, ok := b.(Float); ok {
			return Float{N: av.N.Add(bv.N)}, nil
		}
	case String:
		// string + string is not defined; concatenation is the & operator
		// (Cat, below), this language lists '&' for string concatenation.
	case Array:
		if bv, ok := b.(Array); ok {
			out := make([]Value, 0, len(av.elems)+len(bv.elems))
			out = append(out, av.elems...)
			out = append(out, bv.elems...)
			return NewArray(out), nil
		}
	}
	return nil, typeMismatch("add", a, b)
}

func Sub(a, b Value) (Value, error) {
	af, aok := a.(Float)
	bf, bok := b.(Float)
	if aok && bok {
		return Float{N: af.N.Sub(bf.N)}, nil
	}
	return nil, typeMismatch("subtract", a, b)
}

func Mul(a, b Value) (Value, error) {
	af, aok := a.(Float)
	bf, bok := b.(Float)
	if aok && bok {
		return Float{N: af.N.Mul(bf.N)}, nil
	}
	return nil, typeMismatch("multiply", a, b)
}

func Div(a, b Value) (Value, error) {
	af, aok := a.(Float)
	bf, bok := b.(Float)
	if aok && bok {
		return Float{N: af.N.Div(bf.N)}, nil
	}
	return nil, typeMismatch("divide", a, b)
}

// Cat implements the '&' string concatenation operator of both Cell and
// Script (Script's parser wraps it in its own catExpr node); it lives here
// as a standalone helper rather than under the shared Add.
func Cat(a, b Value) (Value, error) {
	as, aok := a.(String)
	bs, bok := b.(String)
	if !aok || !bok {
		return nil, typeMismatch("concatenate", a, b)
	}
	return as.Concat(bs), nil
}

// Logical coerces a value to a bool per this language: nonzero float, nonempty
// collection, present function; NaN is falsy.
func Logical(v Value) bool {
	switch vv := v.(type) {
	case Float:
		if vv.N.IsNaN() {
			return false
		}
		return !vv.N.IsZero()
	case String:
		return len(vv) > 0
	case Array:
		return len(vv.elems) > 0
	case Dictionary:
		return vv.Len() > 0
	case *Function:
		return true
	case CellRef, CellRange:
		return true
	default:
		return false
	}
}

// Compare gives a total ordering between two values of the SAME type; it
// is used for Dictionary key ordering and the six relational operators.
// Cross-type comparison is an error, matching this language "cross-type
// operations fail". For Float, NaN breaks ordering (Compare returns an
// error when either operand is NaN -- callers that need a boolean
// predicate instead use the Equal/Less/etc. helpers below).
func Compare(a, b Value) (int, error) {
	switch av := a.(type) {
	case Float:
		bv, ok := b.(Float)
		if !ok {
			return 0, typeMismatch("compare", a, b)
		}
		if av.N.IsNaN() || bv.N.IsNaN() {
			return 0, errorf("cannot order NaN")
		}
		switch {
		case av.N.Lt(bv.N):
			return -1, nil
		case av.N.Gt(bv.N):
			return 1, nil
		default:
			return 0, nil
		}
	case String:
		bv, ok := b.(String)
		if !ok {
			return 0, typeMismatch("compare", a, b)
		}
		return av.Cmp(bv), nil
	case Array:
		bv, ok := b.(Array)
		if !ok {
			return 0, typeMismatch("compare", a, b)
		}
		return compareArrays(av, bv)
	case Dictionary:
		bv, ok := b.(Dictionary)
		if !ok {
			return 0, typeMismatch("compare", a, b)
		}
		return compareDictionaries(av, bv)
	case CellRef:
		bv, ok := b.(CellRef)
		if !ok {
			return 0, typeMismatch("compare", a, b)
		}
		return compareCellRefs(av, bv), nil
	case CellRange:
		bv, ok := b.(CellRange)
		if !ok {
			return 0, typeMismatch("compare", a, b)
		}
		if c := compareCellRefs(av.From, bv.From); c != 0 {
			return c, nil
		}
		return compareCellRefs(av.To, bv.To), nil
	case *Function:
		bv, ok := b.(*Function)
		if !ok {
			return 0, typeMismatch("compare", a, b)
		}
		if av == bv {
			return 0, nil
		}
		return strCmp(av.id(), bv.id()), nil
	default:
		return 0, typeMismatch("compare", a, b)
	}
}

func strCmp(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareCellRefs(a, b CellRef) int {
	if a.Sheet != b.Sheet {
		return strCmp(a.Sheet, b.Sheet)
	}
	if a.Col != b.Col {
		if a.Col < b.Col {
			return -1
		}
		return 1
	}
	if a.Row != b.Row {
		if a.Row < b.Row {
			return -1
		}
		return 1
	}
	return 0
}

func compareArrays(a, b Array) (int, error) {
	n := len(a.elems)
	if len(b.elems) < n {
		n = len(b.elems)
	}
	for i := 0; i < n; i++ {
		c, err := Compare(a.elems[i], b.elems[i])
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return c, nil
		}
	}
	switch {
	case len(a.elems) < len(b.elems):
		return -1, nil
	case len(a.elems) > len(b.elems):
		return 1, nil
	default:
		return 0, nil
	}
}

func compareDictionaries(a, b Dictionary) (int, error) {
	ak, bk := a.sortedKeys(), b.sortedKeys()
	n := len(ak)
	if len(bk) < n {
		n = len(bk)
	}
	for i := 0; i < n; i++ {
		c, err := Compare(ak[i], bk[i])
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return c, nil
		}
		av, _, _ := a.Get(ak[i])
		bv, _, _ := b.Get(bk[i])
		c, err = Compare(av, bv)
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return c, nil
		}
	}
	switch {
	case len(ak) < len(bk):
		return -1, nil
	case len(ak) > len(bk):
		return 1, nil
	default:
		return 0, nil
	}
}

// Equal implements the value-level "equal" relation used by the Script `=`
// operator: unlike Compare, it never errors, returning false for any
// cross-type or NaN-involving comparison.
func Equal(a, b Value) bool {
	c, err := Compare(a, b)
	if err != nil {
		return false
	}
	return c == 0
}

func NotEqual(a, b Value) bool { return !Equal(a, b) }

func Less(a, b Value) (bool, error) {
	c, err := Compare(a, b)
	if err != nil {
		return false, err
	}
	return c < 0, nil
}

func Greater(a, b Value) (bool, error) {
	c, err := Compare(a, b)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

func Leq(a, b Value) (bool, error) {
	c, err := Compare(a, b)
	if err != nil {
		return false, err
	}
	return c <= 0, nil
}

func Geq(a, b Value) (bool, error) {
	c, err := Compare(a, b)
	if err != nil {
		return false, err
	}
	return c >= 0, nil
}

// DerefVar dispatches indexing by container type, this language
func DerefVar(container, index Value) (Value, error) {
	ix, ok := container.(Indexable)
	if !ok {
		return nil, errorf("cannot index a %s", container.TypeName())
	}
	return ix.Index(index)
}

// SetIndexed dispatches the functional indexed-write used by nested
// assignment: Array.SetIndex, Dictionary.Insert.
func SetIndexed(container, index, v Value) (Value, error) {
	si, ok := container.(SettableIndex)
	if !ok {
		return nil, errorf("cannot index-assign into a %s", container.TypeName())
	}
	return si.SetIndex(index, v)
}

// ElementsOf dispatches the `for v in expr` source :
// Array, Dictionary, CellRange are Iterable; anything else is an error.
func ElementsOf(v Value) ([]Value, error) {
	it, ok := v.(Iterable)
	if !ok {
		return nil, errorf("cannot iterate over a %s", v.TypeName())
	}
	return it.Elements()
}
