package values

import (
	"sort"
	"strings"

	"github.com/dolthub/swiss"
)

// dictEntry is the payload stored per bucket: the swiss map is keyed by a
// canonical string derived from the Value (keyString below) rather than by
// Value itself, since Array and Dictionary values are not Go-comparable
// and cannot safely back a generic hash map key.
type dictEntry struct {
	key   Value
	value Value
}

// Dictionary is the Value→Value mapping variant of this language, with a total
// key ordering used to render elementwise equality and iteration in sorted
// key order. Per the immutable-value rule, Insert/RemoveKey return a new
// Dictionary rather than mutating the receiver.
type Dictionary struct {
	m *swiss.Map[string, dictEntry]
}

var (
	_ Value         = Dictionary{}
	_ Indexable     = Dictionary{}
	_ SettableIndex = Dictionary{}
	_ Iterable      = Dictionary{}
)

// NewDictionary returns an empty dictionary with initial capacity for at
// least size entries.
func NewDictionary(size int) Dictionary {
	if size < 1 {
		size = 1
	}
	return Dictionary{m: swiss.NewMap[string, dictEntry](uint32(size))}
}

func (d Dictionary) TypeName() string { return "dictionary" }

func (d Dictionary) String() string {
	keys := d.sortedKeys()
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		v, _, _ := d.Get(k)
		sb.WriteString(k.String())
		sb.WriteString(": ")
		sb.WriteString(v.String())
	}
	sb.WriteByte('}')
	return sb.String()
}

func (d Dictionary) Len() int {
	if d.m == nil {
		return 0
	}
	return d.m.Count()
}

// keyString builds a canonical, type-tagged string for use as the swiss
// map's bucket key. It need not sort correctly on its own: ordering for
// display and comparison is computed separately via Compare on the actual
// Value (sortedKeys below), this is purely a hash/equality key.
func keyString(v Value) string {
	switch vv := v.(type) {
	case Float:
		return "f:" + vv.N.SourceString()
	case String:
		return "s:" + string(vv)
	case Array:
		var sb strings.Builder
		sb.WriteString("a:")
		for _, e := range vv.elems {
			sb.WriteString(keyString(e))
			sb.WriteByte(0)
		}
		return sb.String()
	case Dictionary:
		var sb strings.Builder
		sb.WriteString("d:")
		for _, k := range vv.sortedKeys() {
			val, _, _ := vv.Get(k)
			sb.WriteString(keyString(k))
			sb.WriteByte(0)
			sb.WriteString(keyString(val))
			sb.WriteByte(0)
		}
		return sb.String()
	case *Function:
		return "fn:" + vv.id()
	case CellRef:
		return "cr:" + vv.String()
	case CellRange:
		return "cg:" + vv.String()
	default:
		return "?:" + v.String()
	}
}

func (d Dictionary) Get(k Value) (Value, bool, error) {
	if d.m == nil {
		return nil, false, nil
	}
	e, ok := d.m.Get(keyString(k))
	if !ok {
		return nil, false, nil
	}
	return e.value, true, nil
}

// Insert returns a new Dictionary with key k bound to v (this language: "used
// for writes like x[i].b[c] to v" via RecAssignState; Insert is also
// exposed to Script/Cell as a three-arg stdlib function, this language).
func (d Dictionary) Insert(k, v Value) Dictionary {
	size := 1
	if d.m != nil {
		size = d.m.Count() + 1
	}
	out := swiss.NewMap[string, dictEntry](uint32(size))
	if d.m != nil {
		d.m.Iter(func(kk string, e dictEntry) bool {
			out.Put(kk, e)
			return false
		})
	}
	out.Put(keyString(k), dictEntry{key: k, value: v})
	return Dictionary{m: out}
}

func (d Dictionary) RemoveKey(k Value) Dictionary {
	if d.m == nil {
		return d
	}
	out := swiss.NewMap[string, dictEntry](uint32(d.m.Count()))
	target := keyString(k)
	d.m.Iter(func(kk string, e dictEntry) bool {
		if kk != target {
			out.Put(kk, e)
		}
		return false
	})
	return Dictionary{m: out}
}

func (d Dictionary) ContainsKey(k Value) bool {
	if d.m == nil {
		return false
	}
	_, ok := d.m.Get(keyString(k))
	return ok
}

func (d Dictionary) sortedKeys() []Value {
	if d.m == nil {
		return nil
	}
	keys := make([]Value, 0, d.m.Count())
	d.m.Iter(func(_ string, e dictEntry) bool {
		keys = append(keys, e.key)
		return false
	})
	sort.Slice(keys, func(i, j int) bool {
		c, _ := Compare(keys[i], keys[j])
		return c < 0
	})
	return keys
}

func (d Dictionary) GetKeys() Array {
	return NewArray(d.sortedKeys())
}

func (d Dictionary) Index(i Value) (Value, error) {
	v, ok, err := d.Get(i)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errorf("dictionary has no key %s", i.String())
	}
	return v, nil
}

func (d Dictionary) SetIndex(i, v Value) (Value, error) {
	return d.Insert(i, v), nil
}

func (d Dictionary) Elements() ([]Value, error) {
	keys := d.sortedKeys()
	out := make([]Value, len(keys))
	for i, k := range keys {
		v, _, _ := d.Get(k)
		out[i] = NewArray([]Value{k, v})
	}
	return out, nil
}
