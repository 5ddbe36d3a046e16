package values

import "strings"

// String is the immutable character sequence value variant of this language
type String string

var (
	_ Value         = String("")
	_ Indexable     = String("")
	_ SettableIndex = String("")
	_ Iterable      = String("")
)

func (s String) TypeName() string { return "string" }
func (s String) String() string   { return string(s) }

func (s String) Index(i Value) (Value, error) {
	f, ok := i.(Float)
	if !ok {
		return nil, errorf("string index must be a float, got %s", i.TypeName())
	}
	idx, ok := floatToInt(f)
	if !ok {
		return nil, errorf("string index must be an integer, got %s", f.String())
	}
	runes := []rune(string(s))
	if idx < 0 || idx >= len(runes) {
		return nil, errorf("string index %d out of range [0,%d)", idx, len(runes))
	}
	return String(runes[idx]), nil
}

// SetIndex is not part of this language for String (strings are not a target of
// nested assignment in the language), but is provided for SubString/SetIndex
// stdlib parity with the original engine's character replacement helper.
func (s String) SetIndex(i, v Value) (Value, error) {
	f, ok := i.(Float)
	if !ok {
		return nil, errorf("string index must be a float, got %s", i.TypeName())
	}
	idx, ok := floatToInt(f)
	if !ok {
		return nil, errorf("string index must be an integer, got %s", f.String())
	}
	repl, ok := v.(String)
	if !ok || len([]rune(string(repl))) != 1 {
		return nil, errorf("string SetIndex requires a single-character string value")
	}
	runes := []rune(string(s))
	if idx < 0 || idx >= len(runes) {
		return nil, errorf("string index %d out of range [0,%d)", idx, len(runes))
	}
	out := make([]rune, len(runes))
	copy(out, runes)
	out[idx] = []rune(string(repl))[0]
	return String(out), nil
}

func (s String) Elements() ([]Value, error) {
	runes := []rune(string(s))
	out := make([]Value, len(runes))
	for i, r := range runes {
		out[i] = String(r)
	}
	return out, nil
}

// SubString returns the substring [start,start+length).
func (s String) SubString(start, length int) (Value, error) {
	runes := []rune(string(s))
	if start < 0 || length < 0 || start+length > len(runes) {
		return nil, errorf("SubString range [%d,%d) out of bounds for string of length %d", start, start+length, len(runes))
	}
	return String(runes[start : start+length]), nil
}

func (s String) Concat(o String) String { return s + o }

func (s String) Len() int { return len([]rune(string(s))) }

func (s String) Cmp(o String) int { return strings.Compare(string(s), string(o)) }
