package stdlib

import (
	"fmt"

	"github.com/cellscript/cellscript/lang/scope"
	"github.com/cellscript/cellscript/lang/token"
	"github.com/cellscript/cellscript/lang/values"
)

func binary() map[string]*values.Function {
	return map[string]*values.Function{
		"Min": binaryFn("Min", func(ctx *scope.Context, tok token.Token, a, b values.Value) (values.Value, error) {
			return minMax(a, b, true)
		}),
		"Max": binaryFn("Max", func(ctx *scope.Context, tok token.Token, a, b values.Value) (values.Value, error) {
			return minMax(a, b, false)
		}),
		"GetIndex": binaryFn("GetIndex", func(ctx *scope.Context, tok token.Token, a, b values.Value) (values.Value, error) {
			return values.DerefVar(a, b)
		}),
		"NewArrayDefault": binaryFn("NewArrayDefault", func(ctx *scope.Context, tok token.Token, a, b values.Value) (values.Value, error) {
			f, err := wantFloat(a, "NewArrayDefault")
			if err != nil {
				return nil, err
			}
			n := int(f.N.ToFloat64())
			if n < 0 {
				return nil, fmt.Errorf("NewArrayDefault expects a nonnegative count")
			}
			out := make([]values.Value, n)
			for i := range out {
				out[i] = b
			}
			return values.NewArray(out), nil
		}),
		"PushBack": binaryFn("PushBack", func(ctx *scope.Context, tok token.Token, a, b values.Value) (values.Value, error) {
			arr, ok := a.(values.Array)
			if !ok {
				return nil, fmt.Errorf("PushBack expects an array")
			}
			return arr.PushBack(b), nil
		}),
		"PushFront": binaryFn("PushFront", func(ctx *scope.Context, tok token.Token, a, b values.Value) (values.Value, error) {
			arr, ok := a.(values.Array)
			if !ok {
				return nil, fmt.Errorf("PushFront expects an array")
			}
			return arr.PushFront(b), nil
		}),
		"ContainsKey": binaryFn("ContainsKey", func(ctx *scope.Context, tok token.Token, a, b values.Value) (values.Value, error) {
			d, ok := a.(values.Dictionary)
			if !ok {
				return nil, fmt.Errorf("ContainsKey expects a dictionary")
			}
			return boolOf(ctx, d.ContainsKey(b)), nil
		}),
		"RemoveKey": binaryFn("RemoveKey", func(ctx *scope.Context, tok token.Token, a, b values.Value) (values.Value, error) {
			d, ok := a.(values.Dictionary)
			if !ok {
				return nil, fmt.Errorf("RemoveKey expects a dictionary")
			}
			return d.RemoveKey(b), nil
		}),
		"GetValue": binaryFn("GetValue", func(ctx *scope.Context, tok token.Token, a, b values.Value) (values.Value, error) {
			d, ok := a.(values.Dictionary)
			if !ok {
				return nil, fmt.Errorf("GetValue expects a dictionary")
			}
			v, found, err := d.Get(b)
			if err != nil {
				return nil, err
			}
			if !found {
				return nil, fmt.Errorf("key not found")
			}
			return v, nil
		}),
		"SetPrecision": binaryFn("SetPrecision", func(ctx *scope.Context, tok token.Token, a, b values.Value) (values.Value, error) {
			f, err := wantFloat(a, "SetPrecision")
			if err != nil {
				return nil, err
			}
			digits, err := wantFloat(b, "SetPrecision")
			if err != nil {
				return nil, err
			}
			return values.NewFloat(f.N.SetPrecision(int(digits.N.ToFloat64()))), nil
		}),
	}
}

func ternary() map[string]*values.Function {
	return map[string]*values.Function{
		"SubString": ternaryFn("SubString", func(ctx *scope.Context, tok token.Token, a, b, c values.Value) (values.Value, error) {
			s, err := wantString(a, "SubString")
			if err != nil {
				return nil, err
			}
			start, err := wantFloat(b, "SubString")
			if err != nil {
				return nil, err
			}
			length, err := wantFloat(c, "SubString")
			if err != nil {
				return nil, err
			}
			return s.SubString(int(start.N.ToFloat64()), int(length.N.ToFloat64()))
		}),
		"SetIndex": ternaryFn("SetIndex", func(ctx *scope.Context, tok token.Token, a, b, c values.Value) (values.Value, error) {
			return values.SetIndexed(a, b, c)
		}),
		"Insert": ternaryFn("Insert", func(ctx *scope.Context, tok token.Token, a, b, c values.Value) (values.Value, error) {
			d, ok := a.(values.Dictionary)
			if !ok {
				return nil, fmt.Errorf("Insert expects a dictionary")
			}
			return d.Insert(b, c), nil
		}),
	}
}

func minMax(a, b values.Value, wantMin bool) (values.Value, error) {
	af, aok := a.(values.Float)
	bf, bok := b.(values.Float)
	if !aok || !bok {
		return nil, fmt.Errorf("Min/Max expect two floats")
	}
	if af.N.ShortMinMax() {
		return af, nil
	}
	if bf.N.ShortMinMax() {
		return bf, nil
	}
	if wantMin {
		if af.N.Lt(bf.N) {
			return af, nil
		}
		return bf, nil
	}
	if af.N.Gt(bf.N) {
		return af, nil
	}
	return bf, nil
}
