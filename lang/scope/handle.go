package scope

import (
	"github.com/cellscript/cellscript/lang/errors"
	"github.com/cellscript/cellscript/lang/token"
	"github.com/cellscript/cellscript/lang/values"
)

// Class identifies which storage class a Getter/Setter handle is routed
// to. Handles are pure index references: they do not hold
// names at runtime, per this language This is the enum-dispatch alternative
// to the source's one-class-per-slot design noted in this language ("Getter/
// Setter explosion"): Class+Index removes the per-slot object while
// preserving O(1) access.
type Class uint8

const (
	GlobalClass Class = iota
	ScopeClass
	ArgClass
	LocalClass
	CaptureClass
)

// Getter is a compact, parse-time-bound accessor for a named read,
// routed to the correct storage class.
type Getter struct {
	Class Class
	Index int
}

// Setter is the write counterpart of Getter.
type Setter struct {
	Class Class
	Index int
}

func (g Getter) Get(ctx *Context, tok token.Token) (values.Value, error) {
	switch g.Class {
	case GlobalClass:
		return ctx.Global.Get(tok, g.Index)
	case ScopeClass:
		if ctx.Local == nil {
			return nil, errors.NewFatalError(tok, "no local scope is active")
		}
		return ctx.Local.Get(tok, g.Index)
	case ArgClass:
		fr := ctx.Frame()
		if fr == nil {
			return nil, errors.NewFatalError(tok, "no active call frame")
		}
		if !fr.ArgIsSet(g.Index) {
			return nil, errors.NewFatalError(tok, "argument %d read before assignment", g.Index)
		}
		return fr.Args[g.Index], nil
	case LocalClass:
		fr := ctx.Frame()
		if fr == nil {
			return nil, errors.NewFatalError(tok, "no active call frame")
		}
		if !fr.LocalIsSet(g.Index) {
			return nil, errors.NewFatalError(tok, "local %d read before assignment", g.Index)
		}
		return fr.Local[g.Index], nil
	case CaptureClass:
		fr := ctx.Frame()
		if fr == nil {
			return nil, errors.NewFatalError(tok, "no active call frame")
		}
		return fr.Cap[g.Index], nil
	default:
		return nil, errors.NewFatalError(tok, "invalid getter class %d", g.Class)
	}
}

func (s Setter) Set(ctx *Context, tok token.Token, v values.Value) error {
	switch s.Class {
	case GlobalClass:
		ctx.Global.Set(s.Index, v)
		return nil
	case ScopeClass:
		if ctx.Local == nil {
			return errors.NewFatalError(tok, "no local scope is active")
		}
		ctx.Local.Set(s.Index, v)
		return nil
	case ArgClass:
		fr := ctx.Frame()
		if fr == nil {
			return errors.NewFatalError(tok, "no active call frame")
		}
		fr.SetArg(s.Index, v)
		return nil
	case LocalClass:
		fr := ctx.Frame()
		if fr == nil {
			return errors.NewFatalError(tok, "no active call frame")
		}
		fr.SetLocal(s.Index, v)
		return nil
	case CaptureClass:
		fr := ctx.Frame()
		if fr == nil {
			return errors.NewFatalError(tok, "no active call frame")
		}
		// Deliberately local-to-frame: does not write back to the Function's
		// own Captures vector .
		fr.SetCapture(s.Index, v)
		return nil
	default:
		return errors.NewFatalError(tok, "invalid setter class %d", s.Class)
	}
}
