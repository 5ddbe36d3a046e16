package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cellscript/cellscript/lang/numeric"
)

func TestPushFrameIncrementsDepthAndLinksPrev(t *testing.T) {
	ctx := NewContext(numeric.NewDecimalBackend())
	def := &FunctionDef{Name: "f", NArgs: 1}

	outer := NewStackFrame(def, testTok(), ctx.Frame())
	ctx.PushFrame(outer)
	assert.Equal(t, 0, outer.Depth)
	assert.Same(t, outer, ctx.Frame())

	inner := NewStackFrame(def, testTok(), ctx.Frame())
	ctx.PushFrame(inner)
	assert.Equal(t, 1, inner.Depth)
	assert.Same(t, outer, inner.Prev)
	assert.Same(t, inner, outer.Next)
}

func TestPopFrameUnlinksAndRestoresThePredecessor(t *testing.T) {
	ctx := NewContext(numeric.NewDecimalBackend())
	def := &FunctionDef{Name: "f"}

	outer := NewStackFrame(def, testTok(), ctx.Frame())
	ctx.PushFrame(outer)
	inner := NewStackFrame(def, testTok(), ctx.Frame())
	ctx.PushFrame(inner)

	ctx.PopFrame()
	assert.Same(t, outer, ctx.Frame())
	assert.Nil(t, outer.Next)

	ctx.PopFrame()
	assert.Nil(t, ctx.Frame())
}

func TestSetArgAndSetLocalTrackAssignment(t *testing.T) {
	def := &FunctionDef{Name: "f", NArgs: 2, NLocals: 1}
	fr := NewStackFrame(def, testTok(), nil)

	assert.False(t, fr.ArgIsSet(0))
	fr.SetArg(0, nil)
	assert.True(t, fr.ArgIsSet(0))
	assert.False(t, fr.ArgIsSet(1))

	assert.False(t, fr.LocalIsSet(0))
	fr.SetLocal(0, nil)
	assert.True(t, fr.LocalIsSet(0))
}
