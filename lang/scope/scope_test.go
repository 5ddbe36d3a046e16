package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellscript/cellscript/lang/token"
	"github.com/cellscript/cellscript/lang/values"
)

func testTok() token.Token {
	return token.MakeToken("<test>", token.MakePos(1, 1), 0, "")
}

func TestDeclareIsIdempotentForARepeatedName(t *testing.T) {
	s := NewScope()
	i1 := s.Declare("x")
	i2 := s.Declare("x")
	assert.Equal(t, i1, i2)
	assert.Equal(t, 1, s.Len())
}

func TestSetThenGetReturnsTheAssignedValueAndLeavesOthersAlone(t *testing.T) {
	s := NewScope()
	ix := s.Declare("x")
	iy := s.Declare("y")
	s.Set(iy, values.NewFloat(nil))

	s.Set(ix, values.String("hi"))
	v, err := s.Get(testTok(), ix)
	require.NoError(t, err)
	assert.Equal(t, values.String("hi"), v)
	assert.True(t, s.IsSet(iy))
}

func TestGetBeforeAssignmentIsFatal(t *testing.T) {
	s := NewScope()
	ix := s.Declare("x")
	_, err := s.Get(testTok(), ix)
	assert.Error(t, err)
}

func TestLookupReportsWhetherANameIsDeclared(t *testing.T) {
	s := NewScope()
	s.Declare("x")
	idx, ok := s.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	_, ok = s.Lookup("missing")
	assert.False(t, ok)
}
