package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperandStringConvention(t *testing.T) {
	assert.Equal(t, "v3", NewVar(3, false).String())
	assert.Equal(t, "t3", NewVar(3, true).String())
	assert.Equal(t, "v5", NewAddr(5, false).String())
	assert.Equal(t, "#42", NewConst(42).String())
}

func TestOperandEqual(t *testing.T) {
	v := NewVar(1, false)
	a := NewAddr(1, false)
	assert.True(t, v.Equal(a), "Var and Addr of the same id must compare equal")
	assert.False(t, v.Equal(NewVar(2, false)))
	assert.True(t, NewConst(7).Equal(NewConst(7)))
	assert.False(t, NewConst(7).Equal(NewConst(8)))
	assert.False(t, v.Equal(NewConst(1)), "a Var must never compare equal to a Const")
}
