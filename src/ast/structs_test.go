package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStructRegistryAddAndFind(t *testing.T) {
	reg := NewStructRegistry()
	pt := NewStruct("Point", []*Field{{Name: "x", Typ: TypeInt}, {Name: "y", Typ: TypeInt}})

	assert.True(t, reg.Add("Point", pt))
	assert.False(t, reg.Add("Point", pt), "a second registration of the same tag must fail")

	got, ok := reg.Find("Point")
	assert.True(t, ok)
	assert.Same(t, pt, got)

	_, ok = reg.Find("Missing")
	assert.False(t, ok)
}

func TestStructRegistryNamesPreservesDeclarationOrder(t *testing.T) {
	reg := NewStructRegistry()
	reg.Add("B", NewStruct("B", nil))
	reg.Add("A", NewStruct("A", nil))
	assert.Equal(t, []string{"B", "A"}, reg.Names())
}
