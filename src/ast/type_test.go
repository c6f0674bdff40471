package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeEqualBasic(t *testing.T) {
	assert.True(t, TypeInt.Equal(TypeInt))
	assert.True(t, TypeFloat.Equal(TypeFloat))
	assert.False(t, TypeInt.Equal(TypeFloat))
}

func TestTypeEqualArray(t *testing.T) {
	a := NewArray(TypeInt, 4)
	b := NewArray(TypeInt, 4)
	c := NewArray(TypeInt, 5)
	d := NewArray(TypeFloat, 4)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c), "differing length must not compare equal")
	assert.False(t, a.Equal(d), "differing element type must not compare equal")
}

func TestTypeEqualStruct(t *testing.T) {
	s1 := NewStruct("Point", []*Field{{Name: "x", Typ: TypeInt}, {Name: "y", Typ: TypeInt}})
	s2 := NewStruct("Point", []*Field{{Name: "x", Typ: TypeInt}, {Name: "y", Typ: TypeInt}})
	s3 := NewStruct("Pair", []*Field{{Name: "x", Typ: TypeInt}, {Name: "y", Typ: TypeFloat}})
	assert.True(t, s1.Equal(s2))
	assert.False(t, s1.Equal(s3), "differing field types must not compare equal")
}

func TestTypeEqualStructIsStructuralNotNameBased(t *testing.T) {
	point := NewStruct("Point", []*Field{{Name: "x", Typ: TypeInt}, {Name: "y", Typ: TypeInt}})
	vector := NewStruct("Vector", []*Field{{Name: "dx", Typ: TypeInt}, {Name: "dy", Typ: TypeInt}})
	assert.True(t, point.Equal(vector), "two differently-named structs with matching field types are the same type")

	short := NewStruct("Short", []*Field{{Name: "x", Typ: TypeInt}})
	assert.False(t, point.Equal(short), "a differing field count must not compare equal")
}

func TestTypeWidthAndOffset(t *testing.T) {
	s := NewStruct("Point", []*Field{{Name: "x", Typ: TypeInt}, {Name: "y", Typ: TypeFloat}})
	assert.Equal(t, 4, TypeInt.Width())
	assert.Equal(t, 4, TypeFloat.Width())
	assert.Equal(t, 8, s.Width())

	off, ok := s.Offset("y")
	assert.True(t, ok)
	assert.Equal(t, 4, off)

	_, ok = s.Offset("z")
	assert.False(t, ok)
}

func TestTypeArrayWidth(t *testing.T) {
	arr := NewArray(TypeInt, 10)
	assert.Equal(t, 40, arr.Width())
}
