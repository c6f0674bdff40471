// type.go defines the static type system: a small tagged union over basic,
// array, struct and function types. Grounded on the teacher's handling of
// node-level type tags in ir/nodetype.go and ir/validate.go's lutExp/lutAssign
// tables, generalised from the teacher's two-type (int/float) VSL language to
// cmmc's basic/array/struct/func lattice per spec §2.
package ast

import "fmt"

// TypeKind discriminates the Type union.
type TypeKind int

const (
	KindTypeInvalid TypeKind = iota
	KindTypeInt
	KindTypeFloat
	KindTypeArray
	KindTypeStruct
	KindTypeFunc
)

// Type is a tagged union: exactly the fields for Kind are meaningful.
type Type struct {
	Kind TypeKind

	// KindTypeArray.
	Elem *Type
	Len  int // number of elements; 0 for an unsized parameter-decay array

	// KindTypeStruct.
	StructName string
	Fields     []*Field // declaration order, for layout and display

	// KindTypeFunc.
	Ret    *Type
	Params []*Type
}

// Field is one member of a struct type.
type Field struct {
	Name string
	Typ  *Type
}

var (
	TypeInt   = &Type{Kind: KindTypeInt}
	TypeFloat = &Type{Kind: KindTypeFloat}
	TypeError = &Type{Kind: KindTypeInvalid} // sentinel: "already reported, don't cascade"
)

// NewArray returns an array-of-elem type with the given element count.
func NewArray(elem *Type, length int) *Type {
	return &Type{Kind: KindTypeArray, Elem: elem, Len: length}
}

// NewStruct returns a named struct type over fields.
func NewStruct(name string, fields []*Field) *Type {
	return &Type{Kind: KindTypeStruct, StructName: name, Fields: fields}
}

// NewFunc returns a function type from params to ret.
func NewFunc(ret *Type, params []*Type) *Type {
	return &Type{Kind: KindTypeFunc, Ret: ret, Params: params}
}

// IsBasic reports whether t is int or float.
func (t *Type) IsBasic() bool {
	return t != nil && (t.Kind == KindTypeInt || t.Kind == KindTypeFloat)
}

// IsError reports whether t is the error sentinel type, used to suppress
// cascading diagnostics once one error has already been reported for an
// expression (spec §7).
func (t *Type) IsError() bool {
	return t == nil || t.Kind == KindTypeInvalid
}

// Field looks up a struct field by name, returning nil if absent or t is not
// a struct type.
func (t *Type) Field(name string) *Field {
	if t == nil || t.Kind != KindTypeStruct {
		return nil
	}
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Equal reports whether t and u denote the same type. Struct types compare
// structurally, field by field in order (name ignored, only each field's
// type must match): two differently-named structs whose fields line up are
// the same type, per spec §4.1. Array types compare element type and length
// must both match for assignment compatibility, except that a 0-length
// array type (an array-parameter's decayed pointer type) matches any length
// of the same element type.
func (t *Type) Equal(u *Type) bool {
	if t == nil || u == nil {
		return false
	}
	if t.IsError() || u.IsError() {
		return true // already reported; don't cascade a second diagnostic
	}
	if t.Kind != u.Kind {
		return false
	}
	switch t.Kind {
	case KindTypeInt, KindTypeFloat:
		return true
	case KindTypeArray:
		if !t.Elem.Equal(u.Elem) {
			return false
		}
		return t.Len == 0 || u.Len == 0 || t.Len == u.Len
	case KindTypeStruct:
		if len(t.Fields) != len(u.Fields) {
			return false
		}
		for i := range t.Fields {
			if !t.Fields[i].Typ.Equal(u.Fields[i].Typ) {
				return false
			}
		}
		return true
	case KindTypeFunc:
		if !t.Ret.Equal(u.Ret) || len(t.Params) != len(u.Params) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equal(u.Params[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Width returns the size in bytes of a value of type t, per spec §2: basic
// types are 4 bytes (word), arrays are Len*Elem.Width(), structs are the sum
// of field widths.
func (t *Type) Width() int {
	if t == nil {
		return 0
	}
	switch t.Kind {
	case KindTypeInt, KindTypeFloat:
		return 4
	case KindTypeArray:
		return t.Len * t.Elem.Width()
	case KindTypeStruct:
		w := 0
		for _, f := range t.Fields {
			w += f.Typ.Width()
		}
		return w
	default:
		return 0
	}
}

// Offset returns the byte offset of field name within a struct type t, and
// whether the field exists.
func (t *Type) Offset(name string) (int, bool) {
	if t == nil || t.Kind != KindTypeStruct {
		return 0, false
	}
	off := 0
	for _, f := range t.Fields {
		if f.Name == name {
			return off, true
		}
		off += f.Typ.Width()
	}
	return 0, false
}

// String renders t the way diagnostics and the -ast dump expect to see it.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindTypeInt:
		return "int"
	case KindTypeFloat:
		return "float"
	case KindTypeArray:
		return fmt.Sprintf("%s[%d]", t.Elem, t.Len)
	case KindTypeStruct:
		return fmt.Sprintf("struct %s", t.StructName)
	case KindTypeFunc:
		return fmt.Sprintf("func(%v) %s", t.Params, t.Ret)
	default:
		return "<invalid>"
	}
}
