package types

import "strings"

// ArrayType represents a Doo array type.
type ArrayType struct {
	// The element type of the array.
	ElemType Type
}

func (at *ArrayType) equals(other Type) bool {
	if oat, ok := other.(*ArrayType); ok {
		return at.ElemType.equals(oat.ElemType)
	}

	return false
}

func (at *ArrayType) Repr() string {
	return "[" + at.ElemType.Repr() + "]"
}

// -----------------------------------------------------------------------------

// MapType represents a Doo map type.
type MapType struct {
	// The key type of the map.  Only Int, Str, and Bool are valid key types.
	KeyType Type

	// The value type of the map.
	ValueType Type
}

func (mt *MapType) equals(other Type) bool {
	if omt, ok := other.(*MapType); ok {
		return mt.KeyType.equals(omt.KeyType) && mt.ValueType.equals(omt.ValueType)
	}

	return false
}

func (mt *MapType) Repr() string {
	return "{" + mt.KeyType.Repr() + ": " + mt.ValueType.Repr() + "}"
}

// -----------------------------------------------------------------------------

// TupleType represents a Doo tuple type: an ordered, fixed collection of
// element types.
type TupleType []Type

func (tt TupleType) equals(other Type) bool {
	ott, ok := other.(TupleType)
	if !ok || len(tt) != len(ott) {
		return false
	}

	for i, elem := range tt {
		if !elem.equals(ott[i]) {
			return false
		}
	}

	return true
}

func (tt TupleType) Repr() string {
	sb := strings.Builder{}
	sb.WriteRune('(')

	for i, elem := range tt {
		sb.WriteString(elem.Repr())

		if i < len(tt)-1 {
			sb.WriteString(", ")
		}
	}

	sb.WriteRune(')')
	return sb.String()
}

// -----------------------------------------------------------------------------

// FuncType represents a Doo function type.
type FuncType struct {
	// The types of the function's parameters.
	ParamTypes []Type

	// The return type of the function.  Functions which return nothing have a
	// Unit return type.
	ReturnType Type
}

func (ft *FuncType) equals(other Type) bool {
	oft, ok := other.(*FuncType)
	if !ok || len(ft.ParamTypes) != len(oft.ParamTypes) {
		return false
	}

	for i, pt := range ft.ParamTypes {
		if !pt.equals(oft.ParamTypes[i]) {
			return false
		}
	}

	return ft.ReturnType.equals(oft.ReturnType)
}

func (ft *FuncType) Repr() string {
	sb := strings.Builder{}
	sb.WriteString("fn (")

	for i, pt := range ft.ParamTypes {
		sb.WriteString(pt.Repr())

		if i < len(ft.ParamTypes)-1 {
			sb.WriteString(", ")
		}
	}

	sb.WriteRune(')')

	if !Equals(ft.ReturnType, PrimTypeUnit) {
		sb.WriteString(" -> ")
		sb.WriteString(ft.ReturnType.Repr())
	}

	return sb.String()
}
