package types

// Type represents a Doo data type.
type Type interface {
	// Returns whether this type is equal to the other type.  This should only
	// be called within methods of type instances: external callers should use
	// the package-level Equals.
	equals(other Type) bool

	// Returns the representative string for this type.
	Repr() string
}

// Equals returns whether two types are equal.  Compound types compare
// structurally; struct and enum types compare nominally.
func Equals(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.equals(b)
}

// -----------------------------------------------------------------------------

// PrimitiveType represents a primitive type.  This must be one of the
// enumerated primitive type values below.
type PrimitiveType int

// Enumeration of the different primitive types.
const (
	PrimTypeUnit = PrimitiveType(iota)
	PrimTypeInt
	PrimTypeStr
	PrimTypeBool
)

func (pt PrimitiveType) equals(other Type) bool {
	if opt, ok := other.(PrimitiveType); ok {
		return pt == opt
	}

	return false
}

func (pt PrimitiveType) Repr() string {
	switch pt {
	case PrimTypeUnit:
		return "Unit"
	case PrimTypeInt:
		return "Int"
	case PrimTypeStr:
		return "Str"
	case PrimTypeBool:
		return "Bool"
	default:
		return "<unknown>"
	}
}
