package types

// IsHeapBacked returns whether values of the given type live in RC-managed
// heap storage.  Str, Array, and Map values are always heap-backed; a struct
// or enum is heap-backed iff it transitively contains a heap-backed field or
// variant payload.  Int, Bool, and Unit are value types, never RC-managed.
func IsHeapBacked(t Type) bool {
	return heapBacked(t, make(map[NamedType]struct{}))
}

func heapBacked(t Type, visiting map[NamedType]struct{}) bool {
	switch v := t.(type) {
	case PrimitiveType:
		return v == PrimTypeStr
	case *ArrayType, *MapType:
		return true
	case TupleType:
		for _, elem := range v {
			if heapBacked(elem, visiting) {
				return true
			}
		}

		return false
	case *StructType:
		if _, ok := visiting[v]; ok {
			return false
		}
		visiting[v] = struct{}{}

		for _, field := range v.Fields {
			if heapBacked(field.Type, visiting) {
				return true
			}
		}

		return false
	case *EnumType:
		if _, ok := visiting[v]; ok {
			return false
		}
		visiting[v] = struct{}{}

		for _, variant := range v.Variants {
			if variant.Payload != nil && heapBacked(variant.Payload, visiting) {
				return true
			}
		}

		return false
	default:
		return false
	}
}
