package walk

import (
	"github.com/nynrathod/mylang/ast"
	"github.com/nynrathod/mylang/common"
	"github.com/nynrathod/mylang/report"
	"github.com/nynrathod/mylang/types"
)

// resolveTypeLabel resolves a type label written in source text to the type
// it references.
func (w *Walker) resolveTypeLabel(label ast.TypeExpr) types.Type {
	switch v := label.(type) {
	case *ast.NamedTypeExpr:
		switch v.Name {
		case "Int":
			return types.PrimTypeInt
		case "Str":
			return types.PrimTypeStr
		case "Bool":
			return types.PrimTypeBool
		}

		sym := w.lookup(v.Name, v.Span())

		if sym.DefKind != common.DefKindType {
			w.error(report.KindTypeMismatch, v.Span(), "`%s` is not a type", v.Name)
		}

		sym.Used = true
		return sym.Type
	case *ast.ArrayTypeExpr:
		elemType := w.resolveTypeLabel(v.Elem)

		if !isValidElemType(elemType) {
			w.recError(
				report.KindTypeMismatch,
				v.Elem.Span(),
				"type `%s` cannot be stored in an array",
				elemType.Repr(),
			)
		}

		return &types.ArrayType{ElemType: elemType}
	case *ast.MapTypeExpr:
		keyType := w.resolveTypeLabel(v.Key)

		if !isValidKeyType(keyType) {
			w.recError(
				report.KindTypeMismatch,
				v.Key.Span(),
				"type `%s` cannot be used as a map key",
				keyType.Repr(),
			)
		}

		valueType := w.resolveTypeLabel(v.Value)

		if !isValidElemType(valueType) {
			w.recError(
				report.KindTypeMismatch,
				v.Value.Span(),
				"type `%s` cannot be stored in a map",
				valueType.Repr(),
			)
		}

		return &types.MapType{KeyType: keyType, ValueType: valueType}
	case *ast.TupleTypeExpr:
		elemTypes := make(types.TupleType, len(v.Elems))
		for i, elem := range v.Elems {
			elemTypes[i] = w.resolveTypeLabel(elem)
		}

		return elemTypes
	default:
		report.ReportICE("unexpected type label AST: %T", label)
		return nil
	}
}

// isValidKeyType returns whether the given type may key a map.  Map keys are
// restricted to the hashable primitives.
func isValidKeyType(typ types.Type) bool {
	return types.Equals(typ, types.PrimTypeInt) ||
		types.Equals(typ, types.PrimTypeStr) ||
		types.Equals(typ, types.PrimTypeBool)
}

// isValidElemType returns whether the given type may be stored as an array
// element or map value.  Container slots hold the primitives and heap
// handles; tuples and declared nominal types have no single-slot runtime
// representation.
func isValidElemType(typ types.Type) bool {
	switch typ.(type) {
	case types.TupleType, *types.StructType, *types.EnumType:
		return false
	}

	return true
}
