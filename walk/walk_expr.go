package walk

import (
	"strconv"

	"github.com/nynrathod/mylang/ast"
	"github.com/nynrathod/mylang/common"
	"github.com/nynrathod/mylang/report"
	"github.com/nynrathod/mylang/syntax"
	"github.com/nynrathod/mylang/types"
)

// walkExpr walks an AST expression and annotates it with its resolved type.
func (w *Walker) walkExpr(expr ast.ASTExpr) {
	w.walkExprExpecting(expr, nil)
}

// walkExprExpecting walks an AST expression with an optional expected type.
// The expected type is only a hint: it lets empty container literals take
// their type from an enclosing annotation.  It does not relax checking: the
// caller still compares the annotated type against the expected one.
func (w *Walker) walkExprExpecting(expr ast.ASTExpr, expected types.Type) {
	switch v := expr.(type) {
	case *ast.Literal:
		w.walkLiteral(v)
	case *ast.Identifier:
		sym := w.lookup(v.Name, v.Span())

		switch sym.DefKind {
		case common.DefKindType:
			w.error(report.KindTypeMismatch, v.Span(), "`%s` is a type, not a value", v.Name)
		case common.DefKindFunc:
			// Doo functions are not first-class values.
			w.error(report.KindTypeMismatch, v.Span(), "function `%s` can only be called", v.Name)
		}

		sym.Used = true
		v.Sym = sym
		v.SetType(sym.Type)
	case *ast.ArrayLit:
		w.walkArrayLit(v, expected)
	case *ast.MapLit:
		w.walkMapLit(v, expected)
	case *ast.TupleLit:
		w.walkTupleLit(v, expected)
	case *ast.UnaryOp:
		w.walkUnaryOp(v)
	case *ast.BinOp:
		w.walkExpr(v.Lhs)
		w.walkExpr(v.Rhs)

		v.SetType(w.checkBinaryOp(v.OpKind, v.Lhs, v.Rhs, v.OpSpan))
	case *ast.Call:
		w.walkCall(v)
	case *ast.Index:
		w.walkExpr(v.Operand)
		w.walkExpr(v.Sub)
		w.checkIndex(v)
	case *ast.RangeExpr:
		w.error(report.KindTypeMismatch, v.Span(), "range expressions are only valid as `for` loop iterables")
	default:
		report.ReportICE("unexpected expression AST: %T", expr)
	}
}

// walkLiteral walks a literal value.
func (w *Walker) walkLiteral(lit *ast.Literal) {
	switch lit.Kind {
	case syntax.TOK_INTLIT:
		if _, err := strconv.ParseInt(lit.Value, 0, 64); err != nil {
			w.recError(report.KindTypeMismatch, lit.Span(), "integer literal out of range")
		}

		lit.SetType(types.PrimTypeInt)
	case syntax.TOK_STRINGLIT:
		lit.SetType(types.PrimTypeStr)
	case syntax.TOK_BOOLLIT:
		lit.SetType(types.PrimTypeBool)
	default:
		report.ReportICE("unexpected literal kind: %d", lit.Kind)
	}
}

/* -------------------------------------------------------------------------- */

// walkArrayLit walks an array literal.
func (w *Walker) walkArrayLit(lit *ast.ArrayLit, expected types.Type) {
	expectedArray, _ := expected.(*types.ArrayType)

	if len(lit.Elems) == 0 {
		if expectedArray == nil {
			w.error(report.KindTypeMismatch, lit.Span(), "cannot infer the element type of an empty array literal")
		}

		lit.SetType(expectedArray)
		return
	}

	var elemHint types.Type
	if expectedArray != nil {
		elemHint = expectedArray.ElemType
	}

	// The first element fixes the element type of the array.
	w.walkExprExpecting(lit.Elems[0], elemHint)
	elemType := lit.Elems[0].Type()

	if !isValidElemType(elemType) {
		w.recError(
			report.KindTypeMismatch,
			lit.Elems[0].Span(),
			"type `%s` cannot be stored in an array",
			elemType.Repr(),
		)
	}

	for _, elem := range lit.Elems[1:] {
		w.walkExprExpecting(elem, elemHint)

		if !types.Equals(elem.Type(), elemType) {
			w.recError(
				report.KindTypeMismatch,
				elem.Span(),
				"expected an element of type `%s`, but found `%s`",
				elemType.Repr(),
				elem.Type().Repr(),
			)
		}
	}

	lit.SetType(&types.ArrayType{ElemType: elemType})
}

// walkMapLit walks a map literal.
func (w *Walker) walkMapLit(lit *ast.MapLit, expected types.Type) {
	expectedMap, _ := expected.(*types.MapType)

	if len(lit.Entries) == 0 {
		if expectedMap == nil {
			w.error(report.KindTypeMismatch, lit.Span(), "cannot infer the entry types of an empty map literal")
		}

		lit.SetType(expectedMap)
		return
	}

	var keyHint, valueHint types.Type
	if expectedMap != nil {
		keyHint = expectedMap.KeyType
		valueHint = expectedMap.ValueType
	}

	// The first entry fixes the key and value types of the map.
	w.walkExprExpecting(lit.Entries[0].Key, keyHint)
	w.walkExprExpecting(lit.Entries[0].Value, valueHint)

	keyType := lit.Entries[0].Key.Type()
	valueType := lit.Entries[0].Value.Type()

	if !isValidKeyType(keyType) {
		w.recError(
			report.KindTypeMismatch,
			lit.Entries[0].Key.Span(),
			"type `%s` cannot be used as a map key",
			keyType.Repr(),
		)
	}

	if !isValidElemType(valueType) {
		w.recError(
			report.KindTypeMismatch,
			lit.Entries[0].Value.Span(),
			"type `%s` cannot be stored in a map",
			valueType.Repr(),
		)
	}

	for _, entry := range lit.Entries[1:] {
		w.walkExprExpecting(entry.Key, keyHint)
		w.walkExprExpecting(entry.Value, valueHint)

		if !types.Equals(entry.Key.Type(), keyType) {
			w.recError(
				report.KindTypeMismatch,
				entry.Key.Span(),
				"expected a key of type `%s`, but found `%s`",
				keyType.Repr(),
				entry.Key.Type().Repr(),
			)
		}

		if !types.Equals(entry.Value.Type(), valueType) {
			w.recError(
				report.KindTypeMismatch,
				entry.Value.Span(),
				"expected a value of type `%s`, but found `%s`",
				valueType.Repr(),
				entry.Value.Type().Repr(),
			)
		}
	}

	lit.SetType(&types.MapType{KeyType: keyType, ValueType: valueType})
}

// walkTupleLit walks a tuple literal.
func (w *Walker) walkTupleLit(lit *ast.TupleLit, expected types.Type) {
	expectedTuple, _ := expected.(types.TupleType)

	elemTypes := make(types.TupleType, len(lit.Elems))
	for i, elem := range lit.Elems {
		var elemHint types.Type
		if len(expectedTuple) == len(lit.Elems) {
			elemHint = expectedTuple[i]
		}

		w.walkExprExpecting(elem, elemHint)
		elemTypes[i] = elem.Type()
	}

	lit.SetType(elemTypes)
}

/* -------------------------------------------------------------------------- */

// walkUnaryOp walks a unary operator application.
func (w *Walker) walkUnaryOp(uo *ast.UnaryOp) {
	w.walkExpr(uo.Operand)

	switch uo.OpKind {
	case syntax.TOK_MINUS:
		if !types.Equals(uo.Operand.Type(), types.PrimTypeInt) {
			w.recError(
				report.KindTypeMismatch,
				uo.Operand.Span(),
				"operator `-` cannot be applied to a value of type `%s`",
				uo.Operand.Type().Repr(),
			)
		}

		uo.SetType(types.PrimTypeInt)
	case syntax.TOK_NOT:
		if !types.Equals(uo.Operand.Type(), types.PrimTypeBool) {
			w.recError(
				report.KindTypeMismatch,
				uo.Operand.Span(),
				"operator `!` cannot be applied to a value of type `%s`",
				uo.Operand.Type().Repr(),
			)
		}

		uo.SetType(types.PrimTypeBool)
	default:
		report.ReportICE("unexpected unary operator: %d", uo.OpKind)
	}
}

// walkCall walks a function call.
func (w *Walker) walkCall(call *ast.Call) {
	sym := w.lookup(call.Func.Name, call.Func.Span())

	if sym.DefKind != common.DefKindFunc {
		w.error(report.KindTypeMismatch, call.Func.Span(), "`%s` is not a function", call.Func.Name)
	}

	sym.Used = true
	call.Func.Sym = sym
	call.Func.SetType(sym.Type)

	ft := sym.Type.(*types.FuncType)

	if len(call.Args) != len(ft.ParamTypes) {
		w.recError(
			report.KindTypeMismatch,
			call.Span(),
			"function `%s` takes %d arguments, but %d were given",
			sym.Name,
			len(ft.ParamTypes),
			len(call.Args),
		)
	}

	for i, arg := range call.Args {
		w.walkExpr(arg)

		if i < len(ft.ParamTypes) && !types.Equals(arg.Type(), ft.ParamTypes[i]) {
			w.recError(
				report.KindTypeMismatch,
				arg.Span(),
				"expected an argument of type `%s`, but found `%s`",
				ft.ParamTypes[i].Repr(),
				arg.Type().Repr(),
			)
		}
	}

	call.SetType(ft.ReturnType)
}

// checkIndex checks an element access whose operand and subscript have
// already been walked and annotates it with its element type.
func (w *Walker) checkIndex(index *ast.Index) {
	switch opType := index.Operand.Type().(type) {
	case *types.ArrayType:
		if !types.Equals(index.Sub.Type(), types.PrimTypeInt) {
			w.recError(
				report.KindTypeMismatch,
				index.Sub.Span(),
				"array index must be of type `Int`, but found `%s`",
				index.Sub.Type().Repr(),
			)
		}

		index.SetType(opType.ElemType)
	case *types.MapType:
		if !types.Equals(index.Sub.Type(), opType.KeyType) {
			w.recError(
				report.KindTypeMismatch,
				index.Sub.Span(),
				"expected a key of type `%s`, but found `%s`",
				opType.KeyType.Repr(),
				index.Sub.Type().Repr(),
			)
		}

		index.SetType(opType.ValueType)
	default:
		w.error(
			report.KindTypeMismatch,
			index.Operand.Span(),
			"cannot index a value of type `%s`",
			index.Operand.Type().Repr(),
		)
	}
}
