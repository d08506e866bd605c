package walk

import (
	"github.com/nynrathod/mylang/ast"
	"github.com/nynrathod/mylang/report"
	"github.com/nynrathod/mylang/syntax"
	"github.com/nynrathod/mylang/types"
)

// opText maps binary operator token kinds to their source text for use in
// diagnostics.
var opText = map[int]string{
	syntax.TOK_PLUS:  "+",
	syntax.TOK_MINUS: "-",
	syntax.TOK_STAR:  "*",
	syntax.TOK_DIV:   "/",
	syntax.TOK_MOD:   "%",
	syntax.TOK_LT:    "<",
	syntax.TOK_GT:    ">",
	syntax.TOK_LTEQ:  "<=",
	syntax.TOK_GTEQ:  ">=",
	syntax.TOK_EQ:    "==",
	syntax.TOK_NEQ:   "!=",
	syntax.TOK_LAND:  "&&",
	syntax.TOK_LOR:   "||",
}

// checkBinaryOp checks a binary operator application against the fixed table
// of admissible operand types and returns its result type.  Both operands
// must already be walked.
func (w *Walker) checkBinaryOp(op int, lhs, rhs ast.ASTExpr, span *report.TextSpan) types.Type {
	lhsType, rhsType := lhs.Type(), rhs.Type()

	switch op {
	case syntax.TOK_PLUS:
		// `+` doubles as string concatenation.
		if bothAre(lhsType, rhsType, types.PrimTypeInt) {
			return types.PrimTypeInt
		} else if bothAre(lhsType, rhsType, types.PrimTypeStr) {
			return types.PrimTypeStr
		}
	case syntax.TOK_MINUS, syntax.TOK_STAR, syntax.TOK_DIV, syntax.TOK_MOD:
		if bothAre(lhsType, rhsType, types.PrimTypeInt) {
			return types.PrimTypeInt
		}
	case syntax.TOK_LT, syntax.TOK_GT, syntax.TOK_LTEQ, syntax.TOK_GTEQ:
		if bothAre(lhsType, rhsType, types.PrimTypeInt) {
			return types.PrimTypeBool
		}
	case syntax.TOK_EQ, syntax.TOK_NEQ:
		if types.Equals(lhsType, rhsType) && isEquatable(lhsType) {
			return types.PrimTypeBool
		}
	case syntax.TOK_LAND, syntax.TOK_LOR:
		if bothAre(lhsType, rhsType, types.PrimTypeBool) {
			return types.PrimTypeBool
		}
	default:
		report.ReportICE("unexpected binary operator: %d", op)
	}

	w.recError(
		report.KindTypeMismatch,
		span,
		"operator `%s` cannot be applied to values of type `%s` and `%s`",
		opText[op],
		lhsType.Repr(),
		rhsType.Repr(),
	)

	// Recover with the most plausible result type so that walking continues.
	switch op {
	case syntax.TOK_LT, syntax.TOK_GT, syntax.TOK_LTEQ, syntax.TOK_GTEQ,
		syntax.TOK_EQ, syntax.TOK_NEQ, syntax.TOK_LAND, syntax.TOK_LOR:
		return types.PrimTypeBool
	default:
		return lhsType
	}
}

// bothAre returns whether both given types equal the wanted type.
func bothAre(a, b, want types.Type) bool {
	return types.Equals(a, want) && types.Equals(b, want)
}

// isEquatable returns whether values of the given type can be compared with
// `==` and `!=`.  Equality is defined for the primitive value types and for
// strings; containers have no equality.
func isEquatable(typ types.Type) bool {
	return types.Equals(typ, types.PrimTypeInt) ||
		types.Equals(typ, types.PrimTypeStr) ||
		types.Equals(typ, types.PrimTypeBool)
}
