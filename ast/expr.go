package ast

import (
	"github.com/nynrathod/mylang/common"
	"github.com/nynrathod/mylang/report"
)

// Literal represents a literal value: an integer, string, or boolean.
type Literal struct {
	ExprBase

	// The token kind of the literal.
	Kind int

	// The literal text as written in the source.
	Value string
}

// Identifier represents a reference to a named symbol.
type Identifier struct {
	ExprBase

	// The name being referenced.
	Name string

	// The symbol the name resolves to.  Filled in by the analyzer.
	Sym *common.Symbol
}

// ArrayLit represents an array literal, eg. `[1, 2, 3]`.
type ArrayLit struct {
	ExprBase

	// The element expressions of the array.
	Elems []ASTExpr
}

// MapLit represents a map literal, eg. `{"a": 1, "b": 2}`.
type MapLit struct {
	ExprBase

	// The key-value entries of the map in source order.
	Entries []MapEntry
}

// MapEntry is a single key-value pair of a map literal.
type MapEntry struct {
	Key   ASTExpr
	Value ASTExpr
}

// TupleLit represents a tuple literal, eg. `(1, "a")`.
type TupleLit struct {
	ExprBase

	// The element expressions of the tuple.
	Elems []ASTExpr
}

// RangeExpr represents an integer range, eg. `0..10` or `0..=10`.
type RangeExpr struct {
	ExprBase

	// The lower bound of the range.
	Start ASTExpr

	// The upper bound of the range.
	End ASTExpr

	// Whether the upper bound is included in the range.
	Inclusive bool
}

// UnaryOp represents a unary operator application.
type UnaryOp struct {
	ExprBase

	// The token kind of the operator.
	OpKind int

	// The operand of the operator.
	Operand ASTExpr
}

// BinOp represents a binary operator application.
type BinOp struct {
	ExprBase

	// The token kind of the operator.
	OpKind int

	// The span of the operator itself, used for diagnostics.
	OpSpan *report.TextSpan

	// The operands of the operator.
	Lhs, Rhs ASTExpr
}

// Call represents a function call.
type Call struct {
	ExprBase

	// The function being called.  This is always an identifier: Doo functions
	// are not first-class values.
	Func *Identifier

	// The argument expressions in source order.
	Args []ASTExpr
}

// Index represents an element access, eg. `arr[0]` or `m["key"]`.
type Index struct {
	ExprBase

	// The value being indexed.
	Operand ASTExpr

	// The index or key expression.
	Sub ASTExpr
}
