package ast

// TypeExpr is the abstract interface for type labels as written in source
// text.  Type labels are resolved to types.Type values by the analyzer, which
// is the only component with the symbol visibility to resolve named types.
type TypeExpr interface {
	ASTNode
}

// NamedTypeExpr references a type by name: a primitive (`Int`, `Str`, `Bool`)
// or a declared struct or enum.
type NamedTypeExpr struct {
	ASTBase

	// The referenced type name.
	Name string
}

// ArrayTypeExpr is an array type label, eg. `[Int]`.
type ArrayTypeExpr struct {
	ASTBase

	// The element type label.
	Elem TypeExpr
}

// MapTypeExpr is a map type label, eg. `{Str: Int}`.
type MapTypeExpr struct {
	ASTBase

	// The key type label.
	Key TypeExpr

	// The value type label.
	Value TypeExpr
}

// TupleTypeExpr is a tuple type label, eg. `(Int, Str)`.
type TupleTypeExpr struct {
	ASTBase

	// The element type labels.
	Elems []TypeExpr
}
