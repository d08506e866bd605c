package ast

import "github.com/nynrathod/mylang/common"

// Pattern is the abstract interface for binding patterns: the left-hand shapes
// of variable declarations and for-loop headers.
type Pattern interface {
	ASTNode
}

// IdentPattern binds a single name.
type IdentPattern struct {
	ASTBase

	// The name being bound.
	Name string

	// The symbol created for the binding.  Filled in by the analyzer.
	Sym *common.Symbol
}

// TuplePattern destructures a tuple into element patterns, eg. `(k, v)`.
type TuplePattern struct {
	ASTBase

	// The element patterns of the tuple.
	Elems []Pattern
}

// WildcardPattern discards the bound value: `_`.
type WildcardPattern struct {
	ASTBase
}
