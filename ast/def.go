package ast

import (
	"github.com/nynrathod/mylang/common"
	"github.com/nynrathod/mylang/report"
	"github.com/nynrathod/mylang/types"
)

// FuncDecl represents a function declaration.
type FuncDecl struct {
	ASTBase

	// The name of the function.
	Name string

	// The span of the function's name.
	NameSpan *report.TextSpan

	// The parameters of the function in source order.
	Params []FuncParam

	// The declared return type label.  Nil for functions returning nothing.
	ReturnLabel TypeExpr

	// The body of the function.
	Body *Block

	// The symbol declaring this function.  Filled in by the analyzer.
	Sym *common.Symbol
}

// FuncParam represents a single function parameter.
type FuncParam struct {
	// The name of the parameter.
	Name string

	// The span of the parameter's name.
	NameSpan *report.TextSpan

	// The declared type label of the parameter.
	TypeLabel TypeExpr

	// The symbol created for the parameter.  Filled in by the analyzer.
	Sym *common.Symbol
}

// StructDecl represents a struct type declaration.
type StructDecl struct {
	ASTBase

	// The name of the struct.
	Name string

	// The span of the struct's name.
	NameSpan *report.TextSpan

	// The declared fields in source order.
	Fields []StructFieldDecl

	// The nominal type this declaration defines.  Filled in by the analyzer.
	DefinedType *types.StructType
}

// StructFieldDecl represents a single declared struct field.
type StructFieldDecl struct {
	// The name of the field.
	Name string

	// The span of the field's name.
	NameSpan *report.TextSpan

	// The declared type label of the field.
	TypeLabel TypeExpr
}

// EnumDecl represents an enum type declaration.
type EnumDecl struct {
	ASTBase

	// The name of the enum.
	Name string

	// The span of the enum's name.
	NameSpan *report.TextSpan

	// The declared variants in source order.
	Variants []EnumVariantDecl

	// The nominal type this declaration defines.  Filled in by the analyzer.
	DefinedType *types.EnumType
}

// EnumVariantDecl represents a single declared enum variant.
type EnumVariantDecl struct {
	// The name of the variant.
	Name string

	// The span of the variant's name.
	NameSpan *report.TextSpan

	// The payload type label of the variant.  Nil for variants carrying no
	// payload.
	PayloadLabel TypeExpr
}

// -----------------------------------------------------------------------------

// Import represents an import declaration, eg. `import http::Client::Fetch;`
// or `import http::Client::{Fetch, Post};` or `import a::B::Sym as s;`.
type Import struct {
	ASTBase

	// The module path segments, eg. ["http", "Client"].  The final segment
	// names the module file; preceding segments name directories.
	ModulePath []string

	// The symbols imported from the module.
	Symbols []ImportedSymbol

	// The absolute path of the module file the import resolves to.  Filled in
	// by the module resolver.
	ResolvedPath string
}

// ImportedSymbol represents a single imported symbol, optionally aliased.
type ImportedSymbol struct {
	// The exported name of the symbol in the target module.
	Name string

	// The local name the symbol is bound to.  Equal to Name unless the import
	// carries an `as` alias.
	Alias string

	// The span of the symbol reference.
	Span *report.TextSpan
}
