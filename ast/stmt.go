package ast

// VarDecl represents a variable declaration.
type VarDecl struct {
	ASTBase

	// Whether the binding was declared with `mut`.
	Mutable bool

	// The binding pattern: a single name, a tuple destructuring, or a
	// wildcard.
	Pattern Pattern

	// The declared type label.  This is nil when the type is inferred from the
	// initializer.
	TypeLabel TypeExpr

	// The initializer expression.
	Initializer ASTExpr
}

// Assign represents an assignment statement, plain or compound.
type Assign struct {
	ASTBase

	// The target of the assignment: an identifier or an element access.
	Lhs ASTExpr

	// For a compound assignment (`+=`, `-=`, ...), the token kind of the
	// underlying binary operator.  AssignPlain for a plain `=`.
	CompoundOp int

	// The assigned expression.
	Rhs ASTExpr
}

// AssignPlain marks a plain `=` assignment in Assign.CompoundOp.
const AssignPlain = -1

// Print represents a print statement, eg. `print(a, b);`.
type Print struct {
	ASTBase

	// The expressions to print in order.
	Args []ASTExpr
}

// -----------------------------------------------------------------------------

// IfTree represents an if/else-if/else tree.
type IfTree struct {
	ASTBase

	// The list of conditional branches which make up the tree.
	CondBranches []CondBranch

	// The else branch of the tree.  May be nil.
	ElseBranch *Block
}

// CondBranch represents a single conditional branch of an if tree.
type CondBranch struct {
	// The condition of the branch.
	Condition ASTExpr

	// The body of the branch.
	Body *Block
}

// -----------------------------------------------------------------------------

// ForRange represents a loop over an integer range, eg. `for i in 0..10 { }`.
type ForRange struct {
	ASTBase

	// The loop variable pattern: a single name or a wildcard.
	Pattern Pattern

	// The range iterated over.
	Range *RangeExpr

	// The body of the loop.
	Body *Block
}

// ForIterable represents a loop over an array or a map, eg.
// `for item in arr { }` or `for (k, v) in m { }`.
type ForIterable struct {
	ASTBase

	// The per-iteration binding pattern.
	Pattern Pattern

	// The iterable expression.
	Iterable ASTExpr

	// The body of the loop.
	Body *Block
}

// ForInfinite represents an infinite loop: `for { }`.
type ForInfinite struct {
	ASTBase

	// The body of the loop.
	Body *Block
}

// Break represents a break statement.
type Break struct {
	ASTBase
}

// Continue represents a continue statement.
type Continue struct {
	ASTBase
}

// Return represents a return statement.
type Return struct {
	ASTBase

	// The returned expression.  This is nil for a bare `return;`.
	Value ASTExpr
}
