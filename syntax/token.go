package syntax

import "github.com/nynrathod/mylang/report"

// Token represents a single lexical token.
type Token struct {
	// The kind of the token.  This must be one of the enumerated token kinds.
	Kind int

	// The string value of the token.
	Value string

	// The text span over which the token exists.  This may not directly
	// correspond to its value: eg. the value of a string token has the leading
	// quotes trimmed off for convenience.
	Span *report.TextSpan
}

// Enumeration of token kinds.
const (
	TOK_LET = iota
	TOK_MUT
	TOK_FN

	TOK_IF
	TOK_ELSE
	TOK_FOR
	TOK_IN
	TOK_BREAK
	TOK_CONTINUE
	TOK_RETURN

	TOK_STRUCT
	TOK_ENUM
	TOK_IMPORT
	TOK_AS
	TOK_PRINT

	TOK_PLUS
	TOK_MINUS
	TOK_STAR
	TOK_DIV
	TOK_MOD

	TOK_EQ
	TOK_NEQ
	TOK_LT
	TOK_GT
	TOK_LTEQ
	TOK_GTEQ

	TOK_LAND
	TOK_LOR
	TOK_NOT

	TOK_ASSIGN
	TOK_PLUSASSIGN
	TOK_MINUSASSIGN
	TOK_STARASSIGN
	TOK_DIVASSIGN
	TOK_MODASSIGN

	TOK_RANGE
	TOK_RANGEEQ
	TOK_ARROW
	TOK_DBLCOLON

	TOK_LPAREN
	TOK_RPAREN
	TOK_LBRACE
	TOK_RBRACE
	TOK_LBRACKET
	TOK_RBRACKET
	TOK_COMMA
	TOK_DOT
	TOK_SEMI
	TOK_COLON

	TOK_IDENT
	TOK_INTLIT
	TOK_BOOLLIT
	TOK_STRINGLIT

	TOK_EOF
)
