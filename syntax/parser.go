package syntax

import (
	"bufio"

	"github.com/nynrathod/mylang/depm"
	"github.com/nynrathod/mylang/report"
)

// NOTE: All parsing functions (that are not utility/API functions) are
// commented with the EBNF notation of the grammar they parse as well as any
// semantic actions they perform during parsing.

// Parser is the parser for a Doo source file.  It is a recursive descent
// parser which moves over the file token by token, deciding what to parse
// based on the token it is currently positioned on and its context (implicit
// from the callstack of parsing functions).  All parsing functions assume that
// they begin with the parser centered on the first token of their production
// and must consume all tokens (including the last) of their production,
// leaving the parser on the next token.  Syntax errors are raised as panics
// and recovered at statement and definition boundaries so that a single run
// can surface several of them.  Parsers are created once per file.
type Parser struct {
	// mod is the module whose source file is being parsed.
	mod *depm.Module

	// lexer is the lexer this parser reads tokens from.
	lexer *Lexer

	// tok is the current token the parser is positioned on.
	tok *Token

	// lookbehind is the token before the current token.
	lookbehind *Token
}

// NewParser creates a new parser for the given module and file reader.
func NewParser(mod *depm.Module, r *bufio.Reader) *Parser {
	return &Parser{
		mod:   mod,
		lexer: NewLexer(r),
	}
}

// Parse parses the module's source file and stores the resulting definitions
// in the module.  Errors are reported through the global reporter: the module
// may only move on to analysis if no errors were recorded.
func (p *Parser) Parse() {
	// Move the parser onto the first token.
	p.next()

	// file := {definition} 'EOF' ;
	for !p.has(TOK_EOF) {
		p.parseDefinition()
	}
}

/* -------------------------------------------------------------------------- */

// next moves the parser forward one token.
func (p *Parser) next() {
	tok, err := p.lexer.NextToken()
	if err != nil {
		panic(err)
	}

	p.lookbehind = p.tok
	p.tok = tok
}

// has returns whether the parser is on a token of the given kind.
func (p *Parser) has(kind int) bool {
	return p.tok.Kind == kind
}

// hasOneOf returns whether the parser's current token kind is one of the given
// kinds.
func (p *Parser) hasOneOf(kinds ...int) bool {
	for _, kind := range kinds {
		if p.tok.Kind == kind {
			return true
		}
	}

	return false
}

// want asserts that the parser is on a token of the given kind, rejecting the
// token if not.  It then moves the parser forward and returns the matched
// token.
func (p *Parser) want(kind int) *Token {
	if !p.has(kind) {
		p.reject()
	}

	p.next()
	return p.lookbehind
}

/* -------------------------------------------------------------------------- */

// reject raises an unexpected token error on the current token.
func (p *Parser) reject() {
	if p.has(TOK_EOF) {
		panic(report.Raise(report.KindSyntax, p.tok.Span, "unexpected end of file"))
	}

	panic(report.Raise(report.KindSyntax, p.tok.Span, "unexpected token: `%s`", p.tok.Value))
}

// error raises an error of the given kind on a given token.  The function
// takes a message and arguments to format into it.
func (p *Parser) error(kind int, tok *Token, msg string, args ...interface{}) {
	panic(report.Raise(kind, tok.Span, msg, args...))
}

// recError reports a recoverable error on a given span: the error is recorded
// without unwinding so parsing continues normally after the call.
func (p *Parser) recError(kind int, span *report.TextSpan, msg string, args ...interface{}) {
	report.ReportCompileError(p.mod.AbsPath, p.mod.ReprPath, report.Raise(kind, span, msg, args...))
}

/* -------------------------------------------------------------------------- */

// defRecover recovers a syntax error raised while parsing a top level
// definition, reports it, and skips the parser forward to the next token
// which can begin a definition.
func (p *Parser) defRecover() {
	if x := recover(); x != nil {
		cerr, ok := x.(*report.CompileError)
		if !ok {
			panic(x)
		}

		report.ReportCompileError(p.mod.AbsPath, p.mod.ReprPath, cerr)

		for !p.hasOneOf(TOK_EOF, TOK_IMPORT, TOK_FN, TOK_STRUCT, TOK_ENUM) {
			p.next()
		}
	}
}

// stmtRecover recovers a syntax error raised while parsing a statement,
// reports it, and skips the parser forward to the next statement boundary.
func (p *Parser) stmtRecover() {
	if x := recover(); x != nil {
		cerr, ok := x.(*report.CompileError)
		if !ok {
			panic(x)
		}

		report.ReportCompileError(p.mod.AbsPath, p.mod.ReprPath, cerr)

		for !p.hasOneOf(TOK_SEMI, TOK_RBRACE, TOK_EOF) {
			p.next()
		}

		if p.has(TOK_SEMI) {
			p.next()
		}
	}
}

// validateBindingName rejects names reserved for compiler introduced
// bindings: a leading underscore is only legal as the wildcard `_`.
func (p *Parser) validateBindingName(tok *Token) {
	if len(tok.Value) > 1 && tok.Value[0] == '_' {
		p.error(report.KindSyntax, tok, "names beginning with `_` are reserved")
	}
}
