package syntax

import (
	"github.com/nynrathod/mylang/ast"
)

// block := '{' {stmt} '}' ;
func (p *Parser) parseBlock() *ast.Block {
	startSpan := p.want(TOK_LBRACE).Span

	var stmts []ast.ASTNode
	for !p.hasOneOf(TOK_RBRACE, TOK_EOF) {
		if stmt := p.parseStmtRecovered(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	endSpan := p.want(TOK_RBRACE).Span

	return &ast.Block{
		ASTBase: ast.NewASTBaseOver(startSpan, endSpan),
		Stmts:   stmts,
	}
}

// parseStmtRecovered parses a single statement, recovering from any syntax
// error it raises.  A nil statement is returned when recovery occurred.
func (p *Parser) parseStmtRecovered() (stmt ast.ASTNode) {
	defer p.stmtRecover()

	return p.parseStmt()
}

// stmt := block_stmt | (var_decl | simple_stmt | expr_assign_stmt) ';' ;
// block_stmt := if_stmt | for_loop ;
// simple_stmt := 'break' | 'continue' | return_stmt | print_stmt ;
func (p *Parser) parseStmt() ast.ASTNode {
	var stmt ast.ASTNode

	switch p.tok.Kind {
	case TOK_LET:
		stmt = p.parseVarDecl()
	case TOK_BREAK:
		p.next()
		stmt = &ast.Break{ASTBase: ast.NewASTBaseOn(p.lookbehind.Span)}
	case TOK_CONTINUE:
		p.next()
		stmt = &ast.Continue{ASTBase: ast.NewASTBaseOn(p.lookbehind.Span)}
	case TOK_RETURN:
		stmt = p.parseReturnStmt()
	case TOK_PRINT:
		stmt = p.parsePrintStmt()
	case TOK_IF:
		return p.parseIfStmt()
	case TOK_FOR:
		return p.parseForLoop()
	default:
		stmt = p.parseExprAssignStmt()
	}

	p.want(TOK_SEMI)
	return stmt
}

/* -------------------------------------------------------------------------- */

// var_decl := 'let' ['mut'] pattern [':' type_label] '=' expr ;
func (p *Parser) parseVarDecl() *ast.VarDecl {
	startSpan := p.want(TOK_LET).Span

	mutable := false
	if p.has(TOK_MUT) {
		p.next()
		mutable = true
	}

	pattern := p.parsePattern()

	var typeLabel ast.TypeExpr
	if p.has(TOK_COLON) {
		p.next()

		typeLabel = p.parseTypeLabel()
	}

	p.want(TOK_ASSIGN)

	init := p.parseExpr()

	return &ast.VarDecl{
		ASTBase:     ast.NewASTBaseOver(startSpan, init.Span()),
		Mutable:     mutable,
		Pattern:     pattern,
		TypeLabel:   typeLabel,
		Initializer: init,
	}
}

// pattern := pattern_atom | '(' pattern_atom {',' pattern_atom} ')' ;
// pattern_atom := 'IDENT' ;
// Semantic Actions: the identifier `_` produces a wildcard pattern.
func (p *Parser) parsePattern() ast.Pattern {
	if p.has(TOK_LPAREN) {
		startSpan := p.tok.Span
		p.next()

		elems := []ast.Pattern{p.parsePatternAtom()}
		for p.has(TOK_COMMA) {
			p.next()

			elems = append(elems, p.parsePatternAtom())
		}

		endSpan := p.want(TOK_RPAREN).Span

		return &ast.TuplePattern{
			ASTBase: ast.NewASTBaseOver(startSpan, endSpan),
			Elems:   elems,
		}
	}

	return p.parsePatternAtom()
}

// pattern_atom := 'IDENT' ;
func (p *Parser) parsePatternAtom() ast.Pattern {
	nameTok := p.want(TOK_IDENT)

	if nameTok.Value == "_" {
		return &ast.WildcardPattern{ASTBase: ast.NewASTBaseOn(nameTok.Span)}
	}

	p.validateBindingName(nameTok)

	return &ast.IdentPattern{
		ASTBase: ast.NewASTBaseOn(nameTok.Span),
		Name:    nameTok.Value,
	}
}

/* -------------------------------------------------------------------------- */

// return_stmt := 'return' [expr] ;
func (p *Parser) parseReturnStmt() *ast.Return {
	startSpan := p.want(TOK_RETURN).Span

	var value ast.ASTExpr
	if !p.has(TOK_SEMI) {
		value = p.parseExpr()
	}

	return &ast.Return{
		ASTBase: ast.NewASTBaseOver(startSpan, p.lookbehind.Span),
		Value:   value,
	}
}

// print_stmt := 'print' '(' [expr_list] ')' ;
func (p *Parser) parsePrintStmt() *ast.Print {
	startSpan := p.want(TOK_PRINT).Span

	p.want(TOK_LPAREN)

	var args []ast.ASTExpr
	if !p.has(TOK_RPAREN) {
		args = p.parseExprList()
	}

	endSpan := p.want(TOK_RPAREN).Span

	return &ast.Print{
		ASTBase: ast.NewASTBaseOver(startSpan, endSpan),
		Args:    args,
	}
}

/* -------------------------------------------------------------------------- */

// if_stmt := 'if' expr block {'else' 'if' expr block} ['else' block] ;
func (p *Parser) parseIfStmt() *ast.IfTree {
	startSpan := p.want(TOK_IF).Span

	cond := p.parseExpr()
	body := p.parseBlock()

	condBranches := []ast.CondBranch{{Condition: cond, Body: body}}

	var elseBranch *ast.Block
	for p.has(TOK_ELSE) {
		p.next()

		if p.has(TOK_IF) {
			p.next()

			cond = p.parseExpr()
			body = p.parseBlock()

			condBranches = append(condBranches, ast.CondBranch{Condition: cond, Body: body})
		} else {
			elseBranch = p.parseBlock()
			break
		}
	}

	endSpan := condBranches[len(condBranches)-1].Body.Span()
	if elseBranch != nil {
		endSpan = elseBranch.Span()
	}

	return &ast.IfTree{
		ASTBase:      ast.NewASTBaseOver(startSpan, endSpan),
		CondBranches: condBranches,
		ElseBranch:   elseBranch,
	}
}

// for_loop := 'for' (block | pattern 'in' expr block) ;
// Semantic Actions: a loop whose iterable is a range expression becomes a
// range loop; all other iterables produce an iterable loop resolved during
// analysis.
func (p *Parser) parseForLoop() ast.ASTNode {
	startSpan := p.want(TOK_FOR).Span

	if p.has(TOK_LBRACE) {
		body := p.parseBlock()

		return &ast.ForInfinite{
			ASTBase: ast.NewASTBaseOver(startSpan, body.Span()),
			Body:    body,
		}
	}

	pattern := p.parsePattern()

	p.want(TOK_IN)

	iterable := p.parseExpr()
	body := p.parseBlock()

	if rangeExpr, ok := iterable.(*ast.RangeExpr); ok {
		return &ast.ForRange{
			ASTBase: ast.NewASTBaseOver(startSpan, body.Span()),
			Pattern: pattern,
			Range:   rangeExpr,
			Body:    body,
		}
	}

	return &ast.ForIterable{
		ASTBase:  ast.NewASTBaseOver(startSpan, body.Span()),
		Pattern:  pattern,
		Iterable: iterable,
		Body:     body,
	}
}

/* -------------------------------------------------------------------------- */

// compoundAssignOps maps compound assignment token kinds to the token kind of
// the binary operator they apply.
var compoundAssignOps = map[int]int{
	TOK_PLUSASSIGN:  TOK_PLUS,
	TOK_MINUSASSIGN: TOK_MINUS,
	TOK_STARASSIGN:  TOK_STAR,
	TOK_DIVASSIGN:   TOK_DIV,
	TOK_MODASSIGN:   TOK_MOD,
}

// expr_assign_stmt := atom_expr ['=' expr | cpd_assign_op expr] ;
// cpd_assign_op := '+=' | '-=' | '*=' | '/=' | '%=' ;
func (p *Parser) parseExprAssignStmt() ast.ASTNode {
	lhs := p.parseAtomExpr()

	switch p.tok.Kind {
	case TOK_ASSIGN:
		p.next()

		rhs := p.parseExpr()

		return &ast.Assign{
			ASTBase:    ast.NewASTBaseOver(lhs.Span(), rhs.Span()),
			Lhs:        lhs,
			CompoundOp: ast.AssignPlain,
			Rhs:        rhs,
		}
	case TOK_PLUSASSIGN, TOK_MINUSASSIGN, TOK_STARASSIGN, TOK_DIVASSIGN, TOK_MODASSIGN:
		opKind := compoundAssignOps[p.tok.Kind]
		p.next()

		rhs := p.parseExpr()

		return &ast.Assign{
			ASTBase:    ast.NewASTBaseOver(lhs.Span(), rhs.Span()),
			Lhs:        lhs,
			CompoundOp: opKind,
			Rhs:        rhs,
		}
	default:
		return lhs
	}
}
