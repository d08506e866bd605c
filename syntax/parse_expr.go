package syntax

import (
	"github.com/nynrathod/mylang/ast"
	"github.com/nynrathod/mylang/report"
)

// expr_list := expr {',' expr} ;
func (p *Parser) parseExprList() []ast.ASTExpr {
	exprs := []ast.ASTExpr{p.parseExpr()}

	for p.has(TOK_COMMA) {
		p.next()

		exprs = append(exprs, p.parseExpr())
	}

	return exprs
}

// expr := bin_expr [('..' | '..=') bin_expr] ;
func (p *Parser) parseExpr() ast.ASTExpr {
	lhs := p.parseBinExpr()

	if p.hasOneOf(TOK_RANGE, TOK_RANGEEQ) {
		inclusive := p.has(TOK_RANGEEQ)
		p.next()

		rhs := p.parseBinExpr()

		return &ast.RangeExpr{
			ExprBase:  ast.NewExprBaseOver(lhs.Span(), rhs.Span()),
			Start:     lhs,
			End:       rhs,
			Inclusive: inclusive,
		}
	}

	return lhs
}

/* -------------------------------------------------------------------------- */

// or_expr := and_expr {'||' and_expr} ;
// and_expr := eq_expr {'&&' eq_expr} ;
// eq_expr := comp_expr {('==' | '!=') comp_expr} ;
// comp_expr := arith_expr {('<' | '>' | '<=' | '>=') arith_expr} ;
// arith_expr := term {('+' | '-') term} ;
// term := unary_expr {('*' | '/' | '%') unary_expr} ;
func (p *Parser) parseBinExpr() ast.ASTExpr {
	lhs := p.parseUnaryExpr()

	return p.precedenceParse(lhs, len(precTable))
}

// precTable is the operator precedence table for binary operators. The table
// is ordered highest to lowest precedence.
var precTable = [][]int{
	{TOK_STAR, TOK_DIV, TOK_MOD},
	{TOK_PLUS, TOK_MINUS},
	{TOK_LT, TOK_GT, TOK_LTEQ, TOK_GTEQ},
	{TOK_EQ, TOK_NEQ},
	{TOK_LAND},
	{TOK_LOR},
}

// precedenceParse is a helper function used to perform operator precedence
// parsing for binary operators.  All Doo binary operators are left
// associative.
func (p *Parser) precedenceParse(lhs ast.ASTExpr, maxPrec int) ast.ASTExpr {
	for {
		// Check to see if the lookahead matches any of the operators at or
		// above our precedence level.
		var opTok *Token
		var opPrec int
		for prec, precLevel := range precTable[:maxPrec] {
			if p.hasOneOf(precLevel...) {
				opTok = p.tok
				opPrec = prec
				break
			}
		}

		// No matching operator.
		if opTok == nil {
			break
		}

		p.next()

		rhs := p.parseUnaryExpr()

		// Bind any tighter operators on the right before this one is applied.
	nextOpLoop:
		for {
			for _, precLevel := range precTable[:opPrec] {
				if p.hasOneOf(precLevel...) {
					rhs = p.precedenceParse(rhs, opPrec)

					continue nextOpLoop
				}
			}

			break nextOpLoop
		}

		lhs = &ast.BinOp{
			ExprBase: ast.NewExprBaseOver(lhs.Span(), rhs.Span()),
			OpKind:   opTok.Kind,
			OpSpan:   opTok.Span,
			Lhs:      lhs,
			Rhs:      rhs,
		}
	}

	return lhs
}

/* -------------------------------------------------------------------------- */

// unary_expr := ('-' | '!') unary_expr | atom_expr ;
func (p *Parser) parseUnaryExpr() ast.ASTExpr {
	if p.hasOneOf(TOK_MINUS, TOK_NOT) {
		opTok := p.tok
		p.next()

		operand := p.parseUnaryExpr()

		return &ast.UnaryOp{
			ExprBase: ast.NewExprBaseOver(opTok.Span, operand.Span()),
			OpKind:   opTok.Kind,
			Operand:  operand,
		}
	}

	return p.parseAtomExpr()
}

/* -------------------------------------------------------------------------- */

// atom_expr := atom {trailer} ;
// trailer := '(' [expr_list] ')' | '[' expr ']' ;
func (p *Parser) parseAtomExpr() ast.ASTExpr {
	expr := p.parseAtom()

	for {
		switch p.tok.Kind {
		case TOK_LPAREN:
			// Doo functions are not first class values: the callee must be a
			// plain identifier.
			ident, ok := expr.(*ast.Identifier)
			if !ok {
				p.error(report.KindSyntax, p.tok, "expression is not callable")
			}

			p.next()

			var args []ast.ASTExpr
			if !p.has(TOK_RPAREN) {
				args = p.parseExprList()
			}

			endSpan := p.want(TOK_RPAREN).Span

			expr = &ast.Call{
				ExprBase: ast.NewExprBaseOver(ident.Span(), endSpan),
				Func:     ident,
				Args:     args,
			}
		case TOK_LBRACKET:
			p.next()

			sub := p.parseExpr()

			endSpan := p.want(TOK_RBRACKET).Span

			expr = &ast.Index{
				ExprBase: ast.NewExprBaseOver(expr.Span(), endSpan),
				Operand:  expr,
				Sub:      sub,
			}
		default:
			return expr
		}
	}
}

// atom := 'INTLIT' | 'STRINGLIT' | 'BOOLLIT' | 'IDENT'
//   | array_lit | map_lit | tupled_expr ;
func (p *Parser) parseAtom() ast.ASTExpr {
	startTok := p.tok

	switch p.tok.Kind {
	case TOK_INTLIT, TOK_STRINGLIT, TOK_BOOLLIT:
		p.next()

		return &ast.Literal{
			ExprBase: ast.NewExprBase(startTok.Span),
			Kind:     startTok.Kind,
			Value:    startTok.Value,
		}
	case TOK_IDENT:
		p.next()

		return &ast.Identifier{
			ExprBase: ast.NewExprBase(startTok.Span),
			Name:     startTok.Value,
		}
	case TOK_LBRACKET:
		return p.parseArrayLit()
	case TOK_LBRACE:
		return p.parseMapLit()
	case TOK_LPAREN:
		return p.parseTupledExpr()
	default:
		p.reject()
		return nil
	}
}

// array_lit := '[' [expr_list] ']' ;
func (p *Parser) parseArrayLit() *ast.ArrayLit {
	startSpan := p.want(TOK_LBRACKET).Span

	var elems []ast.ASTExpr
	if !p.has(TOK_RBRACKET) {
		elems = p.parseExprList()
	}

	endSpan := p.want(TOK_RBRACKET).Span

	return &ast.ArrayLit{
		ExprBase: ast.NewExprBaseOver(startSpan, endSpan),
		Elems:    elems,
	}
}

// map_lit := '{' [map_entry {',' map_entry}] '}' ;
// map_entry := expr ':' expr ;
func (p *Parser) parseMapLit() *ast.MapLit {
	startSpan := p.want(TOK_LBRACE).Span

	var entries []ast.MapEntry
	if !p.has(TOK_RBRACE) {
		for {
			key := p.parseExpr()

			p.want(TOK_COLON)

			value := p.parseExpr()

			entries = append(entries, ast.MapEntry{Key: key, Value: value})

			if p.has(TOK_COMMA) {
				p.next()

				continue
			}

			break
		}
	}

	endSpan := p.want(TOK_RBRACE).Span

	return &ast.MapLit{
		ExprBase: ast.NewExprBaseOver(startSpan, endSpan),
		Entries:  entries,
	}
}

// tupled_expr := '(' expr {',' expr} ')' ;
// Semantic Actions: a single parenthesized expression yields the inner
// expression; two or more yield a tuple literal.
func (p *Parser) parseTupledExpr() ast.ASTExpr {
	startSpan := p.want(TOK_LPAREN).Span

	exprs := []ast.ASTExpr{p.parseExpr()}
	for p.has(TOK_COMMA) {
		p.next()

		exprs = append(exprs, p.parseExpr())
	}

	endSpan := p.want(TOK_RPAREN).Span

	if len(exprs) == 1 {
		return exprs[0]
	}

	return &ast.TupleLit{
		ExprBase: ast.NewExprBaseOver(startSpan, endSpan),
		Elems:    exprs,
	}
}
