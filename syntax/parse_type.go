package syntax

import (
	"github.com/nynrathod/mylang/ast"
)

// type_label := 'IDENT' | array_type | map_type | tuple_type ;
// Semantic Actions: named labels are left unresolved here; the analyzer is the
// only component with the symbol visibility to resolve them to types.
func (p *Parser) parseTypeLabel() ast.TypeExpr {
	switch p.tok.Kind {
	case TOK_IDENT:
		nameTok := p.want(TOK_IDENT)

		return &ast.NamedTypeExpr{
			ASTBase: ast.NewASTBaseOn(nameTok.Span),
			Name:    nameTok.Value,
		}
	case TOK_LBRACKET:
		return p.parseArrayTypeLabel()
	case TOK_LBRACE:
		return p.parseMapTypeLabel()
	case TOK_LPAREN:
		return p.parseTupleTypeLabel()
	default:
		p.reject()
		return nil
	}
}

// array_type := '[' type_label ']' ;
func (p *Parser) parseArrayTypeLabel() *ast.ArrayTypeExpr {
	startSpan := p.want(TOK_LBRACKET).Span

	elem := p.parseTypeLabel()

	endSpan := p.want(TOK_RBRACKET).Span

	return &ast.ArrayTypeExpr{
		ASTBase: ast.NewASTBaseOver(startSpan, endSpan),
		Elem:    elem,
	}
}

// map_type := '{' type_label ':' type_label '}' ;
func (p *Parser) parseMapTypeLabel() *ast.MapTypeExpr {
	startSpan := p.want(TOK_LBRACE).Span

	key := p.parseTypeLabel()

	p.want(TOK_COLON)

	value := p.parseTypeLabel()

	endSpan := p.want(TOK_RBRACE).Span

	return &ast.MapTypeExpr{
		ASTBase: ast.NewASTBaseOver(startSpan, endSpan),
		Key:     key,
		Value:   value,
	}
}

// tuple_type := '(' type_label ',' type_label {',' type_label} ')' ;
func (p *Parser) parseTupleTypeLabel() *ast.TupleTypeExpr {
	startSpan := p.want(TOK_LPAREN).Span

	elems := []ast.TypeExpr{p.parseTypeLabel()}

	p.want(TOK_COMMA)

	elems = append(elems, p.parseTypeLabel())
	for p.has(TOK_COMMA) {
		p.next()

		elems = append(elems, p.parseTypeLabel())
	}

	endSpan := p.want(TOK_RPAREN).Span

	return &ast.TupleTypeExpr{
		ASTBase: ast.NewASTBaseOver(startSpan, endSpan),
		Elems:   elems,
	}
}
