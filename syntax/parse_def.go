package syntax

import (
	"github.com/nynrathod/mylang/ast"
	"github.com/nynrathod/mylang/report"
)

// definition := import_decl | func_def | struct_def | enum_def ;
func (p *Parser) parseDefinition() {
	defer p.defRecover()

	var def ast.ASTNode

	switch p.tok.Kind {
	case TOK_IMPORT:
		def = p.parseImportDecl()
	case TOK_FN:
		def = p.parseFuncDecl()
	case TOK_STRUCT:
		def = p.parseStructDecl()
	case TOK_ENUM:
		def = p.parseEnumDecl()
	default:
		p.reject()
	}

	p.mod.Defs = append(p.mod.Defs, def)
}

/* -------------------------------------------------------------------------- */

// import_decl := 'import' 'IDENT' {'::' 'IDENT'} ['::' import_group] ['as' 'IDENT'] ';' ;
// import_group := '{' import_sym {',' import_sym} '}' ;
// import_sym := 'IDENT' ['as' 'IDENT'] ;
func (p *Parser) parseImportDecl() *ast.Import {
	startSpan := p.want(TOK_IMPORT).Span

	segments := []*Token{p.want(TOK_IDENT)}

	var symbols []ast.ImportedSymbol
	for p.has(TOK_DBLCOLON) {
		p.next()

		if p.has(TOK_LBRACE) {
			symbols = p.parseImportGroup()
			break
		}

		segments = append(segments, p.want(TOK_IDENT))
	}

	if symbols == nil {
		// The final path segment names the imported symbol.
		if len(segments) < 2 {
			p.error(
				report.KindSyntax,
				segments[0],
				"import must name a symbol within a module",
			)
		}

		symTok := segments[len(segments)-1]
		segments = segments[:len(segments)-1]

		imported := ast.ImportedSymbol{
			Name:  symTok.Value,
			Alias: symTok.Value,
			Span:  symTok.Span,
		}

		if p.has(TOK_AS) {
			p.next()

			aliasTok := p.want(TOK_IDENT)
			p.validateBindingName(aliasTok)
			imported.Alias = aliasTok.Value
		}

		symbols = []ast.ImportedSymbol{imported}
	}

	p.want(TOK_SEMI)

	modPath := make([]string, len(segments))
	for i, seg := range segments {
		modPath[i] = seg.Value
	}

	imp := &ast.Import{
		ASTBase:    ast.NewASTBaseOver(startSpan, p.lookbehind.Span),
		ModulePath: modPath,
		Symbols:    symbols,
	}

	p.mod.Imports = append(p.mod.Imports, imp)
	return imp
}

// import_group := '{' import_sym {',' import_sym} '}' ;
func (p *Parser) parseImportGroup() []ast.ImportedSymbol {
	p.want(TOK_LBRACE)

	var symbols []ast.ImportedSymbol
	for {
		symTok := p.want(TOK_IDENT)

		imported := ast.ImportedSymbol{
			Name:  symTok.Value,
			Alias: symTok.Value,
			Span:  symTok.Span,
		}

		if p.has(TOK_AS) {
			p.next()

			aliasTok := p.want(TOK_IDENT)
			p.validateBindingName(aliasTok)
			imported.Alias = aliasTok.Value
		}

		symbols = append(symbols, imported)

		if p.has(TOK_COMMA) {
			p.next()

			continue
		}

		break
	}

	p.want(TOK_RBRACE)
	return symbols
}

/* -------------------------------------------------------------------------- */

// func_def := 'fn' 'IDENT' '(' [func_params] ')' ['->' type_label] block ;
func (p *Parser) parseFuncDecl() *ast.FuncDecl {
	startSpan := p.want(TOK_FN).Span

	nameTok := p.want(TOK_IDENT)
	p.validateBindingName(nameTok)

	p.want(TOK_LPAREN)

	var params []ast.FuncParam
	if !p.has(TOK_RPAREN) {
		params = p.parseFuncParams()
	}

	p.want(TOK_RPAREN)

	var returnLabel ast.TypeExpr
	if p.has(TOK_ARROW) {
		p.next()

		returnLabel = p.parseTypeLabel()
	}

	body := p.parseBlock()

	return &ast.FuncDecl{
		ASTBase:     ast.NewASTBaseOver(startSpan, body.Span()),
		Name:        nameTok.Value,
		NameSpan:    nameTok.Span,
		Params:      params,
		ReturnLabel: returnLabel,
		Body:        body,
	}
}

// func_params := func_param {',' func_param} ;
// func_param := 'IDENT' ':' type_label ;
func (p *Parser) parseFuncParams() []ast.FuncParam {
	var params []ast.FuncParam

	for {
		nameTok := p.want(TOK_IDENT)
		p.validateBindingName(nameTok)

		p.want(TOK_COLON)

		typeLabel := p.parseTypeLabel()

		params = append(params, ast.FuncParam{
			Name:      nameTok.Value,
			NameSpan:  nameTok.Span,
			TypeLabel: typeLabel,
		})

		if p.has(TOK_COMMA) {
			p.next()

			continue
		}

		break
	}

	return params
}

/* -------------------------------------------------------------------------- */

// struct_def := 'struct' 'IDENT' '{' struct_field {',' struct_field} [','] '}' ;
// struct_field := 'IDENT' ':' type_label ;
func (p *Parser) parseStructDecl() *ast.StructDecl {
	startSpan := p.want(TOK_STRUCT).Span

	nameTok := p.want(TOK_IDENT)
	p.validateBindingName(nameTok)

	p.want(TOK_LBRACE)

	var fields []ast.StructFieldDecl
	for !p.has(TOK_RBRACE) {
		fieldTok := p.want(TOK_IDENT)
		p.validateBindingName(fieldTok)

		p.want(TOK_COLON)

		fieldLabel := p.parseTypeLabel()

		fields = append(fields, ast.StructFieldDecl{
			Name:      fieldTok.Value,
			NameSpan:  fieldTok.Span,
			TypeLabel: fieldLabel,
		})

		if p.has(TOK_COMMA) {
			p.next()

			continue
		}

		break
	}

	endSpan := p.want(TOK_RBRACE).Span

	return &ast.StructDecl{
		ASTBase:  ast.NewASTBaseOver(startSpan, endSpan),
		Name:     nameTok.Value,
		NameSpan: nameTok.Span,
		Fields:   fields,
	}
}

// enum_def := 'enum' 'IDENT' '{' enum_variant {',' enum_variant} [','] '}' ;
// enum_variant := 'IDENT' ['(' type_label ')'] ;
func (p *Parser) parseEnumDecl() *ast.EnumDecl {
	startSpan := p.want(TOK_ENUM).Span

	nameTok := p.want(TOK_IDENT)
	p.validateBindingName(nameTok)

	p.want(TOK_LBRACE)

	var variants []ast.EnumVariantDecl
	for !p.has(TOK_RBRACE) {
		variantTok := p.want(TOK_IDENT)
		p.validateBindingName(variantTok)

		var payloadLabel ast.TypeExpr
		if p.has(TOK_LPAREN) {
			p.next()

			payloadLabel = p.parseTypeLabel()

			p.want(TOK_RPAREN)
		}

		variants = append(variants, ast.EnumVariantDecl{
			Name:         variantTok.Value,
			NameSpan:     variantTok.Span,
			PayloadLabel: payloadLabel,
		})

		if p.has(TOK_COMMA) {
			p.next()

			continue
		}

		break
	}

	endSpan := p.want(TOK_RBRACE).Span

	return &ast.EnumDecl{
		ASTBase:  ast.NewASTBaseOver(startSpan, endSpan),
		Name:     nameTok.Value,
		NameSpan: nameTok.Span,
		Variants: variants,
	}
}
