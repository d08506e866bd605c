package walk

import (
	"github.com/nynrathod/mylang/ast"
	"github.com/nynrathod/mylang/common"
	"github.com/nynrathod/mylang/depm"
	"github.com/nynrathod/mylang/report"
	"github.com/nynrathod/mylang/types"
)

// bindImport binds the symbols of an import declaration into the module's
// global symbol table.
func (w *Walker) bindImport(imp *ast.Import) {
	defer report.CatchErrors(w.mod.AbsPath, w.mod.ReprPath)

	// An empty resolved path means the resolver already rejected this import.
	if imp.ResolvedPath == "" {
		return
	}

	dep, ok := w.graph.Modules[imp.ResolvedPath]
	if !ok {
		report.ReportICE("import resolved to an unloaded module: %s", imp.ResolvedPath)
	}

	for _, impSym := range imp.Symbols {
		sym, ok := dep.Export(impSym.Name)
		if !ok {
			w.recError(
				report.KindUnresolvedImport,
				impSym.Span,
				"module `%s` does not export a symbol named `%s`",
				dep.Name,
				impSym.Name,
			)
			continue
		}

		if _, ok := w.mod.SymbolTable[impSym.Alias]; ok {
			w.recError(
				report.KindDuplicateDeclaration,
				impSym.Span,
				"multiple symbols named `%s` declared in module scope",
				impSym.Alias,
			)
			continue
		}

		// The imported symbol is shared by pointer so that its defining module
		// remains visible to later phases.
		w.mod.SymbolTable[impSym.Alias] = sym
	}
}

/* -------------------------------------------------------------------------- */

// declareDef declares a top level definition in the module's global symbol
// table and catches any errors that occur.  Declaration resolves the
// definition's full signature: named types referenced by a signature must
// already be declared at this point.
func (w *Walker) declareDef(def ast.ASTNode) {
	defer report.CatchErrors(w.mod.AbsPath, w.mod.ReprPath)

	switch v := def.(type) {
	case *ast.FuncDecl:
		w.declareFuncDecl(v)
	case *ast.StructDecl:
		w.declareStructDecl(v)
	case *ast.EnumDecl:
		w.declareEnumDecl(v)
	default:
		report.ReportICE("unexpected top level declaration: %T", def)
	}
}

// declareFuncDecl declares a function definition: its parameter and return
// types are resolved and its symbol is added to the module's global table.
func (w *Walker) declareFuncDecl(fd *ast.FuncDecl) {
	paramTypes := make([]types.Type, len(fd.Params))
	for i, param := range fd.Params {
		for _, prev := range fd.Params[:i] {
			if prev.Name == param.Name {
				w.error(
					report.KindDuplicateDeclaration,
					param.NameSpan,
					"multiple parameters named `%s` in function `%s`",
					param.Name,
					fd.Name,
				)
			}
		}

		paramTypes[i] = w.resolveTypeLabel(param.TypeLabel)

		fd.Params[i].Sym = &common.Symbol{
			Name:       param.Name,
			ModulePath: w.mod.AbsPath,
			DefSpan:    param.NameSpan,
			Type:       paramTypes[i],
			DefKind:    common.DefKindValue,
			Storage:    common.StorageParam,
		}
	}

	var returnType types.Type = types.PrimTypeUnit
	if fd.ReturnLabel != nil {
		returnType = w.resolveTypeLabel(fd.ReturnLabel)
	}

	fd.Sym = &common.Symbol{
		Name:       fd.Name,
		ModulePath: w.mod.AbsPath,
		DefSpan:    fd.NameSpan,
		Type:       &types.FuncType{ParamTypes: paramTypes, ReturnType: returnType},
		DefKind:    common.DefKindFunc,
		Storage:    common.StorageGlobal,
		Public:     common.IsPublicName(fd.Name),
	}

	w.defineGlobal(fd.Sym)
}

// declareStructDecl declares a struct type definition.
func (w *Walker) declareStructDecl(sd *ast.StructDecl) {
	fields := make([]types.StructField, len(sd.Fields))
	for i, field := range sd.Fields {
		for _, prev := range sd.Fields[:i] {
			if prev.Name == field.Name {
				w.error(
					report.KindDuplicateDeclaration,
					field.NameSpan,
					"multiple fields named `%s` in struct `%s`",
					field.Name,
					sd.Name,
				)
			}
		}

		fields[i] = types.StructField{
			Name: field.Name,
			Type: w.resolveTypeLabel(field.TypeLabel),
		}
	}

	sd.DefinedType = types.NewStructType(sd.Name, w.mod.AbsPath, fields)

	w.defineGlobal(&common.Symbol{
		Name:       sd.Name,
		ModulePath: w.mod.AbsPath,
		DefSpan:    sd.NameSpan,
		Type:       sd.DefinedType,
		DefKind:    common.DefKindType,
		Storage:    common.StorageGlobal,
		Public:     common.IsPublicName(sd.Name),
	})
}

// declareEnumDecl declares an enum type definition.
func (w *Walker) declareEnumDecl(ed *ast.EnumDecl) {
	variants := make([]types.EnumVariant, len(ed.Variants))
	for i, variant := range ed.Variants {
		for _, prev := range ed.Variants[:i] {
			if prev.Name == variant.Name {
				w.error(
					report.KindDuplicateDeclaration,
					variant.NameSpan,
					"multiple variants named `%s` in enum `%s`",
					variant.Name,
					ed.Name,
				)
			}
		}

		// Variant payload types must already be declared.
		var payload types.Type
		if variant.PayloadLabel != nil {
			payload = w.resolveTypeLabel(variant.PayloadLabel)
		}

		variants[i] = types.EnumVariant{Name: variant.Name, Payload: payload}
	}

	ed.DefinedType = types.NewEnumType(ed.Name, w.mod.AbsPath, variants)

	w.defineGlobal(&common.Symbol{
		Name:       ed.Name,
		ModulePath: w.mod.AbsPath,
		DefSpan:    ed.NameSpan,
		Type:       ed.DefinedType,
		DefKind:    common.DefKindType,
		Storage:    common.StorageGlobal,
		Public:     common.IsPublicName(ed.Name),
	})
}

/* -------------------------------------------------------------------------- */

// walkFuncBody walks the body of a declared function.
func (w *Walker) walkFuncBody(fd *ast.FuncDecl) {
	// Push the enclosing scope of the function.
	w.pushScope()
	defer w.popScope()

	// Declare all parameter symbols.
	for _, param := range fd.Params {
		w.defineLocal(param.Sym)
	}

	// Set the function return type.
	rtType := fd.Sym.Type.(*types.FuncType).ReturnType
	w.enclosingReturnType = rtType

	cm := w.walkBlock(fd.Body)

	// Make sure the function always returns.
	if !types.Equals(rtType, types.PrimTypeUnit) && cm != ControlReturn && cm != ControlNoExit {
		if len(fd.Body.Stmts) > 0 {
			w.error(
				report.KindTypeMismatch,
				fd.Body.Stmts[len(fd.Body.Stmts)-1].Span(),
				"missing return statement",
			)
		} else {
			w.error(
				report.KindTypeMismatch,
				fd.Body.Span(),
				"missing return statement",
			)
		}
	}
}

/* -------------------------------------------------------------------------- */

// ValidateMain checks that the given root module declares a valid `main`
// entry point: a function taking no parameters and returning nothing.
func ValidateMain(mod *depm.Module) {
	sym, ok := mod.SymbolTable["main"]
	if !ok {
		report.ReportCompileError(
			mod.AbsPath,
			mod.ReprPath,
			report.Raise(report.KindUndeclaredSymbol, nil, "no `main` function declared in `%s`", mod.ReprPath),
		)
		return
	}

	if sym.DefKind != common.DefKindFunc {
		report.ReportCompileError(
			mod.AbsPath,
			mod.ReprPath,
			report.Raise(report.KindTypeMismatch, sym.DefSpan, "`main` must be a function"),
		)
		return
	}

	ft := sym.Type.(*types.FuncType)

	if len(ft.ParamTypes) > 0 {
		report.ReportCompileError(
			mod.AbsPath,
			mod.ReprPath,
			report.Raise(report.KindTypeMismatch, sym.DefSpan, "`main` must not take parameters"),
		)
	}

	if !types.Equals(ft.ReturnType, types.PrimTypeUnit) {
		report.ReportCompileError(
			mod.AbsPath,
			mod.ReprPath,
			report.Raise(report.KindTypeMismatch, sym.DefSpan, "`main` must not return a value"),
		)
	}
}
