package walk

import (
	"github.com/nynrathod/mylang/ast"
	"github.com/nynrathod/mylang/common"
	"github.com/nynrathod/mylang/depm"
	"github.com/nynrathod/mylang/report"
	"github.com/nynrathod/mylang/types"
)

// Walker is responsible for walking modules and performing semantic analysis
// on their definitions.
type Walker struct {
	// The module graph the walked module belongs to.
	graph *depm.Graph

	// The Doo module being walked.
	mod *depm.Module

	// The stack of local scopes used to lookup symbols.
	localScopes []map[string]*common.Symbol

	// The return type of the enclosing function.  If this is `nil`, then there
	// is no enclosing function: ie. return statements are not valid.
	enclosingReturnType types.Type

	// The stack of enclosing loops.
	loopStack []*loopFrame
}

// loopFrame records analysis state for one enclosing loop.
type loopFrame struct {
	// Whether a break statement targeting this loop was walked.
	sawBreak bool
}

// WalkModule semantically analyzes the given module.  Every module the given
// module imports must already be fully analyzed: binding imported symbols
// requires the export tables of the imported modules to be complete.
func WalkModule(graph *depm.Graph, mod *depm.Module) {
	w := &Walker{graph: graph, mod: mod}

	// Pass one: bind imported symbols and declare all top level definitions so
	// that function bodies may reference definitions in any order.
	for _, imp := range mod.Imports {
		w.bindImport(imp)
	}

	for _, def := range mod.Defs {
		w.declareDef(def)
	}

	// Pass two: walk the declared function bodies.
	for _, def := range mod.Defs {
		w.walkDef(def)
	}
}

// walkDef walks a definition's body and catches any errors that occur.
func (w *Walker) walkDef(def ast.ASTNode) {
	// Catch any errors that occur while walking the definition.
	defer report.CatchErrors(w.mod.AbsPath, w.mod.ReprPath)

	// Ensure that the walker is reset.
	defer func() {
		w.localScopes = nil
		w.enclosingReturnType = nil
		w.loopStack = nil
	}()

	// Only functions have bodies to walk: struct and enum declarations are
	// fully checked by the declaration pass.
	if fd, ok := def.(*ast.FuncDecl); ok && fd.Sym != nil {
		w.walkFuncBody(fd)
	}
}

/* -------------------------------------------------------------------------- */

// lookup looks up a symbol by name in all visible scopes.  If no symbol by
// the given name can be found, then an error is reported.
func (w *Walker) lookup(name string, span *report.TextSpan) *common.Symbol {
	// Traverse local scopes in reverse order to implement shadowing.
	for i := len(w.localScopes) - 1; i > -1; i-- {
		if sym, ok := w.localScopes[i][name]; ok {
			return sym
		}
	}

	// Lookup in the module's global table, which also holds any symbols bound
	// by imports.
	if sym, ok := w.mod.SymbolTable[name]; ok {
		return sym
	}

	w.error(report.KindUndeclaredSymbol, span, "undeclared symbol: `%s`", name)
	return nil
}

// defineLocal defines a local symbol in the current local scope.  If the
// symbol is already defined, then an error is reported.
func (w *Walker) defineLocal(sym *common.Symbol) {
	currScope := w.localScopes[len(w.localScopes)-1]

	if _, ok := currScope[sym.Name]; ok {
		w.error(report.KindDuplicateDeclaration, sym.DefSpan, "multiple symbols named `%s` defined in immediate local scope", sym.Name)
	}

	currScope[sym.Name] = sym
}

// defineGlobal defines a symbol in the module's global symbol table.  If a
// symbol by the same name is already declared, then an error is reported.
func (w *Walker) defineGlobal(sym *common.Symbol) {
	if _, ok := w.mod.SymbolTable[sym.Name]; ok {
		w.error(report.KindDuplicateDeclaration, sym.DefSpan, "multiple symbols named `%s` declared in module scope", sym.Name)
	}

	w.mod.SymbolTable[sym.Name] = sym
}

// pushScope pushes a new local scope onto the scope stack.
func (w *Walker) pushScope() {
	w.localScopes = append(w.localScopes, make(map[string]*common.Symbol))
}

// popScope removes the top local scope from the scope stack, warning about
// any local variable it declared that was never used.  Parameters are exempt:
// a function's signature is often fixed by its callers.
func (w *Walker) popScope() {
	scope := w.localScopes[len(w.localScopes)-1]
	w.localScopes = w.localScopes[:len(w.localScopes)-1]

	for _, sym := range scope {
		if !sym.Used && sym.Storage == common.StorageLocal {
			w.warn(sym.DefSpan, "unused variable: `%s`", sym.Name)
		}
	}
}

// pushLoop pushes a new loop frame onto the loop stack.
func (w *Walker) pushLoop() {
	w.loopStack = append(w.loopStack, &loopFrame{})
}

// popLoop removes the top loop frame from the loop stack and returns it.
func (w *Walker) popLoop() *loopFrame {
	frame := w.loopStack[len(w.loopStack)-1]
	w.loopStack = w.loopStack[:len(w.loopStack)-1]
	return frame
}

/* -------------------------------------------------------------------------- */

// error reports an error on the given span that should abort walking of the
// current definition.
func (w *Walker) error(kind int, span *report.TextSpan, msg string, args ...interface{}) {
	panic(report.Raise(kind, span, msg, args...))
}

// recError reports a recoverable error on the given span.
func (w *Walker) recError(kind int, span *report.TextSpan, msg string, args ...interface{}) {
	report.ReportCompileError(
		w.mod.AbsPath,
		w.mod.ReprPath,
		report.Raise(kind, span, msg, args...),
	)
}

// warn reports a compile warning.
func (w *Walker) warn(span *report.TextSpan, msg string, args ...interface{}) {
	report.ReportCompileWarning(
		w.mod.AbsPath,
		w.mod.ReprPath,
		span,
		msg,
		args...,
	)
}
