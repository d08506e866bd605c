package walk

import (
	"github.com/nynrathod/mylang/ast"
	"github.com/nynrathod/mylang/common"
	"github.com/nynrathod/mylang/report"
	"github.com/nynrathod/mylang/types"
)

// walkVarDecl walks a local variable declaration.
func (w *Walker) walkVarDecl(vd *ast.VarDecl) {
	// Resolve the declared type label, if any, before walking the initializer
	// so that it can guide the typing of empty container literals.
	var labelType types.Type
	if vd.TypeLabel != nil {
		labelType = w.resolveTypeLabel(vd.TypeLabel)
	}

	// The initializer is walked before the pattern is bound: a declaration
	// cannot reference the names it introduces.
	w.walkExprExpecting(vd.Initializer, labelType)

	bindType := vd.Initializer.Type()
	if labelType != nil {
		if !types.Equals(labelType, bindType) {
			w.recError(
				report.KindTypeMismatch,
				vd.Initializer.Span(),
				"initializer of type `%s` does not match declared type `%s`",
				bindType.Repr(),
				labelType.Repr(),
			)
		}

		bindType = labelType
	}

	if types.Equals(bindType, types.PrimTypeUnit) {
		w.recError(report.KindTypeMismatch, vd.Initializer.Span(), "cannot bind a value of type `Unit`")
	}

	w.declarePattern(vd.Pattern, bindType, vd.Mutable)
}

// declarePattern declares the symbols bound by a pattern matched against a
// value of the given type.
func (w *Walker) declarePattern(pat ast.Pattern, typ types.Type, mutable bool) {
	switch v := pat.(type) {
	case *ast.IdentPattern:
		v.Sym = &common.Symbol{
			Name:       v.Name,
			ModulePath: w.mod.AbsPath,
			DefSpan:    v.Span(),
			Type:       typ,
			DefKind:    common.DefKindValue,
			Storage:    common.StorageLocal,
			Mutable:    mutable,
		}

		w.defineLocal(v.Sym)
	case *ast.TuplePattern:
		tt, ok := typ.(types.TupleType)
		if !ok {
			w.error(
				report.KindTypeMismatch,
				pat.Span(),
				"cannot match a tuple pattern against a value of type `%s`",
				typ.Repr(),
			)
		}

		if len(tt) != len(v.Elems) {
			w.error(
				report.KindTypeMismatch,
				pat.Span(),
				"cannot match a %d-element tuple pattern against a value of type `%s`",
				len(v.Elems),
				typ.Repr(),
			)
		}

		for i, elem := range v.Elems {
			w.declarePattern(elem, tt[i], mutable)
		}
	case *ast.WildcardPattern:
		// Wildcards bind nothing.
	default:
		report.ReportICE("unexpected pattern AST: %T", pat)
	}
}

/* -------------------------------------------------------------------------- */

// walkAssign walks an assignment statement, plain or compound.
func (w *Walker) walkAssign(as *ast.Assign) {
	lhsType := w.walkLHSExpr(as.Lhs)

	w.walkExpr(as.Rhs)

	if as.CompoundOp == ast.AssignPlain {
		if !types.Equals(lhsType, as.Rhs.Type()) {
			w.recError(
				report.KindTypeMismatch,
				as.Rhs.Span(),
				"cannot assign a value of type `%s` to a target of type `%s`",
				as.Rhs.Type().Repr(),
				lhsType.Repr(),
			)
		}

		return
	}

	// A compound assignment applies its operator and stores the result back,
	// so the operator's result type must match the target's type.
	operSpan := report.NewSpanOver(as.Lhs.Span(), as.Rhs.Span())
	resultType := w.checkBinaryOp(as.CompoundOp, as.Lhs, as.Rhs, operSpan)

	if !types.Equals(lhsType, resultType) {
		w.recError(
			report.KindTypeMismatch,
			operSpan,
			"cannot assign a value of type `%s` to a target of type `%s`",
			resultType.Repr(),
			lhsType.Repr(),
		)
	}
}

// walkLHSExpr walks an expression used as an assignment target and returns
// its type.  Assignment targets are restricted to mutable variables and to
// elements of mutable variables.
func (w *Walker) walkLHSExpr(expr ast.ASTExpr) types.Type {
	switch v := expr.(type) {
	case *ast.Identifier:
		sym := w.lookup(v.Name, v.Span())

		if sym.DefKind != common.DefKindValue {
			w.error(report.KindTypeMismatch, v.Span(), "`%s` cannot be assigned to", v.Name)
		}

		if !sym.Mutable {
			w.recError(report.KindTypeMismatch, v.Span(), "cannot mutate an immutable value")
		}

		sym.Used = true
		v.Sym = sym
		v.SetType(sym.Type)
	case *ast.Index:
		w.walkLHSExpr(v.Operand)
		w.walkExpr(v.Sub)
		w.checkIndex(v)
	default:
		w.error(report.KindTypeMismatch, expr.Span(), "expression cannot be assigned to")
	}

	return expr.Type()
}

/* -------------------------------------------------------------------------- */

// walkPrint walks a print statement.
func (w *Walker) walkPrint(p *ast.Print) {
	for _, arg := range p.Args {
		w.walkExpr(arg)

		if !isPrintable(arg.Type()) {
			w.recError(
				report.KindTypeMismatch,
				arg.Span(),
				"cannot print a value of type `%s`",
				arg.Type().Repr(),
			)
		}
	}
}

// isPrintable returns whether values of the given type can be printed.
func isPrintable(typ types.Type) bool {
	return types.Equals(typ, types.PrimTypeInt) ||
		types.Equals(typ, types.PrimTypeStr) ||
		types.Equals(typ, types.PrimTypeBool)
}

/* -------------------------------------------------------------------------- */

// walkReturn walks a return statement.
func (w *Walker) walkReturn(ret *ast.Return) {
	if ret.Value == nil {
		if !types.Equals(w.enclosingReturnType, types.PrimTypeUnit) {
			w.recError(
				report.KindTypeMismatch,
				ret.Span(),
				"function must return a value of type `%s`",
				w.enclosingReturnType.Repr(),
			)
		}

		return
	}

	w.walkExpr(ret.Value)

	if types.Equals(w.enclosingReturnType, types.PrimTypeUnit) {
		w.recError(report.KindTypeMismatch, ret.Value.Span(), "function does not return a value")
	} else if !types.Equals(ret.Value.Type(), w.enclosingReturnType) {
		w.recError(
			report.KindTypeMismatch,
			ret.Value.Span(),
			"expected a return value of type `%s`, but found `%s`",
			w.enclosingReturnType.Repr(),
			ret.Value.Type().Repr(),
		)
	}
}

// walkBreak walks a break statement.
func (w *Walker) walkBreak(br *ast.Break) {
	if len(w.loopStack) == 0 {
		w.recError(report.KindTypeMismatch, br.Span(), "`break` used outside of a loop")
		return
	}

	w.loopStack[len(w.loopStack)-1].sawBreak = true
}

// walkContinue walks a continue statement.
func (w *Walker) walkContinue(ct *ast.Continue) {
	if len(w.loopStack) == 0 {
		w.recError(report.KindTypeMismatch, ct.Span(), "`continue` used outside of a loop")
	}
}
