package walk

import (
	"github.com/nynrathod/mylang/ast"
	"github.com/nynrathod/mylang/report"
	"github.com/nynrathod/mylang/types"
)

// walkIfTree walks an if/else-if/else tree.
func (w *Walker) walkIfTree(it *ast.IfTree) ControlMode {
	mode := ControlNoExit

	for _, condBranch := range it.CondBranches {
		w.walkExpr(condBranch.Condition)

		if !types.Equals(condBranch.Condition.Type(), types.PrimTypeBool) {
			w.recError(
				report.KindTypeMismatch,
				condBranch.Condition.Span(),
				"if condition must be a `Bool`, but found `%s`",
				condBranch.Condition.Type().Repr(),
			)
		}

		w.pushScope()
		mode = combineControl(mode, w.walkBlock(condBranch.Body))
		w.popScope()
	}

	if it.ElseBranch != nil {
		w.pushScope()
		mode = combineControl(mode, w.walkBlock(it.ElseBranch))
		w.popScope()
	} else {
		// Without an else, the whole tree can be skipped.
		mode = ControlFallthrough
	}

	return mode
}

/* -------------------------------------------------------------------------- */

// walkForRange walks a loop over an integer range.
func (w *Walker) walkForRange(fr *ast.ForRange) {
	w.walkExpr(fr.Range.Start)
	w.walkExpr(fr.Range.End)

	if !types.Equals(fr.Range.Start.Type(), types.PrimTypeInt) {
		w.recError(
			report.KindTypeMismatch,
			fr.Range.Start.Span(),
			"range bounds must be of type `Int`, but found `%s`",
			fr.Range.Start.Type().Repr(),
		)
	}

	if !types.Equals(fr.Range.End.Type(), types.PrimTypeInt) {
		w.recError(
			report.KindTypeMismatch,
			fr.Range.End.Span(),
			"range bounds must be of type `Int`, but found `%s`",
			fr.Range.End.Type().Repr(),
		)
	}

	w.pushScope()
	defer w.popScope()

	w.declarePattern(fr.Pattern, types.PrimTypeInt, false)

	w.pushLoop()
	w.walkBlock(fr.Body)
	w.popLoop()
}

// walkForIterable walks a loop over an array or a map.
func (w *Walker) walkForIterable(fi *ast.ForIterable) {
	w.walkExpr(fi.Iterable)

	w.pushScope()
	defer w.popScope()

	switch itType := fi.Iterable.Type().(type) {
	case *types.ArrayType:
		w.declarePattern(fi.Pattern, itType.ElemType, false)
	case *types.MapType:
		// Map iteration always binds a key and a value per entry.
		tp, ok := fi.Pattern.(*ast.TuplePattern)
		if !ok || len(tp.Elems) != 2 {
			w.error(
				report.KindTypeMismatch,
				fi.Pattern.Span(),
				"map iteration requires a `(key, value)` pattern",
			)
		}

		w.declarePattern(tp.Elems[0], itType.KeyType, false)
		w.declarePattern(tp.Elems[1], itType.ValueType, false)
	default:
		w.error(
			report.KindTypeMismatch,
			fi.Iterable.Span(),
			"cannot iterate over a value of type `%s`",
			fi.Iterable.Type().Repr(),
		)
	}

	w.pushLoop()
	w.walkBlock(fi.Body)
	w.popLoop()
}

// walkForInfinite walks an infinite loop.
func (w *Walker) walkForInfinite(fi *ast.ForInfinite) ControlMode {
	w.pushScope()
	defer w.popScope()

	w.pushLoop()
	w.walkBlock(fi.Body)
	frame := w.popLoop()

	// An infinite loop with no break never exits.
	if frame.sawBreak {
		return ControlFallthrough
	}

	return ControlNoExit
}
