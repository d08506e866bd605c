package walk

import (
	"github.com/nynrathod/mylang/ast"
	"github.com/nynrathod/mylang/report"
)

// ControlMode describes how control flow leaves a statement or block.
type ControlMode int

const (
	// Control falls through to the next statement.
	ControlFallthrough = ControlMode(iota)

	// Control always jumps to an enclosing loop boundary.
	ControlLoopExit

	// Control always returns from the enclosing function.
	ControlReturn

	// Control never leaves: an infinite loop with no break.
	ControlNoExit
)

// combineControl combines the control modes of two alternative branches: the
// weaker of the two modes wins.
func combineControl(a, b ControlMode) ControlMode {
	if a < b {
		return a
	}

	return b
}

// walkBlock walks a block of statements and returns how control leaves it.
// Statements after a diverging statement are still walked so that they
// produce diagnostics, but they cannot change how the block exits.
func (w *Walker) walkBlock(block *ast.Block) ControlMode {
	mode := ControlFallthrough

	for i, stmt := range block.Stmts {
		stmtMode := w.walkStmt(stmt)

		if mode == ControlFallthrough {
			mode = stmtMode

			if mode != ControlFallthrough && i < len(block.Stmts)-1 {
				w.warn(block.Stmts[i+1].Span(), "unreachable code")
			}
		}
	}

	return mode
}

// walkStmt walks a single statement and returns how control leaves it.
func (w *Walker) walkStmt(stmt ast.ASTNode) ControlMode {
	switch v := stmt.(type) {
	case *ast.VarDecl:
		w.walkVarDecl(v)
	case *ast.Assign:
		w.walkAssign(v)
	case *ast.Print:
		w.walkPrint(v)
	case *ast.IfTree:
		return w.walkIfTree(v)
	case *ast.ForRange:
		w.walkForRange(v)
	case *ast.ForIterable:
		w.walkForIterable(v)
	case *ast.ForInfinite:
		return w.walkForInfinite(v)
	case *ast.Break:
		w.walkBreak(v)
		return ControlLoopExit
	case *ast.Continue:
		w.walkContinue(v)
		return ControlLoopExit
	case *ast.Return:
		w.walkReturn(v)
		return ControlReturn
	default:
		if expr, ok := stmt.(ast.ASTExpr); ok {
			w.walkExpr(expr)
		} else {
			report.ReportICE("unexpected statement AST: %T", stmt)
		}
	}

	return ControlFallthrough
}
