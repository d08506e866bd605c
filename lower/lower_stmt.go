package lower

import (
	"github.com/nynrathod/mylang/ast"
	"github.com/nynrathod/mylang/common"
	"github.com/nynrathod/mylang/mir"
	"github.com/nynrathod/mylang/report"
	"github.com/nynrathod/mylang/types"
)

// lowerBlock lowers the statements of a source block at the current
// position.  Statements after a terminating statement are unreachable and
// dropped; the analyzer already warned about them.
func (l *Lowerer) lowerBlock(block *ast.Block) {
	for _, stmt := range block.Stmts {
		if l.state == blockClosed {
			break
		}

		l.lowerStmt(stmt)
	}
}

// lowerStmt lowers a single statement.  Fresh heap-backed temporaries left
// without an owner when the statement completes are released by the sweep on
// the fall-through path.
func (l *Lowerer) lowerStmt(stmt ast.ASTNode) {
	base := len(l.pending)

	switch v := stmt.(type) {
	case *ast.VarDecl:
		l.lowerVarDecl(v)
	case *ast.Assign:
		l.lowerAssign(v)
	case *ast.Print:
		l.lowerPrint(v)
	case *ast.IfTree:
		l.lowerIfTree(v)
	case *ast.ForRange:
		l.lowerForRange(v)
	case *ast.ForIterable:
		l.lowerForIterable(v)
	case *ast.ForInfinite:
		l.lowerForInfinite(v)
	case *ast.Break:
		l.lowerBreak()
	case *ast.Continue:
		l.lowerContinue()
	case *ast.Return:
		l.lowerReturn(v)
	case ast.ASTExpr:
		l.lowerExpr(v)
	default:
		report.ReportICE("lowering for statement not implemented: %T", stmt)
	}

	if l.state == blockOpen {
		l.sweepPending(base)
	} else {
		// An exit within the statement already released these on its path.
		l.pending = l.pending[:base]
	}
}

/* -------------------------------------------------------------------------- */

func (l *Lowerer) lowerVarDecl(vd *ast.VarDecl) {
	value, fresh := l.lowerExpr(vd.Initializer)
	l.lowerPatternBind(vd.Pattern, value, vd.Initializer.Type(), fresh)
}

// lowerPatternBind binds a lowered value to a declaration pattern.  Tuple
// patterns extract element by element; wildcards bind nothing, leaving an
// unowned fresh value to the statement sweep.
func (l *Lowerer) lowerPatternBind(pattern ast.Pattern, value mir.Value, typ types.Type, fresh bool) {
	switch p := pattern.(type) {
	case *ast.IdentPattern:
		l.bindSymbol(p.Sym, value, fresh)
	case *ast.TuplePattern:
		tupType, ok := typ.(types.TupleType)
		if !ok {
			report.ReportICE("tuple pattern bound to a value of type `%s`", typ.Repr())
		}

		for i, elem := range p.Elems {
			if _, ok := elem.(*ast.WildcardPattern); ok {
				continue
			}

			extracted := l.nextTemp()
			l.appendInstr(&mir.TupleExtract{Dest: extracted, Source: value, Index: i})

			// An extracted element is owned by its aggregate, never fresh.
			l.lowerPatternBind(elem, extracted, tupType[i], false)
		}
	case *ast.WildcardPattern:
	default:
		report.ReportICE("lowering for pattern not implemented: %T", pattern)
	}
}

// bindSymbol stores a value into a new variable slot.  Binding an owned
// heap-backed value copies a reference, so it retains first; a fresh value
// transfers its creation reference instead.
func (l *Lowerer) bindSymbol(sym *common.Symbol, value mir.Value, fresh bool) {
	name := l.mirName(sym)

	if types.IsHeapBacked(sym.Type) {
		if fresh {
			l.consume(value.(mir.Temp))
		} else {
			l.appendInstr(&mir.Retain{Value: value, Type: sym.Type})
		}

		l.track(mir.Var(name), sym.Type)
	}

	l.appendInstr(&mir.Bind{Name: name, Value: value, Type: sym.Type, Mutable: sym.Mutable})
}

/* -------------------------------------------------------------------------- */

func (l *Lowerer) lowerAssign(assign *ast.Assign) {
	switch lhs := assign.Lhs.(type) {
	case *ast.Identifier:
		l.lowerVarAssign(assign, lhs)
	case *ast.Index:
		l.lowerElemAssign(assign, lhs)
	default:
		report.ReportICE("assignment to unexpected expression: %T", assign.Lhs)
	}
}

// lowerVarAssign lowers an assignment to a variable slot.  For heap-backed
// slots the incoming value is secured before the displaced value is
// released, so a self-assignment cannot free the object it is copying.
func (l *Lowerer) lowerVarAssign(assign *ast.Assign, lhs *ast.Identifier) {
	name := l.mirName(lhs.Sym)
	typ := lhs.Sym.Type

	var value mir.Value
	var fresh bool
	if assign.CompoundOp == ast.AssignPlain {
		value, fresh = l.lowerExpr(assign.Rhs)
	} else {
		rhs, _ := l.lowerExpr(assign.Rhs)
		value, fresh = l.applyBinOp(assign.CompoundOp, mir.Var(name), rhs, typ)
	}

	if types.IsHeapBacked(typ) {
		if fresh {
			l.consume(value.(mir.Temp))
		} else {
			l.appendInstr(&mir.Retain{Value: value, Type: typ})
		}

		l.appendInstr(&mir.Release{Value: mir.Var(name), Type: typ})
	}

	l.appendInstr(&mir.Store{Name: name, Value: value})
}

// lowerElemAssign lowers an assignment through an element access.  The
// runtime set routines release the displaced element and retain the stored
// one, so no explicit reference counting is inserted here; a fresh stored
// value simply stays with the statement sweep.
func (l *Lowerer) lowerElemAssign(assign *ast.Assign, lhs *ast.Index) {
	container, _ := l.lowerExpr(lhs.Operand)
	sub, _ := l.lowerExpr(lhs.Sub)

	var value mir.Value
	if assign.CompoundOp == ast.AssignPlain {
		value, _ = l.lowerExpr(assign.Rhs)
	} else {
		current := l.lowerElemRead(lhs, container, sub)
		rhs, _ := l.lowerExpr(assign.Rhs)
		value, _ = l.applyBinOp(assign.CompoundOp, current, rhs, lhs.Type())
	}

	switch containerType := lhs.Operand.Type().(type) {
	case *types.ArrayType:
		l.appendInstr(&mir.ArraySet{
			Array:    container,
			Index:    sub,
			Value:    value,
			ElemType: containerType.ElemType,
		})
	case *types.MapType:
		l.appendInstr(&mir.MapSet{
			Map:       container,
			Key:       sub,
			Value:     value,
			KeyType:   containerType.KeyType,
			ValueType: containerType.ValueType,
		})
	default:
		report.ReportICE("element assignment into a value of type `%s`", containerType.Repr())
	}
}

/* -------------------------------------------------------------------------- */

func (l *Lowerer) lowerPrint(pr *ast.Print) {
	args := make([]mir.Value, len(pr.Args))
	argTypes := make([]types.Type, len(pr.Args))
	for i, arg := range pr.Args {
		args[i], _ = l.lowerExpr(arg)
		argTypes[i] = arg.Type()
	}

	l.appendInstr(&mir.Print{Args: args, ArgTypes: argTypes})
}

/* -------------------------------------------------------------------------- */

// lowerBreak releases the scopes inside the loop and jumps to the block
// after it.  The loop's own scope stays live here: the after-loop block
// releases it on every path that leaves the loop forward.
func (l *Lowerer) lowerBreak() {
	if len(l.loops) == 0 {
		report.ReportICE("`break` lowered outside of a loop")
	}

	ctx := l.loops[len(l.loops)-1]

	l.beginExit()
	l.releasePendingAbove(ctx.pendingBase)
	l.releaseScopesAbove(ctx.scopeIndex, nil)
	l.seal(&mir.Jump{Target: ctx.breakTarget})
}

// lowerContinue releases the current iteration's scopes and jumps to the
// latch.
func (l *Lowerer) lowerContinue() {
	if len(l.loops) == 0 {
		report.ReportICE("`continue` lowered outside of a loop")
	}

	ctx := l.loops[len(l.loops)-1]

	l.beginExit()
	l.releasePendingAbove(ctx.pendingBase)
	l.releaseScopesAbove(ctx.scopeIndex, nil)
	l.seal(&mir.Jump{Target: ctx.continueTarget})
}

// lowerReturn unwinds every live scope and returns.  A returned heap-backed
// value rides out with a reference of its own: a fresh value keeps its
// creation reference, a returned variable is skipped by the unwind, and a
// returned element extraction is retained to give the caller an owned copy.
func (l *Lowerer) lowerReturn(ret *ast.Return) {
	var value mir.Value
	var skip mir.Value

	if ret.Value != nil {
		v, fresh := l.lowerExpr(ret.Value)

		if typ := ret.Value.Type(); types.IsHeapBacked(typ) {
			switch {
			case fresh:
				l.consume(v.(mir.Temp))
			case isVarValue(v):
				skip = v
			default:
				l.appendInstr(&mir.Retain{Value: v, Type: typ})
			}
		}

		value = v
	}

	l.beginExit()
	l.releasePendingAbove(0)
	l.releaseScopesAbove(-1, skip)
	l.seal(&mir.Return{Value: value})
}

// isVarValue tests whether a MIR value reads a named variable slot.
func isVarValue(v mir.Value) bool {
	_, ok := v.(mir.Var)
	return ok
}
