package lower

import (
	"github.com/nynrathod/mylang/ast"
	"github.com/nynrathod/mylang/mir"
	"github.com/nynrathod/mylang/report"
	"github.com/nynrathod/mylang/types"
)

// lowerIfTree lowers an if tree to a chain of conditional branches whose
// falling-through paths reconverge on a merge block.
func (l *Lowerer) lowerIfTree(it *ast.IfTree) {
	// Branch bodies that fall through to the merge point.  Their jumps are
	// patched in once the merge block exists.
	var exits []*mir.Block

	for _, cb := range it.CondBranches {
		base := len(l.pending)
		cond, _ := l.lowerExpr(cb.Condition)

		thenBlock := l.newBlock()
		elseBlock := l.newBlock()

		// Fresh temporaries made by the condition must not outlive its test
		// block: later test blocks and the merge point are also reachable from
		// paths that never ran this condition.
		l.sweepPending(base)

		l.beginExit()
		l.seal(&mir.Branch{Cond: cond, Then: thenBlock.Label, Else: elseBlock.Label})

		l.setCurrent(thenBlock)
		l.pushScope()
		l.lowerBlock(cb.Body)
		l.popScope()

		if l.state != blockClosed {
			exits = append(exits, l.block)
		}

		l.setCurrent(elseBlock)
	}

	if it.ElseBranch == nil {
		// Without an else the last branch's false target is the merge point.
		merge := l.block
		for _, block := range exits {
			block.Term = &mir.Jump{Target: merge.Label}
		}

		return
	}

	l.pushScope()
	l.lowerBlock(it.ElseBranch)
	l.popScope()

	if l.state != blockClosed {
		exits = append(exits, l.block)
	}

	merge := l.newBlock()
	for _, block := range exits {
		block.Term = &mir.Jump{Target: merge.Label}
	}

	l.setCurrent(merge)
}

/* -------------------------------------------------------------------------- */

// lowerForRange lowers `for i in a..b` to the classic counted loop: the
// bounds evaluate once ahead of the header, the header compares and
// branches, and the latch steps the loop variable before the back-edge.
func (l *Lowerer) lowerForRange(fr *ast.ForRange) {
	start, _ := l.lowerExpr(fr.Range.Start)
	end, _ := l.lowerExpr(fr.Range.End)

	var name string
	if ident, ok := fr.Pattern.(*ast.IdentPattern); ok {
		name = l.mirName(ident.Sym)
	} else {
		name = l.claimName("it")
	}

	l.appendInstr(&mir.Bind{Name: name, Value: start, Type: types.PrimTypeInt, Mutable: true})

	header := l.newBlock()
	body := l.newBlock()
	latch := l.newBlock()
	after := l.newBlock()

	l.beginExit()
	l.seal(&mir.Jump{Target: header.Label})

	// Header: test the loop variable against the end bound.
	l.setCurrent(header)

	op := "lt"
	if fr.Range.Inclusive {
		op = "le"
	}

	cmp := l.nextTemp()
	l.appendInstr(&mir.BinOp{Dest: cmp, Op: op, Lhs: mir.Var(name), Rhs: end, OperandType: types.PrimTypeInt})
	l.beginExit()
	l.seal(&mir.Branch{Cond: cmp, Then: body.Label, Else: after.Label})

	l.pushScope()
	l.pushLoop(after.Label, latch.Label)

	l.setCurrent(body)
	l.pushScope()
	l.lowerBlock(fr.Body)
	l.popScope()

	if l.state != blockClosed {
		l.beginExit()
		l.seal(&mir.Jump{Target: latch.Label})
	}

	// Latch: step and take the back-edge.
	l.setCurrent(latch)
	l.emitStep(name)
	l.beginExit()
	l.seal(&mir.Jump{Target: header.Label})

	l.popLoop()
	l.setCurrent(after)
	l.popScope()
}

// lowerForIterable lowers `for x in expr` over an array or a map.
func (l *Lowerer) lowerForIterable(fi *ast.ForIterable) {
	iter, fresh := l.lowerExpr(fi.Iterable)

	switch iterType := fi.Iterable.Type().(type) {
	case *types.ArrayType:
		l.lowerArrayLoop(fi, iter, fresh, iterType)
	case *types.MapType:
		l.lowerMapLoop(fi, iter, fresh, iterType)
	default:
		report.ReportICE("iteration over a value of type `%s`", iterType.Repr())
	}
}

// lowerArrayLoop steps a hidden index variable over an array, testing it
// against the array length in the header.  The element binds per iteration
// in the body's scope, retained when the element type is heap-backed.
func (l *Lowerer) lowerArrayLoop(fi *ast.ForIterable, iter mir.Value, fresh bool, iterType *types.ArrayType) {
	// The loop's own scope holds a fresh iterable for the loop's duration.
	l.pushScope()
	if fresh {
		l.consume(iter.(mir.Temp))
		l.track(iter, fi.Iterable.Type())
	}

	idxName := l.claimName(patternBaseName(fi.Pattern) + "__idx")

	zero := l.nextTemp()
	l.appendInstr(&mir.ConstInt{Dest: zero, Value: 0})
	l.appendInstr(&mir.Bind{Name: idxName, Value: zero, Type: types.PrimTypeInt, Mutable: true})

	header := l.newBlock()
	body := l.newBlock()
	latch := l.newBlock()
	after := l.newBlock()

	l.beginExit()
	l.seal(&mir.Jump{Target: header.Label})

	// Header: test the index against the array length.
	l.setCurrent(header)

	length := l.nextTemp()
	l.appendInstr(&mir.ArrayLen{Dest: length, Array: iter})

	cmp := l.nextTemp()
	l.appendInstr(&mir.BinOp{Dest: cmp, Op: "lt", Lhs: mir.Var(idxName), Rhs: length, OperandType: types.PrimTypeInt})
	l.beginExit()
	l.seal(&mir.Branch{Cond: cmp, Then: body.Label, Else: after.Label})

	l.pushLoop(after.Label, latch.Label)

	// Body: bind the current element, then run the statements.
	l.setCurrent(body)
	l.pushScope()

	if _, ok := fi.Pattern.(*ast.WildcardPattern); !ok {
		elem := l.nextTemp()
		l.appendInstr(&mir.ArrayGet{Dest: elem, Array: iter, Index: mir.Var(idxName), ElemType: iterType.ElemType})
		l.lowerPatternBind(fi.Pattern, elem, iterType.ElemType, false)
	}

	l.lowerBlock(fi.Body)
	l.popScope()

	if l.state != blockClosed {
		l.beginExit()
		l.seal(&mir.Jump{Target: latch.Label})
	}

	l.setCurrent(latch)
	l.emitStep(idxName)
	l.beginExit()
	l.seal(&mir.Jump{Target: header.Label})

	l.popLoop()
	l.setCurrent(after)
	l.popScope()
}

// lowerMapLoop steps a hidden index over a map's entries, binding the key
// and value per iteration.  The key is retained only when the key type is
// heap-backed, and likewise the value.
func (l *Lowerer) lowerMapLoop(fi *ast.ForIterable, iter mir.Value, fresh bool, iterType *types.MapType) {
	pattern, ok := fi.Pattern.(*ast.TuplePattern)
	if !ok || len(pattern.Elems) != 2 {
		report.ReportICE("map iteration lowered without a two-element tuple pattern")
	}

	l.pushScope()
	if fresh {
		l.consume(iter.(mir.Temp))
		l.track(iter, fi.Iterable.Type())
	}

	idxName := l.claimName(patternBaseName(fi.Pattern) + "__idx")

	zero := l.nextTemp()
	l.appendInstr(&mir.ConstInt{Dest: zero, Value: 0})
	l.appendInstr(&mir.Bind{Name: idxName, Value: zero, Type: types.PrimTypeInt, Mutable: true})

	header := l.newBlock()
	body := l.newBlock()
	latch := l.newBlock()
	after := l.newBlock()

	l.beginExit()
	l.seal(&mir.Jump{Target: header.Label})

	// Header: test the index against the map length.
	l.setCurrent(header)

	length := l.nextTemp()
	l.appendInstr(&mir.MapLen{Dest: length, Map: iter})

	cmp := l.nextTemp()
	l.appendInstr(&mir.BinOp{Dest: cmp, Op: "lt", Lhs: mir.Var(idxName), Rhs: length, OperandType: types.PrimTypeInt})
	l.beginExit()
	l.seal(&mir.Branch{Cond: cmp, Then: body.Label, Else: after.Label})

	l.pushLoop(after.Label, latch.Label)

	// Body: bind the entry's key and value, then run the statements.
	l.setCurrent(body)
	l.pushScope()

	if _, ok := pattern.Elems[0].(*ast.WildcardPattern); !ok {
		key := l.nextTemp()
		l.appendInstr(&mir.MapKeyAt{Dest: key, Map: iter, Index: mir.Var(idxName), KeyType: iterType.KeyType})
		l.lowerPatternBind(pattern.Elems[0], key, iterType.KeyType, false)
	}

	if _, ok := pattern.Elems[1].(*ast.WildcardPattern); !ok {
		value := l.nextTemp()
		l.appendInstr(&mir.MapValAt{Dest: value, Map: iter, Index: mir.Var(idxName), ValueType: iterType.ValueType})
		l.lowerPatternBind(pattern.Elems[1], value, iterType.ValueType, false)
	}

	l.lowerBlock(fi.Body)
	l.popScope()

	if l.state != blockClosed {
		l.beginExit()
		l.seal(&mir.Jump{Target: latch.Label})
	}

	l.setCurrent(latch)
	l.emitStep(idxName)
	l.beginExit()
	l.seal(&mir.Jump{Target: header.Label})

	l.popLoop()
	l.setCurrent(after)
	l.popScope()
}

// lowerForInfinite lowers `for { }`.  The header doubles as the latch: the
// back-edge and `continue` both target it, and a `break` in the body is the
// only way forward.
func (l *Lowerer) lowerForInfinite(fi *ast.ForInfinite) {
	header := l.newBlock()
	after := l.newBlock()

	l.beginExit()
	l.seal(&mir.Jump{Target: header.Label})

	l.pushScope()
	l.pushLoop(after.Label, header.Label)

	l.setCurrent(header)
	l.pushScope()
	l.lowerBlock(fi.Body)
	l.popScope()

	if l.state != blockClosed {
		l.beginExit()
		l.seal(&mir.Jump{Target: header.Label})
	}

	l.popLoop()
	l.setCurrent(after)
	l.popScope()
}

/* -------------------------------------------------------------------------- */

// emitStep emits the latch increment of a loop counter variable.
func (l *Lowerer) emitStep(name string) {
	one := l.nextTemp()
	l.appendInstr(&mir.ConstInt{Dest: one, Value: 1})

	next := l.nextTemp()
	l.appendInstr(&mir.BinOp{Dest: next, Op: "add", Lhs: mir.Var(name), Rhs: one, OperandType: types.PrimTypeInt})

	l.appendInstr(&mir.Store{Name: name, Value: next})
}

// patternBaseName picks the name stem for a loop's hidden index variable.
func patternBaseName(pattern ast.Pattern) string {
	switch p := pattern.(type) {
	case *ast.IdentPattern:
		return p.Name
	case *ast.TuplePattern:
		if len(p.Elems) > 0 {
			if ident, ok := p.Elems[0].(*ast.IdentPattern); ok {
				return ident.Name
			}
		}
	}

	return "it"
}
