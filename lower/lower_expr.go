package lower

import (
	"strconv"

	"github.com/nynrathod/mylang/ast"
	"github.com/nynrathod/mylang/mir"
	"github.com/nynrathod/mylang/report"
	"github.com/nynrathod/mylang/syntax"
	"github.com/nynrathod/mylang/types"
)

// opMnemonics maps binary operator token kinds to MIR operation mnemonics.
// The logical operators are absent: they lower to control flow.
var opMnemonics = map[int]string{
	syntax.TOK_PLUS:  "add",
	syntax.TOK_MINUS: "sub",
	syntax.TOK_STAR:  "mul",
	syntax.TOK_DIV:   "div",
	syntax.TOK_MOD:   "rem",
	syntax.TOK_LT:    "lt",
	syntax.TOK_GT:    "gt",
	syntax.TOK_LTEQ:  "le",
	syntax.TOK_GTEQ:  "ge",
	syntax.TOK_EQ:    "eq",
	syntax.TOK_NEQ:   "ne",
}

// lowerExpr lowers an expression and returns its MIR value.  The second
// return is true when the value is fresh: a newly produced value whose
// creation reference the consumer may take over.  A false return means the
// value is owned elsewhere (a variable slot or a container element) and must
// be retained to be kept.  Unit-typed calls produce no value and return nil.
func (l *Lowerer) lowerExpr(expr ast.ASTExpr) (mir.Value, bool) {
	switch v := expr.(type) {
	case *ast.Literal:
		return l.lowerLiteral(v), true
	case *ast.Identifier:
		return mir.Var(l.mirName(v.Sym)), false
	case *ast.ArrayLit:
		return l.lowerArrayLit(v), true
	case *ast.MapLit:
		return l.lowerMapLit(v), true
	case *ast.TupleLit:
		return l.lowerTupleLit(v), true
	case *ast.UnaryOp:
		return l.lowerUnaryOp(v), true
	case *ast.BinOp:
		if v.OpKind == syntax.TOK_LAND || v.OpKind == syntax.TOK_LOR {
			return l.lowerShortCircuit(v), false
		}

		lhs, _ := l.lowerExpr(v.Lhs)
		rhs, _ := l.lowerExpr(v.Rhs)
		return l.applyBinOp(v.OpKind, lhs, rhs, v.Lhs.Type())
	case *ast.Call:
		return l.lowerCall(v)
	case *ast.Index:
		container, _ := l.lowerExpr(v.Operand)
		sub, _ := l.lowerExpr(v.Sub)
		return l.lowerElemRead(v, container, sub), false
	default:
		report.ReportICE("lowering for expression not implemented: %T", expr)
		return nil, false
	}
}

func (l *Lowerer) lowerLiteral(lit *ast.Literal) mir.Value {
	dest := l.nextTemp()

	switch lit.Kind {
	case syntax.TOK_INTLIT:
		value, err := strconv.ParseInt(lit.Value, 0, 64)
		if err != nil {
			report.ReportICE("unvalidated integer literal `%s`", lit.Value)
		}

		l.appendInstr(&mir.ConstInt{Dest: dest, Value: value})
	case syntax.TOK_BOOLLIT:
		l.appendInstr(&mir.ConstBool{Dest: dest, Value: lit.Value == "true"})
	case syntax.TOK_STRINGLIT:
		l.appendInstr(&mir.ConstStr{Dest: dest, Value: lit.Value})
		l.stage(dest, types.PrimTypeStr)
	default:
		report.ReportICE("lowering for literal not implemented: %d", lit.Kind)
	}

	return dest
}

// lowerArrayLit lowers an array literal.  Construction copies the elements
// in: the runtime retains each stored heap-backed element itself, so a fresh
// element temporary keeps its creation reference for the statement sweep.
func (l *Lowerer) lowerArrayLit(al *ast.ArrayLit) mir.Value {
	elems := make([]mir.Value, len(al.Elems))
	for i, elem := range al.Elems {
		elems[i], _ = l.lowerExpr(elem)
	}

	dest := l.nextTemp()
	l.appendInstr(&mir.ArrayLit{
		Dest:     dest,
		Elems:    elems,
		ElemType: al.Type().(*types.ArrayType).ElemType,
	})
	l.stage(dest, al.Type())

	return dest
}

func (l *Lowerer) lowerMapLit(ml *ast.MapLit) mir.Value {
	entries := make([]mir.MapLitEntry, len(ml.Entries))
	for i, entry := range ml.Entries {
		key, _ := l.lowerExpr(entry.Key)
		value, _ := l.lowerExpr(entry.Value)
		entries[i] = mir.MapLitEntry{Key: key, Value: value}
	}

	mapType := ml.Type().(*types.MapType)

	dest := l.nextTemp()
	l.appendInstr(&mir.MapLit{
		Dest:      dest,
		Entries:   entries,
		KeyType:   mapType.KeyType,
		ValueType: mapType.ValueType,
	})
	l.stage(dest, ml.Type())

	return dest
}

// lowerTupleLit lowers a tuple literal.  A tuple is an unboxed aggregate
// carrying one reference to each of its heap-backed elements with no runtime
// construction call, so the element references transfer here: an owned
// element is retained and a fresh one hands over its creation reference.
func (l *Lowerer) lowerTupleLit(tl *ast.TupleLit) mir.Value {
	tupType := tl.Type().(types.TupleType)

	elems := make([]mir.Value, len(tl.Elems))
	for i, elem := range tl.Elems {
		value, fresh := l.lowerExpr(elem)

		if types.IsHeapBacked(tupType[i]) {
			if fresh {
				l.consume(value.(mir.Temp))
			} else {
				l.appendInstr(&mir.Retain{Value: value, Type: tupType[i]})
			}
		}

		elems[i] = value
	}

	dest := l.nextTemp()
	l.appendInstr(&mir.TupleLit{Dest: dest, Elems: elems, ElemTypes: tupType})

	if types.IsHeapBacked(tupType) {
		l.stage(dest, tupType)
	}

	return dest
}

func (l *Lowerer) lowerUnaryOp(uo *ast.UnaryOp) mir.Value {
	operand, _ := l.lowerExpr(uo.Operand)

	switch uo.OpKind {
	case syntax.TOK_MINUS:
		zero := l.nextTemp()
		l.appendInstr(&mir.ConstInt{Dest: zero, Value: 0})

		dest := l.nextTemp()
		l.appendInstr(&mir.BinOp{Dest: dest, Op: "sub", Lhs: zero, Rhs: operand, OperandType: types.PrimTypeInt})
		return dest
	case syntax.TOK_NOT:
		falseTemp := l.nextTemp()
		l.appendInstr(&mir.ConstBool{Dest: falseTemp, Value: false})

		dest := l.nextTemp()
		l.appendInstr(&mir.BinOp{Dest: dest, Op: "eq", Lhs: operand, Rhs: falseTemp, OperandType: types.PrimTypeBool})
		return dest
	default:
		report.ReportICE("lowering for unary operator not implemented: %d", uo.OpKind)
		return nil
	}
}

// applyBinOp emits a binary operation over already-lowered operands.  The
// operand type rides on the instruction and decides its runtime meaning:
// `add` over Str is concatenation producing a fresh string, and `eq` over
// Str compares contents rather than pointers.
func (l *Lowerer) applyBinOp(opKind int, lhs, rhs mir.Value, operandType types.Type) (mir.Value, bool) {
	mnemonic, ok := opMnemonics[opKind]
	if !ok {
		report.ReportICE("lowering for binary operator not implemented: %d", opKind)
	}

	dest := l.nextTemp()
	l.appendInstr(&mir.BinOp{Dest: dest, Op: mnemonic, Lhs: lhs, Rhs: rhs, OperandType: operandType})

	// Concatenation is the only operation producing a heap value.
	if mnemonic == "add" && types.IsHeapBacked(operandType) {
		l.stage(dest, operandType)
	}

	return dest, true
}

// lowerShortCircuit lowers `&&` and `||` with genuine short-circuit control
// flow: the right operand evaluates only when the left operand does not
// already decide the result.  The result lives in a hidden variable slot
// because the two paths do not reconverge through a single temporary.
func (l *Lowerer) lowerShortCircuit(bo *ast.BinOp) mir.Value {
	lhs, _ := l.lowerExpr(bo.Lhs)

	name := l.claimName("sc")
	l.appendInstr(&mir.Bind{Name: name, Value: lhs, Type: types.PrimTypeBool, Mutable: true})

	rhsBlock := l.newBlock()
	merge := l.newBlock()

	l.beginExit()
	if bo.OpKind == syntax.TOK_LAND {
		l.seal(&mir.Branch{Cond: lhs, Then: rhsBlock.Label, Else: merge.Label})
	} else {
		l.seal(&mir.Branch{Cond: lhs, Then: merge.Label, Else: rhsBlock.Label})
	}

	// Fresh temporaries made by the right operand must not outlive its
	// block: the short path never creates them.
	l.setCurrent(rhsBlock)
	base := len(l.pending)

	rhs, _ := l.lowerExpr(bo.Rhs)
	l.appendInstr(&mir.Store{Name: name, Value: rhs})

	l.sweepPending(base)
	l.beginExit()
	l.seal(&mir.Jump{Target: merge.Label})

	l.setCurrent(merge)
	return mir.Var(name)
}

// lowerCall lowers a function call.  Heap-backed arguments pass owned: an
// owned argument is retained at the call site and the callee releases the
// parameter when its scope ends, while a fresh argument hands over its
// creation reference instead.
func (l *Lowerer) lowerCall(call *ast.Call) (mir.Value, bool) {
	ft := call.Func.Sym.Type.(*types.FuncType)

	args := make([]mir.Value, len(call.Args))
	for i, arg := range call.Args {
		value, fresh := l.lowerExpr(arg)

		if types.IsHeapBacked(ft.ParamTypes[i]) {
			if fresh {
				l.consume(value.(mir.Temp))
			} else {
				l.appendInstr(&mir.Retain{Value: value, Type: ft.ParamTypes[i]})
			}
		}

		args[i] = value
	}

	name := l.mirFuncName(call.Func.Sym)

	if types.Equals(ft.ReturnType, types.PrimTypeUnit) {
		l.appendInstr(&mir.Call{Func: name, Args: args})
		return nil, false
	}

	dest := l.nextTemp()
	l.appendInstr(&mir.Call{Dest: dest, Func: name, Args: args})

	if types.IsHeapBacked(ft.ReturnType) {
		l.stage(dest, ft.ReturnType)
	}

	return dest, true
}

// lowerElemRead emits the element load of an index expression over an
// already-lowered container and subscript.
func (l *Lowerer) lowerElemRead(index *ast.Index, container, sub mir.Value) mir.Value {
	dest := l.nextTemp()

	switch containerType := index.Operand.Type().(type) {
	case *types.ArrayType:
		l.appendInstr(&mir.ArrayGet{Dest: dest, Array: container, Index: sub, ElemType: containerType.ElemType})
	case *types.MapType:
		l.appendInstr(&mir.MapGet{
			Dest:      dest,
			Map:       container,
			Key:       sub,
			KeyType:   containerType.KeyType,
			ValueType: containerType.ValueType,
		})
	default:
		report.ReportICE("element read from a value of type `%s`", containerType.Repr())
	}

	return dest
}
