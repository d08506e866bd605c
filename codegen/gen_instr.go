package codegen

import (
	"github.com/nynrathod/mylang/mir"
	"github.com/nynrathod/mylang/report"
	"github.com/nynrathod/mylang/types"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// genInstr generates a single MIR instruction into the current block.
func (g *Generator) genInstr(instr mir.Instr) {
	switch v := instr.(type) {
	case *mir.ConstInt:
		g.setTemp(v.Dest, constant.NewInt(lltypes.I64, v.Value))
	case *mir.ConstBool:
		g.setTemp(v.Dest, constant.NewBool(v.Value))
	case *mir.ConstStr:
		g.genConstStr(v)
	case *mir.ArrayLit:
		g.genArrayLit(v)
	case *mir.MapLit:
		g.genMapLit(v)
	case *mir.TupleLit:
		g.genTupleLit(v)
	case *mir.BinOp:
		g.genBinOp(v)
	case *mir.Call:
		g.genCall(v)
	case *mir.Print:
		g.genPrint(v)
	case *mir.Bind:
		g.genStoreLocal(v.Name, v.Value)
	case *mir.Store:
		g.genStoreLocal(v.Name, v.Value)
	case *mir.ArrayLen:
		g.setTemp(v.Dest, g.block.NewCall(g.rt.arrayLen, g.resolve(v.Array)))
	case *mir.ArrayGet:
		slot := g.block.NewCall(g.rt.arrayGet, g.resolve(v.Array), g.resolve(v.Index))
		g.setTemp(v.Dest, g.fromSlot(slot, v.ElemType))
	case *mir.ArraySet:
		g.block.NewCall(g.rt.arraySet,
			g.resolve(v.Array), g.resolve(v.Index), g.toSlot(g.resolve(v.Value), v.ElemType))
	case *mir.MapLen:
		g.setTemp(v.Dest, g.block.NewCall(g.rt.mapLen, g.resolve(v.Map)))
	case *mir.MapGet:
		slot := g.block.NewCall(g.rt.mapGet, g.resolve(v.Map), g.toSlot(g.resolve(v.Key), v.KeyType))
		g.setTemp(v.Dest, g.fromSlot(slot, v.ValueType))
	case *mir.MapSet:
		g.block.NewCall(g.rt.mapSet, g.resolve(v.Map),
			g.toSlot(g.resolve(v.Key), v.KeyType), g.toSlot(g.resolve(v.Value), v.ValueType))
	case *mir.MapKeyAt:
		slot := g.block.NewCall(g.rt.mapKeyAt, g.resolve(v.Map), g.resolve(v.Index))
		g.setTemp(v.Dest, g.fromSlot(slot, v.KeyType))
	case *mir.MapValAt:
		slot := g.block.NewCall(g.rt.mapValAt, g.resolve(v.Map), g.resolve(v.Index))
		g.setTemp(v.Dest, g.fromSlot(slot, v.ValueType))
	case *mir.TupleExtract:
		g.setTemp(v.Dest, g.block.NewExtractValue(g.resolve(v.Source), uint64(v.Index)))
	case *mir.Retain:
		g.genRetain(g.resolve(v.Value), v.Type)
	case *mir.Release:
		g.genRelease(g.resolve(v.Value), v.Type)
	default:
		report.ReportICE("code generation for instruction not implemented: %T", instr)
	}
}

// genStoreLocal stores a value into a variable slot.  Bind and Store compile
// identically: the slots were all allocated up front in the entry block.
func (g *Generator) genStoreLocal(name string, v mir.Value) {
	slot, ok := g.locals[name]
	if !ok {
		report.ReportICE("store to unallocated variable `%s`", name)
	}

	g.block.NewStore(g.resolve(v), slot.ptr)
}

/* -------------------------------------------------------------------------- */

func (g *Generator) genConstStr(cs *mir.ConstStr) {
	data := unescape(cs.Value)

	bytes := g.block.NewBitCast(g.internString(data), lltypes.I8Ptr)
	str := g.block.NewCall(g.rt.strNew, bytes, constant.NewInt(lltypes.I64, int64(len(data))))

	g.setTemp(cs.Dest, str)
}

func (g *Generator) genArrayLit(al *mir.ArrayLit) {
	arr := g.block.NewCall(g.rt.arrayNew, kindConst(al.ElemType), constant.NewInt(lltypes.I64, int64(len(al.Elems))))

	for _, elem := range al.Elems {
		g.block.NewCall(g.rt.arrayPush, arr, g.toSlot(g.resolve(elem), al.ElemType))
	}

	g.setTemp(al.Dest, arr)
}

func (g *Generator) genMapLit(ml *mir.MapLit) {
	m := g.block.NewCall(g.rt.mapNew, kindConst(ml.KeyType), kindConst(ml.ValueType))

	for _, entry := range ml.Entries {
		g.block.NewCall(g.rt.mapSet, m,
			g.toSlot(g.resolve(entry.Key), ml.KeyType), g.toSlot(g.resolve(entry.Value), ml.ValueType))
	}

	g.setTemp(ml.Dest, m)
}

func (g *Generator) genTupleLit(tl *mir.TupleLit) {
	var agg value.Value = constant.NewUndef(g.convType(types.TupleType(tl.ElemTypes)))

	for i, elem := range tl.Elems {
		agg = g.block.NewInsertValue(agg, g.resolve(elem), uint64(i))
	}

	g.setTemp(tl.Dest, agg)
}

/* -------------------------------------------------------------------------- */

func (g *Generator) genBinOp(bo *mir.BinOp) {
	lhs, rhs := g.resolve(bo.Lhs), g.resolve(bo.Rhs)

	if types.Equals(bo.OperandType, types.PrimTypeStr) {
		g.genStrBinOp(bo, lhs, rhs)
		return
	}

	var res value.Value
	switch bo.Op {
	case "add":
		res = g.block.NewAdd(lhs, rhs)
	case "sub":
		res = g.block.NewSub(lhs, rhs)
	case "mul":
		res = g.block.NewMul(lhs, rhs)
	case "div":
		res = g.block.NewSDiv(lhs, rhs)
	case "rem":
		res = g.block.NewSRem(lhs, rhs)
	case "lt":
		res = g.block.NewICmp(enum.IPredSLT, lhs, rhs)
	case "gt":
		res = g.block.NewICmp(enum.IPredSGT, lhs, rhs)
	case "le":
		res = g.block.NewICmp(enum.IPredSLE, lhs, rhs)
	case "ge":
		res = g.block.NewICmp(enum.IPredSGE, lhs, rhs)
	case "eq":
		res = g.block.NewICmp(enum.IPredEQ, lhs, rhs)
	case "ne":
		res = g.block.NewICmp(enum.IPredNE, lhs, rhs)
	default:
		report.ReportICE("code generation for operator `%s` not implemented", bo.Op)
	}

	g.setTemp(bo.Dest, res)
}

// genStrBinOp generates the string operations, which all go through the
// runtime: `add` concatenates and `eq`/`ne` compare contents.
func (g *Generator) genStrBinOp(bo *mir.BinOp, lhs, rhs value.Value) {
	switch bo.Op {
	case "add":
		g.setTemp(bo.Dest, g.block.NewCall(g.rt.strConcat, lhs, rhs))
	case "eq":
		g.setTemp(bo.Dest, g.block.NewCall(g.rt.strEq, lhs, rhs))
	case "ne":
		eq := g.block.NewCall(g.rt.strEq, lhs, rhs)
		g.setTemp(bo.Dest, g.block.NewXor(eq, constant.NewBool(true)))
	default:
		report.ReportICE("code generation for string operator `%s` not implemented", bo.Op)
	}
}

/* -------------------------------------------------------------------------- */

func (g *Generator) genCall(c *mir.Call) {
	callee, ok := g.funcs[c.Func]
	if !ok {
		report.ReportICE("call to undeclared function `%s`", c.Func)
	}

	args := make([]value.Value, len(c.Args))
	for i, arg := range c.Args {
		args[i] = g.resolve(arg)
	}

	res := g.block.NewCall(callee, args...)

	if c.Dest != "" {
		g.setTemp(c.Dest, res)
	}
}

func (g *Generator) genPrint(p *mir.Print) {
	for i, arg := range p.Args {
		if i > 0 {
			g.block.NewCall(g.rt.printSpace)
		}

		val := g.resolve(arg)

		switch {
		case types.Equals(p.ArgTypes[i], types.PrimTypeInt):
			g.block.NewCall(g.rt.printInt, val)
		case types.Equals(p.ArgTypes[i], types.PrimTypeBool):
			g.block.NewCall(g.rt.printBool, val)
		case types.Equals(p.ArgTypes[i], types.PrimTypeStr):
			g.block.NewCall(g.rt.printStr, val)
		default:
			report.ReportICE("print of a value of type `%s`", p.ArgTypes[i].Repr())
		}
	}

	g.block.NewCall(g.rt.printNewline)
}

/* -------------------------------------------------------------------------- */

// genRetain emits the reference count increment for a value of the given
// type.  All heap objects share one header, so a single runtime routine
// covers them; aggregates retain their heap-backed elements instead.
func (g *Generator) genRetain(val value.Value, typ types.Type) {
	switch t := typ.(type) {
	case types.PrimitiveType:
		if t != types.PrimTypeStr {
			break
		}

		g.block.NewCall(g.rt.retain, val)
		return
	case *types.ArrayType, *types.MapType:
		g.block.NewCall(g.rt.retain, val)
		return
	case types.TupleType:
		for i, elem := range t {
			if types.IsHeapBacked(elem) {
				g.genRetain(g.block.NewExtractValue(val, uint64(i)), elem)
			}
		}

		return
	case *types.StructType:
		for i, field := range t.Fields {
			if types.IsHeapBacked(field.Type) {
				g.genRetain(g.block.NewExtractValue(val, uint64(i)), field.Type)
			}
		}

		return
	case *types.EnumType:
		// An enum value is a bare variant tag: payload-carrying variants
		// cannot be constructed, so there is nothing to count.
		return
	}

	report.ReportICE("retain of a value of type `%s`", typ.Repr())
}

// genRelease emits the reference count decrement for a value of the given
// type.  Unlike retains, releases select a routine per kind: the destructor
// that runs at zero depends on the object's layout.
func (g *Generator) genRelease(val value.Value, typ types.Type) {
	switch t := typ.(type) {
	case types.PrimitiveType:
		if t != types.PrimTypeStr {
			break
		}

		g.block.NewCall(g.rt.releaseStr, val)
		return
	case *types.ArrayType:
		g.block.NewCall(g.rt.releaseArray, val)
		return
	case *types.MapType:
		g.block.NewCall(g.rt.releaseMap, val)
		return
	case types.TupleType:
		for i, elem := range t {
			if types.IsHeapBacked(elem) {
				g.genRelease(g.block.NewExtractValue(val, uint64(i)), elem)
			}
		}

		return
	case *types.StructType:
		for i, field := range t.Fields {
			if types.IsHeapBacked(field.Type) {
				g.genRelease(g.block.NewExtractValue(val, uint64(i)), field.Type)
			}
		}

		return
	case *types.EnumType:
		return
	}

	report.ReportICE("release of a value of type `%s`", typ.Repr())
}
