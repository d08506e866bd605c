package codegen

import (
	"github.com/nynrathod/mylang/mir"
	"github.com/nynrathod/mylang/report"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// declareFunction creates the LLVM declaration for a MIR function.
func (g *Generator) declareFunction(fn *mir.Function) {
	params := make([]*ir.Param, len(fn.Params))
	for i, param := range fn.Params {
		params[i] = ir.NewParam(param.Name, g.convType(param.Type))
	}

	var retType lltypes.Type
	if fn.Name == "main" {
		// The entry point links directly against the C runtime and reports
		// success through its exit status.
		retType = lltypes.I32
	} else {
		retType = g.convType(fn.ReturnType)
	}

	llFn := g.mod.NewFunc(fn.Name, retType, params...)
	llFn.FuncAttrs = append(llFn.FuncAttrs, enum.FuncAttrNoUnwind)

	if fn.Public || fn.Name == "main" {
		llFn.Linkage = enum.LinkageExternal
	} else {
		llFn.Linkage = enum.LinkageInternal
	}

	g.funcs[fn.Name] = llFn
}

// genFunctionBody generates the body of an already declared MIR function.
func (g *Generator) genFunctionBody(fn *mir.Function) {
	g.fn = g.funcs[fn.Name]
	g.isMain = fn.Name == "main"
	g.temps = make(map[mir.Temp]value.Value)
	g.locals = make(map[string]localSlot)

	// Create the LLVM block for every MIR block up front: branch targets may
	// refer to blocks appearing later in the list.
	blocks := make(map[string]*ir.Block, len(fn.Blocks))
	for _, b := range fn.Blocks {
		blocks[b.Label] = g.fn.NewBlock(b.Label)
	}

	// Every variable slot of the function is allocated in the entry block so
	// that slots bound inside loop bodies do not grow the stack frame per
	// iteration.
	g.block = blocks[fn.Blocks[0].Label]

	for i, param := range fn.Params {
		slot := g.allocaLocal(param.Name, g.convType(param.Type))
		g.block.NewStore(g.fn.Params[i], slot.ptr)
	}

	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			if bind, ok := instr.(*mir.Bind); ok {
				g.allocaLocal(bind.Name, g.convType(bind.Type))
			}
		}
	}

	for _, b := range fn.Blocks {
		g.block = blocks[b.Label]

		for _, instr := range b.Instrs {
			g.genInstr(instr)
		}

		g.genTerm(b.Term, blocks)
	}
}

// allocaLocal allocates the stack slot of a MIR variable in the current
// block and records it.
func (g *Generator) allocaLocal(name string, typ lltypes.Type) localSlot {
	if _, ok := g.locals[name]; ok {
		report.ReportICE("variable `%s` allocated twice", name)
	}

	slot := localSlot{ptr: g.block.NewAlloca(typ), typ: typ}
	g.locals[name] = slot
	return slot
}

// genTerm generates the terminator of a block.
func (g *Generator) genTerm(term mir.Terminator, blocks map[string]*ir.Block) {
	switch t := term.(type) {
	case *mir.Jump:
		g.block.NewBr(blocks[t.Target])
	case *mir.Branch:
		g.block.NewCondBr(g.resolve(t.Cond), blocks[t.Then], blocks[t.Else])
	case *mir.Return:
		switch {
		case g.isMain:
			g.block.NewRet(constant.NewInt(lltypes.I32, 0))
		case t.Value == nil:
			g.block.NewRet(nil)
		default:
			g.block.NewRet(g.resolve(t.Value))
		}
	case *mir.Unreachable:
		g.block.NewUnreachable()
	default:
		report.ReportICE("code generation for terminator not implemented: %T", term)
	}
}
