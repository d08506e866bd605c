package codegen

import (
	"fmt"
	"strings"

	"github.com/nynrathod/mylang/mir"
	"github.com/nynrathod/mylang/report"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Generator converts a finalized MIR bundle into a single LLVM module.  All
// heap-backed values are opaque handles managed by the Doo runtime: the
// generator never touches object layout, it only calls the runtime routines
// declared in declareRuntime.
type Generator struct {
	bundle *mir.Bundle

	// mod is the LLVM module being generated.
	mod *ir.Module

	// rt holds the declared runtime routines.
	rt runtimeDecls

	// funcs maps MIR function link names to their LLVM declarations.
	funcs map[string]*ir.Func

	// strLits interns string literal data globals by content.
	strLits map[string]*ir.Global

	// globalCounter numbers anonymous globals such as interned string data.
	globalCounter int

	// fn is the LLVM function being generated.
	fn *ir.Func

	// isMain indicates whether fn is the program entry point.
	isMain bool

	// block is the block instructions are appended to.
	block *ir.Block

	// temps maps MIR temporaries of the current function to their LLVM
	// values.
	temps map[mir.Temp]value.Value

	// locals maps MIR variable slots of the current function to their stack
	// allocations.
	locals map[string]localSlot
}

// localSlot is the stack allocation backing one MIR variable.
type localSlot struct {
	ptr value.Value
	typ lltypes.Type
}

// runtimeDecls holds the external declarations of the Doo runtime routines.
type runtimeDecls struct {
	retain       *ir.Func
	releaseStr   *ir.Func
	releaseArray *ir.Func
	releaseMap   *ir.Func

	strNew    *ir.Func
	strConcat *ir.Func
	strEq     *ir.Func

	arrayNew  *ir.Func
	arrayLen  *ir.Func
	arrayGet  *ir.Func
	arraySet  *ir.Func
	arrayPush *ir.Func

	mapNew   *ir.Func
	mapLen   *ir.Func
	mapGet   *ir.Func
	mapSet   *ir.Func
	mapKeyAt *ir.Func
	mapValAt *ir.Func

	printInt     *ir.Func
	printBool    *ir.Func
	printStr     *ir.Func
	printSpace   *ir.Func
	printNewline *ir.Func
}

// NewGenerator creates a new generator for the given bundle.
func NewGenerator(bundle *mir.Bundle) *Generator {
	return &Generator{
		bundle:  bundle,
		mod:     ir.NewModule(),
		funcs:   make(map[string]*ir.Func),
		strLits: make(map[string]*ir.Global),
	}
}

// Generate produces the LLVM module for the bundle.  Generation is assumed to
// always succeed: the bundle is finalized MIR, so any inconsistency found
// here is an internal compiler error.
func (g *Generator) Generate() *ir.Module {
	g.declareRuntime()

	// Declare every function before generating any body so that calls
	// resolve regardless of definition order across modules.
	for _, fn := range g.bundle.Functions {
		g.declareFunction(fn)
	}

	for _, fn := range g.bundle.Functions {
		g.genFunctionBody(fn)
	}

	return g.mod
}

/* -------------------------------------------------------------------------- */

// declareRuntime declares the external Doo runtime routines.  Heap objects
// are i8* handles and container elements travel as i64 slots; the element
// kind tags passed to the constructors tell the runtime how to retain,
// release, and hash the slots it stores.
func (g *Generator) declareRuntime() {
	obj := lltypes.I8Ptr
	slot := lltypes.I64

	g.rt = runtimeDecls{
		retain:       g.declareExtern("doo_retain", lltypes.Void, ir.NewParam("obj", obj)),
		releaseStr:   g.declareExtern("doo_release_str", lltypes.Void, ir.NewParam("s", obj)),
		releaseArray: g.declareExtern("doo_release_array", lltypes.Void, ir.NewParam("a", obj)),
		releaseMap:   g.declareExtern("doo_release_map", lltypes.Void, ir.NewParam("m", obj)),

		strNew: g.declareExtern("doo_str_new", obj,
			ir.NewParam("bytes", lltypes.I8Ptr), ir.NewParam("len", lltypes.I64)),
		strConcat: g.declareExtern("doo_str_concat", obj,
			ir.NewParam("a", obj), ir.NewParam("b", obj)),
		strEq: g.declareExtern("doo_str_eq", lltypes.I1,
			ir.NewParam("a", obj), ir.NewParam("b", obj)),

		arrayNew: g.declareExtern("doo_array_new", obj,
			ir.NewParam("elem_kind", lltypes.I64), ir.NewParam("cap", lltypes.I64)),
		arrayLen: g.declareExtern("doo_array_len", lltypes.I64, ir.NewParam("a", obj)),
		arrayGet: g.declareExtern("doo_array_get", slot,
			ir.NewParam("a", obj), ir.NewParam("index", lltypes.I64)),
		arraySet: g.declareExtern("doo_array_set", lltypes.Void,
			ir.NewParam("a", obj), ir.NewParam("index", lltypes.I64), ir.NewParam("value", slot)),
		arrayPush: g.declareExtern("doo_array_push", lltypes.Void,
			ir.NewParam("a", obj), ir.NewParam("value", slot)),

		mapNew: g.declareExtern("doo_map_new", obj,
			ir.NewParam("key_kind", lltypes.I64), ir.NewParam("value_kind", lltypes.I64)),
		mapLen: g.declareExtern("doo_map_len", lltypes.I64, ir.NewParam("m", obj)),
		mapGet: g.declareExtern("doo_map_get", slot,
			ir.NewParam("m", obj), ir.NewParam("key", slot)),
		mapSet: g.declareExtern("doo_map_set", lltypes.Void,
			ir.NewParam("m", obj), ir.NewParam("key", slot), ir.NewParam("value", slot)),
		mapKeyAt: g.declareExtern("doo_map_key_at", slot,
			ir.NewParam("m", obj), ir.NewParam("index", lltypes.I64)),
		mapValAt: g.declareExtern("doo_map_val_at", slot,
			ir.NewParam("m", obj), ir.NewParam("index", lltypes.I64)),

		printInt:     g.declareExtern("doo_print_int", lltypes.Void, ir.NewParam("v", lltypes.I64)),
		printBool:    g.declareExtern("doo_print_bool", lltypes.Void, ir.NewParam("v", lltypes.I1)),
		printStr:     g.declareExtern("doo_print_str", lltypes.Void, ir.NewParam("s", obj)),
		printSpace:   g.declareExtern("doo_print_space", lltypes.Void),
		printNewline: g.declareExtern("doo_print_newline", lltypes.Void),
	}
}

func (g *Generator) declareExtern(name string, retType lltypes.Type, params ...*ir.Param) *ir.Func {
	fn := g.mod.NewFunc(name, retType, params...)
	fn.Linkage = enum.LinkageExternal
	fn.FuncAttrs = append(fn.FuncAttrs, enum.FuncAttrNoUnwind)
	return fn
}

/* -------------------------------------------------------------------------- */

// internString returns the private global holding the given string data,
// creating it on first use.  Distinct literals with the same content share
// one global.
func (g *Generator) internString(data string) *ir.Global {
	if glob, ok := g.strLits[data]; ok {
		return glob
	}

	glob := g.mod.NewGlobalDef(fmt.Sprintf("__strlit.%d", g.globalCounter), constant.NewCharArrayFromString(data))
	g.globalCounter++
	glob.Linkage = enum.LinkagePrivate
	glob.Immutable = true

	g.strLits[data] = glob
	return glob
}

// unescape converts the raw text of a string literal into the bytes it
// denotes.  The lexer already rejected malformed escape sequences.
func unescape(raw string) string {
	sb := strings.Builder{}

	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' {
			sb.WriteByte(raw[i])
			continue
		}

		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '0':
			sb.WriteByte(0)
		default:
			// `\\` and `\"` denote the escaped character itself.
			sb.WriteByte(raw[i])
		}
	}

	return sb.String()
}

/* -------------------------------------------------------------------------- */

// setTemp records the LLVM value of a MIR temporary.
func (g *Generator) setTemp(t mir.Temp, v value.Value) {
	if _, ok := g.temps[t]; ok {
		report.ReportICE("temporary `%s` defined twice", t)
	}

	g.temps[t] = v
}

// resolve returns the LLVM value of a MIR value, loading variable slots from
// their stack allocations.
func (g *Generator) resolve(v mir.Value) value.Value {
	switch val := v.(type) {
	case mir.Temp:
		res, ok := g.temps[val]
		if !ok {
			report.ReportICE("temporary `%s` used before definition", val)
		}

		return res
	case mir.Var:
		slot, ok := g.locals[string(val)]
		if !ok {
			report.ReportICE("variable `%s` used before binding", val)
		}

		return g.block.NewLoad(slot.typ, slot.ptr)
	default:
		report.ReportICE("unexpected MIR value: %T", v)
		return nil
	}
}
