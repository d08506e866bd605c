package lower

import (
	"path/filepath"
	"strings"

	"github.com/nynrathod/mylang/ast"
	"github.com/nynrathod/mylang/common"
	"github.com/nynrathod/mylang/mir"
	"github.com/nynrathod/mylang/report"
	"github.com/nynrathod/mylang/types"
)

// lowerFuncDecl lowers one function declaration into a MIR function.
func (l *Lowerer) lowerFuncDecl(fd *ast.FuncDecl) {
	ft := fd.Sym.Type.(*types.FuncType)

	l.fn = &mir.Function{
		Name:       l.mirFuncName(fd.Sym),
		ReturnType: ft.ReturnType,
		Public:     fd.Sym.Public,
	}

	l.tempCounter = 0
	l.blockCounter = 0
	l.scopes = nil
	l.loops = nil
	l.pending = nil
	l.mirNames = make(map[*common.Symbol]string)
	l.nameCounts = make(map[string]int)

	l.setCurrent(l.newBlock())

	// The function scope owns the parameters: by-value heap-backed parameters
	// arrive retained by the call site and are released here on every exit.
	l.pushScope()
	for _, param := range fd.Params {
		name := l.mirName(param.Sym)
		l.fn.Params = append(l.fn.Params, mir.Param{Name: name, Type: param.Sym.Type})

		if types.IsHeapBacked(param.Sym.Type) {
			l.track(mir.Var(name), param.Sym.Type)
		}
	}

	l.lowerBlock(fd.Body)

	// Fall through off the end of the body.  For functions returning a value
	// the analyzer has proven this point unreachable.
	if l.state != blockClosed {
		l.beginExit()

		if types.Equals(ft.ReturnType, types.PrimTypeUnit) {
			l.releaseScopesAbove(-1, nil)
			l.seal(&mir.Return{})
		} else {
			l.seal(&mir.Unreachable{})
		}
	}

	l.popScope()

	if len(l.pending) != 0 {
		report.ReportICE("%d unreleased temporaries at end of function `%s`", len(l.pending), l.fn.Name)
	}

	l.finalize()
	l.bundle.Functions = append(l.bundle.Functions, l.fn)
}

// mirFuncName returns the program-unique MIR name of a function symbol.
// Functions are namespaced by the representative path of their defining
// module so that same-named private functions of different modules cannot
// collide.  The root module's `main` keeps its bare name: it is the program
// entry point.
func (l *Lowerer) mirFuncName(sym *common.Symbol) string {
	if sym.Name == "main" && sym.ModulePath == l.graph.Root.AbsPath {
		return "main"
	}

	mod, ok := l.graph.Modules[sym.ModulePath]
	if !ok {
		report.ReportICE("no module loaded for source path `%s`", sym.ModulePath)
	}

	prefix := strings.TrimSuffix(filepath.ToSlash(mod.ReprPath), common.DooFileExt)
	return strings.ReplaceAll(prefix, "/", ".") + "." + sym.Name
}

// finalize checks the block invariants of the lowered function and prunes
// the empty blocks nothing jumps to.  Every surviving block carries exactly
// one terminator.
func (l *Lowerer) finalize() {
	for _, block := range l.fn.Blocks {
		if block.Term == nil {
			report.ReportICE("block %s of function `%s` has no terminator", block.Label, l.fn.Name)
		}
	}

	// Pruning a block removes its terminator's edges, which can orphan
	// further blocks, so prune to a fixed point.  The entry block stays.
	for {
		targets := make(map[string]bool)
		for _, block := range l.fn.Blocks {
			switch term := block.Term.(type) {
			case *mir.Jump:
				targets[term.Target] = true
			case *mir.Branch:
				targets[term.Then] = true
				targets[term.Else] = true
			}
		}

		kept := l.fn.Blocks[:1]
		pruned := false
		for _, block := range l.fn.Blocks[1:] {
			if len(block.Instrs) == 0 && !targets[block.Label] {
				pruned = true
				continue
			}

			kept = append(kept, block)
		}

		l.fn.Blocks = kept
		if !pruned {
			return
		}
	}
}
