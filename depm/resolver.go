package depm

import (
	"path/filepath"
	"strings"

	"github.com/nynrathod/mylang/ast"
	"github.com/nynrathod/mylang/common"
	"github.com/nynrathod/mylang/report"
)

// Graph is the module graph of a compilation: every loaded module keyed by
// the absolute path of its source file.  The graph doubles as the load memo:
// a module's source is read and parsed exactly once per compilation no matter
// how many import edges reach it.
type Graph struct {
	// RootDir is the absolute path of the project root directory.  Import
	// paths resolve relative to it.
	RootDir string

	// Root is the project's root module.
	Root *Module

	// Modules is the set of loaded modules keyed by absolute source path.
	Modules map[string]*Module
}

// NewGraph creates a new module graph rooted at the given module.
func NewGraph(rootDir string, root *Module) *Graph {
	return &Graph{
		RootDir: rootDir,
		Root:    root,
		Modules: map[string]*Module{root.AbsPath: root},
	}
}

// ModuleFilePath returns the absolute path of the module file an import path
// refers to: the segments of `import a::b::Sym;` name the file `a/b.doo`
// under the project root.
func (g *Graph) ModuleFilePath(modPath []string) string {
	return filepath.Join(g.RootDir, filepath.Join(modPath...)) + common.DooFileExt
}

/* -------------------------------------------------------------------------- */

// LoadFunc loads and parses the module file at the given absolute path.  It
// returns nil when the file does not exist or could not be read; parse errors
// inside a loaded file flow through the global reporter instead.
type LoadFunc func(absPath string) *Module

// Resolver resolves the import graph of a compilation.  Starting from the
// root module it maps each import declaration to its module file, loads newly
// reached modules through its load callback, rejects import cycles, and
// produces the topological order used to schedule analysis.
type Resolver struct {
	graph *Graph
	load  LoadFunc

	// pathStack is the stack of modules on the current DFS path.  It is used
	// to reconstruct the full chain of a detected import cycle.
	pathStack []*Module

	// order is the resolved modules in topological order: every module
	// appears after all the modules it imports.
	order []*Module
}

// NewResolver creates a new resolver over the given graph.
func NewResolver(graph *Graph, load LoadFunc) *Resolver {
	return &Resolver{graph: graph, load: load}
}

// Resolve runs import resolution over the whole module graph and returns the
// modules in topological order.  Resolution errors are reported through the
// global reporter; the returned order is only meaningful if no errors were
// recorded.
func (r *Resolver) Resolve() []*Module {
	r.visit(r.graph.Root)
	return r.order
}

// visit resolves a single module's imports depth first.
func (r *Resolver) visit(mod *Module) {
	mod.State = ModResolving
	r.pathStack = append(r.pathStack, mod)

	for _, imp := range mod.Imports {
		r.resolveImport(mod, imp)
	}

	r.pathStack = r.pathStack[:len(r.pathStack)-1]
	mod.State = ModResolved
	r.order = append(r.order, mod)
}

// resolveImport resolves one import declaration of a module.
func (r *Resolver) resolveImport(mod *Module, imp *ast.Import) {
	target := r.graph.ModuleFilePath(imp.ModulePath)

	dep, ok := r.graph.Modules[target]
	if !ok {
		if dep = r.load(target); dep == nil {
			r.recError(
				mod,
				report.KindUnresolvedImport,
				imp.Span(),
				"module `%s` not found",
				strings.Join(imp.ModulePath, "::"),
			)

			return
		}

		r.graph.Modules[target] = dep
	}

	imp.ResolvedPath = target

	switch dep.State {
	case ModResolving:
		r.recError(
			mod,
			report.KindCircularImport,
			imp.Span(),
			"circular import: %s",
			r.cycleChain(dep),
		)
	case ModUnresolved:
		r.visit(dep)
	}
}

// cycleChain renders the chain of a detected import cycle, eg. `A -> B -> A`.
// The given module is the one found twice on the resolver's current path.
func (r *Resolver) cycleChain(dep *Module) string {
	var sb strings.Builder

	inCycle := false
	for _, mod := range r.pathStack {
		if mod == dep {
			inCycle = true
		}

		if inCycle {
			sb.WriteString(mod.Name)
			sb.WriteString(" -> ")
		}
	}

	sb.WriteString(dep.Name)
	return sb.String()
}

// recError reports a resolution error against the importing module.
func (r *Resolver) recError(mod *Module, kind int, span *report.TextSpan, msg string, args ...interface{}) {
	report.ReportCompileError(mod.AbsPath, mod.ReprPath, report.Raise(kind, span, msg, args...))
}
