package depm

import (
	"path/filepath"
	"strings"

	"github.com/nynrathod/mylang/ast"
	"github.com/nynrathod/mylang/common"
)

// Module represents a single Doo source unit: one `.doo` file.  Modules are
// keyed by the absolute paths of their source files and form a directed graph
// along their import edges.  The graph must be acyclic.
type Module struct {
	// AbsPath is the absolute path of the module's source file: the module's
	// key in the module graph.
	AbsPath string

	// ReprPath is the representative path of the module's source file: the
	// shortened form shown to the user in diagnostics.
	ReprPath string

	// Name is the module's logical name: the stem of its file name.
	Name string

	// Defs is the list of parsed top level definitions of the module.
	Defs []ast.ASTNode

	// Imports is the list of parsed import declarations of the module.
	Imports []*ast.Import

	// SymbolTable is the module's global symbol table.  It is populated by
	// the first analysis pass: all top level declarations are registered
	// before any function body is walked.
	SymbolTable map[string]*common.Symbol

	// State is the module's resolution state.  This must be one of the
	// enumerated module states below.
	State int
}

// Enumeration of module resolution states.
const (
	ModUnresolved = iota // The module has not been visited by the resolver.
	ModResolving         // The module is on the resolver's current path.
	ModResolved          // The module and everything it imports are resolved.
)

// NewModule creates a new, unresolved module for the source file at the given
// absolute path.
func NewModule(absPath, reprPath string) *Module {
	return &Module{
		AbsPath:     absPath,
		ReprPath:    reprPath,
		Name:        strings.TrimSuffix(filepath.Base(absPath), filepath.Ext(absPath)),
		SymbolTable: make(map[string]*common.Symbol),
	}
}

// Export returns the exported symbol with the given name and whether the
// module exports such a symbol.  The export table is exactly the public
// subset of the module's global symbol table.
func (m *Module) Export(name string) (*common.Symbol, bool) {
	if sym, ok := m.SymbolTable[name]; ok && sym.Public {
		return sym, true
	}

	return nil, false
}
