package depm_test

import (
	"bufio"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nynrathod/mylang/depm"
	"github.com/nynrathod/mylang/report"
	"github.com/nynrathod/mylang/syntax"
)

// sourceLoader is a LoadFunc backed by an in-memory map of module sources.
// It counts how many times each path is loaded.
type sourceLoader struct {
	t       *testing.T
	sources map[string]string
	loads   map[string]int
}

func newSourceLoader(t *testing.T, sources map[string]string) *sourceLoader {
	return &sourceLoader{t: t, sources: sources, loads: make(map[string]int)}
}

func (sl *sourceLoader) load(absPath string) *depm.Module {
	src, ok := sl.sources[absPath]
	if !ok {
		return nil
	}

	sl.loads[absPath]++

	mod := depm.NewModule(absPath, filepath.Base(absPath))
	syntax.NewParser(mod, bufio.NewReader(strings.NewReader(src))).Parse()

	if report.AnyErrors() {
		sl.t.Fatalf("module %s failed to parse", absPath)
	}

	return mod
}

// parseRoot parses src as the root module of a project rooted at rootDir.
func parseRoot(t *testing.T, rootDir, name, src string) *depm.Module {
	t.Helper()

	report.InitReporter(report.LogLevelSilent)
	report.ResetErrors()

	mod := depm.NewModule(filepath.Join(rootDir, name), name)
	syntax.NewParser(mod, bufio.NewReader(strings.NewReader(src))).Parse()

	if report.AnyErrors() {
		t.Fatalf("root module failed to parse:\n%s", src)
	}

	return mod
}

// orderIndex finds the position of the named module in a resolved order.
func orderIndex(t *testing.T, order []*depm.Module, name string) int {
	t.Helper()

	for i, mod := range order {
		if mod.Name == name {
			return i
		}
	}

	t.Fatalf("module `%s` missing from the resolved order", name)
	return -1
}

func TestModuleFilePath(t *testing.T) {
	root := depm.NewModule(filepath.Join("/proj", "main.doo"), "main.doo")
	graph := depm.NewGraph("/proj", root)

	want := filepath.Join("/proj", "math", "utils") + ".doo"
	if got := graph.ModuleFilePath([]string{"math", "utils"}); got != want {
		t.Errorf("expected `%s`, got `%s`", want, got)
	}
}

func TestResolveDiamond(t *testing.T) {
	root := parseRoot(t, "/proj", "main.doo", `
import a::A;
import b::B;

fn main() {
	A();
	B();
}
`)

	loader := newSourceLoader(t, map[string]string{
		filepath.Join("/proj", "a.doo"): `
import shared::S;

fn A() {
	S();
}
`,
		filepath.Join("/proj", "b.doo"): `
import shared::S;

fn B() {
	S();
}
`,
		filepath.Join("/proj", "shared.doo"): `
fn S() {
}
`,
	})

	graph := depm.NewGraph("/proj", root)
	order := depm.NewResolver(graph, loader.load).Resolve()

	if report.AnyErrors() {
		t.Fatalf("resolution failed with %d errors", report.ErrorCount())
	}

	if len(graph.Modules) != 4 {
		t.Errorf("expected 4 loaded modules, got %d", len(graph.Modules))
	}

	// The shared module sits on two import paths but must be loaded once.
	for path, count := range loader.loads {
		if count != 1 {
			t.Errorf("module %s loaded %d times", path, count)
		}
	}

	// Every module must appear after all of its imports.
	if len(order) != 4 {
		t.Fatalf("expected 4 modules in the resolved order, got %d", len(order))
	}

	sharedIdx := orderIndex(t, order, "shared")
	mainIdx := orderIndex(t, order, "main")

	if sharedIdx > orderIndex(t, order, "a") || sharedIdx > orderIndex(t, order, "b") {
		t.Errorf("shared module resolved after an importer")
	}

	if mainIdx != len(order)-1 {
		t.Errorf("root module resolved at position %d", mainIdx)
	}

	// Both of the root's imports must map to their module files.
	for _, imp := range root.Imports {
		if imp.ResolvedPath == "" {
			t.Errorf("import of `%s` was not resolved", strings.Join(imp.ModulePath, "::"))
		}
	}
}

func TestResolveCycle(t *testing.T) {
	root := parseRoot(t, "/proj", "a.doo", `
import b::B;

fn A() {
}
`)

	loader := newSourceLoader(t, map[string]string{
		filepath.Join("/proj", "b.doo"): `
import a::A;

fn B() {
}
`,
	})

	graph := depm.NewGraph("/proj", root)
	order := depm.NewResolver(graph, loader.load).Resolve()

	if got := report.ErrorCount(); got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}

	// The cycle is reported once and resolution still finishes: the offending
	// back edge is simply not followed.
	if len(order) != 2 {
		t.Fatalf("expected 2 modules in the resolved order, got %d", len(order))
	}

	if order[0].Name != "b" || order[1].Name != "a" {
		t.Errorf("unexpected resolved order: %s, %s", order[0].Name, order[1].Name)
	}
}

func TestResolveSelfImport(t *testing.T) {
	root := parseRoot(t, "/proj", "main.doo", `
import main::Helper;

fn Helper() {
}

fn main() {
}
`)

	graph := depm.NewGraph("/proj", root)
	depm.NewResolver(graph, newSourceLoader(t, nil).load).Resolve()

	if got := report.ErrorCount(); got != 1 {
		t.Errorf("expected 1 error, got %d", got)
	}
}

func TestResolveMissingModule(t *testing.T) {
	root := parseRoot(t, "/proj", "main.doo", `
import util::Helper;

fn main() {
}
`)

	graph := depm.NewGraph("/proj", root)
	depm.NewResolver(graph, newSourceLoader(t, nil).load).Resolve()

	if got := report.ErrorCount(); got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}

	if root.Imports[0].ResolvedPath != "" {
		t.Errorf("missing module import was marked resolved: %s", root.Imports[0].ResolvedPath)
	}
}
