package cmd

import (
	"bufio"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/ComedicChimera/olive"

	"github.com/nynrathod/mylang/common"
	"github.com/nynrathod/mylang/depm"
	"github.com/nynrathod/mylang/report"
	"github.com/nynrathod/mylang/syntax"
	"github.com/nynrathod/mylang/walk"
)

// Compiler represents the state and configuration of a single compilation.
type Compiler struct {
	// rootDir is the absolute path of the project root directory: the
	// directory import paths resolve against.
	rootDir string

	// rootFile is the absolute path of the root module's source file.
	rootFile string

	// manifest is the loaded project manifest.  It is nil for single file
	// builds.
	manifest *depm.Manifest

	// outputPath is the path the built executable is written to.
	outputPath string

	// llPath overrides where the textual IR module is written.  When empty
	// the module is written next to the output executable.
	llPath string

	// keepLL marks that the emitted IR module is preserved after linking.
	keepLL bool

	// printMIR marks that the lowered MIR is printed before code generation.
	printMIR bool

	// graph is the compilation's module graph.
	graph *depm.Graph

	// order is the analyzed modules in topological order: every module comes
	// after the modules it imports.
	order []*depm.Module
}

// newCompiler creates a compiler from the parse result of a subcommand.  The
// compilation root defaults to the working directory.
func newCompiler(result *olive.ArgParseResult) *Compiler {
	rootRelPath := "."
	if primary, ok := result.PrimaryArg(); ok {
		rootRelPath = primary
	}

	rootPath, err := filepath.Abs(rootRelPath)
	if err != nil {
		report.ReportFatal("unable to resolve the root path `%s`: %s", rootRelPath, err)
	}

	c := &Compiler{}
	c.locateRoot(rootPath)

	if outArgVal, ok := result.Arguments["output"]; ok {
		c.outputPath = outArgVal.(string)
	} else {
		c.outputPath = c.defaultOutputName()
	}

	c.keepLL = result.HasFlag("keep-ll")
	c.printMIR = result.HasFlag("print-mir")

	return c
}

// locateRoot determines the compilation layout from the given root path.  A
// directory root must be a Doo project: a directory containing a `doo.toml`
// manifest and a `main.doo` root module.  A file root is a single file
// project with no manifest; the file's directory becomes the project root.
func (c *Compiler) locateRoot(rootPath string) {
	finfo, err := os.Stat(rootPath)
	if err != nil {
		report.ReportFatal("unable to read the compilation root `%s`: %s", rootPath, err)
	}

	if finfo.IsDir() {
		c.rootDir = rootPath
		c.rootFile = filepath.Join(rootPath, common.DooRootFileName)
		c.manifest = depm.LoadManifest(filepath.Join(rootPath, common.DooManifestName))

		if _, err := os.Stat(c.rootFile); err != nil {
			report.ReportFatal("project at `%s` is missing a `%s` root module", rootPath, common.DooRootFileName)
		}
	} else {
		if filepath.Ext(rootPath) != common.DooFileExt {
			report.ReportFatal("compilation root `%s` is not a `%s` source file", rootPath, common.DooFileExt)
		}

		c.rootDir = filepath.Dir(rootPath)
		c.rootFile = rootPath
	}
}

// defaultOutputName returns the output name used when no explicit output path
// is given: the manifest's output name for project builds, the source file's
// stem for single file builds.  The executable lands in the working
// directory.
func (c *Compiler) defaultOutputName() string {
	var name string
	if c.manifest != nil {
		name = c.manifest.Name
		if c.manifest.Output != "" {
			name = c.manifest.Output
		}
	} else {
		name = strings.TrimSuffix(filepath.Base(c.rootFile), common.DooFileExt)
	}

	if runtime.GOOS == "windows" {
		name += ".exe"
	}

	return name
}

/* -------------------------------------------------------------------------- */

// Analyze runs the analysis phases of the compiler: it loads and parses every
// module reachable from the root, resolves the import graph, and walks each
// module in topological order.  It returns whether analysis succeeded.
func (c *Compiler) Analyze() bool {
	root := c.loadModule(c.rootFile)
	if root == nil {
		report.ReportFatal("unable to read the root module at `%s`", c.rootFile)
	}

	c.graph = depm.NewGraph(c.rootDir, root)

	// Load and parse everything reachable from the root before resolution:
	// modules at the same import depth parse concurrently.
	c.loadImports(root)
	if report.AnyErrors() {
		return false
	}

	// Resolve the import graph into the topological analysis order.
	c.order = depm.NewResolver(c.graph, c.loadModule).Resolve()
	if report.AnyErrors() {
		return false
	}

	// Walk the modules in topological order so that every module is analyzed
	// after everything it imports.
	for _, mod := range c.order {
		walk.WalkModule(c.graph, mod)
	}

	walk.ValidateMain(c.graph.Root)

	return !report.AnyErrors()
}

// loadImports loads every module reachable from the given root module.
// Loading proceeds in waves: the unloaded module files imported by the
// current wave are parsed concurrently, and the modules they import seed the
// next wave.  Cyclic imports terminate through the graph's memo; reporting
// them is the resolver's job, not the loader's.
func (c *Compiler) loadImports(root *depm.Module) {
	wave := []*depm.Module{root}

	for len(wave) > 0 {
		// Collect the paths of the unloaded modules the wave imports.
		var newPaths []string
		seen := make(map[string]bool)
		for _, mod := range wave {
			for _, imp := range mod.Imports {
				target := c.graph.ModuleFilePath(imp.ModulePath)
				if _, ok := c.graph.Modules[target]; !ok && !seen[target] {
					seen[target] = true
					newPaths = append(newPaths, target)
				}
			}
		}

		// Parse the wave's new module files concurrently.
		loaded := make([]*depm.Module, len(newPaths))
		wg := &sync.WaitGroup{}
		for i, target := range newPaths {
			wg.Add(1)

			go func(i int, target string) {
				defer wg.Done()

				loaded[i] = c.loadModule(target)
			}(i, target)
		}
		wg.Wait()

		// Admit the loaded modules into the graph and seed the next wave.
		// Missing files stay out of the graph: the resolver reports them
		// against the imports that name them.
		wave = nil
		for _, mod := range loaded {
			if mod != nil {
				c.graph.Modules[mod.AbsPath] = mod
				wave = append(wave, mod)
			}
		}
	}
}

// loadModule loads and parses the module file at the given absolute path.  It
// returns nil if the file could not be opened; errors inside a loaded file
// flow through the global reporter instead.
func (c *Compiler) loadModule(absPath string) (mod *depm.Module) {
	file, err := os.Open(absPath)
	if err != nil {
		return nil
	}
	defer file.Close()

	mod = depm.NewModule(absPath, c.reprPath(absPath))
	defer report.CatchErrors(mod.AbsPath, mod.ReprPath)

	syntax.NewParser(mod, bufio.NewReader(file)).Parse()
	return mod
}

// reprPath shortens a module's absolute path to the representative form shown
// in diagnostics: its path relative to the project root.
func (c *Compiler) reprPath(absPath string) string {
	if rel, err := filepath.Rel(c.rootDir, absPath); err == nil {
		return rel
	}

	return absPath
}
