package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nynrathod/mylang/codegen"
	"github.com/nynrathod/mylang/llc"
	"github.com/nynrathod/mylang/lower"
	"github.com/nynrathod/mylang/report"
)

// Generate runs the generation phases of the compiler: MIR lowering, LLVM
// code generation, and linking.  Analyze must have succeeded first.
func (c *Compiler) Generate() {
	// Lower every module in topological order into one MIR bundle.
	lowerer := lower.NewLowerer(c.graph)
	for _, mod := range c.order {
		lowerer.LowerModule(mod)
	}

	bundle := lowerer.Bundle()
	if c.printMIR {
		fmt.Println(bundle.Repr())
	}

	// Generate the bundle into a single LLVM module and write out its text.
	llMod := codegen.NewGenerator(bundle).Generate()

	llPath := c.llPath
	if llPath == "" {
		llPath = c.llOutputPath()
	}

	writeOutputFile(llPath, llMod.String())

	// Link the executable against the Doo runtime.
	if err := llc.Link(llPath, c.outputPath); err != nil {
		// Make sure a failed link leaves no partial executable behind.
		os.Remove(c.outputPath)
		report.ReportFatal("%s", err)
	}

	// Once linking is finished, the IR module is just clutter unless the user
	// asked to keep it.
	if !c.keepLL {
		if err := os.Remove(llPath); err != nil {
			report.ReportFatal("failed to clean up the IR module: %s", err)
		}
	}
}

// llOutputPath returns the default path of the textual IR module: next to the
// output executable, with the `.ll` extension.
func (c *Compiler) llOutputPath() string {
	out := c.outputPath
	if ext := filepath.Ext(out); ext == ".exe" {
		out = strings.TrimSuffix(out, ext)
	}

	return out + ".ll"
}

// writeOutputFile writes a compiler output file, creating or truncating it.
func writeOutputFile(fpath, content string) {
	file, err := os.OpenFile(fpath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		report.ReportFatal("failed to open the output file `%s`: %s", fpath, err)
	}
	defer file.Close()

	if _, err := file.WriteString(content); err != nil {
		report.ReportFatal("failed to write the output file `%s`: %s", fpath, err)
	}
}
