// Package cmd is the top level "driver" package of the Doo compiler: it
// contains all the functionality for parsing command line arguments, managing
// compiler state, and running the phases of compilation in order.
package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ComedicChimera/olive"

	"github.com/nynrathod/mylang/common"
	"github.com/nynrathod/mylang/report"
)

// Execute is the main entry point of the `doo` command line utility.  It
// returns the process exit code and should be called directly from main.
func Execute() int {
	// Set up the argument parser and all its subcommands and arguments.
	cli := olive.NewCLI("doo", "doo is a tool for building Doo programs", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("verbose")

	buildCmd := cli.AddSubcommand("build", "compile a project to a native executable", true)
	buildCmd.AddPrimaryArg("root-path", "the project directory or source file to build", false)
	buildCmd.AddStringArg("output", "o", "the path to write the executable to", false)
	buildCmd.AddFlag("keep-ll", "kl", "keep the emitted LLVM IR next to the output")
	buildCmd.AddFlag("print-mir", "pm", "print the lowered MIR before code generation")

	runCmd := cli.AddSubcommand("run", "compile a project and run it immediately", true)
	runCmd.AddPrimaryArg("root-path", "the project directory or source file to run", false)
	runCmd.AddFlag("keep-ll", "kl", "keep the emitted LLVM IR in the working directory")

	checkCmd := cli.AddSubcommand("check", "analyze a project without building it", true)
	checkCmd.AddPrimaryArg("root-path", "the project directory or source file to check", false)

	cli.AddSubcommand("version", "print the Doo version", false)

	// Run the argument parser.  The reporter is not initialized until the log
	// level is known, so usage errors print directly.
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "usage error: %s\n", err)
		return 1
	}

	// Initialize the reporter before anything can be reported.
	report.InitReporter(logLevelFromName(result.Arguments["loglevel"].(string)))

	// Dispatch the selected subcommand.
	subcmdName, subResult, ok := result.Subcommand()
	if !ok {
		fmt.Fprintln(os.Stderr, "expected a subcommand; run `doo --help` for usage")
		return 1
	}

	switch subcmdName {
	case "build":
		return execBuild(subResult)
	case "run":
		return execRun(subResult)
	case "check":
		return execCheck(subResult)
	case "version":
		report.ReportInfoMessage("Doo Version", common.DooVersion)
	}

	return 0
}

// execBuild executes the `build` subcommand: a full compilation down to a
// native executable.
func execBuild(result *olive.ArgParseResult) int {
	c := newCompiler(result)

	if c.Analyze() {
		c.Generate()
	}

	report.ReportBuildResult(c.outputPath)

	if report.AnyErrors() {
		return 1
	}

	return 0
}

// execRun executes the `run` subcommand: the project is built into a
// temporary directory, executed, and cleaned up.  The built program's exit
// code becomes doo's own.
func execRun(result *olive.ArgParseResult) int {
	c := newCompiler(result)

	tempDir, err := os.MkdirTemp("", "doo-run")
	if err != nil {
		report.ReportFatal("failed to create a temporary build directory: %s", err)
	}
	defer os.RemoveAll(tempDir)

	// Run builds ignore -o: the executable lives and dies with the build
	// directory.  Keep-ll redirects the IR module into the working directory
	// so that it survives the cleanup.
	exeName := c.defaultOutputName()
	c.outputPath = filepath.Join(tempDir, exeName)
	if c.keepLL {
		c.llPath = strings.TrimSuffix(exeName, ".exe") + ".ll"
	}

	if !c.Analyze() {
		report.ReportBuildResult("")
		return 1
	}

	c.Generate()

	// Execute the built program on the user's terminal streams.
	child := exec.Command(c.outputPath)
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr

	if err := child.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode()
		}

		report.ReportFatal("failed to run the built executable: %s", err)
	}

	return 0
}

// execCheck executes the `check` subcommand: the analysis phases run and
// report their diagnostics, but nothing is generated.
func execCheck(result *olive.ArgParseResult) int {
	c := newCompiler(result)

	if !c.Analyze() {
		report.ReportBuildResult("")
		return 1
	}

	return 0
}

// logLevelFromName converts a log level selector value into its reporter
// constant.
func logLevelFromName(name string) int {
	switch name {
	case "silent":
		return report.LogLevelSilent
	case "error":
		return report.LogLevelError
	case "warn":
		return report.LogLevelWarn
	default:
		return report.LogLevelVerbose
	}
}
