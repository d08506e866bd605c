package report

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
)

// Label styles used for the different message severities.
var (
	errorStyle   = pterm.NewStyle(pterm.FgRed, pterm.Bold)
	warningStyle = pterm.NewStyle(pterm.FgYellow, pterm.Bold)
	successStyle = pterm.NewStyle(pterm.FgGreen, pterm.Bold)
	gutterStyle  = pterm.NewStyle(pterm.FgCyan)
)

// displayICE displays an internal compiler error message.
func displayICE(message string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", errorStyle.Sprint("internal compiler error"), message)
	fmt.Fprint(os.Stderr, "This error was not supposed to happen: please open an issue on GitHub\n\n")
}

// displayFatal displays a fatal error message.
func displayFatal(message string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n\n", errorStyle.Sprint("fatal error"), message)
}

// displayCompileMessage displays a compilation error or warning.  The label is
// the string to prefix the message with: eg. for a type error the label is
// "type mismatch".
func displayCompileMessage(label string, isError bool, absPath, reprPath string, span *TextSpan, message string) {
	style := warningStyle
	if isError {
		style = errorStyle
	}

	if span == nil {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n\n", reprPath, style.Sprint(label), message)
	} else {
		fmt.Fprintf(os.Stderr, "%s:%d:%d: %s: %s\n\n", reprPath, span.StartLine+1, span.StartCol+1, style.Sprint(label), message)
		displaySourceText(absPath, span)
	}
}

// displayStdError displays a standard Go error.
func displayStdError(reprPath string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s: %s\n\n", reprPath, errorStyle.Sprint("error"), err)
}

// displayBuildSuccess displays the concluding message of a successful build.
func displayBuildSuccess(outputPath string) {
	fmt.Printf("%s %s\n", successStyle.Sprint("✓"), "Build successful: "+outputPath)
}

// displayBuildFailure displays the concluding message of a failed build.
func displayBuildFailure(errorCount int) {
	noun := "errors"
	if errorCount == 1 {
		noun = "error"
	}

	fmt.Fprintf(os.Stderr, "%s\n", errorStyle.Sprintf("Build failed with %d %s", errorCount, noun))
}

// ReportBuildResult reports the concluding message of compilation.  Success
// banners display only at the verbose log level; failure summaries display at
// any level above silent.
func ReportBuildResult(outputPath string) {
	if AnyErrors() {
		if rep.logLevel > LogLevelSilent {
			displayBuildFailure(rep.errorCount)
		}
	} else if rep.logLevel == LogLevelVerbose {
		displayBuildSuccess(outputPath)
	}
}

// ReportInfoMessage reports a short labeled informational message: eg. the
// compiler version.
func ReportInfoMessage(label, message string) {
	if rep.logLevel > LogLevelSilent {
		fmt.Printf("%s: %s\n", successStyle.Sprint(label), message)
	}
}

// -----------------------------------------------------------------------------

// displaySourceText displays a segment of source text defined by a text span.
func displaySourceText(absPath string, span *TextSpan) {
	// Open the file so we can read the desired source text.
	file, err := os.Open(absPath)
	if err != nil {
		displayICE(fmt.Sprintf("failed to open file %s for reporting: %s\n", absPath, err))
		os.Exit(-1)
	}
	defer file.Close()

	// Collect all the source lines containing the given source text.
	var lines []string
	sc := bufio.NewScanner(file)
	for ln := 0; sc.Scan(); ln++ {
		if span.StartLine <= ln && ln <= span.EndLine {
			lines = append(lines, strings.ReplaceAll(sc.Text(), "\t", "    "))
		}
	}

	if err := sc.Err(); err != nil {
		displayICE(fmt.Sprintf("failed to read file %s for reporting: %s\n", absPath, err))
		os.Exit(-1)
	}

	if len(lines) == 0 {
		return
	}

	// Calculate the minimum line indentation.
	minIndent := math.MaxInt
	for _, line := range lines {
		lineIndent := 0
		for _, c := range line {
			if c == ' ' {
				lineIndent++
			} else {
				break
			}
		}

		if lineIndent < minIndent {
			minIndent = lineIndent
		}
	}

	// Calculate the maximum line number length.
	maxLineNumLen := len(strconv.Itoa(span.EndLine + 1))

	// Generate the format string for line numbers.
	lineNumFmtStr := "%-" + strconv.Itoa(maxLineNumLen) + "v | "

	for i, line := range lines {
		// Print the line number and separator bar.
		fmt.Fprint(os.Stderr, gutterStyle.Sprintf(lineNumFmtStr, i+span.StartLine+1))

		// Print the source text with the leading indent trimmed off.
		fmt.Fprintln(os.Stderr, line[minIndent:])

		// Print the gutter for the caret underlining.
		fmt.Fprint(os.Stderr, strings.Repeat(" ", maxLineNumLen), gutterStyle.Sprint(" | "))

		// The number of spaces before caret underlining begins.  For any line
		// which is not the starting line, this is always zero since the
		// underlining continues from the previous line.
		var caretPrefixCount int
		if i == 0 {
			caretPrefixCount = span.StartCol - minIndent
		}

		// The number of characters at the end of the source line that should
		// not be underlined.  Zero for all lines except the last, where the
		// underlining stops at the end column.
		var caretSuffixCount int
		if i == len(lines)-1 {
			caretSuffixCount = len(line) - span.EndCol
		}

		caretCount := len(line) - caretSuffixCount - caretPrefixCount - minIndent
		if caretCount < 1 {
			caretCount = 1
		}

		fmt.Fprint(os.Stderr, strings.Repeat(" ", caretPrefixCount))
		fmt.Fprintln(os.Stderr, errorStyle.Sprint(strings.Repeat("^", caretCount)))
	}

	fmt.Fprintln(os.Stderr)
}
