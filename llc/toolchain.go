// Package llc drives the system C compiler: it turns the textual LLVM IR
// modules the code generator emits into native executables linked against the
// Doo runtime archive.
package llc

import (
	"fmt"
	"os"
	"os/exec"

	env "github.com/xyproto/env/v2"
)

// FindCC locates the C compiler used to assemble and link emitted LLVM IR.
// The default compiler is `clang`; the DOO_CC environment variable overrides
// it.  The returned path is absolute.
func FindCC() (string, error) {
	cc := env.Str("DOO_CC", "clang")

	ccPath, err := exec.LookPath(cc)
	if err != nil {
		return "", fmt.Errorf("C compiler `%s` not found on PATH; set DOO_CC to the compiler to use", cc)
	}

	return ccPath, nil
}

// FindRuntime locates the Doo runtime archive that every executable links
// against.  The archive's path is read from the DOO_RUNTIME environment
// variable.
func FindRuntime() (string, error) {
	archive := env.Str("DOO_RUNTIME", "")
	if archive == "" {
		return "", fmt.Errorf("DOO_RUNTIME is not set; it must point to the Doo runtime archive")
	}

	if _, err := os.Stat(archive); err != nil {
		return "", fmt.Errorf("unable to read the runtime archive at `%s`: %s", archive, err)
	}

	return archive, nil
}
