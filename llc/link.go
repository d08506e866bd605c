package llc

import (
	"fmt"
	"os/exec"
)

// Link produces a native executable at outPath from the LLVM IR module at
// llPath.  The C compiler compiles the IR for the host and links it against
// the Doo runtime archive in a single invocation.
func Link(llPath, outPath string) error {
	cc, err := FindCC()
	if err != nil {
		return err
	}

	archive, err := FindRuntime()
	if err != nil {
		return err
	}

	link := exec.Command(cc, "-o", outPath, llPath, archive)

	out, err := link.CombinedOutput()
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			// Exit error => the compiler ran but rejected the module or could
			// not link it.  Its own output is the most useful thing to show.
			return fmt.Errorf("link error:\n%s", string(out))
		}

		// Some other error: the compiler could not be run at all.
		return fmt.Errorf("failed to run linker: %s", err)
	}

	return nil
}
