package main

import (
	"os"

	"github.com/nynrathod/mylang/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
