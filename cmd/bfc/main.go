// Command bfc compiles tape programs to x86-64 assembly, C or executables.
package main

import (
	"os"

	"github.com/you-not-fish/bfc/cmd/bfc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
