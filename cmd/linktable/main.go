// Package main provides the linktable CLI: it loads a table schema into an
// in-memory store and runs interpreter commands against it, either from a
// script or from an interactive prompt.
package main

import (
	"fmt"
	"os"
)

func main() {
	err := rootCmd.Execute()
	if logger != nil {
		_ = logger.Sync()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
