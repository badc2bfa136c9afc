// Run command executes command scripts against a fresh store.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/linktable/internal/shell"
	"github.com/mesh-intelligence/linktable/internal/store"
)

var flagContinue bool

var runCmd = &cobra.Command{
	Use:   "run <script>...",
	Short: "Run command scripts against the loaded tables",
	Long: `Run executes each script in order against one store built from the
schema. A script holds one command per line; "-" reads standard input.
Execution stops at the first failing line unless --continue is given.

Commands:
` + shell.Usage + `

Example:
  linktable run scenario.lt
  echo 'tables' | linktable run -`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		return runScripts(cmd, st, args)
	},
}

func init() {
	runCmd.Flags().BoolVar(&flagContinue, "continue", false, "report failing lines and keep going")
}

// runScripts executes every script against st with one shell, so let
// bindings carry over from one script to the next.
func runScripts(cmd *cobra.Command, st *store.Store, scripts []string) error {
	sh := newShell(st)
	sh.ContinueOnError = flagContinue

	for _, path := range scripts {
		if err := runScript(cmd, sh, path); err != nil {
			return err
		}
	}
	return nil
}

func runScript(cmd *cobra.Command, sh *shell.Shell, path string) error {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return sysError(fmt.Errorf("open script: %w", err))
		}
		defer f.Close()
		r = f
	}

	if err := sh.Run(r); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
