// Shell command opens an interactive prompt.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive prompt",
	Long: `Shell reads commands from standard input until EOF or "exit". Errors are
reported and the prompt continues. State is lost when the shell exits.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}

		sh := newShell(st)
		sh.ContinueOnError = true
		sh.Prompt = "linktable> "

		fmt.Fprintln(cmd.OutOrStdout(), "linktable", version)
		fmt.Fprintln(cmd.OutOrStdout(), `Type "help" for commands, "exit" to quit.`)
		if err := sh.Run(cmd.InOrStdin()); err != nil {
			return sysError(err)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}
