// Init command for the linktable CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/linktable/internal/paths"
	"github.com/mesh-intelligence/linktable/internal/schema"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config and data directories and a starter schema",
	Long: `Init writes config.yaml (done on every run when missing) and a starter
tables.yaml holding the built-in two-table layout into the config directory,
then creates the data directory. Existing files are left alone.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		schemaPath := filepath.Join(configDir, paths.DefaultSchemaFileName)
		created, err := writeIfMissing(schemaPath, func() ([]byte, error) {
			return schema.Marshal(schema.Default())
		})
		if err != nil {
			return sysError(fmt.Errorf("init: %w", err))
		}

		dataDir, err := resolveDataDir()
		if err != nil {
			return sysError(fmt.Errorf("init: resolve data dir: %w", err))
		}
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return sysError(fmt.Errorf("init: create data dir: %w", err))
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "linktable initialized")
		fmt.Fprintln(out, "  config:", configDir)
		if created {
			fmt.Fprintln(out, "  schema:", schemaPath, "(created)")
		} else {
			fmt.Fprintln(out, "  schema:", schemaPath)
		}
		fmt.Fprintln(out, "  data:  ", dataDir)
		return nil
	},
}

// writeIfMissing writes the content produced by gen to path unless the file
// exists. It reports whether the file was written.
func writeIfMissing(path string, gen func() ([]byte, error)) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}

	data, err := gen()
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}
