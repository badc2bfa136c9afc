// Export command writes a snapshot of the store.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/linktable/internal/export"
)

// Export formats.
const (
	formatJSONL  = "jsonl"
	formatSQLite = "sqlite"
)

var (
	flagFormat  string
	flagScripts []string
)

var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Write the tables to a JSONL or SQLite file",
	Long: `Export builds a store from the schema, runs any --script files against it,
and writes the result. Without a path the file goes to the data directory as
linktable.jsonl or linktable.db. An existing file is replaced.

Example:
  linktable export --script seed.lt
  linktable export --format sqlite --script seed.lt out.db`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagFormat != formatJSONL && flagFormat != formatSQLite {
			return fmt.Errorf("unknown format %q (valid: %s, %s)", flagFormat, formatJSONL, formatSQLite)
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		if len(flagScripts) > 0 {
			if err := runScripts(cmd, st, flagScripts); err != nil {
				return err
			}
		}

		path, err := exportPath(args)
		if err != nil {
			return sysError(err)
		}

		tables := st.ListTables()
		if flagFormat == formatSQLite {
			err = export.WriteSQLite(path, tables)
		} else {
			err = export.WriteJSONL(path, tables)
		}
		if err != nil {
			return sysError(err)
		}

		logger.Info("export written", zap.String("path", path), zap.String("format", flagFormat))
		if flagJSON {
			out, err := json.MarshalIndent(map[string]string{"path": path, "format": flagFormat}, "", "  ")
			if err != nil {
				return sysError(fmt.Errorf("marshal JSON: %w", err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&flagFormat, "format", formatJSONL, "output format: jsonl or sqlite")
	exportCmd.Flags().StringArrayVar(&flagScripts, "script", nil, "script to run before exporting (repeatable)")
}

// exportPath returns the explicit path, or the default file in the data
// directory, creating the directory when needed.
func exportPath(args []string) (string, error) {
	if len(args) == 1 {
		return filepath.Abs(args[0])
	}

	dataDir, err := resolveDataDir()
	if err != nil {
		return "", fmt.Errorf("resolve data dir: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}

	name := "linktable.jsonl"
	if flagFormat == formatSQLite {
		name = "linktable.db"
	}
	return filepath.Join(dataDir, name), nil
}
