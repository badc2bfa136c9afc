// Root command for the linktable CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/linktable/internal/paths"
	"github.com/mesh-intelligence/linktable/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "v0.1.0"

// Global flag values.
var (
	flagConfigDir  string
	flagDataDir    string
	flagSchemaFile string
	flagJSON       bool
)

// Loaded by PersistentPreRunE for all subcommands except version.
var (
	configDir string
	cfg       types.Config
	logger    *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "linktable",
	Short: "linktable is an in-memory table store with bidirectional link fields",
	Long: `linktable loads tables from a YAML schema into memory and runs record
commands against them. Link fields pair up across tables; the record commands
leave the reciprocal side alone, while "link" updates both sides at once.

Nothing is persisted between runs. Use "export" to write a snapshot.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		dir, err := resolveConfigDir()
		if err != nil {
			return sysError(fmt.Errorf("resolve config dir: %w", err))
		}
		configDir = dir

		v, err := loadConfig(configDir)
		if err != nil {
			return sysError(err)
		}
		if cfg, err = decodeConfig(v); err != nil {
			return err
		}

		if logger, err = newLogger(cfg); err != nil {
			return sysError(fmt.Errorf("build logger: %w", err))
		}
		logger.Debug("config loaded",
			zap.String("config_dir", configDir),
			zap.String("schema_file", cfg.SchemaFile),
			zap.String("data_dir", cfg.DataDir),
		)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir, or $LINKTABLE_CONFIG_DIR)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory for exports (default: $(CWD)/.linktable-data, or $LINKTABLE_DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&flagSchemaFile, "schema", "", "YAML schema file (default: schema_file from config.yaml, else the built-in two-table layout)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(exportCmd)
}

// resolveConfigDir: --config-dir flag > LINKTABLE_CONFIG_DIR env > platform default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}

// resolveDataDir: --data-dir flag > config.yaml data_dir > LINKTABLE_DATA_DIR env > $(CWD)/.linktable-data.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, cfg.DataDir)
}

// resolveSchemaFile: --schema flag > config.yaml schema_file > <config dir>/tables.yaml.
// An empty result selects the built-in layout.
func resolveSchemaFile() (string, error) {
	return paths.ResolveSchemaFile(flagSchemaFile, cfg.SchemaFile, configDir)
}
