// Shared helpers for linktable CLI commands.
package main

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/linktable/internal/schema"
	"github.com/mesh-intelligence/linktable/internal/shell"
	"github.com/mesh-intelligence/linktable/internal/store"
	"github.com/mesh-intelligence/linktable/pkg/types"
)

// systemError marks failures of the environment (files, config, encoding)
// rather than of the user's input.
type systemError struct {
	err error
}

func (e systemError) Error() string { return e.err.Error() }
func (e systemError) Unwrap() error { return e.err }

func sysError(err error) error {
	if err == nil {
		return nil
	}
	return systemError{err: err}
}

// exitCode maps an error returned by a command to the process exit code.
func exitCode(err error) int {
	var se systemError
	switch {
	case err == nil:
		return exitSuccess
	case errors.As(err, &se):
		return exitSysError
	default:
		return exitUserError
	}
}

// openStore loads the configured schema, or the built-in layout when none is
// configured, into a new store.
func openStore() (*store.Store, error) {
	path, err := resolveSchemaFile()
	if err != nil {
		return nil, sysError(fmt.Errorf("resolve schema file: %w", err))
	}

	tables := schema.Default()
	if path != "" {
		if tables, err = schema.Load(path); err != nil {
			if errors.Is(err, types.ErrInvalidSchema) {
				return nil, err
			}
			return nil, sysError(err)
		}
	}

	st, err := store.New(tables, store.WithLogger(logger.Named("store")))
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	logger.Debug("store opened",
		zap.String("schema_file", path),
		zap.Int("tables", len(tables)),
	)
	return st, nil
}

// newShell returns an interpreter over st that honours --json.
func newShell(st *store.Store) *shell.Shell {
	sh := shell.New(st, rootCmd.OutOrStdout())
	sh.JSON = flagJSON
	sh.Logger = logger.Named("shell")
	return sh
}
