// Package export writes point-in-time snapshots of a store's tables for
// inspection by other tools. Snapshots are write-only; nothing reads them
// back into a store.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/linktable/pkg/types"
)

// recordLine is one line of a JSONL snapshot.
type recordLine struct {
	Table  string       `json:"table"`
	ID     string       `json:"id"`
	Fields types.Fields `json:"fields"`
}

// WriteJSONL writes one JSON object per record, tables in order, using the
// temp-file, fsync, rename pattern so readers never see a partial file.
func WriteJSONL(path string, tables []types.Table) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	for _, t := range tables {
		for _, r := range t.Records {
			fields := r.Fields
			if fields == nil {
				fields = types.Fields{}
			}
			if err := enc.Encode(recordLine{Table: t.ID, ID: r.ID, Fields: fields}); err != nil {
				return fail(fmt.Errorf("writing record %s/%s: %w", t.ID, r.ID, err))
			}
		}
	}
	if err := w.Flush(); err != nil {
		return fail(fmt.Errorf("flushing buffer: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("syncing temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
