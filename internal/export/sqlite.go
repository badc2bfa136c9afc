package export

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/linktable/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

// WriteSQLite writes tables to a fresh SQLite database at path. An existing
// file at path is replaced. Dangling link targets are written as they are.
func WriteSQLite(path string, tables []types.Table) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := insertTables(tx, tables); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertTables(tx *sql.Tx, tables []types.Table) error {
	for ti, t := range tables {
		if _, err := tx.Exec(`INSERT INTO tables (table_id, ordinal) VALUES (?, ?)`, t.ID, ti); err != nil {
			return fmt.Errorf("insert table %s: %w", t.ID, err)
		}
		for fi, f := range t.Fields {
			_, err := tx.Exec(
				`INSERT INTO fields (table_id, field_id, type, linked_table_id, reciprocal_field_id, ordinal)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				t.ID, f.ID, string(f.Type), nullable(f.LinkedTableID), nullable(f.FieldIDInLinkedTable), fi,
			)
			if err != nil {
				return fmt.Errorf("insert field %s.%s: %w", t.ID, f.ID, err)
			}
		}
		for ri, r := range t.Records {
			if err := insertRecord(tx, t.ID, ri, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func insertRecord(tx *sql.Tx, tableID string, ordinal int, r types.Record) error {
	if _, err := tx.Exec(`INSERT INTO records (table_id, record_id, ordinal) VALUES (?, ?, ?)`,
		tableID, r.ID, ordinal); err != nil {
		return fmt.Errorf("insert record %s/%s: %w", tableID, r.ID, err)
	}

	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := r.Fields[k]
		var text any
		if !v.IsLink() {
			text = v.Text()
		}
		if _, err := tx.Exec(
			`INSERT INTO record_values (table_id, record_id, field_id, is_link, text_value) VALUES (?, ?, ?, ?, ?)`,
			tableID, r.ID, k, v.IsLink(), text,
		); err != nil {
			return fmt.Errorf("insert value %s/%s.%s: %w", tableID, r.ID, k, err)
		}
		for pos, target := range v.Links() {
			if _, err := tx.Exec(
				`INSERT INTO record_links (table_id, record_id, field_id, position, target_id) VALUES (?, ?, ?, ?, ?)`,
				tableID, r.ID, k, pos, target,
			); err != nil {
				return fmt.Errorf("insert link %s/%s.%s[%d]: %w", tableID, r.ID, k, pos, err)
			}
		}
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
