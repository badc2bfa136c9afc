package store

import (
	"fmt"

	"github.com/mesh-intelligence/linktable/pkg/types"
)

// validateTable checks the parts of a table that do not depend on other
// tables: a non-empty ID, unique well-formed fields and unique record IDs.
func validateTable(t types.Table) error {
	if t.ID == "" {
		return fmt.Errorf("table ID is empty: %w", types.ErrInvalidID)
	}

	fields := make(map[string]bool, len(t.Fields))
	for _, f := range t.Fields {
		if f.ID == "" {
			return fmt.Errorf("table %q: field ID is empty: %w", t.ID, types.ErrInvalidID)
		}
		if fields[f.ID] {
			return fmt.Errorf("table %q field %q: %w", t.ID, f.ID, types.ErrDuplicateField)
		}
		fields[f.ID] = true

		if !f.Type.Valid() {
			return fmt.Errorf("table %q field %q: unknown type %q: %w", t.ID, f.ID, f.Type, types.ErrInvalidSchema)
		}
		if f.IsLink() && (f.LinkedTableID == "" || f.FieldIDInLinkedTable == "") {
			return fmt.Errorf("table %q field %q: link field needs a linked table and reciprocal field: %w",
				t.ID, f.ID, types.ErrInvalidSchema)
		}
	}

	records := make(map[string]bool, len(t.Records))
	for _, r := range t.Records {
		if r.ID == "" {
			return fmt.Errorf("table %q: record ID is empty: %w", t.ID, types.ErrInvalidID)
		}
		if records[r.ID] {
			return fmt.Errorf("table %q record %q: %w", t.ID, r.ID, types.ErrDuplicateRecord)
		}
		records[r.ID] = true
	}
	return nil
}

// validateLinks checks that every link field whose linked table is present
// is mirrored: the reciprocal exists, is a link field, and points back at
// the same table and field. Link fields into absent tables are dangling and
// accepted.
func validateLinks(tables []types.Table) error {
	byID := make(map[string]types.Table, len(tables))
	for _, t := range tables {
		byID[t.ID] = t
	}

	for _, t := range tables {
		for _, f := range t.Fields {
			if !f.IsLink() {
				continue
			}
			linked, ok := byID[f.LinkedTableID]
			if !ok {
				continue
			}
			rf, ok := linked.Field(f.FieldIDInLinkedTable)
			switch {
			case !ok:
				return fmt.Errorf("table %q field %q: reciprocal %q not found in table %q: %w",
					t.ID, f.ID, f.FieldIDInLinkedTable, linked.ID, types.ErrInvalidSchema)
			case !rf.IsLink():
				return fmt.Errorf("table %q field %q: reciprocal %q in table %q is not a link field: %w",
					t.ID, f.ID, rf.ID, linked.ID, types.ErrInvalidSchema)
			case rf.LinkedTableID != t.ID || rf.FieldIDInLinkedTable != f.ID:
				return fmt.Errorf("table %q field %q: reciprocal %q in table %q points at %q.%q: %w",
					t.ID, f.ID, rf.ID, linked.ID, rf.LinkedTableID, rf.FieldIDInLinkedTable, types.ErrInvalidSchema)
			}
		}
	}
	return nil
}
