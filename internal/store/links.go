package store

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/linktable/pkg/types"
)

// SetLinks sets the link field fieldID of a record to targetIDs and updates
// the reciprocal field of every linked record in the same step: targets gain
// the record's ID, records dropped from the list lose it. Duplicate targets
// are collapsed, keeping first occurrence order.
//
// Everything is checked before anything changes. Returns ErrTableNotFound or
// ErrRecordNotFound for a missing table, record or target, ErrNotLinkField if
// fieldID is not a declared link field, and ErrTypeMismatch if a reciprocal
// value holds text. Dropped targets that no longer exist are skipped.
func (s *Store) SetLinks(tableID, recordID, fieldID string, targetIDs []string) (types.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := s.table(tableID)
	if err != nil {
		return types.Record{}, err
	}
	ri := recordIndex(src, recordID)
	if ri < 0 {
		return types.Record{}, recordNotFound(tableID, recordID)
	}
	field, ok := src.Field(fieldID)
	if !ok || !field.IsLink() {
		return types.Record{}, fmt.Errorf("table %q field %q: %w", tableID, fieldID, types.ErrNotLinkField)
	}
	linked, err := s.table(field.LinkedTableID)
	if err != nil {
		return types.Record{}, fmt.Errorf("field %q: %w", fieldID, err)
	}
	reciprocal := field.FieldIDInLinkedTable

	targets := dedupe(targetIDs)
	for _, id := range targets {
		if recordIndex(linked, id) < 0 {
			return types.Record{}, recordNotFound(linked.ID, id)
		}
	}

	var removed []string
	for _, id := range src.Records[ri].Fields[fieldID].Links() {
		if !slices.Contains(targets, id) {
			removed = append(removed, id)
		}
	}

	for _, id := range append(slices.Clone(targets), removed...) {
		i := recordIndex(linked, id)
		if i < 0 {
			continue
		}
		if v, ok := linked.Records[i].Fields[reciprocal]; ok && !v.IsLink() {
			return types.Record{}, fmt.Errorf("record %q in table %q field %q holds text: %w",
				id, linked.ID, reciprocal, types.ErrTypeMismatch)
		}
	}

	rec := &src.Records[ri]
	if rec.Fields == nil {
		rec.Fields = types.Fields{}
	}
	rec.Fields[fieldID] = types.Links(targets...)

	for _, id := range targets {
		target := &linked.Records[recordIndex(linked, id)]
		v := target.Fields[reciprocal]
		if v.Contains(recordID) {
			continue
		}
		if target.Fields == nil {
			target.Fields = types.Fields{}
		}
		target.Fields[reciprocal] = types.Links(append(v.Links(), recordID)...)
	}

	for _, id := range removed {
		i := recordIndex(linked, id)
		if i < 0 {
			continue
		}
		target := &linked.Records[i]
		v, ok := target.Fields[reciprocal]
		if !ok {
			continue
		}
		target.Fields[reciprocal] = types.Links(slices.DeleteFunc(v.Links(), func(linkedID string) bool {
			return linkedID == recordID
		})...)
	}

	s.logger.Debug("links set",
		zap.String("table", tableID),
		zap.String("record", recordID),
		zap.String("field", fieldID),
		zap.Int("targets", len(targets)),
		zap.Int("removed", len(removed)),
	)
	return rec.Clone(), nil
}

// Audit reports dangling references: link fields whose linked table is gone,
// and link values naming records or tables that no longer exist. Only
// declared link fields are inspected.
func (s *Store) Audit() []types.DanglingRef {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var refs []types.DanglingRef
	for ti := range s.tables {
		t := &s.tables[ti]
		for _, f := range t.Fields {
			if !f.IsLink() {
				continue
			}
			linked, err := s.table(f.LinkedTableID)
			if err != nil {
				refs = append(refs, types.DanglingRef{
					TableID: t.ID,
					FieldID: f.ID,
					Reason:  types.DanglingMissingTable,
				})
			}
			for _, r := range t.Records {
				for _, target := range r.Fields[f.ID].Links() {
					switch {
					case linked == nil:
						refs = append(refs, types.DanglingRef{
							TableID:  t.ID,
							RecordID: r.ID,
							FieldID:  f.ID,
							TargetID: target,
							Reason:   types.DanglingMissingTable,
						})
					case recordIndex(linked, target) < 0:
						refs = append(refs, types.DanglingRef{
							TableID:  t.ID,
							RecordID: r.ID,
							FieldID:  f.ID,
							TargetID: target,
							Reason:   types.DanglingMissingRecord,
						})
					}
				}
			}
		}
	}
	return refs
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
