// Package store implements the in-memory table store: an ordered set of
// tables, each with a field schema and records, plus the record and table
// operations that mutate them.
//
// Record operations never touch link fields on the other side of a link.
// Keeping reciprocal link fields in step is the caller's job, either by
// issuing the matching updates itself or by calling SetLinks, which performs
// both sides in one step. Deletes never cascade; references to deleted
// records and tables are left in place and reported by Audit.
package store

import (
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/linktable/pkg/types"
)

// Store holds tables in insertion order. All methods are safe for concurrent
// use; every method is atomic, none spans more than one call.
type Store struct {
	mu     sync.RWMutex
	tables []types.Table
	logger *zap.Logger
	newID  func() string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for mutation events. A nil logger is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDSource replaces the record and table ID generator.
func WithIDSource(next func() string) Option {
	return func(s *Store) {
		if next != nil {
			s.newID = next
		}
	}
}

// New creates a store holding copies of tables. It returns an error if table
// IDs repeat, a table's fields or records are malformed, or a link field is
// not mirrored by its reciprocal in a linked table that is present.
func New(tables []types.Table, opts ...Option) (*Store, error) {
	s := &Store{
		logger: zap.NewNop(),
		newID:  generateUUID,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.tables = make([]types.Table, 0, len(tables))
	for _, t := range tables {
		if err := validateTable(t); err != nil {
			return nil, err
		}
		if s.indexOf(t.ID) >= 0 {
			return nil, fmt.Errorf("table %q: %w", t.ID, types.ErrDuplicateTable)
		}
		s.tables = append(s.tables, t.Clone())
	}
	if err := validateLinks(s.tables); err != nil {
		return nil, err
	}

	s.logger.Debug("store created", zap.Int("tables", len(s.tables)))
	return s, nil
}

// ListTables returns copies of all tables in order. Changing the result does
// not change the store.
func (s *Store) ListTables() []types.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Table, len(s.tables))
	for i, t := range s.tables {
		out[i] = t.Clone()
	}
	return out
}

// GetTable returns a copy of the table with the given ID.
// Returns ErrTableNotFound if it does not exist.
func (s *Store) GetTable(tableID string) (types.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.table(tableID)
	if err != nil {
		return types.Table{}, err
	}
	return t.Clone(), nil
}

// CreateTable adds a table after the existing ones. When table.ID is empty a
// new ID is generated. The table is validated the same way New validates its
// input.
func (s *Store) CreateTable(table types.Table) (types.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table = table.Clone()
	if table.ID == "" {
		table.ID = s.newID()
	}
	if err := validateTable(table); err != nil {
		return types.Table{}, err
	}
	if s.indexOf(table.ID) >= 0 {
		return types.Table{}, fmt.Errorf("table %q: %w", table.ID, types.ErrDuplicateTable)
	}

	candidate := append(slices.Clip(s.tables), table)
	if err := validateLinks(candidate); err != nil {
		return types.Table{}, err
	}
	s.tables = candidate

	s.logger.Debug("table created",
		zap.String("table", table.ID),
		zap.Int("fields", len(table.Fields)),
		zap.Int("records", len(table.Records)),
	)
	return table.Clone(), nil
}

// DeleteTable removes the table with the given ID and returns true.
// Link fields and values elsewhere that point into the table are left
// dangling. Returns ErrTableNotFound if the table does not exist.
func (s *Store) DeleteTable(tableID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(tableID)
	if i < 0 {
		return false, tableNotFound(tableID)
	}
	s.tables = slices.Delete(s.tables, i, i+1)

	s.logger.Debug("table deleted", zap.String("table", tableID))
	return true, nil
}

// CreateRecord adds a record holding a copy of fields to the table and
// returns it. Link values in fields are stored as given; the linked records
// are not updated. Returns ErrTableNotFound if the table does not exist.
func (s *Store) CreateRecord(tableID string, fields types.Fields) (types.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(tableID)
	if err != nil {
		return types.Record{}, err
	}

	id, err := s.nextRecordID(t)
	if err != nil {
		return types.Record{}, err
	}

	rec := types.Record{ID: id, Fields: fields.Clone()}
	t.Records = append(t.Records, rec)

	s.logger.Debug("record created",
		zap.String("table", tableID),
		zap.String("record", id),
		zap.Int("fields", len(fields)),
	)
	return rec.Clone(), nil
}

// UpdateRecord replaces the record's fields with a copy of fields. Keys
// missing from fields are dropped from the record. Linked records are not
// updated. Returns ErrTableNotFound or ErrRecordNotFound.
func (s *Store) UpdateRecord(tableID, recordID string, fields types.Fields) (types.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.record(tableID, recordID)
	if err != nil {
		return types.Record{}, err
	}
	rec.Fields = fields.Clone()

	s.logger.Debug("record updated",
		zap.String("table", tableID),
		zap.String("record", recordID),
		zap.Int("fields", len(fields)),
	)
	return rec.Clone(), nil
}

// GetRecord returns a copy of the record.
// Returns ErrTableNotFound or ErrRecordNotFound.
func (s *Store) GetRecord(tableID, recordID string) (types.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := s.record(tableID, recordID)
	if err != nil {
		return types.Record{}, err
	}
	return rec.Clone(), nil
}

// DeleteRecord removes the record and returns true. Link values in other
// records that list it are left dangling.
// Returns ErrTableNotFound or ErrRecordNotFound.
func (s *Store) DeleteRecord(tableID, recordID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(tableID)
	if err != nil {
		return false, err
	}
	i := recordIndex(t, recordID)
	if i < 0 {
		return false, recordNotFound(tableID, recordID)
	}
	t.Records = slices.Delete(t.Records, i, i+1)

	s.logger.Debug("record deleted",
		zap.String("table", tableID),
		zap.String("record", recordID),
	)
	return true, nil
}

// indexOf returns the position of the table, or -1.
// The caller must hold s.mu.
func (s *Store) indexOf(tableID string) int {
	return slices.IndexFunc(s.tables, func(t types.Table) bool {
		return t.ID == tableID
	})
}

// table returns a pointer to the stored table.
// The caller must hold s.mu.
func (s *Store) table(tableID string) (*types.Table, error) {
	i := s.indexOf(tableID)
	if i < 0 {
		return nil, tableNotFound(tableID)
	}
	return &s.tables[i], nil
}

// record returns a pointer to the stored record.
// The caller must hold s.mu.
func (s *Store) record(tableID, recordID string) (*types.Record, error) {
	t, err := s.table(tableID)
	if err != nil {
		return nil, err
	}
	i := recordIndex(t, recordID)
	if i < 0 {
		return nil, recordNotFound(tableID, recordID)
	}
	return &t.Records[i], nil
}

func recordIndex(t *types.Table, recordID string) int {
	return slices.IndexFunc(t.Records, func(r types.Record) bool {
		return r.ID == recordID
	})
}

func tableNotFound(tableID string) error {
	return fmt.Errorf("table %q: %w", tableID, types.ErrTableNotFound)
}

func recordNotFound(tableID, recordID string) error {
	return fmt.Errorf("record %q in table %q: %w", recordID, tableID, types.ErrRecordNotFound)
}
