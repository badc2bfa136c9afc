package types

// Record is a row of a table.
type Record struct {
	// ID is unique within the owning table.
	ID string `json:"id"`

	// Fields holds the record's values keyed by field ID.
	Fields Fields `json:"fields"`
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	return Record{ID: r.ID, Fields: r.Fields.Clone()}
}

// RecordArgs carries the named arguments of a record operation.
// RecordID is ignored by create; Fields is ignored by get and delete.
type RecordArgs struct {
	TableID  string `json:"tableId"`
	RecordID string `json:"recordId,omitempty"`
	Fields   Fields `json:"recordFieldsData,omitempty"`
}
