package types

// Table is a field schema plus the records stored under it. Records keep
// their insertion order.
type Table struct {
	ID      string   `json:"id"`
	Fields  []Field  `json:"fields"`
	Records []Record `json:"records"`
}

// Field returns the schema field with the given ID.
func (t Table) Field(id string) (Field, bool) {
	for _, f := range t.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

// Record returns the record with the given ID.
func (t Table) Record(id string) (Record, bool) {
	for _, r := range t.Records {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

// Clone returns a deep copy of t. Records and Fields are never nil in the copy.
func (t Table) Clone() Table {
	out := Table{
		ID:      t.ID,
		Fields:  append([]Field{}, t.Fields...),
		Records: make([]Record, len(t.Records)),
	}
	for i, r := range t.Records {
		out.Records[i] = r.Clone()
	}
	return out
}

// Reasons reported by DanglingRef.
const (
	DanglingMissingRecord = "missing_record"
	DanglingMissingTable  = "missing_table"
)

// DanglingRef describes a link that names something which no longer exists.
// RecordID and TargetID are empty when a schema link field points at a
// missing table.
type DanglingRef struct {
	TableID  string `json:"tableId"`
	RecordID string `json:"recordId,omitempty"`
	FieldID  string `json:"fieldId"`
	TargetID string `json:"targetId,omitempty"`
	Reason   string `json:"reason"`
}
