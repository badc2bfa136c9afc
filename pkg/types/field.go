package types

// FieldType identifies the kind of value a field holds.
type FieldType string

// Supported field types.
const (
	FieldText FieldType = "text"
	FieldLink FieldType = "link"
)

// Valid reports whether t is a known field type.
func (t FieldType) Valid() bool {
	return t == FieldText || t == FieldLink
}

// Field is a schema element of a table.
type Field struct {
	// ID is unique within the table.
	ID string `json:"id" yaml:"id"`

	// Type is FieldText or FieldLink.
	Type FieldType `json:"type" yaml:"type"`

	// LinkedTableID is the table this link field points into. Empty for text fields.
	LinkedTableID string `json:"linkedTableId,omitempty" yaml:"linked_table,omitempty"`

	// FieldIDInLinkedTable is the reciprocal link field in the linked table
	// that mirrors this one. Empty for text fields.
	FieldIDInLinkedTable string `json:"fieldIdInLinkedTable,omitempty" yaml:"reciprocal_field,omitempty"`
}

// TextField returns a text field with the given ID.
func TextField(id string) Field {
	return Field{ID: id, Type: FieldText}
}

// LinkField returns a link field pointing at reciprocalFieldID in linkedTableID.
func LinkField(id, linkedTableID, reciprocalFieldID string) Field {
	return Field{
		ID:                   id,
		Type:                 FieldLink,
		LinkedTableID:        linkedTableID,
		FieldIDInLinkedTable: reciprocalFieldID,
	}
}

// IsLink reports whether f is a link field.
func (f Field) IsLink() bool {
	return f.Type == FieldLink
}
