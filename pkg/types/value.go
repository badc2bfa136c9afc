package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// Value is the content of one record field: either a text string or an
// ordered list of record IDs in a linked table. The zero Value is empty text.
//
// In JSON a text value is a string and a link value is an array of strings.
type Value struct {
	link  bool
	text  string
	links []string
}

// Text returns a text value.
func Text(s string) Value {
	return Value{text: s}
}

// Links returns a link value holding ids in order. The slice is copied.
func Links(ids ...string) Value {
	return Value{link: true, links: append([]string{}, ids...)}
}

// IsLink reports whether v holds record IDs rather than text.
func (v Value) IsLink() bool {
	return v.link
}

// Text returns the text content, or "" for link values.
func (v Value) Text() string {
	return v.text
}

// Links returns a copy of the linked record IDs, or nil for text values.
func (v Value) Links() []string {
	if !v.link {
		return nil
	}
	return append([]string{}, v.links...)
}

// Contains reports whether a link value lists id.
func (v Value) Contains(id string) bool {
	return v.link && slices.Contains(v.links, id)
}

// Equal reports whether v and o hold the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.link != o.link {
		return false
	}
	if v.link {
		return slices.Equal(v.links, o.links)
	}
	return v.text == o.text
}

// String renders text as is and links as a bracketed, comma-separated list.
func (v Value) String() string {
	if !v.link {
		return v.text
	}
	return fmt.Sprintf("%v", v.links)
}

// MarshalJSON encodes text as a JSON string and links as a JSON array.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.link {
		if v.links == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.links)
	}
	return json.Marshal(v.text)
}

// UnmarshalJSON accepts a JSON string or an array of strings. Any other
// shape, null included, fails with ErrInvalidValue.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty field value: %w", ErrInvalidValue)
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		*v = Text(s)
		return nil
	case '[':
		var ids []string
		if err := json.Unmarshal(data, &ids); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		*v = Links(ids...)
		return nil
	default:
		return fmt.Errorf("field value must be a string or an array of strings, got %s: %w", data, ErrInvalidValue)
	}
}

// Fields maps field IDs to values. Keys need not be declared in the table
// schema.
type Fields map[string]Value

// Clone returns a deep copy of f. A nil map clones to nil.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		if v.link {
			v = Links(v.links...)
		}
		out[k] = v
	}
	return out
}

// ParseFields decodes a JSON object of field values.
func ParseFields(data []byte) (Fields, error) {
	var f Fields
	if err := json.Unmarshal(data, &f); err != nil {
		if errors.Is(err, ErrInvalidValue) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	if f == nil {
		return nil, fmt.Errorf("fields must be a JSON object: %w", ErrInvalidValue)
	}
	return f, nil
}
