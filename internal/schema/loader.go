// Package schema loads table definitions from YAML and provides the default
// two-table layout used when no schema file is configured.
package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/linktable/pkg/types"
)

// document is the top level of a schema file.
type document struct {
	Tables []tableSpec `yaml:"tables" validate:"required,min=1,dive"`
}

type tableSpec struct {
	ID      string       `yaml:"id" validate:"required"`
	Fields  []fieldSpec  `yaml:"fields" validate:"dive"`
	Records []recordSpec `yaml:"records,omitempty" validate:"dive"`
}

type fieldSpec struct {
	ID              string `yaml:"id" validate:"required"`
	Type            string `yaml:"type" validate:"required,oneof=text link"`
	LinkedTable     string `yaml:"linked_table,omitempty" validate:"required_if=Type link"`
	ReciprocalField string `yaml:"reciprocal_field,omitempty" validate:"required_if=Type link"`
}

// recordSpec seeds a record. Field values are strings (text) or lists of
// strings (link targets).
type recordSpec struct {
	ID     string         `yaml:"id" validate:"required"`
	Fields map[string]any `yaml:"fields,omitempty"`
}

var validate = validator.New()

// Load reads and parses the schema file at path.
func Load(path string) ([]types.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	tables, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", path, err)
	}
	return tables, nil
}

// Parse decodes a YAML schema document. Unknown keys, missing required
// values and malformed record values fail with ErrInvalidSchema.
// Cross-table link symmetry is checked by the store, not here.
func Parse(data []byte) ([]types.Table, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidSchema, err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidSchema, formatValidationError(err))
	}

	tables := make([]types.Table, 0, len(doc.Tables))
	for _, ts := range doc.Tables {
		t := types.Table{ID: ts.ID}
		for _, fs := range ts.Fields {
			if fs.Type == string(types.FieldLink) {
				t.Fields = append(t.Fields, types.LinkField(fs.ID, fs.LinkedTable, fs.ReciprocalField))
			} else {
				t.Fields = append(t.Fields, types.TextField(fs.ID))
			}
		}
		for _, rs := range ts.Records {
			fields, err := convertFields(rs.Fields)
			if err != nil {
				return nil, fmt.Errorf("table %q record %q: %w", ts.ID, rs.ID, err)
			}
			t.Records = append(t.Records, types.Record{ID: rs.ID, Fields: fields})
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// convertFields turns decoded YAML values into field values.
func convertFields(raw map[string]any) (types.Fields, error) {
	fields := make(types.Fields, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			fields[k] = types.Text(val)
		case []any:
			ids := make([]string, 0, len(val))
			for _, item := range val {
				id, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("field %q: link targets must be strings: %w", k, types.ErrInvalidSchema)
				}
				ids = append(ids, id)
			}
			fields[k] = types.Links(ids...)
		default:
			return nil, fmt.Errorf("field %q: value must be a string or a list of strings: %w", k, types.ErrInvalidSchema)
		}
	}
	return fields, nil
}

// formatValidationError flattens validator errors into one readable message.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, formatFieldError(e))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := strings.TrimPrefix(e.Namespace(), "document.")

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_if":
		return fmt.Sprintf("%s is required for link fields", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
