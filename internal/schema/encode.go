package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/linktable/pkg/types"
)

// Marshal encodes tables as a schema document that Parse accepts. Records
// are included, so a store snapshot can be turned back into a seed file.
func Marshal(tables []types.Table) ([]byte, error) {
	doc := document{Tables: make([]tableSpec, 0, len(tables))}
	for _, t := range tables {
		ts := tableSpec{ID: t.ID, Fields: make([]fieldSpec, 0, len(t.Fields))}
		for _, f := range t.Fields {
			ts.Fields = append(ts.Fields, fieldSpec{
				ID:              f.ID,
				Type:            string(f.Type),
				LinkedTable:     f.LinkedTableID,
				ReciprocalField: f.FieldIDInLinkedTable,
			})
		}
		for _, r := range t.Records {
			rs := recordSpec{ID: r.ID}
			if len(r.Fields) > 0 {
				rs.Fields = make(map[string]any, len(r.Fields))
				for k, v := range r.Fields {
					if v.IsLink() {
						rs.Fields[k] = v.Links()
					} else {
						rs.Fields[k] = v.Text()
					}
				}
			}
			ts.Records = append(ts.Records, rs)
		}
		doc.Tables = append(doc.Tables, ts)
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}
	return out, nil
}
