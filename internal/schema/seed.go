package schema

import "github.com/mesh-intelligence/linktable/pkg/types"

// IDs of the default layout.
const (
	DefaultTable1     = "table1"
	DefaultTable2     = "table2"
	DefaultTextField  = "text"
	DefaultLinkField1 = "link_to_table2"
	DefaultLinkField2 = "link_to_table1"
)

// Default returns two empty tables, each with a text field and a link field
// that mirrors the other table's link field.
func Default() []types.Table {
	return []types.Table{
		{
			ID: DefaultTable1,
			Fields: []types.Field{
				types.TextField(DefaultTextField),
				types.LinkField(DefaultLinkField1, DefaultTable2, DefaultLinkField2),
			},
		},
		{
			ID: DefaultTable2,
			Fields: []types.Field{
				types.TextField(DefaultTextField),
				types.LinkField(DefaultLinkField2, DefaultTable1, DefaultLinkField1),
			},
		},
	}
}
