package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/linktable/internal/store"
	"github.com/mesh-intelligence/linktable/pkg/types"
)

const citiesYAML = `
tables:
  - id: cities
    fields:
      - id: name
        type: text
      - id: country
        type: link
        linked_table: countries
        reciprocal_field: cities
    records:
      - id: nyc
        fields:
          name: New York
          country: [usa]
  - id: countries
    fields:
      - id: name
        type: text
      - id: cities
        type: link
        linked_table: cities
        reciprocal_field: country
    records:
      - id: usa
        fields:
          name: USA
          cities: [nyc]
`

func TestParse(t *testing.T) {
	tables, err := Parse([]byte(citiesYAML))
	require.NoError(t, err)
	require.Len(t, tables, 2)

	cities := tables[0]
	assert.Equal(t, "cities", cities.ID)
	assert.Equal(t, []types.Field{
		types.TextField("name"),
		types.LinkField("country", "countries", "cities"),
	}, cities.Fields)

	require.Len(t, cities.Records, 1)
	nyc := cities.Records[0]
	assert.Equal(t, "nyc", nyc.ID)
	assert.Equal(t, "New York", nyc.Fields["name"].Text())
	assert.Equal(t, []string{"usa"}, nyc.Fields["country"].Links())

	s, err := store.New(tables)
	require.NoError(t, err, "parsed schema must be accepted by the store")
	assert.Empty(t, s.Audit())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{
			name:    "empty document",
			input:   ``,
			wantMsg: "Tables is required",
		},
		{
			name:    "missing table id",
			input:   "tables:\n  - fields: []\n",
			wantMsg: "Tables[0].ID is required",
		},
		{
			name:    "unknown field type",
			input:   "tables:\n  - id: t\n    fields:\n      - id: n\n        type: number\n",
			wantMsg: "Tables[0].Fields[0].Type must be one of: text link",
		},
		{
			name:    "link without linked table",
			input:   "tables:\n  - id: t\n    fields:\n      - id: l\n        type: link\n        reciprocal_field: x\n",
			wantMsg: "Tables[0].Fields[0].LinkedTable is required for link fields",
		},
		{
			name:    "unknown key",
			input:   "tables:\n  - id: t\n    colour: red\n",
			wantMsg: "colour",
		},
		{
			name:    "numeric record value",
			input:   "tables:\n  - id: t\n    records:\n      - id: r\n        fields:\n          n: 42\n",
			wantMsg: "value must be a string or a list of strings",
		},
		{
			name:    "non-string link target",
			input:   "tables:\n  - id: t\n    records:\n      - id: r\n        fields:\n          l: [1]\n",
			wantMsg: "link targets must be strings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrInvalidSchema)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte(citiesYAML), 0o644))

	tables, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, tables, 2)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefault(t *testing.T) {
	tables := Default()
	require.Len(t, tables, 2)
	assert.Equal(t, DefaultTable1, tables[0].ID)
	assert.Equal(t, DefaultTable2, tables[1].ID)

	s, err := store.New(tables)
	require.NoError(t, err, "default layout must be symmetric")
	assert.Empty(t, s.Audit())

	// Each call returns fresh tables.
	tables[0].ID = "changed"
	assert.Equal(t, DefaultTable1, Default()[0].ID)
}

func TestMarshal_ParsesBack(t *testing.T) {
	tables, err := Parse([]byte(citiesYAML))
	require.NoError(t, err)

	data, err := Marshal(tables)
	require.NoError(t, err)
	assert.Contains(t, string(data), "reciprocal_field: cities")

	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, tables, again)

	data, err = Marshal(Default())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "records", "empty tables carry no records key")
	again, err = Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Default(), again)
}
