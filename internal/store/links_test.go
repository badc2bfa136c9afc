package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/linktable/pkg/types"
)

// linksOf returns the link IDs stored in a record field.
func linksOf(t *testing.T, s *Store, tableID, recordID, fieldID string) []string {
	t.Helper()
	rec, err := s.GetRecord(tableID, recordID)
	require.NoError(t, err)
	return rec.Fields[fieldID].Links()
}

func TestSetLinks_UpdatesBothSides(t *testing.T) {
	s := newTestStore(t)
	r1 := mustCreate(t, s, table1, types.Fields{textField1: types.Text("New York")})
	r2 := mustCreate(t, s, table1, types.Fields{textField1: types.Text("California")})
	r3 := mustCreate(t, s, table2, types.Fields{textField2: types.Text("USA")})

	rec, err := s.SetLinks(table2, r3, linkField2, []string{r1, r2})
	require.NoError(t, err)
	assert.Equal(t, []string{r1, r2}, rec.Fields[linkField2].Links())
	assert.Equal(t, "USA", rec.Fields[textField2].Text())

	assert.Equal(t, []string{r3}, linksOf(t, s, table1, r1, linkField1))
	assert.Equal(t, []string{r3}, linksOf(t, s, table1, r2, linkField1))

	got, err := s.GetRecord(table1, r1)
	require.NoError(t, err)
	assert.Equal(t, "New York", got.Fields[textField1].Text(), "other fields are kept")
	assert.Empty(t, s.Audit())
}

func TestSetLinks_RemovesDroppedTargets(t *testing.T) {
	s := newTestStore(t)
	r1 := mustCreate(t, s, table1, nil)
	r2 := mustCreate(t, s, table1, nil)
	r3 := mustCreate(t, s, table2, nil)
	r4 := mustCreate(t, s, table2, nil)

	_, err := s.SetLinks(table2, r3, linkField2, []string{r1, r2})
	require.NoError(t, err)
	_, err = s.SetLinks(table2, r4, linkField2, []string{r1})
	require.NoError(t, err)
	assert.Equal(t, []string{r3, r4}, linksOf(t, s, table1, r1, linkField1))

	_, err = s.SetLinks(table2, r3, linkField2, []string{r2})
	require.NoError(t, err)

	assert.Equal(t, []string{r4}, linksOf(t, s, table1, r1, linkField1))
	assert.Equal(t, []string{r3}, linksOf(t, s, table1, r2, linkField1))

	_, err = s.SetLinks(table1, r2, linkField1, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{}, linksOf(t, s, table2, r3, linkField2))
	assert.Equal(t, []string{}, linksOf(t, s, table1, r2, linkField1))
}

func TestSetLinks_CollapsesDuplicates(t *testing.T) {
	s := newTestStore(t)
	r1 := mustCreate(t, s, table1, nil)
	r2 := mustCreate(t, s, table1, nil)
	r3 := mustCreate(t, s, table2, nil)

	rec, err := s.SetLinks(table2, r3, linkField2, []string{r2, r1, r2, r1})
	require.NoError(t, err)
	assert.Equal(t, []string{r2, r1}, rec.Fields[linkField2].Links())

	_, err = s.SetLinks(table2, r3, linkField2, []string{r2, r1})
	require.NoError(t, err)
	assert.Equal(t, []string{r3}, linksOf(t, s, table1, r1, linkField1), "reciprocal is not appended twice")
}

func TestSetLinks_Errors(t *testing.T) {
	tests := []struct {
		name    string
		call    func(s *Store, r1, r3 string) error
		wantErr error
	}{
		{
			name: "missing table",
			call: func(s *Store, r1, r3 string) error {
				_, err := s.SetLinks("missing", r3, linkField2, []string{r1})
				return err
			},
			wantErr: types.ErrTableNotFound,
		},
		{
			name: "missing record",
			call: func(s *Store, r1, r3 string) error {
				_, err := s.SetLinks(table2, "missing", linkField2, []string{r1})
				return err
			},
			wantErr: types.ErrRecordNotFound,
		},
		{
			name: "text field",
			call: func(s *Store, r1, r3 string) error {
				_, err := s.SetLinks(table2, r3, textField2, []string{r1})
				return err
			},
			wantErr: types.ErrNotLinkField,
		},
		{
			name: "undeclared field",
			call: func(s *Store, r1, r3 string) error {
				_, err := s.SetLinks(table2, r3, "nope", []string{r1})
				return err
			},
			wantErr: types.ErrNotLinkField,
		},
		{
			name: "missing target",
			call: func(s *Store, r1, r3 string) error {
				_, err := s.SetLinks(table2, r3, linkField2, []string{r1, "missing"})
				return err
			},
			wantErr: types.ErrRecordNotFound,
		},
		{
			name: "linked table deleted",
			call: func(s *Store, r1, r3 string) error {
				if _, err := s.DeleteTable(table1); err != nil {
					return err
				}
				_, err := s.SetLinks(table2, r3, linkField2, []string{r1})
				return err
			},
			wantErr: types.ErrTableNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			r1 := mustCreate(t, s, table1, nil)
			r3 := mustCreate(t, s, table2, types.Fields{textField2: types.Text("USA")})

			err := tt.call(s, r1, r3)
			assert.ErrorIs(t, err, tt.wantErr)

			got, err := s.GetRecord(table2, r3)
			require.NoError(t, err)
			assert.Equal(t, types.Fields{textField2: types.Text("USA")}, got.Fields, "failed call must not mutate")
		})
	}
}

func TestSetLinks_TypeMismatchIsAtomic(t *testing.T) {
	s := newTestStore(t)
	r1 := mustCreate(t, s, table1, nil)
	r2 := mustCreate(t, s, table1, types.Fields{linkField1: types.Text("not a link")})
	r3 := mustCreate(t, s, table2, nil)

	_, err := s.SetLinks(table2, r3, linkField2, []string{r1, r2})
	assert.ErrorIs(t, err, types.ErrTypeMismatch)

	assert.Nil(t, linksOf(t, s, table1, r1, linkField1), "first target must not be touched")
	got, err := s.GetRecord(table2, r3)
	require.NoError(t, err)
	assert.Nil(t, got.Fields)
}

func TestSetLinks_SkipsDeletedDroppedTargets(t *testing.T) {
	s := newTestStore(t)
	r1 := mustCreate(t, s, table1, nil)
	r2 := mustCreate(t, s, table1, nil)
	r3 := mustCreate(t, s, table2, nil)

	_, err := s.SetLinks(table2, r3, linkField2, []string{r1, r2})
	require.NoError(t, err)
	_, err = s.DeleteRecord(table1, r1)
	require.NoError(t, err)

	_, err = s.SetLinks(table2, r3, linkField2, []string{r2})
	require.NoError(t, err)
	assert.Equal(t, []string{r2}, linksOf(t, s, table2, r3, linkField2))
}

func TestSetLinks_SelfLinkingTable(t *testing.T) {
	s, err := New([]types.Table{{
		ID: "people",
		Fields: []types.Field{
			types.LinkField("manager", "people", "reports"),
			types.LinkField("reports", "people", "manager"),
		},
	}})
	require.NoError(t, err)
	boss := mustCreate(t, s, "people", nil)
	dev := mustCreate(t, s, "people", nil)

	_, err = s.SetLinks("people", dev, "manager", []string{boss})
	require.NoError(t, err)

	assert.Equal(t, []string{dev}, linksOf(t, s, "people", boss, "reports"))
	assert.Equal(t, []string{boss}, linksOf(t, s, "people", dev, "manager"))
}

func TestAudit(t *testing.T) {
	s := newTestStore(t)
	assert.Empty(t, s.Audit())

	r1 := mustCreate(t, s, table1, nil)
	r2 := mustCreate(t, s, table2, types.Fields{
		linkField2: types.Links(r1),
		"unknown":  types.Links("ghost"),
	})

	_, err := s.DeleteRecord(table1, r1)
	require.NoError(t, err)
	assert.Equal(t, []types.DanglingRef{{
		TableID:  table2,
		RecordID: r2,
		FieldID:  linkField2,
		TargetID: r1,
		Reason:   types.DanglingMissingRecord,
	}}, s.Audit())

	_, err = s.DeleteTable(table1)
	require.NoError(t, err)
	assert.Equal(t, []types.DanglingRef{
		{
			TableID: table2,
			FieldID: linkField2,
			Reason:  types.DanglingMissingTable,
		},
		{
			TableID:  table2,
			RecordID: r2,
			FieldID:  linkField2,
			TargetID: r1,
			Reason:   types.DanglingMissingTable,
		},
	}, s.Audit())
}
