package shell

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/mesh-intelligence/linktable/pkg/types"
)

var varName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// tableSummary is the JSON shape of one row of the tables command.
type tableSummary struct {
	ID      string        `json:"id"`
	Fields  []types.Field `json:"fields"`
	Records int           `json:"records"`
}

func (sh *Shell) tables(rest string) (*Result, error) {
	if _, err := args(rest, 0, "tables", false); err != nil {
		return nil, err
	}
	tables := sh.store.ListTables()

	res := &Result{Columns: []string{"ID", "FIELDS", "RECORDS"}}
	summaries := make([]tableSummary, 0, len(tables))
	for _, t := range tables {
		fields := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = describeField(f)
		}
		res.Rows = append(res.Rows, []string{t.ID, strings.Join(fields, ", "), fmt.Sprint(len(t.Records))})
		summaries = append(summaries, tableSummary{ID: t.ID, Fields: t.Fields, Records: len(t.Records)})
	}
	res.Data = summaries
	if len(tables) == 0 {
		res.Message = "no tables"
	}
	return res, nil
}

func (sh *Shell) show(rest string) (*Result, error) {
	a, err := args(rest, 1, "show <table>", false)
	if err != nil {
		return nil, err
	}
	t, err := sh.store.GetTable(a[0])
	if err != nil {
		return nil, err
	}

	cols := columnsOf(t.Fields, t.Records...)
	res := &Result{Columns: append([]string{"ID"}, cols...), Data: t.Records}
	for _, r := range t.Records {
		row := []string{r.ID}
		for _, c := range cols {
			row = append(row, render(r.Fields, c))
		}
		res.Rows = append(res.Rows, row)
	}
	if len(t.Records) == 0 {
		res.Message = fmt.Sprintf("table %s has no records", t.ID)
	}
	return res, nil
}

func (sh *Shell) create(rest string) (*Result, error) {
	a, err := args(rest, 2, "create <table> <fields-json>", true)
	if err != nil {
		return nil, err
	}
	req := types.RecordArgs{TableID: a[0]}
	if req.Fields, err = types.ParseFields([]byte(a[1])); err != nil {
		return nil, err
	}

	rec, err := sh.store.CreateRecord(req.TableID, req.Fields)
	if err != nil {
		return nil, err
	}
	return sh.recordResult(req.TableID, rec, fmt.Sprintf("created record %s in %s", rec.ID, req.TableID)), nil
}

func (sh *Shell) update(rest string) (*Result, error) {
	a, err := args(rest, 3, "update <table> <record> <fields-json>", true)
	if err != nil {
		return nil, err
	}
	req := types.RecordArgs{TableID: a[0], RecordID: a[1]}
	if req.Fields, err = types.ParseFields([]byte(a[2])); err != nil {
		return nil, err
	}

	rec, err := sh.store.UpdateRecord(req.TableID, req.RecordID, req.Fields)
	if err != nil {
		return nil, err
	}
	return sh.recordResult(req.TableID, rec, fmt.Sprintf("updated record %s in %s", rec.ID, req.TableID)), nil
}

func (sh *Shell) get(rest string) (*Result, error) {
	a, err := args(rest, 2, "get <table> <record>", false)
	if err != nil {
		return nil, err
	}
	rec, err := sh.store.GetRecord(a[0], a[1])
	if err != nil {
		return nil, err
	}
	return sh.recordResult(a[0], rec, ""), nil
}

func (sh *Shell) deleteRecord(rest string) (*Result, error) {
	a, err := args(rest, 2, "delete <table> <record>", false)
	if err != nil {
		return nil, err
	}
	ok, err := sh.store.DeleteRecord(a[0], a[1])
	if err != nil {
		return nil, err
	}
	return &Result{
		Message: fmt.Sprintf("deleted record %s from %s", a[1], a[0]),
		Data:    map[string]any{"table": a[0], "record": a[1], "deleted": ok},
	}, nil
}

func (sh *Shell) drop(rest string) (*Result, error) {
	a, err := args(rest, 1, "drop <table>", false)
	if err != nil {
		return nil, err
	}
	ok, err := sh.store.DeleteTable(a[0])
	if err != nil {
		return nil, err
	}
	return &Result{
		Message: fmt.Sprintf("deleted table %s", a[0]),
		Data:    map[string]any{"table": a[0], "deleted": ok},
	}, nil
}

func (sh *Shell) link(rest string) (*Result, error) {
	words := strings.Fields(rest)
	if len(words) < 3 || len(words) > 4 {
		return nil, fmt.Errorf("usage: link <table> <record> <field> [ids]: %w", ErrUsage)
	}
	var targets []string
	if len(words) == 4 {
		for _, id := range strings.Split(words[3], ",") {
			if id != "" {
				targets = append(targets, id)
			}
		}
	}

	rec, err := sh.store.SetLinks(words[0], words[1], words[2], targets)
	if err != nil {
		return nil, err
	}
	return sh.recordResult(words[0], rec, fmt.Sprintf("linked %s.%s to %d record(s)", rec.ID, words[2], len(rec.Fields[words[2]].Links()))), nil
}

func (sh *Shell) audit(rest string) (*Result, error) {
	if _, err := args(rest, 0, "audit", false); err != nil {
		return nil, err
	}
	refs := sh.store.Audit()
	if refs == nil {
		refs = []types.DanglingRef{}
	}

	res := &Result{Data: refs}
	if len(refs) == 0 {
		res.Message = "no dangling references"
		return res, nil
	}
	res.Columns = []string{"TABLE", "RECORD", "FIELD", "TARGET", "REASON"}
	for _, r := range refs {
		res.Rows = append(res.Rows, []string{r.TableID, r.RecordID, r.FieldID, r.TargetID, r.Reason})
	}
	return res, nil
}

func (sh *Shell) let(rest string) (*Result, error) {
	const usage = "usage: let <name> = create <table> <fields-json>"
	name, rest := cut(rest)
	eq, rest := cut(rest)
	cmd, rest := cut(rest)
	if !varName.MatchString(name) || eq != "=" || cmd != "create" {
		return nil, fmt.Errorf("%s: %w", usage, ErrUsage)
	}

	res, err := sh.create(rest)
	if err != nil {
		return nil, err
	}
	rec := res.Data.(types.Record)
	sh.vars[name] = rec.ID
	res.Message = fmt.Sprintf("%s ($%s)", res.Message, name)
	return res, nil
}

// recordResult renders a record as FIELD/VALUE rows. Fields declared in the
// table come first, in schema order.
func (sh *Shell) recordResult(tableID string, rec types.Record, msg string) *Result {
	var schema []types.Field
	if t, err := sh.store.GetTable(tableID); err == nil {
		schema = t.Fields
	}

	res := &Result{
		Message: msg,
		Columns: []string{"FIELD", "VALUE"},
		Rows:    [][]string{{"id", rec.ID}},
		Data:    rec,
	}
	for _, c := range columnsOf(schema, rec) {
		if _, ok := rec.Fields[c]; ok {
			res.Rows = append(res.Rows, []string{c, render(rec.Fields, c)})
		}
	}
	return res
}

// columnsOf returns the declared field IDs followed by any other keys used
// by records, sorted.
func columnsOf(schema []types.Field, records ...types.Record) []string {
	cols := make([]string, 0, len(schema))
	for _, f := range schema {
		cols = append(cols, f.ID)
	}
	var extra []string
	for _, r := range records {
		for k := range r.Fields {
			if !slices.Contains(cols, k) && !slices.Contains(extra, k) {
				extra = append(extra, k)
			}
		}
	}
	slices.Sort(extra)
	return append(cols, extra...)
}

func render(fields types.Fields, id string) string {
	v, ok := fields[id]
	if !ok {
		return ""
	}
	if v.IsLink() {
		return "[" + strings.Join(v.Links(), ",") + "]"
	}
	return v.Text()
}

func describeField(f types.Field) string {
	if f.IsLink() {
		return fmt.Sprintf("%s:link->%s.%s", f.ID, f.LinkedTableID, f.FieldIDInLinkedTable)
	}
	return f.ID + ":" + string(f.Type)
}
