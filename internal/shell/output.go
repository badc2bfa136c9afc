package shell

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Result is the outcome of one command.
type Result struct {
	// Message is a one-line summary for text output.
	Message string

	// Columns and Rows form the table printed in text mode.
	Columns []string
	Rows    [][]string

	// Data is what JSON mode prints.
	Data any
}

func (sh *Shell) print(res *Result) error {
	if res == nil {
		return nil
	}
	if sh.JSON && res.Data != nil {
		out, err := json.MarshalIndent(res.Data, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(sh.out, string(out))
		return err
	}
	return PrintResult(sh.out, res)
}

// PrintResult writes res as a message line followed by aligned columns.
func PrintResult(w io.Writer, res *Result) error {
	if res.Message != "" {
		fmt.Fprintln(w, res.Message)
	}
	if len(res.Columns) == 0 || len(res.Rows) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(res.Columns, "\t"))
	sep := make([]string, len(res.Columns))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))
	for _, row := range res.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}
