// Package shell runs line-oriented commands against a store. It backs both
// the script runner and the interactive prompt of the linktable CLI.
//
// Each line is one command. Blank lines and lines starting with # are
// skipped. $name tokens are replaced by the record ID bound with let before
// the line is parsed.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/linktable/internal/store"
)

// Shell errors.
var (
	ErrUnknownCommand    = errors.New("unknown command")
	ErrUsage             = errors.New("wrong arguments")
	ErrUndefinedVariable = errors.New("undefined variable")
)

// Usage lists the accepted commands.
const Usage = `tables                                  list tables
show <table>                            list the records of a table
create <table> <fields-json>            create a record
update <table> <record> <fields-json>   replace a record's fields
get <table> <record>                    print a record
delete <table> <record>                 delete a record
drop <table>                            delete a table
link <table> <record> <field> [ids]     set a link field on both sides (ids comma-separated)
audit                                   list dangling references
let <name> = create ...                 create a record and bind its ID to $name
help                                    print this list
exit                                    stop reading input`

var varRef = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)

// Shell executes commands against one store. It is not safe for concurrent
// use; the store it wraps is.
type Shell struct {
	store *store.Store
	out   io.Writer
	vars  map[string]string

	// JSON switches output from aligned columns to indented JSON.
	JSON bool

	// ContinueOnError makes Run report a failing line and go on to the next
	// one instead of returning.
	ContinueOnError bool

	// Prompt is written before each line read by Run when non-empty.
	Prompt string

	// Logger receives one debug entry per executed command.
	Logger *zap.Logger
}

// New returns a shell that runs commands against st and writes results to out.
func New(st *store.Store, out io.Writer) *Shell {
	return &Shell{
		store:  st,
		out:    out,
		vars:   make(map[string]string),
		Logger: zap.NewNop(),
	}
}

// Var returns the record ID bound to name.
func (sh *Shell) Var(name string) (string, bool) {
	id, ok := sh.vars[name]
	return id, ok
}

// Run executes every line read from r. It returns the first error, wrapped
// with its line number, unless ContinueOnError is set, in which case errors
// are written to the output and Run returns only read errors.
func (sh *Shell) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for {
		if sh.Prompt != "" {
			fmt.Fprint(sh.out, sh.Prompt)
		}
		if !scanner.Scan() {
			break
		}
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" || line == `\q` {
			return nil
		}

		res, err := sh.Exec(line)
		if err != nil {
			if !sh.ContinueOnError {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			fmt.Fprintf(sh.out, "Error: %v\n", err)
			continue
		}
		if err := sh.print(res); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// Exec runs a single command line and returns its result. Blank lines and
// comments yield a nil result.
func (sh *Shell) Exec(line string) (*Result, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}

	line, err := sh.expand(line)
	if err != nil {
		return nil, err
	}

	name, rest := cut(line)
	sh.Logger.Debug("exec", zap.String("command", name), zap.String("args", rest))

	switch name {
	case "tables":
		return sh.tables(rest)
	case "show":
		return sh.show(rest)
	case "create":
		return sh.create(rest)
	case "update":
		return sh.update(rest)
	case "get":
		return sh.get(rest)
	case "delete":
		return sh.deleteRecord(rest)
	case "drop":
		return sh.drop(rest)
	case "link":
		return sh.link(rest)
	case "audit":
		return sh.audit(rest)
	case "let":
		return sh.let(rest)
	case "help":
		return &Result{Message: Usage}, nil
	default:
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownCommand)
	}
}

// expand replaces $name tokens with bound record IDs.
func (sh *Shell) expand(line string) (string, error) {
	var missing string
	out := varRef.ReplaceAllStringFunc(line, func(tok string) string {
		name := tok[1:]
		id, ok := sh.vars[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return tok
		}
		return id
	})
	if missing != "" {
		return "", fmt.Errorf("$%s: %w", missing, ErrUndefinedVariable)
	}
	return out, nil
}

// cut splits off the first whitespace-separated word.
func cut(s string) (word, rest string) {
	s = strings.TrimSpace(s)
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i+1:])
}

// args splits s into exactly n words, the last of which keeps any inner
// whitespace. It fails with ErrUsage when fewer words are present, or when
// more are present and the last word may not hold spaces.
func args(s string, n int, usage string, tail bool) ([]string, error) {
	out := make([]string, 0, n)
	for i := 0; i < n-1; i++ {
		var w string
		w, s = cut(s)
		if w == "" {
			return nil, fmt.Errorf("usage: %s: %w", usage, ErrUsage)
		}
		out = append(out, w)
	}
	s = strings.TrimSpace(s)
	if n > 0 {
		if s == "" || (!tail && strings.ContainsAny(s, " \t")) {
			return nil, fmt.Errorf("usage: %s: %w", usage, ErrUsage)
		}
		out = append(out, s)
	} else if s != "" {
		return nil, fmt.Errorf("usage: %s: %w", usage, ErrUsage)
	}
	return out, nil
}
