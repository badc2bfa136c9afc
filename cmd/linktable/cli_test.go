package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioScript = `# two cities and their country, linked by hand
let r1 = create table1 {"text": "New York"}
let r2 = create table1 {"text": "California"}
let r3 = create table2 {"text": "USA", "link_to_table1": ["$r1", "$r2"]}
update table1 $r1 {"text": "New York", "link_to_table2": ["$r3"]}
update table1 $r2 {"text": "California", "link_to_table2": ["$r3"]}
get table1 $r1
audit
`

// execute runs the CLI in process and returns stdout and the exit code.
// Global flag state is reset first.
func execute(t *testing.T, stdin string, args ...string) (string, int) {
	t.Helper()
	flagConfigDir, flagDataDir, flagSchemaFile, flagJSON = "", "", "", false
	flagContinue = false
	flagFormat, flagScripts = formatJSONL, nil
	configDir, logger = "", nil

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	if err != nil {
		out.WriteString(err.Error())
	}
	return out.String(), exitCode(err)
}

// writeFile writes content under dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, code := execute(t, "", "version")
	assert.Equal(t, exitSuccess, code)
	assert.Equal(t, "linktable "+version+"\n", out)
}

func TestInit(t *testing.T) {
	cfgDir := t.TempDir()
	dataDir := filepath.Join(t.TempDir(), "data")

	out, code := execute(t, "", "init", "--config-dir", cfgDir, "--data-dir", dataDir)
	require.Equal(t, exitSuccess, code, out)
	assert.Contains(t, out, "(created)")

	assert.FileExists(t, filepath.Join(cfgDir, "config.yaml"))
	assert.FileExists(t, filepath.Join(cfgDir, "tables.yaml"))
	assert.DirExists(t, dataDir)

	out, code = execute(t, "", "init", "--config-dir", cfgDir, "--data-dir", dataDir)
	require.Equal(t, exitSuccess, code, out)
	assert.NotContains(t, out, "(created)", "existing schema is kept")

	out, code = execute(t, "", "tables", "--config-dir", cfgDir)
	require.Equal(t, exitSuccess, code, out)
	assert.Contains(t, out, "link_to_table2:link->table2.link_to_table1")
}

func TestRun_Scenario(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "scenario.lt", scenarioScript)

	out, code := execute(t, "", "run", "--config-dir", dir, script)
	require.Equal(t, exitSuccess, code, out)
	assert.Contains(t, out, "($r3)")
	assert.Contains(t, out, "link_to_table2")
	assert.Contains(t, out, "no dangling references")
}

func TestRun_ExitCodes(t *testing.T) {
	dir := t.TempDir()
	failing := writeFile(t, dir, "failing.lt", "create table1 {}\nget table1 missing\n")

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
	}{
		{name: "failing line", args: []string{"run", failing}, wantCode: exitUserError, wantOut: "line 2"},
		{name: "missing script", args: []string{"run", filepath.Join(dir, "nope.lt")}, wantCode: exitSysError, wantOut: "open script"},
		{name: "no script", args: []string{"run"}, wantCode: exitUserError},
		{name: "continue past failure", args: []string{"run", "--continue", failing}, wantCode: exitSuccess, wantOut: "Error:"},
		{name: "unknown command", args: []string{"frobnicate"}, wantCode: exitUserError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config-dir", dir}, tt.args...)
			out, code := execute(t, "", args...)
			assert.Equal(t, tt.wantCode, code, out)
			assert.Contains(t, out, tt.wantOut)
		})
	}
}

func TestRun_StdinJSON(t *testing.T) {
	dir := t.TempDir()

	out, code := execute(t, "tables\n", "run", "--config-dir", dir, "--json", "-")
	require.Equal(t, exitSuccess, code, out)

	var tables []struct {
		ID      string `json:"id"`
		Records int    `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &tables))
	require.Len(t, tables, 2)
	assert.Equal(t, "table1", tables[0].ID)
	assert.Equal(t, "table2", tables[1].ID)
}

func TestRun_SchemaFlag(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "people.yaml", `
tables:
  - id: people
    fields:
      - id: name
        type: text
      - id: manager
        type: link
        linked_table: people
        reciprocal_field: reports
      - id: reports
        type: link
        linked_table: people
        reciprocal_field: manager
    records:
      - id: ada
        fields:
          name: Ada
`)

	out, code := execute(t, "get people ada\n", "run", "--config-dir", dir, "--schema", schemaPath, "-")
	require.Equal(t, exitSuccess, code, out)
	assert.Contains(t, out, "Ada")

	broken := writeFile(t, dir, "broken.yaml", "tables:\n  - id: t\n    fields:\n      - id: n\n        type: number\n")
	out, code = execute(t, "", "tables", "--config-dir", dir, "--schema", broken)
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, out, "must be one of")

	out, code = execute(t, "", "tables", "--config-dir", dir, "--schema", filepath.Join(dir, "missing.yaml"))
	assert.Equal(t, exitSysError, code, out)
}

func TestConfig_InvalidLogLevel(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "log_level: loud\n")

	out, code := execute(t, "", "tables", "--config-dir", dir)
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, out, "unknown log level")
}

func TestConfig_SchemaFileRelativeToConfigDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "schema_file: custom.yaml\n")
	writeFile(t, dir, "custom.yaml", "tables:\n  - id: solo\n    fields:\n      - id: name\n        type: text\n")

	out, code := execute(t, "", "tables", "--config-dir", dir)
	require.Equal(t, exitSuccess, code, out)
	assert.Contains(t, out, "solo")
	assert.NotContains(t, out, "table1")
}

func TestExport_JSONL(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "scenario.lt", scenarioScript)
	path := filepath.Join(dir, "out.jsonl")

	out, code := execute(t, "", "export", "--config-dir", dir, "--script", script, path)
	require.Equal(t, exitSuccess, code, out)
	assert.Contains(t, out, "wrote "+path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines++
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, 3, lines)
}

func TestExport_SQLiteDefaultPath(t *testing.T) {
	dir := t.TempDir()
	dataDir := filepath.Join(t.TempDir(), "data")

	out, code := execute(t, "", "export", "--config-dir", dir, "--data-dir", dataDir, "--format", "sqlite", "--json")
	require.Equal(t, exitSuccess, code, out)

	var res map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, filepath.Join(dataDir, "linktable.db"), res["path"])
	assert.FileExists(t, res["path"])
}

func TestExport_UnknownFormat(t *testing.T) {
	out, code := execute(t, "", "export", "--config-dir", t.TempDir(), "--format", "csv")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, out, `unknown format "csv"`)
}

func TestShell(t *testing.T) {
	dir := t.TempDir()
	input := "bogus\nlet a = create table1 {\"text\": \"x\"}\nget table1 $a\nexit\n"

	out, code := execute(t, input, "shell", "--config-dir", dir)
	require.Equal(t, exitSuccess, code, out)
	assert.Contains(t, out, "linktable> ")
	assert.Contains(t, out, `Error: "bogus": unknown command`)
	assert.Contains(t, out, "($a)")
}
