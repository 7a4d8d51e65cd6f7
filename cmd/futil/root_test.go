// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/futil/cmd/futil/opts"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	o := &opts.RootOpts{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	cmd := newRootCmd(o, stderr)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(append(args, "--no-color"))

	err := cmd.ExecuteContext(context.Background())
	if o.Logger != nil {
		_ = o.Logger.Close()
	}
	return stdout.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestReplaceCommand_Flags(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "hello.txt")
	writeFile(t, file, "hello")

	out, err := run(t, "-c", filepath.Join(dir, "none.yaml"), "replace", "--rule", "h=j", "--rule", "l=1=1", file)
	require.NoError(t, err)
	assert.Equal(t, "je1lo", readFile(t, file))
	assert.Contains(t, out, "rewritten")
	assert.Contains(t, out, "rewrote files (1 files)")
}

func TestReplaceCommand_MalformedRuleLeavesFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "foo.txt")
	writeFile(t, file, "foo bar")

	_, err := run(t, "-c", filepath.Join(dir, "none.yaml"), "replace", "-r", "foo=baz", "-r", "bar=qux=-1", file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed rule 1")
	assert.Equal(t, "foo bar", readFile(t, file))
}

func TestReplaceCommand_RequiresRules(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "foo.txt")
	writeFile(t, file, "foo")

	_, err := run(t, "-c", filepath.Join(dir, "none.yaml"), "replace", file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one --rule is required")
}

func TestReplaceCommand_Config(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "a.go"), "package old\n")
	writeFile(t, filepath.Join(dir, "src", "b.go"), "package old // old\n")
	writeFile(t, filepath.Join(dir, "README.md"), "old")

	cfgPath := filepath.Join(dir, ".futil.yaml")
	writeFile(t, cfgPath, `
replace:
  - name: rename
    files: ["src/**/*.go"]
    rules:
      - find: old
        replace: new
        count: 1
log:
  path: logs/futil.log
`)

	out, err := run(t, "-c", cfgPath, "replace")
	require.NoError(t, err)

	assert.Equal(t, "package new\n", readFile(t, filepath.Join(dir, "src", "a.go")))
	assert.Equal(t, "package new // old\n", readFile(t, filepath.Join(dir, "src", "b.go")))
	assert.Equal(t, "old", readFile(t, filepath.Join(dir, "README.md")))
	assert.Contains(t, out, "futil • running replace jobs")
	assert.FileExists(t, filepath.Join(dir, "logs", "futil.log"), "log path should resolve next to the config")
}

func TestReplaceCommand_MissingConfig(t *testing.T) {
	_, err := run(t, "-c", filepath.Join(t.TempDir(), "missing.yaml"), "replace")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestCleanCommand(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "tmp", "old.log")
	writeFile(t, old, "x")
	past := time.Now().Add(-30 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))
	fresh := filepath.Join(dir, "tmp", "fresh.log")
	writeFile(t, fresh, "x")
	writeFile(t, filepath.Join(dir, "dist", "bundle.js"), "x")

	cfgPath := filepath.Join(dir, "futil.json")
	writeFile(t, cfgPath, `{
  "cleanup": [
    {"name": "tmp", "dir": "tmp", "pattern": "*.log", "max_age": "7d"},
    {"name": "dist", "remove": ["dist"]}
  ]
}`)

	out, err := run(t, "-c", cfgPath, "clean")
	require.NoError(t, err)

	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
	assert.NoDirExists(t, filepath.Join(dir, "dist"))
	assert.Contains(t, out, "removed paths (2 files)")
}

func TestRmCommand(t *testing.T) {
	dir := t.TempDir()
	tree := filepath.Join(dir, "tree")
	writeFile(t, filepath.Join(tree, "a", "b.txt"), "x")

	_, err := run(t, "-c", filepath.Join(dir, "none.yaml"), "rm", tree, filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.NoDirExists(t, tree)

	_, err = run(t, "rm")
	require.Error(t, err, "rm needs at least one path")
}

func TestLogFileFlag(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	writeFile(t, file, "aaa")
	logPath := filepath.Join(dir, "out", "futil.log")

	_, err := run(t, "-c", filepath.Join(dir, "none.yaml"), "--log-file", logPath, "replace", "-r", "a=b", file)
	require.NoError(t, err)

	data := readFile(t, logPath)
	assert.Contains(t, data, `"file":"`+file+`"`)
	assert.Contains(t, data, `"replacements":3`)
}

func TestLogFileFlag_UsesConfigLevel(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	writeFile(t, file, "aaa")
	logPath := filepath.Join(dir, "out", "futil.log")

	cfgPath := filepath.Join(dir, ".futil.yaml")
	writeFile(t, cfgPath, `
replace:
  - files: ["*.txt"]
    rules:
      - find: a
        replace: b
log:
  level: warn
`)

	_, err := run(t, "-c", cfgPath, "--log-file", logPath, "replace", "-r", "a=b", file)
	require.NoError(t, err)
	assert.Equal(t, "bbb", readFile(t, file))

	data := readFile(t, logPath)
	assert.NotContains(t, data, `"file operation"`, "info lines should be filtered by the config's log level")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "-c", filepath.Join(t.TempDir(), "none.yaml"), "version", "--json")
	require.NoError(t, err)

	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.NotEmpty(t, info["version"])
	assert.NotEmpty(t, info["go_version"])

	out, err = run(t, "-c", filepath.Join(t.TempDir(), "none.yaml"), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "futil version info")
}
