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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/futil/pkg/text"
)

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "writing config file should succeed")
	return path
}

func checkFullConfig(t *testing.T, cfg *Config) {
	require.Len(t, cfg.Replace, 1, "should have 1 replace job")
	job := cfg.Replace[0]
	assert.Equal(t, "rename", job.Name)
	assert.Equal(t, []string{"**/*.go", "go.mod"}, job.Files)
	require.Len(t, job.Rules, 2)
	assert.Nil(t, job.Rules[0].Count, "first rule should be unlimited")
	require.NotNil(t, job.Rules[1].Count)
	assert.Equal(t, 1, *job.Rules[1].Count)

	got, err := text.ApplyRules("github.com/old/mod v1 v1", job.Compiled()...)
	require.NoError(t, err)
	assert.Equal(t, "github.com/new/mod v2 v1", got, "compiled rules should apply in order")

	require.Len(t, cfg.Cleanup, 1, "should have 1 cleanup job")
	assert.Equal(t, "tmp", cfg.Cleanup[0].Name)
	assert.Equal(t, "tmp", cfg.Cleanup[0].Dir)
	assert.Equal(t, "**/*.log", cfg.Cleanup[0].Pattern)
	assert.Equal(t, 7*24*time.Hour, cfg.Cleanup[0].Age())

	require.NotNil(t, cfg.Log)
	assert.Equal(t, "futil.log", cfg.Log.Path)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel())
}

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		config string
	}{
		{
			name: "yaml",
			file: ".futil.yaml",
			config: `
replace:
  - name: rename
    files: ["**/*.go", "go.mod"]
    rules:
      - find: github.com/old/mod
        replace: github.com/new/mod
      - find: v1
        replace: v2
        count: 1
cleanup:
  - name: tmp
    dir: ./tmp
    pattern: "**/*.log"
    max_age: 7d
log:
  path: futil.log
  level: debug
`,
		},
		{
			name: "json",
			file: "futil.json",
			config: `{
  "replace": [{
    "name": "rename",
    "files": ["**/*.go", "go.mod"],
    "rules": [
      {"find": "github.com/old/mod", "replace": "github.com/new/mod"},
      {"find": "v1", "replace": "v2", "count": 1}
    ]
  }],
  "cleanup": [{"name": "tmp", "dir": "./tmp", "pattern": "**/*.log", "max_age": "7d"}],
  "log": {"path": "futil.log", "level": "debug"}
}`,
		},
		{
			name: "toml",
			file: "futil.toml",
			config: `
[[replace]]
name = "rename"
files = ["**/*.go", "go.mod"]

[[replace.rules]]
find = "github.com/old/mod"
replace = "github.com/new/mod"

[[replace.rules]]
find = "v1"
replace = "v2"
count = 1

[[cleanup]]
name = "tmp"
dir = "./tmp"
pattern = "**/*.log"
max_age = "7d"

[log]
path = "futil.log"
level = "debug"
`,
		},
		{
			name: "hcl",
			file: "futil.hcl",
			config: `
replace "rename" {
  files = ["**/*.go", "go.mod"]

  rule {
    find    = "github.com/old/mod"
    replace = "github.com/new/mod"
  }

  rule {
    find    = "v1"
    replace = "v2"
    count   = 1
  }
}

cleanup "tmp" {
  dir     = "./tmp"
  pattern = "**/*.log"
  max_age = "7d"
}

log {
  path  = "futil.log"
  level = "debug"
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.config)

			cfg, err := Load(testContext(t), path)
			require.NoError(t, err, "Load should succeed")
			assert.Equal(t, path, cfg.Location())
			checkFullConfig(t, cfg)
		})
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name        string
		config      string
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "minimal_replace_gets_defaults",
			config: `
replace:
  - files: ["a.txt"]
    rules:
      - find: a
        replace: b
`,
			check: func(t *testing.T, cfg *Config) {
				require.NotNil(t, cfg.Log, "log should be defaulted")
				assert.Equal(t, "info", cfg.Log.Level)
				assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel())
				assert.Len(t, cfg.Replace[0].Compiled(), 1)
			},
		},
		{
			name: "cleanup_remove_only",
			config: `
cleanup:
  - remove: ["build/", "dist"]
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"build", "dist"}, cfg.Cleanup[0].Remove)
				assert.Equal(t, "**", cfg.Cleanup[0].Pattern, "pattern should default")
			},
		},
		{
			name:        "empty_config",
			config:      `{}`,
			errContains: "config defines no replace or cleanup jobs",
		},
		{
			name: "negative_count",
			config: `
replace:
  - files: ["a.txt"]
    rules:
      - find: a
        replace: b
      - find: a
        replace: b
        count: -1
`,
			errContains: "replace[0]: rules[1]: malformed rule",
		},
		{
			name: "missing_files",
			config: `
replace:
  - rules:
      - find: a
        replace: b
`,
			errContains: "replace[0]: files is required",
		},
		{
			name: "missing_rules",
			config: `
replace:
  - files: ["a.txt"]
`,
			errContains: "replace[0]: rules is required",
		},
		{
			name: "cleanup_without_target",
			config: `
cleanup:
  - name: nothing
`,
			errContains: "cleanup[0]: dir or remove is required",
		},
		{
			name: "cleanup_dir_without_age",
			config: `
cleanup:
  - dir: tmp
`,
			errContains: "max_age is required with dir",
		},
		{
			name: "cleanup_bad_age",
			config: `
cleanup:
  - dir: tmp
    max_age: soon
`,
			errContains: "invalid duration",
		},
		{
			name: "cleanup_remove_config_dir",
			config: `
cleanup:
  - remove: ["build", "./"]
`,
			errContains: `cleanup[0]: remove[1]: "." would remove the config directory`,
		},
		{
			name: "cleanup_remove_parent_dir",
			config: `
cleanup:
  - remove: ["a/../.."]
`,
			errContains: `remove[0]: ".." would remove the config directory`,
		},
		{
			name: "cleanup_remove_collapses_to_config_dir",
			config: `
cleanup:
  - remove: ["a/.."]
`,
			errContains: `remove[0]: "." would remove the config directory`,
		},
		{
			name: "cleanup_remove_sibling_allowed",
			config: `
cleanup:
  - remove: ["../sibling"]
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{filepath.Join("..", "sibling")}, cfg.Cleanup[0].Remove)
			},
		},
		{
			name: "bad_log_level",
			config: `
cleanup:
  - remove: [x]
log:
  level: loud
`,
			errContains: "log.level",
		},
		{
			name: "unknown_field",
			config: `
cleanup:
  - remove: [x]
    forever: true
`,
			errContains: "parsing YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "config.yaml", tt.config)

			cfg, err := Load(testContext(t), path)
			if tt.errContains != "" {
				require.Error(t, err, "Load should return error")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}

			require.NoError(t, err, "Load should succeed")
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	ctx := testContext(t)

	_, err := Load(ctx, filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")

	path := writeConfig(t, "config.ini", "a=b")
	_, err = Load(ctx, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no parser found for file")
}

func TestGetParser(t *testing.T) {
	tests := []struct {
		filename string
		want     Parser
	}{
		{"a.yaml", &YAMLParser{}},
		{"a.YML", &YAMLParser{}},
		{"a.json", &JSONParser{}},
		{"a.toml", &TOMLParser{}},
		{"dir/a.hcl", &HCLParser{}},
		{"a.txt", nil},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got := GetParser(tt.filename)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.IsType(t, tt.want, got)
		})
	}
}

func TestParseAge(t *testing.T) {
	tests := []struct {
		in        string
		want      time.Duration
		wantError string
	}{
		{in: "7d", want: 7 * 24 * time.Hour},
		{in: "90m", want: 90 * time.Minute},
		{in: " 1h30m ", want: 90 * time.Minute},
		{in: "0s", wantError: "must be positive"},
		{in: "-1d", wantError: "must be positive"},
		{in: "xd", wantError: "invalid day count"},
		{in: "106751d", want: 106751 * 24 * time.Hour},
		{in: "200000000d", wantError: "out of range"},
		{in: "99999999999999999999d", wantError: "invalid day count"},
		{in: "soon", wantError: "invalid duration"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAge(tt.in)
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
