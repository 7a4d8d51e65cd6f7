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
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/futil/pkg/text"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🗺️ ParseMapping parses the file into an untyped mapping
	ParseMapping(ctx context.Context, data []byte) (Mapping, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

func hasExt(filename string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// 🔄 RuleSpec is a find/replace rule as written in a config file
type RuleSpec struct {
	Find    string `json:"find" yaml:"find" toml:"find" hcl:"find"`
	Replace string `json:"replace" yaml:"replace" toml:"replace" hcl:"replace"`
	Count   *int   `json:"count,omitempty" yaml:"count,omitempty" toml:"count,omitempty" hcl:"count,optional"`
}

// 📝 ReplaceJob applies a rule sequence to every file matching Files
type ReplaceJob struct {
	Name  string     `json:"name" yaml:"name" toml:"name" hcl:"name,label"`
	Files []string   `json:"files" yaml:"files" toml:"files" hcl:"files"`
	Rules []RuleSpec `json:"rules" yaml:"rules" toml:"rules" hcl:"rule,block"`

	rules []text.Rule
}

// Compiled returns the job's rules. Only valid after Validate.
func (j *ReplaceJob) Compiled() []text.Rule {
	return j.rules
}

// 🧹 CleanupJob removes old files under Dir, and/or the listed paths
type CleanupJob struct {
	Name    string   `json:"name" yaml:"name" toml:"name" hcl:"name,label"`
	Dir     string   `json:"dir,omitempty" yaml:"dir,omitempty" toml:"dir,omitempty" hcl:"dir,optional"`
	Pattern string   `json:"pattern,omitempty" yaml:"pattern,omitempty" toml:"pattern,omitempty" hcl:"pattern,optional"`
	MaxAge  string   `json:"max_age,omitempty" yaml:"max_age,omitempty" toml:"max_age,omitempty" hcl:"max_age,optional"`
	Remove  []string `json:"remove,omitempty" yaml:"remove,omitempty" toml:"remove,omitempty" hcl:"remove,optional"`

	maxAge time.Duration
}

// Age returns the parsed MaxAge. Only valid after Validate.
func (j *CleanupJob) Age() time.Duration {
	return j.maxAge
}

// 📒 LogConfig configures the log file
type LogConfig struct {
	Path  string `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty" hcl:"path,optional"`
	Level string `json:"level,omitempty" yaml:"level,omitempty" toml:"level,omitempty" hcl:"level,optional"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Replace []ReplaceJob `json:"replace,omitempty" yaml:"replace,omitempty" toml:"replace,omitempty" hcl:"replace,block"`
	Cleanup []CleanupJob `json:"cleanup,omitempty" yaml:"cleanup,omitempty" toml:"cleanup,omitempty" hcl:"cleanup,block"`
	Log     *LogConfig   `json:"log,omitempty" yaml:"log,omitempty" toml:"log,omitempty" hcl:"log,block"`

	location string
}

// Location returns the path the config was loaded from.
func (cfg *Config) Location() string {
	return cfg.location
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	cfg.location = path
	logger.Debug().
		Int("replace_jobs", len(cfg.Replace)).
		Int("cleanup_jobs", len(cfg.Cleanup)).
		Msg("configuration loaded")

	return cfg, nil
}

// 🔍 Validate checks the configuration, fills defaults and compiles rules
func (cfg *Config) Validate() error {
	if len(cfg.Replace) == 0 && len(cfg.Cleanup) == 0 {
		return errors.Errorf("config defines no replace or cleanup jobs")
	}

	for i := range cfg.Replace {
		if err := cfg.Replace[i].validate(); err != nil {
			return errors.Errorf("replace[%d]: %w", i, err)
		}
	}

	for i := range cfg.Cleanup {
		if err := cfg.Cleanup[i].validate(); err != nil {
			return errors.Errorf("cleanup[%d]: %w", i, err)
		}
	}

	if cfg.Log == nil {
		cfg.Log = &LogConfig{}
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		return errors.Errorf("log.level: %w", err)
	}

	return nil
}

// LogLevel returns the configured zerolog level.
func (cfg *Config) LogLevel() zerolog.Level {
	if cfg.Log == nil {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || cfg.Log.Level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

func (j *ReplaceJob) validate() error {
	if len(j.Files) == 0 {
		return errors.Errorf("files is required")
	}
	if len(j.Rules) == 0 {
		return errors.Errorf("rules is required")
	}

	j.rules = make([]text.Rule, 0, len(j.Rules))
	for i, rs := range j.Rules {
		rule, err := rs.Rule()
		if err != nil {
			return errors.Errorf("rules[%d]: %w", i, err)
		}
		j.rules = append(j.rules, rule)
	}
	return nil
}

// Rule converts the config entry to a text.Rule.
func (s RuleSpec) Rule() (text.Rule, error) {
	if s.Count == nil {
		return text.NewRule(s.Find, s.Replace), nil
	}
	return text.NewCountedRule(s.Find, s.Replace, *s.Count)
}

func (j *CleanupJob) validate() error {
	if j.Dir == "" && len(j.Remove) == 0 {
		return errors.Errorf("dir or remove is required")
	}

	if j.Dir != "" {
		if j.MaxAge == "" {
			return errors.Errorf("max_age is required with dir")
		}
		age, err := ParseAge(j.MaxAge)
		if err != nil {
			return errors.Errorf("max_age: %w", err)
		}
		j.maxAge = age
		j.Dir = filepath.Clean(j.Dir)
	}

	if j.Pattern == "" {
		j.Pattern = "**"
	}

	for i, p := range j.Remove {
		if strings.TrimSpace(p) == "" {
			return errors.Errorf("remove[%d]: path is empty", i)
		}
		p = filepath.Clean(p)
		if !filepath.IsAbs(p) && onlyParents(p) {
			return errors.Errorf("remove[%d]: %q would remove the config directory", i, p)
		}
		j.Remove[i] = p
	}
	return nil
}

// onlyParents reports whether a cleaned relative path is "." or made up of
// ".." elements only, i.e. names the base directory or one of its parents.
func onlyParents(p string) bool {
	if p == "." {
		return true
	}
	for _, elem := range strings.Split(filepath.ToSlash(p), "/") {
		if elem != ".." {
			return false
		}
	}
	return true
}

const (
	day        = 24 * time.Hour
	maxAgeDays = int64(math.MaxInt64 / day)
)

// ⏳ ParseAge parses a positive duration. Besides time.ParseDuration syntax it
// accepts a whole number of days, e.g. "7d".
func ParseAge(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	var d time.Duration
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.ParseInt(days, 10, 64)
		if err != nil {
			return 0, errors.Errorf("invalid day count %q", s)
		}
		if n > maxAgeDays {
			return 0, errors.Errorf("day count %q is out of range", s)
		}
		d = time.Duration(n) * day
	} else {
		var err error
		d, err = time.ParseDuration(s)
		if err != nil {
			return 0, errors.Errorf("invalid duration %q: %w", s, err)
		}
	}

	if d <= 0 {
		return 0, errors.Errorf("duration must be positive, got %q", s)
	}
	return d, nil
}
