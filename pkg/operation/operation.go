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

package operation

import (
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/futil/pkg/config"
	"github.com/walteh/futil/pkg/log"
)

// 📄 FileResult is the outcome for a single file
type FileResult struct {
	Job          string // Name of the job, or its index if unnamed
	Path         string // Path relative to the base directory
	Replacements int    // Occurrences replaced
	Modified     bool   // Whether the file was rewritten
	Removed      bool   // Whether the path was removed
}

// 🔧 Options contains configuration for the runner
type Options struct {
	// Config holds the validated jobs
	Config *config.Config
	// Logger receives one line per file
	Logger *log.Logger
	// BaseDir is where relative globs and paths are resolved, defaults to "."
	BaseDir string
	// Concurrency bounds the files rewritten at once, defaults to GOMAXPROCS
	Concurrency int
	// Now is the clock used by cleanup jobs, defaults to time.Now
	Now func() time.Time
}

// 🏃 Runner executes replace and cleanup jobs
type Runner struct {
	cfg         *config.Config
	logger      *log.Logger
	baseDir     string
	concurrency int
	now         func() time.Time
}

// 🏭 New creates a runner with the given options
func New(opts Options) (*Runner, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.Logger == nil {
		return nil, errors.Errorf("logger is required")
	}

	r := &Runner{
		cfg:         opts.Config,
		logger:      opts.Logger,
		baseDir:     opts.BaseDir,
		concurrency: opts.Concurrency,
		now:         opts.Now,
	}
	if r.baseDir == "" {
		r.baseDir = "."
	}
	if r.concurrency <= 0 {
		r.concurrency = runtime.GOMAXPROCS(0)
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r, nil
}

func (r *Runner) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.baseDir, path)
}

func jobName(name, kind string, index int) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("%s[%d]", kind, index)
}
