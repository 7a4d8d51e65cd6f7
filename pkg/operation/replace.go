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
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/futil/pkg/config"
	"github.com/walteh/futil/pkg/log"
	"github.com/walteh/futil/pkg/text"
)

// 🔄 Replace runs every replace job in order and returns one result per
// matched file. The first failing file stops the job and its error is
// returned along with the results gathered so far.
func (r *Runner) Replace(ctx context.Context) ([]FileResult, error) {
	var all []FileResult
	for i := range r.cfg.Replace {
		job := &r.cfg.Replace[i]
		results, err := r.replaceJob(ctx, jobName(job.Name, "replace", i), job)
		all = append(all, results...)
		if err != nil {
			return all, err
		}
	}
	return all, nil
}

func (r *Runner) replaceJob(ctx context.Context, name string, job *config.ReplaceJob) ([]FileResult, error) {
	logger := zerolog.Ctx(ctx).With().Str("job", name).Logger()

	files, err := r.expand(job.Files)
	if err != nil {
		return nil, errors.Errorf("job %s: %w", name, err)
	}
	if len(files) == 0 {
		logger.Warn().Strs("globs", job.Files).Msg("no files matched")
		r.logger.Warningf("%s: no files matched", name)
		return nil, nil
	}

	rules := job.Compiled()
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, rel := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			n, err := text.RewriteFile(logger.WithContext(gctx), r.resolve(rel), rules...)
			results[i] = FileResult{Job: name, Path: rel, Replacements: n, Modified: n > 0}

			op := log.FileOperation{Path: rel, Replacements: n, IsModified: n > 0, Status: "unchanged"}
			switch {
			case err != nil:
				op.Failed = true
				op.Status = "failed"
			case n > 0:
				op.Status = "rewritten"
			}
			r.logger.LogFileOperation(gctx, op)

			if err != nil {
				return errors.Errorf("job %s: %w", name, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return compact(results), err
	}
	return results, nil
}

// compact drops results for files that were never attempted.
func compact(results []FileResult) []FileResult {
	out := results[:0]
	for _, res := range results {
		if res.Path != "" {
			out = append(out, res)
		}
	}
	return out
}

// expand resolves globs against the base directory into a sorted, unique list
// of regular files, slash separated and relative to the base directory.
func (r *Runner) expand(globs []string) ([]string, error) {
	fsys := os.DirFS(r.baseDir)
	seen := map[string]struct{}{}

	for _, pattern := range globs {
		if filepath.IsAbs(pattern) {
			return nil, errors.Errorf("glob %q must be relative to %s", pattern, r.baseDir)
		}
		pattern = filepath.ToSlash(filepath.Clean(pattern))
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid glob %q", pattern)
		}

		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("expanding %q: %w", pattern, err)
		}
		for _, m := range matches {
			seen[m] = struct{}{}
		}
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}
