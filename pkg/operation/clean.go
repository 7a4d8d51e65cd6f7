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
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/futil/pkg/cleanup"
	"github.com/walteh/futil/pkg/config"
	"github.com/walteh/futil/pkg/log"
)

// 🧹 Clean runs every cleanup job in order
func (r *Runner) Clean(ctx context.Context) ([]FileResult, error) {
	var all []FileResult
	for i := range r.cfg.Cleanup {
		job := &r.cfg.Cleanup[i]
		results, err := r.cleanJob(ctx, jobName(job.Name, "cleanup", i), job)
		all = append(all, results...)
		if err != nil {
			return all, err
		}
	}
	return all, nil
}

func (r *Runner) cleanJob(ctx context.Context, name string, job *config.CleanupJob) ([]FileResult, error) {
	ctx = zerolog.Ctx(ctx).With().Str("job", name).Logger().WithContext(ctx)

	var results []FileResult

	if job.Dir != "" {
		removed, err := cleanup.RemoveOlderThan(ctx, r.resolve(job.Dir), job.Age(), job.Pattern, r.now())
		if err != nil {
			return results, errors.Errorf("job %s: %w", name, err)
		}
		for _, rel := range removed {
			p := path.Join(filepath.ToSlash(job.Dir), rel)
			results = append(results, FileResult{Job: name, Path: p, Removed: true})
			r.logger.LogFileOperation(ctx, log.FileOperation{Path: p, IsRemoved: true, Status: "removed"})
		}
	}

	for _, p := range job.Remove {
		if err := r.checkRemovable(p); err != nil {
			r.logger.LogFileOperation(ctx, log.FileOperation{Path: p, Failed: true, Status: "failed"})
			return results, errors.Errorf("job %s: %w", name, err)
		}
		if err := cleanup.RemovePath(ctx, r.resolve(p)); err != nil {
			r.logger.LogFileOperation(ctx, log.FileOperation{Path: p, Failed: true, Status: "failed"})
			return results, errors.Errorf("job %s: %w", name, err)
		}
		results = append(results, FileResult{Job: name, Path: p, Removed: true})
		r.logger.LogFileOperation(ctx, log.FileOperation{Path: p, IsRemoved: true, Status: "removed"})
	}

	return results, nil
}

// checkRemovable refuses paths that are the base directory or contain it.
func (r *Runner) checkRemovable(p string) error {
	target, err := filepath.Abs(r.resolve(p))
	if err != nil {
		return errors.Errorf("resolving %s: %w", p, err)
	}
	base, err := filepath.Abs(r.baseDir)
	if err != nil {
		return errors.Errorf("resolving %s: %w", r.baseDir, err)
	}

	rel, err := filepath.Rel(target, base)
	if err != nil {
		return nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil
	}
	return errors.Errorf("refusing to remove %s: it contains the base directory %s", p, r.baseDir)
}
