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

// Package cleanup removes stale files and whole paths.
package cleanup

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🧹 RemoveOlderThan deletes regular files under dir whose modification time
// is before now-maxAge and whose slash separated path relative to dir matches
// the doublestar pattern. An empty pattern matches everything.
//
// Removed paths are returned relative to dir, sorted. Directories are never
// removed, even when left empty.
func RemoveOlderThan(ctx context.Context, dir string, maxAge time.Duration, pattern string, now time.Time) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	if maxAge <= 0 {
		return nil, errors.Errorf("max age must be positive, got %s", maxAge)
	}
	if pattern == "" {
		pattern = "**"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.Errorf("invalid pattern %q", pattern)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%s is not a directory", dir)
	}

	cutoff := now.Add(-maxAge)
	var removed []string

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			return errors.Errorf("matching %s: %w", rel, err)
		}
		if !matched {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return err
		}
		if !fi.ModTime().Before(cutoff) {
			return nil
		}

		if err := os.Remove(path); err != nil {
			return errors.Errorf("removing %s: %w", path, err)
		}
		logger.Debug().Str("path", path).Time("mod_time", fi.ModTime()).Msg("removed old file")
		removed = append(removed, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("cleaning %s: %w", dir, err)
	}

	sort.Strings(removed)
	return removed, nil
}

// 🗑️ RemovePath removes path and anything under it. A missing path is not an
// error. The filesystem root and the empty path are refused.
func RemovePath(ctx context.Context, path string) error {
	if path == "" {
		return errors.Errorf("refusing to remove empty path")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Errorf("resolving %s: %w", path, err)
	}
	if abs == filepath.VolumeName(abs)+string(filepath.Separator) {
		return errors.Errorf("refusing to remove filesystem root %s", abs)
	}

	if _, err := os.Lstat(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			zerolog.Ctx(ctx).Debug().Str("path", abs).Msg("path already absent")
			return nil
		}
		return errors.Errorf("reading %s: %w", abs, err)
	}

	if err := os.RemoveAll(abs); err != nil {
		return errors.Errorf("removing %s: %w", abs, err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", abs).Msg("removed path")
	return nil
}
