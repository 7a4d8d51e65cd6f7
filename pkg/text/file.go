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

package text

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📝 ApplyRulesToFile rewrites the file at path with rules applied to its
// contents.
//
// The new contents are written to a temporary file next to path and renamed
// over it, so the original is left intact if substitution or writing fails.
// The file keeps its permission bits. A symlinked path rewrites the file the
// link points to and leaves the link in place.
func ApplyRulesToFile(ctx context.Context, path string, rules ...Rule) error {
	_, err := RewriteFile(ctx, path, rules...)
	return err
}

// RewriteFile is ApplyRulesToFile that also reports how many occurrences were
// replaced. A file with zero replacements is not rewritten.
func RewriteFile(ctx context.Context, path string, rules ...Rule) (int, error) {
	logger := zerolog.Ctx(ctx)

	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return 0, errors.Errorf("reading %s: %w", path, err)
	}

	info, err := os.Stat(target)
	if err != nil {
		return 0, errors.Errorf("reading %s: %w", path, err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		return 0, errors.Errorf("reading %s: %w", path, err)
	}

	out, count, err := applyRules(string(data), rules)
	if err != nil {
		return 0, errors.Errorf("applying rules to %s: %w", path, err)
	}

	if count == 0 {
		logger.Debug().Str("path", path).Msg("no replacements, leaving file untouched")
		return 0, nil
	}

	if err := writeFileAtomic(target, []byte(out), info.Mode().Perm()); err != nil {
		return 0, errors.Errorf("writing %s: %w", path, err)
	}

	logger.Debug().Str("path", path).Str("target", target).Int("replacements", count).Msg("rewrote file")
	return count, nil
}

// writeFileAtomic writes data to a temp file in the same directory, syncs it
// and renames it over path.
func writeFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmp := f.Name()

	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}
	if err = f.Sync(); err != nil {
		return errors.Errorf("syncing temp file: %w", err)
	}
	if err = f.Close(); err != nil {
		return errors.Errorf("closing temp file: %w", err)
	}
	if err = os.Chmod(tmp, perm); err != nil {
		return errors.Errorf("setting permissions: %w", err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return errors.Errorf("renaming temp file: %w", err)
	}
	return nil
}
