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
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🗺️ Mapping is a config file decoded without a schema
type Mapping map[string]any

// 🎯 LoadConfig reads the file at path into a Mapping, choosing the format
// from the extension.
func LoadConfig(ctx context.Context, path string) (Mapping, error) {
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("loading config mapping")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	m, err := p.ParseMapping(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	if m == nil {
		m = Mapping{}
	}
	return m, nil
}

// Get looks up a dot separated key, descending through nested mappings.
func (m Mapping) Get(key string) (any, bool) {
	var cur any = map[string]any(m)
	for _, part := range strings.Split(key, ".") {
		next, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = next[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// String returns the string at key, or "" if missing or not a string.
func (m Mapping) String(key string) string {
	v, _ := m.Get(key)
	s, _ := v.(string)
	return s
}
