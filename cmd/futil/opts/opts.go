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

package opts

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/futil/pkg/config"
	"github.com/walteh/futil/pkg/log"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string
	LogFile    string
	Debug      bool
	NoColor    bool

	Logger     *log.Logger
	UserLogger *UserLogger

	cfg *config.Config
}

// Level returns the log level selected by flags, falling back to the config.
func (o *RootOpts) Level() zerolog.Level {
	if o.Debug {
		return zerolog.DebugLevel
	}
	if o.cfg != nil {
		return o.cfg.LogLevel()
	}
	return zerolog.InfoLevel
}

// Config loads the config file once and caches it.
func (o *RootOpts) Config(ctx context.Context) (*config.Config, error) {
	if o.cfg != nil {
		return o.cfg, nil
	}
	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	o.cfg = cfg
	return cfg, nil
}

// SetConfig installs an already loaded config.
func (o *RootOpts) SetConfig(cfg *config.Config) {
	o.cfg = cfg
}
