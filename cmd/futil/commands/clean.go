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

package commands

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/futil/cmd/futil/opts"
	"github.com/walteh/futil/pkg/cleanup"
	"github.com/walteh/futil/pkg/log"
	"github.com/walteh/futil/pkg/operation"
)

// NewCleanCmd creates a new clean command
func NewCleanCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove old files listed in the config",
		Long: `Clean runs the cleanup jobs from the config file.
Each job can:
1. Remove files under a directory older than max_age that match pattern
2. Remove listed paths, recursively`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "clean").Logger().WithContext(cmd.Context())

			return o.Logger.Recover(ctx, func(ctx context.Context) error {
				cfg, err := o.Config(ctx)
				if err != nil {
					return err
				}

				runner, err := operation.New(operation.Options{
					Config:  cfg,
					Logger:  o.Logger,
					BaseDir: filepath.Dir(cfg.Location()),
				})
				if err != nil {
					return errors.Errorf("creating runner: %w", err)
				}

				o.Logger.Header("running cleanup jobs")
				results, err := runner.Clean(ctx)
				if err != nil {
					return errors.Errorf("cleaning: %w", err)
				}

				o.UserLogger.LogSummary("removed paths", len(results))
				return nil
			})
		},
	}

	return cmd
}

// NewRmCmd creates a new rm command
func NewRmCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <path>...",
		Short: "Remove paths recursively",
		Long:  `Rm removes each path and everything under it. Missing paths are skipped.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "rm").Logger().WithContext(cmd.Context())

			return o.Logger.Recover(ctx, func(ctx context.Context) error {
				for _, p := range args {
					if err := cleanup.RemovePath(ctx, p); err != nil {
						o.Logger.LogFileOperation(ctx, log.FileOperation{Path: p, Failed: true, Status: "failed"})
						return err
					}
					o.Logger.LogFileOperation(ctx, log.FileOperation{Path: p, IsRemoved: true, Status: "removed"})
				}
				o.UserLogger.LogSummary("removed paths", len(args))
				return nil
			})
		},
	}

	return cmd
}
