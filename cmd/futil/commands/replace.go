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
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/futil/cmd/futil/opts"
	"github.com/walteh/futil/pkg/log"
	"github.com/walteh/futil/pkg/operation"
	"github.com/walteh/futil/pkg/text"
)

// NewReplaceCmd creates a new replace command
func NewReplaceCmd(o *opts.RootOpts) *cobra.Command {
	var ruleFlags []string

	cmd := &cobra.Command{
		Use:   "replace [files...]",
		Short: "Apply find/replace rules to files",
		Long: `Replace rewrites files in place with an ordered list of literal rules.

With file arguments, rules come from --rule flags, each either
"find=replace" or "find=replace=count". Without arguments, the replace
jobs from the config file are run.

Rules apply in order, each to the output of the previous one. A file is
never left half written.`,
		Example: `  futil replace --rule 'foo=bar' --rule 'l=1=1' notes.txt
  futil replace -c .futil.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "replace").Logger().WithContext(cmd.Context())

			return o.Logger.Recover(ctx, func(ctx context.Context) error {
				if len(args) == 0 {
					return runReplaceJobs(ctx, o)
				}
				return runReplaceFiles(ctx, o, args, ruleFlags)
			})
		},
	}

	cmd.Flags().StringArrayVarP(&ruleFlags, "rule", "r", nil, `rule as "find=replace" or "find=replace=count"`)

	return cmd
}

func runReplaceJobs(ctx context.Context, o *opts.RootOpts) error {
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

	o.Logger.Header("running replace jobs")
	results, err := runner.Replace(ctx)
	if err != nil {
		return errors.Errorf("replacing: %w", err)
	}

	modified := 0
	for _, r := range results {
		if r.Modified {
			modified++
		}
	}
	o.UserLogger.LogSummary("rewrote files", modified)
	return nil
}

func runReplaceFiles(ctx context.Context, o *opts.RootOpts, files, ruleFlags []string) error {
	if len(ruleFlags) == 0 {
		return errors.Errorf("at least one --rule is required when files are given")
	}

	rules, err := ParseRuleFlags(ruleFlags)
	if err != nil {
		return err
	}

	modified := 0
	for _, path := range files {
		n, err := text.RewriteFile(ctx, path, rules...)
		op := log.FileOperation{Path: path, Replacements: n, IsModified: n > 0, Status: "unchanged"}
		if n > 0 {
			op.Status = "rewritten"
			modified++
		}
		if err != nil {
			op.Failed = true
			op.Status = "failed"
		}
		o.Logger.LogFileOperation(ctx, op)
		if err != nil {
			return err
		}
	}

	o.UserLogger.LogSummary("rewrote files", modified)
	return nil
}

// ParseRuleFlags turns "find=replace" and "find=replace=count" flag values
// into rules. The find text cannot contain "=".
func ParseRuleFlags(values []string) ([]text.Rule, error) {
	tuples := make([][]any, 0, len(values))
	for i, v := range values {
		parts := strings.SplitN(v, "=", 3)
		if len(parts) < 2 {
			return nil, errors.Errorf("rule %d %q: expected find=replace", i, v)
		}

		tuple := []any{parts[0], parts[1]}
		if len(parts) == 3 {
			count, err := strconv.Atoi(parts[2])
			if err != nil {
				return nil, errors.Errorf("rule %d %q: count must be an integer", i, v)
			}
			tuple = append(tuple, count)
		}
		tuples = append(tuples, tuple)
	}

	rules, err := text.ParseRules(tuples)
	if err != nil {
		return nil, errors.Errorf("parsing rules: %w", err)
	}
	return rules, nil
}
