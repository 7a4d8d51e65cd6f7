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

package main

import (
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/futil/cmd/futil/commands"
	"github.com/walteh/futil/cmd/futil/opts"
	"github.com/walteh/futil/pkg/log"
)

// newRootCmd builds the command tree around shared options
func newRootCmd(o *opts.RootOpts, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "futil",
		Short: "Small file and text utilities",
		Long: `futil applies ordered find/replace rules to files and cleans up
old files, driven by flags or a YAML, JSON, TOML or HCL job file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd, o, stderr)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if o.Logger == nil {
				return nil
			}
			return o.Logger.Close()
		},
	}

	addRootFlags(cmd, o)

	cmd.AddCommand(
		commands.NewReplaceCmd(o),
		commands.NewCleanCmd(o),
		commands.NewRmCmd(o),
		commands.NewVersionCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", ".futil.yaml", "config file path")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging on stderr")
	cmd.PersistentFlags().StringVar(&o.LogFile, "log-file", "", "append JSON logs to this file")
	cmd.PersistentFlags().BoolVar(&o.NoColor, "no-color", false, "disable colored output")
}

// setupLogging builds the logging context for this run and attaches it to the
// command's context. The config file, when it exists, supplies the log level
// and a default log path, with a relative log path taken from the config's
// directory. A missing config is not an error here.
func setupLogging(cmd *cobra.Command, o *opts.RootOpts, stderr io.Writer) error {
	ctx := cmd.Context()

	// loaded before o.Level so the config's log level applies
	cfg, _ := o.Config(ctx)

	logFile := o.LogFile
	if logFile == "" && cfg != nil && cfg.Log != nil && cfg.Log.Path != "" {
		logFile = cfg.Log.Path
		if !filepath.IsAbs(logFile) {
			logFile = filepath.Join(filepath.Dir(cfg.Location()), logFile)
		}
	}

	logOpts := log.Options{
		Level:   o.Level(),
		Console: cmd.OutOrStdout(),
		NoColor: o.NoColor,
	}
	if o.Debug {
		logOpts.Stderr = stderr
	}

	logger, err := log.InitLogging(logFile, logOpts)
	if err != nil {
		return errors.Errorf("initializing logging: %w", err)
	}

	o.Logger = logger
	ctx = logger.WithContext(ctx)
	o.UserLogger = opts.NewUserLogger(ctx, cmd.OutOrStdout())
	cmd.SetContext(ctx)
	return nil
}
