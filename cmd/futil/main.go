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
	"context"
	"os"
	"os/signal"

	"github.com/walteh/futil/cmd/futil/opts"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	o := &opts.RootOpts{}
	rootCmd := newRootCmd(o, os.Stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ui := o.UserLogger
		if ui == nil {
			ui = opts.NewUserLogger(ctx, os.Stderr)
		}
		ui.LogValidation(false, "Command failed", err)
		if o.Logger != nil {
			_ = o.Logger.Close()
		}
		stop()
		os.Exit(1)
	}
}
