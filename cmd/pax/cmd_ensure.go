// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgekit/pkgcore/internal/pkglog"
)

var dryRun bool

var ensureCmd = &cobra.Command{
	Use:   "ensure",
	Short: "Resolve and apply the application's dependency graph",
	Long: `ensure re-materializes the application state, resolves its
dependency graph against the configured supplier, plans an
install/uninstall diff against what's currently installed, and applies
it — unless -n/--dry-run is set, in which case the plan is printed and
nothing is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := pkglog.New(cmd.ErrOrStderr())
		maybeServeMetrics(flagMetricsPort, log)

		sup := buildSupplier(config)
		state, actions, err := runPlan(flagRoot, sup, log)
		if err != nil {
			return err
		}

		printActions(cmd, actions)

		if dryRun || len(actions) == 0 {
			return nil
		}

		completed, err := applyActions(flagRoot, actions, sup, log)
		if err != nil {
			return fmt.Errorf("%d of %d action(s) completed before a fatal error: %w", completed, len(actions), err)
		}

		return state.WriteDepsTxt()
	},
}

func init() {
	ensureCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "print the plan without applying it")
}
