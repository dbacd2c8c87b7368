// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgekit/pkgcore/internal/pkglog"
	"github.com/forgekit/pkgcore/planner"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report what ensure would do, without applying it",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := pkglog.New(cmd.ErrOrStderr())
		sup := buildSupplier(config)

		_, actions, err := runPlan(flagRoot, sup, log)
		if err != nil {
			return err
		}

		printActions(cmd, actions)
		return nil
	},
}

func printActions(cmd *cobra.Command, actions []planner.Action) {
	if len(actions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "up to date")
		return
	}
	for _, a := range actions {
		switch a.Kind {
		case planner.Conflict, planner.Failure:
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%v\n", a.Kind, a.Name, a.Issuers)
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", a.Kind, a.Name, a.Constraint)
		}
	}
}
