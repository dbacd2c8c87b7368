// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/forgekit/pkgcore/appview"
	"github.com/forgekit/pkgcore/installer"
	"github.com/forgekit/pkgcore/internal/pkglog"
)

var removeCmd = &cobra.Command{
	Use:   "remove <package>",
	Short: "Uninstall a single module, bypassing the resolver",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := pkglog.New(cmd.ErrOrStderr())
		name := args[0]

		res, err := installer.Uninstall(filepath.Join(flagRoot, appview.ModulesDir, name), name, log)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "removed %s: %d file(s), %d dir(s), %d stray entr(y/ies)\n",
			name, res.FilesRemoved, res.DirsRemoved, len(res.Strays))
		return nil
	},
}
