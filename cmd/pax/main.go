// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command pax is the CLI front end over pkgcore: it re-materializes an
// application's state, resolves its dependency graph, plans an action
// list, and executes it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var (
	flagRoot       string
	flagConfigPath string
	flagRegistry   string
	flagMetricsPort int

	config Config

	rootCmd = &cobra.Command{
		Use:   "pax",
		Short: "pax manages source-package installs for an application tree",
		Long: `pax re-materializes an application's manifest and installed
modules, resolves the dependency graph against a supplier, and applies
the resulting install/uninstall plan.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flagConfigPath)
			if err != nil && !os.IsNotExist(err) {
				return err
			}
			config = cfg
			if flagRegistry != "" {
				config.Registry = flagRegistry
			}
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", ".", "application root directory")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", ".pkgcore.yaml", "path to a pkgcore config file")
	rootCmd.PersistentFlags().StringVar(&flagRegistry, "registry", "", "override the configured registry base URL")
	rootCmd.PersistentFlags().IntVar(&flagMetricsPort, "metrics-port", 0, "serve Prometheus metrics on this port (0 disables)")

	rootCmd.AddCommand(ensureCmd, statusCmd, removeCmd)
}
