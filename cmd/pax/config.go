package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is pax's optional on-disk configuration, grounded on
// AleutianLocal's cmd/aleutian config.yaml loading (rootCmd.PersistentPreRun
// there parses YAML into a package-level Config the same way).
type Config struct {
	// Registry is the base URL of an HTTP-backed package registry.
	Registry string `yaml:"registry"`
	// VCSRemotes maps a package name to its repository URL, for VCS-backed
	// suppliers.
	VCSRemotes map[string]string `yaml:"vcs_remotes"`
	// LocalCatalog is the root of a filesystem-backed catalog, for
	// Local-supplier setups.
	LocalCatalog string `yaml:"local_catalog"`
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
