// Package config loads runtime settings from an optional ferro.yaml
// file. Command-line flags override anything set here.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = "ferro.yaml"

// Config holds interpreter settings.
type Config struct {
	// MaxCallDepth is the recursion limit. Zero means the built-in
	// default.
	MaxCallDepth int `yaml:"max_call_depth"`
	// HistoryDB is the path to the REPL history database. Empty
	// disables persistence.
	HistoryDB string `yaml:"history_db"`
	// NoStdlib disables loading the prelude.
	NoStdlib bool `yaml:"no_stdlib"`
}

// Default returns the zero-value config, which leaves every setting at
// its built-in default.
func Default() Config {
	return Config{}
}

// Load reads a config file. A missing file is not an error and yields
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.MaxCallDepth < 0 {
		return cfg, fmt.Errorf("config %s: max_call_depth must not be negative", path)
	}
	return cfg, nil
}

// LoadDefault loads ferro.yaml from the current directory if present.
func LoadDefault() (Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return Default(), nil
	}
	return Load(filepath.Join(wd, DefaultFileName))
}
