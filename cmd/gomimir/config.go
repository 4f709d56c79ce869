package main

import (
	"os"

	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the optional YAML run configuration. Command-line flags
// override the file.
type Config struct {
	// Algorithm is one of brfs, iw, siw.
	Algorithm string `yaml:"algorithm"`

	// Width bounds the novelty width for iw and siw.
	Width int `yaml:"width"`

	// Timeout is a Go duration string; empty means no deadline.
	Timeout string `yaml:"timeout"`

	// CacheSize bounds the per-state applicable-action cache.
	CacheSize int `yaml:"cache_size"`

	// Verbose switches the logger to development output.
	Verbose bool `yaml:"verbose"`

	// Workers bounds the batch pool; 0 means one per CPU core.
	Workers int `yaml:"workers"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{Algorithm: "brfs", Width: 2, CacheSize: 4096}
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, pkgerrors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, pkgerrors.Wrap(err, "parse config")
	}
	return cfg, nil
}
