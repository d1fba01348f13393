// Package config loads the optional compiler configuration file
// (spec.md §10.4 of the expanded specification): recovery-engine
// overrides, color output, and a diagnostics cutoff. No other package in
// this module calls Load.
package config

import (
	"os"

	"github.com/goccy/go-yaml"
)

// FileName is the conventional name of the configuration file.
const FileName = ".qlconfig.yaml"

// RecoveryOverrides holds per-ErrorKind adjustments to the parser's error
// recovery strategies as read from the file (spec.md §4.1's RecoveryEngine
// is pluggable; this is its on-disk configuration surface). The parser's
// DefaultRecoveryEngine does not read them.
type RecoveryOverrides struct {
	// Unrecoverable lists ErrorKind names that should abort the parse
	// immediately rather than use the engine's default strategy.
	Unrecoverable []string `yaml:"unrecoverable,omitempty"`
	// Ignore lists ErrorKind names whose diagnostic should be suppressed
	// entirely.
	Ignore []string `yaml:"ignore,omitempty"`
}

// Config is the full shape of .qlconfig.yaml.
type Config struct {
	Color         bool               `yaml:"color"`
	MaxDiagnostics int               `yaml:"maxDiagnostics"`
	Recovery      RecoveryOverrides  `yaml:"recovery"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{Color: true, MaxDiagnostics: 50}
}

// Load reads path, or Default() if it does not exist. A malformed file is
// still an error: unlike a missing file, it means the user tried to
// configure something and got it wrong.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
