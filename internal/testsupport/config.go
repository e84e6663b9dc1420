// Package testsupport provides shared fixtures for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"lyricbar/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// History is disabled by default to keep tests free of database files.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.CacheDir = filepath.Join(base, "lyrics")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.History.Enabled = false

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithScriptCommand sets the external lookup command on the test config.
func WithScriptCommand(command string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Script.Command = command
	}
}

// WithHistory enables the journal with a database under the data directory.
func WithHistory() ConfigOption {
	return func(cfg *config.Config) {
		cfg.History.Enabled = true
	}
}
