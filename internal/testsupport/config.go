package testsupport

import (
	"path/filepath"
	"testing"

	"skysplit/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ParentDir = filepath.Join(base, "parents")
	cfg.Paths.SplitDir = filepath.Join(base, "splits")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.LedgerPath = filepath.Join(base, "ledger.db")
	cfg.API.Key = "test"
	cfg.Batch.DelaySeconds = 0
	cfg.Retry.MaxAttempts = 1
	cfg.Catalog.Path = filepath.Join(base, "catalog.fits")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure config directories: %v", err)
	}
	return &cfg
}

// WithAPIKey sets the API key on the test config.
func WithAPIKey(key string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.API.Key = key
	}
}

// WithBaseURL points the test config at a local test server.
func WithBaseURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.API.BaseURL = url
	}
}

// WithWorkers sets the batch worker count on the test config.
func WithWorkers(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Batch.Workers = n
	}
}
