package testsupport

import (
	"path/filepath"
	"testing"

	"trackmatch/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Review.DBPath = filepath.Join(base, "data", "review.db")
	cfgVal.Batch.LockPath = filepath.Join(base, "data", "batch.lock")
	cfgVal.Batch.Workers = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithCatalog points the config at a catalog file and optional album index.
func WithCatalog(path, albumsPath string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.Path = path
		b.cfg.Catalog.AlbumsPath = albumsPath
	}
}

// WithWorkers overrides the batch worker count.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Batch.Workers = n
	}
}

// WithReviewDisabled turns off review recording.
func WithReviewDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Review.Enabled = false
	}
}
