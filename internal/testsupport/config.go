package testsupport

import (
	"path/filepath"
	"testing"

	"bisub/internal/config"
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
	cfgVal.Paths.TrackADir = filepath.Join(base, "track_a")
	cfgVal.Paths.TrackBDir = filepath.Join(base, "track_b")
	cfgVal.Paths.VideoDir = filepath.Join(base, "videos")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithPolicy overrides the default alignment policy.
func WithPolicy(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Alignment.Policy = policy
	}
}

// WithoutSeriesFilter disables video filtering by derived series name.
func WithoutSeriesFilter() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Matching.SeriesFilter = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
