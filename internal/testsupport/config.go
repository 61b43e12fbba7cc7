package testsupport

import (
	"path/filepath"
	"testing"

	"episodestats/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Logging.Dir = filepath.Join(base, "logs")
	cfgVal.Export.Dir = filepath.Join(base, "exports")

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithDelimiter overrides the source delimiter.
func WithDelimiter(delimiter string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Source.Delimiter = delimiter
	}
}

// WithMetricsTextfile enables the metrics textfile inside the temp dir.
func WithMetricsTextfile() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Metrics.TextfilePath = filepath.Join(b.baseDir, "metrics", "episodestats.prom")
	}
}
