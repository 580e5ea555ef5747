package testsupport

import (
	"path/filepath"
	"testing"

	"kmzclean/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a unique temp work directory with the
// conventional processed_kmz/ layout beneath it, then applies any options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.WorkDir = base
	cfgVal.Paths.OutputDir = filepath.Join(base, "processed_kmz")
	cfgVal.Paths.LogFile = filepath.Join(cfgVal.Paths.OutputDir, "processed_kmz_log.txt")
	cfgVal.Paths.TempDir = filepath.Join(t.TempDir(), "extract")
	cfgVal.History.Path = filepath.Join(cfgVal.Paths.OutputDir, "history.db")

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

// WithHistory enables the SQLite processing ledger.
func WithHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = true
	}
}

// WithOverlayName overrides the GroundOverlay name written into outputs.
func WithOverlayName(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Overlay.Name = name
	}
}

// WorkDir returns the temp directory scanned for inputs.
func WorkDir(cfg *config.Config) string {
	return cfg.Paths.WorkDir
}
