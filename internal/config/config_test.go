package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"kmzclean/internal/config"
)

func TestLoadDefaultsResolveAgainstWorkingDirectory(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	work := t.TempDir()
	t.Chdir(work)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected no config file in temp work dir")
	}
	if resolved != filepath.Join(work, "kmzclean.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if cfg.Paths.WorkDir != work {
		t.Fatalf("unexpected work dir: got %q want %q", cfg.Paths.WorkDir, work)
	}
	wantOutput := filepath.Join(work, "processed_kmz")
	if cfg.Paths.OutputDir != wantOutput {
		t.Fatalf("unexpected output dir: got %q want %q", cfg.Paths.OutputDir, wantOutput)
	}
	if cfg.Paths.LogFile != filepath.Join(wantOutput, "processed_kmz_log.txt") {
		t.Fatalf("unexpected log file %q", cfg.Paths.LogFile)
	}
	if cfg.Overlay.Name != "Map" || cfg.Overlay.DrawOrder != 100 {
		t.Fatalf("unexpected overlay defaults: %+v", cfg.Overlay)
	}
	if cfg.History.Enabled {
		t.Fatal("expected history disabled by default")
	}
	if cfg.HistoryPath() != "" {
		t.Fatalf("expected empty history path when disabled, got %q", cfg.HistoryPath())
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "custom.toml")

	type payload struct {
		Paths struct {
			WorkDir   string `toml:"work_dir"`
			OutputDir string `toml:"output_dir"`
		} `toml:"paths"`
		Overlay struct {
			Name      string `toml:"name"`
			DrawOrder int    `toml:"draw_order"`
		} `toml:"overlay"`
		History struct {
			Enabled bool `toml:"enabled"`
		} `toml:"history"`
	}
	custom := payload{}
	custom.Paths.WorkDir = filepath.Join(tempDir, "maps")
	custom.Paths.OutputDir = "cleaned"
	custom.Overlay.Name = "Topo"
	custom.Overlay.DrawOrder = 5
	custom.History.Enabled = true
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	wantOutput := filepath.Join(tempDir, "maps", "cleaned")
	if cfg.Paths.OutputDir != wantOutput {
		t.Fatalf("expected output dir under work dir, got %q", cfg.Paths.OutputDir)
	}
	if cfg.Overlay.Name != "Topo" || cfg.Overlay.DrawOrder != 5 {
		t.Fatalf("unexpected overlay: %+v", cfg.Overlay)
	}
	if cfg.HistoryPath() != filepath.Join(wantOutput, "history.db") {
		t.Fatalf("unexpected history path %q", cfg.HistoryPath())
	}
}

func TestLoadProjectFileFromWorkingDirectory(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	work := t.TempDir()
	t.Chdir(work)
	if err := os.WriteFile(filepath.Join(work, "kmzclean.toml"), []byte("[overlay]\nname = \"Quad\"\n"), 0o644); err != nil {
		t.Fatalf("write project config: %v", err)
	}

	cfg, _, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected project config to be found")
	}
	if cfg.Overlay.Name != "Quad" {
		t.Fatalf("expected overlay name from project file, got %q", cfg.Overlay.Name)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[overlay]\ncolour = \"red\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected unknown key to fail parsing")
	}
}

func TestValidate(t *testing.T) {
	base := t.TempDir()
	valid := func() config.Config {
		cfg := config.Default()
		cfg.Paths.WorkDir = base
		cfg.Paths.OutputDir = filepath.Join(base, "out")
		cfg.Paths.LogFile = filepath.Join(base, "out", "log.txt")
		return cfg
	}

	cases := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"valid", func(*config.Config) {}, ""},
		{"same dirs", func(c *config.Config) { c.Paths.OutputDir = base }, "must differ"},
		{"negative draw order", func(c *config.Config) { c.Overlay.DrawOrder = -1 }, "draw_order"},
		{"bad format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"empty name", func(c *config.Config) { c.Overlay.Name = "" }, "overlay.name"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "kmzclean.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("expected sample config to load cleanly, exists=%v err=%v", exists, err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.TempDir = filepath.Join(base, "tmp")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.OutputDir, cfg.Paths.TempDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q: %v", dir, err)
		}
	}
}
