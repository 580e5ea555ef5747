package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"kmzclean/internal/batch"
	"kmzclean/internal/faults"
	"kmzclean/internal/history"
	"kmzclean/internal/testsupport"
)

const cliKML = `<kml><Document><name>Trail Map</name><GroundOverlay>
<Icon><href>overlay.jpg</href></Icon>
<LatLonBox><north>45</north><south>44</south><east>-70</east><west>-71</west></LatLonBox>
</GroundOverlay></Document></kml>`

// chdirWorkspace moves the test into a fresh working directory with an empty
// HOME so no user configuration leaks in.
func chdirWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(dir)
	return dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootConvertsWorkingDirectory(t *testing.T) {
	dir := chdirWorkspace(t)
	testsupport.WriteArchive(t, filepath.Join(dir, "trail.kmz"),
		testsupport.Entry{Name: "doc.kml", Data: []byte(cliKML)},
		testsupport.Entry{Name: "overlay.jpg", Data: testsupport.ImageBytes(32)},
	)

	out, err := runCLI(t)
	if err != nil {
		t.Fatalf("root command: %v", err)
	}
	if !strings.Contains(out, "trail.kmz") || !strings.Contains(out, "Converted: 1") {
		t.Fatalf("unexpected summary:\n%s", out)
	}
	if entries := testsupport.ReadArchive(t, filepath.Join(dir, "processed_kmz", "trail.kmz")); len(entries) != 2 {
		t.Fatalf("expected converted archive with 2 members, got %d", len(entries))
	}
	log, err := os.ReadFile(filepath.Join(dir, "processed_kmz", "processed_kmz_log.txt"))
	if err != nil {
		t.Fatalf("read processing log: %v", err)
	}
	if string(log) != "trail.kmz - success\n" {
		t.Fatalf("unexpected processing log %q", log)
	}
}

func TestRootSucceedsWhenEveryFileFails(t *testing.T) {
	dir := chdirWorkspace(t)
	testsupport.WriteFile(t, filepath.Join(dir, "broken.zip"), []byte("not a zip"))
	testsupport.WriteArchive(t, filepath.Join(dir, "empty.kmz"),
		testsupport.Entry{Name: "readme.txt", Data: []byte("nothing here")},
	)

	out, err := runCLI(t)
	if err != nil {
		t.Fatalf("expected nil error when files fail, got %v", err)
	}
	if !strings.Contains(out, "Failed:    2") {
		t.Fatalf("expected failure count in summary:\n%s", out)
	}
	if !strings.Contains(out, "archive at discovered") || !strings.Contains(out, "no_kml at discovered") {
		t.Fatalf("expected failure details in summary:\n%s", out)
	}
}

func TestRootReportsEmptyDirectory(t *testing.T) {
	chdirWorkspace(t)
	out, err := runCLI(t)
	if err != nil {
		t.Fatalf("root command: %v", err)
	}
	if !strings.Contains(out, "no .kmz or .zip archives found") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestRootRejectsInvalidConfig(t *testing.T) {
	dir := chdirWorkspace(t)
	testsupport.WriteFile(t, filepath.Join(dir, "kmzclean.toml"), []byte("[overlay]\nbogus = 1\n"))

	if _, err := runCLI(t); err == nil {
		t.Fatal("expected error for unknown config key")
	}
}

func TestHistoryCommand(t *testing.T) {
	dir := chdirWorkspace(t)
	testsupport.WriteFile(t, filepath.Join(dir, "kmzclean.toml"), []byte("[history]\nenabled = true\n"))
	testsupport.WriteArchive(t, filepath.Join(dir, "trail.kmz"),
		testsupport.Entry{Name: "doc.kml", Data: []byte(cliKML)},
		testsupport.Entry{Name: "overlay.jpg", Data: testsupport.ImageBytes(32)},
	)
	testsupport.WriteFile(t, filepath.Join(dir, "broken.zip"), []byte("not a zip"))

	if _, err := runCLI(t); err != nil {
		t.Fatalf("root command: %v", err)
	}
	out, err := runCLI(t, "history", "--limit", "5")
	if err != nil {
		t.Fatalf("history command: %v", err)
	}
	for _, want := range []string{"trail.kmz", "broken.zip", "success", "failed", "archive", "44..45 N"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in history output:\n%s", want, out)
		}
	}
}

func TestHistoryCommandRequiresEnabledLedger(t *testing.T) {
	chdirWorkspace(t)
	if _, err := runCLI(t, "history"); err == nil || !strings.Contains(err.Error(), "history is disabled") {
		t.Fatalf("expected disabled history error, got %v", err)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	dir := chdirWorkspace(t)
	target := filepath.Join(dir, "custom.toml")

	out, err := runCLI(t, "config", "init", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("expected target path in output: %s", out)
	}
	if _, err := runCLI(t, "config", "init", target); err == nil {
		t.Fatal("expected error when config already exists")
	}
	if _, err := runCLI(t, "config", "init", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, err = runCLI(t, "config", "show", "--config", target)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{target, filepath.Join(dir, "processed_kmz"), "overlay.draw_order", "100"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in config show output:\n%s", want, out)
		}
	}
}

func TestConfigInitDefaultsToUserPath(t *testing.T) {
	chdirWorkspace(t)
	if _, err := runCLI(t, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	home := os.Getenv("HOME")
	if _, err := os.Stat(filepath.Join(home, ".config", "kmzclean", "config.toml")); err != nil {
		t.Fatalf("expected user config to be written: %v", err)
	}
}

func TestRenderSummaryColorizes(t *testing.T) {
	summary := batch.Summary{
		RunID: "run",
		Results: []batch.Result{
			{Source: "/w/a.kmz", Output: "/w/processed_kmz/a.kmz", State: batch.StateLogged, Duration: 1500 * time.Millisecond},
			{Source: "/w/b.zip", State: batch.StateFailed, FailedAt: batch.StateParsed, Err: faults.Wrap(faults.ErrArchiveWrite, "write", "", "", errors.New("disk full"))},
		},
		Succeeded: 1,
		Failed:    1,
	}

	plain := renderSummary(summary, "/w/processed_kmz/processed_kmz_log.txt", false)
	if strings.Contains(plain, "\x1b[") {
		t.Fatal("expected no escape codes without a terminal")
	}
	if !strings.Contains(plain, "archive_write at parsed") || !strings.Contains(plain, "1.5s") {
		t.Fatalf("unexpected plain summary:\n%s", plain)
	}

	colored := renderSummary(summary, "log", true)
	if !strings.Contains(colored, ansiGreen) || !strings.Contains(colored, ansiRed) {
		t.Fatalf("expected colorized status:\n%s", colored)
	}
}

func TestRenderHistory(t *testing.T) {
	records := []history.Record{{
		RunID:       "0123456789abcdef",
		Source:      "map.kmz",
		Outcome:     history.OutcomeSuccess,
		HasBox:      true,
		North:       45,
		South:       44,
		East:        -70,
		West:        -71,
		ProcessedAt: time.Now(),
	}}
	out := renderHistory(records, false)
	if !strings.Contains(out, "01234567") || strings.Contains(out, "89abcdef") {
		t.Fatalf("expected shortened run id:\n%s", out)
	}
}
