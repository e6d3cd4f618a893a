package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

// isolate points HOME at an empty directory so no user config is found.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		t.Fatalf("embedded defaults do not parse: %v", err)
	}
	if cfg != Default() {
		t.Errorf("embedded defaults = %+v, want %+v", cfg, Default())
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestLoad_CustomPathPartialOverride(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, path, "engine:\n  max_cascade: 64\ntui:\n  show_map: false\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Engine.MaxCascade != 64 {
		t.Errorf("MaxCascade = %d, want 64", cfg.Engine.MaxCascade)
	}
	if cfg.TUI.ShowMap {
		t.Error("expected show_map overridden to false")
	}
	if cfg.TUI.HistorySize != 100 {
		t.Errorf("HistorySize = %d, want default 100", cfg.TUI.HistorySize)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want default", cfg.Log.Level)
	}
}

func TestLoad_UserConfig(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".escapecore", "config.yaml"), "log:\n  level: debug\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("ESCAPECORE_LOG_LEVEL", "warn")
	t.Setenv("ESCAPECORE_LOG_FILE", "/tmp/escapecore.log")
	t.Setenv("ESCAPECORE_MAX_CASCADE", "50")
	t.Setenv("ESCAPECORE_RECORDS_ENABLED", "false")
	t.Setenv("ESCAPECORE_RECORDS_PATH", "/tmp/runs.db")
	t.Setenv("ESCAPECORE_SSH_ADDR", "127.0.0.1:2222")
	t.Setenv("ESCAPECORE_HOST_KEY", "/tmp/key")
	t.Setenv("ESCAPECORE_IDLE_TIMEOUT", "5m")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := Default()
	want.Log = LogConfig{Level: "warn", File: "/tmp/escapecore.log"}
	want.Engine.MaxCascade = 50
	want.Records = RecordsConfig{Enabled: false, Path: "/tmp/runs.db"}
	want.Serve = ServeConfig{Address: "127.0.0.1:2222", HostKey: "/tmp/key", IdleTimeout: 5 * time.Minute}
	if cfg != want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}

func TestLoad_Errors(t *testing.T) {
	isolate(t)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing custom config")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, bad, "engine: [not, a, map\n")
	if _, err := Load(bad); err == nil || !strings.Contains(err.Error(), "failed to parse config") {
		t.Errorf("expected parse error, got %v", err)
	}

	t.Setenv("ESCAPECORE_MAX_CASCADE", "lots")
	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Errorf("expected env error, got %v", err)
	}
}

func TestExpandHome(t *testing.T) {
	home := isolate(t)

	got, err := ExpandHome("~/.escapecore/records.db")
	if err != nil {
		t.Fatalf("ExpandHome failed: %v", err)
	}
	if want := filepath.Join(home, ".escapecore", "records.db"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got, _ := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("absolute path changed to %q", got)
	}
}
