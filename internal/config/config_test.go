package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bryan-cox/jotledger/internal/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JOT_FILE", "")
	t.Setenv("JOT_DEFAULT_STATE", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Load() = %+v, want %+v", cfg, Default())
	}
}

func TestLoad_File(t *testing.T) {
	t.Setenv("JOT_FILE", "")
	t.Setenv("JOT_DEFAULT_STATE", "")

	path := writeConfig(t, "file: /tmp/jots.json\ndefault_state: in-progress\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.File != "/tmp/jots.json" {
		t.Errorf("File = %q", cfg.File)
	}
	if cfg.DefaultState != model.StateInProgress {
		t.Errorf("DefaultState = %s", cfg.DefaultState)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "file: from-file.yml\n")
	t.Setenv("JOT_FILE", "from-env.db")
	t.Setenv("JOT_DEFAULT_STATE", "Failed")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.File != "from-env.db" {
		t.Errorf("File = %q, want from-env.db", cfg.File)
	}
	if cfg.DefaultState != model.StateFailed {
		t.Errorf("DefaultState = %s, want Failed", cfg.DefaultState)
	}
}

func TestLoad_InvalidState(t *testing.T) {
	t.Setenv("JOT_FILE", "")
	t.Setenv("JOT_DEFAULT_STATE", "")

	path := writeConfig(t, "default_state: someday\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown default_state")
	}
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := Path(); got != filepath.Join("/xdg", "jot", "config.yaml") {
		t.Errorf("Path() = %q", got)
	}
}
