package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ferro.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
max_call_depth: 500
history_db: /tmp/ferro-history.db
no_stdlib: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxCallDepth != 500 {
		t.Errorf("max_call_depth: got %d", cfg.MaxCallDepth)
	}
	if cfg.HistoryDB != "/tmp/ferro-history.db" {
		t.Errorf("history_db: got %q", cfg.HistoryDB)
	}
	if !cfg.NoStdlib {
		t.Error("no_stdlib not set")
	}
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadPartialConfig(t *testing.T) {
	path := writeConfig(t, "max_call_depth: 50\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxCallDepth != 50 || cfg.HistoryDB != "" || cfg.NoStdlib {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadRejectsNegativeDepth(t *testing.T) {
	path := writeConfig(t, "max_call_depth: -1\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "max_call_depth: [not an int\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error")
	}
}
