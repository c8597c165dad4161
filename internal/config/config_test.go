package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != *Default() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	data := "save_directory: " + dir + "\nsnap_radius: 14\nauto_reconnect: false\ngrid_size: -3\nconfirmations: false\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SnapRadius != 14 || cfg.AutoReconnect || cfg.Confirmations {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.GridSize != 20 {
		t.Errorf("invalid grid size should fall back, got %d", cfg.GridSize)
	}
	if cfg.Zoom != 1 || cfg.PageWidth != 800 {
		t.Errorf("unset keys should keep defaults: %+v", cfg)
	}
	if got := cfg.GetSavePath("flow.json"); got != filepath.Join(dir, "flow.json") {
		t.Errorf("GetSavePath = %s", got)
	}
	if got := cfg.LibraryPath(); got != filepath.Join(dir, "library.db") {
		t.Errorf("LibraryPath = %s", got)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	os.WriteFile(path, []byte("snap_radius: [1, 2"), 0644)
	cfg, err := Load(path)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if *cfg != *Default() {
		t.Error("a parse error should still return defaults")
	}
}

func TestGetSavePathWithoutDirectory(t *testing.T) {
	cfg := Default()
	if got := cfg.GetSavePath("a.json"); got != "a.json" {
		t.Errorf("GetSavePath = %s", got)
	}
}
