package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOrCreateWritesDefaultsOnFirstLaunch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if cfg.ItemsPerPage != 5 {
		t.Errorf("ItemsPerPage = %d, want 5", cfg.ItemsPerPage)
	}
	if cfg.ReminderIntervalSecs != 60 {
		t.Errorf("ReminderIntervalSecs = %d, want 60", cfg.ReminderIntervalSecs)
	}
	if cfg.NoticeTimeoutSecs != 5 {
		t.Errorf("NoticeTimeoutSecs = %d, want 5", cfg.NoticeTimeoutSecs)
	}
	if cfg.Keys.Add != "a" || cfg.Keys.Search != "/" {
		t.Errorf("default keymap = %+v", cfg.Keys)
	}

	// Second launch reads the written file back.
	again, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("second LoadOrCreate failed: %v", err)
	}
	if again != cfg {
		t.Errorf("reloaded config differs:\n got %+v\nwant %+v", again, cfg)
	}
}

func TestLoadOrCreateBackfillsMissingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	partial := []byte("store_path = \"\"\nitems_per_page = 0\n")
	if err := os.WriteFile(path, partial, 0o644); err != nil {
		t.Fatalf("write partial config: %v", err)
	}

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate failed: %v", err)
	}
	if cfg.StorePath != DefaultStoreName {
		t.Errorf("StorePath = %q, want %q", cfg.StorePath, DefaultStoreName)
	}
	if cfg.LogPath != DefaultLogName {
		t.Errorf("LogPath = %q, want %q", cfg.LogPath, DefaultLogName)
	}
	if cfg.ItemsPerPage != 5 {
		t.Errorf("ItemsPerPage = %d, want 5", cfg.ItemsPerPage)
	}
	if cfg.ReminderIntervalSecs != 60 {
		t.Errorf("ReminderIntervalSecs = %d, want 60", cfg.ReminderIntervalSecs)
	}
}

func TestLoadOrCreateRejectsMalformedToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("items_per_page = [broken"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadOrCreate(path); err == nil {
		t.Error("malformed config accepted")
	}
}
