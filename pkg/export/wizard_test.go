package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSnapshotWizardConfigRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &SnapshotWizardConfig{
		Path:     "out/netweave.png",
		Format:   "png",
		Size:     "1920x1200",
		Title:    "Prod east segment",
		Legend:   true,
		Insights: false,
	}
	if err := SaveSnapshotWizardConfig(cfg); err != nil {
		t.Fatalf("SaveSnapshotWizardConfig: %v", err)
	}

	loaded, err := LoadSnapshotWizardConfig()
	if err != nil {
		t.Fatalf("LoadSnapshotWizardConfig: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected saved config, got nil")
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch: got %+v, want %+v", loaded, cfg)
	}
}

func TestSnapshotWizardConfigMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	loaded, err := LoadSnapshotWizardConfig()
	if err != nil {
		t.Fatalf("LoadSnapshotWizardConfig: %v", err)
	}
	if loaded != nil {
		t.Errorf("expected nil for missing config, got %+v", loaded)
	}
}

func TestSnapshotWizardConfigCorrupt(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path := SnapshotWizardConfigPath()
	if !strings.HasPrefix(path, dir) {
		t.Fatalf("config path %q not under %q", path, dir)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadSnapshotWizardConfig(); err == nil {
		t.Error("expected error for corrupt config")
	}
}

func TestWizardDimensions(t *testing.T) {
	tests := []struct {
		size string
		w, h int
	}{
		{"1600x1000", 1600, 1000},
		{"1920x1200", 1920, 1200},
		{"", DefaultSnapshotWidth, DefaultSnapshotHeight},
		{"bogus", DefaultSnapshotWidth, DefaultSnapshotHeight},
		{"0x100", DefaultSnapshotWidth, DefaultSnapshotHeight},
		{"-5x100", DefaultSnapshotWidth, DefaultSnapshotHeight},
	}
	for _, tt := range tests {
		cfg := &SnapshotWizardConfig{Size: tt.size}
		w, h := cfg.Dimensions()
		if w != tt.w || h != tt.h {
			t.Errorf("Dimensions(%q) = %dx%d, want %dx%d", tt.size, w, h, tt.w, tt.h)
		}
	}
}

func TestNewSnapshotWizardDefaults(t *testing.T) {
	w := NewSnapshotWizard()
	cfg := w.config
	if cfg.Format != "svg" {
		t.Errorf("default format = %q, want svg", cfg.Format)
	}
	if !cfg.Legend {
		t.Error("legend should default on")
	}
	if w, h := cfg.Dimensions(); w != DefaultSnapshotWidth || h != DefaultSnapshotHeight {
		t.Errorf("default dimensions = %dx%d", w, h)
	}
}
