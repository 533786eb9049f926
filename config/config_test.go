package config

import (
	"fmt"
	"path/filepath"
	"testing"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.UI.AltScreen || cfg.Playback.TempoOverride != 0 || cfg.Debug {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Playback.TempoOverride = 400000
	cfg.Playback.DeliverLastEvent = true
	cfg.UI.AltScreen = false
	cfg.AddRecent("/tmp/a.mid")
	if err := cfg.Save(); err != nil {
		t.Fatal(err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Playback != cfg.Playback || got.UI.AltScreen {
		t.Errorf("reloaded %+v, saved %+v", got, cfg)
	}
	if len(got.RecentFiles) != 1 || got.RecentFiles[0] != "/tmp/a.mid" {
		t.Errorf("recent = %v", got.RecentFiles)
	}
}

func TestAddRecent(t *testing.T) {
	cfg := DefaultConfig()
	for i := 0; i < maxRecent+3; i++ {
		cfg.AddRecent(fmt.Sprintf("/songs/%d.mid", i))
	}
	cfg.AddRecent("/songs/5.mid")

	if len(cfg.RecentFiles) != maxRecent {
		t.Fatalf("len = %d", len(cfg.RecentFiles))
	}
	if cfg.RecentFiles[0] != "/songs/5.mid" || cfg.RecentFiles[1] != "/songs/12.mid" {
		t.Errorf("recent = %v", cfg.RecentFiles)
	}
	seen := map[string]bool{}
	for _, p := range cfg.RecentFiles {
		if seen[p] {
			t.Errorf("duplicate %s", p)
		}
		seen[p] = true
	}
}
