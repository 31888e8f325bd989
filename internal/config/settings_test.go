package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "nope", "settings.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Errorf("missing file settings (-want +got):\n%s", diff)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panzoomrotate", "settings.toml")

	s := Default()
	s.Hotkey = "ctrl+shift+f9"
	s.CenteredZoom = true
	s.ZoomFactor = 1.25
	s.WindowWidth = 1920
	s.WindowHeight = 1080

	if err := Save(path, s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestLoadToleratesUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	content := "hotkey = \"ctrl+p\"\nsome_future_option = true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Hotkey != "ctrl+p" {
		t.Errorf("Hotkey = %q, want %q", got.Hotkey, "ctrl+p")
	}
}

func TestViewportConfig(t *testing.T) {
	s := Default()
	s.MinScale = 0.5
	s.MaxScale = 8
	s.CenteredRotation = false

	cfg := s.Viewport()
	if cfg.MinScale != 0.5 || cfg.MaxScale != 8 {
		t.Errorf("scale bounds = [%v, %v], want [0.5, 8]", cfg.MinScale, cfg.MaxScale)
	}
	if cfg.CenteredRotation {
		t.Error("CenteredRotation not carried through")
	}
}
