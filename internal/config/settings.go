// Package config persists the user's settings between sessions.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/fredrik-forsberg/PanZoomRotate/pkg/viewport"
)

// Settings is the on-disk configuration. Field names are stable; the file
// is written with current values on exit so new fields pick up defaults.
type Settings struct {
	// Hotkey is the global screenshot combination, e.g. "ctrl+shift+s".
	Hotkey string `toml:"hotkey"`

	CenteredZoom     bool `toml:"centered_zoom"`
	CenteredRotation bool `toml:"centered_rotation"`

	ZoomFactor float64 `toml:"zoom_factor"`
	MinScale   float64 `toml:"min_scale"`
	MaxScale   float64 `toml:"max_scale"`

	WindowWidth  int `toml:"window_width"`
	WindowHeight int `toml:"window_height"`
}

// Default returns the settings used when no file exists yet.
func Default() Settings {
	return Settings{
		Hotkey:           "ctrl+shift+s",
		CenteredZoom:     false,
		CenteredRotation: true,
		ZoomFactor:       viewport.DefaultZoomFactor,
		MinScale:         viewport.DefaultMinScale,
		MaxScale:         viewport.DefaultMaxScale,
		WindowWidth:      1024,
		WindowHeight:     768,
	}
}

// Viewport converts the settings into the viewport tuning.
func (s Settings) Viewport() viewport.Config {
	cfg := viewport.DefaultConfig()
	cfg.MinScale = s.MinScale
	cfg.MaxScale = s.MaxScale
	cfg.ZoomFactor = s.ZoomFactor
	cfg.CenteredZoom = s.CenteredZoom
	cfg.CenteredRotation = s.CenteredRotation
	return cfg
}

// Path returns the settings file location under the user config directory.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "panzoomrotate", "settings.toml"), nil
}

// Load reads settings from path. A missing file is not an error; defaults
// are returned so first launch works without any setup.
func Load(path string) (Settings, error) {
	s := Default()
	// Unknown keys are tolerated so downgrades don't lose the file.
	_, err := toml.DecodeFile(path, &s)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("failed to read settings: %w", err)
	}
	return s, nil
}

// Save writes settings to path, creating parent directories as needed.
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create settings file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(s); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return f.Close()
}
