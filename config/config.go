package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// maxRecent bounds the recent file list
const maxRecent = 10

// PlaybackConfig controls the scheduler
type PlaybackConfig struct {
	TempoOverride    uint32 `json:"tempoOverride,omitempty"` // microseconds per beat, 0 = file tempo
	DeliverLastEvent bool   `json:"deliverLastEvent,omitempty"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	Palette   string `json:"palette,omitempty"` // path to a GIMP .gpl palette
	AltScreen bool   `json:"altScreen"`
}

// Config is the main configuration structure
type Config struct {
	Playback    PlaybackConfig `json:"playback,omitempty"`
	UI          UIConfig       `json:"ui,omitempty"`
	Debug       bool           `json:"debug,omitempty"`
	RecentFiles []string       `json:"recentFiles,omitempty"`

	path string
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			AltScreen: true,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-smfplay"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from the default path, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path, or returns defaults if it does not exist
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.path = path
			return cfg, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.path = path

	return cfg, nil
}

// Save writes the config back to where it was loaded from
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// AddRecent moves path to the front of the recent file list
func (c *Config) AddRecent(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	recent := []string{path}
	for _, p := range c.RecentFiles {
		if p != path && len(recent) < maxRecent {
			recent = append(recent, p)
		}
	}
	c.RecentFiles = recent
}
