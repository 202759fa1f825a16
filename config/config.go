package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultHotkey is the global shortcut that shows and hides the window.
const DefaultHotkey = "ctrl+alt+q"

type Config struct {
	Tool    ToolConfig    `toml:"tool"`
	Web     WebConfig     `toml:"web"`
	History HistoryConfig `toml:"history"`
	Notify  NotifyConfig  `toml:"notify"`
}

type ToolConfig struct {
	Path   string `toml:"path"`
	DryRun bool   `toml:"dry_run"`
}

type WebConfig struct {
	Enabled bool `toml:"enabled"`
	Port    int  `toml:"port"`
}

type HistoryConfig struct {
	Enabled bool `toml:"enabled"`
}

type NotifyConfig struct {
	Sound bool `toml:"sound"`
}

// Default configuration
func defaultConfig() *Config {
	return &Config{
		Tool: ToolConfig{
			Path:   "",
			DryRun: false,
		},
		Web: WebConfig{
			Enabled: false,
			Port:    7845,
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Notify: NotifyConfig{
			Sound: true,
		},
	}
}

// ConfigDir returns the per-user directory holding the settings file and history database
func ConfigDir() (string, error) {
	appData := os.Getenv("APPDATA")
	if appData == "" {
		appData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
	}

	configDir := filepath.Join(appData, "dropzip")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// ConfigPath returns the path to the configuration file
func ConfigPath() (string, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadFrom loads the configuration from the TOML file at path.
// If the file doesn't exist, it creates it with default values.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := defaultConfig()
		if _, err := save(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	cfg := defaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return cfg, nil
}

// save writes the configuration to the TOML file and returns the bytes written
func save(path string, cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeFileAtomic replaces path via a temp file in the same directory, so a
// reader never sees a truncated file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}

// KeyCombo represents a parsed keyboard combination
type KeyCombo struct {
	Ctrl  bool
	Shift bool
	Alt   bool
	Win   bool
	Key   string
}

// ParseHotkey parses a hotkey combo string like "ctrl+alt+q".
// A key is required: the OS shortcut API cannot bind modifiers alone.
func ParseHotkey(combo string) (KeyCombo, error) {
	var kc KeyCombo
	if strings.TrimSpace(combo) == "" {
		return kc, fmt.Errorf("empty hotkey combo")
	}

	parts := strings.Split(strings.ToLower(combo), "+")
	for i, part := range parts {
		part = strings.TrimSpace(part)

		switch part {
		case "ctrl", "control":
			kc.Ctrl = true
			continue
		case "shift":
			kc.Shift = true
			continue
		case "alt":
			kc.Alt = true
			continue
		case "win", "windows":
			kc.Win = true
			continue
		}

		if i != len(parts)-1 || part == "" {
			return kc, fmt.Errorf("unknown modifier: %q", part)
		}
		kc.Key = part
	}

	if kc.Key == "" {
		return kc, fmt.Errorf("no key specified in combo %q", combo)
	}
	if !kc.Ctrl && !kc.Shift && !kc.Alt && !kc.Win {
		return kc, fmt.Errorf("no modifiers specified in combo %q", combo)
	}

	return kc, nil
}
