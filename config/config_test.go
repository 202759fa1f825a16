package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFromCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Tool.Path != "" {
		t.Fatalf("Tool.Path = %q, want empty", cfg.Tool.Path)
	}
	if !cfg.History.Enabled {
		t.Fatal("History.Enabled = false, want true")
	}
	if cfg.Web.Port != 7845 {
		t.Fatalf("Web.Port = %d, want 7845", cfg.Web.Port)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config was not written: %v", err)
	}
}

func TestLoadFromKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[tool]\npath = 'C:\\tools\\wpass.exe'\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Tool.Path != `C:\tools\wpass.exe` {
		t.Fatalf("Tool.Path = %q, want %q", cfg.Tool.Path, `C:\tools\wpass.exe`)
	}
	if !cfg.Notify.Sound {
		t.Fatal("Notify.Sound = false, want default true")
	}
}

func TestLoadFromRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[tool\npath ="), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Fatal("LoadFrom() error = nil, want decode error")
	}
}

func TestParseHotkey(t *testing.T) {
	tests := []struct {
		name    string
		combo   string
		want    KeyCombo
		wantErr string
	}{
		{name: "default", combo: DefaultHotkey, want: KeyCombo{Ctrl: true, Alt: true, Key: "q"}},
		{name: "mixed case and spaces", combo: " Control + Shift + F5 ", want: KeyCombo{Ctrl: true, Shift: true, Key: "f5"}},
		{name: "win modifier", combo: "win+space", want: KeyCombo{Win: true, Key: "space"}},
		{name: "empty", combo: "  ", wantErr: "empty"},
		{name: "modifier only", combo: "ctrl+alt", wantErr: "no key"},
		{name: "key only", combo: "q", wantErr: "no modifiers"},
		{name: "unknown modifier", combo: "hyper+q", wantErr: "unknown modifier"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHotkey(tt.combo)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("ParseHotkey(%q) error = %v, want containing %q", tt.combo, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHotkey(%q) error = %v", tt.combo, err)
			}
			if got != tt.want {
				t.Fatalf("ParseHotkey(%q) = %+v, want %+v", tt.combo, got, tt.want)
			}
		})
	}
}
