package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"markestedt/dropzip/config"
)

// SettingsAPI is bound to the frontend settings panel
type SettingsAPI struct {
	ctx   context.Context
	store *config.Store
}

func NewSettingsAPI(store *config.Store) *SettingsAPI {
	return &SettingsAPI{store: store}
}

func (s *SettingsAPI) startup(ctx context.Context) {
	s.ctx = ctx
}

// GetToolPath returns the configured archive tool, or "" when unset
func (s *SettingsAPI) GetToolPath() string {
	path, _ := s.store.Get(config.KeyToolPath)
	return path
}

// SetToolPath stores and persists the archive tool path
func (s *SettingsAPI) SetToolPath(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("tool path is empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("tool not found: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}

	if err := s.store.Set(config.KeyToolPath, path); err != nil {
		return err
	}
	if err := s.store.Save(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	slog.Info("Tool path updated", "path", path)
	return nil
}

// BrowseToolPath opens a file picker for the archive tool. An empty string
// means the dialog was cancelled.
func (s *SettingsAPI) BrowseToolPath() (string, error) {
	return runtime.OpenFileDialog(s.ctx, runtime.OpenDialogOptions{
		Title: "Select archive tool",
		Filters: []runtime.FileFilter{
			{DisplayName: "Programs (*.exe)", Pattern: "*.exe"},
			{DisplayName: "All files", Pattern: "*.*"},
		},
	})
}

// Hotkey returns the visibility hotkey for display
func (s *SettingsAPI) Hotkey() string {
	return config.DefaultHotkey
}
