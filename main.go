package main

import (
	"context"
	"embed"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"markestedt/dropzip/config"
	"markestedt/dropzip/platform"
	"markestedt/dropzip/storage"
)

//go:embed all:frontend/dist
var assets embed.FS

//go:embed build/icon.ico
var trayIcon []byte

func main() {
	// Setup logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// A second copy could not register the hotkey anyway
	lock, err := platform.AcquireInstance("dropzip")
	if errors.Is(err, platform.ErrAlreadyRunning) {
		slog.Info("dropzip is already running")
		return
	}
	if err != nil {
		slog.Warn("Single-instance lock unavailable", "error", err)
	}
	defer lock.Release()

	// Load configuration
	configPath, err := config.ConfigPath()
	if err != nil {
		slog.Error("Failed to resolve config path", "error", err)
		os.Exit(1)
	}
	store, err := config.OpenStore(configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Configuration loaded", "path", configPath)

	var db *storage.DB
	if store.Config().History.Enabled {
		configDir, err := config.ConfigDir()
		if err == nil {
			db, err = storage.Open(configDir)
		}
		if err != nil {
			// History is optional; extraction still works without it
			slog.Warn("History disabled", "error", err)
			db = nil
		}
	}

	agent := NewAgent(store, db, trayIcon)
	settings := NewSettingsAPI(store)

	// Setup signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go func() {
		<-ctx.Done()
		agent.quit()
	}()

	err = wails.Run(&options.App{
		Title:     "dropzip",
		Width:     420,
		Height:    360,
		MinWidth:  320,
		MinHeight: 240,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 24, G: 26, B: 30, A: 1},
		DragAndDrop: &options.DragAndDrop{
			EnableFileDrop:     true,
			DisableWebViewDrop: true,
		},
		OnStartup: func(ctx context.Context) {
			settings.startup(ctx)
			agent.startup(ctx)
		},
		OnBeforeClose: agent.beforeClose,
		OnShutdown:    agent.shutdown,
		Bind: []any{
			settings,
		},
	})
	if err != nil {
		slog.Error("Wails run failed", "error", err)
		os.Exit(1)
	}

	slog.Info("dropzip stopped")
}
