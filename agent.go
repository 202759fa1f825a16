package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"markestedt/dropzip/config"
	"markestedt/dropzip/extract"
	"markestedt/dropzip/notify"
	"markestedt/dropzip/platform"
	"markestedt/dropzip/storage"
	"markestedt/dropzip/systray"
	"markestedt/dropzip/web"
	"markestedt/dropzip/window"
)

const queueSize = 16

var (
	runtimeQuitFn       = runtime.Quit
	runtimeEventsEmitFn = runtime.EventsEmit
)

// Agent coordinates the hotkey, the window, the tray and the extraction queue
type Agent struct {
	store  *config.Store
	db     *storage.DB
	hotkey platform.Hotkey
	queue  *extract.Queue
	tray   *systray.SystrayManager
	web    *web.Server
	chime  *notify.Chime

	mu          sync.Mutex
	ctx         context.Context // Wails runtime context, set in startup
	visibility  *window.Controller
	cancel      context.CancelFunc
	stopSession func() error
	quitting    atomic.Bool
	quitSent    atomic.Bool
	ending      atomic.Bool // OS logoff or shutdown in progress
}

// NewAgent creates a new agent instance. db may be nil when history is disabled.
func NewAgent(store *config.Store, db *storage.DB, icon []byte) *Agent {
	cfg := store.Config()

	var invoker extract.Invoker = extract.ProcessInvoker{}
	if cfg.Tool.DryRun {
		slog.Warn("Dry run enabled, the archive tool will not be started")
		invoker = extract.DryRunInvoker{}
	}

	a := &Agent{
		store:  store,
		db:     db,
		hotkey: platform.NewHotkey(),
	}

	handlers := extract.Handlers{&uiHandler{agent: a}}
	if db != nil {
		handlers = append(handlers, storage.NewRecorder(db))
	}
	if cfg.Web.Enabled {
		// The API submits through the agent so it shares the one queue.
		a.web = web.NewServer(store, db, a, cfg.Web.Port)
		handlers = append(handlers, a.web)
	}

	a.queue = extract.NewQueue(extract.NewProcessor(store, invoker), queueSize, handlers)

	if cfg.Notify.Sound {
		chime, err := notify.NewChime()
		if err != nil {
			slog.Warn("Completion sound unavailable", "error", err)
		} else {
			a.chime = chime
		}
	}

	a.tray = systray.NewSystrayManager(systray.Options{
		Icon:       icon,
		OnToggle:   func() { a.visibility.Toggle() },
		OnSettings: a.openSettings,
		OnQuit:     a.quit,
	})

	return a
}

// startup runs once the window exists
func (a *Agent) startup(ctx context.Context) {
	a.mu.Lock()
	a.ctx = ctx
	a.mu.Unlock()
	a.visibility = window.NewController(wailsSurface{ctx: ctx})

	bg, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	go a.queue.Run(bg)
	go a.tray.Run()

	go func() {
		if err := a.store.Watch(bg, nil); err != nil {
			slog.Warn("Config watcher stopped", "error", err)
		}
	}()

	if a.web != nil {
		go func() {
			if err := a.web.Start(bg); err != nil {
				slog.Error("Web server error", "error", err)
			}
		}()
	}

	runtime.OnFileDrop(ctx, a.onFileDrop)

	if err := a.registerHotkey(); err != nil {
		// Non-fatal: the tray still toggles the window.
		slog.Error("Failed to register hotkey", "hotkey", config.DefaultHotkey, "error", err)
		go a.showError("Hotkey unavailable",
			fmt.Sprintf("%s could not be registered, use the tray icon instead.\n\n%v", config.DefaultHotkey, err))
	}

	stop, err := platform.WatchSession(a.onSessionEvent)
	if err != nil {
		slog.Warn("Logoff detection unavailable", "error", err)
	} else {
		a.stopSession = stop
	}

	slog.Info("dropzip started", "hotkey", config.DefaultHotkey, "config", a.store.Path())
	a.quitIfRequested(ctx)
}

// quitIfRequested honours a quit that arrived before the runtime existed
func (a *Agent) quitIfRequested(ctx context.Context) {
	if a.quitting.Load() {
		slog.Info("Quit requested during startup")
		a.sendQuit(ctx)
	}
}

// sendQuit asks the runtime to exit at most once
func (a *Agent) sendQuit(ctx context.Context) {
	if a.quitSent.CompareAndSwap(false, true) {
		runtimeQuitFn(ctx)
	}
}

// onSessionEvent lets an OS logoff or shutdown close the window for real
func (a *Agent) onSessionEvent(ev platform.SessionEvent) {
	slog.Info("Session event", "event", ev.String())
	switch ev {
	case platform.SessionEnding:
		a.ending.Store(true)
	case platform.SessionResumed:
		a.ending.Store(false)
	case platform.SessionEnded:
		a.ending.Store(true)
		a.quit()
	}
}

func (a *Agent) registerHotkey() error {
	combo, err := config.ParseHotkey(config.DefaultHotkey)
	if err != nil {
		return fmt.Errorf("failed to parse hotkey: %w", err)
	}

	vkCode, err := platform.VKCode(combo.Key)
	if err != nil {
		return fmt.Errorf("failed to get VK code: %w", err)
	}

	var mods platform.Modifier
	if combo.Ctrl {
		mods |= platform.ModCtrl
	}
	if combo.Alt {
		mods |= platform.ModAlt
	}
	if combo.Shift {
		mods |= platform.ModShift
	}
	if combo.Win {
		mods |= platform.ModWin
	}

	return a.hotkey.Register(platform.KeyCombo{Mods: mods, Key: vkCode}, func() {
		state := a.visibility.Toggle()
		slog.Debug("Hotkey fired", "window", state.String())
	})
}

// Submit queues a drop from any source
func (a *Agent) Submit(drop extract.DropEvent) error {
	return a.queue.Submit(drop)
}

// onFileDrop turns a drop on the window into a queued batch
func (a *Agent) onFileDrop(_, _ int, paths []string) {
	mods := platform.ModifierState()
	slog.Info("Files dropped", "count", len(paths), "modifiers", mods.String())

	if err := a.Submit(extract.DropEvent{Files: paths, Modifiers: mods}); err != nil {
		slog.Error("Failed to queue drop", "error", err)
		go a.showError("Busy", "Too many drops are waiting. Try again when the current batch is done.")
	}
}

// beforeClose keeps the app alive when the user closes the window
func (a *Agent) beforeClose(ctx context.Context) bool {
	reason := window.UserRequested
	if a.quitting.Load() || a.ending.Load() {
		reason = window.ProgrammaticShutdown
	}
	return a.visibility.InterceptClose(reason)
}

// quit exits the app for real; used by the tray Exit item and OS signals
func (a *Agent) quit() {
	if !a.quitting.CompareAndSwap(false, true) {
		return
	}
	slog.Info("Shutting down")

	// Before startup there is no runtime yet; startup checks the flag itself.
	a.mu.Lock()
	ctx := a.ctx
	a.mu.Unlock()
	if ctx != nil {
		a.sendQuit(ctx)
	}
}

// shutdown releases everything acquired in startup
func (a *Agent) shutdown(ctx context.Context) {
	if err := a.hotkey.Unregister(); err != nil {
		slog.Warn("Failed to unregister hotkey", "error", err)
	}
	if a.stopSession != nil {
		if err := a.stopSession(); err != nil {
			slog.Warn("Failed to stop session watcher", "error", err)
		}
	}
	if a.cancel != nil {
		a.cancel()
	}
	if a.visibility != nil {
		a.visibility.Close()
	}
	if a.chime != nil {
		a.chime.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	a.tray.Stop()
}

func (a *Agent) openSettings() {
	a.visibility.Show()
	runtimeEventsEmitFn(a.ctx, "settings:open")
}

func (a *Agent) showError(title, message string) {
	if a.ctx == nil {
		return
	}
	if _, err := runtime.MessageDialog(a.ctx, runtime.MessageDialogOptions{
		Type:    runtime.ErrorDialog,
		Title:   title,
		Message: message,
	}); err != nil {
		slog.Warn("Failed to show dialog", "error", err)
	}
}

// uiHandler surfaces batch events in the window, tray and speaker
type uiHandler struct {
	agent *Agent
}

type progressPayload struct {
	BatchID   string `json:"batchId"`
	Text      string `json:"text"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	File      string `json:"file"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	Command   string `json:"command"`
}

type donePayload struct {
	BatchID string `json:"batchId"`
	Text    string `json:"text"`
	Total   int    `json:"total"`
	Failed  int    `json:"failed"`
}

func (h *uiHandler) HandleEvent(ev extract.Event) {
	a := h.agent

	switch ev.Type {
	case extract.FileFinished:
		a.tray.SetStatus(ev.Progress.String())
		runtimeEventsEmitFn(a.ctx, "batch:progress", progressPayload{
			BatchID:   ev.BatchID,
			Text:      ev.Progress.String(),
			Completed: ev.Progress.Completed,
			Total:     ev.Progress.Total,
			File:      ev.Item.File,
			Success:   !ev.Item.Failed(),
			Error:     ev.Item.Message(),
			Command:   ev.Item.Spec.CommandLine(),
		})

	case extract.BatchFinished:
		a.tray.SetStatus("done")
		runtimeEventsEmitFn(a.ctx, "batch:done", donePayload{
			BatchID: ev.BatchID,
			Text:    "done",
			Total:   ev.Progress.Total,
			Failed:  ev.Failed,
		})
		if a.chime != nil {
			go func() {
				if err := a.chime.Play(); err != nil {
					slog.Debug("Failed to play completion sound", "error", err)
				}
			}()
		}
	}
}

func (h *uiHandler) HandleError(drop extract.DropEvent, err error) {
	a := h.agent
	runtimeEventsEmitFn(a.ctx, "batch:error", err.Error())

	if errors.Is(err, extract.ErrNotConfigured) {
		a.openSettings()
		go a.showError("Archive tool not set",
			"Set the path to the archive tool in Settings, then drop the files again.")
		return
	}
	go a.showError("Extraction failed", err.Error())
}

// wailsSurface drives the real window for the visibility controller
type wailsSurface struct {
	ctx context.Context
}

func (s wailsSurface) Show() {
	runtime.WindowShow(s.ctx)
	runtime.WindowUnminimise(s.ctx)
}

func (s wailsSurface) Hide() {
	runtime.WindowHide(s.ctx)
}
