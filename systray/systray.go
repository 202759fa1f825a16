package systray

import (
	"log/slog"
	"sync"

	"github.com/getlantern/systray"
)

// Options wires tray menu items to the app
type Options struct {
	Icon       []byte
	OnToggle   func()
	OnSettings func()
	OnQuit     func()
}

// SystrayManager manages the system tray icon and menu
type SystrayManager struct {
	opts Options

	mu     sync.Mutex
	ready  bool
	status string
}

// NewSystrayManager creates a new systray manager
func NewSystrayManager(opts Options) *SystrayManager {
	return &SystrayManager{opts: opts, status: "idle"}
}

// Run starts the system tray (blocking call)
func (m *SystrayManager) Run() {
	systray.Run(m.onReady, m.onExit)
}

// Stop stops the system tray
func (m *SystrayManager) Stop() {
	systray.Quit()
}

// SetStatus shows text such as "extracting: 1/2" in the tooltip
func (m *SystrayManager) SetStatus(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.status = text
	if m.ready {
		systray.SetTooltip("dropzip - " + text)
	}
}

// onReady is called when the systray is ready
func (m *SystrayManager) onReady() {
	if len(m.opts.Icon) > 0 {
		systray.SetIcon(m.opts.Icon)
	}
	systray.SetTitle("dropzip")

	m.mu.Lock()
	m.ready = true
	systray.SetTooltip("dropzip - " + m.status)
	m.mu.Unlock()

	mToggle := systray.AddMenuItem("Show/Hide", "Show or hide the drop window (Ctrl+Alt+Q)")
	mSettings := systray.AddMenuItem("Settings", "Set the archive tool path")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Exit", "Exit dropzip")

	go func() {
		for {
			select {
			case <-mToggle.ClickedCh:
				call(m.opts.OnToggle)
			case <-mSettings.ClickedCh:
				call(m.opts.OnSettings)
			case <-mQuit.ClickedCh:
				slog.Info("User requested exit from system tray")
				call(m.opts.OnQuit)
				return
			}
		}
	}()
}

// onExit is called when the systray is exiting
func (m *SystrayManager) onExit() {
	slog.Info("System tray exited")
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
