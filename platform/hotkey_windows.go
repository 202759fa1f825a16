//go:build windows

package platform

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	modAlt      = 0x0001
	modControl  = 0x0002
	modShift    = 0x0004
	modWin      = 0x0008
	modNoRepeat = 0x4000

	maxHotkeyID int32 = 0xBFFF
)

var nextHotkeyID int32 = 0x4000

// activeHotkey is one live registration. Its message loop goroutine owns the
// OS thread the hotkey was registered on.
type activeHotkey struct {
	id       int32
	threadID uint32
	done     chan struct{}
	combo    KeyCombo
}

type loopReady struct {
	threadID uint32
	err      error
}

// WindowsHotkey implements the Hotkey interface with RegisterHotKey
type WindowsHotkey struct {
	mu     sync.Mutex
	active *activeHotkey
}

// NewHotkey creates a new Windows hotkey listener
func NewHotkey() Hotkey {
	return &WindowsHotkey{}
}

// Register claims combo system-wide and calls onFire on every press
func (h *WindowsHotkey) Register(combo KeyCombo, onFire func()) error {
	if onFire == nil {
		return errors.New("onFire callback is required")
	}
	if err := user32.Load(); err != nil {
		return fmt.Errorf("%w: user32.dll unavailable: %w", ErrRegistration, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.stopLocked(); err != nil {
		slog.Warn("Previous hotkey did not stop cleanly", "error", err)
	}

	id := atomic.AddInt32(&nextHotkeyID, 1)
	if id > maxHotkeyID {
		return fmt.Errorf("%w: hotkey ID range exhausted", ErrRegistration)
	}

	ready := make(chan loopReady, 1)
	done := make(chan struct{})
	go runHotkeyLoop(id, combo, onFire, ready, done)

	r := <-ready
	if r.err != nil {
		return fmt.Errorf("%w for %s: %w", ErrRegistration, combo, r.err)
	}

	h.active = &activeHotkey{id: id, threadID: r.threadID, done: done, combo: combo}
	slog.Info("Hotkey registered", "combo", combo.String())
	return nil
}

// Unregister releases the active hotkey, if any
func (h *WindowsHotkey) Unregister() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stopLocked()
}

func (h *WindowsHotkey) stopLocked() error {
	if h.active == nil {
		return nil
	}
	ah := h.active
	h.active = nil

	// WM_QUIT ends the loop, whose deferred UnregisterHotKey runs on the owning thread.
	if err := postQuit(ah.threadID); err != nil {
		return fmt.Errorf("failed to stop hotkey loop: %w", err)
	}

	select {
	case <-ah.done:
		return nil
	case <-time.After(2 * time.Second):
		return fmt.Errorf("hotkey loop stop timed out (id=%d)", ah.id)
	}
}

func runHotkeyLoop(id int32, combo KeyCombo, onFire func(), ready chan<- loopReady, done chan struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(done)

	threadID := windows.GetCurrentThreadId()

	// Force creation of the thread message queue so WM_QUIT can be posted to it.
	var m msg
	peekMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0, pmNoRemove)

	r, _, err := registerHotKey.Call(0, uintptr(id), uintptr(winModifiers(combo.Mods)|modNoRepeat), uintptr(combo.Key))
	if r == 0 {
		if err == syscall.Errno(0) {
			err = errors.New("RegisterHotKey failed")
		}
		ready <- loopReady{err: err}
		return
	}
	defer func() {
		if r, _, err := unregisterHotKey.Call(0, uintptr(id)); r == 0 {
			slog.Error("UnregisterHotKey failed", "id", id, "error", err)
		}
	}()

	ready <- loopReady{threadID: threadID}

	for {
		ret, _, err := getMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		switch int32(ret) {
		case -1:
			slog.Warn("GetMessageW failed, hotkey loop exiting", "error", err)
			return
		case 0:
			return
		}

		if m.message == wmHotkey && int32(m.wParam) == id {
			go onFire()
		}
	}
}

func postQuit(threadID uint32) error {
	r, _, err := postThreadMessage.Call(uintptr(threadID), wmQuit, 0, 0)
	if r != 0 {
		return nil
	}
	if err == syscall.Errno(0) {
		return errors.New("PostThreadMessageW failed")
	}
	return err
}

func winModifiers(m Modifier) uint32 {
	var mods uint32
	if m.Has(ModCtrl) {
		mods |= modControl
	}
	if m.Has(ModAlt) {
		mods |= modAlt
	}
	if m.Has(ModShift) {
		mods |= modShift
	}
	if m.Has(ModWin) {
		mods |= modWin
	}
	return mods
}
