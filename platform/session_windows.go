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

const sessionClassName = "dropzipSessionListener"

var (
	sessionMu      sync.Mutex
	sessionActive  bool
	sessionHandler atomic.Pointer[func(SessionEvent)]

	// Callbacks are a finite process resource; make exactly one.
	sessionProcOnce sync.Once
	sessionProc     uintptr
)

// WatchSession reports logoff and shutdown through onEvent. Only top-level
// windows receive the end-session broadcast, so it runs a hidden one on its
// own thread. One watcher may be active at a time.
func WatchSession(onEvent func(SessionEvent)) (stop func() error, err error) {
	if onEvent == nil {
		return nil, errors.New("onEvent callback is required")
	}
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("user32.dll unavailable: %w", err)
	}

	sessionMu.Lock()
	defer sessionMu.Unlock()
	if sessionActive {
		return nil, errors.New("session watcher already running")
	}

	sessionProcOnce.Do(func() {
		sessionProc = windows.NewCallback(sessionWndProc)
	})
	sessionHandler.Store(&onEvent)

	ready := make(chan loopReady, 1)
	done := make(chan struct{})
	go runSessionLoop(ready, done)

	r := <-ready
	if r.err != nil {
		sessionHandler.Store(nil)
		return nil, fmt.Errorf("failed to create session window: %w", r.err)
	}
	sessionActive = true

	var once sync.Once
	stop = func() error {
		var stopErr error
		once.Do(func() {
			sessionHandler.Store(nil)
			if err := postQuit(r.threadID); err != nil {
				stopErr = fmt.Errorf("failed to stop session loop: %w", err)
				return
			}
			select {
			case <-done:
			case <-time.After(2 * time.Second):
				stopErr = errors.New("session loop stop timed out")
				return
			}
			sessionMu.Lock()
			sessionActive = false
			sessionMu.Unlock()
		})
		return stopErr
	}
	return stop, nil
}

func runSessionLoop(ready chan<- loopReady, done chan struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(done)

	var instance windows.Handle
	if err := windows.GetModuleHandleEx(0, nil, &instance); err != nil {
		ready <- loopReady{err: err}
		return
	}

	className, _ := windows.UTF16PtrFromString(sessionClassName)
	wc := wndClassEx{
		wndProc:   sessionProc,
		instance:  instance,
		className: className,
	}
	wc.size = uint32(unsafe.Sizeof(wc))

	if r, _, err := registerClassEx.Call(uintptr(unsafe.Pointer(&wc))); r == 0 {
		ready <- loopReady{err: callErr("RegisterClassExW", err)}
		return
	}
	defer unregisterClass.Call(uintptr(unsafe.Pointer(className)), uintptr(instance))

	// No WS_VISIBLE: the window is never shown. Tool window keeps it off Alt+Tab.
	hwnd, _, err := createWindowEx.Call(
		wsExToolWindow,
		uintptr(unsafe.Pointer(className)),
		uintptr(unsafe.Pointer(className)),
		0,
		0, 0, 0, 0,
		0, 0, uintptr(instance), 0,
	)
	if hwnd == 0 {
		ready <- loopReady{err: callErr("CreateWindowExW", err)}
		return
	}
	defer destroyWindow.Call(hwnd)

	ready <- loopReady{threadID: windows.GetCurrentThreadId()}

	var m msg
	for {
		ret, _, err := getMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		switch int32(ret) {
		case -1:
			slog.Warn("GetMessageW failed, session loop exiting", "error", err)
			return
		case 0:
			return
		}
		dispatchMessage.Call(uintptr(unsafe.Pointer(&m)))
	}
}

func sessionWndProc(hwnd, message, wParam, lParam uintptr) uintptr {
	if ev, ok := sessionEventFor(uint32(message), wParam); ok {
		if fn := sessionHandler.Load(); fn != nil {
			(*fn)(ev)
		}
		if ev == SessionEnding {
			return 1 // allow the session to end
		}
		return 0
	}
	r, _, _ := defWindowProc.Call(hwnd, message, wParam, lParam)
	return r
}

// sessionEventFor maps the end-session messages. WM_ENDSESSION carries
// whether the session is really ending in wParam.
func sessionEventFor(message uint32, wParam uintptr) (SessionEvent, bool) {
	switch message {
	case wmQueryEndSession:
		return SessionEnding, true
	case wmEndSession:
		if wParam != 0 {
			return SessionEnded, true
		}
		return SessionResumed, true
	}
	return 0, false
}

func callErr(name string, err error) error {
	if err == nil || err == syscall.Errno(0) {
		return fmt.Errorf("%s failed", name)
	}
	return fmt.Errorf("%s: %w", name, err)
}
