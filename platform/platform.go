package platform

import (
	"errors"
	"fmt"
	"strings"
)

// Modifier is a set of modifier keys
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModAlt
	ModShift
	ModWin
)

// Has reports whether every key in mod is held
func (m Modifier) Has(mod Modifier) bool {
	return mod != 0 && m&mod == mod
}

func (m Modifier) String() string {
	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "alt")
	}
	if m.Has(ModShift) {
		parts = append(parts, "shift")
	}
	if m.Has(ModWin) {
		parts = append(parts, "win")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// KeyCombo represents a keyboard key combination
type KeyCombo struct {
	Mods Modifier
	Key  int // Virtual key code
}

func (c KeyCombo) String() string {
	return fmt.Sprintf("%s+0x%02X", c.Mods, c.Key)
}

// ErrRegistration is returned when a global hotkey cannot be claimed, either
// because another process holds the combination or the OS refused the hook.
var ErrRegistration = errors.New("hotkey registration failed")

// ErrAlreadyRunning is returned by AcquireInstance when another copy holds the lock
var ErrAlreadyRunning = errors.New("another instance is already running")

// Hotkey provides a single system-wide shortcut. Registering again replaces
// the previous binding.
type Hotkey interface {
	Register(combo KeyCombo, onFire func()) error
	Unregister() error
}

var keyCodes = map[string]int{
	"a": 0x41, "b": 0x42, "c": 0x43, "d": 0x44, "e": 0x45,
	"f": 0x46, "g": 0x47, "h": 0x48, "i": 0x49, "j": 0x4A,
	"k": 0x4B, "l": 0x4C, "m": 0x4D, "n": 0x4E, "o": 0x4F,
	"p": 0x50, "q": 0x51, "r": 0x52, "s": 0x53, "t": 0x54,
	"u": 0x55, "v": 0x56, "w": 0x57, "x": 0x58, "y": 0x59, "z": 0x5A,
	"0": 0x30, "1": 0x31, "2": 0x32, "3": 0x33, "4": 0x34,
	"5": 0x35, "6": 0x36, "7": 0x37, "8": 0x38, "9": 0x39,
	"f1": 0x70, "f2": 0x71, "f3": 0x72, "f4": 0x73,
	"f5": 0x74, "f6": 0x75, "f7": 0x76, "f8": 0x77,
	"f9": 0x78, "f10": 0x79, "f11": 0x7A, "f12": 0x7B,
	"space": 0x20, "enter": 0x0D, "esc": 0x1B,
	"tab": 0x09, "backspace": 0x08,
}

// VKCode returns the Windows virtual key code for a key name
func VKCode(key string) (int, error) {
	if code, ok := keyCodes[strings.ToLower(key)]; ok {
		return code, nil
	}
	return 0, fmt.Errorf("unknown key: %s", key)
}

// SessionEvent is a change in the Windows logon session
type SessionEvent int

const (
	// SessionEnding means logoff or shutdown was requested
	SessionEnding SessionEvent = iota
	// SessionResumed means another program vetoed the pending end
	SessionResumed
	// SessionEnded means the process is about to be terminated
	SessionEnded
)

func (e SessionEvent) String() string {
	switch e {
	case SessionEnding:
		return "ending"
	case SessionResumed:
		return "resumed"
	case SessionEnded:
		return "ended"
	default:
		return fmt.Sprintf("SessionEvent(%d)", int(e))
	}
}
