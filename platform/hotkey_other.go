//go:build !windows

package platform

import (
	"errors"
	"fmt"
)

type unsupportedHotkey struct{}

// NewHotkey returns a listener that always fails to register on this platform
func NewHotkey() Hotkey {
	return unsupportedHotkey{}
}

func (unsupportedHotkey) Register(combo KeyCombo, onFire func()) error {
	if onFire == nil {
		return errors.New("onFire callback is required")
	}
	return fmt.Errorf("%w for %s: global hotkeys are only supported on Windows", ErrRegistration, combo)
}

func (unsupportedHotkey) Unregister() error { return nil }
