//go:build !windows

package platform

import (
	"errors"
	"os/exec"
	"testing"
)

func TestRegisterUnsupported(t *testing.T) {
	h := NewHotkey()

	err := h.Register(KeyCombo{Mods: ModCtrl | ModAlt, Key: 0x51}, func() {})
	if !errors.Is(err, ErrRegistration) {
		t.Fatalf("Register() error = %v, want ErrRegistration", err)
	}
	if err := h.Unregister(); err != nil {
		t.Fatalf("Unregister() error = %v", err)
	}
}

func TestRegisterRequiresCallback(t *testing.T) {
	if err := NewHotkey().Register(KeyCombo{Mods: ModCtrl, Key: 0x51}, nil); err == nil {
		t.Fatal("Register(nil callback) error = nil, want error")
	}
}

func TestModifierStateIsEmpty(t *testing.T) {
	if got := ModifierState(); got != 0 {
		t.Fatalf("ModifierState() = %v, want none", got)
	}
}

func TestHideWindowNoOp(t *testing.T) {
	cmd := exec.Command("echo", "test")
	HideWindow(cmd)
	if cmd.SysProcAttr != nil {
		t.Fatal("SysProcAttr should stay nil on non-Windows")
	}
	HideWindow(nil)
}

func TestWatchSessionNoOp(t *testing.T) {
	stop, err := WatchSession(func(SessionEvent) {})
	if err != nil {
		t.Fatalf("WatchSession() error = %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop() error = %v", err)
	}
}
