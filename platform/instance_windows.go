//go:build windows

package platform

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
)

// InstanceLock is a named mutex held for the life of the process
type InstanceLock struct {
	handle windows.Handle
}

// AcquireInstance takes the per-session mutex name. ErrAlreadyRunning means
// another copy owns it; the hotkey would be taken anyway.
func AcquireInstance(name string) (*InstanceLock, error) {
	if name == "" {
		return nil, errors.New("mutex name is required")
	}
	p, err := windows.UTF16PtrFromString(`Local\` + name)
	if err != nil {
		return nil, fmt.Errorf("invalid mutex name %q: %w", name, err)
	}

	h, err := windows.CreateMutex(nil, true, p)
	if err != nil {
		if h != 0 {
			windows.CloseHandle(h)
		}
		if errors.Is(err, windows.ERROR_ALREADY_EXISTS) {
			return nil, ErrAlreadyRunning
		}
		return nil, fmt.Errorf("CreateMutex %q: %w", name, err)
	}
	return &InstanceLock{handle: h}, nil
}

// Release closes the mutex handle. Safe on a nil lock.
func (l *InstanceLock) Release() error {
	if l == nil || l.handle == 0 {
		return nil
	}
	err := windows.CloseHandle(l.handle)
	l.handle = 0
	return err
}
