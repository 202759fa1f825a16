//go:build !windows

package platform

import "errors"

// WatchSession has nothing to watch outside Windows; stop is a no-op.
func WatchSession(onEvent func(SessionEvent)) (stop func() error, err error) {
	if onEvent == nil {
		return nil, errors.New("onEvent callback is required")
	}
	return func() error { return nil }, nil
}
