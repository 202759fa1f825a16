package extract

import (
	"errors"
	"fmt"
)

// ErrNotConfigured means no tool path is set. The whole batch is skipped.
var ErrNotConfigured = errors.New("archive tool path is not configured")

// ErrQueueFull is returned by Queue.Submit when too many drops are waiting.
var ErrQueueFull = errors.New("extraction queue is full")

// LaunchError means the tool process could not be started
type LaunchError struct {
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %s: %v", e.Path, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}
