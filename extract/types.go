package extract

import (
	"fmt"
	"strings"
	"time"

	"markestedt/dropzip/platform"
)

// DropEvent is one drag-and-drop gesture: the files in drop order and the
// modifier keys held when they were released.
type DropEvent struct {
	Files     []string
	Modifiers platform.Modifier
}

// Spec is a single tool invocation
type Spec struct {
	Executable string
	Args       []string
}

// CommandLine renders the invocation for logs and dialogs
func (s Spec) CommandLine() string {
	parts := make([]string, 0, len(s.Args)+1)
	for _, p := range append([]string{s.Executable}, s.Args...) {
		if strings.ContainsAny(p, " \t") {
			p = `"` + p + `"`
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, " ")
}

// Result is what a finished tool process reported
type Result struct {
	ExitCode int
	Stderr   string
}

// Failed reports a non-zero exit code
func (r Result) Failed() bool {
	return r.ExitCode != 0
}

// Progress counts finished files in a batch
type Progress struct {
	Completed int
	Total     int
}

func (p Progress) String() string {
	return fmt.Sprintf("extracting: %d/%d", p.Completed, p.Total)
}

// ItemResult is the outcome of one file. Err is set when the tool could not be
// launched; otherwise Result holds the exit code and stderr.
type ItemResult struct {
	File     string
	Spec     Spec
	Result   Result
	Err      error
	Duration time.Duration
}

// Failed reports a launch error or a non-zero exit
func (i ItemResult) Failed() bool {
	return i.Err != nil || i.Result.Failed()
}

// Message returns the text to show the user for a failed item
func (i ItemResult) Message() string {
	switch {
	case i.Err != nil:
		return i.Err.Error()
	case i.Result.Stderr != "":
		return i.Result.Stderr
	case i.Result.Failed():
		return fmt.Sprintf("exited with code %d", i.Result.ExitCode)
	default:
		return ""
	}
}

// EventType represents the type of batch event
type EventType int

const (
	FileFinished EventType = iota
	BatchFinished
)

func (t EventType) String() string {
	switch t {
	case FileFinished:
		return "file_finished"
	case BatchFinished:
		return "batch_finished"
	default:
		return "unknown"
	}
}

// Event is emitted once per file and once more when the batch ends.
// Item is only set for FileFinished; Failed only for BatchFinished.
type Event struct {
	Type     EventType
	BatchID  string
	Progress Progress
	Item     ItemResult
	Failed   int
}
