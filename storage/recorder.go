package storage

import (
	"log/slog"

	"markestedt/dropzip/extract"
)

// Recorder writes every finished file of a batch to the history table
type Recorder struct {
	db *DB
}

func NewRecorder(db *DB) *Recorder {
	return &Recorder{db: db}
}

func (r *Recorder) HandleEvent(ev extract.Event) {
	if ev.Type != extract.FileFinished {
		return
	}

	item := ev.Item
	inv := &Invocation{
		BatchID:      ev.BatchID,
		FilePath:     item.File,
		CommandLine:  item.Spec.CommandLine(),
		ExitCode:     item.Result.ExitCode,
		DurationMs:   item.Duration.Milliseconds(),
		Success:      !item.Failed(),
		ErrorMessage: item.Message(),
	}
	if item.Err != nil {
		inv.ExitCode = -1
	}

	if err := r.db.SaveInvocation(inv); err != nil {
		slog.Error("Failed to record invocation", "file", item.File, "error", err)
	}
}

// HandleError is a no-op: a rejected batch ran nothing
func (r *Recorder) HandleError(extract.DropEvent, error) {}
