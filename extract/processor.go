package extract

import (
	"iter"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"markestedt/dropzip/config"
)

// Settings is the read side of the settings store
type Settings interface {
	Get(key string) (string, bool)
}

// Processor runs one drop as a batch of tool invocations
type Processor struct {
	settings Settings
	invoker  Invoker
}

// NewProcessor creates a processor reading the tool path from settings
func NewProcessor(settings Settings, invoker Invoker) *Processor {
	return &Processor{
		settings: settings,
		invoker:  invoker,
	}
}

// Process resolves the tool path and returns the batch as a lazy, single-use
// sequence. Each file is invoked only when the consumer asks for the next
// event, so stopping the range stops the batch before the next file.
//
// The sequence yields one FileFinished event per file, in drop order, whether
// or not the file failed, and then one BatchFinished event. If no tool path is
// configured, Process returns ErrNotConfigured and nothing is invoked.
func (p *Processor) Process(drop DropEvent) (iter.Seq[Event], error) {
	tool, ok := p.settings.Get(config.KeyToolPath)
	if !ok {
		return nil, ErrNotConfigured
	}

	flags := Flags(drop.Modifiers)
	files := slices.Clone(drop.Files)
	batchID := uuid.NewString()

	var used atomic.Bool
	return func(yield func(Event) bool) {
		if !used.CompareAndSwap(false, true) {
			return
		}

		total := len(files)
		failed := 0
		slog.Info("Batch started", "batch", batchID, "files", total, "flags", flags)

		for i, file := range files {
			spec := Spec{
				Executable: tool,
				Args:       append(slices.Clone(flags), file),
			}

			start := time.Now()
			res, err := p.invoker.Invoke(spec)
			item := ItemResult{
				File:     file,
				Spec:     spec,
				Result:   res,
				Err:      err,
				Duration: time.Since(start),
			}

			if item.Failed() {
				failed++
				slog.Warn("Extraction failed", "batch", batchID, "file", file, "exit_code", res.ExitCode, "error", item.Message())
			} else {
				slog.Info("Extracted", "batch", batchID, "file", file, "duration", item.Duration)
			}

			ev := Event{
				Type:     FileFinished,
				BatchID:  batchID,
				Progress: Progress{Completed: i + 1, Total: total},
				Item:     item,
			}
			if !yield(ev) {
				slog.Info("Batch abandoned", "batch", batchID, "completed", i+1, "total", total)
				return
			}
		}

		slog.Info("Batch finished", "batch", batchID, "files", total, "failed", failed)
		yield(Event{
			Type:     BatchFinished,
			BatchID:  batchID,
			Progress: Progress{Completed: total, Total: total},
			Failed:   failed,
		})
	}, nil
}
