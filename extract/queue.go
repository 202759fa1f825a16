package extract

import (
	"context"
	"log/slog"
)

// Handler receives the outcome of queued batches. Calls are made from the
// queue's single worker goroutine, in order.
type Handler interface {
	HandleEvent(ev Event)
	HandleError(drop DropEvent, err error)
}

// Handlers fans events out to several handlers in order
type Handlers []Handler

func (hs Handlers) HandleEvent(ev Event) {
	for _, h := range hs {
		h.HandleEvent(ev)
	}
}

func (hs Handlers) HandleError(drop DropEvent, err error) {
	for _, h := range hs {
		h.HandleError(drop, err)
	}
}

// Queue serialises batches from every drop source onto one worker, so two
// tool processes never run at the same time.
type Queue struct {
	proc    *Processor
	drops   chan DropEvent
	handler Handler
}

// NewQueue creates a queue holding at most size waiting drops
func NewQueue(proc *Processor, size int, handler Handler) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{
		proc:    proc,
		drops:   make(chan DropEvent, size),
		handler: handler,
	}
}

// Submit enqueues a drop without blocking
func (q *Queue) Submit(drop DropEvent) error {
	select {
	case q.drops <- drop:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run processes queued drops until ctx is cancelled. A batch that has started
// always runs to completion.
func (q *Queue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case drop := <-q.drops:
			q.runBatch(drop)
		}
	}
}

func (q *Queue) runBatch(drop DropEvent) {
	events, err := q.proc.Process(drop)
	if err != nil {
		slog.Error("Batch rejected", "files", len(drop.Files), "error", err)
		q.handler.HandleError(drop, err)
		return
	}

	for ev := range events {
		q.handler.HandleEvent(ev)
	}
}
