package extract

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"markestedt/dropzip/config"
)

type recordingHandler struct {
	mu     sync.Mutex
	events []Event
	errs   []error
	done   chan struct{}
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{done: make(chan struct{}, 16)}
}

func (h *recordingHandler) HandleEvent(ev Event) {
	h.mu.Lock()
	h.events = append(h.events, ev)
	h.mu.Unlock()
	if ev.Type == BatchFinished {
		h.done <- struct{}{}
	}
}

func (h *recordingHandler) HandleError(_ DropEvent, err error) {
	h.mu.Lock()
	h.errs = append(h.errs, err)
	h.mu.Unlock()
	h.done <- struct{}{}
}

func (h *recordingHandler) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-h.done:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for batch %d of %d", i+1, n)
		}
	}
}

func TestQueueRunsBatchesSequentially(t *testing.T) {
	inv := &fakeInvoker{delay: 10 * time.Millisecond}
	h := newRecordingHandler()
	q := NewQueue(NewProcessor(fakeSettings{config.KeyToolPath: "tool"}, inv), 4, h)

	if err := q.Submit(DropEvent{Files: []string{"a.zip", "b.zip"}}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if err := q.Submit(DropEvent{Files: []string{"c.zip"}}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)

	h.wait(t, 2)

	if got := inv.maxSeen.Load(); got != 1 {
		t.Fatalf("max concurrent invocations = %d, want 1", got)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	wantTypes := []EventType{FileFinished, FileFinished, BatchFinished, FileFinished, BatchFinished}
	if len(h.events) != len(wantTypes) {
		t.Fatalf("len(events) = %d, want %d", len(h.events), len(wantTypes))
	}
	for i, want := range wantTypes {
		if h.events[i].Type != want {
			t.Fatalf("events[%d].Type = %v, want %v", i, h.events[i].Type, want)
		}
	}
	if h.events[0].BatchID == h.events[3].BatchID {
		t.Fatal("two drops shared a batch ID")
	}
}

func TestQueueReportsConfigurationError(t *testing.T) {
	inv := &fakeInvoker{}
	h := newRecordingHandler()
	q := NewQueue(NewProcessor(fakeSettings{}, inv), 1, h)

	if err := q.Submit(DropEvent{Files: []string{"a.zip"}}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)

	h.wait(t, 1)

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.errs) != 1 || !errors.Is(h.errs[0], ErrNotConfigured) {
		t.Fatalf("errors = %v, want one ErrNotConfigured", h.errs)
	}
	if len(h.events) != 0 {
		t.Fatalf("events = %d, want 0", len(h.events))
	}
}

func TestQueueSubmitFull(t *testing.T) {
	q := NewQueue(NewProcessor(fakeSettings{}, &fakeInvoker{}), 1, Handlers{})

	if err := q.Submit(DropEvent{Files: []string{"a.zip"}}); err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}
	if err := q.Submit(DropEvent{Files: []string{"b.zip"}}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("second Submit() error = %v, want ErrQueueFull", err)
	}
}

func TestHandlersFanOut(t *testing.T) {
	a, b := newRecordingHandler(), newRecordingHandler()
	hs := Handlers{a, b}

	hs.HandleEvent(Event{Type: BatchFinished})
	hs.HandleError(DropEvent{}, ErrNotConfigured)

	for i, h := range []*recordingHandler{a, b} {
		if len(h.events) != 1 || len(h.errs) != 1 {
			t.Fatalf("handler %d got %d events and %d errors, want 1 and 1", i, len(h.events), len(h.errs))
		}
	}
}
