package window

import (
	"sync"
	"testing"
)

type fakeSurface struct {
	mu    sync.Mutex
	shows int
	hides int
}

func (f *fakeSurface) Show() {
	f.mu.Lock()
	f.shows++
	f.mu.Unlock()
}

func (f *fakeSurface) Hide() {
	f.mu.Lock()
	f.hides++
	f.mu.Unlock()
}

func (f *fakeSurface) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shows, f.hides
}

func newTestController(t *testing.T) (*Controller, *fakeSurface) {
	t.Helper()
	s := &fakeSurface{}
	c := NewController(s)
	t.Cleanup(c.Close)
	return c, s
}

func TestInitialStateVisible(t *testing.T) {
	c, _ := newTestController(t)
	if got := c.State(); got != Visible {
		t.Fatalf("State() = %v, want visible", got)
	}
}

func TestToggleIsAnInvolution(t *testing.T) {
	for _, start := range []State{Visible, Hidden} {
		t.Run(start.String(), func(t *testing.T) {
			c, _ := newTestController(t)
			if start == Hidden {
				c.Hide()
			}

			if got := c.Toggle(); got == start {
				t.Fatalf("first Toggle() = %v, want the other state", got)
			}
			if got := c.Toggle(); got != start {
				t.Fatalf("second Toggle() = %v, want %v", got, start)
			}
		})
	}
}

func TestShowHideIdempotent(t *testing.T) {
	c, s := newTestController(t)

	c.Show()
	if shows, hides := s.counts(); shows != 0 || hides != 0 {
		t.Fatalf("Show() on visible window called surface (%d shows, %d hides)", shows, hides)
	}

	c.Hide()
	c.Hide()
	if _, hides := s.counts(); hides != 1 {
		t.Fatalf("hides = %d, want 1", hides)
	}

	c.Show()
	c.Show()
	if shows, _ := s.counts(); shows != 1 {
		t.Fatalf("shows = %d, want 1", shows)
	}
}

func TestInterceptClose(t *testing.T) {
	t.Run("user close hides instead", func(t *testing.T) {
		c, s := newTestController(t)

		if !c.InterceptClose(UserRequested) {
			t.Fatal("InterceptClose(UserRequested) = false, want true")
		}
		if got := c.State(); got != Hidden {
			t.Fatalf("State() = %v, want hidden", got)
		}
		if _, hides := s.counts(); hides != 1 {
			t.Fatalf("hides = %d, want 1", hides)
		}
	})

	t.Run("user close while hidden stays hidden", func(t *testing.T) {
		c, _ := newTestController(t)
		c.Hide()

		if !c.InterceptClose(UserRequested) {
			t.Fatal("InterceptClose(UserRequested) = false, want true")
		}
		if got := c.State(); got != Hidden {
			t.Fatalf("State() = %v, want hidden", got)
		}
	})

	t.Run("shutdown proceeds", func(t *testing.T) {
		c, s := newTestController(t)

		if c.InterceptClose(ProgrammaticShutdown) {
			t.Fatal("InterceptClose(ProgrammaticShutdown) = true, want false")
		}
		if shows, hides := s.counts(); shows != 0 || hides != 0 {
			t.Fatal("shutdown close touched the window")
		}
	})
}

func TestConcurrentToggles(t *testing.T) {
	c, s := newTestController(t)

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Toggle()
		}()
	}
	wg.Wait()

	shows, hides := s.counts()
	if shows+hides != n {
		t.Fatalf("surface calls = %d, want %d", shows+hides, n)
	}
	if shows != hides {
		t.Fatalf("shows = %d, hides = %d; alternation broken", shows, hides)
	}
	if got := c.State(); got != Visible {
		t.Fatalf("State() after %d toggles = %v, want visible", n, got)
	}
}

func TestCloseStopsController(t *testing.T) {
	s := &fakeSurface{}
	c := NewController(s)
	c.Hide()
	c.Close()
	c.Close()

	if got := c.Toggle(); got != Hidden {
		t.Fatalf("Toggle() after Close = %v, want last state hidden", got)
	}
	if shows, _ := s.counts(); shows != 0 {
		t.Fatal("Toggle() after Close touched the window")
	}
}
