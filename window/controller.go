// Package window owns the show/hide state of the main window.
package window

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// State is the window visibility
type State int32

const (
	Visible State = iota
	Hidden
)

func (s State) String() string {
	if s == Hidden {
		return "hidden"
	}
	return "visible"
}

// CloseReason says who asked the window to close
type CloseReason int

const (
	UserRequested CloseReason = iota
	ProgrammaticShutdown
)

// Surface is the host window. Show restores it to its normal state and puts it
// back in the task list; Hide removes it from both without destroying it.
type Surface interface {
	Show()
	Hide()
}

type op int

const (
	opToggle op = iota
	opShow
	opHide
	opState
)

type command struct {
	op    op
	reply chan State
}

// Controller serialises every visibility change through one goroutine, so the
// hotkey and tray paths can call it concurrently. The window starts Visible.
type Controller struct {
	surface Surface
	cmds    chan command
	done    chan struct{}
	once    sync.Once
	state   State
	last    atomic.Int32
}

// NewController starts the owning goroutine. Call Close to stop it.
func NewController(surface Surface) *Controller {
	c := &Controller{
		surface: surface,
		cmds:    make(chan command),
		done:    make(chan struct{}),
		state:   Visible,
	}
	go c.run()
	return c
}

// Toggle flips the state and returns the new one
func (c *Controller) Toggle() State { return c.send(opToggle) }

// Show makes the window visible; no-op if it already is
func (c *Controller) Show() State { return c.send(opShow) }

// Hide hides the window; no-op if it already is hidden
func (c *Controller) Hide() State { return c.send(opHide) }

// State returns the current state
func (c *Controller) State() State { return c.send(opState) }

// InterceptClose decides a close request. A user close hides the window and
// returns true to stop the close; any other reason is let through.
func (c *Controller) InterceptClose(reason CloseReason) bool {
	if reason != UserRequested {
		return false
	}
	c.Hide()
	return true
}

// Close stops the owning goroutine. Later calls report the last state and do
// not touch the surface.
func (c *Controller) Close() {
	c.once.Do(func() { close(c.done) })
}

func (c *Controller) send(o op) State {
	reply := make(chan State, 1)
	select {
	case c.cmds <- command{op: o, reply: reply}:
		return <-reply
	case <-c.done:
		return State(c.last.Load())
	}
}

func (c *Controller) run() {
	for {
		select {
		case <-c.done:
			return
		case cmd := <-c.cmds:
			select {
			case <-c.done:
				cmd.reply <- c.state
				return
			default:
			}
			cmd.reply <- c.apply(cmd.op)
		}
	}
}

func (c *Controller) apply(o op) State {
	switch o {
	case opToggle:
		if c.state == Visible {
			c.setState(Hidden)
		} else {
			c.setState(Visible)
		}
	case opShow:
		if c.state != Visible {
			c.setState(Visible)
		}
	case opHide:
		if c.state != Hidden {
			c.setState(Hidden)
		}
	}
	return c.state
}

func (c *Controller) setState(s State) {
	if s == Visible {
		c.surface.Show()
	} else {
		c.surface.Hide()
	}
	c.state = s
	c.last.Store(int32(s))
	slog.Debug("Window visibility changed", "state", s.String())
}
