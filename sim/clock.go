package sim

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrQueueFull is returned by Do when too many commands are pending.
var ErrQueueFull = errors.New("command queue full")

const queueLen = 64

// Command is a state change run on the loop goroutine between two ticks.
type Command func(*Engine)

// Clock drives an Engine one tick per frame and measures the frame rate.
// Frame must be called from a single goroutine; Do, Pause and Resume may be
// called from any.
type Clock struct {
	engine *Engine
	cmds   chan Command
	paused atomic.Bool

	frames   int
	lastTime time.Time
	fps      int
}

// NewClock returns a running clock for e.
func NewClock(e *Engine) *Clock {
	return &Clock{
		engine: e,
		cmds:   make(chan Command, queueLen),
	}
}

// Frame handles one frame arriving at now: it updates the FPS counter, runs
// queued commands and ticks the engine unless paused. It reports whether a
// tick ran.
func (c *Clock) Frame(now time.Time) bool {
	c.frames++
	if c.lastTime.IsZero() {
		c.lastTime = now
	}
	if now.Sub(c.lastTime) >= time.Second {
		c.fps = c.frames
		c.frames = 0
		c.lastTime = now
		c.engine.fps = c.fps
	}

	c.drain()

	if c.paused.Load() {
		return false
	}
	c.engine.Tick()
	return true
}

func (c *Clock) drain() {
	for {
		select {
		case cmd := <-c.cmds:
			cmd(c.engine)
		default:
			return
		}
	}
}

// Do queues cmd for the next frame boundary.
func (c *Clock) Do(cmd Command) error {
	select {
	case c.cmds <- cmd:
		return nil
	default:
		return ErrQueueFull
	}
}

// Pause stops ticking from the next frame on. Frames keep being counted.
func (c *Clock) Pause() { c.paused.Store(true) }

// Resume restarts ticking.
func (c *Clock) Resume() { c.paused.Store(false) }

// Toggle flips the paused state and returns the new one.
func (c *Clock) Toggle() bool {
	for {
		p := c.paused.Load()
		if c.paused.CompareAndSwap(p, !p) {
			return !p
		}
	}
}

// Paused reports whether ticking is suspended.
func (c *Clock) Paused() bool { return c.paused.Load() }

// FPS returns the frame count of the last full second.
func (c *Clock) FPS() int { return c.fps }

// Run calls Frame at a fixed interval until ctx is done, then stops the
// ticker and returns ctx.Err().
func (c *Clock) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			c.Frame(now)
		}
	}
}
