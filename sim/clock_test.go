package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameTicks(t *testing.T) {
	e := newEngine(t, nil)
	c := NewClock(e)

	assert.True(t, c.Frame(epoch))
	assert.True(t, c.Frame(epoch.Add(16*time.Millisecond)))
	assert.Equal(t, 2, e.Ticks())
}

func TestPause(t *testing.T) {
	e := newEngine(t, nil)
	c := NewClock(e)

	c.Pause()
	assert.True(t, c.Paused())
	for i := 0; i <= 10; i++ {
		assert.False(t, c.Frame(epoch.Add(time.Duration(i)*100*time.Millisecond)))
	}
	assert.Zero(t, e.Ticks())
	assert.Equal(t, 11, c.FPS(), "frames are counted while paused")

	c.Resume()
	assert.True(t, c.Frame(epoch.Add(1100*time.Millisecond)))
	assert.Equal(t, 1, e.Ticks())

	assert.True(t, c.Toggle())
	assert.False(t, c.Toggle())
}

func TestFPS(t *testing.T) {
	e := newEngine(t, nil)
	c := NewClock(e)

	for i := 0; i < 60; i++ {
		c.Frame(epoch.Add(time.Duration(i) * 10 * time.Millisecond))
	}
	assert.Zero(t, c.FPS(), "no full second yet")

	c.Frame(epoch.Add(time.Second))
	assert.Equal(t, 61, c.FPS())
	assert.Equal(t, 61, e.Metrics().FPS)

	for i := 1; i <= 30; i++ {
		c.Frame(epoch.Add(time.Second + time.Duration(i)*33*time.Millisecond))
	}
	c.Frame(epoch.Add(2 * time.Second))
	assert.Equal(t, 31, c.FPS())
}

func TestDo(t *testing.T) {
	e := newEngine(t, nil)
	c := NewClock(e)

	ticksSeen := -1
	require.NoError(t, c.Do(func(e *Engine) { ticksSeen = e.Ticks() }))
	require.NoError(t, c.Do(func(e *Engine) { e.ClearWalls() }))
	assert.Equal(t, -1, ticksSeen, "commands wait for the next frame")

	c.Frame(epoch)
	assert.Equal(t, 0, ticksSeen, "commands run before the tick")
	assert.Equal(t, 1, e.Ticks())

	for i := 0; i < queueLen; i++ {
		require.NoError(t, c.Do(func(*Engine) {}))
	}
	assert.ErrorIs(t, c.Do(func(*Engine) {}), ErrQueueFull)

	c.Frame(epoch.Add(time.Millisecond))
	assert.NoError(t, c.Do(func(*Engine) {}))
}

func TestRun(t *testing.T) {
	e := newEngine(t, nil)
	c := NewClock(e)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, time.Millisecond) }()

	stop := make(chan struct{})
	require.NoError(t, c.Do(func(*Engine) { close(stop) }))
	select {
	case <-stop:
	case <-time.After(5 * time.Second):
		t.Fatal("loop never ran a frame")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Greater(t, e.Ticks(), 0)
}
