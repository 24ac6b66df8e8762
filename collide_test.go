package particlefilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// wallAt blocks everything at or right of x.
type wallAt float64

func (w wallAt) IsBlocked(x, _, _ float64) bool { return x >= float64(w) }

// cornerAt blocks only the quadrant beyond (x, y).
type cornerAt Point

func (c cornerAt) IsBlocked(x, y, _ float64) bool { return x >= c.X && y >= c.Y }

func TestResolveMove(t *testing.T) {
	t.Run("free move commits", func(t *testing.T) {
		m := ResolveMove(wallAt(100), 10, 10, 11, 12, 1)
		assert.Equal(t, Move{X: 11, Y: 12}, m)
	})

	t.Run("blocked axis stays put", func(t *testing.T) {
		m := ResolveMove(wallAt(100), 99.5, 10, 100.5, 11, 1)
		assert.Equal(t, Move{X: 99.5, Y: 10, HitX: true}, m)
	})

	t.Run("diagonal-only hit goes through", func(t *testing.T) {
		m := ResolveMove(cornerAt{X: 50, Y: 50}, 49.5, 49.5, 50.5, 50.5, 1)
		assert.Equal(t, Move{X: 50.5, Y: 50.5}, m)
	})
}
