package particlefilter

// Blocker answers footprint collision queries against the wall grid.
type Blocker interface {
	IsBlocked(x, y, radius float64) bool
}

// Move is the outcome of resolving a tentative move.
type Move struct {
	X, Y float64
	HitX bool // the x-only move collides
	HitY bool // the y-only move collides
}

// ResolveMove checks the move from (x, y) to (nx, ny) for a body of the given
// radius. A colliding move stays put and reports which single-axis moves
// collide. When neither does (a diagonal-only hit) the move goes through.
func ResolveMove(b Blocker, x, y, nx, ny, radius float64) Move {
	if !b.IsBlocked(nx, ny, radius) {
		return Move{X: nx, Y: ny}
	}
	m := Move{
		X:    x,
		Y:    y,
		HitX: b.IsBlocked(nx, y, radius),
		HitY: b.IsBlocked(x, ny, radius),
	}
	if !m.HitX && !m.HitY {
		m.X, m.Y = nx, ny
	}
	return m
}
