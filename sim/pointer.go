package sim

import (
	"math"

	pf "github.com/jhoydich/pursuit-filter"
)

// MapPointer converts a position in displayed pixels into canvas
// coordinates, given the size the canvas is displayed at.
func (e *Engine) MapPointer(x, y, displayedW, displayedH float64) pf.Point {
	if displayedW <= 0 || displayedH <= 0 {
		return pf.Point{}
	}
	size := e.size()
	return pf.Point{
		X: math.Floor(x * size / displayedW),
		Y: math.Floor(y * size / displayedH),
	}
}

// PointerDown stamps a wall at p and starts a stroke.
func (e *Engine) PointerDown(p pf.Point) {
	e.grid.Stamp(p.X, p.Y, e.cfg.WallThickness)
	e.drawing = true
	e.last = p
}

// PointerMove extends the current stroke to p. It does nothing when no
// stroke is in progress.
func (e *Engine) PointerMove(p pf.Point) {
	if !e.drawing {
		return
	}
	e.grid.DrawLine(e.last.X, e.last.Y, p.X, p.Y, e.cfg.WallThickness)
	e.last = p
}

// PointerUp ends the current stroke.
func (e *Engine) PointerUp() {
	e.drawing = false
}

// Drawing reports whether a stroke is in progress.
func (e *Engine) Drawing() bool { return e.drawing }
