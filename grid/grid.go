// Package grid holds the occupancy map that walls are rasterized into and
// that particles collide against.
package grid

import "math"

// DefaultSize is the canvas extent the demo runs with.
const DefaultSize = 600

// Grid is a square occupancy map. A cell is set iff some wall stroke covered
// it; cells are only ever cleared all at once.
type Grid struct {
	size  int
	cells []bool
}

// New allocates an empty grid of size×size cells.
func New(size int) *Grid {
	return &Grid{size: size, cells: make([]bool, size*size)}
}

// Size returns the side length in cells.
func (g *Grid) Size() int { return g.size }

// Clear marks every cell unoccupied.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = false
	}
}

// DrawLine rasterizes a wall segment. The segment is sampled once per cell
// along its longer axis and every sample is stamped with a square brush.
func (g *Grid) DrawLine(x1, y1, x2, y2, thickness float64) {
	dx := x2 - x1
	dy := y2 - y1
	steps := int(math.Max(math.Abs(dx), math.Abs(dy)))
	if steps == 0 {
		g.Stamp(x1, y1, thickness)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		g.Stamp(math.Round(x1+dx*t), math.Round(y1+dy*t), thickness)
	}
}

// Stamp marks every cell within thickness/2 (Chebyshev) of (x, y).
func (g *Grid) Stamp(x, y, thickness float64) {
	half := int(math.Floor(thickness / 2))
	cx := int(math.Round(x))
	cy := int(math.Round(y))
	for j := -half; j <= half; j++ {
		for i := -half; i <= half; i++ {
			wx := clampCoord(cx+i, 0, g.size-1)
			wy := clampCoord(cy+j, 0, g.size-1)
			g.cells[wy*g.size+wx] = true
		}
	}
}

// IsBlocked reports whether a body of the given radius at (x, y) would touch
// a wall or leave the grid. Edge cells always count as blocked.
func (g *Grid) IsBlocked(x, y, radius float64) bool {
	xi := int(math.Round(x))
	yi := int(math.Round(y))
	r := int(math.Round(radius))

	margin := r
	if margin < 1 {
		margin = 1
	}
	if xi < margin || xi >= g.size-margin || yi < margin || yi >= g.size-margin {
		return true
	}

	for j := -r; j <= r; j++ {
		for i := -r; i <= r; i++ {
			if g.Occupied(clampCoord(xi+i, 0, g.size-1), clampCoord(yi+j, 0, g.size-1)) {
				return true
			}
		}
	}
	return false
}

// Occupied reports whether cell (x, y) is a wall. Cells outside the grid
// count as walls.
func (g *Grid) Occupied(x, y int) bool {
	if x < 0 || x >= g.size || y < 0 || y >= g.size {
		return true
	}
	return g.cells[y*g.size+x]
}

// Count returns the number of occupied cells.
func (g *Grid) Count() int {
	n := 0
	for _, c := range g.cells {
		if c {
			n++
		}
	}
	return n
}

// clampCoord constrains v to lie within the inclusive [min, max] range.
func clampCoord(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
