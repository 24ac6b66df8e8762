package particlefilter

import (
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Point is a position on the simulation canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the euclidean distance between two points.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// LimitSpeed rescales (vx, vy) so its length is at most max, keeping the direction.
func LimitSpeed(vx, vy, max float64) (float64, float64) {
	speed := math.Hypot(vx, vy)
	if speed > max {
		return vx / speed * max, vy / speed * max
	}
	return vx, vy
}

// Clamp constrains v to lie within the inclusive [lo, hi] range.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NewRand returns a seeded random generator. A zero seed picks one from the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewSource(seed))
}

// Noise returns a zero-centred uniform distribution of width span drawing from rng.
func Noise(rng *rand.Rand, span float64) distuv.Uniform {
	return distuv.Uniform{Min: -span / 2, Max: span / 2, Src: rng}
}
