// Package swarm simulates the ground-truth target: a small cluster of
// particles that drifts as a whole while holding a loose formation. Its
// centroid is the state the filter estimates.
package swarm

import (
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	pf "github.com/jhoydich/pursuit-filter"
)

// Size is the number of particles making up the target.
const Size = 12

const (
	minRadius       = 8.0
	radiusSpread    = 5.0
	initialVelocity = 0.8 // full width, ±0.4
	driftVelocity   = 0.6 // full width, ±0.3
	cohesionGain    = 0.02
	orbitRate       = 0.02
	orbitGain       = 0.01
	noiseVelocity   = 0.1 // full width, ±0.05
	wallDamping     = 0.8
	edge            = 3.0
)

// Particle is one member of the target swarm.
type Particle struct {
	X, Y       float64
	VX, VY     float64
	Size       float64
	Angle      float64
	BaseRadius float64
}

// Swarm is the target population.
type Swarm struct {
	Particles  []Particle
	Trajectory Trajectory
	// Record enables appending the centroid to Trajectory on every update.
	Record bool

	centroid pf.Point
	size     float64
	blocker  pf.Blocker
	rng      *rand.Rand

	velocity distuv.Uniform
	drift    distuv.Uniform
	noise    distuv.Uniform
}

// New creates the target swarm at the center of a size×size canvas.
func New(size float64, blocker pf.Blocker, rng *rand.Rand) *Swarm {
	s := &Swarm{
		size:     size,
		blocker:  blocker,
		rng:      rng,
		velocity: pf.Noise(rng, initialVelocity),
		drift:    pf.Noise(rng, driftVelocity),
		noise:    pf.Noise(rng, noiseVelocity),
	}
	s.Initialize()
	return s
}

// Initialize places the particles evenly around the canvas center and
// clears the trajectory.
func (s *Swarm) Initialize() {
	c := s.size / 2
	s.Particles = make([]Particle, Size)
	for i := range s.Particles {
		angle := float64(i) / Size * 2 * math.Pi
		radius := minRadius + radiusSpread*s.rng.Float64()
		sin, cos := math.Sincos(angle)
		s.Particles[i] = Particle{
			X:          c + radius*cos,
			Y:          c + radius*sin,
			VX:         s.velocity.Rand(),
			VY:         s.velocity.Rand(),
			Size:       3 + 2*s.rng.Float64(),
			Angle:      angle,
			BaseRadius: radius,
		}
	}
	s.centroid = s.mean()
	s.Trajectory.Clear()
}

// Centroid returns the centroid computed by the last Update.
func (s *Swarm) Centroid() pf.Point {
	return s.centroid
}

func (s *Swarm) mean() pf.Point {
	if len(s.Particles) == 0 {
		return pf.Point{}
	}
	xs := make([]float64, len(s.Particles))
	ys := make([]float64, len(s.Particles))
	for i, p := range s.Particles {
		xs[i], ys[i] = p.X, p.Y
	}
	return pf.Point{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil)}
}

// Update recomputes the centroid, records it when enabled and moves every
// particle by one shared drift plus its own cohesion, orbit and noise terms.
func (s *Swarm) Update(dt float64, now time.Time) {
	c := s.mean()
	s.centroid = c
	if s.Record {
		s.Trajectory.Push(Sample{Point: c, Time: now})
	}

	gvx, gvy := s.drift.Rand(), s.drift.Rand()
	for i := range s.Particles {
		p := &s.Particles[i]

		p.Angle += orbitRate * dt
		sin, cos := math.Sincos(p.Angle)
		p.VX = gvx + (c.X-p.X)*cohesionGain + p.BaseRadius*cos*orbitGain + s.noise.Rand()
		p.VY = gvy + (c.Y-p.Y)*cohesionGain + p.BaseRadius*sin*orbitGain + s.noise.Rand()

		m := pf.ResolveMove(s.blocker, p.X, p.Y, p.X+p.VX*dt, p.Y+p.VY*dt, p.Size)
		if m.HitX {
			p.VX = -p.VX * wallDamping
		}
		if m.HitY {
			p.VY = -p.VY * wallDamping
		}
		p.X = pf.Clamp(m.X, edge, s.size-edge)
		p.Y = pf.Clamp(m.Y, edge, s.size-edge)
	}
}
