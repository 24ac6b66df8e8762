// Package field simulates the ambient "micro" particles that wander around
// the walls. They are a backdrop and play no part in the estimation.
package field

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	pf "github.com/jhoydich/pursuit-filter"
)

// NumTypes is the number of visual particle types.
const NumTypes = 4

const (
	inset           = 5.0
	initialVelocity = 0.6 // full width, ±0.3
	acceleration    = 0.1 // full width, ±0.05
	maxSpeed        = 0.8
	wallDamping     = 0.7
	wallNoise       = 0.2 // full width, ±0.1
	edge            = 2.0
	edgeDamping     = 0.8
	phaseRate       = 0.1
	lifeDrift       = 0.02 // full width, ±0.01
	minLife         = 0.1
	respawnRate     = 0.001
)

// Particle is one ambient particle. Life and Phase only drive rendering.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Size   float64
	Type   int
	Life   float64
	Phase  float64
}

// Field is the ambient particle population.
type Field struct {
	Particles []Particle

	size    float64
	blocker pf.Blocker
	rng     *rand.Rand

	velocity distuv.Uniform
	accel    distuv.Uniform
	bounce   distuv.Uniform
	drift    distuv.Uniform
}

// New creates a field of count particles on a size×size canvas.
func New(count int, size float64, blocker pf.Blocker, rng *rand.Rand) *Field {
	f := &Field{
		size:     size,
		blocker:  blocker,
		rng:      rng,
		velocity: pf.Noise(rng, initialVelocity),
		accel:    pf.Noise(rng, acceleration),
		bounce:   pf.Noise(rng, wallNoise),
		drift:    pf.Noise(rng, lifeDrift),
	}
	f.Initialize(count)
	return f
}

// Initialize regenerates the whole population with count particles.
func (f *Field) Initialize(count int) {
	f.Particles = make([]Particle, count)
	for i := range f.Particles {
		p := &f.Particles[i]
		f.spawn(p)
		p.Size = 0.5 + 1.5*f.rng.Float64()
		p.Type = f.rng.Intn(NumTypes)
		p.Phase = 2 * math.Pi * f.rng.Float64()
	}
}

// spawn places p at a random interior position with fresh velocity and life.
func (f *Field) spawn(p *Particle) {
	p.X = inset + (f.size-2*inset)*f.rng.Float64()
	p.Y = inset + (f.size-2*inset)*f.rng.Float64()
	p.VX = f.velocity.Rand()
	p.VY = f.velocity.Rand()
	p.Life = 0.3 + 0.7*f.rng.Float64()
}

// Update advances every particle by dt.
func (f *Field) Update(dt float64) {
	for i := range f.Particles {
		f.step(&f.Particles[i], dt)
	}
}

func (f *Field) step(p *Particle, dt float64) {
	p.VX += f.accel.Rand()
	p.VY += f.accel.Rand()
	p.VX, p.VY = pf.LimitSpeed(p.VX, p.VY, maxSpeed)

	m := pf.ResolveMove(f.blocker, p.X, p.Y, p.X+p.VX*dt, p.Y+p.VY*dt, p.Size)
	if m.HitX {
		p.VX = -p.VX*wallDamping + f.bounce.Rand()
	}
	if m.HitY {
		p.VY = -p.VY*wallDamping + f.bounce.Rand()
	}
	p.X, p.Y = m.X, m.Y

	if p.X < edge || p.X > f.size-edge {
		p.VX = -p.VX * edgeDamping
		p.X = pf.Clamp(p.X, edge, f.size-edge)
	}
	if p.Y < edge || p.Y > f.size-edge {
		p.VY = -p.VY * edgeDamping
		p.Y = pf.Clamp(p.Y, edge, f.size-edge)
	}

	p.Phase += phaseRate * dt
	p.Life = pf.Clamp(p.Life+f.drift.Rand(), minLife, 1)

	if f.rng.Float64() < respawnRate {
		f.spawn(p)
	}
}
