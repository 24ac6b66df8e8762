// Package particlefilter implements the sequential importance resampling filter
// that tracks the target swarm of the pursuit simulation.
//
// Hypothesis particles are predicted with a damped random-velocity model,
// weighted against the live target centroid and resampled with systematic
// resampling whenever the effective sample size collapses.
package particlefilter

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	velocityDecay      = 0.98
	maxSpeed           = 1.5
	edgeMargin         = 5.0
	spawnRadiusRatio   = 0.3
	initialVelocity    = 0.6 // full width, components in ±0.3
	positionFuzz       = 5.0 // full width, ±2.5 px
	velocityFuzz       = 0.2 // full width, ±0.1
	randomResampleRate = 0.1
)

// Reading scores a hypothesis particle against the current observation.
type Reading interface {
	CalculateWeight(Particle) float64
}

// CentroidReading observes the target centroid directly, so every tick has a
// measurement available.
type CentroidReading struct {
	Target           Point
	ObservationNoise float64
}

// CalculateWeight returns the unnormalized gaussian likelihood of p.
func (r CentroidReading) CalculateWeight(p Particle) float64 {
	return GaussianLikelihood(p.Pos().Dist(r.Target), r.ObservationNoise)
}

// Particle is one hypothesis of the target position.
type Particle struct {
	X      float64
	Y      float64
	VX     float64
	VY     float64
	Weight float64
	Radius float64 // rendering only
}

func (p *Particle) UpdateWeight(weight float64) {
	p.Weight = weight
}

// Pos returns the particle position.
func (p Particle) Pos() Point {
	return Point{X: p.X, Y: p.Y}
}

// Options are the tunable filter parameters.
type Options struct {
	ProcessNoise      float64
	ObservationNoise  float64
	ResampleThreshold float64
	Adaptive          bool
}

// DefaultOptions returns the options the demo starts with.
func DefaultOptions() Options {
	return Options{
		ProcessNoise:      0.1,
		ObservationNoise:  1.5,
		ResampleThreshold: 0.5,
		Adaptive:          true,
	}
}

type ParticleFilter struct {
	Options
	NumSamples      int
	ListParticles   []*Particle
	Size            float64 // canvas extent in px
	EstimatedX      float64
	EstimatedY      float64
	MaxWeight       float64
	Resampled       bool // whether the last Step resampled
	iteration       int
	rng             *rand.Rand
	velDistribution distuv.Uniform
	posFuzz         distuv.Uniform
	velFuzz         distuv.Uniform
}

// CreatePF creates a particle filter over a square canvas of the given size
// and scatters numSamps particles around its center.
func CreatePF(numSamps int, size float64, opts Options, rng *rand.Rand) *ParticleFilter {
	pf := &ParticleFilter{
		Options:         opts,
		Size:            size,
		rng:             rng,
		velDistribution: Noise(rng, initialVelocity),
		posFuzz:         Noise(rng, positionFuzz),
		velFuzz:         Noise(rng, velocityFuzz),
	}
	pf.Initialize(numSamps)
	return pf
}

// Initialize replaces the population with count fresh particles.
func (pf *ParticleFilter) Initialize(count int) {
	pf.NumSamples = count
	pf.ListParticles = make([]*Particle, 0, count)
	for i := 0; i < count; i++ {
		p := pf.createParticle()
		pf.ListParticles = append(pf.ListParticles, &p)
	}
	pf.MaxWeight = 1
	pf.Resampled = false
	pf.iteration = 0
	pf.Estimate()
}

// createParticle draws a particle uniformly inside the spawn disk.
func (pf *ParticleFilter) createParticle() Particle {
	c := pf.Size / 2
	r := spawnRadiusRatio * pf.Size * math.Sqrt(pf.rng.Float64())
	sin, cos := math.Sincos(2 * math.Pi * pf.rng.Float64())
	return Particle{
		X:      c + r*cos,
		Y:      c + r*sin,
		VX:     pf.velDistribution.Rand(),
		VY:     pf.velDistribution.Rand(),
		Weight: 1,
		Radius: 2 + 2*pf.rng.Float64(),
	}
}

// Predict moves every particle by its velocity, perturbs the velocity with
// process noise and keeps it inside the canvas. Walls are ignored: particles
// are beliefs, not bodies.
func (pf *ParticleFilter) Predict(dt float64) {
	noise := Noise(pf.rng, pf.ProcessNoise)
	lo, hi := edgeMargin, pf.Size-edgeMargin
	for _, p := range pf.ListParticles {
		p.X += p.VX * dt
		p.Y += p.VY * dt

		p.VX += noise.Rand()
		p.VY += noise.Rand()
		p.VX *= velocityDecay
		p.VY *= velocityDecay
		p.VX, p.VY = LimitSpeed(p.VX, p.VY, maxSpeed)

		p.X = Clamp(p.X, lo, hi)
		p.Y = Clamp(p.Y, lo, hi)
	}
}

// CalculateWeights replaces each particle weight with its likelihood under r.
// Prior weights are discarded.
func (pf *ParticleFilter) CalculateWeights(r Reading) {
	pf.MaxWeight = 0
	for _, p := range pf.ListParticles {
		w := r.CalculateWeight(*p)
		if w > pf.MaxWeight {
			pf.MaxWeight = w
		}
		p.UpdateWeight(w)
	}
}

// Weights returns a copy of the current particle weights.
func (pf *ParticleFilter) Weights() []float64 {
	w := make([]float64, len(pf.ListParticles))
	for i, p := range pf.ListParticles {
		w[i] = p.Weight
	}
	return w
}

// EffectiveSampleSize returns the ESS of the current weights.
func (pf *ParticleFilter) EffectiveSampleSize() float64 {
	return EffectiveSampleSize(pf.Weights())
}

// ShouldResample applies the resampling policy: the ESS criterion when
// adaptive, a fixed per-tick chance otherwise.
func (pf *ParticleFilter) ShouldResample() bool {
	if pf.Adaptive {
		return pf.EffectiveSampleSize() < pf.ResampleThreshold*float64(len(pf.ListParticles))
	}
	return pf.rng.Float64() < randomResampleRate
}

// ResampleAndFuzz replaces the population using systematic resampling and
// fuzzes each child around its parent. It is a no-op returning false when
// the total weight is zero.
func (pf *ParticleFilter) ResampleAndFuzz() bool {
	weights := pf.Weights()
	total := floats.Sum(weights)
	if total == 0 {
		return false
	}
	n := len(weights)

	cumulative := make([]float64, n)
	floats.ScaleTo(cumulative, 1/total, weights)
	floats.CumSum(cumulative, cumulative)

	u := pf.rng.Float64() / float64(n)
	newParticleList := make([]*Particle, 0, n)
	for _, i := range systematicIndices(cumulative, u) {
		parent := pf.ListParticles[i]
		newParticleList = append(newParticleList, &Particle{
			X:      parent.X + pf.posFuzz.Rand(),
			Y:      parent.Y + pf.posFuzz.Rand(),
			VX:     parent.VX + pf.velFuzz.Rand(),
			VY:     parent.VY + pf.velFuzz.Rand(),
			Weight: 1,
			Radius: parent.Radius,
		})
	}

	pf.ListParticles = newParticleList
	pf.MaxWeight = 1
	return true
}

// systematicIndices walks the cumulative distribution with the n evenly
// spaced draws u, u+1/n, ... and returns the selected index for each draw.
// The cursor never moves past the last index.
func systematicIndices(cumulative []float64, u float64) []int {
	n := len(cumulative)
	step := 1 / float64(n)
	idx := make([]int, n)
	i := 0
	for j := 0; j < n; j++ {
		for u > cumulative[i] && i < n-1 {
			i++
		}
		idx[j] = i
		u += step
	}
	return idx
}

// Estimate computes the weighted mean position and stores it in
// EstimatedX/EstimatedY. A population without weight estimates the origin.
func (pf *ParticleFilter) Estimate() Point {
	n := len(pf.ListParticles)
	xs := make([]float64, n)
	ys := make([]float64, n)
	ws := make([]float64, n)
	for i, p := range pf.ListParticles {
		xs[i], ys[i], ws[i] = p.X, p.Y, p.Weight
	}

	if n == 0 || floats.Sum(ws) == 0 {
		pf.EstimatedX, pf.EstimatedY = 0, 0
	} else {
		pf.EstimatedX = stat.Mean(xs, ws)
		pf.EstimatedY = stat.Mean(ys, ws)
	}
	return Point{X: pf.EstimatedX, Y: pf.EstimatedY}
}

// Step runs one predict, weight, resample cycle and refreshes the estimate.
// It reports whether the population was resampled.
func (pf *ParticleFilter) Step(dt float64, r Reading) bool {
	pf.iteration++
	pf.Predict(dt)
	pf.CalculateWeights(r)
	pf.Resampled = pf.ShouldResample() && pf.ResampleAndFuzz()
	pf.Estimate()
	return pf.Resampled
}

// Iteration returns the number of steps run since the last Initialize.
func (pf *ParticleFilter) Iteration() int {
	return pf.iteration
}

// EffectiveSampleSize returns 1/Σ(wᵢ/Σw)², or 0 for an empty or weightless set.
func EffectiveSampleSize(weights []float64) float64 {
	if len(weights) == 0 {
		return 0
	}
	total := floats.Sum(weights)
	if total == 0 {
		return 0
	}
	normalized := make([]float64, len(weights))
	floats.ScaleTo(normalized, 1/total, weights)
	sq := floats.Dot(normalized, normalized)
	if sq == 0 {
		return 0
	}
	return 1 / sq
}

// GaussianLikelihood weighs a distance d with bandwidth controlled by noise.
func GaussianLikelihood(d, noise float64) float64 {
	return math.Exp(-d * d / (noise * 100))
}
