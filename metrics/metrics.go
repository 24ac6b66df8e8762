// Package metrics derives the dashboard figures from the filter and target
// state. Nothing is cached: every value is computed from the state passed in.
package metrics

import (
	pf "github.com/jhoydich/pursuit-filter"
)

// Metrics is the set of figures reported alongside each frame.
type Metrics struct {
	FPS                int     `json:"fps"`
	TrackingError      float64 `json:"trackingError"`
	EffectiveParticles float64 `json:"effectiveParticles"`
	ConvergenceRate    float64 `json:"convergenceRate"`
}

// TrackingError is the distance between the filter estimate and the true centroid.
func TrackingError(estimate, centroid pf.Point) float64 {
	return estimate.Dist(centroid)
}

// EffectiveParticles is the effective sample size of the filter's current weights.
func EffectiveParticles(filter *pf.ParticleFilter) float64 {
	return filter.EffectiveSampleSize()
}

// ConvergenceRate is the effective sample size as a fraction of the
// population, or 0 for an empty filter.
func ConvergenceRate(filter *pf.ParticleFilter) float64 {
	n := len(filter.ListParticles)
	if n == 0 {
		return 0
	}
	return filter.EffectiveSampleSize() / float64(n)
}

// Compute gathers all metrics for the current state. fps is measured by the
// caller's frame loop.
func Compute(filter *pf.ParticleFilter, centroid pf.Point, fps int) Metrics {
	estimate := pf.Point{X: filter.EstimatedX, Y: filter.EstimatedY}
	return Metrics{
		FPS:                fps,
		TrackingError:      TrackingError(estimate, centroid),
		EffectiveParticles: EffectiveParticles(filter),
		ConvergenceRate:    ConvergenceRate(filter),
	}
}
