package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	pf "github.com/jhoydich/pursuit-filter"
)

func newFilter(weights ...float64) *pf.ParticleFilter {
	filter := pf.CreatePF(len(weights), 600, pf.DefaultOptions(), pf.NewRand(1))
	for i, w := range weights {
		filter.ListParticles[i].X = 100
		filter.ListParticles[i].Y = 100 + 100*float64(i)
		filter.ListParticles[i].UpdateWeight(w)
	}
	filter.Estimate()
	return filter
}

func TestTrackingError(t *testing.T) {
	assert.Equal(t, 5.0, TrackingError(pf.Point{X: 3, Y: 4}, pf.Point{}))
	assert.Zero(t, TrackingError(pf.Point{X: 7, Y: 7}, pf.Point{X: 7, Y: 7}))
}

func TestConvergenceRate(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		ess     float64
		rate    float64
	}{
		{"empty", nil, 0, 0},
		{"weightless", []float64{0, 0, 0}, 0, 0},
		{"uniform", []float64{1, 1, 1, 1}, 4, 1},
		{"degenerate", []float64{1, 0, 0, 0}, 1, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := newFilter(tt.weights...)
			assert.InDelta(t, tt.ess, EffectiveParticles(filter), 1e-9)
			assert.InDelta(t, tt.rate, ConvergenceRate(filter), 1e-9)
		})
	}
}

func TestCompute(t *testing.T) {
	filter := newFilter(1, 1)
	m := Compute(filter, pf.Point{X: 100, Y: 150}, 60)

	assert.Equal(t, 60, m.FPS)
	assert.InDelta(t, 0, m.TrackingError, 1e-9)
	assert.InDelta(t, 2, m.EffectiveParticles, 1e-9)
	assert.InDelta(t, 1, m.ConvergenceRate, 1e-9)

	m = Compute(newFilter(), pf.Point{X: 3, Y: 4}, 0)
	assert.Equal(t, Metrics{TrackingError: 5}, m)
}
