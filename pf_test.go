package particlefilter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const canvas = 600.0

func newTestFilter(t *testing.T, n int, seed uint64) *ParticleFilter {
	t.Helper()
	pf := CreatePF(n, canvas, DefaultOptions(), NewRand(seed))
	require.Len(t, pf.ListParticles, n)
	return pf
}

func setWeights(pf *ParticleFilter, weights ...float64) {
	pf.ListParticles = pf.ListParticles[:0]
	for i, w := range weights {
		pf.ListParticles = append(pf.ListParticles, &Particle{
			X:      100 + 300*float64(i),
			Y:      100 + 300*float64(i),
			Weight: w,
			Radius: 3,
		})
	}
}

func TestCreatePF(t *testing.T) {
	pf := newTestFilter(t, 300, 1)

	center := Point{X: canvas / 2, Y: canvas / 2}
	for _, p := range pf.ListParticles {
		assert.LessOrEqual(t, p.Pos().Dist(center), 0.3*canvas)
		assert.Equal(t, 1.0, p.Weight)
		assert.GreaterOrEqual(t, p.Radius, 2.0)
		assert.Less(t, p.Radius, 4.0)
		assert.LessOrEqual(t, math.Abs(p.VX), 0.3)
		assert.LessOrEqual(t, math.Abs(p.VY), 0.3)
	}
}

func TestEffectiveSampleSize(t *testing.T) {
	t.Run("empty and weightless sets", func(t *testing.T) {
		assert.Equal(t, 0.0, EffectiveSampleSize(nil))
		assert.Equal(t, 0.0, EffectiveSampleSize([]float64{0, 0, 0}))
	})

	t.Run("equal weights give N", func(t *testing.T) {
		for _, n := range []int{1, 2, 50, 300} {
			w := make([]float64, n)
			for i := range w {
				w[i] = 0.37
			}
			assert.InDelta(t, float64(n), EffectiveSampleSize(w), 1e-9)
		}
	})

	t.Run("one dominant weight gives 1", func(t *testing.T) {
		w := make([]float64, 100)
		w[42] = 1
		for i := range w {
			if i != 42 {
				w[i] = 1e-12
			}
		}
		assert.InDelta(t, 1.0, EffectiveSampleSize(w), 1e-6)
	})

	t.Run("bounded by 1 and N", func(t *testing.T) {
		rng := NewRand(7)
		for trial := 0; trial < 200; trial++ {
			n := 1 + rng.Intn(50)
			w := make([]float64, n)
			for i := range w {
				w[i] = rng.Float64()
			}
			w[0] += 1e-3
			ess := EffectiveSampleSize(w)
			assert.GreaterOrEqual(t, ess, 1-1e-9)
			assert.LessOrEqual(t, ess, float64(n)+1e-9)
		}
	})
}

func TestResampleAndFuzz(t *testing.T) {
	t.Run("resets weights and keeps size", func(t *testing.T) {
		pf := newTestFilter(t, 300, 2)
		pf.CalculateWeights(CentroidReading{Target: Point{X: 300, Y: 300}, ObservationNoise: 1.5})

		require.True(t, pf.ResampleAndFuzz())
		require.Len(t, pf.ListParticles, 300)
		for _, p := range pf.ListParticles {
			assert.Equal(t, 1.0, p.Weight)
		}
	})

	t.Run("zero total weight is a no-op", func(t *testing.T) {
		pf := newTestFilter(t, 10, 3)
		for _, p := range pf.ListParticles {
			p.Weight = 0
		}
		before := pf.ListParticles
		snapshot := make([]Particle, len(before))
		for i, p := range before {
			snapshot[i] = *p
		}

		assert.False(t, pf.ResampleAndFuzz())
		require.Equal(t, len(before), len(pf.ListParticles))
		assert.Same(t, before[0], pf.ListParticles[0])
		for i, p := range pf.ListParticles {
			assert.Equal(t, snapshot[i], *p)
		}
	})

	t.Run("children stay near their parent", func(t *testing.T) {
		pf := newTestFilter(t, 2, 4)
		setWeights(pf, 1, 0)
		parent := *pf.ListParticles[0]

		require.True(t, pf.ResampleAndFuzz())
		for _, p := range pf.ListParticles {
			assert.LessOrEqual(t, math.Abs(p.X-parent.X), 2.5)
			assert.LessOrEqual(t, math.Abs(p.Y-parent.Y), 2.5)
			assert.LessOrEqual(t, math.Abs(p.VX-parent.VX), 0.1)
			assert.LessOrEqual(t, math.Abs(p.VY-parent.VY), 0.1)
			assert.Equal(t, parent.Radius, p.Radius)
		}
	})
}

func TestSystematicIndices(t *testing.T) {
	t.Run("cursor saturates at the last index", func(t *testing.T) {
		idx := systematicIndices([]float64{0.2, 0.4, 0.5}, 0.3)
		assert.Equal(t, []int{1, 2, 2}, idx)
	})

	t.Run("uniform weights pick each index once", func(t *testing.T) {
		cum := []float64{0.25, 0.5, 0.75, 1}
		assert.Equal(t, []int{0, 1, 2, 3}, systematicIndices(cum, 0.1))
	})
}

func TestSystematicFairness(t *testing.T) {
	pf := newTestFilter(t, 2, 5)

	const trials = 20000
	picks := 0
	for i := 0; i < trials; i++ {
		setWeights(pf, 0.9, 0.1)
		require.True(t, pf.ResampleAndFuzz())
		for _, p := range pf.ListParticles {
			if p.X < 250 {
				picks++
			}
		}
	}

	assert.InDelta(t, 0.9, float64(picks)/(2*trials), 0.01)
}

func TestEstimate(t *testing.T) {
	t.Run("weighted mean", func(t *testing.T) {
		pf := newTestFilter(t, 2, 6)
		setWeights(pf, 3, 1)

		est := pf.Estimate()
		assert.InDelta(t, 175.0, est.X, 1e-9)
		assert.InDelta(t, 175.0, est.Y, 1e-9)
		assert.Equal(t, est.X, pf.EstimatedX)
	})

	t.Run("zero weight falls back to origin", func(t *testing.T) {
		pf := newTestFilter(t, 2, 6)
		setWeights(pf, 0, 0)
		assert.Equal(t, Point{}, pf.Estimate())
	})

	t.Run("empty population falls back to origin", func(t *testing.T) {
		pf := newTestFilter(t, 0, 6)
		assert.Equal(t, Point{}, pf.Estimate())
		assert.Equal(t, 0.0, pf.EffectiveSampleSize())
		assert.False(t, pf.ResampleAndFuzz())
	})
}

func TestPredict(t *testing.T) {
	t.Run("keeps particles inside the canvas margin", func(t *testing.T) {
		pf := newTestFilter(t, 50, 8)
		for _, p := range pf.ListParticles {
			p.X, p.Y = 1, canvas-1
			p.VX, p.VY = -1.4, 1.4
		}
		pf.Predict(3)
		for _, p := range pf.ListParticles {
			assert.Equal(t, 5.0, p.X)
			assert.Equal(t, canvas-5, p.Y)
			assert.LessOrEqual(t, math.Hypot(p.VX, p.VY), 1.5+1e-9)
		}
	})

	t.Run("doubling dt doubles the displacement", func(t *testing.T) {
		slow := newTestFilter(t, 100, 9)
		fast := newTestFilter(t, 100, 9)
		before := make([]Point, 100)
		for i, p := range slow.ListParticles {
			before[i] = p.Pos()
		}

		slow.Predict(1)
		fast.Predict(2)
		for i := range before {
			d1 := slow.ListParticles[i].Pos().Dist(before[i])
			d2 := fast.ListParticles[i].Pos().Dist(before[i])
			assert.InDelta(t, 2*d1, d2, 1e-9)
		}
	})
}

func TestShouldResample(t *testing.T) {
	t.Run("adaptive uses the ESS threshold", func(t *testing.T) {
		pf := newTestFilter(t, 4, 10)
		setWeights(pf, 1, 1, 1, 1)
		assert.False(t, pf.ShouldResample())

		setWeights(pf, 1, 1e-9, 1e-9, 1e-9)
		assert.True(t, pf.ShouldResample())
	})

	t.Run("non adaptive resamples about one tick in ten", func(t *testing.T) {
		pf := newTestFilter(t, 4, 11)
		pf.Adaptive = false
		setWeights(pf, 1, 1, 1, 1)

		hits := 0
		for i := 0; i < 10000; i++ {
			if pf.ShouldResample() {
				hits++
			}
		}
		assert.InDelta(t, 0.1, float64(hits)/10000, 0.015)
	})
}

func TestStationaryTargetConvergence(t *testing.T) {
	pf := newTestFilter(t, 300, 12)
	target := Point{X: 300, Y: 300}
	reading := CentroidReading{Target: target, ObservationNoise: 1.5}

	var errs []float64
	for tick := 1; tick <= 200; tick++ {
		pf.Step(1, reading)
		errs = append(errs, pf.Estimate().Dist(target))
	}

	last := errs[len(errs)-1]
	assert.Less(t, last, 15.0)

	ess := pf.EffectiveSampleSize()
	assert.Greater(t, ess/float64(len(pf.ListParticles)), 0.5)

	var tail float64
	for _, e := range errs[150:] {
		tail += e
	}
	assert.Less(t, tail/50, 15.0)
	assert.Equal(t, 200, pf.Iteration())
}

func TestGaussianLikelihood(t *testing.T) {
	assert.Equal(t, 1.0, GaussianLikelihood(0, 1.5))
	assert.InDelta(t, math.Exp(-1), GaussianLikelihood(math.Sqrt(150), 1.5), 1e-12)
	assert.Less(t, GaussianLikelihood(20, 0.5), GaussianLikelihood(20, 5))
}

func TestLimitSpeed(t *testing.T) {
	vx, vy := LimitSpeed(3, 4, 1)
	assert.InDelta(t, 0.6, vx, 1e-12)
	assert.InDelta(t, 0.8, vy, 1e-12)

	vx, vy = LimitSpeed(0.3, 0.4, 1)
	assert.Equal(t, 0.3, vx)
	assert.Equal(t, 0.4, vy)
}
