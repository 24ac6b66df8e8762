// Package sim wires the grid, the three particle populations and the filter
// into one simulation and drives it tick by tick.
package sim

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"

	pf "github.com/jhoydich/pursuit-filter"
	"github.com/jhoydich/pursuit-filter/field"
	"github.com/jhoydich/pursuit-filter/grid"
	"github.com/jhoydich/pursuit-filter/metrics"
	"github.com/jhoydich/pursuit-filter/swarm"
)

// Engine owns the simulation state. It is not safe for concurrent use; other
// goroutines go through Clock.Do.
type Engine struct {
	cfg      Config
	scenario grid.Scenario
	rng      *rand.Rand
	now      func() time.Time

	grid   *grid.Grid
	field  *field.Field
	target *swarm.Swarm
	filter *pf.ParticleFilter

	estimate pf.Point
	fps      int
	ticks    int

	// pointer stroke state
	drawing bool
	last    pf.Point
}

// New builds an engine from cfg. Numeric parameters are clamped; an unknown
// scenario is an error.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}
	cfg = cfg.Clamp()
	scenario, _ := grid.ParseScenario(cfg.Scenario)

	size := float64(cfg.ImgSize)
	rng := pf.NewRand(cfg.Seed)
	g := grid.New(cfg.ImgSize)

	e := &Engine{
		cfg:      cfg,
		scenario: scenario,
		rng:      rng,
		now:      time.Now,
		grid:     g,
		field:    field.New(cfg.MicroParticleCount, size, g, rng),
		target:   swarm.New(size, g, rng),
		filter:   pf.CreatePF(cfg.FilterParticleCount, size, cfg.FilterOptions(), rng),
	}
	e.target.Record = cfg.ShowTrajectory
	if err := e.applyScenario(); err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}
	e.estimate = e.filter.Estimate()
	return e, nil
}

func (e *Engine) applyScenario() error {
	return e.grid.ApplyScenario(e.scenario, e.cfg.WallThickness)
}

func (e *Engine) size() float64 { return float64(e.cfg.ImgSize) }

// Tick advances the simulation by one step: ambient field, then target, then
// the filter against the new centroid.
func (e *Engine) Tick() {
	dt := e.cfg.SimulationSpeed

	e.field.Update(dt)
	e.target.Update(dt, e.now())

	reading := pf.CentroidReading{
		Target:           e.target.Centroid(),
		ObservationNoise: e.cfg.ObservationNoise,
	}
	e.filter.Step(dt, reading)
	e.estimate = pf.Point{X: e.filter.EstimatedX, Y: e.filter.EstimatedY}
	e.ticks++
}

// Reset regenerates every population, re-applies the scenario walls and
// drops the trajectory. Hand-drawn walls are lost.
func (e *Engine) Reset() {
	e.field.Initialize(e.cfg.MicroParticleCount)
	e.target.Initialize()
	e.filter.Initialize(e.cfg.FilterParticleCount)
	e.estimate = e.filter.Estimate()
	e.ticks = 0
	e.PointerUp()
	// the scenario was valid when it was set
	_ = e.applyScenario()
}

// ClearWalls empties the grid and leaves the particles alone.
func (e *Engine) ClearWalls() {
	e.grid.Clear()
}

// RegenerateMicroParticles replaces the ambient population.
func (e *Engine) RegenerateMicroParticles() {
	e.field.Initialize(e.cfg.MicroParticleCount)
}

// SetScenario switches the wall layout. The grid is rebuilt from scratch.
func (e *Engine) SetScenario(name string) error {
	s, err := grid.ParseScenario(name)
	if err != nil {
		return err
	}
	e.scenario = s
	e.cfg.Scenario = string(s)
	return e.applyScenario()
}

// SetConfig applies a new configuration. Populations whose count changed are
// regenerated and a scenario change rebuilds the walls; everything else takes
// effect on the next tick. The canvas size and seed are fixed at New.
func (e *Engine) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("set config: %w", err)
	}
	cfg = cfg.Clamp()
	cfg.ImgSize = e.cfg.ImgSize
	cfg.Seed = e.cfg.Seed
	prev := e.cfg
	e.cfg = cfg

	if cfg.MicroParticleCount != len(e.field.Particles) {
		e.field.Initialize(cfg.MicroParticleCount)
	}
	e.filter.Options = cfg.FilterOptions()
	if cfg.FilterParticleCount != len(e.filter.ListParticles) {
		e.filter.Initialize(cfg.FilterParticleCount)
		e.estimate = e.filter.Estimate()
	}
	e.target.Record = cfg.ShowTrajectory
	if cfg.Scenario != prev.Scenario || cfg.WallThickness != prev.WallThickness {
		return e.SetScenario(cfg.Scenario)
	}
	return nil
}

// Config returns the active configuration.
func (e *Engine) Config() Config { return e.cfg }

// Scenario returns the active wall layout.
func (e *Engine) Scenario() grid.Scenario { return e.scenario }

// Ticks returns the number of ticks since the last reset.
func (e *Engine) Ticks() int { return e.ticks }

// Grid returns the collision grid.
func (e *Engine) Grid() *grid.Grid { return e.grid }

// MicroParticles returns the ambient population.
func (e *Engine) MicroParticles() []field.Particle { return e.field.Particles }

// TargetParticles returns the target swarm members.
func (e *Engine) TargetParticles() []swarm.Particle { return e.target.Particles }

// FilterParticles returns the filter hypotheses.
func (e *Engine) FilterParticles() []*pf.Particle { return e.filter.ListParticles }

// Filter returns the particle filter.
func (e *Engine) Filter() *pf.ParticleFilter { return e.filter }

// TargetCentroid returns the true target position.
func (e *Engine) TargetCentroid() pf.Point { return e.target.Centroid() }

// Estimate returns the filter's current estimate of the target position.
func (e *Engine) Estimate() pf.Point { return e.estimate }

// Trajectory returns the recorded centroid samples, oldest first.
func (e *Engine) Trajectory() []swarm.Sample { return e.target.Trajectory.Samples() }

// Metrics computes the dashboard figures for the current state.
func (e *Engine) Metrics() metrics.Metrics {
	return metrics.Compute(e.filter, e.target.Centroid(), e.fps)
}
