package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	pf "github.com/jhoydich/pursuit-filter"
	"github.com/jhoydich/pursuit-filter/swarm"
)

// Counts is the size of each population.
type Counts struct {
	Filter int `json:"filter"`
	Micro  int `json:"micro"`
	Target int `json:"target"`
}

// SnapshotMetrics is the metrics triple carried by an export.
type SnapshotMetrics struct {
	FPS                int     `json:"fps"`
	EffectiveParticles float64 `json:"effectiveParticles"`
	ConvergenceRate    float64 `json:"convergenceRate"`
}

// Snapshot is the exported record of the simulation state.
type Snapshot struct {
	Timestamp      time.Time       `json:"timestamp"`
	TargetPosition pf.Point        `json:"targetPosition"`
	FilterEstimate pf.Point        `json:"filterEstimate"`
	TrackingError  float64         `json:"trackingError"`
	Trajectory     []swarm.Sample  `json:"trajectory"`
	NumParticles   Counts          `json:"numParticles"`
	Metrics        SnapshotMetrics `json:"metrics"`
}

// Snapshot captures the current state.
func (e *Engine) Snapshot() Snapshot {
	m := e.Metrics()
	return Snapshot{
		Timestamp:      e.now().UTC(),
		TargetPosition: e.TargetCentroid(),
		FilterEstimate: e.estimate,
		TrackingError:  m.TrackingError,
		Trajectory:     e.Trajectory(),
		NumParticles: Counts{
			Filter: len(e.filter.ListParticles),
			Micro:  len(e.field.Particles),
			Target: len(e.target.Particles),
		},
		Metrics: SnapshotMetrics{
			FPS:                m.FPS,
			EffectiveParticles: m.EffectiveParticles,
			ConvergenceRate:    m.ConvergenceRate,
		},
	}
}

// ExportSnapshot writes the current state to w as indented JSON.
func (e *Engine) ExportSnapshot(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e.Snapshot()); err != nil {
		return fmt.Errorf("export snapshot: %w", err)
	}
	return nil
}
