package sim

import (
	"fmt"

	"github.com/BurntSushi/toml"

	pf "github.com/jhoydich/pursuit-filter"
	"github.com/jhoydich/pursuit-filter/grid"
)

// Config holds every tunable of the simulation and the host display toggles.
type Config struct {
	FilterParticleCount int     `toml:"filter_particle_count"` // hypothesis particles
	MicroParticleCount  int     `toml:"micro_particle_count"`  // ambient particles
	SimulationSpeed     float64 `toml:"simulation_speed"`      // logical dt per tick
	Scenario            string  `toml:"scenario"`

	// Filter parameters
	ResampleThreshold        float64 `toml:"resample_threshold"` // fraction of N
	ProcessNoise             float64 `toml:"process_noise"`
	ObservationNoise         float64 `toml:"observation_noise"`
	EnableAdaptiveResampling bool    `toml:"enable_adaptive_resampling"`

	// Layers, rendering only
	ShowFilter     bool `toml:"show_filter"`
	ShowMicro      bool `toml:"show_micro"`
	ShowTarget     bool `toml:"show_target"`
	ShowTrajectory bool `toml:"show_trajectory"`
	ShowHeatmap    bool `toml:"show_heatmap"`
	ShowWeights    bool `toml:"show_weights"`

	Seed          uint64  `toml:"seed"` // 0 picks one from the clock
	WallThickness float64 `toml:"wall_thickness"`
	ImgSize       int     `toml:"img_size"` // canvas side in px
}

// Limits of the numeric parameters, inclusive.
const (
	MaxFilterParticles = 1000
	MaxMicroParticles  = 2000
	MinSpeed           = 0.1
	MaxSpeed           = 3.0
	MinImgSize         = 100
)

// DefaultConfig returns the parameters the demo starts with.
func DefaultConfig() Config {
	return Config{
		FilterParticleCount:      300,
		MicroParticleCount:       800,
		SimulationSpeed:          1.0,
		Scenario:                 string(grid.Default),
		ResampleThreshold:        0.5,
		ProcessNoise:             0.1,
		ObservationNoise:         1.5,
		EnableAdaptiveResampling: true,
		ShowFilter:               true,
		ShowMicro:                true,
		ShowTarget:               true,
		ShowTrajectory:           true,
		ShowHeatmap:              false,
		ShowWeights:              false,
		WallThickness:            grid.WallThickness,
		ImgSize:                  grid.DefaultSize,
	}
}

// ParseConfig parses the TOML config file whose path is provided. Keys
// missing from the file keep their default value.
func ParseConfig(path string) (Config, error) {
	conf := DefaultConfig()
	if _, err := toml.DecodeFile(path, &conf); err != nil {
		return conf, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := conf.Validate(); err != nil {
		return conf, fmt.Errorf("config %s: %w", path, err)
	}
	return conf.Clamp(), nil
}

// Validate rejects settings that cannot be clamped into shape.
func (c Config) Validate() error {
	_, err := grid.ParseScenario(c.Scenario)
	return err
}

// Clamp returns a copy with every numeric parameter pulled inside its range.
// Counts only get an upper bound so that empty populations stay reachable.
func (c Config) Clamp() Config {
	c.FilterParticleCount = clampInt(c.FilterParticleCount, 0, MaxFilterParticles)
	c.MicroParticleCount = clampInt(c.MicroParticleCount, 0, MaxMicroParticles)
	c.SimulationSpeed = pf.Clamp(c.SimulationSpeed, MinSpeed, MaxSpeed)
	c.ResampleThreshold = pf.Clamp(c.ResampleThreshold, 0.1, 1.0)
	c.ProcessNoise = pf.Clamp(c.ProcessNoise, 0.01, 0.5)
	c.ObservationNoise = pf.Clamp(c.ObservationNoise, 0.5, 5.0)
	if c.WallThickness < 1 {
		c.WallThickness = 1
	}
	if c.ImgSize < MinImgSize {
		c.ImgSize = MinImgSize
	}
	return c
}

// FilterOptions returns the filter parameters of c.
func (c Config) FilterOptions() pf.Options {
	return pf.Options{
		ProcessNoise:      c.ProcessNoise,
		ObservationNoise:  c.ObservationNoise,
		ResampleThreshold: c.ResampleThreshold,
		Adaptive:          c.EnableAdaptiveResampling,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
