package main

import "flag"

// Command-line flags. Flags that are set explicitly override the values read
// from the config file.
var (
	// configFlag points at an optional TOML config file.
	configFlag = flag.String("config", "", "path to a TOML config file")

	seedFlag     = flag.Uint64("seed", 0, "random seed, 0 picks one from the clock")
	scenarioFlag = flag.String("scenario", "default", "wall layout: default, obstacles, dispersion or traffic")
	filterFlag   = flag.Int("filter-particles", 300, "number of filter particles (50-1000)")
	microFlag    = flag.Int("micro-particles", 800, "number of ambient particles (100-2000)")
	speedFlag    = flag.Float64("speed", 1.0, "simulation speed multiplier (0.1-3.0)")

	// adaptiveFlag switches between ESS-triggered and random resampling.
	adaptiveFlag = flag.Bool("adaptive", true, "resample when the effective sample size drops")

	// scaleFlag sets the initial window size relative to the canvas.
	scaleFlag = flag.Float64("scale", 1.0, "initial window scale")

	// outDirFlag is where exports, screenshots and recordings are written.
	outDirFlag = flag.String("out", ".", "output directory for exports, screenshots and recordings")

	// debugFlag enables the FPS and metrics overlay.
	debugFlag = flag.Bool("debug", true, "show FPS and metrics overlay")
)
