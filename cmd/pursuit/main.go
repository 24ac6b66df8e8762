// Command pursuit runs the particle filter pursuit demo in a window.
//
// A swarm of target particles wanders between walls while a particle filter
// tries to follow its centroid. Walls can be drawn with the mouse.
//
// Usage
//
//	pursuit [-config pursuit.toml] [flags]
//
// Keys
//
//	Space pause/resume     R reset           C clear walls
//	G new micro particles  E export JSON     P screenshot
//	V start/stop GIF       1-4 scenario      A adaptive resampling
//	T trajectory           H heatmap         W weights
//	F/M/X filter, micro and target layers    +/- speed
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/jhoydich/pursuit-filter/sim"
)

func main() {
	flag.Parse()

	conf, err := loadConfig()
	if err != nil {
		Fatal(err)
	}
	engine, err := sim.New(conf)
	if err != nil {
		Fatal(err)
	}
	if err := os.MkdirAll(*outDirFlag, 0o755); err != nil {
		Fatal(fmt.Errorf("output directory: %w", err))
	}

	g := newGame(engine)
	side := int(float64(conf.ImgSize) * *scaleFlag)
	ebiten.SetWindowSize(side, side)
	ebiten.SetWindowTitle("Particle Filter Pursuit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)

	log.Printf("scenario %s, %d filter particles, %d micro particles",
		conf.Scenario, conf.FilterParticleCount, conf.MicroParticleCount)
	if err := ebiten.RunGame(g); err != nil {
		Fatal(err)
	}
}

// loadConfig reads the config file when given and applies the flags that
// were set on the command line.
func loadConfig() (sim.Config, error) {
	conf := sim.DefaultConfig()
	if *configFlag != "" {
		var err error
		if conf, err = sim.ParseConfig(*configFlag); err != nil {
			return conf, err
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			conf.Seed = *seedFlag
		case "scenario":
			conf.Scenario = *scenarioFlag
		case "filter-particles":
			conf.FilterParticleCount = *filterFlag
		case "micro-particles":
			conf.MicroParticleCount = *microFlag
		case "speed":
			conf.SimulationSpeed = *speedFlag
		case "adaptive":
			conf.EnableAdaptiveResampling = *adaptiveFlag
		}
	})
	if err := conf.Validate(); err != nil {
		return conf, err
	}
	return conf.Clamp(), nil
}

// Fatal prints err and exits.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	os.Exit(1)
}
