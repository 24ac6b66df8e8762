package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	pf "github.com/jhoydich/pursuit-filter"
	"github.com/jhoydich/pursuit-filter/sim"
)

func main() {
	trackPoint()
	runSimulation()
}

// trackPoint follows a point walking right from noisy position readings.
func trackPoint() {
	rng := pf.NewRand(1)
	noiseGenerator := distuv.Normal{Mu: 0, Sigma: 2, Src: rng}

	filter := pf.CreatePF(500, 600, pf.DefaultOptions(), rng)
	target := pf.Point{X: 250, Y: 300}

	for i := 0; i < 20; i++ {
		r := SimpleReading{
			X:     target.X + noiseGenerator.Rand(),
			Y:     target.Y + noiseGenerator.Rand(),
			Sigma: 10,
		}

		resampled := filter.Step(1, r)
		fmt.Println("Step", filter.Iteration(), "Target:", target.X, target.Y,
			"Filter:", filter.EstimatedX, filter.EstimatedY,
			"ESS:", filter.EffectiveSampleSize(), "Resampled:", resampled)

		target.X += .5
	}
}

// runSimulation runs the full pursuit headless for two seconds and prints
// the metrics every quarter second.
func runSimulation() {
	conf := sim.DefaultConfig()
	conf.Seed = 1
	conf.Scenario = "obstacles"
	engine, err := sim.New(conf)
	if err != nil {
		log.Fatal(err)
	}
	clock := sim.NewClock(engine)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	go func() {
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				err := clock.Do(func(e *sim.Engine) {
					m := e.Metrics()
					fmt.Printf("tick %4d  target %6.1f %6.1f  estimate %6.1f %6.1f  error %5.2f  conv %.2f\n",
						e.Ticks(), e.TargetCentroid().X, e.TargetCentroid().Y,
						e.Estimate().X, e.Estimate().Y, m.TrackingError, m.ConvergenceRate)
				})
				if err != nil {
					log.Printf("report skipped: %v", err)
				}
			}
		}
	}()

	if err := clock.Run(ctx, time.Second/60); !errors.Is(err, context.DeadlineExceeded) {
		log.Fatal(err)
	}
}

// SimpleReading is a position fix with gaussian error.
type SimpleReading struct {
	X     float64
	Y     float64
	Sigma float64
}

func (s SimpleReading) CalculateWeight(p pf.Particle) float64 {
	dist := p.Pos().Dist(pf.Point{X: s.X, Y: s.Y})
	return distuv.Normal{Mu: 0, Sigma: s.Sigma}.Prob(dist)
}
