package grid

import (
	"errors"
	"fmt"
)

// WallThickness is the brush width used for scenario walls and pointer strokes.
const WallThickness = 8

// ErrUnknownScenario is returned for scenario names without a wall layout.
var ErrUnknownScenario = errors.New("unknown scenario")

// Scenario names a preset wall layout.
type Scenario string

const (
	Default    Scenario = "default"
	Obstacles  Scenario = "obstacles"
	Dispersion Scenario = "dispersion"
	Traffic    Scenario = "traffic"
)

// Segment is one wall stroke between two points.
type Segment struct {
	X1, Y1, X2, Y2 float64
}

var scenarioWalls = map[Scenario][]Segment{
	Default: nil,
	Obstacles: {
		{100, 100, 300, 100},
		{300, 200, 500, 200},
		{200, 300, 200, 500},
		{400, 300, 400, 500},
	},
	Dispersion: {
		{150, 250, 450, 250},
		{300, 100, 300, 200},
		{300, 300, 300, 500},
	},
	Traffic: {
		{50, 200, 550, 200},
		{50, 400, 550, 400},
		{250, 50, 250, 550},
		{350, 50, 350, 550},
	},
}

// Scenarios lists the presets in menu order.
func Scenarios() []Scenario {
	return []Scenario{Default, Obstacles, Dispersion, Traffic}
}

// ParseScenario validates a scenario name.
func ParseScenario(name string) (Scenario, error) {
	s := Scenario(name)
	if _, ok := scenarioWalls[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownScenario, name)
	}
	return s, nil
}

// ApplyScenario clears g and draws the walls of s with the given thickness.
func (g *Grid) ApplyScenario(s Scenario, thickness float64) error {
	walls, ok := scenarioWalls[s]
	if !ok {
		return fmt.Errorf("apply scenario: %w: %q", ErrUnknownScenario, s)
	}
	g.Clear()
	for _, w := range walls {
		g.DrawLine(w.X1, w.Y1, w.X2, w.Y2, thickness)
	}
	return nil
}
