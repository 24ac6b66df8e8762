package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	pf "github.com/jhoydich/pursuit-filter"
	"github.com/jhoydich/pursuit-filter/grid"
	"github.com/jhoydich/pursuit-filter/sim"
)

const (
	speedStep     = 0.1
	statusTimeout = 3 * time.Second
)

var scenarioKeys = []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4}

// Game hosts the simulation in an Ebiten window.
type Game struct {
	engine *sim.Engine
	clock  *sim.Clock

	// canvas is drawn at simulation resolution and scaled to the window.
	canvas  *ebiten.Image
	walls   *ebiten.Image
	heat    *ebiten.Image
	wallPix []byte
	heatPix []byte
	readPix []byte

	rec        *recorder
	screenshot bool

	screenW, screenH int
	lastPointer      pf.Point

	status      string
	statusUntil time.Time
}

func newGame(e *sim.Engine) *Game {
	size := e.Config().ImgSize
	return &Game{
		engine:  e,
		clock:   sim.NewClock(e),
		canvas:  ebiten.NewImage(size, size),
		walls:   ebiten.NewImage(size, size),
		heat:    ebiten.NewImage(size, size),
		wallPix: make([]byte, 4*size*size),
		heatPix: make([]byte, 4*size*size),
		readPix: make([]byte, 4*size*size),
	}
}

// Update handles input and advances the simulation by one frame.
func (g *Game) Update() error {
	g.handleKeys()
	g.handlePointer()
	g.clock.Frame(time.Now())
	return nil
}

// Layout uses the full window; the canvas is scaled in Draw.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.screenW, g.screenH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

func (g *Game) handleKeys() {
	e := g.engine
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		if g.clock.Toggle() {
			g.notify("paused")
		} else {
			g.notify("running")
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		e.Reset()
		g.notify("reset")
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		e.ClearWalls()
		g.notify("walls cleared")
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		e.RegenerateMicroParticles()
		g.notify("micro particles regenerated")
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		g.export()
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		g.screenshot = true
	case inpututil.IsKeyJustPressed(ebiten.KeyV):
		g.toggleRecording()
	}

	for i, key := range scenarioKeys {
		if inpututil.IsKeyJustPressed(key) {
			s := grid.Scenarios()[i]
			if err := e.SetScenario(string(s)); err != nil {
				log.Printf("Scenario switch failed: %v", err)
				continue
			}
			g.notify("scenario " + string(s))
		}
	}

	cfg := e.Config()
	changed := true
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyA):
		cfg.EnableAdaptiveResampling = !cfg.EnableAdaptiveResampling
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		cfg.ShowTrajectory = !cfg.ShowTrajectory
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		cfg.ShowHeatmap = !cfg.ShowHeatmap
	case inpututil.IsKeyJustPressed(ebiten.KeyW):
		cfg.ShowWeights = !cfg.ShowWeights
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		cfg.ShowFilter = !cfg.ShowFilter
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		cfg.ShowMicro = !cfg.ShowMicro
	case inpututil.IsKeyJustPressed(ebiten.KeyX):
		cfg.ShowTarget = !cfg.ShowTarget
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyKPAdd):
		cfg.SimulationSpeed += speedStep
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract):
		cfg.SimulationSpeed -= speedStep
	default:
		changed = false
	}
	if changed {
		if err := e.SetConfig(cfg); err != nil {
			log.Printf("Config update failed: %v", err)
		}
	}
}

// handlePointer turns left-button drags into wall strokes. Leaving the
// window ends the stroke.
func (g *Game) handlePointer() {
	cx, cy := ebiten.CursorPosition()
	inside := cx >= 0 && cy >= 0 && cx < g.screenW && cy < g.screenH
	p := g.engine.MapPointer(float64(cx), float64(cy), float64(g.screenW), float64(g.screenH))

	switch {
	case !inside || inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		g.engine.PointerUp()
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.engine.PointerDown(p)
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && p != g.lastPointer:
		g.engine.PointerMove(p)
	}
	g.lastPointer = p
}

func (g *Game) notify(msg string) {
	g.status = msg
	g.statusUntil = time.Now().Add(statusTimeout)
}

// outPath returns a timestamped file name in the output directory.
func outPath(kind, ext string) string {
	name := fmt.Sprintf("particle-filter-%s-%d.%s", kind, time.Now().UnixMilli(), ext)
	return filepath.Join(*outDirFlag, name)
}

func (g *Game) export() {
	path := outPath("data", "json")
	if err := writeFile(path, g.engine.ExportSnapshot); err != nil {
		log.Printf("Export failed: %v", err)
		g.notify("export failed")
		return
	}
	log.Printf("Exported %s", path)
	g.notify("exported " + filepath.Base(path))
}

func (g *Game) toggleRecording() {
	if g.rec == nil {
		g.rec = newRecorder()
		g.notify("recording")
		return
	}
	rec := g.rec
	g.rec = nil
	path := outPath("recording", "gif")
	if err := writeFile(path, rec.Encode); err != nil {
		log.Printf("Recording not saved: %v", err)
		g.notify("recording not saved")
		return
	}
	log.Printf("Recorded %d frames to %s", rec.Len(), path)
	g.notify(fmt.Sprintf("recorded %d frames", rec.Len()))
}

// writeFile creates path and fills it with write. A failed write removes the
// partial file.
func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
