package main

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"math"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	pf "github.com/jhoydich/pursuit-filter"
	"github.com/jhoydich/pursuit-filter/grid"
)

const (
	heatRadius    = 20
	heatIntensity = 50
	heatAlpha     = 0.3
	wallShade     = 0x80
)

var (
	trajectoryColor = color.NRGBA{255, 255, 0, 128}
	targetColor     = color.NRGBA{255, 255, 0, 204}
	estimateColor   = color.NRGBA{0, 255, 0, 255}

	// microPalette is indexed by micro particle type.
	microPalette = [][3]float64{
		{0.2, 0.4, 1.0},
		{0.0, 0.8, 1.0},
		{0.4, 0.2, 1.0},
		{0.6, 0.0, 1.0},
	}
)

// Draw renders the canvas, saves pending captures and scales the canvas to
// the window.
func (g *Game) Draw(screen *ebiten.Image) {
	g.drawCanvas()

	recording := g.rec != nil && g.rec.Len() < maxRecordedFrames
	if g.screenshot || recording {
		frame := g.readCanvas()
		if g.screenshot {
			g.screenshot = false
			g.saveScreenshot(frame)
		}
		if recording {
			g.rec.Add(frame)
		}
	}

	size := float64(g.engine.Config().ImgSize)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.screenW)/size, float64(g.screenH)/size)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(g.canvas, op)

	if *debugFlag {
		ebitenutil.DebugPrint(screen, g.overlay())
	}
}

func (g *Game) drawCanvas() {
	e := g.engine
	cfg := e.Config()
	c := g.canvas
	c.Fill(color.Black)

	if cfg.ShowHeatmap {
		fillHeatmap(g.heatPix, cfg.ImgSize, e.FilterParticles())
		g.heat.WritePixels(g.heatPix)
		op := &ebiten.DrawImageOptions{}
		op.ColorScale.ScaleAlpha(heatAlpha)
		c.DrawImage(g.heat, op)
	}

	fillWalls(g.wallPix, e.Grid())
	g.walls.WritePixels(g.wallPix)
	c.DrawImage(g.walls, nil)

	if cfg.ShowTrajectory {
		samples := e.Trajectory()
		for i := 1; i < len(samples); i++ {
			a, b := samples[i-1], samples[i]
			vector.StrokeLine(c, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 2, trajectoryColor, true)
		}
	}

	if cfg.ShowMicro {
		for _, p := range e.MicroParticles() {
			rgb := microPalette[p.Type%len(microPalette)]
			alpha := p.Life * (0.5 + 0.5*math.Sin(p.Phase)) * 0.6
			col := color.NRGBA{uint8(rgb[0] * 255), uint8(rgb[1] * 255), uint8(rgb[2] * 255), unit(alpha)}
			vector.DrawFilledCircle(c, float32(p.X), float32(p.Y), float32(p.Size), col, true)
		}
	}

	if cfg.ShowFilter {
		for _, p := range e.FilterParticles() {
			alpha := 0.3 + 0.5*p.Weight
			if cfg.ShowWeights {
				alpha = 0.2 + 0.8*p.Weight
			}
			col := color.NRGBA{51, 153, 255, unit(alpha)}
			vector.DrawFilledCircle(c, float32(p.X), float32(p.Y), float32(p.Radius), col, true)
		}
	}

	if cfg.ShowTarget {
		for _, p := range e.TargetParticles() {
			vector.DrawFilledCircle(c, float32(p.X), float32(p.Y), float32(p.Size), targetColor, true)
		}
	}

	est := e.Estimate()
	x, y := float32(est.X), float32(est.Y)
	vector.StrokeCircle(c, x, y, 15, 3, estimateColor, true)
	vector.StrokeLine(c, x-10, y, x+10, y, 3, estimateColor, true)
	vector.StrokeLine(c, x, y-10, x, y+10, 3, estimateColor, true)
}

// unit converts a [0,1] opacity into an alpha byte, clamping out-of-range values.
func unit(v float64) uint8 {
	return uint8(math.Round(pf.Clamp(v, 0, 1) * 255))
}

// fillWalls paints occupied grid cells grey and leaves the rest transparent.
func fillWalls(pix []byte, g *grid.Grid) {
	size := g.Size()
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			i := 4 * (y*size + x)
			if g.Occupied(x, y) {
				pix[i], pix[i+1], pix[i+2], pix[i+3] = wallShade, wallShade, wallShade, 0xff
			} else {
				pix[i], pix[i+1], pix[i+2], pix[i+3] = 0, 0, 0, 0
			}
		}
	}
}

// fillHeatmap splats every filter particle's weight into pix as a cone of
// radius heatRadius. Red and green saturate at 255; touched pixels are opaque.
func fillHeatmap(pix []byte, size int, particles []*pf.Particle) {
	for i := range pix {
		pix[i] = 0
	}
	for _, p := range particles {
		px, py := int(math.Round(p.X)), int(math.Round(p.Y))
		for dy := -heatRadius; dy <= heatRadius; dy++ {
			for dx := -heatRadius; dx <= heatRadius; dx++ {
				x, y := px+dx, py+dy
				if x < 0 || x >= size || y < 0 || y >= size {
					continue
				}
				d := math.Hypot(float64(dx), float64(dy))
				if d > heatRadius {
					continue
				}
				v := p.Weight * (1 - d/heatRadius) * heatIntensity
				i := 4 * (y*size + x)
				pix[i] = saturate(pix[i], v)
				pix[i+1] = saturate(pix[i+1], v*0.5)
				pix[i+3] = 0xff
			}
		}
	}
}

func saturate(b uint8, v float64) uint8 {
	return uint8(math.Min(float64(b)+v, 255))
}

// readCanvas copies the canvas pixels into an image.
func (g *Game) readCanvas() *image.RGBA {
	size := g.engine.Config().ImgSize
	g.canvas.ReadPixels(g.readPix)
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	copy(img.Pix, g.readPix)
	return img
}

func (g *Game) saveScreenshot(img *image.RGBA) {
	path := outPath("screenshot", "png")
	err := writeFile(path, func(w io.Writer) error { return encodePNG(w, img) })
	if err != nil {
		log.Printf("Screenshot failed: %v", err)
		g.notify("screenshot failed")
		return
	}
	log.Printf("Saved %s", path)
	g.notify("saved " + filepath.Base(path))
}

func (g *Game) overlay() string {
	e := g.engine
	cfg := e.Config()
	m := e.Metrics()
	f := e.Filter()

	state := "running"
	if g.clock.Paused() {
		state = "paused"
	}
	mode := "random"
	if cfg.EnableAdaptiveResampling {
		mode = "adaptive"
	}
	msg := fmt.Sprintf("FPS: %d  tick %d (%s)\nError: %.1f px\nESS: %.1f / %d  conv %.2f\nMax weight: %.3f  resample: %s\nScenario: %s  speed %.1fx",
		m.FPS, e.Ticks(), state,
		m.TrackingError,
		m.EffectiveParticles, len(f.ListParticles), m.ConvergenceRate,
		f.MaxWeight, mode,
		e.Scenario(), cfg.SimulationSpeed)
	if g.rec != nil {
		msg += fmt.Sprintf("\nREC %d/%d", g.rec.Len(), maxRecordedFrames)
	}
	if g.status != "" && time.Now().Before(g.statusUntil) {
		msg += "\n" + g.status
	}
	return msg
}

var _ ebiten.Game = (*Game)(nil)
