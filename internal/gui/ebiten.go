package gui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/san-kum/wavesim/internal/control"
	"github.com/san-kum/wavesim/internal/sim"
)

var ebitenKeys = []struct {
	key  ebiten.Key
	name string
}{
	{ebiten.KeyQ, "q"},
	{ebiten.KeyEscape, "escape"},
	{ebiten.KeySpace, "space"},
	{ebiten.KeyR, "r"},
	{ebiten.KeyM, "m"},
	{ebiten.KeyP, "p"},
	{ebiten.KeyTab, "tab"},
	{ebiten.KeyArrowUp, "up"},
	{ebiten.KeyArrowDown, "down"},
	{ebiten.KeyArrowLeft, "left"},
	{ebiten.KeyArrowRight, "right"},
	{ebiten.KeyG, "g"},
	{ebiten.KeyS, "s"},
	{ebiten.KeyH, "h"},
}

var (
	trackColor = color.RGBA{30, 30, 30, 255}
	fillColor  = color.RGBA{180, 180, 180, 255}
	bgColor    = color.RGBA{10, 10, 10, 255}
)

// Game adapts host to ebiten.Game. Update runs at the TPS set from
// Options.FPS, one simulation pass per update.
type Game struct {
	*host
	field *ebiten.Image
}

func runEbiten(s *sim.Simulation, opts Options) error {
	g := &Game{host: newHost(s, opts)}
	b := g.frame.Bounds()
	g.field = ebiten.NewImage(b.Dx(), b.Dy())

	w, h := g.size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("wavesim")
	ebiten.SetTPS(opts.FPS)
	g.log.Info("ebiten window open")
	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		return err
	}
	g.stopRecording()
	return nil
}

func (g *Game) Update() error {
	fine := ebiten.IsKeyPressed(ebiten.KeyShift)
	for _, k := range ebitenKeys {
		if inpututil.IsKeyJustPressed(k.key) {
			g.action(control.Lookup(k.name), fine)
		}
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.drag(ebiten.CursorPosition())
	}
	if g.quit {
		return ebiten.Termination
	}
	g.tick()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)
	g.field.WritePixels(g.frame.Pix)
	screen.DrawImage(g.field, nil)

	x := g.frame.Bounds().Dx() + 20
	ebitenutil.DebugPrintAt(screen, "wavesim  "+g.status(), x, 20)
	y := 60
	for _, line := range g.statsLines() {
		ebitenutil.DebugPrintAt(screen, line, x, y)
		y += 16
	}

	params := g.sim.Solver().GetParams()
	for i, s := range g.panel.Sliders {
		r := g.layout.Track(i)
		label := fmt.Sprintf("%s  %.4g", s.Name, params[s.Name])
		if i == g.panel.Selected {
			label = "> " + label
		}
		ebitenutil.DebugPrintAt(screen, label, r.Min.X, r.Min.Y-18)
		vector.DrawFilledRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), trackColor, false)
		fill := float32(s.Ratio(params[s.Name]) * float64(r.Dx()))
		vector.DrawFilledRect(screen, float32(r.Min.X), float32(r.Min.Y), fill, float32(r.Dy()), fillColor, false)
	}

	_, h := g.size()
	if g.message != "" {
		ebitenutil.DebugPrintAt(screen, g.message, x, h-60)
	}
	if g.showHelp {
		ebitenutil.DebugPrintAt(screen, control.HelpText, 20, h-30)
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%.0f FPS", ebiten.ActualFPS()), x, h-30)
}

func (g *Game) Layout(_, _ int) (int, int) { return g.size() }
