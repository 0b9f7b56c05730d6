package gui

import (
	"fmt"
	"image/color"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/wavesim/internal/control"
	"github.com/san-kum/wavesim/internal/sim"
)

// Monochrome panel colours.
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColTrack   = rl.NewColor(30, 30, 30, 255)
)

const fontPath = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"

var raylibKeys = []struct {
	key  int32
	name string
}{
	{rl.KeyQ, "q"},
	{rl.KeyEscape, "escape"},
	{rl.KeySpace, "space"},
	{rl.KeyR, "r"},
	{rl.KeyM, "m"},
	{rl.KeyP, "p"},
	{rl.KeyTab, "tab"},
	{rl.KeyUp, "up"},
	{rl.KeyDown, "down"},
	{rl.KeyLeft, "left"},
	{rl.KeyRight, "right"},
	{rl.KeyG, "g"},
	{rl.KeyS, "s"},
	{rl.KeyH, "h"},
}

type App struct {
	*host
	tex     rl.Texture2D
	pixels  []color.RGBA
	font    rl.Font
	hasFont bool
}

func loadFont() (rl.Font, bool) {
	if _, err := os.Stat(fontPath); err != nil {
		return rl.Font{}, false
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font, true
}

func runRaylib(s *sim.Simulation, opts Options) error {
	a := &App{host: newHost(s, opts)}
	w, h := a.size()
	rl.InitWindow(int32(w), int32(h), "wavesim")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(opts.FPS))
	rl.SetExitKey(0)

	a.font, a.hasFont = loadFont()
	b := a.frame.Bounds()
	img := rl.GenImageColor(b.Dx(), b.Dy(), rl.Black)
	a.tex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(a.tex)
	a.pixels = make([]color.RGBA, b.Dx()*b.Dy())

	a.log.Info("raylib window open")
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.Draw()
	}
	a.stopRecording()
	return nil
}

func (a *App) Update() {
	fine := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
	for _, k := range raylibKeys {
		if rl.IsKeyPressed(k.key) {
			a.action(control.Lookup(k.name), fine)
		}
	}
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		a.drag(int(rl.GetMouseX()), int(rl.GetMouseY()))
	}
	a.tick()
}

func (a *App) upload() {
	pix := a.frame.Pix
	for i := range a.pixels {
		a.pixels[i] = color.RGBA{pix[4*i], pix[4*i+1], pix[4*i+2], pix[4*i+3]}
	}
	rl.UpdateTexture(a.tex, a.pixels)
}

func (a *App) Draw() {
	a.upload()
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)
	rl.DrawTexture(a.tex, 0, 0, rl.White)
	a.DrawHUD()
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	x := a.frame.Bounds().Dx() + 20
	a.drawText("wavesim", x, 20, 24, ColSelect)

	col := ColSelect
	if a.status() != "RUNNING" {
		col = ColTextDim
	}
	a.drawText(a.status(), x+150, 26, 14, col)

	y := 60
	for _, line := range a.statsLines() {
		a.drawText(line, x, y, 14, ColText)
		y += 18
	}

	params := a.sim.Solver().GetParams()
	for i, s := range a.panel.Sliders {
		r := a.layout.Track(i)
		label := fmt.Sprintf("%s  %.4g", s.Name, params[s.Name])
		c := ColText
		if i == a.panel.Selected {
			c = ColSelect
		}
		a.drawText(label, r.Min.X, r.Min.Y-16, 14, c)
		rl.DrawRectangle(int32(r.Min.X), int32(r.Min.Y), int32(r.Dx()), int32(r.Dy()), ColTrack)
		fill := int32(s.Ratio(params[s.Name]) * float64(r.Dx()))
		rl.DrawRectangle(int32(r.Min.X), int32(r.Min.Y), fill, int32(r.Dy()), ColAccent)
	}

	a.DrawProfile(x, 140+len(a.panel.Sliders)*a.layout.Gap, 240, 60)

	_, h := a.size()
	if a.message != "" {
		a.drawText(a.message, x, h-60, 14, ColText)
	}
	if a.showHelp {
		a.drawText(control.HelpText, 20, h-30, 14, ColSelect)
	}
	a.drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), x, h-30, 14, ColTextDim)
}

// DrawProfile plots the time-averaged screen intensity.
func (a *App) DrawProfile(x, y, width, height int) {
	profile := a.sim.Profile()
	if len(profile) < 2 {
		return
	}
	maxVal := 0.0
	for _, v := range profile {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}
	points := make([]rl.Vector2, len(profile))
	for i, v := range profile {
		px := float32(x) + float32(i)/float32(len(profile)-1)*float32(width)
		py := float32(y+height) - float32(v/maxVal)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawLineStrip(points, ColAccent)
	a.drawText("screen", x, y+height+4, 12, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, c rl.Color) {
	if a.hasFont {
		rl.DrawTextEx(a.font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, c)
		return
	}
	rl.DrawText(text, int32(x), int32(y), int32(size), c)
}
