package viz

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/gomega"

	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/sim"
)

func TestFitCanvas(t *testing.T) {
	g := NewWithT(t)
	tests := []struct {
		w, h, maxCols, maxRows int
		cols, rows             int
	}{
		{160, 120, 200, 100, 160, 60},
		{160, 120, 100, 40, 80, 30},
		{640, 480, 100, 40, 91, 34},
		{512, 512, 120, 50, 85, 43},
	}
	for _, tt := range tests {
		cols, rows := FitCanvas(tt.w, tt.h, tt.maxCols, tt.maxRows)
		g.Expect([]int{cols, rows}).To(Equal([]int{tt.cols, tt.rows}), "FitCanvas(%d,%d,%d,%d)", tt.w, tt.h, tt.maxCols, tt.maxRows)
		g.Expect(cols).To(BeNumerically("<=", tt.maxCols))
		g.Expect(rows).To(BeNumerically("<=", tt.maxRows))
	}
}

func TestCanvasSample(t *testing.T) {
	g := NewWithT(t)
	img := image.NewRGBA(image.Rect(0, 0, 2, 4))
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	img.SetRGBA(0, 0, red)
	img.SetRGBA(1, 3, blue)

	c := NewCanvas(2, 2)
	c.Sample(img)
	g.Expect(c.At(0, 0).Top).To(Equal(red))
	g.Expect(c.At(1, 1).Bottom).To(Equal(blue))
	g.Expect(c.At(1, 1).Top).To(Equal(color.RGBA{}))
	g.Expect(c.String()).To(ContainSubstring(halfBlock))
}

func newTestModel(t *testing.T) Model {
	cfg := config.DefaultConfig()
	cfg.Wave.Width, cfg.Wave.Height = 40, 30
	cfg.Wave.BarrierRow = 12
	cfg.Wave.SourceRow = 3
	cfg.Wave.SlitSeparation = 8
	cfg.Render.Scale = 1
	s, err := sim.New(cfg)
	NewWithT(t).Expect(err).NotTo(HaveOccurred())
	return NewModel(s, Options{FPS: 60, GIFPath: t.TempDir() + "/out.gif"})
}

var keyTypes = map[string]tea.KeyType{
	" ":           tea.KeySpace,
	"tab":         tea.KeyTab,
	"up":          tea.KeyUp,
	"down":        tea.KeyDown,
	"left":        tea.KeyLeft,
	"right":       tea.KeyRight,
	"shift+right": tea.KeyShiftRight,
	"esc":         tea.KeyEsc,
}

func press(m Model, key string) Model {
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	if kt, ok := keyTypes[key]; ok {
		msg = tea.KeyMsg{Type: kt}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func selectParam(m Model, name string) Model {
	for i := 0; i < len(m.panel.Sliders); i++ {
		if s, _ := m.panel.Current(); s.Name == name {
			return m
		}
		m = press(m, "tab")
	}
	return m
}

func TestModelTickAndKeys(t *testing.T) {
	g := NewWithT(t)
	m := newTestModel(t)

	next, cmd := m.Update(TickMsg{})
	m = next.(Model)
	g.Expect(cmd).NotTo(BeNil())
	g.Expect(m.sim.Steps()).To(Equal(1))

	m = press(m, " ")
	g.Expect(m.sim.Params().Paused).To(BeTrue())
	next, _ = m.Update(TickMsg{})
	m = next.(Model)
	g.Expect(m.sim.Steps()).To(Equal(1))

	m = press(m, "p")
	g.Expect(m.sim.Params().Palette).NotTo(Equal("viridis"))

	first, _ := m.panel.Current()
	g.Expect(first.Name).To(Equal("damping"))
	m = press(m, "down")
	second, _ := m.panel.Current()
	g.Expect(second.Name).To(Equal("slit_separation"))
	m = press(m, "up")
	current, _ := m.panel.Current()
	g.Expect(current.Name).To(Equal("damping"))

	speed := m.sim.Params().Speed
	m = selectParam(m, "speed")
	m = press(m, "right")
	g.Expect(m.sim.Params().Speed).To(BeNumerically("~", speed+(0.49-0.01)/20, 1e-12))
	m = press(m, "left")
	m = press(m, "shift+right")
	g.Expect(m.sim.Params().Speed).To(BeNumerically("~", speed+(0.49-0.01)/200, 1e-12))

	m = press(m, "r")
	g.Expect(m.sim.Steps()).To(BeZero())
	g.Expect(m.View()).To(ContainSubstring("PARAMETERS"))
}

func TestModelRaisesParamFromZero(t *testing.T) {
	g := NewWithT(t)
	m := newTestModel(t)
	g.Expect(m.sim.Apply(sim.SetParam("source_amplitude", 0))).To(Succeed())
	g.Expect(m.sim.Solver().GetParams()["source_amplitude"]).To(BeZero())

	m = selectParam(m, "source_amplitude")
	for i := 0; i < 10; i++ {
		m = press(m, "right")
	}
	g.Expect(m.sim.Solver().GetParams()["source_amplitude"]).To(BeNumerically("~", 1.0, 1e-12))

	for i := 0; i < 30; i++ {
		m = press(m, "left")
	}
	g.Expect(m.sim.Solver().GetParams()["source_amplitude"]).To(BeZero())
}

func TestModelScreenshotAndQuit(t *testing.T) {
	g := NewWithT(t)
	m := newTestModel(t)
	m.shotDir = t.TempDir()
	m = press(m, "s")
	g.Expect(m.message).To(HavePrefix("saved "))
	g.Expect(filepath.Glob(filepath.Join(m.shotDir, "*.png"))).To(HaveLen(1))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	g.Expect(cmd).NotTo(BeNil())
}

func TestModelRecording(t *testing.T) {
	g := NewWithT(t)
	m := newTestModel(t)
	m = press(m, "g")
	g.Expect(m.recording).To(BeTrue())
	for i := 0; i < 3; i++ {
		next, _ := m.Update(TickMsg{})
		m = next.(Model)
	}
	g.Expect(m.recorder.Len()).To(Equal(3))
	m = press(m, "g")
	g.Expect(m.recording).To(BeFalse())
	g.Expect(m.gifPath).To(BeAnExistingFile())
}

func TestPicker(t *testing.T) {
	g := NewWithT(t)
	p := newPicker()
	g.Expect(p.items).NotTo(BeEmpty())

	next, _ := p.Update(tea.KeyMsg{Type: tea.KeyDown})
	p = next.(picker)
	g.Expect(p.cursor).To(Equal(1))

	next, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p = next.(picker)
	g.Expect(cmd).NotTo(BeNil())
	g.Expect(p.chosen).NotTo(BeNil())
	g.Expect(*p.chosen).To(Equal(p.items[1]))
}

func TestDownsample(t *testing.T) {
	g := NewWithT(t)
	g.Expect(downsample([]float64{1, 3, 5, 7}, 2)).To(Equal([]float64{2, 6}))
	g.Expect(downsample([]float64{1, 2}, 4)).To(Equal([]float64{1, 2}))
}
