// Package gui holds the windowed hosts. Both backends share host: they
// translate their input to control actions and feed sim.Tick from their
// own frame loop.
package gui

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/wavesim/internal/control"
	"github.com/san-kum/wavesim/internal/render"
	"github.com/san-kum/wavesim/internal/sim"
)

const (
	panelWidth  = 300
	maxGIFFrame = 900
)

const (
	BackendRaylib = "raylib"
	BackendEbiten = "ebiten"
)

type Options struct {
	FPS     int
	GIFPath string
	ShotDir string
	Logger  *zap.Logger
}

func (o *Options) defaults() {
	if o.FPS <= 0 {
		o.FPS = 60
	}
	if o.GIFPath == "" {
		o.GIFPath = "wavesim.gif"
	}
	if o.ShotDir == "" {
		o.ShotDir = "."
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// Run opens a window with the named backend and blocks until it closes.
func Run(backend string, s *sim.Simulation, opts Options) error {
	opts.defaults()
	switch backend {
	case "", BackendRaylib:
		return runRaylib(s, opts)
	case BackendEbiten:
		return runEbiten(s, opts)
	default:
		return fmt.Errorf("gui: unknown backend %q", backend)
	}
}

type host struct {
	sim      *sim.Simulation
	frame    *image.RGBA
	panel    *control.Panel
	layout   control.Layout
	recorder *render.Recorder
	opts     Options
	log      *zap.Logger
	showHelp bool
	message  string
	quit     bool
}

func newHost(s *sim.Simulation, opts Options) *host {
	frame := s.NewFrame()
	return &host{
		sim:    s,
		frame:  frame,
		panel:  control.NewPanel(s.ParamNames()),
		layout: control.DefaultLayout(frame.Bounds().Dx()+40, 140),
		opts:   opts,
		log:    opts.Logger,
	}
}

func (h *host) size() (int, int) {
	b := h.frame.Bounds()
	return b.Dx() + panelWidth, max(b.Dy(), 480)
}

// action applies one input action. fine selects the small slider step.
func (h *host) action(a control.Action, fine bool) {
	switch a {
	case control.ActionQuit:
		h.stopRecording()
		h.quit = true
		return
	case control.ActionHelp:
		h.showHelp = !h.showHelp
		return
	case control.ActionRecord:
		h.toggleRecording()
		return
	case control.ActionScreenshot:
		h.screenshot()
		return
	}
	cmd, ok := h.panel.Command(a, h.sim.Solver().GetParams(), h.sim.Params().Palette, fine)
	if ok {
		h.apply(cmd)
	}
}

func (h *host) drag(x, y int) {
	i, ratio, ok := h.layout.Hit(x, y, len(h.panel.Sliders))
	if !ok {
		return
	}
	if cmd, ok := h.panel.Drag(i, ratio); ok {
		h.apply(cmd)
	}
}

func (h *host) apply(cmd sim.Command) {
	if err := h.sim.Apply(cmd); err != nil {
		h.message = err.Error()
		h.log.Warn("command rejected", zap.Stringer("command", cmd), zap.Error(err))
		return
	}
	h.message = cmd.String()
}

// tick advances the simulation one pass and captures a GIF frame when
// recording.
func (h *host) tick() {
	h.sim.Drain()
	h.sim.Tick(h.frame)
	if h.recorder != nil && !h.recorder.Capture(h.sim.Solver()) {
		h.stopRecording()
	}
}

func (h *host) toggleRecording() {
	if h.recorder != nil {
		h.stopRecording()
		return
	}
	h.recorder = render.NewRecorder(h.sim.Painter().Palette, 1, 100/h.opts.FPS, maxGIFFrame)
	h.message = "recording"
}

func (h *host) stopRecording() {
	rec := h.recorder
	h.recorder = nil
	if rec == nil || rec.Len() == 0 {
		return
	}
	if err := rec.Save(h.opts.GIFPath); err != nil {
		h.message = "gif: " + err.Error()
		h.log.Error("gif save failed", zap.Error(err))
		return
	}
	h.message = fmt.Sprintf("saved %d frames to %s", rec.Len(), h.opts.GIFPath)
	h.log.Info("gif saved", zap.String("path", h.opts.GIFPath), zap.Int("frames", rec.Len()))
}

func (h *host) screenshot() {
	if err := os.MkdirAll(h.opts.ShotDir, 0755); err != nil {
		h.message = err.Error()
		return
	}
	path := filepath.Join(h.opts.ShotDir, fmt.Sprintf("wavesim_%d.png", time.Now().UnixMilli()))
	if err := render.SavePNG(path, h.frame); err != nil {
		h.message = "png: " + err.Error()
		h.log.Error("screenshot failed", zap.Error(err))
		return
	}
	h.message = "saved " + path
}

func (h *host) status() string {
	p := h.sim.Params()
	switch {
	case h.recorder != nil:
		return "REC"
	case p.Paused:
		return "PAUSED"
	case p.Measured:
		return "MEASURED"
	default:
		return "RUNNING"
	}
}

// statsLines are the text rows of the side panel above the sliders.
func (h *host) statsLines() []string {
	cfg := h.sim.Config()
	lines := []string{
		fmt.Sprintf("step  %d", h.sim.Steps()),
		fmt.Sprintf("solver  %s", cfg.Solver),
		fmt.Sprintf("palette  %s", h.sim.Params().Palette),
	}
	if err := h.sim.Stability().Err(); err != nil {
		lines = append(lines, "DIVERGED")
	}
	return lines
}
