package viz

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/san-kum/wavesim/internal/analysis"
	"github.com/san-kum/wavesim/internal/control"
	"github.com/san-kum/wavesim/internal/render"
	"github.com/san-kum/wavesim/internal/sim"
)

const (
	panelWidth  = 48
	graphPoints = 40
	maxGIFFrame = 600
)

type TickMsg time.Time

type Options struct {
	FPS     int
	GIFPath string
	ShotDir string
	Logger  *zap.Logger
}

// Model is the live terminal view of one simulation. All simulation access
// happens inside Update, on the Bubble Tea goroutine.
type Model struct {
	sim       *sim.Simulation
	frame     *image.RGBA
	canvas    *Canvas
	interval  time.Duration
	panel     *control.Panel
	recorder  *render.Recorder
	recording bool
	gifPath   string
	shotDir   string
	showHelp  bool
	message   string
	lastTick  time.Time
	fps       float64
	log       *zap.Logger
}

func NewModel(s *sim.Simulation, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.GIFPath == "" {
		opts.GIFPath = "wavesim.gif"
	}
	if opts.ShotDir == "" {
		opts.ShotDir = "."
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	frame := s.NewFrame()
	cols, rows := FitCanvas(frame.Bounds().Dx(), frame.Bounds().Dy(), 100, 40)
	return Model{
		sim:      s,
		frame:    frame,
		canvas:   NewCanvas(cols, rows),
		interval: time.Second / time.Duration(opts.FPS),
		panel:    control.NewPanel(s.ParamNames()),
		gifPath:  opts.GIFPath,
		shotDir:  opts.ShotDir,
		log:      opts.Logger,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		b := m.frame.Bounds()
		cols, rows := FitCanvas(b.Dx(), b.Dy(), msg.Width-panelWidth-2, msg.Height-1)
		m.canvas = NewCanvas(cols, rows)
	case TickMsg:
		now := time.Time(msg)
		if !m.lastTick.IsZero() {
			if dt := now.Sub(m.lastTick).Seconds(); dt > 0 {
				m.fps = 0.9*m.fps + 0.1/dt
			}
		}
		m.lastTick = now

		m.sim.Drain()
		m.sim.Tick(m.frame)
		m.canvas.Sample(m.frame)
		if m.recording && !m.recorder.Capture(m.sim.Solver()) {
			m.stopRecording()
		}
		return m, m.tick()
	}
	return m, nil
}

// keyName maps a Bubble Tea key to the names control bindings use. Shift
// selects fine steps.
func keyName(msg tea.KeyMsg) (string, bool) {
	name := msg.String()
	fine := strings.HasPrefix(name, "shift+")
	name = strings.TrimPrefix(name, "shift+")
	switch name {
	case " ":
		return "space", fine
	case "esc", "ctrl+c":
		return "escape", fine
	}
	return name, fine
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	name, fine := keyName(msg)
	if name == "t" {
		NextTheme()
		return m, nil
	}

	a := control.Lookup(name)
	switch a {
	case control.ActionNone:
		return m, nil
	case control.ActionQuit:
		if m.recording {
			m.stopRecording()
		}
		return m, tea.Quit
	case control.ActionHelp:
		m.showHelp = !m.showHelp
	case control.ActionRecord:
		if m.recording {
			m.stopRecording()
		} else {
			m.recorder = render.NewRecorder(m.sim.Painter().Palette, 1, 3, maxGIFFrame)
			m.recording = true
			m.message = "recording"
		}
	case control.ActionScreenshot:
		m.screenshot()
	default:
		cmd, ok := m.panel.Command(a, m.sim.Solver().GetParams(), m.sim.Params().Palette, fine)
		if ok {
			m.apply(cmd)
		}
	}
	return m, nil
}

func (m *Model) apply(cmd sim.Command) {
	if err := m.sim.Apply(cmd); err != nil {
		m.message = err.Error()
		m.log.Warn("command rejected", zap.Stringer("command", cmd), zap.Error(err))
		return
	}
	m.message = cmd.String()
}

func (m *Model) screenshot() {
	if err := os.MkdirAll(m.shotDir, 0755); err != nil {
		m.message = err.Error()
		return
	}
	path := filepath.Join(m.shotDir, fmt.Sprintf("wavesim_%d.png", time.Now().UnixMilli()))
	if err := render.SavePNG(path, m.frame); err != nil {
		m.message = "png: " + err.Error()
		m.log.Error("screenshot failed", zap.Error(err))
		return
	}
	m.message = "saved " + path
}

func (m *Model) stopRecording() {
	m.recording = false
	if m.recorder == nil || m.recorder.Len() == 0 {
		return
	}
	if err := m.recorder.Save(m.gifPath); err != nil {
		m.message = "gif: " + err.Error()
		m.log.Error("gif save failed", zap.Error(err))
		return
	}
	m.message = fmt.Sprintf("saved %d frames to %s", m.recorder.Len(), m.gifPath)
	m.log.Info("gif saved", zap.String("path", m.gifPath), zap.Int("frames", m.recorder.Len()))
	m.recorder = nil
}

// downsample averages xs into n buckets for plotting.
func downsample(xs []float64, n int) []float64 {
	if len(xs) <= n {
		return xs
	}
	out := make([]float64, n)
	for i := range out {
		lo, hi := i*len(xs)/n, (i+1)*len(xs)/n
		sum := 0.0
		for _, v := range xs[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}

func paramBar(sl control.Slider, v float64, width int) string {
	filled := int(sl.Ratio(v) * float64(width))
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}

func (m Model) status() string {
	p := m.sim.Params()
	switch {
	case m.recording:
		return "● REC"
	case p.Paused:
		return "PAUSED"
	case p.Measured:
		return "MEASURED"
	default:
		return "RUNNING"
	}
}

func (m Model) View() string {
	st := currentStyles()
	cfg := m.sim.Config()
	p := m.sim.Params()

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(cfg.Solver)+" DOUBLE SLIT") + "\n")
	if m.status() == "RUNNING" {
		s.WriteString(st.active.Render(m.status()) + "\n\n")
	} else {
		s.WriteString(st.alert.Render(m.status()) + "\n\n")
	}

	profile := analysis.Profile(m.sim.Solver(), m.sim.ScreenRow())
	if len(profile) > 1 {
		chart := asciigraph.Plot(downsample(profile, graphPoints),
			asciigraph.Height(5), asciigraph.Width(graphPoints), asciigraph.Caption("screen |a|²"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Step", fmt.Sprintf("%d", m.sim.Steps()))
	row("FPS", fmt.Sprintf("%.0f", m.fps))
	row("Palette", p.Palette)
	if err := m.sim.Stability().Err(); err != nil {
		s.WriteString(st.alert.Render("diverged: "+err.Error()) + "\n")
	}

	s.WriteString("\nPARAMETERS\n")
	params := m.sim.Solver().GetParams()
	for i, sl := range m.panel.Sliders {
		v := params[sl.Name]
		line := fmt.Sprintf("%-16s %s %.4g", sl.Name, paramBar(sl, v, 10), v)
		if i == m.panel.Selected {
			s.WriteString(st.active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + st.muted.Render(line) + "\n")
		}
	}
	if m.message != "" {
		s.WriteString("\n" + st.muted.Render(m.message) + "\n")
	}
	s.WriteString(st.muted.Render("\nSP:Pause R:Reset M:Measure Q:Quit\nP:Palette T:Theme G:Record S:PNG ?:Help"))

	main := lipgloss.JoinHorizontal(lipgloss.Top, m.canvas.String(), st.panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + main
	}
	return main
}

const helpText = `
  Space  pause / resume        M    measure (collapse)
  R      reset                 P    next palette
  Tab/↑↓ select parameter      ←/→  tune (shift: fine)
  G      toggle GIF recording  S    save PNG
  T      next theme            Q    quit
  ?      toggle this help
`

// Run starts the terminal host and blocks until the user quits.
func Run(s *sim.Simulation, opts Options) error {
	_, err := tea.NewProgram(NewModel(s, opts), tea.WithAltScreen()).Run()
	return err
}
