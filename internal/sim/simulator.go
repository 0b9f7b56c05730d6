package sim

import (
	"context"
	"fmt"
	"image"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/dynamo"
	"github.com/san-kum/wavesim/internal/metrics"
	"github.com/san-kum/wavesim/internal/palette"
	"github.com/san-kum/wavesim/internal/quantum"
	"github.com/san-kum/wavesim/internal/render"
	"github.com/san-kum/wavesim/internal/wave"
)

const (
	DefaultCommandBuffer = 64
	// DivergenceThreshold is the |a| above which a field counts as blown up.
	DivergenceThreshold = 1e6
)

// Solver is what the simulation drives: a steppable field with tunable
// parameters.
type Solver interface {
	dynamo.Solver
	dynamo.Configurable
}

// NewSolver builds the solver selected by cfg.Solver.
func NewSolver(cfg *config.Config) (Solver, error) {
	switch cfg.Solver {
	case config.SolverQuantum:
		q, err := quantum.New(cfg.Quantum)
		if err != nil {
			return nil, err
		}
		return q, nil
	case config.SolverWave:
		w, err := wave.New(cfg.Wave)
		if err != nil {
			return nil, err
		}
		return w, nil
	default:
		return nil, fmt.Errorf("solver %q: %w", cfg.Solver, dynamo.ErrUnknownParam)
	}
}

// Simulation owns a solver, its parameters and the painter, and performs
// one step-then-paint pass per tick. It is not safe for concurrent use;
// other goroutines talk to it through Send.
type Simulation struct {
	cfg       *config.Config
	solver    Solver
	painter   *render.Painter
	rng       *rand.Rand
	params    Params
	measure   bool
	commands  chan Command
	metrics   []dynamo.Metric
	observers []dynamo.Observer
	stability *metrics.Stability
	screen    *metrics.Screen
	log       *zap.Logger
	frames    int
}

type Option func(*Simulation)

func WithLogger(l *zap.Logger) Option {
	return func(s *Simulation) { s.log = l }
}

func WithMetric(m dynamo.Metric) Option {
	return func(s *Simulation) { s.metrics = append(s.metrics, m) }
}

func WithObserver(o dynamo.Observer) Option {
	return func(s *Simulation) { s.observers = append(s.observers, o) }
}

func WithCommandBuffer(n int) Option {
	return func(s *Simulation) { s.commands = make(chan Command, n) }
}

func New(cfg *config.Config, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	solver, err := NewSolver(cfg)
	if err != nil {
		return nil, err
	}
	pal, err := palette.New(cfg.Render.Palette, cfg.Render.Saturation, cfg.Render.Gamma)
	if err != nil {
		return nil, err
	}
	painter := render.NewPainter(pal, cfg.Render.Scale)
	painter.ShowBarrier = cfg.Render.ShowBarrier

	s := &Simulation{
		cfg:       cfg,
		solver:    solver,
		painter:   painter,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		commands:  make(chan Command, DefaultCommandBuffer),
		stability: metrics.NewStability(DivergenceThreshold),
		screen:    metrics.NewScreen(cfg.ScreenRow()),
		log:       zap.NewNop(),
	}
	s.metrics = append(s.metrics, s.stability, s.screen)
	for _, opt := range opts {
		opt(s)
	}

	s.params.Palette = pal.Name
	for name, v := range solver.GetParams() {
		s.params.set(name, v)
	}
	return s, nil
}

func (s *Simulation) Config() *config.Config   { return s.cfg }
func (s *Simulation) Solver() Solver           { return s.solver }
func (s *Simulation) Painter() *render.Painter { return s.painter }
func (s *Simulation) Params() Params           { return s.params }
func (s *Simulation) Frames() int              { return s.frames }
func (s *Simulation) Steps() int               { return s.solver.Steps() }

// Stability returns the divergence tracker. Err is nil while the field is
// finite and bounded.
func (s *Simulation) Stability() *metrics.Stability { return s.stability }

// Profile returns the time-averaged screen intensity since the last reset.
func (s *Simulation) Profile() []float64 { return s.screen.Profile() }

func (s *Simulation) ScreenRow() int { return s.screen.Row() }

// NewFrame allocates a surface of the right size for Tick.
func (s *Simulation) NewFrame() *image.RGBA { return s.painter.NewImage(s.solver) }

// Tick runs one pass: step unless paused, collapse if a measurement is
// pending, observe, then repaint dst. A nil dst skips painting.
func (s *Simulation) Tick(dst *image.RGBA) {
	advanced := false
	if !s.params.Paused {
		s.solver.Tick()
		advanced = true
	}
	if s.measure {
		s.measure = false
		s.collapse()
		advanced = true
	}
	if advanced {
		step := s.solver.Steps()
		for _, m := range s.metrics {
			m.Observe(s.solver, step)
		}
		for _, o := range s.observers {
			o.OnTick(s.solver, step)
		}
	}
	if dst != nil {
		s.painter.Paint(dst, s.solver)
	}
	s.frames++
}

func (s *Simulation) collapse() {
	c, ok := s.solver.(dynamo.Collapser)
	if !ok {
		s.log.Warn("measurement not supported by solver", zap.String("solver", s.cfg.Solver))
		return
	}
	survivors := c.Collapse(s.rng)
	s.params.Measured = true
	s.log.Info("collapse applied", zap.Int("step", s.solver.Steps()), zap.Int("survivors", survivors))
}

// Apply executes one command immediately. Hosts on other goroutines must
// use Send instead.
func (s *Simulation) Apply(cmd Command) error {
	switch cmd.Kind {
	case CmdPause:
		s.params.Paused = true
	case CmdResume:
		s.params.Paused = false
	case CmdTogglePause:
		s.params.Paused = !s.params.Paused
	case CmdReset:
		s.solver.Reset()
		s.measure = false
		s.params.Measured = false
		for _, m := range s.metrics {
			m.Reset()
		}
		s.log.Info("simulation reset")
	case CmdMeasure:
		s.measure = true
	case CmdSetParam:
		v := dynamo.Clamp(cmd.Name, cmd.Value)
		if err := s.solver.SetParam(cmd.Name, v); err != nil {
			return err
		}
		s.params.set(cmd.Name, v)
	case CmdSetPalette:
		pal, err := s.painter.Palette.WithName(cmd.Name)
		if err != nil {
			return err
		}
		s.painter.Palette = pal
		s.params.Palette = pal.Name
	default:
		return fmt.Errorf("command %v: %w", cmd.Kind, dynamo.ErrUnknownParam)
	}
	return nil
}

// Send queues a command for the next tick. It never blocks and reports
// false when the queue is full.
func (s *Simulation) Send(cmd Command) bool {
	select {
	case s.commands <- cmd:
		return true
	default:
		return false
	}
}

// Drain applies every queued command. Failures are logged and skipped.
func (s *Simulation) Drain() {
	for {
		select {
		case cmd := <-s.commands:
			if err := s.Apply(cmd); err != nil {
				s.log.Warn("command rejected", zap.Stringer("command", cmd), zap.Error(err))
			}
		default:
			return
		}
	}
}

// Run is the frame loop: on every tick it drains commands, runs one pass
// and hands the frame to present. It returns when ctx is done, ticks is
// closed, or present fails.
func (s *Simulation) Run(ctx context.Context, ticks <-chan time.Time, present func(*image.RGBA) error) error {
	frame := s.NewFrame()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-ticks:
			if !ok {
				return nil
			}
			s.Drain()
			s.Tick(frame)
			if present == nil {
				continue
			}
			if err := present(frame); err != nil {
				return err
			}
		}
	}
}

// RunSteps advances n ticks without painting, as fast as possible.
func (s *Simulation) RunSteps(ctx context.Context, n int) (*Result, error) {
	if n <= 0 {
		return nil, fmt.Errorf("steps=%d: %w", n, dynamo.ErrParameterBounds)
	}
	start := time.Now()
	result := &Result{Metrics: make(map[string]float64)}
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			result.Elapsed = time.Since(start)
			return result, ctx.Err()
		default:
		}
		s.Drain()
		s.Tick(nil)
		result.Steps++
	}
	result.Elapsed = time.Since(start)
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Profile = s.Profile()
	result.Diverged = s.stability.Err()
	return result, nil
}

// ParamNames lists the solver's tunable parameters in a stable order.
func (s *Simulation) ParamNames() []string {
	params := s.solver.GetParams()
	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
