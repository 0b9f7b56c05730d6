// Package experiment runs a simulation headless for a fixed number of
// ticks and packages the outcome as a storable run.
package experiment

import (
	"context"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/san-kum/wavesim/internal/analysis"
	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/dynamo"
	"github.com/san-kum/wavesim/internal/metrics"
	"github.com/san-kum/wavesim/internal/sim"
	"github.com/san-kum/wavesim/internal/storage"
)

type Config struct {
	Preset    string
	Sim       *config.Config
	Steps     int
	Params    map[string]float64
	MeasureAt int // tick at which to collapse; 0 never
	Frame     bool
}

type Experiment struct {
	cfg Config
	sim *sim.Simulation
	log *zap.Logger
}

func New(cfg Config, log *zap.Logger) (*Experiment, error) {
	if cfg.Sim == nil {
		return nil, fmt.Errorf("experiment: no simulation config")
	}
	if cfg.Steps <= 0 {
		cfg.Steps = cfg.Sim.Steps
	}
	if cfg.Steps <= 0 {
		return nil, fmt.Errorf("steps=%d: %w", cfg.Steps, dynamo.ErrParameterBounds)
	}
	if log == nil {
		log = zap.NewNop()
	}
	s, err := sim.New(cfg.Sim,
		sim.WithLogger(log),
		sim.WithMetric(metrics.NewEnergy()),
		sim.WithMetric(metrics.NewEnergyDrift()),
		sim.WithMetric(metrics.NewSymmetry()),
	)
	if err != nil {
		return nil, err
	}
	for name, v := range cfg.Params {
		if err := s.Apply(sim.SetParam(name, v)); err != nil {
			return nil, fmt.Errorf("param %s: %w", name, err)
		}
	}
	return &Experiment{cfg: cfg, sim: s, log: log}, nil
}

func (e *Experiment) Simulation() *sim.Simulation { return e.sim }

func (e *Experiment) Run(ctx context.Context) (*storage.Run, error) {
	var (
		res *sim.Result
		err error
	)
	first := e.cfg.Steps
	if e.cfg.MeasureAt > 0 && e.cfg.MeasureAt < e.cfg.Steps {
		first = e.cfg.MeasureAt
	}
	if res, err = e.sim.RunSteps(ctx, first); err != nil {
		return nil, err
	}
	elapsed := res.Elapsed
	if first < e.cfg.Steps {
		if err := e.sim.Apply(sim.Measure()); err != nil {
			return nil, err
		}
		if res, err = e.sim.RunSteps(ctx, e.cfg.Steps-first); err != nil {
			return nil, err
		}
		elapsed += res.Elapsed
	}

	cfg := e.sim.Config()
	w, h := cfg.Dims()
	run := &storage.Run{
		Meta: storage.RunMetadata{
			Solver:    cfg.Solver,
			Preset:    e.cfg.Preset,
			Seed:      cfg.Seed,
			Steps:     e.sim.Steps(),
			Width:     w,
			Height:    h,
			ScreenRow: e.sim.ScreenRow(),
			Elapsed:   elapsed.Seconds(),
			Diverged:  res.Diverged != nil,
			Metrics:   res.Metrics,
			Analysis:  analysis.Analyze(res.Profile),
		},
		Config:  cfg,
		Profile: res.Profile,
	}
	if e.cfg.Frame {
		run.Frame = e.frame()
	}
	e.log.Info("experiment finished",
		zap.String("solver", cfg.Solver),
		zap.String("preset", e.cfg.Preset),
		zap.Int("steps", run.Meta.Steps),
		zap.Float64("spacing", run.Meta.Analysis.Spacing),
		zap.Bool("diverged", run.Meta.Diverged))
	return run, nil
}

func (e *Experiment) frame() image.Image {
	img := e.sim.NewFrame()
	e.sim.Painter().Paint(img, e.sim.Solver())
	return img
}

// Metric looks up a named measurement of a finished run: one of the fringe
// summary fields, or any metric the simulation recorded.
func Metric(run *storage.Run, name string) (float64, bool) {
	a := run.Meta.Analysis
	switch name {
	case "spacing":
		return a.Spacing, true
	case "visibility":
		return a.Visibility, true
	case "peaks":
		return float64(a.Peaks), true
	case "mean":
		return a.Mean, true
	case "max":
		return a.Max, true
	}
	v, ok := run.Meta.Metrics[name]
	return v, ok
}
