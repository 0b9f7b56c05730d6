package automation

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/wavesim/internal/analysis"
	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/experiment"
	"github.com/san-kum/wavesim/internal/storage"
)

// Scenario is a scripted list of headless runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

type ScenarioStep struct {
	Preset    string             `yaml:"preset"`
	Steps     int                `yaml:"steps"`
	Seed      int64              `yaml:"seed"`
	Params    map[string]float64 `yaml:"params"`
	MeasureAt int                `yaml:"measure_at"`
	Save      bool               `yaml:"save"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s: no steps", path)
	}
	return &scenario, nil
}

func presetConfig(name string) (*config.Config, error) {
	cfg := config.FindPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset %q", name)
	}
	return cfg, nil
}

// RunScenario executes every step in order. Steps marked save are written
// to store when it is non-nil.
func RunScenario(ctx context.Context, scenario *Scenario, store *storage.Store, log *zap.Logger) ([]*storage.Run, error) {
	if log == nil {
		log = zap.NewNop()
	}
	runs := make([]*storage.Run, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		log.Info("scenario step",
			zap.String("scenario", scenario.Name),
			zap.Int("step", i+1),
			zap.Int("of", len(scenario.Steps)),
			zap.String("preset", step.Preset))

		cfg, err := presetConfig(step.Preset)
		if err != nil {
			return runs, fmt.Errorf("step %d: %w", i+1, err)
		}
		if step.Seed != 0 {
			cfg.Seed = step.Seed
		}
		exp, err := experiment.New(experiment.Config{
			Preset:    step.Preset,
			Sim:       cfg,
			Steps:     step.Steps,
			Params:    step.Params,
			MeasureAt: step.MeasureAt,
			Frame:     step.Save,
		}, log)
		if err != nil {
			return runs, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		run, err := exp.Run(ctx)
		if err != nil {
			return runs, fmt.Errorf("step %d run: %w", i+1, err)
		}
		if step.Save && store != nil {
			id, err := store.Save(run)
			if err != nil {
				return runs, fmt.Errorf("step %d save: %w", i+1, err)
			}
			run.Meta.ID = id
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// ParameterSweep runs one preset across evenly spaced values of a single
// parameter. Base, when set, replaces the preset lookup; Params are applied
// at every point before the swept value.
type ParameterSweep struct {
	Preset    string
	Base      *config.Config
	Params    map[string]float64
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Steps     int
}

type SweepResult struct {
	ParamValue float64
	Summary    analysis.Summary
	Diverged   bool
}

func RunSweep(ctx context.Context, sweep *ParameterSweep, log *zap.Logger) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 points, got %d", sweep.NumSteps)
	}
	if log == nil {
		log = zap.NewNop()
	}
	base := sweep.Base
	if base == nil {
		var err error
		if base, err = presetConfig(sweep.Preset); err != nil {
			return nil, err
		}
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep
		params := make(map[string]float64, len(sweep.Params)+1)
		for k, v := range sweep.Params {
			params[k] = v
		}
		params[sweep.ParamName] = paramVal
		exp, err := experiment.New(experiment.Config{
			Preset: sweep.Preset,
			Sim:    base.Clone(),
			Steps:  sweep.Steps,
			Params: params,
		}, log)
		if err != nil {
			return results, err
		}
		run, err := exp.Run(ctx)
		if err != nil {
			return results, err
		}
		results = append(results, SweepResult{
			ParamValue: paramVal,
			Summary:    run.Meta.Analysis,
			Diverged:   run.Meta.Diverged,
		})
		log.Debug("sweep point",
			zap.Int("index", i+1),
			zap.String("param", sweep.ParamName),
			zap.Float64("value", paramVal),
			zap.Float64("spacing", run.Meta.Analysis.Spacing))
	}
	return results, nil
}
