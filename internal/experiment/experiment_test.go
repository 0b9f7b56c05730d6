package experiment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/wavesim/internal/config"
)

func smallConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Wave.Width, cfg.Wave.Height = 48, 40
	cfg.Wave.BarrierRow = 14
	cfg.Wave.SourceRow = 4
	cfg.Wave.SlitSeparation = 10
	cfg.Render.Scale = 1
	return cfg
}

func TestRunProducesRun(t *testing.T) {
	exp, err := New(Config{Preset: "classic", Sim: smallConfig(), Steps: 120, Frame: true}, nil)
	require.NoError(t, err)

	run, err := exp.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, config.SolverWave, run.Meta.Solver)
	assert.Equal(t, "classic", run.Meta.Preset)
	assert.Equal(t, 120, run.Meta.Steps)
	assert.Len(t, run.Profile, 48)
	assert.False(t, run.Meta.Diverged)
	assert.Contains(t, run.Meta.Metrics, "energy")
	assert.Contains(t, run.Meta.Metrics, "symmetry_error")
	assert.Less(t, run.Meta.Metrics["symmetry_error"], 1e-9)
	require.NotNil(t, run.Frame)
	assert.Equal(t, 48, run.Frame.Bounds().Dx())
}

func TestRunWithMeasurement(t *testing.T) {
	exp, err := New(Config{Sim: smallConfig(), Steps: 60, MeasureAt: 30}, nil)
	require.NoError(t, err)

	run, err := exp.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 60, run.Meta.Steps)
	assert.True(t, exp.Simulation().Params().Measured)
}

func TestParamsApplied(t *testing.T) {
	exp, err := New(Config{Sim: smallConfig(), Steps: 1, Params: map[string]float64{"speed": 0.3}}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, exp.Simulation().Params().Speed, 1e-12)

	_, err = New(Config{Sim: smallConfig(), Steps: 1, Params: map[string]float64{"bogus": 1}}, nil)
	assert.Error(t, err)
}

func TestStepsDefaultFromConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Steps = 5
	exp, err := New(Config{Sim: cfg}, nil)
	require.NoError(t, err)
	run, err := exp.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, run.Meta.Steps)

	_, err = New(Config{}, nil)
	assert.Error(t, err)
}

func TestMetricLookup(t *testing.T) {
	exp, err := New(Config{Sim: smallConfig(), Steps: 10}, nil)
	require.NoError(t, err)
	run, err := exp.Run(context.Background())
	require.NoError(t, err)

	for _, name := range []string{"spacing", "visibility", "peaks", "mean", "max", "energy"} {
		_, ok := Metric(run, name)
		assert.True(t, ok, name)
	}
	_, ok := Metric(run, "nope")
	assert.False(t, ok)
}
