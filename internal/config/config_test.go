package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/wavesim/internal/dynamo"
	"github.com/san-kum/wavesim/internal/palette"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Solver != SolverWave {
		t.Errorf("expected solver wave, got %s", cfg.Solver)
	}
	if cfg.Render.FPS <= 0 {
		t.Error("fps should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestAllPresetsValid(t *testing.T) {
	for _, solver := range Solvers() {
		for _, name := range ListPresets(solver) {
			cfg := GetPreset(solver, name)
			if err := cfg.Validate(); err != nil {
				t.Errorf("preset %s/%s: %v", solver, name, err)
			}
			if cfg.Solver != solver {
				t.Errorf("preset %s/%s has solver %s", solver, name, cfg.Solver)
			}
		}
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset(SolverQuantum, "quantum")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Quantum.Nx != 512 || cfg.Quantum.Dt != 0.002 {
		t.Errorf("expected 512 grid and dt 0.002, got %d and %f", cfg.Quantum.Nx, cfg.Quantum.Dt)
	}
	if cfg.Render.Palette != "ember" || cfg.Render.Gamma != 1.3 {
		t.Errorf("expected ember gamma 1.3, got %s %f", cfg.Render.Palette, cfg.Render.Gamma)
	}

	cfg.Render.Scale = 99
	if GetPreset(SolverQuantum, "quantum").Render.Scale == 99 {
		t.Error("GetPreset should return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset(SolverWave, "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "classic") != nil {
		t.Error("expected nil for nonexistent solver")
	}
	if FindPreset("leapfrog") == nil {
		t.Error("FindPreset should search every solver")
	}
}

func TestListPresets(t *testing.T) {
	if len(ListPresets(SolverWave)) == 0 {
		t.Error("expected presets for wave")
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent solver")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"unknown solver", func(c *Config) { c.Solver = "heat" }, dynamo.ErrUnknownParam},
		{"unknown palette", func(c *Config) { c.Render.Palette = "plasma" }, palette.ErrUnknown},
		{"zero scale", func(c *Config) { c.Render.Scale = 0 }, dynamo.ErrParameterBounds},
		{"source in barrier", func(c *Config) { c.Wave.SourceRow = c.Wave.BarrierRow }, dynamo.ErrSourceInBarrier},
		{"quantum grid", func(c *Config) { c.Solver = SolverQuantum; c.Quantum.Nx = 300 }, dynamo.ErrInvalidGrid},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.modify(cfg)
		if err := cfg.Validate(); !errors.Is(err, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sim.yaml")

	cfg := GetPreset(SolverWave, "narrow")
	cfg.Seed = 42
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Seed != 42 || got.Wave.SlitWidth != 1.5 {
		t.Errorf("round trip lost fields: seed %d width %f", got.Seed, got.Wave.SlitWidth)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("wave:\n  speed: 0.3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Wave.Speed != 0.3 {
		t.Errorf("expected speed 0.3, got %f", cfg.Wave.Speed)
	}
	if cfg.Wave.Width != 160 || cfg.Render.FPS != DefaultFPS {
		t.Errorf("defaults lost: width %d fps %d", cfg.Wave.Width, cfg.Render.FPS)
	}
}

func TestScreenRow(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.ScreenRow(); got != 80 {
		t.Errorf("wave screen row = %d, want 80", got)
	}
	cfg = GetPreset(SolverQuantum, "quantum")
	if got := cfg.ScreenRow(); got != 384 {
		t.Errorf("quantum screen row = %d, want 384", got)
	}
}
