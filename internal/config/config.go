package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/wavesim/internal/dynamo"
	"github.com/san-kum/wavesim/internal/logging"
	"github.com/san-kum/wavesim/internal/palette"
	"github.com/san-kum/wavesim/internal/quantum"
	"github.com/san-kum/wavesim/internal/wave"
)

const (
	SolverWave    = "wave"
	SolverQuantum = "quantum"

	DefaultSeed    = 1
	DefaultSteps   = 600
	DefaultFPS     = 60
	DefaultScale   = 4
	DefaultDataDir = "runs"
	DefaultAddr    = ":8080"
)

// QuantumSaturation reproduces the |ψ|^1.3·500 brightness of the quantum
// sketch: the magnitude whose shaped intensity reaches 255.
var QuantumSaturation = math.Pow(255.0/500, 1/1.3)

type Config struct {
	Solver  string         `yaml:"solver"`
	Seed    int64          `yaml:"seed"`
	Steps   int            `yaml:"steps"`
	DataDir string         `yaml:"data_dir"`
	Wave    wave.Config    `yaml:"wave"`
	Quantum quantum.Config `yaml:"quantum"`
	Render  RenderConfig   `yaml:"render"`
	Web     WebConfig      `yaml:"web"`
	Log     logging.Config `yaml:"log"`
}

type RenderConfig struct {
	Scale       int     `yaml:"scale"`
	Palette     string  `yaml:"palette"`
	Gamma       float64 `yaml:"gamma"`
	Saturation  float64 `yaml:"saturation"`
	FPS         int     `yaml:"fps"`
	ShowBarrier bool    `yaml:"show_barrier"`
}

type WebConfig struct {
	Addr string `yaml:"addr"`
}

func DefaultConfig() *Config {
	return &Config{
		Solver:  SolverWave,
		Seed:    DefaultSeed,
		Steps:   DefaultSteps,
		DataDir: DefaultDataDir,
		Wave:    wave.DefaultConfig(),
		Quantum: quantum.DefaultConfig(),
		Render: RenderConfig{
			Scale:       DefaultScale,
			Palette:     "viridis",
			Gamma:       0.6,
			Saturation:  0.5,
			FPS:         DefaultFPS,
			ShowBarrier: true,
		},
		Web: WebConfig{Addr: DefaultAddr},
		Log: logging.Config{Level: "info"},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch c.Solver {
	case SolverWave:
		if err := c.Wave.Validate(); err != nil {
			return fmt.Errorf("wave: %w", err)
		}
	case SolverQuantum:
		if err := c.Quantum.Validate(); err != nil {
			return fmt.Errorf("quantum: %w", err)
		}
	default:
		return fmt.Errorf("solver %q: %w", c.Solver, dynamo.ErrUnknownParam)
	}
	if !palette.Exists(c.Render.Palette) {
		return fmt.Errorf("render: %q: %w", c.Render.Palette, palette.ErrUnknown)
	}
	if c.Render.Scale < 1 || c.Render.FPS < 1 {
		return fmt.Errorf("render: scale=%d fps=%d: %w", c.Render.Scale, c.Render.FPS, dynamo.ErrParameterBounds)
	}
	if c.Render.Gamma <= 0 || c.Render.Saturation <= 0 {
		return fmt.Errorf("render: gamma=%g saturation=%g: %w", c.Render.Gamma, c.Render.Saturation, dynamo.ErrParameterBounds)
	}
	return nil
}

// Dims returns the grid size of the selected solver.
func (c *Config) Dims() (int, int) {
	if c.Solver == SolverQuantum {
		return c.Quantum.Nx, c.Quantum.Ny
	}
	return c.Wave.Width, c.Wave.Height
}

// ScreenRow picks the detector row: halfway between the barrier and the far
// edge, clear of the absorbing margin.
func (c *Config) ScreenRow() int {
	if c.Solver == SolverQuantum {
		n := c.Quantum.Ny
		barrier := int((c.Quantum.BarrierY + c.Quantum.Ly/2) / c.Quantum.Ly * float64(n))
		return barrier + (n-barrier)/2
	}
	return c.Wave.BarrierRow + (c.Wave.Height-c.Wave.BarrierRow)/2
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
