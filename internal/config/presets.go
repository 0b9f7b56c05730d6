package config

import "sort"

var Presets = map[string]map[string]*Config{
	SolverWave: {
		"classic": DefaultConfig(),
		"narrow": with(func(c *Config) {
			c.Wave.SlitSeparation = 12
			c.Wave.SlitWidth = 1.5
		}),
		"wide": with(func(c *Config) {
			c.Wave.SlitSeparation = 48
			c.Wave.SlitWidth = 4
			c.Wave.SourceFrequency = 0.08
		}),
		"leapfrog": with(func(c *Config) {
			c.Wave.Scheme = "leapfrog"
			c.Wave.Speed = 0.25
			c.Render.Palette = "ocean"
		}),
		"big": with(func(c *Config) {
			c.Wave.Width, c.Wave.Height = 320, 240
			c.Wave.BarrierRow = 80
			c.Wave.SourceRow = 20
			c.Wave.SlitSeparation = 40
			c.Render.Scale = 2
		}),
	},
	SolverQuantum: {
		"quantum": with(quantumRender),
		"quantum-full": with(func(c *Config) {
			quantumRender(c)
			c.Quantum.Kinetic = "full"
		}),
		"quantum-small": with(func(c *Config) {
			quantumRender(c)
			c.Quantum.Kinetic = "full"
			c.Quantum.Nx, c.Quantum.Ny = 256, 256
			c.Render.Scale = 2
		}),
	},
}

func quantumRender(c *Config) {
	c.Solver = SolverQuantum
	c.Render.Scale = 1
	c.Render.Palette = "ember"
	c.Render.Gamma = 1.3
	c.Render.Saturation = QuantumSaturation
	c.Render.ShowBarrier = false
}

func with(modify func(*Config)) *Config {
	c := DefaultConfig()
	modify(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(solver, preset string) *Config {
	solverPresets, ok := Presets[solver]
	if !ok {
		return nil
	}
	cfg, ok := solverPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// FindPreset looks a preset up by name across all solvers.
func FindPreset(preset string) *Config {
	for solver := range Presets {
		if cfg := GetPreset(solver, preset); cfg != nil {
			return cfg
		}
	}
	return nil
}

func ListPresets(solver string) []string {
	solverPresets, ok := Presets[solver]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(solverPresets))
	for name := range solverPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Solvers() []string {
	return []string{SolverWave, SolverQuantum}
}
