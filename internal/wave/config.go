package wave

import (
	"fmt"

	"github.com/san-kum/wavesim/internal/dynamo"
	"github.com/san-kum/wavesim/internal/field"
)

type Scheme string

const (
	// SchemeVelocity keeps amplitude plus an explicit velocity grid.
	SchemeVelocity Scheme = "velocity"
	// SchemeLeapfrog is the three-level form a' = d(2a - a_prev + c·lap a).
	SchemeLeapfrog Scheme = "leapfrog"
)

type Config struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Scheme Scheme `yaml:"scheme"`

	Speed   float64 `yaml:"speed"`
	Damping float64 `yaml:"damping"`

	BarrierRow       int     `yaml:"barrier_row"`
	BarrierHalfThick int     `yaml:"barrier_half_thickness"`
	SlitSeparation   float64 `yaml:"slit_separation"`
	SlitWidth        float64 `yaml:"slit_width"`

	SourceRow       int     `yaml:"source_row"`
	SourceAmplitude float64 `yaml:"source_amplitude"`
	SourceFrequency float64 `yaml:"source_frequency"`

	Absorb        bool    `yaml:"absorb"`
	AbsorbEdge    float64 `yaml:"absorb_edge"`
	AbsorbFalloff float64 `yaml:"absorb_falloff"`

	CollapseGain float64 `yaml:"collapse_gain"`
	CollapseCap  float64 `yaml:"collapse_cap"`
}

func DefaultConfig() Config {
	return Config{
		Width:            160,
		Height:           120,
		Scheme:           SchemeVelocity,
		Speed:            0.2,
		Damping:          0.999,
		BarrierRow:       40,
		BarrierHalfThick: 1,
		SlitSeparation:   24,
		SlitWidth:        3,
		SourceRow:        10,
		SourceAmplitude:  0.5,
		SourceFrequency:  0.05,
		Absorb:           true,
		AbsorbEdge:       field.DefaultEdgeFraction,
		AbsorbFalloff:    field.DefaultAbsorbFalloff,
		CollapseGain:     4,
		CollapseCap:      1,
	}
}

func (c Config) Geometry() field.SlitGeometry {
	return field.SlitGeometry{
		BarrierRow:    c.BarrierRow,
		HalfThickness: c.BarrierHalfThick,
		Separation:    c.SlitSeparation,
		Width:         c.SlitWidth,
	}
}

func (c Config) Validate() error {
	if c.Width < 3 || c.Height < 3 {
		return fmt.Errorf("grid %dx%d: need at least 3x3: %w", c.Width, c.Height, dynamo.ErrInvalidGrid)
	}
	switch c.Scheme {
	case SchemeVelocity, SchemeLeapfrog:
	default:
		return fmt.Errorf("scheme %q: %w", c.Scheme, dynamo.ErrUnknownParam)
	}
	for name, v := range map[string]float64{
		"speed":            c.Speed,
		"damping":          c.Damping,
		"slit_width":       c.SlitWidth,
		"slit_separation":  c.SlitSeparation,
		"source_amplitude": c.SourceAmplitude,
		"source_frequency": c.SourceFrequency,
	} {
		if err := dynamo.CheckBound(name, v); err != nil {
			return err
		}
	}
	if c.BarrierHalfThick < 0 {
		return fmt.Errorf("barrier_half_thickness=%d: %w", c.BarrierHalfThick, dynamo.ErrParameterBounds)
	}
	if c.BarrierRow < 0 || c.BarrierRow >= c.Height {
		return fmt.Errorf("barrier_row=%d outside [0, %d): %w", c.BarrierRow, c.Height, dynamo.ErrParameterBounds)
	}
	if c.SourceRow < 1 || c.SourceRow > c.Height-2 {
		return fmt.Errorf("source_row=%d outside interior [1, %d]: %w", c.SourceRow, c.Height-2, dynamo.ErrParameterBounds)
	}
	if c.Geometry().InBand(c.SourceRow) {
		return fmt.Errorf("source_row=%d, barrier %d±%d: %w", c.SourceRow, c.BarrierRow, c.BarrierHalfThick, dynamo.ErrSourceInBarrier)
	}
	if c.CollapseGain < 0 || c.CollapseCap < 0 || c.CollapseCap > 1 {
		return fmt.Errorf("collapse gain=%g cap=%g: %w", c.CollapseGain, c.CollapseCap, dynamo.ErrParameterBounds)
	}
	return nil
}
