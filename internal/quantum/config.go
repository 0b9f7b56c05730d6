package quantum

import (
	"fmt"
	"math"

	"github.com/san-kum/wavesim/internal/dynamo"
	"github.com/san-kum/wavesim/internal/field"
)

// Kinetic selects which wavenumbers enter the kinetic phase.
type Kinetic string

const (
	// KineticRow transforms rows only, so the phase uses kx² alone and the
	// packet never propagates along y.
	KineticRow Kinetic = "row"
	// KineticFull adds a column pass and uses kx²+ky².
	KineticFull Kinetic = "full"
)

type Config struct {
	Nx   int     `yaml:"nx"`
	Ny   int     `yaml:"ny"`
	Lx   float64 `yaml:"lx"`
	Ly   float64 `yaml:"ly"`
	Dt   float64 `yaml:"dt"`
	Hbar float64 `yaml:"hbar"`
	Mass float64 `yaml:"mass"`

	V0             float64 `yaml:"v0"`
	BarrierY       float64 `yaml:"barrier_y"`
	Thickness      float64 `yaml:"thickness"`
	SlitSeparation float64 `yaml:"slit_separation"`
	SlitWidth      float64 `yaml:"slit_width"`

	X0    float64 `yaml:"x0"`
	Y0    float64 `yaml:"y0"`
	Sigma float64 `yaml:"sigma"`
	Kx    float64 `yaml:"kx"`
	Ky    float64 `yaml:"ky"`

	Absorb        bool    `yaml:"absorb"`
	AbsorbEdge    float64 `yaml:"absorb_edge"`
	AbsorbFalloff float64 `yaml:"absorb_falloff"`

	Kinetic Kinetic `yaml:"kinetic"`

	CollapseGain float64 `yaml:"collapse_gain"`
	CollapseCap  float64 `yaml:"collapse_cap"`
}

func DefaultConfig() Config {
	return Config{
		Nx:             512,
		Ny:             512,
		Lx:             10,
		Ly:             10,
		Dt:             0.002,
		Hbar:           1,
		Mass:           1,
		V0:             1e4,
		BarrierY:       0,
		Thickness:      0.2,
		SlitSeparation: 1.5,
		SlitWidth:      0.3,
		X0:             0,
		Y0:             -3,
		Sigma:          0.35,
		Kx:             0,
		Ky:             15,
		Absorb:         true,
		AbsorbEdge:     field.DefaultEdgeFraction,
		AbsorbFalloff:  field.DefaultAbsorbFalloff,
		Kinetic:        KineticRow,
		CollapseGain:   4,
		CollapseCap:    1,
	}
}

func isPow2(n int) bool { return n > 0 && n&(n-1) == 0 }

func (c Config) Validate() error {
	if !isPow2(c.Nx) || !isPow2(c.Ny) || c.Nx < 4 || c.Ny < 4 {
		return fmt.Errorf("grid %dx%d: need powers of two >= 4: %w", c.Nx, c.Ny, dynamo.ErrInvalidGrid)
	}
	if c.Lx <= 0 || c.Ly <= 0 {
		return fmt.Errorf("box %gx%g: %w", c.Lx, c.Ly, dynamo.ErrInvalidGrid)
	}
	if err := dynamo.CheckBound("dt", c.Dt); err != nil {
		return err
	}
	if c.Hbar <= 0 || c.Mass <= 0 || c.Sigma <= 0 {
		return fmt.Errorf("hbar=%g mass=%g sigma=%g: %w", c.Hbar, c.Mass, c.Sigma, dynamo.ErrParameterBounds)
	}
	switch c.Kinetic {
	case KineticRow, KineticFull:
	default:
		return fmt.Errorf("kinetic %q: %w", c.Kinetic, dynamo.ErrUnknownParam)
	}
	if math.Abs(c.Y0-c.BarrierY) < c.Thickness {
		return fmt.Errorf("packet centre y=%g inside barrier: %w", c.Y0, dynamo.ErrSourceInBarrier)
	}
	if c.CollapseGain < 0 || c.CollapseCap < 0 || c.CollapseCap > 1 {
		return fmt.Errorf("collapse gain=%g cap=%g: %w", c.CollapseGain, c.CollapseCap, dynamo.ErrParameterBounds)
	}
	return nil
}
