package dynamo

import (
	"fmt"
	"math/rand"
)

// Field is what renderers and metrics read from a solver.
type Field interface {
	Dims() (w, h int)
	Magnitude(x, y int) float64
	Blocked(x, y int) bool
}

type Solver interface {
	Field
	// Step advances the field one time step without touching the source.
	Step()
	// Tick is Step followed by source injection.
	Tick()
	Reset()
	Steps() int
}

type Collapser interface {
	// Collapse zeroes cells at random, keeping each with a probability that
	// grows with its magnitude. It returns the number of surviving cells.
	Collapse(rng *rand.Rand) int
	Measured() bool
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Metric interface {
	Name() string
	Observe(f Field, step int)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(f Field, step int)
}

type Bound struct {
	Min, Max float64
}

func (b Bound) Clamp(v float64) float64 {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

func (b Bound) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// Bounds holds the slider ranges for every tunable parameter. The upper
// speed bound keeps the 4-point explicit stencil below its stability limit.
var Bounds = map[string]Bound{
	"speed":            {Min: 0.01, Max: 0.49},
	"damping":          {Min: 0.9, Max: 1.0},
	"slit_width":       {Min: 0.5, Max: 64},
	"slit_separation":  {Min: 1, Max: 256},
	"source_amplitude": {Min: 0, Max: 2},
	"source_frequency": {Min: 0.001, Max: 0.25},
	"dt":               {Min: 1e-4, Max: 0.01},
}

// Clamp limits v to the registered bound for name. Unknown names pass through.
func Clamp(name string, v float64) float64 {
	b, ok := Bounds[name]
	if !ok {
		return v
	}
	return b.Clamp(v)
}

// CheckBound returns ErrParameterBounds when v falls outside the bound for name.
func CheckBound(name string, v float64) error {
	b, ok := Bounds[name]
	if !ok || b.Contains(v) {
		return nil
	}
	return fmt.Errorf("%s=%g not in [%g, %g]: %w", name, v, b.Min, b.Max, ErrParameterBounds)
}
