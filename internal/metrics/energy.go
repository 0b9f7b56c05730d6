package metrics

import (
	"math"

	"github.com/san-kum/wavesim/internal/dynamo"
)

// Energy tracks Σ|a|² over the field. For a wavefunction this is the
// probability norm up to the cell area.
type Energy struct {
	name    string
	current float64
	peak    float64
	samples int
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(f dynamo.Field, step int) {
	e.current = sumSquares(f)
	e.peak = math.Max(e.peak, e.current)
	e.samples++
}

func (e *Energy) Value() float64 { return e.current }
func (e *Energy) Peak() float64  { return e.peak }

func (e *Energy) Reset() {
	e.current = 0
	e.peak = 0
	e.samples = 0
}

// EnergyDrift is the largest relative change of Σ|a|² from the first sample.
type EnergyDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(f dynamo.Field, step int) {
	energy := sumSquares(f)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / e.initial
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}

func sumSquares(f dynamo.Field) float64 {
	w, h := f.Dims()
	sum := 0.0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m := f.Magnitude(x, y)
			sum += m * m
		}
	}
	return sum
}
