package field

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Axis is a uniformly sampled physical coordinate on [-L/2, L/2).
type Axis struct {
	N      int
	L      float64
	Step   float64
	Values []float64
}

func NewAxis(n int, length float64) Axis {
	a := Axis{N: n, L: length, Values: make([]float64, n)}
	if n == 1 {
		a.Step = length
		return a
	}
	a.Step = length / float64(n)
	floats.Span(a.Values, -length/2, length/2-a.Step)
	return a
}

// Wavenumbers returns the FFT-ordered angular wavenumbers for the axis:
// 0, 1, ..., N/2-1, -N/2, ..., -1 scaled by 2π/L.
func (a Axis) Wavenumbers() []float64 {
	k := make([]float64, a.N)
	scale := 2 * math.Pi / a.L
	for i := range k {
		f := i
		if i >= a.N/2 {
			f = i - a.N
		}
		k[i] = float64(f) * scale
	}
	return k
}
