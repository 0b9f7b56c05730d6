package metrics

import (
	"math"

	"github.com/san-kum/wavesim/internal/dynamo"
)

// Stability counts ticks on which any cell is NaN, Inf or above threshold.
// Value is the fraction of clean ticks.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
	first      *dynamo.DivergenceError
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f dynamo.Field, step int) {
	s.samples++
	w, h := f.Dims()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m := f.Magnitude(x, y)
			if m <= s.threshold {
				continue
			}
			// NaN fails the comparison above and lands here too.
			s.violations++
			if s.first == nil {
				s.first = &dynamo.DivergenceError{Step: step, X: x, Y: y, Peak: m}
			}
			return
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

// Err returns the first divergence seen, or nil.
func (s *Stability) Err() error {
	if s.first == nil {
		return nil
	}
	return s.first
}

func (s *Stability) Diverged() bool { return s.first != nil }

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
	s.first = nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
