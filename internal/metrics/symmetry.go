package metrics

import (
	"math"

	"github.com/san-kum/wavesim/internal/dynamo"
)

// Symmetry records the largest mirror mismatch |m(x,y) - m(W-1-x,y)| seen.
type Symmetry struct {
	name  string
	worst float64
	last  float64
}

func NewSymmetry() *Symmetry {
	return &Symmetry{name: "symmetry_error"}
}

func (s *Symmetry) Name() string { return s.name }

func (s *Symmetry) Observe(f dynamo.Field, step int) {
	w, h := f.Dims()
	worst := 0.0
	for y := 0; y < h; y++ {
		for x := 0; x < w/2; x++ {
			d := math.Abs(f.Magnitude(x, y) - f.Magnitude(w-1-x, y))
			if d > worst || !finite(d) {
				worst = d
			}
		}
	}
	s.last = worst
	s.worst = math.Max(s.worst, worst)
}

func (s *Symmetry) Value() float64 { return s.worst }
func (s *Symmetry) Last() float64  { return s.last }

func (s *Symmetry) Reset() {
	s.worst = 0
	s.last = 0
}
