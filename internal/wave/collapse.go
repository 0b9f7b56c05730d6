package wave

import (
	"math"
	"math/rand"
)

// Collapse keeps each cell with probability min(|a|·gain, cap) and zeroes
// the rest, including its velocity and previous level. Injection stays off
// until Reset.
func (s *Solver) Collapse(rng *rand.Rand) int {
	cur := s.ring.Current().Data
	var prev []float64
	if s.ring.Len() == 3 {
		prev = s.ring.Previous().Data
	}
	survivors := 0
	for i, a := range cur {
		p := math.Min(math.Abs(a)*s.cfg.CollapseGain, s.cfg.CollapseCap)
		if rng.Float64() < p {
			survivors++
			continue
		}
		cur[i] = 0
		if s.vel != nil {
			s.vel.Data[i] = 0
		}
		if prev != nil {
			prev[i] = 0
		}
	}
	s.measured = true
	return survivors
}
