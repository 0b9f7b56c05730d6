package metrics

import "github.com/san-kum/wavesim/internal/dynamo"

// Screen accumulates |a|² along one row, the detector screen of the
// experiment. Value is the mean intensity across the screen.
type Screen struct {
	name    string
	row     int
	sum     []float64
	samples int
}

func NewScreen(row int) *Screen {
	return &Screen{name: "screen", row: row}
}

func (s *Screen) Name() string { return s.name }
func (s *Screen) Row() int     { return s.row }

func (s *Screen) Observe(f dynamo.Field, step int) {
	w, h := f.Dims()
	if s.row < 0 || s.row >= h {
		return
	}
	if len(s.sum) != w {
		s.sum = make([]float64, w)
	}
	for x := 0; x < w; x++ {
		m := f.Magnitude(x, s.row)
		s.sum[x] += m * m
	}
	s.samples++
}

// Profile returns the time-averaged intensity per column.
func (s *Screen) Profile() []float64 {
	out := make([]float64, len(s.sum))
	if s.samples == 0 {
		return out
	}
	for i, v := range s.sum {
		out[i] = v / float64(s.samples)
	}
	return out
}

func (s *Screen) Value() float64 {
	p := s.Profile()
	if len(p) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range p {
		total += v
	}
	return total / float64(len(p))
}

func (s *Screen) Reset() {
	s.sum = nil
	s.samples = 0
}
