package wave

import (
	"fmt"
	"math"

	"github.com/san-kum/wavesim/internal/dynamo"
	"github.com/san-kum/wavesim/internal/field"
)

// Solver steps a scalar wave on a fixed grid with a double-slit barrier.
//
// Border rows and columns are held at zero. Barrier cells are cleared after
// every step, before the optional absorbing profile is applied.
type Solver struct {
	cfg      Config
	ring     *field.Ring
	vel      *field.Grid
	mask     *field.Mask
	absorber *field.Absorber
	steps    int
	measured bool
}

func New(cfg Config) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Solver{cfg: cfg}
	switch cfg.Scheme {
	case SchemeLeapfrog:
		s.ring = field.NewRing(3, cfg.Width, cfg.Height)
	default:
		s.ring = field.NewRing(2, cfg.Width, cfg.Height)
		s.vel = field.NewGrid(cfg.Width, cfg.Height)
	}
	s.mask = field.NewMask(cfg.Width, cfg.Height, cfg.Geometry())
	if cfg.Absorb {
		s.absorber = field.NewAbsorber(cfg.Width, cfg.Height, cfg.AbsorbEdge, cfg.AbsorbFalloff)
	}
	return s, nil
}

func (s *Solver) Config() Config   { return s.cfg }
func (s *Solver) Dims() (int, int) { return s.cfg.Width, s.cfg.Height }
func (s *Solver) Steps() int       { return s.steps }
func (s *Solver) Measured() bool   { return s.measured }

func (s *Solver) Mask() *field.Mask { return s.mask }

// Current returns the live amplitude grid. It is only valid until the next
// Step.
func (s *Solver) Current() *field.Grid { return s.ring.Current() }

func (s *Solver) Amplitude(x, y int) float64 { return s.ring.Current().At(x, y) }

func (s *Solver) Magnitude(x, y int) float64 { return math.Abs(s.ring.Current().At(x, y)) }

func (s *Solver) Blocked(x, y int) bool { return s.mask.Blocked(x, y) }

// Tick advances one step and then injects the source.
func (s *Solver) Tick() {
	s.Step()
	s.Inject()
}

func (s *Solver) Step() {
	next := s.ring.Next()
	if s.cfg.Scheme == SchemeLeapfrog {
		s.stepLeapfrog(s.ring.Previous(), s.ring.Current(), next)
	} else {
		s.stepVelocity(s.ring.Current(), next)
	}
	next.ZeroBorder()

	s.mask.Apply(next)
	if s.vel != nil {
		s.mask.Apply(s.vel)
	}
	if s.absorber != nil {
		s.absorber.Apply(next)
		if s.vel != nil {
			s.absorber.Apply(s.vel)
		}
	}

	s.ring.Rotate()
	s.steps++
}

func (s *Solver) stepVelocity(cur, next *field.Grid) {
	w, h := cur.W, cur.H
	a, out, v := cur.Data, next.Data, s.vel.Data
	c, d := s.cfg.Speed, s.cfg.Damping
	for y := 1; y < h-1; y++ {
		row := y * w
		for x := 1; x < w-1; x++ {
			i := row + x
			lap := a[i-1] + a[i+1] + a[i-w] + a[i+w] - 4*a[i]
			v[i] = d * (v[i] + c*lap)
			out[i] = a[i] + v[i]
		}
	}
}

func (s *Solver) stepLeapfrog(prev, cur, next *field.Grid) {
	w, h := cur.W, cur.H
	p, a, out := prev.Data, cur.Data, next.Data
	c, d := s.cfg.Speed, s.cfg.Damping
	for y := 1; y < h-1; y++ {
		row := y * w
		for x := 1; x < w-1; x++ {
			i := row + x
			lap := a[i-1] + a[i+1] + a[i-w] + a[i+w] - 4*a[i]
			out[i] = d * (2*a[i] - p[i] + c*lap)
		}
	}
}

// SourceValue is the value added along the source row at step n.
func (s *Solver) SourceValue(n int) float64 {
	return s.cfg.SourceAmplitude * math.Sin(2*math.Pi*s.cfg.SourceFrequency*float64(n))
}

// Inject adds the sinusoidal source to the interior of the source row. It is
// a no-op once a measurement has collapsed the field.
func (s *Solver) Inject() {
	if s.measured || s.cfg.SourceAmplitude == 0 {
		return
	}
	v := s.SourceValue(s.steps)
	row := s.ring.Current().Row(s.cfg.SourceRow)
	for x := 1; x < len(row)-1; x++ {
		row[x] += v
	}
}

// Reset zeroes every buffer, clears the measured flag and restarts the step
// counter so the source phase starts from zero again.
func (s *Solver) Reset() {
	s.ring.Zero()
	if s.vel != nil {
		s.vel.Zero()
	}
	s.steps = 0
	s.measured = false
}

func (s *Solver) GetParams() map[string]float64 {
	return map[string]float64{
		"speed":            s.cfg.Speed,
		"damping":          s.cfg.Damping,
		"slit_width":       s.cfg.SlitWidth,
		"slit_separation":  s.cfg.SlitSeparation,
		"source_amplitude": s.cfg.SourceAmplitude,
		"source_frequency": s.cfg.SourceFrequency,
	}
}

func (s *Solver) SetParam(name string, value float64) error {
	if err := dynamo.CheckBound(name, value); err != nil {
		return err
	}
	switch name {
	case "speed":
		s.cfg.Speed = value
	case "damping":
		s.cfg.Damping = value
	case "slit_width":
		s.cfg.SlitWidth = value
		s.mask = field.NewMask(s.cfg.Width, s.cfg.Height, s.cfg.Geometry())
	case "slit_separation":
		s.cfg.SlitSeparation = value
		s.mask = field.NewMask(s.cfg.Width, s.cfg.Height, s.cfg.Geometry())
	case "source_amplitude":
		s.cfg.SourceAmplitude = value
	case "source_frequency":
		s.cfg.SourceFrequency = value
	default:
		return fmt.Errorf("wave: %q: %w", name, dynamo.ErrUnknownParam)
	}
	return nil
}
