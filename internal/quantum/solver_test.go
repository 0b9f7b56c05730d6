package quantum

import (
	"math"
	"math/rand"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/wavesim/internal/dynamo"
)

func smallConfig(kinetic Kinetic, absorb bool) Config {
	cfg := DefaultConfig()
	cfg.Nx, cfg.Ny = 64, 64
	cfg.Kinetic = kinetic
	cfg.Absorb = absorb
	return cfg
}

func rowPower(s *Solver) []float64 {
	nx, ny := s.Dims()
	out := make([]float64, ny)
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			m := s.Magnitude(x, y)
			out[y] += m * m
		}
	}
	return out
}

func centroidY(s *Solver) float64 {
	rows := rowPower(s)
	num, den := 0.0, 0.0
	for i, p := range rows {
		num += s.y.Values[i] * p
		den += p
	}
	return num / den
}

func TestNormConservedWithoutAbsorber(t *testing.T) {
	for _, k := range []Kinetic{KineticRow, KineticFull} {
		g := NewWithT(t)
		s, err := New(smallConfig(k, false))
		g.Expect(err).NotTo(HaveOccurred())
		n0 := s.Norm()
		g.Expect(n0).To(BeNumerically(">", 0))
		for i := 0; i < 50; i++ {
			s.Step()
		}
		g.Expect(s.Norm()).To(BeNumerically("~", n0, n0*1e-9), "kinetic=%s", k)
	}
}

func TestNormNonIncreasingWithAbsorber(t *testing.T) {
	g := NewWithT(t)
	for _, k := range []Kinetic{KineticRow, KineticFull} {
		s, err := New(smallConfig(k, true))
		g.Expect(err).NotTo(HaveOccurred())
		prev := s.Norm()
		for i := 0; i < 100; i++ {
			s.Step()
			n := s.Norm()
			g.Expect(n).To(BeNumerically("<=", prev*(1+1e-12)), "%s step %d", k, i)
			prev = n
		}
	}
}

func TestRowKineticKeepsRowPower(t *testing.T) {
	g := NewWithT(t)
	s, err := New(smallConfig(KineticRow, false))
	g.Expect(err).NotTo(HaveOccurred())
	before := rowPower(s)
	for i := 0; i < 100; i++ {
		s.Step()
	}
	after := rowPower(s)
	for y := range before {
		g.Expect(after[y]).To(BeNumerically("~", before[y], 1e-9+before[y]*1e-9), "row %d", y)
	}
	g.Expect(centroidY(s)).To(BeNumerically("~", -3, 0.05))
}

func TestFullKineticPropagates(t *testing.T) {
	g := NewWithT(t)
	s, err := New(smallConfig(KineticFull, false))
	g.Expect(err).NotTo(HaveOccurred())
	y0 := centroidY(s)
	for i := 0; i < 50; i++ {
		s.Step()
	}
	g.Expect(centroidY(s)).To(BeNumerically(">", y0+0.5))
}

func TestBarrierPotential(t *testing.T) {
	g := NewWithT(t)
	s, err := New(smallConfig(KineticRow, true))
	g.Expect(err).NotTo(HaveOccurred())

	blocked := 0
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if !s.Blocked(x, y) {
				continue
			}
			blocked++
			g.Expect(math.Abs(s.y.Values[y])).To(BeNumerically("<", 0.2))
		}
	}
	g.Expect(blocked).To(BeNumerically(">", 0))

	mid := 32
	g.Expect(s.Blocked(mid, mid)).To(BeTrue(), "x=0 lies between the slits")
}

func TestCollapse(t *testing.T) {
	g := NewWithT(t)
	s, err := New(smallConfig(KineticFull, true))
	g.Expect(err).NotTo(HaveOccurred())
	for i := 0; i < 20; i++ {
		s.Step()
	}
	before := append([]complex128(nil), s.psi...)
	s.Collapse(rand.New(rand.NewSource(5)))
	for i := range before {
		if before[i] == 0 {
			g.Expect(s.psi[i]).To(BeZero())
		}
		g.Expect(s.psi[i] == before[i] || s.psi[i] == 0).To(BeTrue())
	}
	g.Expect(s.Measured()).To(BeTrue())

	s.Reset()
	g.Expect(s.Measured()).To(BeFalse())
	g.Expect(s.Steps()).To(Equal(0))
}

func TestResetRestoresPacket(t *testing.T) {
	g := NewWithT(t)
	s, err := New(smallConfig(KineticFull, true))
	g.Expect(err).NotTo(HaveOccurred())
	initial := append([]complex128(nil), s.psi...)
	for i := 0; i < 10; i++ {
		s.Step()
	}
	s.Reset()
	g.Expect(s.psi).To(Equal(initial))
}

func TestValidate(t *testing.T) {
	g := NewWithT(t)
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"not power of two", func(c *Config) { c.Nx = 100 }, dynamo.ErrInvalidGrid},
		{"dt too large", func(c *Config) { c.Dt = 0.5 }, dynamo.ErrParameterBounds},
		{"unknown kinetic", func(c *Config) { c.Kinetic = "diag" }, dynamo.ErrUnknownParam},
		{"packet in barrier", func(c *Config) { c.Y0 = 0.1 }, dynamo.ErrSourceInBarrier},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.modify(&cfg)
		g.Expect(cfg.Validate()).To(MatchError(tt.want), tt.name)
	}
	g.Expect(DefaultConfig().Validate()).To(Succeed())
}

func TestSetParam(t *testing.T) {
	g := NewWithT(t)
	s, err := New(smallConfig(KineticRow, true))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(s.SetParam("dt", 0.001)).To(Succeed())
	g.Expect(s.GetParams()["dt"]).To(Equal(0.001))
	g.Expect(s.SetParam("speed", 0.2)).To(MatchError(dynamo.ErrUnknownParam))
}
