package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/wavesim/internal/dynamo"
	"github.com/san-kum/wavesim/internal/field"
)

func init() {
	// Keep every transform on the caller's goroutine.
	fft.SetWorkerPoolSize(1)
}

// Solver evolves a 2D wavefunction with the split-step Fourier method:
// half potential, kinetic phase in k-space, half potential with absorption.
type Solver struct {
	cfg  Config
	x, y field.Axis

	psi      []complex128
	potHalf  []complex128
	blocked  []bool
	absorber *field.Absorber

	phaseX, phaseY []complex128
	col            []complex128

	steps    int
	measured bool
}

func New(cfg Config) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := cfg.Nx * cfg.Ny
	s := &Solver{
		cfg:     cfg,
		x:       field.NewAxis(cfg.Nx, cfg.Lx),
		y:       field.NewAxis(cfg.Ny, cfg.Ly),
		psi:     make([]complex128, n),
		potHalf: make([]complex128, n),
		blocked: make([]bool, n),
		col:     make([]complex128, cfg.Ny),
	}
	if cfg.Absorb {
		s.absorber = field.NewAbsorber(cfg.Nx, cfg.Ny, cfg.AbsorbEdge, cfg.AbsorbFalloff)
	}
	s.buildPotential()
	s.buildPhases()
	s.Reset()
	return s, nil
}

// potentialAt is V0 on the barrier band outside both slits, 0 elsewhere.
func (s *Solver) potentialAt(x, y float64) float64 {
	c := s.cfg
	if math.Abs(y-c.BarrierY) >= c.Thickness {
		return 0
	}
	half := c.SlitSeparation / 2
	if math.Abs(x-half) < c.SlitWidth || math.Abs(x+half) < c.SlitWidth {
		return 0
	}
	return c.V0
}

func (s *Solver) buildPotential() {
	for i, yv := range s.y.Values {
		for j, xv := range s.x.Values {
			v := s.potentialAt(xv, yv)
			idx := i*s.cfg.Nx + j
			s.blocked[idx] = v != 0
			s.potHalf[idx] = cmplx.Exp(complex(0, -v*s.cfg.Dt/(2*s.cfg.Hbar)))
		}
	}
}

func kineticPhases(k []float64, hbar, mass, dt float64) []complex128 {
	p := make([]complex128, len(k))
	for i, kv := range k {
		p[i] = cmplx.Exp(complex(0, -hbar*kv*kv*dt/(2*mass)))
	}
	return p
}

func (s *Solver) buildPhases() {
	c := s.cfg
	s.phaseX = kineticPhases(s.x.Wavenumbers(), c.Hbar, c.Mass, c.Dt)
	s.phaseY = kineticPhases(s.y.Wavenumbers(), c.Hbar, c.Mass, c.Dt)
}

func (s *Solver) Config() Config   { return s.cfg }
func (s *Solver) Dims() (int, int) { return s.cfg.Nx, s.cfg.Ny }
func (s *Solver) Steps() int       { return s.steps }
func (s *Solver) Measured() bool   { return s.measured }

func (s *Solver) Psi(x, y int) complex128    { return s.psi[y*s.cfg.Nx+x] }
func (s *Solver) Magnitude(x, y int) float64 { return cmplx.Abs(s.psi[y*s.cfg.Nx+x]) }
func (s *Solver) Blocked(x, y int) bool      { return s.blocked[y*s.cfg.Nx+x] }

// Norm returns the integrated probability Σ|ψ|²·dx·dy.
func (s *Solver) Norm() float64 {
	sum := 0.0
	for _, p := range s.psi {
		sum += real(p)*real(p) + imag(p)*imag(p)
	}
	return sum * s.x.Step * s.y.Step
}

// Tick is a single Step; the packet is the only source.
func (s *Solver) Tick() { s.Step() }

func (s *Solver) Step() {
	for i := range s.psi {
		s.psi[i] *= s.potHalf[i]
	}
	s.kineticRows()
	if s.cfg.Kinetic == KineticFull {
		s.kineticCols()
	}
	if s.absorber != nil {
		f := s.absorber.Factors()
		for i := range s.psi {
			s.psi[i] *= s.potHalf[i] * complex(f[i], 0)
		}
	} else {
		for i := range s.psi {
			s.psi[i] *= s.potHalf[i]
		}
	}
	s.steps++
}

func (s *Solver) kineticRows() {
	nx := s.cfg.Nx
	for y := 0; y < s.cfg.Ny; y++ {
		row := s.psi[y*nx : (y+1)*nx]
		freq := fft.FFT(row)
		for j := range freq {
			freq[j] *= s.phaseX[j]
		}
		copy(row, fft.IFFT(freq))
	}
}

func (s *Solver) kineticCols() {
	nx, ny := s.cfg.Nx, s.cfg.Ny
	for x := 0; x < nx; x++ {
		for y := 0; y < ny; y++ {
			s.col[y] = s.psi[y*nx+x]
		}
		freq := fft.FFT(s.col)
		for j := range freq {
			freq[j] *= s.phaseY[j]
		}
		out := fft.IFFT(freq)
		for y := 0; y < ny; y++ {
			s.psi[y*nx+x] = out[y]
		}
	}
}

// Reset restores the initial Gaussian packet.
func (s *Solver) Reset() {
	c := s.cfg
	inv := 1 / (2 * c.Sigma * c.Sigma)
	for i, yv := range s.y.Values {
		for j, xv := range s.x.Values {
			dx, dy := xv-c.X0, yv-c.Y0
			g := math.Exp(-(dx*dx + dy*dy) * inv)
			s.psi[i*c.Nx+j] = complex(g, 0) * cmplx.Exp(complex(0, c.Kx*xv+c.Ky*yv))
		}
	}
	s.steps = 0
	s.measured = false
}

// Collapse keeps each cell with probability min(|ψ|·gain, cap).
func (s *Solver) Collapse(rng *rand.Rand) int {
	survivors := 0
	for i, p := range s.psi {
		keep := math.Min(cmplx.Abs(p)*s.cfg.CollapseGain, s.cfg.CollapseCap)
		if rng.Float64() < keep {
			survivors++
			continue
		}
		s.psi[i] = 0
	}
	s.measured = true
	return survivors
}

func (s *Solver) GetParams() map[string]float64 {
	return map[string]float64{"dt": s.cfg.Dt}
}

func (s *Solver) SetParam(name string, value float64) error {
	if name != "dt" {
		return fmt.Errorf("quantum: %q: %w", name, dynamo.ErrUnknownParam)
	}
	if err := dynamo.CheckBound(name, value); err != nil {
		return err
	}
	s.cfg.Dt = value
	s.buildPotential()
	s.buildPhases()
	return nil
}
