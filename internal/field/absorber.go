package field

import "math"

const (
	DefaultEdgeFraction  = 0.08
	DefaultAbsorbFalloff = 4.0
)

// Absorber is a read-only per-cell damping profile: 1 in the interior,
// decaying towards the border within Edge cells.
type Absorber struct {
	W, H   int
	Edge   int
	factor []float64
}

func NewAbsorber(w, h int, edgeFraction, falloff float64) *Absorber {
	short := w
	if h < short {
		short = h
	}
	a := &Absorber{W: w, H: h, Edge: int(math.Floor(edgeFraction * float64(short))), factor: make([]float64, w*h)}
	for i := range a.factor {
		a.factor[i] = 1
	}
	if a.Edge <= 0 {
		return a
	}
	edge := float64(a.Edge)
	for y := 0; y < h; y++ {
		dy := min(y, h-y-1)
		for x := 0; x < w; x++ {
			d := min(dy, min(x, w-x-1))
			if d >= a.Edge {
				continue
			}
			r := (edge - float64(d)) / edge
			a.factor[y*w+x] = math.Exp(-falloff * r * r)
		}
	}
	return a
}

func (a *Absorber) Factor(x, y int) float64 { return a.factor[y*a.W+x] }

// Apply multiplies g by the profile in place.
func (a *Absorber) Apply(g *Grid) {
	for i, f := range a.factor {
		g.Data[i] *= f
	}
}

// Factors exposes the flat profile for kernels that fuse the multiply.
func (a *Absorber) Factors() []float64 { return a.factor }
