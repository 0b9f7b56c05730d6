package field

import "math"

// SlitGeometry describes a horizontal barrier pierced by two slits placed
// symmetrically about the vertical centre line of the grid.
type SlitGeometry struct {
	BarrierRow    int
	HalfThickness int
	Separation    float64
	Width         float64
}

// SlitCenters returns the column centres of the two windows.
func (s SlitGeometry) SlitCenters(w int) (float64, float64) {
	c := float64(w-1) / 2
	return c - s.Separation/2, c + s.Separation/2
}

// InBand reports whether row y belongs to the barrier band.
func (s SlitGeometry) InBand(y int) bool {
	d := y - s.BarrierRow
	if d < 0 {
		d = -d
	}
	return d <= s.HalfThickness
}

// Mask is the precomputed barrier set for one geometry. It is never mutated;
// a geometry change builds a new Mask.
type Mask struct {
	W, H     int
	Geometry SlitGeometry
	blocked  []bool
	cells    []int
}

func NewMask(w, h int, geom SlitGeometry) *Mask {
	m := &Mask{W: w, H: h, Geometry: geom, blocked: make([]bool, w*h)}
	c1, c2 := geom.SlitCenters(w)
	for y := 0; y < h; y++ {
		if !geom.InBand(y) {
			continue
		}
		for x := 0; x < w; x++ {
			fx := float64(x)
			open := math.Abs(fx-c1) < geom.Width || math.Abs(fx-c2) < geom.Width
			if open {
				continue
			}
			idx := y*w + x
			m.blocked[idx] = true
			m.cells = append(m.cells, idx)
		}
	}
	return m
}

func (m *Mask) Blocked(x, y int) bool {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return false
	}
	return m.blocked[y*m.W+x]
}

// Cells returns the flat indices of every barrier cell.
func (m *Mask) Cells() []int { return m.cells }

// Apply forces every barrier cell of g to zero.
func (m *Mask) Apply(g *Grid) {
	for _, idx := range m.cells {
		g.Data[idx] = 0
	}
}
