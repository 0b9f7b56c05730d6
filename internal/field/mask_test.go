package field

import (
	"math"
	"testing"
)

func TestMaskBand(t *testing.T) {
	geom := SlitGeometry{BarrierRow: 10, HalfThickness: 1, Separation: 8, Width: 2}
	m := NewMask(33, 20, geom)

	for y := 0; y < m.H; y++ {
		inBand := y >= 9 && y <= 11
		if m.Blocked(0, y) != inBand {
			t.Errorf("row %d: blocked = %v, want %v", y, m.Blocked(0, y), inBand)
		}
	}
	if m.Blocked(-1, 10) || m.Blocked(33, 10) {
		t.Error("cells outside the grid must not be blocked")
	}
}

func TestMaskSlitsOpen(t *testing.T) {
	geom := SlitGeometry{BarrierRow: 10, HalfThickness: 1, Separation: 8, Width: 2}
	m := NewMask(33, 20, geom)

	c1, c2 := geom.SlitCenters(33)
	if c1 != 12 || c2 != 20 {
		t.Fatalf("slit centres = %v, %v, want 12, 20", c1, c2)
	}

	for x := 0; x < m.W; x++ {
		fx := float64(x)
		open := math.Abs(fx-c1) < 2 || math.Abs(fx-c2) < 2
		if m.Blocked(x, 10) == open {
			t.Errorf("column %d: blocked = %v, open = %v", x, m.Blocked(x, 10), open)
		}
	}
	if !m.Blocked(16, 10) {
		t.Error("centre between slits should be wall")
	}
}

func TestMaskMirrorSymmetric(t *testing.T) {
	for _, w := range []int{32, 33, 128, 129} {
		geom := SlitGeometry{BarrierRow: 20, HalfThickness: 1, Separation: 17, Width: 3.5}
		m := NewMask(w, 40, geom)
		for y := 0; y < m.H; y++ {
			for x := 0; x < w; x++ {
				if m.Blocked(x, y) != m.Blocked(w-1-x, y) {
					t.Fatalf("w=%d: mask not symmetric at (%d,%d)", w, x, y)
				}
			}
		}
	}
}

func TestMaskApply(t *testing.T) {
	geom := SlitGeometry{BarrierRow: 5, HalfThickness: 0, Separation: 4, Width: 1}
	m := NewMask(11, 10, geom)
	grid := NewGrid(11, 10)
	for i := range grid.Data {
		grid.Data[i] = 3
	}
	m.Apply(grid)
	for _, idx := range m.Cells() {
		if grid.Data[idx] != 0 {
			t.Errorf("barrier cell %d = %v", idx, grid.Data[idx])
		}
	}
	if grid.At(0, 4) != 3 {
		t.Error("cell outside band modified")
	}
}

func TestAbsorberProfile(t *testing.T) {
	a := NewAbsorber(100, 100, DefaultEdgeFraction, DefaultAbsorbFalloff)
	if a.Edge != 8 {
		t.Fatalf("edge = %d, want 8", a.Edge)
	}
	tests := []struct {
		x, y int
		want float64
	}{
		{50, 50, 1},
		{8, 50, 1},
		{0, 50, math.Exp(-4)},
		{99, 50, math.Exp(-4)},
		{50, 0, math.Exp(-4)},
	}
	for _, tt := range tests {
		if got := a.Factor(tt.x, tt.y); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Factor(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
	if a.Factor(0, 50) >= a.Factor(4, 50) {
		t.Error("factor should grow away from the border")
	}
}

func TestAxis(t *testing.T) {
	ax := NewAxis(8, 4)
	if ax.Step != 0.5 || ax.Values[0] != -2 || math.Abs(ax.Values[7]-1.5) > 1e-12 {
		t.Errorf("axis step=%v values=%v", ax.Step, ax.Values)
	}

	k := ax.Wavenumbers()
	if k[0] != 0 || k[3] <= 0 || k[4] >= 0 {
		t.Errorf("wavenumbers not in FFT order: %v", k)
	}
	if math.Abs(k[7]-(-2*math.Pi/4)) > 1e-12 {
		t.Errorf("k[7] = %v, want %v", k[7], -2*math.Pi/4)
	}
}
