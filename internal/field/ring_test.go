package field

import "testing"

func TestRingRotationPeriod(t *testing.T) {
	for _, n := range []int{2, 3} {
		r := NewRing(n, 4, 4)
		start := r.Current()
		for i := 1; i <= n; i++ {
			r.Rotate()
			if r.Index() != i%n {
				t.Errorf("n=%d: index after %d rotations = %d, want %d", n, i, r.Index(), i%n)
			}
			if i < n && r.Current() == start {
				t.Errorf("n=%d: current repeated after %d rotations", n, i)
			}
		}
		if r.Current() != start {
			t.Errorf("n=%d: current did not return after %d rotations", n, n)
		}
	}
}

func TestRingKeepsData(t *testing.T) {
	r := NewRing(3, 2, 2)
	for i := 0; i < r.Len(); i++ {
		r.Buffer(i).Data[0] = float64(i + 1)
	}

	seen := map[float64]int{}
	for i := 0; i < r.Len(); i++ {
		seen[r.Current().Data[0]]++
		r.Rotate()
	}
	for v := 1; v <= 3; v++ {
		if seen[float64(v)] != 1 {
			t.Errorf("buffer %d seen %d times, want 1", v, seen[float64(v)])
		}
	}
}

func TestRingRoles(t *testing.T) {
	r := NewRing(3, 2, 2)
	prev, cur, next := r.Previous(), r.Current(), r.Next()
	if prev == cur || cur == next || prev == next {
		t.Fatal("three-buffer roles must be distinct")
	}
	r.Rotate()
	if r.Current() != next || r.Previous() != cur || r.Next() != prev {
		t.Error("rotate should shift roles by one and recycle the oldest buffer")
	}

	two := NewRing(2, 2, 2)
	if two.Previous() != two.Next() {
		t.Error("two-buffer ring should alias previous and next")
	}
}

func TestGridZeroBorder(t *testing.T) {
	g := NewGrid(4, 3)
	for i := range g.Data {
		g.Data[i] = 1
	}
	g.ZeroBorder()
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			border := x == 0 || y == 0 || x == g.W-1 || y == g.H-1
			if border && g.At(x, y) != 0 {
				t.Errorf("(%d,%d) = %v, want 0", x, y, g.At(x, y))
			}
			if !border && g.At(x, y) != 1 {
				t.Errorf("interior (%d,%d) was cleared", x, y)
			}
		}
	}
}
