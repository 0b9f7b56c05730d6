package field

// Ring holds a fixed set of equally sized grids and hands out roles by a
// rotating index. Rotate never copies or allocates.
//
// With three buffers the roles are previous, current and next; with two the
// previous and next roles share the scratch buffer.
type Ring struct {
	bufs []*Grid
	cur  int
}

func NewRing(n, w, h int) *Ring {
	if n < 2 {
		n = 2
	}
	bufs := make([]*Grid, n)
	for i := range bufs {
		bufs[i] = NewGrid(w, h)
	}
	return &Ring{bufs: bufs}
}

func (r *Ring) Len() int   { return len(r.bufs) }
func (r *Ring) Index() int { return r.cur }

func (r *Ring) Current() *Grid { return r.bufs[r.cur] }
func (r *Ring) Next() *Grid    { return r.bufs[(r.cur+1)%len(r.bufs)] }

func (r *Ring) Previous() *Grid {
	n := len(r.bufs)
	return r.bufs[(r.cur+n-1)%n]
}

// Rotate promotes next to current. The old current becomes previous and the
// oldest buffer is recycled as the new scratch.
func (r *Ring) Rotate() {
	r.cur = (r.cur + 1) % len(r.bufs)
}

// Buffer returns the grid at absolute slot i, independent of role.
func (r *Ring) Buffer(i int) *Grid { return r.bufs[i] }

func (r *Ring) Zero() {
	for _, b := range r.bufs {
		b.Zero()
	}
}
