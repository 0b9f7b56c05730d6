package field

// Grid is a fixed-size row-major scalar field.
type Grid struct {
	W, H int
	Data []float64
}

func NewGrid(w, h int) *Grid {
	return &Grid{W: w, H: h, Data: make([]float64, w*h)}
}

func (g *Grid) Index(x, y int) int      { return y*g.W + x }
func (g *Grid) At(x, y int) float64     { return g.Data[y*g.W+x] }
func (g *Grid) Set(x, y int, v float64) { g.Data[y*g.W+x] = v }

// Row returns the backing slice of row y.
func (g *Grid) Row(y int) []float64 {
	return g.Data[y*g.W : (y+1)*g.W]
}

func (g *Grid) Zero() {
	for i := range g.Data {
		g.Data[i] = 0
	}
}

func (g *Grid) CopyFrom(src *Grid) {
	copy(g.Data, src.Data)
}

// ZeroBorder clears the outermost rows and columns.
func (g *Grid) ZeroBorder() {
	last := (g.H - 1) * g.W
	for x := 0; x < g.W; x++ {
		g.Data[x] = 0
		g.Data[last+x] = 0
	}
	for y := 1; y < g.H-1; y++ {
		g.Data[y*g.W] = 0
		g.Data[y*g.W+g.W-1] = 0
	}
}
