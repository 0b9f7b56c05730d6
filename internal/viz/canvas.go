package viz

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const halfBlock = "▀"

type Cell struct {
	Top, Bottom color.RGBA
}

// Canvas is a Cols×Rows grid of half-block cells, each showing two
// vertically stacked pixels.
type Canvas struct {
	Cols, Rows int
	Cells      []Cell
}

func NewCanvas(cols, rows int) *Canvas {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &Canvas{Cols: cols, Rows: rows, Cells: make([]Cell, cols*rows)}
}

// FitCanvas picks the largest canvas that shows a w×h image inside
// maxCols×maxRows cells with an integer pixel stride.
func FitCanvas(w, h, maxCols, maxRows int) (cols, rows int) {
	if maxCols < 1 {
		maxCols = 1
	}
	if maxRows < 1 {
		maxRows = 1
	}
	stride := 1
	for w/stride > maxCols || (h/stride+1)/2 > maxRows {
		stride++
	}
	return max(1, w/stride), max(1, (h/stride+1)/2)
}

// Sample fills the canvas from img by nearest neighbour.
func (c *Canvas) Sample(img *image.RGBA) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pixelRows := 2 * c.Rows
	for cy := 0; cy < c.Rows; cy++ {
		ty := b.Min.Y + (2*cy)*h/pixelRows
		by := b.Min.Y + (2*cy+1)*h/pixelRows
		for cx := 0; cx < c.Cols; cx++ {
			x := b.Min.X + cx*w/c.Cols
			c.Cells[cy*c.Cols+cx] = Cell{Top: img.RGBAAt(x, ty), Bottom: img.RGBAAt(x, by)}
		}
	}
}

func (c *Canvas) At(x, y int) Cell { return c.Cells[y*c.Cols+x] }

func hex(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// String renders the canvas, merging horizontal runs of identical cells
// into one styled span.
func (c *Canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.Rows; y++ {
		row := c.Cells[y*c.Cols : (y+1)*c.Cols]
		for x := 0; x < len(row); {
			run := 1
			for x+run < len(row) && row[x+run] == row[x] {
				run++
			}
			style := lipgloss.NewStyle().Foreground(hex(row[x].Top)).Background(hex(row[x].Bottom))
			b.WriteString(style.Render(strings.Repeat(halfBlock, run)))
			x += run
		}
		if y < c.Rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
