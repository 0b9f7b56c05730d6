// Package render paints solver fields onto pixel surfaces.
package render

import (
	"image"
	"image/color"

	"github.com/san-kum/wavesim/internal/dynamo"
	"github.com/san-kum/wavesim/internal/palette"
)

var DefaultBarrierColor = color.RGBA{R: 70, G: 70, B: 80, A: 255}

// Painter writes every field cell as a Scale×Scale block of one colour.
type Painter struct {
	Palette      *palette.Palette
	Scale        int
	ShowBarrier  bool
	BarrierColor color.RGBA
}

func NewPainter(p *palette.Palette, scale int) *Painter {
	if scale < 1 {
		scale = 1
	}
	return &Painter{Palette: p, Scale: scale, BarrierColor: DefaultBarrierColor}
}

func (p *Painter) Size(f dynamo.Field) (int, int) {
	w, h := f.Dims()
	return w * p.Scale, h * p.Scale
}

func (p *Painter) NewImage(f dynamo.Field) *image.RGBA {
	w, h := p.Size(f)
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

// Paint fully repaints dst. dst must be at least Size(f) pixels.
func (p *Painter) Paint(dst *image.RGBA, f dynamo.Field) {
	w, h := f.Dims()
	s := p.Scale
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var c color.RGBA
			if p.ShowBarrier && f.Blocked(x, y) {
				c = p.BarrierColor
			} else {
				c = p.Palette.Color(f.Magnitude(x, y))
			}
			fill(dst, x*s, y*s, s, c)
		}
	}
}

func fill(dst *image.RGBA, x0, y0, s int, c color.RGBA) {
	for dy := 0; dy < s; dy++ {
		off := dst.PixOffset(x0, y0+dy)
		row := dst.Pix[off : off+4*s]
		for i := 0; i < len(row); i += 4 {
			row[i] = c.R
			row[i+1] = c.G
			row[i+2] = c.B
			row[i+3] = c.A
		}
	}
}
