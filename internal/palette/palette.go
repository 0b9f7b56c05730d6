// Package palette maps field amplitudes to colours.
//
// Mapping is two pure stages: amplitude to intensity (clamp |a|/saturation
// to [0,1], then gamma), and intensity to RGB through a 256-entry table
// built once per palette.
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

var ErrUnknown = errors.New("palette: unknown palette")

const lutSize = 256

type Palette struct {
	Name       string
	Saturation float64
	Gamma      float64
	lut        [lutSize]color.RGBA
}

// ramp maps t in [0,1] to a colour.
type ramp func(t float64) colorful.Color

var order = []string{"ember", "gray", "viridis", "ocean", "ice", "spectrum"}

var ramps = map[string]ramp{
	"ember": func(t float64) colorful.Color {
		return colorful.Color{R: t, G: 0.2 * t, B: 0}
	},
	"gray": func(t float64) colorful.Color {
		return colorful.Color{R: t, G: t, B: t}
	},
	"viridis": gradient(colorful.Color.BlendLab, "#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"),
	"ocean":   gradient(colorful.Color.BlendLab, "#000000", "#08306b", "#2171b5", "#6baed6", "#f7fbff"),
	"ice":     gradient(colorful.Color.BlendLuv, "#000000", "#0b1d3a", "#1f6f9f", "#6fd3ff", "#ffffff"),
	"spectrum": func(t float64) colorful.Color {
		return colorful.Hsv(240*(1-t), 1, t)
	},
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// gradient spaces the stops evenly over [0,1] and blends neighbours.
func gradient(blend func(colorful.Color, colorful.Color, float64) colorful.Color, hexes ...string) ramp {
	stops := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		stops[i] = mustHex(h)
	}
	return func(t float64) colorful.Color {
		if t <= 0 {
			return stops[0]
		}
		if t >= 1 {
			return stops[len(stops)-1]
		}
		pos := t * float64(len(stops)-1)
		i := int(pos)
		return blend(stops[i], stops[i+1], pos-float64(i))
	}
}

// New builds a palette. Saturation is the magnitude that maps to the last
// colour; gamma shapes intensity below it.
func New(name string, saturation, gamma float64) (*Palette, error) {
	r, ok := ramps[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknown)
	}
	if saturation <= 0 || gamma <= 0 {
		return nil, fmt.Errorf("palette %q: saturation=%g gamma=%g must be positive", name, saturation, gamma)
	}
	p := &Palette{Name: name, Saturation: saturation, Gamma: gamma}
	for i := range p.lut {
		cr, cg, cb := r(float64(i) / (lutSize - 1)).Clamped().RGB255()
		p.lut[i] = color.RGBA{R: cr, G: cg, B: cb, A: 255}
	}
	return p, nil
}

// Intensity returns clamp(|a|/saturation, 0, 1)^gamma.
func (p *Palette) Intensity(a float64) float64 {
	v := math.Abs(a) / p.Saturation
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 1
	}
	return math.Pow(v, p.Gamma)
}

// Index returns the table slot for amplitude a.
func (p *Palette) Index(a float64) int {
	return int(p.Intensity(a) * (lutSize - 1))
}

func (p *Palette) Color(a float64) color.RGBA {
	return p.lut[p.Index(a)]
}

// WithName returns a palette with the same scaling and a different ramp.
func (p *Palette) WithName(name string) (*Palette, error) {
	return New(name, p.Saturation, p.Gamma)
}

func Names() []string {
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// Next cycles through Names, starting over after the last one.
func Next(name string) string {
	for i, n := range order {
		if n == name {
			return order[(i+1)%len(order)]
		}
	}
	return order[0]
}

func Exists(name string) bool {
	_, ok := ramps[name]
	return ok
}

// Sorted returns palette names in lexical order, for help text.
func Sorted() []string {
	out := Names()
	sort.Strings(out)
	return out
}

// Colors returns the lookup table as an image palette, so Index values can
// be written straight into paletted images.
func (p *Palette) Colors() color.Palette {
	out := make(color.Palette, lutSize)
	for i, c := range p.lut {
		out[i] = c
	}
	return out
}
