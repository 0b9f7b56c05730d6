package render

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"os"

	"github.com/san-kum/wavesim/internal/dynamo"
	"github.com/san-kum/wavesim/internal/palette"
)

// Recorder collects paletted frames for an animated GIF. Frames index the
// palette's lookup table directly, so no quantisation happens.
type Recorder struct {
	pal       *palette.Palette
	colors    color.Palette
	scale     int
	delay     int
	maxFrames int
	frames    []*image.Paletted
}

// NewRecorder records at most maxFrames frames (0 means unlimited). delay
// is in hundredths of a second.
func NewRecorder(p *palette.Palette, scale, delay, maxFrames int) *Recorder {
	if scale < 1 {
		scale = 1
	}
	return &Recorder{pal: p, colors: p.Colors(), scale: scale, delay: delay, maxFrames: maxFrames}
}

func (r *Recorder) Len() int { return len(r.frames) }

func (r *Recorder) Full() bool {
	return r.maxFrames > 0 && len(r.frames) >= r.maxFrames
}

// Capture appends the current field as a frame. It reports false once the
// recorder is full.
func (r *Recorder) Capture(f dynamo.Field) bool {
	if r.Full() {
		return false
	}
	w, h := f.Dims()
	s := r.scale
	img := image.NewPaletted(image.Rect(0, 0, w*s, h*s), r.colors)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := uint8(r.pal.Index(f.Magnitude(x, y)))
			for dy := 0; dy < s; dy++ {
				off := img.PixOffset(x*s, y*s+dy)
				for dx := 0; dx < s; dx++ {
					img.Pix[off+dx] = idx
				}
			}
		}
	}
	r.frames = append(r.frames, img)
	return true
}

func (r *Recorder) Encode(w io.Writer) error {
	if len(r.frames) == 0 {
		return fmt.Errorf("render: no frames recorded")
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.delay)
	}
	return gif.EncodeAll(w, &anim)
}

func (r *Recorder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (r *Recorder) Reset() { r.frames = r.frames[:0] }

// SavePNG writes img to path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
