package control

import "image"

// Layout stacks slider tracks vertically starting at Origin.
type Layout struct {
	Origin image.Point
	Width  int
	Height int
	Gap    int
}

func DefaultLayout(x, y int) Layout {
	return Layout{Origin: image.Pt(x, y), Width: 220, Height: 10, Gap: 34}
}

// Track returns the clickable track of slider i.
func (l Layout) Track(i int) image.Rectangle {
	y := l.Origin.Y + i*l.Gap
	return image.Rect(l.Origin.X, y, l.Origin.X+l.Width, y+l.Height)
}

// Hit finds the slider under (x, y) among n and the pointer's position
// along it.
func (l Layout) Hit(x, y, n int) (int, float64, bool) {
	pt := image.Pt(x, y)
	for i := 0; i < n; i++ {
		r := l.Track(i)
		// Pad vertically so thin tracks are easy to grab.
		if pt.In(image.Rect(r.Min.X, r.Min.Y-4, r.Max.X+1, r.Max.Y+4)) {
			return i, float64(x-r.Min.X) / float64(l.Width), true
		}
	}
	return 0, 0, false
}
