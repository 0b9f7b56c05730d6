package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/wavesim/internal/viz"
)

// CanvasToSVG draws a half-block canvas as two rects per cell.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Cols) * scale
	height := float64(canvas.Rows) * scale * 2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" shape-rendering="crispEdges">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for row := 0; row < canvas.Rows; row++ {
		for col := 0; col < canvas.Cols; col++ {
			cell := canvas.At(col, row)
			x := float64(col) * scale
			y := float64(row) * scale * 2
			for i, c := range [2]struct{ R, G, B uint8 }{
				{cell.Top.R, cell.Top.G, cell.Top.B},
				{cell.Bottom.R, cell.Bottom.G, cell.Bottom.B},
			} {
				if c.R == 0 && c.G == 0 && c.B == 0 {
					continue
				}
				fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#%02x%02x%02x"/>
`, x, y+float64(i)*scale, scale, scale, c.R, c.G, c.B)
			}
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// ProfileToSVG plots a screen intensity profile as a line, column index on
// x and intensity on y.
func ProfileToSVG(profile []float64, width, height int, strokeColor string) string {
	if len(profile) < 2 {
		return ""
	}

	minY, maxY := profile[0], profile[0]
	for _, v := range profile {
		minY = min(minY, v)
		maxY = max(maxY, v)
	}
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	rangeX := float64(len(profile) - 1)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i, v := range profile {
		x := float64(i) / rangeX * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
