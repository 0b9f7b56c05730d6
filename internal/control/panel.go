package control

import (
	"github.com/san-kum/wavesim/internal/dynamo"
	"github.com/san-kum/wavesim/internal/palette"
	"github.com/san-kum/wavesim/internal/sim"
)

const (
	coarseSteps = 20
	fineSteps   = 200
)

type Slider struct {
	Name  string
	Bound dynamo.Bound
}

// Ratio maps v into [0,1] across the slider's range.
func (s Slider) Ratio(v float64) float64 {
	span := s.Bound.Max - s.Bound.Min
	if span <= 0 {
		return 0
	}
	return min(1, max(0, (v-s.Bound.Min)/span))
}

func (s Slider) Value(ratio float64) float64 {
	ratio = min(1, max(0, ratio))
	return s.Bound.Min + ratio*(s.Bound.Max-s.Bound.Min)
}

// Nudge moves v one step in direction dir, clamped to the range.
func (s Slider) Nudge(v float64, dir int, fine bool) float64 {
	n := coarseSteps
	if fine {
		n = fineSteps
	}
	step := (s.Bound.Max - s.Bound.Min) / float64(n)
	return s.Bound.Clamp(v + float64(dir)*step)
}

type Panel struct {
	Sliders  []Slider
	Selected int
}

// NewPanel builds a slider for every name that has bounds, in order.
func NewPanel(names []string) *Panel {
	p := &Panel{}
	for _, name := range names {
		if b, ok := dynamo.Bounds[name]; ok {
			p.Sliders = append(p.Sliders, Slider{Name: name, Bound: b})
		}
	}
	return p
}

func (p *Panel) Current() (Slider, bool) {
	if len(p.Sliders) == 0 {
		return Slider{}, false
	}
	return p.Sliders[p.Selected], true
}

func (p *Panel) Next() {
	if len(p.Sliders) > 0 {
		p.Selected = (p.Selected + 1) % len(p.Sliders)
	}
}

func (p *Panel) Prev() {
	if len(p.Sliders) > 0 {
		p.Selected = (p.Selected - 1 + len(p.Sliders)) % len(p.Sliders)
	}
}

// Drag sets slider i from a pointer position expressed as a ratio.
func (p *Panel) Drag(i int, ratio float64) (sim.Command, bool) {
	if i < 0 || i >= len(p.Sliders) {
		return sim.Command{}, false
	}
	p.Selected = i
	s := p.Sliders[i]
	return sim.SetParam(s.Name, s.Value(ratio)), true
}

// Command resolves an action against the current parameter values. Actions
// that only change panel state, or that the host handles itself, return
// false.
func (p *Panel) Command(a Action, params map[string]float64, paletteName string, fine bool) (sim.Command, bool) {
	switch a {
	case ActionPause:
		return sim.TogglePause(), true
	case ActionReset:
		return sim.Reset(), true
	case ActionMeasure:
		return sim.Measure(), true
	case ActionPalette:
		return sim.SetPalette(palette.Next(paletteName)), true
	case ActionNextParam:
		p.Next()
	case ActionPrevParam:
		p.Prev()
	case ActionIncrease, ActionDecrease:
		s, ok := p.Current()
		if !ok {
			return sim.Command{}, false
		}
		dir := 1
		if a == ActionDecrease {
			dir = -1
		}
		return sim.SetParam(s.Name, s.Nudge(params[s.Name], dir, fine)), true
	}
	return sim.Command{}, false
}
