package viz

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/wavesim/internal/config"
)

var ErrNoSelection = errors.New("viz: no preset selected")

var presetInfo = map[string]string{
	"classic":       "velocity scheme, two narrow slits",
	"narrow":        "slits close together, wide fringes",
	"wide":          "slits far apart, tight fringes",
	"leapfrog":      "three-level scheme",
	"big":           "320x240 grid",
	"quantum":       "split-step packet, row-only kinetic",
	"quantum-full":  "split-step packet, 2D kinetic",
	"quantum-small": "256x256 split-step, 2D kinetic",
}

type presetItem struct {
	solver, name string
}

type picker struct {
	items    []presetItem
	cursor   int
	chosen   *presetItem
	quitting bool
}

func newPicker() picker {
	var items []presetItem
	for _, solver := range config.Solvers() {
		for _, name := range config.ListPresets(solver) {
			items = append(items, presetItem{solver: solver, name: name})
		}
	}
	return picker{items: items}
}

func (p picker) Init() tea.Cmd { return nil }

func (p picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		p.quitting = true
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.items)-1 {
			p.cursor++
		}
	case "enter", " ":
		item := p.items[p.cursor]
		p.chosen = &item
		return p, tea.Quit
	}
	return p, nil
}

func (p picker) View() string {
	if p.quitting || p.chosen != nil {
		return ""
	}
	st := currentStyles()
	var b strings.Builder
	b.WriteString(st.header.Render("WAVESIM") + "\n")
	lastSolver := ""
	for i, it := range p.items {
		if it.solver != lastSolver {
			b.WriteString("\n" + st.muted.Render(strings.ToUpper(it.solver)) + "\n")
			lastSolver = it.solver
		}
		line := fmt.Sprintf("%-14s %s", it.name, presetInfo[it.name])
		if i == p.cursor {
			b.WriteString(st.active.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + st.value.Render(line) + "\n")
		}
	}
	b.WriteString(st.muted.Render("\n↑/↓ move  enter start  q quit"))
	return b.String()
}

// PickPreset shows the preset menu and returns a copy of the chosen preset
// and its name.
func PickPreset() (*config.Config, string, error) {
	final, err := tea.NewProgram(newPicker()).Run()
	if err != nil {
		return nil, "", err
	}
	p := final.(picker)
	if p.chosen == nil {
		return nil, "", ErrNoSelection
	}
	return config.GetPreset(p.chosen.solver, p.chosen.name), p.chosen.name, nil
}
