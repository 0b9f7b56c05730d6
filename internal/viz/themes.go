package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the panel around the field; the field itself uses the
// simulation palette.
type Theme struct {
	Name   string
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Border lipgloss.Color
	Alert  lipgloss.Color
}

var (
	ThemeNocturne = Theme{
		Name:   "nocturne",
		Accent: lipgloss.Color("#7dcfff"),
		Text:   lipgloss.Color("#c0caf5"),
		Muted:  lipgloss.Color("#565f89"),
		Border: lipgloss.Color("#3b4261"),
		Alert:  lipgloss.Color("#f7768e"),
	}

	ThemePhosphor = Theme{
		Name:   "phosphor",
		Accent: lipgloss.Color("#33ff66"),
		Text:   lipgloss.Color("#b8ffc8"),
		Muted:  lipgloss.Color("#1f7a3a"),
		Border: lipgloss.Color("#145a28"),
		Alert:  lipgloss.Color("#ffee55"),
	}

	ThemeFurnace = Theme{
		Name:   "furnace",
		Accent: lipgloss.Color("#ff9e3b"),
		Text:   lipgloss.Color("#ffe6cc"),
		Muted:  lipgloss.Color("#8a5a3c"),
		Border: lipgloss.Color("#5c3a24"),
		Alert:  lipgloss.Color("#ff4d4d"),
	}

	ThemeMono = Theme{
		Name:   "mono",
		Accent: lipgloss.Color("#ffffff"),
		Text:   lipgloss.Color("#d0d0d0"),
		Muted:  lipgloss.Color("#808080"),
		Border: lipgloss.Color("#505050"),
		Alert:  lipgloss.Color("#ffffff"),
	}

	CurrentTheme = ThemeNocturne

	Themes = []Theme{ThemeNocturne, ThemePhosphor, ThemeFurnace, ThemeMono}
)

func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNocturne
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
