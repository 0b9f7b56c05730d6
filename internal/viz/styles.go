package viz

import "github.com/charmbracelet/lipgloss"

// styles are rebuilt from CurrentTheme on every render so theme switches
// apply immediately.
type styles struct {
	panel, header, label, value, active, muted, alert, graph lipgloss.Style
}

func currentStyles() styles {
	t := CurrentTheme
	return styles{
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Border).
			Padding(0, 2).
			Width(44),
		header: lipgloss.NewStyle().Foreground(t.Accent).Bold(true).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:  lipgloss.NewStyle().Foreground(t.Text),
		active: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		muted:  lipgloss.NewStyle().Foreground(t.Muted),
		alert:  lipgloss.NewStyle().Foreground(t.Alert).Bold(true),
		graph:  lipgloss.NewStyle().Foreground(t.Accent),
	}
}
