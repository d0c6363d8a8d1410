package viz

import "github.com/charmbracelet/lipgloss"

// Styles are the lipgloss styles of one theme.
type Styles struct {
	Header lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Muted  lipgloss.Style
	Good   lipgloss.Style
	Bad    lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		Label: lipgloss.NewStyle().Foreground(t.Text).Width(16),
		Value: lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Width(14).Align(lipgloss.Right),
		Muted: lipgloss.NewStyle().Foreground(t.Muted).Width(14).Align(lipgloss.Right),
		Good:  lipgloss.NewStyle().Foreground(t.Success).Width(16),
		Bad:   lipgloss.NewStyle().Foreground(t.Error).Bold(true),
	}
}
