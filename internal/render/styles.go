package render

import "github.com/charmbracelet/lipgloss"

// Styles holds the modern renderer's lipgloss styles, mirroring the
// teacher's internal/tui/styles.go palette.
type Styles struct {
	Title  lipgloss.Style
	Subtle lipgloss.Style
	Up     lipgloss.Style
	Down   lipgloss.Style
	Error  lipgloss.Style
}

// DefaultStyles returns the modern renderer's default style set.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1),

		Subtle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		Up: lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")),

		Down: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),
	}
}
