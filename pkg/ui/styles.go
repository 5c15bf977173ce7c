package ui

import "github.com/charmbracelet/lipgloss"

// Semantic styles shared by the CLI commands. Adaptive colors keep the
// palette readable on both light and dark terminals.
var (
	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#fafafa"})

	Category = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#005f87", Dark: "#5fd7ff"})

	TokenName = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#875f00", Dark: "#ffd75f"})

	Path = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#005f00", Dark: "#87d787"})

	Dim = lipgloss.NewStyle().Faint(true)

	ErrorText = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#af0000", Dark: "#ff5f5f"})
)

// Render applies a style only when the format calls for styled output
func Render(style lipgloss.Style, s string, format Format) string {
	if format != FormatTerminal {
		return s
	}
	return style.Render(s)
}
