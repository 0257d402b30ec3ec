// Package tui renders trainer state in the terminal.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	// NumberStyle is the style for the step number
	NumberStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFAA00"))

	// ComboStyle is the style for the current combination
	ComboStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))

	// LinkStyle is the style for reference links
	LinkStyle = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("#0099FF"))

	// DimStyle is the style for dimmed text
	DimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

	// ErrorStyle is the style for error messages
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))

	// BoldStyle is the style for bold text
	BoldStyle = lipgloss.NewStyle().Bold(true)

	// CardStyle frames the current combination
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FFAA00")).
			Padding(0, 2)
)
