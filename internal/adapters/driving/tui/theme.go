package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for the chat UI.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary: lipgloss.Color("#06B6D4"), // Cyan
		Muted:   lipgloss.Color("#6C7086"), // Medium gray
		Error:   lipgloss.Color("#F38BA8"), // Red
		Border:  lipgloss.Color("#45475A"), // Border gray
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	// Title style for the header line.
	Title lipgloss.Style

	// User style for the user's own messages.
	User lipgloss.Style

	// Assistant style for assistant replies.
	Assistant lipgloss.Style

	// Error style for error messages.
	Error lipgloss.Style

	// Help style for the footer hint.
	Help lipgloss.Style

	// InputField style for the input area.
	InputField lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Padding(0, 1),
		User: lipgloss.NewStyle().
			Foreground(theme.Primary),
		Assistant: lipgloss.NewStyle(),
		Error: lipgloss.NewStyle().
			Foreground(theme.Error),
		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),
		InputField: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
	}
}

// DefaultStyles returns styles built from the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}
