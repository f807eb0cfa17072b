package fancy

import (
	"github.com/charmbracelet/lipgloss"
)

// Common styles that can be used across the application
var (
	RootStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Italic(true)

	BranchStyle = lipgloss.NewStyle().
			Foreground(ColorDarkGray)

	ComponentStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	DocumentStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	ActiveStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	KeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)
)

// DocumentText styles a document name
func DocumentText(text string) string {
	return DocumentStyle.Render(text)
}

// KeyText styles a database key
func KeyText(text string) string {
	return KeyStyle.Render(text)
}

// ValidText styles valid status text (green)
func ValidText(text string) string {
	return ActiveStyle.Render(text)
}

// ErrorText styles error text (red)
func ErrorText(text string) string {
	return ErrorStyle.Render(text)
}

// PathText styles file paths (gray)
func PathText(text string) string {
	return InfoStyle.Render(text)
}

// CountText styles count numbers (cyan)
func CountText(text string) string {
	return ComponentStyle.Render(text)
}
