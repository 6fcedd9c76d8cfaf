// Package ui holds the console styles used for messages on stderr.
package ui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	PrimaryColor = lipgloss.Color("205") // Pink
	SuccessColor = lipgloss.Color("82")  // Green
	ErrorColor   = lipgloss.Color("196") // Red
	MutedColor   = lipgloss.Color("245") // Dimmed text
)

// Text styles.
var (
	// WarningStyle is used for skipped-file warnings.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ErrorColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)
)

// Warning renders a warning line.
func Warning(msg string) string {
	return WarningStyle.Render(msg)
}

// Error renders an error line.
func Error(msg string) string {
	return ErrorStyle.Render(msg)
}

// Muted renders secondary information.
func Muted(msg string) string {
	return MutedStyle.Render(msg)
}

// Success renders a confirmation line.
func Success(msg string) string {
	return SuccessStyle.Render(msg)
}

// Title renders a section heading.
func Title(msg string) string {
	return TitleStyle.Render(msg)
}
