package shell

import (
	"github.com/charmbracelet/lipgloss"

	"jamtrace/internal/config"
)

// Styles is the shell's color scheme.
type Styles struct {
	Prompt  lipgloss.Style
	Title   lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Rebuilt lipgloss.Style
}

// NewStyles builds the scheme for the given color mode. ColorNever yields
// pass-through styles; otherwise lipgloss's terminal detection applies.
func NewStyles(mode config.ColorMode) *Styles {
	if mode == config.ColorNever {
		plain := lipgloss.NewStyle()
		return &Styles{Prompt: plain, Title: plain, Error: plain, Muted: plain, Rebuilt: plain}
	}
	return &Styles{
		Prompt:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Title:   lipgloss.NewStyle().Bold(true),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Rebuilt: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	}
}
