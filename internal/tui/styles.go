package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Header style for titles and section headers
	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	// Label style for summary labels
	StyleLabel = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// Muted style for secondary text
	StyleMuted = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StyleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSubtle).
			Padding(1, 2)
)

const logoASCII = `
 _                                 _ _
| | ___  _ __   __ _ ___  ___ _ __(_) |__   ___
| |/ _ \| '_ \ / _' / __|/ __| '__| | '_ \ / _ \
| | (_) | | | | (_| \__ \ (__| |  | | |_) |  __/
|_|\___/|_| |_|\__, |___/\___|_|  |_|_.__/ \___|
               |___/`

// Logo returns the longscribe ASCII art
func Logo() string {
	return StyleHeader.Render(strings.Trim(logoASCII, "\n"))
}
