// Package display renders recipes and the interactive cooking screen in
// the terminal.
package display

import "github.com/charmbracelet/lipgloss"

// Soft zinc palette.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#e4e4e7"))

	barStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#27272a")).
			Foreground(lipgloss.Color("#a1a1aa"))

	activeBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#18181b")).
			Background(lipgloss.Color("#bbf7d0")).
			Padding(0, 1)

	idleBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#18181b")).
			Background(lipgloss.Color("#71717a")).
			Padding(0, 1)

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	timerRunStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	timerDoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))

	timerReadyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8")).
			Italic(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	urgentStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#fca5a5"))

	// BannerStyle is used for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))
)
