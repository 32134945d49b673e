package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorText      = "#FFFFFF"
	colorSecondary = "#808080"
	colorAccent    = "#5C7CFA"
	colorSuccess   = "#51CF66"
	colorError     = "#FF6B6B"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorAccent))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorSecondary))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorSuccess))

	disabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorSecondary)).
			Faint(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorError))

	tileStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorAccent)).
			Foreground(lipgloss.Color(colorText)).
			Padding(0, 1)

	failedTileStyle = tileStyle.
			BorderForeground(lipgloss.Color(colorError)).
			Foreground(lipgloss.Color(colorError))
)
