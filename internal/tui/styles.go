package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorPrimary   = "#E8634A"
	colorSuccess   = "#04B575"
	colorError     = "#FF4D4D"
	colorInfo      = "#626262"
	colorHighlight = "#FAFAFA"
	colorBorder    = "#F2A541"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorPrimary)).
			MarginTop(1).
			MarginBottom(1)

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorSuccess))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorError))

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorInfo))

	CaptionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorBorder)).
			Padding(1, 2).
			Width(60).
			Align(lipgloss.Center)

	ActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorHighlight)).
			Background(lipgloss.Color(colorPrimary)).
			Padding(0, 1)
)
