package ui

import "github.com/charmbracelet/lipgloss"

const (
	colorAccent = lipgloss.Color("#2EC4B6")
	colorSoft   = lipgloss.Color("#CBF3F0")
	colorMuted  = lipgloss.Color("#6B7280")
	colorError  = lipgloss.Color("#FF4757")
	colorWhite  = lipgloss.Color("#FFFFFF")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			MarginTop(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginBottom(1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(16)

	ValueStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Bold(true)

	OnStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	OffStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(colorSoft).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(colorSoft)

	HelpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2)
)
