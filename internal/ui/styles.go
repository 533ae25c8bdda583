package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/linuxmatters/tundra/internal/config"
)

// Ice colour palette
var (
	glacierBlue = lipgloss.Color(config.SelectedColor)
	frostBlue   = lipgloss.Color("#507AE0") // Waveform
	iceCyan     = lipgloss.Color("#7FDBFF") // Gradient end
	snowWhite   = lipgloss.Color("#E6E6E6")
	slateGray   = lipgloss.Color("#6B7280") // Subtle text
	alertRed    = lipgloss.Color("#E5484D")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(glacierBlue)

	dirStyle = lipgloss.NewStyle().
			Foreground(slateGray)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(snowWhite).
			Background(glacierBlue)

	folderStyle = lipgloss.NewStyle().
			Foreground(iceCyan)

	waveStyle = lipgloss.NewStyle().
			Foreground(frostBlue)

	mutedStyle = lipgloss.NewStyle().
			Faint(true)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(alertRed)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(glacierBlue).
			Padding(0, 1)
)
