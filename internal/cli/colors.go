package cli

import "github.com/charmbracelet/lipgloss"

// Ice colour palette ❄
// Shared with the TUI so CLI output and the browser look alike
var (
	// Core ice colours (deep to pale)
	IceNavy  = lipgloss.Color("#1B3A6B") // Deep water
	IceBlue  = lipgloss.Color("#257AFD") // Glacier blue
	IceFrost = lipgloss.Color("#507AE0") // Waveform stroke
	IceCyan  = lipgloss.Color("#7FDBFF") // Pale cyan

	// Accent colours
	SlateGray = lipgloss.Color("#6B7280") // Subtle text
)
