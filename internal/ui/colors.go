package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Neon accents used for branding and the dashboard chrome.
const (
	ColorNeonPink   lipgloss.Color = "#FF2E88"
	ColorNeonCyan   lipgloss.Color = "#00E5FF"
	ColorNeonPurple lipgloss.Color = "#B388FF"
	ColorNeonGreen  lipgloss.Color = "#39FF14"
	ColorNeonOrange lipgloss.Color = "#FF6D00"
	ColorNeonAmber  lipgloss.Color = "#FFC400"
)

// Surfaces
const (
	ColorDeepVoid    lipgloss.Color = "#0B0B12"
	ColorDarkSurface lipgloss.Color = "#161622"
	ColorGlassBorder lipgloss.Color = "#3A3A55"
)

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = "#4CAF50"
	ColorError   lipgloss.Color = "#F44336"
	ColorWarning lipgloss.Color = "#FF9800"
	ColorInfo    lipgloss.Color = "#29B6F6"
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "#E6E6F0"
	ColorSecondary lipgloss.Color = "#8C8CA8"
	ColorMuted     lipgloss.Color = "#666666"
)

// GradientColors is the pink -> purple -> cyan -> green cycle used by spinners.
var GradientColors = []lipgloss.Color{
	ColorNeonPink,
	ColorNeonPurple,
	ColorNeonCyan,
	ColorNeonGreen,
}

func SuccessStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorSuccess) }
func ErrorStyle() lipgloss.Style   { return lipgloss.NewStyle().Foreground(ColorError) }
func WarningStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorWarning) }
func InfoStyle() lipgloss.Style    { return lipgloss.NewStyle().Foreground(ColorInfo) }
func MutedStyle() lipgloss.Style   { return lipgloss.NewStyle().Foreground(ColorMuted) }

// DisableColors switches lipgloss to plain ASCII output (used for --no-color
// and when NO_COLOR is set).
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// PrintWarning writes a styled warning line to stderr.
func PrintWarning(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", WarningStyle().Render(SymbolWarning), msg)
}
