package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Bar block characters.
const (
	BarFilled = '█'
	BarEmpty  = '░'
)

// RenderBar draws a horizontal bar filled to percent (clamped to 0-100) in
// the given color. Filled cells round down, so 99% never reads as full.
func RenderBar(percent float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		return ""
	}
	if percent < 0 || percent != percent {
		percent = 0
	} else if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100 * float64(width))
	bar := strings.Repeat(string(BarFilled), filled)
	empty := strings.Repeat(string(BarEmpty), width-filled)

	return lipgloss.NewStyle().Foreground(color).Render(bar) +
		lipgloss.NewStyle().Foreground(ColorGlassBorder).Render(empty)
}

// RenderScore draws a quality score bar followed by "N/100".
func RenderScore(score, width int, color lipgloss.Color) string {
	return RenderBar(float64(score), width, color) + " " + strconv.Itoa(score) + "/100"
}
