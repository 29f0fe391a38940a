package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/netsentinel/netsentinel/internal/backend"
)

// Quality colors. These are fixed regardless of the terminal theme so the
// overlay, header, chart and history rows always agree.
const (
	ColorQualityExcellent    lipgloss.Color = "#4CAF50"
	ColorQualityGood         lipgloss.Color = "#8BC34A"
	ColorQualityFair         lipgloss.Color = "#FF9800"
	ColorQualityPoor         lipgloss.Color = "#F44336"
	ColorQualityDisconnected lipgloss.Color = "#666666"
	ColorQualityUnknown      lipgloss.Color = "#9E9E9E"
)

var qualityColors = map[backend.QualityLabel]lipgloss.Color{
	backend.QualityExcellent:    ColorQualityExcellent,
	backend.QualityGood:         ColorQualityGood,
	backend.QualityFair:         ColorQualityFair,
	backend.QualityPoor:         ColorQualityPoor,
	backend.QualityDisconnected: ColorQualityDisconnected,
}

// QualityColor maps a backend quality label to its display color. Labels the
// table doesn't know, including the empty label, map to neutral gray.
func QualityColor(label backend.QualityLabel) lipgloss.Color {
	if c, ok := qualityColors[label]; ok {
		return c
	}
	return ColorQualityUnknown
}

// QualityStyle returns a bold foreground style in the label's color.
func QualityStyle(label backend.QualityLabel) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(QualityColor(label)).Bold(true)
}
