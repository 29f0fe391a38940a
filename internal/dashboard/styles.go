package dashboard

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/netsentinel/netsentinel/internal/ui"
)

// Layout constants
const (
	// panelWidth is the preferred width of the main panel; narrower
	// terminals shrink it.
	panelWidth = 64
	// sparklineWidth is how many live samples the status sparkline shows.
	sparklineWidth = 40
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ui.ColorPrimary).
			Background(ui.ColorDarkSurface).
			Bold(true).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ui.ColorNeonPink).
			Bold(true)

	SectionTitleStyle = lipgloss.NewStyle().
				Foreground(ui.ColorNeonCyan).
				Bold(true).
				MarginTop(1)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.ColorGlassBorder).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ui.ColorSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ui.ColorPrimary).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ui.ColorMuted)

	BigNumberStyle = lipgloss.NewStyle().
			Foreground(ui.ColorPrimary).
			Bold(true)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(ui.ColorNeonPink).
				Bold(true)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Padding(0, 1)

	MonitoringOnStyle = lipgloss.NewStyle().
				Foreground(ui.ColorSuccess).
				Bold(true)

	MonitoringOffStyle = lipgloss.NewStyle().
				Foreground(ui.ColorMuted)
)

// toastStyle returns the boxed style for a notification of the given kind.
func toastStyle(kind ToastKind) lipgloss.Style {
	color := ui.ColorInfo
	switch kind {
	case ToastSuccess:
		color = ui.ColorSuccess
	case ToastFailure:
		color = ui.ColorError
	}
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(color).
		PaddingLeft(1)
}

// overlayStyle borders the overlay badge in the quality color.
func overlayStyle(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Bold(true)
}
