package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/netsentinel/netsentinel/internal/backend"
	"github.com/netsentinel/netsentinel/internal/ui"
)

// OverlayState is what the overlay badge shows: the latest push event merged
// with the current settings.
type OverlayState struct {
	Ping      float64
	Quality   backend.QualityLabel
	Bandwidth backend.Bandwidth
	Enabled   bool
	Position  backend.OverlayPosition
}

// MergeOverlay derives the overlay state from the latest event (nil when no
// event has arrived) and the current settings. The badge is enabled when
// either side enables it; the position always comes from settings because
// events don't carry one.
func MergeOverlay(ev *backend.OverlayEvent, s backend.Settings) OverlayState {
	st := OverlayState{
		Quality:  backend.QualityUnknown,
		Enabled:  s.OverlayEnabled(),
		Position: s.OverlayPosition(),
	}
	if ev == nil {
		return st
	}
	st.Ping = ev.Ping
	if ev.Quality != "" {
		st.Quality = ev.Quality
	}
	st.Bandwidth = ev.Bandwidth
	st.Enabled = ev.Enabled || st.Enabled
	return st
}

// RenderOverlay renders the badge, or "" when the overlay is disabled.
func RenderOverlay(st OverlayState, unit backend.SpeedUnit) string {
	if !st.Enabled {
		return ""
	}

	color := ui.QualityColor(st.Quality)
	ping := "--"
	if st.Ping > 0 {
		ping = fmt.Sprintf("%.0f", st.Ping)
	}
	content := lipgloss.NewStyle().Foreground(color).Render("◉") + " " + ping + "ms"
	if st.Bandwidth.Download > 0 || st.Bandwidth.Upload > 0 {
		content += MutedStyle.Render(fmt.Sprintf("  ↓%s ↑%s",
			ui.FormatSpeed(st.Bandwidth.Download, unit),
			ui.FormatSpeed(st.Bandwidth.Upload, unit)))
	}
	return overlayStyle(color).Render(content)
}

// placeOverlay stacks badge above or below body, aligned to the position's
// side. An empty badge leaves body untouched.
func placeOverlay(body, badge string, pos backend.OverlayPosition, width int) string {
	if badge == "" {
		return body
	}

	align := lipgloss.Right
	if pos == backend.OverlayTopLeft || pos == backend.OverlayBottomLeft {
		align = lipgloss.Left
	}
	if width < lipgloss.Width(badge) {
		width = lipgloss.Width(badge)
	}
	placed := lipgloss.PlaceHorizontal(width, align, badge)

	if pos == backend.OverlayBottomLeft || pos == backend.OverlayBottomRight {
		return strings.TrimRight(body, "\n") + "\n" + placed
	}
	return placed + "\n" + body
}
