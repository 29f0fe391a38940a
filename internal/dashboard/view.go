package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/netsentinel/netsentinel/internal/backend"
	"github.com/netsentinel/netsentinel/internal/ui"
)

// notAvailable stands in for absent connection facts.
const notAvailable = "N/A"

// Counters from network_stats rendered as byte sizes.
var byteCounters = []struct {
	key   string
	label string
}{
	{"bytes_recv", "Received"},
	{"bytes_sent", "Sent"},
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch m.router.Active() {
	case PanelHistory:
		b.WriteString(m.historyView.View())
	case PanelSettings:
		b.WriteString(m.settingsPanel.View(m.store.Snapshot(), m.store.Loaded()))
	default:
		b.WriteString(m.renderStatusPanel())
	}

	if toasts := m.renderToasts(); toasts != "" {
		b.WriteString("\n\n")
		b.WriteString(toasts)
	}

	b.WriteString("\n\n")
	b.WriteString(FooterStyle.Render(m.help.View(m.keys)))

	snap := m.store.Snapshot()
	return placeOverlay(b.String(), RenderOverlay(m.Overlay(), snap.SpeedUnit()), snap.OverlayPosition(), m.width)
}

func (m Model) renderHeader() string {
	title := TitleStyle.Render("netsentinel")

	state := MonitoringOffStyle.Render(ui.SymbolPending + " idle")
	switch {
	case m.startPending:
		state = MonitoringOffStyle.Render(ui.SymbolProgress + " starting")
	case m.stopPending:
		state = MonitoringOffStyle.Render(ui.SymbolProgress + " stopping")
	case m.monitoring:
		state = MonitoringOnStyle.Render(ui.SymbolComplete + " monitoring")
	}

	updated := "waiting for backend"
	if !m.lastUpdate.IsZero() {
		updated = "updated " + humanize.Time(m.lastUpdate)
	}

	parts := []string{title, state, MutedStyle.Render(updated)}
	if m.pushClosed {
		parts = append(parts, ui.WarningStyle().Render(ui.SymbolWarning+" push offline"))
	}
	if m.router.Active() != PanelStatus {
		parts = append(parts, LabelStyle.Render(m.router.Active().String()))
	}
	return HeaderStyle.Render(strings.Join(parts, "  "))
}

// DisplayLatency picks the header latency: the live sample when there is
// one, else the status average.
func DisplayLatency(s backend.NetworkStatus, livePing float64) float64 {
	if livePing > 0 {
		return livePing
	}
	return s.Quality.AvgLatency
}

// RenderStatusHeader renders the quality box: label and score in the
// quality color, plus the latency.
func RenderStatusHeader(s backend.NetworkStatus, livePing float64) string {
	color := ui.QualityColor(s.Quality.Label)
	label := ui.QualityStyle(s.Quality.Label).Render(s.Quality.Label.Display())
	score := ui.RenderScore(s.Quality.Score, 20, color)
	latency := BigNumberStyle.Render(formatLatency(DisplayLatency(s, livePing)))

	left := lipgloss.JoinVertical(lipgloss.Left, label, score)
	return PanelStyle.BorderForeground(color).Render(
		lipgloss.JoinHorizontal(lipgloss.Center, left, "    ", latency))
}

// StatusDetails returns the detail grid rows for a status snapshot.
func StatusDetails(s backend.NetworkStatus, unit backend.SpeedUnit) []ui.KVRow {
	rows := []ui.KVRow{
		{Key: "Packet Loss", Value: fmt.Sprintf("%.1f%%", s.Quality.AvgPacketLoss)},
		{Key: "Data Points", Value: fmt.Sprintf("%d", s.DataPoints)},
	}
	if s.Quality.Jitter != nil {
		rows = append(rows, ui.KVRow{Key: "Jitter", Value: fmt.Sprintf("%.1fms", *s.Quality.Jitter)})
	}
	if s.Bandwidth != nil {
		rows = append(rows,
			ui.KVRow{Key: "Download", Value: ui.FormatSpeed(s.Bandwidth.Download, unit)},
			ui.KVRow{Key: "Upload", Value: ui.FormatSpeed(s.Bandwidth.Upload, unit)},
		)
	}
	if d := s.DNSStatus; d != nil {
		if d.Success {
			rows = append(rows, ui.KVRow{Key: "DNS", Value: fmt.Sprintf("%.1fms via %s", d.ResolutionTime, d.DNSServer), Color: ui.ColorSuccess})
		} else {
			msg := d.Error
			if msg == "" {
				msg = "failing"
			}
			rows = append(rows, ui.KVRow{Key: "DNS", Value: msg, Color: ui.ColorError})
		}
	}
	for _, c := range byteCounters {
		if n, ok := s.StatCounter(c.key); ok {
			rows = append(rows, ui.KVRow{Key: c.label, Value: humanize.Bytes(n)})
		}
	}
	return rows
}

// ConnectionDetails returns the connection info rows, "N/A" where absent.
func ConnectionDetails(info *backend.ConnectionInfo, publicAddr string) []ui.KVRow {
	var c backend.ConnectionInfo
	if info != nil {
		c = *info
	}
	orNA := func(s string) string {
		if s == "" {
			return notAvailable
		}
		return s
	}
	rows := []ui.KVRow{
		{Key: "Local IP", Value: orNA(c.LocalIP)},
		{Key: "Hostname", Value: orNA(c.Hostname)},
		{Key: "Type", Value: orNA(c.ConnectionType)},
	}
	if publicAddr != "" {
		rows = append(rows, ui.KVRow{Key: "Public", Value: publicAddr})
	}
	return rows
}

func (m Model) renderStatusPanel() string {
	if m.status == nil {
		return MutedStyle.Render("Connecting to backend...")
	}
	unit := m.store.Snapshot().SpeedUnit()

	var sections []string
	sections = append(sections, RenderStatusHeader(*m.status, m.livePing))
	sections = append(sections, ui.RenderKV("Details", StatusDetails(*m.status, unit)))

	if m.samples.length() > 0 {
		lo, avg, hi := m.samples.stats()
		spark := ui.RenderSparkline(m.samples.last(sparklineWidth), sparklineWidth)
		sections = append(sections,
			SectionTitleStyle.Render("Live Latency")+"\n"+spark+"\n"+
				MutedStyle.Render(fmt.Sprintf("min %.0fms  avg %.0fms  max %.0fms", lo, avg, hi)))
	}

	sections = append(sections, ui.RenderKV("Connection", ConnectionDetails(m.connInfo, m.publicAddr)))

	if r := m.radar.View(); r != "" {
		sections = append(sections, r)
	}
	return strings.Join(sections, "\n")
}

func (m Model) renderToasts() string {
	items := m.toasts.Items()
	if len(items) == 0 {
		return ""
	}
	var out []string
	for _, t := range items {
		out = append(out, toastStyle(t.Kind).Render(ValueStyle.Render(t.Title)+"\n"+t.Body))
	}
	return strings.Join(out, "\n")
}

var helpBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ui.ColorNeonPurple).
	Padding(1, 2)

func (m Model) renderHelpOverlay() string {
	h := m.help
	h.ShowAll = true
	box := helpBoxStyle.Render(TitleStyle.Render("Keyboard Shortcuts") + "\n\n" + h.View(m.keys))
	if m.width <= 0 || m.height <= 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
