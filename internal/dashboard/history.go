package dashboard

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/netsentinel/netsentinel/internal/backend"
	"github.com/netsentinel/netsentinel/internal/ui"
)

// History projection sizes and scale.
const (
	ChartPoints = 10
	ListPoints  = 6
	// ChartCeilingMS is the latency drawn as a full-height bar.
	ChartCeilingMS = 200.0
	// MinBarPercent keeps zero-latency bars visible.
	MinBarPercent = 5.0
	// chartRows is the chart height in terminal rows.
	chartRows = 8
)

// EmptyHistoryHint is shown when the history buffer is empty.
const EmptyHistoryHint = "No history data yet. Start monitoring to collect data."

// ChartBar is one column of the latency chart.
type ChartBar struct {
	Latency float64
	// Percent is the bar height, always within [MinBarPercent, 100].
	Percent float64
	Quality backend.QualityLabel
}

// ChartBars projects the last ChartPoints entries of points into bars,
// oldest first. points is not modified.
func ChartBars(points []backend.HistoryDataPoint) []ChartBar {
	points = tail(points, ChartPoints)
	bars := make([]ChartBar, len(points))
	for i, p := range points {
		lat := p.Latency()
		if math.IsNaN(lat) || lat < 0 {
			lat = 0
		}
		pct := math.Min(lat/ChartCeilingMS, 1) * 100
		bars[i] = ChartBar{
			Latency: lat,
			Percent: math.Max(pct, MinBarPercent),
			Quality: p.Quality.Label,
		}
	}
	return bars
}

// ListRows returns the last ListPoints entries, newest first, as a new
// slice.
func ListRows(points []backend.HistoryDataPoint) []backend.HistoryDataPoint {
	points = tail(points, ListPoints)
	out := make([]backend.HistoryDataPoint, len(points))
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}

func tail(points []backend.HistoryDataPoint, n int) []backend.HistoryDataPoint {
	if len(points) > n {
		return points[len(points)-n:]
	}
	return points
}

// eighths are partial block glyphs, index = filled eighths of a cell.
var eighths = []string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

// renderChart draws bars as vertical columns rows tall, each bar two cells
// wide with a one-cell gap, colored by quality.
func renderChart(bars []ChartBar, rows int) string {
	if len(bars) == 0 || rows <= 0 {
		return ""
	}

	// Heights in eighths of a cell; at least one eighth so every bar shows.
	heights := make([]int, len(bars))
	for i, b := range bars {
		h := int(math.Round(b.Percent / 100 * float64(rows*8)))
		if h < 1 {
			h = 1
		}
		heights[i] = h
	}

	var lines []string
	for row := rows - 1; row >= 0; row-- {
		var sb strings.Builder
		for i, b := range bars {
			fill := heights[i] - row*8
			switch {
			case fill >= 8:
				fill = 8
			case fill < 0:
				fill = 0
			}
			cell := strings.Repeat(eighths[fill], 2)
			sb.WriteString(lipgloss.NewStyle().Foreground(ui.QualityColor(b.Quality)).Render(cell))
			sb.WriteString(" ")
		}
		lines = append(lines, strings.TrimRight(sb.String(), " "))
	}

	var axis strings.Builder
	for _, b := range bars {
		axis.WriteString(fmt.Sprintf("%-3s", compactMS(b.Latency)))
	}
	lines = append(lines, MutedStyle.Render(strings.TrimRight(axis.String(), " ")))
	return strings.Join(lines, "\n")
}

// compactMS squeezes a latency into at most two characters for the axis.
func compactMS(ms float64) string {
	switch {
	case ms <= 0:
		return "--"
	case ms < 100:
		return fmt.Sprintf("%.0f", ms)
	case ms < 1000:
		return fmt.Sprintf("%.0fh", math.Floor(ms/100))
	default:
		return "1k"
	}
}

// formatLatency renders a latency as "23ms", or "--ms" when absent.
func formatLatency(ms float64) string {
	if ms <= 0 || math.IsNaN(ms) {
		return "--ms"
	}
	return fmt.Sprintf("%.0fms", ms)
}

// renderHistoryRow renders one list entry.
func renderHistoryRow(p backend.HistoryDataPoint, unit backend.SpeedUnit) string {
	stamp := "--:--:--"
	if !p.Timestamp.IsZero() {
		stamp = p.Timestamp.Local().Format("15:04:05")
	}

	label := ui.QualityStyle(p.Quality.Label).Render(fmt.Sprintf("%-12s", p.Quality.Label.Display()))

	jitter := "--"
	if p.Quality.Jitter != nil {
		jitter = fmt.Sprintf("%.1fms", *p.Quality.Jitter)
	}

	bw := "↓-- ↑--"
	if p.Bandwidth != nil {
		bw = fmt.Sprintf("↓%s ↑%s",
			ui.FormatSpeed(p.Bandwidth.Download, unit),
			ui.FormatSpeed(p.Bandwidth.Upload, unit))
	}

	return fmt.Sprintf("%s  %s %s  %s  %s  %s",
		MutedStyle.Render(stamp),
		label,
		ValueStyle.Render(fmt.Sprintf("%6s", formatLatency(p.Latency()))),
		LabelStyle.Render(fmt.Sprintf("%5.1f%% loss", p.Quality.AvgPacketLoss)),
		LabelStyle.Render("jitter "+jitter),
		MutedStyle.Render(bw),
	)
}

// renderHistoryPanel renders the chart and the recent list.
func renderHistoryPanel(points []backend.HistoryDataPoint, unit backend.SpeedUnit, loading bool) string {
	var b strings.Builder
	b.WriteString(SectionTitleStyle.Render("Network History"))
	if loading {
		b.WriteString(MutedStyle.Render("  refreshing..."))
	}
	b.WriteString("\n")

	if len(points) == 0 {
		b.WriteString(MutedStyle.Render(EmptyHistoryHint))
		return b.String()
	}

	b.WriteString(LabelStyle.Render(fmt.Sprintf("Latency Graph (Last %d)", ChartPoints)))
	b.WriteString("\n")
	b.WriteString(renderChart(ChartBars(points), chartRows))
	b.WriteString("\n\n")

	for _, p := range ListRows(points) {
		b.WriteString(renderHistoryRow(p, unit))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
