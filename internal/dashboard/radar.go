package dashboard

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/netsentinel/netsentinel/internal/backend"
	"github.com/netsentinel/netsentinel/internal/ui"
)

// Radar timing and layout.
const (
	DefaultRadarTick = 250 * time.Millisecond
	// SweepStep is how far the sweep advances per tick, in degrees.
	SweepStep = 20
	// MaxNetworks is how many scan results are listed.
	MaxNetworks = 6

	radarRadius = 5
)

// radar is the Wi-Fi panel: a sweep animation that runs only while the
// panel is visible, and a manually triggered scan.
//
// The sweep is a tea.Tick chain. Each tick carries the generation it was
// armed with; hiding the panel bumps the generation so the pending tick is
// dropped when it fires and the chain ends there.
type radar struct {
	visible  bool
	angle    int
	gen      int
	tick     time.Duration
	scanning bool
	result   *backend.WifiScanResult
	spinner  ui.SpinnerComponent
}

func newRadar(tick time.Duration) radar {
	if tick <= 0 {
		tick = DefaultRadarTick
	}
	return radar{tick: tick, spinner: ui.NewSpinnerComponent("Scanning")}
}

// Toggle shows or hides the radar. Showing it arms the sweep.
func (r *radar) Toggle() tea.Cmd {
	if r.visible {
		r.Hide()
		return nil
	}
	r.visible = true
	r.gen++
	return r.schedule()
}

// Hide disarms the sweep. The angle is kept so reopening resumes from it.
func (r *radar) Hide() {
	if !r.visible {
		return
	}
	r.visible = false
	r.gen++
}

func (r *radar) schedule() tea.Cmd {
	gen := r.gen
	return tea.Tick(r.tick, func(time.Time) tea.Msg {
		return radarTickMsg{gen: gen}
	})
}

// onTick advances the sweep and re-arms the timer. Stale ticks end the chain.
func (r *radar) onTick(msg radarTickMsg) tea.Cmd {
	if !r.visible || msg.gen != r.gen {
		return nil
	}
	r.angle = (r.angle + SweepStep) % 360
	return r.schedule()
}

// beginScan marks a scan in flight. It reports false when one already is.
func (r *radar) beginScan() (bool, tea.Cmd) {
	if r.scanning {
		return false, nil
	}
	r.scanning = true
	return true, r.spinner.Start()
}

// finishScan replaces the previous result wholesale. A transport error is
// stored as a result carrying only the error.
func (r *radar) finishScan(msg scanMsg) {
	r.scanning = false
	r.spinner.Stop()
	if msg.err != nil {
		r.result = &backend.WifiScanResult{Error: msg.err.Error()}
		return
	}
	res := msg.result
	r.result = &res
}

// sweepGrid draws a circle of the given radius with the sweep line at
// angle degrees, 0 pointing up and increasing clockwise. Columns are
// doubled to compensate for the cell aspect ratio.
func sweepGrid(angle, radius int) []string {
	size := radius*2 + 1
	grid := make([][]rune, size)
	for y := range grid {
		grid[y] = make([]rune, size*2)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			d := math.Hypot(float64(x), float64(y))
			if math.Abs(d-float64(radius)) < 0.5 {
				grid[y+radius][(x+radius)*2] = '·'
			}
		}
	}

	rad := float64(angle) * math.Pi / 180
	for step := 1; step <= radius*2; step++ {
		f := float64(step) / 2
		if f >= float64(radius) {
			break
		}
		x := int(math.Round(f * math.Sin(rad)))
		y := int(math.Round(-f * math.Cos(rad)))
		grid[y+radius][(x+radius)*2] = '•'
	}
	grid[radius][radius*2] = '◉'

	lines := make([]string, size)
	for i, row := range grid {
		lines[i] = strings.TrimRight(string(row), " ")
	}
	return lines
}

func congestionColor(level string) lipgloss.Color {
	switch strings.ToLower(level) {
	case "low":
		return ui.ColorSuccess
	case "medium":
		return ui.ColorWarning
	case "high":
		return ui.ColorError
	}
	return ui.ColorMuted
}

func renderNetwork(n backend.WifiNetwork) string {
	ssid := n.SSID
	if ssid == "" {
		ssid = "(hidden)"
	}
	return fmt.Sprintf("%s %s %s ch %-3d %s %s %s",
		ValueStyle.Render(fmt.Sprintf("%-18s", truncate(ssid, 18))),
		ui.RenderBar(float64(n.Signal), 8, ui.ColorNeonCyan),
		LabelStyle.Render(fmt.Sprintf("%-6s", n.Band)),
		n.Channel,
		MutedStyle.Render(fmt.Sprintf("%-5s", n.Security)),
		LabelStyle.Render(fmt.Sprintf("~%.0fms", n.EstimatedLatencyMS)),
		lipgloss.NewStyle().Foreground(congestionColor(n.Congestion)).Render(n.Congestion),
	)
}

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// resultLines renders the scan result: the error alone when present,
// otherwise up to MaxNetworks rows and the suggested channel.
func (r radar) resultLines() []string {
	if r.result == nil {
		return []string{MutedStyle.Render("Press n to scan for networks.")}
	}
	if r.result.Error != "" {
		return []string{ui.ErrorStyle().Render(ui.SymbolFail + " " + r.result.Error)}
	}

	var lines []string
	nets := r.result.Networks
	if len(nets) > MaxNetworks {
		nets = nets[:MaxNetworks]
	}
	for _, n := range nets {
		lines = append(lines, renderNetwork(n))
	}
	if r.result.BestChannel != nil {
		lines = append(lines, ui.SuccessStyle().Render(fmt.Sprintf("Suggested channel: %d", *r.result.BestChannel)))
	}
	if len(lines) == 0 {
		lines = append(lines, MutedStyle.Render("No networks found."))
	}
	return lines
}

// View renders the radar section, or "" when hidden.
func (r radar) View() string {
	if !r.visible {
		return ""
	}

	var b strings.Builder
	b.WriteString(SectionTitleStyle.Render("Wi-Fi Radar"))
	b.WriteString("\n")

	sweep := lipgloss.NewStyle().Foreground(ui.ColorNeonGreen).
		Render(strings.Join(sweepGrid(r.angle, radarRadius), "\n"))

	var side []string
	if r.scanning {
		side = append(side, r.spinner.View())
	}
	side = append(side, r.resultLines()...)

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, sweep, "  ", strings.Join(side, "\n")))
	return b.String()
}
