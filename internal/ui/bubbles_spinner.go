package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SpinnerFrames reuses the CLI spinner's braille frames for Bubble Tea
// programs so both surfaces animate the same way.
var SpinnerFrames = spinner.Spinner{
	Frames: spinnerFrames,
	FPS:    time.Second / 12,
}

// SpinnerComponent is a busy indicator meant to be embedded in a larger
// model, e.g. while a Wi-Fi scan is in flight. It renders nothing when idle.
type SpinnerComponent struct {
	spinner spinner.Model
	Label   string
	active  bool
}

// NewSpinnerComponent creates an idle spinner component.
func NewSpinnerComponent(label string) SpinnerComponent {
	sp := spinner.New()
	sp.Spinner = SpinnerFrames
	sp.Style = lipgloss.NewStyle().Foreground(ColorNeonCyan)
	return SpinnerComponent{spinner: sp, Label: label}
}

// Start activates the spinner and returns its first tick.
func (s *SpinnerComponent) Start() tea.Cmd {
	s.active = true
	return s.spinner.Tick
}

// Stop deactivates the spinner. Pending ticks are dropped by Update.
func (s *SpinnerComponent) Stop() {
	s.active = false
}

// Active reports whether the spinner is animating.
func (s SpinnerComponent) Active() bool {
	return s.active
}

// Update advances the animation. Ticks that arrive while idle are consumed
// without scheduling another, which ends the tick chain.
func (s SpinnerComponent) Update(msg tea.Msg) (SpinnerComponent, tea.Cmd) {
	tick, ok := msg.(spinner.TickMsg)
	if !ok || !s.active {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(tick)
	return s, cmd
}

// View renders the spinner and label, or "" when idle.
func (s SpinnerComponent) View() string {
	if !s.active {
		return ""
	}
	return s.spinner.View() + " " + s.Label + "..."
}
