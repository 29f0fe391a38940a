package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// keyMap holds every binding the dashboard reacts to. It satisfies
// help.KeyMap for the footer and the ? overlay.
type keyMap struct {
	Quit           key.Binding
	Help           key.Binding
	Back           key.Binding
	ToggleHistory  key.Binding
	ToggleSettings key.Binding
	Monitor        key.Binding
	Refresh        key.Binding
	Ping           key.Binding
	DNS            key.Binding
	Radar          key.Binding
	Scan           key.Binding
	ClearHistory   key.Binding
	Overlay        key.Binding

	// Settings panel
	Up       key.Binding
	Down     key.Binding
	Increase key.Binding
	Decrease key.Binding
	Toggle   key.Binding

	// History panel scrolling
	PageUp   key.Binding
	PageDown key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:           key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Back:           key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back to status")),
		ToggleHistory:  key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
		ToggleSettings: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "settings")),
		Monitor:        key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "start/stop monitoring")),
		Refresh:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Ping:           key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "test ping")),
		DNS:            key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "test DNS")),
		Radar:          key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "Wi-Fi radar")),
		Scan:           key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "scan networks")),
		ClearHistory:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear history")),
		Overlay:        key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "toggle overlay")),

		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous setting")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next setting")),
		Increase: key.NewBinding(key.WithKeys("right", "l", "+", "="), key.WithHelp("→/+", "increase / next")),
		Decrease: key.NewBinding(key.WithKeys("left", "-"), key.WithHelp("←/-", "decrease / previous")),
		Toggle:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "toggle")),

		PageUp:   key.NewBinding(key.WithKeys("pgup", "u"), key.WithHelp("pgup", "scroll up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "f"), key.WithHelp("pgdn", "scroll down")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Monitor, k.ToggleHistory, k.ToggleSettings, k.Ping, k.Radar, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Monitor, k.Refresh, k.Ping, k.DNS, k.Overlay},
		{k.ToggleHistory, k.ToggleSettings, k.Back, k.ClearHistory, k.PageUp, k.PageDown},
		{k.Radar, k.Scan, k.Up, k.Down, k.Increase, k.Decrease, k.Toggle},
		{k.Help, k.Quit},
	}
}

// KeyReference lists every binding, one per line, in FullHelp order.
func KeyReference() string {
	var b strings.Builder
	for _, group := range defaultKeyMap().FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-7s %s\n", h.Key, h.Desc)
		}
	}
	return b.String()
}
