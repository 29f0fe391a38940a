package dashboard

import (
	"fmt"
	"strings"

	"github.com/netsentinel/netsentinel/internal/backend"
	"github.com/netsentinel/netsentinel/internal/settings"
	"github.com/netsentinel/netsentinel/internal/ui"
)

// settingRows lists the editable keys in display order.
var settingRows = []struct {
	key   string
	label string
}{
	{backend.KeyPingInterval, "Check Interval"},
	{backend.KeyAutoMonitor, "Auto-start Monitoring"},
	{backend.KeySpeedUnit, "Speed Unit"},
	{backend.KeyOverlayEnabled, "Show Overlay"},
	{backend.KeyOverlayPosition, "Overlay Position"},
}

// settingsPanel tracks the cursor; the values themselves live in the store.
type settingsPanel struct {
	cursor int
}

func (p *settingsPanel) up() {
	if p.cursor > 0 {
		p.cursor--
	}
}

func (p *settingsPanel) down() {
	if p.cursor < len(settingRows)-1 {
		p.cursor++
	}
}

func (p settingsPanel) selectedKey() string {
	return settingRows[p.cursor].key
}

// nextValue computes the edit for key given the current settings. dir is
// +1 for increase, -1 for decrease and 0 for toggle. The second return is
// false when the edit doesn't change anything.
func nextValue(s backend.Settings, key string, dir int) (interface{}, bool) {
	switch key {
	case backend.KeyPingInterval:
		cur := s.PingInterval()
		step := float64(settings.PingIntervalStep)
		if dir < 0 {
			step = -step
		} else if dir == 0 {
			return nil, false
		}
		next := settings.ClampPingInterval(cur + step)
		return next, next != cur
	case backend.KeyAutoMonitor:
		return !s.AutoMonitor(), true
	case backend.KeyOverlayEnabled:
		return !s.OverlayEnabled(), true
	case backend.KeySpeedUnit:
		return string(s.SpeedUnit().Next()), true
	case backend.KeyOverlayPosition:
		return string(s.OverlayPosition().Next()), true
	}
	return nil, false
}

func onOff(b bool) string {
	if b {
		return "On"
	}
	return "Off"
}

// DisplaySetting formats a setting the way the settings panel shows it.
// Keys the panel doesn't know print their raw value.
func DisplaySetting(s backend.Settings, key string) string {
	switch key {
	case backend.KeyPingInterval:
		return fmt.Sprintf("%.0fs", s.PingInterval())
	case backend.KeyAutoMonitor:
		return onOff(s.AutoMonitor())
	case backend.KeyOverlayEnabled:
		return onOff(s.OverlayEnabled())
	case backend.KeySpeedUnit:
		return strings.ToUpper(string(s.SpeedUnit()))
	case backend.KeyOverlayPosition:
		return string(s.OverlayPosition())
	}
	return fmt.Sprint(s[key])
}

// View renders the settings rows with the cursor. loaded is false until
// the first get_settings answer; the rows then show defaults.
func (p settingsPanel) View(s backend.Settings, loaded bool) string {
	var b strings.Builder
	b.WriteString(SectionTitleStyle.Render("Settings"))
	if !loaded {
		b.WriteString(MutedStyle.Render("  loading..."))
	}
	b.WriteString("\n")

	for i, row := range settingRows {
		cursor := "  "
		label := LabelStyle.Render(fmt.Sprintf("%-24s", row.label))
		if i == p.cursor {
			cursor = SelectedRowStyle.Render("▸ ")
			label = SelectedRowStyle.Render(fmt.Sprintf("%-24s", row.label))
		}
		value := ValueStyle.Render(DisplaySetting(s, row.key))
		if row.key == backend.KeyPingInterval {
			pct := (s.PingInterval() - settings.MinPingInterval) /
				(settings.MaxPingInterval - settings.MinPingInterval) * 100
			value = ui.RenderBar(pct, 12, ui.ColorNeonCyan) + " " + value
		}
		b.WriteString(cursor + label + value + "\n")
	}

	b.WriteString("\n")
	b.WriteString(MutedStyle.Render("↑/↓ select · ←/→ adjust · enter toggle · esc back"))
	return b.String()
}
