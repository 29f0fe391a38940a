package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouter_StartsOnStatus(t *testing.T) {
	var r Router
	assert.Equal(t, PanelStatus, r.Active())
}

func TestRouter_HistoryThenSettingsLeavesSettings(t *testing.T) {
	starts := map[string]func(*Router){
		"status":   func(r *Router) {},
		"history":  func(r *Router) { r.SetHistory(true) },
		"settings": func(r *Router) { r.SetSettings(true) },
	}
	for name, setup := range starts {
		t.Run(name, func(t *testing.T) {
			var r Router
			setup(&r)

			r.SetHistory(true)
			r.SetSettings(true)

			assert.Equal(t, PanelSettings, r.Active())
			assert.False(t, r.showHistory)
			assert.True(t, r.showSettings)
		})
	}
}

func TestRouter_TogglingActiveOffReturnsToStatus(t *testing.T) {
	var r Router

	r.ToggleHistory()
	assert.Equal(t, PanelHistory, r.Active())
	r.ToggleHistory()
	assert.Equal(t, PanelStatus, r.Active())

	r.ToggleSettings()
	assert.Equal(t, PanelSettings, r.Active())
	r.SetSettings(false)
	assert.Equal(t, PanelStatus, r.Active())
}

func TestRouter_TogglingInactiveOffIsNoop(t *testing.T) {
	var r Router
	r.SetHistory(true)
	r.SetSettings(false)
	assert.Equal(t, PanelHistory, r.Active())
}

func TestRouter_Back(t *testing.T) {
	var r Router
	r.SetSettings(true)
	r.Back()
	assert.Equal(t, PanelStatus, r.Active())
}

func TestRouter_RapidTogglingNeverShowsBoth(t *testing.T) {
	var r Router
	ops := []func(){
		r.ToggleHistory, r.ToggleSettings, r.ToggleSettings, r.ToggleHistory,
		r.ToggleHistory, r.ToggleHistory, r.ToggleSettings, r.Back, r.ToggleSettings,
	}
	for _, op := range ops {
		op()
		assert.False(t, r.showHistory && r.showSettings)
	}
}

func TestPanelString(t *testing.T) {
	assert.Equal(t, "status", PanelStatus.String())
	assert.Equal(t, "history", PanelHistory.String())
	assert.Equal(t, "settings", PanelSettings.String())
	assert.Equal(t, "unknown", Panel(7).String())
}
