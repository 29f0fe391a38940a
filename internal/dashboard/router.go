package dashboard

// Panel identifies which panel fills the main area.
type Panel int

const (
	PanelStatus Panel = iota
	PanelHistory
	PanelSettings
)

func (p Panel) String() string {
	switch p {
	case PanelStatus:
		return "status"
	case PanelHistory:
		return "history"
	case PanelSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// Router selects the visible panel. It is driven by two toggles, "show
// history" and "show settings"; turning one on turns the other off, and with
// both off the Status panel is shown. At most one toggle is ever on.
type Router struct {
	showHistory  bool
	showSettings bool
}

// Active returns the visible panel.
func (r Router) Active() Panel {
	switch {
	case r.showHistory:
		return PanelHistory
	case r.showSettings:
		return PanelSettings
	default:
		return PanelStatus
	}
}

// SetHistory sets the "show history" toggle.
func (r *Router) SetHistory(on bool) {
	r.showHistory = on
	if on {
		r.showSettings = false
	}
}

// SetSettings sets the "show settings" toggle.
func (r *Router) SetSettings(on bool) {
	r.showSettings = on
	if on {
		r.showHistory = false
	}
}

// ToggleHistory flips the "show history" toggle.
func (r *Router) ToggleHistory() {
	r.SetHistory(!r.showHistory)
}

// ToggleSettings flips the "show settings" toggle.
func (r *Router) ToggleSettings() {
	r.SetSettings(!r.showSettings)
}

// Back returns to the Status panel.
func (r *Router) Back() {
	r.showHistory = false
	r.showSettings = false
}
