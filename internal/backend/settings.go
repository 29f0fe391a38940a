package backend

import "sort"

// Persisted settings keys understood by the dashboard. Any other key is
// carried through untouched.
const (
	KeyPingInterval    = "ping_interval"
	KeyAutoMonitor     = "auto_monitor"
	KeySpeedUnit       = "speed_unit"
	KeyOverlayEnabled  = "overlay_enabled"
	KeyOverlayPosition = "overlay_position"
)

// DefaultPingInterval is the check interval (seconds) used when the backend
// hasn't persisted one.
const DefaultPingInterval = 30.0

// SpeedUnit selects how bandwidth figures are scaled for display.
type SpeedUnit string

const (
	SpeedBps  SpeedUnit = "bps"
	SpeedKbps SpeedUnit = "kbps"
	SpeedMbps SpeedUnit = "mbps"
	SpeedGbps SpeedUnit = "gbps"
)

// SpeedUnits lists the units in ascending order.
var SpeedUnits = []SpeedUnit{SpeedBps, SpeedKbps, SpeedMbps, SpeedGbps}

// ParseSpeedUnit returns the unit for s, defaulting to Mbps.
func ParseSpeedUnit(s string) SpeedUnit {
	for _, u := range SpeedUnits {
		if string(u) == s {
			return u
		}
	}
	return SpeedMbps
}

// Next cycles to the next unit.
func (u SpeedUnit) Next() SpeedUnit {
	for i, v := range SpeedUnits {
		if v == u {
			return SpeedUnits[(i+1)%len(SpeedUnits)]
		}
	}
	return SpeedMbps
}

// OverlayPosition is the screen corner the overlay badge is anchored to.
type OverlayPosition string

const (
	OverlayTopLeft     OverlayPosition = "top-left"
	OverlayTopRight    OverlayPosition = "top-right"
	OverlayBottomLeft  OverlayPosition = "bottom-left"
	OverlayBottomRight OverlayPosition = "bottom-right"
)

// OverlayPositions lists the corners in cycling order.
var OverlayPositions = []OverlayPosition{OverlayTopLeft, OverlayTopRight, OverlayBottomLeft, OverlayBottomRight}

// ParseOverlayPosition returns the position for s, defaulting to top-right.
func ParseOverlayPosition(s string) OverlayPosition {
	for _, p := range OverlayPositions {
		if string(p) == s {
			return p
		}
	}
	return OverlayTopRight
}

// Next cycles to the next corner.
func (p OverlayPosition) Next() OverlayPosition {
	for i, v := range OverlayPositions {
		if v == p {
			return OverlayPositions[(i+1)%len(OverlayPositions)]
		}
	}
	return OverlayTopRight
}

// Settings is the backend's persisted option map. Unknown keys round-trip
// unchanged; the typed accessors fall back to defaults for absent or
// mistyped values.
type Settings map[string]interface{}

// Clone returns a shallow copy. Values are JSON scalars or opaque
// passthrough values, so a shallow copy is enough for merge semantics.
func (s Settings) Clone() Settings {
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// With returns a copy of s with key set to value.
func (s Settings) With(key string, value interface{}) Settings {
	out := s.Clone()
	out[key] = value
	return out
}

// Keys returns the keys in sorted order.
func (s Settings) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PingInterval returns ping_interval in seconds.
func (s Settings) PingInterval() float64 {
	if f, ok := toFloat(s[KeyPingInterval]); ok && f > 0 {
		return f
	}
	return DefaultPingInterval
}

// AutoMonitor returns auto_monitor.
func (s Settings) AutoMonitor() bool {
	b, _ := s[KeyAutoMonitor].(bool)
	return b
}

// SpeedUnit returns speed_unit.
func (s Settings) SpeedUnit() SpeedUnit {
	str, _ := s[KeySpeedUnit].(string)
	return ParseSpeedUnit(str)
}

// OverlayEnabled returns overlay_enabled.
func (s Settings) OverlayEnabled() bool {
	b, _ := s[KeyOverlayEnabled].(bool)
	return b
}

// OverlayPosition returns overlay_position.
func (s Settings) OverlayPosition() OverlayPosition {
	str, _ := s[KeyOverlayPosition].(string)
	return ParseOverlayPosition(str)
}
