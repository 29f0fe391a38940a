package settings

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/netsentinel/netsentinel/internal/backend"
	"github.com/netsentinel/netsentinel/internal/errors"
)

// Ping interval bounds and step, in seconds.
const (
	MinPingInterval  = 10.0
	MaxPingInterval  = 120.0
	PingIntervalStep = 10.0
)

// ClampPingInterval snaps v to the nearest step inside the allowed range.
func ClampPingInterval(v float64) float64 {
	if math.IsNaN(v) {
		return backend.DefaultPingInterval
	}
	v = math.Round(v/PingIntervalStep) * PingIntervalStep
	return math.Max(MinPingInterval, math.Min(MaxPingInterval, v))
}

// ParseValue converts a command-line string into the typed value stored
// under key. Keys the dashboard doesn't know are stored as bools or numbers
// when they parse as such and as strings otherwise.
func ParseValue(key, raw string) (interface{}, error) {
	raw = strings.TrimSpace(raw)
	switch key {
	case backend.KeyPingInterval:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, invalid(key, raw, "a number of seconds")
		}
		if v < MinPingInterval || v > MaxPingInterval {
			return nil, invalid(key, raw, fmt.Sprintf("between %.0f and %.0f", MinPingInterval, MaxPingInterval))
		}
		return ClampPingInterval(v), nil

	case backend.KeyAutoMonitor, backend.KeyOverlayEnabled:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, invalid(key, raw, "true or false")
		}
		return v, nil

	case backend.KeySpeedUnit:
		for _, u := range backend.SpeedUnits {
			if strings.EqualFold(string(u), raw) {
				return string(u), nil
			}
		}
		return nil, invalid(key, raw, "one of bps, kbps, mbps, gbps")

	case backend.KeyOverlayPosition:
		for _, p := range backend.OverlayPositions {
			if strings.EqualFold(string(p), raw) {
				return string(p), nil
			}
		}
		return nil, invalid(key, raw, "one of top-left, top-right, bottom-left, bottom-right")
	}

	if b, err := strconv.ParseBool(raw); err == nil {
		return b, nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f, nil
	}
	return raw, nil
}

func invalid(key, raw, want string) error {
	return errors.New(errors.ErrSettings,
		fmt.Sprintf("Invalid value %q for %s", raw, key),
		fmt.Sprintf("Expected %s", want))
}
