package ui

import (
	"math"
	"strconv"

	"github.com/netsentinel/netsentinel/internal/backend"
)

// SpeedPlaceholder is shown for absent or non-positive rates.
const SpeedPlaceholder = "--"

type speedScale struct {
	divisor  float64
	decimals int
	label    string
}

var speedScales = map[backend.SpeedUnit]speedScale{
	backend.SpeedGbps: {1e9, 2, "Gbps"},
	backend.SpeedMbps: {1e6, 2, "Mbps"},
	backend.SpeedKbps: {1e3, 1, "Kbps"},
	backend.SpeedBps:  {1, 0, "bps"},
}

// FormatSpeed renders a bits-per-second figure in the given unit, e.g.
// FormatSpeed(12_500_000, backend.SpeedMbps) == "12.50 Mbps". Unknown units
// fall back to Mbps.
func FormatSpeed(bps float64, unit backend.SpeedUnit) string {
	if math.IsNaN(bps) || bps <= 0 {
		return SpeedPlaceholder
	}
	sc, ok := speedScales[unit]
	if !ok {
		sc = speedScales[backend.SpeedMbps]
	}
	return strconv.FormatFloat(bps/sc.divisor, 'f', sc.decimals, 64) + " " + sc.label
}
