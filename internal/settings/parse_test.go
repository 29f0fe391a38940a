package settings

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netsentinel/netsentinel/internal/backend"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		key  string
		raw  string
		want interface{}
	}{
		{backend.KeyPingInterval, "60", 60.0},
		{backend.KeyPingInterval, "44", 40.0},
		{backend.KeyAutoMonitor, "true", true},
		{backend.KeyOverlayEnabled, " 0 ", false},
		{backend.KeySpeedUnit, "GBPS", "gbps"},
		{backend.KeyOverlayPosition, "Bottom-Right", "bottom-right"},
		{"show_bandwidth", "false", false},
		{"notification_threshold", "50", 50.0},
		{"theme", "dark", "dark"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.raw, func(t *testing.T) {
			got, err := ParseValue(tt.key, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseValue_Invalid(t *testing.T) {
	tests := []struct {
		key string
		raw string
	}{
		{backend.KeyPingInterval, "fast"},
		{backend.KeyPingInterval, "5"},
		{backend.KeyPingInterval, "600"},
		{backend.KeyAutoMonitor, "maybe"},
		{backend.KeySpeedUnit, "tbps"},
		{backend.KeyOverlayPosition, "center"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.raw, func(t *testing.T) {
			_, err := ParseValue(tt.key, tt.raw)
			assert.Error(t, err)
		})
	}
}

func TestClampPingInterval(t *testing.T) {
	assert.Equal(t, 10.0, ClampPingInterval(0))
	assert.Equal(t, 30.0, ClampPingInterval(31))
	assert.Equal(t, 120.0, ClampPingInterval(500))
	assert.Equal(t, backend.DefaultPingInterval, ClampPingInterval(math.NaN()))
}
