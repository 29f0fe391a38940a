package backend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestQualityLabel_Known(t *testing.T) {
	for _, l := range []QualityLabel{QualityExcellent, QualityGood, QualityFair, QualityPoor, QualityDisconnected, QualityUnknown} {
		assert.True(t, l.Known(), string(l))
	}
	assert.False(t, QualityLabel("degraded").Known())
	assert.False(t, QualityLabel("").Known())
}

func TestQualityLabel_Display(t *testing.T) {
	assert.Equal(t, "POOR", QualityPoor.Display())
	assert.Equal(t, "UNKNOWN", QualityLabel("").Display())
}

func TestHistoryDataPoint_Latency(t *testing.T) {
	tests := []struct {
		name  string
		point HistoryDataPoint
		want  float64
	}{
		{"live ping wins", HistoryDataPoint{LivePing: floatPtr(42), Quality: Quality{AvgLatency: 80}}, 42},
		{"zero live ping falls back", HistoryDataPoint{LivePing: floatPtr(0), Quality: Quality{AvgLatency: 80}}, 80},
		{"absent live ping falls back", HistoryDataPoint{Quality: Quality{AvgLatency: 55.5}}, 55.5},
		{"nothing reported", HistoryDataPoint{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.point.Latency())
		})
	}
}

func TestQuality_JitterOrZero(t *testing.T) {
	assert.Equal(t, 0.0, Quality{}.JitterOrZero())
	assert.Equal(t, 3.5, Quality{Jitter: floatPtr(3.5)}.JitterOrZero())
}

func TestTimestamp_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"epoch millis", `1700000000123`, time.UnixMilli(1700000000123)},
		{"rfc3339", `"2024-03-01T10:20:30Z"`, time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"isoformat without zone", `"2024-03-01T10:20:30.500000"`, time.Date(2024, 3, 1, 10, 20, 30, 500000000, time.Local)},
		{"space separated", `"2024-03-01 10:20:30"`, time.Date(2024, 3, 1, 10, 20, 30, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, ts.UnmarshalJSON([]byte(tt.raw)))
			assert.True(t, tt.want.Equal(ts.Time), "got %v want %v", ts.Time, tt.want)
		})
	}
}

func TestTimestamp_UnmarshalNullAndGarbage(t *testing.T) {
	var ts Timestamp
	require.NoError(t, ts.UnmarshalJSON([]byte(`null`)))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.UnmarshalJSON([]byte(`"yesterday"`)))
	assert.Error(t, ts.UnmarshalJSON([]byte(`{}`)))
}

func TestTimestamp_MarshalRoundTrip(t *testing.T) {
	ts := Timestamp{time.UnixMilli(1700000000123)}
	data, err := ts.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "1700000000123", string(data))

	var back Timestamp
	require.NoError(t, back.UnmarshalJSON(data))
	assert.True(t, ts.Equal(back.Time))

	data, err = Timestamp{}.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestHistoryDecode_OptionalFields(t *testing.T) {
	raw := `[
		{"timestamp": 1700000000000, "quality": {"quality": "good", "score": 80, "avg_latency": 40, "avg_packet_loss": 0}},
		{"timestamp": "2024-03-01T10:20:30Z", "quality": {"quality": "fair", "score": 50, "avg_latency": 90, "avg_packet_loss": 1.5, "jitter": 4.2},
		 "live_ping": 88.1, "bandwidth": {"download": 2500000, "upload": 300000}}
	]`

	var points []HistoryDataPoint
	require.NoError(t, json.Unmarshal([]byte(raw), &points))
	require.Len(t, points, 2)

	assert.Nil(t, points[0].LivePing)
	assert.Nil(t, points[0].Bandwidth)
	assert.Nil(t, points[0].Quality.Jitter)

	require.NotNil(t, points[1].LivePing)
	assert.Equal(t, 88.1, *points[1].LivePing)
	require.NotNil(t, points[1].Bandwidth)
	assert.Equal(t, 2500000.0, points[1].Bandwidth.Download)
	assert.Equal(t, 4.2, points[1].Quality.JitterOrZero())
}

func TestDecodeOverlayEvent(t *testing.T) {
	ev, err := DecodeOverlayEvent([]byte(`{"ping": 23.5, "quality": "good", "bandwidth": {"download": 1000, "upload": 10}, "enabled": true}`))
	require.NoError(t, err)
	assert.Equal(t, OverlayEvent{Ping: 23.5, Quality: QualityGood, Bandwidth: Bandwidth{Download: 1000, Upload: 10}, Enabled: true}, ev)

	ev, err = DecodeOverlayEvent([]byte(`{"ping": -1}`))
	require.NoError(t, err)
	assert.Equal(t, QualityUnknown, ev.Quality)
	assert.Equal(t, 0.0, ev.Ping)
	assert.False(t, ev.Enabled)

	_, err = DecodeOverlayEvent([]byte(`not json`))
	assert.Error(t, err)
}

func TestNetworkStatus_StatCounter(t *testing.T) {
	var status NetworkStatus
	require.NoError(t, json.Unmarshal([]byte(`{"network_stats": {"bytes_sent": 1024, "bytes_recv": 2048.0, "error": "x"}}`), &status))

	v, ok := status.StatCounter("bytes_sent")
	assert.True(t, ok)
	assert.Equal(t, uint64(1024), v)

	v, ok = status.StatCounter("bytes_recv")
	assert.True(t, ok)
	assert.Equal(t, uint64(2048), v)

	_, ok = status.StatCounter("error")
	assert.False(t, ok)
	_, ok = status.StatCounter("missing")
	assert.False(t, ok)
}

func TestSettings_Accessors(t *testing.T) {
	empty := Settings{}
	assert.Equal(t, DefaultPingInterval, empty.PingInterval())
	assert.False(t, empty.AutoMonitor())
	assert.Equal(t, SpeedMbps, empty.SpeedUnit())
	assert.False(t, empty.OverlayEnabled())
	assert.Equal(t, OverlayTopRight, empty.OverlayPosition())

	s := Settings{
		KeyPingInterval:    60.0,
		KeyAutoMonitor:     true,
		KeySpeedUnit:       "gbps",
		KeyOverlayEnabled:  true,
		KeyOverlayPosition: "bottom-left",
	}
	assert.Equal(t, 60.0, s.PingInterval())
	assert.True(t, s.AutoMonitor())
	assert.Equal(t, SpeedGbps, s.SpeedUnit())
	assert.True(t, s.OverlayEnabled())
	assert.Equal(t, OverlayBottomLeft, s.OverlayPosition())

	// Mistyped values fall back to defaults.
	bad := Settings{KeyAutoMonitor: "yes", KeyPingInterval: -5.0, KeySpeedUnit: 7}
	assert.False(t, bad.AutoMonitor())
	assert.Equal(t, DefaultPingInterval, bad.PingInterval())
	assert.Equal(t, SpeedMbps, bad.SpeedUnit())
}

func TestSettings_UnknownKeysRoundTrip(t *testing.T) {
	raw := `{"ping_interval": 30, "dns_servers": ["8.8.8.8", "1.1.1.1"], "notification_threshold": 50}`
	var s Settings
	require.NoError(t, json.Unmarshal([]byte(raw), &s))

	merged := s.With(KeySpeedUnit, "kbps")
	out, err := json.Marshal(merged)
	require.NoError(t, err)

	var back map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, []interface{}{"8.8.8.8", "1.1.1.1"}, back["dns_servers"])
	assert.Equal(t, 50.0, back["notification_threshold"])
	assert.Equal(t, "kbps", back["speed_unit"])

	// With never mutates the receiver.
	_, has := s[KeySpeedUnit]
	assert.False(t, has)
}

func TestSettings_Keys(t *testing.T) {
	s := Settings{"b": 1, "a": 2, "c": 3}
	assert.Equal(t, []string{"a", "b", "c"}, s.Keys())
}

func TestSpeedUnit_ParseAndNext(t *testing.T) {
	assert.Equal(t, SpeedKbps, ParseSpeedUnit("kbps"))
	assert.Equal(t, SpeedMbps, ParseSpeedUnit("furlongs"))
	assert.Equal(t, SpeedKbps, SpeedBps.Next())
	assert.Equal(t, SpeedBps, SpeedGbps.Next())
	assert.Equal(t, SpeedMbps, SpeedUnit("x").Next())
}

func TestOverlayPosition_ParseAndNext(t *testing.T) {
	assert.Equal(t, OverlayBottomRight, ParseOverlayPosition("bottom-right"))
	assert.Equal(t, OverlayTopRight, ParseOverlayPosition("middle"))
	assert.Equal(t, OverlayTopRight, OverlayTopLeft.Next())
	assert.Equal(t, OverlayTopLeft, OverlayBottomRight.Next())
}
