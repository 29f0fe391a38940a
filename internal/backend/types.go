package backend

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// QualityLabel is the backend-assigned connection quality. The client never
// recomputes it; it only maps it to a display color.
type QualityLabel string

const (
	QualityExcellent    QualityLabel = "excellent"
	QualityGood         QualityLabel = "good"
	QualityFair         QualityLabel = "fair"
	QualityPoor         QualityLabel = "poor"
	QualityDisconnected QualityLabel = "disconnected"
	QualityUnknown      QualityLabel = "unknown"
)

// Known reports whether the label is one of the documented values.
func (q QualityLabel) Known() bool {
	switch q {
	case QualityExcellent, QualityGood, QualityFair, QualityPoor, QualityDisconnected, QualityUnknown:
		return true
	}
	return false
}

// Display returns the upper-cased label, "UNKNOWN" when empty.
func (q QualityLabel) Display() string {
	if q == "" {
		return strings.ToUpper(string(QualityUnknown))
	}
	return strings.ToUpper(string(q))
}

// Quality is the backend's scored view of the connection.
type Quality struct {
	Label         QualityLabel `json:"quality"`
	Score         int          `json:"score"`
	AvgLatency    float64      `json:"avg_latency"`
	AvgPacketLoss float64      `json:"avg_packet_loss"`
	Jitter        *float64     `json:"jitter,omitempty"`
}

// JitterOrZero returns the jitter in ms, or 0 when the backend didn't report it.
func (q Quality) JitterOrZero() float64 {
	if q.Jitter == nil {
		return 0
	}
	return *q.Jitter
}

// Bandwidth holds throughput in bits per second.
type Bandwidth struct {
	Download float64 `json:"download"`
	Upload   float64 `json:"upload"`
}

// DNSResult is the outcome of a DNS resolution check.
type DNSResult struct {
	Success        bool    `json:"success"`
	ResolutionTime float64 `json:"resolution_time"`
	DNSServer      string  `json:"dns_server"`
	Domain         string  `json:"domain,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// NetworkStatus is a snapshot of backend state at poll time. It is replaced
// wholesale on each successful poll.
type NetworkStatus struct {
	Quality      Quality                `json:"quality"`
	NetworkStats map[string]interface{} `json:"network_stats,omitempty"`
	Monitoring   bool                   `json:"monitoring"`
	DataPoints   int                    `json:"data_points"`
	Bandwidth    *Bandwidth             `json:"bandwidth,omitempty"`
	DNSStatus    *DNSResult             `json:"dns_status,omitempty"`
}

// StatCounter returns an integer counter from the opaque network_stats map.
// The second return is false if the counter is absent or not numeric.
func (s NetworkStatus) StatCounter(name string) (uint64, bool) {
	v, ok := s.NetworkStats[name]
	if !ok {
		return 0, false
	}
	f, ok := toFloat(v)
	if !ok || f < 0 {
		return 0, false
	}
	return uint64(f), true
}

// HistoryDataPoint is one entry of the backend's rolling history buffer.
type HistoryDataPoint struct {
	Timestamp Timestamp  `json:"timestamp"`
	Quality   Quality    `json:"quality"`
	LivePing  *float64   `json:"live_ping,omitempty"`
	Bandwidth *Bandwidth `json:"bandwidth,omitempty"`
}

// Latency resolves the displayed latency: live ping when present and non-zero,
// else the quality average, else 0.
func (p HistoryDataPoint) Latency() float64 {
	if p.LivePing != nil && *p.LivePing > 0 {
		return *p.LivePing
	}
	if p.Quality.AvgLatency > 0 {
		return p.Quality.AvgLatency
	}
	return 0
}

// ConnectionInfo holds mostly static connection facts.
type ConnectionInfo struct {
	LocalIP        string `json:"local_ip,omitempty"`
	Hostname       string `json:"hostname,omitempty"`
	ConnectionType string `json:"connection_type,omitempty"`
	Error          string `json:"error,omitempty"`
}

// PingResult is the outcome of a one-shot ping diagnostic.
type PingResult struct {
	Host       string  `json:"host,omitempty"`
	Success    bool    `json:"success"`
	AvgRTT     float64 `json:"avg_rtt"`
	PacketLoss float64 `json:"packet_loss"`
}

// WifiNetwork is a single access point from a Wi-Fi survey.
type WifiNetwork struct {
	SSID               string  `json:"ssid"`
	Band               string  `json:"band"`
	Channel            int     `json:"channel"`
	Security           string  `json:"security"`
	Signal             int     `json:"signal"`
	EstimatedLatencyMS float64 `json:"estimated_latency_ms"`
	Congestion         string  `json:"congestion"`
}

// WifiScanResult is replaced wholesale per scan, never accumulated.
type WifiScanResult struct {
	Networks    []WifiNetwork `json:"networks"`
	BestChannel *int          `json:"best_channel,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// OverlayEvent is the payload of the backend's overlay push channel.
type OverlayEvent struct {
	Ping      float64      `json:"ping"`
	Quality   QualityLabel `json:"quality"`
	Bandwidth Bandwidth    `json:"bandwidth"`
	Enabled   bool         `json:"enabled"`
}

// DecodeOverlayEvent parses a push payload. Missing fields decode to zero
// values; an empty quality becomes QualityUnknown.
func DecodeOverlayEvent(payload []byte) (OverlayEvent, error) {
	var ev OverlayEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return OverlayEvent{}, err
	}
	if ev.Quality == "" {
		ev.Quality = QualityUnknown
	}
	if ev.Ping < 0 {
		ev.Ping = 0
	}
	return ev, nil
}

// Timestamp is a point in time that decodes from either epoch milliseconds or
// an ISO-8601 string, and encodes as epoch milliseconds.
type Timestamp struct {
	time.Time
}

// isoLayouts are tried in order for string timestamps. The zone-less layouts
// are interpreted in local time.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}

	if data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return err
		}
		if s == "" {
			t.Time = time.Time{}
			return nil
		}
		for _, layout := range isoLayouts {
			parsed, err := time.ParseInLocation(layout, s, time.Local)
			if err == nil {
				t.Time = parsed
				return nil
			}
		}
		return &time.ParseError{Layout: time.RFC3339, Value: s, Message: ": unrecognized timestamp"}
	}

	ms, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	t.Time = time.UnixMilli(int64(ms))
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(t.UnixMilli(), 10)), nil
}

// toFloat converts loosely typed JSON numbers to float64.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case jsoniter.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
