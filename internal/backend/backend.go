package backend

import "context"

// Wire method names, as exposed by the backend.
const (
	MethodStartMonitoring   = "start_monitoring"
	MethodStopMonitoring    = "stop_monitoring"
	MethodGetNetworkStatus  = "get_network_status"
	MethodGetNetworkHistory = "get_network_history"
	MethodClearHistory      = "clear_history"
	MethodGetLivePing       = "get_live_ping"
	MethodUpdateSettings    = "update_settings"
	MethodGetSettings       = "get_settings"
	MethodGetConnectionInfo = "get_connection_info"
	MethodTestSinglePing    = "test_single_ping"
	MethodTestDNS           = "test_dns"
	MethodScanWifiNetworks  = "scan_wifi_networks"
)

// DefaultPingHost is the ping target used when none is configured.
const DefaultPingHost = "8.8.8.8"

// Backend is the request/response contract of the monitoring backend.
// Implementations must be safe for concurrent use: the dashboard issues
// calls of different kinds in parallel and does not deduplicate same-kind
// calls.
type Backend interface {
	// StartMonitoring returns true iff monitoring is now active.
	StartMonitoring(ctx context.Context) (bool, error)
	// StopMonitoring returns true iff monitoring is now inactive.
	StopMonitoring(ctx context.Context) (bool, error)
	GetNetworkStatus(ctx context.Context) (NetworkStatus, error)
	// GetNetworkHistory returns the full buffer, oldest first.
	GetNetworkHistory(ctx context.Context) ([]HistoryDataPoint, error)
	ClearHistory(ctx context.Context) error
	GetLivePing(ctx context.Context) (float64, error)
	// UpdateSettings persists the complete merged settings object.
	UpdateSettings(ctx context.Context, settings Settings) (bool, error)
	GetSettings(ctx context.Context) (Settings, error)
	GetConnectionInfo(ctx context.Context) (ConnectionInfo, error)
	// TestSinglePing pings host, or the backend's default target when host is empty.
	TestSinglePing(ctx context.Context, host string) (PingResult, error)
	TestDNS(ctx context.Context) (DNSResult, error)
	ScanWifiNetworks(ctx context.Context) (WifiScanResult, error)
}
