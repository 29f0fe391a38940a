// Package testing provides test doubles for the backend package.
package testing

import (
	"context"
	"sync"

	"github.com/netsentinel/netsentinel/internal/backend"
)

// FakeBackend is an in-memory backend.Backend. Responses are programmed via
// the exported setters; every call is counted per method so tests can
// assert on polling behavior.
type FakeBackend struct {
	mu sync.Mutex

	status      backend.NetworkStatus
	history     []backend.HistoryDataPoint
	livePing    float64
	settings    backend.Settings
	connInfo    backend.ConnectionInfo
	pingResult  backend.PingResult
	dnsResult   backend.DNSResult
	scanResult  backend.WifiScanResult
	startResult bool
	stopResult  bool
	updateOK    bool

	errs    map[string]error
	gates   map[string]chan struct{}
	calls   map[string]int
	pingArg []string
	saved   []backend.Settings
}

// NewFakeBackend creates a fake whose start/stop/update calls succeed.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		settings:    backend.Settings{},
		startResult: true,
		stopResult:  true,
		updateOK:    true,
		errs:        make(map[string]error),
		gates:       make(map[string]chan struct{}),
		calls:       make(map[string]int),
	}
}

// SetStatus programs get_network_status.
func (f *FakeBackend) SetStatus(s backend.NetworkStatus) *FakeBackend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = s
	return f
}

// SetHistory programs get_network_history.
func (f *FakeBackend) SetHistory(points []backend.HistoryDataPoint) *FakeBackend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history = append([]backend.HistoryDataPoint(nil), points...)
	return f
}

// SetLivePing programs get_live_ping.
func (f *FakeBackend) SetLivePing(ping float64) *FakeBackend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.livePing = ping
	return f
}

// SetSettings programs get_settings.
func (f *FakeBackend) SetSettings(s backend.Settings) *FakeBackend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings = s.Clone()
	return f
}

// SetConnectionInfo programs get_connection_info.
func (f *FakeBackend) SetConnectionInfo(info backend.ConnectionInfo) *FakeBackend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connInfo = info
	return f
}

// SetPingResult programs test_single_ping.
func (f *FakeBackend) SetPingResult(r backend.PingResult) *FakeBackend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingResult = r
	return f
}

// SetDNSResult programs test_dns.
func (f *FakeBackend) SetDNSResult(r backend.DNSResult) *FakeBackend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dnsResult = r
	return f
}

// SetScanResult programs scan_wifi_networks.
func (f *FakeBackend) SetScanResult(r backend.WifiScanResult) *FakeBackend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scanResult = r
	return f
}

// SetStartResult programs the boolean returned by start_monitoring.
func (f *FakeBackend) SetStartResult(ok bool) *FakeBackend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startResult = ok
	return f
}

// SetStopResult programs the boolean returned by stop_monitoring.
func (f *FakeBackend) SetStopResult(ok bool) *FakeBackend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopResult = ok
	return f
}

// SetUpdateResult programs the boolean returned by update_settings.
func (f *FakeBackend) SetUpdateResult(ok bool) *FakeBackend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateOK = ok
	return f
}

// FailWith makes every call to method return err. A nil err clears it.
func (f *FakeBackend) FailWith(method string, err error) *FakeBackend {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errs, method)
	} else {
		f.errs[method] = err
	}
	return f
}

// Block makes calls to method wait until the returned release func is
// called (or the call's context ends). Used to hold a request in flight.
func (f *FakeBackend) Block(method string) (release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	gate := make(chan struct{})
	f.gates[method] = gate
	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			if f.gates[method] == gate {
				delete(f.gates, method)
			}
			f.mu.Unlock()
			close(gate)
		})
	}
}

// Calls returns how many times method was invoked.
func (f *FakeBackend) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// PingHosts returns the host arguments passed to test_single_ping.
func (f *FakeBackend) PingHosts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.pingArg...)
}

// SavedSettings returns every settings object passed to update_settings.
func (f *FakeBackend) SavedSettings() []backend.Settings {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]backend.Settings, len(f.saved))
	for i, s := range f.saved {
		out[i] = s.Clone()
	}
	return out
}

// enter records a call, waits on any gate, and returns the programmed error.
func (f *FakeBackend) enter(ctx context.Context, method string) error {
	f.mu.Lock()
	f.calls[method]++
	gate := f.gates[method]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs[method]
}

// StartMonitoring implements backend.Backend. A true result flips the
// status snapshot's monitoring flag, like the real backend.
func (f *FakeBackend) StartMonitoring(ctx context.Context) (bool, error) {
	if err := f.enter(ctx, backend.MethodStartMonitoring); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startResult {
		f.status.Monitoring = true
	}
	return f.startResult, nil
}

// StopMonitoring implements backend.Backend.
func (f *FakeBackend) StopMonitoring(ctx context.Context) (bool, error) {
	if err := f.enter(ctx, backend.MethodStopMonitoring); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stopResult {
		f.status.Monitoring = false
	}
	return f.stopResult, nil
}

// GetNetworkStatus implements backend.Backend.
func (f *FakeBackend) GetNetworkStatus(ctx context.Context) (backend.NetworkStatus, error) {
	if err := f.enter(ctx, backend.MethodGetNetworkStatus); err != nil {
		return backend.NetworkStatus{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status, nil
}

// GetNetworkHistory implements backend.Backend.
func (f *FakeBackend) GetNetworkHistory(ctx context.Context) ([]backend.HistoryDataPoint, error) {
	if err := f.enter(ctx, backend.MethodGetNetworkHistory); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]backend.HistoryDataPoint(nil), f.history...), nil
}

// ClearHistory implements backend.Backend.
func (f *FakeBackend) ClearHistory(ctx context.Context) error {
	if err := f.enter(ctx, backend.MethodClearHistory); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history = nil
	return nil
}

// GetLivePing implements backend.Backend.
func (f *FakeBackend) GetLivePing(ctx context.Context) (float64, error) {
	if err := f.enter(ctx, backend.MethodGetLivePing); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.livePing, nil
}

// UpdateSettings implements backend.Backend.
func (f *FakeBackend) UpdateSettings(ctx context.Context, settings backend.Settings) (bool, error) {
	if err := f.enter(ctx, backend.MethodUpdateSettings); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, settings.Clone())
	if f.updateOK {
		f.settings = settings.Clone()
	}
	return f.updateOK, nil
}

// GetSettings implements backend.Backend.
func (f *FakeBackend) GetSettings(ctx context.Context) (backend.Settings, error) {
	if err := f.enter(ctx, backend.MethodGetSettings); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settings.Clone(), nil
}

// GetConnectionInfo implements backend.Backend.
func (f *FakeBackend) GetConnectionInfo(ctx context.Context) (backend.ConnectionInfo, error) {
	if err := f.enter(ctx, backend.MethodGetConnectionInfo); err != nil {
		return backend.ConnectionInfo{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connInfo, nil
}

// TestSinglePing implements backend.Backend.
func (f *FakeBackend) TestSinglePing(ctx context.Context, host string) (backend.PingResult, error) {
	f.mu.Lock()
	f.pingArg = append(f.pingArg, host)
	f.mu.Unlock()
	if err := f.enter(ctx, backend.MethodTestSinglePing); err != nil {
		return backend.PingResult{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	res := f.pingResult
	if res.Host == "" {
		res.Host = host
	}
	return res, nil
}

// TestDNS implements backend.Backend.
func (f *FakeBackend) TestDNS(ctx context.Context) (backend.DNSResult, error) {
	if err := f.enter(ctx, backend.MethodTestDNS); err != nil {
		return backend.DNSResult{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dnsResult, nil
}

// ScanWifiNetworks implements backend.Backend.
func (f *FakeBackend) ScanWifiNetworks(ctx context.Context) (backend.WifiScanResult, error) {
	if err := f.enter(ctx, backend.MethodScanWifiNetworks); err != nil {
		return backend.WifiScanResult{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scanResult, nil
}

var _ backend.Backend = (*FakeBackend)(nil)
