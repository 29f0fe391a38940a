package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/netsentinel/netsentinel/internal/backend"
	"github.com/netsentinel/netsentinel/internal/settings"
)

// Toast titles.
const (
	titleApp      = "Network Sentinel"
	titleHistory  = "History"
	titlePing     = "Ping Test"
	titlePingFail = "Ping Test Failed"
	titleDNS      = "DNS Test"
	titleDNSFail  = "DNS Test Failed"
	titleSettings = "Settings"
)

// call wraps a backend request as a command bounded by the call timeout.
func (m Model) call(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	parent, timeout := m.ctx, m.callTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		return fn(ctx)
	}
}

// bootstrap fires the one-shot fetches concurrently. Each reports back on
// its own, so one failing doesn't hold up the others.
func (m Model) bootstrap() tea.Cmd {
	cmds := []tea.Cmd{
		m.fetchStatus(),
		m.fetchLivePing(),
		m.loadSettings(),
		m.fetchConnInfo(),
		m.fetchHistory(),
	}
	if m.lookupAddr != nil {
		cmds = append(cmds, m.fetchPublicAddr())
	}
	return tea.Batch(cmds...)
}

// refresh re-fetches the snapshots an explicit refresh covers.
func (m *Model) refresh() tea.Cmd {
	m.historyLoading = true
	return tea.Batch(m.fetchStatus(), m.fetchLivePing(), m.fetchConnInfo(), m.fetchHistory())
}

func (m Model) fetchStatus() tea.Cmd {
	client := m.client
	return m.call(func(ctx context.Context) tea.Msg {
		s, err := client.GetNetworkStatus(ctx)
		return statusMsg{status: s, err: err}
	})
}

func (m Model) fetchLivePing() tea.Cmd {
	client := m.client
	return m.call(func(ctx context.Context) tea.Msg {
		p, err := client.GetLivePing(ctx)
		return livePingMsg{ping: p, err: err}
	})
}

func (m Model) fetchHistory() tea.Cmd {
	client := m.client
	return m.call(func(ctx context.Context) tea.Msg {
		points, err := client.GetNetworkHistory(ctx)
		return historyMsg{points: points, err: err}
	})
}

func (m Model) fetchConnInfo() tea.Cmd {
	client := m.client
	return m.call(func(ctx context.Context) tea.Msg {
		info, err := client.GetConnectionInfo(ctx)
		return connInfoMsg{info: info, err: err}
	})
}

func (m Model) fetchPublicAddr() tea.Cmd {
	lookup := m.lookupAddr
	return m.call(func(ctx context.Context) tea.Msg {
		addr, err := lookup(ctx)
		return publicAddrMsg{addr: addr, err: err}
	})
}

func (m Model) loadSettings() tea.Cmd {
	store := m.store
	return m.call(func(ctx context.Context) tea.Msg {
		s, err := store.Load(ctx)
		return settingsLoadedMsg{settings: s, err: err}
	})
}

func (m *Model) onStatus(msg statusMsg) tea.Cmd {
	if msg.err != nil {
		m.log.Error("get_network_status failed: %v", msg.err)
		return nil
	}
	s := msg.status
	m.status = &s
	m.lastUpdate = time.Now()
	return tea.Batch(m.setMonitoring(s.Monitoring), m.autoMonitor())
}

func (m *Model) onLivePing(msg livePingMsg) {
	if msg.err != nil {
		m.log.Error("get_live_ping failed: %v", msg.err)
		return
	}
	m.livePing = msg.ping
	if msg.ping > 0 {
		m.samples.push(msg.ping)
	}
}

func (m *Model) onHistory(msg historyMsg) tea.Cmd {
	m.historyLoading = false
	if msg.err != nil {
		m.log.Error("get_network_history failed: %v", msg.err)
		return nil
	}
	m.history = msg.points
	return m.archiveHistory(msg.points)
}

// archiveHistory hands a fetched buffer to the sink off the event loop.
func (m Model) archiveHistory(points []backend.HistoryDataPoint) tea.Cmd {
	if m.archive == nil || len(points) == 0 {
		return nil
	}
	sink, log := m.archive, m.log
	return m.call(func(ctx context.Context) tea.Msg {
		n, err := sink.Record(ctx, points)
		if err != nil {
			log.Warn("archive: %v", err)
		} else if n > 0 {
			log.Debug("archive: recorded %d new points", n)
		}
		return nil
	})
}

func (m *Model) onConnInfo(msg connInfoMsg) {
	if msg.err != nil {
		m.log.Error("get_connection_info failed: %v", msg.err)
		return
	}
	info := msg.info
	m.connInfo = &info
}

func (m *Model) onPublicAddr(msg publicAddrMsg) {
	if msg.err != nil {
		m.log.Warn("public address lookup failed: %v", msg.err)
		return
	}
	m.publicAddr = msg.addr
}

func (m *Model) onSettingsLoaded(msg settingsLoadedMsg) tea.Cmd {
	if msg.err != nil {
		m.log.Error("get_settings failed: %v", msg.err)
		return nil
	}
	return m.autoMonitor()
}

func (m *Model) onSettingsAck(msg settingsAckMsg) tea.Cmd {
	outcome := m.store.Settle(msg.ack)
	if outcome != settings.Reverted {
		return nil
	}
	body := fmt.Sprintf("Couldn't save %s, restored the previous value", msg.ack.Change.Key)
	return tea.Batch(m.toasts.push(ToastFailure, titleSettings, body), m.autoMonitor())
}

// setMonitoring records the backend's monitoring state and arms or disarms
// the live ping tick to match.
func (m *Model) setMonitoring(on bool) tea.Cmd {
	m.monitoring = on
	if on {
		return m.armLive()
	}
	m.disarmLive()
	return nil
}

func (m *Model) armLive() tea.Cmd {
	if m.liveArmed {
		return nil
	}
	m.liveArmed = true
	m.liveGen++
	return m.scheduleLive()
}

func (m *Model) disarmLive() {
	if !m.liveArmed {
		return
	}
	m.liveArmed = false
	m.liveGen++
}

func (m Model) scheduleLive() tea.Cmd {
	gen := m.liveGen
	return tea.Tick(m.liveInterval, func(time.Time) tea.Msg {
		return liveTickMsg{gen: gen}
	})
}

// onLiveTick fetches a live ping and re-arms. A tick from a disarmed
// generation ends the chain.
func (m *Model) onLiveTick(msg liveTickMsg) tea.Cmd {
	if !m.liveArmed || msg.gen != m.liveGen {
		return nil
	}
	return tea.Batch(m.fetchLivePing(), m.scheduleLive())
}

// autoMonitor starts monitoring when auto_monitor is on and monitoring is
// off. It fires at most once per auto_monitor activation: never while a
// start is pending, and never again after monitoring has been seen running,
// so a manual stop sticks.
func (m *Model) autoMonitor() tea.Cmd {
	if !m.store.Loaded() {
		return nil
	}
	if !m.store.Snapshot().AutoMonitor() {
		m.autoLatched = false
		return nil
	}
	if m.monitoring {
		m.autoLatched = true
		return nil
	}
	if m.startPending || m.autoLatched {
		return nil
	}
	m.autoLatched = true
	m.log.Info("auto-monitor: starting monitoring")
	return m.startMonitoring()
}

func (m *Model) startMonitoring() tea.Cmd {
	if m.startPending {
		return nil
	}
	m.startPending = true
	client := m.client
	return m.call(func(ctx context.Context) tea.Msg {
		ok, err := client.StartMonitoring(ctx)
		return monitorMsg{start: true, ok: ok, err: err}
	})
}

func (m *Model) stopMonitoring() tea.Cmd {
	if m.stopPending {
		return nil
	}
	m.stopPending = true
	client := m.client
	return m.call(func(ctx context.Context) tea.Msg {
		ok, err := client.StopMonitoring(ctx)
		return monitorMsg{start: false, ok: ok, err: err}
	})
}

func (m *Model) onMonitor(msg monitorMsg) tea.Cmd {
	verb := "stop"
	if msg.start {
		verb = "start"
		m.startPending = false
	} else {
		m.stopPending = false
	}

	switch {
	case msg.err != nil:
		m.log.Error("%s_monitoring failed: %v", verb, msg.err)
		return m.toasts.push(ToastFailure, titleApp, fmt.Sprintf("Couldn't %s monitoring", verb))
	case !msg.ok:
		m.log.Warn("%s_monitoring: backend declined", verb)
		return m.toasts.push(ToastFailure, titleApp, fmt.Sprintf("Couldn't %s monitoring", verb))
	}

	body := "Monitoring stopped"
	if msg.start {
		body = "Monitoring started"
	}
	return tea.Batch(
		m.setMonitoring(msg.start),
		m.toasts.push(ToastSuccess, titleApp, body),
		m.fetchStatus(),
	)
}

func (m Model) clearHistory() tea.Cmd {
	client := m.client
	return m.call(func(ctx context.Context) tea.Msg {
		return clearHistoryMsg{err: client.ClearHistory(ctx)}
	})
}

func (m *Model) onClearHistory(msg clearHistoryMsg) tea.Cmd {
	if msg.err != nil {
		m.log.Error("clear_history failed: %v", msg.err)
		return m.toasts.push(ToastFailure, titleHistory, "Couldn't clear history")
	}
	m.history = nil
	return m.toasts.push(ToastSuccess, titleHistory, "History cleared")
}

func (m Model) pingTest() tea.Cmd {
	client, host := m.client, m.pingHost
	return m.call(func(ctx context.Context) tea.Msg {
		r, err := client.TestSinglePing(ctx, host)
		return pingTestMsg{host: host, result: r, err: err}
	})
}

// PingSummary formats a successful ping result for display.
func PingSummary(r backend.PingResult) string {
	return fmt.Sprintf("Latency: %.1fms, Loss: %s%%", r.AvgRTT, strconv.FormatFloat(r.PacketLoss, 'f', -1, 64))
}

func (m *Model) onPingTest(msg pingTestMsg) tea.Cmd {
	if msg.err != nil {
		m.log.Error("test_single_ping %s failed: %v", msg.host, msg.err)
		return m.toasts.push(ToastFailure, titlePingFail, "Could not reach server")
	}
	if !msg.result.Success {
		m.log.Warn("test_single_ping %s: unsuccessful", msg.host)
		return m.toasts.push(ToastFailure, titlePingFail, "Could not reach server")
	}
	return m.toasts.push(ToastSuccess, titlePing, PingSummary(msg.result))
}

func (m Model) dnsTest() tea.Cmd {
	client := m.client
	return m.call(func(ctx context.Context) tea.Msg {
		r, err := client.TestDNS(ctx)
		return dnsTestMsg{result: r, err: err}
	})
}

// DNSSummary formats a successful DNS result for display.
func DNSSummary(r backend.DNSResult) string {
	return fmt.Sprintf("Resolved in %.1fms via %s", r.ResolutionTime, r.DNSServer)
}

func (m *Model) onDNSTest(msg dnsTestMsg) tea.Cmd {
	if msg.err != nil {
		m.log.Error("test_dns failed: %v", msg.err)
		return m.toasts.push(ToastFailure, titleDNSFail, "Could not reach server")
	}
	if !msg.result.Success {
		body := msg.result.Error
		if body == "" {
			body = "DNS resolution failed"
		}
		m.log.Warn("test_dns: %s", body)
		return m.toasts.push(ToastFailure, titleDNSFail, body)
	}
	return m.toasts.push(ToastSuccess, titleDNS, DNSSummary(msg.result))
}

func (m *Model) scan() tea.Cmd {
	ok, spin := m.radar.beginScan()
	if !ok {
		return nil
	}
	client := m.client
	return tea.Batch(spin, m.call(func(ctx context.Context) tea.Msg {
		r, err := client.ScanWifiNetworks(ctx)
		return scanMsg{result: r, err: err}
	}))
}
