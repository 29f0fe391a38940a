package dashboard

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/netsentinel/netsentinel/internal/backend"
	"github.com/netsentinel/netsentinel/internal/logger"
	"github.com/netsentinel/netsentinel/internal/settings"
)

// Default timings.
const (
	DefaultLiveInterval = 1500 * time.Millisecond
	DefaultCallTimeout  = 10 * time.Second
)

// HistorySink receives every successfully fetched history buffer. The
// archive implements it.
type HistorySink interface {
	Record(ctx context.Context, points []backend.HistoryDataPoint) (int, error)
}

// AddressLookup discovers the public address shown under connection info.
type AddressLookup func(ctx context.Context) (string, error)

// Options configures a dashboard Model.
type Options struct {
	Backend backend.Backend
	// Settings is created from Backend when nil.
	Settings *settings.Store
	// Archive is optional.
	Archive HistorySink
	// PublicAddress is optional.
	PublicAddress AddressLookup
	Log           logger.Logger

	LiveInterval time.Duration
	RadarTick    time.Duration
	ToastTTL     time.Duration
	CallTimeout  time.Duration
	PingHost     string
	Version      string
}

// Model is the Bubble Tea model for the dashboard. Backend calls run as
// commands and come back as messages, so every field is only touched from
// Update.
type Model struct {
	ctx        context.Context
	client     backend.Backend
	store      *settings.Store
	archive    HistorySink
	lookupAddr AddressLookup
	log        logger.Logger

	keys        keyMap
	help        help.Model
	callTimeout time.Duration
	pingHost    string
	version     string

	router        Router
	settingsPanel settingsPanel
	radar         radar
	toasts        toastQueue
	historyView   viewport.Model

	status         *backend.NetworkStatus
	livePing       float64
	samples        *samples
	history        []backend.HistoryDataPoint
	historyLoading bool
	connInfo       *backend.ConnectionInfo
	publicAddr     string
	lastUpdate     time.Time

	// monitoring mirrors the backend; it changes only on a status answer
	// or an acknowledged start/stop.
	monitoring   bool
	startPending bool
	stopPending  bool
	// autoLatched is set once auto-monitor has fired or monitoring was seen
	// running, and cleared when auto_monitor is turned off.
	autoLatched bool

	liveInterval time.Duration
	liveGen      int
	liveArmed    bool

	overlayEvent *backend.OverlayEvent
	pushClosed   bool

	width    int
	height   int
	showHelp bool
	quitting bool
}

// New creates a dashboard model. ctx bounds every backend call the model
// issues.
func New(ctx context.Context, opts Options) Model {
	log := opts.Log
	if log == nil {
		log = logger.Noop()
	}
	store := opts.Settings
	if store == nil {
		store = settings.New(opts.Backend, log)
	}
	live := opts.LiveInterval
	if live <= 0 {
		live = DefaultLiveInterval
	}
	timeout := opts.CallTimeout
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	host := opts.PingHost
	if host == "" {
		host = backend.DefaultPingHost
	}

	return Model{
		ctx:          ctx,
		client:       opts.Backend,
		store:        store,
		archive:      opts.Archive,
		lookupAddr:   opts.PublicAddress,
		log:          log,
		keys:         defaultKeyMap(),
		help:         help.New(),
		callTimeout:  timeout,
		pingHost:     host,
		version:      opts.Version,
		radar:        newRadar(opts.RadarTick),
		toasts:       newToastQueue(opts.ToastTTL),
		historyView:  viewport.New(panelWidth, 16),
		samples:      newSamples(DefaultSampleSize),
		liveInterval: live,
		width:        panelWidth,
	}
}

// Init fires the bootstrap fetches.
func (m Model) Init() tea.Cmd {
	return m.bootstrap()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	if m.router.Active() == PanelHistory {
		m.syncHistoryView()
	}
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case statusMsg:
		return m, m.onStatus(msg)
	case livePingMsg:
		m.onLivePing(msg)
		return m, nil
	case historyMsg:
		return m, m.onHistory(msg)
	case connInfoMsg:
		m.onConnInfo(msg)
		return m, nil
	case publicAddrMsg:
		m.onPublicAddr(msg)
		return m, nil
	case settingsLoadedMsg:
		return m, m.onSettingsLoaded(msg)
	case settingsAckMsg:
		return m, m.onSettingsAck(msg)
	case monitorMsg:
		return m, m.onMonitor(msg)
	case clearHistoryMsg:
		return m, m.onClearHistory(msg)
	case pingTestMsg:
		return m, m.onPingTest(msg)
	case dnsTestMsg:
		return m, m.onDNSTest(msg)
	case scanMsg:
		m.radar.finishScan(msg)
		if msg.err != nil {
			m.log.Error("scan_wifi_networks failed: %v", msg.err)
		}
		return m, nil

	case liveTickMsg:
		return m, m.onLiveTick(msg)
	case radarTickMsg:
		return m, m.radar.onTick(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.radar.spinner, cmd = m.radar.spinner.Update(msg)
		return m, cmd
	case toastExpiredMsg:
		m.toasts.expire(msg.id)
		return m, nil

	case OverlayEventMsg:
		ev := msg.Event
		m.overlayEvent = &ev
		return m, nil
	case PushClosedMsg:
		m.pushClosed = true
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.radar.Hide()
		m.disarmLive()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Back) {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		m.router.Back()
		return m, nil
	case key.Matches(msg, m.keys.ToggleHistory):
		m.router.ToggleHistory()
		return m, m.afterRoute()
	case key.Matches(msg, m.keys.ToggleSettings):
		m.router.ToggleSettings()
		return m, m.afterRoute()
	case key.Matches(msg, m.keys.Monitor):
		if m.monitoring {
			return m, m.stopMonitoring()
		}
		return m, m.startMonitoring()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh()
	case key.Matches(msg, m.keys.Ping):
		return m, m.pingTest()
	case key.Matches(msg, m.keys.DNS):
		return m, m.dnsTest()
	case key.Matches(msg, m.keys.ClearHistory):
		return m, m.clearHistory()
	case key.Matches(msg, m.keys.Overlay):
		return m, m.editSetting(backend.KeyOverlayEnabled, !m.store.Snapshot().OverlayEnabled())
	}

	switch m.router.Active() {
	case PanelStatus:
		switch {
		case key.Matches(msg, m.keys.Radar):
			return m, m.radar.Toggle()
		case key.Matches(msg, m.keys.Scan):
			var open tea.Cmd
			if !m.radar.visible {
				open = m.radar.Toggle()
			}
			return m, tea.Batch(open, m.scan())
		}
	case PanelSettings:
		return m, m.handleSettingsKey(msg)
	case PanelHistory:
		var cmd tea.Cmd
		m.historyView, cmd = m.historyView.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleSettingsKey(msg tea.KeyMsg) tea.Cmd {
	dir := 0
	switch {
	case key.Matches(msg, m.keys.Up):
		m.settingsPanel.up()
		return nil
	case key.Matches(msg, m.keys.Down):
		m.settingsPanel.down()
		return nil
	case key.Matches(msg, m.keys.Increase):
		dir = 1
	case key.Matches(msg, m.keys.Decrease):
		dir = -1
	case key.Matches(msg, m.keys.Toggle):
		dir = 0
	default:
		return nil
	}

	k := m.settingsPanel.selectedKey()
	value, changed := nextValue(m.store.Snapshot(), k, dir)
	if !changed {
		return nil
	}
	return m.editSetting(k, value)
}

// afterRoute runs the side effects of a panel change: the radar stops when
// Status is hidden and history is refreshed when it becomes visible.
func (m *Model) afterRoute() tea.Cmd {
	switch m.router.Active() {
	case PanelHistory:
		m.radar.Hide()
		m.historyLoading = true
		m.syncHistoryView()
		return m.fetchHistory()
	case PanelSettings:
		m.radar.Hide()
	}
	return nil
}

// editSetting applies an edit locally and persists it in the background.
func (m *Model) editSetting(k string, value interface{}) tea.Cmd {
	change := m.store.Apply(k, value)
	store := m.store
	persist := m.call(func(ctx context.Context) tea.Msg {
		return settingsAckMsg{ack: store.Persist(ctx, change)}
	})
	return tea.Batch(persist, m.autoMonitor())
}

// syncHistoryView sizes the history viewport and re-renders its content,
// keeping the scroll offset.
func (m *Model) syncHistoryView() {
	w := m.contentWidth()
	h := m.height - 12
	if h < 6 {
		h = 6
	}
	m.historyView.Width = w
	m.historyView.Height = h
	m.historyView.SetContent(renderHistoryPanel(m.history, m.store.Snapshot().SpeedUnit(), m.historyLoading))
}

func (m Model) contentWidth() int {
	w := m.width - 4
	if w > panelWidth {
		w = panelWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Panel returns the visible panel.
func (m Model) Panel() Panel {
	return m.router.Active()
}

// Monitoring reports the backend's last acknowledged monitoring state.
func (m Model) Monitoring() bool {
	return m.monitoring
}

// Overlay returns the current merged overlay state.
func (m Model) Overlay() OverlayState {
	return MergeOverlay(m.overlayEvent, m.store.Snapshot())
}

// Toasts returns the visible notifications, oldest first.
func (m Model) Toasts() []Toast {
	return m.toasts.Items()
}
