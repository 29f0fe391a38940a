package dashboard

import (
	"github.com/netsentinel/netsentinel/internal/backend"
	"github.com/netsentinel/netsentinel/internal/settings"
)

// OverlayEventMsg carries one push event into the program. It is sent by
// the Bridge from outside the event loop.
type OverlayEventMsg struct {
	Event backend.OverlayEvent
}

// PushClosedMsg signals that the push source's channel was closed.
type PushClosedMsg struct{}

// Backend responses. Each carries the call's error; a non-nil err means the
// payload fields are zero and must not replace cached state.

type statusMsg struct {
	status backend.NetworkStatus
	err    error
}

type livePingMsg struct {
	ping float64
	err  error
}

type historyMsg struct {
	points []backend.HistoryDataPoint
	err    error
}

type connInfoMsg struct {
	info backend.ConnectionInfo
	err  error
}

type publicAddrMsg struct {
	addr string
	err  error
}

type settingsLoadedMsg struct {
	settings backend.Settings
	err      error
}

type settingsAckMsg struct {
	ack settings.Ack
}

// monitorMsg is the answer to start_monitoring (start=true) or
// stop_monitoring (start=false).
type monitorMsg struct {
	start bool
	ok    bool
	err   error
}

type clearHistoryMsg struct {
	err error
}

type pingTestMsg struct {
	host   string
	result backend.PingResult
	err    error
}

type dnsTestMsg struct {
	result backend.DNSResult
	err    error
}

type scanMsg struct {
	result backend.WifiScanResult
	err    error
}

// Timer messages carry the generation they were armed with. A message whose
// generation no longer matches is stale and ends its chain.

type liveTickMsg struct {
	gen int
}

type radarTickMsg struct {
	gen int
}

type toastExpiredMsg struct {
	id int
}
