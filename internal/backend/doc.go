// Package backend defines the contract between netsentinel and the network
// monitoring backend: the typed schemas exchanged over the wire, the Backend
// interface the dashboard consumes, and an HTTP implementation of it.
//
// The backend owns every measurement (ping, jitter, packet loss, DNS timing,
// bandwidth, Wi-Fi survey, quality scoring). This package only moves snapshots
// across the boundary and normalizes malformed optional fields to defaults.
//
// # Wire Format
//
// Every call is an HTTP POST to {base}/api/{method} whose body is a JSON array
// of positional arguments (usually empty). The response body is the JSON
// encoding of the call's result:
//
//	POST /api/get_network_status   []            -> NetworkStatus
//	POST /api/test_single_ping     ["8.8.8.8"]   -> PingResult
//	POST /api/update_settings      [{...}]       -> true
package backend
