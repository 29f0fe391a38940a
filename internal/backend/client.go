package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/netsentinel/netsentinel/internal/errors"
)

// DefaultTimeout bounds a single backend call.
const DefaultTimeout = 10 * time.Second

// Client is a thin HTTP client for the backend RPC endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithDialContext routes connections through dial, e.g. an SSH tunnel.
func WithDialContext(dial func(ctx context.Context, network, addr string) (net.Conn, error)) ClientOption {
	return func(c *Client) {
		if dial == nil {
			return
		}
		c.http.Transport = &http.Transport{
			DialContext:         dial,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
		}
	}
}

// NewClient creates a client for the given base URL (e.g. http://127.0.0.1:8765).
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the endpoint this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// StartMonitoring implements Backend.
func (c *Client) StartMonitoring(ctx context.Context) (bool, error) {
	var ok bool
	err := c.call(ctx, MethodStartMonitoring, nil, &ok)
	return ok, err
}

// StopMonitoring implements Backend.
func (c *Client) StopMonitoring(ctx context.Context) (bool, error) {
	var ok bool
	err := c.call(ctx, MethodStopMonitoring, nil, &ok)
	return ok, err
}

// GetNetworkStatus implements Backend.
func (c *Client) GetNetworkStatus(ctx context.Context) (NetworkStatus, error) {
	var status NetworkStatus
	if err := c.call(ctx, MethodGetNetworkStatus, nil, &status); err != nil {
		return NetworkStatus{}, err
	}
	return NormalizeStatus(status), nil
}

// GetNetworkHistory implements Backend.
func (c *Client) GetNetworkHistory(ctx context.Context) ([]HistoryDataPoint, error) {
	var points []HistoryDataPoint
	if err := c.call(ctx, MethodGetNetworkHistory, nil, &points); err != nil {
		return nil, err
	}
	return NormalizeHistory(points), nil
}

// ClearHistory implements Backend. The backend returns null or a boolean;
// either is treated as success.
func (c *Client) ClearHistory(ctx context.Context) error {
	return c.call(ctx, MethodClearHistory, nil, nil)
}

// GetLivePing implements Backend.
func (c *Client) GetLivePing(ctx context.Context) (float64, error) {
	var ping float64
	if err := c.call(ctx, MethodGetLivePing, nil, &ping); err != nil {
		return 0, err
	}
	if ping < 0 {
		ping = 0
	}
	return ping, nil
}

// UpdateSettings implements Backend.
func (c *Client) UpdateSettings(ctx context.Context, settings Settings) (bool, error) {
	var ok bool
	err := c.call(ctx, MethodUpdateSettings, []interface{}{settings}, &ok)
	return ok, err
}

// GetSettings implements Backend.
func (c *Client) GetSettings(ctx context.Context) (Settings, error) {
	settings := Settings{}
	if err := c.call(ctx, MethodGetSettings, nil, &settings); err != nil {
		return nil, err
	}
	if settings == nil {
		settings = Settings{}
	}
	return settings, nil
}

// GetConnectionInfo implements Backend.
func (c *Client) GetConnectionInfo(ctx context.Context) (ConnectionInfo, error) {
	var info ConnectionInfo
	err := c.call(ctx, MethodGetConnectionInfo, nil, &info)
	return info, err
}

// TestSinglePing implements Backend.
func (c *Client) TestSinglePing(ctx context.Context, host string) (PingResult, error) {
	var args []interface{}
	if host != "" {
		args = []interface{}{host}
	}
	var res PingResult
	err := c.call(ctx, MethodTestSinglePing, args, &res)
	return res, err
}

// TestDNS implements Backend.
func (c *Client) TestDNS(ctx context.Context) (DNSResult, error) {
	var res DNSResult
	err := c.call(ctx, MethodTestDNS, nil, &res)
	return res, err
}

// ScanWifiNetworks implements Backend.
func (c *Client) ScanWifiNetworks(ctx context.Context) (WifiScanResult, error) {
	var res WifiScanResult
	if err := c.call(ctx, MethodScanWifiNetworks, nil, &res); err != nil {
		return WifiScanResult{}, err
	}
	return NormalizeScan(res), nil
}

// call posts args to /api/{method} and decodes the response into out.
// A nil out discards the body.
func (c *Client) call(ctx context.Context, method string, args []interface{}, out interface{}) error {
	if args == nil {
		args = []interface{}{}
	}
	payload, err := json.Marshal(args)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrBackend,
			fmt.Sprintf("Couldn't encode %s arguments", method), "")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/"+method, bytes.NewReader(payload))
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrBackend,
			fmt.Sprintf("Couldn't build %s request", method),
			"Check backend.url in your config")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrBackend,
			fmt.Sprintf("%s failed", method),
			"Is the monitoring backend running at "+c.baseURL+"?")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		msg := strings.TrimSpace(string(body))
		cause := fmt.Errorf("request failed: %s", res.Status)
		if msg != "" {
			cause = fmt.Errorf("request failed: %s: %s", res.Status, msg)
		}
		return errors.WrapWithCode(cause, errors.ErrBackend,
			fmt.Sprintf("%s failed", method), "")
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return errors.WrapWithCode(err, errors.ErrBackend,
			fmt.Sprintf("%s returned a malformed response", method),
			"Check that the backend version matches this client")
	}
	return nil
}

var _ Backend = (*Client)(nil)
