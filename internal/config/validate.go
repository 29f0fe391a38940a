package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/netsentinel/netsentinel/internal/errors"
)

// Validation bounds.
const (
	MinLiveInterval = 100 * time.Millisecond
	MinRadarTick    = 50 * time.Millisecond
)

// brokerSchemes are the URL schemes the MQTT client can dial.
var brokerSchemes = map[string]bool{
	"tcp":   true,
	"ssl":   true,
	"tls":   true,
	"mqtt":  true,
	"mqtts": true,
	"ws":    true,
	"wss":   true,
}

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but netsentinel only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest netsentinel release")
	}

	if err := validateBackend(cfg.Backend); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'backend' section in your netsentinel.yaml.")
	}

	if err := validatePush(cfg.Push); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'push' section in your netsentinel.yaml.")
	}

	if err := validateDashboard(cfg.Dashboard); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'dashboard' section in your netsentinel.yaml.")
	}

	if err := validateArchive(cfg.Archive); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'archive' section in your netsentinel.yaml.")
	}

	if err := validateSTUN(cfg.STUN); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'stun' section in your netsentinel.yaml.")
	}

	if err := validateOutput(cfg.Output); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'output' section in your netsentinel.yaml.")
	}

	return nil
}

func validateBackend(b BackendConfig) error {
	if b.URL == "" {
		return fmt.Errorf("backend.url is required")
	}
	u, err := url.Parse(b.URL)
	if err != nil {
		return fmt.Errorf("backend.url %q isn't a valid URL: %v", b.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend.url must start with http:// or https://, got %q", b.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("backend.url %q has no host", b.URL)
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("backend.timeout must be positive, got %s", b.Timeout)
	}
	if strings.ContainsAny(b.SSH, " \t") {
		return fmt.Errorf("backend.ssh %q can't contain whitespace", b.SSH)
	}
	return nil
}

func validatePush(p PushConfig) error {
	if p.Broker == "" {
		return nil
	}
	if strings.Contains(p.Broker, "://") {
		u, err := url.Parse(p.Broker)
		if err != nil {
			return fmt.Errorf("push.broker %q isn't a valid URL: %v", p.Broker, err)
		}
		if !brokerSchemes[u.Scheme] {
			return fmt.Errorf("push.broker scheme %q isn't supported (use tcp, ssl, ws or wss)", u.Scheme)
		}
	}
	if p.Topic == "" {
		return fmt.Errorf("push.topic can't be empty when a broker is set")
	}
	if strings.ContainsAny(p.Topic, "+#") {
		return fmt.Errorf("push.topic %q must be a single topic, not a wildcard filter", p.Topic)
	}
	return nil
}

func validateDashboard(d DashboardConfig) error {
	if d.LiveInterval < MinLiveInterval {
		return fmt.Errorf("dashboard.live_interval must be at least %s, got %s", MinLiveInterval, d.LiveInterval)
	}
	if d.RadarTick < MinRadarTick {
		return fmt.Errorf("dashboard.radar_tick must be at least %s, got %s", MinRadarTick, d.RadarTick)
	}
	if d.ToastTTL <= 0 {
		return fmt.Errorf("dashboard.toast_ttl must be positive, got %s", d.ToastTTL)
	}
	if strings.TrimSpace(d.PingHost) == "" {
		return fmt.Errorf("dashboard.ping_host can't be empty")
	}
	return nil
}

func validateArchive(a ArchiveConfig) error {
	if a.Retention < 0 {
		return fmt.Errorf("archive.retention can't be negative, got %s", a.Retention)
	}
	if a.Retention > 0 && a.Retention < time.Hour {
		return fmt.Errorf("archive.retention must be at least 1h, got %s", a.Retention)
	}
	return nil
}

func validateSTUN(s STUNConfig) error {
	for _, server := range s.Servers {
		if _, _, err := net.SplitHostPort(server); err != nil {
			return fmt.Errorf("stun server %q must be host:port", server)
		}
	}
	if len(s.Servers) > 0 && s.Timeout <= 0 {
		return fmt.Errorf("stun.timeout must be positive, got %s", s.Timeout)
	}
	return nil
}

func validateOutput(out OutputConfig) error {
	switch out.Color {
	case "", "auto", "always", "never":
		return nil
	}
	return fmt.Errorf("output.color must be auto, always or never, got %q", out.Color)
}
