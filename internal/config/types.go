package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete netsentinel.yaml configuration file.
type Config struct {
	Version   int             `yaml:"version" mapstructure:"version"`
	Backend   BackendConfig   `yaml:"backend" mapstructure:"backend"`
	Push      PushConfig      `yaml:"push" mapstructure:"push"`
	Dashboard DashboardConfig `yaml:"dashboard" mapstructure:"dashboard"`
	Archive   ArchiveConfig   `yaml:"archive" mapstructure:"archive"`
	STUN      STUNConfig      `yaml:"stun" mapstructure:"stun"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`

	// LogFile receives log output while the dashboard owns the terminal.
	// Supports ${HOME}, ${USER}, ${STATE_HOME} and ~.
	LogFile string `yaml:"log_file" mapstructure:"log_file"`
}

// BackendConfig locates the monitoring backend.
type BackendConfig struct {
	// URL is the base of the RPC endpoint; calls go to {URL}/api/{method}.
	URL string `yaml:"url" mapstructure:"url"`

	// Timeout bounds each call.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// SSH, when set, tunnels backend traffic through this host.
	// Can be: hostname, user@hostname[:port], or SSH config alias.
	SSH string `yaml:"ssh" mapstructure:"ssh"`
}

// PushConfig selects the broker carrying overlay updates.
type PushConfig struct {
	// Broker is the MQTT broker URL. Empty disables push.
	Broker string `yaml:"broker" mapstructure:"broker"`

	// Topic is the named push channel.
	Topic string `yaml:"topic" mapstructure:"topic"`

	// ClientID identifies this client to the broker. Empty picks one.
	ClientID string `yaml:"client_id" mapstructure:"client_id"`
}

// DashboardConfig controls the interactive dashboard.
type DashboardConfig struct {
	// LiveInterval is how often live ping is polled while monitoring.
	LiveInterval time.Duration `yaml:"live_interval" mapstructure:"live_interval"`

	// RadarTick is the Wi-Fi radar sweep rate.
	RadarTick time.Duration `yaml:"radar_tick" mapstructure:"radar_tick"`

	// ToastTTL is how long notifications stay up.
	ToastTTL time.Duration `yaml:"toast_ttl" mapstructure:"toast_ttl"`

	// PingHost is the target of the ping diagnostic.
	PingHost string `yaml:"ping_host" mapstructure:"ping_host"`
}

// ArchiveConfig controls the local history archive.
type ArchiveConfig struct {
	// Path of the sqlite database. Empty disables archiving.
	Path string `yaml:"path" mapstructure:"path"`

	// Retention drops points older than this when the archive is opened.
	// Zero keeps everything.
	Retention time.Duration `yaml:"retention" mapstructure:"retention"`
}

// STUNConfig controls public address discovery.
type STUNConfig struct {
	// Servers are host:port STUN endpoints, tried in order. Empty disables
	// discovery.
	Servers []string `yaml:"servers" mapstructure:"servers"`

	// Timeout bounds each server attempt.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	// "auto" disables color when output is piped.
	Color string `yaml:"color" mapstructure:"color"`
}

// Defaults
const (
	DefaultBackendURL = "http://127.0.0.1:8765"
	DefaultPushTopic  = "netsentinel/overlay_update"
	DefaultPingHost   = "8.8.8.8"
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Backend: BackendConfig{
			URL:     DefaultBackendURL,
			Timeout: 10 * time.Second,
		},
		Push: PushConfig{
			Topic: DefaultPushTopic,
		},
		Dashboard: DashboardConfig{
			LiveInterval: 1500 * time.Millisecond,
			RadarTick:    250 * time.Millisecond,
			ToastTTL:     3 * time.Second,
			PingHost:     DefaultPingHost,
		},
		STUN: STUNConfig{
			Servers: []string{},
			Timeout: 3 * time.Second,
		},
		Output: OutputConfig{
			Color: "auto",
		},
		LogFile: "${STATE_HOME}/netsentinel/netsentinel.log",
	}
}
