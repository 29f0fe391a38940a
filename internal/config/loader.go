package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/netsentinel/netsentinel/internal/errors"
)

const (
	// ConfigFileName is the config file looked up in the current directory.
	ConfigFileName = "netsentinel.yaml"
	// GlobalConfigDir is the directory for the per-user config.
	GlobalConfigDir = ".config/netsentinel"
	// GlobalConfigFile is the per-user config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. NETSENTINEL_BACKEND_URL.
	EnvPrefix = "NETSENTINEL"
)

// Load reads config from the specified path. Environment variables override
// file values.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'netsentinel init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. netsentinel.yaml in current directory
// 3. ~/.config/netsentinel/config.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	if global := GlobalConfigPath(); global != "" {
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// GlobalConfigPath returns the per-user config path, or "" when the home
// directory is unknown.
func GlobalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
}

// LoadOrDefault loads config from the found path, or returns defaults (with
// environment overrides applied) if there is none. This lets every command
// work without a config file.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	if path == "" {
		cfg, err := parseConfig(newViper(), "environment")
		return cfg, "", err
	}

	cfg, err := Load(path)
	return cfg, path, err
}

// newViper returns a viper instance with defaults and env binding set up.
func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, source string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+source)
	}

	cfg.Archive.Path = Expand(cfg.Archive.Path)
	cfg.LogFile = Expand(cfg.LogFile)

	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	def := DefaultConfig()

	v.SetDefault("version", def.Version)
	v.SetDefault("backend.url", def.Backend.URL)
	v.SetDefault("backend.timeout", def.Backend.Timeout.String())
	v.SetDefault("backend.ssh", "")
	v.SetDefault("push.broker", "")
	v.SetDefault("push.topic", def.Push.Topic)
	v.SetDefault("push.client_id", "")
	v.SetDefault("dashboard.live_interval", def.Dashboard.LiveInterval.String())
	v.SetDefault("dashboard.radar_tick", def.Dashboard.RadarTick.String())
	v.SetDefault("dashboard.toast_ttl", def.Dashboard.ToastTTL.String())
	v.SetDefault("dashboard.ping_host", def.Dashboard.PingHost)
	v.SetDefault("archive.path", "")
	v.SetDefault("archive.retention", "0s")
	v.SetDefault("stun.servers", []string{})
	v.SetDefault("stun.timeout", def.STUN.Timeout.String())
	v.SetDefault("output.color", def.Output.Color)
	v.SetDefault("log_file", def.LogFile)
}
