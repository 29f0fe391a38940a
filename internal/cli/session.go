package cli

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/netsentinel/netsentinel/internal/archive"
	"github.com/netsentinel/netsentinel/internal/backend"
	"github.com/netsentinel/netsentinel/internal/config"
	"github.com/netsentinel/netsentinel/internal/errors"
	"github.com/netsentinel/netsentinel/internal/logger"
	"github.com/netsentinel/netsentinel/internal/push"
	"github.com/netsentinel/netsentinel/internal/tunnel"
)

// loadConfig loads the config file (or defaults), applies the global flag
// overrides and validates the result.
func loadConfig() (*config.Config, error) {
	cfg, _, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, err
	}
	applyFlagOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlagOverrides(cfg *config.Config) {
	if backendFlag != "" {
		cfg.Backend.URL = backendFlag
	}
	if sshFlag != "" {
		cfg.Backend.SSH = sshFlag
	}
	if brokerFlag != "" {
		cfg.Push.Broker = brokerFlag
	}
}

// session is the backend connection shared by a single command run.
type session struct {
	cfg    *config.Config
	client *backend.Client
	tun    *tunnel.Tunnel
	log    logger.Logger
}

// openSession loads config and connects to the backend, through SSH when
// backend.ssh is set.
func openSession(ctx context.Context, log logger.Logger) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewEnvLogger("[netsentinel]")
	}

	s := &session{cfg: cfg, log: log}
	opts := []backend.ClientOption{backend.WithTimeout(cfg.Backend.Timeout)}

	if cfg.Backend.SSH != "" {
		tunnel.WarningHandler = func(msg string) { log.Warn("%s", msg) }
		tun, err := tunnel.Open(ctx, cfg.Backend.SSH, tunnel.Options{Timeout: cfg.Backend.Timeout})
		if err != nil {
			return nil, err
		}
		s.tun = tun
		opts = append(opts, backend.WithDialContext(tun.DialContext))
		log.Debug("backend: tunneling through %s (%s)", tun.Host, tun.Address)
	}

	s.client = backend.NewClient(cfg.Backend.URL, opts...)
	return s, nil
}

// Close releases the tunnel, if any.
func (s *session) Close() {
	if s.tun != nil {
		if err := s.tun.Close(); err != nil {
			s.log.Warn("tunnel: close: %v", err)
		}
	}
	tunnel.CloseAgent()
}

// openArchive opens the configured archive, or returns nil when archiving
// is off. Points past archive.retention are dropped on the way in.
func (s *session) openArchive(ctx context.Context) (*archive.Archive, error) {
	if s.cfg.Archive.Path == "" {
		return nil, nil
	}
	arch, err := archive.Open(s.cfg.Archive.Path)
	if err != nil {
		return nil, err
	}
	if keep := s.cfg.Archive.Retention; keep > 0 {
		n, err := arch.Prune(ctx, time.Now().Add(-keep))
		switch {
		case err != nil:
			s.log.Warn("archive: %v", err)
		case n > 0:
			s.log.Debug("archive: dropped %d point(s) older than %s", n, keep)
		}
	}
	return arch, nil
}

// pushSource builds the overlay source, or nil when no broker is set.
func (s *session) pushSource() (push.Source, error) {
	if s.cfg.Push.Broker == "" {
		return nil, nil
	}
	src, err := push.NewMQTTSource(push.MQTTConfig{
		Broker:   s.cfg.Push.Broker,
		Topic:    s.cfg.Push.Topic,
		ClientID: s.cfg.Push.ClientID,
	}, logger.NewEnvLogger("[push]"))
	if err != nil {
		return nil, err
	}
	return src, nil
}

// logToFile sends the standard logger to path for as long as the dashboard
// owns the terminal. The returned func restores stderr.
func logToFile(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() { log.SetOutput(os.Stderr) }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't create the log directory",
			"Check log_file in your config")
	}
	f, err := tea.LogToFile(path, "netsentinel")
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't open log file "+path,
			"Check log_file in your config")
	}
	return func() {
		f.Close()
		log.SetOutput(os.Stderr)
	}, nil
}
