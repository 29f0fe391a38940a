package tunnel

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/netsentinel/netsentinel/internal/errors"
)

// DefaultTimeout bounds the TCP connect and SSH handshake.
const DefaultTimeout = 10 * time.Second

// Options tune Open. Zero values pick the defaults.
type Options struct {
	Timeout time.Duration

	// ConfigPath overrides ~/.ssh/config.
	ConfigPath string

	// KnownHostsPath overrides ~/.ssh/known_hosts.
	KnownHostsPath string

	// InsecureIgnoreHostKey skips host key verification.
	InsecureIgnoreHostKey bool
}

// Tunnel is an SSH connection used to reach the backend.
type Tunnel struct {
	Host    string // alias or host as given
	Address string // resolved host:port

	client *ssh.Client

	mu     sync.Mutex
	closed bool
}

// Open connects to host, which may be an SSH config alias, a hostname,
// user@hostname or hostname:port.
func Open(ctx context.Context, host string, opts Options) (*Tunnel, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = DefaultConfigPath()
	}
	if opts.KnownHostsPath == "" {
		opts.KnownHostsPath = filepath.Join(homeDir(), ".ssh", "known_hosts")
	}

	s := resolveSettings(host, opts.ConfigPath)

	clientConfig, err := clientConfig(s, opts)
	if err != nil {
		var nsErr *errors.Error
		if stderrors.As(err, &nsErr) {
			return nil, err
		}
		return nil, errors.WrapWithCode(err, errors.ErrTunnel,
			fmt.Sprintf("Couldn't set up SSH for '%s'", host),
			"Check your keys are loaded: ssh-add -l")
	}

	address := s.address()
	dialer := net.Dialer{Timeout: opts.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTunnel,
			fmt.Sprintf("Can't reach '%s' at %s", host, address),
			suggestionForDialError(err))
	}

	// Bound the handshake by the same timeout; ssh.NewClientConn doesn't
	// take a context.
	_ = conn.SetDeadline(time.Now().Add(opts.Timeout))
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, address, clientConfig)
	if err != nil {
		conn.Close()

		var hostKeyErr *HostKeyError
		if stderrors.As(err, &hostKeyErr) {
			return nil, errors.New(errors.ErrTunnel, hostKeyErr.Error(), hostKeyErr.Suggestion())
		}
		return nil, errors.WrapWithCode(err, errors.ErrTunnel,
			fmt.Sprintf("SSH handshake with '%s' didn't go through", host),
			suggestionForHandshakeError(err, s.encryptedKeys))
	}
	_ = conn.SetDeadline(time.Time{})

	return &Tunnel{
		Host:    host,
		Address: address,
		client:  ssh.NewClient(sshConn, chans, reqs),
	}, nil
}

func clientConfig(s *settings, opts Options) (*ssh.ClientConfig, error) {
	methods := authMethods(s)
	if len(methods) == 0 {
		return nil, noAuthError(s)
	}

	var callback ssh.HostKeyCallback
	if opts.InsecureIgnoreHostKey {
		callback = ssh.InsecureIgnoreHostKey() //nolint:gosec // explicitly requested
	} else {
		var err error
		callback, err = hostKeyCallback(opts.KnownHostsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load known_hosts: %w", err)
		}
	}

	return &ssh.ClientConfig{
		User:            s.user,
		Auth:            methods,
		HostKeyCallback: callback,
		Timeout:         opts.Timeout,
	}, nil
}

// DialContext opens a connection to addr as seen from the remote host. It
// has the signature http.Transport expects.
func (t *Tunnel) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return nil, errors.New(errors.ErrTunnel,
			"SSH tunnel to "+t.Host+" is closed", "")
	}

	conn, err := t.client.DialContext(ctx, network, addr)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTunnel,
			fmt.Sprintf("Couldn't reach %s through %s", addr, t.Host),
			"Is the backend running on "+t.Host+"?")
	}
	return conn, nil
}

// Alive sends a keepalive request and reports whether the server answered.
func (t *Tunnel) Alive() bool {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return false
	}
	_, _, err := t.client.SendRequest("keepalive@openssh.com", true, nil)
	return err == nil
}

// Close tears down the SSH connection. Safe to call more than once.
func (t *Tunnel) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	if t.client == nil {
		return nil
	}
	return t.client.Close()
}
