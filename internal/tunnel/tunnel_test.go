package tunnel

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/netsentinel/netsentinel/internal/errors"
)

// sshServer is an in-process SSH server that only forwards direct-tcpip
// channels, which is all a Tunnel uses.
type sshServer struct {
	addr    string
	hostKey ssh.Signer
	ln      net.Listener
	wg      sync.WaitGroup
}

func newSSHServer(t *testing.T, clientKey ssh.PublicKey) *sshServer {
	t.Helper()

	_, hostPriv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	hostKey, err := ssh.NewSignerFromKey(hostPriv)
	require.NoError(t, err)

	config := &ssh.ServerConfig{
		PublicKeyCallback: func(_ ssh.ConnMetadata, key ssh.PublicKey) (*ssh.Permissions, error) {
			if string(key.Marshal()) == string(clientKey.Marshal()) {
				return nil, nil
			}
			return nil, fmt.Errorf("unknown key")
		},
	}
	config.AddHostKey(hostKey)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &sshServer{addr: ln.Addr().String(), hostKey: hostKey, ln: ln}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go s.serve(conn, config)
		}
	}()
	t.Cleanup(func() {
		ln.Close()
		s.wg.Wait()
	})
	return s
}

func (s *sshServer) serve(conn net.Conn, config *ssh.ServerConfig) {
	_, chans, reqs, err := ssh.NewServerConn(conn, config)
	if err != nil {
		conn.Close()
		return
	}
	go ssh.DiscardRequests(reqs)

	for newCh := range chans {
		if newCh.ChannelType() != "direct-tcpip" {
			_ = newCh.Reject(ssh.UnknownChannelType, "only direct-tcpip")
			continue
		}
		var target struct {
			Host     string
			Port     uint32
			OrigHost string
			OrigPort uint32
		}
		if err := ssh.Unmarshal(newCh.ExtraData(), &target); err != nil {
			_ = newCh.Reject(ssh.ConnectionFailed, err.Error())
			continue
		}
		upstream, err := net.Dial("tcp", net.JoinHostPort(target.Host, strconv.Itoa(int(target.Port))))
		if err != nil {
			_ = newCh.Reject(ssh.ConnectionFailed, err.Error())
			continue
		}
		ch, chReqs, err := newCh.Accept()
		if err != nil {
			upstream.Close()
			continue
		}
		go ssh.DiscardRequests(chReqs)
		go func() {
			defer ch.Close()
			defer upstream.Close()
			go func() { _, _ = io.Copy(upstream, ch) }()
			_, _ = io.Copy(ch, upstream)
		}()
	}
}

// sshHome builds a fake home with a client key, returning its public half
// and the known_hosts path.
func sshHome(t *testing.T) (ssh.PublicKey, string) {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USER", "deck")
	t.Setenv("SSH_AUTH_SOCK", "")

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	block, err := ssh.MarshalPrivateKey(priv, "")
	require.NoError(t, err)

	sshDir := filepath.Join(home, ".ssh")
	require.NoError(t, os.MkdirAll(sshDir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(sshDir, "id_ed25519"), pem.EncodeToMemory(block), 0o600))

	sshPub, err := ssh.NewPublicKey(pub)
	require.NoError(t, err)
	return sshPub, filepath.Join(sshDir, "known_hosts")
}

func trustHost(t *testing.T, knownHostsPath, addr string, key ssh.PublicKey) {
	t.Helper()
	line := knownhosts.Line([]string{knownhosts.Normalize(addr)}, key) + "\n"
	require.NoError(t, os.WriteFile(knownHostsPath, []byte(line), 0o600))
}

func testOptions(knownHosts string) Options {
	return Options{
		Timeout:        5 * time.Second,
		ConfigPath:     filepath.Join(filepath.Dir(knownHosts), "missing-config"),
		KnownHostsPath: knownHosts,
	}
}

func TestOpen_ForwardsHTTP(t *testing.T) {
	clientKey, knownHosts := sshHome(t)
	server := newSSHServer(t, clientKey)
	trustHost(t, knownHosts, server.addr, server.hostKey.PublicKey())

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "pong from "+r.URL.Path)
	}))
	defer backend.Close()

	tun, err := Open(context.Background(), server.addr, testOptions(knownHosts))
	require.NoError(t, err)
	defer tun.Close()

	assert.Equal(t, server.addr, tun.Address)
	assert.True(t, tun.Alive())

	client := &http.Client{Transport: &http.Transport{DialContext: tun.DialContext}}
	res, err := client.Get(backend.URL + "/api/get_live_ping")
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, "pong from /api/get_live_ping", string(body))
}

func TestOpen_UnknownHost(t *testing.T) {
	clientKey, knownHosts := sshHome(t)
	server := newSSHServer(t, clientKey)

	_, err := Open(context.Background(), server.addr, testOptions(knownHosts))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrTunnel))
	assert.Contains(t, err.Error(), "isn't in")
	assert.Contains(t, err.Error(), "ssh-keyscan")
}

func TestOpen_HostKeyMismatch(t *testing.T) {
	clientKey, knownHosts := sshHome(t)
	server := newSSHServer(t, clientKey)

	otherPub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	other, err := ssh.NewPublicKey(otherPub)
	require.NoError(t, err)
	trustHost(t, knownHosts, server.addr, other)

	_, err = Open(context.Background(), server.addr, testOptions(knownHosts))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrTunnel))
	assert.Contains(t, err.Error(), "host key mismatch")
	assert.Contains(t, err.Error(), "ssh-keygen -R 127.0.0.1")
}

func TestOpen_InsecureSkipsKnownHosts(t *testing.T) {
	clientKey, knownHosts := sshHome(t)
	server := newSSHServer(t, clientKey)

	opts := testOptions(knownHosts)
	opts.InsecureIgnoreHostKey = true

	tun, err := Open(context.Background(), server.addr, opts)
	require.NoError(t, err)
	assert.NoError(t, tun.Close())
}

func TestOpen_Unreachable(t *testing.T) {
	_, knownHosts := sshHome(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	_, err = Open(context.Background(), addr, testOptions(knownHosts))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrTunnel))
	assert.Contains(t, err.Error(), "Can't reach")
}

func TestOpen_NoKeys(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SSH_AUTH_SOCK", "")

	_, err := Open(context.Background(), "127.0.0.1:1", Options{
		ConfigPath:     filepath.Join(home, "none"),
		KnownHostsPath: filepath.Join(home, "known_hosts"),
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrTunnel))
	assert.Contains(t, err.Error(), "No SSH auth methods available")
}

func TestTunnel_ClosedRefusesDial(t *testing.T) {
	clientKey, knownHosts := sshHome(t)
	server := newSSHServer(t, clientKey)
	trustHost(t, knownHosts, server.addr, server.hostKey.PublicKey())

	tun, err := Open(context.Background(), server.addr, testOptions(knownHosts))
	require.NoError(t, err)

	require.NoError(t, tun.Close())
	require.NoError(t, tun.Close(), "second close is a no-op")
	assert.False(t, tun.Alive())

	_, err = tun.DialContext(context.Background(), "tcp", "127.0.0.1:8765")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is closed")
}

func TestHostKeyError_Suggestion(t *testing.T) {
	e := &HostKeyError{Hostname: "[deck.local]:2222", ReceivedType: "ssh-ed25519", KnownHosts: "/h/.ssh/known_hosts"}
	assert.True(t, e.Unknown())
	assert.Contains(t, e.Suggestion(), "ssh-keyscan deck.local")
}
