package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netsentinel/netsentinel/internal/backend"
	backendtesting "github.com/netsentinel/netsentinel/internal/backend/testing"
	"github.com/netsentinel/netsentinel/internal/errors"
)

func statusFake() *backendtesting.FakeBackend {
	jitter := 2.5
	return backendtesting.NewFakeBackend().
		SetStatus(backend.NetworkStatus{
			Quality: backend.Quality{
				Label:         backend.QualityGood,
				Score:         82,
				AvgLatency:    31,
				AvgPacketLoss: 0.5,
				Jitter:        &jitter,
			},
			Monitoring: true,
			DataPoints: 12,
		}).
		SetLivePing(27).
		SetSettings(backend.Settings{backend.KeySpeedUnit: "gbps"}).
		SetConnectionInfo(backend.ConnectionInfo{
			LocalIP:        "192.168.1.20",
			Hostname:       "steamdeck",
			ConnectionType: "wifi",
		})
}

func staticLookup(addr string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) { return addr, nil }
}

func TestCollectStatus(t *testing.T) {
	fake := statusFake()

	rep, unit, err := collectStatus(context.Background(), fake, staticLookup("203.0.113.7"))
	require.NoError(t, err)
	assert.Equal(t, backend.QualityGood, rep.Status.Quality.Label)
	assert.Equal(t, 27.0, rep.LivePing)
	assert.Equal(t, backend.SpeedGbps, unit)
	require.NotNil(t, rep.Connection)
	assert.Equal(t, "steamdeck", rep.Connection.Hostname)
	assert.Equal(t, "203.0.113.7", rep.PublicAddress)
}

func TestCollectStatus_OptionalCallsMayFail(t *testing.T) {
	fake := statusFake().
		FailWith(backend.MethodGetLivePing, stderrors.New("timeout")).
		FailWith(backend.MethodGetSettings, stderrors.New("timeout")).
		FailWith(backend.MethodGetConnectionInfo, stderrors.New("timeout"))
	failing := func(context.Context) (string, error) { return "", stderrors.New("no stun") }

	rep, unit, err := collectStatus(context.Background(), fake, failing)
	require.NoError(t, err)
	assert.Zero(t, rep.LivePing)
	assert.Equal(t, backend.SpeedMbps, unit)
	assert.Nil(t, rep.Connection)
	assert.Empty(t, rep.PublicAddress)
}

func TestCollectStatus_StatusRequired(t *testing.T) {
	fake := statusFake().FailWith(backend.MethodGetNetworkStatus, stderrors.New("refused"))

	_, _, err := collectStatus(context.Background(), fake, nil)
	require.Error(t, err)
	assert.Zero(t, fake.Calls(backend.MethodGetLivePing))
}

func TestStatusCommand_Text(t *testing.T) {
	var buf bytes.Buffer
	err := statusCommand(context.Background(), &buf, statusFake(), staticLookup("203.0.113.7"), false)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "GOOD")
	assert.Contains(t, out, "27ms")
	assert.Contains(t, out, "Monitoring: on")
	assert.Contains(t, out, "Packet Loss")
	assert.Contains(t, out, "steamdeck")
	assert.Contains(t, out, "203.0.113.7")
}

func TestStatusCommand_ConnectionWarning(t *testing.T) {
	fake := statusFake().SetConnectionInfo(backend.ConnectionInfo{Error: "no default route"})

	var buf bytes.Buffer
	require.NoError(t, statusCommand(context.Background(), &buf, fake, nil, false))
	assert.Contains(t, buf.String(), "no default route")
	assert.Contains(t, buf.String(), "N/A")
}

func TestStatusCommand_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, statusCommand(context.Background(), &buf, statusFake(), nil, true))

	var env struct {
		Success bool         `json:"success"`
		Data    StatusReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.True(t, env.Success)
	assert.True(t, env.Data.Status.Monitoring)
	assert.Equal(t, 82, env.Data.Status.Quality.Score)
	assert.Equal(t, 27.0, env.Data.LivePing)
	require.NotNil(t, env.Data.Connection)
	assert.Equal(t, "wifi", env.Data.Connection.ConnectionType)
}

func TestStatusCommand_JSONError(t *testing.T) {
	fake := statusFake().FailWith(backend.MethodGetNetworkStatus,
		errors.New(errors.ErrBackend, "Backend unreachable", "Start it"))

	var buf bytes.Buffer
	err := statusCommand(context.Background(), &buf, fake, nil, true)
	require.Error(t, err)

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, errors.ErrBackend, env.Error.Code)
}

func TestBackendErr(t *testing.T) {
	structured := errors.New(errors.ErrTunnel, "tunnel down", "")
	assert.Same(t, structured, backendErr(structured, "ignored"))

	wrapped := backendErr(stderrors.New("connection refused"), "Couldn't fetch history")
	assert.True(t, errors.IsCode(wrapped, errors.ErrBackend))
	assert.Contains(t, wrapped.Error(), "Couldn't fetch history")
	assert.Contains(t, wrapped.Error(), "connection refused")
}
