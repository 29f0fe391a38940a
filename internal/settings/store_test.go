package settings

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netsentinel/netsentinel/internal/backend"
	backendtesting "github.com/netsentinel/netsentinel/internal/backend/testing"
	"github.com/netsentinel/netsentinel/internal/errors"
	"github.com/netsentinel/netsentinel/internal/logger"
)

func seeded() *backendtesting.FakeBackend {
	return backendtesting.NewFakeBackend().SetSettings(backend.Settings{
		backend.KeyPingInterval: 30.0,
		backend.KeySpeedUnit:    "mbps",
		"dns_servers":           []interface{}{"8.8.8.8", "1.1.1.1"},
	})
}

func TestLoad_SeedsSnapshot(t *testing.T) {
	store := New(seeded(), nil)
	assert.False(t, store.Loaded())

	got, err := store.Load(context.Background())
	require.NoError(t, err)

	assert.True(t, store.Loaded())
	assert.Equal(t, 30.0, got.PingInterval())
	assert.Equal(t, backend.SpeedMbps, got.SpeedUnit())
	assert.Equal(t, got, store.Snapshot())
}

func TestLoad_FailureKeepsPrevious(t *testing.T) {
	fake := seeded()
	log := logger.NewBufferLogger()
	store := New(fake, log)
	_, err := store.Load(context.Background())
	require.NoError(t, err)

	fake.FailWith(backend.MethodGetSettings, fmt.Errorf("connection refused"))
	got, err := store.Load(context.Background())

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSettings))
	assert.Equal(t, 30.0, got.PingInterval(), "stale copy is kept")
	assert.True(t, log.Contains("warn", "load failed"))
}

func TestApply_IsVisibleBeforeAck(t *testing.T) {
	store := New(seeded(), nil)
	_, _ = store.Load(context.Background())

	c := store.Apply(backend.KeySpeedUnit, "gbps")

	assert.Equal(t, backend.SpeedGbps, store.Snapshot().SpeedUnit())
	assert.Equal(t, "gbps", c.Merged()[backend.KeySpeedUnit])
}

func TestUpdate_MergesAndRoundTripsUnknownKeys(t *testing.T) {
	fake := seeded()
	store := New(fake, nil)
	_, _ = store.Load(context.Background())

	outcome, err := store.Update(context.Background(), backend.KeyOverlayEnabled, true)
	require.NoError(t, err)
	assert.Equal(t, Committed, outcome)

	saved := fake.SavedSettings()
	require.Len(t, saved, 1)
	assert.Equal(t, true, saved[0][backend.KeyOverlayEnabled])
	assert.Equal(t, 30.0, saved[0][backend.KeyPingInterval])
	assert.Equal(t, []interface{}{"8.8.8.8", "1.1.1.1"}, saved[0]["dns_servers"])
	assert.True(t, store.Snapshot().OverlayEnabled())
}

func TestUpdate_RevertsOnError(t *testing.T) {
	fake := seeded()
	log := logger.NewBufferLogger()
	store := New(fake, log)
	_, _ = store.Load(context.Background())

	fake.FailWith(backend.MethodUpdateSettings, fmt.Errorf("disk full"))
	outcome, err := store.Update(context.Background(), backend.KeyPingInterval, 60.0)

	require.Error(t, err)
	assert.Equal(t, Reverted, outcome)
	assert.Equal(t, 30.0, store.Snapshot().PingInterval())
	assert.True(t, log.Contains("warn", "ping_interval reverted"))
}

func TestUpdate_RevertsOnFalseResult(t *testing.T) {
	fake := seeded().SetUpdateResult(false)
	store := New(fake, nil)
	_, _ = store.Load(context.Background())

	outcome, err := store.Update(context.Background(), backend.KeySpeedUnit, "kbps")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSettings))
	assert.Equal(t, Reverted, outcome)
	assert.Equal(t, backend.SpeedMbps, store.Snapshot().SpeedUnit())
}

func TestSettle_SupersededFailureKeepsNewerEdit(t *testing.T) {
	fake := seeded().SetUpdateResult(false)
	store := New(fake, nil)
	_, _ = store.Load(context.Background())

	first := store.Apply(backend.KeySpeedUnit, "kbps")
	second := store.Apply(backend.KeySpeedUnit, "gbps")

	assert.Equal(t, Superseded, store.Settle(store.Persist(context.Background(), first)))
	assert.Equal(t, backend.SpeedGbps, store.Snapshot().SpeedUnit())

	assert.Equal(t, Reverted, store.Settle(store.Persist(context.Background(), second)))
	assert.Equal(t, backend.SpeedMbps, store.Snapshot().SpeedUnit(),
		"neither rejected value survives")
}

func TestSettle_ChainedRejectionsRestoreAcknowledged(t *testing.T) {
	fake := seeded()
	store := New(fake, nil)
	_, _ = store.Load(context.Background())
	fake.FailWith(backend.MethodUpdateSettings, fmt.Errorf("disk full"))

	a := store.Apply(backend.KeySpeedUnit, "gbps")
	b := store.Apply(backend.KeyOverlayEnabled, true)

	assert.Equal(t, Reverted, store.Settle(store.Persist(context.Background(), a)))
	snap := store.Snapshot()
	assert.Equal(t, backend.SpeedMbps, snap.SpeedUnit())
	assert.True(t, snap.OverlayEnabled(), "b is still in flight")

	assert.Equal(t, Reverted, store.Settle(store.Persist(context.Background(), b)))
	snap = store.Snapshot()
	assert.Equal(t, backend.SpeedMbps, snap.SpeedUnit())
	assert.False(t, snap.OverlayEnabled())
	assert.Empty(t, fake.SavedSettings())
}

func TestSettle_RejectionAfterCommitKeepsCommitted(t *testing.T) {
	fake := seeded()
	store := New(fake, nil)
	_, _ = store.Load(context.Background())

	a := store.Apply(backend.KeySpeedUnit, "gbps")
	assert.Equal(t, Committed, store.Settle(store.Persist(context.Background(), a)))

	fake.SetUpdateResult(false)
	b := store.Apply(backend.KeyPingInterval, 90.0)
	assert.Equal(t, Reverted, store.Settle(store.Persist(context.Background(), b)))

	snap := store.Snapshot()
	assert.Equal(t, backend.SpeedGbps, snap.SpeedUnit())
	assert.Equal(t, 30.0, snap.PingInterval())
}

func TestSettle_CommittedKeepsState(t *testing.T) {
	store := New(seeded(), nil)
	_, _ = store.Load(context.Background())

	c := store.Apply(backend.KeyOverlayPosition, "bottom-left")
	assert.Equal(t, Committed, store.Settle(store.Persist(context.Background(), c)))
	assert.Equal(t, backend.OverlayBottomLeft, store.Snapshot().OverlayPosition())
}

func TestReplace_StalesInFlightChange(t *testing.T) {
	fake := seeded().SetUpdateResult(false)
	store := New(fake, nil)

	c := store.Apply(backend.KeyAutoMonitor, true)
	store.Replace(backend.Settings{backend.KeyAutoMonitor: false})

	assert.Equal(t, Superseded, store.Settle(store.Persist(context.Background(), c)))
	assert.False(t, store.Snapshot().AutoMonitor())
}

func TestSnapshot_IsACopy(t *testing.T) {
	store := New(seeded(), nil)
	_, _ = store.Load(context.Background())

	snap := store.Snapshot()
	snap[backend.KeySpeedUnit] = "bps"

	assert.Equal(t, backend.SpeedMbps, store.Snapshot().SpeedUnit())
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "committed", Committed.String())
	assert.Equal(t, "reverted", Reverted.String())
	assert.Equal(t, "superseded", Superseded.String())
	assert.Equal(t, "Outcome(9)", Outcome(9).String())
}
