package cli

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netsentinel/netsentinel/internal/archive"
	"github.com/netsentinel/netsentinel/internal/backend"
	"github.com/netsentinel/netsentinel/internal/config"
	"github.com/netsentinel/netsentinel/internal/logger"
)

func seedArchive(t *testing.T, path string, ages ...time.Duration) {
	t.Helper()
	arch, err := archive.Open(path)
	require.NoError(t, err)
	defer arch.Close()

	now := time.Now()
	points := make([]backend.HistoryDataPoint, len(ages))
	for i, age := range ages {
		points[i] = backend.HistoryDataPoint{
			Timestamp: backend.Timestamp{Time: now.Add(-age)},
			Quality:   backend.Quality{Label: backend.QualityGood, AvgLatency: 20},
		}
	}
	_, err = arch.Record(context.Background(), points)
	require.NoError(t, err)
}

func TestOpenArchive_Disabled(t *testing.T) {
	s := &session{cfg: config.DefaultConfig(), log: logger.Noop()}
	arch, err := s.openArchive(context.Background())
	require.NoError(t, err)
	assert.Nil(t, arch)
}

func TestOpenArchive_AppliesRetention(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	seedArchive(t, path, 72*time.Hour, 48*time.Hour, time.Hour, time.Minute)

	cfg := config.DefaultConfig()
	cfg.Archive.Path = path
	cfg.Archive.Retention = 24 * time.Hour
	log := logger.NewBufferLogger()
	s := &session{cfg: cfg, log: log}

	arch, err := s.openArchive(context.Background())
	require.NoError(t, err)
	defer arch.Close()

	n, err := arch.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, log.Contains("debug", "dropped 2 point(s)"))
}

func TestOpenArchive_ZeroRetentionKeepsAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	seedArchive(t, path, 365*24*time.Hour, time.Minute)

	cfg := config.DefaultConfig()
	cfg.Archive.Path = path
	s := &session{cfg: cfg, log: logger.Noop()}

	arch, err := s.openArchive(context.Background())
	require.NoError(t, err)
	defer arch.Close()

	n, err := arch.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
