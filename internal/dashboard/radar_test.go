package dashboard

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netsentinel/netsentinel/internal/backend"
)

func TestRadar_AngleAfterTicks(t *testing.T) {
	r := newRadar(0)
	require.NotNil(t, r.Toggle())

	for k := 1; k <= 40; k++ {
		cmd := r.onTick(radarTickMsg{gen: r.gen})
		require.NotNil(t, cmd, "chain continues while visible")
		assert.Equal(t, (SweepStep*k)%360, r.angle, "after %d ticks", k)
	}
}

func TestRadar_NoAdvanceWhileHidden(t *testing.T) {
	r := newRadar(0)
	r.Toggle()
	staleGen := r.gen
	r.onTick(radarTickMsg{gen: r.gen})
	assert.Equal(t, SweepStep, r.angle)

	assert.Nil(t, r.Toggle(), "toggling off arms nothing")
	assert.False(t, r.visible)

	assert.Nil(t, r.onTick(radarTickMsg{gen: staleGen}), "pending tick ends the chain")
	assert.Nil(t, r.onTick(radarTickMsg{gen: r.gen}))
	assert.Equal(t, SweepStep, r.angle)
}

func TestRadar_ReopenDropsOldChain(t *testing.T) {
	r := newRadar(0)
	r.Toggle()
	oldGen := r.gen
	r.Toggle()
	r.Toggle()

	assert.Nil(t, r.onTick(radarTickMsg{gen: oldGen}), "tick from the first opening is stale")
	assert.NotNil(t, r.onTick(radarTickMsg{gen: r.gen}))
	assert.Equal(t, SweepStep, r.angle)
}

func TestRadar_HideIsIdempotent(t *testing.T) {
	r := newRadar(0)
	r.Hide()
	assert.Zero(t, r.gen)

	r.Toggle()
	r.Hide()
	gen := r.gen
	r.Hide()
	assert.Equal(t, gen, r.gen)
}

func TestRadar_ScanBestChannelNoRows(t *testing.T) {
	r := newRadar(0)
	r.Toggle()

	ok, _ := r.beginScan()
	require.True(t, ok)
	assert.True(t, r.scanning)

	again, cmd := r.beginScan()
	assert.False(t, again, "second press while scanning is ignored")
	assert.Nil(t, cmd)

	six := 6
	r.finishScan(scanMsg{result: backend.WifiScanResult{Networks: []backend.WifiNetwork{}, BestChannel: &six}})
	assert.False(t, r.scanning)

	lines := r.resultLines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "Suggested channel: 6")
	assert.NotContains(t, r.View(), "✗")
}

func TestRadar_ErrorReplacesList(t *testing.T) {
	r := newRadar(0)
	r.Toggle()
	r.beginScan()
	r.finishScan(scanMsg{result: backend.WifiScanResult{
		Networks: []backend.WifiNetwork{{SSID: "home", Channel: 1}},
	}})
	assert.Contains(t, strings.Join(r.resultLines(), "\n"), "home")

	r.beginScan()
	r.finishScan(scanMsg{result: backend.WifiScanResult{
		Networks: []backend.WifiNetwork{{SSID: "cafe", Channel: 11}},
		Error:    "wifi adapter not found",
	}})
	out := strings.Join(r.resultLines(), "\n")
	assert.Contains(t, out, "wifi adapter not found")
	assert.NotContains(t, out, "cafe")
	assert.NotContains(t, out, "home", "results are replaced, not accumulated")
}

func TestRadar_TransportErrorBecomesResult(t *testing.T) {
	r := newRadar(0)
	r.beginScan()
	r.finishScan(scanMsg{err: errors.New("connection refused")})

	require.NotNil(t, r.result)
	assert.Equal(t, "connection refused", r.result.Error)
}

func TestRadar_ListsAtMostSix(t *testing.T) {
	nets := make([]backend.WifiNetwork, 9)
	for i := range nets {
		nets[i] = backend.WifiNetwork{SSID: "net" + string(rune('a'+i)), Channel: i + 1, Signal: 50}
	}
	r := newRadar(0)
	r.finishScan(scanMsg{result: backend.WifiScanResult{Networks: nets}})

	lines := r.resultLines()
	assert.Len(t, lines, MaxNetworks)
	assert.NotContains(t, strings.Join(lines, "\n"), "netg")
}

func TestRadar_HiddenViewIsEmpty(t *testing.T) {
	r := newRadar(0)
	assert.Empty(t, r.View())
}

func TestSweepGrid(t *testing.T) {
	up := sweepGrid(0, radarRadius)
	require.Len(t, up, radarRadius*2+1)
	assert.Contains(t, up[radarRadius], "◉")
	assert.Contains(t, up[radarRadius-1], "•", "sweep points up at 0°")

	right := sweepGrid(90, radarRadius)
	assert.NotContains(t, right[radarRadius-1], "•")
	assert.Contains(t, right[radarRadius], "◉ •")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
