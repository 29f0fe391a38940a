package dashboard

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netsentinel/netsentinel/internal/backend"
)

func point(sec int, latency float64, label backend.QualityLabel) backend.HistoryDataPoint {
	return backend.HistoryDataPoint{
		Timestamp: backend.Timestamp{Time: time.Unix(int64(sec), 0)},
		Quality:   backend.Quality{Label: label, AvgLatency: latency},
	}
}

func series(n int) []backend.HistoryDataPoint {
	points := make([]backend.HistoryDataPoint, n)
	for i := range points {
		points[i] = point(i, float64(10+i), backend.QualityGood)
	}
	return points
}

func TestChartBars_HeightBounds(t *testing.T) {
	tests := []struct {
		latency float64
		want    float64
	}{
		{0, MinBarPercent},
		{200, 100},
		{5000, 100},
		{100, 50},
		{2, MinBarPercent},
	}
	for _, tt := range tests {
		bars := ChartBars([]backend.HistoryDataPoint{point(0, tt.latency, backend.QualityFair)})
		require.Len(t, bars, 1)
		assert.InDelta(t, tt.want, bars[0].Percent, 1e-9, "latency %v", tt.latency)
		assert.GreaterOrEqual(t, bars[0].Percent, MinBarPercent)
		assert.LessOrEqual(t, bars[0].Percent, 100.0)
	}
}

func TestChartBars_LastTenOldestFirst(t *testing.T) {
	points := series(15)
	bars := ChartBars(points)

	require.Len(t, bars, ChartPoints)
	assert.Equal(t, 15.0, bars[0].Latency)
	assert.Equal(t, 24.0, bars[ChartPoints-1].Latency)
	assert.Len(t, points, 15, "input is not modified")
}

func TestChartBars_PrefersLivePing(t *testing.T) {
	live := 42.0
	p := point(0, 80, backend.QualityGood)
	p.LivePing = &live

	bars := ChartBars([]backend.HistoryDataPoint{p})
	assert.Equal(t, 42.0, bars[0].Latency)
	assert.InDelta(t, 21.0, bars[0].Percent, 1e-9)
}

func TestListRows_NewestFirst(t *testing.T) {
	points := series(9)
	rows := ListRows(points)

	require.Len(t, rows, ListPoints)
	assert.Equal(t, 18.0, rows[0].Latency())
	assert.Equal(t, 13.0, rows[ListPoints-1].Latency())
	assert.Equal(t, 10.0, points[0].Latency(), "input order is preserved")
}

func TestListRows_Short(t *testing.T) {
	rows := ListRows(series(2))
	require.Len(t, rows, 2)
	assert.Equal(t, 11.0, rows[0].Latency())
	assert.Empty(t, ListRows(nil))
}

func TestRenderHistoryPanel_Empty(t *testing.T) {
	out := renderHistoryPanel(nil, backend.SpeedMbps, false)
	assert.Contains(t, out, EmptyHistoryHint)
	assert.NotContains(t, out, "Latency Graph")
}

func TestRenderHistoryPanel_Rows(t *testing.T) {
	jitter := 3.4
	p := point(0, 45, backend.QualityExcellent)
	p.Quality.AvgPacketLoss = 1.5
	p.Quality.Jitter = &jitter
	p.Bandwidth = &backend.Bandwidth{Download: 50e6, Upload: 10e6}

	out := renderHistoryPanel([]backend.HistoryDataPoint{p}, backend.SpeedMbps, false)
	assert.Contains(t, out, "EXCELLENT")
	assert.Contains(t, out, "45ms")
	assert.Contains(t, out, "1.5% loss")
	assert.Contains(t, out, "jitter 3.4ms")
	assert.Contains(t, out, "↓50.00 Mbps")
	assert.Contains(t, out, "↑10.00 Mbps")
	assert.Contains(t, out, p.Timestamp.Local().Format("15:04:05"))
}

func TestRenderChart_Height(t *testing.T) {
	out := renderChart(ChartBars(series(3)), chartRows)
	assert.Len(t, strings.Split(out, "\n"), chartRows+1, "rows plus the axis")
	assert.Empty(t, renderChart(nil, chartRows))
}

func TestFormatLatency(t *testing.T) {
	assert.Equal(t, "--ms", formatLatency(0))
	assert.Equal(t, "--ms", formatLatency(-3))
	assert.Equal(t, "180ms", formatLatency(180))
	assert.Equal(t, "24ms", formatLatency(23.6))
}
