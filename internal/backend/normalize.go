package backend

import "math"

// NormalizeQuality clamps a quality block into its documented ranges and
// fills an empty label. Out-of-range values are treated as malformed input,
// never as a failure.
func NormalizeQuality(q Quality) Quality {
	if q.Label == "" {
		q.Label = QualityUnknown
	}
	q.Score = clampInt(q.Score, 0, 100)
	q.AvgLatency = clampFloat(q.AvgLatency, 0, math.MaxFloat64)
	q.AvgPacketLoss = clampFloat(q.AvgPacketLoss, 0, 100)
	if q.Jitter != nil {
		j := clampFloat(*q.Jitter, 0, math.MaxFloat64)
		q.Jitter = &j
	}
	return q
}

// NormalizeBandwidth drops negative and non-finite rates to zero.
func NormalizeBandwidth(b *Bandwidth) *Bandwidth {
	if b == nil {
		return nil
	}
	out := Bandwidth{
		Download: clampFloat(b.Download, 0, math.MaxFloat64),
		Upload:   clampFloat(b.Upload, 0, math.MaxFloat64),
	}
	return &out
}

// NormalizeStatus normalizes every nested block of a status snapshot.
func NormalizeStatus(s NetworkStatus) NetworkStatus {
	s.Quality = NormalizeQuality(s.Quality)
	if s.DataPoints < 0 {
		s.DataPoints = 0
	}
	s.Bandwidth = NormalizeBandwidth(s.Bandwidth)
	return s
}

// NormalizeHistory normalizes each point in place and returns the slice.
// Order is preserved; the backend's insertion order is chronological.
func NormalizeHistory(points []HistoryDataPoint) []HistoryDataPoint {
	for i := range points {
		points[i].Quality = NormalizeQuality(points[i].Quality)
		if points[i].LivePing != nil {
			p := clampFloat(*points[i].LivePing, 0, math.MaxFloat64)
			points[i].LivePing = &p
		}
		points[i].Bandwidth = NormalizeBandwidth(points[i].Bandwidth)
	}
	return points
}

// NormalizeScan clamps signal strengths into 0-100.
func NormalizeScan(r WifiScanResult) WifiScanResult {
	for i := range r.Networks {
		r.Networks[i].Signal = clampInt(r.Networks[i].Signal, 0, 100)
	}
	return r
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
