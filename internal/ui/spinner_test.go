package ui

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a strings.Builder safe for the animation goroutine.
type syncBuffer struct {
	mu sync.Mutex
	sb strings.Builder
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.String()
}

func TestNewSpinnerTo_NonTerminalIsStatic(t *testing.T) {
	var buf syncBuffer
	s := NewSpinnerTo(&buf, "Pinging 8.8.8.8")

	assert.Equal(t, SpinnerPending, s.State())
	assert.False(t, s.animated)

	s.Start()
	assert.Equal(t, SpinnerInProgress, s.State())
	assert.Empty(t, buf.String(), "no frames are drawn without a terminal")

	s.Success("Latency: 23.4ms, Loss: 0%")
	assert.Equal(t, SpinnerSuccess, s.State())

	out := buf.String()
	assert.Contains(t, out, SymbolSuccess)
	assert.Contains(t, out, "Pinging 8.8.8.8: Latency: 23.4ms, Loss: 0%")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestSpinner_Fail(t *testing.T) {
	var buf syncBuffer
	s := NewSpinnerTo(&buf, "Testing DNS")

	s.Start()
	s.Fail("timeout")

	assert.Equal(t, SpinnerFailed, s.State())
	assert.Contains(t, buf.String(), SymbolFail)
	assert.Contains(t, buf.String(), "Testing DNS: timeout")
}

func TestSpinner_AnimatedClearsFrameOnFinish(t *testing.T) {
	var buf syncBuffer
	s := NewSpinnerTo(&buf, "Scanning")
	s.animated = true

	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Success("")

	out := buf.String()
	assert.Contains(t, out, "Scanning...")
	assert.Contains(t, out, "\r")
	assert.Equal(t, SpinnerSuccess, s.State())
}

func TestSpinner_DoubleStartAndStop(t *testing.T) {
	var buf syncBuffer
	s := NewSpinnerTo(&buf, "x")
	s.animated = true

	s.Start()
	s.Start()
	s.Stop()
	assert.NotPanics(t, s.Stop)
	assert.Equal(t, SpinnerInProgress, s.State(), "Stop leaves the state alone")
}

func TestSpinner_ElapsedBeforeStart(t *testing.T) {
	s := NewSpinnerTo(&syncBuffer{}, "x")
	assert.Zero(t, s.Elapsed())

	s.Start()
	time.Sleep(5 * time.Millisecond)
	assert.Greater(t, s.Elapsed(), time.Duration(0))
	s.Stop()
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		want     string
	}{
		{0, "0.00s"},
		{50 * time.Millisecond, "0.05s"},
		{100 * time.Millisecond, "0.1s"},
		{1500 * time.Millisecond, "1.5s"},
		{10 * time.Second, "10.0s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDuration(tt.duration))
		})
	}
}

func TestSpinnerConcurrentAccess(t *testing.T) {
	var buf syncBuffer
	s := NewSpinnerTo(&buf, "x")
	s.animated = true
	s.Start()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.State()
			_ = s.Elapsed()
		}()
	}
	wg.Wait()
	s.Success("")

	require.Equal(t, SpinnerSuccess, s.State())
}
