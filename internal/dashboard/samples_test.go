package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSamples_Empty(t *testing.T) {
	s := newSamples(4)
	assert.Nil(t, s.last(3))
	assert.Zero(t, s.length())
	lo, avg, hi := s.stats()
	assert.Zero(t, lo+avg+hi)
}

func TestSamples_WrapsOldestFirst(t *testing.T) {
	s := newSamples(3)
	for _, v := range []float64{1, 2, 3, 4, 5} {
		s.push(v)
	}

	assert.Equal(t, 3, s.length())
	assert.Equal(t, []float64{3, 4, 5}, s.last(10))
	assert.Equal(t, []float64{4, 5}, s.last(2))
}

func TestSamples_Stats(t *testing.T) {
	s := newSamples(0)
	for _, v := range []float64{20, 10, 30} {
		s.push(v)
	}
	lo, avg, hi := s.stats()
	assert.Equal(t, 10.0, lo)
	assert.Equal(t, 20.0, avg)
	assert.Equal(t, 30.0, hi)
	assert.Len(t, s.data, DefaultSampleSize)
}
