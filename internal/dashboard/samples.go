package dashboard

// DefaultSampleSize is how many live-ping samples the sparkline keeps.
const DefaultSampleSize = 60

// samples is a fixed-size ring of live-ping readings. It is owned by the
// Model and only touched from Update, so it needs no locking.
type samples struct {
	data  []float64
	head  int
	count int
}

func newSamples(size int) *samples {
	if size <= 0 {
		size = DefaultSampleSize
	}
	return &samples{data: make([]float64, size)}
}

func (s *samples) push(v float64) {
	s.data[s.head] = v
	s.head = (s.head + 1) % len(s.data)
	if s.count < len(s.data) {
		s.count++
	}
}

// last returns up to n readings, oldest first.
func (s *samples) last(n int) []float64 {
	if n <= 0 || s.count == 0 {
		return nil
	}
	if n > s.count {
		n = s.count
	}
	size := len(s.data)
	start := (s.head - n + size) % size
	out := make([]float64, n)
	for i := range out {
		out[i] = s.data[(start+i)%size]
	}
	return out
}

func (s *samples) length() int {
	return s.count
}

// stats returns min, average and max of the stored readings.
func (s *samples) stats() (lo, avg, hi float64) {
	all := s.last(s.count)
	if len(all) == 0 {
		return 0, 0, 0
	}
	lo, hi = all[0], all[0]
	var sum float64
	for _, v := range all {
		sum += v
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, sum / float64(len(all)), hi
}
