package pulse

// series is a ring buffer of the latest normalized readings.
type series struct {
	buffer []float64
	idx    int
	n      int
}

func newSeries(size int) *series {
	return &series{
		buffer: make([]float64, size),
		idx:    size - 1,
	}
}

func (s *series) add(entries ...float64) {
	for _, e := range entries {
		s.idx++
		s.idx %= len(s.buffer)
		s.buffer[s.idx] = e
		if s.n < len(s.buffer) {
			s.n++
		}
	}
}

func (s *series) last() float64 {
	return s.buffer[s.idx]
}

// minmax returns the extremes of the stored readings.
func (s *series) minmax() (min, max float64) {
	if s.n == 0 {
		return 0, 0
	}
	min, max = s.buffer[s.idx], s.buffer[s.idx]
	for _, v := range s.buffer[:s.n] {
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	return min, max
}

// acdc returns the ratio of the AC amplitude to the DC level.
func (s *series) acdc() float64 {
	min, max := s.minmax()
	if min == 0 {
		return 0
	}
	return (max - min) / min
}
