package pulse

import (
	"math"
	"time"
)

// movingAverage estimates the mean of the last 4 values.
type movingAverage struct {
	mean float64
}

// add adds n. The first value fills the average.
func (m *movingAverage) add(n float64) {
	if m.mean == 0 {
		m.mean = n
		return
	}
	m.mean += (n - m.mean) / 4
}

func (m *movingAverage) reset() {
	m.mean = 0
}

// spans collects beat to beat durations.
type spans struct {
	values []time.Duration
}

func (s *spans) mean() time.Duration {
	if len(s.values) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range s.values {
		sum += v
	}
	return sum / time.Duration(len(s.values))
}

// deviation returns the relative distance of d to the mean.
func (s *spans) deviation(d time.Duration) float64 {
	mean := s.mean()
	if mean == 0 {
		return 0
	}
	return math.Abs(float64(d)/float64(mean) - 1)
}

func (s *spans) reset() {
	s.values = s.values[:0]
}

func (s *spans) add(d time.Duration) {
	s.values = append(s.values, d)
}
