package pulse

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	minSpan      = 238 * time.Millisecond // 250 bpm
	maxSpan      = 6 * time.Second        // 10 bpm
	spanCount    = 3
	maxDeviation = 0.35
	maxTrials    = 5
)

var errNoBeat = errors.New("no beat")

// HeartRate returns the current heart rate in beats per minute. Heart rate is
// expected to be between 10 and 250 beats per minute. Beats faster than that
// are ignored and the function keeps sampling until three consistent beat
// spans are found.
//
// If no contact is detected on the sensor, HeartRate returns an
// ErrNotDetected error. If no beat is found for 6s, or the spans keep
// changing by more than 35%, it returns an ErrTooNoisy error.
func (m *Monitor) HeartRate(ctx context.Context) (float64, error) {
	if _, err := m.detectBeat(ctx); err != nil {
		return 0, hrError(err)
	}

	count := spanCount
	fail := 0
	trials := 0

	var s spans
	for count > 0 {
		t, err := m.detectBeat(ctx)
		if err != nil {
			return 0, hrError(err)
		}
		if t < minSpan {
			continue // invalid
		}
		if s.deviation(t) > maxDeviation {
			fail++
			if fail > spanCount/2 {
				trials++
				s.reset()
				fail = 0
				count = spanCount

				if trials > maxTrials {
					return 0, hrError(ErrTooNoisy)
				}
			}
			continue
		}
		s.add(t)
		count--
	}

	return float64(time.Minute) / float64(s.mean()), nil
}

func hrError(err error) error {
	switch {
	case errors.Is(err, errLowValue):
		err = ErrNotDetected
	case errors.Is(err, errNoBeat):
		err = ErrTooNoisy
	}
	return fmt.Errorf("pulse: could not get heart rate: %w", err)
}

// detectBeat samples until the next beat and returns the time it took.
func (m *Monitor) detectBeat(ctx context.Context) (time.Duration, error) {
	var t time.Duration
	for {
		found, err := m.nextReading(ctx)
		if err != nil {
			return 0, err
		}
		t += m.period
		if found {
			return t, nil
		}
		if t > maxSpan {
			return 0, errNoBeat
		}
	}
}

// nextReading takes one reading and feeds it to the beat detector.
func (m *Monitor) nextReading(ctx context.Context) (bool, error) {
	if err := m.lock(ctx); err != nil {
		return false, err
	}
	defer m.unlock()

	if err := m.leds(1); err != nil {
		return false, fmt.Errorf("detectBeat: %w", err)
	}
	r := m.red.last()
	if r < threshold {
		return false, errLowValue
	}
	return m.beat.check(r), nil
}
