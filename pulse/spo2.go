package pulse

import (
	"errors"
	"fmt"
)

// SpO2 returns the SpO2 level in percent, estimated over the next 64 readings
// and smoothed with the previous estimations.
func (m *Monitor) SpO2() (float64, error) {
	<-m.readCh
	defer m.unlock()

	r, err := m.rValue()
	if errors.Is(err, errLowValue) {
		m.spo2.reset()
		return 0, fmt.Errorf("pulse: could not get SpO2: %w", ErrNotDetected)
	} else if err != nil {
		m.spo2.reset()
		return 0, fmt.Errorf("pulse: could not get R value: %w", err)
	}

	spo2 := 104 - 17*r
	if spo2 <= 0 {
		return 0, fmt.Errorf("pulse: could not get SpO2: %w", ErrTooNoisy)
	}
	m.spo2.add(spo2)

	return m.spo2.mean, nil
}

// rValue returns the ratio of the red and infrared AC/DC ratios. The caller
// holds the token.
func (m *Monitor) rValue() (float64, error) {
	if err := m.leds(batchSize); err != nil {
		return 0, err
	}

	if m.red.last() < threshold || m.ir.last() < threshold {
		return 0, errLowValue
	}

	irACDC := m.ir.acdc()
	if irACDC == 0 {
		return 0, ErrTooNoisy
	}

	return m.red.acdc() / irACDC, nil
}
