// Package pulse estimates the heart rate and the SpO2 level from a stream of
// red and infrared photodiode readings.
//
// The estimators expect readings taken at a fixed rate, such as the ADC
// outputs of an AFE4404 read after every ADC_RDY pulse:
//
//	src := pulse.SourceFunc(func() (red, ir physic.ElectricPotential, err error) {
//		r, err := d.Read()
//		return r.LED2, r.LED3, err
//	})
//	m := pulse.New(src, 10*time.Millisecond)
//	bpm, err := m.HeartRate(ctx)
package pulse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"periph.io/x/periph/conn/physic"
)

var (
	// ErrNotDetected is returned when the readings are too low for a finger
	// to be on the sensor.
	ErrNotDetected = errors.New("pulse: nothing detected on the sensor")
	// ErrTooNoisy is returned when no consistent signal could be extracted
	// from the readings.
	ErrTooNoisy = errors.New("pulse: data has too much noise")

	errLowValue = errors.New("low value")
)

const (
	// fullScale normalizes the readings to 0.0 - 1.0.
	fullScale = 1200 * physic.MilliVolt
	// threshold is the normalized reading under which nothing is on the
	// sensor.
	threshold = 0.10
	// batchSize is the number of readings used by one SpO2 estimation.
	batchSize = 64
)

// Source returns one pair of readings per call. Calls block until a new pair
// is available.
type Source interface {
	Sample() (red, ir physic.ElectricPotential, err error)
}

// SourceFunc adapts a function to a Source.
type SourceFunc func() (red, ir physic.ElectricPotential, err error)

// Sample calls f.
func (f SourceFunc) Sample() (red, ir physic.ElectricPotential, err error) {
	return f()
}

// Monitor estimates the heart rate and the SpO2 level of the readings of a
// Source. A Monitor can be used from several goroutines. The readings and
// the estimator state are owned by one caller at a time: SpO2 holds the
// Monitor for a whole batch, HeartRate for one reading at a time.
type Monitor struct {
	src    Source
	period time.Duration

	red, ir *series
	beat    *beat
	spo2    movingAverage

	readCh chan struct{}
}

// New returns a Monitor sampling src every period.
func New(src Source, period time.Duration) *Monitor {
	m := &Monitor{
		src:    src,
		period: period,
		red:    newSeries(batchSize),
		ir:     newSeries(batchSize),
		beat:   newBeat(),
		readCh: make(chan struct{}, 1),
	}
	m.readCh <- struct{}{}
	return m
}

func normalize(p physic.ElectricPotential) float64 {
	return float64(p) / float64(fullScale)
}

// lock takes the sampling token, which guards the series, the beat detector
// and the SpO2 average.
func (m *Monitor) lock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-m.readCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Monitor) unlock() {
	m.readCh <- struct{}{}
}

// leds reads n pairs of readings into the series. The caller holds the
// token.
func (m *Monitor) leds(n int) error {
	for i := 0; i < n; i++ {
		r, ir, err := m.src.Sample()
		if err != nil {
			return fmt.Errorf("could not get LEDs: %w", err)
		}
		m.red.add(normalize(r))
		m.ir.add(normalize(ir))
	}
	return nil
}
