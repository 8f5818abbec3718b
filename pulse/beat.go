package pulse

import "periph.io/x/periph/conn/physic"

// Accepted peak to peak swing of the filtered signal between two rising
// edges. At 72 bpm sampled at 100 Hz the swing is about 0.41 times the pulse
// amplitude, so pulses from about 0.25 mV to 290 mV count as beats. Smaller
// swings are ADC noise, larger ones are motion.
const (
	minSwing = 100 * physic.MicroVolt
	maxSwing = fullScale / 10
)

// beat finds heart beats in a normalized (0.0 - 1.0) signal. The DC level is
// tracked with a moving average, the remainder is low-pass filtered and a
// beat is a rising zero crossing after a plausible swing.
type beat struct {
	lp fir
	dc movingAverage

	peak, trough, prev float64
	rising             bool
}

func newBeat() *beat {
	return &beat{}
}

// plausible reports whether a normalized swing is within the accepted band.
func plausible(swing float64) bool {
	p := physic.ElectricPotential(swing * float64(fullScale))
	return p > minSwing && p < maxSwing
}

// check adds one reading and reports whether it completes a beat.
func (b *beat) check(signal float64) bool {
	b.dc.add(signal)
	ac := b.lp.lowPass(signal - b.dc.mean)

	found := false
	switch {
	case b.prev < 0 && ac >= 0:
		found = plausible(b.peak - b.trough)
		b.rising = true
		b.peak = 0
	case b.prev > 0 && ac <= 0:
		b.rising = false
		b.trough = 0
	}

	if b.rising && ac > b.prev {
		b.peak = ac
	} else if !b.rising && ac < b.prev {
		b.trough = ac
	}

	b.prev = ac
	return found
}
