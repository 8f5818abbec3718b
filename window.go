package afe4404

import (
	"fmt"
	"math"
	"time"

	"github.com/cgxeiji/afe4404/register"
	"periph.io/x/periph/conn/physic"
)

// LedTiming is the timing of an LED phase, relative to the start of the
// measurement window.
type LedTiming struct {
	LightingStart, LightingEnd time.Duration
	SampleStart, SampleEnd     time.Duration
	ResetStart, ResetEnd       time.Duration
	ConvStart, ConvEnd         time.Duration
}

// AmbientTiming is the timing of an ambient phase. No LED is lit.
type AmbientTiming struct {
	SampleStart, SampleEnd time.Duration
	ResetStart, ResetEnd   time.Duration
	ConvStart, ConvEnd     time.Duration
}

// PowerDownTiming is the dynamic power-down phase of the measurement window.
type PowerDownTiming struct {
	Start, End time.Duration
}

// ThreeLedsActive holds the phases of a three LEDs measurement window.
type ThreeLedsActive struct {
	LED1, LED2, LED3 LedTiming
	Ambient          AmbientTiming
}

// TwoLedsActive holds the phases of a two LEDs measurement window.
type TwoLedsActive struct {
	LED1, LED2         LedTiming
	Ambient1, Ambient2 AmbientTiming
}

// ThreeLedsWindow is the measurement window of a three LEDs device.
type ThreeLedsWindow struct {
	Period    time.Duration
	Active    ThreeLedsActive
	PowerDown PowerDownTiming
}

// TwoLedsWindow is the measurement window of a two LEDs device.
type TwoLedsWindow struct {
	Period    time.Duration
	Active    TwoLedsActive
	PowerDown PowerDownTiming
}

// SetTimingWindow programs the timing engine and returns the window now held
// by the device. Every boundary is rounded to the timer resolution, which
// is the clock period times the smallest PRF divider (1, 2, 4, 8 or 16) able
// to count the whole period in 16 bits.
//
// The registers are written one by one. If a write fails the registers
// written before it keep their new value.
func (d *ThreeLeds) SetTimingWindow(w ThreeLedsWindow) (ThreeLedsWindow, error) {
	got, err := d.setTimingWindow(window{
		period: w.Period,
		slots: [4]phases{
			w.Active.LED2.phases(),
			w.Active.LED3.phases(),
			w.Active.LED1.phases(),
			w.Active.Ambient.phases(),
		},
		powerDown: w.PowerDown,
	})
	if err != nil {
		return ThreeLedsWindow{}, err
	}
	return got.threeLeds(), nil
}

// TimingWindow returns the measurement window of the device.
func (d *ThreeLeds) TimingWindow() (ThreeLedsWindow, error) {
	got, err := d.timingWindow()
	if err != nil {
		return ThreeLedsWindow{}, err
	}
	return got.threeLeds(), nil
}

// SetTimingWindow programs the timing engine and returns the window now held
// by the device. See ThreeLeds.SetTimingWindow.
func (d *TwoLeds) SetTimingWindow(w TwoLedsWindow) (TwoLedsWindow, error) {
	got, err := d.setTimingWindow(window{
		period: w.Period,
		slots: [4]phases{
			w.Active.LED2.phases(),
			w.Active.Ambient2.phases(),
			w.Active.LED1.phases(),
			w.Active.Ambient1.phases(),
		},
		powerDown: w.PowerDown,
	})
	if err != nil {
		return TwoLedsWindow{}, err
	}
	return got.twoLeds(), nil
}

// TimingWindow returns the measurement window of the device.
func (d *TwoLeds) TimingWindow() (TwoLedsWindow, error) {
	got, err := d.timingWindow()
	if err != nil {
		return TwoLedsWindow{}, err
	}
	return got.twoLeds(), nil
}

// phases are the boundaries of one hardware slot in register order:
// lighting, sample, reset and conversion, start then end.
type phases [8]time.Duration

func (t LedTiming) phases() phases {
	return phases{
		t.LightingStart, t.LightingEnd,
		t.SampleStart, t.SampleEnd,
		t.ResetStart, t.ResetEnd,
		t.ConvStart, t.ConvEnd,
	}
}

// phases of an ambient slot have no lighting. In the slot shared with LED3
// the lighting registers are written as zero.
func (t AmbientTiming) phases() phases {
	return phases{
		0, 0,
		t.SampleStart, t.SampleEnd,
		t.ResetStart, t.ResetEnd,
		t.ConvStart, t.ConvEnd,
	}
}

func (p phases) led() LedTiming {
	return LedTiming{
		LightingStart: p[0], LightingEnd: p[1],
		SampleStart: p[2], SampleEnd: p[3],
		ResetStart: p[4], ResetEnd: p[5],
		ConvStart: p[6], ConvEnd: p[7],
	}
}

func (p phases) ambient() AmbientTiming {
	return AmbientTiming{
		SampleStart: p[2], SampleEnd: p[3],
		ResetStart: p[4], ResetEnd: p[5],
		ConvStart: p[6], ConvEnd: p[7],
	}
}

// window is a measurement window by hardware slot.
type window struct {
	period    time.Duration
	slots     [4]phases
	powerDown PowerDownTiming
}

func (w window) threeLeds() ThreeLedsWindow {
	return ThreeLedsWindow{
		Period: w.period,
		Active: ThreeLedsActive{
			LED1:    w.slots[2].led(),
			LED2:    w.slots[0].led(),
			LED3:    w.slots[1].led(),
			Ambient: w.slots[3].ambient(),
		},
		PowerDown: w.powerDown,
	}
}

func (w window) twoLeds() TwoLedsWindow {
	return TwoLedsWindow{
		Period: w.period,
		Active: TwoLedsActive{
			LED1:     w.slots[2].led(),
			LED2:     w.slots[0].led(),
			Ambient1: w.slots[3].ambient(),
			Ambient2: w.slots[1].ambient(),
		},
		PowerDown: w.powerDown,
	}
}

// slot lists the registers of one hardware slot in the order of phases.
// Slots without an LED have no lighting registers.
type slot struct {
	regs [8]register.Addr
	lit  bool
}

// slots in hardware order: LED2, LED3 or Ambient2, LED1, Ambient1.
var slots = [4]slot{
	{[8]register.Addr{
		register.LED2LEDSTC, register.LED2LEDENDC,
		register.LED2STC, register.LED2ENDC,
		register.ADCRSTSTCT0, register.ADCRSTENDCT0,
		register.LED2CONVST, register.LED2CONVEND,
	}, true},
	{[8]register.Addr{
		register.LED3LEDSTC, register.LED3LEDENDC,
		register.ALED2STC, register.ALED2ENDC,
		register.ADCRSTSTCT1, register.ADCRSTENDCT1,
		register.ALED2CONVST, register.ALED2CONVEND,
	}, true},
	{[8]register.Addr{
		register.LED1LEDSTC, register.LED1LEDENDC,
		register.LED1STC, register.LED1ENDC,
		register.ADCRSTSTCT2, register.ADCRSTENDCT2,
		register.LED1CONVST, register.LED1CONVEND,
	}, true},
	{[8]register.Addr{
		0, 0,
		register.ALED1STC, register.ALED1ENDC,
		register.ADCRSTSTCT3, register.ADCRSTENDCT3,
		register.ALED1CONVST, register.ALED1CONVEND,
	}, false},
}

// timer is the timing engine configuration derived from a period.
type timer struct {
	clock   physic.Frequency
	divider int64
	code    uint32 // CLKDIV_PRF
	counter int64  // PRPCT + 1
}

// newTimer selects the smallest divider able to count period in 16 bits.
func newTimer(period time.Duration, clock physic.Frequency) (timer, error) {
	if period <= 0 {
		return timer{}, fmt.Errorf("%w: %s", ErrWindowPeriodTooShort, period)
	}

	// physic.Frequency counts µHz, ticks = ns * µHz / 1e15.
	ticks := float64(period) * float64(clock) / 1e15
	need := int64(math.Ceil(ticks / counterSize))

	for _, div := range dividers {
		if need > div.ratio {
			continue
		}
		t := timer{
			clock:   clock,
			divider: div.ratio,
			code:    div.code,
			counter: int64(math.Round(ticks / float64(div.ratio))),
		}
		if t.counter < 1 {
			return timer{}, fmt.Errorf("%w: %s", ErrWindowPeriodTooShort, period)
		}
		return t, nil
	}
	return timer{}, fmt.Errorf("%w: %s", ErrWindowPeriodTooLong, period)
}

// timerFromCode rebuilds the timer from CLKDIV_PRF and PRPCT.
func timerFromCode(code uint32, prpct uint32, clock physic.Frequency) (timer, bool) {
	for _, div := range dividers {
		if div.code == code {
			return timer{
				clock:   clock,
				divider: div.ratio,
				code:    code,
				counter: int64(prpct) + 1,
			}, true
		}
	}
	return timer{}, false
}

// duration converts a register count into time. Counts tick every
// divider/clock.
func (t timer) duration(count int64) time.Duration {
	return time.Duration(math.Round(float64(count) * float64(t.divider) * 1e15 / float64(t.clock)))
}

func (t timer) period() time.Duration {
	return t.duration(t.counter)
}

// count quantizes a boundary with the step period/counter.
func (t timer) count(b, period time.Duration) (uint32, error) {
	if b < 0 {
		return 0, fmt.Errorf("%w: %s", ErrTimingOutsideAllowedRange, b)
	}
	c := math.Round(float64(b) * float64(t.counter) / float64(period))
	return uint32(clamp(c, 0, counterSize-1)), nil
}

func (d *device) setTimingWindow(w window) (window, error) {
	t, err := newTimer(w.period, d.clock)
	if err != nil {
		return window{}, err
	}

	var codes [4][8]uint32
	for i, s := range slots {
		for j := range w.slots[i] {
			if !s.lit && j < 2 {
				continue
			}
			if codes[i][j], err = t.count(w.slots[i][j], w.period); err != nil {
				return window{}, err
			}
		}
	}
	var pdn [2]uint32
	for i, b := range []time.Duration{w.powerDown.Start, w.powerDown.End} {
		if pdn[i], err = t.count(b, w.period); err != nil {
			return window{}, err
		}
	}

	r1e := d.reg(register.TimerControl)
	prev, err := r1e.Read()
	if err != nil {
		return window{}, fmt.Errorf("afe4404: could not set timing window: %w", err)
	}

	if err := d.writeCount(register.PRPCT, uint32(t.counter-1)); err != nil {
		return window{}, err
	}
	if err := d.reg(register.ClockDiv).Write(register.Value(0).With(register.ClkDivPRF, t.code)); err != nil {
		return window{}, fmt.Errorf("afe4404: could not set timing window: %w", err)
	}
	if err := r1e.Write(prev.WithBool(register.TimerEn, true)); err != nil {
		return window{}, fmt.Errorf("afe4404: could not enable timer: %w", err)
	}

	for i, s := range slots {
		for j, addr := range s.regs {
			if !s.lit && j < 2 {
				continue
			}
			if err := d.writeCount(addr, codes[i][j]); err != nil {
				return window{}, err
			}
		}
	}
	if err := d.writeCount(register.PDNCYCLESTC, pdn[0]); err != nil {
		return window{}, err
	}
	if err := d.writeCount(register.PDNCYCLEENDC, pdn[1]); err != nil {
		return window{}, err
	}

	return t.window(codes, pdn), nil
}

func (d *device) timingWindow() (window, error) {
	prpct, err := d.readCount(register.PRPCT)
	if err != nil {
		return window{}, err
	}
	div, err := d.reg(register.ClockDiv).Read()
	if err != nil {
		return window{}, fmt.Errorf("afe4404: could not get timing window: %w", err)
	}
	t, ok := timerFromCode(div.Field(register.ClkDivPRF), prpct, d.clock)
	if !ok {
		return window{}, invalid(register.ClockDiv)
	}

	var codes [4][8]uint32
	for i, s := range slots {
		for j, addr := range s.regs {
			if !s.lit && j < 2 {
				continue
			}
			if codes[i][j], err = d.readCount(addr); err != nil {
				return window{}, err
			}
		}
	}
	var pdn [2]uint32
	if pdn[0], err = d.readCount(register.PDNCYCLESTC); err != nil {
		return window{}, err
	}
	if pdn[1], err = d.readCount(register.PDNCYCLEENDC); err != nil {
		return window{}, err
	}

	return t.window(codes, pdn), nil
}

func (t timer) window(codes [4][8]uint32, pdn [2]uint32) window {
	w := window{
		period: t.period(),
		powerDown: PowerDownTiming{
			Start: t.duration(int64(pdn[0])),
			End:   t.duration(int64(pdn[1])),
		},
	}
	for i := range codes {
		for j, c := range codes[i] {
			w.slots[i][j] = t.duration(int64(c))
		}
	}
	return w
}

func (d *device) writeCount(addr register.Addr, count uint32) error {
	if err := d.reg(addr).Write(register.Value(0).With(register.Count, count)); err != nil {
		return fmt.Errorf("afe4404: could not set timing window: %w", err)
	}
	return nil
}

func (d *device) readCount(addr register.Addr) (uint32, error) {
	v, err := d.reg(addr).Read()
	if err != nil {
		return 0, fmt.Errorf("afe4404: could not get timing window: %w", err)
	}
	return v.Field(register.Count), nil
}
