package afe4404

import (
	"fmt"

	"github.com/cgxeiji/afe4404/register"
)

// ClockConfiguration is the clock source of the device. It is one of
// InternalClock, InternalClockToOutput or ExternalClock.
type ClockConfiguration interface {
	clockSource()
}

// InternalClock runs the device from its 4 MHz oscillator.
type InternalClock struct{}

// InternalClockToOutput runs the device from its 4 MHz oscillator and drives
// the oscillator, divided by DivisionRatio, on the CLK pin. DivisionRatio is
// rounded to the closest power of two up to 128.
type InternalClockToOutput struct {
	DivisionRatio uint8
}

// ExternalClock runs the device from the clock on the CLK pin.
type ExternalClock struct{}

func (InternalClock) clockSource()         {}
func (InternalClockToOutput) clockSource() {}
func (ExternalClock) clockSource()         {}

// SetClockSource selects the clock source and returns the configuration now
// held by the device. The internal oscillator can only be selected when the
// device was configured with a 4 MHz clock (see WithClock).
func (d *device) SetClockSource(c ClockConfiguration) (ClockConfiguration, error) {
	var (
		internal, output bool
		code             int
	)
	switch c := c.(type) {
	case InternalClock:
		internal = true
	case InternalClockToOutput:
		if c.DivisionRatio < 1 {
			return nil, fmt.Errorf("%w: %d", ErrClockDivisionRatioOutsideAllowedRange, c.DivisionRatio)
		}
		code = log2Code(float64(c.DivisionRatio))
		if code > maxClkDivOut {
			return nil, fmt.Errorf("%w: %d", ErrClockDivisionRatioOutsideAllowedRange, c.DivisionRatio)
		}
		internal, output = true, true
	case ExternalClock:
	default:
		return nil, fmt.Errorf("afe4404: unknown clock configuration %T", c)
	}

	if internal && d.clock != InternalClockFrequency {
		return nil, fmt.Errorf("%w: %s", ErrIncorrectInternalClock, d.clock)
	}

	if _, err := d.reg(register.Control2).Update(func(v register.Value) register.Value {
		return v.WithBool(register.OscEnable, internal)
	}); err != nil {
		return nil, fmt.Errorf("afe4404: could not set clock source: %w", err)
	}

	v := register.Value(0).
		WithBool(register.EnableClkOut, output).
		With(register.ClkDivClkOut, uint32(code))
	if err := d.reg(register.ClockOut).Write(v); err != nil {
		return nil, fmt.Errorf("afe4404: could not set clock output: %w", err)
	}

	return clockConfiguration(internal, output, uint32(code)), nil
}

// ClockSource returns the clock source of the device.
func (d *device) ClockSource() (ClockConfiguration, error) {
	r23, err := d.reg(register.Control2).Read()
	if err != nil {
		return nil, fmt.Errorf("afe4404: could not get clock source: %w", err)
	}
	r29, err := d.reg(register.ClockOut).Read()
	if err != nil {
		return nil, fmt.Errorf("afe4404: could not get clock output: %w", err)
	}

	code := r29.Field(register.ClkDivClkOut)
	output := r29.Bool(register.EnableClkOut)
	if output && code > maxClkDivOut {
		return nil, invalid(register.ClockOut)
	}
	return clockConfiguration(r23.Bool(register.OscEnable), output, code), nil
}

func clockConfiguration(internal, output bool, code uint32) ClockConfiguration {
	switch {
	case !internal:
		return ExternalClock{}
	case output:
		return InternalClockToOutput{DivisionRatio: 1 << code}
	default:
		return InternalClock{}
	}
}
