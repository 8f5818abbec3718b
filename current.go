package afe4404

import (
	"fmt"

	"github.com/cgxeiji/afe4404/register"
	"periph.io/x/periph/conn/physic"
)

// ThreeLedsCurrents holds the drive current of every LED in three LEDs mode.
type ThreeLedsCurrents struct {
	LED1, LED2, LED3 physic.ElectricCurrent
}

// TwoLedsCurrents holds the drive current of every LED in two LEDs mode.
type TwoLedsCurrents struct {
	LED1, LED2 physic.ElectricCurrent
}

// ThreeLedsOffsets holds the offset cancellation current of every phase in
// three LEDs mode. Negative values subtract from the photodiode current.
type ThreeLedsOffsets struct {
	LED1, LED2, LED3, Ambient physic.ElectricCurrent
}

// TwoLedsOffsets holds the offset cancellation current of every phase in two
// LEDs mode.
type TwoLedsOffsets struct {
	LED1, LED2, Ambient1, Ambient2 physic.ElectricCurrent
}

// SetLedsCurrent sets the LED drive currents and returns the currents now
// held by the device. Currents from 0 to 100 mA are allowed. If any current
// is above 50 mA every LED moves to the 100 mA range, which doubles the step
// from about 0.8 mA to 1.6 mA.
func (d *ThreeLeds) SetLedsCurrent(c ThreeLedsCurrents) (ThreeLedsCurrents, error) {
	codes, high, err := d.setLedsCurrent(c.LED1, c.LED2, c.LED3)
	if err != nil {
		return ThreeLedsCurrents{}, err
	}
	return ThreeLedsCurrents{
		LED1: ledCurrent(codes[0], high),
		LED2: ledCurrent(codes[1], high),
		LED3: ledCurrent(codes[2], high),
	}, nil
}

// LedsCurrent returns the LED drive currents.
func (d *ThreeLeds) LedsCurrent() (ThreeLedsCurrents, error) {
	codes, high, err := d.ledsCurrent()
	if err != nil {
		return ThreeLedsCurrents{}, err
	}
	return ThreeLedsCurrents{
		LED1: ledCurrent(codes[0], high),
		LED2: ledCurrent(codes[1], high),
		LED3: ledCurrent(codes[2], high),
	}, nil
}

// SetLedsCurrent sets the LED drive currents and returns the currents now
// held by the device. LED3 is switched off. See ThreeLeds.SetLedsCurrent for
// the ranges.
func (d *TwoLeds) SetLedsCurrent(c TwoLedsCurrents) (TwoLedsCurrents, error) {
	codes, high, err := d.setLedsCurrent(c.LED1, c.LED2, 0)
	if err != nil {
		return TwoLedsCurrents{}, err
	}
	return TwoLedsCurrents{
		LED1: ledCurrent(codes[0], high),
		LED2: ledCurrent(codes[1], high),
	}, nil
}

// LedsCurrent returns the LED drive currents.
func (d *TwoLeds) LedsCurrent() (TwoLedsCurrents, error) {
	codes, high, err := d.ledsCurrent()
	if err != nil {
		return TwoLedsCurrents{}, err
	}
	return TwoLedsCurrents{
		LED1: ledCurrent(codes[0], high),
		LED2: ledCurrent(codes[1], high),
	}, nil
}

func ledRangeFor(high bool) physic.ElectricCurrent {
	if high {
		return ledRangeHigh
	}
	return ledRange
}

func ledCurrent(code uint32, high bool) physic.ElectricCurrent {
	return fromCode(code, ledRangeFor(high), ledSteps)
}

// setLedsCurrent writes ILED1..3 and the shared ILED_2X range bit.
func (d *device) setLedsCurrent(leds ...physic.ElectricCurrent) ([3]uint32, bool, error) {
	var codes [3]uint32

	high := false
	for _, c := range leds {
		if c < 0 || c > ledRangeHigh {
			return codes, false, fmt.Errorf("%w: %s", ErrLedCurrentOutsideAllowedRange, c)
		}
		if c > ledRange {
			high = true
		}
	}
	rng := ledRangeFor(high)
	for i, c := range leds {
		codes[i] = toCode(c, rng, ledSteps)
	}

	r23 := d.reg(register.Control2)
	prev, err := r23.Read()
	if err != nil {
		return codes, false, fmt.Errorf("afe4404: could not set LEDs current: %w", err)
	}

	v := register.Value(0).
		With(register.ILED1, codes[0]).
		With(register.ILED2, codes[1]).
		With(register.ILED3, codes[2])
	if err := d.reg(register.LEDCurrent).Write(v); err != nil {
		return codes, false, fmt.Errorf("afe4404: could not set LEDs current: %w", err)
	}
	if err := r23.Write(prev.WithBool(register.ILED2x, high)); err != nil {
		return codes, false, fmt.Errorf("afe4404: could not set LEDs current range: %w", err)
	}

	return codes, high, nil
}

func (d *device) ledsCurrent() ([3]uint32, bool, error) {
	var codes [3]uint32

	v, err := d.reg(register.LEDCurrent).Read()
	if err != nil {
		return codes, false, fmt.Errorf("afe4404: could not get LEDs current: %w", err)
	}
	r23, err := d.reg(register.Control2).Read()
	if err != nil {
		return codes, false, fmt.Errorf("afe4404: could not get LEDs current range: %w", err)
	}

	codes[0] = v.Field(register.ILED1)
	codes[1] = v.Field(register.ILED2)
	codes[2] = v.Field(register.ILED3)
	return codes, r23.Bool(register.ILED2x), nil
}

// SetOffsetCurrent sets the offset cancellation currents and returns the
// currents now held by the device. Currents from -7 µA to 7 µA are allowed
// in steps of about 0.47 µA.
func (d *ThreeLeds) SetOffsetCurrent(c ThreeLedsOffsets) (ThreeLedsOffsets, error) {
	// LED3 shares the Ambient2 DAC.
	o, err := d.setOffsetCurrent(offsets{led2: c.LED2, amb1: c.Ambient, led1: c.LED1, amb2: c.LED3})
	if err != nil {
		return ThreeLedsOffsets{}, err
	}
	return ThreeLedsOffsets{LED1: o.led1, LED2: o.led2, LED3: o.amb2, Ambient: o.amb1}, nil
}

// OffsetCurrent returns the offset cancellation currents.
func (d *ThreeLeds) OffsetCurrent() (ThreeLedsOffsets, error) {
	o, err := d.offsetCurrent()
	if err != nil {
		return ThreeLedsOffsets{}, err
	}
	return ThreeLedsOffsets{LED1: o.led1, LED2: o.led2, LED3: o.amb2, Ambient: o.amb1}, nil
}

// SetOffsetCurrent sets the offset cancellation currents and returns the
// currents now held by the device. Currents from -7 µA to 7 µA are allowed
// in steps of about 0.47 µA.
func (d *TwoLeds) SetOffsetCurrent(c TwoLedsOffsets) (TwoLedsOffsets, error) {
	o, err := d.setOffsetCurrent(offsets{led2: c.LED2, amb1: c.Ambient1, led1: c.LED1, amb2: c.Ambient2})
	if err != nil {
		return TwoLedsOffsets{}, err
	}
	return TwoLedsOffsets{LED1: o.led1, LED2: o.led2, Ambient1: o.amb1, Ambient2: o.amb2}, nil
}

// OffsetCurrent returns the offset cancellation currents.
func (d *TwoLeds) OffsetCurrent() (TwoLedsOffsets, error) {
	o, err := d.offsetCurrent()
	if err != nil {
		return TwoLedsOffsets{}, err
	}
	return TwoLedsOffsets{LED1: o.led1, LED2: o.led2, Ambient1: o.amb1, Ambient2: o.amb2}, nil
}

// offsets are the four offset DACs by hardware phase.
type offsets struct {
	led2, amb1, led1, amb2 physic.ElectricCurrent
}

type offsetDAC struct {
	pol, mag register.Field
}

var (
	dacLED2 = offsetDAC{register.PolOffDACLED2, register.IOffDACLED2}
	dacAmb1 = offsetDAC{register.PolOffDACAmb1, register.IOffDACAmb1}
	dacLED1 = offsetDAC{register.PolOffDACLED1, register.IOffDACLED1}
	dacAmb2 = offsetDAC{register.PolOffDACAmb2, register.IOffDACAmb2}
)

func (dac offsetDAC) encode(v register.Value, c physic.ElectricCurrent) register.Value {
	neg := c < 0
	if neg {
		c = -c
	}
	return v.With(dac.mag, toCode(c, offsetRange, offsetSteps)).WithBool(dac.pol, neg)
}

func (dac offsetDAC) decode(v register.Value) physic.ElectricCurrent {
	c := fromCode(v.Field(dac.mag), offsetRange, offsetSteps)
	if v.Bool(dac.pol) {
		return -c
	}
	return c
}

func (d *device) setOffsetCurrent(o offsets) (offsets, error) {
	for _, c := range []physic.ElectricCurrent{o.led2, o.amb1, o.led1, o.amb2} {
		if c < -offsetRange || c > offsetRange {
			return offsets{}, fmt.Errorf("%w: %s", ErrOffsetCurrentOutsideAllowedRange, c)
		}
	}

	var v register.Value
	v = dacLED2.encode(v, o.led2)
	v = dacAmb1.encode(v, o.amb1)
	v = dacLED1.encode(v, o.led1)
	v = dacAmb2.encode(v, o.amb2)
	if err := d.reg(register.OffsetDAC).Write(v); err != nil {
		return offsets{}, fmt.Errorf("afe4404: could not set offset current: %w", err)
	}

	return decodeOffsets(v), nil
}

func (d *device) offsetCurrent() (offsets, error) {
	v, err := d.reg(register.OffsetDAC).Read()
	if err != nil {
		return offsets{}, fmt.Errorf("afe4404: could not get offset current: %w", err)
	}
	return decodeOffsets(v), nil
}

func decodeOffsets(v register.Value) offsets {
	return offsets{
		led2: dacLED2.decode(v),
		amb1: dacAmb1.decode(v),
		led1: dacLED1.decode(v),
		amb2: dacAmb2.decode(v),
	}
}
