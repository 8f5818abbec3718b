// Package afe4404 drives the TI AFE4404 analog front end for pulse
// oximetry over I²C.
//
// Configuration is expressed in physical units and the device returns the
// value it actually holds after quantization:
//
//	u, err := afe4404.New()
//	...
//	d, err := u.ThreeLeds()
//	...
//	got, err := d.SetLedsCurrent(afe4404.ThreeLedsCurrents{
//		LED1: 30 * physic.MilliAmpere,
//		LED2: 30 * physic.MilliAmpere,
//		LED3: 30 * physic.MilliAmpere,
//	})
//
// The device is used in one of two lighting modes, three LEDs with one
// ambient phase or two LEDs with two ambient phases. The mode is chosen once
// by converting the Uninitialized device and operations that only make sense
// in one mode exist only on that mode's type.
//
// A device is not safe for concurrent use. Most setters read, modify and
// write a register and the caller must serialize access.
package afe4404

import (
	"errors"
	"fmt"

	"github.com/cgxeiji/afe4404/register"
	"periph.io/x/periph/conn"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/host"
)

var (
	// ErrConsumed is returned when converting an Uninitialized device that
	// was already converted to a lighting mode.
	ErrConsumed = errors.New("afe4404: device already initialized")
	// ErrClockOutsideAllowedRange is returned when the configured clock
	// frequency is not positive.
	ErrClockOutsideAllowedRange = errors.New("afe4404: clock frequency outside allowed range")

	// ErrLedCurrentOutsideAllowedRange is returned when an LED current is
	// negative or above 100 mA.
	ErrLedCurrentOutsideAllowedRange = errors.New("afe4404: LED current outside allowed range")
	// ErrOffsetCurrentOutsideAllowedRange is returned when an offset current
	// is outside ±7 µA.
	ErrOffsetCurrentOutsideAllowedRange = errors.New("afe4404: offset current outside allowed range")
	// ErrResistorValueOutsideAllowedRange is returned when a TIA resistor is
	// outside 10 kΩ..2 MΩ.
	ErrResistorValueOutsideAllowedRange = errors.New("afe4404: resistor value outside allowed range")
	// ErrCapacitorValueOutsideAllowedRange is returned when a TIA capacitor is
	// outside 2.5 pF..25 pF.
	ErrCapacitorValueOutsideAllowedRange = errors.New("afe4404: capacitor value outside allowed range")
	// ErrWindowPeriodTooLong is returned when no clock divider can count the
	// requested measurement window period.
	ErrWindowPeriodTooLong = errors.New("afe4404: window period too long")
	// ErrWindowPeriodTooShort is returned when the measurement window period
	// is shorter than one clock tick.
	ErrWindowPeriodTooShort = errors.New("afe4404: window period too short")
	// ErrTimingOutsideAllowedRange is returned when a phase boundary of the
	// measurement window is negative.
	ErrTimingOutsideAllowedRange = errors.New("afe4404: timing outside allowed range")
	// ErrClockDivisionRatioOutsideAllowedRange is returned when the clock
	// output division ratio is below 1 or above 128.
	ErrClockDivisionRatioOutsideAllowedRange = errors.New("afe4404: clock division ratio outside allowed range")
	// ErrIncorrectInternalClock is returned when selecting the internal
	// oscillator on a device configured with a clock other than 4 MHz.
	ErrIncorrectInternalClock = errors.New("afe4404: configured clock does not match the internal oscillator")
	// ErrAveragingOutsideAllowedRange is returned when the number of ADC
	// averages is not in 1..16.
	ErrAveragingOutsideAllowedRange = errors.New("afe4404: number of averages outside allowed range")
	// ErrDecimationOutsideAllowedRange is returned when the decimation factor
	// is not one of 1, 2, 4, 8 or 16.
	ErrDecimationOutsideAllowedRange = errors.New("afe4404: decimation factor outside allowed range")
	// ErrAdcReadingOutsideAllowedRange is returned when the ADC saturated past
	// its full scale.
	ErrAdcReadingOutsideAllowedRange = errors.New("afe4404: ADC reading outside allowed range")
	// ErrInvalidRegisterValue is returned when a register holds a bit pattern
	// with no defined meaning.
	ErrInvalidRegisterValue = errors.New("afe4404: invalid register value")
)

func invalid(addr register.Addr) error {
	return fmt.Errorf("%w at %#02x", ErrInvalidRegisterValue, uint8(addr))
}

// Uninitialized is a device whose lighting mode is not chosen yet. Convert it
// with ThreeLeds or TwoLeds.
type Uninitialized struct {
	bus   string
	addr  uint16
	clock physic.Frequency

	closer   i2c.BusCloser
	regs     *register.Block
	consumed bool
}

func defaults() *Uninitialized {
	return &Uninitialized{
		addr:  Addr,
		clock: InternalClockFrequency,
	}
}

// New opens the host I²C bus and returns an uninitialized AFE4404. No
// register is touched.
func New(opts ...Option) (*Uninitialized, error) {
	u := defaults()
	for _, opt := range opts {
		opt(u)
	}
	if u.clock <= 0 {
		return nil, ErrClockOutsideAllowedRange
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("afe4404: could not initialize host: %w", err)
	}

	bus, err := i2creg.Open(u.bus)
	if err != nil {
		return nil, fmt.Errorf("afe4404: could not open I2C bus: %w", err)
	}

	if u.addr == 0 {
		u.addr = Addr
	}

	u.closer = bus
	u.regs = register.NewBlock(&i2c.Dev{Addr: u.addr, Bus: bus})

	return u, nil
}

// NewConn returns an uninitialized AFE4404 on an already opened connection.
// The connection is not closed by Close.
func NewConn(c conn.Conn, opts ...Option) (*Uninitialized, error) {
	u := defaults()
	for _, opt := range opts {
		opt(u)
	}
	if u.clock <= 0 {
		return nil, ErrClockOutsideAllowedRange
	}
	u.regs = register.NewBlock(c)
	return u, nil
}

func (u *Uninitialized) consume() (*device, error) {
	if u.consumed {
		return nil, ErrConsumed
	}
	u.consumed = true
	return &device{
		regs:   u.regs,
		clock:  u.clock,
		closer: u.closer,
	}, nil
}

// ThreeLeds converts the device to three LEDs mode. The Uninitialized device
// cannot be used afterwards.
func (u *Uninitialized) ThreeLeds() (*ThreeLeds, error) {
	d, err := u.consume()
	if err != nil {
		return nil, err
	}
	return &ThreeLeds{d}, nil
}

// TwoLeds converts the device to two LEDs mode. The Uninitialized device
// cannot be used afterwards.
func (u *Uninitialized) TwoLeds() (*TwoLeds, error) {
	d, err := u.consume()
	if err != nil {
		return nil, err
	}
	return &TwoLeds{d}, nil
}

// Close closes the bus opened by New. It does nothing once the device was
// converted, close the converted device instead.
func (u *Uninitialized) Close() error {
	if u.consumed || u.closer == nil {
		return nil
	}
	return u.closer.Close()
}

// ThreeLeds is an AFE4404 driving LED1, LED2 and LED3 with one ambient
// phase.
type ThreeLeds struct {
	*device
}

// TwoLeds is an AFE4404 driving LED1 and LED2 with two ambient phases.
type TwoLeds struct {
	*device
}

// device holds what both lighting modes share.
type device struct {
	regs   *register.Block
	clock  physic.Frequency
	closer i2c.BusCloser
}

// Close closes the bus if it was opened by New.
func (d *device) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

// Registers gives low level access to the registers of the device.
func (d *device) Registers() *register.Block {
	return d.regs
}

// Clock returns the clock frequency the device was configured with.
func (d *device) Clock() physic.Frequency {
	return d.clock
}

func (d *device) reg(addr register.Addr) *register.Register {
	return d.regs.Register(addr)
}
