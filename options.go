package afe4404

import "periph.io/x/periph/conn/physic"

// An Option configures a device before it is initialized.
type Option func(u *Uninitialized) Option

// OnBus can be used to specify I²C bus name
// ("/dev/i2c-2", "I2C2", "2"). By default, the bus name is "", which selects
// the first available bus. It has no effect on NewConn.
func OnBus(name string) Option {
	return func(u *Uninitialized) Option {
		old := u.bus
		u.bus = name
		return OnBus(old)
	}
}

// OnAddr can be used to specify alternative I²C address.
// By default, the address is 0x58. It has no effect on NewConn.
func OnAddr(addr uint16) Option {
	return func(u *Uninitialized) Option {
		old := u.addr
		u.addr = addr
		return OnAddr(old)
	}
}

// WithClock sets the frequency of the clock driving the device. By default,
// the clock is the 4 MHz internal oscillator. Use it when the device is
// driven by an external clock on the CLK pin.
func WithClock(f physic.Frequency) Option {
	return func(u *Uninitialized) Option {
		old := u.clock
		u.clock = f
		return WithClock(old)
	}
}
