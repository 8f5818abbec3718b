package afe4404

import (
	"fmt"

	"periph.io/x/periph/conn"
	"tinygo.org/x/drivers"
)

// tinyConn adapts a tinygo.org/x/drivers.I2C bus to conn.Conn so the device
// runs on microcontrollers.
type tinyConn struct {
	bus  drivers.I2C
	addr uint16
}

var _ conn.Conn = (*tinyConn)(nil)

func (c *tinyConn) String() string {
	return fmt.Sprintf("tinygo-i2c(%#x)", c.addr)
}

func (c *tinyConn) Tx(w, r []byte) error {
	return c.bus.Tx(c.addr, w, r)
}

func (c *tinyConn) Duplex() conn.Duplex {
	return conn.Half
}

// NewTinyGo returns an uninitialized AFE4404 on a TinyGo I²C bus. An addr of
// 0 selects the default address 0x58. OnBus and OnAddr have no effect.
func NewTinyGo(bus drivers.I2C, addr uint16, opts ...Option) (*Uninitialized, error) {
	if addr == 0 {
		addr = Addr
	}
	return NewConn(&tinyConn{bus: bus, addr: addr}, opts...)
}
