package register

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
	"periph.io/x/periph/conn"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2ctest"
)

const devAddr = 0x58

func playback(ops ...i2ctest.IO) (*i2ctest.Playback, conn.Conn) {
	pb := &i2ctest.Playback{Ops: ops, DontPanic: true}
	return pb, &i2c.Dev{Bus: pb, Addr: devAddr}
}

// failConn lets the first ok transfers through and fails the rest.
type failConn struct {
	ok  int
	err error
}

func (f *failConn) String() string      { return "failConn" }
func (f *failConn) Duplex() conn.Duplex { return conn.Half }

func (f *failConn) Tx(w, r []byte) error {
	if f.ok == 0 {
		return f.err
	}
	f.ok--
	return nil
}

// shortConn reports one byte less than requested on every write.
type shortConn struct{ failConn }

func (s *shortConn) Write(b []byte) (int, error) {
	return len(b) - 1, nil
}

func TestValueFields(t *testing.T) {
	c := qt.New(t)

	var v Value
	v = v.With(ILED1, 38).With(ILED2, 63).With(ILED3, 1)
	c.Assert(v, qt.Equals, Value(1<<12|63<<6|38))
	c.Assert(v.Field(ILED1), qt.Equals, uint32(38))
	c.Assert(v.Field(ILED2), qt.Equals, uint32(63))
	c.Assert(v.Field(ILED3), qt.Equals, uint32(1))

	// Out of range bits are dropped and neighbours are untouched.
	v = v.With(ILED1, 0xFF)
	c.Assert(v.Field(ILED1), qt.Equals, uint32(63))
	c.Assert(v.Field(ILED2), qt.Equals, uint32(63))

	v = Value(0).WithBool(ILED2x, true)
	c.Assert(v, qt.Equals, Value(1<<17))
	c.Assert(v.Bool(ILED2x), qt.IsTrue)
	c.Assert(v.WithBool(ILED2x, false), qt.Equals, Value(0))
}

func TestValueBytes(t *testing.T) {
	c := qt.New(t)

	v := Value(0x123456)
	c.Assert(v.Bytes(), qt.Equals, [3]byte{0x12, 0x34, 0x56})
	c.Assert(ValueFromBytes([3]byte{0x12, 0x34, 0x56}), qt.Equals, v)
}

func TestLayouts(t *testing.T) {
	c := qt.New(t)

	for addr, fields := range Layouts {
		var used uint32
		for _, f := range fields {
			c.Assert(f.Width > 0, qt.IsTrue, qt.Commentf("%#02x %s", addr, f.Name))
			c.Assert(int(f.Offset)+int(f.Width) <= 24, qt.IsTrue, qt.Commentf("%#02x %s", addr, f.Name))
			c.Assert(used&f.mask(), qt.Equals, uint32(0), qt.Commentf("%#02x %s overlaps", addr, f.Name))
			used |= f.mask()
		}
	}
}

func TestConfiguration(t *testing.T) {
	c := qt.New(t)

	for _, tc := range []struct {
		addr Addr
		want bool
	}{
		{Control0, true},
		{TimerControl, true},
		{ClockOut, true},
		{LED2VAL, false},
		{LED1ALED1VAL, false},
		{Control3, true},
		{Decimation, true},
		{AvgLED2ALED2, false},
		{AvgLED1ALED1, false},
	} {
		c.Assert(tc.addr.Configuration(), qt.Equals, tc.want, qt.Commentf("%#02x", tc.addr))
	}
}

func TestReadConfigurationRegister(t *testing.T) {
	c := qt.New(t)

	pb, bus := playback(
		i2ctest.IO{Addr: devAddr, W: []byte{0x00, 0x00, 0x00, 0x01}},
		i2ctest.IO{Addr: devAddr, W: []byte{0x22}, R: []byte{0x00, 0x09, 0xA6}},
		i2ctest.IO{Addr: devAddr, W: []byte{0x00, 0x00, 0x00, 0x00}},
	)

	v, err := New(LEDCurrent, bus).Read()
	c.Assert(err, qt.IsNil)
	c.Assert(v.Field(ILED1), qt.Equals, uint32(38))
	c.Assert(v.Field(ILED2), qt.Equals, uint32(38))
	c.Assert(pb.Close(), qt.IsNil)
}

func TestReadOutputRegister(t *testing.T) {
	c := qt.New(t)

	pb, bus := playback(
		i2ctest.IO{Addr: devAddr, W: []byte{0x2C}, R: []byte{0xFF, 0xFF, 0xFE}},
	)

	v, err := New(LED1VAL, bus).Read()
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.Equals, Value(0xFFFFFE))
	c.Assert(pb.Close(), qt.IsNil)
}

func TestWrite(t *testing.T) {
	c := qt.New(t)

	pb, bus := playback(
		i2ctest.IO{Addr: devAddr, W: []byte{0x1D, 0x00, 0x9C, 0x3F}},
	)

	err := New(PRPCT, bus).Write(Value(0).With(Count, 39999))
	c.Assert(err, qt.IsNil)
	c.Assert(pb.Close(), qt.IsNil)
}

func TestUpdate(t *testing.T) {
	c := qt.New(t)

	pb, bus := playback(
		i2ctest.IO{Addr: devAddr, W: []byte{0x00, 0x00, 0x00, 0x01}},
		i2ctest.IO{Addr: devAddr, W: []byte{0x23}, R: []byte{0x12, 0x42, 0x18}},
		i2ctest.IO{Addr: devAddr, W: []byte{0x00, 0x00, 0x00, 0x00}},
		i2ctest.IO{Addr: devAddr, W: []byte{0x23, 0x10, 0x42, 0x19}},
	)

	v, err := New(Control2, bus).Update(func(v Value) Value {
		return v.WithBool(ILED2x, false).WithBool(PDNAFE, true)
	})
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.Equals, Value(0x104219))
	c.Assert(pb.Close(), qt.IsNil)
}

func TestBusError(t *testing.T) {
	c := qt.New(t)
	errBus := errors.New("nack")

	for _, tc := range []struct {
		name string
		ok   int
		op   string
	}{
		{"enable", 0, "enable reading of"},
		{"read", 1, "read"},
		{"disable", 2, "disable reading of"},
	} {
		c.Run(tc.name, func(c *qt.C) {
			_, err := New(TIAConfig, &failConn{ok: tc.ok, err: errBus}).Read()
			var be *BusError
			c.Assert(errors.As(err, &be), qt.IsTrue)
			c.Assert(be.Addr, qt.Equals, TIAConfig)
			c.Assert(be.Op, qt.Equals, tc.op)
			c.Assert(err, qt.ErrorIs, errBus)
		})
	}

	err := New(LEDCurrent, &failConn{err: errBus}).Write(0)
	c.Assert(err, qt.ErrorIs, errBus)
}

func TestIncorrectAnswerLength(t *testing.T) {
	c := qt.New(t)

	err := New(LEDCurrent, &shortConn{}).Write(0)
	c.Assert(err, qt.ErrorIs, ErrIncorrectAnswerLength)

	_, err = New(Control2, &shortConn{}).Read()
	c.Assert(err, qt.ErrorIs, ErrIncorrectAnswerLength)

	// Without io.Writer there is no count to check.
	c.Assert(New(LEDCurrent, &failConn{ok: 1}).Write(0), qt.IsNil)

	// i2c.Dev reports the full frame length.
	pb, bus := playback(i2ctest.IO{Addr: devAddr, W: []byte{0x22, 0x00, 0x00, 0x00}})
	c.Assert(New(LEDCurrent, bus).Write(0), qt.IsNil)
	c.Assert(pb.Close(), qt.IsNil)
}

func TestBlock(t *testing.T) {
	c := qt.New(t)

	_, bus := playback()
	b := NewBlock(bus)
	c.Assert(b.Conn(), qt.Equals, bus)
	c.Assert(b.Register(OffsetDAC).Addr(), qt.Equals, OffsetDAC)
	c.Assert(b.Register(OffsetDAC), qt.Equals, b.Register(OffsetDAC))
	c.Assert(len(b.Addrs()), qt.Equals, len(Layouts))
	c.Assert(b.Addrs()[0], qt.Equals, Control0)
	c.Assert(func() { b.Register(0x28) }, qt.PanicMatches, `register: no register at .*`)
}

func TestDecode(t *testing.T) {
	c := qt.New(t)

	v := Value(0).With(IOffDACLED1, 15).WithBool(PolOffDACLED1, true).With(IOffDACAmb2, 3)
	got := Decode(OffsetDAC, v)
	c.Assert(got, qt.HasLen, 8)
	byName := map[string]uint32{}
	for _, fv := range got {
		byName[fv.Name] = fv.Value
	}
	c.Assert(byName["I_OFFDAC_LED1"], qt.Equals, uint32(15))
	c.Assert(byName["POL_OFFDAC_LED1"], qt.Equals, uint32(1))
	c.Assert(byName["I_OFFDAC_AMB2"], qt.Equals, uint32(3))
	c.Assert(byName["I_OFFDAC_LED2"], qt.Equals, uint32(0))
}
