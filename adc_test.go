package afe4404

import (
	"testing"

	"github.com/cgxeiji/afe4404/register"
	qt "github.com/frankban/quicktest"
	"periph.io/x/periph/conn/physic"
)

func TestDecode(t *testing.T) {
	c := qt.New(t)

	for _, tc := range []struct {
		raw  register.Value
		want physic.ElectricPotential
	}{
		{0x000000, 0},
		{0x000001, 572},
		{0x1FFFFF, 1200 * physic.MilliVolt},
		{0x100000, 600000286},
		{0xFFFFFF, -572},
		{0xE00000, -1200000572},
		{0xF00000, -600000286},
	} {
		got, err := decode(tc.raw)
		c.Assert(err, qt.IsNil, qt.Commentf("%#06x", uint32(tc.raw)))
		c.Assert(got, qt.Equals, tc.want, qt.Commentf("%#06x", uint32(tc.raw)))
	}
}

func TestDecodeSign(t *testing.T) {
	c := qt.New(t)

	for top := register.Value(0); top < 8; top++ {
		for _, low := range []register.Value{0, 1, 0x0ABCDE, 0x1FFFFF} {
			raw := top<<21 | low
			got, err := decode(raw)
			switch top {
			case 0b000:
				c.Assert(err, qt.IsNil)
				c.Assert(got >= 0, qt.IsTrue)
			case 0b111:
				c.Assert(err, qt.IsNil)
				c.Assert(got < 0, qt.IsTrue)
			default:
				c.Assert(err, qt.ErrorIs, ErrAdcReadingOutsideAllowedRange)
			}
		}
	}
}

func TestReadThreeLeds(t *testing.T) {
	c := qt.New(t)

	d, pb := threeLeds(c, seq(
		outRead(register.LED2VAL, 0x000002),
		outRead(register.ALED2VAL, 0x000003),
		outRead(register.LED1VAL, 0x000001),
		outRead(register.ALED1VAL, 0xFFFFFF),
		outRead(register.LED1ALED1VAL, 0x000004),
	))

	got, err := d.Read()
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, ThreeLedsReadings{
		LED1:             572,
		LED2:             1144,
		LED3:             1717,
		Ambient:          -572,
		LED1MinusAmbient: 2289,
	})
	c.Assert(pb.Close(), qt.IsNil)
}

func TestReadTwoLeds(t *testing.T) {
	c := qt.New(t)

	d, pb := twoLeds(c, seq(
		outRead(register.LED2VAL, 0x000002),
		outRead(register.ALED2VAL, 0x000003),
		outRead(register.LED1VAL, 0x000001),
		outRead(register.ALED1VAL, 0xFFFFFF),
		outRead(register.LED2ALED2VAL, 0xFFFFFE),
		outRead(register.LED1ALED1VAL, 0x000004),
	))

	got, err := d.Read()
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, TwoLedsReadings{
		LED1:              572,
		LED2:              1144,
		Ambient1:          -572,
		Ambient2:          1717,
		LED1MinusAmbient1: 2289,
		LED2MinusAmbient2: -1144,
	})
	c.Assert(pb.Close(), qt.IsNil)
}

func TestReadSaturated(t *testing.T) {
	c := qt.New(t)

	d, pb := threeLeds(c, seq(
		outRead(register.LED2VAL, 0x000002),
		outRead(register.ALED2VAL, 0x400000),
	))

	_, err := d.Read()
	c.Assert(err, qt.ErrorIs, ErrAdcReadingOutsideAllowedRange)
	c.Assert(pb.Close(), qt.IsNil)
}

func TestReadAveraged(t *testing.T) {
	c := qt.New(t)

	d, pb := threeLeds(c, seq(
		outRead(register.AvgLED2ALED2, 0x1FFFFF),
		outRead(register.AvgLED1ALED1, 0xE00000),
	))

	got, err := d.ReadAveraged()
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, AveragedReadings{
		LED2MinusAmbient2: 1200 * physic.MilliVolt,
		LED1MinusAmbient1: -1200000572,
	})
	c.Assert(pb.Close(), qt.IsNil)
}

func TestSetAveraging(t *testing.T) {
	c := qt.New(t)

	prev := register.Value(0).WithBool(register.TimerEn, true)
	d, pb := threeLeds(c, seq(
		cfgRead(register.TimerControl, prev),
		write(register.TimerControl, prev.With(register.NumAv, 3)),
		cfgRead(register.TimerControl, prev.With(register.NumAv, 15)),
	))

	got, err := d.SetAveraging(4)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, uint8(4))

	got, err = d.Averaging()
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, uint8(16))
	c.Assert(pb.Close(), qt.IsNil)
}

func TestSetAveragingOutsideRange(t *testing.T) {
	c := qt.New(t)

	d, pb := twoLeds(c, nil)
	_, err := d.SetAveraging(0)
	c.Assert(err, qt.ErrorIs, ErrAveragingOutsideAllowedRange)
	_, err = d.SetAveraging(17)
	c.Assert(err, qt.ErrorIs, ErrAveragingOutsideAllowedRange)
	c.Assert(pb.Close(), qt.IsNil)
}

func TestSetDecimation(t *testing.T) {
	c := qt.New(t)

	d, pb := threeLeds(c, seq(
		write(register.Decimation, 0),
		write(register.Decimation, 0x28),
		cfgRead(register.Decimation, 0x28),
	))

	got, err := d.SetDecimation(1)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, uint8(1))

	got, err = d.SetDecimation(16)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, uint8(16))

	got, err = d.Decimation()
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, uint8(16))
	c.Assert(pb.Close(), qt.IsNil)
}

func TestDecimationErrors(t *testing.T) {
	c := qt.New(t)

	d, pb := threeLeds(c, seq(
		cfgRead(register.Decimation, register.Value(0).WithBool(register.DecEn, true).With(register.DecFactor, 5)),
	))

	for _, f := range []uint8{0, 3, 32} {
		_, err := d.SetDecimation(f)
		c.Assert(err, qt.ErrorIs, ErrDecimationOutsideAllowedRange)
	}
	_, err := d.Decimation()
	c.Assert(err, qt.ErrorIs, ErrInvalidRegisterValue)
	c.Assert(pb.Close(), qt.IsNil)
}

func TestDecimationDisabled(t *testing.T) {
	c := qt.New(t)

	d, pb := twoLeds(c, seq(
		cfgRead(register.Decimation, register.Value(0).With(register.DecFactor, 3)),
		cfgRead(register.Decimation, register.Value(0).With(register.DecFactor, 7)),
	))

	for i := 0; i < 2; i++ {
		got, err := d.Decimation()
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.Equals, uint8(1))
	}
	c.Assert(pb.Close(), qt.IsNil)
}

func TestDecimationRoundTrip(t *testing.T) {
	c := qt.New(t)

	d, f := fakeTwoLeds(c)
	for _, n := range decimations {
		got, err := d.SetDecimation(n)
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.Equals, n)
		c.Assert(f.regs[register.Decimation].Bool(register.DecEn), qt.Equals, n != 1)

		again, err := d.Decimation()
		c.Assert(err, qt.IsNil)
		c.Assert(again, qt.Equals, n)
	}
}
