package afe4404

import (
	"testing"

	"github.com/cgxeiji/afe4404/register"
	qt "github.com/frankban/quicktest"
	"periph.io/x/periph/conn/physic"
)

func TestSetClockSource(t *testing.T) {
	c := qt.New(t)

	prev := register.Value(0).WithBool(register.PDNRX, true)
	d, pb := threeLeds(c, seq(
		cfgRead(register.Control2, prev),
		write(register.Control2, prev.WithBool(register.OscEnable, true)),
		write(register.ClockOut, register.Value(0).WithBool(register.EnableClkOut, true).With(register.ClkDivClkOut, 2)),
	))

	got, err := d.SetClockSource(InternalClockToOutput{DivisionRatio: 3})
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, ClockConfiguration(InternalClockToOutput{DivisionRatio: 4}))
	c.Assert(pb.Close(), qt.IsNil)
}

func TestClockSourceRoundTrip(t *testing.T) {
	c := qt.New(t)

	d, _ := fakeTwoLeds(c)
	for _, tc := range []struct {
		in, want ClockConfiguration
	}{
		{InternalClock{}, InternalClock{}},
		{ExternalClock{}, ExternalClock{}},
		{InternalClockToOutput{DivisionRatio: 1}, InternalClockToOutput{DivisionRatio: 1}},
		{InternalClockToOutput{DivisionRatio: 6}, InternalClockToOutput{DivisionRatio: 8}},
		{InternalClockToOutput{DivisionRatio: 128}, InternalClockToOutput{DivisionRatio: 128}},
		{InternalClockToOutput{DivisionRatio: 180}, InternalClockToOutput{DivisionRatio: 128}},
	} {
		got, err := d.SetClockSource(tc.in)
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.Equals, tc.want)

		again, err := d.ClockSource()
		c.Assert(err, qt.IsNil)
		c.Assert(again, qt.Equals, tc.want)
	}
}

func TestSetClockSourceErrors(t *testing.T) {
	c := qt.New(t)

	d, pb := threeLeds(c, nil)
	_, err := d.SetClockSource(InternalClockToOutput{DivisionRatio: 0})
	c.Assert(err, qt.ErrorIs, ErrClockDivisionRatioOutsideAllowedRange)
	_, err = d.SetClockSource(InternalClockToOutput{DivisionRatio: 200})
	c.Assert(err, qt.ErrorIs, ErrClockDivisionRatioOutsideAllowedRange)
	c.Assert(pb.Close(), qt.IsNil)

	d, pb = threeLeds(c, nil, WithClock(8*physic.MegaHertz))
	_, err = d.SetClockSource(InternalClock{})
	c.Assert(err, qt.ErrorIs, ErrIncorrectInternalClock)
	_, err = d.SetClockSource(InternalClockToOutput{DivisionRatio: 2})
	c.Assert(err, qt.ErrorIs, ErrIncorrectInternalClock)
	c.Assert(pb.Close(), qt.IsNil)
}

func TestExternalClock(t *testing.T) {
	c := qt.New(t)

	d, f := fakeThreeLeds(c, WithClock(8*physic.MegaHertz))
	f.regs[register.Control2] = register.Value(0).WithBool(register.OscEnable, true)

	got, err := d.SetClockSource(ExternalClock{})
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, ClockConfiguration(ExternalClock{}))
	c.Assert(f.regs[register.Control2].Bool(register.OscEnable), qt.IsFalse)
	c.Assert(f.regs[register.ClockOut], qt.Equals, register.Value(0))
}

func TestClockSourceInvalid(t *testing.T) {
	c := qt.New(t)

	d, pb := threeLeds(c, seq(
		cfgRead(register.Control2, register.Value(0).WithBool(register.OscEnable, true)),
		cfgRead(register.ClockOut, register.Value(0).WithBool(register.EnableClkOut, true).With(register.ClkDivClkOut, 9)),
	))

	_, err := d.ClockSource()
	c.Assert(err, qt.ErrorIs, ErrInvalidRegisterValue)
	c.Assert(pb.Close(), qt.IsNil)
}
