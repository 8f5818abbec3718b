package afe4404

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"periph.io/x/periph/conn/physic"
)

func TestClamp(t *testing.T) {
	c := qt.New(t)

	c.Assert(clamp(-1, 0, 10), qt.Equals, 0)
	c.Assert(clamp(11, 0, 10), qt.Equals, 10)
	c.Assert(clamp(5, 0, 10), qt.Equals, 5)
	c.Assert(clamp(int64(1<<20), 0, 65535), qt.Equals, int64(65535))
}

func TestToCode(t *testing.T) {
	c := qt.New(t)

	c.Assert(toCode(physic.ElectricCurrent(0), ledRange, ledSteps), qt.Equals, uint32(0))
	c.Assert(toCode(ledRange, ledRange, ledSteps), qt.Equals, uint32(63))
	c.Assert(toCode(30*physic.MilliAmpere, ledRange, ledSteps), qt.Equals, uint32(38))
	c.Assert(fromCode(38, ledRange, ledSteps), qt.Equals, physic.ElectricCurrent(30158730))
	c.Assert(fromCode(15, offsetRange, offsetSteps), qt.Equals, offsetRange)
}

func TestCodeRoundTrip(t *testing.T) {
	c := qt.New(t)

	half := ledRange / ledSteps / 2
	for x := physic.ElectricCurrent(0); x <= ledRange; x += 123457 {
		code := toCode(x, ledRange, ledSteps)
		c.Assert(code <= ledSteps, qt.IsTrue)
		got := fromCode(code, ledRange, ledSteps)
		c.Assert(abs(got-x) <= half+1, qt.IsTrue, qt.Commentf("%v -> %d -> %v", x, code, got))
		c.Assert(toCode(got, ledRange, ledSteps), qt.Equals, code)
	}
}

func TestLookup(t *testing.T) {
	c := qt.New(t)

	catalog := []step[int64]{
		{upTo: 15, value: 10, code: 2},
		{upTo: 30, value: 20, code: 0},
		{upTo: 40, value: 40, code: 1},
	}

	for _, tc := range []struct {
		x    int64
		want int64
		ok   bool
	}{
		{9, 0, false},
		{10, 10, true},
		{14, 10, true},
		{15, 20, true},
		{40, 40, true},
		{41, 0, false},
	} {
		s, ok := lookup(tc.x, 10, 40, catalog)
		c.Assert(ok, qt.Equals, tc.ok, qt.Commentf("%d", tc.x))
		c.Assert(s.value, qt.Equals, tc.want, qt.Commentf("%d", tc.x))
	}

	s, ok := lookupCode(1, catalog)
	c.Assert(ok, qt.IsTrue)
	c.Assert(s.value, qt.Equals, int64(40))
	_, ok = lookupCode(7, catalog)
	c.Assert(ok, qt.IsFalse)
}

func TestLog2Code(t *testing.T) {
	c := qt.New(t)

	for ratio, want := range map[float64]int{1: 0, 2: 1, 3: 2, 6: 3, 128: 7, 180: 7, 1.4: 0} {
		c.Assert(log2Code(ratio), qt.Equals, want, qt.Commentf("%v", ratio))
	}
}
