package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/cgxeiji/afe4404"
	"github.com/cgxeiji/afe4404/pulse"
	"github.com/cgxeiji/afe4404/register"
	"periph.io/x/periph/conn/physic"
)

var (
	busName = flag.String("bus", "", "I²C bus name, the first available bus when empty")
	addr    = flag.Uint("addr", afe4404.Addr, "I²C address of the device")
	current = flag.Int("current", 30, "LED current in mA")
	dump    = flag.Bool("dump", false, "print the decoded registers and exit")
)

// at converts a count of the 4 MHz timing engine to a duration.
func at(count int64) time.Duration {
	return time.Duration(count) * 250 * time.Nanosecond
}

func led(c [8]int64) afe4404.LedTiming {
	return afe4404.LedTiming{
		LightingStart: at(c[0]), LightingEnd: at(c[1]),
		SampleStart: at(c[2]), SampleEnd: at(c[3]),
		ResetStart: at(c[4]), ResetEnd: at(c[5]),
		ConvStart: at(c[6]), ConvEnd: at(c[7]),
	}
}

// window is the datasheet timing for a 100 Hz pulse repetition frequency.
var window = afe4404.ThreeLedsWindow{
	Period: 10 * time.Millisecond,
	Active: afe4404.ThreeLedsActive{
		LED2: led([8]int64{0, 399, 80, 399, 401, 407, 408, 1467}),
		LED3: led([8]int64{401, 800, 481, 800, 1469, 1475, 1476, 2535}),
		LED1: led([8]int64{802, 1201, 882, 1201, 2537, 2543, 2544, 3603}),
		Ambient: afe4404.AmbientTiming{
			SampleStart: at(1283), SampleEnd: at(1602),
			ResetStart: at(3605), ResetEnd: at(3611),
			ConvStart: at(3612), ConvEnd: at(4671),
		},
	},
	PowerDown: afe4404.PowerDownTiming{Start: at(5471), End: at(39199)},
}

func setup(d *afe4404.ThreeLeds) error {
	if err := d.SoftwareReset(); err != nil {
		return err
	}
	if _, err := d.SetClockSource(afe4404.InternalClock{}); err != nil {
		return err
	}
	if _, err := d.SetTimingWindow(window); err != nil {
		return err
	}
	mA := physic.ElectricCurrent(*current) * physic.MilliAmpere
	if _, err := d.SetLedsCurrent(afe4404.ThreeLedsCurrents{LED1: mA, LED2: mA, LED3: mA}); err != nil {
		return err
	}
	if _, err := d.SetTIAResistors(afe4404.Resistors{
		Resistor1: 100 * physic.KiloOhm,
		Resistor2: 100 * physic.KiloOhm,
	}); err != nil {
		return err
	}
	if _, err := d.SetTIACapacitors(afe4404.Capacitors{
		Capacitor1: 5 * afe4404.PicoFarad,
		Capacitor2: 5 * afe4404.PicoFarad,
	}); err != nil {
		return err
	}
	if _, err := d.SetAveraging(4); err != nil {
		return err
	}
	return d.PowerUp()
}

func dumpRegisters(regs *register.Block) error {
	for _, a := range regs.Addrs() {
		v, err := regs.Register(a).Read()
		if err != nil {
			return err
		}
		fmt.Printf("%#02x = %#06x\n", uint8(a), uint32(v))
		for _, f := range register.Decode(a, v) {
			fmt.Printf("\t%-28s %d\n", f.Name, f.Value)
		}
	}
	return nil
}

func main() {
	flag.Parse()

	u, err := afe4404.New(afe4404.OnBus(*busName), afe4404.OnAddr(uint16(*addr)))
	if err != nil {
		log.Fatal(err)
	}
	d, err := u.ThreeLeds()
	if err != nil {
		log.Fatal(err)
	}
	defer d.Close()

	if *dump {
		if err := dumpRegisters(d.Registers()); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := setup(d); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Without the ADC_RDY pin wired, poll once per measurement window.
	tick := time.NewTicker(window.Period)
	defer tick.Stop()
	src := pulse.SourceFunc(func() (red, ir physic.ElectricPotential, err error) {
		<-tick.C
		r, err := d.Read()
		return r.LED2, r.LED3, err
	})
	m := pulse.New(src, window.Period)

	for ctx.Err() == nil {
		hr, err := m.HeartRate(ctx)
		switch {
		case errors.Is(err, pulse.ErrNotDetected), errors.Is(err, pulse.ErrTooNoisy):
			fmt.Printf("\r%-40s", err)
			continue
		case errors.Is(err, context.Canceled):
			fmt.Println()
			return
		case err != nil:
			log.Fatal(err)
		}

		spo2, err := m.SpO2()
		if errors.Is(err, pulse.ErrNotDetected) || errors.Is(err, pulse.ErrTooNoisy) {
			fmt.Printf("\r%-40s", err)
			continue
		} else if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("\rHR = %3.0f bpm, SpO2 = %3.1f%%          ", hr, spo2)
	}
	fmt.Println()
}
