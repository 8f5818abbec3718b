package afe4404

import (
	"fmt"
	"strconv"

	"github.com/cgxeiji/afe4404/register"
	"periph.io/x/periph/conn/physic"
)

// Capacitance is a capacitance stored as an int64 femtofarad.
// physic.ElectricalCapacitance counts picofarads, too coarse for the TIA
// capacitors.
type Capacitance int64

// Capacitance units.
const (
	FemtoFarad Capacitance = 1
	PicoFarad  Capacitance = 1000 * FemtoFarad
	NanoFarad  Capacitance = 1000 * PicoFarad
)

func (c Capacitance) String() string {
	return strconv.FormatFloat(float64(c)/float64(PicoFarad), 'f', -1, 64) + "pF"
}

// Resistors holds the TIA feedback resistors. Resistor1 is used for the LED1
// and Ambient1 phases, Resistor2 for LED2, LED3 and Ambient2.
type Resistors struct {
	Resistor1, Resistor2 physic.ElectricResistance
}

// Capacitors holds the TIA feedback capacitors, paired with the phases like
// Resistors.
type Capacitors struct {
	Capacitor1, Capacitor2 Capacitance
}

// SetTIAResistors sets the TIA feedback resistors to the closest values the
// device supports (10k, 25k, 50k, 100k, 250k, 500k, 1M and 2M Ω) and returns
// them. Values from 10 kΩ to 2 MΩ are allowed.
//
// When the two resistors or the two capacitors differ, the device switches to
// separate gains (ENSEPGAIN).
func (d *device) SetTIAResistors(r Resistors) (Resistors, error) {
	r1, ok := lookup(r.Resistor1, minResistor, maxResistor, resistors)
	if !ok {
		return Resistors{}, fmt.Errorf("%w: %s", ErrResistorValueOutsideAllowedRange, r.Resistor1)
	}
	r2, ok := lookup(r.Resistor2, minResistor, maxResistor, resistors)
	if !ok {
		return Resistors{}, fmt.Errorf("%w: %s", ErrResistorValueOutsideAllowedRange, r.Resistor2)
	}

	sep, comb, err := d.tia()
	if err != nil {
		return Resistors{}, fmt.Errorf("afe4404: could not set TIA resistors: %w", err)
	}

	separate := r1.code != r2.code || comb.Field(register.TIACF) != sep.Field(register.TIACFSep)
	sep = sep.WithBool(register.EnSepGain, separate).With(register.TIAGainSep, r2.code)
	if err := d.reg(register.TIAConfigSep).Write(sep); err != nil {
		return Resistors{}, fmt.Errorf("afe4404: could not set TIA resistors: %w", err)
	}
	if err := d.reg(register.TIAConfig).Write(comb.With(register.TIAGain, r1.code)); err != nil {
		return Resistors{}, fmt.Errorf("afe4404: could not set TIA resistors: %w", err)
	}

	return Resistors{Resistor1: r1.value, Resistor2: r2.value}, nil
}

// TIAResistors returns the TIA feedback resistors. Without separate gains
// Resistor2 equals Resistor1.
func (d *device) TIAResistors() (Resistors, error) {
	sep, comb, err := d.tia()
	if err != nil {
		return Resistors{}, fmt.Errorf("afe4404: could not get TIA resistors: %w", err)
	}

	r1, ok := lookupCode(comb.Field(register.TIAGain), resistors)
	if !ok {
		return Resistors{}, invalid(register.TIAConfig)
	}
	if !sep.Bool(register.EnSepGain) {
		return Resistors{Resistor1: r1.value, Resistor2: r1.value}, nil
	}
	r2, ok := lookupCode(sep.Field(register.TIAGainSep), resistors)
	if !ok {
		return Resistors{}, invalid(register.TIAConfigSep)
	}
	return Resistors{Resistor1: r1.value, Resistor2: r2.value}, nil
}

// SetTIACapacitors sets the TIA feedback capacitors to the closest values the
// device supports (2.5, 5, 7.5, 10, 17.5, 20, 22.5 and 25 pF) and returns
// them. Values from 2.5 pF to 25 pF are allowed.
func (d *device) SetTIACapacitors(c Capacitors) (Capacitors, error) {
	c1, ok := lookup(c.Capacitor1, minCapacitor, maxCapacitor, capacitors)
	if !ok {
		return Capacitors{}, fmt.Errorf("%w: %s", ErrCapacitorValueOutsideAllowedRange, c.Capacitor1)
	}
	c2, ok := lookup(c.Capacitor2, minCapacitor, maxCapacitor, capacitors)
	if !ok {
		return Capacitors{}, fmt.Errorf("%w: %s", ErrCapacitorValueOutsideAllowedRange, c.Capacitor2)
	}

	sep, comb, err := d.tia()
	if err != nil {
		return Capacitors{}, fmt.Errorf("afe4404: could not set TIA capacitors: %w", err)
	}

	separate := c1.code != c2.code || comb.Field(register.TIAGain) != sep.Field(register.TIAGainSep)
	sep = sep.WithBool(register.EnSepGain, separate).With(register.TIACFSep, c2.code)
	if err := d.reg(register.TIAConfigSep).Write(sep); err != nil {
		return Capacitors{}, fmt.Errorf("afe4404: could not set TIA capacitors: %w", err)
	}
	if err := d.reg(register.TIAConfig).Write(comb.With(register.TIACF, c1.code)); err != nil {
		return Capacitors{}, fmt.Errorf("afe4404: could not set TIA capacitors: %w", err)
	}

	return Capacitors{Capacitor1: c1.value, Capacitor2: c2.value}, nil
}

// TIACapacitors returns the TIA feedback capacitors. Without separate gains
// Capacitor2 equals Capacitor1.
func (d *device) TIACapacitors() (Capacitors, error) {
	sep, comb, err := d.tia()
	if err != nil {
		return Capacitors{}, fmt.Errorf("afe4404: could not get TIA capacitors: %w", err)
	}

	c1, ok := lookupCode(comb.Field(register.TIACF), capacitors)
	if !ok {
		return Capacitors{}, invalid(register.TIAConfig)
	}
	if !sep.Bool(register.EnSepGain) {
		return Capacitors{Capacitor1: c1.value, Capacitor2: c1.value}, nil
	}
	c2, ok := lookupCode(sep.Field(register.TIACFSep), capacitors)
	if !ok {
		return Capacitors{}, invalid(register.TIAConfigSep)
	}
	return Capacitors{Capacitor1: c1.value, Capacitor2: c2.value}, nil
}

// tia reads the separate and combined TIA configuration registers.
func (d *device) tia() (sep, comb register.Value, err error) {
	if sep, err = d.reg(register.TIAConfigSep).Read(); err != nil {
		return 0, 0, err
	}
	if comb, err = d.reg(register.TIAConfig).Read(); err != nil {
		return 0, 0, err
	}
	return sep, comb, nil
}
