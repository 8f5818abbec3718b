package afe4404

import (
	"fmt"

	"github.com/cgxeiji/afe4404/register"
)

// State is the power state of a functional block.
type State bool

// Block states. The registers use negative logic, a set bit disables the
// block.
const (
	Enabled  State = false
	Disabled State = true
)

func (s State) String() string {
	if s == Disabled {
		return "disabled"
	}
	return "enabled"
}

// DynamicConfiguration selects the blocks powered down during the dynamic
// power-down phase of the measurement window. A Disabled block is powered
// down.
type DynamicConfiguration struct {
	Transmitter State // LED supply
	ADC         State
	TIA         State
	RestOfADC   State
}

// SoftwareReset resets every register to its default value.
func (d *device) SoftwareReset() error {
	if err := d.reg(register.Control0).Write(register.Value(0).WithBool(register.SWReset, true)); err != nil {
		return fmt.Errorf("afe4404: could not reset: %w", err)
	}
	return nil
}

func (d *device) setControl2(f register.Field, b bool, what string) error {
	if _, err := d.reg(register.Control2).Update(func(v register.Value) register.Value {
		return v.WithBool(f, b)
	}); err != nil {
		return fmt.Errorf("afe4404: could not %s: %w", what, err)
	}
	return nil
}

// PowerDown powers down the whole device. Use PowerUp to resume.
func (d *device) PowerDown() error {
	return d.setControl2(register.PDNAFE, true, "power down")
}

// PowerUp powers the whole device up. Wait tCHANNEL before relying on the
// readings.
func (d *device) PowerUp() error {
	return d.setControl2(register.PDNAFE, false, "power up")
}

// PowerDownRx powers down the receiver. Use PowerUpRx to resume.
func (d *device) PowerDownRx() error {
	return d.setControl2(register.PDNRX, true, "power down receiver")
}

// PowerUpRx powers the receiver up. Wait tCHANNEL before relying on the
// readings.
func (d *device) PowerUpRx() error {
	return d.setControl2(register.PDNRX, false, "power up receiver")
}

// SetDynamic selects the blocks powered down during the dynamic power-down
// phase.
func (d *device) SetDynamic(c DynamicConfiguration) (DynamicConfiguration, error) {
	if _, err := d.reg(register.Control2).Update(func(v register.Value) register.Value {
		return v.
			WithBool(register.Dynamic1, bool(c.Transmitter)).
			WithBool(register.Dynamic2, bool(c.ADC)).
			WithBool(register.Dynamic3, bool(c.TIA)).
			WithBool(register.Dynamic4, bool(c.RestOfADC))
	}); err != nil {
		return DynamicConfiguration{}, fmt.Errorf("afe4404: could not set dynamic power down: %w", err)
	}
	return c, nil
}

// Dynamic returns the blocks powered down during the dynamic power-down
// phase.
func (d *device) Dynamic() (DynamicConfiguration, error) {
	v, err := d.reg(register.Control2).Read()
	if err != nil {
		return DynamicConfiguration{}, fmt.Errorf("afe4404: could not get dynamic power down: %w", err)
	}
	return DynamicConfiguration{
		Transmitter: State(v.Bool(register.Dynamic1)),
		ADC:         State(v.Bool(register.Dynamic2)),
		TIA:         State(v.Bool(register.Dynamic3)),
		RestOfADC:   State(v.Bool(register.Dynamic4)),
	}, nil
}

// SetPhotodiode connects or disconnects the photodiode. With the photodiode
// disabled the readings only reflect the offset currents.
func (d *device) SetPhotodiode(s State) (State, error) {
	if _, err := d.reg(register.Control3).Update(func(v register.Value) register.Value {
		return v.WithBool(register.PDDisconnect, bool(s))
	}); err != nil {
		return Enabled, fmt.Errorf("afe4404: could not set photodiode: %w", err)
	}
	return s, nil
}

// Photodiode returns whether the photodiode is connected.
func (d *device) Photodiode() (State, error) {
	v, err := d.reg(register.Control3).Read()
	if err != nil {
		return Enabled, fmt.Errorf("afe4404: could not get photodiode: %w", err)
	}
	return State(v.Bool(register.PDDisconnect)), nil
}
