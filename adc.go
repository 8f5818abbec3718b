package afe4404

import (
	"fmt"
	"math"

	"github.com/cgxeiji/afe4404/register"
	"periph.io/x/periph/conn/physic"
)

// ThreeLedsReadings are the ADC outputs of one measurement window in three
// LEDs mode.
type ThreeLedsReadings struct {
	LED1, LED2, LED3 physic.ElectricPotential
	Ambient          physic.ElectricPotential
	LED1MinusAmbient physic.ElectricPotential
}

// TwoLedsReadings are the ADC outputs of one measurement window in two LEDs
// mode.
type TwoLedsReadings struct {
	LED1, LED2         physic.ElectricPotential
	Ambient1, Ambient2 physic.ElectricPotential
	LED1MinusAmbient1  physic.ElectricPotential
	LED2MinusAmbient2  physic.ElectricPotential
}

// AveragedReadings are the differential outputs averaged over the decimation
// factor.
type AveragedReadings struct {
	LED2MinusAmbient2 physic.ElectricPotential
	LED1MinusAmbient1 physic.ElectricPotential
}

// decode converts a 24-bit ADC code into a potential. Bits 21 to 23 must all
// be equal, otherwise the ADC saturated.
func decode(v register.Value) (physic.ElectricPotential, error) {
	var n int32
	switch v >> 21 & 0b111 {
	case 0b000:
		n = int32(v)
	case 0b111:
		n = int32(uint32(v) | 0xFF00_0000)
	default:
		return 0, fmt.Errorf("%w: %#06x", ErrAdcReadingOutsideAllowedRange, uint32(v))
	}
	return physic.ElectricPotential(math.Round(float64(n) * float64(adcFullScale) / adcSteps)), nil
}

// read reads and decodes the output registers in order.
func (d *device) read(addrs ...register.Addr) ([]physic.ElectricPotential, error) {
	out := make([]physic.ElectricPotential, len(addrs))
	for i, addr := range addrs {
		v, err := d.reg(addr).Read()
		if err != nil {
			return nil, fmt.Errorf("afe4404: could not read ADC: %w", err)
		}
		if out[i], err = decode(v); err != nil {
			return nil, fmt.Errorf("afe4404: could not read %#02x: %w", uint8(addr), err)
		}
	}
	return out, nil
}

// Read returns the latest readings. Call it after an ADC_RDY pulse, the data
// stays valid until the next pulse.
func (d *ThreeLeds) Read() (ThreeLedsReadings, error) {
	p, err := d.read(
		register.LED2VAL,
		register.ALED2VAL,
		register.LED1VAL,
		register.ALED1VAL,
		register.LED1ALED1VAL,
	)
	if err != nil {
		return ThreeLedsReadings{}, err
	}
	return ThreeLedsReadings{
		LED2:             p[0],
		LED3:             p[1],
		LED1:             p[2],
		Ambient:          p[3],
		LED1MinusAmbient: p[4],
	}, nil
}

// Read returns the latest readings. Call it after an ADC_RDY pulse, the data
// stays valid until the next pulse.
func (d *TwoLeds) Read() (TwoLedsReadings, error) {
	p, err := d.read(
		register.LED2VAL,
		register.ALED2VAL,
		register.LED1VAL,
		register.ALED1VAL,
		register.LED2ALED2VAL,
		register.LED1ALED1VAL,
	)
	if err != nil {
		return TwoLedsReadings{}, err
	}
	return TwoLedsReadings{
		LED2:              p[0],
		Ambient2:          p[1],
		LED1:              p[2],
		Ambient1:          p[3],
		LED2MinusAmbient2: p[4],
		LED1MinusAmbient1: p[5],
	}, nil
}

// ReadAveraged returns the differential readings averaged over the
// decimation factor. With a factor above one, call it after an ADC_RDY
// pulse.
func (d *device) ReadAveraged() (AveragedReadings, error) {
	p, err := d.read(register.AvgLED2ALED2, register.AvgLED1ALED1)
	if err != nil {
		return AveragedReadings{}, err
	}
	return AveragedReadings{LED2MinusAmbient2: p[0], LED1MinusAmbient1: p[1]}, nil
}

// SetAveraging sets the number of ADC conversions averaged per phase, from
// 1 to 16. Readings deviate from ideal values when n is not a power of two.
func (d *device) SetAveraging(n uint8) (uint8, error) {
	if n < 1 || n > maxAveraging {
		return 0, fmt.Errorf("%w: %d", ErrAveragingOutsideAllowedRange, n)
	}
	if _, err := d.reg(register.TimerControl).Update(func(v register.Value) register.Value {
		return v.With(register.NumAv, uint32(n-1))
	}); err != nil {
		return 0, fmt.Errorf("afe4404: could not set averaging: %w", err)
	}
	return n, nil
}

// Averaging returns the number of ADC conversions averaged per phase.
func (d *device) Averaging() (uint8, error) {
	v, err := d.reg(register.TimerControl).Read()
	if err != nil {
		return 0, fmt.Errorf("afe4404: could not get averaging: %w", err)
	}
	return uint8(v.Field(register.NumAv)) + 1, nil
}

// SetDecimation sets the decimation factor (1, 2, 4, 8 or 16). The ADC_RDY
// period grows with the factor. Use ReadAveraged to get the decimated
// values.
func (d *device) SetDecimation(factor uint8) (uint8, error) {
	code := -1
	for i, f := range decimations {
		if f == factor {
			code = i
		}
	}
	if code < 0 {
		return 0, fmt.Errorf("%w: %d", ErrDecimationOutsideAllowedRange, factor)
	}

	v := register.Value(0).
		WithBool(register.DecEn, factor != 1).
		With(register.DecFactor, uint32(code))
	if err := d.reg(register.Decimation).Write(v); err != nil {
		return 0, fmt.Errorf("afe4404: could not set decimation: %w", err)
	}
	return factor, nil
}

// Decimation returns the decimation factor. It is 1 while decimation is
// disabled, whatever DEC_FACTOR holds.
func (d *device) Decimation() (uint8, error) {
	v, err := d.reg(register.Decimation).Read()
	if err != nil {
		return 0, fmt.Errorf("afe4404: could not get decimation: %w", err)
	}
	if !v.Bool(register.DecEn) {
		return 1, nil
	}
	code := v.Field(register.DecFactor)
	if int(code) >= len(decimations) {
		return 0, invalid(register.Decimation)
	}
	return decimations[code], nil
}
