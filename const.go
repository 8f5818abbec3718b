package afe4404

import "periph.io/x/periph/conn/physic"

const (
	// Addr is the default I²C address of the AFE4404.
	Addr = 0x58

	// InternalClockFrequency is the frequency of the internal oscillator.
	InternalClockFrequency = 4 * physic.MegaHertz
)

// LED current ranges. The range is shared by every LED (ILED_2X).
const (
	ledSteps     = 63
	ledRange     = 50 * physic.MilliAmpere
	ledRangeHigh = 100 * physic.MilliAmpere
)

// Offset cancellation DAC.
const (
	offsetSteps = 15
	offsetRange = 7 * physic.MicroAmpere
)

// ADC full scale. Readings are 22 bits plus sign.
const (
	adcFullScale = 1200 * physic.MilliVolt
	adcSteps     = 2097151
)

const (
	maxAveraging = 16
	maxClkDivOut = 7
	// counterSize is the range of every 16-bit timing register.
	counterSize = 1 << 16
)

// dividers lists the PRF clock dividers in ascending order with their
// CLKDIV_PRF codes.
var dividers = []struct {
	ratio int64
	code  uint32
}{
	{1, 0},
	{2, 4},
	{4, 5},
	{8, 6},
	{16, 7},
}

// decimations maps the decimation factor to its DEC_FACTOR code.
var decimations = []uint8{1, 2, 4, 8, 16}

// resistors is the TIA gain catalog.
var resistors = []step[physic.ElectricResistance]{
	{18 * physic.KiloOhm, 10 * physic.KiloOhm, 5},
	{38 * physic.KiloOhm, 25 * physic.KiloOhm, 4},
	{75 * physic.KiloOhm, 50 * physic.KiloOhm, 3},
	{175 * physic.KiloOhm, 100 * physic.KiloOhm, 2},
	{375 * physic.KiloOhm, 250 * physic.KiloOhm, 1},
	{750 * physic.KiloOhm, 500 * physic.KiloOhm, 0},
	{1500 * physic.KiloOhm, 1 * physic.MegaOhm, 6},
	{2000 * physic.KiloOhm, 2 * physic.MegaOhm, 7},
}

const (
	minResistor = 10 * physic.KiloOhm
	maxResistor = 2 * physic.MegaOhm
)

// capacitors is the TIA capacitor catalog.
var capacitors = []step[Capacitance]{
	{3750 * FemtoFarad, 2500 * FemtoFarad, 1},
	{6250 * FemtoFarad, 5 * PicoFarad, 0},
	{8750 * FemtoFarad, 7500 * FemtoFarad, 3},
	{13750 * FemtoFarad, 10 * PicoFarad, 2},
	{18750 * FemtoFarad, 17500 * FemtoFarad, 5},
	{21250 * FemtoFarad, 20 * PicoFarad, 4},
	{23750 * FemtoFarad, 22500 * FemtoFarad, 7},
	{25 * PicoFarad, 25 * PicoFarad, 6},
}

const (
	minCapacitor = 2500 * FemtoFarad
	maxCapacitor = 25 * PicoFarad
)
