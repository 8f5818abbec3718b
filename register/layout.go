package register

// Field is a run of bits inside a register. Offset counts from bit 0 (the
// least significant bit of the 24-bit value).
type Field struct {
	Name   string
	Offset uint8
	Width  uint8
}

func (f Field) mask() uint32 {
	return (1<<f.Width - 1) << f.Offset
}

// Max returns the largest value the field can hold.
func (f Field) Max() uint32 {
	return 1<<f.Width - 1
}

// Control0
var (
	SWReset    = Field{"SW_RESET", 3, 1}
	TMCountRst = Field{"TM_COUNT_RST", 1, 1}
	RegRead    = Field{"REG_READ", 0, 1}
)

// Count is the 16-bit counter value shared by every timing register
// (LED, sample, reset, conversion, dynamic power-down and PRPCT).
var Count = Field{"COUNT", 0, 16}

// TimerControl
var (
	TimerEn = Field{"TIMEREN", 8, 1}
	NumAv   = Field{"NUMAV", 0, 4}
)

// TIAConfigSep
var (
	EnSepGain  = Field{"ENSEPGAIN", 15, 1}
	TIACFSep   = Field{"TIA_CF_SEP", 3, 3}
	TIAGainSep = Field{"TIA_GAIN_SEP", 0, 3}
)

// TIAConfig
var (
	ProgTGEn = Field{"PROG_TG_EN", 8, 1}
	TIACF    = Field{"TIA_CF", 3, 3}
	TIAGain  = Field{"TIA_GAIN", 0, 3}
)

// LEDCurrent
var (
	ILED3 = Field{"ILED3", 12, 6}
	ILED2 = Field{"ILED2", 6, 6}
	ILED1 = Field{"ILED1", 0, 6}
)

// Control2
var (
	Dynamic1  = Field{"DYNAMIC1", 20, 1}
	ILED2x    = Field{"ILED_2X", 17, 1}
	Dynamic2  = Field{"DYNAMIC2", 14, 1}
	OscEnable = Field{"OSC_ENABLE", 9, 1}
	Dynamic3  = Field{"DYNAMIC3", 4, 1}
	Dynamic4  = Field{"DYNAMIC4", 3, 1}
	PDNRX     = Field{"PDNRX", 1, 1}
	PDNAFE    = Field{"PDNAFE", 0, 1}
)

// ClockOut
var (
	EnableClkOut = Field{"ENABLE_CLKOUT", 9, 1}
	ClkDivClkOut = Field{"CLKDIV_CLKOUT", 1, 4}
)

// Sample is the raw ADC code held by every output register.
var Sample = Field{"SAMPLE", 0, 24}

// Control3
var (
	PDDisconnect     = Field{"PD_DISCONNECT", 10, 1}
	EnableInputShort = Field{"ENABLE_INPUT_SHORT", 5, 1}
	ClkDivExtMode    = Field{"CLKDIV_EXTMODE", 0, 3}
)

// ClockDiv
var ClkDivPRF = Field{"CLKDIV_PRF", 0, 3}

// OffsetDAC
var (
	PolOffDACLED2 = Field{"POL_OFFDAC_LED2", 19, 1}
	IOffDACLED2   = Field{"I_OFFDAC_LED2", 15, 4}
	PolOffDACAmb1 = Field{"POL_OFFDAC_AMB1", 14, 1}
	IOffDACAmb1   = Field{"I_OFFDAC_AMB1", 10, 4}
	PolOffDACLED1 = Field{"POL_OFFDAC_LED1", 9, 1}
	IOffDACLED1   = Field{"I_OFFDAC_LED1", 5, 4}
	PolOffDACAmb2 = Field{"POL_OFFDAC_AMB2", 4, 1} // POL_OFFDAC_LED3 in three LEDs mode
	IOffDACAmb2   = Field{"I_OFFDAC_AMB2", 0, 4}   // I_OFFDAC_LED3 in three LEDs mode
)

// Decimation
var (
	DecEn     = Field{"DEC_EN", 5, 1}
	DecFactor = Field{"DEC_FACTOR", 1, 3}
)

func count(name string) []Field {
	return []Field{{name, Count.Offset, Count.Width}}
}

func sample(name string) []Field {
	return []Field{{name, Sample.Offset, Sample.Width}}
}

// Layouts is the bitfield table of every register, fields listed from the
// most significant bit down. Bits not covered by a field are reserved and
// written as zero.
var Layouts = map[Addr][]Field{
	Control0:     {SWReset, TMCountRst, RegRead},
	LED2STC:      count("LED2STC"),
	LED2ENDC:     count("LED2ENDC"),
	LED1LEDSTC:   count("LED1LEDSTC"),
	LED1LEDENDC:  count("LED1LEDENDC"),
	ALED2STC:     count("ALED2STC_OR_LED3STC"),
	ALED2ENDC:    count("ALED2ENDC_OR_LED3ENDC"),
	LED1STC:      count("LED1STC"),
	LED1ENDC:     count("LED1ENDC"),
	LED2LEDSTC:   count("LED2LEDSTC"),
	LED2LEDENDC:  count("LED2LEDENDC"),
	ALED1STC:     count("ALED1STC"),
	ALED1ENDC:    count("ALED1ENDC"),
	LED2CONVST:   count("LED2CONVST"),
	LED2CONVEND:  count("LED2CONVEND"),
	ALED2CONVST:  count("ALED2CONVST_OR_LED3CONVST"),
	ALED2CONVEND: count("ALED2CONVEND_OR_LED3CONVEND"),
	LED1CONVST:   count("LED1CONVST"),
	LED1CONVEND:  count("LED1CONVEND"),
	ALED1CONVST:  count("ALED1CONVST"),
	ALED1CONVEND: count("ALED1CONVEND"),
	ADCRSTSTCT0:  count("ADCRSTSTCT0"),
	ADCRSTENDCT0: count("ADCRSTENDCT0"),
	ADCRSTSTCT1:  count("ADCRSTSTCT1"),
	ADCRSTENDCT1: count("ADCRSTENDCT1"),
	ADCRSTSTCT2:  count("ADCRSTSTCT2"),
	ADCRSTENDCT2: count("ADCRSTENDCT2"),
	ADCRSTSTCT3:  count("ADCRSTSTCT3"),
	ADCRSTENDCT3: count("ADCRSTENDCT3"),
	PRPCT:        count("PRPCT"),
	TimerControl: {TimerEn, NumAv},
	TIAConfigSep: {EnSepGain, TIACFSep, TIAGainSep},
	TIAConfig:    {ProgTGEn, TIACF, TIAGain},
	LEDCurrent:   {ILED3, ILED2, ILED1},
	Control2:     {Dynamic1, ILED2x, Dynamic2, OscEnable, Dynamic3, Dynamic4, PDNRX, PDNAFE},
	ClockOut:     {EnableClkOut, ClkDivClkOut},
	LED2VAL:      sample("LED2VAL"),
	ALED2VAL:     sample("ALED2VAL_OR_LED3VAL"),
	LED1VAL:      sample("LED1VAL"),
	ALED1VAL:     sample("ALED1VAL"),
	LED2ALED2VAL: sample("LED2_ALED2VAL"),
	LED1ALED1VAL: sample("LED1_ALED1VAL"),
	Control3:     {PDDisconnect, EnableInputShort, ClkDivExtMode},
	PDNCYCLESTC:  count("PDNCYCLESTC"),
	PDNCYCLEENDC: count("PDNCYCLEENDC"),
	ProgTGSTC:    count("PROG_TG_STC"),
	ProgTGENDC:   count("PROG_TG_ENDC"),
	LED3LEDSTC:   count("LED3LEDSTC"),
	LED3LEDENDC:  count("LED3LEDENDC"),
	ClockDiv:     {ClkDivPRF},
	OffsetDAC: {
		PolOffDACLED2, IOffDACLED2,
		PolOffDACAmb1, IOffDACAmb1,
		PolOffDACLED1, IOffDACLED1,
		PolOffDACAmb2, IOffDACAmb2,
	},
	Decimation:   {DecEn, DecFactor},
	AvgLED2ALED2: sample("AVG_LED2_ALED2VAL"),
	AvgLED1ALED1: sample("AVG_LED1_ALED1VAL"),
}
