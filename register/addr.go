package register

// Addr is the address of a 24-bit AFE4404 register.
type Addr uint8

// Register addresses
const (
	Control0     Addr = 0x00
	LED2STC      Addr = 0x01
	LED2ENDC     Addr = 0x02
	LED1LEDSTC   Addr = 0x03
	LED1LEDENDC  Addr = 0x04
	ALED2STC     Addr = 0x05 // LED3STC in three LEDs mode
	ALED2ENDC    Addr = 0x06 // LED3ENDC in three LEDs mode
	LED1STC      Addr = 0x07
	LED1ENDC     Addr = 0x08
	LED2LEDSTC   Addr = 0x09
	LED2LEDENDC  Addr = 0x0A
	ALED1STC     Addr = 0x0B
	ALED1ENDC    Addr = 0x0C
	LED2CONVST   Addr = 0x0D
	LED2CONVEND  Addr = 0x0E
	ALED2CONVST  Addr = 0x0F // LED3CONVST in three LEDs mode
	ALED2CONVEND Addr = 0x10 // LED3CONVEND in three LEDs mode
	LED1CONVST   Addr = 0x11
	LED1CONVEND  Addr = 0x12
	ALED1CONVST  Addr = 0x13
	ALED1CONVEND Addr = 0x14
	ADCRSTSTCT0  Addr = 0x15
	ADCRSTENDCT0 Addr = 0x16
	ADCRSTSTCT1  Addr = 0x17
	ADCRSTENDCT1 Addr = 0x18
	ADCRSTSTCT2  Addr = 0x19
	ADCRSTENDCT2 Addr = 0x1A
	ADCRSTSTCT3  Addr = 0x1B
	ADCRSTENDCT3 Addr = 0x1C
	PRPCT        Addr = 0x1D
	TimerControl Addr = 0x1E
	TIAConfigSep Addr = 0x20
	TIAConfig    Addr = 0x21
	LEDCurrent   Addr = 0x22
	Control2     Addr = 0x23
	ClockOut     Addr = 0x29
	LED2VAL      Addr = 0x2A
	ALED2VAL     Addr = 0x2B // LED3VAL in three LEDs mode
	LED1VAL      Addr = 0x2C
	ALED1VAL     Addr = 0x2D
	LED2ALED2VAL Addr = 0x2E
	LED1ALED1VAL Addr = 0x2F
	Control3     Addr = 0x31
	PDNCYCLESTC  Addr = 0x32
	PDNCYCLEENDC Addr = 0x33
	ProgTGSTC    Addr = 0x34
	ProgTGENDC   Addr = 0x35
	LED3LEDSTC   Addr = 0x36
	LED3LEDENDC  Addr = 0x37
	ClockDiv     Addr = 0x39
	OffsetDAC    Addr = 0x3A
	Decimation   Addr = 0x3D
	AvgLED2ALED2 Addr = 0x3F
	AvgLED1ALED1 Addr = 0x40

	// MaxAddr is the highest register address of the device.
	MaxAddr = AvgLED1ALED1
)

// Configuration reports whether a is a configuration register. Reading a
// configuration register requires setting REG_READ in Control0 first.
func (a Addr) Configuration() bool {
	return a < LED2VAL || (a > LED1ALED1VAL && a < AvgLED2ALED2)
}
