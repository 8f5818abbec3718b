package pulse

// firHalf holds the first half of a symmetric 23 tap low-pass filter. The
// center tap is last.
var firHalf = [...]float64{21.5, 40.125, 72.375, 115.875, 170.0, 232.25, 298.75, 364.5, 423.875, 471.0, 501.5, 512.0}

const (
	firCenter = len(firHalf) - 1
	firTaps   = 2*firCenter + 1
	firSize   = 32 // ring size, a power of two holding every tap
)

// firGain is the DC gain of the filter, the sum of every tap.
var firGain = func() float64 {
	g := firHalf[firCenter]
	for _, c := range firHalf[:firCenter] {
		g += 2 * c
	}
	return g
}()

type fir struct {
	buffer [firSize]float64
	idx    int
}

// at returns the input received k samples ago.
func (f *fir) at(k int) float64 {
	return f.buffer[(f.idx-k)&(firSize-1)]
}

// lowPass filters one more input. The output has unity DC gain.
func (f *fir) lowPass(x float64) float64 {
	f.buffer[f.idx&(firSize-1)] = x

	z := firHalf[firCenter] * f.at(firCenter)
	for k, c := range firHalf[:firCenter] {
		z += c * (f.at(k) + f.at(firTaps-1-k))
	}

	f.idx = (f.idx + 1) & (firSize - 1)
	return z / firGain
}
