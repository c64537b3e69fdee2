package masking

import "math"

// ATH returns the absolute threshold of hearing in dB SPL at the given
// frequency in Hz. Based on Painter & Spanias (1997), modified by
// Gabriel Bouvigne to better fit empirical measurements.
func ATH(freqHz float64) float64 {
	// Convert to kHz with a minimum clamp to avoid singularity at 0.
	freq := math.Max(0.01, freqHz*0.001)

	return 3.640*math.Pow(freq, -0.8) -
		6.800*math.Exp(-0.6*(freq-3.4)*(freq-3.4)) +
		6.000*math.Exp(-0.15*(freq-8.7)*(freq-8.7)) +
		0.0006*freq*freq*freq*freq
}
