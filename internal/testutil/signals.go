package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine returns length samples of a sine at freqHz starting at
// phase zero. The suite uses it as the tone probe in reconstruction and
// suppression scenarios.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	omega := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(omega*float64(i))
	}
	return out
}

// DeterministicNoise returns length samples of uniform white noise in
// [-amplitude, amplitude]. The same seed always yields the same sequence,
// so scenario assertions can rely on the exact signal they were tuned
// against.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC returns length copies of value. Constant frames drive the noise
// trackers to closed-form stationary estimates.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns n samples of 1.0, the identity input for gain stages.
func Ones(n int) []float64 {
	return DC(1.0, n)
}

// Impulse returns a buffer of zeros with a single 1.0 at pos. A pos outside
// [0, length) yields all zeros.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if 0 <= pos && pos < length {
		out[pos] = 1
	}
	return out
}
