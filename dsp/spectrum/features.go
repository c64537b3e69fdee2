package spectrum

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Features extracts per-bin power, magnitude, and phase from packed spectra
// into internally owned slices.
//
// All buffers are allocated once at construction; [Features.Extract] performs
// no allocation, making it safe for real-time frame callbacks. The accessor
// slices stay valid until the next Extract call and must not be retained
// across frames.
type Features struct {
	fftSize   int
	power     []float64
	magnitude []float64
	phase     []float64
	re        []float64
	im        []float64
}

// NewFeatures creates a feature extractor for packed spectra of the given
// FFT size. fftSize must be even and >= 4.
func NewFeatures(fftSize int) (*Features, error) {
	bins := Bins(fftSize)
	if bins == 0 {
		return nil, fmt.Errorf("spectrum: fft size must be even and >= 4: %d", fftSize)
	}

	return &Features{
		fftSize:   fftSize,
		power:     make([]float64, bins),
		magnitude: make([]float64, bins),
		phase:     make([]float64, bins),
		re:        make([]float64, bins),
		im:        make([]float64, bins),
	}, nil
}

// FFTSize returns the FFT size this extractor was built for.
func (f *Features) FFTSize() int { return f.fftSize }

// BinCount returns the number of half-spectrum bins.
func (f *Features) BinCount() int { return len(f.power) }

// Extract computes power, magnitude, and phase for every bin of packed.
func (f *Features) Extract(packed []float64) error {
	if len(packed) != f.fftSize {
		return fmt.Errorf("spectrum: packed length must be %d: %d", f.fftSize, len(packed))
	}

	err := SplitParts(f.re, f.im, packed)
	if err != nil {
		return err
	}

	vecmath.Power(f.power, f.re, f.im)
	vecmath.Magnitude(f.magnitude, f.re, f.im)

	for k := range f.phase {
		f.phase[k] = math.Atan2(f.im[k], f.re[k])
	}

	return nil
}

// Power returns the per-bin power of the last extracted frame.
func (f *Features) Power() []float64 { return f.power }

// Magnitude returns the per-bin magnitude of the last extracted frame.
func (f *Features) Magnitude() []float64 { return f.magnitude }

// Phase returns the per-bin phase in radians of the last extracted frame.
func (f *Features) Phase() []float64 { return f.phase }
