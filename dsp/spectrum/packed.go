package spectrum

import (
	"fmt"
	"math"
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled scratch memory for packed-to-parts unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// Bins returns the number of half-spectrum bins for an FFT size.
// Returns 0 for sizes that cannot hold a packed spectrum.
func Bins(fftSize int) int {
	if fftSize < 4 || fftSize%2 != 0 {
		return 0
	}
	return fftSize/2 + 1
}

func validatePacked(packed []float64) error {
	if Bins(len(packed)) == 0 {
		return fmt.Errorf("spectrum: packed length must be even and >= 4: %d", len(packed))
	}
	return nil
}

// SplitParts unpacks a packed spectrum into separate real and imaginary
// half-spectrum slices of length Bins(len(packed)).
//
// DC and Nyquist carry no imaginary part; their im entries are set to 0.
func SplitParts(re, im, packed []float64) error {
	err := validatePacked(packed)
	if err != nil {
		return err
	}

	bins := Bins(len(packed))
	if len(re) != bins || len(im) != bins {
		return fmt.Errorf("spectrum: parts length must be %d: re %d, im %d", bins, len(re), len(im))
	}

	half := bins - 1

	re[0], im[0] = packed[0], 0
	re[half], im[half] = packed[1], 0

	for k := 1; k < half; k++ {
		re[k] = packed[2*k]
		im[k] = packed[2*k+1]
	}

	return nil
}

// ExpandBinValues spreads one value per half-spectrum bin into packed layout
// positions, writing each bin's value to both its re and im slots.
//
// Multiplying a packed spectrum elementwise by the expanded slice applies a
// per-bin real gain. dst must have length 2*(len(values)-1).
func ExpandBinValues(dst, values []float64) error {
	bins := len(values)
	if bins < 3 {
		return fmt.Errorf("spectrum: need at least 3 bin values: %d", bins)
	}

	fftSize := 2 * (bins - 1)
	if len(dst) != fftSize {
		return fmt.Errorf("spectrum: dst length must be %d: %d", fftSize, len(dst))
	}

	half := bins - 1

	dst[0] = values[0]
	dst[1] = values[half]

	for k := 1; k < half; k++ {
		dst[2*k] = values[k]
		dst[2*k+1] = values[k]
	}

	return nil
}

// BinPower returns |X[k]|^2 for one bin of a packed spectrum.
func BinPower(packed []float64, bin int) float64 {
	bins := Bins(len(packed))
	if bin < 0 || bin >= bins {
		return 0
	}

	switch bin {
	case 0:
		return packed[0] * packed[0]
	case bins - 1:
		return packed[1] * packed[1]
	default:
		re := packed[2*bin]
		im := packed[2*bin+1]
		return re*re + im*im
	}
}

// BinMagnitude returns |X[k]| for one bin of a packed spectrum.
func BinMagnitude(packed []float64, bin int) float64 {
	return math.Sqrt(BinPower(packed, bin))
}

// PowerSpectrum returns |X[k]|^2 for each bin of a packed spectrum.
//
// Scratch buffers are pooled internally, so in steady state this allocates
// only the output slice. Use [Features] for the zero-allocation path.
func PowerSpectrum(packed []float64) ([]float64, error) {
	err := validatePacked(packed)
	if err != nil {
		return nil, err
	}

	bins := Bins(len(packed))
	out := make([]float64, bins)
	re, im, buf := getScratch(bins)

	_ = SplitParts(re, im, packed)
	vecmath.Power(out, re, im)
	putScratch(buf)

	return out, nil
}

// MagnitudeSpectrum returns |X[k]| for each bin of a packed spectrum.
//
// Scratch buffers are pooled internally, so in steady state this allocates
// only the output slice. Use [Features] for the zero-allocation path.
func MagnitudeSpectrum(packed []float64) ([]float64, error) {
	err := validatePacked(packed)
	if err != nil {
		return nil, err
	}

	bins := Bins(len(packed))
	out := make([]float64, bins)
	re, im, buf := getScratch(bins)

	_ = SplitParts(re, im, packed)
	vecmath.Magnitude(out, re, im)
	putScratch(buf)

	return out, nil
}
