package masking

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-denoise/dsp/spectrum"
)

// zwickerBandEdges lists the lower edges in Hz of the 25 critical bands per
// Zwicker (Psychoakustik, 1982; ISBN 3-540-11401-7). The top band extends to
// the Nyquist frequency.
var zwickerBandEdges = [...]float64{
	0, 100, 200, 300, 400, 510, 630, 770, 920, 1080,
	1270, 1480, 1720, 2000, 2320, 2700, 3150, 3700, 4400, 5300,
	6400, 7700, 9500, 12000, 15500,
}

// Bark converts a frequency in Hz to the Bark scale per Zwicker & Terhardt
// (1980).
func Bark(freqHz float64) float64 {
	r := freqHz / 7500

	return 13*math.Atan(0.00076*freqHz) + 3.5*math.Atan(r*r)
}

// Bands partitions the bins of a half spectrum into Bark critical bands.
//
// Bands whose frequency span contains no bin at the given resolution are
// merged into their neighbors, so every band holds at least one bin and
// consecutive bands cover consecutive bin ranges.
type Bands struct {
	sampleRate float64
	fftSize    int
	bins       int

	binBand    []int     // band index per bin
	loBin      []int     // first bin of each band
	hiBin      []int     // one past the last bin of each band
	centerHz   []float64 // center frequency of each band's bin span
	centerBark []float64
}

// NewBands creates a critical-band partition for frames of fftSize samples at
// the given sample rate.
func NewBands(sampleRate float64, fftSize int) (*Bands, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("masking: sample rate must be positive, got %g", sampleRate)
	}

	bins := spectrum.Bins(fftSize)
	if bins == 0 {
		return nil, fmt.Errorf("masking: invalid fft size %d", fftSize)
	}

	binHz := sampleRate / float64(fftSize)

	b := &Bands{
		sampleRate: sampleRate,
		fftSize:    fftSize,
		bins:       bins,
		binBand:    make([]int, bins),
	}

	prevEdge := -1

	for k := range bins {
		edge := zwickerBand(float64(k) * binHz)

		if edge != prevEdge {
			b.loBin = append(b.loBin, k)
			b.hiBin = append(b.hiBin, k)
			prevEdge = edge
		}

		band := len(b.loBin) - 1
		b.binBand[k] = band
		b.hiBin[band] = k + 1
	}

	for band := range b.loBin {
		lo := float64(b.loBin[band]) * binHz
		hi := float64(b.hiBin[band]-1) * binHz
		center := 0.5 * (lo + hi)

		b.centerHz = append(b.centerHz, center)
		b.centerBark = append(b.centerBark, Bark(center))
	}

	return b, nil
}

// zwickerBand returns the index of the Zwicker band containing freqHz.
func zwickerBand(freqHz float64) int {
	band := 0
	for band+1 < len(zwickerBandEdges) && freqHz >= zwickerBandEdges[band+1] {
		band++
	}

	return band
}

// Count returns the number of non-empty critical bands.
func (b *Bands) Count() int {
	return len(b.loBin)
}

// Bins returns the number of spectrum bins the partition covers.
func (b *Bands) Bins() int {
	return b.bins
}

// BandOfBin returns the band index of the given bin, or -1 if the bin is out
// of range.
func (b *Bands) BandOfBin(bin int) int {
	if bin < 0 || bin >= b.bins {
		return -1
	}

	return b.binBand[bin]
}

// CenterHz returns the center frequency of a band in Hz, or 0 if the band is
// out of range.
func (b *Bands) CenterHz(band int) float64 {
	if band < 0 || band >= len(b.centerHz) {
		return 0
	}

	return b.centerHz[band]
}

// CenterBark returns the Bark position of a band's center, or 0 if the band
// is out of range.
func (b *Bands) CenterBark(band int) float64 {
	if band < 0 || band >= len(b.centerBark) {
		return 0
	}

	return b.centerBark[band]
}

// Accumulate sums per-bin values into per-band totals. dst must have Count()
// elements and values must have Bins() elements.
func (b *Bands) Accumulate(dst, values []float64) error {
	if len(dst) != b.Count() {
		return fmt.Errorf("masking: dst has %d elements, want %d bands", len(dst), b.Count())
	}

	if len(values) != b.bins {
		return fmt.Errorf("masking: values has %d elements, want %d bins", len(values), b.bins)
	}

	for band := range b.loBin {
		sum := 0.0
		for k := b.loBin[band]; k < b.hiBin[band]; k++ {
			sum += values[k]
		}

		dst[band] = sum
	}

	return nil
}

// Expand scatters one value per band across that band's bins. dst must have
// Bins() elements and values must have Count() elements.
func (b *Bands) Expand(dst, values []float64) error {
	if len(dst) != b.bins {
		return fmt.Errorf("masking: dst has %d elements, want %d bins", len(dst), b.bins)
	}

	if len(values) != b.Count() {
		return fmt.Errorf("masking: values has %d elements, want %d bands", len(values), b.Count())
	}

	for k := range dst {
		dst[k] = values[b.binBand[k]]
	}

	return nil
}
