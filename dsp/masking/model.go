package masking

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-denoise/dsp/core"
)

const (
	// Masking offsets below the spread band energy, per Johnston (1988):
	// tonal maskers mask (14.5 + bark) dB below their level, noise maskers
	// a flat 5.5 dB.
	tonalOffsetDB = 14.5
	noiseOffsetDB = 5.5

	// pureToneFlatnessDB is the spectral flatness treated as fully tonal;
	// flatness is mapped linearly between 0 dB (noise) and this value.
	pureToneFlatnessDB = -60.0

	// fullScaleSPL is the assumed playback level of digital full scale,
	// anchoring the absolute hearing threshold in the digital domain.
	fullScaleSPL = 90.0

	// relativeRangeDB is the signal-to-threshold margin mapped onto the
	// [0, 1] masked scale; larger margins saturate.
	relativeRangeDB = 40.0

	powerFloor = 1e-30
)

// SpreadingDB returns the masking spread in dB contributed to a band dz Bark
// away from a masker (positive dz: maskee above the masker), per Schroeder,
// Atal & Hall (1979).
func SpreadingDB(dz float64) float64 {
	d := dz + 0.474

	return 15.81 + 7.5*d - 17.5*math.Sqrt(1+d*d)
}

// Model computes per-bin masking scales from frame power spectra.
//
// Update recomputes band thresholds for one frame; the [Model.Relative] slice
// then reports each bin's position below its threshold. Model is not safe for
// concurrent use.
type Model struct {
	bands *Bands
	bins  int

	// Spreading weights, one row per maskee band, rows normalized to unit
	// sum so spreading averages rather than inflates energy.
	spreading [][]float64

	// Per-band state
	bandEnergy []float64
	threshold  []float64
	athFloor   []float64

	// Per-bin output, refreshed by Update
	relative []float64
}

// NewModel creates a masking model for frames of fftSize samples at the given
// sample rate.
func NewModel(sampleRate float64, fftSize int) (*Model, error) {
	bands, err := NewBands(sampleRate, fftSize)
	if err != nil {
		return nil, err
	}

	count := bands.Count()

	m := &Model{
		bands:      bands,
		bins:       bands.Bins(),
		spreading:  make([][]float64, count),
		bandEnergy: make([]float64, count),
		threshold:  make([]float64, count),
		athFloor:   make([]float64, count),
		relative:   make([]float64, bands.Bins()),
	}

	for i := range count {
		row := make([]float64, count)
		sum := 0.0

		for j := range count {
			w := core.DBPowerToLinear(SpreadingDB(bands.CenterBark(i) - bands.CenterBark(j)))
			row[j] = w
			sum += w
		}

		for j := range count {
			row[j] /= sum
		}

		m.spreading[i] = row
		m.athFloor[i] = core.DBPowerToLinear(ATH(bands.CenterHz(i)) - fullScaleSPL)
	}

	return m, nil
}

// Update recomputes the masking thresholds and per-bin scales for one frame.
// power must hold one non-negative value per bin.
func (m *Model) Update(power []float64) error {
	if len(power) != m.bins {
		return fmt.Errorf("masking: power has %d elements, want %d bins", len(power), m.bins)
	}

	err := m.bands.Accumulate(m.bandEnergy, power)
	if err != nil {
		return err
	}

	alpha := m.tonality()

	for i := range m.threshold {
		spread := 0.0
		for j, w := range m.spreading[i] {
			spread += w * m.bandEnergy[j]
		}

		offset := alpha*(tonalOffsetDB+m.bands.CenterBark(i)) + (1-alpha)*noiseOffsetDB

		t := spread * core.DBPowerToLinear(-offset)
		if t < m.athFloor[i] {
			t = m.athFloor[i]
		}

		m.threshold[i] = t
	}

	for k := range m.relative {
		t := m.threshold[m.bands.binBand[k]]
		marginDB := core.LinearPowerToDB(t+powerFloor) - core.LinearPowerToDB(power[k]+powerFloor)
		m.relative[k] = core.Clamp(0.5+marginDB/relativeRangeDB, 0, 1)
	}

	return nil
}

// tonality estimates how tonal the current frame is from the spectral
// flatness of its band energies: 1 for a pure tone, 0 for white noise.
func (m *Model) tonality() float64 {
	logSum := 0.0
	sum := 0.0

	for _, e := range m.bandEnergy {
		e += powerFloor
		logSum += math.Log(e)
		sum += e
	}

	n := float64(len(m.bandEnergy))
	flatnessDB := 10 * math.Log10(math.Exp(logSum/n)/(sum/n))

	return core.Clamp(flatnessDB/pureToneFlatnessDB, 0, 1)
}

// Relative returns the per-bin masked scale of the last Update: 1 for bins
// far below their masking threshold, 0 for bins far above it. The slice is
// owned by the model and valid until the next Update.
func (m *Model) Relative() []float64 {
	return m.relative
}

// BandThresholds returns the per-band masking thresholds (linear power) of
// the last Update. The slice is owned by the model and valid until the next
// Update.
func (m *Model) BandThresholds() []float64 {
	return m.threshold
}

// Bands returns the critical-band partition the model is built on.
func (m *Model) Bands() *Bands {
	return m.bands
}
