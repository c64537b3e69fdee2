package suppress

import (
	"fmt"

	"github.com/cwbudde/algo-denoise/dsp/core"
)

const (
	defaultPostFilterThresholdDB = 0.0
	minPostFilterThresholdDB     = -10.0
	maxPostFilterThresholdDB     = 10.0

	// postFilterReach is the half width of the gain moving average.
	postFilterReach = 3
)

// PostFilter suppresses musical noise by replacing the gain of low-SNR bins
// with a local moving average.
//
// Isolated bins whose gain flickers frame to frame are the dominant source
// of watery artifacts after spectral subtraction; averaging the gain across
// neighboring bins where no clear signal is present trades a little spectral
// detail for a much smoother residual.
type PostFilter struct {
	bins        int
	thresholdDB float64

	scratch []float64
}

// NewPostFilter creates a post filter for the given number of spectrum bins.
func NewPostFilter(bins int) (*PostFilter, error) {
	if bins < 1 {
		return nil, fmt.Errorf("suppress: bin count must be >= 1, got %d", bins)
	}

	return &PostFilter{
		bins:        bins,
		thresholdDB: defaultPostFilterThresholdDB,
		scratch:     make([]float64, bins),
	}, nil
}

// SetThreshold sets the local SNR in dB below which gains are averaged,
// clamped to [-10, 10]. Non-finite values are ignored.
func (f *PostFilter) SetThreshold(db float64) {
	if !core.IsFinite(db) {
		return
	}

	f.thresholdDB = core.Clamp(db, minPostFilterThresholdDB, maxPostFilterThresholdDB)
}

// Threshold returns the local SNR threshold in dB.
func (f *PostFilter) Threshold() float64 {
	return f.thresholdDB
}

// Apply smooths gains in place. power and noisePower supply the per-bin SNR
// deciding which bins are averaged; all gains are floored at [GainFloor].
func (f *PostFilter) Apply(gains, power, noisePower []float64) error {
	if len(gains) != f.bins || len(power) != f.bins || len(noisePower) != f.bins {
		return fmt.Errorf("suppress: buffer sizes %d/%d/%d, want %d bins",
			len(gains), len(power), len(noisePower), f.bins)
	}

	copy(f.scratch, gains)

	threshold := core.DBPowerToLinear(f.thresholdDB)

	for k := range gains {
		snr := power[k] / (noisePower[k] + snrEpsilon)
		if snr >= threshold {
			continue
		}

		lo := k - postFilterReach
		if lo < 0 {
			lo = 0
		}

		hi := k + postFilterReach
		if hi > f.bins-1 {
			hi = f.bins - 1
		}

		sum := 0.0
		for i := lo; i <= hi; i++ {
			sum += f.scratch[i]
		}

		gains[k] = sum / float64(hi-lo+1)
	}

	for k := range gains {
		if gains[k] < GainFloor {
			gains[k] = GainFloor
		}
	}

	return nil
}
