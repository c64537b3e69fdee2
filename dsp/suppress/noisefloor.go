package suppress

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-denoise/dsp/core"
)

const (
	defaultWhiteningPercent = 0.0
	minWhiteningPercent     = 0.0
	maxWhiteningPercent     = 100.0
)

// NoiseFloor blends suppression gains toward a flattened noise shape.
//
// Bins where the noise profile is weak get their gain raised toward the
// whitening level; bins where it is strong keep their computed gain. The
// residual noise after suppression then approaches a flat spectrum at a
// level set by the whitening factor, which most listeners prefer over
// colored, pumping remnants of the original noise.
type NoiseFloor struct {
	bins             int
	whiteningPercent float64
}

// NewNoiseFloor creates a noise-floor manager for the given number of bins.
func NewNoiseFloor(bins int) (*NoiseFloor, error) {
	if bins < 1 {
		return nil, fmt.Errorf("suppress: bin count must be >= 1, got %d", bins)
	}

	return &NoiseFloor{
		bins:             bins,
		whiteningPercent: defaultWhiteningPercent,
	}, nil
}

// SetWhitening sets the residual whitening amount in percent, clamped to
// [0, 100]. Zero disables the blend. Non-finite values are ignored.
func (n *NoiseFloor) SetWhitening(percent float64) {
	if !core.IsFinite(percent) {
		return
	}

	n.whiteningPercent = core.Clamp(percent, minWhiteningPercent, maxWhiteningPercent)
}

// Whitening returns the whitening amount in percent.
func (n *NoiseFloor) Whitening() float64 {
	return n.whiteningPercent
}

// Apply raises gains in place toward the flattened shape of the given noise
// profile. Gains only ever increase.
func (n *NoiseFloor) Apply(gains, noisePower []float64) error {
	if len(gains) != n.bins || len(noisePower) != n.bins {
		return fmt.Errorf("suppress: buffer sizes %d/%d, want %d bins", len(gains), len(noisePower), n.bins)
	}

	if n.whiteningPercent == 0 {
		return nil
	}

	mean := 0.0
	for _, v := range noisePower {
		mean += math.Sqrt(v)
	}

	mean /= float64(n.bins)

	weight := n.whiteningPercent / 100

	for k := range gains {
		mag := math.Sqrt(noisePower[k])

		floor := weight * core.Clamp(mean/(mag+snrEpsilon), 0, 1)
		gains[k] = floor + (1-floor)*gains[k]
	}

	return nil
}
