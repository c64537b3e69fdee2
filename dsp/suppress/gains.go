package suppress

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-denoise/dsp/core"
	"github.com/cwbudde/algo-denoise/dsp/masking"
)

// ScalingMode selects the oversubtraction strategy of a [GainEstimator].
type ScalingMode int

const (
	// ScalingUniform derives one oversubtraction factor from the
	// full-spectrum SNR and applies it to every bin.
	ScalingUniform ScalingMode = iota

	// ScalingCriticalBands derives an independent oversubtraction factor
	// per Bark critical band.
	ScalingCriticalBands

	// ScalingMasking modulates oversubtraction per bin by the masking
	// model's relative threshold.
	ScalingMasking

	// ScalingNone subtracts at unity; the reduction amount alone drives
	// suppression depth.
	ScalingNone
)

// String returns the scaling mode name.
func (m ScalingMode) String() string {
	switch m {
	case ScalingUniform:
		return "uniform"
	case ScalingCriticalBands:
		return "critical-bands"
	case ScalingMasking:
		return "masking"
	case ScalingNone:
		return "none"
	default:
		return "unknown"
	}
}

const (
	// Default gain parameters
	defaultReductionDB       = 10.0
	defaultSmoothingPercent  = 50.0
	defaultMaskingDepth      = 3.0
	defaultMaskingElasticity = 1.0
	defaultNoiseRescaleDB    = 0.0

	// Gain parameter ranges; setters clamp to these
	minReductionDB       = 0.0
	maxReductionDB       = 40.0
	minSmoothingPercent  = 0.0
	maxSmoothingPercent  = 100.0
	minMaskingDepth      = 0.0
	maxMaskingDepth      = 6.0
	minMaskingElasticity = 0.1
	maxMaskingElasticity = 6.0
	minNoiseRescaleDB    = 0.0
	maxNoiseRescaleDB    = 12.0

	// Berouti oversubtraction: alpha = clamp(alphaBase - alphaSlope*SNRdB,
	// alphaMin, alphaMax), per Berouti, Schwartz & Makhoul (1979).
	alphaBase  = 4.0
	alphaSlope = 0.15
	alphaMin   = 1.0
	alphaMax   = 6.0

	// transientRatio is the frame-power jump treated as a transient when
	// transient protection is enabled.
	transientRatio = 4.0

	// GainFloor is the smallest gain the package ever emits; a strictly
	// positive floor keeps the output free of hard-muted bins.
	GainFloor = 1e-4

	snrEpsilon = 1e-15
)

// GainEstimator computes per-bin spectral-subtraction gains.
//
// Each frame, Estimate turns the observed power spectrum and the current
// noise estimate into gains in [GainFloor, 1]: the noise estimate is
// rescaled, oversubtracted according to the selected [ScalingMode], the raw
// subtraction gain is blended toward unity by the reduction amount, and the
// result is optionally smoothed against the previous frame's gains.
type GainEstimator struct {
	bins  int
	bands *masking.Bands

	// Configuration
	scaling           ScalingMode
	reductionDB       float64
	smoothingPercent  float64
	transientGuard    bool
	maskingDepth      float64
	maskingElasticity float64
	noiseRescaleDB    float64

	// Computed coefficients (cached for performance)
	mix        float64 // unity-blend weight from reductionDB
	rescale    float64 // linear power factor from noiseRescaleDB
	smoothCoef float64 // previous-gain weight from smoothingPercent
	maskCoef   float64 // masking-scale update rate from maskingElasticity

	// Per-frame state
	prevGain  []float64
	prevPower float64
	maskScale []float64

	// Reusable buffers (pre-allocated to the band count)
	bandPower []float64
	bandNoise []float64
	bandAlpha []float64
	binAlpha  []float64
}

// NewGainEstimator creates a gain estimator for the given number of spectrum
// bins. bands supplies the critical-band partition used by
// [ScalingCriticalBands]; its bin count must match.
func NewGainEstimator(bins int, bands *masking.Bands) (*GainEstimator, error) {
	if bins < 1 {
		return nil, fmt.Errorf("suppress: bin count must be >= 1, got %d", bins)
	}

	if bands == nil {
		return nil, fmt.Errorf("suppress: nil band partition")
	}

	if bands.Bins() != bins {
		return nil, fmt.Errorf("suppress: band partition covers %d bins, want %d", bands.Bins(), bins)
	}

	e := &GainEstimator{
		bins:              bins,
		bands:             bands,
		scaling:           ScalingUniform,
		reductionDB:       defaultReductionDB,
		smoothingPercent:  defaultSmoothingPercent,
		maskingDepth:      defaultMaskingDepth,
		maskingElasticity: defaultMaskingElasticity,
		noiseRescaleDB:    defaultNoiseRescaleDB,
		prevGain:          make([]float64, bins),
		maskScale:         make([]float64, bins),
		bandPower:         make([]float64, bands.Count()),
		bandNoise:         make([]float64, bands.Count()),
		bandAlpha:         make([]float64, bands.Count()),
		binAlpha:          make([]float64, bins),
	}

	e.updateCoefficients()
	e.Reset()

	return e, nil
}

// updateCoefficients refreshes the derived values after a parameter change.
func (e *GainEstimator) updateCoefficients() {
	e.mix = core.DBToLinear(-e.reductionDB)
	e.rescale = core.DBPowerToLinear(e.noiseRescaleDB)
	e.smoothCoef = e.smoothingPercent / 100
	e.maskCoef = 1 / (1 + e.maskingElasticity)
}

// SetScalingMode selects the oversubtraction strategy. Unknown values clamp
// to [ScalingNone].
func (e *GainEstimator) SetScalingMode(mode ScalingMode) {
	if mode < ScalingUniform || mode > ScalingNone {
		mode = ScalingNone
	}

	e.scaling = mode
}

// SetReductionAmount sets the maximum suppression depth in dB, clamped to
// [0, 40]. Non-finite values are ignored.
func (e *GainEstimator) SetReductionAmount(db float64) {
	if !core.IsFinite(db) {
		return
	}

	e.reductionDB = core.Clamp(db, minReductionDB, maxReductionDB)
	e.updateCoefficients()
}

// SetSmoothingFactor sets the temporal gain smoothing in percent, clamped to
// [0, 100]. Non-finite values are ignored.
func (e *GainEstimator) SetSmoothingFactor(percent float64) {
	if !core.IsFinite(percent) {
		return
	}

	e.smoothingPercent = core.Clamp(percent, minSmoothingPercent, maxSmoothingPercent)
	e.updateCoefficients()
}

// SetTransientProtection toggles the smoothing bypass on abrupt frame-power
// increases.
func (e *GainEstimator) SetTransientProtection(enabled bool) {
	e.transientGuard = enabled
}

// SetMaskingDepth sets the extra oversubtraction applied to fully masked
// bins, clamped to [0, 6]. Non-finite values are ignored.
func (e *GainEstimator) SetMaskingDepth(depth float64) {
	if !core.IsFinite(depth) {
		return
	}

	e.maskingDepth = core.Clamp(depth, minMaskingDepth, maxMaskingDepth)
}

// SetMaskingElasticity sets how quickly the masking modulation follows the
// model, clamped to [0.1, 6]. Higher values respond more slowly. Non-finite
// values are ignored.
func (e *GainEstimator) SetMaskingElasticity(elasticity float64) {
	if !core.IsFinite(elasticity) {
		return
	}

	e.maskingElasticity = core.Clamp(elasticity, minMaskingElasticity, maxMaskingElasticity)
	e.updateCoefficients()
}

// SetNoiseRescale sets the noise-estimate boost in dB, clamped to [0, 12].
// Non-finite values are ignored.
func (e *GainEstimator) SetNoiseRescale(db float64) {
	if !core.IsFinite(db) {
		return
	}

	e.noiseRescaleDB = core.Clamp(db, minNoiseRescaleDB, maxNoiseRescaleDB)
	e.updateCoefficients()
}

// ScalingMode returns the selected oversubtraction strategy.
func (e *GainEstimator) ScalingMode() ScalingMode {
	return e.scaling
}

// ReductionAmount returns the suppression depth in dB.
func (e *GainEstimator) ReductionAmount() float64 {
	return e.reductionDB
}

// SmoothingFactor returns the temporal smoothing in percent.
func (e *GainEstimator) SmoothingFactor() float64 {
	return e.smoothingPercent
}

// TransientProtection reports whether the smoothing bypass is enabled.
func (e *GainEstimator) TransientProtection() bool {
	return e.transientGuard
}

// MaskingDepth returns the masked-bin oversubtraction depth.
func (e *GainEstimator) MaskingDepth() float64 {
	return e.maskingDepth
}

// MaskingElasticity returns the masking response sluggishness.
func (e *GainEstimator) MaskingElasticity() float64 {
	return e.maskingElasticity
}

// NoiseRescale returns the noise boost in dB.
func (e *GainEstimator) NoiseRescale() float64 {
	return e.noiseRescaleDB
}

// Estimate computes the per-bin gains for one frame. power and noisePower
// must hold one non-negative value per bin; maskRelative is consulted only
// in [ScalingMasking] mode and must then match the bin count (the masking
// model's per-bin relative threshold). gains receives the result.
func (e *GainEstimator) Estimate(gains, power, noisePower, maskRelative []float64) error {
	if len(gains) != e.bins || len(power) != e.bins || len(noisePower) != e.bins {
		return fmt.Errorf("suppress: buffer sizes %d/%d/%d, want %d bins",
			len(gains), len(power), len(noisePower), e.bins)
	}

	if e.scaling == ScalingMasking && len(maskRelative) != e.bins {
		return fmt.Errorf("suppress: masking scale has %d values, want %d bins", len(maskRelative), e.bins)
	}

	err := e.computeAlpha(power, noisePower, maskRelative)
	if err != nil {
		return err
	}

	framePower := 0.0
	for _, v := range power {
		framePower += v
	}

	transient := e.transientGuard && framePower > transientRatio*e.prevPower
	smooth := e.smoothCoef > 0 && !transient

	for k := range gains {
		noise := noisePower[k] * e.rescale

		raw := 1 - e.binAlpha[k]*math.Sqrt(noise/(power[k]+snrEpsilon))
		raw = core.Clamp(raw, 0, 1)

		g := raw + (1-raw)*e.mix

		if smooth {
			g = e.smoothCoef*e.prevGain[k] + (1-e.smoothCoef)*g
		}

		g = core.Clamp(g, GainFloor, 1)

		gains[k] = g
		e.prevGain[k] = g
	}

	e.prevPower = framePower

	return nil
}

// computeAlpha fills binAlpha with the oversubtraction factor per bin.
func (e *GainEstimator) computeAlpha(power, noisePower, maskRelative []float64) error {
	switch e.scaling {
	case ScalingUniform:
		sumPower := 0.0
		sumNoise := 0.0

		for k := range power {
			sumPower += power[k]
			sumNoise += noisePower[k] * e.rescale
		}

		alpha := beroutiAlpha(sumPower, sumNoise)
		for k := range e.binAlpha {
			e.binAlpha[k] = alpha
		}

	case ScalingCriticalBands:
		err := e.bands.Accumulate(e.bandPower, power)
		if err != nil {
			return err
		}

		err = e.bands.Accumulate(e.bandNoise, noisePower)
		if err != nil {
			return err
		}

		for b := range e.bandAlpha {
			e.bandAlpha[b] = beroutiAlpha(e.bandPower[b], e.bandNoise[b]*e.rescale)
		}

		err = e.bands.Expand(e.binAlpha, e.bandAlpha)
		if err != nil {
			return err
		}

	case ScalingMasking:
		for k := range e.binAlpha {
			e.maskScale[k] += e.maskCoef * (maskRelative[k] - e.maskScale[k])
			e.binAlpha[k] = 1 + e.maskingDepth*e.maskScale[k]
		}

	default:
		for k := range e.binAlpha {
			e.binAlpha[k] = 1
		}
	}

	return nil
}

// beroutiAlpha maps an SNR to an oversubtraction factor.
func beroutiAlpha(power, noise float64) float64 {
	snrDB := core.LinearPowerToDB((power + snrEpsilon) / (noise + snrEpsilon))

	return core.Clamp(alphaBase-alphaSlope*snrDB, alphaMin, alphaMax)
}

// Reset clears the per-frame state; parameters are preserved.
func (e *GainEstimator) Reset() {
	for k := range e.prevGain {
		e.prevGain[k] = 1
		e.maskScale[k] = 0
	}

	e.prevPower = 0
}
