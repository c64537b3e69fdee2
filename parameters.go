package denoise

import "github.com/cwbudde/algo-denoise/dsp/suppress"

// LearnMode selects which manual noise-profile accumulator the gain stage
// follows; any value other than LearnOff also enables learning.
type LearnMode int

const (
	// LearnOff disables manual profile capture.
	LearnOff LearnMode = iota

	// LearnAverage follows the running-mean profile.
	LearnAverage

	// LearnMedian follows the trailing-median profile.
	LearnMedian

	// LearnMaximum follows the per-bin maximum profile.
	LearnMaximum
)

// String returns the learn mode name.
func (m LearnMode) String() string {
	switch m {
	case LearnOff:
		return "off"
	case LearnAverage:
		return "average"
	case LearnMedian:
		return "median"
	case LearnMaximum:
		return "maximum"
	default:
		return "unknown"
	}
}

// EstimationMethod selects the adaptive noise tracker.
type EstimationMethod int

const (
	// EstimationMinStat tracks noise by sliding-window minimum statistics.
	EstimationMinStat EstimationMethod = iota

	// EstimationSPP tracks noise gated by speech presence probability.
	EstimationSPP
)

// String returns the estimation method name.
func (m EstimationMethod) String() string {
	switch m {
	case EstimationMinStat:
		return "minimum-statistics"
	case EstimationSPP:
		return "spp"
	default:
		return "unknown"
	}
}

// ReductionMode selects the noise estimate feeding the gain computation.
type ReductionMode int

const (
	// ReductionManual suppresses against the learned manual profile.
	ReductionManual ReductionMode = iota

	// ReductionAdaptive suppresses against the continuously tracked
	// adaptive estimate.
	ReductionAdaptive
)

// String returns the reduction mode name.
func (m ReductionMode) String() string {
	switch m {
	case ReductionManual:
		return "manual"
	case ReductionAdaptive:
		return "adaptive"
	default:
		return "unknown"
	}
}

// Parameters is a configuration snapshot for a [Denoiser]. A snapshot is
// loaded as a whole via [Denoiser.LoadParameters] and may be swapped between
// process calls without reinitializing.
//
// Out-of-range values are clamped on load, never rejected; unknown enum
// values fall back to their zero value. The zero Parameters is valid but
// mutes nothing; start from [DefaultParameters] instead.
type Parameters struct {
	// Profile selection
	LearnNoise            LearnMode
	NoiseReductionMode    ReductionMode
	NoiseEstimationMethod EstimationMethod

	// Suppression
	ReductionAmount     float64              // dB, clamped to [0, 40]
	NoiseScalingType    suppress.ScalingMode // oversubtraction strategy
	NoiseRescale        float64              // dB, clamped to [0, 12]
	SmoothingFactor     float64              // percent, clamped to [0, 100]
	TransientProtection bool
	MaskingDepth        float64 // clamped to [0, 6]
	MaskingElasticity   float64 // clamped to [0.1, 6]

	// Post-processing
	PostFilterEnabled   bool
	PostFilterThreshold float64 // dB, clamped to [-10, 10]
	WhiteningFactor     float64 // percent, clamped to [0, 100]

	// Monitoring: synthesize (1-gain)*input instead of gain*input,
	// auditioning what the reducer removes.
	ResidualListen bool
}

// DefaultParameters returns a moderate starting configuration: 10 dB
// reduction, uniform oversubtraction, 50% gain smoothing, post filter on.
func DefaultParameters() Parameters {
	return Parameters{
		ReductionAmount:   10,
		NoiseScalingType:  suppress.ScalingUniform,
		SmoothingFactor:   50,
		MaskingDepth:      3,
		MaskingElasticity: 1,
		PostFilterEnabled: true,
	}
}
