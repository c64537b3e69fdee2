package denoise

// DefaultAdaptiveFrameDuration is the analysis frame length in milliseconds
// of an [AdaptiveDenoiser] when no option overrides it. The shorter frame
// roughly halves the latency of the manual-profile default and suits
// hands-free use where no learning pass is possible.
const DefaultAdaptiveFrameDuration = 20.0

// AdaptiveDenoiser is a single-channel noise reducer whose noise profile is
// tracked continuously; it exposes no manual learning surface.
//
// The lifecycle matches [Denoiser]: create, load parameters, stream through
// Process. LearnNoise and NoiseReductionMode fields of a loaded snapshot are
// ignored: the instance always suppresses against the adaptive estimate
// selected by NoiseEstimationMethod.
type AdaptiveDenoiser struct {
	d *Denoiser
}

// NewAdaptive creates an adaptive denoiser for the given sample rate.
func NewAdaptive(sampleRate float64, opts ...Option) (*AdaptiveDenoiser, error) {
	d, err := New(sampleRate, append([]Option{WithFrameDuration(DefaultAdaptiveFrameDuration)}, opts...)...)
	if err != nil {
		return nil, err
	}

	return &AdaptiveDenoiser{d: d}, nil
}

// LoadParameters validates, clamps, and applies a configuration snapshot,
// forcing adaptive reduction with learning off.
func (a *AdaptiveDenoiser) LoadParameters(p Parameters) error {
	if a == nil || a.d == nil {
		return ErrNotInitialized
	}

	p.LearnNoise = LearnOff
	p.NoiseReductionMode = ReductionAdaptive

	return a.d.LoadParameters(p)
}

// Parameters returns the effective configuration snapshot.
func (a *AdaptiveDenoiser) Parameters() Parameters {
	return a.d.Parameters()
}

// Process consumes len(src) input samples and writes the same number of
// output samples to dst, delayed by Latency samples. dst and src must have
// equal nonzero length and must not alias.
func (a *AdaptiveDenoiser) Process(dst, src []float64) error {
	if a == nil || a.d == nil {
		return ErrNotInitialized
	}

	return a.d.Process(dst, src)
}

// NoiseEstimate returns an owned copy of the tracker's current per-bin
// noise power estimate.
func (a *AdaptiveDenoiser) NoiseEstimate() []float64 {
	est := a.d.tracker().Estimate()

	out := make([]float64, len(est))
	copy(out, est)

	return out
}

// Latency returns the fixed input-to-output delay in samples.
func (a *AdaptiveDenoiser) Latency() int {
	return a.d.Latency()
}

// SampleRate returns the configured sample rate in Hz.
func (a *AdaptiveDenoiser) SampleRate() float64 {
	return a.d.SampleRate()
}

// FrameSize returns the analysis frame size in samples.
func (a *AdaptiveDenoiser) FrameSize() int {
	return a.d.FrameSize()
}

// HopSize returns the analysis hop in samples.
func (a *AdaptiveDenoiser) HopSize() int {
	return a.d.HopSize()
}

// Reset restores the post-construction stream state; loaded parameters are
// preserved.
func (a *AdaptiveDenoiser) Reset() {
	a.d.Reset()
}
