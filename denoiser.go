package denoise

import (
	"fmt"

	"github.com/cwbudde/algo-denoise/dsp/core"
	"github.com/cwbudde/algo-denoise/dsp/masking"
	"github.com/cwbudde/algo-denoise/dsp/noise"
	"github.com/cwbudde/algo-denoise/dsp/spectrum"
	"github.com/cwbudde/algo-denoise/dsp/stft"
	"github.com/cwbudde/algo-denoise/dsp/suppress"
	"github.com/cwbudde/algo-vecmath"
)

const (
	// MinSampleRate and MaxSampleRate bound the supported sample rates in Hz.
	MinSampleRate = 4000.0
	MaxSampleRate = 192000.0

	// DefaultFrameDuration is the analysis frame length in milliseconds used
	// when no option overrides it.
	DefaultFrameDuration = 46.0

	minFrameDuration = 20.0
	maxFrameDuration = 100.0

	// overlapFactor fixes the analysis hop at a quarter frame (75% overlap).
	overlapFactor = 4
)

type config struct {
	frameMs float64
}

// Option configures a [Denoiser] at construction.
type Option func(*config)

// WithFrameDuration sets the analysis frame length in milliseconds, clamped
// to [20, 100]. Longer frames resolve noise between closely spaced tones
// better; shorter frames lower the latency. The frame size in samples is
// the next power of two of sampleRate*ms/1000.
func WithFrameDuration(ms float64) Option {
	return func(c *config) {
		if ms > 0 {
			c.frameMs = ms
		}
	}
}

// Denoiser is a single-channel real-time spectral noise reducer.
//
// Create with [New], configure with [Denoiser.LoadParameters], then stream
// samples through [Denoiser.Process]. All exported methods must run on one
// goroutine; see the package documentation for the concurrency contract.
type Denoiser struct {
	sampleRate float64
	frameMs    float64

	// Pipeline stages
	engine   *stft.Processor
	features *spectrum.Features
	mask     *masking.Model
	learner  *noise.Learner
	minstat  *noise.MinStatTracker
	spp      *noise.SPPTracker
	gains    *suppress.GainEstimator
	post     *suppress.PostFilter
	floor    *suppress.NoiseFloor

	// Configuration
	params     Parameters
	configured bool
	manualMode noise.Mode // profile feeding the gain stage in manual mode

	// Reusable buffers (pre-allocated to the spectrum geometry)
	gainBuf  []float64 // one gain per bin
	expanded []float64 // gains spread to packed layout
}

// New creates a denoiser for the given sample rate. All allocation happens
// here; the returned instance never allocates while processing. Parameters
// must be loaded before the first Process call.
func New(sampleRate float64, opts ...Option) (*Denoiser, error) {
	if !(sampleRate >= MinSampleRate && sampleRate <= MaxSampleRate) {
		return nil, fmt.Errorf("denoise: sample rate must be in [%g, %g] Hz: %g",
			MinSampleRate, MaxSampleRate, sampleRate)
	}

	cfg := config{frameMs: DefaultFrameDuration}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	frameMs := core.Clamp(cfg.frameMs, minFrameDuration, maxFrameDuration)
	fftSize := core.NextPowerOfTwo(int(sampleRate * frameMs / 1000))

	engine, err := stft.New(fftSize, overlapFactor)
	if err != nil {
		return nil, err
	}

	features, err := spectrum.NewFeatures(fftSize)
	if err != nil {
		return nil, err
	}

	mask, err := masking.NewModel(sampleRate, fftSize)
	if err != nil {
		return nil, err
	}

	bins := engine.BinCount()

	learner, err := noise.NewLearner(bins)
	if err != nil {
		return nil, err
	}

	minstat, err := noise.NewMinStatTracker(bins, sampleRate, engine.HopSize())
	if err != nil {
		return nil, err
	}

	spp, err := noise.NewSPPTracker(bins)
	if err != nil {
		return nil, err
	}

	gains, err := suppress.NewGainEstimator(bins, mask.Bands())
	if err != nil {
		return nil, err
	}

	post, err := suppress.NewPostFilter(bins)
	if err != nil {
		return nil, err
	}

	floor, err := suppress.NewNoiseFloor(bins)
	if err != nil {
		return nil, err
	}

	return &Denoiser{
		sampleRate: sampleRate,
		frameMs:    frameMs,
		engine:     engine,
		features:   features,
		mask:       mask,
		learner:    learner,
		minstat:    minstat,
		spp:        spp,
		gains:      gains,
		post:       post,
		floor:      floor,
		manualMode: noise.ModeAverage,
		gainBuf:    make([]float64, bins),
		expanded:   make([]float64, fftSize),
	}, nil
}

// LoadParameters validates, clamps, and applies a configuration snapshot.
// It must be called once before the first Process; later calls swap the
// configuration between blocks without disturbing stream state.
func (d *Denoiser) LoadParameters(p Parameters) error {
	if d == nil || d.engine == nil {
		return ErrNotInitialized
	}

	if p.LearnNoise < LearnOff || p.LearnNoise > LearnMaximum {
		p.LearnNoise = LearnOff
	}

	if p.NoiseReductionMode < ReductionManual || p.NoiseReductionMode > ReductionAdaptive {
		p.NoiseReductionMode = ReductionManual
	}

	if p.NoiseEstimationMethod < EstimationMinStat || p.NoiseEstimationMethod > EstimationSPP {
		p.NoiseEstimationMethod = EstimationMinStat
	}

	d.gains.SetScalingMode(p.NoiseScalingType)
	d.gains.SetReductionAmount(p.ReductionAmount)
	d.gains.SetSmoothingFactor(p.SmoothingFactor)
	d.gains.SetTransientProtection(p.TransientProtection)
	d.gains.SetMaskingDepth(p.MaskingDepth)
	d.gains.SetMaskingElasticity(p.MaskingElasticity)
	d.gains.SetNoiseRescale(p.NoiseRescale)
	d.post.SetThreshold(p.PostFilterThreshold)
	d.floor.SetWhitening(p.WhiteningFactor)

	// Read the effective values back so the stored snapshot reflects
	// clamping (and ignored non-finite fields).
	p.NoiseScalingType = d.gains.ScalingMode()
	p.ReductionAmount = d.gains.ReductionAmount()
	p.SmoothingFactor = d.gains.SmoothingFactor()
	p.MaskingDepth = d.gains.MaskingDepth()
	p.MaskingElasticity = d.gains.MaskingElasticity()
	p.NoiseRescale = d.gains.NoiseRescale()
	p.PostFilterThreshold = d.post.Threshold()
	p.WhiteningFactor = d.floor.Whitening()

	if p.LearnNoise != LearnOff {
		d.manualMode = manualModeOf(p.LearnNoise)
	}

	d.params = p
	d.configured = true

	return nil
}

// manualModeOf maps an active learn mode to its profile accumulator.
func manualModeOf(m LearnMode) noise.Mode {
	switch m {
	case LearnMedian:
		return noise.ModeMedian
	case LearnMaximum:
		return noise.ModeMaximum
	default:
		return noise.ModeAverage
	}
}

// Parameters returns the effective configuration snapshot: the values from
// the last LoadParameters call after clamping.
func (d *Denoiser) Parameters() Parameters {
	return d.params
}

// Process consumes len(src) input samples and writes the same number of
// output samples to dst, delayed by Latency samples. dst and src must have
// equal nonzero length and must not alias.
//
// On error no samples are consumed, no state changes, and dst is
// unspecified.
func (d *Denoiser) Process(dst, src []float64) error {
	if d == nil || d.engine == nil {
		return ErrNotInitialized
	}

	if !d.configured {
		return ErrNotConfigured
	}

	return d.engine.Process(dst, src, d.processSpectrum)
}

// processSpectrum runs the per-frame reduction chain on one packed
// half-spectrum.
func (d *Denoiser) processSpectrum(packed []float64) error {
	err := d.features.Extract(packed)
	if err != nil {
		return err
	}

	power := d.features.Power()

	if d.params.LearnNoise != LearnOff {
		err = d.learner.Accumulate(power)
		if err != nil {
			return err
		}
	}

	tracker := d.tracker()

	err = tracker.Update(power)
	if err != nil {
		return err
	}

	noisePower := d.noiseSource(tracker)

	var maskRelative []float64

	if d.gains.ScalingMode() == suppress.ScalingMasking {
		err = d.mask.Update(power)
		if err != nil {
			return err
		}

		maskRelative = d.mask.Relative()
	}

	err = d.gains.Estimate(d.gainBuf, power, noisePower, maskRelative)
	if err != nil {
		return err
	}

	if d.params.PostFilterEnabled {
		err = d.post.Apply(d.gainBuf, power, noisePower)
		if err != nil {
			return err
		}
	}

	err = d.floor.Apply(d.gainBuf, noisePower)
	if err != nil {
		return err
	}

	if d.params.ResidualListen {
		for k := range d.gainBuf {
			d.gainBuf[k] = 1 - d.gainBuf[k]
		}
	}

	err = spectrum.ExpandBinValues(d.expanded, d.gainBuf)
	if err != nil {
		return err
	}

	vecmath.MulBlockInPlace(packed, d.expanded)

	return nil
}

// tracker returns the adaptive estimator selected by the parameters.
func (d *Denoiser) tracker() noise.Tracker {
	if d.params.NoiseEstimationMethod == EstimationSPP {
		return d.spp
	}

	return d.minstat
}

// noiseSource returns the per-bin noise power feeding the gain stage. In
// manual mode an unlearned profile is all zeros, leaving the signal
// untouched.
func (d *Denoiser) noiseSource(tracker noise.Tracker) []float64 {
	if d.params.NoiseReductionMode == ReductionAdaptive {
		return tracker.Estimate()
	}

	return d.learner.Profile(d.manualMode).Power()
}

// Latency returns the fixed input-to-output delay in samples, constant for
// the instance lifetime and independent of call block sizes.
func (d *Denoiser) Latency() int {
	return d.engine.Latency()
}

// SampleRate returns the configured sample rate in Hz.
func (d *Denoiser) SampleRate() float64 {
	return d.sampleRate
}

// FrameDuration returns the effective analysis frame length in
// milliseconds after clamping.
func (d *Denoiser) FrameDuration() float64 {
	return d.frameMs
}

// FrameSize returns the analysis frame size in samples.
func (d *Denoiser) FrameSize() int {
	return d.engine.FFTSize()
}

// HopSize returns the analysis hop in samples.
func (d *Denoiser) HopSize() int {
	return d.engine.HopSize()
}

// NoiseProfileSize returns the number of values in a noise profile.
func (d *Denoiser) NoiseProfileSize() int {
	return d.learner.Bins()
}

// NoiseProfile returns an owned copy of the learned profile for the given
// mode. It returns [ErrProfileNotLearned] while no frame has contributed.
func (d *Denoiser) NoiseProfile(mode noise.Mode) ([]float64, error) {
	p := d.learner.Profile(mode)
	if p == nil {
		return nil, fmt.Errorf("denoise: unknown noise profile mode %d", mode)
	}

	if !p.Available() {
		return nil, ErrProfileNotLearned
	}

	return p.Snapshot(), nil
}

// NoiseProfileBlocks returns how many frames have contributed to the given
// mode's profile.
func (d *Denoiser) NoiseProfileBlocks(mode noise.Mode) int {
	p := d.learner.Profile(mode)
	if p == nil {
		return 0
	}

	return p.Blocks()
}

// NoiseProfileAvailable reports whether the given mode's profile has
// captured at least one frame.
func (d *Denoiser) NoiseProfileAvailable(mode noise.Mode) bool {
	p := d.learner.Profile(mode)

	return p != nil && p.Available()
}

// LoadNoiseProfile imports a previously exported profile for the given
// mode. power must hold NoiseProfileSize non-negative values; blocks is the
// imported contribution count. Subsequent learning continues from the
// imported state.
func (d *Denoiser) LoadNoiseProfile(mode noise.Mode, power []float64, blocks int) error {
	if d == nil || d.engine == nil {
		return ErrNotInitialized
	}

	return d.learner.Load(mode, power, blocks)
}

// ResetNoiseProfile clears all learned manual profiles and the adaptive
// tracker state. Stream buffers and parameters are untouched.
func (d *Denoiser) ResetNoiseProfile() {
	d.learner.Reset()
	d.minstat.Reset()
	d.spp.Reset()
}

// Reset restores the post-construction stream state: FIFOs, learned
// profiles, adaptive trackers, and per-frame gain memory. Loaded parameters
// are preserved.
func (d *Denoiser) Reset() {
	d.engine.Reset()
	d.learner.Reset()
	d.minstat.Reset()
	d.spp.Reset()
	d.gains.Reset()
}
