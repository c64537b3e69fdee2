package stft

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-denoise/dsp/core"
	"github.com/cwbudde/algo-denoise/dsp/spectrum"
	"github.com/cwbudde/algo-denoise/dsp/window"
)

const (
	minFFTSize = 64

	// maxColaDeviation bounds the tolerated amplitude ripple of the
	// analysis*synthesis window overlap sum. Pairs above this threshold do
	// not reconstruct and are rejected at construction time.
	maxColaDeviation = 1e-9
)

// SpectrumFunc transforms one packed half spectrum in place. The slice is
// owned by the engine and only valid for the duration of the call. Returning
// an error aborts the surrounding Process call.
type SpectrumFunc func(packed []float64) error

// Processor is a streaming STFT analysis/synthesis engine.
//
// Input samples are collected into an internal frame FIFO; whenever a full
// frame is available it is windowed, transformed, passed to the caller's
// [SpectrumFunc], inverse transformed and overlap-added into the output
// stream. Output samples lag the input by a constant [Processor.Latency].
//
// Processor is not safe for concurrent use.
type Processor struct {
	// Configuration
	fftSize    int
	hopSize    int
	overlap    int
	windowType window.Type
	latency    int

	// Windows (scaledSynthesis folds in the overlap-add normalization gain)
	analysisWindow  []float64
	scaledSynthesis []float64

	// FFT plan and frame workspace
	plan    *algofft.Plan[complex128]
	timeIn  []complex128
	timeOut []complex128
	freq    []complex128
	packed  []float64
	synth   []float64

	// Streaming state
	inFIFO   []float64
	outFIFO  []float64
	outAccum []float64
	rover    int
}

// Option configures a [Processor].
type Option func(*config)

type config struct {
	windowType window.Type
}

// WithWindowType selects the analysis and synthesis window. The default is
// [window.TypeHann].
func WithWindowType(t window.Type) Option {
	return func(c *config) {
		c.windowType = t
	}
}

// New creates a streaming STFT processor. fftSize must be a power of two of
// at least 64 and overlap must be 2, 4 or 8; the hop size is fftSize/overlap.
// Window/overlap pairs whose squared overlap sum is not constant are rejected.
func New(fftSize, overlap int, opts ...Option) (*Processor, error) {
	if !core.IsPowerOfTwo(fftSize) || fftSize < minFFTSize {
		return nil, fmt.Errorf("stft: fft size must be a power of two >= %d, got %d", minFFTSize, fftSize)
	}

	switch overlap {
	case 2, 4, 8:
	default:
		return nil, fmt.Errorf("stft: overlap must be 2, 4 or 8, got %d", overlap)
	}

	cfg := config{windowType: window.TypeHann}
	for _, opt := range opts {
		opt(&cfg)
	}

	hop := fftSize / overlap

	analysis := window.Generate(cfg.windowType, fftSize, window.WithPeriodic())
	synthesis := window.Generate(cfg.windowType, fftSize, window.WithPeriodic())

	colaErr, err := window.ColaError(analysis, synthesis, hop)
	if err != nil {
		return nil, fmt.Errorf("stft: overlap check: %w", err)
	}

	if colaErr > maxColaDeviation {
		return nil, fmt.Errorf("stft: window %v does not reconstruct at overlap %d (amplitude ripple %.3g)",
			cfg.windowType, overlap, colaErr)
	}

	gain, err := window.OverlapGain(analysis, synthesis, hop)
	if err != nil {
		return nil, fmt.Errorf("stft: overlap gain: %w", err)
	}

	vecmath.ScaleBlock(synthesis, synthesis, 1/gain)

	p := &Processor{
		fftSize:         fftSize,
		hopSize:         hop,
		overlap:         overlap,
		windowType:      cfg.windowType,
		latency:         fftSize - hop,
		analysisWindow:  analysis,
		scaledSynthesis: synthesis,
		timeIn:          make([]complex128, fftSize),
		timeOut:         make([]complex128, fftSize),
		freq:            make([]complex128, fftSize),
		packed:          make([]float64, fftSize),
		synth:           make([]float64, fftSize),
		inFIFO:          make([]float64, fftSize),
		outFIFO:         make([]float64, hop),
		outAccum:        make([]float64, fftSize),
	}

	p.plan, err = algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("stft: failed to create FFT plan: %w", err)
	}

	p.rover = p.latency

	return p, nil
}

// Process consumes len(src) input samples and writes the same number of
// output samples to dst. dst and src must have equal length and must not
// alias. The first [Processor.Latency] output samples of a fresh or freshly
// Reset stream are zero padding.
//
// fn is invoked once per complete frame with the packed half spectrum and may
// modify it in place. If fn or the transform fails, Process returns the error
// with the stream in an undefined intermediate state; call [Processor.Reset]
// before continuing.
func (p *Processor) Process(dst, src []float64, fn SpectrumFunc) error {
	if fn == nil {
		return ErrNilCallback
	}

	if dst == nil || src == nil {
		return ErrNilBuffer
	}

	if len(src) == 0 {
		return ErrEmptyInput
	}

	if len(dst) != len(src) {
		return fmt.Errorf("%w: dst has %d samples, src has %d", ErrLengthMismatch, len(dst), len(src))
	}

	if &dst[0] == &src[0] {
		return ErrAliasedBuffers
	}

	for i := range src {
		p.inFIFO[p.rover] = src[i]
		dst[i] = p.outFIFO[p.rover-p.latency]
		p.rover++

		if p.rover >= p.fftSize {
			err := p.processFrame(fn)
			if err != nil {
				return err
			}

			p.rover = p.latency
		}
	}

	return nil
}

// processFrame runs analysis, the spectrum callback and synthesis for the
// frame currently held in inFIFO, then advances the stream by one hop.
func (p *Processor) processFrame(fn SpectrumFunc) error {
	for i := range p.fftSize {
		p.timeIn[i] = complex(p.inFIFO[i]*p.analysisWindow[i], 0)
	}

	err := p.plan.Forward(p.freq, p.timeIn)
	if err != nil {
		return fmt.Errorf("stft: forward FFT failed: %w", err)
	}

	// Pack the non-redundant half spectrum; DC and Nyquist are purely real
	// for real input.
	half := p.fftSize / 2
	p.packed[0] = real(p.freq[0])
	p.packed[1] = real(p.freq[half])

	for k := 1; k < half; k++ {
		p.packed[2*k] = real(p.freq[k])
		p.packed[2*k+1] = imag(p.freq[k])
	}

	err = fn(p.packed)
	if err != nil {
		return fmt.Errorf("stft: spectrum callback failed: %w", err)
	}

	// Restore conjugate symmetry so the inverse transform yields a real
	// signal regardless of what the callback wrote.
	p.freq[0] = complex(p.packed[0], 0)
	p.freq[half] = complex(p.packed[1], 0)

	for k := 1; k < half; k++ {
		re, im := p.packed[2*k], p.packed[2*k+1]
		p.freq[k] = complex(re, im)
		p.freq[p.fftSize-k] = complex(re, -im)
	}

	err = p.plan.Inverse(p.timeOut, p.freq)
	if err != nil {
		return fmt.Errorf("stft: inverse FFT failed: %w", err)
	}

	for i := range p.fftSize {
		p.synth[i] = real(p.timeOut[i])
	}

	vecmath.MulBlockInPlace(p.synth, p.scaledSynthesis)
	vecmath.AddBlockInPlace(p.outAccum, p.synth)

	// Emit one hop of finished output and slide both FIFOs.
	copy(p.outFIFO, p.outAccum[:p.hopSize])
	copy(p.outAccum, p.outAccum[p.hopSize:])
	core.Zero(p.outAccum[p.fftSize-p.hopSize:])
	copy(p.inFIFO, p.inFIFO[p.hopSize:])

	return nil
}

// Reset clears all streaming state. The next Process call starts a fresh
// stream with the usual zero-padded warm-up.
func (p *Processor) Reset() {
	core.Zero(p.inFIFO)
	core.Zero(p.outFIFO)
	core.Zero(p.outAccum)
	p.rover = p.latency
}

// FFTSize returns the frame length in samples.
func (p *Processor) FFTSize() int {
	return p.fftSize
}

// HopSize returns the frame advance in samples.
func (p *Processor) HopSize() int {
	return p.hopSize
}

// Overlap returns the overlap factor fftSize/hopSize.
func (p *Processor) Overlap() int {
	return p.overlap
}

// BinCount returns the number of non-redundant spectral bins per frame.
func (p *Processor) BinCount() int {
	return spectrum.Bins(p.fftSize)
}

// WindowType returns the configured analysis/synthesis window type.
func (p *Processor) WindowType() window.Type {
	return p.windowType
}

// Latency returns the constant input-to-output delay in samples.
func (p *Processor) Latency() int {
	return p.latency
}
