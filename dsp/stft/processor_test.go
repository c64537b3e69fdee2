package stft

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-denoise/dsp/spectrum"
	"github.com/cwbudde/algo-denoise/dsp/window"
	"github.com/cwbudde/algo-denoise/internal/testutil"
)

func identity(packed []float64) error {
	return nil
}

// processChunks feeds src through p in fixed-size blocks and returns the
// produced output stream.
func processChunks(t *testing.T, p *Processor, src []float64, block int, fn SpectrumFunc) []float64 {
	t.Helper()

	out := make([]float64, len(src))

	for start := 0; start < len(src); start += block {
		end := min(start+block, len(src))

		err := p.Process(out[start:end], src[start:end], fn)
		if err != nil {
			t.Fatalf("Process() error: %v", err)
		}
	}

	return out
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		fftSize int
		overlap int
		opts    []Option
		wantErr bool
	}{
		{"valid 512/4", 512, 4, nil, false},
		{"valid 2048/8", 2048, 8, nil, false},
		{"valid min size", 64, 4, nil, false},
		{"valid rectangular overlap 2", 256, 2, []Option{WithWindowType(window.TypeRectangular)}, false},
		{"valid hamming overlap 4", 512, 4, []Option{WithWindowType(window.TypeHamming)}, false},
		{"valid blackman-harris overlap 8", 512, 8, []Option{WithWindowType(window.TypeBlackmanHarris)}, false},
		{"zero size", 0, 4, nil, true},
		{"negative size", -512, 4, nil, true},
		{"below min size", 32, 4, nil, true},
		{"not a power of two", 1000, 4, nil, true},
		{"invalid overlap", 512, 3, nil, true},
		{"hann overlap 2 does not reconstruct", 512, 2, nil, true},
		{"blackman overlap 4 does not reconstruct", 512, 4, []Option{WithWindowType(window.TypeBlackman)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.fftSize, tt.overlap, tt.opts...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(%d, %d) error = %v, wantErr %v", tt.fftSize, tt.overlap, err, tt.wantErr)
			}
		})
	}
}

func TestGeometry(t *testing.T) {
	p, err := New(2048, 4)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if got := p.FFTSize(); got != 2048 {
		t.Errorf("FFTSize() = %d, want 2048", got)
	}

	if got := p.HopSize(); got != 512 {
		t.Errorf("HopSize() = %d, want 512", got)
	}

	if got := p.Overlap(); got != 4 {
		t.Errorf("Overlap() = %d, want 4", got)
	}

	if got := p.Latency(); got != 1536 {
		t.Errorf("Latency() = %d, want 1536", got)
	}

	if got := p.BinCount(); got != 1025 {
		t.Errorf("BinCount() = %d, want 1025", got)
	}

	if got := p.WindowType(); got != window.TypeHann {
		t.Errorf("WindowType() = %v, want %v", got, window.TypeHann)
	}
}

func TestIdentityReconstruction(t *testing.T) {
	const (
		fftSize = 512
		overlap = 4
	)

	p, err := New(fftSize, overlap)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	latency := p.Latency()
	input := testutil.DeterministicSine(440, 44100, 0.8, 8192+latency)
	output := processChunks(t, p, input, 160, identity)

	testutil.RequireFinite(t, output)

	// After the warm-up the stream must be the input delayed by the engine
	// latency, to within FFT round-trip precision.
	testutil.RequireSliceNearlyEqual(t, output[latency:], input[:len(input)-latency], 1e-10)
}

func TestIdentityReconstructionAllWindows(t *testing.T) {
	tests := []struct {
		name    string
		typ     window.Type
		overlap int
	}{
		{"hann 4x", window.TypeHann, 4},
		{"hann 8x", window.TypeHann, 8},
		{"hamming 4x", window.TypeHamming, 4},
		{"blackman 8x", window.TypeBlackman, 8},
		{"blackman-harris 8x", window.TypeBlackmanHarris, 8},
		{"rectangular 2x", window.TypeRectangular, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(256, tt.overlap, WithWindowType(tt.typ))
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}

			latency := p.Latency()
			input := testutil.DeterministicNoise(42, 0.5, 4096+latency)
			output := processChunks(t, p, input, 311, identity)

			testutil.RequireSliceNearlyEqual(t, output[latency:], input[:len(input)-latency], 1e-10)
		})
	}
}

func TestLatencyImpulse(t *testing.T) {
	p, err := New(512, 4)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	const pos = 700

	latency := p.Latency()
	input := testutil.Impulse(4096, pos)
	output := processChunks(t, p, input, 256, identity)

	peak := 0
	for i, v := range output {
		if v > output[peak] {
			peak = i
		}
	}

	if want := pos + latency; peak != want {
		t.Errorf("impulse peak at %d, want %d", peak, want)
	}
}

func TestBlockSizeInvariance(t *testing.T) {
	input := testutil.DeterministicNoise(7, 1.0, 5000)

	ref, err := New(256, 4)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	want := processChunks(t, ref, input, len(input), identity)

	for _, block := range []int{1, 7, 160, 511, 1024} {
		p, err := New(256, 4)
		if err != nil {
			t.Fatalf("New() error: %v", err)
		}

		got := processChunks(t, p, input, block, identity)

		diff, err := testutil.MaxAbsDiff(got, want)
		if err != nil {
			t.Fatalf("MaxAbsDiff() error: %v", err)
		}

		if diff != 0 {
			t.Errorf("block size %d: output deviates from single-call reference by %g", block, diff)
		}
	}
}

func TestCallbackSeesPackedSpectrum(t *testing.T) {
	p, err := New(512, 4)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	frames := 0
	input := testutil.DeterministicSine(1000, 44100, 0.5, 4096)

	processChunks(t, p, input, 512, func(packed []float64) error {
		frames++

		if len(packed) != 512 {
			t.Errorf("packed length = %d, want 512", len(packed))
		}

		return nil
	})

	// The input FIFO starts one hop short of full, so a fresh stream fires
	// its first frame after hopSize samples and every hopSize thereafter.
	if wantFrames := len(input) / p.HopSize(); frames != wantFrames {
		t.Errorf("callback ran %d times, want %d", frames, wantFrames)
	}
}

func TestZeroedSpectrumYieldsSilence(t *testing.T) {
	p, err := New(512, 4)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	input := testutil.DeterministicSine(440, 44100, 1.0, 8192)

	output := processChunks(t, p, input, 256, func(packed []float64) error {
		for i := range packed {
			packed[i] = 0
		}

		return nil
	})

	for i, v := range output {
		if v != 0 {
			t.Fatalf("output[%d] = %g, want exact silence", i, v)
		}
	}
}

func TestSpectrumScalingScalesOutput(t *testing.T) {
	p, err := New(512, 4)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	const gain = 0.5

	latency := p.Latency()
	input := testutil.DeterministicSine(440, 44100, 0.8, 8192+latency)

	output := processChunks(t, p, input, 256, func(packed []float64) error {
		for i := range packed {
			packed[i] *= gain
		}

		return nil
	})

	want := make([]float64, len(input)-latency)
	for i := range want {
		want[i] = gain * input[i]
	}

	testutil.RequireSliceNearlyEqual(t, output[latency:], want, 1e-10)
}

func TestToneLandsInExpectedBin(t *testing.T) {
	const (
		fftSize = 512
		bin     = 8
	)

	p, err := New(fftSize, 4)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	// A sine with exactly bin cycles per frame concentrates in that bin.
	input := testutil.DeterministicSine(bin, fftSize, 1.0, 8192)

	lastArgmax := -1

	processChunks(t, p, input, 512, func(packed []float64) error {
		best := 0
		bestPower := 0.0

		for k := range spectrum.Bins(fftSize) {
			pw := spectrum.BinPower(packed, k)
			if pw > bestPower {
				bestPower = pw
				best = k
			}
		}

		lastArgmax = best

		return nil
	})

	if lastArgmax != bin {
		t.Errorf("dominant bin = %d, want %d", lastArgmax, bin)
	}
}

func TestProcessArgumentErrors(t *testing.T) {
	p, err := New(512, 4)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	buf := make([]float64, 64)

	tests := []struct {
		name string
		dst  []float64
		src  []float64
		fn   SpectrumFunc
		want error
	}{
		{"nil callback", buf, make([]float64, 64), nil, ErrNilCallback},
		{"nil dst", nil, make([]float64, 64), identity, ErrNilBuffer},
		{"nil src", buf, nil, identity, ErrNilBuffer},
		{"empty input", []float64{}, []float64{}, identity, ErrEmptyInput},
		{"length mismatch", buf, make([]float64, 32), identity, ErrLengthMismatch},
		{"aliased buffers", buf, buf, identity, ErrAliasedBuffers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Process(tt.dst, tt.src, tt.fn)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Process() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCallbackErrorPropagates(t *testing.T) {
	p, err := New(256, 4)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	sentinel := errors.New("bad frame")
	input := testutil.Ones(1024)
	output := make([]float64, len(input))

	err = p.Process(output, input, func(packed []float64) error {
		return sentinel
	})

	if !errors.Is(err, sentinel) {
		t.Fatalf("Process() error = %v, want wrapped %v", err, sentinel)
	}
}

func TestResetRestartsStream(t *testing.T) {
	p, err := New(256, 4)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	input := testutil.DeterministicNoise(3, 0.7, 3000)
	first := processChunks(t, p, input, 100, identity)

	p.Reset()

	second := processChunks(t, p, input, 100, identity)

	diff, err := testutil.MaxAbsDiff(first, second)
	if err != nil {
		t.Fatalf("MaxAbsDiff() error: %v", err)
	}

	if diff != 0 {
		t.Errorf("stream after Reset deviates by %g, want identical", diff)
	}
}
