package denoise

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-denoise/internal/testutil"
)

func newAdaptiveDenoiser(t *testing.T, p Parameters) *AdaptiveDenoiser {
	t.Helper()

	a, err := NewAdaptive(testRate)
	if err != nil {
		t.Fatalf("NewAdaptive() error: %v", err)
	}

	err = a.LoadParameters(p)
	if err != nil {
		t.Fatalf("LoadParameters() error: %v", err)
	}

	return a
}

func adaptiveChunks(t *testing.T, a *AdaptiveDenoiser, input []float64, block int) []float64 {
	t.Helper()

	out := make([]float64, len(input))

	for start := 0; start < len(input); start += block {
		end := min(start+block, len(input))

		err := a.Process(out[start:end], input[start:end])
		if err != nil {
			t.Fatalf("Process() error: %v", err)
		}
	}

	return out
}

func TestNewAdaptiveGeometry(t *testing.T) {
	a, err := NewAdaptive(testRate)
	if err != nil {
		t.Fatalf("NewAdaptive() error: %v", err)
	}

	// 20 ms at 44.1 kHz rounds up to a 1024-sample frame.
	if got := a.FrameSize(); got != 1024 {
		t.Errorf("FrameSize() = %d, want 1024", got)
	}

	if got := a.HopSize(); got != 256 {
		t.Errorf("HopSize() = %d, want 256", got)
	}

	if got := a.Latency(); got != 768 {
		t.Errorf("Latency() = %d, want 768", got)
	}

	if got := a.SampleRate(); got != testRate {
		t.Errorf("SampleRate() = %g, want %g", got, testRate)
	}

	// An explicit frame duration overrides the adaptive default.
	long, err := NewAdaptive(testRate, WithFrameDuration(46))
	if err != nil {
		t.Fatalf("NewAdaptive() error: %v", err)
	}

	if got := long.FrameSize(); got != 2048 {
		t.Errorf("FrameSize() with 46 ms = %d, want 2048", got)
	}
}

func TestNewAdaptiveValidation(t *testing.T) {
	if _, err := NewAdaptive(0); err == nil {
		t.Error("NewAdaptive(0): expected error")
	}
}

func TestAdaptiveForcesTrackedReduction(t *testing.T) {
	p := DefaultParameters()
	p.LearnNoise = LearnAverage
	p.NoiseReductionMode = ReductionManual

	a := newAdaptiveDenoiser(t, p)

	got := a.Parameters()

	if got.LearnNoise != LearnOff {
		t.Errorf("LearnNoise = %v, want LearnOff", got.LearnNoise)
	}

	if got.NoiseReductionMode != ReductionAdaptive {
		t.Errorf("NoiseReductionMode = %v, want ReductionAdaptive", got.NoiseReductionMode)
	}
}

func TestAdaptiveReducesStationaryNoise(t *testing.T) {
	for _, method := range []EstimationMethod{EstimationSPP, EstimationMinStat} {
		t.Run(method.String(), func(t *testing.T) {
			p := DefaultParameters()
			p.NoiseEstimationMethod = method

			a := newAdaptiveDenoiser(t, p)

			// Three seconds of stationary noise: enough for either
			// tracker to lock onto the level.
			input := testutil.DeterministicNoise(31, 0.05, 131072)
			out := adaptiveChunks(t, a, input, 512)

			const tail = 16384

			latency := a.Latency()
			inTail := input[len(input)-tail-latency : len(input)-latency]
			outTail := out[len(out)-tail:]

			if got, limit := rms(outTail), 0.8*rms(inTail); got >= limit {
				t.Errorf("tail RMS = %g, want below %g", got, limit)
			}
		})
	}
}

func TestAdaptiveNoiseEstimateIsOwnedCopy(t *testing.T) {
	a := newAdaptiveDenoiser(t, DefaultParameters())

	input := testutil.DeterministicNoise(37, 0.05, 16384)
	adaptiveChunks(t, a, input, 512)

	est := a.NoiseEstimate()

	if len(est) != a.FrameSize()/2+1 {
		t.Fatalf("NoiseEstimate() length = %d, want %d", len(est), a.FrameSize()/2+1)
	}

	peak := 0.0
	for _, v := range est {
		peak = max(peak, v)
	}

	if peak <= 0 {
		t.Fatal("NoiseEstimate() all zero after processing noise")
	}

	for i := range est {
		est[i] = -1
	}

	again := a.NoiseEstimate()
	for i, v := range again {
		if v == -1 {
			t.Fatalf("NoiseEstimate()[%d] shares memory with a previous snapshot", i)
		}
	}
}

func TestAdaptiveZeroValueErrors(t *testing.T) {
	var zero AdaptiveDenoiser

	buf := make([]float64, 16)

	if err := zero.Process(buf, buf); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Process() on zero value: got %v, want ErrNotInitialized", err)
	}

	if err := zero.LoadParameters(DefaultParameters()); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("LoadParameters() on zero value: got %v, want ErrNotInitialized", err)
	}

	if err := (*AdaptiveDenoiser)(nil).Process(buf, buf); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Process() on nil: got %v, want ErrNotInitialized", err)
	}
}

func TestAdaptiveResetRestartsStream(t *testing.T) {
	a := newAdaptiveDenoiser(t, DefaultParameters())

	input := testutil.DeterministicNoise(41, 0.05, 8192)

	first := adaptiveChunks(t, a, input, 512)

	a.Reset()

	second := adaptiveChunks(t, a, input, 512)

	diff, err := testutil.MaxAbsDiff(second, first)
	if err != nil {
		t.Fatalf("MaxAbsDiff() error: %v", err)
	}

	if diff != 0 {
		t.Errorf("restarted stream diverged by %g", diff)
	}
}
