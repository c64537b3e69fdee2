package noise

import (
	"fmt"
	"math"
)

const (
	// minstatSmoothing is the one-pole coefficient applied to incoming
	// power before minimum tracking.
	minstatSmoothing = 0.85

	// minstatSubwindows splits the analysis window so the minimum can
	// slide without storing every frame.
	minstatSubwindows = 8

	// minstatWindowSeconds is the approximate span of the sliding minimum.
	minstatWindowSeconds = 1.5

	// minstatBias compensates the systematic underestimation of a minimum
	// tracker, per Martin (2001).
	minstatBias = 1.5

	// maxRiseFactor bounds the per-frame growth of the published estimate
	// so a transient cannot jerk the noise floor upward.
	maxRiseFactor = 4.0

	// powerEpsilon floors all tracked power values.
	powerEpsilon = 1e-15
)

// Tracker is a continuously running adaptive noise estimator. Update must be
// called once per frame with the frame's non-negative power spectrum;
// Estimate exposes the current noise power per bin.
type Tracker interface {
	Update(power []float64) error
	Estimate() []float64
	Reset()
}

// MinStatTracker estimates noise power by tracking the sliding minimum of
// the smoothed power spectrum over roughly 1.5 seconds, per Martin (2001)
// with a fixed bias compensation. It reacts slowly and never underestimates
// stationary noise.
type MinStatTracker struct {
	bins         int
	framesPerSub int

	smoothed   []float64
	subMinima  [][]float64 // ring of completed subwindow minima
	subCount   int         // completed subwindows, saturates at minstatSubwindows
	subHead    int         // next ring slot to overwrite
	currentMin []float64   // minimum of the subwindow in progress
	frameCount int
	estimate   []float64
}

// NewMinStatTracker creates a minimum-statistics tracker. sampleRate and
// hopSize determine how many frames span the sliding window.
func NewMinStatTracker(bins int, sampleRate float64, hopSize int) (*MinStatTracker, error) {
	if bins < 1 {
		return nil, fmt.Errorf("noise: bin count must be >= 1, got %d", bins)
	}

	if sampleRate <= 0 {
		return nil, fmt.Errorf("noise: sample rate must be positive, got %g", sampleRate)
	}

	if hopSize < 1 {
		return nil, fmt.Errorf("noise: hop size must be >= 1, got %d", hopSize)
	}

	framesPerWindow := minstatWindowSeconds * sampleRate / float64(hopSize)
	framesPerSub := int(math.Ceil(framesPerWindow / minstatSubwindows))

	if framesPerSub < 1 {
		framesPerSub = 1
	}

	t := &MinStatTracker{
		bins:         bins,
		framesPerSub: framesPerSub,
		smoothed:     make([]float64, bins),
		subMinima:    make([][]float64, minstatSubwindows),
		currentMin:   make([]float64, bins),
		estimate:     make([]float64, bins),
	}

	for i := range t.subMinima {
		t.subMinima[i] = make([]float64, bins)
	}

	t.Reset()

	return t, nil
}

// Update folds one frame's power spectrum into the tracker.
func (t *MinStatTracker) Update(power []float64) error {
	if len(power) != t.bins {
		return fmt.Errorf("noise: power has %d values, want %d", len(power), t.bins)
	}

	for i, v := range power {
		if v < powerEpsilon {
			v = powerEpsilon
		}

		s := minstatSmoothing*t.smoothed[i] + (1-minstatSmoothing)*v
		t.smoothed[i] = s

		if s < t.currentMin[i] {
			t.currentMin[i] = s
		}
	}

	t.frameCount++
	if t.frameCount >= t.framesPerSub {
		t.rotate()
	}

	for i := range t.estimate {
		m := t.currentMin[i]
		for s := range t.subCount {
			if v := t.subMinima[s][i]; v < m {
				m = v
			}
		}

		raw := minstatBias * m

		limit := t.estimate[i] * maxRiseFactor
		if raw > limit {
			raw = limit
		}

		if raw < powerEpsilon {
			raw = powerEpsilon
		}

		t.estimate[i] = raw
	}

	return nil
}

// rotate finalizes the current subwindow and starts the next one.
func (t *MinStatTracker) rotate() {
	copy(t.subMinima[t.subHead], t.currentMin)
	t.subHead = (t.subHead + 1) % minstatSubwindows

	if t.subCount < minstatSubwindows {
		t.subCount++
	}

	for i := range t.currentMin {
		t.currentMin[i] = math.Inf(1)
	}

	t.frameCount = 0
}

// Estimate returns the per-bin noise power estimate. The slice is owned by
// the tracker and valid until the next Update.
func (t *MinStatTracker) Estimate() []float64 {
	return t.estimate
}

// Reset restores the tracker to its initial state.
func (t *MinStatTracker) Reset() {
	for i := range t.bins {
		t.smoothed[i] = 0
		t.currentMin[i] = math.Inf(1)
		t.estimate[i] = powerEpsilon
	}

	for _, sub := range t.subMinima {
		for i := range sub {
			sub[i] = 0
		}
	}

	t.subCount = 0
	t.subHead = 0
	t.frameCount = 0
}
