package noise

import (
	"fmt"
	"math"
)

const (
	// sppPriorSmoothing is the decision-directed weight on the previous
	// a-priori SNR, per Ephraim & Malah (1984).
	sppPriorSmoothing = 0.98

	// sppXiOpt is the minimum a-priori SNR of active speech assumed by
	// the presence model (10^1.5 = 15 dB), per Gerkmann & Hendriks
	// (2012); the tracked decision-directed SNR takes over when higher.
	sppXiOpt = 31.622776601683793

	// sppNoiseSmoothing is the one-pole coefficient on the gated noise
	// update.
	sppNoiseSmoothing = 0.8

	// sppMeanSmoothing tracks the long-term presence probability per bin.
	sppMeanSmoothing = 0.9

	// sppStuckMean is the long-term presence level above which the
	// probability is capped, preventing the estimator from permanently
	// locking onto a sustained tone as "speech".
	sppStuckMean = 0.99
)

// SPPTracker estimates noise power via a per-bin speech presence
// probability, per Gerkmann & Hendriks (2012). Noise updates are scaled by
// the probability of speech absence, so the estimate freezes while speech is
// detected and adapts quickly in speech pauses.
type SPPTracker struct {
	bins int

	noise    []float64
	prior    []float64 // decision-directed a-priori SNR
	longTerm []float64 // smoothed presence probability
	primed   bool
}

// NewSPPTracker creates a speech-presence-probability tracker.
func NewSPPTracker(bins int) (*SPPTracker, error) {
	if bins < 1 {
		return nil, fmt.Errorf("noise: bin count must be >= 1, got %d", bins)
	}

	return &SPPTracker{
		bins:     bins,
		noise:    make([]float64, bins),
		prior:    make([]float64, bins),
		longTerm: make([]float64, bins),
	}, nil
}

// Update folds one frame's power spectrum into the tracker. The first frame
// after construction or Reset seeds the noise estimate directly.
func (t *SPPTracker) Update(power []float64) error {
	if len(power) != t.bins {
		return fmt.Errorf("noise: power has %d values, want %d", len(power), t.bins)
	}

	if !t.primed {
		for i, v := range power {
			if v < powerEpsilon {
				v = powerEpsilon
			}

			t.noise[i] = v
		}

		t.primed = true

		return nil
	}

	for i, v := range power {
		gamma := v / t.noise[i]

		xi := sppPriorSmoothing * t.prior[i]
		if gamma > 1 {
			xi += (1 - sppPriorSmoothing) * (gamma - 1)
		}

		t.prior[i] = xi

		// Speech-model SNR for the likelihood ratio, per Sohn et al.
		// (1999), floored at the fixed optimum so weak priors cannot
		// blunt the detector.
		xiH1 := xi
		if xiH1 < sppXiOpt {
			xiH1 = sppXiOpt
		}

		p := 1 / (1 + (1+xiH1)*math.Exp(-gamma*xiH1/(1+xiH1)))

		t.longTerm[i] = sppMeanSmoothing*t.longTerm[i] + (1-sppMeanSmoothing)*p
		if t.longTerm[i] > sppStuckMean && p > sppStuckMean {
			p = sppStuckMean
		}

		gated := (1-p)*v + p*t.noise[i]

		n := sppNoiseSmoothing*t.noise[i] + (1-sppNoiseSmoothing)*gated
		if n < powerEpsilon {
			n = powerEpsilon
		}

		t.noise[i] = n
	}

	return nil
}

// Estimate returns the per-bin noise power estimate. The slice is owned by
// the tracker and valid until the next Update.
func (t *SPPTracker) Estimate() []float64 {
	return t.noise
}

// Reset restores the tracker to its initial state; the next Update re-seeds
// the estimate.
func (t *SPPTracker) Reset() {
	for i := range t.bins {
		t.noise[i] = 0
		t.prior[i] = 0
		t.longTerm[i] = 0
	}

	t.primed = false
}
