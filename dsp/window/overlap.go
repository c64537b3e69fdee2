package window

import "math"

// OverlapGain returns the overlap-add normalization constant for an
// analysis/synthesis window pair at the given hop size.
//
// When a frame is analyzed with the analysis window, resynthesized with the
// synthesis window, and frames are overlap-added every hop samples, an
// otherwise unmodified signal is scaled by sum(wa[i]*ws[i]) / hop. Dividing
// the overlap-add output by this constant restores unity gain, provided the
// window product satisfies the constant-overlap-add property (see
// [ColaError]).
func OverlapGain(analysis, synthesis []float64, hop int) (float64, error) {
	if len(analysis) != len(synthesis) {
		return 0, errMismatchedLength
	}

	err := validateOverlap(len(analysis), hop)
	if err != nil {
		return 0, err
	}

	sum := 0.0
	for i := range analysis {
		sum += analysis[i] * synthesis[i]
	}

	if sum <= 0 {
		return 0, errZeroCoherentGain
	}

	return sum / float64(hop), nil
}

// ColaError returns the worst-case relative deviation of the overlap-added
// window product from a constant.
//
// A value near zero means the pair reconstructs without amplitude modulation
// at the given hop. Periodic Hann analysis and synthesis windows at 75%
// overlap deviate only at numerical noise level.
func ColaError(analysis, synthesis []float64, hop int) (float64, error) {
	if len(analysis) != len(synthesis) {
		return 0, errMismatchedLength
	}

	err := validateOverlap(len(analysis), hop)
	if err != nil {
		return 0, err
	}

	shifts := len(analysis) / hop
	sums := make([]float64, hop)
	mean := 0.0

	for j := range hop {
		s := 0.0
		for m := range shifts {
			idx := j + m*hop
			s += analysis[idx] * synthesis[idx]
		}

		sums[j] = s
		mean += s
	}

	mean /= float64(hop)
	if mean == 0 {
		return 0, errZeroCoherentGain
	}

	worst := 0.0

	for _, s := range sums {
		d := math.Abs(s-mean) / mean
		if d > worst {
			worst = d
		}
	}

	return worst, nil
}
