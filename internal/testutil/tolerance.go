package testutil

import (
	"fmt"
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t unless got and want have the same length
// and every element pair is within eps (absolute).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len(got) = %d, len(want) = %d", len(got), len(want))
	}
	for i := range got {
		if diff := math.Abs(got[i] - want[i]); diff > eps {
			t.Fatalf("[%d]: got %v, want %v (|diff| %g exceeds %g)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t if data contains a NaN or an infinity.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("non-finite value %v at index %d", v, i)
		}
	}
}

// MaxAbsDiff returns the largest elementwise absolute difference between a
// and b, or an error when the lengths differ.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("slice lengths differ: %d vs %d", len(a), len(b))
	}
	peak := 0.0
	for i := range a {
		peak = max(peak, math.Abs(a[i]-b[i]))
	}
	return peak, nil
}
