package testutil

import "testing"

func TestMaxAbsDiff(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{1, 2.5, 2.75}

	d, err := MaxAbsDiff(a, b)
	if err != nil {
		t.Fatalf("MaxAbsDiff() error: %v", err)
	}
	if d != 0.5 {
		t.Errorf("MaxAbsDiff(a, b) = %v, want 0.5", d)
	}

	// Symmetric in its arguments.
	if rev, _ := MaxAbsDiff(b, a); rev != d {
		t.Errorf("MaxAbsDiff(b, a) = %v, want %v", rev, d)
	}

	if self, _ := MaxAbsDiff(a, a); self != 0 {
		t.Errorf("MaxAbsDiff(a, a) = %v, want 0", self)
	}

	if empty, err := MaxAbsDiff(nil, nil); err != nil || empty != 0 {
		t.Errorf("MaxAbsDiff(nil, nil) = %v, %v; want 0, nil", empty, err)
	}
}

func TestMaxAbsDiffLengthMismatch(t *testing.T) {
	if _, err := MaxAbsDiff([]float64{1}, []float64{1, 2}); err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
}

func TestRequirementsAcceptValidData(t *testing.T) {
	got := []float64{1.0, 2.0 + 1e-10, -3.0}
	want := []float64{1.0, 2.0, -3.0 - 1e-10}

	RequireSliceNearlyEqual(t, got, want, 1e-9)
	RequireFinite(t, got)
}
