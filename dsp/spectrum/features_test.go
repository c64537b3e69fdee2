package spectrum

import (
	"math"
	"testing"
)

func TestNewFeaturesValidation(t *testing.T) {
	if _, err := NewFeatures(0); err == nil {
		t.Fatal("expected error for zero fft size")
	}

	if _, err := NewFeatures(7); err == nil {
		t.Fatal("expected error for odd fft size")
	}

	f, err := NewFeatures(8)
	if err != nil {
		t.Fatalf("NewFeatures() error: %v", err)
	}

	if f.BinCount() != 5 || f.FFTSize() != 8 {
		t.Fatalf("unexpected geometry: bins=%d fftSize=%d", f.BinCount(), f.FFTSize())
	}
}

func TestFeaturesExtract(t *testing.T) {
	f, err := NewFeatures(8)
	if err != nil {
		t.Fatalf("NewFeatures() error: %v", err)
	}

	packed := makePacked()
	if err := f.Extract(packed); err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	wantPower := []float64{4, 2, 4, 25, 1}
	for k := range wantPower {
		if f.Power()[k] != wantPower[k] {
			t.Fatalf("power[%d] = %v, want %v", k, f.Power()[k], wantPower[k])
		}

		if math.Abs(f.Magnitude()[k]-math.Sqrt(wantPower[k])) > 1e-15 {
			t.Fatalf("magnitude[%d] = %v", k, f.Magnitude()[k])
		}
	}

	// bin1=(1,1) -> pi/4, bin2=(0,-2) -> -pi/2
	if math.Abs(f.Phase()[1]-math.Pi/4) > 1e-15 {
		t.Fatalf("phase[1] = %v, want pi/4", f.Phase()[1])
	}

	if math.Abs(f.Phase()[2]+math.Pi/2) > 1e-15 {
		t.Fatalf("phase[2] = %v, want -pi/2", f.Phase()[2])
	}
}

func TestFeaturesExtractReusesSlices(t *testing.T) {
	f, _ := NewFeatures(8)
	packed := makePacked()

	_ = f.Extract(packed)
	first := f.Power()

	_ = f.Extract(packed)
	second := f.Power()

	if &first[0] != &second[0] {
		t.Fatal("Extract must reuse the owned power slice")
	}
}

func TestFeaturesExtractWrongLength(t *testing.T) {
	f, _ := NewFeatures(8)

	if err := f.Extract(make([]float64, 16)); err == nil {
		t.Fatal("expected error for mismatched packed length")
	}
}
