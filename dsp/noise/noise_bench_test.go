package noise

import (
	"testing"

	"github.com/cwbudde/algo-denoise/internal/testutil"
)

const benchBins = 1025

func benchPower() []float64 {
	raw := testutil.DeterministicNoise(9, 0.1, benchBins)
	power := make([]float64, benchBins)

	for i, v := range raw {
		power[i] = v * v
	}

	return power
}

func BenchmarkLearnerAccumulate(b *testing.B) {
	l, err := NewLearner(benchBins)
	if err != nil {
		b.Fatalf("NewLearner() error: %v", err)
	}

	power := benchPower()

	b.ResetTimer()

	for b.Loop() {
		err := l.Accumulate(power)
		if err != nil {
			b.Fatalf("Accumulate() error: %v", err)
		}
	}
}

func BenchmarkMinStatUpdate(b *testing.B) {
	tr, err := NewMinStatTracker(benchBins, 44100, 512)
	if err != nil {
		b.Fatalf("NewMinStatTracker() error: %v", err)
	}

	power := benchPower()

	b.ResetTimer()

	for b.Loop() {
		err := tr.Update(power)
		if err != nil {
			b.Fatalf("Update() error: %v", err)
		}
	}
}

func BenchmarkSPPUpdate(b *testing.B) {
	tr, err := NewSPPTracker(benchBins)
	if err != nil {
		b.Fatalf("NewSPPTracker() error: %v", err)
	}

	power := benchPower()

	b.ResetTimer()

	for b.Loop() {
		err := tr.Update(power)
		if err != nil {
			b.Fatalf("Update() error: %v", err)
		}
	}
}
