package masking

import (
	"testing"

	"github.com/cwbudde/algo-denoise/internal/testutil"
)

func BenchmarkModelUpdate(b *testing.B) {
	m, err := NewModel(44100, 2048)
	if err != nil {
		b.Fatalf("NewModel() error: %v", err)
	}

	noise := testutil.DeterministicNoise(5, 1.0, m.Bands().Bins())
	power := make([]float64, len(noise))

	for i, v := range noise {
		power[i] = v * v
	}

	b.ResetTimer()

	for b.Loop() {
		err := m.Update(power)
		if err != nil {
			b.Fatalf("Update() error: %v", err)
		}
	}
}
