package window

import "testing"

func BenchmarkGenerateHann(b *testing.B) {
	for b.Loop() {
		_ = Generate(TypeHann, 2048, WithPeriodic())
	}
}

func BenchmarkApplyCoefficientsInPlace(b *testing.B) {
	coeffs := Generate(TypeHann, 2048, WithPeriodic())
	buf := make([]float64, 2048)
	for i := range buf {
		buf[i] = 1
	}

	b.ResetTimer()

	for b.Loop() {
		_ = ApplyCoefficientsInPlace(buf, coeffs)
	}
}
