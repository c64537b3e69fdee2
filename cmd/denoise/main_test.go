package main

import (
	"math"
	"testing"
)

// fakeDelay is a pure delay line implementing streamProcessor.
type fakeDelay struct {
	latency int
	pending []float64
	blocks  []int
}

func newFakeDelay(latency int) *fakeDelay {
	return &fakeDelay{
		latency: latency,
		pending: make([]float64, latency),
	}
}

func (f *fakeDelay) Process(dst, src []float64) error {
	f.pending = append(f.pending, src...)
	n := copy(dst, f.pending[:len(dst)])
	f.pending = f.pending[n:]
	f.blocks = append(f.blocks, len(src))

	return nil
}

func (f *fakeDelay) Latency() int {
	return f.latency
}

func TestStreamFileCompensatesLatency(t *testing.T) {
	samples := make([]float64, 10000)
	for i := range samples {
		samples[i] = float64(i)
	}

	p := newFakeDelay(1536)

	out, err := streamFile(p, samples, 0, nil)
	if err != nil {
		t.Fatalf("streamFile() error: %v", err)
	}

	if len(out) != len(samples) {
		t.Fatalf("output length = %d, want %d", len(out), len(samples))
	}

	for i := range out {
		if out[i] != samples[i] {
			t.Fatalf("out[%d] = %g, want %g", i, out[i], samples[i])
		}
	}
}

func TestStreamFileSwitchesAtExactBoundary(t *testing.T) {
	samples := make([]float64, 10000)

	p := newFakeDelay(128)

	fired := 0
	processedAtSwitch := -1

	const switchAt = 5000

	_, err := streamFile(p, samples, switchAt, func() error {
		fired++

		total := 0
		for _, n := range p.blocks {
			total += n
		}

		processedAtSwitch = total

		return nil
	})
	if err != nil {
		t.Fatalf("streamFile() error: %v", err)
	}

	if fired != 1 {
		t.Fatalf("switch fired %d times, want 1", fired)
	}

	if processedAtSwitch != switchAt {
		t.Errorf("switch fired after %d samples, want %d", processedAtSwitch, switchAt)
	}
}

func TestStreamFileShortInput(t *testing.T) {
	samples := []float64{1, 2, 3}

	p := newFakeDelay(4096)

	out, err := streamFile(p, samples, 0, nil)
	if err != nil {
		t.Fatalf("streamFile() error: %v", err)
	}

	if len(out) != len(samples) {
		t.Fatalf("output length = %d, want %d", len(out), len(samples))
	}

	for i := range out {
		if math.Abs(out[i]-samples[i]) != 0 {
			t.Fatalf("out[%d] = %g, want %g", i, out[i], samples[i])
		}
	}
}
