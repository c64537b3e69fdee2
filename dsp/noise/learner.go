package noise

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-denoise/dsp/spectrum"
)

const (
	// historyDepth bounds the trailing frames kept for the median profile.
	historyDepth = 32

	// minMedianFrames is the number of captured frames required before a
	// median profile is considered formed.
	minMedianFrames = 5
)

// Learner accumulates manually captured noise profiles.
//
// While learning is enabled the caller feeds every frame's power spectrum to
// Accumulate; the learner maintains a running average, a per-bin maximum and
// a trailing-window median in parallel, each with its own block count.
// Learning never terminates on its own.
type Learner struct {
	bins int

	profiles [modeCount]*Profile

	// Average state
	sum       []float64
	sumBlocks int

	// Median state
	history *spectrum.History
	column  []float64
	sorted  []float64
}

// NewLearner creates a manual-profile learner for the given number of bins.
func NewLearner(bins int) (*Learner, error) {
	if bins < 1 {
		return nil, fmt.Errorf("noise: bin count must be >= 1, got %d", bins)
	}

	history, err := spectrum.NewHistory(historyDepth, bins)
	if err != nil {
		return nil, err
	}

	l := &Learner{
		bins:    bins,
		sum:     make([]float64, bins),
		history: history,
		column:  make([]float64, historyDepth),
		sorted:  make([]float64, historyDepth),
	}

	for m := range l.profiles {
		l.profiles[m], err = NewProfile(bins)
		if err != nil {
			return nil, err
		}
	}

	return l, nil
}

// Bins returns the number of spectrum bins.
func (l *Learner) Bins() int {
	return l.bins
}

// Accumulate folds one frame's power spectrum into all three profiles.
// Values must be non-negative linear power.
func (l *Learner) Accumulate(power []float64) error {
	if len(power) != l.bins {
		return fmt.Errorf("noise: power has %d values, want %d", len(power), l.bins)
	}

	l.sumBlocks++

	avg := l.profiles[ModeAverage]
	for i, v := range power {
		l.sum[i] += v
		avg.power[i] = l.sum[i] / float64(l.sumBlocks)
	}

	avg.blocks = l.sumBlocks

	maxp := l.profiles[ModeMaximum]
	for i, v := range power {
		if v > maxp.power[i] {
			maxp.power[i] = v
		}
	}

	maxp.blocks++

	err := l.history.Push(power)
	if err != nil {
		return err
	}

	if l.history.Len() >= minMedianFrames {
		err = l.updateMedian()
		if err != nil {
			return err
		}
	}

	return nil
}

// updateMedian recomputes the median profile over the trailing history.
func (l *Learner) updateMedian() error {
	med := l.profiles[ModeMedian]

	for bin := range l.bins {
		col, err := l.history.Column(bin, l.column)
		if err != nil {
			return err
		}

		s := l.sorted[:len(col)]
		copy(s, col)
		sort.Float64s(s)

		med.power[bin] = stat.Quantile(0.5, stat.Empirical, s, nil)
	}

	med.blocks = l.history.Len()

	return nil
}

// Profile returns the learned profile for the given mode, or nil for an
// unknown mode.
func (l *Learner) Profile(mode Mode) *Profile {
	if mode < 0 || int(mode) >= modeCount {
		return nil
	}

	return l.profiles[mode]
}

// Load replaces one mode's profile with external values, re-seeding that
// mode's accumulator state so later learning continues from the loaded
// profile.
func (l *Learner) Load(mode Mode, power []float64, blocks int) error {
	p := l.Profile(mode)
	if p == nil {
		return fmt.Errorf("noise: unknown profile mode %d", int(mode))
	}

	err := p.Load(power, blocks)
	if err != nil {
		return err
	}

	switch mode {
	case ModeAverage:
		l.sumBlocks = p.blocks
		for i, v := range p.power {
			l.sum[i] = v * float64(max(p.blocks, 1))
		}
	case ModeMedian:
		l.history.Reset()

		err = l.history.Push(p.power)
		if err != nil {
			return err
		}
	case ModeMaximum:
		// The loaded values are the new running maximum.
	}

	return nil
}

// Reset clears all three profiles and their accumulator state.
func (l *Learner) Reset() {
	for _, p := range l.profiles {
		p.Reset()
	}

	for i := range l.sum {
		l.sum[i] = 0
	}

	l.sumBlocks = 0
	l.history.Reset()
}
