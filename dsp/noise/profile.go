package noise

import "fmt"

// Mode selects one of the manually learned noise profiles.
type Mode int

const (
	ModeAverage Mode = iota
	ModeMedian
	ModeMaximum

	modeCount = 3
)

// String returns the profile mode name.
func (m Mode) String() string {
	switch m {
	case ModeAverage:
		return "average"
	case ModeMedian:
		return "median"
	case ModeMaximum:
		return "maximum"
	default:
		return "unknown"
	}
}

// Profile is a per-bin noise power estimate plus the number of frames that
// contributed to it. Values are linear power and never negative.
type Profile struct {
	power  []float64
	blocks int
}

// NewProfile creates an empty profile for the given number of spectrum bins.
func NewProfile(bins int) (*Profile, error) {
	if bins < 1 {
		return nil, fmt.Errorf("noise: bin count must be >= 1, got %d", bins)
	}

	return &Profile{power: make([]float64, bins)}, nil
}

// Bins returns the number of spectrum bins.
func (p *Profile) Bins() int {
	return len(p.power)
}

// Blocks returns the number of frames accumulated into the profile.
func (p *Profile) Blocks() int {
	return p.blocks
}

// Available reports whether at least one frame has contributed.
func (p *Profile) Available() bool {
	return p.blocks >= 1
}

// Power returns the per-bin noise power. The slice is owned by the profile
// and valid until the next mutation; use [Profile.Snapshot] for a copy.
func (p *Profile) Power() []float64 {
	return p.power
}

// Snapshot returns an owned copy of the per-bin noise power.
func (p *Profile) Snapshot() []float64 {
	out := make([]float64, len(p.power))
	copy(out, p.power)

	return out
}

// Load replaces the profile with externally supplied values. The length must
// match the profile's bin count; negative values are clamped to zero and a
// negative block count to zero.
func (p *Profile) Load(power []float64, blocks int) error {
	if len(power) != len(p.power) {
		return fmt.Errorf("noise: profile has %d values, want %d", len(power), len(p.power))
	}

	for i, v := range power {
		if v < 0 {
			v = 0
		}

		p.power[i] = v
	}

	if blocks < 0 {
		blocks = 0
	}

	p.blocks = blocks

	return nil
}

// Reset clears the profile to zero power and zero blocks.
func (p *Profile) Reset() {
	for i := range p.power {
		p.power[i] = 0
	}

	p.blocks = 0
}
