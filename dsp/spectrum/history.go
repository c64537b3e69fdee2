package spectrum

import "fmt"

// History keeps the most recent spectral frames in a fixed-depth ring.
//
// Rows are copied on push, so callers may reuse their frame buffers. The ring
// backing store is one contiguous allocation made at construction.
type History struct {
	depth int
	bins  int
	data  []float64
	head  int
	count int
}

// NewHistory creates a spectral history holding up to depth rows of the given
// bin count.
func NewHistory(depth, bins int) (*History, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("spectrum: history depth must be > 0: %d", depth)
	}

	if bins <= 0 {
		return nil, fmt.Errorf("spectrum: history bins must be > 0: %d", bins)
	}

	return &History{
		depth: depth,
		bins:  bins,
		data:  make([]float64, depth*bins),
	}, nil
}

// Depth returns the maximum number of retained rows.
func (h *History) Depth() int { return h.depth }

// Bins returns the row width.
func (h *History) Bins() int { return h.bins }

// Len returns the number of rows currently held, at most Depth().
func (h *History) Len() int { return h.count }

// Push copies row into the ring, evicting the oldest row once full.
func (h *History) Push(row []float64) error {
	if len(row) != h.bins {
		return fmt.Errorf("spectrum: history row length must be %d: %d", h.bins, len(row))
	}

	copy(h.data[h.head*h.bins:(h.head+1)*h.bins], row)

	h.head = (h.head + 1) % h.depth
	if h.count < h.depth {
		h.count++
	}

	return nil
}

// Column gathers the trailing values of one bin, oldest first, into dst.
// dst must have room for Len() values; the filled prefix is returned.
func (h *History) Column(bin int, dst []float64) ([]float64, error) {
	if bin < 0 || bin >= h.bins {
		return nil, fmt.Errorf("spectrum: history bin out of range [0, %d): %d", h.bins, bin)
	}

	if len(dst) < h.count {
		return nil, fmt.Errorf("spectrum: history column needs %d values: %d", h.count, len(dst))
	}

	start := h.head - h.count
	if start < 0 {
		start += h.depth
	}

	for i := range h.count {
		row := (start + i) % h.depth
		dst[i] = h.data[row*h.bins+bin]
	}

	return dst[:h.count], nil
}

// Reset discards all held rows.
func (h *History) Reset() {
	h.head = 0
	h.count = 0
}
