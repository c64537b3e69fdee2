package spectrum

import "testing"

func TestHistoryPushAndColumn(t *testing.T) {
	h, err := NewHistory(3, 2)
	if err != nil {
		t.Fatalf("NewHistory() error: %v", err)
	}

	if h.Depth() != 3 || h.Bins() != 2 || h.Len() != 0 {
		t.Fatalf("unexpected geometry: depth=%d bins=%d len=%d", h.Depth(), h.Bins(), h.Len())
	}

	for i := range 2 {
		v := float64(i + 1)
		if err := h.Push([]float64{v, 10 * v}); err != nil {
			t.Fatalf("Push() error: %v", err)
		}
	}

	if h.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", h.Len())
	}

	dst := make([]float64, 3)

	col, err := h.Column(1, dst)
	if err != nil {
		t.Fatalf("Column() error: %v", err)
	}

	if len(col) != 2 || col[0] != 10 || col[1] != 20 {
		t.Fatalf("column = %v, want [10 20]", col)
	}
}

func TestHistoryEvictsOldest(t *testing.T) {
	h, _ := NewHistory(3, 1)

	for i := range 5 {
		_ = h.Push([]float64{float64(i)})
	}

	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}

	dst := make([]float64, 3)
	col, _ := h.Column(0, dst)

	want := []float64{2, 3, 4}
	for i := range want {
		if col[i] != want[i] {
			t.Fatalf("column = %v, want %v", col, want)
		}
	}
}

func TestHistoryCopiesRows(t *testing.T) {
	h, _ := NewHistory(2, 2)
	row := []float64{1, 2}
	_ = h.Push(row)

	row[0] = 99

	dst := make([]float64, 2)
	col, _ := h.Column(0, dst)

	if col[0] != 1 {
		t.Fatalf("history must copy rows, got %v", col[0])
	}
}

func TestHistoryErrors(t *testing.T) {
	if _, err := NewHistory(0, 4); err == nil {
		t.Fatal("expected error for zero depth")
	}

	if _, err := NewHistory(4, 0); err == nil {
		t.Fatal("expected error for zero bins")
	}

	h, _ := NewHistory(2, 2)
	if err := h.Push([]float64{1}); err == nil {
		t.Fatal("expected error for short row")
	}

	_ = h.Push([]float64{1, 2})
	if _, err := h.Column(2, make([]float64, 2)); err == nil {
		t.Fatal("expected error for bin out of range")
	}

	if _, err := h.Column(0, nil); err == nil {
		t.Fatal("expected error for short destination")
	}
}

func TestHistoryReset(t *testing.T) {
	h, _ := NewHistory(2, 1)
	_ = h.Push([]float64{1})
	h.Reset()

	if h.Len() != 0 {
		t.Fatalf("Len() after Reset = %d, want 0", h.Len())
	}
}
