package cart

import (
	"math"
	"testing"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func productA() Product {
	return Product{ID: "a", Title: "Lamp", Price: floatPtr(100), Stock: intPtr(5), Thumbnail: "a.png"}
}

func TestAddItemNewLineGoesToFront(t *testing.T) {
	t.Parallel()

	s := AddItem(Empty(), productA(), 2)
	s = AddItem(s, Product{ID: "b", Price: floatPtr(50), Stock: intPtr(10)}, 1)

	lines := s.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].ID != "b" || lines[1].ID != "a" {
		t.Fatalf("unexpected order: %+v", lines)
	}
	if lines[0].Title != DefaultTitle {
		t.Fatalf("expected default title, got %q", lines[0].Title)
	}
	if lines[1].Quantity != 2 || lines[1].Stock != 5 || lines[1].Thumbnail != "a.png" {
		t.Fatalf("unexpected line: %+v", lines[1])
	}
}

func TestAddItemClampsToStock(t *testing.T) {
	t.Parallel()

	s := AddItem(Empty(), productA(), 10)
	if line, _ := s.Line("a"); line.Quantity != 5 {
		t.Fatalf("expected quantity capped at 5, got %d", line.Quantity)
	}

	s = AddItem(Empty(), productA(), 0)
	if line, _ := s.Line("a"); line.Quantity != 1 {
		t.Fatalf("expected quantity floored at 1, got %d", line.Quantity)
	}

	s = AddItem(Empty(), productA(), -3)
	if line, _ := s.Line("a"); line.Quantity != 1 {
		t.Fatalf("expected negative quantity floored at 1, got %d", line.Quantity)
	}
}

func TestAddItemDefaultsStockAndThumbnail(t *testing.T) {
	t.Parallel()

	s := AddItem(Empty(), Product{ID: "x", Images: []string{"first.png", "second.png"}}, 500)
	line, ok := s.Line("x")
	if !ok {
		t.Fatal("expected line x")
	}
	if line.Stock != DefaultStock || line.Quantity != DefaultStock {
		t.Fatalf("expected default stock cap, got %+v", line)
	}
	if line.Thumbnail != "first.png" {
		t.Fatalf("expected first image as thumbnail, got %q", line.Thumbnail)
	}
	if line.Price != 0 {
		t.Fatalf("expected zero price, got %v", line.Price)
	}

	s = AddItem(Empty(), Product{ID: "y", Stock: intPtr(0)}, 3)
	if line, _ := s.Line("y"); line.Stock != DefaultStock {
		t.Fatalf("expected non-positive stock to default, got %d", line.Stock)
	}
}

func TestAddItemMergeKeepsPosition(t *testing.T) {
	t.Parallel()

	s := AddItem(Empty(), productA(), 1)
	s = AddItem(s, Product{ID: "b", Stock: intPtr(3)}, 1)
	s = AddItem(s, productA(), 2)

	lines := s.Lines()
	if lines[1].ID != "a" || lines[1].Quantity != 3 {
		t.Fatalf("expected merged line to stay second with quantity 3, got %+v", lines)
	}

	s = AddItem(s, productA(), 10)
	if line, _ := s.Line("a"); line.Quantity != 5 {
		t.Fatalf("expected merged quantity capped at 5, got %d", line.Quantity)
	}
}

func TestAddItemMergeRefreshesStock(t *testing.T) {
	t.Parallel()

	s := AddItem(Empty(), productA(), 5)
	lower := productA()
	lower.Stock = intPtr(2)
	s = AddItem(s, lower, 1)

	line, _ := s.Line("a")
	if line.Stock != 2 || line.Quantity != 2 {
		t.Fatalf("expected stock refresh to re-cap quantity, got %+v", line)
	}
}

func TestAddItemNoopReturnsSameSnapshot(t *testing.T) {
	t.Parallel()

	s := AddItem(Empty(), productA(), 5)
	if next := AddItem(s, productA(), 1); next != s {
		t.Fatal("expected adding beyond stock to be a no-op")
	}
	if next := AddItem(s, Product{ID: "  "}, 1); next != s {
		t.Fatal("expected product without id to be skipped")
	}
}

func TestRemoveItem(t *testing.T) {
	t.Parallel()

	s := AddItem(Empty(), productA(), 1)
	s = AddItem(s, Product{ID: "b"}, 1)

	if next := RemoveItem(s, "missing"); next != s {
		t.Fatal("expected removing an unknown id to be a no-op")
	}

	s = RemoveItem(s, "a")
	if s.Len() != 1 {
		t.Fatalf("expected 1 line, got %d", s.Len())
	}
	if _, ok := s.Line("a"); ok {
		t.Fatal("expected line a to be gone")
	}

	s = RemoveItem(s, "b")
	if s != Empty() {
		t.Fatal("expected removing the last line to yield the empty snapshot")
	}
}

func TestAddThenRemoveRestoresContents(t *testing.T) {
	t.Parallel()

	before := AddItem(Empty(), Product{ID: "b"}, 1)
	after := RemoveItem(AddItem(before, productA(), 2), "a")

	if len(after.Lines()) != len(before.Lines()) || after.Lines()[0] != before.Lines()[0] {
		t.Fatalf("expected %+v, got %+v", before.Lines(), after.Lines())
	}
}

func TestUpdateQuantity(t *testing.T) {
	t.Parallel()

	s := AddItem(Empty(), productA(), 2)

	if next := UpdateQuantity(s, "missing", 3); next != s {
		t.Fatal("expected unknown id to be a no-op")
	}
	if next := UpdateQuantity(s, "a", 2); next != s {
		t.Fatal("expected same quantity to be a no-op")
	}

	cases := []struct {
		qty  int
		want int
	}{
		{qty: 4, want: 4},
		{qty: 50, want: 5},
		{qty: 0, want: 1},
		{qty: -7, want: 1},
	}
	for _, tc := range cases {
		next := UpdateQuantity(s, "a", tc.qty)
		line, _ := next.Line("a")
		if line.Quantity != tc.want {
			t.Fatalf("qty %d: expected %d, got %d", tc.qty, tc.want, line.Quantity)
		}
	}

	if line, _ := s.Line("a"); line.Quantity != 2 {
		t.Fatalf("expected input snapshot untouched, got %d", line.Quantity)
	}
}

func TestClear(t *testing.T) {
	t.Parallel()

	empty := Empty()
	if Clear(empty) != empty {
		t.Fatal("expected clearing an empty cart to be a no-op")
	}

	s := AddItem(Empty(), productA(), 1)
	cleared := Clear(s)
	if cleared.Len() != 0 {
		t.Fatalf("expected empty cart, got %d lines", cleared.Len())
	}
	if Clear(cleared) != cleared {
		t.Fatal("expected second clear to be a no-op")
	}
}

func TestNewSnapshotKeepsFirstDuplicate(t *testing.T) {
	t.Parallel()

	s := NewSnapshot([]Line{
		{ID: "a", Quantity: 1},
		{ID: "b", Quantity: 1},
		{ID: "a", Quantity: 9},
	})
	if s.Len() != 2 {
		t.Fatalf("expected 2 lines, got %d", s.Len())
	}
	if line, _ := s.Line("a"); line.Quantity != 1 {
		t.Fatalf("expected first occurrence to win, got %+v", line)
	}

	lines := s.Lines()
	lines[0].Quantity = 42
	if line, _ := s.Line("a"); line.Quantity != 1 {
		t.Fatal("expected Lines to return a copy")
	}
}

func TestAddItemRepeatedBeyondStockStaysAtStock(t *testing.T) {
	t.Parallel()

	p := Product{ID: "1", Stock: intPtr(5)}
	s := AddItem(AddItem(Empty(), p, 10), p, 10)
	if line, _ := s.Line("1"); line.Quantity != 5 || s.Len() != 1 {
		t.Fatalf("expected a single line at stock 5, got %+v", s.Lines())
	}
}

func TestAddItemMergesRepeatedAdds(t *testing.T) {
	t.Parallel()

	p := Product{ID: "A"}
	s := AddItem(AddItem(Empty(), p, 2), p, 3)
	if s.Len() != 1 {
		t.Fatalf("expected one line, got %d", s.Len())
	}
	if line, _ := s.Line("A"); line.Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", line.Quantity)
	}
	if totals := ComputeTotals(RemoveItem(s, "A")); totals != (Totals{}) {
		t.Fatalf("expected zero totals after removal, got %+v", totals)
	}
}

func TestAddItemHugeQuantitySaturatesAtStock(t *testing.T) {
	t.Parallel()

	p := Product{ID: "a"}
	s := AddItem(AddItem(Empty(), p, 50), p, math.MaxInt)
	if line, _ := s.Line("a"); line.Quantity != DefaultStock {
		t.Fatalf("expected quantity %d, got %d", DefaultStock, line.Quantity)
	}

	s = AddItem(s, p, math.MinInt)
	if line, _ := s.Line("a"); line.Quantity != 1 {
		t.Fatalf("expected quantity floor 1, got %d", line.Quantity)
	}
}

func TestAddItemStockChangeWithoutQuantityChangeIsNoop(t *testing.T) {
	t.Parallel()

	s := AddItem(Empty(), productA(), 5)
	higher := productA()
	higher.Stock = intPtr(8)

	if next := AddItem(s, higher, 0); next != s {
		t.Fatal("expected unchanged quantity to keep the same snapshot")
	}

	next := AddItem(s, higher, 1)
	line, _ := next.Line("a")
	if line.Quantity != 6 || line.Stock != 8 {
		t.Fatalf("expected quantity 6 under refreshed stock 8, got %+v", line)
	}
}
