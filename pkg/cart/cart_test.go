package cart

import "testing"

func TestLineTotal(t *testing.T) {
	it := LineItem{ID: 1, Price: 9.99, Quantity: 2}
	if got := LineTotal(it); got != 19.98 {
		t.Fatalf("expected 19.98, got %v", got)
	}
}

func TestLineTotalRoundsToCents(t *testing.T) {
	it := LineItem{ID: 1, Price: 0.1, Quantity: 3}
	if got := LineTotal(it); got != 0.3 {
		t.Fatalf("expected 0.3, got %v", got)
	}
}

func TestTotal(t *testing.T) {
	items := []LineItem{
		{ID: 1, Price: 9.99, Quantity: 2},
		{ID: 2, Price: 5.50, Quantity: 1},
	}
	if got := Total(items); got != 25.48 {
		t.Fatalf("expected 25.48, got %v", got)
	}
	if got := Total(nil); got != 0 {
		t.Fatalf("expected 0 for empty cart, got %v", got)
	}
}

func TestBadgeCountCountsUnitsNotProducts(t *testing.T) {
	items := []LineItem{
		{ID: 1, Quantity: 3},
		{ID: 2, Quantity: 1},
	}
	if got := BadgeCount(items); got != 4 {
		t.Fatalf("expected 4 units, got %d", got)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 distinct products, got %d", len(items))
	}
}
