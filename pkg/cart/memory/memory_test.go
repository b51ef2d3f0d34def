package memory

import (
	"context"
	"testing"

	"cartflow/pkg/cart"
)

func TestStorage(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.Load(ctx, "alice"); err != cart.ErrNoCart {
		t.Fatalf("expected ErrNoCart, got %v", err)
	}

	items := []cart.LineItem{{ID: 1, Title: "Widget", Price: 9.99, Quantity: 2}}
	if err := s.Save(ctx, "alice", items); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].Quantity != 2 {
		t.Fatalf("unexpected items: %+v", got)
	}

	if err := s.Delete(ctx, "alice"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Load(ctx, "alice"); err != cart.ErrNoCart {
		t.Fatalf("expected ErrNoCart after delete, got %v", err)
	}
	if err := s.Delete(ctx, "alice"); err != nil {
		t.Fatalf("delete absent entry: %v", err)
	}
}

func TestStorageCopiesItems(t *testing.T) {
	ctx := context.Background()
	s := New()

	items := []cart.LineItem{{ID: 1, Quantity: 1}}
	if err := s.Save(ctx, "alice", items); err != nil {
		t.Fatalf("save: %v", err)
	}
	items[0].Quantity = 99

	got, err := s.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got[0].Quantity != 1 {
		t.Fatalf("stored items aliased by caller slice: %+v", got)
	}
	got[0].Quantity = 42

	again, _ := s.Load(ctx, "alice")
	if again[0].Quantity != 1 {
		t.Fatalf("stored items aliased by loaded slice: %+v", again)
	}
}
