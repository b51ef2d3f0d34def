package memory

import (
	"context"
	"testing"
	"time"

	"cartflow/pkg/order"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := New()
	o := order.Order{
		ID:        "1",
		UserID:    "alice",
		Items:     []order.Item{{ProductID: 7, Title: "Widget", Price: 9.99, Quantity: 2}},
		Total:     19.98,
		Status:    order.StatusPlaced,
		CreatedAt: time.Now(),
	}
	if err := repo.Create(ctx, o); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repo.Get(ctx, "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Total != 19.98 || len(got.Items) != 1 {
		t.Fatalf("unexpected order: %+v", got)
	}
	if _, err := repo.Get(ctx, "2"); err != order.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListByUserNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := New()
	base := time.Now()
	for i, id := range []string{"a", "b", "c"} {
		o := order.Order{ID: id, UserID: "alice", Status: order.StatusPlaced, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := repo.Create(ctx, o); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	if err := repo.Create(ctx, order.Order{ID: "x", UserID: "bob", CreatedAt: base}); err != nil {
		t.Fatalf("create x: %v", err)
	}

	list, err := repo.ListByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(list))
	}
	if list[0].ID != "c" || list[2].ID != "a" {
		t.Fatalf("expected newest first, got %s..%s", list[0].ID, list[2].ID)
	}
}
