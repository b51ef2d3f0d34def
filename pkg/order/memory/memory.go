// Package memory implements an in-memory order repository.
package memory

import (
	"context"
	"sort"
	"sync"

	"cartflow/pkg/order"
)

// Repository provides an in-memory implementation of order.Repository.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]order.Order
}

// New creates a new in-memory repository.
func New() *Repository {
	return &Repository{orders: make(map[string]order.Order)}
}

// Create stores the order.
func (r *Repository) Create(ctx context.Context, o order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = o
	return nil
}

// Get retrieves an order by ID.
func (r *Repository) Get(ctx context.Context, id string) (order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return order.Order{}, order.ErrNotFound
	}
	return o, nil
}

// ListByUser returns the user's orders, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]order.Order, 0)
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
