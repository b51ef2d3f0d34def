// Package memory implements in-memory cart storage, used in tests and
// as the default backend.
package memory

import (
	"context"
	"sync"

	"cartflow/pkg/cart"
)

// Storage keeps each user's saved cart in a map. Items are copied on
// the way in and out so callers cannot alias the stored slices.
type Storage struct {
	mu    sync.RWMutex
	carts map[string][]cart.LineItem
}

// New creates an empty in-memory storage.
func New() *Storage {
	return &Storage{carts: make(map[string][]cart.LineItem)}
}

// Load returns the saved cart for userID, or cart.ErrNoCart.
func (s *Storage) Load(ctx context.Context, userID string) ([]cart.LineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items, ok := s.carts[userID]
	if !ok {
		return nil, cart.ErrNoCart
	}
	return append([]cart.LineItem(nil), items...), nil
}

// Save stores a copy of items under userID.
func (s *Storage) Save(ctx context.Context, userID string, items []cart.LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[userID] = append([]cart.LineItem(nil), items...)
	return nil
}

// Delete removes the saved cart for userID. Deleting an absent entry
// is a no-op.
func (s *Storage) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return nil
}
