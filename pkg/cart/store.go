package cart

import (
	"context"
	"errors"
	"sync"

	"cartflow/pkg/logger"
)

// Store holds the in-memory cart for the active user. In-memory state
// is the source of truth for the session; Storage is a bootstrap cache
// for the next one, written best-effort after every mutation. A failed
// write never rolls back the in-memory transition.
//
// Stores are plain values wired up by the caller, so tests can run any
// number of them side by side.
type Store struct {
	mu      sync.Mutex
	items   []LineItem
	userID  string
	storage Storage
	log     *logger.Logger
}

// NewStore returns an empty Store with no user identity. Call SetUser
// to scope it to a user and load that user's saved cart.
func NewStore(storage Storage, log *logger.Logger) *Store {
	return &Store{storage: storage, log: log}
}

// AddItem appends the product as a new line item with quantity 1, or
// increments the quantity of an existing line item with the same id.
func (s *Store) AddItem(ctx context.Context, p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == p.ID {
			s.items[i].Quantity++
			s.persist(ctx)
			return
		}
	}
	s.items = append(s.items, LineItem{ID: p.ID, Title: p.Title, Price: p.Price, Image: p.Image, Quantity: 1})
	s.persist(ctx)
}

// RemoveItem drops the line item with the given id. Removing an absent
// id is a no-op.
func (s *Store) RemoveItem(ctx context.Context, id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persist(ctx)
			return
		}
	}
}

// UpdateQuantity sets the quantity of the line item with the given id.
// Quantities below 1 are ignored, as is an absent id.
func (s *Store) UpdateQuantity(ctx context.Context, id, quantity int) {
	if quantity < 1 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = quantity
			s.persist(ctx)
			return
		}
	}
}

// Reorder replaces the item list wholesale with the caller-supplied
// ordering. The caller is trusted to pass a permutation of the current
// items; used for drag-and-drop reordering.
func (s *Store) Reorder(ctx context.Context, items []LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]LineItem(nil), items...)
	s.persist(ctx)
}

// Clear empties the cart and deletes the persisted entry, so no stale
// record remains for the user.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	if s.userID == "" {
		return
	}
	if err := s.storage.Delete(ctx, s.userID); err != nil {
		s.log.Error(ctx, "delete saved cart", "user", s.userID, "error", err)
	}
}

// SetUser switches the active identity and replaces the items with
// whatever is saved for that user. The outgoing user's cart is simply
// discarded: every prior mutation already persisted it, so switching
// back restores it. An empty userID clears the in-memory items and
// leaves saved carts untouched.
func (s *Store) SetUser(ctx context.Context, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
	if userID == "" {
		s.items = nil
		return
	}
	items, err := s.storage.Load(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrNoCart) {
			s.log.Warn(ctx, "load saved cart", "user", userID, "error", err)
		}
		s.items = nil
		return
	}
	s.items = items
}

// Items returns a copy of the current line items in order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]LineItem(nil), s.items...)
}

// UserID returns the active identity, empty when none.
func (s *Store) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// persist writes the current items under the active user's entry. Must
// be called with the lock held. Failures are logged and swallowed: the
// in-memory state stays authoritative for the session.
func (s *Store) persist(ctx context.Context) {
	if s.userID == "" {
		return
	}
	if err := s.storage.Save(ctx, s.userID, s.items); err != nil {
		s.log.Error(ctx, "save cart", "user", s.userID, "error", err)
	}
}
