package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"cartflow/pkg/cart"
)

// Storage persists carts in PostgreSQL, one row per user with the item
// list as JSONB.
type Storage struct {
	db *sql.DB
}

// New creates a PostgreSQL storage. The caller must ensure the carts
// table exists:
// CREATE TABLE IF NOT EXISTS carts (user_id TEXT PRIMARY KEY, items JSONB NOT NULL)
func New(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// Load returns the saved cart for userID, or cart.ErrNoCart.
func (s *Storage) Load(ctx context.Context, userID string) ([]cart.LineItem, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, "SELECT items FROM carts WHERE user_id=$1", userID).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, cart.ErrNoCart
	}
	if err != nil {
		return nil, fmt.Errorf("select cart: %w", err)
	}
	var items []cart.LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode saved cart: %w", err)
	}
	return items, nil
}

// Save upserts the user's row.
func (s *Storage) Save(ctx context.Context, userID string, items []cart.LineItem) error {
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO carts (user_id, items) VALUES ($1,$2) ON CONFLICT (user_id) DO UPDATE SET items = EXCLUDED.items",
		userID, b)
	if err != nil {
		return fmt.Errorf("upsert cart: %w", err)
	}
	return nil
}

// Delete removes the user's row. Deleting an absent row is a no-op.
func (s *Storage) Delete(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM carts WHERE user_id=$1", userID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
