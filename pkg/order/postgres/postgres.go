package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"cartflow/pkg/order"
)

// Repository persists orders in PostgreSQL with the item snapshot as
// JSONB.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository. The caller must ensure the
// orders table exists:
// CREATE TABLE IF NOT EXISTS orders (id TEXT PRIMARY KEY, user_id TEXT NOT NULL,
//     items JSONB NOT NULL, total DOUBLE PRECISION NOT NULL, status TEXT NOT NULL,
//     created_at TIMESTAMPTZ NOT NULL)
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new order.
func (r *Repository) Create(ctx context.Context, o order.Order) error {
	b, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO orders (id,user_id,items,total,status,created_at) VALUES ($1,$2,$3,$4,$5,$6)",
		o.ID, o.UserID, b, o.Total, o.Status, o.CreatedAt)
	return err
}

// Get retrieves an order by ID.
func (r *Repository) Get(ctx context.Context, id string) (order.Order, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id,user_id,items,total,status,created_at FROM orders WHERE id=$1", id)
	o, err := scanOrder(row.Scan)
	if err == sql.ErrNoRows {
		return order.Order{}, order.ErrNotFound
	}
	return o, err
}

// ListByUser returns the user's orders, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id,user_id,items,total,status,created_at FROM orders WHERE user_id=$1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orders []order.Order
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func scanOrder(scan func(...any) error) (order.Order, error) {
	var o order.Order
	var raw []byte
	if err := scan(&o.ID, &o.UserID, &raw, &o.Total, &o.Status, &o.CreatedAt); err != nil {
		return order.Order{}, err
	}
	if err := json.Unmarshal(raw, &o.Items); err != nil {
		return order.Order{}, fmt.Errorf("decode items: %w", err)
	}
	return o, nil
}
