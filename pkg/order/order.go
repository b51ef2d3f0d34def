package order

import (
	"context"
	"errors"
	"time"
)

// Order is the checkout snapshot of a cart: the line items and total as
// they were when the order was placed.
type Order struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Items     []Item    `json:"items"`
	Total     float64   `json:"total"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Item is one ordered product at its add-time price.
type Item struct {
	ProductID int     `json:"productId"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// StatusPlaced is the status of a freshly placed order.
const StatusPlaced = "placed"

// Repository defines behavior for persisting orders.
type Repository interface {
	Create(ctx context.Context, o Order) error
	Get(ctx context.Context, id string) (Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
}

// ErrNotFound indicates the requested order does not exist.
var ErrNotFound = errors.New("order not found")
