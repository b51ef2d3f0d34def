// Package cart implements the storefront shopping cart: an ordered list
// of line items scoped to a user identity, with pluggable persistence.
package cart

import (
	"context"
	"errors"
	"math"
)

// Product is the catalog tuple AddItem accepts. The price is a snapshot
// taken at add time and never re-fetched.
type Product struct {
	ID    int     `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// LineItem is one product entry in the cart. ID is unique within a
// cart; adding the same product again increments Quantity instead.
type LineItem struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}

// Storage persists a user's cart between sessions. Implementations are
// keyed by user identity; the Store never calls them with an empty
// userID.
type Storage interface {
	Load(ctx context.Context, userID string) ([]LineItem, error)
	Save(ctx context.Context, userID string, items []LineItem) error
	Delete(ctx context.Context, userID string) error
}

// ErrNoCart indicates no cart is saved for the given user.
var ErrNoCart = errors.New("cart not found")

// LineTotal returns price times quantity, rounded to cents.
func LineTotal(it LineItem) float64 {
	return round2(it.Price * float64(it.Quantity))
}

// Total sums line totals over all items, rounded to cents.
func Total(items []LineItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Price * float64(it.Quantity)
	}
	return round2(sum)
}

// BadgeCount is the total unit count across all items. Distinct from
// len(items), which counts distinct products.
func BadgeCount(items []LineItem) int {
	var n int
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
