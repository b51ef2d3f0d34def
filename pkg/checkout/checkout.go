// Package checkout turns the current cart into a placed order: it
// validates the buyer's details, snapshots the items and total, stores
// the order and clears the cart.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cartflow/pkg/cart"
	"cartflow/pkg/logger"
	"cartflow/pkg/order"
)

// ShippingDetails is the delivery address collected during checkout.
type ShippingDetails struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Address1   string `json:"address1"`
	Address2   string `json:"address2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
}

// PaymentDetails is the card input collected during checkout. It is
// validated for presence only and never stored.
type PaymentDetails struct {
	CardName   string `json:"cardName"`
	CardNumber string `json:"cardNumber"`
	ExpDate    string `json:"expDate"`
	CVV        string `json:"cvv"`
}

// Validation and state errors returned by PlaceOrder.
var (
	ErrEmptyCart    = errors.New("cart is empty")
	ErrNoUser       = errors.New("no user identity")
	ErrMissingField = errors.New("missing required field")
)

// Service places orders.
type Service struct {
	orders order.Repository
	log    *logger.Logger
}

// NewService creates a checkout service backed by the given repository.
func NewService(orders order.Repository, log *logger.Logger) *Service {
	return &Service{orders: orders, log: log}
}

// PlaceOrder snapshots the cart into an order, persists it and clears
// the cart. The cart must belong to a known user and be non-empty.
func (s *Service) PlaceOrder(ctx context.Context, st *cart.Store, ship ShippingDetails, pay PaymentDetails) (order.Order, error) {
	userID := st.UserID()
	if userID == "" {
		return order.Order{}, ErrNoUser
	}
	items := st.Items()
	if len(items) == 0 {
		return order.Order{}, ErrEmptyCart
	}
	if err := ship.validate(); err != nil {
		return order.Order{}, err
	}
	if err := pay.validate(); err != nil {
		return order.Order{}, err
	}

	o := order.Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		Total:     cart.Total(items),
		Status:    order.StatusPlaced,
		CreatedAt: time.Now().UTC(),
	}
	for _, it := range items {
		o.Items = append(o.Items, order.Item{ProductID: it.ID, Title: it.Title, Price: it.Price, Quantity: it.Quantity})
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return order.Order{}, fmt.Errorf("create order: %w", err)
	}
	st.Clear(ctx)
	s.log.Info(ctx, "order placed", "order", o.ID, "user", o.UserID, "total", o.Total)
	return o, nil
}

func (d ShippingDetails) validate() error {
	required := map[string]string{
		"firstName":  d.FirstName,
		"lastName":   d.LastName,
		"address1":   d.Address1,
		"city":       d.City,
		"postalCode": d.PostalCode,
		"country":    d.Country,
		"email":      d.Email,
	}
	return checkRequired(required)
}

func (d PaymentDetails) validate() error {
	required := map[string]string{
		"cardName":   d.CardName,
		"cardNumber": d.CardNumber,
		"expDate":    d.ExpDate,
		"cvv":        d.CVV,
	}
	return checkRequired(required)
}

func checkRequired(fields map[string]string) error {
	for name, v := range fields {
		if v == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, name)
		}
	}
	return nil
}
