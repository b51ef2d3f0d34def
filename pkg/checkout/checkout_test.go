package checkout

import (
	"context"
	"errors"
	"io"
	"testing"

	"cartflow/pkg/cart"
	cartmem "cartflow/pkg/cart/memory"
	"cartflow/pkg/logger"
	"cartflow/pkg/order"
	ordermem "cartflow/pkg/order/memory"
)

func testLogger() *logger.Logger {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func validShipping() ShippingDetails {
	return ShippingDetails{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Address1:   "1 Analytical Way",
		City:       "London",
		PostalCode: "N1",
		Country:    "UK",
		Email:      "ada@example.com",
	}
}

func validPayment() PaymentDetails {
	return PaymentDetails{CardName: "Ada Lovelace", CardNumber: "4242424242424242", ExpDate: "12/30", CVV: "123"}
}

func TestPlaceOrder(t *testing.T) {
	ctx := context.Background()
	storage := cartmem.New()
	orders := ordermem.New()
	svc := NewService(orders, testLogger())

	st := cart.NewStore(storage, testLogger())
	st.SetUser(ctx, "alice")
	st.AddItem(ctx, cart.Product{ID: 1, Title: "Widget", Price: 9.99})
	st.AddItem(ctx, cart.Product{ID: 1, Title: "Widget", Price: 9.99})
	st.AddItem(ctx, cart.Product{ID: 2, Title: "Gadget", Price: 5.50})

	o, err := svc.PlaceOrder(ctx, st, validShipping(), validPayment())
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if o.Total != 25.48 {
		t.Fatalf("expected total 25.48, got %v", o.Total)
	}
	if o.Status != order.StatusPlaced || o.UserID != "alice" || len(o.Items) != 2 {
		t.Fatalf("unexpected order: %+v", o)
	}

	got, err := orders.Get(ctx, o.ID)
	if err != nil {
		t.Fatalf("order not persisted: %v", err)
	}
	if got.Items[0].Quantity != 2 {
		t.Fatalf("item snapshot wrong: %+v", got.Items)
	}

	if len(st.Items()) != 0 {
		t.Fatalf("cart not cleared after checkout")
	}
	if _, err := storage.Load(ctx, "alice"); err != cart.ErrNoCart {
		t.Fatalf("saved cart not deleted after checkout: %v", err)
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	ctx := context.Background()
	svc := NewService(ordermem.New(), testLogger())

	st := cart.NewStore(cartmem.New(), testLogger())
	st.SetUser(ctx, "alice")

	if _, err := svc.PlaceOrder(ctx, st, validShipping(), validPayment()); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestPlaceOrderNoUser(t *testing.T) {
	ctx := context.Background()
	svc := NewService(ordermem.New(), testLogger())

	st := cart.NewStore(cartmem.New(), testLogger())
	st.AddItem(ctx, cart.Product{ID: 1, Price: 1})

	if _, err := svc.PlaceOrder(ctx, st, validShipping(), validPayment()); !errors.Is(err, ErrNoUser) {
		t.Fatalf("expected ErrNoUser, got %v", err)
	}
}

func TestPlaceOrderMissingFields(t *testing.T) {
	ctx := context.Background()
	svc := NewService(ordermem.New(), testLogger())

	st := cart.NewStore(cartmem.New(), testLogger())
	st.SetUser(ctx, "alice")
	st.AddItem(ctx, cart.Product{ID: 1, Price: 1})

	ship := validShipping()
	ship.City = ""
	if _, err := svc.PlaceOrder(ctx, st, ship, validPayment()); !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField for shipping, got %v", err)
	}

	pay := validPayment()
	pay.CVV = ""
	if _, err := svc.PlaceOrder(ctx, st, validShipping(), pay); !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField for payment, got %v", err)
	}

	if len(st.Items()) != 1 {
		t.Fatalf("cart cleared despite failed checkout")
	}
}
