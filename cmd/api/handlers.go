package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"cartflow/pkg/cart"
	"cartflow/pkg/catalog"
	"cartflow/pkg/checkout"
	"cartflow/pkg/otel"
)

type ctxKey string

const userKey ctxKey = "user"

// loginRequest represents login credentials.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// cartResponse is the cart view returned by every cart endpoint.
type cartResponse struct {
	Items []cart.LineItem `json:"items"`
	Total float64         `json:"total"`
	Count int             `json:"count"`
}

// checkoutRequest carries the checkout wizard's collected input.
type checkoutRequest struct {
	Shipping checkout.ShippingDetails `json:"shipping"`
	Payment  checkout.PaymentDetails  `json:"payment"`
}

// loginHandler handles user login and session creation.
// @Summary Login
// @Description Authenticates user and sets session cookie
// @Accept json
// @Produce json
// @Param creds body loginRequest true "Credentials"
// @Success 200
// @Router /login [post]
func loginHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "loginHandler")
	defer span.End()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		http.Error(w, "invalid credentials", http.StatusBadRequest)
		return
	}
	sid := uuid.NewString()
	if err := redisClient.Set(ctx, "session:"+sid, req.Username, time.Hour).Err(); err != nil {
		log.Error(ctx, "create session", "error", err)
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "session_id", Value: sid, Path: "/", Expires: time.Now().Add(time.Hour), HttpOnly: true})
	w.WriteHeader(http.StatusOK)
}

// logoutHandler destroys the session. The user's saved cart stays
// persisted and is restored on the next login.
// @Summary Logout
// @Success 200
// @Router /logout [post]
func logoutHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "logoutHandler")
	defer span.End()

	if c, err := r.Cookie("session_id"); err == nil {
		if err := redisClient.Del(ctx, "session:"+c.Value).Err(); err != nil {
			log.Error(ctx, "delete session", "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{Name: "session_id", Value: "", Path: "/", Expires: time.Unix(0, 0), HttpOnly: true})
	w.WriteHeader(http.StatusOK)
}

// authMiddleware ensures a valid session exists.
func authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("session_id")
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		user, err := redisClient.Get(r.Context(), "session:"+c.Value).Result()
		if err != nil || user == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFrom(ctx context.Context) string {
	user, _ := ctx.Value(userKey).(string)
	return user
}

// cartForRequest bootstraps the caller's cart from storage. Every
// mutation persists, so a fresh Store per request sees the latest
// state; concurrent requests for one user race last-write-wins.
func cartForRequest(ctx context.Context) *cart.Store {
	st := cart.NewStore(storage, log)
	st.SetUser(ctx, userFrom(ctx))
	return st
}

func writeCart(w http.ResponseWriter, status int, st *cart.Store) {
	items := st.Items()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(cartResponse{Items: items, Total: cart.Total(items), Count: cart.BadgeCount(items)})
}

// getCartHandler returns the caller's cart with totals.
// @Summary Get cart
// @Produce json
// @Success 200 {object} cartResponse
// @Security ApiKeyAuth
// @Router /cart [get]
func getCartHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getCartHandler")
	defer span.End()

	writeCart(w, http.StatusOK, cartForRequest(ctx))
}

// addItemHandler adds one unit of a product to the cart.
// @Summary Add item
// @Accept json
// @Produce json
// @Param product body cart.Product true "Product"
// @Success 201 {object} cartResponse
// @Security ApiKeyAuth
// @Router /cart/items [post]
func addItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "addItemHandler")
	defer span.End()

	var p cart.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.ID <= 0 || p.Price < 0 {
		http.Error(w, "invalid product", http.StatusBadRequest)
		return
	}
	st := cartForRequest(ctx)
	st.AddItem(ctx, p)
	writeCart(w, http.StatusCreated, st)
}

// updateItemHandler sets the quantity of a line item.
// @Summary Update item quantity
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param body body object true "Quantity"
// @Success 200 {object} cartResponse
// @Security ApiKeyAuth
// @Router /cart/items/{id} [put]
func updateItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateItemHandler")
	defer span.End()

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Quantity < 1 {
		http.Error(w, "invalid quantity", http.StatusBadRequest)
		return
	}
	st := cartForRequest(ctx)
	st.UpdateQuantity(ctx, id, body.Quantity)
	writeCart(w, http.StatusOK, st)
}

// removeItemHandler removes a line item. Removing an absent id leaves
// the cart unchanged.
// @Summary Remove item
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} cartResponse
// @Security ApiKeyAuth
// @Router /cart/items/{id} [delete]
func removeItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "removeItemHandler")
	defer span.End()

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	st := cartForRequest(ctx)
	st.RemoveItem(ctx, id)
	writeCart(w, http.StatusOK, st)
}

// reorderCartHandler replaces the item ordering, for drag-and-drop.
// @Summary Reorder cart
// @Accept json
// @Produce json
// @Param items body []cart.LineItem true "Items in new order"
// @Success 200 {object} cartResponse
// @Security ApiKeyAuth
// @Router /cart [put]
func reorderCartHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "reorderCartHandler")
	defer span.End()

	var items []cart.LineItem
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		http.Error(w, "invalid items", http.StatusBadRequest)
		return
	}
	st := cartForRequest(ctx)
	st.Reorder(ctx, items)
	writeCart(w, http.StatusOK, st)
}

// clearCartHandler empties the cart and deletes the saved copy.
// @Summary Clear cart
// @Success 204
// @Security ApiKeyAuth
// @Router /cart [delete]
func clearCartHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "clearCartHandler")
	defer span.End()

	cartForRequest(ctx).Clear(ctx)
	w.WriteHeader(http.StatusNoContent)
}

// checkoutHandler places an order from the current cart.
// @Summary Checkout
// @Accept json
// @Produce json
// @Param body body checkoutRequest true "Shipping and payment details"
// @Success 201 {object} order.Order
// @Security ApiKeyAuth
// @Router /checkout [post]
func checkoutHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "checkoutHandler")
	defer span.End()

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	st := cartForRequest(ctx)
	o, err := checkoutSvc.PlaceOrder(ctx, st, req.Shipping, req.Payment)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart),
			errors.Is(err, checkout.ErrNoUser),
			errors.Is(err, checkout.ErrMissingField):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Error(ctx, "place order", "error", err)
			http.Error(w, "checkout failed", http.StatusInternalServerError)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(o)
}

// listOrdersHandler returns the caller's order history, newest first.
// @Summary List orders
// @Produce json
// @Success 200 {array} order.Order
// @Security ApiKeyAuth
// @Router /orders [get]
func listOrdersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listOrdersHandler")
	defer span.End()

	list, err := orders.ListByUser(ctx, userFrom(ctx))
	if err != nil {
		log.Error(ctx, "list orders", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// listProductsHandler proxies the catalog product list.
// @Summary List products
// @Produce json
// @Success 200 {array} catalog.Product
// @Router /products [get]
func listProductsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listProductsHandler")
	defer span.End()

	list, err := products.List(ctx)
	if err != nil {
		log.Error(ctx, "list products", "error", err)
		http.Error(w, "catalog unavailable", http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// getProductHandler proxies a single catalog product.
// @Summary Get product
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} catalog.Product
// @Router /products/{id} [get]
func getProductHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getProductHandler")
	defer span.End()

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	p, err := products.Get(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Error(ctx, "get product", "error", err)
		http.Error(w, "catalog unavailable", http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

// listCategoriesHandler proxies the catalog category names.
// @Summary List categories
// @Produce json
// @Success 200 {array} string
// @Router /products/categories [get]
func listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listCategoriesHandler")
	defer span.End()

	list, err := products.Categories(ctx)
	if err != nil {
		log.Error(ctx, "list categories", "error", err)
		http.Error(w, "catalog unavailable", http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// productsByCategoryHandler proxies the products of one category.
// @Summary List products by category
// @Produce json
// @Param name path string true "Category"
// @Success 200 {array} catalog.Product
// @Router /products/category/{name} [get]
func productsByCategoryHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "productsByCategoryHandler")
	defer span.End()

	list, err := products.ByCategory(ctx, mux.Vars(r)["name"])
	if err != nil {
		log.Error(ctx, "products by category", "error", err)
		http.Error(w, "catalog unavailable", http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}
