// Package catalog provides a client for the public read-only product
// catalog API. Prices read here are snapshots; the cart keeps whatever
// price was current when an item was added.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Rating is the aggregate customer rating for a product.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is a catalog entry.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`
}

// ErrNotFound indicates the requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Client calls the catalog API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the catalog at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// List fetches all products.
func (c *Client) List(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.get(ctx, "/products", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches a single product by id.
func (c *Client) Get(ctx context.Context, id int) (Product, error) {
	var out Product
	if err := c.get(ctx, "/products/"+strconv.Itoa(id), &out); err != nil {
		return Product{}, err
	}
	if out.ID == 0 {
		return Product{}, ErrNotFound
	}
	return out, nil
}

// Categories fetches the category names.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.get(ctx, "/products/categories", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ByCategory fetches the products in one category.
func (c *Client) ByCategory(ctx context.Context, category string) ([]Product, error) {
	var out []Product
	if err := c.get(ctx, "/products/category/"+url.PathEscape(category), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog: unexpected status %d for %s", resp.StatusCode, path)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("catalog: read %s: %w", path, err)
	}
	// The catalog API answers 200 with an empty body for unknown ids.
	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("catalog: decode %s: %w", path, err)
	}
	return nil
}
