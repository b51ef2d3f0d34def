// Package redis implements cart storage on Redis. Each user's cart is
// a JSON blob under the key cart_<userID>.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"cartflow/pkg/cart"
)

// Storage persists carts through a shared redis client.
type Storage struct {
	client *redis.Client
}

// New creates a redis-backed storage.
func New(client *redis.Client) *Storage {
	return &Storage{client: client}
}

func key(userID string) string {
	return "cart_" + userID
}

// Load fetches and decodes the saved cart for userID. A missing key is
// cart.ErrNoCart; a corrupt payload is reported so the caller can fall
// back to an empty cart.
func (s *Storage) Load(ctx context.Context, userID string) ([]cart.LineItem, error) {
	val, err := s.client.Get(ctx, key(userID)).Result()
	if err == redis.Nil {
		return nil, cart.ErrNoCart
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	var items []cart.LineItem
	if err := json.Unmarshal([]byte(val), &items); err != nil {
		return nil, fmt.Errorf("decode saved cart: %w", err)
	}
	return items, nil
}

// Save encodes and writes items under the user's key, without expiry.
func (s *Storage) Save(ctx context.Context, userID string, items []cart.LineItem) error {
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.client.Set(ctx, key(userID), b, 0).Err(); err != nil {
		return fmt.Errorf("set cart: %w", err)
	}
	return nil
}

// Delete removes the user's key.
func (s *Storage) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("del cart: %w", err)
	}
	return nil
}
