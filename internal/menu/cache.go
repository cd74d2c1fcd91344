package menu

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dineline-app/dineline-backend/pkg/redis"
)

// cacheStore is the slice of the redis client the menu cache uses.
type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	MenuKey(restaurantID string) string
}

// Cache stores rendered restaurant menus in redis. Callers treat every error
// as advisory and fall back to the database.
type Cache struct {
	store cacheStore
	ttl   time.Duration
}

// NewCache wires the menu cache to a redis store with the configured TTL.
func NewCache(store cacheStore, ttl time.Duration) (*Cache, error) {
	if store == nil {
		return nil, fmt.Errorf("cache store is required")
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{store: store, ttl: ttl}, nil
}

// Get returns the cached menu and whether the key was present.
func (c *Cache) Get(ctx context.Context, restaurantID uuid.UUID) ([]*MenuItemDTO, bool, error) {
	raw, err := c.store.Get(ctx, c.store.MenuKey(restaurantID.String()))
	if err != nil {
		if redis.IsMiss(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var items []*MenuItemDTO
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, false, fmt.Errorf("decoding cached menu: %w", err)
	}
	return items, true, nil
}

// Set stores the rendered menu under the restaurant's key.
func (c *Cache) Set(ctx context.Context, restaurantID uuid.UUID, items []*MenuItemDTO) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding menu for cache: %w", err)
	}
	return c.store.Set(ctx, c.store.MenuKey(restaurantID.String()), payload, c.ttl)
}

// Invalidate drops the cached menu for a restaurant.
func (c *Cache) Invalidate(ctx context.Context, restaurantID uuid.UUID) error {
	return c.store.Del(ctx, c.store.MenuKey(restaurantID.String()))
}
