package cities

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/i474232898/angin-nusantara/internal/kv"
)

// CacheKey returns the local cache key of a user's saved-city list.
func CacheKey(userID string) string {
	return "cities_" + userID
}

// ListCache keeps a JSON copy of each user's saved-city list in a kv.Store.
type ListCache struct {
	store kv.Store
}

// NewListCache creates a ListCache on top of store.
func NewListCache(store kv.Store) *ListCache {
	return &ListCache{store: store}
}

// Load returns the cached list; a missing entry is an empty list.
func (c *ListCache) Load(ctx context.Context, userID string) ([]SavedCity, error) {
	raw, ok, err := c.store.Get(ctx, CacheKey(userID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return []SavedCity{}, nil
	}

	var list []SavedCity
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("decoding cached cities: %w", err)
	}
	if list == nil {
		list = []SavedCity{}
	}
	return list, nil
}

// Replace overwrites the user's cached list.
func (c *ListCache) Replace(ctx context.Context, userID string, list []SavedCity) error {
	if list == nil {
		list = []SavedCity{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, CacheKey(userID), string(raw))
}

// Invalidate drops the user's cached list.
func (c *ListCache) Invalidate(ctx context.Context, userID string) error {
	return c.store.Delete(ctx, CacheKey(userID))
}
