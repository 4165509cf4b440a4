package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chukanavi/chukanavi/internal/model"
)

// Cache key prefixes and TTLs.
const (
	imagesKeyPrefix   = "images:"
	negCacheKeySuffix = ":neg"

	// DefaultImagesTTL is the TTL for cached grouped image URLs.
	DefaultImagesTTL = 1 * time.Hour

	// NegativeCacheTTL is the TTL for negative cache entries.
	NegativeCacheTTL = 5 * time.Minute
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

// GetImages retrieves cached grouped image URLs for a restaurant.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetImages(ctx context.Context, restaurantID string) (model.GroupedImages, error) {
	key := imagesKeyPrefix + restaurantID

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, ErrCacheMiss
	}

	var grouped model.GroupedImages
	if err := json.Unmarshal(data, &grouped); err != nil {
		return nil, ErrCacheMiss
	}

	return grouped, nil
}

// SetImages caches the grouped image URLs for a restaurant.
func (c *Cache) SetImages(ctx context.Context, restaurantID string, grouped model.GroupedImages) error {
	key := imagesKeyPrefix + restaurantID

	data, err := json.Marshal(grouped)
	if err != nil {
		return fmt.Errorf("marshal grouped images: %w", err)
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, key, data, DefaultImagesTTL)
	pipe.Del(ctx, key+negCacheKeySuffix)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache images: %w", err)
	}

	return nil
}

// DeleteImages invalidates the image cache for a restaurant.
// Called after any image mutation or restaurant deletion.
func (c *Cache) DeleteImages(ctx context.Context, restaurantID string) error {
	key := imagesKeyPrefix + restaurantID

	pipe := c.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.Del(ctx, key+negCacheKeySuffix)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete images from cache: %w", err)
	}

	return nil
}

// IsNegativelyCached checks if a restaurant ID is in negative cache.
func (c *Cache) IsNegativelyCached(ctx context.Context, restaurantID string) (bool, error) {
	key := imagesKeyPrefix + restaurantID + negCacheKeySuffix

	exists, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check negative cache: %w", err)
	}

	return exists > 0, nil
}

// SetNegativeCache marks a restaurant ID as not found.
func (c *Cache) SetNegativeCache(ctx context.Context, restaurantID string) error {
	key := imagesKeyPrefix + restaurantID + negCacheKeySuffix

	err := c.client.SetEx(ctx, key, "", NegativeCacheTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to set negative cache: %w", err)
	}

	return nil
}
