package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chukanavi/chukanavi/internal/model"
)

const (
	// identityCachePrefix is the Redis key prefix for verified identities.
	identityCachePrefix = "auth:identity:"
	// identityCacheTTL bounds how long a verified identity is reused
	// before the users table is consulted again.
	identityCacheTTL = 5 * time.Minute
)

// GetIdentity retrieves a cached verified identity by cache key
// (a hash of the raw token, never the token itself).
// Returns nil on a miss; a corrupted entry is treated as a miss.
func (c *Cache) GetIdentity(ctx context.Context, cacheKey string) (*model.Identity, error) {
	key := identityCachePrefix + cacheKey

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var id model.Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return nil, nil //nolint:nilerr
	}

	return &id, nil
}

// SetIdentity caches a verified identity.
func (c *Cache) SetIdentity(ctx context.Context, cacheKey string, id *model.Identity) error {
	key := identityCachePrefix + cacheKey

	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}

	return c.client.Set(ctx, key, data, identityCacheTTL).Err()
}

// DeleteIdentity removes a cached identity. Used on logout.
func (c *Cache) DeleteIdentity(ctx context.Context, cacheKey string) error {
	key := identityCachePrefix + cacheKey
	return c.client.Del(ctx, key).Err()
}
