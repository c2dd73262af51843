package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taskhive/account-service/internal/api/metrics"
	"github.com/taskhive/account-service/internal/core/domain"
)

const (
	userListKey = "cache:users"
	userListTTL = 30 * time.Second
)

// UserListCache caches the full user listing under a single key with a short
// TTL. Invalidate is called on every account creation, so the TTL only
// matters for writes performed outside this process.
type UserListCache struct {
	client *redis.Client
}

// NewUserListCache creates a UserListCache wrapping the given Redis client.
func NewUserListCache(client *redis.Client) *UserListCache {
	return &UserListCache{client: client}
}

// Get returns the cached listing and whether the cache was warm.
func (c *UserListCache) Get(ctx context.Context) ([]domain.User, bool, error) {
	raw, err := c.client.Get(ctx, userListKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.UserCacheTotal.WithLabelValues("miss").Inc()
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("user list cache get: %w", err)
	}

	var users []domain.User
	if err := json.Unmarshal(raw, &users); err != nil {
		// Treat a corrupt entry as a miss; the next Set overwrites it.
		metrics.UserCacheTotal.WithLabelValues("miss").Inc()
		return nil, false, nil
	}

	metrics.UserCacheTotal.WithLabelValues("hit").Inc()
	return users, true, nil
}

// Set stores the listing with the cache TTL. Password hashes are already
// stripped from the JSON form by the domain model's tags.
func (c *UserListCache) Set(ctx context.Context, users []domain.User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("user list cache marshal: %w", err)
	}
	if err := c.client.Set(ctx, userListKey, raw, userListTTL).Err(); err != nil {
		return fmt.Errorf("user list cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached listing.
func (c *UserListCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, userListKey).Err(); err != nil {
		return fmt.Errorf("user list cache invalidate: %w", err)
	}
	return nil
}
