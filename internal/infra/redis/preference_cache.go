package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kislikjeka/txfeed/internal/platform/preference"
	"github.com/kislikjeka/txfeed/pkg/logger"
)

const (
	// DefaultTTL bounds how long a cached preference survives without a write
	DefaultTTL = 10 * time.Minute

	// KeyPrefix is the prefix for preference cache keys
	KeyPrefix = "txfeed:prefs:"
)

// PreferenceCache is a read-through cache in front of a preference.Repository.
// Cache failures degrade to the backing repository.
//
// Read misses fill the cache with SETNX and writes overwrite it with SET, so a
// fill that read the repository before a concurrent Upsert cannot replace the
// newer value.
type PreferenceCache struct {
	next   preference.Repository
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

// NewPreferenceCache wraps next with a Redis cache. A ttl <= 0 uses DefaultTTL.
func NewPreferenceCache(next preference.Repository, client *redis.Client, ttl time.Duration, log *logger.Logger) *PreferenceCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PreferenceCache{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: log.WithField("component", "preference_cache"),
	}
}

func cacheKey(userID uuid.UUID) string {
	return KeyPrefix + userID.String()
}

// Get returns cached preferences, loading them from the repository on a miss
func (c *PreferenceCache) Get(ctx context.Context, userID uuid.UUID) (*preference.Preferences, error) {
	key := cacheKey(userID)

	val, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached preference.Preferences
		if err := json.Unmarshal(val, &cached); err == nil {
			c.logger.Debug("cache hit", "user_id", userID)
			return &cached, nil
		}
		c.logger.Warn("dropping corrupt cache entry", "user_id", userID)
		c.client.Del(ctx, key)
	case errors.Is(err, redis.Nil):
		c.logger.Debug("cache miss", "user_id", userID)
	default:
		c.logger.Error("cache error", "operation", "get", "user_id", userID, "error", err)
	}

	prefs, err := c.next.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.fill(ctx, prefs)
	return prefs, nil
}

// Upsert writes through to the repository, then replaces the cached entry
func (c *PreferenceCache) Upsert(ctx context.Context, prefs *preference.Preferences) error {
	if err := c.next.Upsert(ctx, prefs); err != nil {
		return err
	}

	key := cacheKey(prefs.UserID)
	data, err := json.Marshal(prefs)
	if err == nil {
		err = c.client.Set(ctx, key, data, c.ttl).Err()
	}
	if err == nil {
		return nil
	}

	c.logger.Error("cache error", "operation", "set", "user_id", prefs.UserID, "error", err)
	if delErr := c.client.Del(ctx, key).Err(); delErr != nil {
		return fmt.Errorf("failed to refresh cached preferences: %w", delErr)
	}
	return nil
}

// fill caches prefs read from the repository unless a write got there first
func (c *PreferenceCache) fill(ctx context.Context, prefs *preference.Preferences) {
	data, err := json.Marshal(prefs)
	if err != nil {
		c.logger.Error("failed to marshal preferences", "user_id", prefs.UserID, "error", err)
		return
	}

	stored, err := c.client.SetNX(ctx, cacheKey(prefs.UserID), data, c.ttl).Result()
	if err != nil {
		c.logger.Error("cache error", "operation", "fill", "user_id", prefs.UserID, "error", err)
		return
	}
	if !stored {
		c.logger.Debug("cache already filled by a newer write", "user_id", prefs.UserID)
	}
}

// Health checks the Redis connection
func (c *PreferenceCache) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
