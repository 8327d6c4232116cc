package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPrefix     = "fleet"
	versionPrefix = "fleet:snapshot:version:"
)

// SnapshotCache stores fetched report snapshots in Redis. Keys embed a
// per-scope version so a bump orphans every key of that scope at once.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewSnapshotCache creates a new snapshot cache
func NewSnapshotCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *SnapshotCache {
	return &SnapshotCache{client: client, ttl: ttl, logger: logger}
}

// Version returns the current version of a scope, initialising it when missing
func (c *SnapshotCache) Version(ctx context.Context, scope string) (int64, error) {
	key := versionPrefix + scope
	ver, err := c.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		// SETNX so concurrent initialisers agree on the first version
		if err := c.client.SetNX(ctx, key, 1, 0).Err(); err != nil {
			return 0, fmt.Errorf("failed to initialise cache version: %w", err)
		}
		return c.client.Get(ctx, key).Int64()
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read cache version: %w", err)
	}
	if ver <= 0 {
		ver = 1
		if err := c.client.Set(ctx, key, ver, 0).Err(); err != nil {
			return 0, fmt.Errorf("failed to reset cache version: %w", err)
		}
	}
	return ver, nil
}

// BuildKey composes a versioned key within a scope
func (c *SnapshotCache) BuildKey(ctx context.Context, scope string, parts ...string) (string, error) {
	ver, err := c.Version(ctx, scope)
	if err != nil {
		return "", err
	}
	segments := append([]string{keyPrefix, scope}, parts...)
	return fmt.Sprintf("%s:v%d", strings.Join(segments, ":"), ver), nil
}

// Load decodes a cached value into dest. found is false on a miss.
func (c *SnapshotCache) Load(ctx context.Context, key string, dest interface{}) (bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache key: %w", err)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		// A corrupt entry is a miss; the next store overwrites it
		c.logger.Warn("Discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

// Store encodes value under key with the configured TTL
func (c *SnapshotCache) Store(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key: %w", err)
	}
	return nil
}

// Bump invalidates every key of a scope
func (c *SnapshotCache) Bump(ctx context.Context, scope string) error {
	ver, err := c.client.Incr(ctx, versionPrefix+scope).Result()
	if err != nil {
		return fmt.Errorf("failed to bump cache version: %w", err)
	}
	c.logger.Debug("Snapshot cache bumped", zap.String("scope", scope), zap.Int64("version", ver))
	return nil
}
