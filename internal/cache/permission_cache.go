// Package cache provides a Redis read-through decorator for permission resolution.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	authDomain "github.com/allisson/forum/internal/auth/domain"
	"github.com/allisson/forum/internal/auth/permission"
)

// redisClient is the subset of the go-redis API the cache uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// PermissionResolverCache is a read-through cache in front of a
// PermissionResolver. Guarded calls resolve the role's capability set on every
// check; the cache keeps that from hitting storage each time. Redis being down
// degrades to storage reads, never to denied requests.
type PermissionResolverCache struct {
	resolver authDomain.PermissionResolver
	client   redisClient
	ttl      time.Duration
	logger   *slog.Logger
}

// NewPermissionResolverCache creates a caching decorator around a resolver.
func NewPermissionResolverCache(
	resolver authDomain.PermissionResolver,
	client redisClient,
	ttl time.Duration,
	logger *slog.Logger,
) *PermissionResolverCache {
	return &PermissionResolverCache{
		resolver: resolver,
		client:   client,
		ttl:      ttl,
		logger:   logger,
	}
}

// ResolveRolePermissions returns the role's capability set, serving from Redis
// when possible and falling back to the wrapped resolver.
func (c *PermissionResolverCache) ResolveRolePermissions(
	ctx context.Context,
	roleID int64,
) ([]permission.Descriptor, error) {
	key := cacheKey(roleID)

	raw, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var descriptors []permission.Descriptor
		if unmarshalErr := json.Unmarshal([]byte(raw), &descriptors); unmarshalErr == nil {
			return descriptors, nil
		}
		// A corrupt entry falls through to storage and gets overwritten.
		c.logger.Warn("permission cache entry corrupt", slog.String("key", key))
	} else if err != redis.Nil {
		c.logger.Warn("permission cache read failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}

	descriptors, err := c.resolver.ResolveRolePermissions(ctx, roleID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(descriptors)
	if err == nil {
		if setErr := c.client.Set(ctx, key, payload, c.ttl).Err(); setErr != nil {
			c.logger.Warn("permission cache write failed",
				slog.String("key", key),
				slog.String("error", setErr.Error()))
		}
	}

	return descriptors, nil
}

// InvalidateRole drops the cached capability set for a role. Called after a
// grant change so the new set takes effect within one storage read instead of
// waiting out the TTL.
func (c *PermissionResolverCache) InvalidateRole(ctx context.Context, roleID int64) {
	if err := c.client.Del(ctx, cacheKey(roleID)).Err(); err != nil {
		c.logger.Warn("permission cache invalidation failed",
			slog.Int64("role_id", roleID),
			slog.String("error", err.Error()))
	}
}

func cacheKey(roleID int64) string {
	return "perm:role:" + strconv.FormatInt(roleID, 10)
}
