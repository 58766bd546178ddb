// Package cache is the read-through cache in front of public catalog reads.
// Cache failures never fail a request: they are logged and the loader runs.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"tradehub-be/internal/logger"

	"go.uber.org/zap"
)

type Cache interface {
	// Get reports whether key was present and, if so, decodes it into dest.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// GetOrLoad returns the cached value for key, or calls load and caches its
// result for ttl.
func GetOrLoad[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	if c == nil {
		return load()
	}

	var cached T
	hit, err := c.Get(ctx, key, &cached)
	if err != nil {
		logger.FromCtx(ctx).Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		return cached, nil
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	if err := c.Set(ctx, key, v, ttl); err != nil {
		logger.FromCtx(ctx).Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return v, nil
}

// Invalidate drops keys and prefixes, logging failures.
func Invalidate(ctx context.Context, c Cache, keys []string, prefixes ...string) {
	if c == nil {
		return
	}
	if len(keys) > 0 {
		if err := c.Delete(ctx, keys...); err != nil {
			logger.FromCtx(ctx).Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
		}
	}
	for _, p := range prefixes {
		if err := c.DeletePrefix(ctx, p); err != nil {
			logger.FromCtx(ctx).Warn("cache invalidation failed", zap.String("prefix", p), zap.Error(err))
		}
	}
}

func encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func decode(data []byte, dest any) error {
	return json.Unmarshal(data, dest)
}
