package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/aaleksaaleksic/food-ordering-system/internal/config"
)

// Redis wraps the go-redis client. It backs the dish read-through cache.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// GetCached returns the cached payload for key, or redis.Nil when absent.
func (r *Redis) GetCached(ctx context.Context, key string) ([]byte, error) {
	if r == nil || r.Client == nil {
		return nil, redis.Nil
	}
	return r.Client.Get(ctx, key).Bytes()
}

// SetCached stores a payload with a TTL. Failures are non-fatal for callers;
// the cache is advisory.
func (r *Redis) SetCached(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Set(ctx, key, payload, ttl).Err()
}

// DeleteCached drops cached payloads, used when dishes change.
func (r *Redis) DeleteCached(ctx context.Context, keys ...string) error {
	if r == nil || r.Client == nil || len(keys) == 0 {
		return nil
	}
	return r.Client.Del(ctx, keys...).Err()
}

// IsCacheMiss reports whether err is the cache-miss sentinel.
func IsCacheMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}
