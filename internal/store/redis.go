package store

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisBackend is the explicit-store: a per-device keyspace read and
// written only through explicit calls. A backend that cannot reach redis
// degrades to absence on reads; it never surfaces connectivity problems
// to credential logic.
type RedisBackend struct {
	client *redis.Client
	ctx    context.Context
	prefix string
	logger *zap.Logger
}

// NewRedisBackend scopes a backend to one device id for the duration of a
// request. ctx is the request context.
func NewRedisBackend(ctx context.Context, client *redis.Client, deviceID string, logger *zap.Logger) *RedisBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisBackend{
		client: client,
		ctx:    ctx,
		prefix: "session:" + deviceID + ":",
		logger: logger,
	}
}

// Get reads a key; missing keys and redis failures both read as absent.
func (b *RedisBackend) Get(key string) (string, bool) {
	if b.client == nil {
		return "", false
	}
	value, err := b.client.Get(b.ctx, b.prefix+key).Result()
	if err != nil {
		if err != redis.Nil {
			b.logger.Debug("explicit-store read failed", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return value, true
}

// Set writes a key with no expiry; session lifetime is managed by logout
// and conflict eviction, not TTLs.
func (b *RedisBackend) Set(key, value string) error {
	if b.client == nil {
		return redis.ErrClosed
	}
	return b.client.Set(b.ctx, b.prefix+key, value, 0).Err()
}

// Delete removes a key.
func (b *RedisBackend) Delete(key string) error {
	if b.client == nil {
		return nil
	}
	return b.client.Del(b.ctx, b.prefix+key).Err()
}

// Flush removes every key in this device's namespace. Used as the scratch
// teardown step during logout.
func (b *RedisBackend) Flush() error {
	if b.client == nil {
		return nil
	}
	iter := b.client.Scan(b.ctx, 0, b.prefix+"*", 0).Iterator()
	for iter.Next(b.ctx) {
		if err := b.client.Del(b.ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
