package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ResponseCache tracks cached upstream responses per device so logout can
// drop them. Invalidation is best effort: a device whose cache entries
// outlive logout sees stale public data at worst, never another
// identity's credentials.
type ResponseCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewResponseCache wraps the shared redis client.
func NewResponseCache(client *redis.Client, logger *zap.Logger) *ResponseCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponseCache{client: client, logger: logger}
}

func (c *ResponseCache) key(deviceID, path string) string {
	return "cache:" + deviceID + ":" + path
}

// Put stores a response body for a device and path.
func (c *ResponseCache) Put(ctx context.Context, deviceID, path, body string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Set(ctx, c.key(deviceID, path), body, 0).Err()
}

// Get reads a cached body; failures read as a miss.
func (c *ResponseCache) Get(ctx context.Context, deviceID, path string) (string, bool) {
	if c.client == nil {
		return "", false
	}
	body, err := c.client.Get(ctx, c.key(deviceID, path)).Result()
	if err != nil {
		return "", false
	}
	return body, true
}

// ForDevice returns an invalidator bound to one device, suitable for the
// logout teardown sequence.
func (c *ResponseCache) ForDevice(deviceID string) *DeviceInvalidator {
	return &DeviceInvalidator{cache: c, deviceID: deviceID}
}

// DeviceInvalidator drops every cached response for a single device.
type DeviceInvalidator struct {
	cache    *ResponseCache
	deviceID string
}

// Invalidate scans and deletes the device's cache namespace.
func (d *DeviceInvalidator) Invalidate(ctx context.Context) error {
	client := d.cache.client
	if client == nil {
		return nil
	}
	iter := client.Scan(ctx, 0, "cache:"+d.deviceID+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
