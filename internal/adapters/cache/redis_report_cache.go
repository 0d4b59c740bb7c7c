package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ttp-solver-service/internal/platform/obs"
)

// DefaultReportTTL applies when a cache is built with a non-positive TTL.
const DefaultReportTTL = 10 * time.Minute

// RedisReportCache stores encoded solve reports in Redis with a TTL.
type RedisReportCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisReportCache(client *redis.Client, prefix string, ttl time.Duration) *RedisReportCache {
	if ttl <= 0 {
		ttl = DefaultReportTTL
	}
	return &RedisReportCache{client: client, prefix: prefix, ttl: ttl}
}

// OpenRedis connects to addr and verifies the connection.
func OpenRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("open redis %s: %w", addr, err)
	}
	return client, nil
}

func (c *RedisReportCache) buildKey(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}

// Fetch a cached payload; ok is false on a miss.
func (c *RedisReportCache) Get(ctx context.Context, key string) (_ []byte, _ bool, err error) {
	defer obs.Time(ctx, "report.cache.Get")(&err)

	if c.client == nil {
		return nil, false, errors.New("report cache: client is nil")
	}

	data, err := c.client.Get(ctx, c.buildKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("report cache get %q: %w", key, err)
	}
	return data, true, nil
}

// Store a payload under key for the configured TTL.
func (c *RedisReportCache) Set(ctx context.Context, key string, payload []byte) (err error) {
	defer obs.Time(ctx, "report.cache.Set")(&err)

	if c.client == nil {
		return errors.New("report cache: client is nil")
	}

	if err := c.client.Set(ctx, c.buildKey(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("report cache set %q: %w", key, err)
	}
	return nil
}

// Key derives a stable cache key from the JSON encoding of v.
func Key(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("report cache key: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
