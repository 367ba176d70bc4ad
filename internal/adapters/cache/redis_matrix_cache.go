package cache

import (
	"context"
	"errors"
	"escort-route-service/internal/domain"
	"escort-route-service/internal/platform/obs"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisMatrixCache keeps recently fetched matrices with a TTL.
type RedisMatrixCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisMatrixCache(client *redis.Client, ttl time.Duration) *RedisMatrixCache {
	return &RedisMatrixCache{client: client, ttl: ttl}
}

func (c *RedisMatrixCache) Get(ctx context.Context, key string) (_ *domain.TravelMatrix, _ bool, err error) {
	defer obs.Time(ctx, "matrix.cache.redis.Get")(&err)

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		obs.MatrixCacheLookups.WithLabelValues("redis", "miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get matrix cache: redis get %q: %w", key, err)
	}

	m, err := decodeMatrix(data)
	if err != nil {
		return nil, false, fmt.Errorf("get matrix cache: %w", err)
	}
	obs.MatrixCacheLookups.WithLabelValues("redis", "hit").Inc()
	return m, true, nil
}

func (c *RedisMatrixCache) Put(ctx context.Context, key string, m *domain.TravelMatrix) error {
	data, err := encodeMatrix(m)
	if err != nil {
		return fmt.Errorf("put matrix cache: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("put matrix cache: redis set %q: %w", key, err)
	}
	return nil
}
