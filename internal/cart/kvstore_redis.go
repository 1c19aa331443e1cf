package cart

import (
	"context"
	"time"

	"github.com/angelmondragon/packfinderz-cart/pkg/redis"
)

type redisClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CartKey(parts ...string) string
}

// RedisKV stores snapshots as plain string values under the cart namespace.
type RedisKV struct {
	client redisClient
	ttl    time.Duration
}

// NewRedisKV wraps client; a zero ttl keeps keys until overwritten.
func NewRedisKV(client redisClient, ttl time.Duration) *RedisKV {
	return &RedisKV{client: client, ttl: ttl}
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.client.CartKey(key))
	if redis.IsNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.client.CartKey(key), value, r.ttl)
}
