package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 100

// RedisTier is the distributed tier shared by every process.
type RedisTier struct {
	client redis.UniversalClient
}

var _ Tier = (*RedisTier)(nil)

// NewRedisTier wraps an existing client.
func NewRedisTier(client redis.UniversalClient) *RedisTier {
	return &RedisTier{client: client}
}

// DialRedis parses a redis:// or rediss:// URL and creates a tier for it.
// No connection is made until the first command.
func DialRedis(url string) (*RedisTier, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid cache URL: %w", err)
	}
	return NewRedisTier(redis.NewClient(opts)), nil
}

func (r *RedisTier) Name() string {
	return "redis"
}

func (r *RedisTier) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (r *RedisTier) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisTier) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

// DeletePattern walks the keyspace with SCAN MATCH and deletes in batches.
func (r *RedisTier) DeletePattern(ctx context.Context, pattern string) (int, error) {
	removed := 0
	batch := make([]string, 0, scanBatch)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := r.client.Del(ctx, batch...).Result()
		if err != nil {
			return err
		}
		removed += int(n)
		batch = batch[:0]
		return nil
	}

	iter := r.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := flush(); err != nil {
				return removed, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, err
	}
	if err := flush(); err != nil {
		return removed, err
	}
	return removed, nil
}

// Ping checks connectivity.
func (r *RedisTier) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisTier) Close() error {
	return r.client.Close()
}
