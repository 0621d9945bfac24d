package cache

import (
	"context"
	"fmt"
	"time"
)

// Tier is one layer of the cache.
type Tier interface {
	Name() string
	// Get returns the stored bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePattern removes every key matching the glob pattern and reports
	// how many were removed. No match is not an error.
	DeletePattern(ctx context.Context, pattern string) (int, error)
}

// CacheTierError describes a failed distributed tier operation. It is logged
// and counted, never returned by the Manager.
type CacheTierError struct {
	Tier string
	Op   string
	Key  string
	Err  error
}

func (e *CacheTierError) Error() string {
	return fmt.Sprintf("cache tier %s %s %q: %v", e.Tier, e.Op, e.Key, e.Err)
}

func (e *CacheTierError) Unwrap() error {
	return e.Err
}
