package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

type localEntry struct {
	value     []byte
	expiresAt time.Time
}

// LocalTier is the in-process tier. Entries carry their own expiry taken
// from the injected clock, checked on every read. Writers (Set, Delete,
// DeletePattern and Sweep) are serialised by mu; reads copy the entry out
// under the store lock, so a concurrent sweep never affects a value already
// being served.
type LocalTier struct {
	mu    sync.Mutex
	items *ttlcache.Cache[string, localEntry]
	now   func() time.Time
}

var _ Tier = (*LocalTier)(nil)

// NewLocalTier creates a local tier. A zero capacity is unbounded.
func NewLocalTier(capacity uint64, now func() time.Time) *LocalTier {
	if now == nil {
		now = time.Now
	}
	opts := []ttlcache.Option[string, localEntry]{
		ttlcache.WithDisableTouchOnHit[string, localEntry](),
	}
	if capacity > 0 {
		opts = append(opts, ttlcache.WithCapacity[string, localEntry](capacity))
	}
	return &LocalTier{
		items: ttlcache.New(opts...),
		now:   now,
	}
}

func (l *LocalTier) Name() string {
	return "local"
}

func (l *LocalTier) Get(_ context.Context, key string) ([]byte, bool, error) {
	item := l.items.Get(key)
	if item == nil {
		return nil, false, nil
	}
	entry := item.Value()
	if l.now().After(entry.expiresAt) {
		return nil, false, nil
	}
	return slices.Clone(entry.value), true, nil
}

func (l *LocalTier) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items.Set(key, localEntry{
		value:     slices.Clone(value),
		expiresAt: l.now().Add(ttl),
	}, ttl)
	return nil
}

func (l *LocalTier) Delete(_ context.Context, keys ...string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, key := range keys {
		l.items.Delete(key)
	}
	return nil
}

func (l *LocalTier) DeletePattern(_ context.Context, pattern string) (int, error) {
	re, err := compileGlob(pattern)
	if err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for _, key := range l.items.Keys() {
		if re.MatchString(key) {
			l.items.Delete(key)
			removed++
		}
	}
	return removed, nil
}

// Sweep evicts every entry past its expiry and reports how many were removed.
func (l *LocalTier) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for _, key := range l.items.Keys() {
		item := l.items.Get(key)
		if item == nil {
			continue
		}
		if now.After(item.Value().expiresAt) {
			l.items.Delete(key)
			removed++
		}
	}
	l.items.DeleteExpired()
	return removed
}

// Len reports the number of stored entries, including expired entries not
// yet swept.
func (l *LocalTier) Len() int {
	return l.items.Len()
}

// Keys returns the stored keys in sorted order.
func (l *LocalTier) Keys() []string {
	keys := l.items.Keys()
	slices.Sort(keys)
	return keys
}
