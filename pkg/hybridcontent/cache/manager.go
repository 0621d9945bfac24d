// Package cache implements the two-tier content cache. Reads try the
// distributed tier first and fall back to the in-process tier; writes go to
// both. Distributed tier failures are logged and absorbed, never returned.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultOperationTimeout = 500 * time.Millisecond
	defaultSweepInterval    = time.Minute
)

// Manager coordinates the local and distributed tiers.
type Manager struct {
	local         *LocalTier
	distributed   Tier
	namespace     string
	now           func() time.Time
	logger        *slog.Logger
	opTimeout     time.Duration
	sweepInterval time.Duration
	enabled       bool
	localCapacity uint64

	hits              atomic.Uint64
	misses            atomic.Uint64
	sets              atomic.Uint64
	deletes           atomic.Uint64
	distributedErrors atomic.Uint64
}

// Option configures a Manager.
type Option func(*Manager)

// WithDistributed enables the distributed tier. A nil tier runs local-only.
func WithDistributed(t Tier) Option {
	return func(m *Manager) {
		m.distributed = t
	}
}

// WithNamespace prefixes every key with ns and a colon.
func WithNamespace(ns string) Option {
	return func(m *Manager) {
		m.namespace = ns
	}
}

// WithClock overrides the clock used for local expiry.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithOperationTimeout bounds each distributed tier round trip.
func WithOperationTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.opTimeout = d
		}
	}
}

// WithSweepInterval sets how often Start evicts expired local entries.
func WithSweepInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.sweepInterval = d
		}
	}
}

// WithEnabled is the global kill switch. A disabled Manager misses every
// read and drops every write.
func WithEnabled(enabled bool) Option {
	return func(m *Manager) {
		m.enabled = enabled
	}
}

// WithLocalCapacity bounds the number of local entries. Zero is unbounded.
func WithLocalCapacity(n uint64) Option {
	return func(m *Manager) {
		m.localCapacity = n
	}
}

// New creates a Manager. Without WithDistributed it runs local-only.
func New(opts ...Option) *Manager {
	m := &Manager{
		now:           time.Now,
		logger:        slog.Default(),
		opTimeout:     defaultOperationTimeout,
		sweepInterval: defaultSweepInterval,
		enabled:       true,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.local = NewLocalTier(m.localCapacity, m.now)
	return m
}

func (m *Manager) key(k string) string {
	if m.namespace == "" {
		return k
	}
	return m.namespace + ":" + k
}

func (m *Manager) distributedFailure(op, key string, err error) {
	m.distributedErrors.Add(1)
	m.logger.Warn("distributed cache tier failed",
		"error", &CacheTierError{Tier: m.distributed.Name(), Op: op, Key: key, Err: err})
}

// GetBytes returns the raw bytes stored under key.
func (m *Manager) GetBytes(ctx context.Context, key string) ([]byte, bool) {
	if !m.enabled {
		return nil, false
	}
	k := m.key(key)

	if m.distributed != nil {
		opCtx, cancel := context.WithTimeout(ctx, m.opTimeout)
		data, ok, err := m.distributed.Get(opCtx, k)
		cancel()
		switch {
		case err != nil:
			m.distributedFailure("get", k, err)
		case ok:
			m.hits.Add(1)
			return data, true
		}
	}

	if data, ok, _ := m.local.Get(ctx, k); ok {
		m.hits.Add(1)
		return data, true
	}
	m.misses.Add(1)
	return nil, false
}

// Get decodes the value stored under key into T. A value that no longer
// decodes is reported as a miss.
func Get[T any](ctx context.Context, m *Manager, key string) (T, bool) {
	var out T
	data, ok := m.GetBytes(ctx, key)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		m.logger.Warn("discarding undecodable cache entry", "key", key, "error", err)
		var zero T
		return zero, false
	}
	return out, true
}

// Set encodes value and writes it to both tiers concurrently. Only an
// encoding failure is returned; a distributed write failure is logged and
// the local write is kept.
func (m *Manager) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !m.enabled {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value for %q: %w", key, err)
	}
	m.SetBytes(ctx, key, data, ttl)
	return nil
}

// SetBytes writes raw bytes to both tiers. A non-positive ttl uses DefaultTTL.
func (m *Manager) SetBytes(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if !m.enabled {
		return
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	k := m.key(key)
	m.sets.Add(1)

	var g errgroup.Group
	g.Go(func() error {
		return m.local.Set(ctx, k, data, ttl)
	})
	if m.distributed != nil {
		g.Go(func() error {
			opCtx, cancel := context.WithTimeout(ctx, m.opTimeout)
			defer cancel()
			if err := m.distributed.Set(opCtx, k, data, ttl); err != nil {
				m.distributedFailure("set", k, err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Delete removes keys from both tiers.
func (m *Manager) Delete(ctx context.Context, keys ...string) {
	if !m.enabled || len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = m.key(k)
	}
	m.deletes.Add(uint64(len(full)))

	_ = m.local.Delete(ctx, full...)
	if m.distributed != nil {
		opCtx, cancel := context.WithTimeout(ctx, m.opTimeout)
		defer cancel()
		if err := m.distributed.Delete(opCtx, full...); err != nil {
			m.distributedFailure("delete", full[0], err)
		}
	}
}

// PurgeResult reports how many keys each tier removed.
type PurgeResult struct {
	Local       int `json:"local"`
	Distributed int `json:"distributed"`
}

// DeletePattern removes every key matching the glob pattern from both tiers.
// The pattern is applied inside the namespace. Only an invalid pattern is
// returned as an error.
func (m *Manager) DeletePattern(ctx context.Context, pattern string) (PurgeResult, error) {
	var res PurgeResult
	if !m.enabled {
		return res, nil
	}
	p := m.key(pattern)

	local, err := m.local.DeletePattern(ctx, p)
	if err != nil {
		return res, err
	}
	res.Local = local
	m.deletes.Add(uint64(local))

	if m.distributed != nil {
		// pattern scans are bounded by the caller context rather than the
		// per-operation timeout
		n, err := m.distributed.DeletePattern(ctx, p)
		if err != nil {
			m.distributedFailure("delete pattern", p, err)
		}
		res.Distributed = n
	}
	return res, nil
}

// InvalidateCategory purges every key of c.
func (m *Manager) InvalidateCategory(ctx context.Context, c Category) (PurgeResult, error) {
	return m.DeletePattern(ctx, c.Pattern())
}

// Stats is a point-in-time view of cache counters.
type Stats struct {
	Enabled            bool   `json:"enabled"`
	DistributedEnabled bool   `json:"distributedEnabled"`
	Namespace          string `json:"namespace,omitempty"`
	LocalEntries       int    `json:"localEntries"`
	Hits               uint64 `json:"hits"`
	Misses             uint64 `json:"misses"`
	Sets               uint64 `json:"sets"`
	Deletes            uint64 `json:"deletes"`
	DistributedErrors  uint64 `json:"distributedErrors"`
}

func (m *Manager) Stats() Stats {
	return Stats{
		Enabled:            m.enabled,
		DistributedEnabled: m.distributed != nil,
		Namespace:          m.namespace,
		LocalEntries:       m.local.Len(),
		Hits:               m.hits.Load(),
		Misses:             m.misses.Load(),
		Sets:               m.sets.Load(),
		Deletes:            m.deletes.Load(),
		DistributedErrors:  m.distributedErrors.Load(),
	}
}

// Sweep evicts expired local entries now.
func (m *Manager) Sweep() int {
	return m.local.Sweep()
}

// Start runs the local sweep in the background until ctx is done.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := m.local.Sweep(); n > 0 {
					m.logger.Debug("swept expired cache entries", "count", n)
				}
			}
		}
	}()
}

// Close releases the distributed tier connection, if any.
func (m *Manager) Close() error {
	if c, ok := m.distributed.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
