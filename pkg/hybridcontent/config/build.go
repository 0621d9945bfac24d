package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tendant/hybrid-content/pkg/hybridcontent"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/cache"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/cms"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/contentstore"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/operational"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/repo/memory"
	repopg "github.com/tendant/hybrid-content/pkg/hybridcontent/repo/postgres"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/resolver"
)

// Components is the wired object graph of a server.
type Components struct {
	Config *ServerConfig

	// ContentStore is nil for the in-memory repository.
	ContentStore *contentstore.Client
	Repository   hybridcontent.Repository
	Content      *cms.Service
	Operational  operational.Store
	Cache        *cache.Manager
	Resolver     *resolver.Resolver
}

// Close releases the content store pool and the distributed cache connection.
func (c *Components) Close() error {
	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.ContentStore != nil {
		c.ContentStore.Close()
	}
	return errors.Join(errs...)
}

// Build connects every component described by the configuration.
func (c *ServerConfig) Build(ctx context.Context, logger *slog.Logger) (*Components, error) {
	if logger == nil {
		logger = slog.Default()
	}
	out := &Components{Config: c}

	if err := c.buildRepository(ctx, logger, out); err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}
	out.Content = cms.NewService(out.Repository, cms.WithLogger(logger))

	ops, err := c.buildOperational()
	if err != nil {
		_ = out.Close()
		return nil, fmt.Errorf("failed to build operational store: %w", err)
	}
	out.Operational = ops

	cm, err := c.buildCache(ctx, logger)
	if err != nil {
		_ = out.Close()
		return nil, fmt.Errorf("failed to build cache: %w", err)
	}
	out.Cache = cm

	out.Resolver = resolver.New(out.Operational, out.Content, out.Cache, resolver.WithLogger(logger))
	return out, nil
}

func (c *ServerConfig) buildRepository(ctx context.Context, logger *slog.Logger, out *Components) error {
	switch c.DatabaseType {
	case "memory":
		out.Repository = memory.New()
		return nil
	case "postgres":
		client, err := contentstore.New(ctx, c.ContentStoreConfig(), contentstore.WithLogger(logger))
		if err != nil {
			return err
		}
		repo := repopg.New(client)
		if c.Content.Migrate {
			if err := repo.Migrate(ctx); err != nil {
				client.Close()
				return fmt.Errorf("migrate content schema: %w", err)
			}
		}
		out.ContentStore = client
		out.Repository = repo
		return nil
	default:
		return fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// ContentStoreConfig converts the settings for the content store client.
func (c *ServerConfig) ContentStoreConfig() contentstore.Config {
	return contentstore.Config{
		URL:            c.Content.URL,
		SSL:            c.Content.SSL,
		Schema:         c.Content.Schema,
		MinConns:       c.Content.PoolMin,
		MaxConns:       c.Content.PoolMax,
		ConnectTimeout: c.Content.ConnectTimeout,
		AcquireTimeout: c.Content.AcquireTimeout,
	}
}

func (c *ServerConfig) buildOperational() (operational.Store, error) {
	switch {
	case c.Operational.BaseURL != "":
		return operational.NewHTTPStore(c.Operational.BaseURL, operational.WithTimeout(c.Operational.Timeout))
	case c.Operational.SeedFile != "":
		return operational.LoadMemoryStore(c.Operational.SeedFile)
	default:
		return operational.NewMemoryStore(), nil
	}
}

// BuildCache creates the cache manager alone, for tools that only touch
// the cache.
func (c *ServerConfig) BuildCache(ctx context.Context, logger *slog.Logger) (*cache.Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	return c.buildCache(ctx, logger)
}

func (c *ServerConfig) buildCache(ctx context.Context, logger *slog.Logger) (*cache.Manager, error) {
	opts := []cache.Option{
		cache.WithEnabled(c.Cache.Enabled),
		cache.WithNamespace(c.Cache.Namespace),
		cache.WithLogger(logger),
		cache.WithOperationTimeout(c.Cache.OperationTimeout),
		cache.WithSweepInterval(c.Cache.SweepInterval),
		cache.WithLocalCapacity(c.Cache.LocalCapacity),
	}

	if c.Cache.Enabled && c.Cache.RedisURL != "" {
		tier, err := cache.DialRedis(c.Cache.RedisURL)
		if err != nil {
			return nil, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := tier.Ping(pingCtx); err != nil {
			// reads fall through to the local tier until redis recovers
			logger.Warn("distributed cache unreachable at startup", "error", err)
		}
		opts = append(opts, cache.WithDistributed(tier))
	}

	return cache.New(opts...), nil
}
