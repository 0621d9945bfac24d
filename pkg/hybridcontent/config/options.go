package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// WithEnv applies environment variable overrides. Unset variables keep
// the values applied so far.
//
// Server:
//
//	PORT, ENVIRONMENT
//
// Content store:
//
//	DATABASE_TYPE - "memory" or "postgres"; inferred from CONTENT_DATABASE_URL when unset
//	CONTENT_DATABASE_URL, CONTENT_DATABASE_SSL, CONTENT_DB_SCHEMA,
//	CONTENT_POOL_MIN, CONTENT_POOL_MAX, CONTENT_CONNECT_TIMEOUT,
//	CONTENT_ACQUIRE_TIMEOUT, CONTENT_AUTO_MIGRATE
//
// Cache:
//
//	CACHE_ENABLED, CACHE_REDIS_URL (empty = local tier only), CACHE_NAMESPACE,
//	CACHE_OPERATION_TIMEOUT, CACHE_SWEEP_INTERVAL, CACHE_LOCAL_CAPACITY
//
// Operational store:
//
//	OPERATIONAL_BASE_URL, OPERATIONAL_TIMEOUT, OPERATIONAL_SEED_FILE
func WithEnv() Option {
	return func(c *ServerConfig) error {
		if err := cleanenv.ReadEnv(c); err != nil {
			return fmt.Errorf("read environment: %w", err)
		}
		return nil
	}
}

// WithFile reads a YAML file. Environment variables still override it.
func WithFile(path string) Option {
	return func(c *ServerConfig) error {
		if err := cleanenv.ReadConfig(path, c); err != nil {
			return fmt.Errorf("read config file %s: %w", path, err)
		}
		return nil
	}
}

// WithPort sets the HTTP server port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the runtime environment
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		c.Environment = env
		return nil
	}
}

// WithDatabase selects the content store backend.
func WithDatabase(dbType, url string) Option {
	return func(c *ServerConfig) error {
		c.DatabaseType = dbType
		c.Content.URL = url
		return nil
	}
}

// WithRedis enables the distributed cache tier.
func WithRedis(url string) Option {
	return func(c *ServerConfig) error {
		c.Cache.RedisURL = url
		return nil
	}
}

// WithCache toggles caching globally.
func WithCache(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.Cache.Enabled = enabled
		return nil
	}
}

// WithOperationalGateway reads operational records from a REST gateway.
func WithOperationalGateway(baseURL string) Option {
	return func(c *ServerConfig) error {
		c.Operational.BaseURL = baseURL
		return nil
	}
}

// WithOperationalSeed seeds the in-memory operational store from a file.
func WithOperationalSeed(path string) Option {
	return func(c *ServerConfig) error {
		c.Operational.SeedFile = path
		return nil
	}
}
