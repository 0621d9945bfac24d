package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromEnv loads defaults overridden by the process environment.
func LoadFromEnv() (*ServerConfig, error) {
	return Load(WithEnv())
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:        "8080",
		Environment: "development",
		Content: ContentStoreConfig{
			Schema:         "public",
			PoolMin:        2,
			PoolMax:        10,
			ConnectTimeout: 5 * time.Second,
			AcquireTimeout: 5 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:          true,
			OperationTimeout: 500 * time.Millisecond,
			SweepInterval:    time.Minute,
			LocalCapacity:    10000,
		},
		Operational: OperationalConfig{
			Timeout: 5 * time.Second,
		},
	}
}

// ServerConfig represents configuration for the hybrid content service
type ServerConfig struct {
	Port        string `yaml:"port" env:"PORT" env-default:"8080"`
	Environment string `yaml:"environment" env:"ENVIRONMENT" env-default:"development"` // development, production, testing

	// "memory" or "postgres"; inferred from Content.URL when empty
	DatabaseType string `yaml:"database_type" env:"DATABASE_TYPE"`

	Content     ContentStoreConfig `yaml:"content"`
	Cache       CacheConfig        `yaml:"cache"`
	Operational OperationalConfig  `yaml:"operational"`
}

// ContentStoreConfig configures the relational content store.
type ContentStoreConfig struct {
	URL            string        `yaml:"url" env:"CONTENT_DATABASE_URL"`
	SSL            bool          `yaml:"ssl" env:"CONTENT_DATABASE_SSL"`
	Schema         string        `yaml:"schema" env:"CONTENT_DB_SCHEMA" env-default:"public"`
	PoolMin        int32         `yaml:"pool_min" env:"CONTENT_POOL_MIN" env-default:"2"`
	PoolMax        int32         `yaml:"pool_max" env:"CONTENT_POOL_MAX" env-default:"10"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"CONTENT_CONNECT_TIMEOUT" env-default:"5s"`
	AcquireTimeout time.Duration `yaml:"acquire_timeout" env:"CONTENT_ACQUIRE_TIMEOUT" env-default:"5s"`
	// Migrate creates missing tables at startup.
	Migrate bool `yaml:"migrate" env:"CONTENT_AUTO_MIGRATE"`
}

// CacheConfig configures both cache tiers. An empty RedisURL runs the
// local tier only.
type CacheConfig struct {
	Enabled          bool          `yaml:"enabled" env:"CACHE_ENABLED" env-default:"true"`
	RedisURL         string        `yaml:"redis_url" env:"CACHE_REDIS_URL"`
	Namespace        string        `yaml:"namespace" env:"CACHE_NAMESPACE"`
	OperationTimeout time.Duration `yaml:"operation_timeout" env:"CACHE_OPERATION_TIMEOUT" env-default:"500ms"`
	SweepInterval    time.Duration `yaml:"sweep_interval" env:"CACHE_SWEEP_INTERVAL" env-default:"1m"`
	LocalCapacity    uint64        `yaml:"local_capacity" env:"CACHE_LOCAL_CAPACITY" env-default:"10000"`
}

// OperationalConfig selects the operational store: a REST gateway when
// BaseURL is set, otherwise an in-memory store optionally seeded from a file.
type OperationalConfig struct {
	BaseURL  string        `yaml:"base_url" env:"OPERATIONAL_BASE_URL"`
	Timeout  time.Duration `yaml:"timeout" env:"OPERATIONAL_TIMEOUT" env-default:"5s"`
	SeedFile string        `yaml:"seed_file" env:"OPERATIONAL_SEED_FILE"`
}

// IsDevelopment reports whether the server runs in development mode.
func (c *ServerConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// normalize infers the database type from the content URL when unset.
func (c *ServerConfig) normalize() {
	if c.DatabaseType != "" {
		return
	}
	url := c.Content.URL
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		c.DatabaseType = "postgres"
		return
	}
	c.DatabaseType = "memory"
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}

	if c.DatabaseType == "postgres" && c.Content.URL == "" {
		return errors.New("content database url is required when using postgres")
	}

	if c.Content.PoolMin < 0 || c.Content.PoolMax <= 0 {
		return errors.New("content pool sizes must be positive")
	}
	if c.Content.PoolMin > c.Content.PoolMax {
		return fmt.Errorf("content pool min %d exceeds max %d", c.Content.PoolMin, c.Content.PoolMax)
	}

	if c.Cache.OperationTimeout <= 0 {
		return errors.New("cache operation timeout must be positive")
	}
	if c.Cache.SweepInterval <= 0 {
		return errors.New("cache sweep interval must be positive")
	}

	if c.Operational.BaseURL != "" && c.Operational.SeedFile != "" {
		return errors.New("operational base url and seed file are mutually exclusive")
	}
	if c.Operational.Timeout <= 0 {
		return errors.New("operational timeout must be positive")
	}

	return nil
}
