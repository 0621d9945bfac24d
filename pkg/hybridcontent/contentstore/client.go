// Package contentstore is the pooled Postgres client behind the content
// repositories. Every call checks a connection out of a bounded pool, runs
// its statement and releases the connection on every exit path.
package contentstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is an interface that allows us to use either a pooled connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Handle is the scoped query surface accepted by Query, QueryOne and Exec.
// It is implemented by *Client and by the handle passed to a transaction.
type Handle interface {
	withDB(ctx context.Context, fn func(DBTX) error) error
}

// Config configures the connection pool.
type Config struct {
	URL            string
	SSL            bool
	Schema         string
	MinConns       int32
	MaxConns       int32
	ConnectTimeout time.Duration
	// AcquireTimeout bounds how long a caller waits for a free connection.
	AcquireTimeout time.Duration
}

const (
	defaultMaxConns       = 10
	defaultConnectTimeout = 5 * time.Second
	defaultAcquireTimeout = 5 * time.Second
)

// Client executes statements against the content store.
type Client struct {
	pool           *pgxpool.Pool
	acquireTimeout time.Duration
	logger         *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithAcquireTimeout overrides the pool checkout timeout.
func WithAcquireTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.acquireTimeout = d
		}
	}
}

// PoolConfig translates cfg into a pgxpool configuration.
func PoolConfig(cfg Config) (*pgxpool.Config, error) {
	if cfg.URL == "" {
		return nil, errors.New("content store URL is required")
	}
	if cfg.MinConns < 0 || cfg.MaxConns < 0 {
		return nil, errors.New("pool sizes must not be negative")
	}
	if cfg.MaxConns > 0 && cfg.MinConns > cfg.MaxConns {
		return nil, fmt.Errorf("pool min size %d exceeds max size %d", cfg.MinConns, cfg.MaxConns)
	}

	poolCfg, err := pgxpool.ParseConfig(withSSLMode(cfg.URL, cfg.SSL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse content store URL: %w", err)
	}

	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConns = cfg.MaxConns
	if poolCfg.MaxConns == 0 {
		poolCfg.MaxConns = defaultMaxConns
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	if poolCfg.ConnConfig.ConnectTimeout <= 0 {
		poolCfg.ConnConfig.ConnectTimeout = defaultConnectTimeout
	}

	if schema := cfg.Schema; schema != "" {
		poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			_, err := conn.Exec(ctx, "SET search_path TO "+pgx.Identifier{schema}.Sanitize())
			return err
		}
	}

	return poolCfg, nil
}

// withSSLMode adds an sslmode parameter when the connection string has none.
func withSSLMode(conn string, ssl bool) string {
	mode := "disable"
	if ssl {
		mode = "require"
	}

	if strings.Contains(conn, "://") {
		u, err := url.Parse(conn)
		if err != nil {
			return conn
		}
		q := u.Query()
		if q.Get("sslmode") == "" {
			q.Set("sslmode", mode)
			u.RawQuery = q.Encode()
		}
		return u.String()
	}

	if strings.Contains(conn, "sslmode=") {
		return conn
	}
	return strings.TrimSpace(conn + " sslmode=" + mode)
}

// New creates a pool from cfg and verifies connectivity.
func New(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	poolCfg, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, poolCfg.ConnConfig.ConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if cfg.AcquireTimeout > 0 {
		opts = append([]Option{WithAcquireTimeout(cfg.AcquireTimeout)}, opts...)
	}
	return NewWithPool(pool, opts...), nil
}

// NewWithPool wraps an existing pool.
func NewWithPool(pool *pgxpool.Pool, opts ...Option) *Client {
	c := &Client{
		pool:           pool,
		acquireTimeout: defaultAcquireTimeout,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Pool exposes the underlying pool.
func (c *Client) Pool() *pgxpool.Pool {
	return c.pool
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.withDB(ctx, func(db DBTX) error {
		_, err := db.Exec(ctx, "SELECT 1")
		return err
	})
}

// Stat returns pool statistics.
func (c *Client) Stat() *pgxpool.Stat {
	return c.pool.Stat()
}

// Close closes every pooled connection.
func (c *Client) Close() {
	c.pool.Close()
}

func (c *Client) acquire(ctx context.Context) (*pgxpool.Conn, error) {
	acquireCtx, cancel := context.WithTimeout(ctx, c.acquireTimeout)
	defer cancel()

	conn, err := c.pool.Acquire(acquireCtx)
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return nil, &QueryError{Op: "acquire", Err: ErrPoolTimeout}
		}
		return nil, &QueryError{Op: "acquire", Err: err}
	}
	return conn, nil
}

func (c *Client) withDB(ctx context.Context, fn func(DBTX) error) error {
	conn, err := c.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()
	return fn(conn)
}

// Transaction runs fn inside BEGIN/COMMIT on a single connection. Any error
// returned by fn, or a failed commit, rolls the transaction back and is
// returned to the caller. A panic in fn rolls back and re-panics.
func (c *Client) Transaction(ctx context.Context, fn func(ctx context.Context, tx Handle) error) (err error) {
	conn, err := c.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	pgTx, err := conn.Begin(ctx)
	if err != nil {
		return wrapError("begin", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := pgTx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			c.logger.Warn("content store rollback failed", "error", rbErr)
		}
		if r := recover(); r != nil {
			panic(r)
		}
	}()

	if err := fn(ctx, txHandle{tx: pgTx}); err != nil {
		return err
	}

	if err := pgTx.Commit(ctx); err != nil {
		return wrapError("commit", err)
	}
	committed = true
	return nil
}

type txHandle struct {
	tx pgx.Tx
}

func (h txHandle) withDB(_ context.Context, fn func(DBTX) error) error {
	return fn(h.tx)
}

// FromDBTX adapts a connection or transaction owned by the caller.
func FromDBTX(db DBTX) Handle {
	return dbHandle{db: db}
}

type dbHandle struct {
	db DBTX
}

func (h dbHandle) withDB(_ context.Context, fn func(DBTX) error) error {
	return fn(h.db)
}

// Query runs sql and maps each row with scan.
func Query[T any](ctx context.Context, h Handle, sql string, scan pgx.RowToFunc[T], args ...any) ([]T, error) {
	var out []T
	err := h.withDB(ctx, func(db DBTX) error {
		rows, err := db.Query(ctx, sql, args...)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, scan)
		return err
	})
	if err != nil {
		return nil, wrapError("query", err)
	}
	return out, nil
}

// QueryOne runs sql and maps the first row with scan. It returns the zero
// value of T and a nil error when no row matches.
func QueryOne[T any](ctx context.Context, h Handle, sql string, scan pgx.RowToFunc[T], args ...any) (T, error) {
	var out T
	err := h.withDB(ctx, func(db DBTX) error {
		rows, err := db.Query(ctx, sql, args...)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, scan)
		return err
	})
	if err != nil {
		var zero T
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, nil
		}
		return zero, wrapError("query one", err)
	}
	return out, nil
}

// Exec runs a statement that returns no rows and reports the affected count.
func Exec(ctx context.Context, h Handle, sql string, args ...any) (int64, error) {
	var affected int64
	err := h.withDB(ctx, func(db DBTX) error {
		tag, err := db.Exec(ctx, sql, args...)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, wrapError("exec", err)
	}
	return affected, nil
}
