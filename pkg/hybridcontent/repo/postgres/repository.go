package postgres

import (
	"context"
	"time"

	"github.com/tendant/hybrid-content/pkg/hybridcontent"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/contentstore"
)

// Repository implements hybridcontent.Repository on the content store client
type Repository struct {
	client *contentstore.Client
	now    func() time.Time
}

var _ hybridcontent.Repository = (*Repository)(nil)

// Option configures a Repository.
type Option func(*Repository)

// WithClock overrides the clock used for time-windowed promotion queries.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

// New creates a new PostgreSQL repository
func New(client *contentstore.Client, opts ...Option) *Repository {
	r := &Repository{client: client, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Ping verifies the content store is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}
