package memory

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/tendant/hybrid-content/pkg/hybridcontent"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/contentstore"
)

// Repository implements hybridcontent.Repository using in-memory storage.
// It enforces the same unique keys as the relational schema and hands out
// copies so callers cannot mutate stored rows.
type Repository struct {
	mu     sync.RWMutex
	now    func() time.Time
	nextID int64

	restaurantContents map[int64]*hybridcontent.RestaurantContent
	menuCategories     map[int64]*hybridcontent.MenuCategory
	menuItems          map[int64]*hybridcontent.MenuItem
	blogPosts          map[int64]*hybridcontent.BlogPost
	promotions         map[int64]*hybridcontent.Promotion
}

var _ hybridcontent.Repository = (*Repository)(nil)

// Option configures a Repository.
type Option func(*Repository)

// WithClock overrides the clock used for timestamps and promotion windows.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

// New creates a new in-memory repository
func New(opts ...Option) *Repository {
	r := &Repository{
		now:                time.Now,
		restaurantContents: make(map[int64]*hybridcontent.RestaurantContent),
		menuCategories:     make(map[int64]*hybridcontent.MenuCategory),
		menuItems:          make(map[int64]*hybridcontent.MenuItem),
		blogPosts:          make(map[int64]*hybridcontent.BlogPost),
		promotions:         make(map[int64]*hybridcontent.Promotion),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// allocate returns the next id and the current time. Callers hold mu.
func (r *Repository) allocate() (int64, time.Time) {
	r.nextID++
	return r.nextID, r.now().UTC()
}

func duplicate(op, key string) error {
	return &contentstore.QueryError{Op: op, Err: fmt.Errorf("%w: %s", contentstore.ErrDuplicate, key)}
}

// sortedValues returns the map values ordered by id.
func sortedValues[T any](rows map[int64]*T, id func(*T) int64) []*T {
	out := make([]*T, 0, len(rows))
	for _, row := range rows {
		out = append(out, row)
	}
	slices.SortFunc(out, func(a, b *T) int { return cmp.Compare(id(a), id(b)) })
	return out
}

// page applies limit/offset to an already ordered slice.
func page[T any](rows []T, limit, offset int) []T {
	limit, offset = hybridcontent.ClampPage(limit, offset)
	if offset >= len(rows) {
		return []T{}
	}
	end := min(offset+limit, len(rows))
	return rows[offset:end]
}

// newestPublishedFirst orders by published time descending, unpublished
// times last, then by id descending.
func newestPublishedFirst(a, b *time.Time, idA, idB int64) int {
	switch {
	case a != nil && b != nil && !a.Equal(*b):
		return b.Compare(*a)
	case a != nil && b == nil:
		return -1
	case a == nil && b != nil:
		return 1
	}
	return cmp.Compare(idB, idA)
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneSEO(s hybridcontent.SEOData) hybridcontent.SEOData {
	s.Keywords = slices.Clone(s.Keywords)
	return s
}

func list[T any](v []T) []T {
	return slices.Clone(contentstore.EmptyList(v))
}

func apply[T any](dst *T, o hybridcontent.Optional[T]) {
	if v, ok := o.Get(); ok {
		*dst = v
	}
}

func applyList[T any](dst *[]T, o hybridcontent.Optional[[]T]) {
	if v, ok := o.Get(); ok {
		*dst = list(v)
	}
}

func applyPtr[T any](dst **T, o hybridcontent.Optional[*T]) {
	if v, ok := o.Get(); ok {
		*dst = clonePtr(v)
	}
}
