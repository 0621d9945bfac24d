// Package resolver serves composite views that merge live operational
// records with editorial content, reading through the two-tier cache.
//
// Every view follows the same sequence: check the cache, fetch the
// operational record, fetch content on a best-effort basis, merge, write the
// merged view back. A missing operational record yields nil and is never
// cached. Operational store failures and content store timeouts are
// returned; other content failures only mark the view as having no rich
// content.
package resolver

import (
	"cmp"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tendant/hybrid-content/pkg/hybridcontent"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/cache"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/cms"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/contentstore"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/operational"
)

// Operational fields that link menus to restaurants.
const (
	FieldRestaurantID = "restaurantId"
	FieldCategoryID   = "categoryId"
	FieldSortOrder    = "sortOrder"
)

// DefaultSearchConcurrency bounds concurrent content lookups per search.
const DefaultSearchConcurrency = 8

// ContentSource is the content read surface the resolver needs.
// *cms.Service implements it.
type ContentSource interface {
	GetRestaurantContentByExternalID(ctx context.Context, externalID string) (*cms.Document[cms.RestaurantContentAttributes], error)
	ListMenuCategoriesByRestaurant(ctx context.Context, restaurantExternalID string) ([]*cms.Document[cms.MenuCategoryAttributes], error)
	ListMenuItemsByRestaurant(ctx context.Context, restaurantExternalID string) ([]*cms.Document[cms.MenuItemAttributes], error)
	GetBlogPostBySlug(ctx context.Context, slug string) (*cms.Document[cms.BlogPostAttributes], error)
	ListFeaturedBlogPosts(ctx context.Context, limit int) ([]*cms.Document[cms.BlogPostAttributes], error)
	ListActivePromotions(ctx context.Context) ([]*cms.Document[cms.PromotionAttributes], error)
	ListPromotionsByRestaurant(ctx context.Context, restaurantExternalID string) ([]*cms.Document[cms.PromotionAttributes], error)
}

var _ ContentSource = (*cms.Service)(nil)

// Resolver builds hybrid views.
type Resolver struct {
	ops     operational.Store
	content ContentSource
	cache   *cache.Manager
	logger  *slog.Logger
	now     func() time.Time

	searchConcurrency int
}

// Option configures a Resolver.
type Option func(*Resolver)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClock sets the time source stamped into views and used to re-check
// cached promotion windows.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// WithSearchConcurrency bounds concurrent content lookups per search.
func WithSearchConcurrency(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.searchConcurrency = n
		}
	}
}

// New creates a Resolver. A nil cache manager disables caching.
func New(ops operational.Store, content ContentSource, cm *cache.Manager, opts ...Option) *Resolver {
	if cm == nil {
		cm = cache.New(cache.WithEnabled(false))
	}
	r := &Resolver{
		ops:               ops,
		content:           content,
		cache:             cm,
		logger:            slog.Default(),
		now:               time.Now,
		searchConcurrency: DefaultSearchConcurrency,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Cache returns the cache manager the resolver reads through.
func (r *Resolver) Cache() *cache.Manager {
	return r.cache
}

func (r *Resolver) store(ctx context.Context, key string, value any, ttl time.Duration) {
	if err := r.cache.Set(ctx, key, value, ttl); err != nil {
		r.logger.Warn("cache write skipped", "key", key, "error", err)
	}
}

// GetRestaurantComplete returns the restaurant merged with its content, or
// nil when the operational store has no such restaurant.
func (r *Resolver) GetRestaurantComplete(ctx context.Context, externalID string) (*HybridRestaurant, error) {
	key := cache.CategoryHybridRestaurant.Key(externalID)
	if v, ok := cache.Get[HybridRestaurant](ctx, r.cache, key); ok {
		return &v, nil
	}

	rec, err := r.ops.GetByID(ctx, operational.CollectionRestaurants, externalID)
	if err != nil {
		return nil, fmt.Errorf("get restaurant %q: %w", externalID, err)
	}
	if rec == nil {
		return nil, nil
	}

	attrs, err := r.restaurantAttributes(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("get restaurant %q: %w", externalID, err)
	}
	view := merge(rec, attrs, r.now())
	r.store(ctx, key, view, cache.CategoryHybridRestaurant.TTL())
	return &view, nil
}

// restaurantAttributes is the best-effort content fetch. Failures are
// logged and reported as no content, except a content store timeout which
// is returned.
func (r *Resolver) restaurantAttributes(ctx context.Context, externalID string) (*cms.RestaurantContentAttributes, error) {
	doc, err := r.content.GetRestaurantContentByExternalID(ctx, externalID)
	if err != nil {
		if timedOut(err) {
			return nil, err
		}
		r.logger.Warn("restaurant content unavailable", "firebase_id", externalID, "error", err)
		return nil, nil
	}
	if doc == nil {
		return nil, nil
	}
	return &doc.Attributes, nil
}

// timedOut reports a content store timeout. Timeouts propagate out of a
// view; every other content failure degrades it.
func timedOut(err error) bool {
	return errors.Is(err, contentstore.ErrPoolTimeout)
}

// GetMenuComplete returns every operational category and item of a
// restaurant merged with their content, or nil when the restaurant does not
// exist.
func (r *Resolver) GetMenuComplete(ctx context.Context, restaurantExternalID string) (*HybridMenu, error) {
	key := cache.CategoryHybridMenu.Key(restaurantExternalID)
	if v, ok := cache.Get[HybridMenu](ctx, r.cache, key); ok {
		return &v, nil
	}

	rec, err := r.ops.GetByID(ctx, operational.CollectionRestaurants, restaurantExternalID)
	if err != nil {
		return nil, fmt.Errorf("get restaurant %q: %w", restaurantExternalID, err)
	}
	if rec == nil {
		return nil, nil
	}

	var (
		opCategories, opItems []operational.Record
		contentCategories     []*cms.Document[cms.MenuCategoryAttributes]
		contentItems          []*cms.Document[cms.MenuItemAttributes]
	)
	byRestaurant := []operational.Filter{operational.Where(FieldRestaurantID, operational.OpEqual, restaurantExternalID)}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		opCategories, err = r.ops.Query(gctx, operational.CollectionMenuCategories, byRestaurant, 0)
		return err
	})
	g.Go(func() error {
		var err error
		opItems, err = r.ops.Query(gctx, operational.CollectionMenuItems, byRestaurant, 0)
		return err
	})
	g.Go(func() error {
		docs, err := r.content.ListMenuCategoriesByRestaurant(gctx, restaurantExternalID)
		if err != nil {
			if timedOut(err) {
				return err
			}
			r.logger.Warn("menu category content unavailable", "restaurant_firebase_id", restaurantExternalID, "error", err)
			return nil
		}
		contentCategories = docs
		return nil
	})
	g.Go(func() error {
		docs, err := r.content.ListMenuItemsByRestaurant(gctx, restaurantExternalID)
		if err != nil {
			if timedOut(err) {
				return err
			}
			r.logger.Warn("menu item content unavailable", "restaurant_firebase_id", restaurantExternalID, "error", err)
			return nil
		}
		contentItems = docs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("get menu %q: %w", restaurantExternalID, err)
	}

	now := r.now()
	menu := buildMenu(restaurantExternalID, opCategories, opItems,
		attributesByFirebaseID(contentCategories, func(a cms.MenuCategoryAttributes) string { return a.FirebaseID }),
		attributesByFirebaseID(contentItems, func(a cms.MenuItemAttributes) string { return a.FirebaseID }),
		now)
	r.store(ctx, key, menu, cache.CategoryHybridMenu.TTL())
	return &menu, nil
}

func attributesByFirebaseID[A any](docs []*cms.Document[A], id func(A) string) map[string]*A {
	out := make(map[string]*A, len(docs))
	for _, d := range docs {
		out[id(d.Attributes)] = &d.Attributes
	}
	return out
}

func buildMenu(
	restaurantID string,
	opCategories, opItems []operational.Record,
	categoryContent map[string]*cms.MenuCategoryAttributes,
	itemContent map[string]*cms.MenuItemAttributes,
	now time.Time,
) HybridMenu {
	sections := make([]MenuSection, 0, len(opCategories))
	for _, c := range opCategories {
		sections = append(sections, MenuSection{
			Category: merge(c, categoryContent[c.ID()], now),
			Items:    []HybridMenuItem{},
		})
	}
	slices.SortStableFunc(sections, func(a, b MenuSection) int {
		return cmp.Compare(sortOrder(a.Category), sortOrder(b.Category))
	})

	index := make(map[string]int, len(sections))
	for i, s := range sections {
		index[s.Category.ID()] = i
	}

	menu := HybridMenu{RestaurantID: restaurantID, Sections: sections, LastUpdated: now}
	for _, it := range opItems {
		view := merge(it, itemContent[it.ID()], now)
		if i, ok := index[it.String(FieldCategoryID)]; ok {
			menu.Sections[i].Items = append(menu.Sections[i].Items, view)
			continue
		}
		menu.Uncategorized = append(menu.Uncategorized, view)
	}
	return menu
}

// sortOrder prefers the editorial order and falls back to the operational
// one. Categories with neither sort last.
func sortOrder(c HybridMenuCategory) float64 {
	if c.Content != nil {
		return float64(c.Content.SortOrder)
	}
	if n, ok := c.Operational[FieldSortOrder].(float64); ok {
		return n
	}
	return float64(1 << 30)
}

// SearchQuery selects operational restaurants.
type SearchQuery struct {
	Filters []operational.Filter `json:"filters"`
	Limit   int                  `json:"limit"`
}

func (q SearchQuery) key() (string, error) {
	data, err := json.Marshal(q)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return cache.CategorySearch.Key("restaurants", hex.EncodeToString(sum[:12])), nil
}

// SearchRestaurantsWithContent queries operational restaurants and merges
// each with its content. A failed content lookup only affects its own
// entry. The limit defaults to 20 and is capped at 100. Empty results are
// not cached.
func (r *Resolver) SearchRestaurantsWithContent(ctx context.Context, q SearchQuery) ([]HybridRestaurant, error) {
	q.Limit, _ = hybridcontent.ClampPage(q.Limit, 0)
	key, err := q.key()
	if err != nil {
		return nil, fmt.Errorf("search restaurants: %w", err)
	}
	if v, ok := cache.Get[[]HybridRestaurant](ctx, r.cache, key); ok {
		return v, nil
	}

	recs, err := r.ops.Query(ctx, operational.CollectionRestaurants, q.Filters, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("search restaurants: %w", err)
	}

	now := r.now()
	out := make([]HybridRestaurant, len(recs))
	var g errgroup.Group
	g.SetLimit(r.searchConcurrency)
	for i, rec := range recs {
		g.Go(func() error {
			attrs, err := r.restaurantAttributes(ctx, rec.ID())
			if err != nil {
				return err
			}
			out[i] = merge(rec, attrs, now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("search restaurants: %w", err)
	}

	if len(out) > 0 {
		r.store(ctx, key, out, cache.CategorySearch.TTL())
	}
	return out, nil
}
