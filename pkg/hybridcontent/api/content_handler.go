package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/tendant/hybrid-content/pkg/hybridcontent"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/cms"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/resolver"
)

// ContentHandler serves editorial CRUD. Every successful write drops the
// cache entries derived from the written documents.
type ContentHandler struct {
	content  *cms.Service
	resolver *resolver.Resolver
}

// NewContentHandler creates a new content handler
func NewContentHandler(content *cms.Service, r *resolver.Resolver) *ContentHandler {
	return &ContentHandler{content: content, resolver: r}
}

// crud binds the four document operations of one category. invalidate
// receives the documents before and after a write; either may be nil.
type crud[A, P any] struct {
	name       string
	create     func(context.Context, A) (*cms.Document[A], error)
	get        func(context.Context, int64) (*cms.Document[A], error)
	update     func(context.Context, int64, P) (*cms.Document[A], error)
	remove     func(context.Context, int64) (*cms.Document[A], error)
	invalidate func(ctx context.Context, before, after *cms.Document[A]) error
}

func (c crud[A, P]) mount(r chi.Router) {
	r.Post("/", c.handleCreate)
	r.Get("/{id}", c.handleGet)
	r.Patch("/{id}", c.handleUpdate)
	r.Delete("/{id}", c.handleDelete)
}

func (c crud[A, P]) afterWrite(r *http.Request, before, after *cms.Document[A]) {
	if err := c.invalidate(r.Context(), before, after); err != nil {
		slog.Warn("cache invalidation failed", "category", c.name, "error", err, "request_id", RequestIDFrom(r.Context()))
	}
}

func (c crud[A, P]) handleCreate(w http.ResponseWriter, r *http.Request) {
	var attrs A
	if !decodeJSON(w, r, &attrs) {
		return
	}
	doc, err := c.create(r.Context(), attrs)
	if err != nil {
		handleError(w, r, err)
		return
	}
	c.afterWrite(r, nil, doc)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, doc)
}

func (c crud[A, P]) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	doc, err := c.get(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if doc == nil {
		notFound(w, r, c.name)
		return
	}
	render.JSON(w, r, doc)
}

func (c crud[A, P]) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch P
	if !decodeJSON(w, r, &patch) {
		return
	}

	before, err := c.get(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if before == nil {
		notFound(w, r, c.name)
		return
	}
	doc, err := c.update(r.Context(), id, patch)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if doc == nil {
		notFound(w, r, c.name)
		return
	}
	c.afterWrite(r, before, doc)
	render.JSON(w, r, doc)
}

func (c crud[A, P]) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	doc, err := c.remove(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if doc == nil {
		notFound(w, r, c.name)
		return
	}
	c.afterWrite(r, doc, nil)
	w.WriteHeader(http.StatusNoContent)
}

// eachDoc calls fn with every non-nil document.
func eachDoc[A any](fn func(A) error, docs ...*cms.Document[A]) error {
	for _, d := range docs {
		if d == nil {
			continue
		}
		if err := fn(d.Attributes); err != nil {
			return err
		}
	}
	return nil
}

// Routes returns the routes for editorial content
func (h *ContentHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/restaurants", func(r chi.Router) {
		r.Get("/", h.ListRestaurantContent)
		crud[cms.RestaurantContentAttributes, hybridcontent.RestaurantContentPatch]{
			name:   "restaurant content",
			create: h.content.CreateRestaurantContent,
			get:    h.content.GetRestaurantContent,
			update: h.content.UpdateRestaurantContent,
			remove: h.content.DeleteRestaurantContent,
			invalidate: func(ctx context.Context, before, after *cms.Document[cms.RestaurantContentAttributes]) error {
				return eachDoc(func(a cms.RestaurantContentAttributes) error {
					return h.resolver.InvalidateRestaurant(ctx, a.FirebaseID)
				}, before, after)
			},
		}.mount(r)
	})

	r.Route("/menu-categories", func(r chi.Router) {
		r.Get("/", h.ListMenuCategories)
		crud[cms.MenuCategoryAttributes, hybridcontent.MenuCategoryPatch]{
			name:   "menu category",
			create: h.content.CreateMenuCategory,
			get:    h.content.GetMenuCategory,
			update: h.content.UpdateMenuCategory,
			remove: h.content.DeleteMenuCategory,
			invalidate: func(ctx context.Context, before, after *cms.Document[cms.MenuCategoryAttributes]) error {
				return eachDoc(func(a cms.MenuCategoryAttributes) error {
					h.resolver.InvalidateMenu(ctx, a.RestaurantFirebaseID)
					return nil
				}, before, after)
			},
		}.mount(r)
	})

	r.Route("/menu-items", func(r chi.Router) {
		r.Get("/", h.ListMenuItems)
		crud[cms.MenuItemAttributes, hybridcontent.MenuItemPatch]{
			name:   "menu item",
			create: h.content.CreateMenuItem,
			get:    h.content.GetMenuItem,
			update: h.content.UpdateMenuItem,
			remove: h.content.DeleteMenuItem,
			invalidate: func(ctx context.Context, before, after *cms.Document[cms.MenuItemAttributes]) error {
				return eachDoc(func(a cms.MenuItemAttributes) error {
					h.resolver.InvalidateMenu(ctx, a.RestaurantFirebaseID)
					return nil
				}, before, after)
			},
		}.mount(r)
	})

	r.Route("/blog-posts", func(r chi.Router) {
		r.Get("/", h.ListBlogPosts)
		crud[cms.BlogPostAttributes, hybridcontent.BlogPostPatch]{
			name:   "blog post",
			create: h.content.CreateBlogPost,
			get:    h.content.GetBlogPost,
			update: h.content.UpdateBlogPost,
			remove: h.content.DeleteBlogPost,
			invalidate: func(ctx context.Context, before, after *cms.Document[cms.BlogPostAttributes]) error {
				var slugs []string
				_ = eachDoc(func(a cms.BlogPostAttributes) error {
					slugs = append(slugs, a.Slug)
					return nil
				}, before, after)
				return h.resolver.InvalidateBlogPost(ctx, slugs...)
			},
		}.mount(r)
	})

	r.Route("/promotions", func(r chi.Router) {
		r.Get("/", h.ListPromotions)
		r.Post("/{id}/redeem", h.RedeemPromotion)
		crud[cms.PromotionAttributes, hybridcontent.PromotionPatch]{
			name:   "promotion",
			create: h.content.CreatePromotion,
			get:    h.content.GetPromotion,
			update: h.content.UpdatePromotion,
			remove: h.content.DeletePromotion,
			invalidate: func(ctx context.Context, _, _ *cms.Document[cms.PromotionAttributes]) error {
				return h.resolver.InvalidatePromotions(ctx)
			},
		}.mount(r)
	})

	return r
}

func (h *ContentHandler) ListRestaurantContent(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := page(w, r)
	if !ok {
		return
	}
	docs, err := h.content.ListPublishedRestaurantContent(r.Context(), limit, offset)
	if err != nil {
		handleError(w, r, err)
		return
	}
	render.JSON(w, r, docs)
}

// ListMenuCategories requires ?restaurant=<external id>.
func (h *ContentHandler) ListMenuCategories(w http.ResponseWriter, r *http.Request) {
	restaurant := r.URL.Query().Get("restaurant")
	if restaurant == "" {
		writeError(w, r, http.StatusBadRequest, "restaurant query parameter is required")
		return
	}
	docs, err := h.content.ListMenuCategoriesByRestaurant(r.Context(), restaurant)
	if err != nil {
		handleError(w, r, err)
		return
	}
	render.JSON(w, r, docs)
}

// ListMenuItems filters by ?category=<external id> or ?restaurant=<external id>.
func (h *ContentHandler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	var (
		docs []*cms.Document[cms.MenuItemAttributes]
		err  error
	)
	q := r.URL.Query()
	switch {
	case q.Get("category") != "":
		docs, err = h.content.ListMenuItemsByCategory(r.Context(), q.Get("category"))
	case q.Get("restaurant") != "":
		docs, err = h.content.ListMenuItemsByRestaurant(r.Context(), q.Get("restaurant"))
	default:
		writeError(w, r, http.StatusBadRequest, "category or restaurant query parameter is required")
		return
	}
	if err != nil {
		handleError(w, r, err)
		return
	}
	render.JSON(w, r, docs)
}

// ListBlogPosts lists published posts, or the posts related to
// ?restaurant=<external id>.
func (h *ContentHandler) ListBlogPosts(w http.ResponseWriter, r *http.Request) {
	if restaurant := r.URL.Query().Get("restaurant"); restaurant != "" {
		docs, err := h.content.ListBlogPostsByRestaurant(r.Context(), restaurant)
		if err != nil {
			handleError(w, r, err)
			return
		}
		render.JSON(w, r, docs)
		return
	}

	limit, offset, ok := page(w, r)
	if !ok {
		return
	}
	docs, err := h.content.ListPublishedBlogPosts(r.Context(), limit, offset)
	if err != nil {
		handleError(w, r, err)
		return
	}
	render.JSON(w, r, docs)
}

func (h *ContentHandler) ListPromotions(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := page(w, r)
	if !ok {
		return
	}
	docs, err := h.content.ListPromotions(r.Context(), limit, offset)
	if err != nil {
		handleError(w, r, err)
		return
	}
	render.JSON(w, r, docs)
}

// RedeemPromotion increments the usage count, failing with 409 once the
// total limit is reached.
func (h *ContentHandler) RedeemPromotion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	doc, err := h.content.RedeemPromotion(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if doc == nil {
		notFound(w, r, "promotion")
		return
	}
	if err := h.resolver.InvalidatePromotions(r.Context()); err != nil {
		slog.Warn("cache invalidation failed", "category", "promotion", "error", err)
	}
	render.JSON(w, r, doc)
}

func page(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	limit, ok := queryInt(w, r, "limit", 0)
	if !ok {
		return 0, 0, false
	}
	offset, ok := queryInt(w, r, "offset", 0)
	if !ok {
		return 0, 0, false
	}
	return limit, offset, true
}
