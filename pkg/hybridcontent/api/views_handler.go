package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/tendant/hybrid-content/pkg/hybridcontent/resolver"
)

const defaultFeaturedLimit = 5

// ViewHandler serves the read-only hybrid views.
type ViewHandler struct {
	resolver *resolver.Resolver
}

// NewViewHandler creates a new view handler
func NewViewHandler(r *resolver.Resolver) *ViewHandler {
	return &ViewHandler{resolver: r}
}

// Routes returns the routes for hybrid views
func (h *ViewHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/restaurants/search", h.SearchRestaurants)
	r.Get("/restaurants/{externalID}", h.GetRestaurant)
	r.Get("/restaurants/{externalID}/menu", h.GetMenu)
	r.Get("/restaurants/{externalID}/content", h.GetRestaurantContent)
	r.Get("/restaurants/{externalID}/promotions", h.GetRestaurantPromotions)

	r.Get("/blog/featured", h.GetFeaturedBlogPosts)
	r.Get("/blog/{slug}", h.GetBlogPost)

	r.Get("/promotions/active", h.GetActivePromotions)

	return r
}

// GetRestaurant merges the operational restaurant with its content.
func (h *ViewHandler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "externalID")
	view, err := h.resolver.GetRestaurantComplete(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if view == nil {
		notFound(w, r, "restaurant")
		return
	}
	render.JSON(w, r, view)
}

func (h *ViewHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "externalID")
	menu, err := h.resolver.GetMenuComplete(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if menu == nil {
		notFound(w, r, "restaurant")
		return
	}
	render.JSON(w, r, menu)
}

// SearchRestaurants takes a resolver.SearchQuery body.
func (h *ViewHandler) SearchRestaurants(w http.ResponseWriter, r *http.Request) {
	var q resolver.SearchQuery
	if !decodeJSON(w, r, &q) {
		return
	}
	results, err := h.resolver.SearchRestaurantsWithContent(r.Context(), q)
	if err != nil {
		handleError(w, r, err)
		return
	}
	render.JSON(w, r, results)
}

func (h *ViewHandler) GetRestaurantContent(w http.ResponseWriter, r *http.Request) {
	doc, err := h.resolver.RestaurantContent(r.Context(), chi.URLParam(r, "externalID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if doc == nil {
		notFound(w, r, "restaurant content")
		return
	}
	render.JSON(w, r, doc)
}

func (h *ViewHandler) GetRestaurantPromotions(w http.ResponseWriter, r *http.Request) {
	docs, err := h.resolver.RestaurantPromotions(r.Context(), chi.URLParam(r, "externalID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	render.JSON(w, r, docs)
}

func (h *ViewHandler) GetBlogPost(w http.ResponseWriter, r *http.Request) {
	doc, err := h.resolver.BlogPostBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if doc == nil {
		notFound(w, r, "blog post")
		return
	}
	render.JSON(w, r, doc)
}

func (h *ViewHandler) GetFeaturedBlogPosts(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit", defaultFeaturedLimit)
	if !ok {
		return
	}
	docs, err := h.resolver.FeaturedBlogPosts(r.Context(), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	render.JSON(w, r, docs)
}

func (h *ViewHandler) GetActivePromotions(w http.ResponseWriter, r *http.Request) {
	docs, err := h.resolver.ActivePromotions(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	render.JSON(w, r, docs)
}
