package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/tendant/hybrid-content/pkg/hybridcontent/cache"
)

// CacheHandler exposes cache statistics and purges.
type CacheHandler struct {
	cache *cache.Manager
}

func NewCacheHandler(m *cache.Manager) *CacheHandler {
	return &CacheHandler{cache: m}
}

// Routes returns the routes for cache administration
func (h *CacheHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/stats", h.GetStats)
	r.Post("/purge", h.Purge)
	r.Delete("/categories/{category}", h.PurgeCategory)
	r.Delete("/keys/{key}", h.DeleteKey)

	return r
}

func (h *CacheHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.cache.Stats())
}

// PurgeRequest selects keys by glob pattern, e.g. "restaurant:*".
type PurgeRequest struct {
	Pattern string `json:"pattern"`
}

func (h *CacheHandler) Purge(w http.ResponseWriter, r *http.Request) {
	var req PurgeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Pattern == "" {
		writeError(w, r, http.StatusBadRequest, "pattern is required")
		return
	}
	res, err := h.cache.DeletePattern(r.Context(), req.Pattern)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	render.JSON(w, r, res)
}

func (h *CacheHandler) PurgeCategory(w http.ResponseWriter, r *http.Request) {
	c, ok := cache.ParseCategory(chi.URLParam(r, "category"))
	if !ok {
		notFound(w, r, "cache category")
		return
	}
	res, err := h.cache.InvalidateCategory(r.Context(), c)
	if err != nil {
		handleError(w, r, err)
		return
	}
	render.JSON(w, r, res)
}

func (h *CacheHandler) DeleteKey(w http.ResponseWriter, r *http.Request) {
	h.cache.Delete(r.Context(), chi.URLParam(r, "key"))
	w.WriteHeader(http.StatusNoContent)
}
