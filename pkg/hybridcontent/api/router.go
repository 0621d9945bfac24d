// Package api is the HTTP surface of the hybrid content service.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/tendant/hybrid-content/pkg/hybridcontent/cache"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/cms"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/resolver"
)

// RouterConfig lists the dependencies of NewRouter. Cache defaults to the
// resolver's cache manager.
type RouterConfig struct {
	Content  *cms.Service
	Resolver *resolver.Resolver
	Cache    *cache.Manager
	Logger   *slog.Logger
}

// NewRouter mounts every handler:
//
//	/v1/views/...    hybrid views and cached content reads
//	/v1/content/...  editorial CRUD
//	/v1/cache/...    cache administration
func NewRouter(cfg RouterConfig) chi.Router {
	if cfg.Cache == nil {
		cfg.Cache = cfg.Resolver.Cache()
	}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(RecoveryMiddleware)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Mount("/views", NewViewHandler(cfg.Resolver).Routes())
		r.Mount("/content", NewContentHandler(cfg.Content, cfg.Resolver).Routes())
		r.Mount("/cache", NewCacheHandler(cfg.Cache).Routes())
	})

	return r
}
