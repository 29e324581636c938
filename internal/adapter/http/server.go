// Package http serves the atlas pages, the JSON API, gallery images and the
// operational endpoints.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/haneulgyeol/cloud-atlas/internal/assets"
	"github.com/haneulgyeol/cloud-atlas/internal/cache"
	"github.com/haneulgyeol/cloud-atlas/internal/catalog"
	"github.com/haneulgyeol/cloud-atlas/internal/config"
	"github.com/haneulgyeol/cloud-atlas/internal/domain"
	"github.com/haneulgyeol/cloud-atlas/internal/observability"
	"github.com/haneulgyeol/cloud-atlas/internal/view"
)

// Server exposes the atlas over HTTP.
type Server struct {
	httpServer *http.Server
	catalog    *catalog.Catalog
	assets     assets.Store
	classifier domain.Classifier
	renderer   *view.Renderer
	sessions   *cache.LRU[string, *view.IdentifyPanel]
	limiter    *rate.Limiter
	cfg        *config.Config
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer wires the routes. The classifier is shared by every session; each
// browser gets its own identify panel keyed by a session cookie.
func NewServer(cfg *config.Config, cat *catalog.Catalog, store assets.Store, classifier domain.Classifier, metrics *observability.Metrics, logger *slog.Logger) (*Server, error) {
	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	mux := http.NewServeMux()
	s := &Server{
		httpServer: &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: mux,
			// Uploads wait on the classifier, so the write deadline follows its timeout.
			ReadTimeout:  10 * time.Second,
			WriteTimeout: cfg.ClassifierTimeout + 10*time.Second,
			IdleTimeout:  60 * time.Second,
		},
		catalog:    cat,
		assets:     store,
		classifier: classifier,
		renderer:   renderer,
		sessions:   cache.New[string, *view.IdentifyPanel](cfg.SessionCacheSize),
		limiter:    rate.NewLimiter(rate.Limit(cfg.ClassifyRate), cfg.ClassifyBurst),
		cfg:        cfg,
		metrics:    metrics,
		logger:     logger,
	}
	metrics.CatalogGenera.Set(float64(len(cat.Genera())))
	s.sessions.OnEvict(func(id string, _ *view.IdentifyPanel) {
		logger.Debug("identify session evicted", "session", id)
	})

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(s))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/genera", s.handleListGenera)
	mux.HandleFunc("GET /api/genera/{code}", s.handleGetGenus)
	mux.HandleFunc("GET /api/taxonomy/{category}", s.handleTaxonomy)
	mux.HandleFunc("GET /api/sub/{category}/{name}", s.handleSubItem)
	mux.HandleFunc("POST /api/classify", s.handleClassify)
	mux.HandleFunc("GET /api/classify/latest", s.handleLatest)

	mux.HandleFunc("GET /clouds/{path...}", s.handleAsset)

	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("POST /identify", s.handleIdentifyForm)
	mux.HandleFunc("GET /atlas", s.handleAtlas)
	mux.HandleFunc("GET /atlas/taxonomy", s.handleTaxonomyPage)
	mux.HandleFunc("GET /atlas/{code}", s.handleGenusPage)
	mux.HandleFunc("GET /atlas/sub/{category}/{name}", s.handleSubPage)
	mux.HandleFunc("/", s.handleNotFound)

	return s, nil
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr, "asset_driver", s.assets.Driver())
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// CheckReadiness reports ready once the catalog is loaded and the asset store
// answers a listing of the first gallery.
func (s *Server) CheckReadiness(ctx context.Context) error {
	genera := s.catalog.Genera()
	if len(genera) == 0 {
		return errors.New("catalog is empty")
	}
	if _, err := s.assets.List(ctx, assets.GalleryPrefix(genera[0].Code)); err != nil {
		return fmt.Errorf("asset store: %w", err)
	}
	return nil
}

// gallery returns the catalog gallery of g, or the images found in the asset
// store when the catalog lists none.
func (s *Server) gallery(ctx context.Context, g domain.Genus) []domain.Image {
	if len(g.Gallery) > 0 {
		return g.Gallery
	}
	images, err := assets.DiscoverGallery(ctx, s.assets, assets.GalleryPrefix(g.Code))
	if err != nil {
		s.logger.Warn("gallery discovery failed", "genus", g.Code, "error", err)
		return nil
	}
	return images
}

func (s *Server) recordSearch(scope, query string, level domain.LevelFilter, n int) {
	if query == "" && (level == domain.LevelAll || level == "") {
		return
	}
	s.metrics.Searches.WithLabelValues(scope).Inc()
	s.metrics.SearchResults.WithLabelValues(scope).Observe(float64(n))
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, errorResponse{Error: msg})
}
