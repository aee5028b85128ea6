package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/storeline/products/internal/auth"
	"github.com/storeline/products/internal/service"
	"github.com/storeline/products/internal/storage"
	"github.com/storeline/products/pkg/health"
	"github.com/storeline/products/pkg/middleware"
)

// RouterConfig collects what NewRouter wires together.
type RouterConfig struct {
	Products *service.ProductService
	Reviews  *service.ReviewService
	Images   storage.Storage
	Tokens   middleware.TokenValidator
	Health   *health.Handler

	// Registry backs both the HTTP metrics and the /metrics endpoint.
	// Nil disables both.
	Registry *prometheus.Registry

	// UploadDir is served under UploadURLPrefix when set.
	UploadDir       string
	UploadURLPrefix string
	MaxUploadBytes  int64

	CORS        middleware.CORSConfig
	ServiceName string
	Logger      *slog.Logger
}

// NewRouter creates a chi router with all product service routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing())
	if cfg.Registry != nil {
		r.Use(middleware.NewHTTPMetrics(cfg.Registry, cfg.ServiceName).Middleware)
	}
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	if cfg.Health != nil {
		r.Get("/health/live", cfg.Health.LivenessHandler())
		r.Get("/health/ready", cfg.Health.ReadinessHandler())
	}
	if cfg.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))
	}

	// Uploaded images
	if cfg.UploadDir != "" {
		prefix := "/" + strings.Trim(cfg.UploadURLPrefix, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.UploadDir))))
	}

	productHandler := NewProductHandler(cfg.Products, cfg.Images, cfg.MaxUploadBytes, logger)
	reviewHandler := NewReviewHandler(cfg.Reviews, logger)
	authenticated := middleware.Auth(cfg.Tokens)

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", productHandler.ListProducts)
		r.Post("/search", productHandler.SearchProducts)
		r.Get("/{id}", productHandler.GetProduct)
		r.Delete("/{id}", productHandler.DeleteProduct)
		r.Get("/{id}/review", reviewHandler.ListReviews)

		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			// Re-enrich the request logger now that the user is known.
			r.Use(middleware.RequestLogger(logger))

			r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/", productHandler.CreateProduct)
			r.Post("/{id}/review", reviewHandler.CreateReview)
		})
	})

	return r
}
