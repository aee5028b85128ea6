package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/storeline/products/internal/auth"
	"github.com/storeline/products/internal/config"
	"github.com/storeline/products/internal/event"
	handler "github.com/storeline/products/internal/handler/http"
	"github.com/storeline/products/internal/repository/postgres"
	"github.com/storeline/products/internal/service"
	"github.com/storeline/products/internal/storage/disk"
	"github.com/storeline/products/pkg/database"
	"github.com/storeline/products/pkg/health"
	pkgkafka "github.com/storeline/products/pkg/kafka"
	"github.com/storeline/products/pkg/middleware"
	"github.com/storeline/products/pkg/tracing"
)

// Version is stamped at build time with -ldflags "-X ...app.Version=".
var Version = "dev"

// App wires together all dependencies and runs the products service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	producer       *pkgkafka.Producer
	tracerShutdown tracing.ShutdownFunc
	httpServer     *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Tracing goes first so the pool's startup queries are traced too.
	tracerShutdown, err := tracing.Init(ctx, tracing.Config{
		Enabled:        cfg.OTELEnabled,
		ServiceName:    cfg.ServiceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	database.SetSlowQueryLogging(cfg.SlowQueryThreshold(), logger)

	// Initialize PostgreSQL connection pool.
	pool, err := database.NewPostgresPool(ctx, cfg.Postgres(), logger)
	if err != nil {
		_ = tracerShutdown(context.Background())
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	// Metrics registry.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := database.RegisterPoolMetrics(registry, pool, cfg.ServiceName); err != nil {
		pool.Close()
		_ = tracerShutdown(context.Background())
		return nil, fmt.Errorf("register pool metrics: %w", err)
	}

	// Image storage.
	images, err := disk.New(cfg.UploadDir, cfg.UploadURLPrefix)
	if err != nil {
		pool.Close()
		_ = tracerShutdown(context.Background())
		return nil, fmt.Errorf("open upload dir: %w", err)
	}

	// Domain events.
	var (
		producer  *pkgkafka.Producer
		publisher service.EventPublisher = event.Noop{}
	)
	if cfg.KafkaEnabled {
		producer = pkgkafka.NewProducer(pkgkafka.ProducerConfig{
			Brokers:      cfg.KafkaBrokers,
			BatchTimeout: 10 * time.Millisecond,
			WriteTimeout: 5 * time.Second,
		}, logger)
		publisher = event.NewPublisher(producer)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Build the dependency graph.
	productRepo := postgres.NewProductRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)
	productService := service.NewProductService(productRepo, images, publisher, logger)
	reviewService := service.NewReviewService(reviewRepo, publisher, logger)
	tokens := auth.NewTokenValidator(cfg.JWTSecret)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.RegisterOptional("uploads", images.Ping)
	if producer != nil {
		healthHandler.RegisterOptional("kafka", producer.Ping)
	}

	// HTTP router.
	router := handler.NewRouter(handler.RouterConfig{
		Products:        productService,
		Reviews:         reviewService,
		Images:          images,
		Tokens:          tokens.Validate,
		Health:          healthHandler,
		Registry:        registry,
		UploadDir:       images.Dir(),
		UploadURLPrefix: cfg.UploadURLPrefix,
		MaxUploadBytes:  cfg.MaxUploadBytes,
		CORS:            middleware.CORSConfig{AllowedOrigins: cfg.CORSAllowedOrigins},
		ServiceName:     cfg.ServiceName,
		Logger:          logger,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		producer:       producer,
		tracerShutdown: tracerShutdown,
		httpServer:     httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		a.Shutdown()
		return err
	}

	a.Shutdown()
	return nil
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	a.pool.Close()

	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
}
