// Command seed fills a local products database with demo categories,
// products (with placeholder images) and reviews. Products and reviews go
// through the running API so uploads, validation and events are exercised.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/storeline/products/internal/auth"
	"github.com/storeline/products/internal/config"
	pkgconfig "github.com/storeline/products/pkg/config"
	"github.com/storeline/products/pkg/database"
	"github.com/storeline/products/pkg/httpclient"
	"github.com/storeline/products/pkg/logger"
)

type seedConfig struct {
	APIURL     string        `env:"SEED_API_URL"`
	AdminID    int64         `env:"SEED_ADMIN_ID" envDefault:"1"`
	ReviewerID int64         `env:"SEED_REVIEWER_ID" envDefault:"1"`
	WithImages bool          `env:"SEED_WITH_IMAGES" envDefault:"true"`
	Timeout    time.Duration `env:"SEED_TIMEOUT" envDefault:"2m"`
}

func main() {
	if err := run(); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	var sc seedConfig
	if err := pkgconfig.Load(&sc); err != nil {
		return err
	}
	if sc.APIURL == "" {
		sc.APIURL = fmt.Sprintf("http://localhost:%d", cfg.HTTPPort)
	}

	log := logger.New(cfg.ServiceName+"-seed", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, sc.Timeout)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres(), log)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	tokens := auth.NewTokenValidator(cfg.JWTSecret)
	adminToken, err := tokens.Issue(sc.AdminID, auth.RoleAdmin, sc.Timeout)
	if err != nil {
		return err
	}
	userToken, err := tokens.Issue(sc.ReviewerID, "customer", sc.Timeout)
	if err != nil {
		return err
	}

	breaker, err := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpclient.DefaultConfig()),
		httpclient.DefaultCircuitBreakerConfig("products-api"),
		log,
	)
	if err != nil {
		return err
	}

	s := &seeder{
		db: pool,
		api: &apiClient{
			http:       breaker,
			baseURL:    sc.APIURL,
			adminToken: adminToken,
			userToken:  userToken,
		},
		withImages: sc.WithImages,
		logger:     log,
	}

	log.Info("seeding products", slog.String("api", sc.APIURL))
	res, err := s.run(ctx)
	if err != nil {
		return err
	}
	log.Info("seed complete",
		slog.Int("products", res.products),
		slog.Int("reviews", res.reviews),
	)
	return nil
}
