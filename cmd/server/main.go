package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kidmeals/backend/config"
	httpDelivery "github.com/kidmeals/backend/internal/delivery/http"
	"github.com/kidmeals/backend/internal/domain"
	"github.com/kidmeals/backend/internal/infrastructure/cache"
	"github.com/kidmeals/backend/internal/infrastructure/catalog"
	"github.com/kidmeals/backend/internal/logger"
	"github.com/kidmeals/backend/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

// run wires the server and blocks until it stops. Deferred cleanup runs
// before the exit code reaches main.
func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	logger.Set(zl)
	defer logger.Sync()

	zl.Info("starting meal planner backend",
		zap.String("version", "1.0.0"),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cache_type", cfg.Cache.Type),
		zap.Duration("cache_ttl", cfg.Cache.TTL),
	)

	foods, err := loadCatalog(cfg.Catalog.Path)
	if err != nil {
		zl.Error("failed to load food catalog", zap.Error(err))
		return 1
	}
	zl.Info("food catalog loaded", zap.String("path", cfg.Catalog.Path), zap.Int("foods", foods.Len()))

	scoreCache := cache.NewMemoryCache(cache.DefaultCleanupInterval)
	defer scoreCache.Close()

	scoringService := usecase.NewScoringService(
		scoreCache,
		foods,
		usecase.ScoringServiceConfig{
			CacheTTL: cfg.Cache.TTL,
			Logger:   zl.Named("scoring"),
		},
	)

	goals := domain.DailyGoals{
		Calories: cfg.Goals.Calories,
		Protein:  cfg.Goals.Protein,
		Carbs:    cfg.Goals.Carbs,
		Fat:      cfg.Goals.Fat,
	}
	handler := httpDelivery.NewHandler(scoringService, goals, zl.Named("http"))
	router := httpDelivery.SetupRouter(cfg, handler, zl.Named("access"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	code := 0
	if err := serve(srv, quit, zl); err != nil {
		zl.Error("server failed", zap.Error(err))
		code = 1
	}

	stats := scoreCache.Stats()
	zl.Info("server stopped", zap.Uint64("cache_hits", stats.Hits), zap.Uint64("cache_misses", stats.Misses))
	return code
}

// serve runs srv until it fails or a signal arrives on quit, then shuts
// it down gracefully.
func serve(srv *http.Server, quit <-chan os.Signal, zl *zap.Logger) error {
	serveErr := make(chan error, 1)
	go func() {
		zl.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	case <-quit:
	}

	zl.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// loadCatalog reads the catalog file, or the built-in catalog when no
// path is configured
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.LoadSeed()
	}
	return catalog.LoadFile(path)
}
