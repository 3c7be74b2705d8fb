package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"gastronom/internal/caching"
	"gastronom/internal/config"
	"gastronom/internal/repositories"
	"gastronom/internal/services"
	"gastronom/pkg/database"
	"gastronom/pkg/logger"
)

// The HTTP API, Clerk token validation and the 1C importer run as separate
// services on top of this data layer. This entry point boots the layer,
// verifies its dependencies and reports catalog state, so deploys fail
// fast on bad configuration.
func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	zlog, err := logger.Init(settings.Logger)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	zap.S().Infof("%s v%s starting", settings.App.Name, settings.App.Version)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, settings.Database.URL)
	if err != nil {
		zap.S().Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	cacheSvc := caching.NewRedisCacheService(settings.Redis.Addr, settings.Redis.Password, settings.Redis.DB)
	if err := cacheSvc.Ping(ctx); err != nil {
		// The cache is an accelerator, not a dependency; reads fall
		// through to postgres without it.
		zap.S().Warnf("redis unreachable, catalog reads will be uncached: %v", err)
	}

	categoryRepo := repositories.NewCategoryRepo(pool)
	productRepo := repositories.NewProductRepo(pool)

	categorySvc := services.NewCategoryService(categoryRepo, productRepo, cacheSvc)
	if _, err := categorySvc.Tree(ctx); err != nil {
		zap.S().Fatalf("category hierarchy check failed: %v", err)
	}

	productCount, err := productRepo.Count(ctx)
	if err != nil {
		zap.S().Fatalf("failed to count products: %v", err)
	}
	categoryCount, err := categoryRepo.Count(ctx)
	if err != nil {
		zap.S().Fatalf("failed to count categories: %v", err)
	}

	staleCutoff := time.Now().Add(-24 * time.Hour)
	stale, err := productRepo.ListStale(ctx, staleCutoff, 1)
	if err != nil {
		zap.S().Fatalf("failed to check sync freshness: %v", err)
	}

	zap.S().Infow("catalog data layer ready",
		"products", productCount,
		"categories", categoryCount,
		"has_stale_products", len(stale) > 0,
	)
}
