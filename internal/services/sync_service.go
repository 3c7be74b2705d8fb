package services

import (
	"context"
	"fmt"

	"gastronom/internal/caching"
	"gastronom/internal/models"
	"gastronom/internal/repositories"

	"go.uber.org/zap"
)

// SyncResult summarizes one applied ERP snapshot. Row failures are
// collected, not fatal: a bad row must never abort the rest of the batch.
type SyncResult struct {
	RecordsProcessed int      `json:"records_processed"`
	RecordsApplied   int      `json:"records_applied"`
	Errors           []string `json:"errors,omitempty"`
}

// SyncService applies ERP snapshots to the catalog. The scraper that
// produces snapshots lives outside this module; this is the write side
// it calls into.
type SyncService interface {
	ApplySnapshot(ctx context.Context, rows []*models.ProductSync) (*SyncResult, error)
}

type syncService struct {
	productRepo  repositories.ProductRepository
	cacheService caching.CacheService
}

func NewSyncService(productRepo repositories.ProductRepository, cacheService caching.CacheService) SyncService {
	return &syncService{
		productRepo:  productRepo,
		cacheService: cacheService,
	}
}

func (s *syncService) ApplySnapshot(ctx context.Context, rows []*models.ProductSync) (*SyncResult, error) {
	result := &SyncResult{}

	for _, row := range rows {
		result.RecordsProcessed++
		if err := validateSyncRow(row); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("external_id %d: %v", row.ExternalID, err))
			continue
		}
		if err := s.productRepo.ApplySync(ctx, row); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("external_id %d: %v", row.ExternalID, err))
			continue
		}
		result.RecordsApplied++
	}

	if result.RecordsApplied > 0 {
		if err := s.cacheService.InvalidateCatalog(ctx); err != nil {
			zap.S().Warnw("catalog cache invalidation after sync failed", "error", err)
		}
	}

	zap.S().Infow("applied catalog snapshot",
		"processed", result.RecordsProcessed,
		"applied", result.RecordsApplied,
		"failed", len(result.Errors),
	)
	return result, nil
}

func validateSyncRow(row *models.ProductSync) error {
	if row.ExternalID <= 0 {
		return fmt.Errorf("external id must be positive")
	}
	if row.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !row.SellingUnit.Valid() {
		return fmt.Errorf("invalid selling unit %q", row.SellingUnit)
	}
	if !row.PricingUnit.Valid() {
		return fmt.Errorf("invalid pricing unit %q", row.PricingUnit)
	}
	if row.Price.Valid && row.Price.Decimal.IsNegative() {
		return fmt.Errorf("price cannot be negative")
	}
	if row.StockAmount.IsNegative() {
		return fmt.Errorf("stock amount cannot be negative")
	}
	if row.SyncedAt.IsZero() {
		return fmt.Errorf("synced_at timestamp is required")
	}
	return nil
}
