package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gastronom/internal/caching"
	"gastronom/internal/catalog"
	"gastronom/internal/models"
	"gastronom/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrBarcodeTaken    = errors.New("barcode already belongs to another product")
	ErrExternalIDTaken = errors.New("external id already belongs to another product")
	ErrNotLeafCategory = errors.New("product category must be a leaf node")
	ErrBothWeights     = errors.New("weight_per_unit_grams and average_weight_grams are mutually exclusive")
)

const productCacheTTL = 15 * time.Minute

// ProductView is the storefront projection of a product: the raw record
// plus the resolved price, stock and purchasability.
type ProductView struct {
	Product        *models.Product `json:"product"`
	EffectivePrice decimal.Decimal `json:"effective_price"`
	PriceSource    catalog.Source  `json:"price_source"`
	EffectiveStock decimal.Decimal `json:"effective_stock"`
	StockSource    catalog.Source  `json:"stock_source"`
	Purchasable    bool            `json:"purchasable"`
}

type CatalogService interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetProductByBarcode(ctx context.Context, barcode string) (*models.Product, error)
	GetProductView(ctx context.Context, id uuid.UUID) (*ProductView, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error)
	SearchProducts(ctx context.Context, query string, limit, offset int) ([]*models.Product, error)
	ListPurchasable(ctx context.Context, categoryID *uuid.UUID, limit, offset int) ([]*ProductView, error)

	SetPriceOverride(ctx context.Context, id uuid.UUID, price *decimal.Decimal) error
	SetStockOverride(ctx context.Context, id uuid.UUID, amount *decimal.Decimal) error
	SetStockBuffer(ctx context.Context, id uuid.UUID, buffer decimal.Decimal) error
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error
}

type catalogService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	cacheService caching.CacheService
}

func NewCatalogService(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository, cacheService caching.CacheService) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cacheService: cacheService,
	}
}

func (s *catalogService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	if err := s.checkNaturalKeys(ctx, product, uuid.Nil); err != nil {
		return err
	}
	if err := s.requireLeafCategory(ctx, product.CategoryID); err != nil {
		return err
	}

	product.ID = uuid.New()
	if product.StockBuffer.IsZero() {
		product.StockBuffer = models.DefaultStockBuffer
	}
	return s.productRepo.Create(ctx, product)
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if cached, err := s.cacheService.GetProduct(ctx, id); cached != nil {
		return cached, nil
	} else if err != nil {
		zap.S().Warnw("product cache read failed", "product_id", id, "error", err)
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cacheService.SetProduct(ctx, product, productCacheTTL); err != nil {
		zap.S().Warnw("product cache write failed", "product_id", id, "error", err)
	}
	return product, nil
}

func (s *catalogService) GetProductByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	return s.productRepo.GetByBarcode(ctx, barcode)
}

func (s *catalogService) GetProductView(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return resolveView(product)
}

func (s *catalogService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	if err := s.checkNaturalKeys(ctx, product, product.ID); err != nil {
		return err
	}
	if err := s.requireLeafCategory(ctx, product.CategoryID); err != nil {
		return err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return err
	}
	s.dropFromCache(ctx, product.ID)
	return nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.dropFromCache(ctx, id)
	return nil
}

func (s *catalogService) ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	limit, offset = clampPage(limit, offset)
	return s.productRepo.List(ctx, limit, offset)
}

func (s *catalogService) SearchProducts(ctx context.Context, query string, limit, offset int) ([]*models.Product, error) {
	limit, offset = clampPage(limit, offset)
	return s.productRepo.Search(ctx, query, limit, offset)
}

// ListPurchasable returns resolved views of orderable products, optionally
// within one category. Products without any price are logged and skipped
// rather than failing the whole listing.
func (s *catalogService) ListPurchasable(ctx context.Context, categoryID *uuid.UUID, limit, offset int) ([]*ProductView, error) {
	limit, offset = clampPage(limit, offset)

	var (
		products []*models.Product
		err      error
	)
	if categoryID != nil {
		products, err = s.productRepo.ListByCategory(ctx, *categoryID, limit, offset)
	} else {
		products, err = s.productRepo.List(ctx, limit, offset)
	}
	if err != nil {
		return nil, err
	}

	views := make([]*ProductView, 0, len(products))
	for _, p := range products {
		if !catalog.IsPurchasable(p) {
			continue
		}
		view, err := resolveView(p)
		if err != nil {
			zap.S().Warnw("skipping product without price", "product_id", p.ID, "external_id", p.ExternalID)
			continue
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *catalogService) SetPriceOverride(ctx context.Context, id uuid.UUID, price *decimal.Decimal) error {
	if price != nil && price.IsNegative() {
		return errors.New("price override cannot be negative")
	}
	if err := s.productRepo.SetPriceOverride(ctx, id, toNullDecimal(price)); err != nil {
		return err
	}
	s.dropFromCache(ctx, id)
	return nil
}

func (s *catalogService) SetStockOverride(ctx context.Context, id uuid.UUID, amount *decimal.Decimal) error {
	if amount != nil && amount.IsNegative() {
		return errors.New("stock override cannot be negative")
	}
	if err := s.productRepo.SetStockOverride(ctx, id, toNullDecimal(amount)); err != nil {
		return err
	}
	s.dropFromCache(ctx, id)
	return nil
}

func (s *catalogService) SetStockBuffer(ctx context.Context, id uuid.UUID, buffer decimal.Decimal) error {
	if buffer.IsNegative() {
		return errors.New("stock buffer cannot be negative")
	}
	if err := s.productRepo.SetStockBuffer(ctx, id, buffer); err != nil {
		return err
	}
	s.dropFromCache(ctx, id)
	return nil
}

func (s *catalogService) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	if err := s.productRepo.SetAvailability(ctx, id, available); err != nil {
		return err
	}
	s.dropFromCache(ctx, id)
	return nil
}

func (s *catalogService) requireLeafCategory(ctx context.Context, categoryID uuid.UUID) error {
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		return fmt.Errorf("category not found: %w", err)
	}
	hasChildren, err := s.categoryRepo.HasChildren(ctx, categoryID)
	if err != nil {
		return err
	}
	if hasChildren {
		return ErrNotLeafCategory
	}
	return nil
}

// checkNaturalKeys rejects barcode and external_id collisions with any
// product other than the one being updated (uuid.Nil on create).
func (s *catalogService) checkNaturalKeys(ctx context.Context, product *models.Product, selfID uuid.UUID) error {
	if existing, err := s.productRepo.GetByBarcode(ctx, product.Barcode); err == nil && existing.ID != selfID {
		return ErrBarcodeTaken
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	if existing, err := s.productRepo.GetByExternalID(ctx, product.ExternalID); err == nil && existing.ID != selfID {
		return ErrExternalIDTaken
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	return nil
}

func (s *catalogService) dropFromCache(ctx context.Context, id uuid.UUID) {
	if err := s.cacheService.DeleteProduct(ctx, id); err != nil {
		zap.S().Warnw("product cache invalidation failed", "product_id", id, "error", err)
	}
}

func resolveView(p *models.Product) (*ProductView, error) {
	price, err := catalog.EffectivePrice(p)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", p.ExternalID, err)
	}
	return &ProductView{
		Product:        p,
		EffectivePrice: price,
		PriceSource:    catalog.PriceSource(p),
		EffectiveStock: catalog.EffectiveStock(p),
		StockSource:    catalog.StockSource(p),
		Purchasable:    catalog.IsPurchasable(p),
	}, nil
}

func validateProduct(p *models.Product) error {
	if p.Name == "" {
		return errors.New("product name is required")
	}
	if p.Barcode == "" {
		return errors.New("product barcode is required")
	}
	if p.ExternalID <= 0 {
		return errors.New("external id must be positive")
	}
	if !p.SellingUnit.Valid() {
		return fmt.Errorf("invalid selling unit %q", p.SellingUnit)
	}
	if !p.PricingUnit.Valid() {
		return fmt.Errorf("invalid pricing unit %q", p.PricingUnit)
	}
	if p.PricePerPricingUnitSynced.Valid && p.PricePerPricingUnitSynced.Decimal.IsNegative() {
		return errors.New("synced price cannot be negative")
	}
	if p.PricePerPricingUnitOverride.Valid && p.PricePerPricingUnitOverride.Decimal.IsNegative() {
		return errors.New("price override cannot be negative")
	}
	if p.StockAmountSynced.IsNegative() {
		return errors.New("synced stock cannot be negative")
	}
	if p.StockAmountOverride.Valid && p.StockAmountOverride.Decimal.IsNegative() {
		return errors.New("stock override cannot be negative")
	}
	if p.StockBuffer.IsNegative() {
		return errors.New("stock buffer cannot be negative")
	}
	if p.WeightPerUnitGrams != nil && p.AverageWeightGrams != nil {
		return ErrBothWeights
	}
	if p.WeightPerUnitGrams != nil && *p.WeightPerUnitGrams <= 0 {
		return errors.New("weight per unit must be positive")
	}
	if p.AverageWeightGrams != nil && *p.AverageWeightGrams <= 0 {
		return errors.New("average weight must be positive")
	}
	return validateNutrition(p)
}

func validateNutrition(p *models.Product) error {
	if p.Kcal < 0 || p.Kilojoules < 0 {
		return errors.New("energy values cannot be negative")
	}
	for _, v := range []decimal.Decimal{p.Proteins, p.Fat, p.SaturatedFat, p.Carbs, p.Sugar, p.Salt} {
		if v.IsNegative() {
			return errors.New("nutrition values cannot be negative")
		}
	}
	return nil
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
