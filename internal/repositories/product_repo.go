package repositories

import (
	"context"
	"time"

	"gastronom/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetByExternalID(ctx context.Context, externalID int64) (*models.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Product, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID, limit, offset int) ([]*models.Product, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*models.Product, error)
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
	Count(ctx context.Context) (int64, error)

	SetPriceOverride(ctx context.Context, id uuid.UUID, price decimal.NullDecimal) error
	SetStockOverride(ctx context.Context, id uuid.UUID, amount decimal.NullDecimal) error
	SetStockBuffer(ctx context.Context, id uuid.UUID, buffer decimal.Decimal) error
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error

	// ApplySync writes the ERP-owned fields of an existing product, keyed by
	// external_id, and stamps last_synced_at. Overrides, availability and the
	// category reference are left untouched.
	ApplySync(ctx context.Context, row *models.ProductSync) error
	ListStale(ctx context.Context, olderThan time.Time, limit int) ([]*models.Product, error)
}

type productRepo struct {
	db DB
}

func NewProductRepo(db DB) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `id, external_id, barcode, lackmann_number, name, name_display,
		ingredients, packing_type, selling_unit, pricing_unit,
		price_per_pricing_unit_synced, price_per_pricing_unit_override,
		weight_per_unit_grams, average_weight_grams,
		stock_amount_synced, stock_amount_override, stock_buffer,
		kcal, kilojoules, proteins, fat, saturated_fat, carbs, sugar, salt,
		category_id, is_available, created_at, updated_at, last_synced_at`

func scanProduct(row interface{ Scan(dest ...any) error }) (*models.Product, error) {
	p := &models.Product{}
	err := row.Scan(
		&p.ID, &p.ExternalID, &p.Barcode, &p.LackmannNumber, &p.Name, &p.NameDisplay,
		&p.Ingredients, &p.PackingType, &p.SellingUnit, &p.PricingUnit,
		&p.PricePerPricingUnitSynced, &p.PricePerPricingUnitOverride,
		&p.WeightPerUnitGrams, &p.AverageWeightGrams,
		&p.StockAmountSynced, &p.StockAmountOverride, &p.StockBuffer,
		&p.Kcal, &p.Kilojoules, &p.Proteins, &p.Fat, &p.SaturatedFat, &p.Carbs, &p.Sugar, &p.Salt,
		&p.CategoryID, &p.IsAvailable, &p.CreatedAt, &p.UpdatedAt, &p.LastSyncedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, external_id, barcode, lackmann_number, name, name_display,
			ingredients, packing_type, selling_unit, pricing_unit,
			price_per_pricing_unit_synced, price_per_pricing_unit_override,
			weight_per_unit_grams, average_weight_grams,
			stock_amount_synced, stock_amount_override, stock_buffer,
			kcal, kilojoules, proteins, fat, saturated_fat, carbs, sugar, salt,
			category_id, is_available, created_at, updated_at, last_synced_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, NOW(), NOW(), $28)
	`
	_, err := r.db.Exec(ctx, query,
		product.ID, product.ExternalID, product.Barcode, product.LackmannNumber, product.Name, product.NameDisplay,
		product.Ingredients, product.PackingType, product.SellingUnit, product.PricingUnit,
		product.PricePerPricingUnitSynced, product.PricePerPricingUnitOverride,
		product.WeightPerUnitGrams, product.AverageWeightGrams,
		product.StockAmountSynced, product.StockAmountOverride, product.StockBuffer,
		product.Kcal, product.Kilojoules, product.Proteins, product.Fat, product.SaturatedFat,
		product.Carbs, product.Sugar, product.Salt,
		product.CategoryID, product.IsAvailable, product.LastSyncedAt,
	)
	return err
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`
	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return p, nil
}

func (r *productRepo) GetByExternalID(ctx context.Context, externalID int64) (*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE external_id = $1
	`
	p, err := scanProduct(r.db.QueryRow(ctx, query, externalID))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return p, nil
}

func (r *productRepo) GetByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE barcode = $1
	`
	p, err := scanProduct(r.db.QueryRow(ctx, query, barcode))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return p, nil
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET barcode = $1, lackmann_number = $2, name = $3, name_display = $4,
			ingredients = $5, packing_type = $6, selling_unit = $7, pricing_unit = $8,
			price_per_pricing_unit_synced = $9, price_per_pricing_unit_override = $10,
			weight_per_unit_grams = $11, average_weight_grams = $12,
			stock_amount_synced = $13, stock_amount_override = $14, stock_buffer = $15,
			kcal = $16, kilojoules = $17, proteins = $18, fat = $19, saturated_fat = $20,
			carbs = $21, sugar = $22, salt = $23,
			category_id = $24, is_available = $25, updated_at = NOW()
		WHERE id = $26
	`
	tag, err := r.db.Exec(ctx, query,
		product.Barcode, product.LackmannNumber, product.Name, product.NameDisplay,
		product.Ingredients, product.PackingType, product.SellingUnit, product.PricingUnit,
		product.PricePerPricingUnitSynced, product.PricePerPricingUnitOverride,
		product.WeightPerUnitGrams, product.AverageWeightGrams,
		product.StockAmountSynced, product.StockAmountOverride, product.StockBuffer,
		product.Kcal, product.Kilojoules, product.Proteins, product.Fat, product.SaturatedFat,
		product.Carbs, product.Sugar, product.Salt,
		product.CategoryID, product.IsAvailable, product.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepo) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`
	return r.queryProducts(ctx, query, limit, offset)
}

func (r *productRepo) ListByCategory(ctx context.Context, categoryID uuid.UUID, limit, offset int) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE category_id = $1
		ORDER BY name ASC
		LIMIT $2 OFFSET $3
	`
	return r.queryProducts(ctx, query, categoryID, limit, offset)
}

func (r *productRepo) Search(ctx context.Context, query string, limit, offset int) ([]*models.Product, error) {
	searchQuery := `
		SELECT ` + productColumns + `
		FROM products
		WHERE name ILIKE $1 OR name_display ILIKE $1 OR barcode = $2
		ORDER BY name ASC
		LIMIT $3 OFFSET $4
	`
	return r.queryProducts(ctx, searchQuery, "%"+query+"%", query, limit, offset)
}

func (r *productRepo) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var n int64
	query := `SELECT COUNT(*) FROM products WHERE category_id = $1`
	if err := r.db.QueryRow(ctx, query, categoryID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *productRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *productRepo) SetPriceOverride(ctx context.Context, id uuid.UUID, price decimal.NullDecimal) error {
	return r.setColumn(ctx, id, `price_per_pricing_unit_override`, price)
}

func (r *productRepo) SetStockOverride(ctx context.Context, id uuid.UUID, amount decimal.NullDecimal) error {
	return r.setColumn(ctx, id, `stock_amount_override`, amount)
}

func (r *productRepo) SetStockBuffer(ctx context.Context, id uuid.UUID, buffer decimal.Decimal) error {
	return r.setColumn(ctx, id, `stock_buffer`, buffer)
}

func (r *productRepo) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	return r.setColumn(ctx, id, `is_available`, available)
}

func (r *productRepo) setColumn(ctx context.Context, id uuid.UUID, column string, value any) error {
	// column is always one of the fixed names above, never caller input.
	query := `UPDATE products SET ` + column + ` = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, value, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepo) ApplySync(ctx context.Context, row *models.ProductSync) error {
	query := `
		UPDATE products
		SET barcode = $1, lackmann_number = $2, name = $3,
			ingredients = $4, packing_type = $5, selling_unit = $6, pricing_unit = $7,
			price_per_pricing_unit_synced = $8, stock_amount_synced = $9,
			weight_per_unit_grams = $10, average_weight_grams = $11,
			kcal = $12, kilojoules = $13, proteins = $14, fat = $15, saturated_fat = $16,
			carbs = $17, sugar = $18, salt = $19,
			last_synced_at = $20, updated_at = NOW()
		WHERE external_id = $21
	`
	tag, err := r.db.Exec(ctx, query,
		row.Barcode, row.LackmannNumber, row.Name,
		row.Ingredients, row.PackingType, row.SellingUnit, row.PricingUnit,
		row.Price, row.StockAmount,
		row.WeightPerUnitGrams, row.AverageWeightGrams,
		row.Kcal, row.Kilojoules, row.Proteins, row.Fat, row.SaturatedFat,
		row.Carbs, row.Sugar, row.Salt,
		row.SyncedAt, row.ExternalID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepo) ListStale(ctx context.Context, olderThan time.Time, limit int) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE last_synced_at IS NULL OR last_synced_at < $1
		ORDER BY last_synced_at ASC NULLS FIRST
		LIMIT $2
	`
	return r.queryProducts(ctx, query, olderThan, limit)
}

func (r *productRepo) queryProducts(ctx context.Context, query string, args ...any) ([]*models.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
