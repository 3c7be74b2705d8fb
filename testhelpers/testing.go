package testhelpers

import (
	"context"
	"os"
	"testing"

	"gastronom/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TestDB holds the database connection for integration tests.
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB creates a pooled connection for testing.
func SetupTestDB(t *testing.T, connString string) *TestDB {
	t.Helper()

	if connString == "" {
		connString = os.Getenv("TEST_DATABASE_URL")
		if connString == "" {
			connString = "host=localhost port=5432 user=postgres password=postgres dbname=gastronom_test sslmode=disable"
		}
	}

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	return &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
}

// SeedCategory inserts a category row and returns its id.
func SeedCategory(t *testing.T, db *TestDB, name string, parentID *uuid.UUID) uuid.UUID {
	t.Helper()

	categoryID := uuid.New()
	query := `
		INSERT INTO categories (id, name, parent_id, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
	`
	if _, err := db.Pool.Exec(context.Background(), query, categoryID, name, parentID); err != nil {
		t.Fatalf("Failed to seed category: %v", err)
	}
	return categoryID
}

// SeedProduct inserts a minimal available product into the given category
// and returns it.
func SeedProduct(t *testing.T, db *TestDB, categoryID uuid.UUID, externalID int64) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:                        uuid.New(),
		ExternalID:                externalID,
		Barcode:                   uuid.NewString()[:13],
		LackmannNumber:            "L-001",
		Name:                      "Test Product",
		SellingUnit:               models.UnitPiece,
		PricingUnit:               models.UnitKilogram,
		PricePerPricingUnitSynced: decimal.NullDecimal{Decimal: decimal.RequireFromString("9.99"), Valid: true},
		StockAmountSynced:         decimal.RequireFromString("42"),
		StockBuffer:               models.DefaultStockBuffer,
		CategoryID:                categoryID,
		IsAvailable:               true,
	}

	query := `
		INSERT INTO products (id, external_id, barcode, lackmann_number, name,
			ingredients, packing_type, selling_unit, pricing_unit,
			price_per_pricing_unit_synced, stock_amount_synced, stock_buffer,
			category_id, is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
	`
	_, err := db.Pool.Exec(context.Background(), query,
		product.ID, product.ExternalID, product.Barcode, product.LackmannNumber, product.Name,
		product.Ingredients, product.PackingType, product.SellingUnit, product.PricingUnit,
		product.PricePerPricingUnitSynced, product.StockAmountSynced, product.StockBuffer,
		product.CategoryID, product.IsAvailable)
	if err != nil {
		t.Fatalf("Failed to seed product: %v", err)
	}
	return product
}
