package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Unit is a selling or pricing unit. SellingUnit is what the customer
// orders in, PricingUnit is what the price is computed against; the two
// may differ (sold by piece, priced by weight).
type Unit string

const (
	UnitPiece    Unit = "pcs"
	UnitKilogram Unit = "kg"
	UnitGram     Unit = "g"
)

func (u Unit) Valid() bool {
	switch u {
	case UnitPiece, UnitKilogram, UnitGram:
		return true
	}
	return false
}

// Product is a catalog record synchronized from the 1C ERP. Fields with a
// *_synced suffix are written by the import job; the matching *_override
// fields are owner-controlled and take precedence when set.
type Product struct {
	ID             uuid.UUID `json:"id" db:"id"`
	ExternalID     int64     `json:"external_id" db:"external_id"` // prodid from 1C, authoritative sync key
	Barcode        string    `json:"barcode" db:"barcode"`         // EAN, secondary natural key
	LackmannNumber string    `json:"lackmann_number" db:"lackmann_number"`
	Name           string    `json:"name" db:"name"`
	NameDisplay    *string   `json:"name_display" db:"name_display"`
	Ingredients    string    `json:"ingredients" db:"ingredients"`
	PackingType    string    `json:"packing_type" db:"packing_type"`

	SellingUnit                 Unit                `json:"selling_unit" db:"selling_unit"`
	PricingUnit                 Unit                `json:"pricing_unit" db:"pricing_unit"`
	PricePerPricingUnitSynced   decimal.NullDecimal `json:"price_per_pricing_unit_synced" db:"price_per_pricing_unit_synced"`
	PricePerPricingUnitOverride decimal.NullDecimal `json:"price_per_pricing_unit_override" db:"price_per_pricing_unit_override"`

	// WeightPerUnitGrams applies to fixed-weight piece goods,
	// AverageWeightGrams to variable-weight discrete goods (e.g. fish).
	WeightPerUnitGrams *int `json:"weight_per_unit_grams" db:"weight_per_unit_grams"`
	AverageWeightGrams *int `json:"average_weight_grams" db:"average_weight_grams"`

	StockAmountSynced   decimal.Decimal     `json:"stock_amount_synced" db:"stock_amount_synced"`
	StockAmountOverride decimal.NullDecimal `json:"stock_amount_override" db:"stock_amount_override"`
	StockBuffer         decimal.Decimal     `json:"stock_buffer" db:"stock_buffer"`

	// Nutritional facts per 100g, informational only.
	Kcal         int             `json:"kcal" db:"kcal"`
	Kilojoules   int             `json:"kilojoules" db:"kilojoules"`
	Proteins     decimal.Decimal `json:"proteins" db:"proteins"`
	Fat          decimal.Decimal `json:"fat" db:"fat"`
	SaturatedFat decimal.Decimal `json:"saturated_fat" db:"saturated_fat"`
	Carbs        decimal.Decimal `json:"carbs" db:"carbs"`
	Sugar        decimal.Decimal `json:"sugar" db:"sugar"`
	Salt         decimal.Decimal `json:"salt" db:"salt"`

	CategoryID uuid.UUID `json:"category_id" db:"category_id"`

	IsAvailable  bool       `json:"is_available" db:"is_available"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	LastSyncedAt *time.Time `json:"last_synced_at" db:"last_synced_at"`
}

// DefaultStockBuffer is the safety margin subtracted from raw synced stock
// before display, to avoid overselling near-zero inventory.
var DefaultStockBuffer = decimal.NewFromInt(5)

// DisplayName returns the storefront name, falling back to the ERP name.
func (p *Product) DisplayName() string {
	if p.NameDisplay != nil && *p.NameDisplay != "" {
		return *p.NameDisplay
	}
	return p.Name
}
