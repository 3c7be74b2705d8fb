package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductSync is one row of an ERP snapshot, keyed by the 1C external id.
// It carries only the fields the import job owns; owner overrides and
// availability are never touched by a sync.
type ProductSync struct {
	ExternalID     int64               `json:"external_id"`
	Barcode        string              `json:"barcode"`
	LackmannNumber string              `json:"lackmann_number"`
	Name           string              `json:"name"`
	Ingredients    string              `json:"ingredients"`
	PackingType    string              `json:"packing_type"`
	SellingUnit    Unit                `json:"selling_unit"`
	PricingUnit    Unit                `json:"pricing_unit"`
	Price          decimal.NullDecimal `json:"price_per_pricing_unit"`
	StockAmount    decimal.Decimal     `json:"stock_amount"`

	WeightPerUnitGrams *int `json:"weight_per_unit_grams"`
	AverageWeightGrams *int `json:"average_weight_grams"`

	Kcal         int             `json:"kcal"`
	Kilojoules   int             `json:"kilojoules"`
	Proteins     decimal.Decimal `json:"proteins"`
	Fat          decimal.Decimal `json:"fat"`
	SaturatedFat decimal.Decimal `json:"saturated_fat"`
	Carbs        decimal.Decimal `json:"carbs"`
	Sugar        decimal.Decimal `json:"sugar"`
	Salt         decimal.Decimal `json:"salt"`

	SyncedAt time.Time `json:"synced_at"`
}
