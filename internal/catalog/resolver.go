// Package catalog holds the pure domain logic of the Gastronom product
// catalog: resolution of owner overrides against ERP-synced values, and
// the category hierarchy.
package catalog

import (
	"errors"

	"github.com/shopspring/decimal"

	"gastronom/internal/models"
)

// ErrInvalidPrice is returned when a product has neither a synced nor an
// override price.
var ErrInvalidPrice = errors.New("product has no synced or override price")

// Source reports which side of the synced/override field pair won.
type Source string

const (
	SourceSynced   Source = "synced"
	SourceOverride Source = "override"
)

// EffectivePrice returns the customer-facing price per pricing unit:
// the owner override when set, else the ERP-synced price.
func EffectivePrice(p *models.Product) (decimal.Decimal, error) {
	if p.PricePerPricingUnitOverride.Valid {
		return p.PricePerPricingUnitOverride.Decimal, nil
	}
	if p.PricePerPricingUnitSynced.Valid {
		return p.PricePerPricingUnitSynced.Decimal, nil
	}
	return decimal.Decimal{}, ErrInvalidPrice
}

// PriceSource reports where the effective price comes from. Only meaningful
// when EffectivePrice succeeds.
func PriceSource(p *models.Product) Source {
	if p.PricePerPricingUnitOverride.Valid {
		return SourceOverride
	}
	return SourceSynced
}

// EffectiveStock returns the displayable stock amount. An owner override
// is taken as-is; otherwise the stock buffer is subtracted from the raw
// synced amount, clamped at zero so the buffer never shows negative stock.
func EffectiveStock(p *models.Product) decimal.Decimal {
	if p.StockAmountOverride.Valid {
		return p.StockAmountOverride.Decimal
	}
	buffered := p.StockAmountSynced.Sub(p.StockBuffer)
	if buffered.IsNegative() {
		return decimal.Zero
	}
	return buffered
}

// StockSource reports where the effective stock comes from.
func StockSource(p *models.Product) Source {
	if p.StockAmountOverride.Valid {
		return SourceOverride
	}
	return SourceSynced
}

// IsPurchasable reports whether a customer may order the product. The
// manual availability flag is a hard off switch regardless of stock.
func IsPurchasable(p *models.Product) bool {
	return p.IsAvailable && EffectiveStock(p).IsPositive()
}
