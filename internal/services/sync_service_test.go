package services

import (
	"context"
	"testing"
	"time"

	"gastronom/internal/models"
	"gastronom/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

func syncRow(externalID int64) *models.ProductSync {
	return &models.ProductSync{
		ExternalID:  externalID,
		Barcode:     "4001234567890",
		Name:        "Gouda jung",
		SellingUnit: models.UnitPiece,
		PricingUnit: models.UnitKilogram,
		Price:       decimal.NullDecimal{Decimal: decimal.RequireFromString("12.90"), Valid: true},
		StockAmount: decimal.RequireFromString("42"),
		SyncedAt:    time.Now(),
	}
}

type SyncServiceTestSuite struct {
	suite.Suite
	productRepo *MockProductRepository
	cache       *MockCacheService
	service     SyncService
	ctx         context.Context
}

func (suite *SyncServiceTestSuite) SetupTest() {
	suite.productRepo = new(MockProductRepository)
	suite.cache = new(MockCacheService)
	suite.service = NewSyncService(suite.productRepo, suite.cache)
	suite.ctx = context.Background()
}

func TestSyncServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SyncServiceTestSuite))
}

func (suite *SyncServiceTestSuite) TestApplySnapshot_AllApplied() {
	rows := []*models.ProductSync{syncRow(1001), syncRow(1002)}
	suite.productRepo.On("ApplySync", suite.ctx, rows[0]).Return(nil)
	suite.productRepo.On("ApplySync", suite.ctx, rows[1]).Return(nil)
	suite.cache.On("InvalidateCatalog", suite.ctx).Return(nil)

	result, err := suite.service.ApplySnapshot(suite.ctx, rows)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, result.RecordsProcessed)
	assert.Equal(suite.T(), 2, result.RecordsApplied)
	assert.Empty(suite.T(), result.Errors)
	suite.cache.AssertExpectations(suite.T())
}

func (suite *SyncServiceTestSuite) TestApplySnapshot_BadRowDoesNotAbortBatch() {
	good := syncRow(1001)
	bad := syncRow(1002)
	bad.SellingUnit = "crate"
	unknown := syncRow(1003)

	suite.productRepo.On("ApplySync", suite.ctx, good).Return(nil)
	suite.productRepo.On("ApplySync", suite.ctx, unknown).Return(repositories.ErrNotFound)
	suite.cache.On("InvalidateCatalog", suite.ctx).Return(nil)

	result, err := suite.service.ApplySnapshot(suite.ctx, []*models.ProductSync{good, bad, unknown})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, result.RecordsProcessed)
	assert.Equal(suite.T(), 1, result.RecordsApplied)
	assert.Len(suite.T(), result.Errors, 2)
	// The invalid row must never reach the repository.
	suite.productRepo.AssertNumberOfCalls(suite.T(), "ApplySync", 2)
}

func (suite *SyncServiceTestSuite) TestApplySnapshot_NegativePriceRejected() {
	row := syncRow(1001)
	row.Price = decimal.NullDecimal{Decimal: decimal.RequireFromString("-1"), Valid: true}

	result, err := suite.service.ApplySnapshot(suite.ctx, []*models.ProductSync{row})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, result.RecordsApplied)
	assert.Len(suite.T(), result.Errors, 1)
	suite.productRepo.AssertNotCalled(suite.T(), "ApplySync", mock.Anything, mock.Anything)
	suite.cache.AssertNotCalled(suite.T(), "InvalidateCatalog", mock.Anything)
}

func (suite *SyncServiceTestSuite) TestApplySnapshot_MissingTimestampRejected() {
	row := syncRow(1001)
	row.SyncedAt = time.Time{}

	result, err := suite.service.ApplySnapshot(suite.ctx, []*models.ProductSync{row})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, result.RecordsApplied)
	assert.Len(suite.T(), result.Errors, 1)
}
