package repositories

import (
	"context"
	"testing"
	"time"

	"gastronom/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type CategoryRepoTestSuite struct {
	suite.Suite
	mock       pgxmock.PgxPoolIface
	repo       CategoryRepository
	categoryID uuid.UUID
	ctx        context.Context
}

func (suite *CategoryRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewCategoryRepo(mock)
	suite.categoryID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *CategoryRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestCategoryRepoTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryRepoTestSuite))
}

var categoryRows = []string{"id", "name", "parent_id", "created_at", "updated_at"}

func (suite *CategoryRepoTestSuite) TestCreate_Success() {
	category := &models.Category{
		ID:   suite.categoryID,
		Name: "Dairy",
	}

	suite.mock.ExpectExec(`INSERT INTO categories \(id, name, parent_id, created_at, updated_at\)`).
		WithArgs(category.ID, category.Name, category.ParentID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(suite.T(), suite.repo.Create(suite.ctx, category))
}

func (suite *CategoryRepoTestSuite) TestGetByID_Success() {
	now := time.Now()
	parentID := uuid.New()
	suite.mock.ExpectQuery(`SELECT (.+) FROM categories\s+WHERE id = \$1`).
		WithArgs(suite.categoryID).
		WillReturnRows(pgxmock.NewRows(categoryRows).
			AddRow(suite.categoryID, "Cheese", &parentID, now, now))

	category, err := suite.repo.GetByID(suite.ctx, suite.categoryID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Cheese", category.Name)
	assert.Equal(suite.T(), parentID, *category.ParentID)
}

func (suite *CategoryRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`SELECT (.+) FROM categories\s+WHERE id = \$1`).
		WithArgs(suite.categoryID).
		WillReturnError(pgx.ErrNoRows)

	category, err := suite.repo.GetByID(suite.ctx, suite.categoryID)
	assert.Nil(suite.T(), category)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *CategoryRepoTestSuite) TestHasChildren() {
	suite.mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM categories WHERE parent_id = \$1\)`).
		WithArgs(suite.categoryID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	hasChildren, err := suite.repo.HasChildren(suite.ctx, suite.categoryID)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), hasChildren)
}

func (suite *CategoryRepoTestSuite) TestListRoots() {
	now := time.Now()
	suite.mock.ExpectQuery(`SELECT (.+) FROM categories\s+WHERE parent_id IS NULL`).
		WillReturnRows(pgxmock.NewRows(categoryRows).
			AddRow(uuid.New(), "Drinks", (*uuid.UUID)(nil), now, now).
			AddRow(uuid.New(), "Groceries", (*uuid.UUID)(nil), now, now))

	roots, err := suite.repo.ListRoots(suite.ctx)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), roots, 2)
	assert.Nil(suite.T(), roots[0].ParentID)
}

func (suite *CategoryRepoTestSuite) TestDelete_NotFound() {
	suite.mock.ExpectExec(`DELETE FROM categories WHERE id = \$1`).
		WithArgs(suite.categoryID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := suite.repo.Delete(suite.ctx, suite.categoryID)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *CategoryRepoTestSuite) TestUpdate_Success() {
	category := &models.Category{ID: suite.categoryID, Name: "Renamed"}

	suite.mock.ExpectExec(`UPDATE categories\s+SET name = \$1, parent_id = \$2, updated_at = NOW\(\)`).
		WithArgs(category.Name, category.ParentID, category.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(suite.T(), suite.repo.Update(suite.ctx, category))
}
