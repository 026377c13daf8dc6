package catalog

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewRepository(db), mock
}

func TestRepository_FindActiveByID(t *testing.T) {
	repo, mock := setupMockDB(t)
	id := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "sku", "name", "price", "discount_price", "stock", "track_stock", "is_active"}).
		AddRow(id.String(), "KET-1", "Kettle", 1000, 800, 4, true, true)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE`)).WillReturnRows(rows)

	product, err := repo.FindActiveByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, product.ID)
	assert.Equal(t, "Kettle", product.Name)
	require.NotNil(t, product.DiscountPrice)
	assert.Equal(t, int64(800), *product.DiscountPrice)
	assert.Equal(t, int64(800), product.EffectivePrice())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindActiveByID_NotFound(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindActiveByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindActiveByID_DBError(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE`)).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.FindActiveByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrProductNotFound)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestRepository_UpdateStock(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products" SET "stock"=`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.UpdateStock(context.Background(), uuid.New(), 12))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStock_NotFound(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products" SET "stock"=`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateStock(context.Background(), uuid.New(), 12)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestRepository_Create_DuplicateSKU(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "products"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := repo.Create(context.Background(), &Product{SKU: "KET-1", Name: "Kettle"})
	assert.ErrorIs(t, err, ErrDuplicateSKU)
	assert.NoError(t, mock.ExpectationsWereMet())
}
