package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/retailpos/backend/internal/domain/shared"
)

func newMockLookupDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormCategoryLookup_CategoryName(t *testing.T) {
	t.Run("returns category name", func(t *testing.T) {
		gormDB, mock, mockDB := newMockLookupDB(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		categoryID := uuid.New()

		mock.ExpectQuery(`SELECT "name" FROM "expense_categories" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, categoryID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Utilities"))

		name, err := NewGormCategoryLookup(gormDB).CategoryName(context.Background(), tenantID, categoryID)

		assert.NoError(t, err)
		assert.Equal(t, "Utilities", name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for unknown category", func(t *testing.T) {
		gormDB, mock, mockDB := newMockLookupDB(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		categoryID := uuid.New()

		mock.ExpectQuery(`SELECT "name" FROM "expense_categories"`).
			WithArgs(tenantID, categoryID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		name, err := NewGormCategoryLookup(gormDB).CategoryName(context.Background(), tenantID, categoryID)

		assert.Empty(t, name)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormUserLookup_UserName(t *testing.T) {
	t.Run("prefers display name", func(t *testing.T) {
		gormDB, mock, mockDB := newMockLookupDB(t)
		defer mockDB.Close()

		userID := uuid.New()

		mock.ExpectQuery(`SELECT "username","display_name" FROM "users" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(userID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"username", "display_name"}).AddRow("jdoe", "Jordan Doe"))

		name, err := NewGormUserLookup(gormDB).UserName(context.Background(), userID)

		assert.NoError(t, err)
		assert.Equal(t, "Jordan Doe", name)
	})

	t.Run("falls back to username", func(t *testing.T) {
		gormDB, mock, mockDB := newMockLookupDB(t)
		defer mockDB.Close()

		userID := uuid.New()

		mock.ExpectQuery(`SELECT "username","display_name" FROM "users"`).
			WithArgs(userID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"username", "display_name"}).AddRow("jdoe", ""))

		name, err := NewGormUserLookup(gormDB).UserName(context.Background(), userID)

		assert.NoError(t, err)
		assert.Equal(t, "jdoe", name)
	})
}
