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

	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
)

// newMockTenantRepository creates a GormTenantRepository with a mocked SQL connection
func newMockTenantRepository(t *testing.T) (*GormTenantRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormTenantRepository(gormDB), mock, mockDB
}

func TestGormTenantRepository_FindByID(t *testing.T) {
	t.Run("finds existing tenant", func(t *testing.T) {
		repo, mock, mockDB := newMockTenantRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "code", "name", "status"}).
			AddRow(tenantID, "SHOP01", "Main Street Shop", "active")

		mock.ExpectQuery(`SELECT \* FROM "tenants" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, 1).
			WillReturnRows(rows)

		tenant, err := repo.FindByID(context.Background(), tenantID)

		assert.NoError(t, err)
		assert.NotNil(t, tenant)
		assert.Equal(t, "SHOP01", tenant.Code)
		assert.True(t, tenant.IsActive())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing tenant", func(t *testing.T) {
		repo, mock, mockDB := newMockTenantRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "tenants" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		tenant, err := repo.FindByID(context.Background(), tenantID)

		assert.Error(t, err)
		assert.Nil(t, tenant)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTenantRepository_FindByCode(t *testing.T) {
	t.Run("finds tenant by uppercased code", func(t *testing.T) {
		repo, mock, mockDB := newMockTenantRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "code", "name", "status"}).
			AddRow(tenantID, "SHOP01", "Main Street Shop", "active")

		mock.ExpectQuery(`SELECT \* FROM "tenants" WHERE UPPER\(code\) = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("SHOP01", 1).
			WillReturnRows(rows)

		tenant, err := repo.FindByCode(context.Background(), "shop01")

		assert.NoError(t, err)
		assert.NotNil(t, tenant)
		assert.Equal(t, "SHOP01", tenant.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTenantRepository_ListTenants(t *testing.T) {
	t.Run("returns handles for active tenants", func(t *testing.T) {
		repo, mock, mockDB := newMockTenantRepository(t)
		defer mockDB.Close()

		id1 := uuid.New()
		id2 := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "code", "name"}).
			AddRow(id1, "SHOP01", "Main Street Shop").
			AddRow(id2, "SHOP02", "Harbor Shop")

		mock.ExpectQuery(`SELECT "id","code","name" FROM "tenants" WHERE status = \$1 ORDER BY code ASC`).
			WithArgs(identity.TenantStatusActive).
			WillReturnRows(rows)

		handles, err := repo.ListTenants(context.Background())

		assert.NoError(t, err)
		require.Len(t, handles, 2)
		assert.Equal(t, identity.TenantHandle{ID: id1, Code: "SHOP01", Name: "Main Street Shop"}, handles[0])
		assert.Equal(t, identity.TenantHandle{ID: id2, Code: "SHOP02", Name: "Harbor Shop"}, handles[1])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns empty slice when no tenant is active", func(t *testing.T) {
		repo, mock, mockDB := newMockTenantRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT "id","code","name" FROM "tenants" WHERE status = \$1 ORDER BY code ASC`).
			WithArgs(identity.TenantStatusActive).
			WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name"}))

		handles, err := repo.ListTenants(context.Background())

		assert.NoError(t, err)
		assert.Empty(t, handles)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTenantRepository_Save(t *testing.T) {
	t.Run("saves tenant", func(t *testing.T) {
		repo, mock, mockDB := newMockTenantRepository(t)
		defer mockDB.Close()

		tenant, err := identity.NewTenant("SHOP01", "Main Street Shop")
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "tenants" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Save(context.Background(), tenant)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTenantRepository_InterfaceCompliance(t *testing.T) {
	t.Run("implements TenantRepository and TenantDirectory", func(t *testing.T) {
		repo, _, mockDB := newMockTenantRepository(t)
		defer mockDB.Close()

		var _ identity.TenantRepository = repo
		var _ identity.TenantDirectory = repo
	})
}
