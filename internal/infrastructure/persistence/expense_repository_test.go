package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/retailpos/backend/internal/domain/expense"
	"github.com/retailpos/backend/internal/domain/shared"
)

// newMockExpenseRepository creates a GormExpenseRepository with a mocked SQL connection
func newMockExpenseRepository(t *testing.T) (*GormExpenseRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormExpenseRepository(gormDB), mock, mockDB
}

func expenseRows(expenseID, tenantID uuid.UUID, number string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "expense_number", "category_id", "amount",
		"description", "payment_method", "expense_date",
	}).AddRow(
		expenseID, tenantID, number, uuid.New(), decimal.NewFromInt(500),
		"Monthly rent", "BANK_TRANSFER", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	)
}

func TestGormExpenseRepository_FindByIDForTenant(t *testing.T) {
	t.Run("finds expense within tenant", func(t *testing.T) {
		repo, mock, mockDB := newMockExpenseRepository(t)
		defer mockDB.Close()

		expenseID := uuid.New()
		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "expenses" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, expenseID, 1).
			WillReturnRows(expenseRows(expenseID, tenantID, "EXP-2024-001"))

		exp, err := repo.FindByIDForTenant(context.Background(), tenantID, expenseID)

		assert.NoError(t, err)
		assert.NotNil(t, exp)
		assert.Equal(t, "EXP-2024-001", exp.ExpenseNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing expense", func(t *testing.T) {
		repo, mock, mockDB := newMockExpenseRepository(t)
		defer mockDB.Close()

		expenseID := uuid.New()
		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "expenses" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, expenseID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		exp, err := repo.FindByIDForTenant(context.Background(), tenantID, expenseID)

		assert.Error(t, err)
		assert.Nil(t, exp)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormExpenseRepository_FindByNumber(t *testing.T) {
	t.Run("finds expense by number", func(t *testing.T) {
		repo, mock, mockDB := newMockExpenseRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "expenses" WHERE tenant_id = \$1 AND expense_number = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, "EXP-2024-042", 1).
			WillReturnRows(expenseRows(uuid.New(), tenantID, "EXP-2024-042"))

		exp, err := repo.FindByNumber(context.Background(), tenantID, "EXP-2024-042")

		assert.NoError(t, err)
		assert.NotNil(t, exp)
		assert.Equal(t, "EXP-2024-042", exp.ExpenseNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormExpenseRepository_FindByTemplate(t *testing.T) {
	t.Run("lists generated expenses newest first", func(t *testing.T) {
		repo, mock, mockDB := newMockExpenseRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		templateID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "expenses" WHERE tenant_id = \$1 AND source_template_id = \$2 ORDER BY expense_date DESC`).
			WithArgs(tenantID, templateID).
			WillReturnRows(expenseRows(uuid.New(), tenantID, "EXP-2024-002"))

		expenses, err := repo.FindByTemplate(context.Background(), tenantID, templateID)

		assert.NoError(t, err)
		assert.Len(t, expenses, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormExpenseRepository_Save(t *testing.T) {
	t.Run("saves expense", func(t *testing.T) {
		repo, mock, mockDB := newMockExpenseRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		exp, err := expense.NewExpense(tenantID, "EXP-2024-001", uuid.New(), "Rent",
			decimal.NewFromInt(500), "Monthly rent", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "expenses" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Save(context.Background(), exp)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormExpenseRepository_NextExpenseNumber(t *testing.T) {
	t.Run("allocates and formats the next number", func(t *testing.T) {
		repo, mock, mockDB := newMockExpenseRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		mock.ExpectQuery(`(?s)INSERT INTO expense_number_counters.*ON CONFLICT \(tenant_id, year\).*RETURNING counter`).
			WithArgs(tenantID, 2024).
			WillReturnRows(sqlmock.NewRows([]string{"counter"}).AddRow(7))

		number, err := repo.NextExpenseNumber(context.Background(), tenantID, 2024)

		assert.NoError(t, err)
		assert.Equal(t, "EXP-2024-007", number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("pads sequence to three digits only when needed", func(t *testing.T) {
		repo, mock, mockDB := newMockExpenseRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		mock.ExpectQuery(`INSERT INTO expense_number_counters`).
			WithArgs(tenantID, 2024).
			WillReturnRows(sqlmock.NewRows([]string{"counter"}).AddRow(1234))

		number, err := repo.NextExpenseNumber(context.Background(), tenantID, 2024)

		assert.NoError(t, err)
		assert.Equal(t, "EXP-2024-1234", number)
	})

	t.Run("wraps allocation failure as ErrNumberGeneration", func(t *testing.T) {
		repo, mock, mockDB := newMockExpenseRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		mock.ExpectQuery(`INSERT INTO expense_number_counters`).
			WithArgs(tenantID, 2024).
			WillReturnError(errors.New("connection reset"))

		number, err := repo.NextExpenseNumber(context.Background(), tenantID, 2024)

		assert.Empty(t, number)
		assert.ErrorIs(t, err, expense.ErrNumberGeneration)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormExpenseRepository_InterfaceCompliance(t *testing.T) {
	t.Run("implements ExpenseRepository interface", func(t *testing.T) {
		repo, _, mockDB := newMockExpenseRepository(t)
		defer mockDB.Close()

		var _ expense.ExpenseRepository = repo
	})
}
