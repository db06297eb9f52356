package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailpos/backend/internal/domain/expense"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/persistence/models"
)

// GormExpenseRepository implements ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// FindByIDForTenant finds an expense by ID for a specific tenant
func (r *GormExpenseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*expense.Expense, error) {
	var model models.ExpenseModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds an expense by its expense number within a tenant
func (r *GormExpenseRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*expense.Expense, error) {
	var model models.ExpenseModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND expense_number = ?", tenantID, number).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByTemplate lists expenses generated from a template, newest first
func (r *GormExpenseRepository) FindByTemplate(ctx context.Context, tenantID, templateID uuid.UUID) ([]expense.Expense, error) {
	var expenseModels []models.ExpenseModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND source_template_id = ?", tenantID, templateID).
		Order("expense_date DESC").
		Find(&expenseModels).Error; err != nil {
		return nil, err
	}
	expenses := make([]expense.Expense, len(expenseModels))
	for i, model := range expenseModels {
		expenses[i] = *model.ToDomain()
	}
	return expenses, nil
}

// Save creates or updates an expense record
func (r *GormExpenseRepository) Save(ctx context.Context, exp *expense.Expense) error {
	model := models.ExpenseModelFromDomain(exp)
	return r.db.WithContext(ctx).Save(model).Error
}

// NextExpenseNumber allocates the next expense number for a (tenant, year)
// pair. The counter upsert increments and reads in one statement, so two
// concurrent runs can never observe the same sequence value.
func (r *GormExpenseRepository) NextExpenseNumber(ctx context.Context, tenantID uuid.UUID, year int) (string, error) {
	var sequence int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO expense_number_counters (tenant_id, year, counter)
		VALUES (?, ?, 1)
		ON CONFLICT (tenant_id, year)
		DO UPDATE SET counter = expense_number_counters.counter + 1
		RETURNING counter`,
		tenantID, year,
	).Scan(&sequence).Error
	if err != nil {
		return "", fmt.Errorf("%w: %v", expense.ErrNumberGeneration, err)
	}
	if sequence == 0 {
		return "", expense.ErrNumberGeneration
	}
	return expense.FormatExpenseNumber(year, sequence), nil
}

// Ensure interface compliance
var _ expense.ExpenseRepository = (*GormExpenseRepository)(nil)
