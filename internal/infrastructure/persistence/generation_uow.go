package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailpos/backend/internal/domain/expense"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/persistence/models"
)

// GormGenerationUnitOfWork commits a generated expense together with its
// template's schedule advance in one database transaction.
type GormGenerationUnitOfWork struct {
	db *gorm.DB
}

// NewGormGenerationUnitOfWork creates a new GormGenerationUnitOfWork
func NewGormGenerationUnitOfWork(db *gorm.DB) *GormGenerationUnitOfWork {
	return &GormGenerationUnitOfWork{db: db}
}

// CommitGeneration inserts the expense and advances the template's next due
// date from previousDue to nextDue. The advance is guarded on the stored due
// date still being previousDue; if another run already moved it, nothing is
// written and shared.ErrConcurrencyConflict is returned.
func (u *GormGenerationUnitOfWork) CommitGeneration(ctx context.Context, exp *expense.Expense, templateID uuid.UUID, previousDue, nextDue time.Time) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.ExpenseModelFromDomain(exp)
		if err := tx.Create(model).Error; err != nil {
			return err
		}

		result := tx.Model(&models.RecurringTemplateModel{}).
			Where("id = ? AND next_due_date = ?", templateID, previousDue).
			Updates(map[string]interface{}{
				"next_due_date": nextDue,
				"updated_at":    time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return nil
	})
}

// Ensure interface compliance
var _ expense.GenerationUnitOfWork = (*GormGenerationUnitOfWork)(nil)
