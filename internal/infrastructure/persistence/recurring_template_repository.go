package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailpos/backend/internal/domain/expense"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/persistence/models"
)

// GormRecurringTemplateRepository implements RecurringTemplateRepository using GORM
type GormRecurringTemplateRepository struct {
	db *gorm.DB
}

// NewGormRecurringTemplateRepository creates a new GormRecurringTemplateRepository
func NewGormRecurringTemplateRepository(db *gorm.DB) *GormRecurringTemplateRepository {
	return &GormRecurringTemplateRepository{db: db}
}

// FindByIDForTenant finds a recurring template by ID for a specific tenant
func (r *GormRecurringTemplateRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*expense.RecurringTemplate, error) {
	var model models.RecurringTemplateModel
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

// FindAllForTenant lists recurring templates for a tenant with filtering
func (r *GormRecurringTemplateRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter expense.TemplateFilter) ([]expense.RecurringTemplate, error) {
	var templateModels []models.RecurringTemplateModel
	query := r.db.WithContext(ctx).Model(&models.RecurringTemplateModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&templateModels).Error; err != nil {
		return nil, err
	}
	templates := make([]expense.RecurringTemplate, len(templateModels))
	for i, model := range templateModels {
		templates[i] = *model.ToDomain()
	}
	return templates, nil
}

// CountForTenant counts recurring templates for a tenant with filtering
func (r *GormRecurringTemplateRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter expense.TemplateFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.RecurringTemplateModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindDue returns all templates whose next due date is on or before asOf,
// oldest first so a long backlog is worked off in schedule order.
func (r *GormRecurringTemplateRepository) FindDue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]expense.RecurringTemplate, error) {
	var templateModels []models.RecurringTemplateModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND next_due_date <= ?", tenantID, asOf).
		Order("next_due_date ASC").
		Find(&templateModels).Error; err != nil {
		return nil, err
	}
	templates := make([]expense.RecurringTemplate, len(templateModels))
	for i, model := range templateModels {
		templates[i] = *model.ToDomain()
	}
	return templates, nil
}

// Save creates or updates a recurring template
func (r *GormRecurringTemplateRepository) Save(ctx context.Context, template *expense.RecurringTemplate) error {
	model := models.RecurringTemplateModelFromDomain(template)
	return r.db.WithContext(ctx).Save(model).Error
}

// applyFilter applies filter conditions to query including ordering and
// pagination. Sort inputs are whitelisted to keep them out of raw SQL.
func (r *GormRecurringTemplateRepository) applyFilter(query *gorm.DB, filter expense.TemplateFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	orderBy := sortColumn(filter.OrderBy, templateSortColumns, "created_at")
	orderDir := sortDirection(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		offset := (filter.Page - 1) * filter.PageSize
		if offset > 0 {
			query = query.Offset(offset)
		}
	}

	return query
}

// applyFilterWithoutPagination applies filter conditions without pagination
func (r *GormRecurringTemplateRepository) applyFilterWithoutPagination(query *gorm.DB, filter expense.TemplateFilter) *gorm.DB {
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}

	// Active means no end date, or an end date at or after the reference time
	if filter.Active != nil {
		asOf := filter.AsOf
		if asOf.IsZero() {
			asOf = time.Now()
		}
		if *filter.Active {
			query = query.Where("(end_date IS NULL OR end_date >= ?)", asOf)
		} else {
			query = query.Where("end_date IS NOT NULL AND end_date < ?", asOf)
		}
	}

	return query
}

// Ensure interface compliance
var _ expense.RecurringTemplateRepository = (*GormRecurringTemplateRepository)(nil)
