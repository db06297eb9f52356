package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailpos/backend/internal/application/recurring"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/persistence/models"
)

// GormCategoryLookup resolves expense category names for display decoration
type GormCategoryLookup struct {
	db *gorm.DB
}

// NewGormCategoryLookup creates a new GormCategoryLookup
func NewGormCategoryLookup(db *gorm.DB) *GormCategoryLookup {
	return &GormCategoryLookup{db: db}
}

// CategoryName returns the display name of an expense category
func (l *GormCategoryLookup) CategoryName(ctx context.Context, tenantID, categoryID uuid.UUID) (string, error) {
	var model models.CategoryModel
	if err := l.db.WithContext(ctx).
		Select("name").
		Where("tenant_id = ? AND id = ?", tenantID, categoryID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", shared.ErrNotFound
		}
		return "", err
	}
	return model.Name, nil
}

// GormUserLookup resolves user display names for display decoration
type GormUserLookup struct {
	db *gorm.DB
}

// NewGormUserLookup creates a new GormUserLookup
func NewGormUserLookup(db *gorm.DB) *GormUserLookup {
	return &GormUserLookup{db: db}
}

// UserName returns the display name of a user, falling back to the username
func (l *GormUserLookup) UserName(ctx context.Context, userID uuid.UUID) (string, error) {
	var model models.UserModel
	if err := l.db.WithContext(ctx).
		Select("username", "display_name").
		Where("id = ?", userID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", shared.ErrNotFound
		}
		return "", err
	}
	if model.DisplayName != "" {
		return model.DisplayName, nil
	}
	return model.Username, nil
}

// Ensure interface compliance
var (
	_ recurring.CategoryLookup = (*GormCategoryLookup)(nil)
	_ recurring.UserLookup     = (*GormUserLookup)(nil)
)
