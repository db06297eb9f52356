package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/persistence/models"
)

// GormTenantRepository is the GORM-backed tenant store. It serves both the
// TenantRepository interface and the TenantDirectory batch runs fan out from.
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository wraps db in a tenant repository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByID loads a tenant by primary key
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode loads a tenant by its code. Codes are stored uppercased, so the
// lookup uppercases the input rather than matching case-insensitively.
func (r *GormTenantRepository) FindByCode(ctx context.Context, code string) (*identity.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).
		Where("UPPER(code) = ?", strings.ToUpper(code)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a tenant
func (r *GormTenantRepository) Save(ctx context.Context, tenant *identity.Tenant) error {
	model := models.TenantModelFromDomain(tenant)
	return r.db.WithContext(ctx).Save(model).Error
}

// ListTenants returns lightweight handles for every active tenant. Batch
// runs call this at the start of each pass, so onboarded or suspended
// tenants are picked up without a restart.
func (r *GormTenantRepository) ListTenants(ctx context.Context) ([]identity.TenantHandle, error) {
	var tenantModels []models.TenantModel
	if err := r.db.WithContext(ctx).
		Select("id", "code", "name").
		Where("status = ?", identity.TenantStatusActive).
		Order("code ASC").
		Find(&tenantModels).Error; err != nil {
		return nil, err
	}

	handles := make([]identity.TenantHandle, len(tenantModels))
	for i, model := range tenantModels {
		handles[i] = identity.TenantHandle{
			ID:   model.ID,
			Code: model.Code,
			Name: model.Name,
		}
	}
	return handles, nil
}

// Ensure interface compliance
var (
	_ identity.TenantRepository = (*GormTenantRepository)(nil)
	_ identity.TenantDirectory  = (*GormTenantRepository)(nil)
)
