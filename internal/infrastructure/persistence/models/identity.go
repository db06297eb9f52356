package models

import (
	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
)

// TenantModel is the persistence model for the Tenant aggregate root.
type TenantModel struct {
	AggregateModel
	Code         string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string                `gorm:"type:varchar(200);not null"`
	Status       identity.TenantStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	Timezone     string                `gorm:"type:varchar(64)"`
	ContactEmail string                `gorm:"type:varchar(200)"`
	Notes        string                `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant entity.
func (m *TenantModel) ToDomain() *identity.Tenant {
	return &identity.Tenant{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Code:         m.Code,
		Name:         m.Name,
		Status:       m.Status,
		Timezone:     m.Timezone,
		ContactEmail: m.ContactEmail,
		Notes:        m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Tenant entity.
func (m *TenantModel) FromDomain(t *identity.Tenant) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Code = t.Code
	m.Name = t.Name
	m.Status = t.Status
	m.Timezone = t.Timezone
	m.ContactEmail = t.ContactEmail
	m.Notes = t.Notes
}

// TenantModelFromDomain creates a new persistence model from a domain Tenant entity.
func TenantModelFromDomain(t *identity.Tenant) *TenantModel {
	m := &TenantModel{}
	m.FromDomain(t)
	return m
}

// UserModel carries the user columns this service reads. Users are owned by
// the account service; only display decoration happens here.
type UserModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Username    string    `gorm:"type:varchar(100);not null"`
	DisplayName string    `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// CategoryModel carries the expense category columns this service reads.
// Category CRUD is owned by the settings service.
type CategoryModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_category_tenant_name,priority:1"`
	Name     string    `gorm:"type:varchar(200);not null;uniqueIndex:idx_category_tenant_name,priority:2"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "expense_categories"
}
