package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailpos/backend/internal/domain/expense"
	"github.com/retailpos/backend/internal/domain/shared"
)

// RecurringTemplateModel is the persistence model for the RecurringTemplate
// aggregate root.
type RecurringTemplateModel struct {
	TenantAggregateModel
	CategoryID    uuid.UUID             `gorm:"type:uuid;not null;index"`
	CategoryName  string                `gorm:"type:varchar(200)"`
	Amount        decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Description   string                `gorm:"type:varchar(500);not null"`
	PaymentMethod expense.PaymentMethod `gorm:"type:varchar(30);not null;default:'OTHER'"`
	VendorName    string                `gorm:"type:varchar(200)"`
	VendorContact string                `gorm:"type:varchar(200)"`
	Tags          expense.TagList       `gorm:"type:jsonb;default:'[]'"`
	Notes         string                `gorm:"type:text"`
	Frequency     expense.Frequency     `gorm:"type:varchar(20);not null"`
	IntervalCount int                   `gorm:"column:interval_count;not null;default:1"`
	StartDate     time.Time             `gorm:"not null"`
	EndDate       *time.Time            `gorm:"index"`
	NextDueDate   time.Time             `gorm:"not null;index:idx_recurring_tenant_due,priority:2"`
}

// TableName returns the table name for GORM
func (RecurringTemplateModel) TableName() string {
	return "recurring_expense_templates"
}

// ToDomain converts the persistence model to a domain RecurringTemplate.
func (m *RecurringTemplateModel) ToDomain() *expense.RecurringTemplate {
	return &expense.RecurringTemplate{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{
					ID:        m.ID,
					CreatedAt: m.CreatedAt,
					UpdatedAt: m.UpdatedAt,
				},
				Version: m.Version,
			},
			TenantID:  m.TenantID,
			CreatedBy: m.CreatedBy,
		},
		CategoryID:    m.CategoryID,
		CategoryName:  m.CategoryName,
		Amount:        m.Amount,
		Description:   m.Description,
		PaymentMethod: m.PaymentMethod,
		VendorName:    m.VendorName,
		VendorContact: m.VendorContact,
		Tags:          m.Tags.Clone(),
		Notes:         m.Notes,
		Config: expense.RecurringConfig{
			Frequency:   m.Frequency,
			Interval:    m.IntervalCount,
			StartDate:   m.StartDate,
			EndDate:     m.EndDate,
			NextDueDate: m.NextDueDate,
		},
	}
}

// FromDomain populates the persistence model from a domain RecurringTemplate.
func (m *RecurringTemplateModel) FromDomain(t *expense.RecurringTemplate) {
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	m.CategoryID = t.CategoryID
	m.CategoryName = t.CategoryName
	m.Amount = t.Amount
	m.Description = t.Description
	m.PaymentMethod = t.PaymentMethod
	m.VendorName = t.VendorName
	m.VendorContact = t.VendorContact
	m.Tags = t.Tags.Clone()
	m.Notes = t.Notes
	m.Frequency = t.Config.Frequency
	m.IntervalCount = t.Config.Interval
	m.StartDate = t.Config.StartDate
	m.EndDate = t.Config.EndDate
	m.NextDueDate = t.Config.NextDueDate
}

// RecurringTemplateModelFromDomain creates a new persistence model from domain.
func RecurringTemplateModelFromDomain(t *expense.RecurringTemplate) *RecurringTemplateModel {
	m := &RecurringTemplateModel{}
	m.FromDomain(t)
	return m
}

// ExpenseModel is the persistence model for the Expense aggregate root.
// (tenant_id, expense_number) is unique so a duplicated generation attempt
// fails at the database rather than producing two records.
type ExpenseModel struct {
	TenantAggregateModel
	ExpenseNumber    string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_expense_tenant_number,priority:2"`
	CategoryID       uuid.UUID             `gorm:"type:uuid;not null;index"`
	CategoryName     string                `gorm:"type:varchar(200)"`
	Amount           decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Description      string                `gorm:"type:varchar(500);not null"`
	PaymentMethod    expense.PaymentMethod `gorm:"type:varchar(30);not null;default:'OTHER'"`
	VendorName       string                `gorm:"type:varchar(200)"`
	VendorContact    string                `gorm:"type:varchar(200)"`
	Tags             expense.TagList       `gorm:"type:jsonb;default:'[]'"`
	Notes            string                `gorm:"type:text"`
	ExpenseDate      time.Time             `gorm:"not null;index"`
	SourceTemplateID *uuid.UUID            `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the persistence model to a domain Expense.
func (m *ExpenseModel) ToDomain() *expense.Expense {
	return &expense.Expense{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{
					ID:        m.ID,
					CreatedAt: m.CreatedAt,
					UpdatedAt: m.UpdatedAt,
				},
				Version: m.Version,
			},
			TenantID:  m.TenantID,
			CreatedBy: m.CreatedBy,
		},
		ExpenseNumber:    m.ExpenseNumber,
		CategoryID:       m.CategoryID,
		CategoryName:     m.CategoryName,
		Amount:           m.Amount,
		Description:      m.Description,
		PaymentMethod:    m.PaymentMethod,
		VendorName:       m.VendorName,
		VendorContact:    m.VendorContact,
		Tags:             m.Tags.Clone(),
		Notes:            m.Notes,
		ExpenseDate:      m.ExpenseDate,
		SourceTemplateID: m.SourceTemplateID,
	}
}

// FromDomain populates the persistence model from a domain Expense.
func (m *ExpenseModel) FromDomain(e *expense.Expense) {
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	m.ExpenseNumber = e.ExpenseNumber
	m.CategoryID = e.CategoryID
	m.CategoryName = e.CategoryName
	m.Amount = e.Amount
	m.Description = e.Description
	m.PaymentMethod = e.PaymentMethod
	m.VendorName = e.VendorName
	m.VendorContact = e.VendorContact
	m.Tags = e.Tags.Clone()
	m.Notes = e.Notes
	m.ExpenseDate = e.ExpenseDate
	m.SourceTemplateID = e.SourceTemplateID
}

// ExpenseModelFromDomain creates a new persistence model from domain.
func ExpenseModelFromDomain(e *expense.Expense) *ExpenseModel {
	m := &ExpenseModel{}
	m.FromDomain(e)
	return m
}

// ExpenseNumberCounterModel backs the atomic per-(tenant, year) expense
// number sequence. The counter row is upserted with an atomic increment;
// it is never read-then-written.
type ExpenseNumberCounterModel struct {
	TenantID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Year     int       `gorm:"primaryKey"`
	Counter  int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ExpenseNumberCounterModel) TableName() string {
	return "expense_number_counters"
}
