package expense

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Expense is the aggregate root for one concrete, dated expense record.
// Expenses generated from a recurring template carry a back-reference to it
// and are created exactly once per (template, due date) pair; the engine
// never mutates or regenerates them afterwards.
type Expense struct {
	shared.TenantAggregateRoot
	ExpenseNumber    string          `json:"expense_number"`
	CategoryID       uuid.UUID       `json:"category_id"`
	CategoryName     string          `json:"category_name"`
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description"`
	PaymentMethod    PaymentMethod   `json:"payment_method"`
	VendorName       string          `json:"vendor_name"`
	VendorContact    string          `json:"vendor_contact"`
	Tags             TagList         `json:"tags"`
	Notes            string          `json:"notes"`
	ExpenseDate      time.Time       `json:"expense_date"`
	SourceTemplateID *uuid.UUID      `json:"source_template_id,omitempty"`
}

// NewExpense creates a new standalone expense record
func NewExpense(
	tenantID uuid.UUID,
	expenseNumber string,
	categoryID uuid.UUID,
	categoryName string,
	amount decimal.Decimal,
	description string,
	expenseDate time.Time,
) (*Expense, error) {
	if !IsValidExpenseNumber(expenseNumber) {
		return nil, shared.NewDomainError("INVALID_EXPENSE_NUMBER", "Expense number is malformed")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if expenseDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_EXPENSE_DATE", "Expense date cannot be empty")
	}

	return &Expense{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ExpenseNumber:       expenseNumber,
		CategoryID:          categoryID,
		CategoryName:        categoryName,
		Amount:              amount,
		Description:         description,
		PaymentMethod:       PaymentMethodOther,
		Tags:                TagList{},
		ExpenseDate:         expenseDate,
	}, nil
}

// NewExpenseFromTemplate materializes one occurrence of a recurring template.
// The expense is dated exactly dueDate (the occurrence being fulfilled),
// never the processing time, and copies the template's denormalized fields.
// Generated expenses carry no attachments.
func NewExpenseFromTemplate(template *RecurringTemplate, dueDate time.Time, expenseNumber string) (*Expense, error) {
	exp, err := NewExpense(
		template.TenantID,
		expenseNumber,
		template.CategoryID,
		template.CategoryName,
		template.Amount,
		template.Description,
		dueDate,
	)
	if err != nil {
		return nil, err
	}

	exp.PaymentMethod = template.PaymentMethod
	exp.VendorName = template.VendorName
	exp.VendorContact = template.VendorContact
	exp.Tags = template.Tags.Clone()
	exp.Notes = template.Notes
	templateID := template.ID
	exp.SourceTemplateID = &templateID
	if template.CreatedBy != nil {
		exp.SetCreatedBy(*template.CreatedBy)
	}

	exp.AddDomainEvent(NewExpenseGeneratedEvent(exp, template, dueDate))

	return exp, nil
}
