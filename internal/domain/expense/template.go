package expense

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how an expense is settled
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodMobile       PaymentMethod = "MOBILE"
	PaymentMethodOther        PaymentMethod = "OTHER"
)

// IsValid checks if the payment method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCard,
		PaymentMethodMobile, PaymentMethodOther:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// RecurringTemplate is the aggregate root for a recurring expense
// configuration. It is expense-shaped: everything a concrete expense carries
// is copied from here at generation time, plus a schedule deciding when the
// next occurrence is due.
//
// Invariant: Config.NextDueDate is the earliest date the template has not yet
// generated for. It only moves forward, one Interval step of Frequency at a
// time, and only as a side effect of successful generation.
type RecurringTemplate struct {
	shared.TenantAggregateRoot
	CategoryID    uuid.UUID       `json:"category_id"`
	CategoryName  string          `json:"category_name"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	VendorName    string          `json:"vendor_name"`
	VendorContact string          `json:"vendor_contact"`
	Tags          TagList         `json:"tags"`
	Notes         string          `json:"notes"`
	Config        RecurringConfig `json:"recurring_config"`
}

// NewRecurringTemplate creates a new recurring template
func NewRecurringTemplate(
	tenantID uuid.UUID,
	categoryID uuid.UUID,
	categoryName string,
	amount decimal.Decimal,
	description string,
	config RecurringConfig,
) (*RecurringTemplate, error) {
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if len(description) > 500 {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.NextDueDate.IsZero() {
		// A fresh template is first due on its start date
		config.NextDueDate = config.StartDate
	}

	template := &RecurringTemplate{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CategoryID:          categoryID,
		CategoryName:        categoryName,
		Amount:              amount,
		Description:         description,
		PaymentMethod:       PaymentMethodOther,
		Tags:                TagList{},
		Config:              config,
	}

	template.AddDomainEvent(NewRecurringTemplateCreatedEvent(template))

	return template, nil
}

// SetCategory updates the category reference and its denormalized name
func (t *RecurringTemplate) SetCategory(categoryID uuid.UUID, categoryName string) error {
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Category ID cannot be empty")
	}
	t.CategoryID = categoryID
	t.CategoryName = categoryName
	t.UpdatedAt = time.Now()
	return nil
}

// SetAmount updates the monetary amount
func (t *RecurringTemplate) SetAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	t.Amount = amount
	t.UpdatedAt = time.Now()
	return nil
}

// SetDescription updates the description
func (t *RecurringTemplate) SetDescription(description string) error {
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if len(description) > 500 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}
	t.Description = description
	t.UpdatedAt = time.Now()
	return nil
}

// SetPaymentMethod updates the payment method
func (t *RecurringTemplate) SetPaymentMethod(method PaymentMethod) error {
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}
	t.PaymentMethod = method
	t.UpdatedAt = time.Now()
	return nil
}

// SetVendor updates the vendor info
func (t *RecurringTemplate) SetVendor(name, contact string) {
	t.VendorName = name
	t.VendorContact = contact
	t.UpdatedAt = time.Now()
}

// SetTags replaces the tag set
func (t *RecurringTemplate) SetTags(tags TagList) {
	t.Tags = tags.Clone()
	t.UpdatedAt = time.Now()
}

// SetNotes updates the free-form notes
func (t *RecurringTemplate) SetNotes(notes string) {
	t.Notes = notes
	t.UpdatedAt = time.Now()
}

// UpdateSchedule applies a new recurring configuration. When frequency or
// interval changed, the pending due date is replaced by one new-cadence step
// taken from it, so a schedule edit moves the template forward and never
// regenerates past occurrences.
func (t *RecurringTemplate) UpdateSchedule(frequency Frequency, interval int, startDate time.Time, endDate *time.Time) error {
	updated := RecurringConfig{
		Frequency:   frequency,
		Interval:    interval,
		StartDate:   startDate,
		EndDate:     endDate,
		NextDueDate: t.Config.NextDueDate,
	}
	if err := updated.Validate(); err != nil {
		return err
	}

	if frequency != t.Config.Frequency || interval != t.Config.Interval {
		next, err := NextDueDate(t.Config.NextDueDate, frequency, interval)
		if err != nil {
			return err
		}
		updated.NextDueDate = next
	}

	t.Config = updated
	t.UpdatedAt = time.Now()

	t.AddDomainEvent(NewRecurringTemplateUpdatedEvent(t))
	return nil
}

// Stop permanently halts generation by bounding the end date to the given
// moment. History is kept; the template is never hard-deleted.
func (t *RecurringTemplate) Stop(now time.Time) {
	t.Config.EndDate = &now
	t.UpdatedAt = now

	t.AddDomainEvent(NewRecurringTemplateStoppedEvent(t, now))
}

// IsActive reports whether the template should still fire as of the given time
func (t *RecurringTemplate) IsActive(asOf time.Time) bool {
	return t.Config.IsActive(asOf)
}

// IsDue reports whether the template is due on or before the given time
func (t *RecurringTemplate) IsDue(asOf time.Time) bool {
	return t.Config.IsDue(asOf)
}

// NextScheduleAdvance computes the due date that would follow the currently
// pending one. It does not mutate the template: the advance is persisted with
// a conditional update keyed on the previous due date, and the in-memory copy
// is refreshed from that write.
func (t *RecurringTemplate) NextScheduleAdvance() (time.Time, error) {
	return NextDueDate(t.Config.NextDueDate, t.Config.Frequency, t.Config.Interval)
}
