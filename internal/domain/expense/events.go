package expense

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type names
const (
	EventTypeRecurringTemplateCreated = "RecurringTemplateCreated"
	EventTypeRecurringTemplateUpdated = "RecurringTemplateUpdated"
	EventTypeRecurringTemplateStopped = "RecurringTemplateStopped"
	EventTypeExpenseGenerated         = "ExpenseGenerated"
)

// RecurringTemplateCreatedEvent is raised when a new recurring template is created
type RecurringTemplateCreatedEvent struct {
	shared.BaseDomainEvent
	TemplateID  uuid.UUID       `json:"template_id"`
	CategoryID  uuid.UUID       `json:"category_id"`
	Amount      decimal.Decimal `json:"amount"`
	Frequency   Frequency       `json:"frequency"`
	Interval    int             `json:"interval"`
	NextDueDate time.Time       `json:"next_due_date"`
}

// EventType returns the event type name
func (e *RecurringTemplateCreatedEvent) EventType() string {
	return EventTypeRecurringTemplateCreated
}

// NewRecurringTemplateCreatedEvent creates a new RecurringTemplateCreatedEvent
func NewRecurringTemplateCreatedEvent(template *RecurringTemplate) *RecurringTemplateCreatedEvent {
	return &RecurringTemplateCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRecurringTemplateCreated, "RecurringTemplate", template.ID, template.TenantID),
		TemplateID:      template.ID,
		CategoryID:      template.CategoryID,
		Amount:          template.Amount,
		Frequency:       template.Config.Frequency,
		Interval:        template.Config.Interval,
		NextDueDate:     template.Config.NextDueDate,
	}
}

// RecurringTemplateUpdatedEvent is raised when a template's configuration changes
type RecurringTemplateUpdatedEvent struct {
	shared.BaseDomainEvent
	TemplateID  uuid.UUID `json:"template_id"`
	Frequency   Frequency `json:"frequency"`
	Interval    int       `json:"interval"`
	NextDueDate time.Time `json:"next_due_date"`
}

// EventType returns the event type name
func (e *RecurringTemplateUpdatedEvent) EventType() string {
	return EventTypeRecurringTemplateUpdated
}

// NewRecurringTemplateUpdatedEvent creates a new RecurringTemplateUpdatedEvent
func NewRecurringTemplateUpdatedEvent(template *RecurringTemplate) *RecurringTemplateUpdatedEvent {
	return &RecurringTemplateUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRecurringTemplateUpdated, "RecurringTemplate", template.ID, template.TenantID),
		TemplateID:      template.ID,
		Frequency:       template.Config.Frequency,
		Interval:        template.Config.Interval,
		NextDueDate:     template.Config.NextDueDate,
	}
}

// RecurringTemplateStoppedEvent is raised when a template is permanently stopped
type RecurringTemplateStoppedEvent struct {
	shared.BaseDomainEvent
	TemplateID uuid.UUID `json:"template_id"`
	StoppedAt  time.Time `json:"stopped_at"`
}

// EventType returns the event type name
func (e *RecurringTemplateStoppedEvent) EventType() string {
	return EventTypeRecurringTemplateStopped
}

// NewRecurringTemplateStoppedEvent creates a new RecurringTemplateStoppedEvent
func NewRecurringTemplateStoppedEvent(template *RecurringTemplate, stoppedAt time.Time) *RecurringTemplateStoppedEvent {
	return &RecurringTemplateStoppedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRecurringTemplateStopped, "RecurringTemplate", template.ID, template.TenantID),
		TemplateID:      template.ID,
		StoppedAt:       stoppedAt,
	}
}

// ExpenseGeneratedEvent is raised when a concrete expense is materialized
// from a recurring template
type ExpenseGeneratedEvent struct {
	shared.BaseDomainEvent
	ExpenseID     uuid.UUID       `json:"expense_id"`
	ExpenseNumber string          `json:"expense_number"`
	TemplateID    uuid.UUID       `json:"template_id"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       time.Time       `json:"due_date"`
}

// EventType returns the event type name
func (e *ExpenseGeneratedEvent) EventType() string {
	return EventTypeExpenseGenerated
}

// NewExpenseGeneratedEvent creates a new ExpenseGeneratedEvent
func NewExpenseGeneratedEvent(exp *Expense, template *RecurringTemplate, dueDate time.Time) *ExpenseGeneratedEvent {
	return &ExpenseGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpenseGenerated, "Expense", exp.ID, exp.TenantID),
		ExpenseID:       exp.ID,
		ExpenseNumber:   exp.ExpenseNumber,
		TemplateID:      template.ID,
		Amount:          exp.Amount,
		DueDate:         dueDate,
	}
}
