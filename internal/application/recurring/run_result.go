package recurring

import (
	"time"

	"github.com/google/uuid"
)

// GeneratedExpense records one successful template occurrence: which
// template fired, the expense it produced, and how the schedule moved.
type GeneratedExpense struct {
	TemplateID      uuid.UUID `json:"template_id"`
	ExpenseID       uuid.UUID `json:"expense_id"`
	ExpenseNumber   string    `json:"expense_number"`
	PreviousDueDate time.Time `json:"previous_due_date"`
	NextDueDate     time.Time `json:"next_due_date"`
}

// SkippedTemplate records a template that was due but deliberately not
// generated from (lapsed past its end date, or already handled by an
// overlapping run).
type SkippedTemplate struct {
	TemplateID uuid.UUID `json:"template_id"`
	DueDate    time.Time `json:"due_date"`
	Reason     string    `json:"reason"`
}

// Skip reasons
const (
	SkipReasonExpired          = "expired"
	SkipReasonAlreadyGenerated = "already_generated"
)

// ProcessingError is one contained failure, scoped either to a single
// template or to a whole tenant.
type ProcessingError struct {
	TenantID   uuid.UUID  `json:"tenant_id"`
	TemplateID *uuid.UUID `json:"template_id,omitempty"`
	Message    string     `json:"message"`
}

// TenantRunResult reports one tenant's processing pass
type TenantRunResult struct {
	TenantID        uuid.UUID          `json:"tenant_id"`
	TenantCode      string             `json:"tenant_code"`
	ProcessedAt     time.Time          `json:"processed_at"`
	TemplatesDue    int                `json:"templates_due"`
	ExpensesCreated int                `json:"expenses_created"`
	Generated       []GeneratedExpense `json:"generated,omitempty"`
	Skipped         []SkippedTemplate  `json:"skipped,omitempty"`
	Errors          []ProcessingError  `json:"errors,omitempty"`
}

// AggregateRunResult reports one full orchestrator run across all tenants.
// It is ephemeral: returned to the caller and logged, never persisted.
type AggregateRunResult struct {
	AsOf            time.Time         `json:"as_of"`
	StartedAt       time.Time         `json:"started_at"`
	FinishedAt      time.Time         `json:"finished_at"`
	TenantsTotal    int               `json:"tenants_total"`
	TenantsFailed   int               `json:"tenants_failed"`
	TemplatesDue    int               `json:"templates_due"`
	ExpensesCreated int               `json:"expenses_created"`
	Tenants         []TenantRunResult `json:"tenants,omitempty"`
	Errors          []ProcessingError `json:"errors,omitempty"`
}
