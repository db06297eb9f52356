package expense

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TemplateFilter defines filtering options for template list queries
type TemplateFilter struct {
	CategoryID *uuid.UUID
	// Active filters on whether the template can still fire as of AsOf
	// (no end date, or end date in the future)
	Active   *bool
	AsOf     time.Time
	Page     int
	PageSize int
	// OrderBy and OrderDir are validated against a column whitelist by the
	// repository; unknown values fall back to created_at DESC
	OrderBy  string
	OrderDir string
}

// RecurringTemplateRepository defines persistence for recurring templates
type RecurringTemplateRepository interface {
	// FindByIDForTenant finds a template by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*RecurringTemplate, error)

	// FindAllForTenant lists templates for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter TemplateFilter) ([]RecurringTemplate, error)

	// CountForTenant counts templates for a tenant with filtering
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter TemplateFilter) (int64, error)

	// FindDue returns all templates whose next due date is on or before asOf
	FindDue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]RecurringTemplate, error)

	// Save creates or updates a template
	Save(ctx context.Context, template *RecurringTemplate) error
}

// ExpenseRepository defines persistence for concrete expense records
type ExpenseRepository interface {
	// FindByIDForTenant finds an expense by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Expense, error)

	// FindByNumber finds an expense by its expense number within a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*Expense, error)

	// FindByTemplate lists expenses generated from a template, newest first
	FindByTemplate(ctx context.Context, tenantID, templateID uuid.UUID) ([]Expense, error)

	// Save creates or updates an expense record
	Save(ctx context.Context, exp *Expense) error

	// NextExpenseNumber atomically allocates the next expense number for a
	// (tenant, year) pair. Implementations must be safe against concurrent
	// allocation; a read-max-then-increment approach is not acceptable.
	// Failures are reported as ErrNumberGeneration.
	NextExpenseNumber(ctx context.Context, tenantID uuid.UUID, year int) (string, error)
}

// GenerationUnitOfWork persists a generated expense and advances its
// template's schedule as one atomic unit, so a crash between the two steps
// can neither lose the advance (duplicate generation on retry) nor lose the
// expense (skipped occurrence).
type GenerationUnitOfWork interface {
	// CommitGeneration inserts the expense and moves the template's next due
	// date from previousDue to nextDue in a single transaction. The advance
	// is conditional on the stored due date still being previousDue; when a
	// concurrent run already advanced it, the whole unit rolls back and
	// shared.ErrConcurrencyConflict is returned.
	CommitGeneration(ctx context.Context, exp *Expense, templateID uuid.UUID, previousDue, nextDue time.Time) error
}
