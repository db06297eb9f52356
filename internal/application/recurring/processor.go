package recurring

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/domain/expense"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
)

// OccurrenceKey builds the idempotency key guarding one (template, due date)
// occurrence. Two overlapping runs that find the same template due will race
// on this key; only the winner generates.
func OccurrenceKey(templateID uuid.UUID, dueDate time.Time) string {
	return fmt.Sprintf("recurring:occurrence:%s:%s", templateID, dueDate.Format("2006-01-02"))
}

// TenantProcessor generates concrete expenses for one tenant's due templates.
// Each template is processed independently: a failure on one is recorded and
// contained, never aborting the rest of the tenant's batch.
type TenantProcessor struct {
	templateRepo expense.RecurringTemplateRepository
	expenseRepo  expense.ExpenseRepository
	uow          expense.GenerationUnitOfWork
	idempotency  shared.IdempotencyStore
	ttl          time.Duration
	eventBus     shared.EventPublisher
	logger       *zap.Logger
}

// NewTenantProcessor creates a new tenant processor
func NewTenantProcessor(
	templateRepo expense.RecurringTemplateRepository,
	expenseRepo expense.ExpenseRepository,
	uow expense.GenerationUnitOfWork,
	idempotency shared.IdempotencyStore,
	idempotencyTTL time.Duration,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *TenantProcessor {
	if idempotencyTTL <= 0 {
		idempotencyTTL = shared.DefaultIdempotencyConfig().TTL
	}
	return &TenantProcessor{
		templateRepo: templateRepo,
		expenseRepo:  expenseRepo,
		uow:          uow,
		idempotency:  idempotency,
		ttl:          idempotencyTTL,
		eventBus:     eventBus,
		logger:       logger,
	}
}

// ProcessTenant finds every template due on or before asOf and generates one
// concrete expense per template, advancing each schedule exactly once. The
// returned result always reflects the whole batch; per-template failures are
// carried inside it rather than returned as an error. An error is returned
// only when the tenant itself could not be processed at all.
func (p *TenantProcessor) ProcessTenant(ctx context.Context, tenant identity.TenantHandle, asOf time.Time) (TenantRunResult, error) {
	result := TenantRunResult{
		TenantID:    tenant.ID,
		TenantCode:  tenant.Code,
		ProcessedAt: time.Now(),
	}

	due, err := p.templateRepo.FindDue(ctx, tenant.ID, asOf)
	if err != nil {
		return result, fmt.Errorf("find due templates: %w", err)
	}
	result.TemplatesDue = len(due)

	for i := range due {
		template := &due[i]

		outcome, skip, procErr := p.processTemplate(ctx, tenant, template, asOf)
		switch {
		case procErr != nil:
			result.Errors = append(result.Errors, *procErr)
			p.logger.Error("recurring template processing failed",
				zap.String("tenant_id", tenant.ID.String()),
				zap.String("template_id", template.ID.String()),
				zap.String("error", procErr.Message))
		case skip != nil:
			result.Skipped = append(result.Skipped, *skip)
			p.logger.Info("recurring template skipped",
				zap.String("tenant_id", tenant.ID.String()),
				zap.String("template_id", template.ID.String()),
				zap.String("reason", skip.Reason))
		default:
			result.Generated = append(result.Generated, *outcome)
			result.ExpensesCreated++
			p.logger.Info("recurring expense generated",
				zap.String("tenant_id", tenant.ID.String()),
				zap.String("template_id", template.ID.String()),
				zap.String("expense_number", outcome.ExpenseNumber),
				zap.Time("due_date", outcome.PreviousDueDate),
				zap.Time("next_due_date", outcome.NextDueDate))
		}
	}

	return result, nil
}

// processTemplate runs the generate-then-advance sequence for one template.
// Exactly one of the three returns is non-nil.
func (p *TenantProcessor) processTemplate(
	ctx context.Context,
	tenant identity.TenantHandle,
	template *expense.RecurringTemplate,
	asOf time.Time,
) (outcome *GeneratedExpense, skip *SkippedTemplate, procErr *ProcessingError) {
	templateID := template.ID
	dueDate := template.Config.NextDueDate

	var reservedKey string
	defer func() {
		if r := recover(); r != nil {
			if reservedKey != "" {
				if releaseErr := p.idempotency.Release(ctx, reservedKey); releaseErr != nil {
					p.logger.Warn("failed to release occurrence reservation",
						zap.String("key", reservedKey), zap.Error(releaseErr))
				}
			}
			outcome, skip = nil, nil
			procErr = &ProcessingError{
				TenantID:   tenant.ID,
				TemplateID: &templateID,
				Message:    fmt.Sprintf("panic: %v", r),
			}
		}
	}()

	// Lapsed templates are skipped without advancing, so history shows where
	// the schedule stopped.
	if !template.IsActive(asOf) {
		return nil, &SkippedTemplate{TemplateID: templateID, DueDate: dueDate, Reason: SkipReasonExpired}, nil
	}

	key := OccurrenceKey(templateID, dueDate)
	reserved, err := p.idempotency.MarkProcessed(ctx, key, p.ttl)
	if err != nil {
		return nil, nil, p.templateError(tenant.ID, templateID, fmt.Errorf("reserve occurrence: %w", err))
	}
	if !reserved {
		// Another run holds this occurrence. It will advance the template;
		// we report the overlap and move on.
		return nil, &SkippedTemplate{TemplateID: templateID, DueDate: dueDate, Reason: SkipReasonAlreadyGenerated}, nil
	}
	reservedKey = key

	exp, nextDue, err := p.generate(ctx, template, dueDate, asOf)
	if err != nil {
		// Drop the reservation so the next run can retry the occurrence
		// instead of waiting out the TTL.
		if releaseErr := p.idempotency.Release(ctx, key); releaseErr != nil {
			p.logger.Warn("failed to release occurrence reservation",
				zap.String("key", key), zap.Error(releaseErr))
		}
		return nil, nil, p.templateError(tenant.ID, templateID, err)
	}

	p.publishEvents(ctx, exp, template)

	return &GeneratedExpense{
		TemplateID:      templateID,
		ExpenseID:       exp.ID,
		ExpenseNumber:   exp.ExpenseNumber,
		PreviousDueDate: dueDate,
		NextDueDate:     nextDue,
	}, nil, nil
}

// generate materializes the expense for the currently pending due date and
// commits it together with the schedule advance.
func (p *TenantProcessor) generate(
	ctx context.Context,
	template *expense.RecurringTemplate,
	dueDate time.Time,
	asOf time.Time,
) (*expense.Expense, time.Time, error) {
	number, err := p.expenseRepo.NextExpenseNumber(ctx, template.TenantID, asOf.Year())
	if err != nil {
		return nil, time.Time{}, err
	}

	// Advance from the due date just fulfilled, never from asOf, so cadence
	// survives runs that were skipped for several periods.
	nextDue, err := template.NextScheduleAdvance()
	if err != nil {
		return nil, time.Time{}, err
	}

	exp, err := expense.NewExpenseFromTemplate(template, dueDate, number)
	if err != nil {
		return nil, time.Time{}, err
	}

	if err := p.uow.CommitGeneration(ctx, exp, template.ID, dueDate, nextDue); err != nil {
		return nil, time.Time{}, err
	}

	template.Config.NextDueDate = nextDue
	return exp, nextDue, nil
}

func (p *TenantProcessor) publishEvents(ctx context.Context, exp *expense.Expense, template *expense.RecurringTemplate) {
	if p.eventBus == nil {
		return
	}
	events := exp.GetDomainEvents()
	exp.ClearDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := p.eventBus.Publish(ctx, events...); err != nil {
		// Event delivery is best-effort; the expense is already committed.
		p.logger.Warn("failed to publish generation events",
			zap.String("template_id", template.ID.String()), zap.Error(err))
	}
}

func (p *TenantProcessor) templateError(tenantID, templateID uuid.UUID, err error) *ProcessingError {
	id := templateID
	return &ProcessingError{TenantID: tenantID, TemplateID: &id, Message: err.Error()}
}
