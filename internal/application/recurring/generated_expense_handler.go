package recurring

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/domain/expense"
	"github.com/retailpos/backend/internal/domain/shared"
)

// GeneratedExpenseHandler handles ExpenseGeneratedEvent and emits the audit
// log line operators use to trace generated expenses back to their templates.
type GeneratedExpenseHandler struct {
	logger *zap.Logger
}

// NewGeneratedExpenseHandler creates a new handler for expense generated events
func NewGeneratedExpenseHandler(logger *zap.Logger) *GeneratedExpenseHandler {
	return &GeneratedExpenseHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *GeneratedExpenseHandler) EventTypes() []string {
	return []string{expense.EventTypeExpenseGenerated}
}

// Handle processes an ExpenseGeneratedEvent
func (h *GeneratedExpenseHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	generated, ok := event.(*expense.ExpenseGeneratedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			expense.EventTypeExpenseGenerated, event.EventType())
	}

	h.logger.Info("expense generated from recurring template",
		zap.String("tenant_id", generated.TenantID().String()),
		zap.String("expense_id", generated.ExpenseID.String()),
		zap.String("expense_number", generated.ExpenseNumber),
		zap.String("template_id", generated.TemplateID.String()),
		zap.String("amount", generated.Amount.String()),
		zap.Time("due_date", generated.DueDate),
	)
	return nil
}
