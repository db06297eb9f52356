package recurring

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/domain/expense"
	"github.com/retailpos/backend/internal/domain/shared"
)

// CategoryLookup resolves expense category names for display. Lookup failures
// degrade to an empty name, never to a failed list operation.
type CategoryLookup interface {
	CategoryName(ctx context.Context, tenantID, categoryID uuid.UUID) (string, error)
}

// UserLookup resolves user display names
type UserLookup interface {
	UserName(ctx context.Context, userID uuid.UUID) (string, error)
}

// TemplateService provides application-level recurring template operations
type TemplateService struct {
	templateRepo expense.RecurringTemplateRepository
	categories   CategoryLookup
	users        UserLookup
	eventBus     shared.EventPublisher
	logger       *zap.Logger
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(
	templateRepo expense.RecurringTemplateRepository,
	categories CategoryLookup,
	users UserLookup,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *TemplateService {
	return &TemplateService{
		templateRepo: templateRepo,
		categories:   categories,
		users:        users,
		eventBus:     eventBus,
		logger:       logger,
	}
}

// TemplateResponse represents a recurring template in API responses
type TemplateResponse struct {
	ID            uuid.UUID       `json:"id"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	CategoryID    uuid.UUID       `json:"category_id"`
	CategoryName  string          `json:"category_name,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	PaymentMethod string          `json:"payment_method"`
	VendorName    string          `json:"vendor_name,omitempty"`
	VendorContact string          `json:"vendor_contact,omitempty"`
	Tags          []string        `json:"tags"`
	Notes         string          `json:"notes,omitempty"`
	Frequency     string          `json:"frequency"`
	Interval      int             `json:"interval"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       *time.Time      `json:"end_date,omitempty"`
	NextDueDate   time.Time       `json:"next_due_date"`
	IsActive      bool            `json:"is_active"`
	CreatedBy     *uuid.UUID      `json:"created_by,omitempty"`
	CreatedByName string          `json:"created_by_name,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// UpdateTemplateRequest represents a partial update of a recurring template.
// Nil pointers leave the corresponding field untouched.
type UpdateTemplateRequest struct {
	CategoryID    *uuid.UUID       `json:"category_id"`
	Amount        *decimal.Decimal `json:"amount"`
	Description   *string          `json:"description"`
	PaymentMethod *string          `json:"payment_method"`
	VendorName    *string          `json:"vendor_name"`
	VendorContact *string          `json:"vendor_contact"`
	Tags          *[]string        `json:"tags"`
	Notes         *string          `json:"notes"`
	Frequency     *string          `json:"frequency"`
	Interval      *int             `json:"interval"`
	StartDate     *time.Time       `json:"start_date"`
	EndDate       *time.Time       `json:"end_date"`
	// ClearEndDate removes the end date, reopening a bounded schedule
	ClearEndDate bool `json:"clear_end_date"`
}

// TemplateListFilter defines filtering options for template list queries
type TemplateListFilter struct {
	CategoryID *uuid.UUID `form:"category_id"`
	IsActive   *bool      `form:"is_active"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir"`
}

// GetTemplate gets a recurring template by ID
func (s *TemplateService) GetTemplate(ctx context.Context, tenantID, id uuid.UUID) (*TemplateResponse, error) {
	template, err := s.loadTemplate(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := s.toResponse(template, time.Now())
	s.decorate(ctx, tenantID, response)
	return response, nil
}

// UpdateTemplate applies a partial update to a recurring template. Schedule
// changes go through the domain aggregate, so a frequency or interval edit
// moves the next due date one new-cadence step forward from the pending one
// and never regenerates past occurrences.
func (s *TemplateService) UpdateTemplate(ctx context.Context, tenantID, id uuid.UUID, req UpdateTemplateRequest) (*TemplateResponse, error) {
	template, err := s.loadTemplate(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		name := s.resolveCategoryName(ctx, tenantID, *req.CategoryID)
		if err := template.SetCategory(*req.CategoryID, name); err != nil {
			return nil, err
		}
	}
	if req.Amount != nil {
		if err := template.SetAmount(*req.Amount); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		if err := template.SetDescription(*req.Description); err != nil {
			return nil, err
		}
	}
	if req.PaymentMethod != nil {
		if err := template.SetPaymentMethod(expense.PaymentMethod(*req.PaymentMethod)); err != nil {
			return nil, err
		}
	}
	if req.VendorName != nil || req.VendorContact != nil {
		name, contact := template.VendorName, template.VendorContact
		if req.VendorName != nil {
			name = *req.VendorName
		}
		if req.VendorContact != nil {
			contact = *req.VendorContact
		}
		template.SetVendor(name, contact)
	}
	if req.Tags != nil {
		template.SetTags(expense.TagList(*req.Tags))
	}
	if req.Notes != nil {
		template.SetNotes(*req.Notes)
	}

	if req.Frequency != nil || req.Interval != nil || req.StartDate != nil || req.EndDate != nil || req.ClearEndDate {
		frequency := template.Config.Frequency
		interval := template.Config.Interval
		startDate := template.Config.StartDate
		endDate := template.Config.EndDate

		if req.Frequency != nil {
			frequency = expense.Frequency(*req.Frequency)
		}
		if req.Interval != nil {
			interval = *req.Interval
		}
		if req.StartDate != nil {
			startDate = *req.StartDate
		}
		if req.ClearEndDate {
			endDate = nil
		} else if req.EndDate != nil {
			endDate = req.EndDate
		}

		if err := template.UpdateSchedule(frequency, interval, startDate, endDate); err != nil {
			return nil, err
		}
	}

	if err := s.templateRepo.Save(ctx, template); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, template)

	response := s.toResponse(template, time.Now())
	s.decorate(ctx, tenantID, response)
	return response, nil
}

// StopTemplate permanently halts generation for a template by bounding its
// end date to now. History is kept.
func (s *TemplateService) StopTemplate(ctx context.Context, tenantID, id uuid.UUID) (*TemplateResponse, error) {
	template, err := s.loadTemplate(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	template.Stop(now)

	if err := s.templateRepo.Save(ctx, template); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, template)

	s.logger.Info("recurring template stopped",
		zap.String("tenant_id", tenantID.String()),
		zap.String("template_id", id.String()))

	response := s.toResponse(template, now)
	// The end-date boundary itself still generates, but a just-stopped
	// template reads back as stopped
	response.IsActive = false
	return response, nil
}

// ListTemplates lists recurring templates with filtering and pagination.
// Responses are decorated with category and creator display names; lookup
// failures drop the decoration rather than failing the list.
func (s *TemplateService) ListTemplates(ctx context.Context, tenantID uuid.UUID, filter TemplateListFilter) ([]TemplateResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	now := time.Now()
	domainFilter := expense.TemplateFilter{
		CategoryID: filter.CategoryID,
		Active:     filter.IsActive,
		AsOf:       now,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		OrderBy:    filter.OrderBy,
		OrderDir:   filter.OrderDir,
	}

	templates, err := s.templateRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.templateRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]TemplateResponse, 0, len(templates))
	for i := range templates {
		response := s.toResponse(&templates[i], now)
		s.decorate(ctx, tenantID, response)
		responses = append(responses, *response)
	}

	return responses, total, nil
}

func (s *TemplateService) loadTemplate(ctx context.Context, tenantID, id uuid.UUID) (*expense.RecurringTemplate, error) {
	template, err := s.templateRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Recurring template not found")
	}
	return template, nil
}

func (s *TemplateService) resolveCategoryName(ctx context.Context, tenantID, categoryID uuid.UUID) string {
	if s.categories == nil {
		return ""
	}
	name, err := s.categories.CategoryName(ctx, tenantID, categoryID)
	if err != nil {
		s.logger.Warn("category lookup failed",
			zap.String("category_id", categoryID.String()), zap.Error(err))
		return ""
	}
	return name
}

// decorate fills display-only fields from the lookup collaborators
func (s *TemplateService) decorate(ctx context.Context, tenantID uuid.UUID, response *TemplateResponse) {
	if response.CategoryName == "" {
		response.CategoryName = s.resolveCategoryName(ctx, tenantID, response.CategoryID)
	}
	if s.users != nil && response.CreatedBy != nil {
		name, err := s.users.UserName(ctx, *response.CreatedBy)
		if err != nil {
			s.logger.Warn("user lookup failed",
				zap.String("user_id", response.CreatedBy.String()), zap.Error(err))
		} else {
			response.CreatedByName = name
		}
	}
}

func (s *TemplateService) publishEvents(ctx context.Context, template *expense.RecurringTemplate) {
	if s.eventBus == nil {
		return
	}
	events := template.GetDomainEvents()
	template.ClearDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish template events",
			zap.String("template_id", template.ID.String()), zap.Error(err))
	}
}

func (s *TemplateService) toResponse(template *expense.RecurringTemplate, asOf time.Time) *TemplateResponse {
	return &TemplateResponse{
		ID:            template.ID,
		TenantID:      template.TenantID,
		CategoryID:    template.CategoryID,
		CategoryName:  template.CategoryName,
		Amount:        template.Amount,
		Description:   template.Description,
		PaymentMethod: template.PaymentMethod.String(),
		VendorName:    template.VendorName,
		VendorContact: template.VendorContact,
		Tags:          template.Tags,
		Notes:         template.Notes,
		Frequency:     template.Config.Frequency.String(),
		Interval:      template.Config.Interval,
		StartDate:     template.Config.StartDate,
		EndDate:       template.Config.EndDate,
		NextDueDate:   template.Config.NextDueDate,
		IsActive:      template.IsActive(asOf),
		CreatedBy:     template.CreatedBy,
		CreatedAt:     template.CreatedAt,
		UpdatedAt:     template.UpdatedAt,
		Version:       template.Version,
	}
}
