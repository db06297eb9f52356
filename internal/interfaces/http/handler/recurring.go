package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/application/recurring"
)

// GenerationRunner triggers a full recurring expense generation pass
type GenerationRunner interface {
	Run(ctx context.Context, asOf time.Time) (recurring.AggregateRunResult, error)
}

// RecurringExpenseHandler handles recurring expense template API endpoints
type RecurringExpenseHandler struct {
	BaseHandler
	templates *recurring.TemplateService
	runner    GenerationRunner
	logger    *zap.Logger
}

// NewRecurringExpenseHandler creates a new RecurringExpenseHandler
func NewRecurringExpenseHandler(
	templates *recurring.TemplateService,
	runner GenerationRunner,
	logger *zap.Logger,
) *RecurringExpenseHandler {
	return &RecurringExpenseHandler{
		templates: templates,
		runner:    runner,
		logger:    logger,
	}
}

// ListTemplatesQuery holds the query parameters for template listing
type ListTemplatesQuery struct {
	CategoryID string `form:"category_id"`
	IsActive   *bool  `form:"is_active"`
	Page       int    `form:"page,omitempty" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size,omitempty" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ListTemplates handles GET /recurring-expenses
func (h *RecurringExpenseHandler) ListTemplates(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var query ListTemplatesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	filter := recurring.TemplateListFilter{
		IsActive: query.IsActive,
		Page:     query.Page,
		PageSize: query.PageSize,
		OrderBy:  query.OrderBy,
		OrderDir: query.OrderDir,
	}
	if query.CategoryID != "" {
		categoryID, err := uuid.Parse(query.CategoryID)
		if err != nil {
			h.BadRequest(c, "Invalid category ID")
			return
		}
		filter.CategoryID = &categoryID
	}

	responses, total, err := h.templates.ListTemplates(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, responses, total, page, pageSize)
}

// GetTemplate handles GET /recurring-expenses/:id
func (h *RecurringExpenseHandler) GetTemplate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID")
		return
	}

	response, err := h.templates.GetTemplate(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, response)
}

// UpdateTemplate handles PUT /recurring-expenses/:id
func (h *RecurringExpenseHandler) UpdateTemplate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID")
		return
	}

	var req recurring.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	response, err := h.templates.UpdateTemplate(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, response)
}

// StopTemplate handles POST /recurring-expenses/:id/stop
func (h *RecurringExpenseHandler) StopTemplate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID")
		return
	}

	response, err := h.templates.StopTemplate(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, response)
}

// RunGenerationRequest optionally overrides the reference time of a manual run
type RunGenerationRequest struct {
	AsOf *time.Time `json:"as_of"`
}

// RunGeneration handles POST /recurring-expenses/run. It triggers the same
// generation pass the scheduler runs, synchronously, and returns the run
// report. The pass covers all active tenants, not just the caller's.
func (h *RecurringExpenseHandler) RunGeneration(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req RunGenerationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindingError(c, err)
			return
		}
	}

	asOf := time.Now()
	if req.AsOf != nil {
		asOf = *req.AsOf
	}

	h.logger.Info("manual generation run requested",
		zap.String("user_id", userID.String()),
		zap.Time("as_of", asOf))

	result, err := h.runner.Run(c.Request.Context(), asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
