package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestContext returns a recorder-backed gin context with an empty GET request
func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	t.Run("prefers the context value", func(t *testing.T) {
		c, _ := newTestContext()
		c.Set(RequestIDKey, "ctx-id")
		c.Request.Header.Set("X-Request-ID", "header-id")

		assert.Equal(t, "ctx-id", getRequestID(c))
	})

	t.Run("falls back to the header", func(t *testing.T) {
		c, _ := newTestContext()
		c.Request.Header.Set("X-Request-ID", "header-id")

		assert.Equal(t, "header-id", getRequestID(c))
	})

	t.Run("empty when neither is set", func(t *testing.T) {
		c, _ := newTestContext()

		assert.Empty(t, getRequestID(c))
	})
}

func TestGetTenantID(t *testing.T) {
	t.Run("parses the claim", func(t *testing.T) {
		c, _ := newTestContext()
		tenantID := uuid.New()
		c.Set("jwt_tenant_id", tenantID.String())

		got, err := getTenantID(c)
		require.NoError(t, err)
		assert.Equal(t, tenantID, got)
	})

	t.Run("missing claim is an error", func(t *testing.T) {
		c, _ := newTestContext()

		_, err := getTenantID(c)
		assert.Error(t, err)
	})

	t.Run("malformed claim is an error", func(t *testing.T) {
		c, _ := newTestContext()
		c.Set("jwt_tenant_id", "not-a-uuid")

		_, err := getTenantID(c)
		assert.Error(t, err)
	})
}

func TestGetUserID(t *testing.T) {
	t.Run("parses the claim", func(t *testing.T) {
		c, _ := newTestContext()
		userID := uuid.New()
		c.Set("jwt_user_id", userID.String())

		got, err := getUserID(c)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("missing claim is an error", func(t *testing.T) {
		c, _ := newTestContext()

		_, err := getUserID(c)
		assert.Error(t, err)
	})
}

func TestBaseHandlerSuccess(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.Success(c, map[string]string{"description": "Monthly rent"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestBaseHandlerSuccessWithMeta(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.SuccessWithMeta(c, []string{"rent", "utilities"}, 37, 2, 10)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(37), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 4, resp.Meta.TotalPages)
}

func TestBaseHandlerErrorHelpers(t *testing.T) {
	tests := []struct {
		name           string
		send           func(*BaseHandler, *gin.Context)
		expectedStatus int
		expectedCode   string
	}{
		{
			"BadRequest",
			func(h *BaseHandler, c *gin.Context) { h.BadRequest(c, "Invalid template filter") },
			http.StatusBadRequest, dto.ErrCodeBadRequest,
		},
		{
			"Unauthorized",
			func(h *BaseHandler, c *gin.Context) { h.Unauthorized(c, "Not authenticated") },
			http.StatusUnauthorized, dto.ErrCodeUnauthorized,
		},
		{
			"NotFound",
			func(h *BaseHandler, c *gin.Context) { h.NotFound(c, "Template not found") },
			http.StatusNotFound, dto.ErrCodeNotFound,
		},
		{
			"Error with explicit status",
			func(h *BaseHandler, c *gin.Context) {
				h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeNumberGeneration, "Could not allocate expense number")
			},
			http.StatusUnprocessableEntity, dto.ErrCodeNumberGeneration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext()
			c.Set(RequestIDKey, "req-base-1")

			tt.send(h, c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)
			assert.Equal(t, "req-base-1", resp.Error.RequestID)
		})
	}
}

func TestBaseHandlerValidationError(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()
	c.Set(RequestIDKey, "val-req-456")

	h.ValidationError(c, []dto.ValidationDetail{
		{Field: "frequency", Message: "Unknown frequency"},
		{Field: "amount", Message: "Must be positive"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "val-req-456", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 2)
}

func TestBaseHandlerBindingError(t *testing.T) {
	h := &BaseHandler{}

	type payload struct {
		Amount   int    `json:"amount" binding:"min=1"`
		Currency string `json:"currency" binding:"required"`
	}

	bind := func(c *gin.Context, body string) error {
		c.Request = httptest.NewRequest("POST", "/", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		var req payload
		return c.ShouldBindJSON(&req)
	}

	t.Run("validator failures list the failed fields", func(t *testing.T) {
		c, w := newTestContext()
		err := bind(c, `{"amount": 0}`)
		require.Error(t, err)

		h.BindingError(c, err)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 2)
		assert.Equal(t, "Amount", resp.Error.Details[0].Field)
		assert.Contains(t, resp.Error.Details[0].Message, "min")
		assert.Equal(t, "Currency", resp.Error.Details[1].Field)
		assert.Contains(t, resp.Error.Details[1].Message, "required")
	})

	t.Run("malformed JSON is reported as invalid JSON", func(t *testing.T) {
		c, w := newTestContext()
		err := bind(c, `{"amount": `)
		require.Error(t, err)

		h.BindingError(c, err)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
		assert.Contains(t, resp.Error.Message, "Invalid request body")
		assert.Empty(t, resp.Error.Details)
	})

	t.Run("type mismatches are reported as invalid JSON", func(t *testing.T) {
		c, w := newTestContext()
		err := bind(c, `{"amount": "twelve", "currency": "USD"}`)
		require.Error(t, err)

		h.BindingError(c, err)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
	})
}

func TestBaseHandlerHandleError(t *testing.T) {
	h := &BaseHandler{}

	t.Run("nil error writes nothing", func(t *testing.T) {
		c, w := newTestContext()

		h.HandleError(c, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.Bytes())
	})

	t.Run("maps domain errors to statuses", func(t *testing.T) {
		tests := []struct {
			err            error
			expectedStatus int
			expectedCode   string
		}{
			{shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
			{shared.ErrAlreadyExists, http.StatusConflict, dto.ErrCodeAlreadyExists},
			{shared.ErrInvalidInput, http.StatusBadRequest, dto.ErrCodeInvalidInput},
			{shared.ErrUnauthorized, http.StatusUnauthorized, dto.ErrCodeUnauthorized},
			{shared.ErrForbidden, http.StatusForbidden, dto.ErrCodeForbidden},
			{shared.ErrInvalidState, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
			{shared.ErrConcurrencyConflict, http.StatusConflict, dto.ErrCodeConcurrencyConflict},
		}

		for _, tt := range tests {
			t.Run(tt.expectedCode, func(t *testing.T) {
				c, w := newTestContext()

				h.HandleError(c, tt.err)

				assert.Equal(t, tt.expectedStatus, w.Code)
				resp := decodeResponse(t, w)
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.expectedCode, resp.Error.Code)
			})
		}
	})

	t.Run("unwraps annotated domain errors", func(t *testing.T) {
		c, w := newTestContext()

		h.HandleError(c, fmt.Errorf("loading template: %w", shared.ErrNotFound))

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	})

	t.Run("unknown errors become an opaque 500", func(t *testing.T) {
		c, w := newTestContext()

		h.HandleError(c, assert.AnError)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
		assert.Equal(t, "An unexpected error occurred", resp.Error.Message)
		assert.NotContains(t, resp.Error.Message, assert.AnError.Error())
	})

	t.Run("carries the request ID", func(t *testing.T) {
		c, w := newTestContext()
		c.Set(RequestIDKey, "domain-err-req")

		h.HandleError(c, shared.ErrNotFound)

		resp := decodeResponse(t, w)
		assert.Equal(t, "domain-err-req", resp.Error.RequestID)
	})
}
