package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected int
	}{
		{"not found", ErrCodeNotFound, http.StatusNotFound},
		{"unauthorized", ErrCodeUnauthorized, http.StatusUnauthorized},
		{"invalid credentials", "INVALID_CREDENTIALS", http.StatusUnauthorized},
		{"duplicate sku", "DUPLICATE_SKU", http.StatusConflict},
		{"duplicate request", "DUPLICATE_REQUEST", http.StatusConflict},
		{"session already open", "SESSION_ALREADY_OPEN", http.StatusConflict},
		{"session not found", "SESSION_NOT_FOUND", http.StatusNotFound},
		{"no active session", "NO_ACTIVE_SESSION", http.StatusUnprocessableEntity},
		{"insufficient stock", "INSUFFICIENT_STOCK", http.StatusUnprocessableEntity},
		{"invalid total", "INVALID_TOTAL", http.StatusUnprocessableEntity},
		{"already paid", "ALREADY_PAID", http.StatusConflict},
		{"already received", "ALREADY_RECEIVED", http.StatusConflict},
		{"concurrency conflict", "CONCURRENCY_CONFLICT", http.StatusConflict},
		{"quantity exceeded", "QUANTITY_EXCEEDED", http.StatusUnprocessableEntity},
		{"unmapped invalid code", "INVALID_QUANTITY", http.StatusBadRequest},
		{"unknown code", "SOMETHING_ELSE", http.StatusInternalServerError},
		{"empty code", "", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID("NOT_FOUND", "Product not found", "req-123")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	assert.Equal(t, "Product not found", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "sku", Message: "required"},
		{Field: "price", Message: "must be non-negative"},
	}
	resp := NewValidationErrorResponse("Request validation failed", "req-9", details)

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "sku", resp.Error.Details[0].Field)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a", "b"}, 45, 2, 20)

	assert.True(t, resp.Success)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestListRequestToFilter(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		filter := ListRequest{}.ToFilter()

		assert.Equal(t, 1, filter.Page)
		assert.Equal(t, 20, filter.PageSize)
		assert.Equal(t, "created_at", filter.OrderBy)
		assert.Equal(t, "desc", filter.OrderDir)
	})

	t.Run("explicit values win", func(t *testing.T) {
		req := ListRequest{Page: 3, PageSize: 50, OrderBy: "name", OrderDir: "asc", Search: "widget"}
		filter := req.ToFilter()

		assert.Equal(t, 3, filter.Page)
		assert.Equal(t, 50, filter.PageSize)
		assert.Equal(t, "name", filter.OrderBy)
		assert.Equal(t, "asc", filter.OrderDir)
		assert.Equal(t, "widget", filter.Search)
	})
}
