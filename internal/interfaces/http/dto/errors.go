package dto

import "net/http"

// Generic API error codes
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes. Codes
// not listed here fall back to the prefix rules in GetHTTPStatus.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeConflict:     http.StatusConflict,
	ErrCodeRateLimited:  http.StatusTooManyRequests,
	ErrCodeInternal:     http.StatusInternalServerError,

	// Identity
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"INVALID_IDENTITY":    http.StatusUnauthorized,
	"DUPLICATE_EMAIL":     http.StatusConflict,

	// Inventory
	"DUPLICATE_SKU":      http.StatusConflict,
	"INSUFFICIENT_STOCK": http.StatusUnprocessableEntity,

	// Cash sessions
	"SESSION_ALREADY_OPEN": http.StatusConflict,
	"SESSION_NOT_FOUND":    http.StatusNotFound,
	"NO_ACTIVE_SESSION":    http.StatusUnprocessableEntity,

	// Checkout
	"DUPLICATE_REQUEST": http.StatusConflict,
	"INVALID_TOTAL":     http.StatusUnprocessableEntity,

	// Payroll and purchasing
	"ALREADY_PAID":      http.StatusConflict,
	"ALREADY_RECEIVED":  http.StatusConflict,
	"ALREADY_EXISTS":    http.StatusConflict,
	"DUPLICATE_PRODUCT": http.StatusBadRequest,
	"LINE_NOT_FOUND":    http.StatusUnprocessableEntity,
	"QUANTITY_EXCEEDED": http.StatusUnprocessableEntity,

	// Shared
	"INVALID_STATE":        http.StatusUnprocessableEntity,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status code for an error code. Unmapped
// INVALID_* codes are treated as request validation failures; anything
// else is an internal error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if len(code) > 8 && code[:8] == "INVALID_" {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
