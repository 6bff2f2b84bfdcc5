package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code, so an error carrying a contextual
// message still compares equal to its sentinel under errors.Is.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrNoActiveSession     = NewDomainError("NO_ACTIVE_SESSION", "No open cash session for this operator")
	ErrSessionAlreadyOpen  = NewDomainError("SESSION_ALREADY_OPEN", "A cash session is already open for this operator")
	ErrSessionNotFound     = NewDomainError("SESSION_NOT_FOUND", "Cash session not found or already closed")
	ErrAlreadyPaid         = NewDomainError("ALREADY_PAID", "Payroll not found or already paid")
	ErrAlreadyReceived     = NewDomainError("ALREADY_RECEIVED", "Purchase order not found or already received")
)
