package common

import (
	"fmt"
	"net/http"
)

// ErrorKind represents the category of use case error.
// Each kind maps to a specific HTTP status code.
type ErrorKind int

const (
	// ErrorKindValidation represents input validation failures.
	// Maps to HTTP 400 Bad Request.
	ErrorKindValidation ErrorKind = iota

	// ErrorKindUnauthenticated represents requests without a usable identity.
	// Maps to HTTP 401 Unauthorized.
	ErrorKindUnauthenticated

	// ErrorKindForbidden represents authorization denials for a known actor.
	// Maps to HTTP 403 Forbidden.
	ErrorKindForbidden

	// ErrorKindNotFound represents entity not found errors.
	// Maps to HTTP 404 Not Found.
	ErrorKindNotFound

	// ErrorKindConcurrency represents optimistic version conflicts.
	// Maps to HTTP 409 Conflict.
	ErrorKindConcurrency

	// ErrorKindPayloadTooLarge represents documents or responses that exceed
	// a downstream size ceiling. Maps to HTTP 413 Payload Too Large.
	ErrorKindPayloadTooLarge

	// ErrorKindInternal represents unexpected internal errors.
	// Maps to HTTP 500 Internal Server Error.
	ErrorKindInternal
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindValidation:
		return "VALIDATION"
	case ErrorKindUnauthenticated:
		return "UNAUTHENTICATED"
	case ErrorKindForbidden:
		return "FORBIDDEN"
	case ErrorKindNotFound:
		return "NOT_FOUND"
	case ErrorKindConcurrency:
		return "CONCURRENCY"
	case ErrorKindPayloadTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case ErrorKindInternal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

// HTTPStatus returns the HTTP status code for this error kind.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case ErrorKindValidation:
		return http.StatusBadRequest
	case ErrorKindUnauthenticated:
		return http.StatusUnauthorized
	case ErrorKindForbidden:
		return http.StatusForbidden
	case ErrorKindNotFound:
		return http.StatusNotFound
	case ErrorKindConcurrency:
		return http.StatusConflict
	case ErrorKindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrorKindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// UseCaseError represents an error from a use case execution.
// It contains structured information about what went wrong,
// suitable for both logging and API responses.
type UseCaseError struct {
	Kind    ErrorKind      `json:"kind"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *UseCaseError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Kind.String(), e.Code, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for this error.
func (e *UseCaseError) HTTPStatus() int {
	return e.Kind.HTTPStatus()
}

// WithDetail adds a detail to the error and returns it for chaining.
func (e *UseCaseError) WithDetail(key string, value any) *UseCaseError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// ValidationError creates a new validation error.
// Use for input validation failures (missing required fields, invalid format, etc.)
func ValidationError(code, message string, details map[string]any) *UseCaseError {
	return &UseCaseError{
		Kind:    ErrorKindValidation,
		Code:    code,
		Message: message,
		Details: details,
	}
}

// UnauthenticatedError creates a new authentication error.
// Use when the request carries no valid identity at all.
func UnauthenticatedError(code, message string) *UseCaseError {
	return &UseCaseError{
		Kind:    ErrorKindUnauthenticated,
		Code:    code,
		Message: message,
	}
}

// ForbiddenError creates a new authorization denial.
// Use when a known actor lacks the access level an operation requires.
func ForbiddenError(code, message string, details map[string]any) *UseCaseError {
	return &UseCaseError{
		Kind:    ErrorKindForbidden,
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NotFoundError creates a new not found error.
// Use when an entity cannot be found by ID or other criteria.
func NotFoundError(code, message string, details map[string]any) *UseCaseError {
	return &UseCaseError{
		Kind:    ErrorKindNotFound,
		Code:    code,
		Message: message,
		Details: details,
	}
}

// ConcurrencyError creates a new optimistic version conflict error.
// Use when a document was modified by another writer since it was read.
func ConcurrencyError(code, message string, details map[string]any) *UseCaseError {
	return &UseCaseError{
		Kind:    ErrorKindConcurrency,
		Code:    code,
		Message: message,
		Details: details,
	}
}

// PayloadTooLargeError creates a new size ceiling error.
// Use when a stored document or resolved response exceeds a downstream limit.
func PayloadTooLargeError(code, message string, details map[string]any) *UseCaseError {
	return &UseCaseError{
		Kind:    ErrorKindPayloadTooLarge,
		Code:    code,
		Message: message,
		Details: details,
	}
}

// InternalError creates a new internal error.
// Use for unexpected errors that shouldn't happen in normal operation.
func InternalError(code, message string, details map[string]any) *UseCaseError {
	return &UseCaseError{
		Kind:    ErrorKindInternal,
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Common error codes for reuse across use cases
const (
	// Validation error codes
	ErrCodeRequired      = "REQUIRED"
	ErrCodeInvalidFormat = "INVALID_FORMAT"
	ErrCodeInvalidValue  = "INVALID_VALUE"
	ErrCodeInvalidJSON   = "INVALID_JSON"

	// Authorization error codes
	ErrCodeNoAccess          = "NO_ACCESS"
	ErrCodeInsufficientLevel = "INSUFFICIENT_LEVEL"
	ErrCodeStructuralChange  = "STRUCTURAL_CHANGE"

	// Not found error codes
	ErrCodeConfigNotFound = "CONFIG_NOT_FOUND"

	// Concurrency error codes
	ErrCodeVersionConflict = "VERSION_CONFLICT"

	// Size ceiling error codes
	ErrCodeDocumentTooLarge = "DOCUMENT_TOO_LARGE"
	ErrCodeResponseTooLarge = "RESPONSE_TOO_LARGE"

	// Internal error codes
	ErrCodeStorageFailure = "STORAGE_FAILURE"
)
