// Package errors defines the application error taxonomy shared by usecases
// and the delivery layer.
package errors

import (
	"net/http"

	"leadtrack/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error taxonomy. Authorization and input-shape failures are raised
// before any transaction begins; CONFLICT is the only value that is safe to
// retry from the top of an operation.
var (
	ErrUnauthenticated = NewBaseError(
		http.StatusUnauthorized,
		"UNAUTHENTICATED",
		"caller identity is required",
		"",
	)

	ErrPermissionDenied = NewBaseError(
		http.StatusForbidden,
		"PERMISSION_DENIED",
		"insufficient permissions for this operation",
		"",
	)

	ErrInvalidArgument = NewBaseError(
		http.StatusBadRequest,
		"INVALID_ARGUMENT",
		"invalid or missing input",
		"",
	)

	// ErrMissingIdentity is the InvalidArgument case raised when no identity
	// key can be derived from the submitted contact fields. The message is
	// safe to show directly on a public enquiry form.
	ErrMissingIdentity = NewBaseError(
		http.StatusBadRequest,
		"MISSING_IDENTITY",
		"email or phone required",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"resource not found",
		"",
	)

	ErrIntakeNotFound = NewBaseError(
		http.StatusNotFound,
		"INTAKE_NOT_FOUND",
		"intake not found",
		"",
	)

	ErrCampaignNotFound = NewBaseError(
		http.StatusNotFound,
		"CAMPAIGN_NOT_FOUND",
		"campaign not found",
		"",
	)

	ErrLeadNotFound = NewBaseError(
		http.StatusNotFound,
		"LEAD_NOT_FOUND",
		"lead not found",
		"",
	)

	ErrLinkNotFound = NewBaseError(
		http.StatusNotFound,
		"LINK_NOT_FOUND",
		"link not found",
		"",
	)

	// ErrCodeSpaceExhausted is raised when the short-code allocator spends its
	// whole collision-retry budget. The creation request as a whole may be
	// retried later by the caller.
	ErrCodeSpaceExhausted = NewBaseError(
		http.StatusTooManyRequests,
		"RESOURCE_EXHAUSTED",
		"could not allocate a unique link code",
		"",
	)

	// ErrConflict marks a transaction aborted by a concurrent write. Retrying
	// the whole operation from the top is safe and idempotent.
	ErrConflict = NewBaseError(
		http.StatusConflict,
		"CONFLICT",
		"operation conflicted with a concurrent request",
		"",
	)

	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"internal error",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
