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

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes used across the ledger core. The taxonomy matters to callers:
// validation failures are malformed input, state errors are illegal
// transitions, period-locked is surfaced distinctly so callers can explain
// why a posting was refused.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeInvalidState = "INVALID_STATE"
	CodePeriodLocked = "PERIOD_LOCKED"
	CodeNotFound     = "NOT_FOUND"
	CodeAlreadyExist = "ALREADY_EXISTS"
	CodeConcurrency  = "CONCURRENCY_CONFLICT"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExist, "Resource already exists")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrency, "Resource was modified by another process")
)

// NewValidationError creates a DomainError for malformed input
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// NewStateError creates a DomainError for an illegal state transition
func NewStateError(message string) *DomainError {
	return NewDomainError(CodeInvalidState, message)
}

// NewPeriodLockedError creates a DomainError for postings into a locked period
func NewPeriodLockedError(message string) *DomainError {
	return NewDomainError(CodePeriodLocked, message)
}

// NewNotFoundError creates a DomainError for a missing resource
func NewNotFoundError(message string) *DomainError {
	return NewDomainError(CodeNotFound, message)
}

func hasCode(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// IsValidationError reports whether err is a validation failure
func IsValidationError(err error) bool { return hasCode(err, CodeValidation) }

// IsStateError reports whether err is an illegal-transition failure
func IsStateError(err error) bool { return hasCode(err, CodeInvalidState) }

// IsPeriodLocked reports whether err is a period-lock rejection
func IsPeriodLocked(err error) bool { return hasCode(err, CodePeriodLocked) }

// IsNotFound reports whether err is a missing-resource failure
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }
