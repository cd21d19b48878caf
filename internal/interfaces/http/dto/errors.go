package dto

import (
	"net/http"

	"github.com/erp/ledger/internal/domain/shared"
)

// Transport-level error codes, alongside the domain codes in shared/errors.go
const (
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeInternal   = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes. Locked periods
// answer 423 so callers can distinguish a lock from a plain state conflict.
var errorCodeHTTPStatus = map[string]int{
	shared.CodeValidation:   http.StatusBadRequest,
	shared.CodeInvalidState: http.StatusUnprocessableEntity,
	shared.CodePeriodLocked: http.StatusLocked,
	shared.CodeNotFound:     http.StatusNotFound,
	shared.CodeAlreadyExist: http.StatusConflict,
	shared.CodeConcurrency:  http.StatusConflict,
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeInternal:         http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting to 500
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
