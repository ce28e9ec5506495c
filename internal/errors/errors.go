// Package errors provides custom error types for the Silver Coin API.
// All service-layer errors should use AppError so responses stay consistent
// and never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, optional per-field messages and
// an optional internal error.
type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Fields     map[string]string `json:"fields,omitempty"`
	StatusCode int               `json:"-"`
	Internal   error             `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		Fields:     sentinel.Fields,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// WithFields creates a new AppError carrying per-field validation messages.
func WithFields(sentinel *AppError, fields map[string]string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		Fields:     fields,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized        = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials  = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrInvalidRefreshToken = &AppError{Code: "INVALID_REFRESH_TOKEN", Message: "Invalid or expired refresh token", StatusCode: http.StatusUnauthorized}
	ErrForbidden           = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrAccountLocked       = &AppError{Code: "ACCOUNT_LOCKED", Message: "Account is temporarily locked", StatusCode: http.StatusLocked}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Ownership errors. A record that does not exist and a record owned by
// someone else produce the same error.
var (
	ErrBudgetAccessDenied = &AppError{Code: "BUDGET_ACCESS_DENIED", Message: "Budget does not exist or you do not have access to it", StatusCode: http.StatusForbidden}
	ErrPeriodAccessDenied = &AppError{Code: "PERIOD_ACCESS_DENIED", Message: "Budget period does not exist or you do not have access to it", StatusCode: http.StatusForbidden}
	ErrAmountAccessDenied = &AppError{Code: "AMOUNT_ACCESS_DENIED", Message: "Amount does not exist or you do not have access to it", StatusCode: http.StatusForbidden}
	ErrActualAccessDenied = &AppError{Code: "ACTUAL_ACCESS_DENIED", Message: "Actual amount does not exist or you do not have access to it", StatusCode: http.StatusForbidden}
	ErrGoalAccessDenied   = &AppError{Code: "GOAL_ACCESS_DENIED", Message: "Goal does not exist or you do not have access to it", StatusCode: http.StatusForbidden}
)

// Budget period errors.
var (
	ErrPeriodOverlap       = &AppError{Code: "PERIOD_OVERLAP", Message: "Budget period overlaps with an existing period", StatusCode: http.StatusConflict}
	ErrInvalidPeriodLength = &AppError{Code: "INVALID_PERIOD_LENGTH", Message: "Period length must be greater than zero", StatusCode: http.StatusBadRequest}
	ErrInvalidPeriodType   = &AppError{Code: "INVALID_PERIOD_TYPE", Message: "Period type must be one of days, weeks, months, years", StatusCode: http.StatusBadRequest}
	ErrNoCurrentPeriod     = &AppError{Code: "NO_CURRENT_PERIOD", Message: "No budget period covers this date", StatusCode: http.StatusNotFound}
)

// Amount errors.
var (
	ErrAmountLinkInvalid = &AppError{Code: "AMOUNT_LINK_INVALID", Message: "An amount must be linked to either a budget or a budget period, not both", StatusCode: http.StatusBadRequest}
	ErrAmountImmutable   = &AppError{Code: "AMOUNT_IMMUTABLE", Message: "Budget period amounts are historical snapshots and cannot be changed", StatusCode: http.StatusConflict}
	ErrActualOutOfPeriod = &AppError{Code: "ACTUAL_OUT_OF_PERIOD", Message: "Occurred on must fall within the budget period", StatusCode: http.StatusBadRequest}
	ErrEstimateMismatch  = &AppError{Code: "ESTIMATE_MISMATCH", Message: "The estimate must belong to the same budget period", StatusCode: http.StatusBadRequest}
)
