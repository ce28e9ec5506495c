package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	apperrors "silvercoin/internal/errors"
	"silvercoin/internal/middleware"
	"silvercoin/internal/period"
	"silvercoin/internal/uuid"
	"silvercoin/internal/validator"
)

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID := c.GetString("userID")
	if userID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return userID, nil
}

// parsePathID reads a UUID path parameter.
func parsePathID(c *gin.Context, param string) (string, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// parseDate reads a YYYY-MM-DD value that binding has already checked.
func parseDate(field, value string) (time.Time, error) {
	day, err := period.ParseDay(value)
	if err != nil {
		return time.Time{}, apperrors.WithFields(apperrors.ErrInvalidInput,
			map[string]string{field: "must be a date in YYYY-MM-DD format"})
	}
	return day, nil
}

// bindError turns a binding failure into INVALID_INPUT, with per-field
// messages when the failure came from validation.
func bindError(err error) error {
	if fields := validator.FieldErrors(err); fields != nil {
		return apperrors.WithFields(apperrors.ErrInvalidInput, fields)
	}
	return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
}

// respondWithError writes a consistent JSON error response.
func respondWithError(c *gin.Context, err error) {
	middleware.RespondWithError(c, err)
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
