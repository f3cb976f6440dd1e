package httpapi

import (
	"errors"
	"net/http"

	"github.com/alexanderramin/studioops/internal/domain"
	"github.com/alexanderramin/studioops/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// APIResponse is the envelope of every JSON reply.
type APIResponse struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Message string     `json:"message,omitempty"`
}

type ErrorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

const (
	ErrorTypeValidation = "validation_error"
	ErrorTypeNotFound   = "not_found"
	ErrorTypeConflict   = "invalid_state"
	ErrorTypeInternal   = "internal_error"
)

func success(c *gin.Context, status int, data any) {
	c.JSON(status, APIResponse{Success: true, Data: data})
}

func failure(c *gin.Context, status int, info ErrorInfo) {
	c.AbortWithStatusJSON(status, APIResponse{Success: false, Error: &info})
}

// errorResponse maps domain and repository errors onto HTTP statuses.
// Anything unrecognized is a 500 with no internal details.
func errorResponse(c *gin.Context, err error) {
	var validation validator.ValidationErrors
	switch {
	case errors.As(err, &validation):
		failure(c, http.StatusBadRequest, ErrorInfo{Type: ErrorTypeValidation, Message: "invalid request", Details: validation.Error()})
	case errors.Is(err, domain.ErrValidation):
		failure(c, http.StatusBadRequest, ErrorInfo{Type: ErrorTypeValidation, Message: err.Error()})
	case errors.Is(err, domain.ErrIndexOutOfRange), errors.Is(err, repository.ErrNotFound):
		failure(c, http.StatusNotFound, ErrorInfo{Type: ErrorTypeNotFound, Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidState):
		failure(c, http.StatusConflict, ErrorInfo{Type: ErrorTypeConflict, Message: err.Error()})
	default:
		_ = c.Error(err)
		failure(c, http.StatusInternalServerError, ErrorInfo{Type: ErrorTypeInternal, Message: "internal server error"})
	}
}

// bindError reports a request body or query that failed to decode or
// validate.
func bindError(c *gin.Context, err error) {
	var validation validator.ValidationErrors
	if errors.As(err, &validation) {
		errorResponse(c, err)
		return
	}
	failure(c, http.StatusBadRequest, ErrorInfo{Type: ErrorTypeValidation, Message: "malformed request", Details: err.Error()})
}
