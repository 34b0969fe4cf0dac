// Package common holds the response envelopes and error mapping shared by
// every controller.
package common

import (
	"errors"
	"net/http"

	"github.com/anjaliconnect/api/domain/errs"
	"github.com/anjaliconnect/api/presentation/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Details []string `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// WriteError maps the domain error taxonomy onto HTTP status codes.
func WriteError(ctx *gin.Context, err error) {
	status, code := classify(err)
	message := err.Error()
	if status == http.StatusInternalServerError || status == http.StatusServiceUnavailable {
		message = "the request could not be completed"
	}

	_ = ctx.Error(err)
	ctx.JSON(status, ErrorResponse{
		Error:   code,
		Message: message,
	})
}

// WriteBindError reports a request body or query that failed binding.
func WriteBindError(ctx *gin.Context, err error) {
	resp := ErrorResponse{
		Error:   "invalid_request",
		Message: err.Error(),
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		resp.Details = middlewares.TranslateValidationErrors(validationErrs)
		resp.Message = middlewares.TranslateValidationError(validationErrs)
	}

	ctx.JSON(http.StatusBadRequest, resp)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest, "validation_failed"
	case errors.Is(err, errs.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, errs.ErrInvalidState):
		return http.StatusConflict, "invalid_state"
	case errors.Is(err, errs.ErrSystemic):
		return http.StatusServiceUnavailable, "service_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
