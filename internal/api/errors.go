package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/shopfront/shopfront-server/internal/errors"
	"github.com/shopfront/shopfront-server/internal/store"
)

// APIError is a custom error type that implements huma.StatusError.
// It maps domain errors to HTTP responses with consistent structure.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler configures huma to use domain errors. Server errors
// are logged and their message replaced so internals never reach clients.
// Call this after creating the huma.API but before registering routes.
func RegisterErrorHandler(logger *slog.Logger) {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		for _, err := range errs {
			var domainErr *domainerrors.Error
			if errors.As(err, &domainErr) {
				return &APIError{
					status:  domainErr.HTTPStatus(),
					Code:    string(domainErr.Code),
					Message: domainErr.Message,
					Details: domainErr.Details,
				}
			}

			var storeErr *store.Error
			if errors.As(err, &storeErr) {
				return &APIError{
					status:  storeErr.HTTPCode(),
					Code:    string(domainerrors.CodeForStatus(storeErr.HTTPCode())),
					Message: storeErr.Message,
				}
			}
		}

		if status >= http.StatusInternalServerError {
			if logger != nil {
				logger.Error("API request failed", "status", status, "message", message, "error", errors.Join(errs...))
			}
			message = "internal server error"
		}

		apiErr := &APIError{
			status:  status,
			Code:    string(domainerrors.CodeForStatus(status)),
			Message: message,
		}
		if details := errorDetails(errs); len(details) > 0 {
			apiErr.Details = details
		}
		return apiErr
	}
}

// errorDetails collects huma's per-field validation messages keyed by
// location, for example "body.email".
func errorDetails(errs []error) map[string]string {
	var details map[string]string
	for _, err := range errs {
		var detail *huma.ErrorDetail
		if !errors.As(err, &detail) {
			continue
		}
		if details == nil {
			details = make(map[string]string)
		}
		key := detail.Location
		if key == "" {
			key = "request"
		}
		details[key] = detail.Message
	}
	return details
}
