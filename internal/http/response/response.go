// Package response writes the JSON envelope every API response uses.
//
// Handlers registered with huma get the envelope from a transformer; plain
// chi handlers and middleware write it with the helpers here.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	domainerrors "github.com/shopfront/shopfront-server/internal/errors"
	"github.com/shopfront/shopfront-server/internal/store"
)

// Version is the envelope format version sent as "v".
const Version = 1

// Envelope wraps successful responses and simple errors.
type Envelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorEnvelope is the error shape carrying a machine-readable code.
type ErrorEnvelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// Success builds a success envelope.
func Success(data any) Envelope {
	return Envelope{Version: Version, Success: true, Data: data}
}

// Failure builds an error envelope. An empty code yields the simple shape.
func Failure(code, message string, details any) any {
	if code == "" {
		return Envelope{Version: Version, Success: false, Error: message}
	}
	return ErrorEnvelope{
		Version: Version,
		Success: false,
		Error:   message,
		Code:    code,
		Details: details,
	}
}

// JSON writes body with the given status.
func JSON(w http.ResponseWriter, status int, body any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil && logger != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}

// OK writes data in a 200 success envelope.
func OK(w http.ResponseWriter, data any, logger *slog.Logger) {
	JSON(w, http.StatusOK, Success(data), logger)
}

// Error writes an error envelope whose code follows the status.
func Error(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	code := domainerrors.CodeForStatus(status)
	JSON(w, status, Failure(string(code), message, nil), logger)
}

// NotFound writes a 404 error envelope.
func NotFound(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusNotFound, message, logger)
}

// TooManyRequests writes a 429 error envelope.
func TooManyRequests(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusTooManyRequests, message, logger)
}

// HandleError maps err to a status and writes it. Domain and store errors
// keep their status; anything else is a 500 with a generic message.
func HandleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		JSON(w, domainErr.HTTPStatus(),
			Failure(string(domainErr.Code), domainErr.Message, domainErr.Details), logger)
		return
	}

	var storeErr *store.Error
	if errors.As(err, &storeErr) {
		Error(w, storeErr.HTTPCode(), storeErr.Message, logger)
		return
	}

	if logger != nil {
		logger.Error("Unhandled error", "error", err)
	}
	Error(w, http.StatusInternalServerError, "internal server error", logger)
}
