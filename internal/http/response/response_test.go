package response

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/shopfront/shopfront-server/internal/errors"
	"github.com/shopfront/shopfront-server/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestOK(t *testing.T) {
	w := httptest.NewRecorder()
	OK(w, map[string]string{"status": "healthy"}, discardLogger())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	body := decode(t, w)
	assert.Equal(t, float64(Version), body["v"])
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{"status": "healthy"}, body["data"])
	assert.NotContains(t, body, "error")
}

func TestError_CodeFollowsStatus(t *testing.T) {
	tests := []struct {
		status int
		code   string
	}{
		{http.StatusBadRequest, "VALIDATION"},
		{http.StatusUnauthorized, "UNAUTHENTICATED"},
		{http.StatusForbidden, "FORBIDDEN"},
		{http.StatusNotFound, "NOT_FOUND"},
		{http.StatusConflict, "CONFLICT"},
		{http.StatusTooManyRequests, "RATE_LIMITED"},
		{http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			w := httptest.NewRecorder()
			Error(w, tt.status, "boom", nil)

			assert.Equal(t, tt.status, w.Code)
			body := decode(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, "boom", body["error"])
			assert.Equal(t, tt.code, body["code"])
		})
	}
}

func TestTooManyRequests(t *testing.T) {
	w := httptest.NewRecorder()
	TooManyRequests(w, "slow down", discardLogger())

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_LIMITED", decode(t, w)["code"])
}

func TestFailure_SimpleShapeWithoutCode(t *testing.T) {
	env, ok := Failure("", "plain", nil).(Envelope)
	require.True(t, ok)
	assert.Equal(t, Version, env.Version)
	assert.False(t, env.Success)
	assert.Equal(t, "plain", env.Error)
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "domain error",
			err:     domainerrors.NotFound("product not found"),
			status:  http.StatusNotFound,
			code:    "NOT_FOUND",
			message: "product not found",
		},
		{
			name:    "store error",
			err:     store.ErrSlugExists,
			status:  http.StatusConflict,
			code:    "CONFLICT",
			message: "product slug already exists",
		},
		{
			name:    "unknown error hides detail",
			err:     errors.New("disk on fire"),
			status:  http.StatusInternalServerError,
			code:    "INTERNAL",
			message: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleError(w, tt.err, discardLogger())

			assert.Equal(t, tt.status, w.Code)
			body := decode(t, w)
			assert.Equal(t, tt.code, body["code"])
			assert.Equal(t, tt.message, body["error"])
		})
	}
}

func TestHandleError_KeepsDetails(t *testing.T) {
	w := httptest.NewRecorder()
	HandleError(w, domainerrors.ValidationWithDetails("validation failed", map[string]string{"price": "invalid"}), nil)

	body := decode(t, w)
	assert.Equal(t, map[string]any{"price": "invalid"}, body["details"])
}
