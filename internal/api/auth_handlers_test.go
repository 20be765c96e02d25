package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_SignsIn(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        "shopper@example.com",
		"password":     "password123",
		"display_name": "Shopper",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	env := decodeEnvelope[AuthResponse](t, resp)
	assert.True(t, env.Success)
	assert.Equal(t, "Bearer", env.Data.TokenType)
	assert.NotEmpty(t, env.Data.AccessToken)
	assert.NotEmpty(t, env.Data.RefreshToken)
	assert.Equal(t, "customer", env.Data.User.Role)
	assert.Equal(t, "Shopper", env.Data.User.DisplayName)

	me := ts.api.Get("/api/v1/users/me", bearer(env.Data.AccessToken))
	require.Equal(t, http.StatusOK, me.Code)
	assert.Equal(t, "shopper@example.com", decodeEnvelope[UserResponse](t, me).Data.Email)
}

func TestRegister_Validation(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    "not-an-email",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	env := decodeEnvelope[any](t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, "VALIDATION", env.Code)
	assert.Contains(t, env.Details, "email")
	assert.Contains(t, env.Details, "password")
}

func TestRegister_MissingFieldRejectedBySchema(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email": "shopper@example.com",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Equal(t, "VALIDATION", decodeEnvelope[any](t, resp).Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts := newTestServer(t, Options{})
	ts.registerUser(t, "dup@example.com")

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    "dup@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "ALREADY_EXISTS", decodeEnvelope[any](t, resp).Code)
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t, Options{})
	ts.registerUser(t, "login@example.com")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "login@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.NotEmpty(t, decodeEnvelope[AuthResponse](t, resp).Data.SessionID)

	resp = ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "login@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeEnvelope[any](t, resp).Code)
}

func TestRefresh_RotatesTokens(t *testing.T) {
	ts := newTestServer(t, Options{})
	reg := ts.registerUser(t, "refresh@example.com")

	resp := ts.api.Post("/api/v1/auth/refresh", map[string]any{"refresh_token": reg.RefreshToken})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	refreshed := decodeEnvelope[AuthResponse](t, resp).Data
	assert.Equal(t, reg.SessionID, refreshed.SessionID)
	assert.NotEqual(t, reg.RefreshToken, refreshed.RefreshToken)

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{"refresh_token": reg.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "TOKEN_EXPIRED", decodeEnvelope[any](t, resp).Code)
}

func TestLogout_RevokesSession(t *testing.T) {
	ts := newTestServer(t, Options{})
	reg := ts.registerUser(t, "logout@example.com")

	resp := ts.api.Post("/api/v1/auth/logout", bearer(reg.AccessToken))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{"refresh_token": reg.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAuthenticatedRoutes_RejectMissingOrBadTokens(t *testing.T) {
	ts := newTestServer(t, Options{})

	tests := []struct {
		name   string
		header []any
	}{
		{name: "no header"},
		{name: "wrong scheme", header: []any{"Authorization: Token abc"}},
		{name: "garbage token", header: []any{"Authorization: Bearer v4.local.nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, resp := range []*httptest.ResponseRecorder{
				ts.api.Get("/api/v1/users/me", tt.header...),
				ts.api.Post("/api/v1/auth/logout", tt.header...),
				ts.api.Get("/api/v1/cart", tt.header...),
			} {
				assert.Equal(t, http.StatusUnauthorized, resp.Code)
			}
		})
	}
}

func TestDeleteAccount(t *testing.T) {
	ts := newTestServer(t, Options{})
	reg := ts.registerUser(t, "leaving@example.com")
	ts.createProduct(t, "Mug", "7.50", true)

	require.Equal(t, http.StatusOK, ts.api.Post("/api/v1/cart/items/mug", bearer(reg.AccessToken)).Code)

	resp := ts.api.Delete("/api/v1/users/me", bearer(reg.AccessToken))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/users/me", bearer(reg.AccessToken))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	// The address can sign up again and starts with an empty cart.
	again := ts.registerUser(t, "leaving@example.com")
	cart := ts.api.Get("/api/v1/cart", bearer(again.AccessToken))
	require.Equal(t, http.StatusOK, cart.Code)
	assert.Empty(t, decodeEnvelope[CartResponse](t, cart).Data.Items)
}

func TestAuthenticatedRoute_StorageFailureIsServerError(t *testing.T) {
	ts := newTestServer(t, Options{})
	reg := ts.registerUser(t, "outage@example.com")

	require.NoError(t, ts.db.Close())

	resp := ts.api.Get("/api/v1/users/me", bearer(reg.AccessToken))
	assert.Equal(t, http.StatusInternalServerError, resp.Code)

	env := decodeEnvelope[any](t, resp)
	assert.Equal(t, "INTERNAL", env.Code)
	assert.Equal(t, "internal server error", env.Error)
}
