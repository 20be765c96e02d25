package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProduct_RequiresAdmin(t *testing.T) {
	ts := newTestServer(t, Options{})
	customer := ts.registerUser(t, "customer@example.com")

	body := map[string]any{"title": "Lamp", "price": "25.00"}

	resp := ts.api.Post("/api/v1/admin/products", body)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Post("/api/v1/admin/products", bearer(customer.AccessToken), body)
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "FORBIDDEN", decodeEnvelope[any](t, resp).Code)
}

func TestCreateProduct(t *testing.T) {
	ts := newTestServer(t, Options{})
	token := ts.adminToken(t)

	resp := ts.api.Post("/api/v1/admin/products", bearer(token), map[string]any{
		"title":       "Desk Lamp",
		"description": "Warm light",
		"price":       "12.5",
		"stock":       4,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	product := decodeEnvelope[ProductResponse](t, resp).Data
	assert.Equal(t, "desk-lamp", product.Slug)
	assert.Equal(t, "12.50", product.Price)
	assert.Equal(t, 4, product.Stock)
	assert.True(t, product.Available)

	// Visible in the public catalog straight away.
	assert.Equal(t, http.StatusOK, ts.api.Get("/api/v1/products/desk-lamp").Code)
}

func TestCreateProduct_Errors(t *testing.T) {
	ts := newTestServer(t, Options{})
	token := ts.adminToken(t)
	ts.createProduct(t, "Desk Lamp", "10.00", true)

	tests := []struct {
		name   string
		body   map[string]any
		status int
		code   string
	}{
		{
			name:   "bad price",
			body:   map[string]any{"title": "Chair", "price": "1.999"},
			status: http.StatusBadRequest,
			code:   "VALIDATION",
		},
		{
			name:   "negative stock",
			body:   map[string]any{"title": "Chair", "price": "1.00", "stock": -1},
			status: http.StatusBadRequest,
			code:   "VALIDATION",
		},
		{
			name:   "reserved slug",
			body:   map[string]any{"title": "Finder", "slug": "search", "price": "1.00"},
			status: http.StatusBadRequest,
			code:   "VALIDATION",
		},
		{
			name:   "blank title",
			body:   map[string]any{"title": "   ", "slug": "blank", "price": "1.00"},
			status: http.StatusBadRequest,
			code:   "VALIDATION",
		},
		{
			name:   "duplicate slug",
			body:   map[string]any{"title": "Desk Lamp", "price": "11.00"},
			status: http.StatusConflict,
			code:   "ALREADY_EXISTS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/v1/admin/products", bearer(token), tt.body)
			assert.Equal(t, tt.status, resp.Code, resp.Body.String())
			assert.Equal(t, tt.code, decodeEnvelope[any](t, resp).Code)
		})
	}
}

func TestUpdateProduct(t *testing.T) {
	ts := newTestServer(t, Options{})
	token := ts.adminToken(t)
	ts.createProduct(t, "Desk Lamp", "10.00", true)

	resp := ts.api.Patch("/api/v1/admin/products/desk-lamp", bearer(token), map[string]any{
		"title": "Floor Lamp",
		"price": "49.99",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	product := decodeEnvelope[ProductResponse](t, resp).Data
	assert.Equal(t, "Floor Lamp", product.Title)
	assert.Equal(t, "desk-lamp", product.Slug, "slug never changes")
	assert.Equal(t, "49.99", product.Price)

	resp = ts.api.Patch("/api/v1/admin/products/desk-lamp", bearer(token), map[string]any{"available": false})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, http.StatusNotFound, ts.api.Get("/api/v1/products/desk-lamp").Code)

	resp = ts.api.Patch("/api/v1/admin/products/no-such-lamp", bearer(token), map[string]any{"stock": 1})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
