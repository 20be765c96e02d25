package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddAddRemoveScenario(t *testing.T) {
	ts := newTestServer(t, Options{})
	user := ts.registerUser(t, "shirt@example.com")
	ts.createProduct(t, "Shirt", "20.00", true)

	resp := ts.api.Post("/api/v1/cart/items/shirt", bearer(user.AccessToken))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	cart := decodeEnvelope[CartResponse](t, resp).Data
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Equal(t, "20.00", cart.Total)

	resp = ts.api.Post("/api/v1/cart/items/shirt", bearer(user.AccessToken))
	require.Equal(t, http.StatusOK, resp.Code)
	cart = decodeEnvelope[CartResponse](t, resp).Data
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, "40.00", cart.Items[0].LineTotal)
	assert.Equal(t, "40.00", cart.Total)

	resp = ts.api.Delete("/api/v1/cart/items/shirt", bearer(user.AccessToken))
	require.Equal(t, http.StatusOK, resp.Code)
	cart = decodeEnvelope[CartResponse](t, resp).Data
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.ItemCount)
	assert.Equal(t, "0.00", cart.Total)
}

func TestCart_TotalIsExact(t *testing.T) {
	ts := newTestServer(t, Options{})
	user := ts.registerUser(t, "totals@example.com")
	ts.createProduct(t, "Socks", "9.99", true)
	ts.createProduct(t, "Laces", "3.50", true)

	for _, slug := range []string{"socks", "socks", "laces"} {
		require.Equal(t, http.StatusOK, ts.api.Post("/api/v1/cart/items/"+slug, bearer(user.AccessToken)).Code)
	}

	resp := ts.api.Get("/api/v1/cart", bearer(user.AccessToken))
	require.Equal(t, http.StatusOK, resp.Code)

	cart := decodeEnvelope[CartResponse](t, resp).Data
	assert.Equal(t, "23.48", cart.Total)
	assert.Equal(t, 3, cart.ItemCount)
	assert.Len(t, cart.Items, 2)
}

func TestCart_ViewCreatesEmptyCart(t *testing.T) {
	ts := newTestServer(t, Options{})
	user := ts.registerUser(t, "empty@example.com")

	first := decodeEnvelope[CartResponse](t, ts.api.Get("/api/v1/cart", bearer(user.AccessToken))).Data
	second := decodeEnvelope[CartResponse](t, ts.api.Get("/api/v1/cart", bearer(user.AccessToken))).Data

	assert.NotEmpty(t, first.ID)
	assert.Equal(t, first.ID, second.ID)
	assert.Empty(t, first.Items)
	assert.Equal(t, "0.00", first.Total)
}

func TestCart_UnavailableProduct(t *testing.T) {
	ts := newTestServer(t, Options{})
	user := ts.registerUser(t, "unavailable@example.com")
	ts.createProduct(t, "Retired Hat", "12.00", false)

	resp := ts.api.Post("/api/v1/cart/items/retired-hat", bearer(user.AccessToken))
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decodeEnvelope[any](t, resp).Code)

	resp = ts.api.Post("/api/v1/cart/items/never-existed", bearer(user.AccessToken))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCart_RemoveMissingLine(t *testing.T) {
	ts := newTestServer(t, Options{})
	user := ts.registerUser(t, "missing@example.com")
	ts.createProduct(t, "Shirt", "20.00", true)
	ts.createProduct(t, "Belt", "15.00", true)

	require.Equal(t, http.StatusOK, ts.api.Post("/api/v1/cart/items/belt", bearer(user.AccessToken)).Code)

	resp := ts.api.Delete("/api/v1/cart/items/shirt", bearer(user.AccessToken))
	assert.Equal(t, http.StatusNotFound, resp.Code)

	cart := decodeEnvelope[CartResponse](t, ts.api.Get("/api/v1/cart", bearer(user.AccessToken))).Data
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "belt", cart.Items[0].Slug)
	assert.Equal(t, "15.00", cart.Total)
}

func TestCart_SeparateUsersSeparateCarts(t *testing.T) {
	ts := newTestServer(t, Options{})
	alice := ts.registerUser(t, "alice@example.com")
	bob := ts.registerUser(t, "bob@example.com")
	ts.createProduct(t, "Shirt", "20.00", true)

	require.Equal(t, http.StatusOK, ts.api.Post("/api/v1/cart/items/shirt", bearer(alice.AccessToken)).Code)

	bobCart := decodeEnvelope[CartResponse](t, ts.api.Get("/api/v1/cart", bearer(bob.AccessToken))).Data
	assert.Empty(t, bobCart.Items)
}
