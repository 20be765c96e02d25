package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProducts_Pagination(t *testing.T) {
	ts := newTestServer(t, Options{})
	for i := range 8 {
		ts.createProduct(t, fmt.Sprintf("Product %d", i+1), "5.00", true)
	}
	ts.createProduct(t, "Hidden", "5.00", false)

	resp := ts.api.Get("/api/v1/products")
	require.Equal(t, http.StatusOK, resp.Code)

	page := decodeEnvelope[ProductPageResponse](t, resp).Data
	assert.Len(t, page.Items, 6)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 8, page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrevious)
	assert.Equal(t, "5.00", page.Items[0].Price)

	resp = ts.api.Get("/api/v1/products?page=99")
	require.Equal(t, http.StatusOK, resp.Code)
	page = decodeEnvelope[ProductPageResponse](t, resp).Data
	assert.Equal(t, 2, page.Page, "pages past the end serve the last page")
	assert.Len(t, page.Items, 2)

	for _, raw := range []string{"0", "-3", "abc", ""} {
		resp = ts.api.Get("/api/v1/products?page=" + raw)
		require.Equal(t, http.StatusOK, resp.Code, "page=%q", raw)
		assert.Equal(t, 1, decodeEnvelope[ProductPageResponse](t, resp).Data.Page, "page=%q", raw)
	}

	for _, p := range page.Items {
		assert.NotEqual(t, "hidden", p.Slug)
	}
}

func TestListProducts_EmptyCatalog(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/products")
	require.Equal(t, http.StatusOK, resp.Code)

	page := decodeEnvelope[ProductPageResponse](t, resp).Data
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 1, page.TotalPages)
}

func TestGetProduct_TitleMatchingListingRoute(t *testing.T) {
	ts := newTestServer(t, Options{})
	search := ts.createProduct(t, "Search", "8.00", true)
	featured := ts.createProduct(t, "Featured", "9.00", true)

	for _, p := range []struct{ id, slug string }{{search.ID, search.Slug}, {featured.ID, featured.Slug}} {
		resp := ts.api.Get("/api/v1/products/" + p.slug)
		require.Equal(t, http.StatusOK, resp.Code, p.slug)
		assert.Equal(t, p.id, decodeEnvelope[ProductResponse](t, resp).Data.ID)
	}

	// The listings keep their paths.
	resp := ts.api.Get("/api/v1/products/search?q=search")
	require.Equal(t, http.StatusOK, resp.Code)
	items := decodeEnvelope[ProductListResponse](t, resp).Data.Items
	require.Len(t, items, 1)
	assert.Equal(t, "search-product", items[0].Slug)
}

func TestFeaturedProducts(t *testing.T) {
	ts := newTestServer(t, Options{})
	for i := range 10 {
		ts.createProduct(t, fmt.Sprintf("Item %d", i+1), "1.00", true)
	}

	resp := ts.api.Get("/api/v1/products/featured")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decodeEnvelope[ProductListResponse](t, resp).Data.Items, 8)

	resp = ts.api.Get("/api/v1/products/featured?limit=3")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decodeEnvelope[ProductListResponse](t, resp).Data.Items, 3)
}

func TestGetProduct(t *testing.T) {
	ts := newTestServer(t, Options{})
	ts.createProduct(t, "Blue Shirt", "19.9", true)
	ts.createProduct(t, "Old Hat", "4.00", false)

	resp := ts.api.Get("/api/v1/products/blue-shirt")
	require.Equal(t, http.StatusOK, resp.Code)
	product := decodeEnvelope[ProductResponse](t, resp).Data
	assert.Equal(t, "Blue Shirt", product.Title)
	assert.Equal(t, "19.90", product.Price)

	for _, slug := range []string{"old-hat", "no-such-product"} {
		resp = ts.api.Get("/api/v1/products/" + slug)
		assert.Equal(t, http.StatusNotFound, resp.Code, slug)
		assert.Equal(t, "NOT_FOUND", decodeEnvelope[any](t, resp).Code)
	}
}

func TestSearchProducts(t *testing.T) {
	ts := newTestServer(t, Options{})
	ts.createProduct(t, "Linen Shirt", "30.00", true)
	ts.createProduct(t, "Flannel Shirt", "35.00", false)
	ts.createProduct(t, "Wool Scarf", "15.00", true)

	resp := ts.api.Get("/api/v1/products/search?q=shirt")
	require.Equal(t, http.StatusOK, resp.Code)

	items := decodeEnvelope[ProductListResponse](t, resp).Data.Items
	require.Len(t, items, 1)
	assert.Equal(t, "linen-shirt", items[0].Slug)

	resp = ts.api.Get("/api/v1/products/search")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decodeEnvelope[ProductListResponse](t, resp).Data.Items)
}
