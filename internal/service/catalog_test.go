package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/shopfront/shopfront-server/internal/errors"
	"github.com/shopfront/shopfront-server/internal/search"
	"github.com/shopfront/shopfront-server/internal/store"
)

func TestCatalogService_CreateProductDerivesSlug(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.catalog.CreateProduct(ctx, CreateProductRequest{
		Title: "  Café Crème Mug ",
		Price: "12.5",
	})
	require.NoError(t, err)
	assert.Equal(t, "cafe-creme-mug", p.Slug)
	assert.Equal(t, "Café Crème Mug", p.Title)
	assert.True(t, p.Available)
	assert.Equal(t, "12.50", p.Price.StringFixed(2))

	got, err := env.catalog.GetBySlug(ctx, "cafe-creme-mug")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestCatalogService_CreateProductDuplicateSlug(t *testing.T) {
	env := newTestEnv(t)
	env.product(t, "Teapot", "20.00", true)

	_, err := env.catalog.CreateProduct(context.Background(), CreateProductRequest{Title: "Teapot", Price: "25.00"})
	assert.True(t, errors.Is(err, domainerrors.ErrAlreadyExists), "got %v", err)
}

func TestCatalogService_CreateProductValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		req   CreateProductRequest
		field string
	}{
		{"missing title", CreateProductRequest{Price: "1.00"}, "title"},
		{"blank title with slug", CreateProductRequest{Title: "   ", Slug: "blank", Price: "1.00"}, "title"},
		{"reserved slug", CreateProductRequest{Title: "Lamp", Slug: "search", Price: "1.00"}, "slug"},
		{"negative price", CreateProductRequest{Title: "A", Price: "-1"}, "price"},
		{"three decimals", CreateProductRequest{Title: "A", Price: "1.005"}, "price"},
		{"bad slug", CreateProductRequest{Title: "A", Slug: "Not A Slug", Price: "1"}, "slug"},
		{"negative stock", CreateProductRequest{Title: "A", Price: "1", Stock: -1}, "stock"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.catalog.CreateProduct(ctx, tt.req)
			require.Error(t, err)

			var de *domainerrors.Error
			require.True(t, errors.As(err, &de))
			assert.Equal(t, domainerrors.CodeValidation, de.Code)
			assert.Contains(t, de.Details, tt.field)
		})
	}

	_, err := env.catalog.CreateProduct(ctx, CreateProductRequest{Title: "!!!", Price: "1"})
	assert.True(t, errors.Is(err, domainerrors.ErrValidation))
}

func TestCatalogService_CreateProductBlankTitleStoresNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.catalog.CreateProduct(ctx, CreateProductRequest{Title: "   ", Slug: "blank", Price: "1.00"})
	require.Error(t, err)

	_, err = env.store.GetProductBySlug(ctx, "blank")
	assert.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)
}

func TestCatalogService_CreateProductAvoidsListingSlugs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for title, want := range map[string]string{"Search": "search-product", "Featured": "featured-product"} {
		p, err := env.catalog.CreateProduct(ctx, CreateProductRequest{Title: title, Price: "5.00"})
		require.NoError(t, err)
		assert.Equal(t, want, p.Slug)
		assert.Equal(t, title, p.Title)
	}
}

func TestCatalogService_GetBySlugHidesUnavailable(t *testing.T) {
	env := newTestEnv(t)
	env.product(t, "Ghost", "1.00", false)

	_, err := env.catalog.GetBySlug(context.Background(), "ghost")
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestCatalogService_ListAvailable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for i := range 8 {
		env.product(t, fmt.Sprintf("Item %d", i), "1.00", i != 0)
	}

	page, err := env.catalog.ListAvailable(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 7, page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 6)
	assert.True(t, page.HasNext())

	last, err := env.catalog.ListAvailable(ctx, 42, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, last.Page)
	assert.Len(t, last.Items, 1)
	assert.False(t, last.HasNext())
	assert.True(t, last.HasPrevious())

	first, err := env.catalog.ListAvailable(ctx, -3, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Page)
}

func TestCatalogService_Featured(t *testing.T) {
	env := newTestEnv(t)
	for i := range 10 {
		env.product(t, fmt.Sprintf("Featured %d", i), "1.00", true)
	}

	featured, err := env.catalog.Featured(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, featured, 8)

	three, err := env.catalog.Featured(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, three, 3)
}

func TestCatalogService_Search(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.product(t, "Linen Shirt", "20.00", true)
	env.product(t, "Flannel Shirt", "25.00", false)
	env.product(t, "Wool Scarf", "12.00", true)

	results, err := env.catalog.Search(ctx, "shirt", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "linen-shirt", results[0].Slug)

	empty, err := env.catalog.Search(ctx, "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCatalogService_SearchFollowsUpdates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.product(t, "Desk Lamp", "30.00", true)

	off := false
	_, err := env.catalog.UpdateProduct(ctx, "desk-lamp", UpdateProductRequest{Available: &off})
	require.NoError(t, err)

	results, err := env.catalog.Search(ctx, "lamp", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCatalogService_SearchIgnoresStaleIndex(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.product(t, "Old Radio", "40.00", true)

	// Withdraw the product behind the index's back.
	p.Available = false
	require.NoError(t, env.store.UpdateProduct(ctx, p))

	results, err := env.catalog.Search(ctx, "radio", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCatalogService_UpdateProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.product(t, "Plain Cap", "8.00", true)

	title := "Embroidered Cap"
	price := "9.5"
	stock := 0
	p, err := env.catalog.UpdateProduct(ctx, "plain-cap", UpdateProductRequest{
		Title: &title,
		Price: &price,
		Stock: &stock,
	})
	require.NoError(t, err)
	assert.Equal(t, "plain-cap", p.Slug)
	assert.Equal(t, "Embroidered Cap", p.Title)
	assert.Equal(t, "9.50", p.Price.StringFixed(2))
	assert.Equal(t, 0, p.Stock)

	_, err = env.catalog.UpdateProduct(ctx, "missing", UpdateProductRequest{Title: &title})
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))

	blank := "  "
	_, err = env.catalog.UpdateProduct(ctx, "plain-cap", UpdateProductRequest{Title: &blank})
	assert.True(t, errors.Is(err, domainerrors.ErrValidation))

	bad := "abc"
	_, err = env.catalog.UpdateProduct(ctx, "plain-cap", UpdateProductRequest{Price: &bad})
	assert.True(t, errors.Is(err, domainerrors.ErrValidation))
}

func TestCatalogService_ReindexAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.product(t, "Kettle", "35.00", true)
	env.product(t, "Toaster", "45.00", false)

	require.NoError(t, env.index.Rebuild())
	count, err := env.index.DocumentCount()
	require.NoError(t, err)
	require.Zero(t, count)

	n, err := env.catalog.ReindexAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	results, err := env.catalog.Search(ctx, "kettle", 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestCatalogService_NoIndex(t *testing.T) {
	env := newTestEnv(t)
	catalog := NewCatalogService(env.store, nil, nil, CatalogOptions{}, nil)

	results, err := catalog.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)

	var _ ProductIndex = (*search.Index)(nil)
}
