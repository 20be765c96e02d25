package search

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/shopfront-server/internal/domain"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	index, err := NewIndex(Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	return index
}

func testProduct(id, title, description string, available bool) *domain.Product {
	return &domain.Product{
		Entity:      domain.Entity{ID: id, CreatedAt: time.Now()},
		Slug:        id,
		Title:       title,
		Description: description,
		Price:       decimal.RequireFromString("10.00"),
		Available:   available,
	}
}

func TestNewIndex_MemoryOnly(t *testing.T) {
	index := newTestIndex(t)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestIndex_SearchByTitleAndDescription(t *testing.T) {
	index := newTestIndex(t)
	require.NoError(t, index.IndexProducts([]*ProductDocument{
		NewProductDocument(testProduct("linen-shirt", "Linen Shirt", "Breathable summer shirt", true)),
		NewProductDocument(testProduct("wool-scarf", "Wool Scarf", "Keeps you warm", true)),
		NewProductDocument(testProduct("canvas-bag", "Canvas Bag", "Fits a shirt or two", true)),
	}))

	res, err := index.Search(context.Background(), Params{Query: "shirt"})
	require.NoError(t, err)
	require.Equal(t, uint64(2), res.Total)
	// Title matches outrank description matches.
	assert.Equal(t, "linen-shirt", res.Hits[0].ID)
	assert.Equal(t, "Linen Shirt", res.Hits[0].Title)
	assert.Equal(t, []string{"linen-shirt", "canvas-bag"}, res.IDs())
}

func TestIndex_SearchStemmingAndFuzzy(t *testing.T) {
	index := newTestIndex(t)
	require.NoError(t, index.IndexProduct(NewProductDocument(testProduct("mugs", "Ceramic Mugs", "", true))))

	for _, q := range []string{"mug", "ceramc", "cera"} {
		res, err := index.Search(context.Background(), Params{Query: q})
		require.NoError(t, err, q)
		assert.Equal(t, uint64(1), res.Total, q)
	}
}

func TestIndex_AvailableOnly(t *testing.T) {
	index := newTestIndex(t)
	require.NoError(t, index.IndexProduct(NewProductDocument(testProduct("lamp-a", "Desk Lamp", "", true))))
	require.NoError(t, index.IndexProduct(NewProductDocument(testProduct("lamp-b", "Floor Lamp", "", false))))

	all, err := index.Search(context.Background(), Params{Query: "lamp"})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), all.Total)

	available, err := index.Search(context.Background(), Params{Query: "lamp", AvailableOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"lamp-a"}, available.IDs())
}

func TestIndex_ReplaceAndDelete(t *testing.T) {
	index := newTestIndex(t)
	p := testProduct("p1", "Green Hat", "", true)
	require.NoError(t, index.IndexProduct(NewProductDocument(p)))

	p.Title = "Red Hat"
	require.NoError(t, index.IndexProduct(NewProductDocument(p)))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	res, err := index.Search(context.Background(), Params{Query: "green"})
	require.NoError(t, err)
	assert.Zero(t, res.Total)

	require.NoError(t, index.DeleteProduct("p1"))
	count, err = index.DocumentCount()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestIndex_Limit(t *testing.T) {
	index := newTestIndex(t)
	var docs []*ProductDocument
	for _, id := range []string{"a", "b", "c", "d"} {
		docs = append(docs, NewProductDocument(testProduct(id, "Sock "+id, "", true)))
	}
	require.NoError(t, index.IndexProducts(docs))

	res, err := index.Search(context.Background(), Params{Query: "sock", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, uint64(4), res.Total)
	assert.Len(t, res.Hits, 2)
}

func TestNewIndex_OnDiskReopenAndVersion(t *testing.T) {
	dir := t.TempDir()

	index, err := NewIndex(Options{DataPath: dir})
	require.NoError(t, err)
	require.NoError(t, index.IndexProduct(NewProductDocument(testProduct("p1", "Teapot", "", true))))
	require.NoError(t, index.Close())

	reopened, err := NewIndex(Options{DataPath: dir})
	require.NoError(t, err)
	count, err := reopened.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	require.NoError(t, reopened.Rebuild())
	count, err = reopened.DocumentCount()
	require.NoError(t, err)
	assert.Zero(t, count)
	require.NoError(t, reopened.Close())
}
