package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/shopfront/shopfront-server/internal/domain"
	domainerrors "github.com/shopfront/shopfront-server/internal/errors"
	"github.com/shopfront/shopfront-server/internal/id"
	"github.com/shopfront/shopfront-server/internal/search"
	"github.com/shopfront/shopfront-server/internal/store"
	"github.com/shopfront/shopfront-server/internal/validation"
)

// ProductIndex is the full-text index the catalog keeps in step with the
// store.
type ProductIndex interface {
	IndexProduct(doc *search.ProductDocument) error
	IndexProducts(docs []*search.ProductDocument) error
	DeleteProduct(id string) error
	Rebuild() error
	Search(ctx context.Context, params search.Params) (*search.Result, error)
}

// noopIndex is used when search is disabled.
type noopIndex struct{}

func (noopIndex) IndexProduct(*search.ProductDocument) error    { return nil }
func (noopIndex) IndexProducts([]*search.ProductDocument) error { return nil }
func (noopIndex) DeleteProduct(string) error                    { return nil }
func (noopIndex) Rebuild() error                                { return nil }
func (noopIndex) Search(context.Context, search.Params) (*search.Result, error) {
	return &search.Result{Hits: []search.Hit{}}, nil
}

// CatalogOptions sets listing sizes.
type CatalogOptions struct {
	PageSize      int
	FeaturedLimit int
}

// CatalogService serves the product catalog and its admin operations.
type CatalogService struct {
	store     store.Store
	index     ProductIndex
	validator *validation.Validator
	opts      CatalogOptions
	logger    *slog.Logger
}

// NewCatalogService creates a catalog service. A nil index disables search.
func NewCatalogService(
	st store.Store,
	index ProductIndex,
	validator *validation.Validator,
	opts CatalogOptions,
	logger *slog.Logger,
) *CatalogService {
	if index == nil {
		index = noopIndex{}
	}
	if opts.PageSize <= 0 {
		opts.PageSize = store.DefaultPerPage
	}
	if opts.FeaturedLimit <= 0 {
		opts.FeaturedLimit = 8
	}
	return &CatalogService{
		store:     st,
		index:     index,
		validator: validator,
		opts:      opts,
		logger:    logger,
	}
}

// GetBySlug returns an available product. Unavailable products are
// NotFound, exactly like missing ones.
func (s *CatalogService) GetBySlug(ctx context.Context, productSlug string) (*domain.Product, error) {
	p, err := s.store.GetAvailableProductBySlug(ctx, productSlug)
	if err != nil {
		return nil, translateStoreError(err, fmt.Sprintf("product %q not found", productSlug))
	}
	return p, nil
}

// ListAvailable returns one page of available products, newest first.
// page below 1 serves the first page and page past the end serves the last.
// perPage 0 uses the configured page size.
func (s *CatalogService) ListAvailable(ctx context.Context, page, perPage int) (*store.Page[*domain.Product], error) {
	if perPage <= 0 {
		perPage = s.opts.PageSize
	}
	result, err := s.store.ListAvailableProducts(ctx, store.PageParams{Page: page, PerPage: perPage})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return result, nil
}

// Featured returns the newest available products for the home page.
func (s *CatalogService) Featured(ctx context.Context, limit int) ([]*domain.Product, error) {
	if limit <= 0 {
		limit = s.opts.FeaturedLimit
	}
	result, err := s.store.ListAvailableProducts(ctx, store.PageParams{Page: 1, PerPage: limit})
	if err != nil {
		return nil, fmt.Errorf("list featured products: %w", err)
	}
	return result.Items, nil
}

// Search returns available products matching query in relevance order.
// Products are re-read from the store so a stale index never exposes an
// unavailable product.
func (s *CatalogService) Search(ctx context.Context, query string, limit int) ([]*domain.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*domain.Product{}, nil
	}

	res, err := s.index.Search(ctx, search.Params{Query: query, AvailableOnly: true, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	products, err := s.store.GetAvailableProductsByIDs(ctx, res.IDs())
	if err != nil {
		return nil, fmt.Errorf("load search hits: %w", err)
	}
	return products, nil
}

// CreateProductRequest is the admin input for a new product.
type CreateProductRequest struct {
	Title       string `json:"title" validate:"required,max=150"`
	Slug        string `json:"slug,omitempty" validate:"omitempty,max=50,slug"`
	Description string `json:"description,omitempty" validate:"max=5000"`
	ImageURL    string `json:"image_url,omitempty" validate:"omitempty,url"`
	Stock       int    `json:"stock" validate:"gte=0"`
	Price       string `json:"price" validate:"required,price"`
	Available   *bool  `json:"available,omitempty"`
}

// CreateProduct validates and stores a product. The slug is derived from
// the title when omitted. New products are available unless the request
// says otherwise.
func (s *CatalogService) CreateProduct(ctx context.Context, req CreateProductRequest) (*domain.Product, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return nil, domainerrors.Validation("price is invalid").WithCause(err)
	}

	productID, err := id.Generate(id.PrefixProduct)
	if err != nil {
		return nil, fmt.Errorf("generate product ID: %w", err)
	}

	p := &domain.Product{
		Entity:      domain.Entity{ID: productID},
		Slug:        req.Slug,
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		Price:       price,
		Available:   req.Available == nil || *req.Available,
	}
	p.EnsureSlug()
	if p.Slug == "" {
		return nil, domainerrors.ValidationWithDetails("validation failed: slug",
			map[string]string{"slug": "cannot be derived from the title"})
	}
	p.InitTimestamps()

	if err := s.store.CreateProduct(ctx, p); err != nil {
		if errors.Is(err, store.ErrSlugExists) {
			return nil, domainerrors.AlreadyExistsf("product slug %q already exists", p.Slug).WithCause(err)
		}
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.indexProduct(p)

	s.logger.Info("Product created", "product_id", p.ID, "slug", p.Slug)
	return p, nil
}

// UpdateProductRequest changes only the fields that are set. The slug is
// permanent.
type UpdateProductRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=150"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
	Stock       *int    `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Price       *string `json:"price,omitempty" validate:"omitempty,price"`
	Available   *bool   `json:"available,omitempty"`
}

// UpdateProduct applies req to the product with the given slug, available
// or not.
func (s *CatalogService) UpdateProduct(ctx context.Context, productSlug string, req UpdateProductRequest) (*domain.Product, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	p, err := s.store.GetProductBySlug(ctx, productSlug)
	if err != nil {
		return nil, translateStoreError(err, fmt.Sprintf("product %q not found", productSlug))
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domainerrors.ValidationWithDetails("validation failed: title",
				map[string]string{"title": "is required"})
		}
		p.Title = title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.ImageURL != nil {
		p.ImageURL = *req.ImageURL
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.Price != nil {
		if p.Price, err = decimal.NewFromString(*req.Price); err != nil {
			return nil, domainerrors.Validation("price is invalid").WithCause(err)
		}
	}
	if req.Available != nil {
		p.Available = *req.Available
	}
	p.Touch()

	if err := s.store.UpdateProduct(ctx, p); err != nil {
		return nil, translateStoreError(err, fmt.Sprintf("product %q not found", productSlug))
	}

	s.indexProduct(p)

	s.logger.Info("Product updated", "product_id", p.ID, "slug", p.Slug, "available", p.Available)
	return p, nil
}

// ReindexAll rebuilds the search index from the store and returns the
// number of products indexed.
func (s *CatalogService) ReindexAll(ctx context.Context) (int, error) {
	var products []*domain.Product

	// Loading the catalog and clearing the index are independent.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.store.ListAllProducts(gctx)
		return err
	})
	g.Go(s.index.Rebuild)
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("prepare reindex: %w", err)
	}

	docs := make([]*search.ProductDocument, len(products))
	for i, p := range products {
		docs[i] = search.NewProductDocument(p)
	}
	if err := s.index.IndexProducts(docs); err != nil {
		return 0, fmt.Errorf("index products: %w", err)
	}

	s.logger.Info("Search index rebuilt", "products", len(docs))
	return len(docs), nil
}

// indexProduct keeps the index in step with a write that already committed.
// Index failures are logged; ReindexAll repairs them.
func (s *CatalogService) indexProduct(p *domain.Product) {
	if err := s.index.IndexProduct(search.NewProductDocument(p)); err != nil {
		s.logger.Warn("Failed to index product", "product_id", p.ID, "error", err)
	}
}
