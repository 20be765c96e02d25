package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shopfront/shopfront-server/internal/domain"
)

func (s *Server) registerProductRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listProducts",
		Method:      http.MethodGet,
		Path:        "/api/v1/products",
		Summary:     "List products",
		Description: "Returns one page of available products, newest first. Pages past the end serve the last page.",
		Tags:        []string{"Products"},
	}, s.handleListProducts)

	huma.Register(s.api, huma.Operation{
		OperationID: "featuredProducts",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/featured",
		Summary:     "Featured products",
		Description: "Returns the newest available products for the home page",
		Tags:        []string{"Products"},
	}, s.handleFeaturedProducts)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchProducts",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/search",
		Summary:     "Search products",
		Description: "Full-text search over available products",
		Tags:        []string{"Products"},
	}, s.handleSearchProducts)

	huma.Register(s.api, huma.Operation{
		OperationID: "getProduct",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/{slug}",
		Summary:     "Get product",
		Description: "Returns an available product by slug",
		Tags:        []string{"Products"},
	}, s.handleGetProduct)
}

// === DTOs ===

// ProductResponse is a catalog product. Prices are decimal strings with two
// places.
type ProductResponse struct {
	ID          string    `json:"id" doc:"Product ID"`
	Slug        string    `json:"slug" doc:"URL slug"`
	Title       string    `json:"title" doc:"Title"`
	Description string    `json:"description" doc:"Description"`
	ImageURL    string    `json:"image_url,omitempty" doc:"Image URL"`
	Stock       int       `json:"stock" doc:"Units in stock"`
	Price       string    `json:"price" doc:"Unit price, e.g. 19.99"`
	Available   bool      `json:"available" doc:"Whether the product can be bought"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// ProductPageResponse is one page of the catalog.
type ProductPageResponse struct {
	Items       []ProductResponse `json:"items" doc:"Products on this page"`
	Page        int               `json:"page" doc:"Page served"`
	PerPage     int               `json:"per_page" doc:"Products per page"`
	TotalItems  int               `json:"total_items" doc:"Available products in total"`
	TotalPages  int               `json:"total_pages" doc:"Number of pages"`
	HasNext     bool              `json:"has_next" doc:"Whether a later page exists"`
	HasPrevious bool              `json:"has_previous" doc:"Whether an earlier page exists"`
}

// ListProductsInput selects a catalog page. The page is a string so that
// malformed values fall back to the first page instead of failing.
type ListProductsInput struct {
	Page string `query:"page" maxLength:"20" doc:"Page number, starting at 1. Anything else serves page 1"`
}

// pageNumber parses a page query value. Non-numeric input means page 1.
func pageNumber(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return n
}

// ProductPageOutput wraps a catalog page for Huma.
type ProductPageOutput struct {
	Body ProductPageResponse
}

// FeaturedInput limits the featured list.
type FeaturedInput struct {
	Limit int `query:"limit" minimum:"0" maximum:"50" doc:"Number of products (default from server config)"`
}

// SearchInput contains search parameters.
type SearchInput struct {
	Query string `query:"q" maxLength:"200" doc:"Search query"`
	Limit int    `query:"limit" default:"20" minimum:"1" maximum:"100" doc:"Max results"`
}

// ProductListResponse is an unpaged list of products.
type ProductListResponse struct {
	Items []ProductResponse `json:"items" doc:"Products"`
}

// ProductListOutput wraps a product list for Huma.
type ProductListOutput struct {
	Body ProductListResponse
}

// ProductSlugInput addresses a product by slug.
type ProductSlugInput struct {
	Slug string `path:"slug" maxLength:"50" doc:"Product slug"`
}

// ProductOutput wraps a product for Huma.
type ProductOutput struct {
	Body ProductResponse
}

// === Handlers ===

func (s *Server) handleListProducts(ctx context.Context, input *ListProductsInput) (*ProductPageOutput, error) {
	page, err := s.services.Catalog.ListAvailable(ctx, pageNumber(input.Page), 0)
	if err != nil {
		return nil, err
	}

	return &ProductPageOutput{Body: ProductPageResponse{
		Items:       mapProducts(page.Items),
		Page:        page.Page,
		PerPage:     page.PerPage,
		TotalItems:  page.TotalItems,
		TotalPages:  page.TotalPages,
		HasNext:     page.HasNext(),
		HasPrevious: page.HasPrevious(),
	}}, nil
}

func (s *Server) handleFeaturedProducts(ctx context.Context, input *FeaturedInput) (*ProductListOutput, error) {
	products, err := s.services.Catalog.Featured(ctx, input.Limit)
	if err != nil {
		return nil, err
	}

	return &ProductListOutput{Body: ProductListResponse{Items: mapProducts(products)}}, nil
}

func (s *Server) handleSearchProducts(ctx context.Context, input *SearchInput) (*ProductListOutput, error) {
	products, err := s.services.Catalog.Search(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, err
	}

	return &ProductListOutput{Body: ProductListResponse{Items: mapProducts(products)}}, nil
}

func (s *Server) handleGetProduct(ctx context.Context, input *ProductSlugInput) (*ProductOutput, error) {
	product, err := s.services.Catalog.GetBySlug(ctx, input.Slug)
	if err != nil {
		return nil, err
	}

	return &ProductOutput{Body: mapProduct(product)}, nil
}

// === Helpers ===

func mapProduct(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Slug:        p.Slug,
		Title:       p.Title,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Stock:       p.Stock,
		Price:       p.Price.StringFixed(2),
		Available:   p.Available,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func mapProducts(products []*domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, mapProduct(p))
	}
	return out
}
