package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shopfront/shopfront-server/internal/service"
)

func (s *Server) registerAdminRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createProduct",
		Method:        http.MethodPost,
		Path:          "/api/v1/admin/products",
		Summary:       "Create product",
		Description:   "Adds a product to the catalog. The slug is derived from the title when omitted.",
		Tags:          []string{"Admin"},
		Security:      bearerSecurity,
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateProduct)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProduct",
		Method:      http.MethodPatch,
		Path:        "/api/v1/admin/products/{slug}",
		Summary:     "Update product",
		Description: "Changes the given fields of a product. The slug never changes.",
		Tags:        []string{"Admin"},
		Security:    bearerSecurity,
	}, s.handleUpdateProduct)
}

// === DTOs ===

// CreateProductRequest is the request body for a new product.
type CreateProductRequest struct {
	Title       string `json:"title" maxLength:"150" doc:"Title"`
	Slug        string `json:"slug,omitempty" maxLength:"50" doc:"URL slug, derived from the title when omitted"`
	Description string `json:"description,omitempty" doc:"Description"`
	ImageURL    string `json:"image_url,omitempty" doc:"Image URL"`
	Stock       int    `json:"stock,omitempty" doc:"Units in stock"`
	Price       string `json:"price" doc:"Unit price with at most two decimal places, e.g. 19.99"`
	Available   *bool  `json:"available,omitempty" doc:"Whether the product can be bought (default true)"`
}

// CreateProductInput wraps the create request for Huma.
type CreateProductInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateProductRequest
}

// UpdateProductRequest is the request body for a partial product update.
type UpdateProductRequest struct {
	Title       *string `json:"title,omitempty" maxLength:"150" doc:"Title"`
	Description *string `json:"description,omitempty" doc:"Description"`
	ImageURL    *string `json:"image_url,omitempty" doc:"Image URL"`
	Stock       *int    `json:"stock,omitempty" doc:"Units in stock"`
	Price       *string `json:"price,omitempty" doc:"Unit price"`
	Available   *bool   `json:"available,omitempty" doc:"Whether the product can be bought"`
}

// UpdateProductInput wraps the update request for Huma.
type UpdateProductInput struct {
	Authorization string `header:"Authorization"`
	Slug          string `path:"slug" maxLength:"50" doc:"Product slug"`
	Body          UpdateProductRequest
}

// === Handlers ===

func (s *Server) handleCreateProduct(ctx context.Context, input *CreateProductInput) (*ProductOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	product, err := s.services.Catalog.CreateProduct(ctx, service.CreateProductRequest{
		Title:       input.Body.Title,
		Slug:        input.Body.Slug,
		Description: input.Body.Description,
		ImageURL:    input.Body.ImageURL,
		Stock:       input.Body.Stock,
		Price:       input.Body.Price,
		Available:   input.Body.Available,
	})
	if err != nil {
		return nil, err
	}

	return &ProductOutput{Body: mapProduct(product)}, nil
}

func (s *Server) handleUpdateProduct(ctx context.Context, input *UpdateProductInput) (*ProductOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	product, err := s.services.Catalog.UpdateProduct(ctx, input.Slug, service.UpdateProductRequest{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		ImageURL:    input.Body.ImageURL,
		Stock:       input.Body.Stock,
		Price:       input.Body.Price,
		Available:   input.Body.Available,
	})
	if err != nil {
		return nil, err
	}

	return &ProductOutput{Body: mapProduct(product)}, nil
}
