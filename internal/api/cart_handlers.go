package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shopfront/shopfront-server/internal/service"
)

func (s *Server) registerCartRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCart",
		Method:      http.MethodGet,
		Path:        "/api/v1/cart",
		Summary:     "View cart",
		Description: "Returns the user's cart with its lines and total, creating an empty cart on first use",
		Tags:        []string{"Cart"},
		Security:    bearerSecurity,
	}, s.handleGetCart)

	huma.Register(s.api, huma.Operation{
		OperationID: "addCartItem",
		Method:      http.MethodPost,
		Path:        "/api/v1/cart/items/{slug}",
		Summary:     "Add to cart",
		Description: "Adds one unit of an available product. Adding a product already in the cart raises its quantity by one.",
		Tags:        []string{"Cart"},
		Security:    bearerSecurity,
	}, s.handleAddCartItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeCartItem",
		Method:      http.MethodDelete,
		Path:        "/api/v1/cart/items/{slug}",
		Summary:     "Remove from cart",
		Description: "Removes the product's whole line from the cart",
		Tags:        []string{"Cart"},
		Security:    bearerSecurity,
	}, s.handleRemoveCartItem)
}

// === DTOs ===

// CartItemResponse is one cart line.
type CartItemResponse struct {
	ProductID string `json:"product_id" doc:"Product ID"`
	Slug      string `json:"slug" doc:"Product slug"`
	Title     string `json:"title" doc:"Product title"`
	ImageURL  string `json:"image_url,omitempty" doc:"Product image URL"`
	Price     string `json:"price" doc:"Unit price"`
	Quantity  int    `json:"quantity" doc:"Units in the cart"`
	LineTotal string `json:"line_total" doc:"Price times quantity"`
}

// CartResponse is a cart with its exact total.
type CartResponse struct {
	ID        string             `json:"id" doc:"Cart ID"`
	Items     []CartItemResponse `json:"items" doc:"Cart lines"`
	ItemCount int                `json:"item_count" doc:"Units across all lines"`
	Total     string             `json:"total" doc:"Sum of line totals"`
}

// CartOutput wraps a cart for Huma.
type CartOutput struct {
	Body CartResponse
}

// CartItemInput addresses a product in the user's cart.
type CartItemInput struct {
	Authorization string `header:"Authorization"`
	Slug          string `path:"slug" maxLength:"50" doc:"Product slug"`
}

// === Handlers ===

func (s *Server) handleGetCart(ctx context.Context, input *AuthenticatedInput) (*CartOutput, error) {
	user, _, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	view, err := s.services.Cart.View(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &CartOutput{Body: mapCart(view)}, nil
}

func (s *Server) handleAddCartItem(ctx context.Context, input *CartItemInput) (*CartOutput, error) {
	user, _, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	view, err := s.services.Cart.Add(ctx, user.ID, input.Slug)
	if err != nil {
		return nil, err
	}

	return &CartOutput{Body: mapCart(view)}, nil
}

func (s *Server) handleRemoveCartItem(ctx context.Context, input *CartItemInput) (*CartOutput, error) {
	user, _, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	view, err := s.services.Cart.Remove(ctx, user.ID, input.Slug)
	if err != nil {
		return nil, err
	}

	return &CartOutput{Body: mapCart(view)}, nil
}

// === Helpers ===

func mapCart(view *service.CartView) CartResponse {
	items := make([]CartItemResponse, 0, len(view.Cart.Items))
	for _, item := range view.Cart.Items {
		line := CartItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal().StringFixed(2),
		}
		if p := item.Product; p != nil {
			line.Slug = p.Slug
			line.Title = p.Title
			line.ImageURL = p.ImageURL
			line.Price = p.Price.StringFixed(2)
		}
		items = append(items, line)
	}

	return CartResponse{
		ID:        view.Cart.ID,
		Items:     items,
		ItemCount: view.ItemCount(),
		Total:     view.Total.StringFixed(2),
	}
}
