package api

import (
	"github.com/shopfront/shopfront-server/internal/search"
	"github.com/shopfront/shopfront-server/internal/service"
)

// Services groups the business services used by the API server.
type Services struct {
	Auth    *service.AuthService
	Catalog *service.CatalogService
	Cart    *service.CartService
	// Search is reported on by the health check. Nil means search is off.
	Search *search.Index
}
